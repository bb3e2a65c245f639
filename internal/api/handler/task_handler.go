package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/snufix/taskflow/internal/api/metrics"
	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

// TaskHandler serves task posting, browsing, lifecycle and task discovery.
type TaskHandler struct {
	tasks     ports.TaskService
	proximity ports.ProximityService
}

func NewTaskHandler(tasks ports.TaskService, proximity ports.ProximityService) *TaskHandler {
	return &TaskHandler{tasks: tasks, proximity: proximity}
}

// createTaskRequest carries an optional location; both coordinates or none.
// The pairing is enforced by the service.
type createTaskRequest struct {
	Category        string   `json:"taskCategory" validate:"required,max=60"`
	Type            string   `json:"taskType,omitempty" validate:"max=60"`
	Description     string   `json:"taskDescription" validate:"required,max=2000"`
	Address         string   `json:"address,omitempty" validate:"max=300"`
	PaymentAmount   float64  `json:"paymentAmount" validate:"gte=0"`
	AdditionalNotes string   `json:"additionalNotes,omitempty" validate:"max=1000"`
	Latitude        *float64 `json:"latitude,omitempty" validate:"omitempty,lat"`
	Longitude       *float64 `json:"longitude,omitempty" validate:"omitempty,lng"`
}

// nearbyTasksRequest: radius is in meters.
type nearbyTasksRequest struct {
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,lat" example:"17.385"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,lng" example:"78.4867"`
	Radius    float64  `json:"radius,omitempty" validate:"gte=0" example:"5000"`
}

type selectWorkerRequest struct {
	WorkerID string `json:"workerId" validate:"required"`
}

type listTasksQuery struct {
	Category string `query:"category"`
	Search   string `query:"search"`
	Sort     string `query:"sort" validate:"omitempty,oneof=recent popular"`
	Limit    int    `query:"limit" validate:"gte=0,lte=100"`
}

// Create handles POST /tasks.
//
// @Summary      Post a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  taskEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.tasks.Create(c.Request().Context(), ports.CreateTaskInput{
		PostedBy:        userID,
		Category:        req.Category,
		Type:            req.Type,
		Description:     req.Description,
		Address:         req.Address,
		PaymentAmount:   req.PaymentAmount,
		AdditionalNotes: req.AdditionalNotes,
		Lat:             req.Latitude,
		Lng:             req.Longitude,
	})
	if err != nil {
		return err
	}
	metrics.TasksCreatedTotal.WithLabelValues(strconv.FormatBool(task.Location != nil)).Inc()

	return c.JSON(http.StatusCreated, taskEnvelope{Success: true, Task: taskResponse{Task: task}})
}

// List handles GET /tasks.
//
// @Summary      Browse active tasks
// @Tags         tasks
// @Produce      json
// @Param        category  query     string  false  "Exact category"
// @Param        search    query     string  false  "Partial match on description or category"
// @Param        sort      query     string  false  "recent (default) or popular"
// @Param        limit     query     int     false  "Max results (<=100)"
// @Success      200       {object}  listResponse
// @Failure      400       {object}  errorResponse
// @Router       /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	var q listTasksQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	details, err := h.tasks.List(c.Request().Context(), ports.ListTasksFilter{
		Category: q.Category,
		Search:   q.Search,
		Sort:     q.Sort,
		Limit:    q.Limit,
	})
	if err != nil {
		return err
	}
	out := toTaskDetailResponses(details)
	return c.JSON(http.StatusOK, listResponse{Success: true, Data: out, Count: len(out)})
}

// MyTasks handles GET /tasks/my-tasks.
//
// @Summary      List the caller's posted tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse
// @Failure      401  {object}  errorResponse
// @Router       /tasks/my-tasks [get]
func (h *TaskHandler) MyTasks(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	tasks, err := h.tasks.MyTasks(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Data: tasks, Count: len(tasks)})
}

// Get handles GET /tasks/:taskId and counts the view.
//
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        taskId  path      string  true  "Task id"
// @Success      200     {object}  taskEnvelope
// @Failure      404     {object}  errorResponse
// @Router       /tasks/{taskId} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	detail, err := h.tasks.Get(c.Request().Context(), c.Param("taskId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, taskEnvelope{
		Success: true,
		Task:    taskResponse{Task: detail.Task, Poster: detail.Poster},
	})
}

// Nearby handles POST /tasks/nearby.
//
// @Summary      Find active tasks near a point
// @Description  Results are nearest first, capped at 50. radius is in meters (default 5000, max 100000).
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      nearbyTasksRequest  true  "Search center and radius"
// @Success      200   {object}  nearbyTasksResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /tasks/nearby [post]
func (h *TaskHandler) Nearby(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req nearbyTasksRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.ProximityQueriesTotal.WithLabelValues(metrics.KindTasks, "invalid").Inc()
		return err
	}

	start := time.Now()
	tasks, err := h.proximity.NearbyTasks(c.Request().Context(), ports.NearbyInput{
		RequesterID:       userID,
		Lat:               req.Latitude,
		Lng:               req.Longitude,
		MaxDistanceMeters: req.Radius,
	})
	observeProximity(metrics.KindTasks, start, len(tasks), err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, nearbyTasksResponse{Success: true, Tasks: toNearbyTaskResponses(tasks)})
}

// SelectWorker handles POST /tasks/:taskId/select-worker.
//
// @Summary      Select an applicant as the task's worker
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  path      string               true  "Task id"
// @Param        body    body      selectWorkerRequest  true  "Chosen worker"
// @Success      200     {object}  taskEnvelope
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Router       /tasks/{taskId}/select-worker [post]
func (h *TaskHandler) SelectWorker(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req selectWorkerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.tasks.SelectWorker(c.Request().Context(), c.Param("taskId"), userID, req.WorkerID)
	return h.transitioned(c, task, err)
}

// Complete handles PUT /tasks/:taskId/complete.
//
// @Summary      Mark a task completed
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  path      string  true  "Task id"
// @Success      200     {object}  taskEnvelope
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Router       /tasks/{taskId}/complete [put]
func (h *TaskHandler) Complete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	task, err := h.tasks.Complete(c.Request().Context(), c.Param("taskId"), userID)
	return h.transitioned(c, task, err)
}

// Cancel handles PUT /tasks/:taskId/cancel.
//
// @Summary      Cancel a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  path      string  true  "Task id"
// @Success      200     {object}  taskEnvelope
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Router       /tasks/{taskId}/cancel [put]
func (h *TaskHandler) Cancel(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	task, err := h.tasks.Cancel(c.Request().Context(), c.Param("taskId"), userID)
	return h.transitioned(c, task, err)
}

// Delete handles DELETE /tasks/:taskId.
//
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  path      string  true  "Task id"
// @Success      200     {object}  messageResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /tasks/{taskId} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.tasks.Delete(c.Request().Context(), c.Param("taskId"), userID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "task deleted"})
}

func (h *TaskHandler) transitioned(c echo.Context, task *domain.Task, err error) error {
	if err != nil {
		return err
	}
	metrics.TaskTransitionsTotal.WithLabelValues(string(task.Status)).Inc()
	return c.JSON(http.StatusOK, taskEnvelope{Success: true, Task: taskResponse{Task: task}})
}
