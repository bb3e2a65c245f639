package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

type ApplicationHandler struct {
	apps ports.ApplicationService
}

func NewApplicationHandler(apps ports.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{apps: apps}
}

type applyRequest struct {
	TaskID  string `json:"taskId" validate:"required"`
	Message string `json:"message,omitempty" validate:"max=1000"`
}

type applicationEnvelope struct {
	Success     bool                `json:"success"`
	Application *domain.Application `json:"application"`
}

// Apply handles POST /applications.
//
// @Summary      Apply to a task
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      applyRequest  true  "Task and cover message"
// @Success      201   {object}  applicationEnvelope
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /applications [post]
func (h *ApplicationHandler) Apply(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req applyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	app, err := h.apps.Apply(c.Request().Context(), req.TaskID, userID, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, applicationEnvelope{Success: true, Application: app})
}

// Mine handles GET /applications/my-applications.
//
// @Summary      List the caller's applications
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse
// @Router       /applications/my-applications [get]
func (h *ApplicationHandler) Mine(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	apps, err := h.apps.MyApplications(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Data: apps, Count: len(apps)})
}

// ForTask handles GET /applications/task/:taskId. Only the poster may list.
//
// @Summary      List applications for a task
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  path      string  true  "Task id"
// @Success      200     {object}  listResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /applications/task/{taskId} [get]
func (h *ApplicationHandler) ForTask(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	apps, err := h.apps.ForTask(c.Request().Context(), c.Param("taskId"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Data: apps, Count: len(apps)})
}

// Reject handles PUT /applications/:appId/reject.
//
// @Summary      Reject an application
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        appId  path      string  true  "Application id"
// @Success      200    {object}  applicationEnvelope
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /applications/{appId}/reject [put]
func (h *ApplicationHandler) Reject(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	app, err := h.apps.Reject(c.Request().Context(), c.Param("appId"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, applicationEnvelope{Success: true, Application: app})
}
