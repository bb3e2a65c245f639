package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

// AdminHandler backs the admin console. Routes are mounted behind RBAC.
type AdminHandler struct {
	admin ports.AdminService
}

func NewAdminHandler(admin ports.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type listUsersQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=active suspended deleted"`
	Search string `query:"search"`
	Page   int    `query:"page" validate:"gte=0"`
	Limit  int    `query:"limit" validate:"gte=0,lte=100"`
}

type setStatusRequest struct {
	AccountStatus string `json:"accountStatus" validate:"required,oneof=active suspended deleted"`
}

type dashboardResponse struct {
	Success           bool    `json:"success"`
	TotalUsers        int64   `json:"totalUsers"`
	ActiveUsers       int64   `json:"activeUsers"`
	TotalTasks        int64   `json:"totalTasks"`
	ActiveTasks       int64   `json:"activeTasks"`
	CompletedTasks    int64   `json:"completedTasks"`
	ActiveUserPercent float64 `json:"activeUserPercent"`
	CompletionPercent float64 `json:"completionPercent"`
}

type usersPageResponse struct {
	Success bool           `json:"success"`
	Users   []*domain.User `json:"users"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
}

// Dashboard handles GET /admin/dashboard.
//
// @Summary      Admin dashboard counters
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	d, err := h.admin.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{
		Success:           true,
		TotalUsers:        d.TotalUsers,
		ActiveUsers:       d.ActiveUsers,
		TotalTasks:        d.TotalTasks,
		ActiveTasks:       d.ActiveTasks,
		CompletedTasks:    d.CompletedTasks,
		ActiveUserPercent: d.ActiveUserPercent,
		CompletionPercent: d.CompletionPercent,
	})
}

// ListUsers handles GET /admin/users.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "active | suspended | deleted"
// @Param        search  query     string  false  "Partial match on username, email or name"
// @Param        page    query     int     false  "1-based page"
// @Param        limit   query     int     false  "Page size (<=100)"
// @Success      200     {object}  usersPageResponse
// @Failure      400     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	var q listUsersQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	res, err := h.admin.ListUsers(c.Request().Context(), ports.ListUsersFilter{
		AccountStatus: domain.AccountStatus(q.Status),
		Search:        q.Search,
		Page:          q.Page,
		Limit:         q.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersPageResponse{
		Success: true,
		Users:   res.Users,
		Total:   res.Total,
		Page:    res.Page,
		Limit:   res.Limit,
	})
}

// GetUser handles GET /admin/users/:id.
//
// @Summary      Get any user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userEnvelope
// @Failure      404  {object}  errorResponse
// @Router       /admin/users/{id} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	user, err := h.admin.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userEnvelope{Success: true, User: user})
}

// SetStatus handles PUT /admin/users/:id/status.
//
// @Summary      Change a user's account status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "User id"
// @Param        body  body      setStatusRequest  true  "New status"
// @Success      200   {object}  userEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/users/{id}/status [put]
func (h *AdminHandler) SetStatus(c echo.Context) error {
	var req setStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.admin.SetAccountStatus(c.Request().Context(), c.Param("id"), domain.AccountStatus(req.AccountStatus))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userEnvelope{Success: true, User: user})
}

// DeleteUser handles DELETE /admin/users/:id.
//
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	if err := h.admin.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "user deleted"})
}

// ActiveUsers handles GET /admin/active-users for the admin map.
//
// @Summary      Logged-in users with a location
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse
// @Router       /admin/active-users [get]
func (h *AdminHandler) ActiveUsers(c echo.Context) error {
	users, err := h.admin.ActiveUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Data: users, Count: len(users)})
}
