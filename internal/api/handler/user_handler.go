package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/snufix/taskflow/internal/api/metrics"
	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

// UserHandler serves profile reads, location reports and worker discovery.
type UserHandler struct {
	users     ports.UserService
	proximity ports.ProximityService
}

func NewUserHandler(users ports.UserService, proximity ports.ProximityService) *UserHandler {
	return &UserHandler{users: users, proximity: proximity}
}

type setLocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,lat" example:"17.385"`
	Longitude *float64 `json:"longitude" validate:"required,lng" example:"78.4867"`
	Address   string   `json:"address,omitempty" validate:"max=300"`
}

// nearbyWorkersRequest omits latitude/longitude to search around the
// caller's stored location. MaxDistance is in meters.
type nearbyWorkersRequest struct {
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,lat" example:"17.385"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,lng" example:"78.4867"`
	MaxDistance float64  `json:"maxDistance,omitempty" validate:"gte=0" example:"5000"`
}

type updateProfileRequest struct {
	FullName       *string  `json:"fullName,omitempty" validate:"omitempty,max=100"`
	Phone          *string  `json:"phone,omitempty" validate:"omitempty,max=30"`
	Bio            *string  `json:"bio,omitempty" validate:"omitempty,max=500"`
	ProfilePicture *string  `json:"profilePicture,omitempty" validate:"omitempty,max=500"`
	Skills         []string `json:"skills,omitempty" validate:"omitempty,max=30,dive,min=1,max=50"`
	HourlyRate     *float64 `json:"hourlyRate,omitempty" validate:"omitempty,gte=0"`
}

type userStatsResponse struct {
	Success bool             `json:"success"`
	Stats   domain.UserStats `json:"stats"`
}

// SetLocation handles PUT /users/location.
//
// @Summary      Report the caller's current location
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      setLocationRequest  true  "Current coordinates"
// @Success      200   {object}  userEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/location [put]
func (h *UserHandler) SetLocation(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req setLocationRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.LocationUpdatesTotal.WithLabelValues("invalid").Inc()
		return err
	}

	user, err := h.users.SetLocation(c.Request().Context(), ports.SetLocationInput{
		UserID:  userID,
		Lat:     *req.Latitude,
		Lng:     *req.Longitude,
		Address: req.Address,
	})
	if err != nil {
		outcome := "error"
		if errors.Is(err, domain.ErrInvalidLocation) {
			outcome = "invalid"
		}
		metrics.LocationUpdatesTotal.WithLabelValues(outcome).Inc()
		return err
	}
	metrics.LocationUpdatesTotal.WithLabelValues("stored").Inc()

	return c.JSON(http.StatusOK, userEnvelope{Success: true, User: user})
}

// NearbyWorkers handles POST /users/nearby/workers.
//
// @Summary      Find available workers near a point
// @Description  Results are nearest first, capped at 50. maxDistance is in meters (default 5000, max 100000).
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      nearbyWorkersRequest  true  "Search center and radius"
// @Success      200   {object}  nearbyWorkersResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /users/nearby/workers [post]
func (h *UserHandler) NearbyWorkers(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req nearbyWorkersRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.ProximityQueriesTotal.WithLabelValues(metrics.KindWorkers, "invalid").Inc()
		return err
	}

	start := time.Now()
	workers, err := h.proximity.NearbyWorkers(c.Request().Context(), ports.NearbyInput{
		RequesterID:       userID,
		Lat:               req.Latitude,
		Lng:               req.Longitude,
		MaxDistanceMeters: req.MaxDistance,
	})
	observeProximity(metrics.KindWorkers, start, len(workers), err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, nearbyWorkersResponse{
		Success: true,
		Data:    toWorkerResponses(workers),
		Count:   len(workers),
		Message: fmt.Sprintf("found %d nearby workers", len(workers)),
	})
}

// Profile handles GET /users/profile.
//
// @Summary      Get the caller's profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userEnvelope
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	user, err := h.users.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userEnvelope{Success: true, User: user})
}

// UpdateProfile handles PUT /users/profile. Location is not editable here.
//
// @Summary      Update the caller's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  userEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), userID, ports.ProfileUpdate{
		FullName:       req.FullName,
		Phone:          req.Phone,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
		Skills:         req.Skills,
		HourlyRate:     req.HourlyRate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userEnvelope{Success: true, User: user})
}

// Get handles GET /users/:userId; the parameter may be an id or a username.
//
// @Summary      Get a public profile
// @Tags         users
// @Produce      json
// @Param        userId  path      string  true  "User id or username"
// @Success      200     {object}  userEnvelope
// @Failure      404     {object}  errorResponse
// @Router       /users/{userId} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.Lookup(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	user.Email = ""
	return c.JSON(http.StatusOK, userEnvelope{Success: true, User: user})
}

// Stats handles GET /users/:userId/stats.
//
// @Summary      Get a user's aggregate stats
// @Tags         users
// @Produce      json
// @Param        userId  path      string  true  "User id or username"
// @Success      200     {object}  userStatsResponse
// @Failure      404     {object}  errorResponse
// @Router       /users/{userId}/stats [get]
func (h *UserHandler) Stats(c echo.Context) error {
	user, err := h.users.Lookup(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userStatsResponse{Success: true, Stats: user.Stats})
}

func observeProximity(kind string, start time.Time, n int, err error) {
	metrics.ProximityQueryDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	switch {
	case err == nil:
		metrics.ProximityQueriesTotal.WithLabelValues(kind, "ok").Inc()
		metrics.ProximityResults.WithLabelValues(kind).Observe(float64(n))
	case errors.Is(err, domain.ErrInvalidLocation):
		metrics.ProximityQueriesTotal.WithLabelValues(kind, "invalid").Inc()
	default:
		metrics.ProximityQueriesTotal.WithLabelValues(kind, "error").Inc()
	}
}
