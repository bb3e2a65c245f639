package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

type ReviewHandler struct {
	reviews ports.ReviewService
}

func NewReviewHandler(reviews ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

type createReviewRequest struct {
	RevieweeID string `json:"revieweeId" validate:"required"`
	TaskID     string `json:"taskId" validate:"required"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	ReviewText string `json:"reviewText,omitempty" validate:"max=1000"`
	Category   string `json:"category,omitempty" validate:"omitempty,oneof=communication quality speed"`
}

type reviewEnvelope struct {
	Success bool           `json:"success"`
	Review  *domain.Review `json:"review"`
}

// Create handles POST /reviews. The reviewee's rating is recomputed in the
// background.
//
// @Summary      Review the other party of a completed task
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReviewRequest  true  "Review"
// @Success      201   {object}  reviewEnvelope
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	review, err := h.reviews.Create(c.Request().Context(), ports.CreateReviewInput{
		ReviewerID: userID,
		RevieweeID: req.RevieweeID,
		TaskID:     req.TaskID,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
		Category:   domain.ReviewCategory(req.Category),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, reviewEnvelope{Success: true, Review: review})
}

// ForUser handles GET /reviews/user/:userId.
//
// @Summary      List reviews received by a user
// @Tags         reviews
// @Produce      json
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  listResponse
// @Router       /reviews/user/{userId} [get]
func (h *ReviewHandler) ForUser(c echo.Context) error {
	reviews, err := h.reviews.ForUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Data: reviews, Count: len(reviews)})
}
