package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

type ReviewService struct {
	reviews ports.ReviewRepository
	tasks   ports.TaskRepository
	stats   ports.StatsQueue
	events  ports.EventPublisher
	log     zerolog.Logger
	now     func() time.Time
}

func NewReviewService(
	reviews ports.ReviewRepository,
	tasks ports.TaskRepository,
	stats ports.StatsQueue,
	events ports.EventPublisher,
	log zerolog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		tasks:   tasks,
		stats:   stats,
		events:  events,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a review between the two parties of a completed task and
// schedules the reviewee's rating recomputation.
func (s *ReviewService) Create(ctx context.Context, in ports.CreateReviewInput) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("create review: %w: rating must be between 1 and 5", domain.ErrInvalidInput)
	}
	switch in.Category {
	case "", domain.ReviewCommunication, domain.ReviewQuality, domain.ReviewSpeed:
	default:
		return nil, fmt.Errorf("create review: %w: unknown category %q", domain.ErrInvalidInput, in.Category)
	}
	if in.ReviewerID == in.RevieweeID {
		return nil, fmt.Errorf("create review: %w: cannot review yourself", domain.ErrInvalidInput)
	}

	task, err := s.tasks.FindByID(ctx, in.TaskID)
	if err != nil {
		return nil, err
	}
	if task.Status != domain.TaskCompleted {
		return nil, domain.ErrTaskNotComplete
	}
	if !task.IsParticipant(in.ReviewerID) || !task.IsParticipant(in.RevieweeID) {
		return nil, domain.ErrNotParticipant
	}

	review, err := s.reviews.Create(ctx, &domain.Review{
		ReviewerID: in.ReviewerID,
		RevieweeID: in.RevieweeID,
		TaskID:     in.TaskID,
		Rating:     in.Rating,
		ReviewText: strings.TrimSpace(in.ReviewText),
		Category:   in.Category,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return nil, err
	}

	if s.stats != nil {
		s.stats.Enqueue(domain.StatsJob{UserID: in.RevieweeID, Kind: domain.StatsReviewCreated, TaskID: in.TaskID})
	}
	publish(ctx, s.events, s.log, domain.Event{
		Type:       domain.EventReviewCreated,
		Key:        in.RevieweeID,
		OccurredAt: review.CreatedAt,
		Payload: map[string]any{
			"reviewId":   review.ID,
			"revieweeId": in.RevieweeID,
			"taskId":     in.TaskID,
			"rating":     in.Rating,
		},
	})
	return review, nil
}

func (s *ReviewService) ForUser(ctx context.Context, userID string) ([]*domain.Review, error) {
	return s.reviews.ListByReviewee(ctx, userID)
}
