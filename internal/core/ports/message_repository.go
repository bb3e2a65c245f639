package ports

import (
	"context"
	"time"

	"github.com/snufix/taskflow/internal/core/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	FindByID(ctx context.Context, id string) (*domain.Message, error)
	// ListByTask returns the task's messages oldest first.
	ListByTask(ctx context.Context, taskID string) ([]*domain.Message, error)
	// ListForUser returns messages sent or received by userID, newest first.
	ListForUser(ctx context.Context, userID string, limit int) ([]*domain.Message, error)
	MarkSeen(ctx context.Context, id string, at time.Time) error
}

type ReviewRepository interface {
	// Create fails with domain.ErrAlreadyReviewed when the reviewer already
	// reviewed the task.
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	ListByReviewee(ctx context.Context, revieweeID string) ([]*domain.Review, error)
	RatingsFor(ctx context.Context, revieweeID string) ([]int, error)
}
