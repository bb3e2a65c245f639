package ports

import (
	"context"

	"github.com/snufix/taskflow/internal/core/domain"
)

type SendMessageInput struct {
	TaskID     string
	FromUserID string
	ToUserID   string
	Text       string
}

type MessageService interface {
	Send(ctx context.Context, input SendMessageInput) (*domain.Message, error)
	TaskChat(ctx context.Context, taskID, userID string) ([]*domain.Message, error)
	Conversations(ctx context.Context, userID string) ([]domain.Conversation, error)
	MarkSeen(ctx context.Context, messageID, userID string) error
}

type CreateReviewInput struct {
	ReviewerID string
	RevieweeID string
	TaskID     string
	Rating     int
	ReviewText string
	Category   domain.ReviewCategory
}

type ReviewService interface {
	Create(ctx context.Context, input CreateReviewInput) (*domain.Review, error)
	ForUser(ctx context.Context, userID string) ([]*domain.Review, error)
}
