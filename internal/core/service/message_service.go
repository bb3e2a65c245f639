package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

const (
	maxMessageLength     = 2000
	conversationScanSize = 500
)

// MessageService implements per-task chat between a poster and a worker.
// Clients poll for new messages.
type MessageService struct {
	messages ports.MessageRepository
	tasks    ports.TaskRepository
	apps     ports.ApplicationRepository
	users    ports.UserRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewMessageService(
	messages ports.MessageRepository,
	tasks ports.TaskRepository,
	apps ports.ApplicationRepository,
	users ports.UserRepository,
	log zerolog.Logger,
) *MessageService {
	return &MessageService{
		messages: messages,
		tasks:    tasks,
		apps:     apps,
		users:    users,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MessageService) Send(ctx context.Context, in ports.SendMessageInput) (*domain.Message, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" || len(text) > maxMessageLength {
		return nil, fmt.Errorf("send message: %w: text must be 1-%d characters", domain.ErrInvalidInput, maxMessageLength)
	}
	if in.ToUserID == "" || in.ToUserID == in.FromUserID {
		return nil, fmt.Errorf("send message: %w: invalid recipient", domain.ErrInvalidInput)
	}

	task, err := s.tasks.FindByID(ctx, in.TaskID)
	if err != nil {
		return nil, err
	}
	if err := s.checkParticipant(ctx, task, in.FromUserID); err != nil {
		return nil, err
	}
	if err := s.checkParticipant(ctx, task, in.ToUserID); err != nil {
		return nil, err
	}

	return s.messages.Create(ctx, &domain.Message{
		TaskID:     in.TaskID,
		FromUserID: in.FromUserID,
		ToUserID:   in.ToUserID,
		Text:       text,
		CreatedAt:  s.now(),
	})
}

// TaskChat returns the messages of a task the caller takes part in.
func (s *MessageService) TaskChat(ctx context.Context, taskID, userID string) ([]*domain.Message, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.checkParticipant(ctx, task, userID); err != nil {
		return nil, err
	}

	msgs, err := s.messages.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	out := msgs[:0]
	for _, m := range msgs {
		if m.FromUserID == userID || m.ToUserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

// Conversations returns the latest message per counterpart, newest first.
func (s *MessageService) Conversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	msgs, err := s.messages.ListForUser(ctx, userID, conversationScanSize)
	if err != nil {
		return nil, err
	}

	order := make([]string, 0)
	latest := make(map[string]*domain.Message)
	unread := make(map[string]int)
	for _, m := range msgs {
		other := m.Counterpart(userID)
		if _, ok := latest[other]; !ok {
			latest[other] = m
			order = append(order, other)
		}
		if m.ToUserID == userID && !m.Seen {
			unread[other]++
		}
	}

	users, err := s.users.FindByIDs(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("conversations: %w", err)
	}

	out := make([]domain.Conversation, 0, len(order))
	for _, id := range order {
		conv := domain.Conversation{LastMessage: *latest[id], Unread: unread[id]}
		if u, ok := users[id]; ok {
			conv.With = u.Summary()
		} else {
			conv.With = domain.UserSummary{ID: id}
		}
		out = append(out, conv)
	}
	return out, nil
}

// MarkSeen may only be called by the recipient.
func (s *MessageService) MarkSeen(ctx context.Context, messageID, userID string) error {
	msg, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.ToUserID != userID {
		return domain.ErrForbidden
	}
	if msg.Seen {
		return nil
	}
	return s.messages.MarkSeen(ctx, messageID, s.now())
}

// checkParticipant allows the poster, the selected worker, and anyone who
// applied to the task.
func (s *MessageService) checkParticipant(ctx context.Context, task *domain.Task, userID string) error {
	if task.IsParticipant(userID) {
		return nil
	}
	_, err := s.apps.FindByTaskAndApplicant(ctx, task.ID, userID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrApplicationNotFound):
		return domain.ErrNotParticipant
	default:
		return err
	}
}
