package ports

import (
	"context"

	"github.com/snufix/taskflow/internal/core/domain"
)

// CreateTaskInput carries the fields for posting a task. The location is
// optional and cannot be changed afterwards.
type CreateTaskInput struct {
	PostedBy        string
	Category        string
	Type            string
	Description     string
	Address         string
	PaymentAmount   float64
	AdditionalNotes string
	Lat             *float64
	Lng             *float64
}

// TaskDetail is a task with its poster resolved.
type TaskDetail struct {
	Task   *domain.Task
	Poster *domain.UserSummary
}

type TaskService interface {
	Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	Get(ctx context.Context, taskID string) (*TaskDetail, error)
	List(ctx context.Context, filter ListTasksFilter) ([]TaskDetail, error)
	MyTasks(ctx context.Context, userID string) ([]*domain.Task, error)
	SelectWorker(ctx context.Context, taskID, ownerID, workerID string) (*domain.Task, error)
	Complete(ctx context.Context, taskID, ownerID string) (*domain.Task, error)
	Cancel(ctx context.Context, taskID, ownerID string) (*domain.Task, error)
	Delete(ctx context.Context, taskID, ownerID string) error
}

type ApplicationService interface {
	Apply(ctx context.Context, taskID, applicantID, message string) (*domain.Application, error)
	MyApplications(ctx context.Context, applicantID string) ([]*domain.Application, error)
	ForTask(ctx context.Context, taskID, ownerID string) ([]*domain.Application, error)
	Reject(ctx context.Context, applicationID, ownerID string) (*domain.Application, error)
}
