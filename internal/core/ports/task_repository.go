package ports

import (
	"context"

	"github.com/snufix/taskflow/internal/core/domain"
)

const (
	TaskSortRecent  = "recent"
	TaskSortPopular = "popular"
)

// ListTasksFilter carries the query parameters for listing tasks.
type ListTasksFilter struct {
	Status   domain.TaskStatus // empty = any
	PostedBy string            // empty = any poster
	Category string
	Search   string // partial match on description or category
	Sort     string // recent (default) or popular
	Limit    int
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter ListTasksFilter) ([]*domain.Task, error)
	// Save replaces the mutable fields of an existing task.
	Save(ctx context.Context, task *domain.Task) error
	IncrementViews(ctx context.Context, id string) error
	// Count counts tasks in status; an empty status counts every task.
	Count(ctx context.Context, status domain.TaskStatus) (int64, error)
	CountCompletedByWorker(ctx context.Context, workerID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

// ApplicationRepository defines persistence operations for task applications.
type ApplicationRepository interface {
	// Create fails with domain.ErrAlreadyApplied when the pair already exists.
	Create(ctx context.Context, app *domain.Application) (*domain.Application, error)
	FindByID(ctx context.Context, id string) (*domain.Application, error)
	FindByTaskAndApplicant(ctx context.Context, taskID, applicantID string) (*domain.Application, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.Application, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]*domain.Application, error)
	Save(ctx context.Context, app *domain.Application) error
	DeleteByTask(ctx context.Context, taskID string) error
}
