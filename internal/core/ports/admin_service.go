package ports

import (
	"context"

	"github.com/snufix/taskflow/internal/core/domain"
)

// Dashboard is the admin console's headline numbers.
type Dashboard struct {
	TotalUsers        int64
	ActiveUsers       int64
	TotalTasks        int64
	ActiveTasks       int64
	CompletedTasks    int64
	ActiveUserPercent float64
	CompletionPercent float64
}

type ListUsersResult struct {
	Users []*domain.User
	Total int64
	Page  int
	Limit int
}

type AdminService interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	ListUsers(ctx context.Context, filter ListUsersFilter) (*ListUsersResult, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	SetAccountStatus(ctx context.Context, userID string, status domain.AccountStatus) (*domain.User, error)
	DeleteUser(ctx context.Context, userID string) error
	ActiveUsers(ctx context.Context) ([]*domain.User, error)
}

// StatsService recomputes aggregate user stats; it is driven by the
// background dispatcher.
type StatsService interface {
	Process(ctx context.Context, job domain.StatsJob) error
}
