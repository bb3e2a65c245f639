package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

const (
	activeUsersLimit  = 100
	defaultUsersLimit = 20
	maxUsersLimit     = 100
)

// AdminService backs the admin console.
type AdminService struct {
	users ports.UserRepository
	tasks ports.TaskRepository
	log   zerolog.Logger
}

func NewAdminService(users ports.UserRepository, tasks ports.TaskRepository, log zerolog.Logger) *AdminService {
	return &AdminService{users: users, tasks: tasks, log: log}
}

func (s *AdminService) Dashboard(ctx context.Context) (*ports.Dashboard, error) {
	var (
		d   ports.Dashboard
		err error
	)
	if d.TotalUsers, err = s.users.Count(ctx, false); err != nil {
		return nil, fmt.Errorf("dashboard: users: %w", err)
	}
	if d.ActiveUsers, err = s.users.Count(ctx, true); err != nil {
		return nil, fmt.Errorf("dashboard: active users: %w", err)
	}
	if d.TotalTasks, err = s.tasks.Count(ctx, ""); err != nil {
		return nil, fmt.Errorf("dashboard: tasks: %w", err)
	}
	if d.ActiveTasks, err = s.tasks.Count(ctx, domain.TaskActive); err != nil {
		return nil, fmt.Errorf("dashboard: active tasks: %w", err)
	}
	if d.CompletedTasks, err = s.tasks.Count(ctx, domain.TaskCompleted); err != nil {
		return nil, fmt.Errorf("dashboard: completed tasks: %w", err)
	}

	d.ActiveUserPercent = percent(d.ActiveUsers, d.TotalUsers)
	d.CompletionPercent = percent(d.CompletedTasks, d.TotalTasks)
	return &d, nil
}

func (s *AdminService) ListUsers(ctx context.Context, filter ports.ListUsersFilter) (*ports.ListUsersResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultUsersLimit
	}
	if filter.Limit > maxUsersLimit {
		filter.Limit = maxUsersLimit
	}
	if filter.AccountStatus != "" && !filter.AccountStatus.Valid() {
		return nil, fmt.Errorf("list users: %w: unknown account status %q", domain.ErrInvalidInput, filter.AccountStatus)
	}

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &ports.ListUsersResult{Users: users, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *AdminService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AdminService) SetAccountStatus(ctx context.Context, userID string, status domain.AccountStatus) (*domain.User, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("set account status: %w: unknown account status %q", domain.ErrInvalidInput, status)
	}
	user, err := s.users.SetAccountStatus(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Str("account_status", string(status)).Msg("account status changed")
	return user, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID).Msg("user deleted")
	return nil
}

// ActiveUsers feeds the admin live map.
func (s *AdminService) ActiveUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.ListActiveWithLocation(ctx, activeUsersLimit)
}

func percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10
}
