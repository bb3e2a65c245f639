package ports

import (
	"context"
	"time"

	"github.com/snufix/taskflow/internal/core/domain"
)

// ProfileUpdate carries the user-editable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	FullName       *string
	Phone          *string
	Bio            *string
	ProfilePicture *string
	Skills         []string
	HourlyRate     *float64
}

// ListUsersFilter is used by the admin console.
type ListUsersFilter struct {
	AccountStatus domain.AccountStatus // empty = any
	Search        string               // partial match on username, email or full name
	Page          int                  // 1-based
	Limit         int
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByLogin looks a user up by username or email.
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.User, error)
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
	SetAccountStatus(ctx context.Context, id string, status domain.AccountStatus) (*domain.User, error)
	UpdateStats(ctx context.Context, id string, stats domain.UserStats) error
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	// ListActiveWithLocation returns logged-in users that have reported a location.
	ListActiveWithLocation(ctx context.Context, limit int) ([]*domain.User, error)
	Count(ctx context.Context, activeOnly bool) (int64, error)
	Delete(ctx context.Context, id string) error
}
