package ports

import (
	"context"

	"github.com/snufix/taskflow/internal/core/domain"
)

// SetLocationInput is the location reporter's update payload.
type SetLocationInput struct {
	UserID  string
	Lat     float64
	Lng     float64
	Address string
}

type UserService interface {
	SetLocation(ctx context.Context, input SetLocationInput) (*domain.User, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	// Lookup resolves either an id or a username.
	Lookup(ctx context.Context, idOrUsername string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error)
}
