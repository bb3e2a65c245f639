package ports

import (
	"context"
	"time"

	"github.com/snufix/taskflow/internal/core/domain"
)

// SignupInput carries the fields required to open an account.
type SignupInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// TokenClaims identifies the token being revoked on logout.
type TokenClaims struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}

type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (string, *domain.User, error)
	// Login accepts either a username or an email and marks the user active.
	Login(ctx context.Context, login, password string) (string, *domain.User, error)
	// Logout marks the user inactive and revokes the presented token.
	Logout(ctx context.Context, claims TokenClaims) error
	Verify(ctx context.Context, userID string) (*domain.User, error)
	AdminLogin(ctx context.Context, username, password string) (string, error)
}
