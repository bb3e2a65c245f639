package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

const (
	minPasswordLength = 6
	adminSubject      = "admin"
)

// AdminCredentials are the console login configured at deploy time.
// PasswordHash is a bcrypt hash.
type AdminCredentials struct {
	Username     string
	PasswordHash string
}

// AuthService implements signup, login, logout and token issuance.
type AuthService struct {
	users     ports.UserRepository
	revoker   ports.TokenRevoker
	jwtSecret string
	tokenTTL  time.Duration
	admin     AdminCredentials
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	revoker ports.TokenRevoker,
	jwtSecret string,
	tokenTTL time.Duration,
	admin AdminCredentials,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		revoker:   revoker,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		admin:     admin,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (string, *domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || len(in.Password) < minPasswordLength {
		return "", nil, fmt.Errorf("signup: %w", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	now := s.now()
	user, err := s.users.Create(ctx, &domain.User{
		Username:      username,
		Email:         email,
		PasswordHash:  string(hash),
		Role:          domain.RoleUser,
		FullName:      strings.TrimSpace(in.FullName),
		AccountStatus: domain.AccountActive,
		IsActive:      true,
		LastActiveAt:  &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) Login(ctx context.Context, login, password string) (string, *domain.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if user.AccountStatus != domain.AccountActive {
		return "", nil, domain.ErrAccountSuspended
	}

	now := s.now()
	if err := s.users.SetActive(ctx, user.ID, true, now); err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	user.IsActive = true
	user.LastActiveAt = &now

	token, err := s.generateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) Logout(ctx context.Context, claims ports.TokenClaims) error {
	if claims.UserID != adminSubject {
		if err := s.users.SetActive(ctx, claims.UserID, false, s.now()); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
	}

	if s.revoker == nil || claims.TokenID == "" {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.TokenID, ttl); err != nil {
		s.log.Warn().Err(err).Str("user_id", claims.UserID).Msg("failed to revoke token")
	}
	return nil
}

func (s *AuthService) Verify(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// AdminLogin checks the configured console credentials. An unset admin
// username disables the console.
func (s *AuthService) AdminLogin(_ context.Context, username, password string) (string, error) {
	if s.admin.Username == "" || s.admin.PasswordHash == "" {
		return "", domain.ErrInvalidCredentials
	}
	if !strings.EqualFold(username, s.admin.Username) {
		return "", domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}
	return s.generateToken(adminSubject, s.admin.Username, domain.RoleAdmin)
}

func (s *AuthService) generateToken(subject, username, role string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":      subject,
		"username": username,
		"role":     role,
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
