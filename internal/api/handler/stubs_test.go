package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/snufix/taskflow/internal/api/middleware"
	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

// newContext builds an echo context with the validator installed. A non-empty
// userID simulates the Auth middleware.
func newContext(method, target, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set(middleware.KeyUserID, userID)
		c.Set(middleware.KeyTokenID, "jti-"+userID)
		c.Set(middleware.KeyTokenExp, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	}
	return c, rec
}

func f64(v float64) *float64 { return &v }

type stubAuthService struct {
	signupFn     func(ctx context.Context, in ports.SignupInput) (string, *domain.User, error)
	loginFn      func(ctx context.Context, login, password string) (string, *domain.User, error)
	logoutFn     func(ctx context.Context, claims ports.TokenClaims) error
	verifyFn     func(ctx context.Context, userID string) (*domain.User, error)
	adminLoginFn func(ctx context.Context, username, password string) (string, error)
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (string, *domain.User, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, login, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, login, password)
}

func (s *stubAuthService) Logout(ctx context.Context, claims ports.TokenClaims) error {
	return s.logoutFn(ctx, claims)
}

func (s *stubAuthService) Verify(ctx context.Context, userID string) (*domain.User, error) {
	return s.verifyFn(ctx, userID)
}

func (s *stubAuthService) AdminLogin(ctx context.Context, username, password string) (string, error) {
	return s.adminLoginFn(ctx, username, password)
}

type stubUserService struct {
	setLocationFn   func(ctx context.Context, in ports.SetLocationInput) (*domain.User, error)
	profileFn       func(ctx context.Context, userID string) (*domain.User, error)
	lookupFn        func(ctx context.Context, idOrUsername string) (*domain.User, error)
	updateProfileFn func(ctx context.Context, userID string, up ports.ProfileUpdate) (*domain.User, error)
}

func (s *stubUserService) SetLocation(ctx context.Context, in ports.SetLocationInput) (*domain.User, error) {
	return s.setLocationFn(ctx, in)
}

func (s *stubUserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.profileFn(ctx, userID)
}

func (s *stubUserService) Lookup(ctx context.Context, idOrUsername string) (*domain.User, error) {
	return s.lookupFn(ctx, idOrUsername)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, userID string, up ports.ProfileUpdate) (*domain.User, error) {
	return s.updateProfileFn(ctx, userID, up)
}

type stubProximityService struct {
	workersFn func(ctx context.Context, in ports.NearbyInput) ([]ports.NearbyWorker, error)
	tasksFn   func(ctx context.Context, in ports.NearbyInput) ([]ports.NearbyTask, error)
}

func (s *stubProximityService) NearbyWorkers(ctx context.Context, in ports.NearbyInput) ([]ports.NearbyWorker, error) {
	return s.workersFn(ctx, in)
}

func (s *stubProximityService) NearbyTasks(ctx context.Context, in ports.NearbyInput) ([]ports.NearbyTask, error) {
	return s.tasksFn(ctx, in)
}

type stubTaskService struct {
	createFn       func(ctx context.Context, in ports.CreateTaskInput) (*domain.Task, error)
	getFn          func(ctx context.Context, taskID string) (*ports.TaskDetail, error)
	listFn         func(ctx context.Context, f ports.ListTasksFilter) ([]ports.TaskDetail, error)
	myTasksFn      func(ctx context.Context, userID string) ([]*domain.Task, error)
	selectWorkerFn func(ctx context.Context, taskID, ownerID, workerID string) (*domain.Task, error)
	completeFn     func(ctx context.Context, taskID, ownerID string) (*domain.Task, error)
	cancelFn       func(ctx context.Context, taskID, ownerID string) (*domain.Task, error)
	deleteFn       func(ctx context.Context, taskID, ownerID string) error
}

func (s *stubTaskService) Create(ctx context.Context, in ports.CreateTaskInput) (*domain.Task, error) {
	return s.createFn(ctx, in)
}

func (s *stubTaskService) Get(ctx context.Context, taskID string) (*ports.TaskDetail, error) {
	return s.getFn(ctx, taskID)
}

func (s *stubTaskService) List(ctx context.Context, f ports.ListTasksFilter) ([]ports.TaskDetail, error) {
	return s.listFn(ctx, f)
}

func (s *stubTaskService) MyTasks(ctx context.Context, userID string) ([]*domain.Task, error) {
	return s.myTasksFn(ctx, userID)
}

func (s *stubTaskService) SelectWorker(ctx context.Context, taskID, ownerID, workerID string) (*domain.Task, error) {
	return s.selectWorkerFn(ctx, taskID, ownerID, workerID)
}

func (s *stubTaskService) Complete(ctx context.Context, taskID, ownerID string) (*domain.Task, error) {
	return s.completeFn(ctx, taskID, ownerID)
}

func (s *stubTaskService) Cancel(ctx context.Context, taskID, ownerID string) (*domain.Task, error) {
	return s.cancelFn(ctx, taskID, ownerID)
}

func (s *stubTaskService) Delete(ctx context.Context, taskID, ownerID string) error {
	return s.deleteFn(ctx, taskID, ownerID)
}

type stubAdminService struct {
	dashboardFn func(ctx context.Context) (*ports.Dashboard, error)
	listUsersFn func(ctx context.Context, f ports.ListUsersFilter) (*ports.ListUsersResult, error)
	setStatusFn func(ctx context.Context, userID string, st domain.AccountStatus) (*domain.User, error)
}

func (s *stubAdminService) Dashboard(ctx context.Context) (*ports.Dashboard, error) {
	return s.dashboardFn(ctx)
}

func (s *stubAdminService) ListUsers(ctx context.Context, f ports.ListUsersFilter) (*ports.ListUsersResult, error) {
	return s.listUsersFn(ctx, f)
}

func (s *stubAdminService) GetUser(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubAdminService) SetAccountStatus(ctx context.Context, userID string, st domain.AccountStatus) (*domain.User, error) {
	return s.setStatusFn(ctx, userID, st)
}

func (s *stubAdminService) DeleteUser(context.Context, string) error { return nil }

func (s *stubAdminService) ActiveUsers(context.Context) ([]*domain.User, error) { return nil, nil }
