package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/snufix/taskflow/docs"
	"github.com/snufix/taskflow/internal/api/handler"
	"github.com/snufix/taskflow/internal/api/middleware"
	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	JWTSecret string
	Revoker   middleware.RevocationChecker

	Auth         ports.AuthService
	Users        ports.UserService
	Proximity    ports.ProximityService
	Tasks        ports.TaskService
	Applications ports.ApplicationService
	Messages     ports.MessageService
	Reviews      ports.ReviewService
	Admin        ports.AdminService

	// Health maps a dependency name to its readiness probe.
	Health map[string]handler.Pinger

	CORSOrigins  []string
	RateLimitRPS float64

	// Registry receives the HTTP metrics and backs /metrics. Nil selects the
	// default Prometheus registry.
	Registry *prometheus.Registry

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "taskflow",
		Registerer: registerer,
	}))
	if d.RateLimitRPS > 0 {
		e.Use(echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/health" || c.Path() == "/health/ready" || c.Path() == "/metrics"
			},
			Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(d.RateLimitRPS),
				Burst:     int(d.RateLimitRPS * 2),
				ExpiresIn: 3 * time.Minute,
			}),
			DenyHandler: func(c echo.Context, _ string, _ error) error {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			},
		}))
	}

	authMW := middleware.Auth(d.JWTSecret, d.Revoker, d.Log)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users, d.Proximity)
	taskHandler := handler.NewTaskHandler(d.Tasks, d.Proximity)
	appHandler := handler.NewApplicationHandler(d.Applications)
	msgHandler := handler.NewMessageHandler(d.Messages)
	reviewHandler := handler.NewReviewHandler(d.Reviews)
	adminHandler := handler.NewAdminHandler(d.Admin)
	healthHandler := handler.NewHealthHandler(d.Health)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/admin-login", authHandler.AdminLogin)
	auth.POST("/logout", authHandler.Logout, authMW)
	auth.GET("/verify", authHandler.Verify, authMW)

	// --- Users and worker discovery ---
	users := e.Group("/users")
	users.GET("/profile", userHandler.Profile, authMW)
	users.PUT("/profile", userHandler.UpdateProfile, authMW)
	users.PUT("/location", userHandler.SetLocation, authMW)
	users.POST("/nearby/workers", userHandler.NearbyWorkers, authMW)
	users.GET("/:userId", userHandler.Get)
	users.GET("/:userId/stats", userHandler.Stats)

	// --- Tasks and task discovery ---
	tasks := e.Group("/tasks")
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Create, authMW)
	tasks.GET("/my-tasks", taskHandler.MyTasks, authMW)
	tasks.POST("/nearby", taskHandler.Nearby, authMW)
	tasks.GET("/:taskId", taskHandler.Get)
	tasks.POST("/:taskId/select-worker", taskHandler.SelectWorker, authMW)
	tasks.PUT("/:taskId/complete", taskHandler.Complete, authMW)
	tasks.PUT("/:taskId/cancel", taskHandler.Cancel, authMW)
	tasks.DELETE("/:taskId", taskHandler.Delete, authMW)

	// --- Applications ---
	apps := e.Group("/applications", authMW)
	apps.POST("", appHandler.Apply)
	apps.GET("/my-applications", appHandler.Mine)
	apps.GET("/task/:taskId", appHandler.ForTask)
	apps.PUT("/:appId/reject", appHandler.Reject)

	// --- Messages ---
	msgs := e.Group("/messages", authMW)
	msgs.POST("", msgHandler.Send)
	msgs.GET("/task/:taskId", msgHandler.TaskChat)
	msgs.GET("/conversations", msgHandler.Conversations)
	msgs.PUT("/:messageId/seen", msgHandler.MarkSeen)

	// --- Reviews ---
	e.POST("/reviews", reviewHandler.Create, authMW)
	e.GET("/reviews/user/:userId", reviewHandler.ForUser)

	// --- Admin console ---
	admin := e.Group("/admin", authMW, adminOnly)
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/users/:id", adminHandler.GetUser)
	admin.PUT("/users/:id/status", adminHandler.SetStatus)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.GET("/active-users", adminHandler.ActiveUsers)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
