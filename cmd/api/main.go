package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/snufix/taskflow/internal/api"
	"github.com/snufix/taskflow/internal/api/handler"
	"github.com/snufix/taskflow/internal/core/ports"
	"github.com/snufix/taskflow/internal/core/service"
	"github.com/snufix/taskflow/internal/infrastructure/broker"
	"github.com/snufix/taskflow/internal/infrastructure/config"
	mongodb "github.com/snufix/taskflow/internal/infrastructure/db/mongo"
	redisdb "github.com/snufix/taskflow/internal/infrastructure/db/redis"
	"github.com/snufix/taskflow/internal/infrastructure/queue"
	"github.com/snufix/taskflow/pkg/logger"
)

// @title       TaskFlow API
// @version     1.0
// @description Task marketplace with nearby worker and task discovery.
// @BasePath    /
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.New(logger.Options{Service: "taskflow-api"})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "taskflow-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("api stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		ClientName: "taskflow-api",
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	var events ports.EventPublisher = broker.NoopPublisher{}
	if cfg.Broker.URL != "" {
		pub, err := broker.Dial(cfg.Broker.URL, log)
		if err != nil {
			log.Warn().Err(err).Msg("event broker unavailable, events disabled")
		} else {
			defer pub.Close()
			events = pub
		}
	}

	users := mongodb.NewUserRepository(db)
	tasks := mongodb.NewTaskRepository(db)
	apps := mongodb.NewApplicationRepository(db)
	messages := mongodb.NewMessageRepository(db)
	reviews := mongodb.NewReviewRepository(db)
	locations := mongodb.NewLocationStore(db)

	dedup := redisdb.NewLocationDedup(rdb, cfg.Discovery.LocationDedupWindow)
	revoker := redisdb.NewTokenRevoker(rdb)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	stats := queue.NewDispatcher(cfg.Stats.Workers, service.NewStatsService(users, tasks, reviews, log), log)
	stats.Start(workerCtx)
	defer func() {
		stopWorkers()
		stats.Wait()
	}()

	admin := service.AdminCredentials{Username: cfg.Auth.AdminUsername, PasswordHash: cfg.Auth.AdminPasswordHash}

	e := api.NewRouter(api.Deps{
		JWTSecret:    cfg.Auth.JWTSecret,
		Revoker:      revoker,
		Auth:         service.NewAuthService(users, revoker, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, admin, log),
		Users:        service.NewUserService(users, locations, dedup, events, log),
		Proximity:    service.NewProximityService(locations, users, log),
		Tasks:        service.NewTaskService(tasks, apps, users, stats, events, log),
		Applications: service.NewApplicationService(apps, tasks, users, log),
		Messages:     service.NewMessageService(messages, tasks, apps, users, log),
		Reviews:      service.NewReviewService(reviews, tasks, stats, events, log),
		Admin:        service.NewAdminService(users, tasks, log),
		Health: map[string]handler.Pinger{
			"mongodb": handler.PingFunc(func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }),
			"redis":   handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		},
		CORSOrigins:  cfg.HTTP.CORSOrigins,
		RateLimitRPS: cfg.HTTP.RateLimitRPS,
		Log:          log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting taskflow api")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
