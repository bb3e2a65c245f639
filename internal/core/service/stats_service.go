package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

type statsService struct {
	users   ports.UserRepository
	tasks   ports.TaskRepository
	reviews ports.ReviewRepository
	log     zerolog.Logger
}

// NewStatsService returns a StatsService. Aggregates are recomputed from the
// source collections, so replaying a job is harmless.
func NewStatsService(
	users ports.UserRepository,
	tasks ports.TaskRepository,
	reviews ports.ReviewRepository,
	log zerolog.Logger,
) ports.StatsService {
	return &statsService{users: users, tasks: tasks, reviews: reviews, log: log}
}

func (s *statsService) Process(ctx context.Context, job domain.StatsJob) error {
	user, err := s.users.FindByID(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("process stats: %w", err)
	}
	stats := user.Stats

	switch job.Kind {
	case domain.StatsTaskCompleted:
		n, err := s.tasks.CountCompletedByWorker(ctx, job.UserID)
		if err != nil {
			return fmt.Errorf("process stats: count completed: %w", err)
		}
		stats.CompletedTasks = int(n)
		stats.CompletionRate = domain.CompletionRate(stats.CompletedTasks)
	case domain.StatsReviewCreated:
		ratings, err := s.reviews.RatingsFor(ctx, job.UserID)
		if err != nil {
			return fmt.Errorf("process stats: ratings: %w", err)
		}
		stats.Rating = domain.AverageRating(ratings)
		stats.TotalReviews = len(ratings)
	default:
		return fmt.Errorf("process stats: unknown job kind %q", job.Kind)
	}

	if err := s.users.UpdateStats(ctx, job.UserID, stats); err != nil {
		return fmt.Errorf("process stats: update: %w", err)
	}

	s.log.Debug().
		Str("user_id", job.UserID).
		Str("kind", string(job.Kind)).
		Float64("rating", stats.Rating).
		Int("completed", stats.CompletedTasks).
		Msg("stats recomputed")
	return nil
}
