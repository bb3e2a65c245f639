package ports

import (
	"context"
	"time"

	"github.com/snufix/taskflow/internal/core/domain"
)

// LocationDedup suppresses a write that repeats the user's last written point
// within a short window. Returning to an earlier point is always written.
type LocationDedup interface {
	IsDuplicate(ctx context.Context, userID string, point domain.GeoPoint) (bool, error)
	Mark(ctx context.Context, userID string, point domain.GeoPoint) error
}

// TokenRevoker keeps a deny-list of logged-out token ids until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// EventPublisher announces state changes to other services.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// StatsQueue schedules asynchronous recomputation of a user's aggregates.
type StatsQueue interface {
	Enqueue(job domain.StatsJob)
}
