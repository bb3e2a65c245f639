package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/snufix/taskflow/internal/core/domain"
)

const defaultDedupWindow = 10 * time.Second

// LocationDedup remembers the last point written for each user and suppresses
// a write that would store the same point again within the window.
// Key format: locdedup:<user_id>, value "<lat>,<lng>" rounded to ~1m.
type LocationDedup struct {
	client *redis.Client
	window time.Duration
}

// NewLocationDedup creates a LocationDedup wrapping the given Redis client.
// A non-positive window falls back to defaultDedupWindow.
func NewLocationDedup(client *redis.Client, window time.Duration) *LocationDedup {
	if window <= 0 {
		window = defaultDedupWindow
	}
	return &LocationDedup{client: client, window: window}
}

// IsDuplicate reports whether point equals the last point written for this
// user within the window. Returning to an earlier point is not a duplicate.
func (d *LocationDedup) IsDuplicate(ctx context.Context, userID string, point domain.GeoPoint) (bool, error) {
	last, err := d.client.Get(ctx, d.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("location dedup check: %w", err)
	}
	return last == d.value(point), nil
}

// Mark records point as the user's last written location.
func (d *LocationDedup) Mark(ctx context.Context, userID string, point domain.GeoPoint) error {
	return d.client.Set(ctx, d.key(userID), d.value(point), d.window).Err()
}

func (d *LocationDedup) key(userID string) string {
	return "locdedup:" + userID
}

func (d *LocationDedup) value(point domain.GeoPoint) string {
	return fmt.Sprintf("%.5f,%.5f", point.Lat(), point.Lng())
}
