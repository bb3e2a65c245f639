package ports

import (
	"context"

	"github.com/snufix/taskflow/internal/core/domain"
)

// NearQuery describes a "within MaxDistanceMeters of Center" lookup.
type NearQuery struct {
	Center            domain.GeoPoint
	MaxDistanceMeters float64
	ExcludeUserID     string
	Limit             int
}

// LocationStore owns the authoritative current point of every user and task
// and answers range queries ordered nearest-first.
type LocationStore interface {
	// SetUserLocation overwrites the user's point. Repeated writes are harmless.
	SetUserLocation(ctx context.Context, userID string, point domain.GeoPoint, address string) (*domain.User, error)
	// NearWorkers only returns active, logged-in accounts with a real location,
	// never the excluded requester.
	NearWorkers(ctx context.Context, q NearQuery) ([]*domain.User, error)
	// NearTasks only returns tasks whose status is active.
	NearTasks(ctx context.Context, q NearQuery) ([]*domain.Task, error)
}
