package ports

import (
	"context"

	"github.com/snufix/taskflow/internal/core/domain"
)

// NearbyInput is a "find nearby" request. Lat and Lng are pointers so a
// missing coordinate can be told apart from a zero one; when both are nil the
// requester's stored location is the center.
type NearbyInput struct {
	RequesterID       string
	Lat               *float64
	Lng               *float64
	MaxDistanceMeters float64 // <= 0 selects the default radius
}

// NearbyWorker is the public projection of a worker returned by discovery.
type NearbyWorker struct {
	ID             string
	Username       string
	Name           string
	ProfilePicture string
	Skills         []string
	HourlyRate     float64
	Rating         float64
	TotalReviews   int
	CompletedTasks int
	Location       domain.GeoPoint
	DistanceMeters float64
}

// NearbyTask is an active task together with its poster's public profile.
type NearbyTask struct {
	Task           *domain.Task
	Poster         *domain.UserSummary
	DistanceMeters float64
}

type ProximityService interface {
	NearbyWorkers(ctx context.Context, input NearbyInput) ([]NearbyWorker, error)
	NearbyTasks(ctx context.Context, input NearbyInput) ([]NearbyTask, error)
}
