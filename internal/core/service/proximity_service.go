package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

const (
	// DefaultRadiusMeters applies when the caller does not choose a radius.
	DefaultRadiusMeters = 5000
	// MaxRadiusMeters bounds a single proximity query.
	MaxRadiusMeters = 100000
	// NearbyLimit caps every proximity result set.
	NearbyLimit = 50
)

// ProximityService answers "who/what is near me" queries over the location
// store. Radii are always meters.
type ProximityService struct {
	locations ports.LocationStore
	users     ports.UserRepository
	log       zerolog.Logger
}

func NewProximityService(locations ports.LocationStore, users ports.UserRepository, log zerolog.Logger) *ProximityService {
	return &ProximityService{locations: locations, users: users, log: log}
}

func (s *ProximityService) NearbyWorkers(ctx context.Context, in ports.NearbyInput) ([]ports.NearbyWorker, error) {
	q, err := s.buildNearQuery(ctx, in)
	if err != nil {
		return nil, err
	}

	users, err := s.locations.NearWorkers(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("nearby workers: %w", err)
	}

	out := make([]ports.NearbyWorker, 0, len(users))
	for _, u := range users {
		// The store filters already; this keeps the guarantees if it ever does not.
		if u.ID == in.RequesterID || !u.Available() {
			continue
		}
		out = append(out, ports.NearbyWorker{
			ID:             u.ID,
			Username:       u.Username,
			Name:           u.DisplayName(),
			ProfilePicture: u.ProfilePicture,
			Skills:         u.Skills,
			HourlyRate:     u.HourlyRate,
			Rating:         u.Stats.Rating,
			TotalReviews:   u.Stats.TotalReviews,
			CompletedTasks: u.Stats.CompletedTasks,
			Location:       *u.Location,
			DistanceMeters: q.Center.DistanceMeters(*u.Location),
		})
	}

	s.log.Debug().
		Str("requester", in.RequesterID).
		Float64("radius_m", q.MaxDistanceMeters).
		Int("count", len(out)).
		Msg("nearby workers")
	return out, nil
}

func (s *ProximityService) NearbyTasks(ctx context.Context, in ports.NearbyInput) ([]ports.NearbyTask, error) {
	q, err := s.buildNearQuery(ctx, in)
	if err != nil {
		return nil, err
	}
	q.ExcludeUserID = ""

	tasks, err := s.locations.NearTasks(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("nearby tasks: %w", err)
	}

	posterIDs := make([]string, 0, len(tasks))
	for _, t := range tasks {
		posterIDs = append(posterIDs, t.PostedBy)
	}
	posters, err := s.users.FindByIDs(ctx, posterIDs)
	if err != nil {
		return nil, fmt.Errorf("nearby tasks: posters: %w", err)
	}

	out := make([]ports.NearbyTask, 0, len(tasks))
	for _, t := range tasks {
		if t.Status != domain.TaskActive || !domain.Discoverable(t.Location) {
			continue
		}
		item := ports.NearbyTask{
			Task:           t,
			DistanceMeters: q.Center.DistanceMeters(*t.Location),
		}
		if p, ok := posters[t.PostedBy]; ok {
			summary := p.Summary()
			item.Poster = &summary
		}
		out = append(out, item)
	}

	s.log.Debug().
		Str("requester", in.RequesterID).
		Float64("radius_m", q.MaxDistanceMeters).
		Int("count", len(out)).
		Msg("nearby tasks")
	return out, nil
}

// buildNearQuery validates the center and normalises the radius. Without
// explicit coordinates the requester's last reported location is used.
func (s *ProximityService) buildNearQuery(ctx context.Context, in ports.NearbyInput) (ports.NearQuery, error) {
	center, err := s.resolveCenter(ctx, in)
	if err != nil {
		return ports.NearQuery{}, err
	}

	radius := in.MaxDistanceMeters
	if radius <= 0 {
		radius = DefaultRadiusMeters
	}
	if radius > MaxRadiusMeters {
		radius = MaxRadiusMeters
	}

	return ports.NearQuery{
		Center:            center,
		MaxDistanceMeters: radius,
		ExcludeUserID:     in.RequesterID,
		Limit:             NearbyLimit,
	}, nil
}

func (s *ProximityService) resolveCenter(ctx context.Context, in ports.NearbyInput) (domain.GeoPoint, error) {
	switch {
	case in.Lat != nil && in.Lng != nil:
		return domain.NewGeoPoint(*in.Lat, *in.Lng)
	case in.Lat != nil || in.Lng != nil:
		return domain.GeoPoint{}, fmt.Errorf("%w: latitude and longitude must be sent together", domain.ErrInvalidLocation)
	}

	if in.RequesterID != "" {
		u, err := s.users.FindByID(ctx, in.RequesterID)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return domain.GeoPoint{}, fmt.Errorf("resolve center: %w", err)
		}
		if u != nil && domain.Discoverable(u.Location) {
			return *u.Location, nil
		}
	}
	return domain.GeoPoint{}, fmt.Errorf("%w: latitude and longitude are required", domain.ErrInvalidLocation)
}
