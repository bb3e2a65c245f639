package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

// UserService owns profile reads/writes and the location update path.
type UserService struct {
	users     ports.UserRepository
	locations ports.LocationStore
	dedup     ports.LocationDedup
	events    ports.EventPublisher
	log       zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	locations ports.LocationStore,
	dedup ports.LocationDedup,
	events ports.EventPublisher,
	log zerolog.Logger,
) *UserService {
	return &UserService{users: users, locations: locations, dedup: dedup, events: events, log: log}
}

// SetLocation validates and overwrites the caller's current point. An update
// repeating the last point written moments ago is answered from the stored
// record.
func (s *UserService) SetLocation(ctx context.Context, in ports.SetLocationInput) (*domain.User, error) {
	point, err := domain.NewGeoPoint(in.Lat, in.Lng)
	if err != nil {
		return nil, err
	}

	if s.dedup != nil {
		dup, err := s.dedup.IsDuplicate(ctx, in.UserID, point)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", in.UserID).Msg("location dedup check failed, writing anyway")
		} else if dup {
			s.log.Debug().Str("user_id", in.UserID).Msg("duplicate location update skipped")
			return s.users.FindByID(ctx, in.UserID)
		}
	}

	user, err := s.locations.SetUserLocation(ctx, in.UserID, point, in.Address)
	if err != nil {
		return nil, fmt.Errorf("set location: %w", err)
	}

	if s.dedup != nil {
		if err := s.dedup.Mark(ctx, in.UserID, point); err != nil {
			s.log.Warn().Err(err).Str("user_id", in.UserID).Msg("failed to set location dedup key")
		}
	}

	publish(ctx, s.events, s.log, domain.Event{
		Type:       domain.EventLocationUpdated,
		Key:        in.UserID,
		OccurredAt: time.Now().UTC(),
		Payload: map[string]any{
			"userId":    in.UserID,
			"latitude":  point.Lat(),
			"longitude": point.Lng(),
		},
	})

	return user, nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *UserService) Lookup(ctx context.Context, idOrUsername string) (*domain.User, error) {
	if primitive.IsValidObjectID(idOrUsername) {
		return s.users.FindByID(ctx, idOrUsername)
	}
	return s.users.FindByLogin(ctx, idOrUsername)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, update ports.ProfileUpdate) (*domain.User, error) {
	if update.HourlyRate != nil && *update.HourlyRate < 0 {
		return nil, fmt.Errorf("update profile: %w: hourly rate must not be negative", domain.ErrInvalidInput)
	}
	return s.users.UpdateProfile(ctx, userID, update)
}

// publish is fire-and-forget: a broker outage never fails the request.
func publish(ctx context.Context, events ports.EventPublisher, log zerolog.Logger, ev domain.Event) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("event", string(ev.Type)).Str("key", ev.Key).Msg("failed to publish event")
	}
}
