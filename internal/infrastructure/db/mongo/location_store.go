package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

// LocationStore implements ports.LocationStore over the 2dsphere indexes of
// the users and tasks collections.
type LocationStore struct {
	users *mongo.Collection
	tasks *mongo.Collection
}

func NewLocationStore(db *mongo.Database) *LocationStore {
	return &LocationStore{
		users: db.Collection(collectionUsers),
		tasks: db.Collection(collectionTasks),
	}
}

// SetUserLocation overwrites the stored point; the last write wins.
func (s *LocationStore) SetUserLocation(ctx context.Context, userID string, point domain.GeoPoint, address string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	set := bson.M{
		"location":       point,
		"last_active_at": now,
		"updated_at":     now,
	}
	if address != "" {
		set["address"] = address
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u domain.User
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": userID}, bson.M{"$set": set}, opts).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("set location: %w", err)
	}
	return &u, nil
}

func (s *LocationStore) NearWorkers(ctx context.Context, q ports.NearQuery) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := s.users.Find(ctx, nearWorkersFilter(q), options.Find().SetLimit(int64(q.Limit)))
	if err != nil {
		return nil, fmt.Errorf("near workers: %w", err)
	}
	users := make([]*domain.User, 0)
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode near workers: %w", err)
	}
	return users, nil
}

func (s *LocationStore) NearTasks(ctx context.Context, q ports.NearQuery) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := s.tasks.Find(ctx, nearTasksFilter(q), options.Find().SetLimit(int64(q.Limit)))
	if err != nil {
		return nil, fmt.Errorf("near tasks: %w", err)
	}
	tasks := make([]*domain.Task, 0)
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("decode near tasks: %w", err)
	}
	return tasks, nil
}
