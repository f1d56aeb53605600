package repository

import (
	"context"
	"fmt"
	"time"

	"facilityhub/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	LockCollectionName = "Reservation_locks"
)

// ReservationLockRepository serializes check-and-write transactions per facility. Ensure
// creates the facility's guard document outside any transaction; Touch bumps it inside one,
// so two transactions touching the same facility write-conflict and one is retried.
type ReservationLockRepository interface {
	Ensure(ctx context.Context, facilityID string) error
	Touch(ctx context.Context, facilityID, holder string) error
}

type mongoReservationLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewReservationLockRepository(cfg *config.Config) ReservationLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoReservationLockRepository) Ensure(ctx context.Context, facilityID string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$setOnInsert": bson.M{
		"version":     int64(0),
		"last_holder": "",
		"updated_at":  time.Now().UTC(),
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": facilityID}, update, options.Update().SetUpsert(true))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to ensure reservation lock: %w", err)
	}
	return nil
}

func (r *mongoReservationLockRepository) Touch(ctx context.Context, facilityID, holder string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"version": 1},
		"$set": bson.M{"last_holder": holder, "updated_at": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": facilityID}, update)
	if err != nil {
		return fmt.Errorf("failed to touch reservation lock: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("reservation lock for facility %s does not exist", facilityID)
	}
	return nil
}
