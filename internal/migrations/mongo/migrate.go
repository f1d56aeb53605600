package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	facilitiesrepo "facilityhub/internal/facilities/repository"
	"facilityhub/internal/migrations/mongo/validators"
	reservationsrepo "facilityhub/internal/reservations/repository"
	"facilityhub/pkg/logger"
	"facilityhub/pkg/model"
)

type CollectionDefinition struct {
	Name      string
	Indexes   []mongo.IndexModel
	Validator bson.M
}

var (
	ReservationsIndexes = []mongo.IndexModel{
		// Conflict checks and range scans: active reservations of a facility by start time.
		{Keys: bson.D{
			{Key: "facility_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "start_time", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "requester_id", Value: 1},
			{Key: "start_time", Value: -1},
		}},
		{Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "start_time", Value: -1},
		}},
	}

	FacilitiesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "name", Value: 1}}},
	}
)

// Collections lists every collection the services expect, with its validator and indexes.
func Collections() []CollectionDefinition {
	return []CollectionDefinition{
		{
			Name:      facilitiesrepo.CollectionName,
			Indexes:   FacilitiesIndexes,
			Validator: validators.FacilityValidator,
		},
		{
			Name:      reservationsrepo.CollectionName,
			Indexes:   ReservationsIndexes,
			Validator: validators.ReservationValidator,
		},
		{
			Name:      reservationsrepo.LockCollectionName,
			Validator: validators.ReservationLockValidator,
		},
	}
}

func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for _, def := range Collections() {
		if err := ensureCollection(ctx, db, def.Name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", def.Name, err)
		}
		if err := ensureIndexes(ctx, db, def.Name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", def.Name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}

// SeedFacilities inserts the given facilities, skipping ids that already exist.
func SeedFacilities(ctx context.Context, repo facilitiesrepo.FacilityRepository, facilities []*model.Facility, log *logger.Logger) (int, error) {
	inserted := 0
	for _, f := range facilities {
		if _, err := f.OperatingHours("00:00", "23:59"); err != nil {
			return inserted, fmt.Errorf("invalid facility %s: %w", f.ID, err)
		}
		if err := repo.Insert(ctx, f); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				log.Info("Facility already exists, skipping", "facility_id", f.ID)
				continue
			}
			return inserted, fmt.Errorf("failed to seed facility %s: %w", f.ID, err)
		}
		inserted++
	}
	return inserted, nil
}
