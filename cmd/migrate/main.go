package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	facilitiesrepo "facilityhub/internal/facilities/repository"
	mongoMigration "facilityhub/internal/migrations/mongo"
	"facilityhub/pkg/config"
	"facilityhub/pkg/model"
)

const JobName = "mongo-migration"

func main() {
	facilitiesFile := flag.String("facilities", "", "optional JSON file with facilities to seed")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Mongo migration job")
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	if err := mongoMigration.RunMigration(ctx, db, cfg.Log); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}

	if *facilitiesFile != "" {
		seedFacilities(ctx, cfg, *facilitiesFile)
	}
	cfg.Log.Info("Migration completed successfully")
}

func seedFacilities(ctx context.Context, cfg *config.Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		cfg.Log.Fatal("Failed to read facilities file", "path", path, "error", err)
	}

	var facilities []*model.Facility
	if err := json.Unmarshal(data, &facilities); err != nil {
		cfg.Log.Fatal("Failed to parse facilities file", "path", path, "error", err)
	}

	inserted, err := mongoMigration.SeedFacilities(ctx, facilitiesrepo.NewMongoFacilityRepository(cfg), facilities, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to seed facilities", "error", err)
	}
	cfg.Log.Info("Facilities seeded", "inserted", inserted, "total", len(facilities))
}
