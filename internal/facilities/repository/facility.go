package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	facilitieserrors "facilityhub/internal/facilities/errors"
	"facilityhub/pkg/config"
	"facilityhub/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "Facilities"
)

// FacilityRepository is the read side of the facility catalogue. Facilities are managed
// elsewhere; reservations only need to resolve them by id.
type FacilityRepository interface {
	FindByID(ctx context.Context, id string) (*model.Facility, error)
	Insert(ctx context.Context, facility *model.Facility) error
}

type mongoFacilityRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoFacilityRepository(cfg *config.Config) FacilityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoFacilityRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoFacilityRepository) FindByID(ctx context.Context, id string) (*model.Facility, error) {
	if strings.TrimSpace(id) == "" {
		return nil, facilitieserrors.ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var facility model.Facility
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&facility)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, facilitieserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find facility: %w", err)
	}
	return &facility, nil
}

func (r *mongoFacilityRepository) Insert(ctx context.Context, facility *model.Facility) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if facility.CreatedAt.IsZero() {
		facility.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	if _, err := r.collection.InsertOne(ctx, facility); err != nil {
		return fmt.Errorf("failed to insert facility: %w", err)
	}
	return nil
}

type MemoryFacilityRepository struct {
	mu   sync.RWMutex
	data map[string]model.Facility
}

func NewMemoryFacilityRepository(facilities ...*model.Facility) *MemoryFacilityRepository {
	repo := &MemoryFacilityRepository{data: make(map[string]model.Facility)}
	for _, f := range facilities {
		repo.data[f.ID] = *f
	}
	return repo
}

func (r *MemoryFacilityRepository) FindByID(ctx context.Context, id string) (*model.Facility, error) {
	if strings.TrimSpace(id) == "" {
		return nil, facilitieserrors.ErrInvalidID
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.data[id]
	if !ok {
		return nil, facilitieserrors.ErrNotFound
	}
	return &f, nil
}

func (r *MemoryFacilityRepository) Insert(ctx context.Context, facility *model.Facility) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[facility.ID]; exists {
		return fmt.Errorf("failed to insert facility: duplicate id %s", facility.ID)
	}
	r.data[facility.ID] = *facility
	return nil
}
