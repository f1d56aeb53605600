package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	facilitiesrepo "facilityhub/internal/facilities/repository"
	"facilityhub/internal/reservations/repository"
	"facilityhub/internal/reservations/validator"
	"facilityhub/pkg/clock"
	"facilityhub/pkg/config"
	mongotx "facilityhub/pkg/db/mongo"
	"facilityhub/pkg/logger"
	"facilityhub/pkg/model"

	"github.com/google/uuid"
)

var day = time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC)

func at(h int) time.Time { return day.Add(time.Duration(h) * time.Hour) }

const facilityID = "room-a"

var (
	admin     = model.Actor{ID: "admin-1", IsAdmin: true}
	requester = model.Actor{ID: "user-1"}
	stranger  = model.Actor{ID: "user-2"}
)

func testConfig() *config.Config {
	return &config.Config{
		Log:                       logger.Discard(),
		Location:                  time.UTC,
		DefaultOpensAt:            "08:00",
		DefaultClosesAt:           "20:00",
		AlternativeMaxSuggestions: 3,
		AlternativeHorizonDays:    7,
		AlternativeStepMinutes:    60,
		AvailabilitySlotMinutes:   60,
		LockTimeout:               time.Second,
	}
}

type fixture struct {
	repo       *repository.MemoryReservationRepository
	locks      *repository.MemoryReservationLockRepository
	facilities *facilitiesrepo.MemoryFacilityRepository
	notifier   *recordingNotifier
	svc        ReservationService
}

func newFixture(t *testing.T, now time.Time, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		repo:       repository.NewMemoryReservationRepository(),
		locks:      repository.NewMemoryReservationLockRepository(),
		facilities: facilitiesrepo.NewMemoryFacilityRepository(&model.Facility{ID: facilityID, Name: "Room A"}),
		notifier:   &recordingNotifier{},
	}
	cfg := testConfig()
	opts = append([]Option{WithClock(clock.NewFixed(now)), WithNotifier(f.notifier)}, opts...)
	f.svc = NewReservationService(f.repo, f.locks, f.facilities, validator.NewReservationValidator(cfg.Log), cfg, opts...)
	return f
}

func (f *fixture) seed(t *testing.T, start, end time.Time, status model.Status) *model.Reservation {
	t.Helper()
	res := &model.Reservation{
		ID:          uuid.NewString(),
		FacilityID:  facilityID,
		RequesterID: requester.ID,
		StartTime:   start,
		EndTime:     end,
		Status:      status,
	}
	if err := f.repo.Insert(context.Background(), res); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return res
}

func fixedAt(t time.Time) clock.Clock { return clock.NewFixed(t) }

func createInput(start, end time.Time) *model.CreateReservationInput {
	return &model.CreateReservationInput{
		FacilityID:  facilityID,
		RequesterID: requester.ID,
		StartTime:   start,
		EndTime:     end,
		Purpose:     "team sync",
	}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []model.ReservationEvent
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, event model.ReservationEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

func (n *recordingNotifier) last(t *testing.T) model.ReservationEvent {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.events) == 0 {
		t.Fatal("expected a notification")
	}
	return n.events[len(n.events)-1]
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

// mockReservationRepository fails every call it has no func for.
type mockReservationRepository struct {
	insertFunc                       func(ctx context.Context, r *model.Reservation) error
	findByIDFunc                     func(ctx context.Context, id string) (*model.Reservation, error)
	findActiveByFacilityFunc         func(ctx context.Context, facilityID, excludeID string) ([]*model.Reservation, error)
	findActiveByFacilityAndRangeFunc func(ctx context.Context, facilityID string, from, to time.Time) ([]*model.Reservation, error)
	compareAndSetStatusFunc          func(ctx context.Context, id string, expected, next model.Status, at time.Time) (*model.Reservation, error)
	findFunc                         func(ctx context.Context, filter model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, error)
	countFunc                        func(ctx context.Context, filter model.ReservationFilter) (int64, error)
}

var errMockNotConfigured = errors.New("mock: not configured")

func (m *mockReservationRepository) Insert(ctx context.Context, r *model.Reservation) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, r)
	}
	return errMockNotConfigured
}

func (m *mockReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errMockNotConfigured
}

func (m *mockReservationRepository) FindActiveByFacility(ctx context.Context, facilityID, excludeID string) ([]*model.Reservation, error) {
	if m.findActiveByFacilityFunc != nil {
		return m.findActiveByFacilityFunc(ctx, facilityID, excludeID)
	}
	return nil, errMockNotConfigured
}

func (m *mockReservationRepository) FindActiveByFacilityAndRange(ctx context.Context, facilityID string, from, to time.Time) ([]*model.Reservation, error) {
	if m.findActiveByFacilityAndRangeFunc != nil {
		return m.findActiveByFacilityAndRangeFunc(ctx, facilityID, from, to)
	}
	return nil, errMockNotConfigured
}

func (m *mockReservationRepository) CompareAndSetStatus(ctx context.Context, id string, expected, next model.Status, at time.Time) (*model.Reservation, error) {
	if m.compareAndSetStatusFunc != nil {
		return m.compareAndSetStatusFunc(ctx, id, expected, next, at)
	}
	return nil, errMockNotConfigured
}

func (m *mockReservationRepository) Find(ctx context.Context, filter model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, filter, limit, offset)
	}
	return nil, errMockNotConfigured
}

func (m *mockReservationRepository) Count(ctx context.Context, filter model.ReservationFilter) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, filter)
	}
	return 0, errMockNotConfigured
}

func (m *mockReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}
