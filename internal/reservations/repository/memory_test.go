package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	reservationserrors "facilityhub/internal/reservations/errors"
	"facilityhub/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

var day = time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC)

func at(h int) time.Time { return day.Add(time.Duration(h) * time.Hour) }

func seed(t *testing.T, repo *MemoryReservationRepository, facility string, start, end int, status model.Status) *model.Reservation {
	t.Helper()
	res := &model.Reservation{
		ID:          uuid.NewString(),
		FacilityID:  facility,
		RequesterID: "user-1",
		StartTime:   at(start),
		EndTime:     at(end),
		Status:      status,
	}
	if err := repo.Insert(context.Background(), res); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	return res
}

func TestMemoryRepository_FindActive(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryReservationRepository()

	pending := seed(t, repo, "f1", 10, 12, model.StatusPending)
	seed(t, repo, "f1", 14, 15, model.StatusApproved)
	seed(t, repo, "f1", 16, 17, model.StatusCancelled)
	seed(t, repo, "f1", 18, 19, model.StatusRejected)
	seed(t, repo, "f2", 10, 12, model.StatusApproved)

	active, err := repo.FindActiveByFacility(ctx, "f1", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active reservations, got %d", len(active))
	}
	if !active[0].StartTime.Equal(at(10)) {
		t.Errorf("expected chronological order, first starts at %v", active[0].StartTime)
	}

	excluded, err := repo.FindActiveByFacility(ctx, "f1", pending.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(excluded) != 1 || excluded[0].ID == pending.ID {
		t.Errorf("excludeID was not honoured: %+v", excluded)
	}
}

func TestMemoryRepository_FindActiveByRange(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryReservationRepository()

	seed(t, repo, "f1", 8, 10, model.StatusApproved)
	seed(t, repo, "f1", 11, 13, model.StatusPending)
	seed(t, repo, "f1", 13, 14, model.StatusCancelled)

	got, err := repo.FindActiveByFacilityAndRange(ctx, "f1", at(10), at(12))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || !got[0].StartTime.Equal(at(11)) {
		t.Errorf("expected only the 11-13 reservation, got %+v", got)
	}

	spanning, err := repo.FindActiveByFacilityAndRange(ctx, "f1", at(9), at(9).Add(30*time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if len(spanning) != 1 {
		t.Errorf("reservation starting before the range must be returned, got %d", len(spanning))
	}
}

func TestMemoryRepository_CompareAndSetStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryReservationRepository()
	res := seed(t, repo, "f1", 10, 12, model.StatusPending)
	now := day.Add(time.Minute)

	updated, err := repo.CompareAndSetStatus(ctx, res.ID, model.StatusPending, model.StatusApproved, now)
	if err != nil {
		t.Fatalf("CompareAndSetStatus() error = %v", err)
	}
	if updated.Status != model.StatusApproved || !updated.UpdatedAt.Equal(now) {
		t.Errorf("unexpected result %+v", updated)
	}

	_, err = repo.CompareAndSetStatus(ctx, res.ID, model.StatusPending, model.StatusRejected, now)
	if !errors.Is(err, reservationserrors.ErrStatusMismatch) {
		t.Errorf("expected ErrStatusMismatch, got %v", err)
	}

	_, err = repo.CompareAndSetStatus(ctx, uuid.NewString(), model.StatusPending, model.StatusApproved, now)
	if !errors.Is(err, reservationserrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = repo.CompareAndSetStatus(ctx, "not-a-uuid", model.StatusPending, model.StatusApproved, now)
	if !errors.Is(err, reservationserrors.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}

func TestMemoryRepository_FindAndCount(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryReservationRepository()
	for h := 8; h < 13; h++ {
		seed(t, repo, "f1", h, h+1, model.StatusPending)
	}
	seed(t, repo, "f2", 8, 9, model.StatusApproved)

	filter := model.ReservationFilter{FacilityID: "f1"}
	page, err := repo.Find(ctx, filter, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 || !page[0].StartTime.Equal(at(11)) || !page[1].StartTime.Equal(at(10)) {
		t.Errorf("unexpected page %+v", page)
	}

	count, err := repo.Count(ctx, filter)
	if err != nil || count != 5 {
		t.Errorf("Count() = %d, %v", count, err)
	}

	from, to := at(10), at(12)
	ranged, _ := repo.Count(ctx, model.ReservationFilter{From: &from, To: &to})
	if ranged != 2 {
		t.Errorf("expected 2 reservations starting in [10,12), got %d", ranged)
	}

	approved, _ := repo.Count(ctx, model.ReservationFilter{Status: model.StatusApproved})
	if approved != 1 {
		t.Errorf("expected 1 approved reservation, got %d", approved)
	}

	empty, err := repo.Find(ctx, filter, 10, 50)
	if err != nil || len(empty) != 0 {
		t.Errorf("offset past end should return empty page, got %v, %v", empty, err)
	}
}

func TestMemoryRepository_TransactionRollback(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryReservationRepository()
	boom := errors.New("boom")
	existing := seed(t, repo, "f1", 8, 9, model.StatusPending)

	var outside *model.Reservation
	err := repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		res := &model.Reservation{ID: uuid.NewString(), FacilityID: "f1", StartTime: at(10), EndTime: at(11), Status: model.StatusPending}
		if err := repo.Insert(txCtx, res); err != nil {
			return err
		}
		if _, err := repo.CompareAndSetStatus(txCtx, existing.ID, model.StatusPending, model.StatusApproved, at(0)); err != nil {
			return err
		}
		// a write that does not use the transaction context survives the rollback
		outside = seed(t, repo, "f2", 10, 11, model.StatusPending)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	all := repo.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 reservations after rollback, found %d", len(all))
	}
	got, _ := repo.FindByID(ctx, existing.ID)
	if got.Status != model.StatusPending {
		t.Errorf("status = %s, want PENDING restored", got.Status)
	}
	if _, err := repo.FindByID(ctx, outside.ID); err != nil {
		t.Errorf("write outside the transaction was lost: %v", err)
	}

	err = repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		return repo.Insert(txCtx, &model.Reservation{ID: uuid.NewString(), FacilityID: "f1", StartTime: at(12), EndTime: at(13), Status: model.StatusPending})
	})
	if err != nil || len(repo.All()) != 3 {
		t.Errorf("expected commit, err=%v count=%d", err, len(repo.All()))
	}
}

func TestMemoryLockRepository(t *testing.T) {
	ctx := context.Background()
	locks := NewMemoryReservationLockRepository()

	if err := locks.Touch(ctx, "f1", "a"); err == nil {
		t.Error("Touch() before Ensure() should fail")
	}
	if err := locks.Ensure(ctx, "f1"); err != nil {
		t.Fatal(err)
	}
	_ = locks.Ensure(ctx, "f1")
	_ = locks.Touch(ctx, "f1", "a")
	_ = locks.Touch(ctx, "f1", "b")

	lock, ok := locks.Get("f1")
	if !ok || lock.Version != 2 || lock.LastHolder != "b" {
		t.Errorf("unexpected lock %+v", lock)
	}
}

func TestBuildFilter(t *testing.T) {
	from, to := at(8), at(20)
	f := buildFilter(model.ReservationFilter{
		Status:      model.StatusApproved,
		FacilityID:  "f1",
		RequesterID: "user-1",
		From:        &from,
		To:          &to,
	})

	if f["status"] != model.StatusApproved || f["facility_id"] != "f1" || f["requester_id"] != "user-1" {
		t.Errorf("unexpected equality filters: %v", f)
	}
	start, ok := f["start_time"].(bson.M)
	if !ok {
		t.Fatalf("expected start_time range, got %T", f["start_time"])
	}
	if start["$gte"] != from || start["$lt"] != to {
		t.Errorf("unexpected range %v", start)
	}

	if len(buildFilter(model.ReservationFilter{})) != 0 {
		t.Error("empty filter should match everything")
	}
}
