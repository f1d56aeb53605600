package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	facilitiesrepo "facilityhub/internal/facilities/repository"
	reservationserrors "facilityhub/internal/reservations/errors"
	"facilityhub/internal/reservations/repository"
	"facilityhub/internal/reservations/validator"
	apperrors "facilityhub/pkg/errors"
	"facilityhub/pkg/model"

	"github.com/google/uuid"
)

func requireCode(t *testing.T, err error, code string) *apperrors.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
	return appErr
}

func TestCreate_ScenarioB_EmptyFacility(t *testing.T) {
	f := newFixture(t, at(7))

	res, err := f.svc.Create(context.Background(), createInput(at(9), at(10)))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if res.Status != model.StatusPending {
		t.Errorf("status = %s, want PENDING", res.Status)
	}
	if res.ID == "" || res.CreatedAt.IsZero() || !res.CreatedAt.Equal(res.UpdatedAt) {
		t.Errorf("unexpected persisted fields: %+v", res)
	}

	stored, err := f.repo.FindByID(context.Background(), res.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if stored.Status != model.StatusPending {
		t.Errorf("stored status = %s", stored.Status)
	}

	event := f.notifier.last(t)
	if event.Type != model.EventReservationCreated || event.Reservation.ID != res.ID {
		t.Errorf("unexpected event %+v", event)
	}

	lock, ok := f.locks.Get(facilityID)
	if !ok || lock.Version != 1 || lock.LastHolder != requester.ID {
		t.Errorf("expected guard document bumped once, got %+v (exists=%v)", lock, ok)
	}
}

func TestCreate_ScenarioA_ConflictWithAlternatives(t *testing.T) {
	tests := []struct {
		name      string
		end       time.Time
		wantFirst model.TimeSlot
	}{
		{"two hour request", at(13), model.TimeSlot{StartTime: at(12), EndTime: at(14)}},
		{"one hour request", at(12), model.TimeSlot{StartTime: at(12), EndTime: at(13)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, at(9).Add(30*time.Minute))
			f.seed(t, at(10), at(12), model.StatusApproved)

			_, err := f.svc.Create(context.Background(), createInput(at(11), tt.end))
			appErr := requireCode(t, err, apperrors.CodeConflict)

			alternatives, ok := appErr.Details[apperrors.DetailAlternatives].([]model.TimeSlot)
			if !ok {
				t.Fatalf("expected []TimeSlot alternatives, got %T", appErr.Details[apperrors.DetailAlternatives])
			}
			if len(alternatives) != 3 {
				t.Fatalf("expected 3 alternatives, got %d", len(alternatives))
			}
			if alternatives[0] != tt.wantFirst {
				t.Errorf("first alternative = %v-%v, want %v-%v",
					alternatives[0].StartTime, alternatives[0].EndTime, tt.wantFirst.StartTime, tt.wantFirst.EndTime)
			}
			if len(f.repo.All()) != 1 {
				t.Errorf("conflicting request must not be persisted")
			}
			if f.notifier.count() != 0 {
				t.Errorf("no notification expected on conflict")
			}
		})
	}
}

func TestCreate_TouchingIntervalsDoNotConflict(t *testing.T) {
	f := newFixture(t, at(7))
	f.seed(t, at(10), at(12), model.StatusApproved)

	if _, err := f.svc.Create(context.Background(), createInput(at(12), at(14))); err != nil {
		t.Fatalf("back-to-back reservation rejected: %v", err)
	}
	if _, err := f.svc.Create(context.Background(), createInput(at(8), at(10))); err != nil {
		t.Fatalf("back-to-back reservation rejected: %v", err)
	}
}

func TestCreate_InactiveReservationsDoNotBlock(t *testing.T) {
	f := newFixture(t, at(7))
	f.seed(t, at(10), at(12), model.StatusCancelled)
	f.seed(t, at(10), at(12), model.StatusRejected)

	if _, err := f.svc.Create(context.Background(), createInput(at(10), at(12))); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
}

func TestCreate_PendingBlocksToo(t *testing.T) {
	f := newFixture(t, at(7))
	f.seed(t, at(10), at(12), model.StatusPending)

	_, err := f.svc.Create(context.Background(), createInput(at(9), at(11)))
	requireCode(t, err, apperrors.CodeConflict)
}

func TestCreate_EmptyAlternatives(t *testing.T) {
	f := newFixture(t, at(7))
	// A request longer than the operating day has nowhere else to go.
	f.seed(t, at(8), at(20), model.StatusApproved)

	_, err := f.svc.Create(context.Background(), createInput(at(9), at(22)))
	appErr := requireCode(t, err, apperrors.CodeConflict)

	alternatives, ok := appErr.Details[apperrors.DetailAlternatives].([]model.TimeSlot)
	if !ok || alternatives == nil {
		t.Fatalf("alternatives must be present even when empty, got %#v", appErr.Details)
	}
	if len(alternatives) != 0 {
		t.Errorf("expected no alternatives, got %d", len(alternatives))
	}
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name     string
		input    *model.CreateReservationInput
		wantCode string
	}{
		{"end before start", createInput(at(12), at(10)), apperrors.CodeValidation},
		{"end equals start", createInput(at(12), at(12)), apperrors.CodeValidation},
		{"start in the past", createInput(at(6), at(8)), apperrors.CodeValidation},
		{"missing facility", &model.CreateReservationInput{RequesterID: "user-1", StartTime: at(9), EndTime: at(10)}, apperrors.CodeValidation},
		{"unknown facility", &model.CreateReservationInput{FacilityID: "room-z", RequesterID: "user-1", StartTime: at(9), EndTime: at(10)}, apperrors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, at(7))
			_, err := f.svc.Create(context.Background(), tt.input)
			requireCode(t, err, tt.wantCode)
			if len(f.repo.All()) != 0 {
				t.Error("nothing should be persisted")
			}
		})
	}
}

func TestCreate_ScenarioC_ConcurrentIdenticalRequests(t *testing.T) {
	f := newFixture(t, at(7))

	const workers = 8
	var wg sync.WaitGroup
	results := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = f.svc.Create(context.Background(), createInput(at(9), at(11)))
		}()
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case apperrors.HasCode(err, apperrors.CodeConflict):
			conflicted++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || conflicted != workers-1 {
		t.Errorf("succeeded=%d conflicted=%d, want 1 and %d", succeeded, conflicted, workers-1)
	}

	active, err := f.repo.FindActiveByFacility(context.Background(), facilityID, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 {
		t.Errorf("expected exactly one active reservation, got %d", len(active))
	}
}

func TestCreate_LockTimeout(t *testing.T) {
	locker := NewLocalLocker()
	f := newFixture(t, at(7), WithLocker(locker))

	unlock, err := locker.Lock(context.Background(), facilityID)
	if err != nil {
		t.Fatal(err)
	}
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = f.svc.Create(ctx, createInput(at(9), at(10)))
	appErr := requireCode(t, err, apperrors.CodeTimeout)
	if !errors.Is(appErr, reservationserrors.ErrLockTimeout) {
		t.Errorf("expected ErrLockTimeout in chain, got %v", appErr)
	}
}

func TestCreate_InfrastructureFailure(t *testing.T) {
	cfg := testConfig()
	repo := &mockReservationRepository{
		findActiveByFacilityFunc: func(ctx context.Context, facilityID, excludeID string) ([]*model.Reservation, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := NewReservationService(
		repo,
		repository.NewMemoryReservationLockRepository(),
		facilitiesrepo.NewMemoryFacilityRepository(&model.Facility{ID: facilityID}),
		validator.NewReservationValidator(cfg.Log),
		cfg,
		WithClock(fixedAt(at(7))),
	)

	_, err := svc.Create(context.Background(), createInput(at(9), at(10)))
	requireCode(t, err, apperrors.CodeInternal)
}

func TestCreate_AlternativesFailureIsInternal(t *testing.T) {
	cfg := testConfig()
	existing := &model.Reservation{ID: uuid.NewString(), FacilityID: facilityID, StartTime: at(9), EndTime: at(10), Status: model.StatusApproved}
	repo := &mockReservationRepository{
		findActiveByFacilityFunc: func(ctx context.Context, facilityID, excludeID string) ([]*model.Reservation, error) {
			return []*model.Reservation{existing}, nil
		},
		findActiveByFacilityAndRangeFunc: func(ctx context.Context, facilityID string, from, to time.Time) ([]*model.Reservation, error) {
			return nil, errors.New("cursor closed")
		},
	}
	svc := NewReservationService(
		repo,
		repository.NewMemoryReservationLockRepository(),
		facilitiesrepo.NewMemoryFacilityRepository(&model.Facility{ID: facilityID}),
		validator.NewReservationValidator(cfg.Log),
		cfg,
		WithClock(fixedAt(at(7))),
	)

	_, err := svc.Create(context.Background(), createInput(at(9), at(10)))
	requireCode(t, err, apperrors.CodeInternal)
}

func TestCreate_NotifierFailureDoesNotFail(t *testing.T) {
	f := newFixture(t, at(7))
	f.notifier.err = errors.New("broker down")

	if _, err := f.svc.Create(context.Background(), createInput(at(9), at(10))); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(f.repo.All()) != 1 {
		t.Error("reservation should be persisted despite notifier failure")
	}
}

func TestApprove(t *testing.T) {
	t.Run("pending becomes approved", func(t *testing.T) {
		f := newFixture(t, at(7))
		res := f.seed(t, at(10), at(12), model.StatusPending)

		approved, err := f.svc.Approve(context.Background(), admin, res.ID)
		if err != nil {
			t.Fatalf("Approve() error = %v", err)
		}
		if approved.Status != model.StatusApproved || !approved.UpdatedAt.Equal(at(7)) {
			t.Errorf("unexpected approved reservation %+v", approved)
		}
		if f.notifier.last(t).Type != model.EventReservationApproved {
			t.Error("expected approved event")
		}
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		f := newFixture(t, at(7))
		res := f.seed(t, at(10), at(12), model.StatusPending)

		_, err := f.svc.Approve(context.Background(), requester, res.ID)
		requireCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newFixture(t, at(7))
		_, err := f.svc.Approve(context.Background(), admin, uuid.NewString())
		requireCode(t, err, apperrors.CodeNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newFixture(t, at(7))
		_, err := f.svc.Approve(context.Background(), admin, "not-a-uuid")
		requireCode(t, err, apperrors.CodeInvalidInput)
	})

	for _, status := range []model.Status{model.StatusApproved, model.StatusRejected, model.StatusCancelled} {
		t.Run("from "+string(status), func(t *testing.T) {
			f := newFixture(t, at(7))
			res := f.seed(t, at(10), at(12), status)

			_, err := f.svc.Approve(context.Background(), admin, res.ID)
			appErr := requireCode(t, err, apperrors.CodeValidation)
			if appErr.Message != "Only pending reservations can be approved" {
				t.Errorf("message = %q", appErr.Message)
			}
		})
	}
}

func TestApprove_RecheckRefusesOverlap(t *testing.T) {
	f := newFixture(t, at(7))
	f.seed(t, at(10), at(12), model.StatusApproved)
	pending := f.seed(t, at(11), at(13), model.StatusPending)

	_, err := f.svc.Approve(context.Background(), admin, pending.ID)
	requireCode(t, err, apperrors.CodeConflict)

	stored, _ := f.repo.FindByID(context.Background(), pending.ID)
	if stored.Status != model.StatusPending {
		t.Errorf("refused approval must leave status PENDING, got %s", stored.Status)
	}
	if f.notifier.count() != 0 {
		t.Error("refused approval must not notify")
	}
}

func TestApprove_RecheckExcludesItself(t *testing.T) {
	f := newFixture(t, at(7))
	res := f.seed(t, at(10), at(12), model.StatusPending)
	f.seed(t, at(12), at(13), model.StatusApproved)

	if _, err := f.svc.Approve(context.Background(), admin, res.ID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
}

func TestApprove_RacesCreate(t *testing.T) {
	f := newFixture(t, at(7))
	pending := f.seed(t, at(10), at(12), model.StatusPending)

	const creators = 4
	var wg sync.WaitGroup
	var approveErr error
	createErrs := make([]error, creators)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, approveErr = f.svc.Approve(context.Background(), admin, pending.ID)
	}()
	for i := range creators {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, createErrs[i] = f.svc.Create(context.Background(), createInput(at(11), at(12)))
		}()
	}
	wg.Wait()

	if approveErr != nil {
		t.Errorf("Approve() error = %v", approveErr)
	}
	for _, err := range createErrs {
		if !apperrors.HasCode(err, apperrors.CodeConflict) {
			t.Errorf("expected conflict for overlapping create, got %v", err)
		}
	}

	active, err := f.repo.FindActiveByFacility(context.Background(), facilityID, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].Status != model.StatusApproved {
		t.Errorf("expected the single approved reservation to remain, got %d active", len(active))
	}
}

func TestReject(t *testing.T) {
	t.Run("reason reaches notifier only", func(t *testing.T) {
		f := newFixture(t, at(7))
		res := f.seed(t, at(10), at(12), model.StatusPending)

		rejected, err := f.svc.Reject(context.Background(), admin, res.ID, &model.RejectReservationInput{Reason: "  Room under maintenance "})
		if err != nil {
			t.Fatalf("Reject() error = %v", err)
		}
		if rejected.Status != model.StatusRejected {
			t.Errorf("status = %s", rejected.Status)
		}

		event := f.notifier.last(t)
		if event.Type != model.EventReservationRejected || event.Reason != "Room under maintenance" {
			t.Errorf("unexpected event %+v", event)
		}
	})

	t.Run("nil input", func(t *testing.T) {
		f := newFixture(t, at(7))
		res := f.seed(t, at(10), at(12), model.StatusPending)

		if _, err := f.svc.Reject(context.Background(), admin, res.ID, nil); err != nil {
			t.Fatalf("Reject() error = %v", err)
		}
	})

	t.Run("approved cannot be rejected", func(t *testing.T) {
		f := newFixture(t, at(7))
		res := f.seed(t, at(10), at(12), model.StatusApproved)

		_, err := f.svc.Reject(context.Background(), admin, res.ID, nil)
		appErr := requireCode(t, err, apperrors.CodeValidation)
		if appErr.Details["status"] != model.StatusApproved {
			t.Errorf("expected current status in details, got %v", appErr.Details)
		}
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		f := newFixture(t, at(7))
		res := f.seed(t, at(10), at(12), model.StatusPending)

		_, err := f.svc.Reject(context.Background(), requester, res.ID, nil)
		requireCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newFixture(t, at(7))
		_, err := f.svc.Reject(context.Background(), admin, uuid.NewString(), nil)
		requireCode(t, err, apperrors.CodeNotFound)
	})
}

func TestCancel(t *testing.T) {
	for _, status := range []model.Status{model.StatusPending, model.StatusApproved} {
		t.Run("owner cancels "+string(status), func(t *testing.T) {
			f := newFixture(t, at(7))
			res := f.seed(t, at(10), at(12), status)

			cancelled, err := f.svc.Cancel(context.Background(), requester, res.ID)
			if err != nil {
				t.Fatalf("Cancel() error = %v", err)
			}
			if cancelled.Status != model.StatusCancelled {
				t.Errorf("status = %s", cancelled.Status)
			}
			if f.notifier.last(t).Type != model.EventReservationCancelled {
				t.Error("expected cancelled event")
			}
		})
	}

	t.Run("admin cancels any", func(t *testing.T) {
		f := newFixture(t, at(7))
		res := f.seed(t, at(10), at(12), model.StatusApproved)

		if _, err := f.svc.Cancel(context.Background(), admin, res.ID); err != nil {
			t.Fatalf("Cancel() error = %v", err)
		}
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		f := newFixture(t, at(7))
		res := f.seed(t, at(10), at(12), model.StatusApproved)

		_, err := f.svc.Cancel(context.Background(), stranger, res.ID)
		requireCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("rejected is terminal", func(t *testing.T) {
		f := newFixture(t, at(7))
		res := f.seed(t, at(10), at(12), model.StatusRejected)

		_, err := f.svc.Cancel(context.Background(), requester, res.ID)
		requireCode(t, err, apperrors.CodeValidation)
	})

	t.Run("cancelled slot is free again", func(t *testing.T) {
		f := newFixture(t, at(7))
		res := f.seed(t, at(10), at(12), model.StatusApproved)

		if _, err := f.svc.Cancel(context.Background(), requester, res.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := f.svc.Create(context.Background(), createInput(at(10), at(12))); err != nil {
			t.Fatalf("slot should be free after cancel: %v", err)
		}
	})
}

func TestCancel_TwiceKeepsUpdatedAt(t *testing.T) {
	f := newFixture(t, at(7))
	res := f.seed(t, at(10), at(12), model.StatusPending)

	first, err := f.svc.Cancel(context.Background(), requester, res.ID)
	if err != nil {
		t.Fatal(err)
	}

	later := NewReservationService(f.repo, f.locks, f.facilities, validator.NewReservationValidator(testConfig().Log), testConfig(),
		WithClock(fixedAt(at(9))))
	_, err = later.Cancel(context.Background(), requester, res.ID)
	appErr := requireCode(t, err, apperrors.CodeValidation)
	if appErr.Message != "Reservation is already cancelled" {
		t.Errorf("message = %q", appErr.Message)
	}

	stored, _ := f.repo.FindByID(context.Background(), res.ID)
	if !stored.UpdatedAt.Equal(first.UpdatedAt) {
		t.Errorf("updated_at changed from %v to %v", first.UpdatedAt, stored.UpdatedAt)
	}
}

func TestCancel_RetriesOnConcurrentChange(t *testing.T) {
	cfg := testConfig()
	id := uuid.NewString()
	status := model.StatusPending
	calls := 0

	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, _ string) (*model.Reservation, error) {
			return &model.Reservation{ID: id, FacilityID: facilityID, RequesterID: requester.ID, Status: status}, nil
		},
		compareAndSetStatusFunc: func(ctx context.Context, _ string, expected, next model.Status, at time.Time) (*model.Reservation, error) {
			calls++
			if calls == 1 {
				// Approved between the read and the write.
				status = model.StatusApproved
				return nil, reservationserrors.ErrStatusMismatch
			}
			if expected != model.StatusApproved {
				t.Errorf("retry should expect APPROVED, got %s", expected)
			}
			return &model.Reservation{ID: id, Status: next, UpdatedAt: at}, nil
		},
	}
	svc := NewReservationService(repo, repository.NewMemoryReservationLockRepository(),
		facilitiesrepo.NewMemoryFacilityRepository(), validator.NewReservationValidator(cfg.Log), cfg)

	res, err := svc.Cancel(context.Background(), requester, id)
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if res.Status != model.StatusCancelled || calls != 2 {
		t.Errorf("status=%s calls=%d", res.Status, calls)
	}
}

func TestGetByID_Visibility(t *testing.T) {
	f := newFixture(t, at(7))
	res := f.seed(t, at(10), at(12), model.StatusPending)

	if _, err := f.svc.GetByID(context.Background(), requester, res.ID); err != nil {
		t.Errorf("owner GetByID() error = %v", err)
	}
	if _, err := f.svc.GetByID(context.Background(), admin, res.ID); err != nil {
		t.Errorf("admin GetByID() error = %v", err)
	}
	_, err := f.svc.GetByID(context.Background(), stranger, res.ID)
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestList(t *testing.T) {
	f := newFixture(t, at(7))
	f.seed(t, at(10), at(12), model.StatusPending)
	f.seed(t, at(13), at(14), model.StatusApproved)
	other := &model.Reservation{ID: uuid.NewString(), FacilityID: facilityID, RequesterID: stranger.ID, StartTime: at(15), EndTime: at(16), Status: model.StatusPending}
	if err := f.repo.Insert(context.Background(), other); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		actor     model.Actor
		filter    model.ReservationFilter
		wantCount int64
	}{
		{"admin sees all", admin, model.ReservationFilter{}, 3},
		{"admin filters by requester", admin, model.ReservationFilter{RequesterID: stranger.ID}, 1},
		{"status filter is case insensitive", admin, model.ReservationFilter{Status: "pending"}, 2},
		{"user sees own", requester, model.ReservationFilter{}, 2},
		{"user cannot widen to others", requester, model.ReservationFilter{RequesterID: stranger.ID}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := f.svc.List(context.Background(), tt.actor, tt.filter, 0, 0)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if total != tt.wantCount || int64(len(items)) != tt.wantCount {
				t.Errorf("total=%d items=%d, want %d", total, len(items), tt.wantCount)
			}
		})
	}

	t.Run("anonymous is forbidden", func(t *testing.T) {
		_, _, err := f.svc.List(context.Background(), model.Actor{}, model.ReservationFilter{}, 10, 0)
		requireCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, _, err := f.svc.List(context.Background(), admin, model.ReservationFilter{Status: "DONE"}, 10, 0)
		requireCode(t, err, apperrors.CodeValidation)
	})

	t.Run("pagination", func(t *testing.T) {
		items, total, err := f.svc.List(context.Background(), admin, model.ReservationFilter{}, 2, 2)
		if err != nil {
			t.Fatal(err)
		}
		if total != 3 || len(items) != 1 {
			t.Errorf("total=%d items=%d", total, len(items))
		}
	})
}

func TestList_RepositoryFailure(t *testing.T) {
	cfg := testConfig()
	repo := &mockReservationRepository{
		countFunc: func(ctx context.Context, filter model.ReservationFilter) (int64, error) {
			return 0, errors.New("timeout")
		},
		findFunc: func(ctx context.Context, filter model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, error) {
			return []*model.Reservation{}, nil
		},
	}
	svc := NewReservationService(repo, repository.NewMemoryReservationLockRepository(),
		facilitiesrepo.NewMemoryFacilityRepository(), validator.NewReservationValidator(cfg.Log), cfg)

	_, _, err := svc.List(context.Background(), admin, model.ReservationFilter{}, 10, 0)
	requireCode(t, err, apperrors.CodeInternal)
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture(t, at(7))
	f.seed(t, at(10), at(12), model.StatusApproved)
	f.seed(t, at(14), at(15), model.StatusCancelled)

	availability, err := f.svc.CheckAvailability(context.Background(), facilityID, at(15))
	if err != nil {
		t.Fatalf("CheckAvailability() error = %v", err)
	}
	if !availability.Date.Equal(day) {
		t.Errorf("date = %v, want %v", availability.Date, day)
	}
	if len(availability.Reservations) != 1 {
		t.Errorf("expected 1 active reservation, got %d", len(availability.Reservations))
	}
	if len(availability.Slots) != 12 {
		t.Fatalf("expected 12 hourly slots, got %d", len(availability.Slots))
	}
	for _, slot := range availability.Slots {
		busy := slot.StartTime.Equal(at(10)) || slot.StartTime.Equal(at(11))
		if slot.Available == busy {
			t.Errorf("slot %v available=%v", slot.StartTime, slot.Available)
		}
	}

	_, err = f.svc.CheckAvailability(context.Background(), "room-z", at(15))
	requireCode(t, err, apperrors.CodeNotFound)
}
