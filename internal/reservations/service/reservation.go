package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	facilitieserrors "facilityhub/internal/facilities/errors"
	facilitiesrepo "facilityhub/internal/facilities/repository"
	reservationserrors "facilityhub/internal/reservations/errors"
	"facilityhub/internal/reservations/repository"
	"facilityhub/internal/reservations/validator"
	"facilityhub/pkg/clock"
	"facilityhub/pkg/config"
	apperrors "facilityhub/pkg/errors"
	"facilityhub/pkg/logger"
	"facilityhub/pkg/metrics"
	"facilityhub/pkg/model"
	"facilityhub/pkg/sanitizer"

	"github.com/google/uuid"
)

const (
	operationCreate  = "create"
	operationApprove = "approve"

	// casAttempts bounds how often Cancel re-reads a reservation that changed under it.
	casAttempts = 3
)

// errSlotTaken aborts the transaction when the requested window is occupied.
var errSlotTaken = errors.New("time slot taken")

type ReservationService interface {
	Create(ctx context.Context, input *model.CreateReservationInput) (*model.Reservation, error)
	GetByID(ctx context.Context, actor model.Actor, id string) (*model.Reservation, error)
	List(ctx context.Context, actor model.Actor, filter model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error)
	Approve(ctx context.Context, actor model.Actor, id string) (*model.Reservation, error)
	Reject(ctx context.Context, actor model.Actor, id string, input *model.RejectReservationInput) (*model.Reservation, error)
	Cancel(ctx context.Context, actor model.Actor, id string) (*model.Reservation, error)
	CheckAvailability(ctx context.Context, facilityID string, date time.Time) (*model.Availability, error)
}

// Notifier receives an event after each committed transition. Failures are logged and never
// undo the transition.
type Notifier interface {
	Notify(ctx context.Context, event model.ReservationEvent) error
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, model.ReservationEvent) error { return nil }

type Option func(*reservationService)

func WithClock(c clock.Clock) Option {
	return func(s *reservationService) { s.clock = c }
}

func WithNotifier(n Notifier) Option {
	return func(s *reservationService) { s.notifier = n }
}

func WithMetrics(r metrics.Recorder) Option {
	return func(s *reservationService) { s.metrics = r }
}

func WithLocker(l *LocalLocker) Option {
	return func(s *reservationService) { s.locker = l }
}

type reservationService struct {
	repo       repository.ReservationRepository
	lockRepo   repository.ReservationLockRepository
	facilities facilitiesrepo.FacilityRepository
	validator  *validator.ReservationValidator
	cfg        *config.Config

	conflicts *ConflictChecker
	finder    *SlotFinder
	projector *AvailabilityProjector
	locker    *LocalLocker
	clock     clock.Clock
	notifier  Notifier
	metrics   metrics.Recorder
}

func NewReservationService(
	repo repository.ReservationRepository,
	lockRepo repository.ReservationLockRepository,
	facilities facilitiesrepo.FacilityRepository,
	validator *validator.ReservationValidator,
	cfg *config.Config,
	opts ...Option,
) ReservationService {
	s := &reservationService{
		repo:       repo,
		lockRepo:   lockRepo,
		facilities: facilities,
		validator:  validator,
		cfg:        cfg,
		locker:     NewLocalLocker(),
		clock:      clock.NewSystem(),
		notifier:   noopNotifier{},
		metrics:    metrics.Noop{},
	}
	for _, opt := range opts {
		opt(s)
	}

	calendar := CalendarFromConfig(cfg)
	s.conflicts = NewConflictChecker(repo)
	s.finder = NewSlotFinder(repo, s.clock, calendar, SlotFinderConfig{
		MaxSuggestions: cfg.AlternativeMaxSuggestions,
		HorizonDays:    cfg.AlternativeHorizonDays,
		Step:           time.Duration(cfg.AlternativeStepMinutes) * time.Minute,
	})
	s.projector = NewAvailabilityProjector(repo, calendar, time.Duration(cfg.AvailabilitySlotMinutes)*time.Minute)
	return s
}

func (s *reservationService) log(ctx context.Context) *logger.Logger {
	return s.cfg.Log.FromContext(ctx)
}

func (s *reservationService) Create(ctx context.Context, input *model.CreateReservationInput) (*model.Reservation, error) {
	s.sanitize(input)
	if err := s.validator.ValidateCreate(input, s.clock.Now()); err != nil {
		s.log(ctx).Warn("Reservation validation failed",
			"facility_id", input.FacilityID,
			"requester_id", input.RequesterID,
			"error", err,
		)
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}

	facility, err := s.findFacility(ctx, input.FacilityID)
	if err != nil {
		return nil, err
	}

	reservation := &model.Reservation{
		ID:          uuid.NewString(),
		FacilityID:  facility.ID,
		RequesterID: input.RequesterID,
		StartTime:   input.StartTime.UTC(),
		EndTime:     input.EndTime.UTC(),
		Purpose:     input.Purpose,
		Status:      model.StatusPending,
	}

	err = s.withFacilityLock(ctx, facility.ID, input.RequesterID, func(txCtx context.Context) error {
		conflict, err := s.conflicts.HasConflict(txCtx, facility.ID, reservation.StartTime, reservation.EndTime, "")
		if err != nil {
			return apperrors.Internal("Failed to check reservation conflicts", err)
		}
		if conflict {
			return errSlotTaken
		}

		now := s.clock.Now()
		reservation.CreatedAt = now
		reservation.UpdatedAt = now
		if err := s.repo.Insert(txCtx, reservation); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}
		return nil
	})
	if errors.Is(err, errSlotTaken) {
		return nil, s.slotUnavailable(ctx, facility, reservation)
	}
	if err != nil {
		s.log(ctx).Error("Failed to create reservation", "facility_id", facility.ID, "error", err)
		return nil, asInternal(err, "Failed to create reservation")
	}

	s.metrics.RecordReservationCreated()
	s.log(ctx).Info("Reservation created successfully",
		"id", reservation.ID,
		"facility_id", reservation.FacilityID,
		"requester_id", reservation.RequesterID,
		"start_time", reservation.StartTime,
		"end_time", reservation.EndTime,
	)
	s.notify(ctx, model.EventReservationCreated, reservation, input.RequesterID, "")
	return reservation, nil
}

// slotUnavailable builds the conflict error for a create, with alternatives computed after
// the facility lock has been released.
func (s *reservationService) slotUnavailable(ctx context.Context, facility *model.Facility, requested *model.Reservation) error {
	s.metrics.RecordConflict(operationCreate)

	alternatives, err := s.finder.FindAlternatives(ctx, facility, requested.StartTime, requested.Duration())
	if err != nil {
		s.log(ctx).Error("Failed to compute alternative slots", "facility_id", facility.ID, "error", err)
		return apperrors.Internal("Failed to compute alternative slots", err)
	}

	s.metrics.RecordAlternatives(len(alternatives))
	s.log(ctx).Warn("Reservation conflicts with an active reservation",
		"facility_id", facility.ID,
		"start_time", requested.StartTime,
		"end_time", requested.EndTime,
		"alternatives", len(alternatives),
	)
	return apperrors.SlotUnavailable("Time slot not available", alternatives)
}

func (s *reservationService) GetByID(ctx context.Context, actor model.Actor, id string) (*model.Reservation, error) {
	id = sanitizer.SanitizeIdentifier(id)
	reservation, err := s.findReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(reservation) {
		return nil, apperrors.NotFoundWithID("Reservation", id)
	}
	return reservation, nil
}

// List shows admins everything the filter matches; everyone else only sees their own
// reservations whatever requester the filter names.
func (s *reservationService) List(ctx context.Context, actor model.Actor, filter model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if !actor.IsAdmin {
		if actor.ID == "" {
			return nil, 0, apperrors.Forbidden("A user identity is required to list reservations")
		}
		filter.RequesterID = actor.ID
	}

	filter.Status = model.Status(sanitizer.SanitizeStatus(string(filter.Status)))
	filter.FacilityID = sanitizer.SanitizeIdentifier(filter.FacilityID)
	filter.RequesterID = sanitizer.SanitizeIdentifier(filter.RequesterID)
	if err := s.validator.ValidateFilter(&filter); err != nil {
		s.log(ctx).Warn("Reservation filter validation failed", "error", err)
		return nil, 0, apperrors.Validation("Invalid reservation filter", map[string]any{"error": err.Error()})
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.Find(ctx, filter, limit, offset)
	}()

	wg.Wait()
	if err := errors.Join(errCount, errFind); err != nil {
		s.log(ctx).Error("Failed to list reservations", "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve reservations", err)
	}

	return reservations, count, nil
}

// Approve re-checks the window against the current state under the facility lock, so two
// overlapping PENDING reservations can never both become APPROVED.
func (s *reservationService) Approve(ctx context.Context, actor model.Actor, id string) (*model.Reservation, error) {
	if !actor.IsAdmin {
		return nil, apperrors.Forbidden("Only administrators can approve reservations")
	}
	id = sanitizer.SanitizeIdentifier(id)

	current, err := s.findReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != model.StatusPending {
		return nil, notPending("approved", current.Status)
	}

	var approved *model.Reservation
	err = s.withFacilityLock(ctx, current.FacilityID, actor.ID, func(txCtx context.Context) error {
		conflict, err := s.conflicts.HasConflict(txCtx, current.FacilityID, current.StartTime, current.EndTime, current.ID)
		if err != nil {
			return apperrors.Internal("Failed to check reservation conflicts", err)
		}
		if conflict {
			return errSlotTaken
		}

		approved, err = s.repo.CompareAndSetStatus(txCtx, current.ID, model.StatusPending, model.StatusApproved, s.clock.Now())
		if err != nil {
			return s.mapTransitionError(txCtx, err, id, "approved")
		}
		return nil
	})
	if errors.Is(err, errSlotTaken) {
		s.metrics.RecordConflict(operationApprove)
		s.log(ctx).Warn("Approval refused, window overlaps another active reservation",
			"id", id,
			"facility_id", current.FacilityID,
		)
		return nil, apperrors.Conflict("Cannot approve: time slot is no longer available")
	}
	if err != nil {
		s.log(ctx).Error("Failed to approve reservation", "id", id, "error", err)
		return nil, asInternal(err, "Failed to approve reservation")
	}

	s.committed(ctx, model.EventReservationApproved, approved, actor.ID, "")
	return approved, nil
}

func (s *reservationService) Reject(ctx context.Context, actor model.Actor, id string, input *model.RejectReservationInput) (*model.Reservation, error) {
	if !actor.IsAdmin {
		return nil, apperrors.Forbidden("Only administrators can reject reservations")
	}
	id = sanitizer.SanitizeIdentifier(id)
	if input == nil {
		input = &model.RejectReservationInput{}
	}
	input.Reason = sanitizer.SanitizeText(input.Reason)
	if err := s.validator.ValidateReject(input); err != nil {
		return nil, apperrors.Validation("Invalid rejection input", map[string]any{"error": err.Error()})
	}

	rejected, err := s.repo.CompareAndSetStatus(ctx, id, model.StatusPending, model.StatusRejected, s.clock.Now())
	if err != nil {
		err = s.mapTransitionError(ctx, err, id, "rejected")
		if !apperrors.HasCode(err, apperrors.CodeInternal) {
			return nil, err
		}
		s.log(ctx).Error("Failed to reject reservation", "id", id, "error", err)
		return nil, err
	}

	s.committed(ctx, model.EventReservationRejected, rejected, actor.ID, input.Reason)
	return rejected, nil
}

// Cancel moves a PENDING or APPROVED reservation to CANCELLED. A second cancel is an error
// and leaves the stored reservation untouched.
func (s *reservationService) Cancel(ctx context.Context, actor model.Actor, id string) (*model.Reservation, error) {
	id = sanitizer.SanitizeIdentifier(id)
	for range casAttempts {
		current, err := s.findReservation(ctx, id)
		if err != nil {
			return nil, err
		}
		if !actor.CanManage(current) {
			return nil, apperrors.Forbidden("Only the requester or an administrator can cancel this reservation")
		}

		switch current.Status {
		case model.StatusCancelled:
			return nil, apperrors.Validation("Reservation is already cancelled", map[string]any{"status": current.Status})
		case model.StatusRejected:
			return nil, apperrors.Validation("Rejected reservations cannot be cancelled", map[string]any{"status": current.Status})
		}

		cancelled, err := s.repo.CompareAndSetStatus(ctx, current.ID, current.Status, model.StatusCancelled, s.clock.Now())
		if errors.Is(err, reservationserrors.ErrStatusMismatch) {
			continue
		}
		if err != nil {
			err = s.mapTransitionError(ctx, err, id, "cancelled")
			s.log(ctx).Error("Failed to cancel reservation", "id", id, "error", err)
			return nil, err
		}

		s.committed(ctx, model.EventReservationCancelled, cancelled, actor.ID, "")
		return cancelled, nil
	}

	return nil, apperrors.Conflict("Reservation changed concurrently, please retry")
}

func (s *reservationService) CheckAvailability(ctx context.Context, facilityID string, date time.Time) (*model.Availability, error) {
	facility, err := s.findFacility(ctx, sanitizer.SanitizeIdentifier(facilityID))
	if err != nil {
		return nil, err
	}

	projection, err := s.projector.ProjectDay(ctx, facility, date)
	if err != nil {
		s.log(ctx).Error("Failed to project availability", "facility_id", facility.ID, "error", err)
		return nil, apperrors.Internal("Failed to check availability", err)
	}

	return &model.Availability{
		Facility:     facility,
		Date:         projection.Day,
		Reservations: projection.Reservations,
		Slots:        slices.Collect(projection.Slots),
	}, nil
}

// withFacilityLock runs fn in a repository transaction while holding the facility's local
// lock, after bumping the facility's guard document inside that transaction. The guard write
// makes concurrent transactions from other processes conflict on commit.
func (s *reservationService) withFacilityLock(ctx context.Context, facilityID, holder string, fn func(txCtx context.Context) error) error {
	waitStart := time.Now()
	lockCtx, cancel := context.WithTimeout(ctx, s.cfg.LockTimeout)
	unlock, err := s.locker.Lock(lockCtx, facilityID)
	cancel()
	s.metrics.RecordLockWait(time.Since(waitStart))
	if err != nil {
		s.log(ctx).Warn("Timed out waiting for facility lock", "facility_id", facilityID, "error", err)
		timeout := apperrors.Timeout("Facility is busy, please retry")
		timeout.Err = fmt.Errorf("%w: %s", reservationserrors.ErrLockTimeout, facilityID)
		return timeout
	}
	defer unlock()

	if err := s.lockRepo.Ensure(ctx, facilityID); err != nil {
		return apperrors.Internal("Failed to prepare facility lock", err)
	}

	return s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.lockRepo.Touch(txCtx, facilityID, holder); err != nil {
			return apperrors.Internal("Failed to acquire facility lock", err)
		}
		return fn(txCtx)
	})
}

// mapTransitionError turns a failed compare-and-set into a domain error. A status mismatch is
// reported with the status the reservation holds now.
func (s *reservationService) mapTransitionError(ctx context.Context, err error, id, verb string) error {
	switch {
	case errors.Is(err, reservationserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Reservation", id)
	case errors.Is(err, reservationserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid reservation ID format")
	case errors.Is(err, reservationserrors.ErrStatusMismatch):
		current, findErr := s.repo.FindByID(ctx, id)
		if findErr != nil {
			return notPending(verb, "")
		}
		return notPending(verb, current.Status)
	default:
		return apperrors.Internal("Failed to update reservation status", err)
	}
}

func notPending(verb string, status model.Status) *apperrors.AppError {
	var details map[string]any
	if status != "" {
		details = map[string]any{"status": status}
	}
	return apperrors.Validation(fmt.Sprintf("Only pending reservations can be %s", verb), details)
}

func (s *reservationService) committed(ctx context.Context, eventType model.EventType, r *model.Reservation, actorID, reason string) {
	s.metrics.RecordTransition(string(r.Status))
	s.log(ctx).Info("Reservation status changed",
		"id", r.ID,
		"facility_id", r.FacilityID,
		"status", r.Status,
		"actor_id", actorID,
	)
	s.notify(ctx, eventType, r, actorID, reason)
}

// notify detaches from ctx cancellation: the transition already committed.
func (s *reservationService) notify(ctx context.Context, eventType model.EventType, r *model.Reservation, actorID, reason string) {
	event := model.ReservationEvent{
		Type:        eventType,
		Reservation: r,
		Reason:      reason,
		ActorID:     actorID,
		OccurredAt:  s.clock.Now(),
	}
	if err := s.notifier.Notify(context.WithoutCancel(ctx), event); err != nil {
		s.log(ctx).Warn("Failed to publish reservation notification",
			"id", r.ID,
			"event_type", eventType,
			"error", err,
		)
	}
}

func (s *reservationService) findReservation(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		s.log(ctx).Error("Failed to retrieve reservation", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}
	return reservation, nil
}

func (s *reservationService) findFacility(ctx context.Context, id string) (*model.Facility, error) {
	facility, err := s.facilities.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, facilitieserrors.ErrNotFound) || errors.Is(err, facilitieserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Facility", id)
		}
		s.log(ctx).Error("Failed to retrieve facility", "facility_id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve facility", err)
	}
	return facility, nil
}

func (s *reservationService) sanitize(input *model.CreateReservationInput) {
	input.FacilityID = sanitizer.SanitizeIdentifier(input.FacilityID)
	input.RequesterID = sanitizer.SanitizeIdentifier(input.RequesterID)
	input.Purpose = sanitizer.SanitizeText(input.Purpose)
}

// asInternal keeps domain errors as they are and hides anything else behind a generic failure.
func asInternal(err error, message string) error {
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal(message, err)
}
