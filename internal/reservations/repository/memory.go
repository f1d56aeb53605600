package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	reservationserrors "facilityhub/internal/reservations/errors"
	mongotx "facilityhub/pkg/db/mongo"
	"facilityhub/pkg/model"

	"github.com/google/uuid"
)

// MemoryReservationRepository keeps reservations in process. Transactions are serialized and
// undo their own writes on error; writes made outside a transaction are never rolled back.
type MemoryReservationRepository struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data map[string]model.Reservation
}

func NewMemoryReservationRepository() *MemoryReservationRepository {
	return &MemoryReservationRepository{
		data: make(map[string]model.Reservation),
	}
}

func (r *MemoryReservationRepository) Insert(ctx context.Context, reservation *model.Reservation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if reservation.ID == "" {
		reservation.ID = uuid.NewString()
	}
	if _, exists := r.data[reservation.ID]; exists {
		return fmt.Errorf("failed to insert reservation: duplicate id %s", reservation.ID)
	}
	r.journal(ctx, reservation.ID)
	r.data[reservation.ID] = *reservation
	return nil
}

func (r *MemoryReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.data[id]
	if !ok {
		return nil, reservationserrors.ErrNotFound
	}
	return &res, nil
}

func (r *MemoryReservationRepository) FindActiveByFacility(ctx context.Context, facilityID string, excludeID string) ([]*model.Reservation, error) {
	return r.collect(ctx, func(res *model.Reservation) bool {
		return res.FacilityID == facilityID && res.Status.IsActive() && res.ID != excludeID
	})
}

func (r *MemoryReservationRepository) FindActiveByFacilityAndRange(ctx context.Context, facilityID string, from, to time.Time) ([]*model.Reservation, error) {
	return r.collect(ctx, func(res *model.Reservation) bool {
		return res.FacilityID == facilityID && res.Status.IsActive() && res.OverlapsWith(from, to)
	})
}

func (r *MemoryReservationRepository) CompareAndSetStatus(ctx context.Context, id string, expected, next model.Status, at time.Time) (*model.Reservation, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.data[id]
	if !ok {
		return nil, reservationserrors.ErrNotFound
	}
	if res.Status != expected {
		return nil, reservationserrors.ErrStatusMismatch
	}
	r.journal(ctx, id)
	res.Status = next
	res.UpdatedAt = at
	r.data[id] = res
	return &res, nil
}

func (r *MemoryReservationRepository) Find(ctx context.Context, filter model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, error) {
	matched, err := r.collect(ctx, func(res *model.Reservation) bool { return matchesFilter(res, filter) })
	if err != nil {
		return nil, err
	}
	slices.Reverse(matched)
	if offset >= int64(len(matched)) {
		return []*model.Reservation{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *MemoryReservationRepository) Count(ctx context.Context, filter model.ReservationFilter) (int64, error) {
	matched, err := r.collect(ctx, func(res *model.Reservation) bool { return matchesFilter(res, filter) })
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

type memoryTxKey struct{}

// memoryTx remembers the pre-transaction value of every reservation written inside it.
type memoryTx struct {
	prev map[string]*model.Reservation
}

func (r *MemoryReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	tx := &memoryTx{prev: make(map[string]*model.Reservation)}
	if err := fn(context.WithValue(ctx, memoryTxKey{}, tx)); err != nil {
		r.mu.Lock()
		for id, prev := range tx.prev {
			if prev == nil {
				delete(r.data, id)
			} else {
				r.data[id] = *prev
			}
		}
		r.mu.Unlock()
		return err
	}
	return nil
}

// journal must be called with r.mu held, before id is written.
func (r *MemoryReservationRepository) journal(ctx context.Context, id string) {
	tx, ok := ctx.Value(memoryTxKey{}).(*memoryTx)
	if !ok {
		return
	}
	if _, seen := tx.prev[id]; seen {
		return
	}
	if cur, exists := r.data[id]; exists {
		tx.prev[id] = &cur
		return
	}
	tx.prev[id] = nil
}

// All returns every stored reservation regardless of status.
func (r *MemoryReservationRepository) All() []*model.Reservation {
	all, _ := r.collect(context.Background(), func(*model.Reservation) bool { return true })
	return all
}

func (r *MemoryReservationRepository) collect(ctx context.Context, keep func(*model.Reservation) bool) ([]*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Reservation, 0)
	for _, res := range r.data {
		if keep(&res) {
			c := res
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *model.Reservation) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out, nil
}

func matchesFilter(res *model.Reservation, f model.ReservationFilter) bool {
	if f.Status != "" && res.Status != f.Status {
		return false
	}
	if f.FacilityID != "" && res.FacilityID != f.FacilityID {
		return false
	}
	if f.RequesterID != "" && res.RequesterID != f.RequesterID {
		return false
	}
	if f.From != nil && res.StartTime.Before(*f.From) {
		return false
	}
	if f.To != nil && !res.StartTime.Before(*f.To) {
		return false
	}
	return true
}

// MemoryReservationLockRepository tracks guard versions without serializing anything;
// MemoryReservationRepository transactions are already exclusive.
type MemoryReservationLockRepository struct {
	mu    sync.Mutex
	locks map[string]model.ReservationLock
}

func NewMemoryReservationLockRepository() *MemoryReservationLockRepository {
	return &MemoryReservationLockRepository{
		locks: make(map[string]model.ReservationLock),
	}
}

func (r *MemoryReservationLockRepository) Ensure(ctx context.Context, facilityID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.locks[facilityID]; !ok {
		r.locks[facilityID] = model.ReservationLock{ID: facilityID, UpdatedAt: time.Now().UTC()}
	}
	return nil
}

func (r *MemoryReservationLockRepository) Touch(ctx context.Context, facilityID, holder string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[facilityID]
	if !ok {
		return fmt.Errorf("reservation lock for facility %s does not exist", facilityID)
	}
	lock.Version++
	lock.LastHolder = holder
	lock.UpdatedAt = time.Now().UTC()
	r.locks[facilityID] = lock
	return nil
}

// Get returns the guard document for facilityID.
func (r *MemoryReservationLockRepository) Get(facilityID string) (model.ReservationLock, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[facilityID]
	return lock, ok
}
