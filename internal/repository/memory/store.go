// Package memory provides an in-memory implementation of the booking
// store.  A single mutex serializes transactions, which trivially
// satisfies the check-conflict-then-insert exclusion the engine
// requires.  It backs the engine tests and is not used in production.
package memory

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/coworkhub/space-reservation/internal/booking"
	"github.com/coworkhub/space-reservation/internal/model"
)

// Store keeps all records in maps guarded by one mutex.  Begin locks
// the mutex and stages a copy of the state; Commit swaps the staged
// state in, Rollback discards it.
type Store struct {
	mu sync.Mutex

	spaces       map[uint64]model.Space
	users        map[uint64]model.User
	reservations map[uint64]model.Reservation
	billings     map[uint64]model.Billing
	logs         []model.OccupancyLog

	nextReservationID uint64
	nextBillingID     uint64
	nextLogID         uint64
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		spaces:       make(map[uint64]model.Space),
		users:        make(map[uint64]model.User),
		reservations: make(map[uint64]model.Reservation),
		billings:     make(map[uint64]model.Billing),
	}
}

// PutSpace seeds or replaces a space record.
func (s *Store) PutSpace(sp model.Space) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spaces[sp.ID] = sp
}

// PutUser seeds or replaces a user record.
func (s *Store) PutUser(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// OccupancyLogs returns a snapshot of all occupancy rows written so far.
func (s *Store) OccupancyLogs() []model.OccupancyLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.OccupancyLog, len(s.logs))
	copy(out, s.logs)
	return out
}

// Begin locks the store and returns a transaction staged on a copy of
// the current state.
func (s *Store) Begin(ctx context.Context) (booking.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	return &tx{
		store:             s,
		reservations:      cloneMap(s.reservations),
		billings:          cloneMap(s.billings),
		logs:              append([]model.OccupancyLog(nil), s.logs...),
		nextReservationID: s.nextReservationID,
		nextBillingID:     s.nextBillingID,
		nextLogID:         s.nextLogID,
	}, nil
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type tx struct {
	store *Store
	done  bool

	reservations map[uint64]model.Reservation
	billings     map[uint64]model.Billing
	logs         []model.OccupancyLog

	nextReservationID uint64
	nextBillingID     uint64
	nextLogID         uint64
}

var errTxDone = errors.New("memory: transaction already finished")

func (t *tx) Commit() error {
	if t.done {
		return errTxDone
	}
	t.done = true
	s := t.store
	s.reservations = t.reservations
	s.billings = t.billings
	s.logs = t.logs
	s.nextReservationID = t.nextReservationID
	s.nextBillingID = t.nextBillingID
	s.nextLogID = t.nextLogID
	s.mu.Unlock()
	return nil
}

func (t *tx) Rollback() error {
	if t.done {
		return errTxDone
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func (t *tx) SpaceByID(ctx context.Context, id uint64) (*model.Space, error) {
	sp, ok := t.store.spaces[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := sp
	return &out, nil
}

func (t *tx) UserExists(ctx context.Context, id uint64) (bool, error) {
	_, ok := t.store.users[id]
	return ok, nil
}

func (t *tx) ReservationByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	r, ok := t.reservations[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := r
	return &out, nil
}

func (t *tx) InsertReservation(ctx context.Context, r *model.Reservation) error {
	t.nextReservationID++
	r.ID = t.nextReservationID
	t.reservations[r.ID] = *r
	return nil
}

func (t *tx) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	if _, ok := t.reservations[r.ID]; !ok {
		return sql.ErrNoRows
	}
	t.reservations[r.ID] = *r
	return nil
}

func (t *tx) DeleteReservation(ctx context.Context, id uint64) error {
	if _, ok := t.reservations[id]; !ok {
		return sql.ErrNoRows
	}
	delete(t.reservations, id)
	return nil
}

func (t *tx) HasConflict(ctx context.Context, spaceID uint64, start, end time.Time, excludeID uint64) (bool, error) {
	for _, r := range t.reservations {
		if r.SpaceID != spaceID || r.ID == excludeID {
			continue
		}
		if r.Status.Terminal() {
			continue
		}
		// half-open overlap: touching endpoints do not conflict
		if r.StartTime.Before(end) && r.EndTime.After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (t *tx) StaleConfirmedReservations(ctx context.Context, now time.Time) ([]*model.Reservation, error) {
	var out []*model.Reservation
	for _, r := range t.reservations {
		if r.Status == model.ReservationConfirmed && r.StartTime.Before(now) && r.CheckInTime == nil {
			c := r
			out = append(out, &c)
		}
	}
	return out, nil
}

func (t *tx) BillingByID(ctx context.Context, id uint64) (*model.Billing, error) {
	b, ok := t.billings[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := b
	return &out, nil
}

func (t *tx) BillingByReservation(ctx context.Context, reservationID uint64) (*model.Billing, error) {
	for _, b := range t.billings {
		if b.ReservationID == reservationID {
			out := b
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (t *tx) InsertBilling(ctx context.Context, b *model.Billing) error {
	t.nextBillingID++
	b.ID = t.nextBillingID
	t.billings[b.ID] = *b
	return nil
}

func (t *tx) UpdateBilling(ctx context.Context, b *model.Billing) error {
	if _, ok := t.billings[b.ID]; !ok {
		return sql.ErrNoRows
	}
	t.billings[b.ID] = *b
	return nil
}

func (t *tx) DeleteBilling(ctx context.Context, id uint64) error {
	if _, ok := t.billings[id]; !ok {
		return sql.ErrNoRows
	}
	delete(t.billings, id)
	return nil
}

func (t *tx) OverduePendingBillings(ctx context.Context, today time.Time) ([]*model.Billing, error) {
	var out []*model.Billing
	for _, b := range t.billings {
		if b.Status == model.BillingPending && b.DueDate.Before(today) {
			c := b
			out = append(out, &c)
		}
	}
	return out, nil
}

func (t *tx) InsertOccupancyLog(ctx context.Context, l *model.OccupancyLog) error {
	t.nextLogID++
	l.ID = t.nextLogID
	t.logs = append(t.logs, *l)
	return nil
}
