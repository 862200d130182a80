package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/coworkhub/space-reservation/internal/booking"
	"github.com/coworkhub/space-reservation/internal/model"
)

// Store adapts a MySQL database to the booking engine's unit-of-work
// contract.  Each Begin opens a *sql.Tx; SpaceByID locks the space row
// with FOR UPDATE so that two concurrent creates against the same
// space serialize their conflict-check-then-insert sequence.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store bound to the given database.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Begin opens a new transaction.
func (s *Store) Begin(ctx context.Context) (booking.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &storeTx{tx: tx}, nil
}

type storeTx struct {
	tx *sql.Tx
}

func (t *storeTx) Commit() error   { return t.tx.Commit() }
func (t *storeTx) Rollback() error { return t.tx.Rollback() }

// SpaceByID loads a space and takes a row lock on it.  The lock is the
// per-space exclusion point for the conflict check: any concurrent
// transaction booking the same space blocks here until this one
// commits or rolls back.
func (t *storeTx) SpaceByID(ctx context.Context, id uint64) (*model.Space, error) {
	const q = `SELECT id, name, description, type, capacity,
                      hourly_rate_cents, daily_rate_cents, monthly_rate_cents,
                      floor, has_wifi, has_projector, has_whiteboard, has_ac,
                      active, created_at, updated_at
               FROM spaces WHERE id = ? FOR UPDATE`
	return scanSpace(t.tx.QueryRowContext(ctx, q, id))
}

func (t *storeTx) UserExists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := t.tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ? LIMIT 1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

const reservationCols = `id, user_id, space_id, start_time, end_time,
       total_price_cents, status, check_in_time, check_out_time, notes,
       created_at, updated_at`

func (t *storeTx) ReservationByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	q := `SELECT ` + reservationCols + ` FROM reservations WHERE id = ? FOR UPDATE`
	return scanReservation(t.tx.QueryRowContext(ctx, q, id))
}

func (t *storeTx) InsertReservation(ctx context.Context, r *model.Reservation) error {
	const q = `INSERT INTO reservations
               (user_id, space_id, start_time, end_time, total_price_cents,
                status, notes, created_at, updated_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := t.tx.ExecContext(ctx, q,
		r.UserID, r.SpaceID, r.StartTime, r.EndTime, r.TotalPriceCents,
		string(r.Status), r.Notes, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = uint64(id)
	return nil
}

func (t *storeTx) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	const q = `UPDATE reservations SET
                   start_time = ?, end_time = ?, total_price_cents = ?,
                   status = ?, check_in_time = ?, check_out_time = ?,
                   notes = ?, updated_at = ?
               WHERE id = ?`
	_, err := t.tx.ExecContext(ctx, q,
		r.StartTime, r.EndTime, r.TotalPriceCents, string(r.Status),
		nullTime(r.CheckInTime), nullTime(r.CheckOutTime), r.Notes, r.UpdatedAt, r.ID)
	return err
}

func (t *storeTx) DeleteReservation(ctx context.Context, id uint64) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	return err
}

// HasConflict runs the half-open overlap test against every
// reservation on the space whose status still occupies its interval.
func (t *storeTx) HasConflict(ctx context.Context, spaceID uint64, start, end time.Time, excludeID uint64) (bool, error) {
	const q = `SELECT COUNT(*) FROM reservations
               WHERE space_id = ?
                 AND status NOT IN ('CANCELLED', 'COMPLETED', 'EXPIRED')
                 AND start_time < ? AND end_time > ?
                 AND id <> ?`
	var n int
	if err := t.tx.QueryRowContext(ctx, q, spaceID, end, start, excludeID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (t *storeTx) StaleConfirmedReservations(ctx context.Context, now time.Time) ([]*model.Reservation, error) {
	q := `SELECT ` + reservationCols + ` FROM reservations
          WHERE status = 'CONFIRMED' AND start_time < ? AND check_in_time IS NULL
          FOR UPDATE`
	rows, err := t.tx.QueryContext(ctx, q, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const billingCols = `id, reservation_id, user_id, amount_cents, status,
       due_date, paid_date, payment_method, notes, created_at, updated_at`

func (t *storeTx) BillingByID(ctx context.Context, id uint64) (*model.Billing, error) {
	q := `SELECT ` + billingCols + ` FROM billings WHERE id = ? FOR UPDATE`
	return scanBilling(t.tx.QueryRowContext(ctx, q, id))
}

func (t *storeTx) BillingByReservation(ctx context.Context, reservationID uint64) (*model.Billing, error) {
	q := `SELECT ` + billingCols + ` FROM billings WHERE reservation_id = ? FOR UPDATE`
	return scanBilling(t.tx.QueryRowContext(ctx, q, reservationID))
}

func (t *storeTx) InsertBilling(ctx context.Context, b *model.Billing) error {
	const q = `INSERT INTO billings
               (reservation_id, user_id, amount_cents, status, due_date,
                paid_date, payment_method, notes, created_at, updated_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := t.tx.ExecContext(ctx, q,
		b.ReservationID, b.UserID, b.AmountCents, string(b.Status), b.DueDate,
		nullTime(b.PaidDate), b.PaymentMethod, b.Notes, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

func (t *storeTx) UpdateBilling(ctx context.Context, b *model.Billing) error {
	const q = `UPDATE billings SET
                   amount_cents = ?, status = ?, due_date = ?, paid_date = ?,
                   payment_method = ?, notes = ?, updated_at = ?
               WHERE id = ?`
	_, err := t.tx.ExecContext(ctx, q,
		b.AmountCents, string(b.Status), b.DueDate, nullTime(b.PaidDate),
		b.PaymentMethod, b.Notes, b.UpdatedAt, b.ID)
	return err
}

func (t *storeTx) DeleteBilling(ctx context.Context, id uint64) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM billings WHERE id = ?`, id)
	return err
}

func (t *storeTx) OverduePendingBillings(ctx context.Context, today time.Time) ([]*model.Billing, error) {
	q := `SELECT ` + billingCols + ` FROM billings
          WHERE status = 'PENDING' AND due_date < ?
          FOR UPDATE`
	rows, err := t.tx.QueryContext(ctx, q, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Billing
	for rows.Next() {
		b, err := scanBilling(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (t *storeTx) InsertOccupancyLog(ctx context.Context, l *model.OccupancyLog) error {
	const q = `INSERT INTO occupancy_logs (space_id, reservation_id, ts, occupied, notes)
               VALUES (?, ?, ?, ?, ?)`
	result, err := t.tx.ExecContext(ctx, q,
		l.SpaceID, nullID(l.ReservationID), l.Timestamp, l.Occupied, l.Notes)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSpace(row rowScanner) (*model.Space, error) {
	var (
		sp      model.Space
		typ     string
		hourly  sql.NullInt64
		daily   sql.NullInt64
		monthly sql.NullInt64
	)
	err := row.Scan(&sp.ID, &sp.Name, &sp.Description, &typ, &sp.Capacity,
		&hourly, &daily, &monthly,
		&sp.Floor, &sp.HasWifi, &sp.HasProjector, &sp.HasWhiteboard, &sp.HasAC,
		&sp.Active, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	sp.Type = model.SpaceType(typ)
	sp.HourlyRateCents = nullCents(hourly)
	sp.DailyRateCents = nullCents(daily)
	sp.MonthlyRateCents = nullCents(monthly)
	return &sp, nil
}

func scanReservation(row rowScanner) (*model.Reservation, error) {
	var (
		r        model.Reservation
		status   string
		checkIn  sql.NullTime
		checkOut sql.NullTime
	)
	err := row.Scan(&r.ID, &r.UserID, &r.SpaceID, &r.StartTime, &r.EndTime,
		&r.TotalPriceCents, &status, &checkIn, &checkOut, &r.Notes,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.Status = model.ReservationStatus(status)
	if checkIn.Valid {
		t := checkIn.Time.UTC()
		r.CheckInTime = &t
	}
	if checkOut.Valid {
		t := checkOut.Time.UTC()
		r.CheckOutTime = &t
	}
	return &r, nil
}

func scanBilling(row rowScanner) (*model.Billing, error) {
	var (
		b      model.Billing
		status string
		paid   sql.NullTime
	)
	err := row.Scan(&b.ID, &b.ReservationID, &b.UserID, &b.AmountCents, &status,
		&b.DueDate, &paid, &b.PaymentMethod, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Status = model.BillingStatus(status)
	if paid.Valid {
		t := paid.Time.UTC()
		b.PaidDate = &t
	}
	return &b, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullCents(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func nullID(id *uint64) any {
	if id == nil {
		return nil
	}
	return *id
}
