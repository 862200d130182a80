package repository

import (
	"context"
	"database/sql"
	"time"
)

// BillingRepo provides the read side for billing records: member
// statements, admin collection views and the aggregate totals the
// dashboard shows.  Status changes go through the booking engine.
type BillingRepo struct {
	db *sql.DB
}

// NewBillingRepo returns a new BillingRepo bound to the given database.
func NewBillingRepo(db *sql.DB) *BillingRepo { return &BillingRepo{db: db} }

// BillingDetail joins a billing with its reservation and space for display.
type BillingDetail struct {
	ID            uint64     `json:"id"`
	ReservationID uint64     `json:"reservation_id"`
	UserID        uint64     `json:"user_id"`
	SpaceName     string     `json:"space_name"`
	AmountCents   int64      `json:"amount_cents"`
	Status        string     `json:"status"`
	DueDate       time.Time  `json:"due_date"`
	PaidDate      *time.Time `json:"paid_date,omitempty"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

const billingDetailQ = `SELECT b.id, b.reservation_id, b.user_id, sp.name,
                               b.amount_cents, b.status, b.due_date, b.paid_date,
                               b.payment_method, b.notes, b.created_at
                        FROM billings b
                        JOIN reservations r ON r.id = b.reservation_id
                        JOIN spaces sp ON sp.id = r.space_id`

func scanBillingDetail(row rowScanner) (*BillingDetail, error) {
	var (
		d    BillingDetail
		paid sql.NullTime
	)
	err := row.Scan(&d.ID, &d.ReservationID, &d.UserID, &d.SpaceName,
		&d.AmountCents, &d.Status, &d.DueDate, &paid,
		&d.PaymentMethod, &d.Notes, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	if paid.Valid {
		t := paid.Time.UTC()
		d.PaidDate = &t
	}
	return &d, nil
}

// GetByIDForUser returns a single billing record, enforcing ownership.
// It returns sql.ErrNoRows when the record does not exist and
// ErrForbidden when it belongs to a different user.  Admins bypass the
// ownership check by passing admin=true.
func (r *BillingRepo) GetByIDForUser(ctx context.Context, billingID, userID uint64, admin bool) (*BillingDetail, error) {
	q := billingDetailQ + ` WHERE b.id = ?`
	d, err := scanBillingDetail(r.db.QueryRowContext(ctx, q, billingID))
	if err != nil {
		return nil, err
	}
	if !admin && d.UserID != userID {
		return nil, ErrForbidden
	}
	return d, nil
}

// ListByUser returns all billing records of a user, newest first.
func (r *BillingRepo) ListByUser(ctx context.Context, userID uint64) ([]*BillingDetail, error) {
	q := billingDetailQ + ` WHERE b.user_id = ? ORDER BY b.created_at DESC`
	return r.list(ctx, q, userID)
}

// ListPendingByUser returns a user's unpaid charges, soonest due first.
// Both PENDING and OVERDUE records are still payable and included.
func (r *BillingRepo) ListPendingByUser(ctx context.Context, userID uint64) ([]*BillingDetail, error) {
	q := billingDetailQ + ` WHERE b.user_id = ? AND b.status IN ('PENDING', 'OVERDUE')
	                        ORDER BY b.due_date`
	return r.list(ctx, q, userID)
}

// ListOverdue returns every overdue billing in the system.  Used by
// admins chasing collection.
func (r *BillingRepo) ListOverdue(ctx context.Context) ([]*BillingDetail, error) {
	q := billingDetailQ + ` WHERE b.status = 'OVERDUE' ORDER BY b.due_date`
	return r.list(ctx, q)
}

// ListDueSoon returns pending billings whose due date falls inside
// [today, today+days], soonest first.
func (r *BillingRepo) ListDueSoon(ctx context.Context, today time.Time, days int) ([]*BillingDetail, error) {
	cutoff := today.AddDate(0, 0, days)
	q := billingDetailQ + ` WHERE b.status = 'PENDING' AND b.due_date BETWEEN ? AND ?
	                        ORDER BY b.due_date`
	return r.list(ctx, q, today, cutoff)
}

func (r *BillingRepo) list(ctx context.Context, q string, args ...interface{}) ([]*BillingDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*BillingDetail, 0)
	for rows.Next() {
		d, err := scanBillingDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// OutstandingCents sums a user's PENDING and OVERDUE amounts.
func (r *BillingRepo) OutstandingCents(ctx context.Context, userID uint64) (int64, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT SUM(amount_cents) FROM billings WHERE user_id = ? AND status IN ('PENDING','OVERDUE')",
		userID).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}

// PaidCents sums a user's settled amounts.
func (r *BillingRepo) PaidCents(ctx context.Context, userID uint64) (int64, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT SUM(amount_cents) FROM billings WHERE user_id = ? AND status = 'PAID'",
		userID).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}

// PaidCentsBetween sums all payments received in [from, to).  Used for
// revenue reporting.
func (r *BillingRepo) PaidCentsBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT SUM(amount_cents) FROM billings WHERE status = 'PAID' AND paid_date >= ? AND paid_date < ?",
		from, to).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}
