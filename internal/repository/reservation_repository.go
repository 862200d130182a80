package repository

import (
	"context"
	"database/sql"
	"time"
)

// ReservationRepo provides the read side for reservations: the listing
// and detail queries handlers serve directly.  All lifecycle writes go
// through the booking engine instead, so every mutation runs under the
// engine's transaction and guard rules.  All timestamp fields are
// stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// ReservationDetail joins a reservation with its space for display.
type ReservationDetail struct {
	ID              uint64     `json:"id"`
	UserID          uint64     `json:"user_id"`
	SpaceID         uint64     `json:"space_id"`
	SpaceName       string     `json:"space_name"`
	SpaceType       string     `json:"space_type"`
	Floor           int        `json:"floor"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	TotalPriceCents int64      `json:"total_price_cents"`
	Status          string     `json:"status"`
	CheckInTime     *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime    *time.Time `json:"check_out_time,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

const detailQ = `SELECT r.id, r.user_id, r.space_id, sp.name, sp.type, sp.floor,
                        r.start_time, r.end_time, r.total_price_cents, r.status,
                        r.check_in_time, r.check_out_time, r.notes, r.created_at
                 FROM reservations r
                 JOIN spaces sp ON sp.id = r.space_id`

func scanDetail(row rowScanner) (*ReservationDetail, error) {
	var (
		d        ReservationDetail
		checkIn  sql.NullTime
		checkOut sql.NullTime
	)
	err := row.Scan(&d.ID, &d.UserID, &d.SpaceID, &d.SpaceName, &d.SpaceType, &d.Floor,
		&d.StartTime, &d.EndTime, &d.TotalPriceCents, &d.Status,
		&checkIn, &checkOut, &d.Notes, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	if checkIn.Valid {
		t := checkIn.Time.UTC()
		d.CheckInTime = &t
	}
	if checkOut.Valid {
		t := checkOut.Time.UTC()
		d.CheckOutTime = &t
	}
	return &d, nil
}

// GetByIDForUser returns a single reservation with space details,
// enforcing ownership.  It returns sql.ErrNoRows when the reservation
// does not exist and ErrForbidden when it belongs to a different user.
// Admins bypass the ownership check by passing admin=true.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, reservationID, userID uint64, admin bool) (*ReservationDetail, error) {
	q := detailQ + ` WHERE r.id = ?`
	d, err := scanDetail(r.db.QueryRowContext(ctx, q, reservationID))
	if err != nil {
		return nil, err
	}
	if !admin && d.UserID != userID {
		return nil, ErrForbidden
	}
	return d, nil
}

// ListByUser returns all reservations of a user, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]*ReservationDetail, error) {
	q := detailQ + ` WHERE r.user_id = ? ORDER BY r.created_at DESC`
	return r.list(ctx, q, userID)
}

// ListBySpace returns all reservations on a space, newest first.  Used
// by admins to review a space's schedule.
func (r *ReservationRepo) ListBySpace(ctx context.Context, spaceID uint64) ([]*ReservationDetail, error) {
	q := detailQ + ` WHERE r.space_id = ? ORDER BY r.start_time DESC`
	return r.list(ctx, q, spaceID)
}

// ListUpcomingByUser returns the user's reservations whose interval
// has not ended yet and whose status still occupies the space.
func (r *ReservationRepo) ListUpcomingByUser(ctx context.Context, userID uint64, now time.Time) ([]*ReservationDetail, error) {
	q := detailQ + ` WHERE r.user_id = ? AND r.end_time > ?
	                 AND r.status NOT IN ('CANCELLED', 'COMPLETED', 'EXPIRED')
	                 ORDER BY r.start_time`
	return r.list(ctx, q, userID, now)
}

func (r *ReservationRepo) list(ctx context.Context, q string, args ...interface{}) ([]*ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*ReservationDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// OwnerID returns the user who holds a reservation.  Handlers call
// this before lifecycle operations to enforce ownership without
// loading the full detail row.
func (r *ReservationRepo) OwnerID(ctx context.Context, reservationID uint64) (uint64, error) {
	var userID uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id FROM reservations WHERE id = ?", reservationID).Scan(&userID)
	return userID, err
}
