package booking

import (
	"context"
	"time"

	"github.com/coworkhub/space-reservation/internal/model"
)

// Store opens scoped units of work against the reservation/billing
// records.  Every engine operation runs inside exactly one Tx: read,
// validate, write, then commit, with rollback on any failure so a
// reservation is never left without its billing.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one unit of work.  Implementations must provide read-your-own-
// writes within the transaction, return sql.ErrNoRows for missing
// records, and serialize HasConflict-then-InsertReservation per space
// so two overlapping creates cannot both commit.
type Tx interface {
	Commit() error
	Rollback() error

	// SpaceByID loads a space by id, locking it for the duration of
	// the transaction where the backend supports it.
	SpaceByID(ctx context.Context, id uint64) (*model.Space, error)
	// UserExists reports whether a user id references an existing account.
	UserExists(ctx context.Context, id uint64) (bool, error)

	ReservationByID(ctx context.Context, id uint64) (*model.Reservation, error)
	InsertReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservation(ctx context.Context, r *model.Reservation) error
	DeleteReservation(ctx context.Context, id uint64) error
	// HasConflict reports whether any reservation on the space whose
	// status is outside {CANCELLED, COMPLETED, EXPIRED} overlaps the
	// half-open interval [start, end).  excludeID, when non-zero,
	// removes that reservation from the comparison set.
	HasConflict(ctx context.Context, spaceID uint64, start, end time.Time, excludeID uint64) (bool, error)
	// StaleConfirmedReservations returns CONFIRMED reservations whose
	// start has passed without a recorded check-in.
	StaleConfirmedReservations(ctx context.Context, now time.Time) ([]*model.Reservation, error)

	BillingByID(ctx context.Context, id uint64) (*model.Billing, error)
	BillingByReservation(ctx context.Context, reservationID uint64) (*model.Billing, error)
	InsertBilling(ctx context.Context, b *model.Billing) error
	UpdateBilling(ctx context.Context, b *model.Billing) error
	DeleteBilling(ctx context.Context, id uint64) error
	// OverduePendingBillings returns PENDING billings whose due date is
	// strictly before today.
	OverduePendingBillings(ctx context.Context, today time.Time) ([]*model.Billing, error)

	InsertOccupancyLog(ctx context.Context, l *model.OccupancyLog) error
}
