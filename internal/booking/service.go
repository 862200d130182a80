package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/coworkhub/space-reservation/internal/model"
)

// Service is the lifecycle orchestrator.  It sequences conflict
// detection, pricing and the two state machines, and keeps a
// reservation's billing synchronized with reservation events.  Every
// exported method runs as a single unit of work: all writes commit
// together or none do.
type Service struct {
	store Store
	clock Clock
}

// NewService builds a Service.  A nil clock falls back to the system
// clock in UTC.
func NewService(store Store, clock Clock) *Service {
	if store == nil {
		panic("nil store passed to NewService")
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &Service{store: store, clock: clock}
}

// inTx runs fn inside one store transaction, committing on normal
// return and rolling back on any error.
func (s *Service) inTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Service) reservationByID(ctx context.Context, tx Tx, id uint64) (*model.Reservation, error) {
	r, err := tx.ReservationByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("reservation %d not found", id)
	}
	return r, err
}

func (s *Service) billingByID(ctx context.Context, tx Tx, id uint64) (*model.Billing, error) {
	b, err := tx.BillingByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("billing %d not found", id)
	}
	return b, err
}

// dateOf truncates an instant to its UTC calendar date.
func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CreateReservationInput carries a booking request into the engine.
type CreateReservationInput struct {
	UserID    uint64
	SpaceID   uint64
	StartTime time.Time
	EndTime   time.Time
	Notes     string
}

// CreateReservation grants [StartTime, EndTime) on a space when the
// space is active, the interval is well formed and at least one hour
// long, and no non-terminal reservation overlaps it.  On success the
// reservation is persisted as PENDING together with a PENDING billing
// whose amount equals the computed price and whose due date is the
// reservation's start date.
func (s *Service) CreateReservation(ctx context.Context, in CreateReservationInput) (*model.Reservation, *model.Billing, error) {
	if !in.EndTime.After(in.StartTime) {
		return nil, nil, validation("end time must be after start time")
	}
	if in.EndTime.Sub(in.StartTime) < MinReservationDuration {
		return nil, nil, validation("minimum reservation duration is one hour")
	}

	var (
		res  *model.Reservation
		bill *model.Billing
	)
	err := s.inTx(ctx, func(tx Tx) error {
		ok, err := tx.UserExists(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("user %d not found", in.UserID)
		}
		space, err := tx.SpaceByID(ctx, in.SpaceID)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("space %d not found", in.SpaceID)
		}
		if err != nil {
			return err
		}
		if !space.Active {
			return validation("space is inactive")
		}
		overlaps, err := tx.HasConflict(ctx, in.SpaceID, in.StartTime, in.EndTime, 0)
		if err != nil {
			return err
		}
		if overlaps {
			return conflict("space is already reserved in this interval")
		}
		price, err := Price(space, in.StartTime, in.EndTime)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		res = &model.Reservation{
			UserID:          in.UserID,
			SpaceID:         in.SpaceID,
			StartTime:       in.StartTime.UTC(),
			EndTime:         in.EndTime.UTC(),
			TotalPriceCents: price,
			Status:          model.ReservationPending,
			Notes:           in.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.InsertReservation(ctx, res); err != nil {
			return err
		}
		bill = &model.Billing{
			ReservationID: res.ID,
			UserID:        in.UserID,
			AmountCents:   price,
			Status:        model.BillingPending,
			DueDate:       dateOf(res.StartTime),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		return tx.InsertBilling(ctx, bill)
	})
	if err != nil {
		return nil, nil, err
	}
	return res, bill, nil
}

// UpdateReservationInput carries a partial edit.  Nil fields are left
// untouched.  StartTime and EndTime must be supplied together.
type UpdateReservationInput struct {
	StartTime *time.Time
	EndTime   *time.Time
	Status    *model.ReservationStatus
	Notes     *string
}

// UpdateReservation edits interval, status and/or notes.  Editing is
// forbidden once the reservation is COMPLETED or CANCELLED.  A new
// interval is re-checked for conflicts excluding the reservation
// itself, re-priced, and the new amount propagated to the linked
// billing while that billing is still payable.  Status changes go
// through the transition table; a transition to CANCELLED cascades to
// the billing like CancelReservation.
func (s *Service) UpdateReservation(ctx context.Context, id uint64, in UpdateReservationInput) (*model.Reservation, error) {
	if (in.StartTime == nil) != (in.EndTime == nil) {
		return nil, validation("start and end times must be supplied together")
	}

	var res *model.Reservation
	err := s.inTx(ctx, func(tx Tx) error {
		var err error
		res, err = s.reservationByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if res.Status == model.ReservationCompleted || res.Status == model.ReservationCancelled {
			return invalidState("cannot modify a completed or cancelled reservation")
		}

		if in.StartTime != nil && in.EndTime != nil {
			start, end := in.StartTime.UTC(), in.EndTime.UTC()
			if !end.After(start) {
				return validation("end time must be after start time")
			}
			if end.Sub(start) < MinReservationDuration {
				return validation("minimum reservation duration is one hour")
			}
			overlaps, err := tx.HasConflict(ctx, res.SpaceID, start, end, res.ID)
			if err != nil {
				return err
			}
			if overlaps {
				return conflict("space is already reserved in this interval")
			}
			space, err := tx.SpaceByID(ctx, res.SpaceID)
			if err != nil {
				return err
			}
			price, err := Price(space, start, end)
			if err != nil {
				return err
			}
			res.StartTime = start
			res.EndTime = end
			res.TotalPriceCents = price

			// Re-price the linked billing only while it is still
			// payable; a settled charge keeps the amount it was
			// settled at.
			bill, err := tx.BillingByReservation(ctx, res.ID)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return err
			}
			if err == nil && bill.Status.Payable() {
				bill.AmountCents = price
				bill.DueDate = dateOf(start)
				bill.UpdatedAt = s.clock.Now()
				if err := tx.UpdateBilling(ctx, bill); err != nil {
					return err
				}
			}
		}

		if in.Status != nil {
			next := *in.Status
			if !next.Valid() {
				return validation("unknown reservation status %q", string(next))
			}
			if !res.Status.CanTransitionTo(next) {
				return invalidState("cannot transition reservation from %s to %s", res.Status, next)
			}
			res.Status = next
			if next == model.ReservationCancelled {
				if err := s.cancelLinkedBilling(ctx, tx, res.ID); err != nil {
					return err
				}
			}
		}

		if in.Notes != nil {
			res.Notes = *in.Notes
		}

		res.UpdatedAt = s.clock.Now()
		return tx.UpdateReservation(ctx, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// cancelLinkedBilling cancels the billing attached to a reservation
// when that billing is still PENDING.  Any other billing state makes
// the cascade a no-op: a paid charge stays paid.
func (s *Service) cancelLinkedBilling(ctx context.Context, tx Tx, reservationID uint64) error {
	bill, err := tx.BillingByReservation(ctx, reservationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if bill.Status != model.BillingPending {
		return nil
	}
	bill.Status = model.BillingCancelled
	bill.UpdatedAt = s.clock.Now()
	return tx.UpdateBilling(ctx, bill)
}

// CancelReservation moves a reservation to CANCELLED and cascades the
// cancellation to its billing when that billing is still PENDING.
func (s *Service) CancelReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	var res *model.Reservation
	err := s.inTx(ctx, func(tx Tx) error {
		var err error
		res, err = s.reservationByID(ctx, tx, id)
		if err != nil {
			return err
		}
		switch res.Status {
		case model.ReservationCompleted:
			return invalidState("cannot cancel a completed reservation")
		case model.ReservationCancelled:
			return invalidState("reservation is already cancelled")
		case model.ReservationExpired:
			return invalidState("cannot cancel an expired reservation")
		}
		res.Status = model.ReservationCancelled
		res.UpdatedAt = s.clock.Now()
		if err := tx.UpdateReservation(ctx, res); err != nil {
			return err
		}
		return s.cancelLinkedBilling(ctx, tx, res.ID)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// CheckIn transitions a CONFIRMED reservation to IN_USE.  It is
// accepted from fifteen minutes before the start up to the end of the
// interval, and records the check-in instant plus an occupancy log row.
func (s *Service) CheckIn(ctx context.Context, id uint64) (*model.Reservation, error) {
	var res *model.Reservation
	err := s.inTx(ctx, func(tx Tx) error {
		var err error
		res, err = s.reservationByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if res.Status != model.ReservationConfirmed {
			return invalidState("only confirmed reservations can check in")
		}
		now := s.clock.Now()
		if now.Before(res.StartTime.Add(-checkInGrace)) {
			return invalidState("check-in opens fifteen minutes before the reservation start")
		}
		if now.After(res.EndTime) {
			return invalidState("reservation interval has already passed")
		}
		checkIn := now
		res.CheckInTime = &checkIn
		res.Status = model.ReservationInUse
		res.UpdatedAt = now
		if err := tx.UpdateReservation(ctx, res); err != nil {
			return err
		}
		rid := res.ID
		return tx.InsertOccupancyLog(ctx, &model.OccupancyLog{
			SpaceID:       res.SpaceID,
			ReservationID: &rid,
			Timestamp:     now,
			Occupied:      true,
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// CheckOut transitions an IN_USE reservation to COMPLETED.  A recorded
// check-in is required; the check-out instant and an occupancy log row
// are written.
func (s *Service) CheckOut(ctx context.Context, id uint64) (*model.Reservation, error) {
	var res *model.Reservation
	err := s.inTx(ctx, func(tx Tx) error {
		var err error
		res, err = s.reservationByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if res.Status != model.ReservationInUse {
			return invalidState("only reservations in use can check out")
		}
		if res.CheckInTime == nil {
			return invalidState("reservation has no recorded check-in")
		}
		now := s.clock.Now()
		checkOut := now
		res.CheckOutTime = &checkOut
		res.Status = model.ReservationCompleted
		res.UpdatedAt = now
		if err := tx.UpdateReservation(ctx, res); err != nil {
			return err
		}
		rid := res.ID
		return tx.InsertOccupancyLog(ctx, &model.OccupancyLog{
			SpaceID:       res.SpaceID,
			ReservationID: &rid,
			Timestamp:     now,
			Occupied:      false,
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// DeleteReservation removes a CANCELLED reservation and its billing.
// The billing, when present, must itself be CANCELLED.
func (s *Service) DeleteReservation(ctx context.Context, id uint64) error {
	return s.inTx(ctx, func(tx Tx) error {
		res, err := s.reservationByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if res.Status != model.ReservationCancelled {
			return invalidState("only cancelled reservations can be deleted")
		}
		bill, err := tx.BillingByReservation(ctx, res.ID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if err == nil {
			if bill.Status != model.BillingCancelled {
				return invalidState("billing for this reservation must be cancelled first")
			}
			if err := tx.DeleteBilling(ctx, bill.ID); err != nil {
				return err
			}
		}
		return tx.DeleteReservation(ctx, res.ID)
	})
}

// PayBilling marks a PENDING or OVERDUE charge as PAID, recording the
// payment date and the caller's payment-method label.
func (s *Service) PayBilling(ctx context.Context, id uint64, paymentMethod string) (*model.Billing, error) {
	var bill *model.Billing
	err := s.inTx(ctx, func(tx Tx) error {
		var err error
		bill, err = s.billingByID(ctx, tx, id)
		if err != nil {
			return err
		}
		switch bill.Status {
		case model.BillingPaid:
			return invalidState("billing is already paid")
		case model.BillingCancelled:
			return invalidState("cannot pay a cancelled billing")
		case model.BillingRefunded:
			return invalidState("cannot pay a refunded billing")
		}
		now := s.clock.Now()
		paid := dateOf(now)
		bill.Status = model.BillingPaid
		bill.PaidDate = &paid
		bill.PaymentMethod = paymentMethod
		bill.UpdatedAt = now
		return tx.UpdateBilling(ctx, bill)
	})
	if err != nil {
		return nil, err
	}
	return bill, nil
}

// MarkBillingOverdue flips a PENDING charge to OVERDUE.  No date
// fields are touched.
func (s *Service) MarkBillingOverdue(ctx context.Context, id uint64) (*model.Billing, error) {
	var bill *model.Billing
	err := s.inTx(ctx, func(tx Tx) error {
		var err error
		bill, err = s.billingByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if bill.Status != model.BillingPending {
			return invalidState("only pending billings can be marked overdue")
		}
		bill.Status = model.BillingOverdue
		bill.UpdatedAt = s.clock.Now()
		return tx.UpdateBilling(ctx, bill)
	})
	if err != nil {
		return nil, err
	}
	return bill, nil
}

// CancelBilling cancels a PENDING or OVERDUE charge.  Cancellation is
// terminal; a paid charge can only be refunded, never cancelled.
func (s *Service) CancelBilling(ctx context.Context, id uint64) (*model.Billing, error) {
	var bill *model.Billing
	err := s.inTx(ctx, func(tx Tx) error {
		var err error
		bill, err = s.billingByID(ctx, tx, id)
		if err != nil {
			return err
		}
		switch bill.Status {
		case model.BillingPaid:
			return invalidState("cannot cancel a paid billing")
		case model.BillingCancelled:
			return invalidState("billing is already cancelled")
		case model.BillingRefunded:
			return invalidState("cannot cancel a refunded billing")
		}
		bill.Status = model.BillingCancelled
		bill.UpdatedAt = s.clock.Now()
		return tx.UpdateBilling(ctx, bill)
	})
	if err != nil {
		return nil, err
	}
	return bill, nil
}

// RefundBilling moves a PAID charge to REFUNDED.  The paid date is not
// reversed.
func (s *Service) RefundBilling(ctx context.Context, id uint64) (*model.Billing, error) {
	var bill *model.Billing
	err := s.inTx(ctx, func(tx Tx) error {
		var err error
		bill, err = s.billingByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if bill.Status != model.BillingPaid {
			return invalidState("only paid billings can be refunded")
		}
		bill.Status = model.BillingRefunded
		bill.UpdatedAt = s.clock.Now()
		return tx.UpdateBilling(ctx, bill)
	})
	if err != nil {
		return nil, err
	}
	return bill, nil
}

// DeleteBilling removes a CANCELLED charge.
func (s *Service) DeleteBilling(ctx context.Context, id uint64) error {
	return s.inTx(ctx, func(tx Tx) error {
		bill, err := s.billingByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if bill.Status != model.BillingCancelled {
			return invalidState("only cancelled billings can be deleted")
		}
		return tx.DeleteBilling(ctx, bill.ID)
	})
}

// SweepOverdueBillings transitions every PENDING billing whose due
// date is strictly before today to OVERDUE and returns how many rows
// changed.  Running it twice on the same day changes nothing on the
// second run.
func (s *Service) SweepOverdueBillings(ctx context.Context) (int, error) {
	var swept int
	err := s.inTx(ctx, func(tx Tx) error {
		now := s.clock.Now()
		overdue, err := tx.OverduePendingBillings(ctx, dateOf(now))
		if err != nil {
			return err
		}
		for _, bill := range overdue {
			bill.Status = model.BillingOverdue
			bill.UpdatedAt = now
			if err := tx.UpdateBilling(ctx, bill); err != nil {
				return err
			}
			swept++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return swept, nil
}

// ExpireStaleReservations transitions CONFIRMED reservations whose
// start has passed without a check-in to EXPIRED and returns how many
// rows changed.
func (s *Service) ExpireStaleReservations(ctx context.Context) (int, error) {
	var expired int
	err := s.inTx(ctx, func(tx Tx) error {
		now := s.clock.Now()
		stale, err := tx.StaleConfirmedReservations(ctx, now)
		if err != nil {
			return err
		}
		for _, res := range stale {
			res.Status = model.ReservationExpired
			res.UpdatedAt = now
			if err := tx.UpdateReservation(ctx, res); err != nil {
				return err
			}
			expired++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return expired, nil
}
