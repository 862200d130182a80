package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/coworkhub/space-reservation/internal/booking"
	"github.com/coworkhub/space-reservation/internal/model"
	"github.com/coworkhub/space-reservation/internal/repository/memory"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var (
	bookingStart = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	bookingEnd   = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	dayBefore    = time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC)
)

// newEngine seeds a store with user 1 and an active space 1 at
// 15.00/hour and returns a service whose clock is pinned to the day
// before the canonical booking interval.
func newEngine(t *testing.T) (*booking.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.PutUser(model.User{ID: 1, Email: "member@example.com", Role: "MEMBER", IsActive: true})
	rate := int64(1500)
	store.PutSpace(model.Space{
		ID:              1,
		Name:            "Meeting Room A",
		Type:            model.SpaceMeetingRoom,
		Capacity:        8,
		HourlyRateCents: &rate,
		Active:          true,
	})
	return booking.NewService(store, fixedClock{dayBefore}), store
}

func mustBook(t *testing.T, svc *booking.Service, start, end time.Time) (*model.Reservation, *model.Billing) {
	t.Helper()
	res, bill, err := svc.CreateReservation(context.Background(), booking.CreateReservationInput{
		UserID: 1, SpaceID: 1, StartTime: start, EndTime: end,
	})
	if err != nil {
		t.Fatalf("CreateReservation(%s-%s) failed: %v", start, end, err)
	}
	return res, bill
}

func TestCreateReservation(t *testing.T) {
	svc, _ := newEngine(t)

	res, bill, err := svc.CreateReservation(context.Background(), booking.CreateReservationInput{
		UserID: 1, SpaceID: 1, StartTime: bookingStart, EndTime: bookingEnd, Notes: "sprint review",
	})
	if err != nil {
		t.Fatalf("CreateReservation failed: %v", err)
	}
	if res.Status != model.ReservationPending {
		t.Errorf("reservation status = %s, want PENDING", res.Status)
	}
	if res.TotalPriceCents != 3000 {
		t.Errorf("reservation total = %d cents, want 3000", res.TotalPriceCents)
	}
	if bill == nil {
		t.Fatal("no billing created alongside reservation")
	}
	if bill.Status != model.BillingPending {
		t.Errorf("billing status = %s, want PENDING", bill.Status)
	}
	if bill.AmountCents != res.TotalPriceCents {
		t.Errorf("billing amount = %d, want reservation total %d", bill.AmountCents, res.TotalPriceCents)
	}
	wantDue := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !bill.DueDate.Equal(wantDue) {
		t.Errorf("billing due date = %s, want %s", bill.DueDate, wantDue)
	}
	if bill.ReservationID != res.ID {
		t.Errorf("billing reservation id = %d, want %d", bill.ReservationID, res.ID)
	}
}

func TestCreateReservationValidation(t *testing.T) {
	svc, store := newEngine(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   booking.CreateReservationInput
		kind booking.Kind
	}{
		{"end before start", booking.CreateReservationInput{UserID: 1, SpaceID: 1, StartTime: bookingEnd, EndTime: bookingStart}, booking.KindValidation},
		{"under one hour", booking.CreateReservationInput{UserID: 1, SpaceID: 1, StartTime: bookingStart, EndTime: bookingStart.Add(45 * time.Minute)}, booking.KindValidation},
		{"unknown user", booking.CreateReservationInput{UserID: 99, SpaceID: 1, StartTime: bookingStart, EndTime: bookingEnd}, booking.KindNotFound},
		{"unknown space", booking.CreateReservationInput{UserID: 1, SpaceID: 99, StartTime: bookingStart, EndTime: bookingEnd}, booking.KindNotFound},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := svc.CreateReservation(ctx, c.in)
			if !booking.IsKind(err, c.kind) {
				t.Errorf("got %v, want kind %d", err, c.kind)
			}
		})
	}

	store.PutSpace(model.Space{ID: 2, Name: "Closed", Active: false})
	if _, _, err := svc.CreateReservation(ctx, booking.CreateReservationInput{
		UserID: 1, SpaceID: 2, StartTime: bookingStart, EndTime: bookingEnd,
	}); !booking.IsKind(err, booking.KindValidation) {
		t.Errorf("inactive space: got %v, want validation error", err)
	}

	store.PutSpace(model.Space{ID: 3, Name: "Unpriced", Active: true})
	if _, _, err := svc.CreateReservation(ctx, booking.CreateReservationInput{
		UserID: 1, SpaceID: 3, StartTime: bookingStart, EndTime: bookingEnd,
	}); !booking.IsKind(err, booking.KindValidation) {
		t.Errorf("space without rate: got %v, want validation error", err)
	}
}

func TestCreateReservationConflict(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()
	mustBook(t, svc, bookingStart, bookingEnd)

	// overlapping interval on the same space
	_, _, err := svc.CreateReservation(ctx, booking.CreateReservationInput{
		UserID: 1, SpaceID: 1,
		StartTime: time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC),
	})
	if !booking.IsKind(err, booking.KindConflict) {
		t.Fatalf("overlapping booking: got %v, want conflict", err)
	}

	// touching endpoints never conflict
	mustBook(t, svc, bookingEnd, bookingEnd.Add(2*time.Hour))
}

func TestCancelReservationCascades(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()
	res, bill := mustBook(t, svc, bookingStart, bookingEnd)

	cancelled, err := svc.CancelReservation(ctx, res.ID)
	if err != nil {
		t.Fatalf("CancelReservation failed: %v", err)
	}
	if cancelled.Status != model.ReservationCancelled {
		t.Errorf("reservation status = %s, want CANCELLED", cancelled.Status)
	}
	// delete succeeds only for cancelled billings, proving the cascade
	if err := svc.DeleteBilling(ctx, bill.ID); err != nil {
		t.Fatalf("billing did not cascade to CANCELLED: %v", err)
	}

	// the cancelled reservation no longer blocks the interval
	mustBook(t, svc, time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC), time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC))
}

func TestCancelReservationLeavesPaidBilling(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()
	res, bill := mustBook(t, svc, bookingStart, bookingEnd)

	if _, err := svc.PayBilling(ctx, bill.ID, "pix"); err != nil {
		t.Fatalf("PayBilling failed: %v", err)
	}
	if _, err := svc.CancelReservation(ctx, res.ID); err != nil {
		t.Fatalf("CancelReservation failed: %v", err)
	}
	// a paid charge stays paid: refund still works
	refunded, err := svc.RefundBilling(ctx, bill.ID)
	if err != nil {
		t.Fatalf("RefundBilling failed: %v", err)
	}
	if refunded.Status != model.BillingRefunded {
		t.Errorf("billing status = %s, want REFUNDED", refunded.Status)
	}
}

func TestCancelReservationGuards(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()
	res, _ := mustBook(t, svc, bookingStart, bookingEnd)

	if _, err := svc.CancelReservation(ctx, res.ID); err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}
	if _, err := svc.CancelReservation(ctx, res.ID); !booking.IsKind(err, booking.KindInvalidState) {
		t.Errorf("second cancel: got %v, want invalid state", err)
	}
	if _, err := svc.CancelReservation(ctx, 404); !booking.IsKind(err, booking.KindNotFound) {
		t.Errorf("cancel of missing reservation: got %v, want not found", err)
	}
}

func confirm(t *testing.T, svc *booking.Service, id uint64) {
	t.Helper()
	st := model.ReservationConfirmed
	if _, err := svc.UpdateReservation(context.Background(), id, booking.UpdateReservationInput{Status: &st}); err != nil {
		t.Fatalf("confirming reservation %d failed: %v", id, err)
	}
}

func TestCheckInWindow(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		ok   bool
	}{
		{"exactly fifteen minutes early", bookingStart.Add(-15 * time.Minute), true},
		{"at the start", bookingStart, true},
		{"mid interval", bookingStart.Add(30 * time.Minute), true},
		{"at the end", bookingEnd, true},
		{"sixteen minutes early", bookingStart.Add(-16 * time.Minute), false},
		{"after the end", bookingEnd.Add(time.Second), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			svc, store := newEngine(t)
			res, _ := mustBook(t, svc, bookingStart, bookingEnd)
			confirm(t, svc, res.ID)

			atNow := booking.NewService(store, fixedClock{c.now})
			got, err := atNow.CheckIn(context.Background(), res.ID)
			if c.ok {
				if err != nil {
					t.Fatalf("CheckIn at %s failed: %v", c.now, err)
				}
				if got.Status != model.ReservationInUse {
					t.Errorf("status = %s, want IN_USE", got.Status)
				}
				if got.CheckInTime == nil || !got.CheckInTime.Equal(c.now) {
					t.Errorf("check-in time = %v, want %s", got.CheckInTime, c.now)
				}
			} else if !booking.IsKind(err, booking.KindInvalidState) {
				t.Errorf("CheckIn at %s: got %v, want invalid state", c.now, err)
			}
		})
	}
}

func TestCheckInRequiresConfirmed(t *testing.T) {
	svc, store := newEngine(t)
	res, _ := mustBook(t, svc, bookingStart, bookingEnd)

	atStart := booking.NewService(store, fixedClock{bookingStart})
	if _, err := atStart.CheckIn(context.Background(), res.ID); !booking.IsKind(err, booking.KindInvalidState) {
		t.Errorf("check-in of pending reservation: got %v, want invalid state", err)
	}
}

func TestCheckOut(t *testing.T) {
	svc, store := newEngine(t)
	ctx := context.Background()
	res, _ := mustBook(t, svc, bookingStart, bookingEnd)
	confirm(t, svc, res.ID)

	// check-out before check-in is rejected regardless of status
	if _, err := svc.CheckOut(ctx, res.ID); !booking.IsKind(err, booking.KindInvalidState) {
		t.Fatalf("check-out before check-in: got %v, want invalid state", err)
	}

	atStart := booking.NewService(store, fixedClock{bookingStart})
	if _, err := atStart.CheckIn(ctx, res.ID); err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}
	atEnd := booking.NewService(store, fixedClock{bookingEnd})
	done, err := atEnd.CheckOut(ctx, res.ID)
	if err != nil {
		t.Fatalf("CheckOut failed: %v", err)
	}
	if done.Status != model.ReservationCompleted {
		t.Errorf("status = %s, want COMPLETED", done.Status)
	}
	if done.CheckOutTime == nil || !done.CheckOutTime.Equal(bookingEnd) {
		t.Errorf("check-out time = %v, want %s", done.CheckOutTime, bookingEnd)
	}

	logs := store.OccupancyLogs()
	if len(logs) != 2 {
		t.Fatalf("occupancy logs = %d rows, want 2", len(logs))
	}
	if !logs[0].Occupied || logs[1].Occupied {
		t.Errorf("occupancy sequence = (%v, %v), want (true, false)", logs[0].Occupied, logs[1].Occupied)
	}

	// completed reservations reject further lifecycle calls
	if _, err := svc.CancelReservation(ctx, res.ID); !booking.IsKind(err, booking.KindInvalidState) {
		t.Errorf("cancel after completion: got %v, want invalid state", err)
	}
}

func TestUpdateReservationReprices(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()
	res, bill := mustBook(t, svc, bookingStart, bookingEnd)

	// stretch the interval to three hours; shifting within the old
	// interval must not conflict with the reservation itself
	newEnd := bookingStart.Add(3 * time.Hour)
	updated, err := svc.UpdateReservation(ctx, res.ID, booking.UpdateReservationInput{
		StartTime: &bookingStart, EndTime: &newEnd,
	})
	if err != nil {
		t.Fatalf("UpdateReservation failed: %v", err)
	}
	if updated.TotalPriceCents != 4500 {
		t.Errorf("re-priced total = %d cents, want 4500", updated.TotalPriceCents)
	}

	// the pending billing follows the new price: paying now and
	// refunding exercises the synced amount path
	paid, err := svc.PayBilling(ctx, bill.ID, "card")
	if err != nil {
		t.Fatalf("PayBilling failed: %v", err)
	}
	if paid.AmountCents != 4500 {
		t.Errorf("billing amount after re-price = %d cents, want 4500", paid.AmountCents)
	}
}

func TestUpdateReservationKeepsSettledAmount(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()
	res, bill := mustBook(t, svc, bookingStart, bookingEnd)

	if _, err := svc.PayBilling(ctx, bill.ID, "card"); err != nil {
		t.Fatalf("PayBilling failed: %v", err)
	}
	newEnd := bookingStart.Add(4 * time.Hour)
	updated, err := svc.UpdateReservation(ctx, res.ID, booking.UpdateReservationInput{
		StartTime: &bookingStart, EndTime: &newEnd,
	})
	if err != nil {
		t.Fatalf("UpdateReservation failed: %v", err)
	}
	if updated.TotalPriceCents != 6000 {
		t.Errorf("reservation total = %d cents, want 6000", updated.TotalPriceCents)
	}
	refunded, err := svc.RefundBilling(ctx, bill.ID)
	if err != nil {
		t.Fatalf("RefundBilling failed: %v", err)
	}
	if refunded.AmountCents != 3000 {
		t.Errorf("paid billing amount = %d cents, want original 3000", refunded.AmountCents)
	}
}

func TestUpdateReservationGuards(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()
	res, _ := mustBook(t, svc, bookingStart, bookingEnd)

	if _, err := svc.UpdateReservation(ctx, res.ID, booking.UpdateReservationInput{
		StartTime: &bookingStart,
	}); !booking.IsKind(err, booking.KindValidation) {
		t.Errorf("one-sided interval edit: got %v, want validation error", err)
	}

	inUse := model.ReservationInUse
	if _, err := svc.UpdateReservation(ctx, res.ID, booking.UpdateReservationInput{Status: &inUse}); !booking.IsKind(err, booking.KindInvalidState) {
		t.Errorf("PENDING -> IN_USE: got %v, want invalid state", err)
	}

	if _, err := svc.CancelReservation(ctx, res.ID); err != nil {
		t.Fatalf("CancelReservation failed: %v", err)
	}
	note := "late edit"
	if _, err := svc.UpdateReservation(ctx, res.ID, booking.UpdateReservationInput{Notes: &note}); !booking.IsKind(err, booking.KindInvalidState) {
		t.Errorf("edit of cancelled reservation: got %v, want invalid state", err)
	}
}

func TestUpdateReservationConflictExcludesSelf(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()
	res, _ := mustBook(t, svc, bookingStart, bookingEnd)
	mustBook(t, svc, bookingEnd, bookingEnd.Add(2*time.Hour))

	// sliding into the neighbour conflicts
	newStart := bookingStart.Add(time.Hour)
	newEnd := bookingEnd.Add(time.Hour)
	if _, err := svc.UpdateReservation(ctx, res.ID, booking.UpdateReservationInput{
		StartTime: &newStart, EndTime: &newEnd,
	}); !booking.IsKind(err, booking.KindConflict) {
		t.Fatalf("overlap with neighbour: got %v, want conflict", err)
	}

	// shrinking inside its own interval does not conflict with itself
	shrunkEnd := bookingStart.Add(time.Hour)
	if _, err := svc.UpdateReservation(ctx, res.ID, booking.UpdateReservationInput{
		StartTime: &bookingStart, EndTime: &shrunkEnd,
	}); err != nil {
		t.Fatalf("shrinking own interval failed: %v", err)
	}
}

func TestDeleteReservation(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()
	res, _ := mustBook(t, svc, bookingStart, bookingEnd)

	if err := svc.DeleteReservation(ctx, res.ID); !booking.IsKind(err, booking.KindInvalidState) {
		t.Fatalf("delete of pending reservation: got %v, want invalid state", err)
	}
	if _, err := svc.CancelReservation(ctx, res.ID); err != nil {
		t.Fatalf("CancelReservation failed: %v", err)
	}
	if err := svc.DeleteReservation(ctx, res.ID); err != nil {
		t.Fatalf("DeleteReservation failed: %v", err)
	}
	if _, err := svc.CancelReservation(ctx, res.ID); !booking.IsKind(err, booking.KindNotFound) {
		t.Errorf("operation on deleted reservation: got %v, want not found", err)
	}
}

func TestPayBillingGuards(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()
	_, bill := mustBook(t, svc, bookingStart, bookingEnd)

	paid, err := svc.PayBilling(ctx, bill.ID, "boleto")
	if err != nil {
		t.Fatalf("PayBilling failed: %v", err)
	}
	if paid.Status != model.BillingPaid || paid.PaymentMethod != "boleto" {
		t.Errorf("paid billing = (%s, %q), want (PAID, boleto)", paid.Status, paid.PaymentMethod)
	}
	if paid.PaidDate == nil {
		t.Error("paid date not recorded")
	}

	if _, err := svc.PayBilling(ctx, bill.ID, "boleto"); !booking.IsKind(err, booking.KindInvalidState) {
		t.Errorf("second payment: got %v, want invalid state", err)
	}
	if _, err := svc.PayBilling(ctx, 404, "boleto"); !booking.IsKind(err, booking.KindNotFound) {
		t.Errorf("payment of missing billing: got %v, want not found", err)
	}
}

func TestPayCancelledBilling(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()
	_, bill := mustBook(t, svc, bookingStart, bookingEnd)

	if _, err := svc.CancelBilling(ctx, bill.ID); err != nil {
		t.Fatalf("CancelBilling failed: %v", err)
	}
	if _, err := svc.PayBilling(ctx, bill.ID, "pix"); !booking.IsKind(err, booking.KindInvalidState) {
		t.Errorf("paying a cancelled billing: got %v, want invalid state", err)
	}
	if _, err := svc.CancelBilling(ctx, bill.ID); !booking.IsKind(err, booking.KindInvalidState) {
		t.Errorf("second cancel: got %v, want invalid state", err)
	}
}

func TestRefundRequiresPaid(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()
	_, bill := mustBook(t, svc, bookingStart, bookingEnd)

	if _, err := svc.RefundBilling(ctx, bill.ID); !booking.IsKind(err, booking.KindInvalidState) {
		t.Errorf("refund of never-paid billing: got %v, want invalid state", err)
	}
}

func TestCancelPaidBilling(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()
	_, bill := mustBook(t, svc, bookingStart, bookingEnd)

	if _, err := svc.PayBilling(ctx, bill.ID, "pix"); err != nil {
		t.Fatalf("PayBilling failed: %v", err)
	}
	if _, err := svc.CancelBilling(ctx, bill.ID); !booking.IsKind(err, booking.KindInvalidState) {
		t.Errorf("cancel of paid billing: got %v, want invalid state", err)
	}
}

func TestMarkBillingOverdue(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()
	_, bill := mustBook(t, svc, bookingStart, bookingEnd)

	flipped, err := svc.MarkBillingOverdue(ctx, bill.ID)
	if err != nil {
		t.Fatalf("MarkBillingOverdue failed: %v", err)
	}
	if flipped.Status != model.BillingOverdue {
		t.Errorf("status = %s, want OVERDUE", flipped.Status)
	}
	if _, err := svc.MarkBillingOverdue(ctx, bill.ID); !booking.IsKind(err, booking.KindInvalidState) {
		t.Errorf("second mark-overdue: got %v, want invalid state", err)
	}

	// an overdue charge can still be paid
	if _, err := svc.PayBilling(ctx, bill.ID, "transfer"); err != nil {
		t.Errorf("paying an overdue billing failed: %v", err)
	}
}

func TestDeleteBilling(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()
	_, bill := mustBook(t, svc, bookingStart, bookingEnd)

	if err := svc.DeleteBilling(ctx, bill.ID); !booking.IsKind(err, booking.KindInvalidState) {
		t.Fatalf("delete of pending billing: got %v, want invalid state", err)
	}
	if _, err := svc.CancelBilling(ctx, bill.ID); err != nil {
		t.Fatalf("CancelBilling failed: %v", err)
	}
	if err := svc.DeleteBilling(ctx, bill.ID); err != nil {
		t.Fatalf("DeleteBilling failed: %v", err)
	}
	if err := svc.DeleteBilling(ctx, bill.ID); !booking.IsKind(err, booking.KindNotFound) {
		t.Errorf("delete of missing billing: got %v, want not found", err)
	}
}

func TestSweepOverdueBillings(t *testing.T) {
	svc, store := newEngine(t)
	ctx := context.Background()
	mustBook(t, svc, bookingStart, bookingEnd)

	// the day after the due date, the pending charge becomes overdue
	later := booking.NewService(store, fixedClock{time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)})
	n, err := later.SweepOverdueBillings(ctx)
	if err != nil {
		t.Fatalf("SweepOverdueBillings failed: %v", err)
	}
	if n != 1 {
		t.Errorf("swept %d billings, want 1", n)
	}

	// idempotent: nothing pending remains overdue
	n, err = later.SweepOverdueBillings(ctx)
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if n != 0 {
		t.Errorf("second sweep changed %d billings, want 0", n)
	}
}

func TestSweepIgnoresChargesDueToday(t *testing.T) {
	svc, store := newEngine(t)
	ctx := context.Background()
	mustBook(t, svc, bookingStart, bookingEnd)

	onDueDate := booking.NewService(store, fixedClock{time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)})
	n, err := onDueDate.SweepOverdueBillings(ctx)
	if err != nil {
		t.Fatalf("SweepOverdueBillings failed: %v", err)
	}
	if n != 0 {
		t.Errorf("sweep on the due date changed %d billings, want 0", n)
	}
}

func TestExpireStaleReservations(t *testing.T) {
	svc, store := newEngine(t)
	ctx := context.Background()
	confirmed, _ := mustBook(t, svc, bookingStart, bookingEnd)
	confirm(t, svc, confirmed.ID)
	pending, _ := mustBook(t, svc, bookingEnd, bookingEnd.Add(2*time.Hour))

	later := booking.NewService(store, fixedClock{bookingStart.Add(time.Hour)})
	n, err := later.ExpireStaleReservations(ctx)
	if err != nil {
		t.Fatalf("ExpireStaleReservations failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expired %d reservations, want 1", n)
	}
	if _, err := later.CancelReservation(ctx, confirmed.ID); !booking.IsKind(err, booking.KindInvalidState) {
		t.Errorf("cancel of expired reservation: got %v, want invalid state", err)
	}
	// the pending reservation is untouched and still cancellable
	if _, err := later.CancelReservation(ctx, pending.ID); err != nil {
		t.Errorf("pending reservation affected by sweep: %v", err)
	}
}

func TestEndToEndScenario(t *testing.T) {
	svc, _ := newEngine(t)
	ctx := context.Background()

	res, bill := mustBook(t, svc, bookingStart, bookingEnd)
	if res.TotalPriceCents != 3000 || bill.AmountCents != 3000 {
		t.Fatalf("booking priced at (%d, %d) cents, want 3000", res.TotalPriceCents, bill.AmountCents)
	}

	second := booking.CreateReservationInput{
		UserID: 1, SpaceID: 1,
		StartTime: time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC),
	}
	if _, _, err := svc.CreateReservation(ctx, second); !booking.IsKind(err, booking.KindConflict) {
		t.Fatalf("second booking: got %v, want conflict", err)
	}

	if _, err := svc.CancelReservation(ctx, res.ID); err != nil {
		t.Fatalf("CancelReservation failed: %v", err)
	}

	rebooked, rebill, err := svc.CreateReservation(ctx, second)
	if err != nil {
		t.Fatalf("re-booking after cancellation failed: %v", err)
	}
	if rebooked.Status != model.ReservationPending || rebill.Status != model.BillingPending {
		t.Errorf("re-booking states = (%s, %s), want (PENDING, PENDING)", rebooked.Status, rebill.Status)
	}
}
