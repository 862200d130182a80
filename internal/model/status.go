package model

// ReservationStatus enumerates the states a reservation moves through.
// PENDING is the state assigned on creation; CONFIRMED is set by an
// admin; IN_USE is entered on check-in and COMPLETED on check-out.
// CANCELLED and EXPIRED are reachable as shown in the transition
// table below.  COMPLETED, CANCELLED and EXPIRED are terminal.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationInUse     ReservationStatus = "IN_USE"
	ReservationCompleted ReservationStatus = "COMPLETED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationExpired   ReservationStatus = "EXPIRED"
)

// reservationTransitions is the closed transition table for
// reservation statuses.  An absent key is a terminal state.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationInUse, ReservationCancelled, ReservationExpired},
	ReservationInUse:     {ReservationCompleted, ReservationCancelled},
}

// Valid reports whether s is a known reservation status.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationInUse,
		ReservationCompleted, ReservationCancelled, ReservationExpired:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s ReservationStatus) Terminal() bool {
	return len(reservationTransitions[s]) == 0 && s.Valid()
}

// CanTransitionTo reports whether the state machine permits moving
// from s to next.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ActiveReservationStatuses returns the statuses that participate in
// conflict detection.  Cancelled, completed and expired reservations
// no longer occupy their interval.
func ActiveReservationStatuses() []ReservationStatus {
	return []ReservationStatus{ReservationPending, ReservationConfirmed, ReservationInUse}
}

// BillingStatus enumerates the states of a charge.  PENDING charges may
// be paid, marked overdue or cancelled.  OVERDUE charges may still be
// paid or cancelled.  PAID charges may only be refunded.  CANCELLED and
// REFUNDED are terminal.
type BillingStatus string

const (
	BillingPending   BillingStatus = "PENDING"
	BillingPaid      BillingStatus = "PAID"
	BillingOverdue   BillingStatus = "OVERDUE"
	BillingCancelled BillingStatus = "CANCELLED"
	BillingRefunded  BillingStatus = "REFUNDED"
)

var billingTransitions = map[BillingStatus][]BillingStatus{
	BillingPending: {BillingPaid, BillingOverdue, BillingCancelled},
	BillingOverdue: {BillingPaid, BillingCancelled},
	BillingPaid:    {BillingRefunded},
}

// Valid reports whether s is a known billing status.
func (s BillingStatus) Valid() bool {
	switch s {
	case BillingPending, BillingPaid, BillingOverdue, BillingCancelled, BillingRefunded:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s BillingStatus) Terminal() bool {
	return len(billingTransitions[s]) == 0 && s.Valid()
}

// CanTransitionTo reports whether the state machine permits moving
// from s to next.
func (s BillingStatus) CanTransitionTo(next BillingStatus) bool {
	for _, allowed := range billingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Payable reports whether the charge can still accept a payment or an
// amount change.  Once a charge is paid, cancelled or refunded its
// amount is frozen.
func (s BillingStatus) Payable() bool {
	return s == BillingPending || s == BillingOverdue
}
