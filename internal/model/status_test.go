package model

import "testing"

func TestReservationTransitions(t *testing.T) {
	cases := []struct {
		from, to ReservationStatus
		want     bool
	}{
		{ReservationPending, ReservationConfirmed, true},
		{ReservationPending, ReservationCancelled, true},
		{ReservationPending, ReservationInUse, false},
		{ReservationConfirmed, ReservationInUse, true},
		{ReservationConfirmed, ReservationExpired, true},
		{ReservationConfirmed, ReservationCancelled, true},
		{ReservationInUse, ReservationCompleted, true},
		{ReservationInUse, ReservationCancelled, true},
		{ReservationCompleted, ReservationCancelled, false},
		{ReservationCancelled, ReservationPending, false},
		{ReservationExpired, ReservationConfirmed, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestReservationTerminal(t *testing.T) {
	terminal := []ReservationStatus{ReservationCompleted, ReservationCancelled, ReservationExpired}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s.Terminal() = false, want true", s)
		}
	}
	for _, s := range ActiveReservationStatuses() {
		if s.Terminal() {
			t.Errorf("%s.Terminal() = true, want false", s)
		}
	}
}

func TestBillingTransitions(t *testing.T) {
	cases := []struct {
		from, to BillingStatus
		want     bool
	}{
		{BillingPending, BillingPaid, true},
		{BillingPending, BillingOverdue, true},
		{BillingPending, BillingCancelled, true},
		{BillingOverdue, BillingPaid, true},
		{BillingOverdue, BillingCancelled, true},
		{BillingOverdue, BillingRefunded, false},
		{BillingPaid, BillingRefunded, true},
		{BillingPaid, BillingCancelled, false},
		{BillingCancelled, BillingPending, false},
		{BillingRefunded, BillingPaid, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestBillingPayable(t *testing.T) {
	if !BillingPending.Payable() || !BillingOverdue.Payable() {
		t.Error("pending and overdue charges must be payable")
	}
	for _, s := range []BillingStatus{BillingPaid, BillingCancelled, BillingRefunded} {
		if s.Payable() {
			t.Errorf("%s.Payable() = true, want false", s)
		}
	}
}
