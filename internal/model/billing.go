package model

import "time"

// Billing is the monetary charge spawned by exactly one reservation.
// At most one billing exists per reservation; the back-reference is
// held only on this side.  DueDate and PaidDate carry day precision
// (midnight UTC).
//
// Fields:
//
//	ID            – primary key identifier.
//	ReservationID – reservation this charge belongs to (one-to-one).
//	UserID        – user being billed.
//	AmountCents   – charge amount in cents; mirrors the reservation
//	                total while the charge is still payable.
//	Status        – state of the charge (see BillingStatus).
//	DueDate       – date the charge falls due (the reservation's start date).
//	PaidDate      – date of payment, set only on the transition to PAID.
//	PaymentMethod – free-text label recorded on payment.
//	Notes         – free-text notes.
//	CreatedAt     – creation timestamp, immutable.
//	UpdatedAt     – last update timestamp.
type Billing struct {
	ID            uint64        `json:"id"`                  // billings.id
	ReservationID uint64        `json:"reservation_id"`      // billings.reservation_id
	UserID        uint64        `json:"user_id"`             // billings.user_id
	AmountCents   int64         `json:"amount_cents"`        // billings.amount_cents
	Status        BillingStatus `json:"status"`              // billings.status
	DueDate       time.Time     `json:"due_date"`            // billings.due_date
	PaidDate      *time.Time    `json:"paid_date,omitempty"` // billings.paid_date (nullable)
	PaymentMethod string        `json:"payment_method"`      // billings.payment_method
	Notes         string        `json:"notes"`               // billings.notes
	CreatedAt     time.Time     `json:"created_at"`          // billings.created_at
	UpdatedAt     time.Time     `json:"updated_at"`          // billings.updated_at
}
