// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationCreatedEvent is published when a reservation is successfully
// booked. It contains enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type ReservationCreatedEvent struct {
	ReservationID   uint64 `json:"reservation_id"`
	UserID          uint64 `json:"user_id"`
	SpaceID         uint64 `json:"space_id"`
	SpaceName       string `json:"space_name"`
	SpaceType       string `json:"space_type"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	TotalPriceCents int64  `json:"total_price_cents"`
	BillingID       uint64 `json:"billing_id"`
	DueDate         string `json:"due_date"`
	CreatedAt       string `json:"created_at"`
}

// BillingPaidEvent is published when a billing record is settled.
type BillingPaidEvent struct {
	BillingID     uint64 `json:"billing_id"`
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	AmountCents   int64  `json:"amount_cents"`
	PaymentMethod string `json:"payment_method"`
	PaidAt        string `json:"paid_at"`
}
