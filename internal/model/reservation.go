package model

import "time"

// Reservation records a user's time-boxed claim on a space.  The
// interval is half-open [StartTime, EndTime): a reservation ending at
// 12:00 does not conflict with one starting at 12:00.  All timestamps
// are stored in UTC.
//
// Fields:
//
//	ID              – primary key identifier.
//	UserID          – user who made the reservation.
//	SpaceID         – space being reserved.
//	StartTime       – start of the reserved interval.
//	EndTime         – end of the reserved interval (must be after StartTime,
//	                  minimum duration one hour).
//	TotalPriceCents – computed charge in cents; recomputed whenever the
//	                  interval changes.
//	Status          – state of the reservation (see ReservationStatus).
//	CheckInTime     – instant of check-in, set on the transition to IN_USE.
//	CheckOutTime    – instant of check-out, set on the transition to COMPLETED.
//	Notes           – free-text notes.
//	CreatedAt       – creation timestamp, immutable.
//	UpdatedAt       – last update timestamp.
type Reservation struct {
	ID              uint64            `json:"id"`                       // reservations.id
	UserID          uint64            `json:"user_id"`                  // reservations.user_id
	SpaceID         uint64            `json:"space_id"`                 // reservations.space_id
	StartTime       time.Time         `json:"start_time"`               // reservations.start_time
	EndTime         time.Time         `json:"end_time"`                 // reservations.end_time
	TotalPriceCents int64             `json:"total_price_cents"`        // reservations.total_price_cents
	Status          ReservationStatus `json:"status"`                   // reservations.status
	CheckInTime     *time.Time        `json:"check_in_time,omitempty"`  // reservations.check_in_time (nullable)
	CheckOutTime    *time.Time        `json:"check_out_time,omitempty"` // reservations.check_out_time (nullable)
	Notes           string            `json:"notes"`                    // reservations.notes
	CreatedAt       time.Time         `json:"created_at"`               // reservations.created_at
	UpdatedAt       time.Time         `json:"updated_at"`               // reservations.updated_at
}
