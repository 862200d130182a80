package model

import "time"

// OccupancyLog is an audit row recording when a space became occupied
// or free.  One row is written per check-in (Occupied=true) and one
// per check-out (Occupied=false), in the same transaction as the
// reservation transition.
type OccupancyLog struct {
	ID            uint64    `json:"id"`                       // occupancy_logs.id
	SpaceID       uint64    `json:"space_id"`                 // occupancy_logs.space_id
	ReservationID *uint64   `json:"reservation_id,omitempty"` // occupancy_logs.reservation_id (nullable)
	Timestamp     time.Time `json:"timestamp"`                // occupancy_logs.ts
	Occupied      bool      `json:"occupied"`                 // occupancy_logs.occupied
	Notes         string    `json:"notes"`                    // occupancy_logs.notes
}
