package model

import "time"

// SpaceType classifies a bookable space.  The type is catalog
// metadata only; pricing in the booking path always uses the hourly
// rate regardless of type.
type SpaceType string

const (
	SpaceMeetingRoom   SpaceType = "MEETING_ROOM"
	SpacePrivateOffice SpaceType = "PRIVATE_OFFICE"
	SpaceHotDesk       SpaceType = "HOT_DESK"
	SpaceEventSpace    SpaceType = "EVENT_SPACE"
)

// Valid reports whether t is a known space type.
func (t SpaceType) Valid() bool {
	switch t {
	case SpaceMeetingRoom, SpacePrivateOffice, SpaceHotDesk, SpaceEventSpace:
		return true
	}
	return false
}

// Space represents a bookable physical space in the coworking
// catalog.  Rates are stored in integer cents; HourlyRateCents is
// nullable and its absence is a business error when a booking is
// priced.  Daily and monthly rates are catalog attributes and never
// enter the booking path.
//
// Fields:
//
//	ID               – primary key identifier.
//	Name             – display name of the space.
//	Description      – free-text description.
//	Type             – space classification (see SpaceType).
//	Capacity         – maximum number of occupants.
//	HourlyRateCents  – price per hour in cents (nullable).
//	DailyRateCents   – price per day in cents (nullable).
//	MonthlyRateCents – price per month in cents (nullable).
//	Floor            – building floor the space is located on.
//	HasWifi          – wifi availability flag.
//	HasProjector     – projector availability flag.
//	HasWhiteboard    – whiteboard availability flag.
//	HasAC            – air conditioning flag.
//	Active           – gates new bookings; inactive spaces reject creates.
//	CreatedAt        – creation timestamp.
//	UpdatedAt        – last update timestamp.
type Space struct {
	ID               uint64    `json:"id"`                 // spaces.id
	Name             string    `json:"name"`               // spaces.name
	Description      string    `json:"description"`        // spaces.description
	Type             SpaceType `json:"type"`               // spaces.type
	Capacity         int       `json:"capacity"`           // spaces.capacity
	HourlyRateCents  *int64    `json:"hourly_rate_cents"`  // spaces.hourly_rate_cents (nullable)
	DailyRateCents   *int64    `json:"daily_rate_cents"`   // spaces.daily_rate_cents (nullable)
	MonthlyRateCents *int64    `json:"monthly_rate_cents"` // spaces.monthly_rate_cents (nullable)
	Floor            int       `json:"floor"`              // spaces.floor
	HasWifi          bool      `json:"has_wifi"`           // spaces.has_wifi
	HasProjector     bool      `json:"has_projector"`      // spaces.has_projector
	HasWhiteboard    bool      `json:"has_whiteboard"`     // spaces.has_whiteboard
	HasAC            bool      `json:"has_ac"`             // spaces.has_ac
	Active           bool      `json:"active"`             // spaces.active
	CreatedAt        time.Time `json:"created_at"`         // spaces.created_at
	UpdatedAt        time.Time `json:"updated_at"`         // spaces.updated_at
}
