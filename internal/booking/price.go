package booking

import (
	"time"

	"github.com/coworkhub/space-reservation/internal/model"
)

// MinReservationDuration is the shortest interval a reservation may
// cover.  Intervals below it are rejected before pricing.
const MinReservationDuration = 60 * time.Minute

// checkInGrace is how early a check-in is accepted relative to the
// reservation start.
const checkInGrace = 15 * time.Minute

// Price computes the charge in cents for reserving space over
// [start, end).  The duration is rounded up to whole hours with a
// one-hour floor, so a 90-minute interval bills two hours and a
// 45-minute interval bills one.  It fails with a validation error when
// the space has no hourly rate configured or the rate is zero.
// Daily and monthly rates never participate in the booking path.
func Price(space *model.Space, start, end time.Time) (int64, error) {
	if space.HourlyRateCents == nil || *space.HourlyRateCents == 0 {
		return 0, validation("space has no hourly rate configured")
	}
	d := end.Sub(start)
	hours := int64(d / time.Hour)
	if d%time.Hour != 0 {
		hours++
	}
	if hours < 1 {
		hours = 1
	}
	return *space.HourlyRateCents * hours, nil
}
