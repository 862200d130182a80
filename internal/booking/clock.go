package booking

import "time"

// Clock supplies the current instant to the engine.  Check-in windows,
// due dates and sweeps all read time through it so tests can pin the
// clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns a Clock backed by the wall clock in UTC.
func SystemClock() Clock { return systemClock{} }
