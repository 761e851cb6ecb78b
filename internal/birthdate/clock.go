package birthdate

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// Callers read "today" from it once per request and pass the date down.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

// Today returns the local calendar date reported by c.
// The deployment is assumed to run in a single time zone.
func Today(c Clock) CalendarDate {
	return FromTime(c.Now())
}
