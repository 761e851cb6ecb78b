// Package birthdate turns a stored birthdate into display strings, an age and
// a countdown to the next birthday. It performs no I/O and holds no state:
// every function is safe for concurrent use.
package birthdate

import (
	"errors"
	"fmt"
	"time"

	"github.com/tartampluch/go-birthday-web/internal/config"
)

// ErrInvalidDate is matched by every *ParseError via errors.Is.
var ErrInvalidDate = errors.New(config.ErrInvalidDate)

// ParseError reports input that is not a valid YYYY-MM-DD calendar date.
type ParseError struct {
	Input  string
	Reason string
	Err    error // underlying time.Parse error, if any
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s %q: %s", config.ErrDateParse, e.Input, e.Reason)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidDate}
	}
	return []error{ErrInvalidDate, e.Err}
}

// CalendarDate is a Gregorian (year, month, day) triple without time of day
// or time zone. The zero value is not a valid date; obtain one from Parse,
// FromTime or New.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// New validates the components and returns the corresponding date.
func New(year int, month time.Month, day int) (CalendarDate, error) {
	d := CalendarDate{Year: year, Month: month, Day: day}
	if year < config.MinYear {
		return CalendarDate{}, &ParseError{Input: d.String(), Reason: config.ErrDateYearRange}
	}
	// time.Date normalizes overflow (Feb 30 -> Mar 2); a round trip detects it.
	t := d.Time()
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return CalendarDate{}, &ParseError{Input: d.String(), Reason: config.ErrInvalidDate}
	}
	return d, nil
}

// Parse reads a date in the YYYY-MM-DD wire format.
// Any malformed or non-existent date (2024-13-40, 2023-02-29) yields a *ParseError.
func Parse(s string) (CalendarDate, error) {
	t, err := time.Parse(config.DateFormatInput, s)
	if err != nil {
		return CalendarDate{}, &ParseError{Input: s, Reason: config.ErrDateFormat, Err: err}
	}
	if t.Year() < config.MinYear {
		return CalendarDate{}, &ParseError{Input: s, Reason: config.ErrDateYearRange}
	}
	return FromTime(t), nil
}

// FromTime returns the calendar date of t in t's own location.
func FromTime(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC of the date. UTC keeps day arithmetic free of DST gaps.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String renders the date in the YYYY-MM-DD wire format.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Long renders the date as "05 Mar 1998".
func (d CalendarDate) Long() string {
	return d.Time().Format(config.DateFormatLong)
}

// Short renders the day and month as "05 Mar".
func (d CalendarDate) Short() string {
	return d.Time().Format(config.DateFormatShort)
}

// DaysSince returns the signed number of days from other to d.
// Unix seconds are used instead of time.Sub, whose Duration saturates after ~292 years.
func (d CalendarDate) DaysSince(other CalendarDate) int {
	return int((d.Time().Unix() - other.Time().Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// Before reports whether d is strictly earlier than other.
func (d CalendarDate) Before(other CalendarDate) bool {
	return d.Time().Before(other.Time())
}

// IsLeapYear reports whether year has a February 29th.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// OccurrenceIn returns the date on which this birthday falls in the given year.
//
// Leap-day policy: a February 29th birthday is observed on March 1st in
// years that have no February 29th.
func (d CalendarDate) OccurrenceIn(year int) CalendarDate {
	if d.Month == time.February && d.Day == 29 && !IsLeapYear(year) {
		return CalendarDate{Year: year, Month: time.March, Day: 1}
	}
	return CalendarDate{Year: year, Month: d.Month, Day: d.Day}
}
