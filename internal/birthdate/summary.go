package birthdate

import (
	"math"

	"github.com/tartampluch/go-birthday-web/internal/config"
)

// Summary is the display, age and countdown bundle derived from a birthdate
// and a reference "today". It is a value: recompute it, never mutate it.
type Summary struct {
	Date  CalendarDate `json:"-"`
	Long  string       `json:"long"`  // "05 Mar 1998"
	Short string       `json:"short"` // "05 Mar"
	Day   int          `json:"day"`
	Month int          `json:"month"`
	Year  int          `json:"year"`

	// AgeYears is round(daysSinceBirth / 365). It is an approximation kept
	// for compatibility and may be one year off around a birthday.
	AgeYears int `json:"age_years"`

	// ExactAgeYears is the number of completed calendar years.
	ExactAgeYears int `json:"exact_age_years"`

	// DaysUntilNext is 0 on the birthday itself and never exceeds 366.
	DaysUntilNext int `json:"days_until_next"`

	// NextBirthday is the date counted down to (see OccurrenceIn for Feb 29).
	NextBirthday string `json:"next_birthday"`
}

// Describe parses s and summarizes it relative to today.
// Parse failures are returned as *ParseError.
func Describe(s string, today CalendarDate) (Summary, error) {
	d, err := Parse(s)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(d, today), nil
}

// Summarize builds the Summary of an already validated date.
func Summarize(d, today CalendarDate) Summary {
	next := NextOccurrence(d, today)
	return Summary{
		Date:          d,
		Long:          d.Long(),
		Short:         d.Short(),
		Day:           d.Day,
		Month:         int(d.Month),
		Year:          d.Year,
		AgeYears:      ApproxAge(d, today),
		ExactAgeYears: ExactAge(d, today),
		DaysUntilNext: next.DaysSince(today),
		NextBirthday:  next.String(),
	}
}

// DaysUntilNext parses s and returns the number of days from today until the
// next occurrence of its month and day, 0 when that is today.
func DaysUntilNext(s string, today CalendarDate) (int, error) {
	d, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return NextOccurrence(d, today).DaysSince(today), nil
}

// NextOccurrence returns the first occurrence of birth's month and day that is
// on or after today: this year's if it has not passed yet, otherwise next year's.
func NextOccurrence(birth, today CalendarDate) CalendarDate {
	candidate := birth.OccurrenceIn(today.Year)
	if candidate.Before(today) {
		candidate = birth.OccurrenceIn(today.Year + 1)
	}
	return candidate
}

// ApproxAge returns round(days between birth and today / 365), halves to even.
// The result is negative for a birthdate in the future.
func ApproxAge(birth, today CalendarDate) int {
	days := today.DaysSince(birth)
	return int(math.RoundToEven(float64(days) / config.DaysPerYear))
}

// ExactAge returns the number of completed years between birth and today,
// or 0 when birth is in the future.
func ExactAge(birth, today CalendarDate) int {
	if today.Before(birth) {
		return 0
	}
	age := today.Year - birth.Year
	if today.Before(birth.OccurrenceIn(today.Year)) {
		age--
	}
	return age
}

// AgeOn returns the age turned on the occurrence of the birthday in year.
func AgeOn(birth CalendarDate, year int) int {
	return year - birth.Year
}

// IsBirthday reports whether today is an occurrence of birth.
func IsBirthday(birth, today CalendarDate) bool {
	occ := birth.OccurrenceIn(today.Year)
	return occ == today && !today.Before(birth)
}
