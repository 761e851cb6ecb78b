package birthdate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-birthday-web/internal/birthdate"
)

func mustDate(t *testing.T, s string) birthdate.CalendarDate {
	t.Helper()
	d, err := birthdate.Parse(s)
	require.NoError(t, err)
	return d
}

func TestDescribe(t *testing.T) {
	today := mustDate(t, "2024-03-05")

	s, err := birthdate.Describe("1998-03-05", today)
	require.NoError(t, err)

	assert.Equal(t, "05 Mar 1998", s.Long)
	assert.Equal(t, "05 Mar", s.Short)
	assert.Equal(t, 5, s.Day)
	assert.Equal(t, 3, s.Month)
	assert.Equal(t, 1998, s.Year)
	assert.Equal(t, 26, s.AgeYears)
	assert.Equal(t, 26, s.ExactAgeYears)
	assert.Equal(t, 0, s.DaysUntilNext)
	assert.Equal(t, "2024-03-05", s.NextBirthday)
}

func TestDescribe_ParseError(t *testing.T) {
	_, err := birthdate.Describe("2024-13-40", mustDate(t, "2024-01-01"))

	var pe *birthdate.ParseError
	assert.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, birthdate.ErrInvalidDate)
}

func TestDescribe_Idempotent(t *testing.T) {
	today := mustDate(t, "2025-06-15")

	first, err := birthdate.Describe("1990-06-20", today)
	require.NoError(t, err)
	second, err := birthdate.Describe("1990-06-20", today)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestApproxAge pins the round(days/365) formula, including the cases where it
// disagrees with the calendar age.
func TestApproxAge(t *testing.T) {
	tests := []struct {
		name   string
		birth  string
		today  string
		approx int
		exact  int
	}{
		{"On birthday", "1998-03-05", "2024-03-05", 26, 26},
		{"Five days before birthday reads high", "1990-06-20", "2025-06-15", 35, 34},
		{"Half a year rounds up", "2000-01-01", "2000-07-03", 1, 0},
		{"Born today", "2025-01-01", "2025-01-01", 0, 0},
		{"Day before the 24th birthday", "2000-12-31", "2024-12-30", 24, 23},
		{"Future birthdate", "2030-01-01", "2025-01-01", -5, 0},
		{"Over three centuries", "1700-01-01", "2025-01-01", 325, 325},
		{"Leapling before Mar 1", "2000-02-29", "2025-02-28", 25, 24},
		{"Leapling on Mar 1", "2000-02-29", "2025-03-01", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			birth, today := mustDate(t, tt.birth), mustDate(t, tt.today)
			assert.Equal(t, tt.approx, birthdate.ApproxAge(birth, today), "approximate age")
			assert.Equal(t, tt.exact, birthdate.ExactAge(birth, today), "calendar age")
		})
	}
}

// TestDaysUntilNext covers the year rollover boundary and the leap-day policy.
func TestDaysUntilNext(t *testing.T) {
	tests := []struct {
		name  string
		birth string
		today string
		want  int
		next  string
	}{
		{"Day before", "2000-12-31", "2024-12-30", 1, "2024-12-31"},
		{"On the day", "2000-12-31", "2024-12-31", 0, "2024-12-31"},
		{"Day after rolls to next year", "2000-12-31", "2025-01-01", 364, "2025-12-31"},
		{"Day after in a leap year", "2000-12-31", "2024-01-01", 365, "2024-12-31"},
		{"Later this year", "1998-03-05", "2025-01-01", 63, "2025-03-05"},
		{"Leapling two days before Mar 1", "2000-02-29", "2025-02-27", 2, "2025-03-01"},
		{"Leapling on Feb 28 of a non-leap year", "2000-02-29", "2025-02-28", 1, "2025-03-01"},
		{"Leapling on Mar 1 of a non-leap year", "2000-02-29", "2025-03-01", 0, "2025-03-01"},
		{"Leapling in a leap year", "2000-02-29", "2024-02-28", 1, "2024-02-29"},
		{"Leapling after Mar 1", "2000-02-29", "2025-03-02", 364, "2026-03-01"},
		{"Leapling rolling into a leap year", "2000-02-29", "2027-03-02", 364, "2028-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			today := mustDate(t, tt.today)

			got, err := birthdate.DaysUntilNext(tt.birth, today)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			next := birthdate.NextOccurrence(mustDate(t, tt.birth), today)
			assert.Equal(t, tt.next, next.String())
		})
	}
}

func TestDaysUntilNext_ParseError(t *testing.T) {
	_, err := birthdate.DaysUntilNext("2024-13-40", mustDate(t, "2024-01-01"))
	assert.ErrorIs(t, err, birthdate.ErrInvalidDate)
}

// TestDaysUntilNext_Range sweeps three years of "today" values.
func TestDaysUntilNext_Range(t *testing.T) {
	births := []string{"2000-01-01", "2000-02-28", "2000-02-29", "2000-03-01", "1985-07-14", "1999-12-31"}
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, b := range births {
		birth := mustDate(t, b)
		for i := 0; i < 3*366; i++ {
			today := birthdate.FromTime(start.AddDate(0, 0, i))
			days := birthdate.NextOccurrence(birth, today).DaysSince(today)

			require.GreaterOrEqual(t, days, 0, "birth %s today %s", b, today)
			require.LessOrEqual(t, days, 366, "birth %s today %s", b, today)

			if birthdate.IsBirthday(birth, today) {
				require.Equal(t, 0, days, "birth %s today %s", b, today)
			}
		}
	}
}

func TestIsBirthday(t *testing.T) {
	leapling := mustDate(t, "2000-02-29")

	assert.True(t, birthdate.IsBirthday(leapling, mustDate(t, "2025-03-01")))
	assert.False(t, birthdate.IsBirthday(leapling, mustDate(t, "2024-03-01")))
	assert.True(t, birthdate.IsBirthday(leapling, mustDate(t, "2024-02-29")))
	assert.False(t, birthdate.IsBirthday(mustDate(t, "2030-05-01"), mustDate(t, "2025-05-01")), "not born yet")
}

func TestToday_FixedClock(t *testing.T) {
	clock := birthdate.FixedClock(time.Date(2025, 6, 15, 22, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-06-15", birthdate.Today(clock).String())
}
