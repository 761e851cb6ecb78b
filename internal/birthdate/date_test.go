package birthdate_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-birthday-web/internal/birthdate"
)

func TestParse_Valid(t *testing.T) {
	d, err := birthdate.Parse("1998-03-05")
	require.NoError(t, err)

	assert.Equal(t, 1998, d.Year)
	assert.Equal(t, time.March, d.Month)
	assert.Equal(t, 5, d.Day)
	assert.Equal(t, "1998-03-05", d.String())
	assert.Equal(t, "05 Mar 1998", d.Long())
	assert.Equal(t, "05 Mar", d.Short())
}

func TestParse_LeapDay(t *testing.T) {
	d, err := birthdate.Parse("2000-02-29")
	require.NoError(t, err)
	assert.Equal(t, 29, d.Day)

	_, err = birthdate.Parse("2023-02-29")
	assert.Error(t, err, "Feb 29 only exists in leap years")
}

// TestParse_Invalid verifies every rejection is a typed *ParseError.
func TestParse_Invalid(t *testing.T) {
	inputs := []string{
		"2024-13-40",
		"2024-02-30",
		"2023-02-29",
		"2024-04-31",
		"",
		"1998-3-5",
		"05/03/1998",
		"1998-03-05T00:00:00Z",
		" 1998-03-05",
		"abcd-ef-gh",
		"0000-01-01",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := birthdate.Parse(in)
			require.Error(t, err)

			var pe *birthdate.ParseError
			require.True(t, errors.As(err, &pe), "error must be a *ParseError")
			assert.Equal(t, in, pe.Input)
			assert.True(t, errors.Is(err, birthdate.ErrInvalidDate))
			assert.Contains(t, err.Error(), in)
		})
	}
}

func TestNew(t *testing.T) {
	d, err := birthdate.New(2024, time.February, 29)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())

	_, err = birthdate.New(2025, time.February, 29)
	assert.ErrorIs(t, err, birthdate.ErrInvalidDate)

	_, err = birthdate.New(0, time.January, 1)
	assert.ErrorIs(t, err, birthdate.ErrInvalidDate)
}

func TestFromTime_UsesLocation(t *testing.T) {
	// 23:30 UTC on Dec 31st is already Jan 1st in Tokyo.
	tokyo := time.FixedZone("JST", 9*60*60)
	instant := time.Date(2024, 12, 31, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-12-31", birthdate.FromTime(instant).String())
	assert.Equal(t, "2025-01-01", birthdate.FromTime(instant.In(tokyo)).String())
}

func TestDaysSince_LongSpans(t *testing.T) {
	birth, _ := birthdate.Parse("1700-01-01")
	today, _ := birthdate.Parse("2025-01-01")

	assert.Equal(t, 118704, today.DaysSince(birth))
	assert.Equal(t, -118704, birth.DaysSince(today))
}

func TestIsLeapYear(t *testing.T) {
	assert.True(t, birthdate.IsLeapYear(2000))
	assert.True(t, birthdate.IsLeapYear(2024))
	assert.False(t, birthdate.IsLeapYear(1900))
	assert.False(t, birthdate.IsLeapYear(2025))
}

func TestOccurrenceIn_LeapDayPolicy(t *testing.T) {
	leapling, _ := birthdate.Parse("2000-02-29")

	assert.Equal(t, "2024-02-29", leapling.OccurrenceIn(2024).String())
	assert.Equal(t, "2025-03-01", leapling.OccurrenceIn(2025).String(), "non-leap years observe Mar 1")
	assert.Equal(t, "2100-03-01", leapling.OccurrenceIn(2100).String())

	regular, _ := birthdate.Parse("1998-03-05")
	assert.Equal(t, "2025-03-05", regular.OccurrenceIn(2025).String())
}
