package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfISOWeek(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "Monday", in: "2026-10-12", expected: "2026-10-12"},
		{name: "Wednesday", in: "2026-10-14", expected: "2026-10-12"},
		{name: "Sunday belongs to previous Monday", in: "2026-10-18", expected: "2026-10-12"},
		{name: "Across year boundary", in: "2027-01-01", expected: "2026-12-28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StartOfISOWeek(MustParseDate(tt.in))
			assert.Equal(t, tt.expected, FormatDate(got))
		})
	}
}

func TestEndOfISOWeek(t *testing.T) {
	end := EndOfISOWeek(time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-10-18", FormatDate(end))
	assert.Equal(t, 23, end.Hour())
}

func TestMonthAndYearBounds(t *testing.T) {
	d := time.Date(2028, 2, 10, 8, 30, 0, 0, time.UTC)

	assert.Equal(t, "2028-02-01", FormatDate(StartOfMonth(d)))
	assert.Equal(t, "2028-02-29", FormatDate(EndOfMonth(d)))
	assert.Equal(t, "2028-01-01", FormatDate(StartOfYear(d)))
	assert.Equal(t, "2028-12-31", FormatDate(EndOfYear(d)))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-03-01", nil)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("01/03/2026", nil)
	assert.Error(t, err)
}

func TestWithin(t *testing.T) {
	from := MustParseDate("2026-10-01")
	to := MustParseDate("2026-10-31")

	assert.True(t, Within(from, from, to))
	assert.True(t, Within(to, from, to))
	assert.False(t, Within(MustParseDate("2026-11-01"), from, to))
}

func TestISOWeekLabel(t *testing.T) {
	assert.Equal(t, "2026-W42", ISOWeekLabel(MustParseDate("2026-10-14")))
}

func TestDateIn(t *testing.T) {
	sydney, err := time.LoadLocation("Australia/Sydney")
	if err != nil {
		t.Skip("tzdata not available")
	}
	got := DateIn(MustParseDate("2026-10-14"), sydney)

	assert.Equal(t, "2026-10-14", FormatDate(got))
	assert.Equal(t, sydney, got.Location())
	assert.Equal(t, 0, got.Hour())
}
