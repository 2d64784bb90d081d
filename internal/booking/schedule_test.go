package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		timeDesc string
		wantUTC  string
	}{
		{"afternoon hour", "2025-06-10", "1 PM", "2025-06-10T13:00:00Z"},
		{"midnight", "2025-06-10", "12 AM", "2025-06-10T00:00:00Z"},
		{"noon", "2025-06-10", "12 PM", "2025-06-10T12:00:00Z"},
		{"morning hour", "2025-06-10", "9 AM", "2025-06-10T09:00:00Z"},
		{"lowercase period", "2025-06-10", "1 pm", "2025-06-10T13:00:00Z"},
		{"no space before period", "2025-06-10", "1PM", "2025-06-10T13:00:00Z"},
		{"range takes first hour", "2025-06-10", "1 PM - 4 PM", "2025-06-10T13:00:00Z"},
		{"surrounding text ignored", "2025-06-10", "Tuesday 1 PM - 4 PM", "2025-06-10T13:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Normalize(tt.date, tt.timeDesc)
			require.NoError(t, err)
			want, err := time.Parse(time.RFC3339, tt.wantUTC)
			require.NoError(t, err)
			assert.True(t, s.StartsAt.Equal(want), "StartsAt = %v, want %v", s.StartsAt, want)
			assert.True(t, s.EndsAt.Equal(want.Add(3*time.Hour)), "EndsAt = %v", s.EndsAt)
			assert.Equal(t, tt.date, s.SessionDate)
			assert.Equal(t, tt.timeDesc, s.SessionTime)
		})
	}
}

func TestNormalizeDurationIsFixed(t *testing.T) {
	s, err := Normalize("2025-06-10", "8 AM - 9 AM")
	require.NoError(t, err)
	assert.Equal(t, SessionDuration, s.EndsAt.Sub(s.StartsAt))
}

func TestNormalizeNoHourPeriodPair(t *testing.T) {
	for _, desc := range []string{"no time here", "", "afternoon", "13:00", "PM"} {
		_, err := Normalize("2025-06-10", desc)
		assert.ErrorIs(t, err, ErrInvalidTimeFormat, "time description %q", desc)
	}
}

func TestNormalizeBadDate(t *testing.T) {
	_, err := Normalize("not-a-date", "1 PM")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestNormalizeOutOfRangeHourFailsLate(t *testing.T) {
	// "13 PM" matches the pattern, maps to hour 25 and only fails when the
	// composed instant is parsed.
	_, err := Normalize("2025-06-10", "13 PM")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
