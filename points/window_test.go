package points_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/praxis-learning/praxis_api/points"
)

func TestWindowFor(t *testing.T) {
	tests := []struct {
		name     string
		utc      time.Time
		timezone string
		want     points.Window
	}{
		{
			name:     "morning window start is inclusive",
			utc:      time.Date(2025, 6, 1, 5, 0, 0, 0, time.UTC),
			timezone: "UTC",
			want:     points.WindowMorning,
		},
		{
			name:     "last second before morning window closes",
			utc:      time.Date(2025, 6, 1, 7, 59, 59, 0, time.UTC),
			timezone: "UTC",
			want:     points.WindowMorning,
		},
		{
			name:     "morning window end is exclusive",
			utc:      time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
			timezone: "UTC",
			want:     points.WindowNone,
		},
		{
			name:     "evening window",
			utc:      time.Date(2025, 6, 1, 21, 30, 0, 0, time.UTC),
			timezone: "UTC",
			want:     points.WindowEvening,
		},
		{
			name:     "evening window end is exclusive",
			utc:      time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC),
			timezone: "UTC",
			want:     points.WindowNone,
		},
		{
			name:     "midday is no window",
			utc:      time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC),
			timezone: "UTC",
			want:     points.WindowNone,
		},
		{
			// 01:30 UTC is 07:00 in Kolkata (UTC+5:30).
			name:     "fractional offset timezone lands in the morning window",
			utc:      time.Date(2025, 6, 1, 1, 30, 0, 0, time.UTC),
			timezone: "Asia/Kolkata",
			want:     points.WindowMorning,
		},
		{
			// 06:00 UTC is 08:00 in Berlin summer time (UTC+2), past the
			// morning window.
			name:     "DST pushes the local hour out of the window",
			utc:      time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC),
			timezone: "Europe/Berlin",
			want:     points.WindowNone,
		},
		{
			// The same UTC hour in January is 07:00 CET (UTC+1), inside it.
			name:     "standard time keeps the same UTC hour in the window",
			utc:      time.Date(2025, 1, 6, 6, 0, 0, 0, time.UTC),
			timezone: "Europe/Berlin",
			want:     points.WindowMorning,
		},
		{
			name:     "unknown timezone falls back to UTC",
			utc:      time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC),
			timezone: "Not/AZone",
			want:     points.WindowMorning,
		},
		{
			name:     "empty timezone falls back to UTC",
			utc:      time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC),
			timezone: "",
			want:     points.WindowEvening,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, points.WindowFor(tt.utc, tt.timezone))
		})
	}
}

func TestLocalDate(t *testing.T) {
	// 23:30 UTC on June 1 is already June 2 in Ho Chi Minh City (UTC+7)
	// and still June 1 in New York.
	utc := time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "2025-06-02", points.LocalDate(utc, "Asia/Ho_Chi_Minh"))
	assert.Equal(t, "2025-06-01", points.LocalDate(utc, "America/New_York"))
	assert.Equal(t, "2025-06-01", points.LocalDate(utc, ""))
	assert.Equal(t, "2025-06-01", points.LocalDate(utc, "garbage"))
}
