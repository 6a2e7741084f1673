package points

import (
	"time"

	"github.com/praxis-learning/praxis_api/model"
)

// Window identifies the time-of-day bonus window a moment falls in.
type Window string

const (
	WindowNone    Window = ""
	WindowMorning Window = "morning"
	WindowEvening Window = "evening"
)

// WindowConfig holds the two bonus windows as half-open local hour ranges:
// start inclusive, end exclusive.
type WindowConfig struct {
	MorningStart int
	MorningEnd   int
	EveningStart int
	EveningEnd   int
}

// DefaultWindows is the canonical configuration: 05:00-08:00 and 20:00-23:00
// local time.
var DefaultWindows = WindowConfig{
	MorningStart: 5,
	MorningEnd:   8,
	EveningStart: 20,
	EveningEnd:   23,
}

// For converts t to the given IANA timezone and returns the bonus window the
// local wall-clock hour falls in. An empty or unknown timezone is treated as
// UTC; fractional-hour offsets work because the conversion goes through the
// full location database, not a whole-hour shift.
func (w WindowConfig) For(t time.Time, timezone string) Window {
	hour := t.In(resolveLocation(timezone)).Hour()
	switch {
	case hour >= w.MorningStart && hour < w.MorningEnd:
		return WindowMorning
	case hour >= w.EveningStart && hour < w.EveningEnd:
		return WindowEvening
	default:
		return WindowNone
	}
}

// WindowFor applies the default window configuration.
func WindowFor(t time.Time, timezone string) Window {
	return DefaultWindows.For(t, timezone)
}

// LocalDate returns t's calendar date in the given timezone, formatted as
// YYYY-MM-DD. This is the grouping key for daily activity rows.
func LocalDate(t time.Time, timezone string) string {
	return t.In(resolveLocation(timezone)).Format(model.ActivityDateLayout)
}

func resolveLocation(timezone string) *time.Location {
	if timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
