// Package window chooses the inclusive [start, end] date range for a
// collection run. It is a pure function of the supplied clock instant,
// mode, and reference timezone; nothing ambient is read here
package window

import (
	"time"

	"admetry/internal/platform/dates"
)

// Mode selects which range to collect. Modes are mutually exclusive and
// evaluated in priority order: Days, then PrevMonth, then the default
// prior ISO week
type Mode struct {
	// Days, when > 0, selects a fixed trailing window ending yesterday
	Days int

	// PrevMonth selects the full prior calendar month
	PrevMonth bool
}

// Range is an inclusive calendar-date range
type Range struct {
	Start time.Time
	End   time.Time
}

// Compute resolves the collection range for now under mode, with all day
// boundaries evaluated in loc before normalizing to UTC-midnight dates
func Compute(now time.Time, mode Mode, loc *time.Location) Range {
	today := dates.Day(now, loc)

	switch {
	case mode.Days > 0:
		end := dates.AddDays(today, -1)
		return Range{Start: dates.AddDays(end, -(mode.Days - 1)), End: end}

	case mode.PrevMonth:
		firstOfThisMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := dates.AddDays(firstOfThisMonth, -1)
		start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
		return Range{Start: start, End: end}

	default:
		// Monday..Sunday of the ISO week before the current one.
		// Sunday is day 7 of the current week, not day 0
		wd := int(today.Weekday())
		if wd == 0 {
			wd = 7
		}
		monday := dates.AddDays(today, -(wd - 1))
		return Range{Start: dates.AddDays(monday, -7), End: dates.AddDays(monday, -1)}
	}
}
