// Package dates contains calendar-day helpers.
// The engine deals in calendar dates with no time component; internally a
// date is a time.Time pinned to 00:00:00 UTC so map keys and range math
// stay exact regardless of the reporting timezone
package dates

import "time"

// Wire is the serialized date layout used by every external contract
const Wire = "2006-01-02"

// Day normalizes an instant to the calendar day it falls on in loc,
// returned as UTC midnight
func Day(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Parse reads a YYYY-MM-DD string into a UTC-midnight date
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Wire, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Format renders a date as YYYY-MM-DD
func Format(t time.Time) string { return t.Format(Wire) }

// AddDays shifts a date by n calendar days
func AddDays(t time.Time, n int) time.Time { return t.AddDate(0, 0, n) }

// DaysBetween counts the days in the inclusive range [start, end].
// Returns 0 when end precedes start
func DaysBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// ISOWeek returns the ISO-8601 week-year and week number for a date.
// The week-year may differ from the calendar year near January 1st
func ISOWeek(t time.Time) (year, week int) { return t.ISOWeek() }

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
