// Package calendar provides calendar-day helpers. All comparisons happen in
// the local time zone of the time values involved, so two instants on the
// same wall-clock date are the same day regardless of time of day.
package calendar

import (
	"fmt"
	"time"
)

// DayLayout is the layout used by DayKey and ParseDay.
const DayLayout = "2006-01-02"

// SameDay reports whether a and b fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

// DayKey returns the YYYY-MM-DD key for the local calendar day of t.
// Keys are equal exactly when the days are the same. Lexical key order is
// chronological only for years 0 through 9999; use CompareDays to order days.
func DayKey(t time.Time) string {
	return t.Local().Format(DayLayout)
}

// StartOfDay returns local midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// CompareDays returns -1 if a's calendar day is before b's, +1 if it is
// after, and 0 on the same day.
func CompareDays(a, b time.Time) int {
	return StartOfDay(a).Compare(StartOfDay(b))
}

// TrailingWindow returns n dates, one per calendar day, ending with anchor's
// day and ordered oldest first. The time of day of anchor is kept on every
// element. Returns nil when n <= 0.
func TrailingWindow(anchor time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	anchor = anchor.Local()
	days := make([]time.Time, n)
	for i := 0; i < n; i++ {
		days[i] = anchor.AddDate(0, 0, i-(n-1))
	}
	return days
}

// DayName returns the weekday name of t, e.g. "Monday".
func DayName(t time.Time) string {
	return t.Local().Weekday().String()
}

// ParseDay parses a YYYY-MM-DD string as local midnight.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected date as YYYY-MM-DD (e.g. 2024-01-31): %w", err)
	}
	return t, nil
}
