// Package workday counts working days. A workday is any calendar day that is not
// Saturday or Sunday; public holidays are not considered.
package workday

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("workday: start date is after end date")

// Date truncates t to midnight UTC of its own calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func IsWorkday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// Count returns the number of workdays in the inclusive range [start, end].
// Only the calendar date of each bound is used.
func Count(start, end time.Time) (int, error) {
	start, end = Date(start), Date(end)
	if start.After(end) {
		return 0, ErrInvalidRange
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsWorkday(d) {
			days++
		}
	}
	return days, nil
}
