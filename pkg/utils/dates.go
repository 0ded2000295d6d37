package utils

import (
	"time"
)

const dateOnly = "2006-01-02"

// ParseDate accepts the two formats the frontend sends: a plain calendar date
// or a full RFC3339 timestamp.
func ParseDate(value string) (time.Time, bool) {
	if t, err := time.Parse(dateOnly, value); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// DurationDays returns the number of whole days between start and end,
// truncating any fractional day.
func DurationDays(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// Overlaps reports whether a requested [start, end) range conflicts with an
// existing reservation [existingStart, existingEnd). The boundary-equality
// clauses are part of the booking contract: a request that starts or ends
// exactly on an existing reservation's boundary is rejected even though the
// half-open test alone would allow the end == existingStart case.
func Overlaps(start, end, existingStart, existingEnd time.Time) bool {
	if start.Before(existingEnd) && end.After(existingStart) {
		return true
	}
	return start.Equal(existingStart) || end.Equal(existingEnd)
}
