package utils

import (
	"time"
)

// TimestampLayout is fixed width so that lexical order of stored timestamps
// matches chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Clock returns the current time. Stores take one so tests can pin it.
type Clock func() time.Time

// Timestamp formats t in UTC using TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NormalizeTimestamp rewrites an RFC 3339 value in TimestampLayout so it
// orders correctly as text. Other values are returned unchanged.
func NormalizeTimestamp(s string) string {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return s
	}
	return Timestamp(t)
}

// NewerFirst reports whether timestamp a sorts before b in a newest-first
// listing. ISO-8601 values are compared as instants; anything unparsable
// falls back to string comparison.
func NewerFirst(a, b string) bool {
	ta, errA := time.Parse(time.RFC3339Nano, a)
	tb, errB := time.Parse(time.RFC3339Nano, b)
	if errA == nil && errB == nil {
		return ta.After(tb)
	}
	return a > b
}
