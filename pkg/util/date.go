package util

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string as UTC midnight. Returns (t, true) on success.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FromUnixMillis converts a millisecond epoch timestamp, possibly fractional, to UTC.
func FromUnixMillis(ms float64) time.Time {
	return time.UnixMilli(int64(ms)).UTC()
}
