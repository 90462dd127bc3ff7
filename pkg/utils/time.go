package utils

import "time"

// ParseDate parses a date supplied by a client, accepting full RFC3339
// timestamps and plain calendar dates.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// FormatRFC3339 renders a timestamp the way the API serializes dates.
func FormatRFC3339(t time.Time) string {
	return t.Format(time.RFC3339)
}
