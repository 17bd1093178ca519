package task

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayout is RFC 3339 with a fixed millisecond width. Stored values are
// always UTC, so two timestamps compare the same way as strings and as times.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp formats t for storage.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseTimestamp parses any RFC 3339 timestamp, with or without fractional seconds.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}
