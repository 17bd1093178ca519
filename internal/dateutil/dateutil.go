// Package dateutil provides calendar arithmetic and period keys for the planner
// and the reminder/automation scheduling core.
package dateutil

import (
	"errors"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidScale      = errors.New("scale must be one of hour, day, week, month, year")
	ErrInvalidHourKey    = errors.New("hour key must be in YYYY-MM-DDTHH:00:00 format")
	ErrInvalidMoment     = errors.New("time must be HH:MM, YYYY-MM-DD or YYYY-MM-DD HH:MM")
)

const dateLayout = "2006-01-02"

// ParseAnchor resolves the anchor date of a planner view.
// Accepted inputs (case-insensitive): "", "today", "tomorrow", "yesterday" and YYYY-MM-DD.
// Relative keywords are resolved against now and keep now's location.
func ParseAnchor(s string, now time.Time) (time.Time, error) {
	today := TruncateToDay(now)

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), now.Location())
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// ParseMoment resolves a point in time given on the command line: anything
// ParseAnchor accepts, "HH:MM" for today, or "YYYY-MM-DD HH:MM".
func ParseMoment(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation("15:04", s, now.Location()); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location()), nil
	}
	if t, err := time.ParseInLocation(dateLayout+" 15:04", s, now.Location()); err == nil {
		return t, nil
	}
	if t, err := ParseAnchor(s, now); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidMoment
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// TruncateToHour drops minutes, seconds and nanoseconds using wall-clock fields.
func TruncateToHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// WeekRange returns the Sunday and Saturday of the week containing t.
func WeekRange(t time.Time) (sunday, saturday time.Time) {
	t = TruncateToDay(t)
	sunday = t.AddDate(0, 0, -int(t.Weekday()))
	saturday = sunday.AddDate(0, 0, 6)
	return sunday, saturday
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// endOfDay returns the last millisecond of t's calendar day.
func endOfDay(t time.Time) time.Time {
	return TruncateToDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}
