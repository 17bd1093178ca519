package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// Scale is the granularity of a planner slot or query.
type Scale string

const (
	ScaleHour  Scale = "hour"
	ScaleDay   Scale = "day"
	ScaleWeek  Scale = "week"
	ScaleMonth Scale = "month"
	ScaleYear  Scale = "year"
)

// Valid returns true if the scale is a known value.
func (s Scale) Valid() bool {
	switch s {
	case ScaleHour, ScaleDay, ScaleWeek, ScaleMonth, ScaleYear:
		return true
	default:
		return false
	}
}

// ParseScale parses a case-insensitive scale name.
func ParseScale(s string) (Scale, error) {
	scale := Scale(strings.ToLower(strings.TrimSpace(s)))
	if !scale.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidScale, s)
	}
	return scale, nil
}

// Range is an inclusive time interval.
type Range struct {
	Start time.Time
	End   time.Time
}

const hourKeyLayout = "2006-01-02T15:00:00"

// HourKey formats t as a zero-padded YYYY-MM-DDTHH:00:00 key using its
// wall-clock fields, not UTC.
func HourKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:00:00", t.Year(), int(t.Month()), t.Day(), t.Hour())
}

// ParseHourKey reconstructs the hour a key was derived from in loc.
func ParseHourKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(hourKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidHourKey, key)
	}
	return t, nil
}

// ISOWeek returns the ISO-8601 year and week number of t.
// Weeks start on Monday and week 1 contains the year's first Thursday, so the
// first days of January can belong to week 52 or 53 of the previous year.
func ISOWeek(t time.Time) (year, week int) {
	return t.ISOWeek()
}

// PeriodKey returns the canonical bucket key of t at the given scale.
// Hour keys drop minutes and seconds; day keys are the hour key of t's local
// midnight.
func PeriodKey(t time.Time, scale Scale) string {
	t = TruncateToHour(t)

	switch scale {
	case ScaleWeek:
		year, week := ISOWeek(t)
		return fmt.Sprintf("%04d-W%02d", year, week)
	case ScaleMonth:
		return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
	case ScaleYear:
		return fmt.Sprintf("%04d", t.Year())
	case ScaleDay:
		return HourKey(TruncateToDay(t))
	default:
		return HourKey(t)
	}
}

// VisibleRange returns the interval a planner view anchored at anchor displays.
//
//   - hour: the hour containing anchor
//   - day: midnight to 23:59:59.999
//   - week: Sunday 00:00 to Saturday 23:59:59.999
//   - month: the calendar month padded out to full Sunday-Saturday weeks
//   - year: January 1 to December 31
func VisibleRange(anchor time.Time, scale Scale) Range {
	switch scale {
	case ScaleHour:
		start := TruncateToHour(anchor)
		return Range{Start: start, End: start.Add(time.Hour - time.Millisecond)}
	case ScaleWeek:
		sunday, saturday := WeekRange(anchor)
		return Range{Start: sunday, End: endOfDay(saturday)}
	case ScaleMonth:
		first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		last := time.Date(anchor.Year(), anchor.Month()+1, 0, 0, 0, 0, 0, anchor.Location())
		start := first.AddDate(0, 0, -int(first.Weekday()))
		end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))
		return Range{Start: start, End: endOfDay(end)}
	case ScaleYear:
		start := time.Date(anchor.Year(), time.January, 1, 0, 0, 0, 0, anchor.Location())
		end := time.Date(anchor.Year(), time.December, 31, 0, 0, 0, 0, anchor.Location())
		return Range{Start: start, End: endOfDay(end)}
	default:
		return Range{Start: TruncateToDay(anchor), End: endOfDay(anchor)}
	}
}

// AddPeriod adds amount units of scale to t.
// Month and year arithmetic clamps to the last day of the target month:
// Jan 31 + 1 month is Feb 28 (or 29), and Feb 29 + 1 year is Feb 28.
func AddPeriod(t time.Time, amount int, scale Scale) time.Time {
	switch scale {
	case ScaleHour:
		return t.Add(time.Duration(amount) * time.Hour)
	case ScaleWeek:
		return t.AddDate(0, 0, 7*amount)
	case ScaleMonth:
		return addMonthsClamped(t, amount)
	case ScaleYear:
		return addMonthsClamped(t, 12*amount)
	default:
		return t.AddDate(0, 0, amount)
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	target := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	day := min(t.Day(), DaysInMonth(target.Year(), target.Month()))
	return time.Date(target.Year(), target.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
