// Package recurrence parses frequency phrases and HH:MM durations and
// computes the next run of a recurring automation.
package recurrence

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/javiermolinar/flowdesk/internal/dateutil"
)

// ErrInvalidClock is returned when a value is not in HH:MM format.
var ErrInvalidClock = errors.New("value must be in HH:MM format")

// RunHour is the local hour every computed run is pinned to.
const RunHour = 9

// maxDays bounds "every N days"; larger counts are treated as unrecognized.
const maxDays = 100000

var (
	clockPattern      = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)
	everyNDaysPattern = regexp.MustCompile(`every\s+(\d+)\s+days?`)
)

// Frequency is the parsed form of a frequency phrase.
type Frequency struct {
	Text       string // the input as given
	Days       int
	Months     int
	Recognized bool // false when the phrase fell back to daily
}

// ParseFrequency parses a frequency phrase such as "weekly" or "every 3 days".
// Matching is case-insensitive and ignores surrounding whitespace.
// Anything it cannot parse falls back to daily with Recognized set to false.
func ParseFrequency(text string) Frequency {
	normalized := strings.ToLower(strings.TrimSpace(text))

	f := Frequency{Text: text, Recognized: true}
	switch normalized {
	case "daily", "every day":
		f.Days = 1
		return f
	case "weekly", "every week":
		f.Days = 7
		return f
	case "monthly", "every month":
		f.Months = 1
		return f
	}

	if m := everyNDaysPattern.FindStringSubmatch(normalized); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 && n <= maxDays {
			f.Days = n
			return f
		}
	}

	return Frequency{Text: text, Days: 1}
}

// Apply returns the run after from: the offset is added to from's calendar
// date and the result is pinned to 09:00 in from's location.
func (f Frequency) Apply(from time.Time) time.Time {
	next := from
	if f.Months != 0 {
		next = dateutil.AddPeriod(next, f.Months, dateutil.ScaleMonth)
	}
	if f.Days != 0 {
		next = next.AddDate(0, 0, f.Days)
	}
	return time.Date(next.Year(), next.Month(), next.Day(), RunHour, 0, 0, 0, from.Location())
}

// String returns a short human form of the cadence.
func (f Frequency) String() string {
	switch {
	case f.Months == 1:
		return "monthly"
	case f.Months > 1:
		return fmt.Sprintf("every %d months", f.Months)
	case f.Days == 1:
		return "daily"
	case f.Days == 7:
		return "weekly"
	default:
		return fmt.Sprintf("every %d days", f.Days)
	}
}

// NextRun parses text and applies it to from.
// The returned Frequency tells the caller whether the phrase was recognized.
func NextRun(text string, from time.Time) (time.Time, Frequency) {
	f := ParseFrequency(text)
	return f.Apply(from), f
}

// ParseClock parses an "HH:MM" time of day into minutes since midnight.
func ParseClock(s string) (int, error) {
	if !clockPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hours, _ := strconv.Atoi(s[:2])
	minutes, _ := strconv.Atoi(s[3:])
	return hours*60 + minutes, nil
}

// ParseDuration parses an "HH:MM" duration such as "01:30".
func ParseDuration(s string) (time.Duration, error) {
	minutes, err := ParseClock(s)
	if err != nil {
		return 0, err
	}
	return time.Duration(minutes) * time.Minute, nil
}

// MinutesOfDay returns the minutes elapsed since local midnight for t.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
