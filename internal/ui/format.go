package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/javiermolinar/flowdesk/internal/dateutil"
	"github.com/javiermolinar/flowdesk/internal/planner"
	"github.com/javiermolinar/flowdesk/internal/recurrence"
	"github.com/javiermolinar/flowdesk/internal/task"
)

// shortIDLen is how many characters of a UUID are shown and accepted as a prefix.
const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// statusSymbol returns the status indicator for a task.
func statusSymbol(s task.Status) string {
	switch s {
	case task.StatusTodo:
		return "○"
	case task.StatusInProgress:
		return formatActive("◐")
	case task.StatusDone:
		return formatDone("●")
	default:
		return "?"
	}
}

// truncate shortens s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// titleWidth is the room left for a title after a row's fixed columns.
func titleWidth(overhead int) int {
	w := termWidth() - overhead
	if w < 20 {
		return 20
	}
	return w
}

// printTaskRow prints a single task row with consistent formatting.
func printTaskRow(w io.Writer, t *task.Task, width int) {
	var extras []string
	if t.ReminderTime != "" {
		r := "⏰ " + t.ReminderTime
		if t.RecurrenceDuration != "" {
			r += " every " + FormatDuration(clockMinutes(t.RecurrenceDuration))
		}
		extras = append(extras, r)
	}
	if t.DueAt != nil {
		extras = append(extras, "due "+t.DueAt.Local().Format("Jan 2 15:04"))
	}
	if t.Automation != nil {
		extras = append(extras, "↻ "+recurrence.ParseFrequency(t.Automation.Frequency).String())
	}

	line := fmt.Sprintf("  %s %s  %s", statusSymbol(t.Status), formatMuted(shortID(t.ID)), truncate(t.Title, width))
	if len(extras) > 0 {
		line += "  " + formatMuted(strings.Join(extras, " · "))
	}
	fmt.Fprintln(w, line)
}

// printCell prints one planner cell. The label depends on the view scale.
func printCell(w io.Writer, c planner.Cell, scale dateutil.Scale) {
	label := cellLabel(c, scale)
	if c.Slot == nil {
		fmt.Fprintf(w, "  %s  %s\n", formatMuted(label), formatMuted("·"))
		return
	}

	mark := "[ ]"
	if c.Slot.IsDone {
		mark = formatDone("[x]")
	}
	title := c.Slot.TaskTitle
	if c.Past && !c.Slot.IsDone {
		title = formatAlert(title)
	}
	if c.Past {
		label = formatMuted(label)
	}
	fmt.Fprintf(w, "  %s  %s %s  %s\n", label, mark, title, formatMuted(c.Slot.ID))
}

func cellLabel(c planner.Cell, scale dateutil.Scale) string {
	if c.Start.IsZero() {
		return c.Key
	}
	switch scale {
	case dateutil.ScaleMonth, dateutil.ScaleYear:
		return c.Start.Format("Mon Jan 02")
	case dateutil.ScaleWeek:
		return c.Start.Format("Mon 15:04")
	case dateutil.ScaleDay, dateutil.ScaleHour:
		return c.Start.Format("15:04")
	default:
		return c.Start.Format("Mon Jan 02 15:04")
	}
}

// CompletionBar creates an ASCII progress bar for a completion percentage.
func CompletionBar(stats planner.Stats, width int) string {
	if stats.Total == 0 {
		return "[" + strings.Repeat("░", width) + "] (no slots)"
	}

	filled := (stats.Percentage * width) / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", formatStats(bar),
		formatStats(fmt.Sprintf("%d%% (%d/%d)", stats.Percentage, stats.Completed, stats.Total)))
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// clockMinutes converts "HH:MM" to minutes, or 0 when malformed.
func clockMinutes(s string) int {
	m, err := recurrence.ParseClock(s)
	if err != nil {
		return 0
	}
	return m
}

// formatWhen prints a time relative to now when it is close.
func formatWhen(t, now time.Time) string {
	switch d := t.Sub(now); {
	case d < 0:
		return "overdue since " + t.Local().Format("Jan 2 15:04")
	case d < time.Hour:
		return fmt.Sprintf("in %dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return "at " + t.Local().Format("15:04")
	default:
		return t.Local().Format("Mon Jan 2 15:04")
	}
}
