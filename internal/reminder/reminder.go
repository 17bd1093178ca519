// Package reminder decides which task reminders are due and records the
// user's answer to a reminder.
package reminder

import (
	"sort"
	"time"

	"github.com/javiermolinar/flowdesk/internal/recurrence"
	"github.com/javiermolinar/flowdesk/internal/task"
)

// IsDue reports whether t's reminder should fire at now.
// Any malformed field makes the task not due.
func IsDue(t *task.Task, now time.Time) bool {
	if t == nil || t.Status == task.StatusDone || !t.Status.Valid() {
		return false
	}

	reminderMinutes, err := recurrence.ParseClock(t.ReminderTime)
	if err != nil {
		return false
	}

	lastSent, sent, err := t.LastReminderSent()
	if err != nil {
		return false
	}

	if !sent {
		return recurrence.MinutesOfDay(now) >= reminderMinutes
	}

	// A reminder already went out. Only in-progress tasks with a repeat
	// interval are reminded again.
	if t.Status != task.StatusInProgress || t.RecurrenceDuration == "" {
		return false
	}
	interval, err := recurrence.ParseDuration(t.RecurrenceDuration)
	if err != nil {
		return false
	}
	return !now.Before(lastSent.Add(interval))
}

// DueReminders returns the tasks whose reminder is due at now, ordered by
// reminder time. Tasks with the same reminder time keep their input order.
func DueReminders(tasks []*task.Task, now time.Time) []*task.Task {
	due := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if IsDue(t, now) {
			due = append(due, t)
		}
	}

	// IsDue already rejected malformed reminder times.
	sort.SliceStable(due, func(i, j int) bool {
		mi, _ := recurrence.ParseClock(due[i].ReminderTime)
		mj, _ := recurrence.ParseClock(due[j].ReminderTime)
		return mi < mj
	})
	return due
}

// ResponseStatus maps a reminder answer to the task's new status.
func ResponseStatus(completed bool) task.Status {
	if completed {
		return task.StatusDone
	}
	return task.StatusInProgress
}
