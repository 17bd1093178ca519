// Package task defines the core domain types for flowdesk.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/flowdesk/internal/recurrence"
)

// Validation errors.
var (
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrEmptyOwner        = errors.New("owner cannot be empty")
	ErrInvalidStatus     = errors.New("status must be 'todo', 'in_progress' or 'done'")
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrInvalidAutomation = errors.New("automation rule requires a frequency and a description")
)

// Domain errors.
var (
	ErrTaskNotFound = errors.New("task not found")
)

// Status represents the state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Valid returns true if the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// ParseStatus parses a status string. Empty input means todo.
func ParseStatus(s string) (Status, error) {
	if strings.TrimSpace(s) == "" {
		return StatusTodo, nil
	}
	status := Status(strings.TrimSpace(s))
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// AutomationRule describes a recurring action attached to a task.
type AutomationRule struct {
	Frequency    string `json:"frequency"`
	Description  string `json:"description"`
	EmailSubject string `json:"email_subject,omitempty"`
	EmailBody    string `json:"email_body,omitempty"`
}

// Validate checks the required fields of the rule.
func (r *AutomationRule) Validate() error {
	if r == nil || strings.TrimSpace(r.Frequency) == "" || strings.TrimSpace(r.Description) == "" {
		return ErrInvalidAutomation
	}
	return nil
}

// SendsEmail returns true if the rule carries both an email subject and body.
func (r *AutomationRule) SendsEmail() bool {
	return r != nil && r.EmailSubject != "" && r.EmailBody != ""
}

// Task represents a to-do item owned by a single user.
type Task struct {
	ID                 string
	Owner              string
	Title              string
	Description        string
	Status             Status
	DueAt              *time.Time
	ReminderTime       string // "HH:MM" time of day, empty when no reminder
	RecurrenceDuration string // "HH:MM" interval between repeated reminders
	LastReminderSentAt string // RFC 3339 as persisted, empty when never sent
	Automation         *AutomationRule
	NextRunAt          *time.Time
	CreatedAt          time.Time
}

// Options holds the optional fields accepted by New.
type Options struct {
	Description        string
	Status             Status
	DueAt              *time.Time
	ReminderTime       string
	RecurrenceDuration string
}

// New creates a new Task with validation.
// ReminderTime and RecurrenceDuration, when set, must be in HH:MM format.
func New(owner, title string, opts Options) (*Task, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, ErrEmptyOwner
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	status := opts.Status
	if status == "" {
		status = StatusTodo
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	reminder := strings.TrimSpace(opts.ReminderTime)
	if reminder != "" {
		if _, err := recurrence.ParseClock(reminder); err != nil {
			return nil, fmt.Errorf("reminder time: %w", ErrInvalidTimeFormat)
		}
	}

	repeat := strings.TrimSpace(opts.RecurrenceDuration)
	if repeat != "" {
		if _, err := recurrence.ParseDuration(repeat); err != nil {
			return nil, fmt.Errorf("recurrence duration: %w", ErrInvalidTimeFormat)
		}
	}

	return &Task{
		ID:                 uuid.NewString(),
		Owner:              owner,
		Title:              title,
		Description:        strings.TrimSpace(opts.Description),
		Status:             status,
		DueAt:              opts.DueAt,
		ReminderTime:       reminder,
		RecurrenceDuration: repeat,
		CreatedAt:          time.Now(),
	}, nil
}

// NewAutomation creates a todo task driven by an automation rule.
// The task title is the rule's description.
func NewAutomation(owner string, rule AutomationRule, nextRun time.Time) (*Task, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	t, err := New(owner, rule.Description, Options{})
	if err != nil {
		return nil, err
	}
	t.Automation = &rule
	t.NextRunAt = &nextRun
	return t, nil
}

// IsDone returns true if the task has done status.
func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

// HasReminder returns true if the task carries a reminder time.
func (t *Task) HasReminder() bool {
	return t.ReminderTime != ""
}

// LastReminderSent parses LastReminderSentAt.
// ok is false when no reminder was ever sent.
func (t *Task) LastReminderSent() (sent time.Time, ok bool, err error) {
	if strings.TrimSpace(t.LastReminderSentAt) == "" {
		return time.Time{}, false, nil
	}
	sent, err = ParseTimestamp(t.LastReminderSentAt)
	if err != nil {
		return time.Time{}, false, err
	}
	return sent, true, nil
}
