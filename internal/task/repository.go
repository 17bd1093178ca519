package task

import (
	"context"
	"time"
)

// Repository defines the storage interface for tasks.
// Every owner-scoped method only ever reads or mutates the owner's rows.
type Repository interface {
	// CreateTask adds a new task to the repository.
	CreateTask(ctx context.Context, task *Task) error

	// GetTask retrieves a task by ID. Returns ErrTaskNotFound if missing.
	GetTask(ctx context.Context, owner, id string) (*Task, error)

	// ListTasks returns the owner's tasks, newest first.
	// An empty status lists every status.
	ListTasks(ctx context.Context, owner string, status Status) ([]*Task, error)

	// ListReminderCandidates returns the owner's tasks that carry a reminder
	// time and are not done, ordered by reminder time.
	ListReminderCandidates(ctx context.Context, owner string) ([]*Task, error)

	// UpdateStatus sets the status of a task.
	UpdateStatus(ctx context.Context, owner, id string, status Status) error

	// RecordReminderResponse sets the status and the time the reminder was answered.
	RecordReminderResponse(ctx context.Context, owner, id string, status Status, sentAt time.Time) error

	// DeleteTask removes a task. Planner slots referencing it are left untouched.
	DeleteTask(ctx context.Context, owner, id string) error

	// ListDueAutomations returns tasks of every owner that carry an automation,
	// are not done, and whose next run is at or before now.
	ListDueAutomations(ctx context.Context, now time.Time) ([]*Task, error)

	// SetNextRun stores the next scheduled run of an automation.
	SetNextRun(ctx context.Context, id string, next time.Time) error

	// Close releases any resources held by the repository.
	Close() error
}
