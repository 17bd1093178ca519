package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/javiermolinar/flowdesk/internal/task"
)

var taskColumns = []string{
	"id", "owner", "title", "description", "status", "due_at", "reminder_time",
	"recurrence_duration", "last_reminder_sent_at", "automation", "next_run_at", "created_at",
}

// taskRow is the stored form of a task.
type taskRow struct {
	ID                 string         `db:"id"`
	Owner              string         `db:"owner"`
	Title              string         `db:"title"`
	Description        sql.NullString `db:"description"`
	Status             string         `db:"status"`
	DueAt              sql.NullString `db:"due_at"`
	ReminderTime       sql.NullString `db:"reminder_time"`
	RecurrenceDuration sql.NullString `db:"recurrence_duration"`
	LastReminderSentAt sql.NullString `db:"last_reminder_sent_at"`
	Automation         sql.NullString `db:"automation"`
	NextRunAt          sql.NullString `db:"next_run_at"`
	CreatedAt          string         `db:"created_at"`
}

// toTask converts a row. Malformed optional values come back empty rather
// than failing the whole read; an undecodable automation becomes nil.
func (r taskRow) toTask() *task.Task {
	t := &task.Task{
		ID:                 r.ID,
		Owner:              r.Owner,
		Title:              r.Title,
		Description:        r.Description.String,
		Status:             task.Status(r.Status),
		DueAt:              parseOptionalTime(r.DueAt),
		ReminderTime:       r.ReminderTime.String,
		RecurrenceDuration: r.RecurrenceDuration.String,
		LastReminderSentAt: r.LastReminderSentAt.String,
		NextRunAt:          parseOptionalTime(r.NextRunAt),
	}
	if created, err := task.ParseTimestamp(r.CreatedAt); err == nil {
		t.CreatedAt = created.Local()
	}
	if r.Automation.Valid && r.Automation.String != "" {
		var rule task.AutomationRule
		if err := json.Unmarshal([]byte(r.Automation.String), &rule); err == nil && rule.Validate() == nil {
			t.Automation = &rule
		}
	}
	return t
}

// CreateTask adds a new task to the repository.
func (s *Store) CreateTask(ctx context.Context, t *task.Task) error {
	automation, err := encodeAutomation(t.Automation)
	if err != nil {
		return err
	}

	query, args, err := s.sb.Insert("tasks").
		Columns(taskColumns...).
		Values(
			t.ID,
			t.Owner,
			t.Title,
			nullString(t.Description),
			string(t.Status),
			formatOptionalTime(t.DueAt),
			nullString(t.ReminderTime),
			nullString(t.RecurrenceDuration),
			nullString(t.LastReminderSentAt),
			automation,
			formatOptionalTime(t.NextRunAt),
			task.FormatTimestamp(t.CreatedAt),
		).ToSql()
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by ID.
func (s *Store) GetTask(ctx context.Context, owner, id string) (*task.Task, error) {
	query, args, err := s.sb.Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"id": id, "owner": owner}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	var row taskRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, task.ErrTaskNotFound
		}
		return nil, fmt.Errorf("querying task: %w", err)
	}
	return row.toTask(), nil
}

// ListTasks returns the owner's tasks, newest first.
func (s *Store) ListTasks(ctx context.Context, owner string, status task.Status) ([]*task.Task, error) {
	where := squirrel.Eq{"owner": owner}
	if status != "" {
		where["status"] = string(status)
	}
	return s.selectTasks(ctx, s.sb.Select(taskColumns...).
		From("tasks").
		Where(where).
		OrderBy("created_at DESC", "id"))
}

// ListReminderCandidates returns the owner's not-done tasks that have a
// reminder time, ordered by it.
func (s *Store) ListReminderCandidates(ctx context.Context, owner string) ([]*task.Task, error) {
	return s.selectTasks(ctx, s.sb.Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"owner": owner}).
		Where(squirrel.NotEq{"reminder_time": nil}).
		Where(squirrel.NotEq{"reminder_time": ""}).
		Where(squirrel.NotEq{"status": string(task.StatusDone)}).
		OrderBy("reminder_time", "created_at"))
}

// ListDueAutomations returns the automations of every owner due at now.
func (s *Store) ListDueAutomations(ctx context.Context, now time.Time) ([]*task.Task, error) {
	return s.selectTasks(ctx, s.sb.Select(taskColumns...).
		From("tasks").
		Where(squirrel.NotEq{"automation": nil}).
		Where(squirrel.NotEq{"next_run_at": nil}).
		Where(squirrel.LtOrEq{"next_run_at": task.FormatTimestamp(now)}).
		Where(squirrel.NotEq{"status": string(task.StatusDone)}).
		OrderBy("next_run_at", "id"))
}

// UpdateStatus sets the status of a task.
func (s *Store) UpdateStatus(ctx context.Context, owner, id string, status task.Status) error {
	if !status.Valid() {
		return task.ErrInvalidStatus
	}
	return s.updateTask(ctx, owner, id, map[string]any{"status": string(status)})
}

// RecordReminderResponse sets the status and when the reminder was answered.
func (s *Store) RecordReminderResponse(ctx context.Context, owner, id string, status task.Status, sentAt time.Time) error {
	if !status.Valid() {
		return task.ErrInvalidStatus
	}
	return s.updateTask(ctx, owner, id, map[string]any{
		"status":                string(status),
		"last_reminder_sent_at": task.FormatTimestamp(sentAt),
	})
}

// SetNextRun stores the next scheduled run of an automation.
func (s *Store) SetNextRun(ctx context.Context, id string, next time.Time) error {
	query, args, err := s.sb.Update("tasks").
		Set("next_run_at", task.FormatTimestamp(next)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building update: %w", err)
	}
	return s.execOne(ctx, query, args, task.ErrTaskNotFound)
}

// DeleteTask removes a task. Planner slots pointing at it are kept.
func (s *Store) DeleteTask(ctx context.Context, owner, id string) error {
	query, args, err := s.sb.Delete("tasks").
		Where(squirrel.Eq{"id": id, "owner": owner}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}
	return s.execOne(ctx, query, args, task.ErrTaskNotFound)
}

func (s *Store) updateTask(ctx context.Context, owner, id string, values map[string]any) error {
	query, args, err := s.sb.Update("tasks").
		SetMap(values).
		Where(squirrel.Eq{"id": id, "owner": owner}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building update: %w", err)
	}
	return s.execOne(ctx, query, args, task.ErrTaskNotFound)
}

func (s *Store) selectTasks(ctx context.Context, b squirrel.SelectBuilder) ([]*task.Task, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}

	tasks := make([]*task.Task, len(rows))
	for i, r := range rows {
		tasks[i] = r.toTask()
	}
	return tasks, nil
}

// execOne runs a statement that must affect exactly one row.
func (s *Store) execOne(ctx context.Context, query string, args []any, notFound error) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("executing %q: %w", firstWord(query), err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

func encodeAutomation(rule *task.AutomationRule) (sql.NullString, error) {
	if rule == nil {
		return sql.NullString{}, nil
	}
	if err := rule.Validate(); err != nil {
		return sql.NullString{}, err
	}
	data, err := json.Marshal(rule)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encoding automation: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func formatOptionalTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: task.FormatTimestamp(*t), Valid: true}
}

// parseOptionalTime returns nil for NULL or malformed values. Times come
// back in the local zone.
func parseOptionalTime(v sql.NullString) *time.Time {
	if !v.Valid || v.String == "" {
		return nil
	}
	t, err := task.ParseTimestamp(v.String)
	if err != nil {
		return nil
	}
	t = t.Local()
	return &t
}

func firstWord(query string) string {
	for i, c := range query {
		if c == ' ' {
			return query[:i]
		}
	}
	return query
}
