package db

import (
	"context"
	"fmt"
)

// schema works unchanged on SQLite and PostgreSQL. Timestamps are stored as
// UTC RFC 3339 text with a fixed width, so they order correctly as strings.
var schema = []struct {
	name  string
	query string
}{
	{"tasks", `
		CREATE TABLE IF NOT EXISTS tasks (
			id                    TEXT PRIMARY KEY,
			owner                 TEXT NOT NULL,
			title                 TEXT NOT NULL,
			description           TEXT,
			status                TEXT NOT NULL DEFAULT 'todo' CHECK(status IN ('todo', 'in_progress', 'done')),
			due_at                TEXT,
			reminder_time         TEXT,
			recurrence_duration   TEXT,
			last_reminder_sent_at TEXT,
			automation            TEXT,
			next_run_at           TEXT,
			created_at            TEXT NOT NULL
		)`},
	{"tasks owner index", `CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks(owner, created_at)`},
	{"tasks next run index", `CREATE INDEX IF NOT EXISTS idx_tasks_next_run ON tasks(next_run_at)`},
	{"planner_slots", `
		CREATE TABLE IF NOT EXISTS planner_slots (
			id         TEXT PRIMARY KEY,
			owner      TEXT NOT NULL,
			period_key TEXT NOT NULL,
			time_scale TEXT NOT NULL CHECK(time_scale IN ('hour', 'day', 'week', 'month', 'year')),
			task_title TEXT NOT NULL,
			task_id    TEXT,
			is_done    BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TEXT NOT NULL,
			UNIQUE(owner, period_key, time_scale)
		)`},
	{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id    TEXT PRIMARY KEY,
			email TEXT NOT NULL
		)`},
}

// migrate creates the tables and indexes that do not exist yet.
func (s *Store) migrate(ctx context.Context) error {
	for _, step := range schema {
		if _, err := s.db.ExecContext(ctx, step.query); err != nil {
			return fmt.Errorf("creating %s: %w", step.name, err)
		}
	}
	return nil
}
