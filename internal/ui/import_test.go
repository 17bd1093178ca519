package ui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/flowdesk/internal/dateutil"
	"github.com/javiermolinar/flowdesk/internal/db"
	"github.com/javiermolinar/flowdesk/internal/planner"
	"github.com/javiermolinar/flowdesk/internal/task"
)

func TestImportOwner(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	source, err := db.New(filepath.Join(dir, "source.db"))
	if err != nil {
		t.Fatalf("creating source store: %v", err)
	}
	dest, err := db.New(filepath.Join(dir, "dest.db"))
	if err != nil {
		t.Fatalf("creating dest store: %v", err)
	}
	defer func() { _ = dest.Close() }()

	created := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	report := &task.Task{ID: "t-report", Owner: "alice", Title: "Write report", Status: task.StatusInProgress, ReminderTime: "09:00", CreatedAt: created}
	shared := &task.Task{ID: "t-shared", Owner: "alice", Title: "Already here", Status: task.StatusTodo, CreatedAt: created}
	other := &task.Task{ID: "t-bob", Owner: "bob", Title: "Not alice's", Status: task.StatusTodo, CreatedAt: created}
	for _, tk := range []*task.Task{report, shared, other} {
		if err := source.CreateTask(ctx, tk); err != nil {
			t.Fatalf("CreateTask(%s): %v", tk.ID, err)
		}
	}
	if err := dest.CreateTask(ctx, shared); err != nil {
		t.Fatalf("CreateTask in dest: %v", err)
	}

	hour := &planner.Slot{ID: "s-hour", Owner: "alice", PeriodKey: "2025-02-03T10:00:00", Scale: dateutil.ScaleHour, TaskTitle: "Write report", TaskID: "t-report", CreatedAt: created}
	week := &planner.Slot{ID: "s-week", Owner: "alice", PeriodKey: "2025-W06", Scale: dateutil.ScaleWeek, TaskTitle: "Plan sprint", CreatedAt: created}
	for _, s := range []*planner.Slot{hour, week} {
		if err := source.UpsertSlot(ctx, s); err != nil {
			t.Fatalf("UpsertSlot(%s): %v", s.ID, err)
		}
	}
	if _, err := source.ToggleSlot(ctx, "alice", "s-week"); err != nil {
		t.Fatalf("ToggleSlot: %v", err)
	}
	if err := source.Close(); err != nil {
		t.Fatalf("closing source: %v", err)
	}

	res, err := importOwner(ctx, dest, filepath.Join(dir, "source.db"), "alice")
	if err != nil {
		t.Fatalf("importOwner failed: %v", err)
	}
	if res.Tasks != 1 || res.Skipped != 1 || res.Slots != 2 {
		t.Fatalf("got %+v, want 1 task, 1 skipped, 2 slots", res)
	}

	got, err := dest.GetTask(ctx, "alice", "t-report")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.Status != task.StatusInProgress || got.ReminderTime != "09:00" {
		t.Errorf("imported task = %+v", got)
	}
	if _, err := dest.GetTask(ctx, "bob", "t-bob"); err != task.ErrTaskNotFound {
		t.Errorf("other owner's task imported: %v", err)
	}

	hours, err := dest.ListSlots(ctx, "alice", dateutil.ScaleHour, "2025-02-03T00:00:00", "2025-02-03T23:00:00")
	if err != nil {
		t.Fatalf("ListSlots: %v", err)
	}
	if len(hours) != 1 || hours[0].TaskID != "t-report" || hours[0].IsDone {
		t.Errorf("hour slots = %+v", hours)
	}

	weeks, err := dest.ListSlots(ctx, "alice", dateutil.ScaleWeek, "2025-W01", "2025-W52")
	if err != nil {
		t.Fatalf("ListSlots: %v", err)
	}
	if len(weeks) != 1 || !weeks[0].IsDone {
		t.Errorf("week slots = %+v, want one done slot", weeks)
	}
}

func TestImportOwner_MissingSource(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.run("import", filepath.Join(t.TempDir(), "nope.db"))
	if err == nil {
		t.Fatal("expected error for missing source database")
	}

	if _, err := e.run("import", e.cfg.Storage.DSN); err == nil {
		t.Fatal("expected error when importing the current database")
	}
}
