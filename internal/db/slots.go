package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/javiermolinar/flowdesk/internal/dateutil"
	"github.com/javiermolinar/flowdesk/internal/planner"
	"github.com/javiermolinar/flowdesk/internal/task"
)

var slotColumns = []string{"id", "owner", "period_key", "time_scale", "task_title", "task_id", "is_done", "created_at"}

type slotRow struct {
	ID        string         `db:"id"`
	Owner     string         `db:"owner"`
	PeriodKey string         `db:"period_key"`
	Scale     string         `db:"time_scale"`
	TaskTitle string         `db:"task_title"`
	TaskID    sql.NullString `db:"task_id"`
	IsDone    bool           `db:"is_done"`
	CreatedAt string         `db:"created_at"`
}

func (r slotRow) toSlot() planner.Slot {
	s := planner.Slot{
		ID:        r.ID,
		Owner:     r.Owner,
		PeriodKey: r.PeriodKey,
		Scale:     dateutil.Scale(r.Scale),
		TaskTitle: r.TaskTitle,
		TaskID:    r.TaskID.String,
		IsDone:    r.IsDone,
	}
	if created, err := task.ParseTimestamp(r.CreatedAt); err == nil {
		s.CreatedAt = created.Local()
	}
	return s
}

// ListSlots returns the owner's slots of scale with keys in [fromKey, toKey].
func (s *Store) ListSlots(ctx context.Context, owner string, scale dateutil.Scale, fromKey, toKey string) ([]planner.Slot, error) {
	return s.selectSlots(ctx, s.sb.Select(slotColumns...).
		From("planner_slots").
		Where(squirrel.Eq{"owner": owner, "time_scale": string(scale)}).
		Where(squirrel.GtOrEq{"period_key": fromKey}).
		Where(squirrel.LtOrEq{"period_key": toKey}).
		OrderBy("period_key"))
}

// ListHourSlots returns hourly slots keyed in keys plus the incomplete ones
// at or before upTo.
func (s *Store) ListHourSlots(ctx context.Context, owner string, keys []string, upTo string) ([]planner.Slot, error) {
	carried := squirrel.And{
		squirrel.Eq{"is_done": false},
		squirrel.LtOrEq{"period_key": upTo},
	}
	match := squirrel.Or{carried}
	if len(keys) > 0 {
		match = squirrel.Or{squirrel.Eq{"period_key": keys}, carried}
	}
	return s.selectSlots(ctx, s.sb.Select(slotColumns...).
		From("planner_slots").
		Where(squirrel.Eq{"owner": owner, "time_scale": string(dateutil.ScaleHour)}).
		Where(match).
		OrderBy("period_key"))
}

// UpsertSlot inserts the slot or reassigns the existing one for the same
// owner, key and scale. The stored ID and creation time are written back.
func (s *Store) UpsertSlot(ctx context.Context, slot *planner.Slot) error {
	query, args, err := s.sb.Insert("planner_slots").
		Columns(slotColumns...).
		Values(
			slot.ID,
			slot.Owner,
			slot.PeriodKey,
			string(slot.Scale),
			slot.TaskTitle,
			nullString(slot.TaskID),
			false,
			task.FormatTimestamp(slot.CreatedAt),
		).
		Suffix(`ON CONFLICT (owner, period_key, time_scale) DO UPDATE SET
			task_title = excluded.task_title,
			task_id = excluded.task_id,
			is_done = FALSE
			RETURNING id, created_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("building upsert: %w", err)
	}

	var stored struct {
		ID        string `db:"id"`
		CreatedAt string `db:"created_at"`
	}
	if err := s.db.QueryRowxContext(ctx, query, args...).StructScan(&stored); err != nil {
		return fmt.Errorf("upserting slot: %w", err)
	}

	slot.ID = stored.ID
	slot.IsDone = false
	if created, err := task.ParseTimestamp(stored.CreatedAt); err == nil {
		slot.CreatedAt = created.Local()
	}
	return nil
}

// ToggleSlot flips the done flag and returns the new value.
func (s *Store) ToggleSlot(ctx context.Context, owner, id string) (bool, error) {
	query, args, err := s.sb.Update("planner_slots").
		Set("is_done", squirrel.Expr("NOT is_done")).
		Where(squirrel.Eq{"id": id, "owner": owner}).
		Suffix("RETURNING is_done").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("building update: %w", err)
	}

	var done bool
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&done); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, planner.ErrSlotNotFound
		}
		return false, fmt.Errorf("toggling slot: %w", err)
	}
	return done, nil
}

// DeleteSlot removes one of the owner's slots.
func (s *Store) DeleteSlot(ctx context.Context, owner, id string) error {
	query, args, err := s.sb.Delete("planner_slots").
		Where(squirrel.Eq{"id": id, "owner": owner}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}
	return s.execOne(ctx, query, args, planner.ErrSlotNotFound)
}

// CountSlots counts the owner's hour and day slots keyed at or after sinceKey.
func (s *Store) CountSlots(ctx context.Context, owner, sinceKey string) (int, int, error) {
	query, args, err := s.sb.Select(
		"COUNT(*) AS total",
		"COALESCE(SUM(CASE WHEN is_done THEN 1 ELSE 0 END), 0) AS completed",
	).
		From("planner_slots").
		Where(squirrel.Eq{
			"owner":      owner,
			"time_scale": []string{string(dateutil.ScaleHour), string(dateutil.ScaleDay)},
		}).
		Where(squirrel.GtOrEq{"period_key": sinceKey}).
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("building query: %w", err)
	}

	var counts struct {
		Total     int `db:"total"`
		Completed int `db:"completed"`
	}
	if err := s.db.GetContext(ctx, &counts, query, args...); err != nil {
		return 0, 0, fmt.Errorf("counting slots: %w", err)
	}
	return counts.Total, counts.Completed, nil
}

func (s *Store) selectSlots(ctx context.Context, b squirrel.SelectBuilder) ([]planner.Slot, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	var rows []slotRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("querying slots: %w", err)
	}

	slots := make([]planner.Slot, len(rows))
	for i, r := range rows {
		slots[i] = r.toSlot()
	}
	return slots, nil
}
