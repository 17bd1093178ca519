package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/javiermolinar/flowdesk/internal/clock"
	"github.com/javiermolinar/flowdesk/internal/dateutil"
	"github.com/javiermolinar/flowdesk/internal/task"
)

// Store persists planner slots. All methods are scoped to one owner.
type Store interface {
	// ListSlots returns slots of scale whose key lies in [fromKey, toKey].
	ListSlots(ctx context.Context, owner string, scale dateutil.Scale, fromKey, toKey string) ([]Slot, error)

	// ListHourSlots returns hourly slots whose key is in keys, plus every
	// incomplete hourly slot with a key at or before upTo.
	ListHourSlots(ctx context.Context, owner string, keys []string, upTo string) ([]Slot, error)

	// UpsertSlot inserts the slot, or, when the owner already has a slot for
	// the same key and scale, replaces its task and marks it not done.
	// ID and CreatedAt are set from the stored row.
	UpsertSlot(ctx context.Context, slot *Slot) error

	// ToggleSlot flips is_done and returns the new value.
	ToggleSlot(ctx context.Context, owner, id string) (bool, error)

	// DeleteSlot removes a slot. Returns ErrSlotNotFound if missing.
	DeleteSlot(ctx context.Context, owner, id string) error

	// CountSlots counts hour and day slots with a key at or after sinceKey.
	CountSlots(ctx context.Context, owner, sinceKey string) (total, completed int, err error)
}

// Options tunes the live planner and stats.
type Options struct {
	LiveHours    int
	DisplayLimit int
	StatsDays    int
}

// DefaultOptions returns the live planner defaults: the next 8 hours, 12
// cells at most, and stats over the last 30 days.
func DefaultOptions() Options {
	return Options{LiveHours: 8, DisplayLimit: 12, StatsDays: 30}
}

// Service reads and writes the owner's planner.
type Service struct {
	store Store
	tasks task.Repository
	clock clock.Clock
	opts  Options
	log   zerolog.Logger
}

// NewService creates a planner service.
func NewService(store Store, tasks task.Repository, clk clock.Clock, opts Options, log zerolog.Logger) *Service {
	return &Service{store: store, tasks: tasks, clock: clk, opts: opts, log: log}
}

// View returns the reconciled grid of the view of scale containing anchor.
// Week, month and year views also carry the slot assigned to the anchor's
// whole week, month or year.
func (s *Service) View(ctx context.Context, owner string, scale dateutil.Scale, anchor time.Time) (Window, error) {
	r := dateutil.VisibleRange(anchor, scale)
	keys, queryScale := ResolveQueryKeys(scale, r)
	if len(keys) == 0 {
		return Window{Scale: scale, QueryScale: queryScale, Range: r}, nil
	}

	slots, err := s.store.ListSlots(ctx, owner, queryScale, keys[0], keys[len(keys)-1])
	if err != nil {
		return Window{}, fmt.Errorf("listing slots: %w", err)
	}
	todo, err := s.tasks.ListTasks(ctx, owner, task.StatusTodo)
	if err != nil {
		return Window{}, fmt.Errorf("listing tasks: %w", err)
	}

	w := Reconcile(scale, anchor, slots, todo, s.clock.Now())
	switch scale {
	case dateutil.ScaleWeek, dateutil.ScaleMonth, dateutil.ScaleYear:
		key := dateutil.PeriodKey(anchor, scale)
		period, err := s.store.ListSlots(ctx, owner, scale, key, key)
		if err != nil {
			return Window{}, fmt.Errorf("listing %s slot: %w", scale, err)
		}
		if len(period) > 0 {
			w.PeriodSlot = &period[0]
			w.Unallocated = Unallocated(todo, append(slots, period[0]))
		}
	}
	return w, nil
}

// LiveView is the rolling planner with its completion stats.
type LiveView struct {
	Cells       []Cell
	Unallocated []*task.Task
	Stats       Stats
}

// Live returns the rolling planner for the owner.
func (s *Service) Live(ctx context.Context, owner string) (LiveView, error) {
	now := s.clock.Now()

	var keys []string
	for _, c := range LiveWindow(now, nil, s.opts.LiveHours, 0) {
		keys = append(keys, c.Key)
	}

	slots, err := s.store.ListHourSlots(ctx, owner, keys, dateutil.HourKey(now))
	if err != nil {
		return LiveView{}, fmt.Errorf("listing slots: %w", err)
	}
	todo, err := s.tasks.ListTasks(ctx, owner, task.StatusTodo)
	if err != nil {
		return LiveView{}, fmt.Errorf("listing tasks: %w", err)
	}
	stats, err := s.Stats(ctx, owner)
	if err != nil {
		return LiveView{}, err
	}

	return LiveView{
		Cells:       LiveWindow(now, slots, s.opts.LiveHours, s.opts.DisplayLimit),
		Unallocated: Unallocated(todo, slots),
		Stats:       stats,
	}, nil
}

// Assign puts a task in the slot of scale containing at. When taskID is set
// and title is empty, the task's own title is used.
func (s *Service) Assign(ctx context.Context, owner string, scale dateutil.Scale, at time.Time, title, taskID string) (*Slot, error) {
	if !scale.Valid() {
		return nil, dateutil.ErrInvalidScale
	}
	title = strings.TrimSpace(title)
	if title == "" && taskID == "" {
		return nil, ErrEmptySlot
	}
	if taskID != "" && title == "" {
		t, err := s.tasks.GetTask(ctx, owner, taskID)
		if err != nil {
			return nil, fmt.Errorf("looking up task: %w", err)
		}
		title = t.Title
	}

	slot := &Slot{
		ID:        uuid.NewString(),
		Owner:     owner,
		PeriodKey: dateutil.PeriodKey(at, scale),
		Scale:     scale,
		TaskTitle: title,
		TaskID:    taskID,
		CreatedAt: s.clock.Now(),
	}
	if err := s.store.UpsertSlot(ctx, slot); err != nil {
		return nil, fmt.Errorf("assigning slot: %w", err)
	}
	s.log.Debug().Str("slot", slot.ID).Str("key", slot.PeriodKey).Str("scale", string(scale)).Msg("slot assigned")
	return slot, nil
}

// Toggle flips the done flag of a slot and returns the new value.
func (s *Service) Toggle(ctx context.Context, owner, id string) (bool, error) {
	done, err := s.store.ToggleSlot(ctx, owner, id)
	if err != nil {
		return false, fmt.Errorf("toggling slot: %w", err)
	}
	return done, nil
}

// Remove deletes a slot. The referenced task is left untouched.
func (s *Service) Remove(ctx context.Context, owner, id string) error {
	if err := s.store.DeleteSlot(ctx, owner, id); err != nil {
		return fmt.Errorf("removing slot: %w", err)
	}
	return nil
}

// Stats returns slot completion over the configured number of days.
func (s *Service) Stats(ctx context.Context, owner string) (Stats, error) {
	since := s.clock.Now().AddDate(0, 0, -s.opts.StatsDays)
	total, completed, err := s.store.CountSlots(ctx, owner, dateutil.HourKey(since))
	if err != nil {
		return Stats{}, fmt.Errorf("counting slots: %w", err)
	}
	return Completion(total, completed), nil
}
