// Package planner maps calendar windows onto period keys and merges
// persisted slot assignments into them.
package planner

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/javiermolinar/flowdesk/internal/dateutil"
	"github.com/javiermolinar/flowdesk/internal/task"
)

// Planner errors.
var (
	ErrSlotNotFound = errors.New("planner slot not found")
	ErrEmptySlot    = errors.New("slot needs a task title or a task id")
)

// Slot is a task assigned to one period.
type Slot struct {
	ID        string
	Owner     string
	PeriodKey string
	Scale     dateutil.Scale
	TaskTitle string
	TaskID    string // empty when the slot is free text
	IsDone    bool
	CreatedAt time.Time
}

// Cell is one entry of a rendered grid. Slot is nil for empty cells.
type Cell struct {
	Key   string
	Start time.Time
	Slot  *Slot
	Past  bool
}

// Window is a reconciled calendar view.
type Window struct {
	Scale       dateutil.Scale
	QueryScale  dateutil.Scale
	Range       dateutil.Range
	Cells       []Cell
	Unallocated []*task.Task

	// PeriodSlot is the slot assigned to the whole week, month or year of
	// the view, if any. Always nil for hour and day views.
	PeriodSlot *Slot
}

// ResolveQueryKeys returns the keys the slots of a view are stored under.
// Hour, day and week views use one key per wall-clock hour; month and year
// views use one key per calendar day (the hour key of local midnight).
// Keys are built from calendar fields, so a DST change never repeats or
// skips a key.
func ResolveQueryKeys(scale dateutil.Scale, r dateutil.Range) ([]string, dateutil.Scale) {
	queryScale := queryScaleFor(scale)
	first, last := dateutil.HourKey(r.Start), dateutil.HourKey(r.End)

	var keys []string
	for d := dateutil.TruncateToDay(r.Start); !d.After(r.End); d = nextDay(d) {
		if queryScale == dateutil.ScaleDay {
			keys = append(keys, dateutil.PeriodKey(d, dateutil.ScaleDay))
			continue
		}
		for h := 0; h < 24; h++ {
			key := fmt.Sprintf("%04d-%02d-%02dT%02d:00:00", d.Year(), int(d.Month()), d.Day(), h)
			if key >= first && key <= last {
				keys = append(keys, key)
			}
		}
	}
	return keys, queryScale
}

// Reconcile builds the grid for the view of scale containing anchor. Slots
// stored at the view's query scale whose key falls inside the grid are
// attached to their cell; anything else in slots is ignored.
func Reconcile(scale dateutil.Scale, anchor time.Time, slots []Slot, tasks []*task.Task, now time.Time) Window {
	r := dateutil.VisibleRange(anchor, scale)
	keys, queryScale := ResolveQueryKeys(scale, r)

	w := Window{
		Scale:       scale,
		QueryScale:  queryScale,
		Range:       r,
		Cells:       make([]Cell, 0, len(keys)),
		Unallocated: Unallocated(tasks, slots),
	}
	if len(keys) == 0 {
		return w
	}

	first, last := keys[0], keys[len(keys)-1]
	byKey := make(map[string]*Slot, len(slots))
	for i := range slots {
		s := &slots[i]
		if s.Scale != queryScale || s.PeriodKey < first || s.PeriodKey > last {
			continue
		}
		if _, ok := byKey[s.PeriodKey]; !ok {
			byKey[s.PeriodKey] = s
		}
	}

	current := dateutil.HourKey(now.In(anchor.Location()))
	if queryScale == dateutil.ScaleDay {
		current = dateutil.PeriodKey(now.In(anchor.Location()), dateutil.ScaleDay)
	}
	for _, key := range keys {
		start, _ := dateutil.ParseHourKey(key, anchor.Location())
		w.Cells = append(w.Cells, Cell{
			Key:   key,
			Start: start,
			Slot:  byKey[key],
			Past:  key < current,
		})
	}
	return w
}

// LiveWindow returns the rolling planner: the next hours starting at the
// next whole hour, plus every incomplete hourly slot at or before the current
// hour. Cells are sorted by time and capped to limit.
func LiveWindow(now time.Time, slots []Slot, hours, limit int) []Cell {
	start := dateutil.TruncateToHour(now)
	if !start.Equal(now) {
		start = start.Add(time.Hour)
	}

	cells := make(map[string]*Cell)
	for i := 0; i < hours; i++ {
		t := time.Date(start.Year(), start.Month(), start.Day(), start.Hour()+i, 0, 0, 0, start.Location())
		key := dateutil.HourKey(t)
		cells[key] = &Cell{Key: key, Start: t}
	}

	current := dateutil.HourKey(now)
	for i := range slots {
		s := &slots[i]
		if s.Scale != dateutil.ScaleHour {
			continue
		}
		if c, ok := cells[s.PeriodKey]; ok {
			if c.Slot == nil {
				c.Slot = s
			}
			continue
		}
		if s.IsDone || s.PeriodKey > current {
			continue
		}
		t, err := dateutil.ParseHourKey(s.PeriodKey, now.Location())
		if err != nil {
			continue
		}
		cells[s.PeriodKey] = &Cell{Key: s.PeriodKey, Start: t, Slot: s, Past: s.PeriodKey < current}
	}

	out := make([]Cell, 0, len(cells))
	for _, c := range cells {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Unallocated returns the todo tasks no slot refers to, in input order.
func Unallocated(tasks []*task.Task, slots []Slot) []*task.Task {
	allocated := make(map[string]bool, len(slots))
	for _, s := range slots {
		if s.TaskID != "" {
			allocated[s.TaskID] = true
		}
	}

	var out []*task.Task
	for _, t := range tasks {
		if t.Status == task.StatusTodo && !allocated[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// Stats summarizes slot completion.
type Stats struct {
	Total      int
	Completed  int
	Percentage int
}

// Completion computes completion stats. The percentage is rounded to the
// nearest integer and is zero when there are no slots.
func Completion(total, completed int) Stats {
	s := Stats{Total: total, Completed: completed}
	if total > 0 {
		s.Percentage = int(math.Round(float64(completed) / float64(total) * 100))
	}
	return s
}

func queryScaleFor(scale dateutil.Scale) dateutil.Scale {
	switch scale {
	case dateutil.ScaleMonth, dateutil.ScaleYear:
		return dateutil.ScaleDay
	default:
		return dateutil.ScaleHour
	}
}

func nextDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, d.Location())
}
