package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javiermolinar/flowdesk/internal/dateutil"
	"github.com/javiermolinar/flowdesk/internal/task"
)

func TestResolveQueryKeys_Week(t *testing.T) {
	wednesday := time.Date(2025, 1, 15, 13, 45, 0, 0, time.UTC)
	r := dateutil.VisibleRange(wednesday, dateutil.ScaleWeek)

	keys, queryScale := ResolveQueryKeys(dateutil.ScaleWeek, r)

	assert.Equal(t, dateutil.ScaleHour, queryScale)
	require.Len(t, keys, 7*24)
	assert.Equal(t, "2025-01-12T00:00:00", keys[0])
	assert.Equal(t, "2025-01-18T23:00:00", keys[len(keys)-1])
	assert.IsIncreasing(t, keys)
}

func TestResolveQueryKeys_DayAndHour(t *testing.T) {
	anchor := time.Date(2025, 3, 1, 10, 20, 0, 0, time.UTC)

	keys, queryScale := ResolveQueryKeys(dateutil.ScaleDay, dateutil.VisibleRange(anchor, dateutil.ScaleDay))
	assert.Equal(t, dateutil.ScaleHour, queryScale)
	require.Len(t, keys, 24)
	assert.Equal(t, "2025-03-01T00:00:00", keys[0])
	assert.Equal(t, "2025-03-01T23:00:00", keys[23])

	keys, queryScale = ResolveQueryKeys(dateutil.ScaleHour, dateutil.VisibleRange(anchor, dateutil.ScaleHour))
	assert.Equal(t, dateutil.ScaleHour, queryScale)
	assert.Equal(t, []string{"2025-03-01T10:00:00"}, keys)
}

func TestResolveQueryKeys_MonthAndYear(t *testing.T) {
	anchor := time.Date(2025, 2, 12, 0, 0, 0, 0, time.UTC)

	keys, queryScale := ResolveQueryKeys(dateutil.ScaleMonth, dateutil.VisibleRange(anchor, dateutil.ScaleMonth))
	assert.Equal(t, dateutil.ScaleDay, queryScale)
	// Jan 26 to Mar 1: five full weeks.
	require.Len(t, keys, 35)
	assert.Equal(t, "2025-01-26T00:00:00", keys[0])
	assert.Equal(t, "2025-03-01T00:00:00", keys[34])

	keys, queryScale = ResolveQueryKeys(dateutil.ScaleYear, dateutil.VisibleRange(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), dateutil.ScaleYear))
	assert.Equal(t, dateutil.ScaleDay, queryScale)
	assert.Len(t, keys, 366)
}

func TestResolveQueryKeys_DSTDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}

	for _, day := range []time.Time{
		time.Date(2025, 3, 9, 12, 0, 0, 0, loc),  // spring forward
		time.Date(2025, 11, 2, 12, 0, 0, 0, loc), // fall back
	} {
		keys, _ := ResolveQueryKeys(dateutil.ScaleDay, dateutil.VisibleRange(day, dateutil.ScaleDay))
		assert.Len(t, keys, 24, day.Format("2006-01-02"))
		assert.IsIncreasing(t, keys)
	}
}

func TestReconcile(t *testing.T) {
	anchor := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	slots := []Slot{
		{ID: "s1", PeriodKey: "2025-01-15T09:00:00", Scale: dateutil.ScaleHour, TaskTitle: "Standup", TaskID: "t1"},
		{ID: "s2", PeriodKey: "2025-01-15T14:00:00", Scale: dateutil.ScaleHour, TaskTitle: "Deep work"},
		{ID: "wrong-scale", PeriodKey: "2025-01-15T11:00:00", Scale: dateutil.ScaleDay, TaskTitle: "x"},
		{ID: "outside", PeriodKey: "2025-01-16T09:00:00", Scale: dateutil.ScaleHour, TaskTitle: "x"},
	}
	tasks := []*task.Task{
		{ID: "t1", Status: task.StatusTodo, Title: "Standup"},
		{ID: "t2", Status: task.StatusTodo, Title: "Write report"},
		{ID: "t3", Status: task.StatusDone, Title: "Old"},
	}

	w := Reconcile(dateutil.ScaleDay, anchor, slots, tasks, now)

	require.Len(t, w.Cells, 24)
	assert.Equal(t, dateutil.ScaleHour, w.QueryScale)

	filled := map[string]string{}
	for _, c := range w.Cells {
		if c.Slot != nil {
			filled[c.Key] = c.Slot.ID
		}
	}
	assert.Equal(t, map[string]string{
		"2025-01-15T09:00:00": "s1",
		"2025-01-15T14:00:00": "s2",
	}, filled)

	assert.True(t, w.Cells[9].Past)
	assert.False(t, w.Cells[10].Past, "current hour is not past")
	assert.False(t, w.Cells[14].Past)
	assert.Equal(t, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC), w.Cells[9].Start)

	require.Len(t, w.Unallocated, 1)
	assert.Equal(t, "t2", w.Unallocated[0].ID)
}

func TestReconcile_Month(t *testing.T) {
	anchor := time.Date(2025, 2, 12, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 2, 12, 18, 0, 0, 0, time.UTC)
	slots := []Slot{
		{ID: "d1", PeriodKey: "2025-02-14T00:00:00", Scale: dateutil.ScaleDay, TaskTitle: "Valentine's"},
		{ID: "h1", PeriodKey: "2025-02-14T00:00:00", Scale: dateutil.ScaleHour, TaskTitle: "hourly"},
	}

	w := Reconcile(dateutil.ScaleMonth, anchor, slots, nil, now)

	require.Len(t, w.Cells, 35)
	var found *Cell
	for i := range w.Cells {
		if w.Cells[i].Slot != nil {
			require.Nil(t, found, "only the day slot should be attached")
			found = &w.Cells[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "d1", found.Slot.ID)

	for _, c := range w.Cells {
		switch c.Key {
		case "2025-02-11T00:00:00":
			assert.True(t, c.Past)
		case "2025-02-12T00:00:00":
			assert.False(t, c.Past, "today is not past")
		}
	}
}

func TestLiveWindow(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	slots := []Slot{
		{ID: "next", PeriodKey: "2025-01-15T12:00:00", Scale: dateutil.ScaleHour, IsDone: true},
		{ID: "carry", PeriodKey: "2025-01-14T16:00:00", Scale: dateutil.ScaleHour},
		{ID: "current", PeriodKey: "2025-01-15T10:00:00", Scale: dateutil.ScaleHour},
		{ID: "past-done", PeriodKey: "2025-01-15T08:00:00", Scale: dateutil.ScaleHour, IsDone: true},
		{ID: "day-scale", PeriodKey: "2025-01-13T00:00:00", Scale: dateutil.ScaleDay},
	}

	cells := LiveWindow(now, slots, 8, 12)

	var keys []string
	for _, c := range cells {
		keys = append(keys, c.Key)
	}
	assert.Equal(t, []string{
		"2025-01-14T16:00:00",
		"2025-01-15T10:00:00",
		"2025-01-15T11:00:00",
		"2025-01-15T12:00:00",
		"2025-01-15T13:00:00",
		"2025-01-15T14:00:00",
		"2025-01-15T15:00:00",
		"2025-01-15T16:00:00",
		"2025-01-15T17:00:00",
		"2025-01-15T18:00:00",
	}, keys)

	assert.True(t, cells[0].Past)
	assert.Equal(t, "carry", cells[0].Slot.ID)
	assert.False(t, cells[1].Past)
	assert.Equal(t, "next", cells[3].Slot.ID)
	assert.Nil(t, cells[2].Slot)
}

func TestLiveWindow_OnTheHourStartsNow(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	cells := LiveWindow(now, nil, 8, 12)

	require.Len(t, cells, 8)
	assert.Equal(t, "2025-01-15T10:00:00", cells[0].Key)
	assert.Equal(t, "2025-01-15T17:00:00", cells[7].Key)
}

func TestLiveWindow_CapsAndCrossesMidnight(t *testing.T) {
	now := time.Date(2025, 1, 15, 22, 5, 0, 0, time.UTC)
	var slots []Slot
	for h := 0; h < 6; h++ {
		slots = append(slots, Slot{
			ID:        "old",
			PeriodKey: dateutil.HourKey(time.Date(2025, 1, 14, h, 0, 0, 0, time.UTC)),
			Scale:     dateutil.ScaleHour,
		})
	}

	cells := LiveWindow(now, slots, 8, 12)

	require.Len(t, cells, 12)
	assert.Equal(t, "2025-01-14T00:00:00", cells[0].Key)
	// Six carried slots leave room for the first six upcoming hours.
	assert.Equal(t, "2025-01-15T23:00:00", cells[6].Key)
	assert.Equal(t, "2025-01-16T04:00:00", cells[11].Key)
}

func TestUnallocated(t *testing.T) {
	tasks := []*task.Task{
		{ID: "a", Status: task.StatusTodo},
		{ID: "b", Status: task.StatusTodo},
		{ID: "c", Status: task.StatusInProgress},
		{ID: "d", Status: task.StatusTodo},
	}
	slots := []Slot{{TaskID: "b"}, {TaskTitle: "free text"}}

	got := Unallocated(tasks, slots)

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "d", got[1].ID)
}

func TestCompletion(t *testing.T) {
	tests := []struct {
		total, completed, want int
	}{
		{0, 0, 0},
		{3, 1, 33},
		{3, 2, 67},
		{8, 1, 13},
		{200, 1, 1},
		{4, 4, 100},
	}
	for _, tt := range tests {
		got := Completion(tt.total, tt.completed)
		assert.Equal(t, tt.want, got.Percentage, "%d/%d", tt.completed, tt.total)
		assert.Equal(t, tt.total, got.Total)
		assert.Equal(t, tt.completed, got.Completed)
	}
}
