package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(tasks []Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

// ============================================================
// Partition
// ============================================================

func TestPartition(t *testing.T) {
	now := time.Date(2026, 5, 12, 9, 0, 0, 0, time.UTC)
	tasks := []Task{
		{ID: "yesterday", Deadline: ptr(now.Add(-24 * time.Hour))},
		{ID: "today", Deadline: ptr(now.Add(2 * time.Hour))},
		{ID: "tomorrow", Deadline: ptr(now.Add(24 * time.Hour))},
		{ID: "none"},
		{ID: "done-today", Deadline: ptr(now.Add(time.Hour)), Done: true},
		{ID: "later", Deadline: ptr(now.Add(72 * time.Hour))},
	}

	b := Partition(tasks, now)
	assert.Equal(t, []string{"yesterday"}, ids(b.Overdue))
	assert.Equal(t, []string{"today"}, ids(b.Today))
	assert.Equal(t, []string{"tomorrow"}, ids(b.Tomorrow))
}

func TestPartitionDayBoundaries(t *testing.T) {
	now := time.Date(2026, 5, 12, 23, 59, 0, 0, time.UTC)
	earlyToday := time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC)
	lateYesterday := earlyToday.Add(-time.Second)
	tasks := []Task{
		{ID: "early", Deadline: &earlyToday},
		{ID: "late", Deadline: &lateYesterday},
	}

	b := Partition(tasks, now)
	assert.Equal(t, []string{"late"}, ids(b.Overdue))
	assert.Equal(t, []string{"early"}, ids(b.Today))
	assert.Empty(t, b.Tomorrow)
}

func TestPartitionUsesNowLocation(t *testing.T) {
	zone := time.FixedZone("UTC+10", 10*60*60)
	now := time.Date(2026, 5, 12, 8, 0, 0, 0, zone)
	// 2026-05-12 21:00 UTC is already the 13th in UTC+10.
	deadline := time.Date(2026, 5, 12, 21, 0, 0, 0, time.UTC)

	b := Partition([]Task{{ID: "a", Deadline: &deadline}}, now)
	assert.Empty(t, b.Today)
	assert.Equal(t, []string{"a"}, ids(b.Tomorrow))
}

// ============================================================
// Day and month views
// ============================================================

func TestTasksForDay(t *testing.T) {
	now := time.Date(2026, 5, 12, 9, 0, 0, 0, time.UTC)
	in3 := now.AddDate(0, 0, 3)
	tasks := []Task{
		{ID: "due", Deadline: ptr(in3.Add(time.Hour))},
		{ID: "planned", ScheduledTasks: []ScheduledTask{{ID: "s1", Date: in3}}},
		{ID: "other", Deadline: &now},
	}

	assert.Equal(t, []string{"due", "planned"}, ids(TasksForDay(tasks, in3)))
	assert.Equal(t, []string{"other"}, ids(TasksForDay(tasks, now)))
}

func TestScheduledOnlyTaskNotPartitioned(t *testing.T) {
	now := time.Date(2026, 5, 12, 9, 0, 0, 0, time.UTC)
	in3 := now.AddDate(0, 0, 3)
	tasks := []Task{{ID: "planned", ScheduledTasks: []ScheduledTask{{Date: in3}}}}

	b := Partition(tasks, now)
	assert.Empty(t, b.Overdue)
	assert.Empty(t, b.Today)
	assert.Empty(t, b.Tomorrow)
	assert.Len(t, TasksForDay(tasks, in3), 1)
}

func TestMonthGrid(t *testing.T) {
	may := time.Date(2026, 5, 17, 0, 0, 0, 0, time.UTC)

	weeks := MonthGrid(may, time.Monday)
	require.Len(t, weeks, 5)
	assert.Equal(t, time.Date(2026, 4, 27, 0, 0, 0, 0, time.UTC), weeks[0][0])
	assert.Equal(t, time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC), weeks[4][6])

	weeks = MonthGrid(may, time.Sunday)
	require.Len(t, weeks, 6)
	assert.Equal(t, time.Date(2026, 4, 26, 0, 0, 0, 0, time.UTC), weeks[0][0])
	assert.Equal(t, time.Sunday, weeks[5][0].Weekday())
	for _, w := range weeks {
		assert.Len(t, w, 7)
	}
}

// ============================================================
// Aggregates
// ============================================================

func TestSubtaskProgress(t *testing.T) {
	tasks := []Task{
		{ID: "p"},
		{ID: "a", ParentTaskID: "p", Done: true},
		{ID: "b", ParentTaskID: "p"},
		{ID: "c", ParentTaskID: "p", Done: true},
		{ID: "x", ParentTaskID: "other", Done: true},
	}
	p := SubtaskProgress(tasks, "p")
	assert.Equal(t, Progress{Done: 2, Total: 3}, p)
	assert.InDelta(t, 2.0/3.0, p.Ratio(), 1e-9)
	assert.Zero(t, SubtaskProgress(tasks, "a").Ratio())
}

func TestTimeByCategory(t *testing.T) {
	tasks := []Task{
		{Category: Category{Name: "Work"}, TotalDuration: time.Hour},
		{Category: Category{Name: "Work"}, TotalDuration: 30 * time.Minute},
		{TotalDuration: 10 * time.Minute},
		{Category: Category{Name: "Idle"}},
	}
	assert.Equal(t, map[string]time.Duration{
		"Work":        90 * time.Minute,
		Uncategorized: 10 * time.Minute,
	}, TimeByCategory(tasks))
}

func TestDailyTotals(t *testing.T) {
	day1 := time.Date(2026, 5, 11, 10, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	closed := func(start time.Time, d time.Duration) Session {
		end := start.Add(d)
		return Session{StartTime: start, EndTime: &end, Duration: d}
	}
	tasks := []Task{
		{Sessions: []Session{closed(day1, time.Hour), closed(day2, 20*time.Minute)}},
		{Sessions: []Session{closed(day2.Add(time.Hour), 10*time.Minute), {StartTime: day2, Active: true}}},
		{Sessions: []Session{closed(day1.AddDate(0, 0, -5), time.Hour)}},
	}

	from := StartOfDay(day1)
	got := DailyTotals(tasks, from, from.AddDate(0, 0, 7))
	assert.Equal(t, map[string]time.Duration{
		"2026-05-11": time.Hour,
		"2026-05-12": 30 * time.Minute,
	}, got)
}

func TestSorted(t *testing.T) {
	now := time.Date(2026, 5, 12, 9, 0, 0, 0, time.UTC)
	tasks := []Task{
		{ID: "low", Priority: PriorityLow},
		{ID: "high-late", Priority: PriorityHigh, Deadline: ptr(now.Add(48 * time.Hour))},
		{ID: "high-soon", Priority: PriorityHigh, Deadline: ptr(now.Add(time.Hour))},
		{ID: "ordered", Priority: PriorityLow, Order: ptr(0)},
	}
	assert.Equal(t, []string{"ordered", "high-soon", "high-late", "low"}, ids(Sorted(tasks)))
	assert.Equal(t, "low", tasks[0].ID)
}

// ============================================================
// Reminders
// ============================================================

func TestReminders(t *testing.T) {
	now := time.Date(2026, 5, 12, 9, 0, 0, 0, time.UTC)
	tasks := []Task{
		{
			ID:                 "a",
			Title:              "Dentist",
			Deadline:           ptr(now.Add(2 * time.Hour)),
			FirstNotification:  ptr(30 * time.Minute),
			SecondNotification: ptr(3 * time.Hour),
		},
		{ID: "b", Deadline: ptr(now.Add(30 * time.Hour)), FirstNotification: ptr(time.Hour)},
		{ID: "c", Deadline: ptr(now.Add(time.Hour)), SecondNotification: ptr(15 * time.Minute)},
		{ID: "done", Deadline: ptr(now.Add(time.Hour)), FirstNotification: ptr(time.Minute), Done: true},
	}

	got := Reminders(tasks, now, 24*time.Hour)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].TaskID)
	assert.True(t, got[0].Second)
	assert.Equal(t, now.Add(45*time.Minute), got[0].At)
	assert.Equal(t, "a", got[1].TaskID)
	assert.Equal(t, "Dentist", got[1].Title)
	assert.Equal(t, now.Add(90*time.Minute), got[1].At)
}
