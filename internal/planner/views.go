package planner

import (
	"cmp"
	"slices"
	"time"
)

// Buckets partitions not-done tasks with a deadline by calendar day.
type Buckets struct {
	Overdue  []Task
	Today    []Task
	Tomorrow []Task
}

// StartOfDay returns midnight of t's calendar date in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether t falls on day's calendar date, in day's location.
func SameDay(t, day time.Time) bool {
	y1, m1, d1 := t.In(day.Location()).Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Partition splits tasks into overdue, today and tomorrow relative to now.
// Calendar days are taken in now's location. Done tasks and tasks without a
// deadline land in no bucket.
func Partition(tasks []Task, now time.Time) Buckets {
	today := StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	dayAfter := today.AddDate(0, 0, 2)

	var b Buckets
	for _, t := range tasks {
		if t.Done || t.Deadline == nil {
			continue
		}
		d := *t.Deadline
		switch {
		case d.Before(today):
			b.Overdue = append(b.Overdue, t)
		case d.Before(tomorrow):
			b.Today = append(b.Today, t)
		case d.Before(dayAfter):
			b.Tomorrow = append(b.Tomorrow, t)
		}
	}
	return b
}

// TasksForDay returns tasks whose deadline or any scheduled occurrence falls
// on day.
func TasksForDay(tasks []Task, day time.Time) []Task {
	var out []Task
	for _, t := range tasks {
		if t.Deadline != nil && SameDay(*t.Deadline, day) {
			out = append(out, t)
			continue
		}
		if slices.ContainsFunc(t.ScheduledTasks, func(st ScheduledTask) bool { return SameDay(st.Date, day) }) {
			out = append(out, t)
		}
	}
	return out
}

// MonthGrid lays out the weeks covering month, each row seven days starting
// on weekStart. Leading and trailing cells belong to adjacent months.
func MonthGrid(month time.Time, weekStart time.Weekday) [][]time.Time {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	last := first.AddDate(0, 1, -1)

	lead := (int(first.Weekday()) - int(weekStart) + 7) % 7
	cur := first.AddDate(0, 0, -lead)

	var weeks [][]time.Time
	for !cur.After(last) {
		week := make([]time.Time, 7)
		for i := range week {
			week[i] = cur
			cur = cur.AddDate(0, 0, 1)
		}
		weeks = append(weeks, week)
	}
	return weeks
}

// Progress counts done subtasks of a parent.
type Progress struct {
	Done  int
	Total int
}

func (p Progress) Ratio() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Done) / float64(p.Total)
}

func SubtaskProgress(tasks []Task, parentID string) Progress {
	var p Progress
	for _, t := range tasks {
		if t.ParentTaskID != parentID || parentID == "" {
			continue
		}
		p.Total++
		if t.Done {
			p.Done++
		}
	}
	return p
}

// Uncategorized labels tracked time of tasks without a category.
const Uncategorized = "Uncategorized"

// TimeByCategory sums closed session time per category name.
func TimeByCategory(tasks []Task) map[string]time.Duration {
	out := make(map[string]time.Duration)
	for _, t := range tasks {
		if t.TotalDuration == 0 {
			continue
		}
		name := t.Category.Name
		if name == "" {
			name = Uncategorized
		}
		out[name] += t.TotalDuration
	}
	return out
}

// DailyTotals sums closed session durations per start day ("2006-01-02") for
// sessions starting in [from, to). Days are taken in from's location.
func DailyTotals(tasks []Task, from, to time.Time) map[string]time.Duration {
	out := make(map[string]time.Duration)
	for _, t := range tasks {
		for _, s := range t.Sessions {
			if s.EndTime == nil || s.StartTime.Before(from) || !s.StartTime.Before(to) {
				continue
			}
			out[s.StartTime.In(from.Location()).Format(time.DateOnly)] += s.Duration
		}
	}
	return out
}

// Sorted orders tasks by explicit order, then priority, then deadline.
// Tasks without an order or deadline sort after those with one.
func Sorted(tasks []Task) []Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b Task) int {
		if c := cmpOptional(a.Order, b.Order, cmp.Compare[int]); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
			return c
		}
		return cmpOptional(a.Deadline, b.Deadline, func(x, y time.Time) int { return x.Compare(y) })
	})
	return out
}

func cmpOptional[T any](a, b *T, f func(T, T) int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return f(*a, *b)
}
