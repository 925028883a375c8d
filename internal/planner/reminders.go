package planner

import (
	"slices"
	"time"
)

// Reminder is a notification due for a task deadline. Delivery belongs to
// the platform; the planner only computes when.
type Reminder struct {
	TaskID   string
	Title    string
	Deadline time.Time
	At       time.Time
	// Second is set for the secondNotification offset.
	Second bool
}

// Reminders returns reminders of open tasks falling in [now, now+horizon),
// earliest first.
func Reminders(tasks []Task, now time.Time, horizon time.Duration) []Reminder {
	end := now.Add(horizon)
	var out []Reminder
	add := func(t Task, offset *time.Duration, second bool) {
		if offset == nil {
			return
		}
		at := t.Deadline.Add(-*offset)
		if at.Before(now) || !at.Before(end) {
			return
		}
		out = append(out, Reminder{
			TaskID:   t.ID,
			Title:    t.Title,
			Deadline: *t.Deadline,
			At:       at,
			Second:   second,
		})
	}
	for _, t := range tasks {
		if t.Done || t.Deadline == nil {
			continue
		}
		add(t, t.FirstNotification, false)
		add(t, t.SecondNotification, true)
	}
	slices.SortStableFunc(out, func(a, b Reminder) int { return a.At.Compare(b.At) })
	return out
}
