package planner

import (
	"time"

	"github.com/u7wells/flowo/internal/schedule"
)

// TaskOption changes one user-editable field of a task. Options never touch
// Status, Sessions or TotalDuration; those move only through the session
// transitions. A nil option is skipped.
type TaskOption func(*Task)

func WithTitle(title string) TaskOption {
	if title == "" {
		return nil
	}
	return func(t *Task) {
		t.Title = title
	}
}

// WithPriority ignores values outside high/medium/low.
func WithPriority(p Priority) TaskOption {
	if !p.Valid() {
		return nil
	}
	return func(t *Task) {
		t.Priority = p
	}
}

func WithDeadline(deadline time.Time) TaskOption {
	if deadline.IsZero() {
		return nil
	}
	return func(t *Task) {
		t.Deadline = &deadline
	}
}

func WithoutDeadline() TaskOption {
	return func(t *Task) {
		t.Deadline = nil
	}
}

func WithEstimate(d time.Duration) TaskOption {
	return func(t *Task) {
		t.EstimatedTime = d
	}
}

// WithEstimates sets the optimistic, realistic and pessimistic estimates together.
func WithEstimates(optimistic, realistic, pessimistic time.Duration) TaskOption {
	return func(t *Task) {
		t.OptimisticTime = &optimistic
		t.RealisticTime = &realistic
		t.PessimisticTime = &pessimistic
	}
}

func WithNotes(notes string) TaskOption {
	return func(t *Task) {
		t.Notes = notes
	}
}

func WithLocation(c Coordinates) TaskOption {
	return func(t *Task) {
		t.Location = &c
	}
}

func WithImage(ref string) TaskOption {
	return func(t *Task) {
		t.Image = ref
	}
}

// WithRepeat sets the recurrence rule; an invalid rule is ignored.
func WithRepeat(r schedule.RepeatRule) TaskOption {
	if !r.Valid() {
		return nil
	}
	return func(t *Task) {
		t.Frequency = &r
	}
}

func WithoutRepeat() TaskOption {
	return func(t *Task) {
		t.Frequency = nil
	}
}

func WithCategory(c Category) TaskOption {
	return func(t *Task) {
		t.Category = c
	}
}

func WithOrder(order int) TaskOption {
	return func(t *Task) {
		t.Order = &order
	}
}

// WithOverdue sets the stored overdue flag. The dashboard buckets do not read
// it; they derive lateness from the deadline.
func WithOverdue(overdue bool) TaskOption {
	return func(t *Task) {
		t.Overdue = overdue
	}
}

func WithColor(color int64) TaskOption {
	return func(t *Task) {
		t.Color = &color
	}
}

// WithNotifications sets both reminder offsets. A zero offset clears that reminder.
func WithNotifications(first, second time.Duration) TaskOption {
	return func(t *Task) {
		t.FirstNotification = nil
		t.SecondNotification = nil
		if first > 0 {
			t.FirstNotification = &first
		}
		if second > 0 {
			t.SecondNotification = &second
		}
	}
}

// WithDone flips the done flag without running a transition: an active
// session stays open and the status is unchanged. Use CompleteTask to close
// the session and record the time. On a completed task the flag stays set.
func WithDone(done bool) TaskOption {
	return func(t *Task) {
		t.Done = done
	}
}

// ScheduledOption changes one field of a scheduled occurrence.
type ScheduledOption func(*ScheduledTask)

func WithScheduledDate(date time.Time) ScheduledOption {
	if date.IsZero() {
		return nil
	}
	return func(st *ScheduledTask) {
		st.Date = date
	}
}

func WithScheduledWindow(start, end schedule.TimeOfDay) ScheduledOption {
	return func(st *ScheduledTask) {
		st.Start = start
		st.End = end
	}
}

func WithScheduledCompleted(completed bool) ScheduledOption {
	return func(st *ScheduledTask) {
		st.Completed = completed
	}
}
