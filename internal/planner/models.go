package planner

import (
	"slices"
	"time"

	"github.com/u7wells/flowo/internal/schedule"
)

// Priority orders tasks: 1 is high, 3 is low.
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

func (p Priority) Valid() bool {
	return p >= PriorityHigh && p <= PriorityLow
}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	}
	return "unknown"
}

// Status is the position of a task in its work-session state machine.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusPaused     Status = "paused"
	StatusCompleted  Status = "completed"
)

type Category struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Session is one contiguous interval of work on a task. An active session
// has no EndTime; Duration is fixed when the session is closed.
type Session struct {
	ID        string        `json:"id"`
	TaskID    string        `json:"taskId"`
	StartTime time.Time     `json:"startTime"`
	EndTime   *time.Time    `json:"endTime,omitempty"`
	Active    bool          `json:"isActive"`
	Duration  time.Duration `json:"duration"`
}

// Elapsed is the closed duration, or the running time up to now for an active session.
func (s Session) Elapsed(now time.Time) time.Duration {
	if s.Active {
		if d := now.Sub(s.StartTime); d > 0 {
			return d
		}
		return 0
	}
	return s.Duration
}

func (s *Session) close(now time.Time) {
	end := now
	s.EndTime = &end
	s.Active = false
	s.Duration = end.Sub(s.StartTime)
	if s.Duration < 0 {
		s.Duration = 0
	}
}

// ScheduledTask is a planned placement of a task on a calendar day.
type ScheduledTask struct {
	ID        string             `json:"id"`
	TaskID    string             `json:"taskId"`
	Date      time.Time          `json:"date"`
	Start     schedule.TimeOfDay `json:"startTime"`
	End       schedule.TimeOfDay `json:"endTime"`
	Completed bool               `json:"isCompleted"`
}

// Task is a unit of planned work. Subtasks are tasks whose ParentTaskID
// names their owner; they live in the same store.
type Task struct {
	ID           string `json:"id"`
	ParentTaskID string `json:"parentTaskId,omitempty"`

	Title    string     `json:"title"`
	Priority Priority   `json:"priority"`
	Deadline *time.Time `json:"deadline,omitempty"`

	EstimatedTime   time.Duration  `json:"estimatedTime"`
	OptimisticTime  *time.Duration `json:"optimisticTime,omitempty"`
	RealisticTime   *time.Duration `json:"realisticTime,omitempty"`
	PessimisticTime *time.Duration `json:"pessimisticTime,omitempty"`

	Notes     string               `json:"notes,omitempty"`
	Location  *Coordinates         `json:"location,omitempty"`
	Image     string               `json:"image,omitempty"`
	Frequency *schedule.RepeatRule `json:"frequency,omitempty"`
	Category  Category             `json:"category"`
	Order     *int                 `json:"order,omitempty"`
	Overdue   bool                 `json:"overdue"`
	Color     *int64               `json:"color,omitempty"`

	// Offsets before the deadline at which reminders fire.
	FirstNotification  *time.Duration `json:"firstNotification,omitempty"`
	SecondNotification *time.Duration `json:"secondNotification,omitempty"`

	Done           bool            `json:"isDone"`
	Status         Status          `json:"status"`
	TotalDuration  time.Duration   `json:"totalDuration"`
	Sessions       []Session       `json:"sessions"`
	ScheduledTasks []ScheduledTask `json:"scheduledTasks"`
}

// ActiveSession returns the open session, if any.
func (t Task) ActiveSession() (Session, bool) {
	for _, s := range t.Sessions {
		if s.Active {
			return s, true
		}
	}
	return Session{}, false
}

// Tracked is the total closed duration plus the running part of an active session.
func (t Task) Tracked(now time.Time) time.Duration {
	total := t.TotalDuration
	if s, ok := t.ActiveSession(); ok {
		total += s.Elapsed(now)
	}
	return total
}

// ExpectedTime is the three-point estimate when all three points are set,
// otherwise EstimatedTime.
func (t Task) ExpectedTime() time.Duration {
	if t.OptimisticTime == nil || t.RealisticTime == nil || t.PessimisticTime == nil {
		return t.EstimatedTime
	}
	return (*t.OptimisticTime + 4*(*t.RealisticTime) + *t.PessimisticTime) / 6
}

func (t *Task) closeActiveSessions(now time.Time) {
	for i := range t.Sessions {
		if t.Sessions[i].Active {
			t.Sessions[i].close(now)
		}
	}
}

func (t *Task) recomputeTotal() {
	var total time.Duration
	for _, s := range t.Sessions {
		if s.EndTime != nil {
			total += s.Duration
		}
	}
	t.TotalDuration = total
}

// clone returns a deep copy so callers never alias store state.
func (t Task) clone() Task {
	c := t
	c.Deadline = clonePtr(t.Deadline)
	c.OptimisticTime = clonePtr(t.OptimisticTime)
	c.RealisticTime = clonePtr(t.RealisticTime)
	c.PessimisticTime = clonePtr(t.PessimisticTime)
	c.Location = clonePtr(t.Location)
	c.Order = clonePtr(t.Order)
	c.Color = clonePtr(t.Color)
	c.FirstNotification = clonePtr(t.FirstNotification)
	c.SecondNotification = clonePtr(t.SecondNotification)
	if t.Frequency != nil {
		f := *t.Frequency
		f.EndDate = clonePtr(f.EndDate)
		f.DaysOfWeek = slices.Clone(f.DaysOfWeek)
		c.Frequency = &f
	}
	c.ScheduledTasks = slices.Clone(t.ScheduledTasks)
	if t.Sessions != nil {
		c.Sessions = make([]Session, len(t.Sessions))
		for i, s := range t.Sessions {
			s.EndTime = clonePtr(s.EndTime)
			c.Sessions[i] = s
		}
	}
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
