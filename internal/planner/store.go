package planner

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskStore owns the task collection and the category list. Tasks are kept
// in one id-indexed arena; insertion order is preserved for listing.
//
// Every mutation returns a copy of the full collection after the change. A
// mutation naming an unknown id leaves the store as it was.
type TaskStore struct {
	mu         sync.Mutex
	tasks      map[string]*Task
	order      []string
	categories []Category

	now       func() time.Time
	newID     func() string
	log       *zap.Logger
	persister Persister
}

type Option func(*TaskStore)

// WithClock sets the time source for session boundaries.
func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *TaskStore) {
		s.newID = newID
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *TaskStore) {
		s.log = l
	}
}

// WithPersister saves a snapshot after every change.
func WithPersister(p Persister) Option {
	return func(s *TaskStore) {
		s.persister = p
	}
}

func NewTaskStore(opts ...Option) *TaskStore {
	s := &TaskStore{
		tasks: make(map[string]*Task),
		now:   time.Now,
		newID: uuid.NewString,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// clock samples the time source once; the result carries no monotonic reading
// so it survives a snapshot round trip unchanged.
func (s *TaskStore) clock() time.Time {
	return s.now().Round(0)
}

// mutate runs fn under the lock and persists when fn reports a change.
func (s *TaskStore) mutate(fn func() bool) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn() {
		s.persistLocked()
	}
	return s.tasksLocked()
}

func (s *TaskStore) tasksLocked() []Task {
	out := make([]Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id].clone())
	}
	return out
}

// Tasks returns every task in insertion order.
func (s *TaskStore) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasksLocked()
}

func (s *TaskStore) Task(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return Task{}, false
	}
	return t.clone(), true
}

// Subtasks returns the direct children of parentID in insertion order.
func (s *TaskStore) Subtasks(parentID string) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Task
	for _, id := range s.order {
		if t := s.tasks[id]; t.ParentTaskID == parentID && parentID != "" {
			out = append(out, t.clone())
		}
	}
	return out
}

// ActiveTask returns the first task with an open session.
func (s *TaskStore) ActiveTask() (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		t := s.tasks[id]
		if _, ok := t.ActiveSession(); ok {
			return t.clone(), true
		}
	}
	return Task{}, false
}

// AddTask inserts a task. An empty id is generated; an id already present is
// ignored. Derived fields are normalised: sessions keep at most one active
// entry, TotalDuration is recomputed and a completed task is marked done.
// A parent that does not exist is dropped.
func (s *TaskStore) AddTask(t Task) []Task {
	return s.mutate(func() bool {
		if t.ID == "" {
			t.ID = s.newID()
		}
		if _, exists := s.tasks[t.ID]; exists {
			return false
		}
		if _, ok := s.tasks[t.ParentTaskID]; !ok || t.ParentTaskID == t.ID {
			t.ParentTaskID = ""
		}
		if t.Status == "" {
			t.Status = StatusNotStarted
		}
		if !t.Priority.Valid() {
			t.Priority = PriorityMedium
		}

		c := t.clone()
		s.normalizeSessions(&c)
		for i := range c.ScheduledTasks {
			if c.ScheduledTasks[i].ID == "" {
				c.ScheduledTasks[i].ID = s.newID()
			}
			c.ScheduledTasks[i].TaskID = c.ID
		}

		s.tasks[c.ID] = &c
		s.order = append(s.order, c.ID)
		return true
	})
}

func (s *TaskStore) normalizeSessions(t *Task) {
	now := s.clock()
	lastActive := -1
	for i := range t.Sessions {
		sess := &t.Sessions[i]
		if sess.ID == "" {
			sess.ID = s.newID()
		}
		sess.TaskID = t.ID
		if sess.EndTime != nil {
			sess.Active = false
			sess.Duration = sess.EndTime.Sub(sess.StartTime)
			if sess.Duration < 0 {
				sess.Duration = 0
			}
			continue
		}
		sess.Active = true
		if lastActive >= 0 {
			t.Sessions[lastActive].close(now)
		}
		lastActive = i
	}
	if t.Status == StatusCompleted {
		t.Done = true
		t.closeActiveSessions(now)
	}
	t.recomputeTotal()
}

// UpdateTask applies opts to the task with the given id.
func (s *TaskStore) UpdateTask(id string, opts ...TaskOption) []Task {
	return s.mutate(func() bool {
		t, ok := s.tasks[id]
		if !ok {
			return false
		}
		for _, opt := range opts {
			if opt != nil {
				opt(t)
			}
		}
		if t.Status == StatusCompleted {
			t.Done = true
		}
		return true
	})
}

// MoveTask re-parents a task. An empty parentID detaches it. Moves that name
// an unknown parent or would create a cycle are ignored.
func (s *TaskStore) MoveTask(id, parentID string) []Task {
	return s.mutate(func() bool {
		t, ok := s.tasks[id]
		if !ok {
			return false
		}
		if parentID != "" {
			if _, ok := s.tasks[parentID]; !ok {
				return false
			}
			for p := parentID; p != ""; p = s.tasks[p].ParentTaskID {
				if p == id {
					return false
				}
			}
		}
		t.ParentTaskID = parentID
		return true
	})
}

// DeleteTask removes a task together with all of its descendants.
func (s *TaskStore) DeleteTask(id string) []Task {
	return s.mutate(func() bool {
		if _, ok := s.tasks[id]; !ok {
			return false
		}
		doomed := map[string]bool{id: true}
		for grew := true; grew; {
			grew = false
			for _, tid := range s.order {
				t := s.tasks[tid]
				if !doomed[tid] && doomed[t.ParentTaskID] {
					doomed[tid] = true
					grew = true
				}
			}
		}
		kept := s.order[:0]
		for _, tid := range s.order {
			if doomed[tid] {
				delete(s.tasks, tid)
				continue
			}
			kept = append(kept, tid)
		}
		s.order = kept
		return true
	})
}
