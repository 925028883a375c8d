package planner

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/u7wells/flowo/internal/store"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 12, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(t *testing.T, opts ...Option) (*TaskStore, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	base := []Option{WithClock(clock.Now), WithIDGenerator(sequentialIDs())}
	return NewTaskStore(append(base, opts...)...), clock
}

func find(tasks []Task, id string) (Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

func ptr[T any](v T) *T { return &v }

// memSnapshots is an in-memory Persister and SnapshotLoader.
type memSnapshots struct {
	data  map[string][]byte
	saves int
	err   error
}

func newMemSnapshots() *memSnapshots {
	return &memSnapshots{data: make(map[string][]byte)}
}

func (m *memSnapshots) SaveSnapshot(name string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.saves++
	m.data[name] = append([]byte(nil), data...)
	return nil
}

func (m *memSnapshots) LoadSnapshot(name string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	d, ok := m.data[name]
	if !ok {
		return nil, fmt.Errorf("snapshot %q: %w", name, store.ErrSnapshotNotFound)
	}
	return d, nil
}
