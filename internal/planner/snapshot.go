package planner

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/u7wells/flowo/internal/store"
)

// SnapshotName is the key under which the task store is persisted.
const SnapshotName = "task-storage"

const snapshotVersion = 1

var ErrSnapshotVersion = errors.New("unsupported task snapshot version")

// Persister receives the serialized state after every change.
type Persister interface {
	SaveSnapshot(name string, data []byte) error
}

// SnapshotLoader returns a previously saved snapshot, or an error wrapping
// store.ErrSnapshotNotFound when none exists.
type SnapshotLoader interface {
	LoadSnapshot(name string) ([]byte, error)
}

type snapshot struct {
	Version    int        `json:"version"`
	Tasks      []Task     `json:"tasks"`
	Categories []Category `json:"categories"`
}

// Snapshot serializes the full store state.
func (s *TaskStore) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.encodeLocked()
}

func (s *TaskStore) encodeLocked() ([]byte, error) {
	snap := snapshot{
		Version:    snapshotVersion,
		Tasks:      s.tasksLocked(),
		Categories: s.categories,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode task snapshot: %w", err)
	}
	return data, nil
}

// persistLocked writes the snapshot. Failures are logged and otherwise
// ignored: in-memory state stays authoritative.
func (s *TaskStore) persistLocked() {
	if s.persister == nil {
		return
	}
	data, err := s.encodeLocked()
	if err != nil {
		s.log.Warn("encode snapshot", zap.String("snapshot", SnapshotName), zap.Error(err))
		return
	}
	if err := s.persister.SaveSnapshot(SnapshotName, data); err != nil {
		s.log.Warn("save snapshot", zap.String("snapshot", SnapshotName), zap.Error(err))
	}
}

// Restore replaces the store contents with a decoded snapshot, verbatim.
func (s *TaskStore) Restore(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode task snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("%w: %d", ErrSnapshotVersion, snap.Version)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make(map[string]*Task, len(snap.Tasks))
	s.order = s.order[:0]
	for _, t := range snap.Tasks {
		if _, dup := s.tasks[t.ID]; dup {
			continue
		}
		t := t
		s.tasks[t.ID] = &t
		s.order = append(s.order, t.ID)
	}
	s.categories = snap.Categories
	return nil
}

// LoadTaskStore builds a store from the saved snapshot. A missing snapshot
// gives an empty store. On error the returned store is empty and usable.
func LoadTaskStore(loader SnapshotLoader, opts ...Option) (*TaskStore, error) {
	s := NewTaskStore(opts...)
	data, err := loader.LoadSnapshot(SnapshotName)
	if errors.Is(err, store.ErrSnapshotNotFound) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("load task snapshot: %w", err)
	}
	if err := s.Restore(data); err != nil {
		return s, err
	}
	return s, nil
}
