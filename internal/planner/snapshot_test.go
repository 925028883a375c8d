package planner

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/u7wells/flowo/internal/schedule"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s, clock := newTestStore(t)
	s.AddCategory(Category{ID: "c1", Name: "Work"})
	s.AddTask(Task{
		ID:                "a",
		Title:             "Plan sprint",
		Priority:          PriorityHigh,
		Deadline:          ptr(clock.Now().Add(48 * time.Hour)),
		Category:          Category{ID: "c1", Name: "Work"},
		Frequency:         &schedule.RepeatRule{Type: schedule.RepeatWeekly, Interval: 1, DaysOfWeek: []time.Weekday{time.Monday}},
		FirstNotification: ptr(time.Hour),
		Location:          &Coordinates{Latitude: 52.5, Longitude: 13.4},
	})
	s.AddTask(Task{ID: "b", ParentTaskID: "a", Title: "Collect tickets"})
	s.StartTask("a")
	clock.Advance(30 * time.Minute)
	s.PauseTask("a")
	s.StartTask("a")
	s.AddScheduledTask("b", ScheduledTask{Date: clock.Now().AddDate(0, 0, 1), Start: schedule.At(9, 0), End: schedule.At(10, 0)})

	data, err := s.Snapshot()
	require.NoError(t, err)

	restored := NewTaskStore()
	require.NoError(t, restored.Restore(data))
	assert.Equal(t, s.Tasks(), restored.Tasks())
	assert.Equal(t, s.Categories(), restored.Categories())

	// A live session stays live across the round trip.
	active, ok := restored.ActiveTask()
	require.True(t, ok)
	assert.Equal(t, "a", active.ID)
}

func TestRestoreRejectsUnknownVersion(t *testing.T) {
	s := NewTaskStore()
	err := s.Restore([]byte(`{"version":99,"tasks":[]}`))
	assert.ErrorIs(t, err, ErrSnapshotVersion)

	assert.Error(t, s.Restore([]byte(`not json`)))
}

func TestPersisterSavesOnChange(t *testing.T) {
	snaps := newMemSnapshots()
	s, _ := newTestStore(t, WithPersister(snaps))

	s.AddTask(Task{ID: "a", Title: "x"})
	assert.Equal(t, 1, snaps.saves)

	s.PauseTask("a")
	assert.Equal(t, 1, snaps.saves, "no-op transition must not persist")

	s.StartTask("a")
	assert.Equal(t, 2, snaps.saves)
	assert.Contains(t, snaps.data, SnapshotName)
}

func TestPersisterFailureKeepsState(t *testing.T) {
	snaps := newMemSnapshots()
	snaps.err = errors.New("disk full")
	s, _ := newTestStore(t, WithPersister(snaps))

	tasks := s.AddTask(Task{ID: "a"})
	assert.Len(t, tasks, 1)
	assert.Zero(t, snaps.saves)
}

func TestLoadTaskStore(t *testing.T) {
	snaps := newMemSnapshots()

	s, err := LoadTaskStore(snaps)
	require.NoError(t, err)
	assert.Empty(t, s.Tasks())

	writer, _ := newTestStore(t, WithPersister(snaps))
	writer.AddTask(Task{ID: "a", Title: "persisted"})

	s, err = LoadTaskStore(snaps)
	require.NoError(t, err)
	got, ok := s.Task("a")
	require.True(t, ok)
	assert.Equal(t, "persisted", got.Title)
}

func TestLoadTaskStoreErrors(t *testing.T) {
	snaps := newMemSnapshots()
	snaps.data[SnapshotName] = []byte(`{"version":2}`)
	s, err := LoadTaskStore(snaps)
	assert.ErrorIs(t, err, ErrSnapshotVersion)
	require.NotNil(t, s)
	assert.Empty(t, s.Tasks())

	snaps = newMemSnapshots()
	snaps.err = errors.New("locked")
	_, err = LoadTaskStore(snaps)
	assert.Error(t, err)
}
