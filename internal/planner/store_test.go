package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================
// AddTask
// ============================================================

func TestAddTaskGeneratesIDAndDefaults(t *testing.T) {
	s, _ := newTestStore(t)

	tasks := s.AddTask(Task{Title: "Write report", Priority: 9})
	require.Len(t, tasks, 1)

	got := tasks[0]
	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, StatusNotStarted, got.Status)
	assert.Equal(t, PriorityMedium, got.Priority)
	assert.False(t, got.Done)
}

func TestAddTaskDuplicateIDIgnored(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTask(Task{ID: "a", Title: "first"})
	tasks := s.AddTask(Task{ID: "a", Title: "second"})

	require.Len(t, tasks, 1)
	assert.Equal(t, "first", tasks[0].Title)
}

func TestAddTaskDropsUnknownParent(t *testing.T) {
	s, _ := newTestStore(t)
	tasks := s.AddTask(Task{ID: "a", ParentTaskID: "ghost"})
	assert.Empty(t, tasks[0].ParentTaskID)

	tasks = s.AddTask(Task{ID: "b", ParentTaskID: "b"})
	got, _ := find(tasks, "b")
	assert.Empty(t, got.ParentTaskID)
}

func TestAddTaskNormalizesSessions(t *testing.T) {
	s, clock := newTestStore(t)
	start := clock.Now().Add(-3 * time.Hour)
	end := start.Add(time.Hour)

	tasks := s.AddTask(Task{
		ID: "a",
		Sessions: []Session{
			{StartTime: start, EndTime: &end, Active: true},
			{StartTime: start.Add(time.Hour)},
			{StartTime: start.Add(2 * time.Hour)},
		},
	})
	got := tasks[0]

	active := 0
	for _, sess := range got.Sessions {
		assert.Equal(t, "a", sess.TaskID)
		assert.NotEmpty(t, sess.ID)
		if sess.Active {
			active++
			assert.Nil(t, sess.EndTime)
		}
	}
	assert.Equal(t, 1, active)
	assert.True(t, got.Sessions[2].Active)
	// The superseded open session is closed at the store clock.
	assert.Equal(t, 2*time.Hour, got.Sessions[1].Duration)
	assert.Equal(t, 3*time.Hour, got.TotalDuration)
}

func TestAddTaskCompletedIsDone(t *testing.T) {
	s, _ := newTestStore(t)
	tasks := s.AddTask(Task{ID: "a", Status: StatusCompleted})
	assert.True(t, tasks[0].Done)
}

func TestAddTaskAssignsScheduledIDs(t *testing.T) {
	s, clock := newTestStore(t)
	tasks := s.AddTask(Task{
		ID:             "a",
		ScheduledTasks: []ScheduledTask{{Date: clock.Now()}},
	})
	st := tasks[0].ScheduledTasks[0]
	assert.NotEmpty(t, st.ID)
	assert.Equal(t, "a", st.TaskID)
}

func TestTasksReturnsCopies(t *testing.T) {
	s, clock := newTestStore(t)
	s.AddTask(Task{ID: "a", Title: "original", Deadline: ptr(clock.Now())})

	tasks := s.Tasks()
	tasks[0].Title = "changed"
	*tasks[0].Deadline = time.Time{}

	got, ok := s.Task("a")
	require.True(t, ok)
	assert.Equal(t, "original", got.Title)
	assert.Equal(t, clock.Now(), *got.Deadline)
}

// ============================================================
// UpdateTask
// ============================================================

func TestUpdateTaskAppliesOptions(t *testing.T) {
	s, clock := newTestStore(t)
	s.AddTask(Task{ID: "a", Title: "old"})

	deadline := clock.Now().Add(48 * time.Hour)
	tasks := s.UpdateTask("a",
		WithTitle("new"),
		WithPriority(PriorityHigh),
		WithDeadline(deadline),
		WithNotes("bring laptop"),
		WithCategory(Category{ID: "c1", Name: "Work"}),
	)

	got := tasks[0]
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, PriorityHigh, got.Priority)
	assert.Equal(t, deadline, *got.Deadline)
	assert.Equal(t, "bring laptop", got.Notes)
	assert.Equal(t, "Work", got.Category.Name)
}

func TestUpdateTaskInvalidOptionsSkipped(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTask(Task{ID: "a", Title: "keep", Priority: PriorityLow})

	tasks := s.UpdateTask("a", WithTitle(""), WithPriority(7), nil)
	assert.Equal(t, "keep", tasks[0].Title)
	assert.Equal(t, PriorityLow, tasks[0].Priority)
}

func TestUpdateTaskUnknownIDUnchanged(t *testing.T) {
	persist := newMemSnapshots()
	s, _ := newTestStore(t, WithPersister(persist))
	before := s.AddTask(Task{ID: "a", Title: "x"})
	saves := persist.saves

	after := s.UpdateTask("missing", WithTitle("y"))
	assert.Equal(t, before, after)
	assert.Equal(t, saves, persist.saves)
}

func TestUpdateTaskCannotUndoCompletion(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTask(Task{ID: "a"})
	s.CompleteTask("a")

	tasks := s.UpdateTask("a", WithDone(false))
	assert.True(t, tasks[0].Done)
	assert.Equal(t, StatusCompleted, tasks[0].Status)
}

func TestExpectedTime(t *testing.T) {
	task := Task{EstimatedTime: time.Hour}
	assert.Equal(t, time.Hour, task.ExpectedTime())

	WithEstimates(time.Hour, 2*time.Hour, 9*time.Hour)(&task)
	assert.Equal(t, 3*time.Hour, task.ExpectedTime())
}

// ============================================================
// Hierarchy
// ============================================================

func TestSubtasks(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTask(Task{ID: "p"})
	s.AddTask(Task{ID: "c1", ParentTaskID: "p"})
	s.AddTask(Task{ID: "other"})
	s.AddTask(Task{ID: "c2", ParentTaskID: "p"})

	subs := s.Subtasks("p")
	require.Len(t, subs, 2)
	assert.Equal(t, "c1", subs[0].ID)
	assert.Equal(t, "c2", subs[1].ID)
	assert.Empty(t, s.Subtasks(""))
}

func TestMoveTaskRejectsCycle(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTask(Task{ID: "a"})
	s.AddTask(Task{ID: "b", ParentTaskID: "a"})
	s.AddTask(Task{ID: "c", ParentTaskID: "b"})

	tasks := s.MoveTask("a", "c")
	a, _ := find(tasks, "a")
	assert.Empty(t, a.ParentTaskID)

	tasks = s.MoveTask("c", "a")
	c, _ := find(tasks, "c")
	assert.Equal(t, "a", c.ParentTaskID)

	tasks = s.MoveTask("c", "")
	c, _ = find(tasks, "c")
	assert.Empty(t, c.ParentTaskID)
}

func TestMoveTaskUnknownParent(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTask(Task{ID: "a"})
	tasks := s.MoveTask("a", "ghost")
	assert.Empty(t, tasks[0].ParentTaskID)
}

func TestDeleteTaskCascades(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTask(Task{ID: "root"})
	s.AddTask(Task{ID: "child", ParentTaskID: "root"})
	s.AddTask(Task{ID: "grandchild", ParentTaskID: "child"})
	s.AddTask(Task{ID: "keep"})

	tasks := s.DeleteTask("root")
	require.Len(t, tasks, 1)
	assert.Equal(t, "keep", tasks[0].ID)

	_, ok := s.Task("grandchild")
	assert.False(t, ok)
}

func TestDeleteTaskUnknown(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTask(Task{ID: "a"})
	assert.Len(t, s.DeleteTask("b"), 1)
}

// ============================================================
// Categories
// ============================================================

func TestCategories(t *testing.T) {
	s, _ := newTestStore(t)
	cats := s.AddCategory(Category{Name: "Work"})
	require.Len(t, cats, 1)
	id := cats[0].ID
	assert.NotEmpty(t, id)

	assert.Len(t, s.AddCategory(Category{ID: id, Name: "Dup"}), 1)

	s.AddTask(Task{ID: "a", Category: cats[0]})
	cats = s.UpdateCategory(id, "Job")
	assert.Equal(t, "Job", cats[0].Name)

	task, _ := s.Task("a")
	assert.Equal(t, "Job", task.Category.Name)

	assert.Empty(t, s.DeleteCategory(id))
	task, _ = s.Task("a")
	assert.Equal(t, "Job", task.Category.Name)
}

// ============================================================
// Scheduled occurrences
// ============================================================

func TestScheduledTaskLifecycle(t *testing.T) {
	s, clock := newTestStore(t)
	s.AddTask(Task{ID: "a"})

	tasks := s.AddScheduledTask("a", ScheduledTask{Date: clock.Now()})
	require.Len(t, tasks[0].ScheduledTasks, 1)
	stID := tasks[0].ScheduledTasks[0].ID

	tasks = s.UpdateScheduledTask("a", stID, WithScheduledCompleted(true))
	assert.True(t, tasks[0].ScheduledTasks[0].Completed)

	tasks = s.DeleteScheduledTask("a", stID)
	assert.Empty(t, tasks[0].ScheduledTasks)

	assert.Len(t, s.AddScheduledTask("missing", ScheduledTask{}), 1)
}
