package tui

import (
	"time"

	"github.com/u7wells/flowo/internal/planner"
)

// timerModel follows the task being tracked. The task store owns the
// sessions; this only remembers which task the user is working on and
// pauses it when the user goes idle.
type timerModel struct {
	tasks *planner.TaskStore
	now   func() time.Time

	taskID string

	// Idle detection
	lastActivity time.Time
	idleTimeout  time.Duration
	isIdle       bool
}

func newTimerModel(tasks *planner.TaskStore, now func() time.Time) timerModel {
	t := timerModel{
		tasks:        tasks,
		now:          now,
		lastActivity: now(),
		idleTimeout:  5 * time.Minute,
	}
	// Pick up a session left running by a previous run.
	if active, ok := tasks.ActiveTask(); ok {
		t.taskID = active.ID
	}
	return t
}

func (t timerModel) current() (planner.Task, bool) {
	if t.taskID == "" {
		return planner.Task{}, false
	}
	task, ok := t.tasks.Task(t.taskID)
	if !ok || task.Status == planner.StatusCompleted || task.Status == planner.StatusNotStarted {
		return planner.Task{}, false
	}
	return task, true
}

// start switches tracking to id, pausing whatever was running before.
func (t *timerModel) start(id string) []planner.Task {
	if cur, ok := t.current(); ok && cur.ID != id {
		t.tasks.PauseTask(cur.ID)
	}
	tasks := t.tasks.StartTask(id)
	t.taskID = id
	t.lastActivity = t.now()
	t.isIdle = false
	return tasks
}

func (t *timerModel) stop() []planner.Task {
	if t.taskID == "" {
		return nil
	}
	tasks := t.tasks.StopTask(t.taskID)
	t.taskID = ""
	t.isIdle = false
	return tasks
}

func (t *timerModel) complete() []planner.Task {
	if t.taskID == "" {
		return nil
	}
	tasks := t.tasks.CompleteTask(t.taskID)
	t.taskID = ""
	t.isIdle = false
	return tasks
}

func (t *timerModel) toggle() []planner.Task {
	task, ok := t.current()
	if !ok {
		return nil
	}
	t.isIdle = false
	if task.Status == planner.StatusInProgress {
		return t.tasks.PauseTask(task.ID)
	}
	t.lastActivity = t.now()
	return t.tasks.StartTask(task.ID)
}

// tick pauses the running task once the user has been idle too long.
func (t *timerModel) tick() []planner.Task {
	if !t.running() || t.paused() {
		return nil
	}
	if t.now().Sub(t.lastActivity) > t.idleTimeout && !t.isIdle {
		t.isIdle = true
		return t.tasks.PauseTask(t.taskID)
	}
	return nil
}

func (t *timerModel) recordActivity() []planner.Task {
	t.lastActivity = t.now()
	if t.isIdle && t.paused() {
		t.isIdle = false
		return t.tasks.StartTask(t.taskID)
	}
	return nil
}

// follow adopts a task started elsewhere, e.g. from the task list.
func (t *timerModel) follow(tasks []planner.Task) {
	for _, task := range tasks {
		if task.Status == planner.StatusInProgress && task.ID != t.taskID {
			t.taskID = task.ID
			t.isIdle = false
			t.lastActivity = t.now()
			return
		}
	}
	if _, ok := t.current(); !ok {
		t.taskID = ""
		t.isIdle = false
	}
}

func (t timerModel) running() bool {
	_, ok := t.current()
	return ok
}

func (t timerModel) paused() bool {
	task, ok := t.current()
	return ok && task.Status == planner.StatusPaused
}

func (t timerModel) currentElapsed() time.Duration {
	task, ok := t.current()
	if !ok {
		return 0
	}
	return task.Tracked(t.now())
}

func (t timerModel) title() string {
	task, _ := t.current()
	return task.Title
}
