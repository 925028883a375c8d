package planner

// Session transitions. Each samples the clock once; every session closed by
// a transition gets that same end time.
//
//	not_started, paused      --start-->    in_progress
//	in_progress              --pause-->    paused
//	in_progress, paused      --stop-->     not_started
//	any                      --complete--> completed
//
// A transition that is not valid from the current status leaves the task
// unchanged. Completed tasks cannot be restarted.

// StartTask opens a new session and moves the task to in_progress.
func (s *TaskStore) StartTask(id string) []Task {
	return s.mutate(func() bool {
		t, ok := s.tasks[id]
		if !ok || (t.Status != StatusNotStarted && t.Status != StatusPaused) {
			return false
		}
		now := s.clock()
		t.closeActiveSessions(now)
		t.Sessions = append(t.Sessions, Session{
			ID:        s.newID(),
			TaskID:    id,
			StartTime: now,
			Active:    true,
		})
		t.Status = StatusInProgress
		t.recomputeTotal()
		return true
	})
}

// PauseTask closes the active session of an in_progress task.
func (s *TaskStore) PauseTask(id string) []Task {
	return s.mutate(func() bool {
		t, ok := s.tasks[id]
		if !ok || t.Status != StatusInProgress {
			return false
		}
		t.closeActiveSessions(s.clock())
		t.recomputeTotal()
		t.Status = StatusPaused
		return true
	})
}

// StopTask resets an in_progress or paused task to not_started. Past
// sessions are kept.
func (s *TaskStore) StopTask(id string) []Task {
	return s.mutate(func() bool {
		t, ok := s.tasks[id]
		if !ok || (t.Status != StatusInProgress && t.Status != StatusPaused) {
			return false
		}
		t.closeActiveSessions(s.clock())
		t.recomputeTotal()
		t.Status = StatusNotStarted
		return true
	})
}

// CompleteTask marks the task done from any status.
func (s *TaskStore) CompleteTask(id string) []Task {
	return s.mutate(func() bool {
		t, ok := s.tasks[id]
		if !ok {
			return false
		}
		t.closeActiveSessions(s.clock())
		t.recomputeTotal()
		t.Done = true
		t.Status = StatusCompleted
		return true
	})
}

// AddSession appends a recorded session. A session with an end time is
// stored closed with its duration computed; one without is stored active,
// closing any other active session first and moving the task to in_progress.
// Completed tasks accept only closed sessions.
func (s *TaskStore) AddSession(taskID string, sess Session) []Task {
	return s.mutate(func() bool {
		t, ok := s.tasks[taskID]
		if !ok {
			return false
		}
		if sess.ID == "" {
			sess.ID = s.newID()
		}
		sess.TaskID = taskID
		if sess.EndTime != nil {
			sess.close(*sess.EndTime)
		} else {
			if t.Status == StatusCompleted {
				return false
			}
			t.closeActiveSessions(s.clock())
			sess.Active = true
			sess.Duration = 0
			t.Status = StatusInProgress
		}
		t.Sessions = append(t.Sessions, sess)
		t.recomputeTotal()
		return true
	})
}

// EndSession closes one active session. Ending the session that an
// in_progress task is running leaves the task paused.
func (s *TaskStore) EndSession(taskID, sessionID string) []Task {
	return s.mutate(func() bool {
		t, ok := s.tasks[taskID]
		if !ok {
			return false
		}
		for i := range t.Sessions {
			if t.Sessions[i].ID != sessionID || !t.Sessions[i].Active {
				continue
			}
			t.Sessions[i].close(s.clock())
			t.recomputeTotal()
			if t.Status == StatusInProgress {
				t.Status = StatusPaused
			}
			return true
		}
		return false
	})
}
