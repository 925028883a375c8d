package planner

import "slices"

// AddScheduledTask plans an occurrence of a task. An empty id is generated.
func (s *TaskStore) AddScheduledTask(taskID string, st ScheduledTask) []Task {
	return s.mutate(func() bool {
		t, ok := s.tasks[taskID]
		if !ok {
			return false
		}
		if st.ID == "" {
			st.ID = s.newID()
		}
		st.TaskID = taskID
		t.ScheduledTasks = append(t.ScheduledTasks, st)
		return true
	})
}

func (s *TaskStore) UpdateScheduledTask(taskID, scheduledID string, opts ...ScheduledOption) []Task {
	return s.mutate(func() bool {
		t, ok := s.tasks[taskID]
		if !ok {
			return false
		}
		i := slices.IndexFunc(t.ScheduledTasks, func(st ScheduledTask) bool { return st.ID == scheduledID })
		if i < 0 {
			return false
		}
		for _, opt := range opts {
			if opt != nil {
				opt(&t.ScheduledTasks[i])
			}
		}
		return true
	})
}

func (s *TaskStore) DeleteScheduledTask(taskID, scheduledID string) []Task {
	return s.mutate(func() bool {
		t, ok := s.tasks[taskID]
		if !ok {
			return false
		}
		before := len(t.ScheduledTasks)
		t.ScheduledTasks = slices.DeleteFunc(t.ScheduledTasks, func(st ScheduledTask) bool { return st.ID == scheduledID })
		return len(t.ScheduledTasks) != before
	})
}
