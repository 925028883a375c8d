package store

import (
	"database/sql"
	"fmt"
	"time"
)

func (s *Store) StartFocus(taskID string, work, brk time.Duration, targetCount int) (*FocusSession, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO focus_sessions (task_id, work_duration, break_duration, target_count, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		taskID, int64(work/time.Second), int64(brk/time.Second), targetCount, FocusWorking, now,
	)
	if err != nil {
		return nil, fmt.Errorf("start focus: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetFocus(id)
}

func (s *Store) GetFocus(id int64) (*FocusSession, error) {
	f := &FocusSession{}
	var work, brk int64
	var startedAt string
	var completedAt sql.NullString

	err := s.db.QueryRow(
		`SELECT id, task_id, work_duration, break_duration, completed_count, target_count, status, started_at, completed_at
		 FROM focus_sessions WHERE id = ?`, id,
	).Scan(&f.ID, &f.TaskID, &work, &brk, &f.CompletedCount, &f.TargetCount, &f.Status, &startedAt, &completedAt)
	if err != nil {
		return nil, fmt.Errorf("get focus %d: %w", id, err)
	}
	f.WorkDuration = time.Duration(work) * time.Second
	f.BreakDuration = time.Duration(brk) * time.Second
	f.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	if completedAt.Valid {
		t, _ := time.Parse(time.RFC3339, completedAt.String)
		f.CompletedAt = &t
	}
	return f, nil
}

// IncrementFocus records one finished work phase.
func (s *Store) IncrementFocus(id int64) error {
	_, err := s.db.Exec(
		`UPDATE focus_sessions SET completed_count = completed_count + 1 WHERE id = ?`, id,
	)
	return err
}

func (s *Store) UpdateFocusStatus(id int64, status FocusStatus) error {
	_, err := s.db.Exec(
		`UPDATE focus_sessions SET status = ? WHERE id = ?`, status, id,
	)
	return err
}

func (s *Store) CompleteFocus(id int64) error {
	return s.finishFocus(id, FocusCompleted)
}

func (s *Store) CancelFocus(id int64) error {
	return s.finishFocus(id, FocusCancelled)
}

func (s *Store) finishFocus(id int64, status FocusStatus) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE focus_sessions SET status = ?, completed_at = ? WHERE id = ?`,
		status, now, id,
	)
	return err
}

// FocusStats counts work phases finished in cycles started within [from, to),
// cancelled cycles included, and the work time they add up to.
func (s *Store) FocusStats(from, to time.Time) (phases int, work time.Duration, err error) {
	var secs int64
	err = s.db.QueryRow(`
		SELECT COALESCE(SUM(completed_count), 0), COALESCE(SUM(work_duration * completed_count), 0)
		FROM focus_sessions
		WHERE started_at >= ? AND started_at < ?`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	).Scan(&phases, &secs)
	return phases, time.Duration(secs) * time.Second, err
}
