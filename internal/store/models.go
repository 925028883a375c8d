package store

import "time"

// SnapshotInfo describes a stored snapshot without its payload.
type SnapshotInfo struct {
	Name      string
	Size      int64
	UpdatedAt time.Time
}

// FocusStatus is the phase of a focus cycle.
type FocusStatus string

const (
	FocusWorking   FocusStatus = "working"
	FocusBreak     FocusStatus = "break"
	FocusCompleted FocusStatus = "completed"
	FocusCancelled FocusStatus = "cancelled"
)

// FocusSession records one run of alternating work and break phases on a task.
type FocusSession struct {
	ID             int64
	TaskID         string
	WorkDuration   time.Duration
	BreakDuration  time.Duration
	CompletedCount int
	TargetCount    int
	Status         FocusStatus
	StartedAt      time.Time
	CompletedAt    *time.Time
}
