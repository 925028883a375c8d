package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/u7wells/flowo/internal/planner"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewTasks
	viewCalendar
	viewFocus
	viewReports
	viewSettings
)

var viewNames = []string{"Dashboard", "Tasks", "Calendar", "Focus", "Reports", "Settings"}

// --- Messages ---

// tasksChangedMsg carries the collection returned by a task-store mutation.
type tasksChangedMsg struct {
	tasks []planner.Task
}

type settingsChangedMsg struct{}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

func tasksChanged(tasks []planner.Task) tea.Cmd {
	return func() tea.Msg { return tasksChangedMsg{tasks: tasks} }
}

func status(format string, args ...any) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: fmt.Sprintf(format, args...)} }
}

func statusError(err error) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true} }
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatHours(d time.Duration) string {
	return fmt.Sprintf("%.1fh", d.Hours())
}

// deadlineLabel renders a deadline relative to now ("3 hours from now").
func deadlineLabel(deadline *time.Time, now time.Time) string {
	if deadline == nil {
		return ""
	}
	return humanize.RelTime(*deadline, now, "ago", "from now")
}

func statusIcon(t planner.Task) string {
	switch t.Status {
	case planner.StatusInProgress:
		return "●"
	case planner.StatusPaused:
		return "⏸"
	case planner.StatusCompleted:
		return "✓"
	}
	return "○"
}

func clampCursor(cursor, n int) int {
	return max(0, min(cursor, n-1))
}
