package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/u7wells/flowo/internal/planner"
	"github.com/u7wells/flowo/internal/settings"
	"github.com/u7wells/flowo/internal/store"
)

type focusPhase int

const (
	focusIdle focusPhase = iota
	focusWork
	focusBreak
	focusCompleted
)

const focusTarget = 4

// focusModel runs alternating work and break phases on one task. Work
// phases track time on the task; breaks pause it. Each cycle is recorded
// in the focus history.
type focusModel struct {
	tasks   *planner.TaskStore
	prefs   *settings.Store
	history *store.Store
	now     func() time.Time
	width   int
	height  int

	open   []planner.Task
	cursor int

	phase          focusPhase
	completedCount int
	targetCount    int
	taskID         string
	taskTitle      string

	remaining time.Duration
	phaseEnd  time.Time

	workDuration  time.Duration
	breakDuration time.Duration

	sessionID int64 // focus_sessions.id
}

func newFocusModel(tasks *planner.TaskStore, prefs *settings.Store, history *store.Store, now func() time.Time) focusModel {
	m := focusModel{
		tasks:       tasks,
		prefs:       prefs,
		history:     history,
		now:         now,
		phase:       focusIdle,
		targetCount: focusTarget,
	}
	m.loadSettings()
	m.setTasks(tasks.Tasks())
	return m
}

func (p *focusModel) loadSettings() {
	u := p.prefs.Settings()
	p.workDuration = u.MinSession
	p.breakDuration = u.BreakTime
}

func (p *focusModel) setTasks(tasks []planner.Task) {
	var open []planner.Task
	for _, t := range planner.Sorted(tasks) {
		if !t.Done {
			open = append(open, t)
		}
	}
	p.open = open
	p.cursor = clampCursor(p.cursor, len(p.open))
}

func (p *focusModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p focusModel) active() bool {
	return p.phase == focusWork || p.phase == focusBreak
}

func (p focusModel) update(msg tea.Msg) (focusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksChangedMsg:
		p.setTasks(msg.tasks)
		return p, nil

	case settingsChangedMsg:
		if !p.active() {
			p.loadSettings()
		}
		return p, nil

	case tickMsg:
		if p.active() {
			p.remaining = p.phaseEnd.Sub(p.now())
			if p.remaining <= 0 {
				return p.advancePhase()
			}
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if !p.active() && p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, keys.Down):
			if !p.active() && p.cursor < len(p.open)-1 {
				p.cursor++
			}
		case key.Matches(msg, keys.Start):
			if !p.active() {
				return p.startSession()
			}
		case key.Matches(msg, keys.Stop):
			if p.active() {
				return p.cancelSession()
			}
		case key.Matches(msg, keys.Pause):
			// Skip break
			if p.phase == focusBreak {
				return p.startWorkPhase()
			}
		}
	}
	return p, nil
}

func (p focusModel) startSession() (focusModel, tea.Cmd) {
	if len(p.open) == 0 {
		return p, func() tea.Msg {
			return statusMsg{text: "No open tasks to focus on.", isError: true}
		}
	}
	p.loadSettings()
	t := p.open[p.cursor]

	session, err := p.history.StartFocus(t.ID, p.workDuration, p.breakDuration, p.targetCount)
	if err != nil {
		return p, statusError(err)
	}
	p.sessionID = session.ID
	p.taskID = t.ID
	p.taskTitle = t.Title
	p.completedCount = 0

	return p.startWorkPhase()
}

func (p focusModel) startWorkPhase() (focusModel, tea.Cmd) {
	p.phase = focusWork
	p.remaining = p.workDuration
	p.phaseEnd = p.now().Add(p.workDuration)
	if p.sessionID > 0 {
		p.history.UpdateFocusStatus(p.sessionID, store.FocusWorking)
	}
	id := p.taskID
	return p, func() tea.Msg { return startTaskMsg{id: id} }
}

func (p focusModel) advancePhase() (focusModel, tea.Cmd) {
	switch p.phase {
	case focusWork:
		p.completedCount++
		if p.sessionID > 0 {
			p.history.IncrementFocus(p.sessionID)
		}
		tasks := p.tasks.PauseTask(p.taskID)

		if p.completedCount >= p.targetCount {
			p.phase = focusCompleted
			if p.sessionID > 0 {
				p.history.CompleteFocus(p.sessionID)
			}
			return p, tea.Batch(tasksChanged(tasks), status("Focus session complete! \a"))
		}

		p.phase = focusBreak
		p.remaining = p.breakDuration
		p.phaseEnd = p.now().Add(p.breakDuration)
		if p.sessionID > 0 {
			p.history.UpdateFocusStatus(p.sessionID, store.FocusBreak)
		}
		return p, tea.Batch(tasksChanged(tasks), status("Break time! \a"))

	case focusBreak:
		return p.startWorkPhase()
	}
	return p, nil
}

func (p focusModel) cancelSession() (focusModel, tea.Cmd) {
	if p.sessionID > 0 {
		p.history.CancelFocus(p.sessionID)
	}
	p.phase = focusIdle
	p.remaining = 0
	return p, tea.Batch(tasksChanged(p.tasks.PauseTask(p.taskID)), status("Focus cancelled"))
}

func (p focusModel) view() string {
	w := p.width - 4

	title := titleStyle.Render("Focus")

	var timeDisplay string
	var phaseLabel string
	var indicator string

	switch p.phase {
	case focusIdle:
		timeDisplay = timerStyle.Width(w - 6).Render(formatCountdown(p.workDuration))
		phaseLabel = mutedStyle.Render(fmt.Sprintf("%s work / %s break", formatCountdown(p.workDuration), formatCountdown(p.breakDuration)))
		indicator = p.renderPicker()
	case focusWork:
		timeDisplay = accentStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatCountdown(p.remaining))
		phaseLabel = accentStyle.Bold(true).Render("WORK  ") + highlightStyle.Render(p.taskTitle)
		indicator = p.renderProgress()
	case focusBreak:
		timeDisplay = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatCountdown(p.remaining))
		phaseLabel = successStyle.Bold(true).Render("BREAK")
		indicator = p.renderProgress()
	case focusCompleted:
		timeDisplay = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render("Done!")
		phaseLabel = successStyle.Bold(true).Render("SESSION COMPLETE")
		indicator = p.renderProgress() + "\n\n" + p.renderPicker()
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		timeDisplay,
		phaseLabel,
		"",
		indicator,
	)

	var controls string
	switch p.phase {
	case focusIdle, focusCompleted:
		controls = mutedStyle.Render("↑/↓: task  s: start")
	case focusWork:
		controls = mutedStyle.Render("x: cancel")
	case focusBreak:
		controls = mutedStyle.Render("space: skip break  x: cancel")
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

func (p focusModel) renderPicker() string {
	if len(p.open) == 0 {
		return mutedStyle.Render("No open tasks")
	}
	var rows []string
	for i, t := range p.open {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+t.Title))
	}
	return strings.Join(rows, "\n")
}

func (p focusModel) renderProgress() string {
	var parts []string
	for i := 0; i < p.targetCount; i++ {
		if i < p.completedCount {
			parts = append(parts, successStyle.Render("●"))
		} else if i == p.completedCount && p.phase == focusWork {
			parts = append(parts, accentStyle.Render("◐"))
		} else {
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	progress := strings.Join(parts, " ")
	counter := mutedStyle.Render(fmt.Sprintf("  %d/%d", p.completedCount, p.targetCount))
	return progress + counter
}

func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
