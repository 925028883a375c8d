package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/u7wells/flowo/internal/planner"
)

type dashboardModel struct {
	tasks   *planner.TaskStore
	timer   timerModel
	now     func() time.Time
	horizon time.Duration
	width   int
	height  int

	all []planner.Task

	// Task picker state
	picking      bool
	pickerCursor int
}

func newDashboardModel(tasks *planner.TaskStore, now func() time.Time, horizon time.Duration) dashboardModel {
	return dashboardModel{
		tasks:   tasks,
		timer:   newTimerModel(tasks, now),
		now:     now,
		horizon: horizon,
		all:     tasks.Tasks(),
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) isRunning() bool { return d.timer.running() }
func (d dashboardModel) isPaused() bool  { return d.timer.paused() }
func (d dashboardModel) elapsed() time.Duration {
	return d.timer.currentElapsed()
}

func (d dashboardModel) refresh() tea.Cmd {
	return tasksChanged(d.tasks.Tasks())
}

// startable lists tasks the timer can pick up, most urgent first.
func (d dashboardModel) startable() []planner.Task {
	var out []planner.Task
	for _, t := range planner.Sorted(d.all) {
		if t.Status == planner.StatusNotStarted || t.Status == planner.StatusPaused {
			out = append(out, t)
		}
	}
	return out
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksChangedMsg:
		d.all = msg.tasks
		d.timer.follow(msg.tasks)
		d.pickerCursor = clampCursor(d.pickerCursor, len(d.startable()))
		return d, nil

	case tickMsg:
		if tasks := d.timer.tick(); tasks != nil {
			return d, tea.Batch(tasksChanged(tasks), status("Idle: paused %s", d.timer.title()))
		}
		return d, nil

	case tea.KeyMsg:
		if tasks := d.timer.recordActivity(); tasks != nil {
			return d, tasksChanged(tasks)
		}

		if d.picking {
			return d.updatePicker(msg)
		}

		switch {
		case key.Matches(msg, keys.Start):
			if d.timer.running() {
				return d, nil
			}
			open := d.startable()
			if len(open) == 0 {
				return d, func() tea.Msg {
					return statusMsg{text: "No open tasks. Press 2 to go to Tasks and create one.", isError: true}
				}
			}
			if len(open) == 1 {
				return d.startTimer(open[0])
			}
			d.picking = true
			d.pickerCursor = 0
			return d, nil

		case key.Matches(msg, keys.Stop):
			if !d.timer.running() {
				return d, nil
			}
			title := d.timer.title()
			return d, tea.Batch(tasksChanged(d.timer.stop()), status("Stopped %s", title))

		case key.Matches(msg, keys.Pause):
			if tasks := d.timer.toggle(); tasks != nil {
				return d, tasksChanged(tasks)
			}
			return d, nil

		case key.Matches(msg, keys.Complete):
			if !d.timer.running() {
				return d, nil
			}
			title := d.timer.title()
			return d, tea.Batch(tasksChanged(d.timer.complete()), status("Completed %s", title))
		}
	}
	return d, nil
}

func (d dashboardModel) updatePicker(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	open := d.startable()
	switch {
	case key.Matches(msg, keys.Up):
		if d.pickerCursor > 0 {
			d.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if d.pickerCursor < len(open)-1 {
			d.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		d.picking = false
		if len(open) == 0 {
			return d, nil
		}
		return d.startTimer(open[clampCursor(d.pickerCursor, len(open))])
	case key.Matches(msg, keys.Back):
		d.picking = false
	}
	return d, nil
}

func (d dashboardModel) startTimer(t planner.Task) (dashboardModel, tea.Cmd) {
	tasks := d.timer.start(t.ID)
	return d, tea.Batch(tasksChanged(tasks), status("Started %s", t.Title))
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	timerPanel := d.renderTimerPanel(contentWidth)
	agendaPanel := d.renderAgendaPanel(contentWidth)

	var bottomPanel string
	if d.picking {
		bottomPanel = d.renderTaskPicker(contentWidth)
	} else {
		bottomPanel = d.renderRemindersPanel(contentWidth)
	}

	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, agendaPanel, bottomPanel)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	var timeDisplay string
	var indicator string

	if d.timer.running() {
		timeStr := formatDuration(d.timer.currentElapsed())

		if d.timer.paused() {
			timeDisplay = timerPausedStyle.Width(w - 6).Render(timeStr)
			if d.timer.isIdle {
				indicator = warningStyle.Render("⏸  IDLE")
			} else {
				indicator = warningStyle.Render("⏸  PAUSED")
			}
		} else {
			timeDisplay = timerRunningStyle.Width(w - 6).Render(timeStr)
			indicator = successStyle.Render("●  RUNNING")
		}

		taskLine := highlightStyle.Render(d.timer.title())
		if task, ok := d.timer.current(); ok && task.EstimatedTime > 0 {
			taskLine += mutedStyle.Render(" / est. " + formatHours(task.EstimatedTime))
		}

		content := lipgloss.JoinVertical(lipgloss.Center,
			timeDisplay,
			indicator,
			taskLine,
		)
		return activePanelStyle.Width(w).Render(content)
	}

	timeDisplay = timerStyle.Width(w - 6).Render("00:00:00")
	indicator = mutedStyle.Render("■  STOPPED")
	hint := mutedStyle.Render("Press s to start a task")

	content := lipgloss.JoinVertical(lipgloss.Center,
		timeDisplay,
		indicator,
		hint,
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderAgendaPanel(w int) string {
	now := d.now()
	buckets := planner.Partition(d.all, now)

	from := planner.StartOfDay(now)
	var today time.Duration
	for _, total := range planner.DailyTotals(d.all, from, from.AddDate(0, 0, 1)) {
		today += total
	}
	header := fmt.Sprintf("%s  %s", titleStyle.Render("Today"), highlightStyle.Render(formatDuration(today)))

	rows := []string{header}
	section := func(name string, style lipgloss.Style, tasks []planner.Task) {
		if len(tasks) == 0 {
			return
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s (%d)", name, len(tasks))))
		for _, t := range planner.Sorted(tasks) {
			rows = append(rows, fmt.Sprintf("  %s %s %-24s %s",
				statusIcon(t),
				priorityStyle(t.Priority).Render("●"),
				t.Title,
				mutedStyle.Render(deadlineLabel(t.Deadline, now)),
			))
		}
	}
	section("Overdue", errorStyle, buckets.Overdue)
	section("Due today", warningStyle, buckets.Today)
	section("Due tomorrow", highlightStyle, buckets.Tomorrow)

	if len(rows) == 1 {
		rows = append(rows, mutedStyle.Render("Nothing due"))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderRemindersPanel(w int) string {
	title := titleStyle.Render("Reminders")
	now := d.now()
	reminders := planner.Reminders(d.all, now, d.horizon)
	if len(reminders) == 0 {
		hint := "No reminders in the next " + formatHours(d.horizon)
		if d.horizon <= 0 {
			hint = "Reminders are off"
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render(hint))
		return panelStyle.Width(w).Render(content)
	}

	rows := []string{title}
	for _, r := range reminders {
		icon := "🔔"
		if r.Second {
			icon = "🔔🔔"
		}
		rows = append(rows, fmt.Sprintf("  %s %s  %-24s due %s",
			icon,
			r.At.In(now.Location()).Format("15:04"),
			r.Title,
			deadlineLabel(&r.Deadline, now),
		))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderTaskPicker(w int) string {
	title := titleStyle.Render("Select Task")

	rows := []string{title}
	for i, t := range d.startable() {
		dot := priorityStyle(t.Priority).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == d.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", cursor, dot, t.Title)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: select  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
