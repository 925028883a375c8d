package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/u7wells/flowo/internal/export"
	"github.com/u7wells/flowo/internal/planner"
	"github.com/u7wells/flowo/internal/settings"
	"github.com/u7wells/flowo/internal/store"
)

var exportFormats = []string{"CSV", "JSON", "PDF"}

// Options configures the App. Zero values fall back to sensible defaults.
type Options struct {
	ExportDir       string
	WeekStart       time.Weekday
	ReminderHorizon time.Duration
	Logger          *zap.Logger
	Now             func() time.Time
}

// App is the root Bubble Tea model.
type App struct {
	tasks   *planner.TaskStore
	prefs   *settings.Store
	history *store.Store
	opts    Options
	log     *zap.Logger
	width   int
	height  int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	taskList  tasksModel
	calendar  calendarModel
	focus     focusModel
	reports   reportsModel
	settings  settingsModel

	help    help.Model
	status  string
	initCmd tea.Cmd
}

func NewApp(tasks *planner.TaskStore, prefs *settings.Store, history *store.Store, opts Options) App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ReminderHorizon <= 0 {
		opts.ReminderHorizon = 24 * time.Hour
	}
	if opts.ExportDir == "" {
		opts.ExportDir, _ = os.UserHomeDir()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	h := help.New()
	h.ShowAll = false

	u := prefs.Settings()
	applyAccent(u.CustomColor)

	a := App{
		tasks:      tasks,
		prefs:      prefs,
		history:    history,
		opts:       opts,
		log:        log,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(tasks, opts.Now, reminderLead(u, opts.ReminderHorizon)),
		taskList:   newTasksModel(tasks, opts.Now),
		calendar:   newCalendarModel(tasks, prefs, opts.WeekStart, opts.Now),
		focus:      newFocusModel(tasks, prefs, history, opts.Now),
		reports:    newReportsModel(tasks, history, opts.Now, opts.WeekStart),
		settings:   newSettingsModel(prefs),
		help:       h,
	}

	if !prefs.Profile().OnboardingCompleted {
		a.activeView = viewSettings
		a.settings, a.initCmd = a.settings.showOnboarding()
	}
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.initCmd,
		a.dashboard.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.taskList.setSize(a.width, contentHeight)
		a.calendar.setSize(a.width, contentHeight)
		a.focus.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewDashboard)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewTasks)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewCalendar)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewFocus)
		case key.Matches(msg, keys.Tab5):
			return a.switchView(viewReports)
		case key.Matches(msg, keys.Tab6):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab) && a.activeView != viewReports:
			return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		// Ticks drive the idle timer and the focus countdown whatever the view.
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		cmds = append(cmds, cmd)
		a.focus, cmd = a.focus.update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case tasksChangedMsg:
		return a.broadcast(msg)

	case settingsChangedMsg:
		u := a.prefs.Settings()
		applyAccent(u.CustomColor)
		a.dashboard.horizon = reminderLead(u, a.opts.ReminderHorizon)
		a.status = "Settings saved"
		return a.broadcast(msg)

	case startTaskMsg:
		task, ok := a.tasks.Task(msg.id)
		if !ok {
			return a, nil
		}
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.startTimer(task)
		return a, cmd

	case statusMsg:
		a.status = msg.text
		if msg.isError {
			a.log.Warn("status", zap.String("message", msg.text))
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		a.log.Info("export written", zap.String("path", msg.path))
		return a, nil
	}

	return a.updateActiveView(msg)
}

// broadcast hands a store change to every view so none shows stale data.
func (a App) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds [6]tea.Cmd
	a.dashboard, cmds[0] = a.dashboard.update(msg)
	a.taskList, cmds[1] = a.taskList.update(msg)
	a.calendar, cmds[2] = a.calendar.update(msg)
	a.focus, cmds[3] = a.focus.update(msg)
	a.reports, cmds[4] = a.reports.update(msg)
	a.settings, cmds[5] = a.settings.update(msg)
	return a, tea.Batch(cmds[:]...)
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewTasks:
		a.taskList, cmd = a.taskList.update(msg)
	case viewCalendar:
		a.calendar, cmd = a.calendar.update(msg)
	case viewFocus:
		a.focus, cmd = a.focus.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTasks:
		return a.taskList.formActive
	case viewSettings:
		return a.settings.formActive
	case viewDashboard:
		return a.dashboard.picking
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.refresh()
	case viewTasks:
		return a.taskList.refresh()
	case viewCalendar:
		return a.calendar.refresh()
	case viewReports:
		return a.reports.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewTasks:
		content = a.taskList.view()
	case viewCalendar:
		content = a.calendar.view()
	case viewFocus:
		content = a.focus.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("flowo")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Timer indicator in footer
	timerInfo := ""
	if a.dashboard.isRunning() {
		elapsed := a.dashboard.elapsed()
		timerInfo = successStyle.Render(" ● " + formatDuration(elapsed))
		if a.dashboard.isPaused() {
			timerInfo = warningStyle.Render(" ⏸ " + formatDuration(elapsed))
		}
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	rows := []string{title, ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	tasks := a.tasks.Tasks()
	now := a.opts.Now()
	dir := a.opts.ExportDir
	return func() tea.Msg {
		dateStr := now.Format(time.DateOnly)

		var path string
		var err error
		switch format {
		case 0:
			path = filepath.Join(dir, fmt.Sprintf("flowo-export-%s.csv", dateStr))
			err = export.ToCSV(tasks, path)
		case 1:
			path = filepath.Join(dir, fmt.Sprintf("flowo-export-%s.json", dateStr))
			err = export.ToJSON(tasks, path)
		default:
			path = filepath.Join(dir, fmt.Sprintf("flowo-agenda-%s.pdf", dateStr))
			err = export.ToPDF(tasks, now, path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("%s export error: %v", exportFormats[format], err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
