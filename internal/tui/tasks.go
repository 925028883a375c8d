package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/u7wells/flowo/internal/planner"
	"github.com/u7wells/flowo/internal/schedule"
)

const deadlineLayout = "2006-01-02 15:04"

type taskFormType string

const (
	formTask     taskFormType = "task"
	formSubtask  taskFormType = "subtask"
	formEdit     taskFormType = "edit"
	formCategory taskFormType = "category"
	formPlan     taskFormType = "plan"
)

// startTaskMsg asks the dashboard timer to track a task.
type startTaskMsg struct {
	id string
}

// taskRow is one line of the task tree.
type taskRow struct {
	task     planner.Task
	depth    int
	progress planner.Progress
}

// taskFields holds form values. It is shared by pointer so huh can write to
// it through value copies of the model.
type taskFields struct {
	title    string
	priority planner.Priority
	deadline string
	estimate string
	reminder string
	category string
	notes    string

	planDate  string
	planStart string
	planEnd   string
}

type tasksModel struct {
	tasks  *planner.TaskStore
	now    func() time.Time
	width  int
	height int

	rows   []taskRow
	cursor int

	formActive bool
	form       *huh.Form
	formType   taskFormType
	fields     *taskFields
	targetID   string // task the open form applies to
}

func newTasksModel(tasks *planner.TaskStore, now func() time.Time) tasksModel {
	m := tasksModel{
		tasks:  tasks,
		now:    now,
		fields: &taskFields{},
	}
	m.rows = buildRows(tasks.Tasks())
	return m
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m tasksModel) refresh() tea.Cmd {
	return tasksChanged(m.tasks.Tasks())
}

// buildRows flattens the task tree: roots in sorted order, each followed by
// its subtasks indented one level deeper.
func buildRows(tasks []planner.Task) []taskRow {
	children := make(map[string][]planner.Task)
	known := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		known[t.ID] = true
	}
	var roots []planner.Task
	for _, t := range tasks {
		if t.ParentTaskID != "" && known[t.ParentTaskID] {
			children[t.ParentTaskID] = append(children[t.ParentTaskID], t)
			continue
		}
		roots = append(roots, t)
	}

	var rows []taskRow
	var walk func(ts []planner.Task, depth int)
	walk = func(ts []planner.Task, depth int) {
		for _, t := range planner.Sorted(ts) {
			rows = append(rows, taskRow{
				task:     t,
				depth:    depth,
				progress: planner.SubtaskProgress(tasks, t.ID),
			})
			walk(children[t.ID], depth+1)
		}
	}
	walk(roots, 0)
	return rows
}

func (m tasksModel) selected() (planner.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return planner.Task{}, false
	}
	return m.rows[m.cursor].task, true
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if tm, ok := msg.(tasksChangedMsg); ok {
		m.rows = buildRows(tm.tasks)
		m.cursor = clampCursor(m.cursor, len(m.rows))
		return m, nil
	}

	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.updateList(msg)
	}
	return m, nil
}

func (m tasksModel) updateList(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, keys.New):
		return m.showTaskForm(formTask, planner.Task{})
	case key.Matches(msg, keys.Category):
		return m.showCategoryForm()
	}

	t, ok := m.selected()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Subtask):
		return m.showTaskForm(formSubtask, t)
	case key.Matches(msg, keys.Edit):
		return m.showTaskForm(formEdit, t)
	case key.Matches(msg, keys.Plan):
		return m.showPlanForm(t)
	case key.Matches(msg, keys.Start):
		return m, func() tea.Msg { return startTaskMsg{id: t.ID} }
	case key.Matches(msg, keys.Pause):
		if t.Status == planner.StatusPaused {
			return m, func() tea.Msg { return startTaskMsg{id: t.ID} }
		}
		return m, tasksChanged(m.tasks.PauseTask(t.ID))
	case key.Matches(msg, keys.Stop):
		return m, tasksChanged(m.tasks.StopTask(t.ID))
	case key.Matches(msg, keys.Complete):
		return m, tea.Batch(tasksChanged(m.tasks.CompleteTask(t.ID)), status("Completed %s", t.Title))
	case key.Matches(msg, keys.Delete):
		return m, tea.Batch(tasksChanged(m.tasks.DeleteTask(t.ID)), status("Deleted %s", t.Title))
	}
	return m, nil
}

func (m tasksModel) categoryOptions() []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, c := range m.tasks.Categories() {
		opts = append(opts, huh.NewOption(c.Name, c.ID))
	}
	return opts
}

func (m tasksModel) showTaskForm(ft taskFormType, t planner.Task) (tasksModel, tea.Cmd) {
	f := m.fields
	*f = taskFields{priority: planner.PriorityMedium}
	m.formType = ft
	m.targetID = t.ID

	if ft == formEdit {
		f.title = t.Title
		f.priority = t.Priority
		f.category = t.Category.ID
		f.notes = t.Notes
		if t.Deadline != nil {
			f.deadline = t.Deadline.In(m.now().Location()).Format(deadlineLayout)
		}
		if t.EstimatedTime > 0 {
			f.estimate = strconv.Itoa(int(t.EstimatedTime.Minutes()))
		}
		if t.FirstNotification != nil {
			f.reminder = strconv.Itoa(int(t.FirstNotification.Minutes()))
		}
	}

	loc := m.now().Location()
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&f.title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title is required")
					}
					return nil
				}),
			huh.NewSelect[planner.Priority]().Title("Priority").
				Options(
					huh.NewOption("High", planner.PriorityHigh),
					huh.NewOption("Medium", planner.PriorityMedium),
					huh.NewOption("Low", planner.PriorityLow),
				).Value(&f.priority),
			huh.NewInput().Title("Deadline (YYYY-MM-DD HH:MM)").Value(&f.deadline).
				Validate(func(s string) error {
					_, err := parseDeadline(s, loc)
					return err
				}),
			huh.NewInput().Title("Estimate (min)").Value(&f.estimate).
				Validate(func(s string) error {
					_, err := parseMinutes(s)
					return err
				}),
			huh.NewInput().Title("Remind before deadline (min)").Value(&f.reminder).
				Validate(func(s string) error {
					_, err := parseMinutes(s)
					return err
				}),
			huh.NewSelect[string]().Title("Category").Options(m.categoryOptions()...).Value(&f.category),
			huh.NewText().Title("Notes").Value(&f.notes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) showCategoryForm() (tasksModel, tea.Cmd) {
	*m.fields = taskFields{}
	m.formType = formCategory
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Category Name").Value(&m.fields.title),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) showPlanForm(t planner.Task) (tasksModel, tea.Cmd) {
	f := m.fields
	*f = taskFields{
		planDate:  m.now().Format(time.DateOnly),
		planStart: "09:00",
		planEnd:   "10:00",
	}
	m.formType = formPlan
	m.targetID = t.ID

	timeValid := func(s string) error {
		_, err := schedule.ParseTimeOfDay(s)
		return err
	}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(&f.planDate).
				Validate(func(s string) error {
					_, err := time.ParseInLocation(time.DateOnly, s, time.Local)
					return err
				}),
			huh.NewInput().Title("From (HH:MM)").Value(&f.planStart).Validate(timeValid),
			huh.NewInput().Title("To (HH:MM)").Value(&f.planEnd).Validate(timeValid),
		).Title("Plan " + t.Title),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		return m, m.submit()
	}

	return m, cmd
}

// submit applies the completed form to the task store.
func (m tasksModel) submit() tea.Cmd {
	f := m.fields
	switch m.formType {
	case formCategory:
		name := strings.TrimSpace(f.title)
		if name == "" {
			return nil
		}
		m.tasks.AddCategory(planner.Category{Name: name})
		return status("Added category %s", name)

	case formPlan:
		st, err := plannedOccurrence(f.planDate, f.planStart, f.planEnd)
		if err != nil {
			return statusError(err)
		}
		return tea.Batch(tasksChanged(m.tasks.AddScheduledTask(m.targetID, st)), status("Planned for %s", f.planDate))

	case formEdit:
		opts, err := m.fieldOptions()
		if err != nil {
			return statusError(err)
		}
		return tasksChanged(m.tasks.UpdateTask(m.targetID, opts...))
	}

	t, err := m.fieldTask()
	if err != nil {
		return statusError(err)
	}
	if m.formType == formSubtask {
		t.ParentTaskID = m.targetID
	}
	return tea.Batch(tasksChanged(m.tasks.AddTask(t)), status("Added %s", t.Title))
}

func (m tasksModel) category(id string) planner.Category {
	for _, c := range m.tasks.Categories() {
		if c.ID == id {
			return c
		}
	}
	return planner.Category{}
}

// fieldOptions turns the form values into task updates.
func (m tasksModel) fieldOptions() ([]planner.TaskOption, error) {
	f := m.fields
	deadline, err := parseDeadline(f.deadline, m.now().Location())
	if err != nil {
		return nil, err
	}
	estimate, err := parseMinutes(f.estimate)
	if err != nil {
		return nil, err
	}
	reminder, err := parseMinutes(f.reminder)
	if err != nil {
		return nil, err
	}

	deadlineOpt := planner.WithDeadline(deadline)
	if deadline.IsZero() {
		deadlineOpt = planner.WithoutDeadline()
	}
	return []planner.TaskOption{
		planner.WithTitle(strings.TrimSpace(f.title)),
		planner.WithPriority(f.priority),
		deadlineOpt,
		planner.WithEstimate(estimate),
		planner.WithNotifications(reminder, 0),
		planner.WithCategory(m.category(f.category)),
		planner.WithNotes(f.notes),
	}, nil
}

// fieldTask builds a new task from the form values.
func (m tasksModel) fieldTask() (planner.Task, error) {
	opts, err := m.fieldOptions()
	if err != nil {
		return planner.Task{}, err
	}
	var t planner.Task
	for _, opt := range opts {
		if opt != nil {
			opt(&t)
		}
	}
	if t.Title == "" {
		return planner.Task{}, errors.New("title is required")
	}
	return t, nil
}

func parseDeadline(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(deadlineLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("deadline must look like %s", deadlineLayout)
	}
	return t, nil
}

func parseMinutes(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%q is not a number of minutes", s)
	}
	return time.Duration(n) * time.Minute, nil
}

func plannedOccurrence(date, from, to string) (planner.ScheduledTask, error) {
	day, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(date), time.Local)
	if err != nil {
		return planner.ScheduledTask{}, fmt.Errorf("parse date: %w", err)
	}
	start, err := schedule.ParseTimeOfDay(from)
	if err != nil {
		return planner.ScheduledTask{}, err
	}
	end, err := schedule.ParseTimeOfDay(to)
	if err != nil {
		return planner.ScheduledTask{}, err
	}
	return planner.ScheduledTask{Date: day, Start: start, End: end}, nil
}

func (m tasksModel) view() string {
	w := m.width - 4
	if m.formActive && m.form != nil {
		var title string
		switch m.formType {
		case formSubtask:
			title = "New Subtask"
		case formEdit:
			title = "Edit Task"
		case formCategory:
			title = "New Category"
		case formPlan:
			title = "Plan Task"
		default:
			title = "New Task"
		}
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Tasks")
	if len(m.rows) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	now := m.now()
	rows := []string{title, ""}
	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-32s %-10s %-14s %10s %s", "", "Title", "Priority", "Category", "Tracked", "Due"))
	rows = append(rows, header)

	for i, r := range m.rows {
		t := r.task
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		name := strings.Repeat("  ", r.depth) + t.Title
		if r.progress.Total > 0 {
			name += fmt.Sprintf(" [%d/%d]", r.progress.Done, r.progress.Total)
		}
		line := style.Render(fmt.Sprintf("%s%s %-32s", cursor, statusIcon(t), name)) +
			priorityStyle(t.Priority).Render(fmt.Sprintf(" %-10s", t.Priority)) +
			fmt.Sprintf(" %-14s %10s ", t.Category.Name, formatDuration(t.Tracked(now))) +
			mutedStyle.Render(deadlineLabel(t.Deadline, now))
		rows = append(rows, line)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  a: subtask  i: edit  p: plan  c: category  s/space/x/enter: start/pause/stop/complete  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
