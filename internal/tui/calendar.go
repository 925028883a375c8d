package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/u7wells/flowo/internal/planner"
	"github.com/u7wells/flowo/internal/schedule"
	"github.com/u7wells/flowo/internal/settings"
)

// dayItem is a task shown under the selected day, with the occurrence
// planned for that day if there is one.
type dayItem struct {
	task       planner.Task
	occurrence *planner.ScheduledTask
}

type calendarModel struct {
	tasks     *planner.TaskStore
	prefs     *settings.Store
	weekStart time.Weekday
	width     int
	height    int

	all      []planner.Task
	selected time.Time
	cursor   int
}

func newCalendarModel(tasks *planner.TaskStore, prefs *settings.Store, weekStart time.Weekday, now func() time.Time) calendarModel {
	return calendarModel{
		tasks:     tasks,
		prefs:     prefs,
		weekStart: weekStart,
		all:       tasks.Tasks(),
		selected:  planner.StartOfDay(now()),
	}
}

func (c *calendarModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c calendarModel) refresh() tea.Cmd {
	return tasksChanged(c.tasks.Tasks())
}

func (c calendarModel) dayItems() []dayItem {
	var items []dayItem
	for _, t := range planner.Sorted(planner.TasksForDay(c.all, c.selected)) {
		item := dayItem{task: t}
		for i := range t.ScheduledTasks {
			if planner.SameDay(t.ScheduledTasks[i].Date, c.selected) {
				item.occurrence = &t.ScheduledTasks[i]
				break
			}
		}
		items = append(items, item)
	}
	return items
}

func (c calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksChangedMsg:
		c.all = msg.tasks
		c.cursor = clampCursor(c.cursor, len(c.dayItems()))
		return c, nil

	case tea.KeyMsg:
		items := c.dayItems()
		switch {
		case key.Matches(msg, keys.Left):
			c.moveDays(-1)
		case key.Matches(msg, keys.Right):
			c.moveDays(1)
		case key.Matches(msg, keys.Up):
			c.moveDays(-7)
		case key.Matches(msg, keys.Down):
			c.moveDays(7)
		case msg.String() == "[":
			if c.cursor > 0 {
				c.cursor--
			}
		case msg.String() == "]":
			if c.cursor < len(items)-1 {
				c.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if it, ok := c.item(items); ok && it.occurrence != nil {
				return c, tasksChanged(c.tasks.UpdateScheduledTask(it.task.ID, it.occurrence.ID,
					planner.WithScheduledCompleted(!it.occurrence.Completed)))
			}
		case key.Matches(msg, keys.Delete):
			if it, ok := c.item(items); ok && it.occurrence != nil {
				return c, tea.Batch(
					tasksChanged(c.tasks.DeleteScheduledTask(it.task.ID, it.occurrence.ID)),
					status("Unplanned %s", it.task.Title),
				)
			}
		}
	}
	return c, nil
}

func (c *calendarModel) moveDays(n int) {
	c.selected = c.selected.AddDate(0, 0, n)
	c.cursor = 0
}

func (c calendarModel) item(items []dayItem) (dayItem, bool) {
	if c.cursor < 0 || c.cursor >= len(items) {
		return dayItem{}, false
	}
	return items[c.cursor], true
}

func (c calendarModel) view() string {
	w := c.width - 4
	prefs := c.prefs.Settings()

	month := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(c.selected.Format("January 2006")),
		"",
		c.renderMonth(),
	)
	day := c.renderDay(prefs)

	body := lipgloss.JoinHorizontal(lipgloss.Top, month, "    ", day)
	nav := mutedStyle.Render("  ←/→: day  ↑/↓: week  [/]: select  enter: toggle done  d: unplan")
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, body, "", nav))
}

func (c calendarModel) renderMonth() string {
	var header []string
	for i := range 7 {
		wd := time.Weekday((int(c.weekStart) + i) % 7)
		header = append(header, dayStyle.Foreground(colorMuted).Render(wd.String()[:2]))
	}
	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	for _, week := range planner.MonthGrid(c.selected, c.weekStart) {
		var cells []string
		for _, d := range week {
			label := fmt.Sprintf("%d", d.Day())
			if n := len(planner.TasksForDay(c.all, d)); n > 0 {
				label += "•"
			}
			style := dayStyle
			switch {
			case planner.SameDay(d, c.selected):
				style = selectedDayStyle
			case d.Month() != c.selected.Month():
				style = outsideDayStyle
			}
			cells = append(cells, style.Render(label))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(lines, "\n")
}

func (c calendarModel) renderDay(prefs settings.UserSettings) string {
	dayName := schedule.WeekdayName(c.selected.Weekday())
	sched := prefs.Schedule(dayName)

	rows := []string{titleStyle.Render(dayName + " " + c.selected.Format(dateLayout(prefs.DateFormat)))}
	if !sched.Active {
		rows = append(rows, mutedStyle.Render("Day off"))
	} else {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("Sleep %s", frameLabel(sched.Sleep, prefs.Is24HourFormat))))
		for _, m := range sched.MealBreaks {
			rows = append(rows, mutedStyle.Render("Meal  "+frameLabel(m, prefs.Is24HourFormat)))
		}
		for _, f := range sched.FreeTimes {
			rows = append(rows, successStyle.Render("Free  "+frameLabel(f, prefs.Is24HourFormat)))
		}
	}
	rows = append(rows, "")

	items := c.dayItems()
	var planned time.Duration
	for i, it := range items {
		planned += it.task.ExpectedTime()
		cursor := "  "
		style := normalItemStyle
		if i == c.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		when := "due"
		if it.occurrence != nil {
			when = frameLabel(schedule.TimeFrame{Start: it.occurrence.Start, End: it.occurrence.End}, prefs.Is24HourFormat)
			if it.occurrence.Completed {
				when += " ✓"
			}
		} else if it.task.Deadline != nil {
			dl := it.task.Deadline.In(c.selected.Location())
			when = "due " + schedule.At(dl.Hour(), dl.Minute()).Format(prefs.Is24HourFormat)
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", cursor, statusIcon(it.task), it.task.Title))+" "+mutedStyle.Render(when))
	}
	if len(items) == 0 {
		rows = append(rows, mutedStyle.Render("Nothing planned"))
	}

	free := sched.FreeDuration()
	load := fmt.Sprintf("Planned %s of %s free", formatHours(planned), formatHours(free))
	if planned > free {
		rows = append(rows, "", warningStyle.Render(load))
	} else {
		rows = append(rows, "", mutedStyle.Render(load))
	}
	return strings.Join(rows, "\n")
}

func frameLabel(f schedule.TimeFrame, is24Hour bool) string {
	return f.Start.Format(is24Hour) + "–" + f.End.Format(is24Hour)
}

// dateLayout converts a DD-MM-YYYY style pattern into a time layout.
func dateLayout(format string) string {
	if format == "" {
		return time.DateOnly
	}
	return strings.NewReplacer("YYYY", "2006", "YY", "06", "MM", "01", "DD", "02").Replace(format)
}
