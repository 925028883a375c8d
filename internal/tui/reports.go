package tui

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/u7wells/flowo/internal/planner"
	"github.com/u7wells/flowo/internal/store"
)

type reportMode int

const (
	reportDaily reportMode = iota
	reportWeekly
)

type reportsModel struct {
	tasks     *planner.TaskStore
	history   *store.Store
	now       func() time.Time
	weekStart time.Weekday
	width     int
	height    int

	mode   reportMode
	offset int // weeks or 7-day blocks back from today (0 = current)

	all         []planner.Task
	daily       map[string]time.Duration
	categories  map[string]time.Duration
	focusPhases int
	focusWork   time.Duration

	chart barchart.Model
}

func newReportsModel(tasks *planner.TaskStore, history *store.Store, now func() time.Time, weekStart time.Weekday) reportsModel {
	return reportsModel{
		tasks:     tasks,
		history:   history,
		now:       now,
		weekStart: weekStart,
		all:       tasks.Tasks(),
		chart:     barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	phases int
	work   time.Duration
}

func (r reportsModel) refresh() tea.Cmd {
	from, to := r.dateRange()
	return tea.Batch(tasksChanged(r.tasks.Tasks()), func() tea.Msg {
		phases, work, err := r.history.FocusStats(from, to)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return reportsDataMsg{phases: phases, work: work}
	})
}

func (r reportsModel) dateRange() (time.Time, time.Time) {
	today := planner.StartOfDay(r.now())

	switch r.mode {
	case reportWeekly:
		back := (int(today.Weekday()) - int(r.weekStart) + 7) % 7
		startOfWeek := today.AddDate(0, 0, -back-7*r.offset)
		return startOfWeek, startOfWeek.AddDate(0, 0, 7)
	default:
		// Daily: last 7 days
		end := today.AddDate(0, 0, 1-7*r.offset)
		start := end.AddDate(0, 0, -7)
		return start, end
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksChangedMsg:
		r.all = msg.tasks
		r.summarize()
		return r, nil

	case reportsDataMsg:
		r.focusPhases = msg.phases
		r.focusWork = msg.work
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Tab):
			if r.mode == reportDaily {
				r.mode = reportWeekly
			} else {
				r.mode = reportDaily
			}
			r.offset = 0
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *reportsModel) summarize() {
	from, to := r.dateRange()
	r.daily = planner.DailyTotals(r.all, from, to)
	r.categories = planner.TimeByCategory(r.all)
	r.buildChart()
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	from, to := r.dateRange()

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		hours := r.daily[d.Format(time.DateOnly)].Hours()
		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if hours == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label:  d.Format("Mon 02"),
			Values: []barchart.BarValue{{Name: "Tracked", Value: hours, Style: style}},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	dailyTab := inactiveTabStyle.Render("Daily")
	weeklyTab := inactiveTabStyle.Render("Weekly")
	if r.mode == reportDaily {
		dailyTab = activeTabStyle.Render("Daily")
	} else {
		weeklyTab = activeTabStyle.Render("Weekly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dailyTab, weeklyTab)

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ", dateLabel,
	)

	var total time.Duration
	for _, d := range r.daily {
		total += d
	}
	summary := fmt.Sprintf("  Tracked %s  Focus %d phases (%s)",
		highlightStyle.Render(formatDuration(total)),
		r.focusPhases,
		formatDuration(r.focusWork),
	)

	nav := mutedStyle.Render("  ←/→: navigate  tab: switch mode")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", summary, "", r.renderCategoryTable(w), "", nav,
		),
	)
}

// renderCategoryTable lists all-time tracked time per category, largest first.
func (r reportsModel) renderCategoryTable(w int) string {
	if len(r.categories) == 0 {
		return mutedStyle.Render("  No tracked time yet")
	}

	names := slices.Collect(maps.Keys(r.categories))
	slices.SortFunc(names, func(a, b string) int {
		return cmp.Or(cmp.Compare(r.categories[b], r.categories[a]), strings.Compare(a, b))
	})

	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %-24s %10s", "Category", "Tracked")),
		mutedStyle.Render("  " + strings.Repeat("─", min(w-6, 36))),
	}
	for _, name := range names {
		rows = append(rows, fmt.Sprintf("  %-24s %10s", name, formatDuration(r.categories[name])))
	}
	return strings.Join(rows, "\n")
}
