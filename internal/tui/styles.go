package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/u7wells/flowo/internal/planner"
)

// Color palette
var (
	colorPrimary   = lipgloss.Color("#007AFF")
	colorSecondary = lipgloss.Color("#34C759")
	colorAccent    = lipgloss.Color("#FF6B6B")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#2ECC71")
	colorWarning   = lipgloss.Color("#F39C12")
	colorError     = lipgloss.Color("#E74C3C")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#414868")
	colorHighlight = lipgloss.Color("#7AA2F7")
)

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	// Timer
	timerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Align(lipgloss.Center)

	timerRunningStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorSuccess).
				Align(lipgloss.Center)

	timerPausedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWarning).
				Align(lipgloss.Center)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	accentStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	// Calendar cells
	dayStyle = lipgloss.NewStyle().
			Width(5).
			Align(lipgloss.Center)

	selectedDayStyle = dayStyle.
				Reverse(true).
				Bold(true)

	outsideDayStyle = dayStyle.
			Foreground(colorSubtle)
)

// applyAccent recolors the accented styles with a 0xRRGGBB user color.
func applyAccent(rgb int64) {
	colorPrimary = lipgloss.Color(fmt.Sprintf("#%06X", rgb&0xFFFFFF))
	activeTabStyle = activeTabStyle.Foreground(colorPrimary).BorderForeground(colorPrimary)
	activePanelStyle = activePanelStyle.BorderForeground(colorPrimary)
	timerStyle = timerStyle.Foreground(colorPrimary)
	selectedItemStyle = selectedItemStyle.Foreground(colorPrimary)
}

func priorityStyle(p planner.Priority) lipgloss.Style {
	switch p {
	case planner.PriorityHigh:
		return errorStyle
	case planner.PriorityLow:
		return mutedStyle
	}
	return warningStyle
}
