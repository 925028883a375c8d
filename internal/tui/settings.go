package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/u7wells/flowo/internal/schedule"
	"github.com/u7wells/flowo/internal/settings"
)

var dateFormats = []string{"DD-MM-YYYY", "MM-DD-YYYY", "YYYY-MM-DD"}

var accentColors = []struct {
	name string
	rgb  int64
}{
	{"Blue", settings.ColorBlue},
	{"Green", settings.ColorGreen},
	{"Purple", 0x6C63FF},
	{"Coral", 0xFF6B6B},
	{"Orange", 0xF39C12},
}

// settingsFields holds form values behind a pointer so they survive value
// copies of the model.
type settingsFields struct {
	name         string
	goal         string
	minSession   string
	breakTime    string
	theme        settings.AppTheme
	notification settings.NotificationType
	is24Hour     bool
	dateFormat   string
	accent       int64

	dayActive bool
	sleep     string
	meals     string
	free      string
}

type settingsModel struct {
	prefs  *settings.Store
	width  int
	height int

	dayCursor int

	formActive bool
	form       *huh.Form
	editingDay string // day schedule form when set
	onboarding bool
	fields     *settingsFields
}

func newSettingsModel(prefs *settings.Store) settingsModel {
	return settingsModel{
		prefs:  prefs,
		fields: &settingsFields{},
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func settingsChanged() tea.Msg { return settingsChangedMsg{} }

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return s.updateKeys(msg)
	}
	return s, nil
}

func (s settingsModel) updateKeys(msg tea.KeyMsg) (settingsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
		return s.showForm()
	case key.Matches(msg, keys.Up):
		if s.dayCursor > 0 {
			s.dayCursor--
		}
	case key.Matches(msg, keys.Down):
		if s.dayCursor < len(schedule.Weekdays)-1 {
			s.dayCursor++
		}
	case key.Matches(msg, keys.Schedule):
		return s.showDayForm(schedule.Weekdays[s.dayCursor])
	case key.Matches(msg, keys.Pause):
		day := schedule.Weekdays[s.dayCursor]
		active := make(map[string]bool, len(schedule.Weekdays))
		u := s.prefs.Settings()
		for _, d := range schedule.Weekdays {
			active[d] = u.Schedule(d).Active
		}
		active[day] = !active[day]
		s.prefs.UpdateActiveDays(active)
		return s, settingsChanged
	}
	return s, nil
}

// showOnboarding opens the preferences form for a first run.
func (s settingsModel) showOnboarding() (settingsModel, tea.Cmd) {
	s, cmd := s.showForm()
	s.onboarding = true
	return s, cmd
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	u := s.prefs.Settings()
	p := s.prefs.Profile()
	f := s.fields
	*f = settingsFields{
		name:         p.Name,
		goal:         p.Goal,
		minSession:   strconv.Itoa(int(u.MinSession.Minutes())),
		breakTime:    strconv.Itoa(int(u.BreakTime.Minutes())),
		theme:        u.ThemeMode,
		notification: u.DefaultNotificationType,
		is24Hour:     u.Is24HourFormat,
		dateFormat:   u.DateFormat,
		accent:       u.CustomColor,
	}
	s.editingDay = ""

	colorOptions := make([]huh.Option[int64], len(accentColors))
	for i, c := range accentColors {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%06X", c.rgb))).Render("●")
		colorOptions[i] = huh.NewOption(dot+" "+c.name, c.rgb)
	}
	dateOptions := make([]huh.Option[string], len(dateFormats))
	for i, d := range dateFormats {
		dateOptions[i] = huh.NewOption(d, d)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&f.name),
			huh.NewInput().Title("Goal").Value(&f.goal),
		).Title("Profile"),
		huh.NewGroup(
			huh.NewInput().Title("Work session (min)").Value(&f.minSession).Validate(validMinutes),
			huh.NewInput().Title("Break (min)").Value(&f.breakTime).Validate(validMinutes),
			huh.NewSelect[settings.NotificationType]().Title("Reminders").
				Options(
					huh.NewOption("Push", settings.NotifyPush),
					huh.NewOption("Email", settings.NotifyEmail),
					huh.NewOption("SMS", settings.NotifySMS),
					huh.NewOption("None", settings.NotifyNone),
				).Value(&f.notification),
		).Title("Focus"),
		huh.NewGroup(
			huh.NewSelect[settings.AppTheme]().Title("Theme").
				Options(
					huh.NewOption("System", settings.ThemeSystem),
					huh.NewOption("Light", settings.ThemeLight),
					huh.NewOption("Dark", settings.ThemeDark),
				).Value(&f.theme),
			huh.NewSelect[int64]().Title("Accent color").Options(colorOptions...).Value(&f.accent),
			huh.NewConfirm().Title("24-hour clock").Value(&f.is24Hour),
			huh.NewSelect[string]().Title("Date format").Options(dateOptions...).Value(&f.dateFormat),
		).Title("Display"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) showDayForm(day string) (settingsModel, tea.Cmd) {
	ds := s.prefs.Settings().Schedule(day)
	f := s.fields
	*f = settingsFields{
		dayActive: ds.Active,
		sleep:     ds.Sleep.String(),
		meals:     formatFrames(ds.MealBreaks),
		free:      formatFrames(ds.FreeTimes),
	}
	s.editingDay = day

	validFrames := func(v string) error {
		_, err := parseFrames(v)
		return err
	}
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title("Working day").Value(&f.dayActive),
			huh.NewInput().Title("Sleep (HH:MM-HH:MM)").Value(&f.sleep).
				Validate(func(v string) error {
					_, err := parseFrame(v)
					return err
				}),
			huh.NewInput().Title("Meal breaks (comma-separated)").Value(&f.meals).Validate(validFrames),
			huh.NewInput().Title("Free time (comma-separated)").Value(&f.free).Validate(validFrames),
		).Title(day),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" && !s.onboarding {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if s.editingDay != "" {
			return s, s.saveDay()
		}
		s.saveSettings()
		if s.onboarding {
			s.onboarding = false
			s.prefs.CompleteOnboarding()
		}
		return s, settingsChanged
	}

	return s, cmd
}

func (s settingsModel) saveSettings() {
	f := s.fields
	minSession, _ := parseMinutes(f.minSession)
	breakTime, _ := parseMinutes(f.breakTime)
	u := s.prefs.Settings()

	s.prefs.UpdateUserSettings(
		settings.WithMinSession(minSession),
		settings.WithBreakTime(breakTime),
		settings.WithNotificationType(f.notification),
		settings.WithTheme(f.theme),
	)
	s.prefs.UpdateDateTimeFormat(f.is24Hour, f.dateFormat, u.MonthFormat)
	s.prefs.UpdateCustomColor(f.accent)
	s.prefs.UpdateUserProfile(
		settings.ProfileName(strings.TrimSpace(f.name)),
		settings.ProfileGoal(strings.TrimSpace(f.goal)),
	)
}

func (s settingsModel) saveDay() tea.Cmd {
	f := s.fields
	sleep, err := parseFrame(f.sleep)
	if err != nil {
		return statusError(err)
	}
	meals, err := parseFrames(f.meals)
	if err != nil {
		return statusError(err)
	}
	free, err := parseFrames(f.free)
	if err != nil {
		return statusError(err)
	}
	s.prefs.UpdateDaySchedule(s.editingDay,
		settings.DayActive(f.dayActive),
		settings.DaySleep(sleep),
		settings.DayMealBreaks(meals),
		settings.DayFreeTimes(free),
	)
	return tea.Batch(settingsChanged, status("Saved %s", s.editingDay))
}

func validMinutes(v string) error {
	d, err := parseMinutes(v)
	if err != nil {
		return err
	}
	if d <= 0 {
		return fmt.Errorf("must be at least one minute")
	}
	return nil
}

// parseFrame parses "HH:MM-HH:MM".
func parseFrame(v string) (schedule.TimeFrame, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(v), "-")
	if !ok {
		return schedule.TimeFrame{}, fmt.Errorf("%q is not HH:MM-HH:MM", v)
	}
	start, err := schedule.ParseTimeOfDay(strings.TrimSpace(from))
	if err != nil {
		return schedule.TimeFrame{}, err
	}
	end, err := schedule.ParseTimeOfDay(strings.TrimSpace(to))
	if err != nil {
		return schedule.TimeFrame{}, err
	}
	return schedule.TimeFrame{Start: start, End: end}, nil
}

func parseFrames(v string) ([]schedule.TimeFrame, error) {
	frames := []schedule.TimeFrame{}
	for part := range strings.SplitSeq(v, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := parseFrame(part)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func formatFrames(frames []schedule.TimeFrame) string {
	parts := make([]string, len(frames))
	for i, f := range frames {
		parts[i] = f.String()
	}
	return strings.Join(parts, ", ")
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		if s.onboarding {
			title = titleStyle.Render("Welcome to flowo")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	u := s.prefs.Settings()
	p := s.prefs.Profile()

	clock := "12-hour"
	if u.Is24HourFormat {
		clock = "24-hour"
	}
	pairs := [][2]string{
		{"Name", p.Name},
		{"Goal", p.Goal},
		{"Work session", fmt.Sprintf("%d min", int(u.MinSession.Minutes()))},
		{"Break", fmt.Sprintf("%d min", int(u.BreakTime.Minutes()))},
		{"Reminders", string(u.DefaultNotificationType)},
		{"Theme", string(u.ThemeMode)},
		{"Clock", clock},
		{"Date format", u.DateFormat},
	}

	rows := []string{title, ""}
	for _, kv := range pairs {
		label := lipgloss.NewStyle().Width(24).Render(kv[0])
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(kv[1])))
	}

	rows = append(rows, "", titleStyle.Render("Week"))
	for i, day := range schedule.Weekdays {
		ds := u.Schedule(day)
		cursor := "  "
		style := normalItemStyle
		if i == s.dayCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		state := successStyle.Render("on ")
		if !ds.Active {
			state = mutedStyle.Render("off")
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-10s", cursor, day))+" "+state+
			mutedStyle.Render(fmt.Sprintf("  sleep %s  free %s", ds.Sleep, formatHours(ds.FreeDuration()))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: edit preferences  ↑/↓: day  w: edit day  space: toggle day"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// reminderLead is how far ahead the dashboard looks for reminders when
// notifications are off.
func reminderLead(u settings.UserSettings, horizon time.Duration) time.Duration {
	if u.DefaultNotificationType == settings.NotifyNone {
		return 0
	}
	return horizon
}
