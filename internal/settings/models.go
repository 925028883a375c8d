package settings

import (
	"maps"
	"slices"
	"time"

	"github.com/u7wells/flowo/internal/schedule"
)

type NotificationType string

const (
	NotifyPush  NotificationType = "push"
	NotifyEmail NotificationType = "email"
	NotifySMS   NotificationType = "sms"
	NotifyNone  NotificationType = "none"
)

func (n NotificationType) Valid() bool {
	switch n {
	case NotifyPush, NotifyEmail, NotifySMS, NotifyNone:
		return true
	}
	return false
}

type AppTheme string

const (
	ThemeSystem AppTheme = "system"
	ThemeLight  AppTheme = "light"
	ThemeDark   AppTheme = "dark"
)

func (t AppTheme) Valid() bool {
	return t == ThemeSystem || t == ThemeLight || t == ThemeDark
}

// Colors are 0xRRGGBB values.
const (
	ColorBlue  int64 = 0x007AFF
	ColorGreen int64 = 0x34C759
)

// UserSettings holds the global preferences and the week's day schedules.
type UserSettings struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`

	MinSession time.Duration `json:"minSession"`
	BreakTime  time.Duration `json:"breakTime"`

	// Legacy flat windows; the per-day schedules supersede them.
	MealBreaks []schedule.TimeFrame `json:"mealBreaks"`
	SleepTime  []schedule.TimeFrame `json:"sleepTime"`
	FreeTime   []schedule.TimeFrame `json:"freeTime"`

	ActiveDays   map[string]bool                 `json:"activeDays"`
	DaySchedules map[string]schedule.DaySchedule `json:"daySchedules"`

	DefaultNotificationType NotificationType `json:"defaultNotificationType"`
	DateFormat              string           `json:"dateFormat"`
	MonthFormat             string           `json:"monthFormat"`
	Is24HourFormat          bool             `json:"is24HourFormat"`

	ThemeMode              AppTheme `json:"themeMode"`
	CustomColor            int64    `json:"customColorValue"`
	SecondaryColor         int64    `json:"secondaryColorValue"`
	ColorIntensity         float64  `json:"colorIntensity"`
	NoiseLevel             float64  `json:"noiseLevel"`
	UseGradient            bool     `json:"useGradient"`
	GradientStartAlignment string   `json:"gradientStartAlignment"`
	GradientEndAlignment   string   `json:"gradientEndAlignment"`
	UseDynamicColors       bool     `json:"useDynamicColors"`

	TextSizeAdjustment float64 `json:"textSizeAdjustment"`
	ReduceMotion       bool    `json:"reduceMotion"`
	HighContrastMode   bool    `json:"highContrastMode"`
}

// Schedule returns the schedule for day, or the default one when none is set.
func (u UserSettings) Schedule(day string) schedule.DaySchedule {
	if d, ok := u.DaySchedules[day]; ok {
		return d.Clone()
	}
	return schedule.DefaultDaySchedule(day)
}

func (u UserSettings) clone() UserSettings {
	c := u
	c.MealBreaks = slices.Clone(u.MealBreaks)
	c.SleepTime = slices.Clone(u.SleepTime)
	c.FreeTime = slices.Clone(u.FreeTime)
	c.ActiveDays = maps.Clone(u.ActiveDays)
	if u.DaySchedules != nil {
		c.DaySchedules = make(map[string]schedule.DaySchedule, len(u.DaySchedules))
		for k, v := range u.DaySchedules {
			c.DaySchedules[k] = v.Clone()
		}
	}
	return c
}

type UserProfile struct {
	ID                  string `json:"id,omitempty"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	Goal                string `json:"goal,omitempty"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
}

// Accessibility is a partial update: nil members are left as they are.
type Accessibility struct {
	TextSizeAdjustment *float64
	ReduceMotion       *bool
	HighContrastMode   *bool
}

// Default returns the settings a new user starts with.
func Default() UserSettings {
	active := make(map[string]bool, len(schedule.Weekdays))
	for _, d := range schedule.Weekdays {
		active[d] = true
	}
	return UserSettings{
		Name:                    "Default",
		MinSession:              15 * time.Minute,
		BreakTime:               15 * time.Minute,
		MealBreaks:              []schedule.TimeFrame{},
		SleepTime:               []schedule.TimeFrame{schedule.Frame(22, 0, 7, 0)},
		FreeTime:                []schedule.TimeFrame{},
		ActiveDays:              active,
		DaySchedules:            schedule.DefaultWeek(),
		DefaultNotificationType: NotifyPush,
		DateFormat:              "DD-MM-YYYY",
		MonthFormat:             "numeric",
		Is24HourFormat:          true,
		ThemeMode:               ThemeSystem,
		CustomColor:             ColorBlue,
		SecondaryColor:          ColorGreen,
		ColorIntensity:          1.0,
		UseDynamicColors:        true,
		GradientStartAlignment:  "topLeft",
		GradientEndAlignment:    "bottomRight",
	}
}

func DefaultProfile() UserProfile {
	return UserProfile{
		Name:  "User",
		Email: "user@example.com",
	}
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
