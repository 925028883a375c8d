package settings

import (
	"slices"
	"time"

	"github.com/u7wells/flowo/internal/schedule"
)

// SettingsOption changes one field of UserSettings. A nil option is skipped.
type SettingsOption func(*UserSettings)

func WithName(name string) SettingsOption {
	return func(u *UserSettings) {
		u.Name = name
	}
}

// WithMinSession ignores non-positive lengths.
func WithMinSession(d time.Duration) SettingsOption {
	if d <= 0 {
		return nil
	}
	return func(u *UserSettings) {
		u.MinSession = d
	}
}

func WithBreakTime(d time.Duration) SettingsOption {
	if d <= 0 {
		return nil
	}
	return func(u *UserSettings) {
		u.BreakTime = d
	}
}

func WithNotificationType(n NotificationType) SettingsOption {
	if !n.Valid() {
		return nil
	}
	return func(u *UserSettings) {
		u.DefaultNotificationType = n
	}
}

func WithTheme(t AppTheme) SettingsOption {
	if !t.Valid() {
		return nil
	}
	return func(u *UserSettings) {
		u.ThemeMode = t
	}
}

func WithSecondaryColor(color int64) SettingsOption {
	return func(u *UserSettings) {
		u.SecondaryColor = color
	}
}

func WithGradientAlignment(start, end string) SettingsOption {
	return func(u *UserSettings) {
		u.GradientStartAlignment = start
		u.GradientEndAlignment = end
	}
}

// DayOption changes one field of a day schedule.
type DayOption func(*schedule.DaySchedule)

func DayActive(active bool) DayOption {
	return func(d *schedule.DaySchedule) {
		d.Active = active
	}
}

func DaySleep(f schedule.TimeFrame) DayOption {
	return func(d *schedule.DaySchedule) {
		d.Sleep = f
	}
}

func DayMealBreaks(frames []schedule.TimeFrame) DayOption {
	return func(d *schedule.DaySchedule) {
		d.MealBreaks = slices.Clone(frames)
	}
}

func DayFreeTimes(frames []schedule.TimeFrame) DayOption {
	return func(d *schedule.DaySchedule) {
		d.FreeTimes = slices.Clone(frames)
	}
}

// ProfileOption changes one field of UserProfile.
type ProfileOption func(*UserProfile)

func ProfileName(name string) ProfileOption {
	return func(p *UserProfile) {
		p.Name = name
	}
}

func ProfileEmail(email string) ProfileOption {
	return func(p *UserProfile) {
		p.Email = email
	}
}

func ProfileGoal(goal string) ProfileOption {
	return func(p *UserProfile) {
		p.Goal = goal
	}
}
