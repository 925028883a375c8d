package schedule

import (
	"slices"
	"strings"
	"time"
)

// Weekdays are the fixed keys of a week schedule, Monday first.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayName returns the schedule key for d.
func WeekdayName(d time.Weekday) string {
	return d.String()
}

// NormalizeWeekday maps a case-insensitive weekday name to its schedule key.
func NormalizeWeekday(name string) (string, bool) {
	for _, d := range Weekdays {
		if strings.EqualFold(d, strings.TrimSpace(name)) {
			return d, true
		}
	}
	return "", false
}

// DaySchedule holds a weekday's fixed windows for sleep, meals and free time.
type DaySchedule struct {
	Day        string      `json:"day"`
	Active     bool        `json:"isActive"`
	Sleep      TimeFrame   `json:"sleepTime"`
	MealBreaks []TimeFrame `json:"mealBreaks"`
	FreeTimes  []TimeFrame `json:"freeTimes"`
}

// DefaultDaySchedule is the structural default used when a day has no schedule yet.
func DefaultDaySchedule(day string) DaySchedule {
	return DaySchedule{
		Day:    day,
		Active: true,
		Sleep:  Frame(22, 0, 7, 0),
		MealBreaks: []TimeFrame{
			Frame(8, 0, 8, 30),
			Frame(12, 0, 13, 0),
			Frame(18, 0, 19, 0),
		},
		FreeTimes: []TimeFrame{
			Frame(19, 0, 22, 0),
		},
	}
}

// DefaultWeek returns a default schedule for each of the seven weekdays.
func DefaultWeek() map[string]DaySchedule {
	week := make(map[string]DaySchedule, len(Weekdays))
	for _, d := range Weekdays {
		week[d] = DefaultDaySchedule(d)
	}
	return week
}

// FreeDuration sums the free-time windows. Inactive days have none.
func (d DaySchedule) FreeDuration() time.Duration {
	if !d.Active {
		return 0
	}
	var total time.Duration
	for _, f := range d.FreeTimes {
		total += f.Duration()
	}
	return total
}

// Busy reports whether t falls inside sleep or a meal break.
func (d DaySchedule) Busy(t TimeOfDay) bool {
	if d.Sleep.Contains(t) {
		return true
	}
	for _, m := range d.MealBreaks {
		if m.Contains(t) {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with d.
func (d DaySchedule) Clone() DaySchedule {
	d.MealBreaks = slices.Clone(d.MealBreaks)
	d.FreeTimes = slices.Clone(d.FreeTimes)
	return d
}
