package schedule

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock point without a date.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// At builds a TimeOfDay, normalising minutes past the hour into the range of one day.
func At(hour, minute int) TimeOfDay {
	m := ((hour*60+minute)%minutesPerDay + minutesPerDay) % minutesPerDay
	return TimeOfDay{Hour: m / 60, Minute: m % 60}
}

// ParseTimeOfDay parses "HH:MM" in 24-hour form.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.Minutes() < o.Minutes()
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Format renders the time in 24-hour or 12-hour form.
func (t TimeOfDay) Format(is24Hour bool) string {
	if is24Hour {
		return t.String()
	}
	h := t.Hour % 12
	if h == 0 {
		h = 12
	}
	suffix := "AM"
	if t.Hour >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", h, t.Minute, suffix)
}

// On places the time of day on the calendar date of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, day.Location())
}

// TimeFrame is an interval between two times of day. An End before Start
// wraps past midnight (a sleep window of 22:00-07:00 is nine hours).
type TimeFrame struct {
	Start TimeOfDay `json:"startTime"`
	End   TimeOfDay `json:"endTime"`
}

// Frame is shorthand for a TimeFrame between two hour:minute pairs.
func Frame(startHour, startMinute, endHour, endMinute int) TimeFrame {
	return TimeFrame{Start: At(startHour, startMinute), End: At(endHour, endMinute)}
}

func (f TimeFrame) Overnight() bool {
	return f.End.Before(f.Start)
}

func (f TimeFrame) Duration() time.Duration {
	mins := f.End.Minutes() - f.Start.Minutes()
	if mins < 0 {
		mins += minutesPerDay
	}
	return time.Duration(mins) * time.Minute
}

// Contains reports whether t lies in [Start, End).
func (f TimeFrame) Contains(t TimeOfDay) bool {
	m := t.Minutes()
	if f.Overnight() {
		return m >= f.Start.Minutes() || m < f.End.Minutes()
	}
	return m >= f.Start.Minutes() && m < f.End.Minutes()
}

func (f TimeFrame) String() string {
	return f.Start.String() + "-" + f.End.String()
}
