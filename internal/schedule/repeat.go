package schedule

import (
	"slices"
	"time"
)

type RepeatType string

const (
	RepeatDaily   RepeatType = "daily"
	RepeatWeekly  RepeatType = "weekly"
	RepeatMonthly RepeatType = "monthly"
	RepeatYearly  RepeatType = "yearly"
)

// RepeatRule describes how a task recurs.
type RepeatRule struct {
	Type       RepeatType     `json:"type"`
	Interval   int            `json:"interval"`
	EndDate    *time.Time     `json:"endDate,omitempty"`
	DaysOfWeek []time.Weekday `json:"daysOfWeek,omitempty"`
}

func (r RepeatRule) Valid() bool {
	switch r.Type {
	case RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly:
	default:
		return false
	}
	for _, d := range r.DaysOfWeek {
		if d < time.Sunday || d > time.Saturday {
			return false
		}
	}
	return r.Interval >= 0
}

// Next returns the first occurrence strictly after from. The second result
// is false when the rule is invalid or the occurrence would fall after EndDate.
func (r RepeatRule) Next(from time.Time) (time.Time, bool) {
	if !r.Valid() {
		return time.Time{}, false
	}
	interval := r.Interval
	if interval == 0 {
		interval = 1
	}

	var next time.Time
	switch r.Type {
	case RepeatDaily:
		next = from.AddDate(0, 0, interval)
	case RepeatWeekly:
		next = r.nextWeekly(from, interval)
	case RepeatMonthly:
		next = from.AddDate(0, interval, 0)
	case RepeatYearly:
		next = from.AddDate(interval, 0, 0)
	}

	if r.EndDate != nil && next.After(*r.EndDate) {
		return time.Time{}, false
	}
	return next, true
}

func (r RepeatRule) nextWeekly(from time.Time, interval int) time.Time {
	if len(r.DaysOfWeek) == 0 {
		return from.AddDate(0, 0, 7*interval)
	}
	for i := 1; i <= 7; i++ {
		candidate := from.AddDate(0, 0, i)
		if !slices.Contains(r.DaysOfWeek, candidate.Weekday()) {
			continue
		}
		// Wrapping into the following week skips interval-1 weeks.
		if candidate.Weekday() <= from.Weekday() && interval > 1 {
			candidate = candidate.AddDate(0, 0, 7*(interval-1))
		}
		return candidate
	}
	return from.AddDate(0, 0, 7*interval)
}
