package export

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/u7wells/flowo/internal/planner"
)

// SessionRow is one work session flattened with its task.
type SessionRow struct {
	SessionID string
	TaskID    string
	Task      string
	Category  string
	Start     time.Time
	End       *time.Time
	Duration  time.Duration
}

func (r SessionRow) Running() bool {
	return r.End == nil
}

// SessionRows lists every session of tasks, earliest start first. Running
// sessions are included with no end and zero duration.
func SessionRows(tasks []planner.Task) []SessionRow {
	var rows []SessionRow
	for _, t := range tasks {
		category := t.Category.Name
		if category == "" {
			category = planner.Uncategorized
		}
		for _, s := range t.Sessions {
			rows = append(rows, SessionRow{
				SessionID: s.ID,
				TaskID:    t.ID,
				Task:      t.Title,
				Category:  category,
				Start:     s.StartTime,
				End:       s.EndTime,
				Duration:  s.Duration,
			})
		}
	}
	slices.SortStableFunc(rows, func(a, b SessionRow) int {
		return cmp.Compare(a.Start.UnixNano(), b.Start.UnixNano())
	})
	return rows
}

func formatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
