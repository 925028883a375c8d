package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/u7wells/flowo/internal/planner"
)

func ToCSV(tasks []planner.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	// Header
	if err := w.Write([]string{"Session", "Task", "Category", "Start", "End", "Duration (s)", "Duration"}); err != nil {
		return err
	}

	for _, r := range SessionRows(tasks) {
		endStr := ""
		if r.End != nil {
			endStr = r.End.Local().Format(time.RFC3339)
		}
		row := []string{
			r.SessionID,
			r.Task,
			r.Category,
			r.Start.Local().Format(time.RFC3339),
			endStr,
			fmt.Sprintf("%d", int64(r.Duration/time.Second)),
			formatDuration(r.Duration),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
