package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/u7wells/flowo/internal/planner"
)

type jsonExport struct {
	ExportedAt string         `json:"exported_at"`
	Count      int            `json:"count"`
	Sessions   []jsonSession  `json:"sessions"`
	Totals     map[string]int `json:"category_totals_seconds,omitempty"`
}

type jsonSession struct {
	ID          string `json:"id"`
	TaskID      string `json:"task_id"`
	Task        string `json:"task"`
	Category    string `json:"category"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time,omitempty"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
}

func ToJSON(tasks []planner.Task, path string) error {
	rows := SessionRows(tasks)
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(rows),
	}

	for _, r := range rows {
		endStr := ""
		if r.End != nil {
			endStr = r.End.Local().Format(time.RFC3339)
		}
		export.Sessions = append(export.Sessions, jsonSession{
			ID:          r.SessionID,
			TaskID:      r.TaskID,
			Task:        r.Task,
			Category:    r.Category,
			StartTime:   r.Start.Local().Format(time.RFC3339),
			EndTime:     endStr,
			DurationSec: int64(r.Duration / time.Second),
			Duration:    formatDuration(r.Duration),
		})
	}

	for name, d := range planner.TimeByCategory(tasks) {
		if export.Totals == nil {
			export.Totals = make(map[string]int)
		}
		export.Totals[name] = int(d / time.Second)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
