package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/u7wells/flowo/internal/planner"
	"github.com/u7wells/flowo/internal/schedule"
)

func sampleData() []planner.Task {
	now := time.Now().UTC().Truncate(time.Second)
	end := now
	deadline := now.Add(2 * time.Hour)

	return []planner.Task{
		{
			ID:       "t1",
			Title:    "Write report",
			Priority: planner.PriorityHigh,
			Deadline: &deadline,
			Category: planner.Category{ID: "c1", Name: "Work"},
			Sessions: []planner.Session{
				{ID: "s1", TaskID: "t1", StartTime: now.Add(-time.Hour), EndTime: &end, Duration: time.Hour},
				{ID: "s3", TaskID: "t1", StartTime: now.Add(-10 * time.Minute), Active: true},
			},
			TotalDuration: time.Hour,
		},
		{
			ID:    "t2",
			Title: "Read",
			Sessions: []planner.Session{
				{ID: "s2", TaskID: "t2", StartTime: now.Add(-30 * time.Minute), EndTime: &end, Duration: 30 * time.Minute},
			},
			TotalDuration: 30 * time.Minute,
			ScheduledTasks: []planner.ScheduledTask{
				{ID: "p1", TaskID: "t2", Date: now, Start: schedule.At(9, 0), End: schedule.At(10, 0)},
			},
		},
	}
}

// ============================================================
// Rows
// ============================================================

func TestSessionRowsOrdered(t *testing.T) {
	rows := SessionRows(sampleData())
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	got := []string{rows[0].SessionID, rows[1].SessionID, rows[2].SessionID}
	if strings.Join(got, ",") != "s1,s2,s3" {
		t.Fatalf("rows not ordered by start: %v", got)
	}
	if rows[1].Category != planner.Uncategorized {
		t.Fatalf("Category = %q, want %q", rows[1].Category, planner.Uncategorized)
	}
	if !rows[2].Running() {
		t.Fatal("active session should be running")
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	err := ToCSV(sampleData(), path)
	if err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 3 data rows
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}
	if records[0][0] != "Session" || records[0][6] != "Duration" {
		t.Fatalf("unexpected header: %v", records[0])
	}

	row := records[1]
	if row[0] != "s1" {
		t.Fatalf("Session = %q, want s1", row[0])
	}
	if row[1] != "Write report" {
		t.Fatalf("Task = %q, want Write report", row[1])
	}
	if row[2] != "Work" {
		t.Fatalf("Category = %q, want Work", row[2])
	}
	if row[5] != "3600" {
		t.Fatalf("Duration (s) = %q, want 3600", row[5])
	}
	if row[6] != "01:00:00" {
		t.Fatalf("Duration = %q, want 01:00:00", row[6])
	}

	// Running session has an empty end time
	if records[3][4] != "" {
		t.Fatalf("running session should have empty end time, got %q", records[3][4])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, _ := csv.NewReader(f).ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	now := time.Now()
	end := now
	tasks := []planner.Task{{
		ID:       "t",
		Title:    `Task "Special", really`,
		Sessions: []planner.Session{{ID: "s", StartTime: now, EndTime: &end}},
	}}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(tasks, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("CSV should be valid even with special chars: %v", err)
	}
	if records[1][1] != `Task "Special", really` {
		t.Fatalf("task title mangled: %q", records[1][1])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(sampleData(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 3 {
		t.Fatalf("count = %d, want 3", result.Count)
	}
	if len(result.Sessions) != 3 {
		t.Fatalf("sessions = %d, want 3", len(result.Sessions))
	}
	if result.ExportedAt == "" {
		t.Fatal("exported_at should not be empty")
	}

	s := result.Sessions[0]
	if s.ID != "s1" || s.TaskID != "t1" {
		t.Fatalf("unexpected first session: %+v", s)
	}
	if s.DurationSec != 3600 {
		t.Fatalf("DurationSec = %d, want 3600", s.DurationSec)
	}
	if result.Sessions[2].EndTime != "" {
		t.Fatalf("running session end_time should be empty, got %q", result.Sessions[2].EndTime)
	}

	if result.Totals["Work"] != 3600 || result.Totals[planner.Uncategorized] != 1800 {
		t.Fatalf("unexpected category totals: %v", result.Totals)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Sessions != nil {
		t.Fatal("sessions should be nil/null for empty export")
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(nil, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("JSON should be pretty-printed with indentation")
	}
}

// ============================================================
// PDF
// ============================================================

func TestToPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agenda.pdf")

	if err := ToPDF(sampleData(), time.Now().UTC(), path); err != nil {
		t.Fatalf("ToPDF: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("not a PDF: %q", data[:min(len(data), 8)])
	}
}

func TestToPDFEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	if err := ToPDF(nil, time.Now(), path); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Fatalf("expected a non-empty file: %v", err)
	}
}

func TestToPDFBadPath(t *testing.T) {
	if err := ToPDF(nil, time.Now(), "/nonexistent/dir/agenda.pdf"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// formatDuration (internal helper)
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{time.Second, "00:00:01"},
		{time.Minute, "00:01:00"},
		{time.Hour, "01:00:00"},
		{time.Hour + time.Minute + time.Second, "01:01:01"},
		{24 * time.Hour, "24:00:00"},
		{25*time.Hour + time.Minute + time.Second + 400*time.Millisecond, "25:01:01"},
	}

	for _, tt := range tests {
		got := formatDuration(tt.d)
		if got != tt.want {
			t.Errorf("formatDuration(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
