package export

import (
	"fmt"
	"slices"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/u7wells/flowo/internal/planner"
)

const pdfFont = "Helvetica"

// agenda renders one day on a single A4 page with the core fonts.
type agenda struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// ToPDF writes the agenda for day: overdue, due today and tomorrow, the
// occurrences scheduled on day and the time tracked on it.
func ToPDF(tasks []planner.Task, day time.Time, path string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Agenda "+day.Format(time.DateOnly), false)
	pdf.SetAuthor("flowo", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	a := &agenda{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.AddPage()
	pdf.SetFont(pdfFont, "B", 18)
	pdf.CellFormat(0, 10, "Agenda", "", 1, "C", false, 0, "")
	pdf.SetFont(pdfFont, "", 12)
	pdf.CellFormat(0, 7, day.Format("Monday, 02 January 2006"), "", 1, "C", false, 0, "")
	a.hr()

	b := planner.Partition(tasks, day)
	a.section("Overdue", b.Overdue, day)
	a.section("Today", b.Today, day)
	a.section("Tomorrow", b.Tomorrow, day)

	a.sectionTitle("Scheduled")
	var planned []scheduledLine
	for _, t := range tasks {
		for _, st := range t.ScheduledTasks {
			if planner.SameDay(st.Date, day) {
				planned = append(planned, scheduledLine{task: t.Title, st: st})
			}
		}
	}
	slices.SortFunc(planned, func(x, y scheduledLine) int {
		return x.st.Start.Minutes() - y.st.Start.Minutes()
	})
	if len(planned) == 0 {
		a.line("Nothing scheduled.")
	}
	for _, p := range planned {
		mark := ""
		if p.st.Completed {
			mark = " (done)"
		}
		a.kvLine(p.st.Start.String()+"-"+p.st.End.String(), p.task+mark)
	}
	a.hr()

	from := planner.StartOfDay(day)
	var tracked time.Duration
	for _, d := range planner.DailyTotals(tasks, from, from.AddDate(0, 0, 1)) {
		tracked += d
	}
	a.kvLine("Tracked", formatDuration(tracked))

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf file: %w", err)
	}
	return nil
}

type scheduledLine struct {
	task string
	st   planner.ScheduledTask
}

func (a *agenda) section(title string, tasks []planner.Task, day time.Time) {
	a.sectionTitle(fmt.Sprintf("%s (%d)", title, len(tasks)))
	for _, t := range planner.Sorted(tasks) {
		due := t.Deadline.In(day.Location()).Format("Jan 02 15:04")
		a.kvLine(due, fmt.Sprintf("[%s] %s", t.Priority, t.Title))
	}
	a.hr()
}

func (a *agenda) sectionTitle(s string) {
	a.pdf.SetFont(pdfFont, "B", 12)
	a.pdf.CellFormat(0, 7, a.tr(s), "", 1, "L", false, 0, "")
	a.pdf.SetFont(pdfFont, "", 11)
}

func (a *agenda) kvLine(key, val string) {
	a.pdf.SetFont(pdfFont, "B", 11)
	a.pdf.CellFormat(45, 6, a.tr(key), "", 0, "L", false, 0, "")
	a.pdf.SetFont(pdfFont, "", 11)
	a.pdf.CellFormat(0, 6, a.tr(val), "", 1, "L", false, 0, "")
}

func (a *agenda) line(s string) {
	a.pdf.SetFont(pdfFont, "I", 11)
	a.pdf.CellFormat(0, 6, a.tr(s), "", 1, "L", false, 0, "")
	a.pdf.SetFont(pdfFont, "", 11)
}

func (a *agenda) hr() {
	y := a.pdf.GetY() + 1.5
	a.pdf.SetLineWidth(0.2)
	a.pdf.Line(20, y, 190, y)
	a.pdf.SetY(y + 2)
}
