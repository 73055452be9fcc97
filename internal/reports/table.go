package reports

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

// FormatDailyTable renders a daily report as an aligned terminal table.
func FormatDailyTable(r *DailyReport) string {
	var b strings.Builder
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	fmt.Fprintf(&b, "%s\n", bold.Sprintf("Daily Plan — %s (%s)", r.DayKey, r.Weekday))

	if r.Progress.Total == 0 {
		b.WriteString(faint.Sprint("no tasks scheduled") + "\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%d/%d tasks done (%.0f%%)\n", r.Progress.Done, r.Progress.Total, r.Progress.Ratio*100)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Category"), bold.Sprint(""), bold.Sprint("Time"), bold.Sprint("Task"), bold.Sprint("Note"))
	for _, ct := range r.Categories {
		if ct.Total == 0 {
			continue
		}
		label := fmt.Sprintf("%s %s", ct.Category.Emoji, ct.Category.Label)
		for i, t := range ct.Tasks {
			cat := ""
			if i == 0 {
				cat = label
			}
			mark := "[ ]"
			if t.Done {
				mark = "[x]"
			}
			tbl.AddRow(cat, mark, t.Time, t.Text, faint.Sprint(t.Note))
		}
	}
	b.WriteString(tbl.String())
	b.WriteString("\n")

	return b.String()
}

// FormatYearTable renders a year report as an aligned terminal table.
func FormatYearTable(r *YearReport) string {
	var b strings.Builder
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	fmt.Fprintf(&b, "%s\n", bold.Sprintf("Projects — %d", r.Year))

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Category"), bold.Sprint("Project"), bold.Sprint("Months"), bold.Sprint("Progress"), bold.Sprint("Note"))

	rows := 0
	for _, g := range r.Groups {
		if len(g.Projects) == 0 {
			continue
		}
		label := fmt.Sprintf("%s %s", g.Category.Emoji, g.Category.Label)
		for i, p := range g.Projects {
			cat := ""
			if i == 0 {
				cat = label
			}
			tbl.AddRow(cat, p.Name, monthSpan(p.StartMonth, p.EndMonth), progressBar(p.Progress), faint.Sprint(p.Note))
			rows++
		}
		tbl.AddRow(faint.Sprintf("  avg %d%% · %d project(s)", g.Summary.AvgProgress, g.Summary.Count), "", "", "", "")
	}

	if rows == 0 {
		b.WriteString(faint.Sprint("no projects yet") + "\n")
		return b.String()
	}

	b.WriteString(tbl.String())
	b.WriteString("\n")

	return b.String()
}

// progressBar renders a 10-cell bar like "██████░░░░ 60%".
func progressBar(pct int) string {
	filled := pct / 10
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled) + fmt.Sprintf(" %d%%", pct)
}
