package reports

import (
	"fmt"
	"strings"
	"time"
)

// FormatDailyMarkdown renders a daily report as Markdown.
func FormatDailyMarkdown(r *DailyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Daily Plan — %s (%s)\n\n", r.DayKey, r.Weekday)

	if r.Progress.Total == 0 {
		b.WriteString("_No tasks scheduled._\n")
		return b.String()
	}

	fmt.Fprintf(&b, "**Progress:** %d/%d tasks done (%.0f%%)\n",
		r.Progress.Done, r.Progress.Total, r.Progress.Ratio*100)

	for _, ct := range r.Categories {
		if ct.Total == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s %s (%d/%d)\n\n", ct.Category.Emoji, ct.Category.Label, ct.Done, ct.Total)
		for _, t := range ct.Tasks {
			mark := " "
			if t.Done {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s %s\n", mark, t.Time, t.Text)
			if t.Note != "" {
				fmt.Fprintf(&b, "  > %s\n", t.Note)
			}
		}
	}

	return b.String()
}

// FormatYearMarkdown renders a year report as Markdown.
func FormatYearMarkdown(r *YearReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Projects — %d\n", r.Year)

	empty := true
	for _, g := range r.Groups {
		if len(g.Projects) == 0 {
			continue
		}
		empty = false
		fmt.Fprintf(&b, "\n## %s %s — avg %d%% · %d project(s)\n\n",
			g.Category.Emoji, g.Category.Label, g.Summary.AvgProgress, g.Summary.Count)
		for _, p := range g.Projects {
			fmt.Fprintf(&b, "- **%s** (%s) — %d%%\n", p.Name, monthSpan(p.StartMonth, p.EndMonth), p.Progress)
			if p.Note != "" {
				fmt.Fprintf(&b, "  > %s\n", p.Note)
			}
		}
	}

	if empty {
		b.WriteString("\n_No projects yet._\n")
	}

	return b.String()
}

// monthSpan formats a month range like "Mar–Aug" ("May" for a single month).
func monthSpan(start, end int) string {
	if start == end {
		return monthAbbrev(start)
	}
	return monthAbbrev(start) + "–" + monthAbbrev(end)
}

func monthAbbrev(m int) string {
	if m < 1 || m > 12 {
		return "?"
	}
	return time.Month(m).String()[:3]
}
