// Package views computes the derived read models rendered by the UI and the
// report generator: day progress, the mini calendar grid, gantt month cells,
// and per-category project summaries. Everything here is a pure function of
// store state plus a day-key; nothing touches disk.
package views

import (
	"math"

	"haru/internal/dateutil"
	"haru/internal/storage"
)

// DayProgress summarizes completion across every category bucket of one day.
type DayProgress struct {
	Done  int
	Total int
	Ratio float64 // 0 when the day has no tasks
}

// Progress computes the done/total ratio over all buckets of a day.
func Progress(bucket storage.DayBucket) DayProgress {
	var p DayProgress
	for _, tasks := range bucket {
		for _, t := range tasks {
			p.Total++
			if t.Done {
				p.Done++
			}
		}
	}
	if p.Total > 0 {
		p.Ratio = float64(p.Done) / float64(p.Total)
	}
	return p
}

// CategoryProgress counts done/total for a single category's task list.
func CategoryProgress(tasks []storage.Task) (done, total int) {
	for _, t := range tasks {
		total++
		if t.Done {
			done++
		}
	}
	return done, total
}

// DayCell is one day in the mini calendar grid.
type DayCell struct {
	Day        int
	Key        string
	HasTasks   bool
	IsSelected bool
	IsToday    bool
}

// Calendar is the month grid around a selected day. LeadingBlanks is the
// weekday index of the 1st (Sunday = 0), so the grid lines up under a
// Sun..Sat header row.
type Calendar struct {
	Year          int
	Month         int
	LeadingBlanks int
	Days          []DayCell
}

// MiniCalendar builds the calendar grid for the month containing selectedKey.
// hasTasks reports whether a day-key has any tasks; pass nil to skip markers.
func MiniCalendar(selectedKey, todayKey string, hasTasks func(key string) bool) (Calendar, error) {
	f, err := dateutil.KeyFields(selectedKey)
	if err != nil {
		return Calendar{}, err
	}
	blanks, err := dateutil.FirstWeekday(selectedKey)
	if err != nil {
		return Calendar{}, err
	}
	n, err := dateutil.DaysInMonth(selectedKey)
	if err != nil {
		return Calendar{}, err
	}

	cal := Calendar{
		Year:          f.Year,
		Month:         f.Month,
		LeadingBlanks: blanks,
	}

	cal.Days = make([]DayCell, 0, n)
	for d := 1; d <= n; d++ {
		key, keyErr := dateutil.MonthKey(selectedKey, d)
		if keyErr != nil {
			return Calendar{}, keyErr
		}
		cell := DayCell{
			Day:        d,
			Key:        key,
			IsSelected: key == selectedKey,
			IsToday:    key == todayKey,
		}
		if hasTasks != nil {
			cell.HasTasks = hasTasks(key)
		}
		cal.Days = append(cal.Days, cell)
	}
	return cal, nil
}

// GanttCell describes one month column of a project's timeline row.
type GanttCell struct {
	InRange bool
	IsStart bool
	IsEnd   bool
}

// GanttCells expands a project's month span into 12 cells, one per month.
// The progress fill applies uniformly to every in-range cell; only the start
// and end cells get rounded edges. An inverted range yields no in-range
// cells.
func GanttCells(p storage.Project) [12]GanttCell {
	var cells [12]GanttCell
	for i := range cells {
		m := i + 1
		if m < p.StartMonth || m > p.EndMonth {
			continue
		}
		cells[i] = GanttCell{
			InRange: true,
			IsStart: m == p.StartMonth,
			IsEnd:   m == p.EndMonth,
		}
	}
	return cells
}

// CategorySummary aggregates the projects of one category.
type CategorySummary struct {
	AvgProgress int // rounded mean, 0 when the category has no projects
	Count       int
}

// Summarize computes the per-category project summary.
func Summarize(projects []storage.Project, catID string) CategorySummary {
	sum := 0
	count := 0
	for _, p := range projects {
		if p.CategoryID != catID {
			continue
		}
		sum += p.Progress
		count++
	}
	if count == 0 {
		return CategorySummary{}
	}
	return CategorySummary{
		AvgProgress: int(math.Round(float64(sum) / float64(count))),
		Count:       count,
	}
}
