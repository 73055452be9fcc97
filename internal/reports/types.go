// Package reports renders read-only summaries of the planner state: a daily
// task rundown and a year overview of projects. Reports are renderings of the
// derived views, not a data-export format.
package reports

import (
	"time"

	"haru/internal/storage"
	"haru/internal/views"
)

// DailyReport contains the task rundown for a single day.
type DailyReport struct {
	DayKey      string
	Weekday     string
	Categories  []CategoryTasks
	Progress    views.DayProgress
	GeneratedAt time.Time
}

// CategoryTasks is one category's slice of the daily report, in registry
// order. Tasks keep their time-sorted bucket order.
type CategoryTasks struct {
	Category storage.Category
	Tasks    []storage.Task
	Done     int
	Total    int
}

// YearReport contains the project overview for one calendar year.
type YearReport struct {
	Year        int
	Groups      []CategoryProjects
	GeneratedAt time.Time
}

// CategoryProjects groups a category's projects with their summary.
type CategoryProjects struct {
	Category storage.Category
	Projects []storage.Project
	Summary  views.CategorySummary
}
