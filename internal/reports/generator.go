package reports

import (
	"fmt"

	"haru/internal/dateutil"
	"haru/internal/storage"
	"haru/internal/views"
)

// Generator creates reports from storage data.
type Generator struct {
	store *storage.Storage
}

// NewGenerator creates a new report generator.
func NewGenerator(store *storage.Storage) *Generator {
	return &Generator{store: store}
}

// Daily builds the task rundown for the given day-key. Categories appear in
// registry order; categories with no tasks that day are included with zero
// counts so the report shape is stable.
func (g *Generator) Daily(dayKey string) (*DailyReport, error) {
	fields, err := dateutil.KeyFields(dayKey)
	if err != nil {
		return nil, err
	}

	cats, err := g.store.LoadCategories()
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	tasks, err := g.store.LoadTasks()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	bucket := tasks.Bucket(dayKey)

	report := &DailyReport{
		DayKey:      dayKey,
		Weekday:     fields.Weekday,
		Progress:    views.Progress(bucket),
		GeneratedAt: g.store.Now(),
	}

	for _, cat := range cats.Categories {
		list := bucket[cat.ID]
		done, total := views.CategoryProgress(list)
		report.Categories = append(report.Categories, CategoryTasks{
			Category: cat,
			Tasks:    list,
			Done:     done,
			Total:    total,
		})
	}

	return report, nil
}

// Year builds the project overview. Projects are grouped under their
// category in registry order; projects whose category was deleted out from
// under them are omitted, matching the UI.
func (g *Generator) Year(year int) (*YearReport, error) {
	cats, err := g.store.LoadCategories()
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	projects, err := g.store.LoadProjects()
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}

	report := &YearReport{
		Year:        year,
		GeneratedAt: g.store.Now(),
	}

	for _, cat := range cats.Categories {
		group := CategoryProjects{
			Category: cat,
			Projects: projects.ByCategory(cat.ID),
			Summary:  views.Summarize(projects.Projects, cat.ID),
		}
		report.Groups = append(report.Groups, group)
	}

	return report, nil
}
