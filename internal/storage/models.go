package storage

// Category is an entry in the ordered category registry. Slice order is
// display order, and the index picks the style palette entry positionally.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
}

// CategoryStore holds the ordered category registry
type CategoryStore struct {
	Categories []Category `json:"categories"`
}

// Task represents a single scheduled item inside a day's category bucket
type Task struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Time string `json:"time"` // zero-padded 24h "HH:MM"
	Done bool   `json:"done"`
	Note string `json:"note,omitempty"`
}

// DayBucket maps a category id to its time-ordered task list
type DayBucket map[string][]Task

// TaskStore holds all tasks, bucketed by day-key ("YYYY-MM-DD") then
// category. A missing day-key reads as an empty bucket; entries are created
// lazily on first mutation.
type TaskStore struct {
	Days map[string]DayBucket `json:"days"`
}

// Bucket returns the day's bucket, which may be nil for untouched days.
func (ts *TaskStore) Bucket(dayKey string) DayBucket {
	return ts.Days[dayKey]
}

// Project represents a year-scoped project spanning whole months
type Project struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CategoryID string `json:"cat_id"`
	StartMonth int    `json:"start_month"` // 1..12
	EndMonth   int    `json:"end_month"`   // 1..12
	Progress   int    `json:"progress"`    // clamped to [0,100] on every update
	Note       string `json:"note,omitempty"`
}

// ProjectStore holds the flat ordered project list
type ProjectStore struct {
	Projects []Project `json:"projects"`
}

// DefaultCategories returns the seed registry written on first run.
// The registry must never be empty, so this is also the recovery default.
func DefaultCategories() []Category {
	return []Category{
		{ID: "cat1", Label: "Work", Emoji: "💼"},
		{ID: "cat2", Label: "Personal", Emoji: "🏠"},
		{ID: "cat3", Label: "Family", Emoji: "🧸"},
	}
}
