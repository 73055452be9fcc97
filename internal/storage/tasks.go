package storage

import (
	"fmt"
	"sort"
	"strings"

	"haru/internal/dateutil"
)

// LoadTasks reads the day-bucketed task store from disk.
// Loaded data is normalized: nil maps become empty, records without ids are
// dropped, and every bucket is re-sorted by time.
func (s *Storage) LoadTasks() (*TaskStore, error) {
	store := TaskStore{Days: map[string]DayBucket{}}
	err := s.loadJSONWithRecovery(TasksFile, &store)
	store.normalize()
	return &store, err
}

// SaveTasks writes the task store to disk
func (s *Storage) SaveTasks(store *TaskStore) error {
	return s.writeJSONAtomic(TasksFile, store)
}

func (ts *TaskStore) normalize() {
	if ts.Days == nil {
		ts.Days = map[string]DayBucket{}
	}
	for day, bucket := range ts.Days {
		if bucket == nil {
			delete(ts.Days, day)
			continue
		}
		for cat, tasks := range bucket {
			kept := tasks[:0]
			for _, t := range tasks {
				if strings.TrimSpace(t.ID) == "" {
					continue
				}
				kept = append(kept, t)
			}
			sortTasksByTime(kept)
			bucket[cat] = kept
		}
	}
}

// sortTasksByTime keeps a bucket ordered by "HH:MM" ascending. Zero-padded
// 24h strings compare correctly as plain strings; the stable sort preserves
// insertion order among ties.
func sortTasksByTime(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Time < tasks[j].Time
	})
}

// bucketFor returns the day's bucket, creating the day entry lazily.
func (ts *TaskStore) bucketFor(dayKey string) DayBucket {
	bucket, ok := ts.Days[dayKey]
	if !ok {
		bucket = DayBucket{}
		ts.Days[dayKey] = bucket
	}
	return bucket
}

func validateTaskInput(dayKey, text, hhmm, note string) error {
	if !dateutil.IsValid(dayKey) {
		return fmt.Errorf("invalid day key %q: expected YYYY-MM-DD", dayKey)
	}
	if text == "" {
		return fmt.Errorf("task text is required")
	}
	if len(text) > maxTaskTextLen {
		return fmt.Errorf("task text too long (max %d)", maxTaskTextLen)
	}
	if !validTimeOfDay(hhmm) {
		return fmt.Errorf("invalid time %q: expected HH:MM", hhmm)
	}
	if len(note) > maxNoteLen {
		return fmt.Errorf("note too long (max %d)", maxNoteLen)
	}
	return nil
}

// AddTask appends a task to the day's category bucket and re-sorts it.
func (s *Storage) AddTask(dayKey, catID, text, hhmm, note string) (*Task, error) {
	text = strings.TrimSpace(text)
	note = strings.TrimSpace(note)

	if err := validateTaskInput(dayKey, text, hhmm, note); err != nil {
		return nil, err
	}
	if strings.TrimSpace(catID) == "" {
		return nil, fmt.Errorf("category id is required")
	}

	store, err := s.LoadTasks()
	if err != nil {
		return nil, err
	}

	id, err := s.newID("t")
	if err != nil {
		return nil, err
	}

	task := Task{
		ID:   id,
		Text: text,
		Time: hhmm,
		Done: false,
		Note: note,
	}

	bucket := store.bucketFor(dayKey)
	bucket[catID] = append(bucket[catID], task)
	sortTasksByTime(bucket[catID])

	if err := s.SaveTasks(store); err != nil {
		return nil, err
	}
	return &task, nil
}

// ToggleTask flips a task's done flag
func (s *Storage) ToggleTask(dayKey, catID, id string) error {
	store, err := s.LoadTasks()
	if err != nil {
		return err
	}

	tasks := store.Days[dayKey][catID]
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].Done = !tasks[i].Done
			return s.SaveTasks(store)
		}
	}

	return fmt.Errorf("task not found: %s", id)
}

// EditTask updates a task's text, time, and category. When the category
// changes, the task moves buckets and the destination is re-sorted; the
// source keeps its order.
func (s *Storage) EditTask(dayKey, id, text, hhmm, newCatID string) error {
	text = strings.TrimSpace(text)

	if err := validateTaskInput(dayKey, text, hhmm, ""); err != nil {
		return err
	}
	if strings.TrimSpace(newCatID) == "" {
		return fmt.Errorf("category id is required")
	}

	store, err := s.LoadTasks()
	if err != nil {
		return err
	}

	bucket := store.Days[dayKey]
	for catID, tasks := range bucket {
		for i := range tasks {
			if tasks[i].ID != id {
				continue
			}
			tasks[i].Text = text
			tasks[i].Time = hhmm

			if catID == newCatID {
				sortTasksByTime(tasks)
				return s.SaveTasks(store)
			}

			moved := tasks[i]
			bucket[catID] = append(tasks[:i], tasks[i+1:]...)
			bucket[newCatID] = append(bucket[newCatID], moved)
			sortTasksByTime(bucket[newCatID])
			return s.SaveTasks(store)
		}
	}

	return fmt.Errorf("task not found: %s", id)
}

// SetTaskNote replaces a task's note
func (s *Storage) SetTaskNote(dayKey, catID, id, note string) error {
	note = strings.TrimSpace(note)
	if len(note) > maxNoteLen {
		return fmt.Errorf("note too long (max %d)", maxNoteLen)
	}

	store, err := s.LoadTasks()
	if err != nil {
		return err
	}

	tasks := store.Days[dayKey][catID]
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].Note = note
			return s.SaveTasks(store)
		}
	}

	return fmt.Errorf("task not found: %s", id)
}

// DeleteTask removes a task from the day's category bucket
func (s *Storage) DeleteTask(dayKey, catID, id string) error {
	store, err := s.LoadTasks()
	if err != nil {
		return err
	}

	tasks := store.Days[dayKey][catID]
	for i := range tasks {
		if tasks[i].ID == id {
			store.Days[dayKey][catID] = append(tasks[:i], tasks[i+1:]...)
			return s.SaveTasks(store)
		}
	}

	return fmt.Errorf("task not found: %s", id)
}

// CopyFromPreviousDay replaces dayKey's bucket with a copy of the previous
// day's tasks, minting fresh ids and resetting done to false while preserving
// category grouping and order.
// Returns false without error when the previous day has no tasks.
func (s *Storage) CopyFromPreviousDay(dayKey string) (bool, error) {
	if !dateutil.IsValid(dayKey) {
		return false, fmt.Errorf("invalid day key %q: expected YYYY-MM-DD", dayKey)
	}
	prevKey, err := dateutil.AddDays(dayKey, -1)
	if err != nil {
		return false, err
	}

	store, err := s.LoadTasks()
	if err != nil {
		return false, err
	}

	prev := store.Days[prevKey]
	total := 0
	for _, tasks := range prev {
		total += len(tasks)
	}
	if total == 0 {
		return false, nil
	}

	bucket := DayBucket{}
	for catID, tasks := range prev {
		copied := make([]Task, 0, len(tasks))
		for _, t := range tasks {
			id, err := s.newID("t")
			if err != nil {
				return false, err
			}
			c := t
			c.ID = id
			c.Done = false
			copied = append(copied, c)
		}
		bucket[catID] = copied
	}
	store.Days[dayKey] = bucket

	if err := s.SaveTasks(store); err != nil {
		return false, err
	}
	return true, nil
}
