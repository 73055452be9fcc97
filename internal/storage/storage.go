// Package storage handles all persisted state for the haru app: the category
// registry, the day-bucketed task store, and the project list. Each store is
// one JSON file in the data directory, written atomically with a best-effort
// .bak and recovered from corruption by resetting to defaults.
package storage

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"haru/internal/fsutil"
)

// Filenames of the three persisted stores inside the data directory.
const (
	CategoriesFile = "categories.json"
	TasksFile      = "tasks.json"
	ProjectsFile   = "projects.json"
)

// Storage handles all file I/O operations
type Storage struct {
	dataDir string
	onSave  func(filename string) // callback triggered after file saves
	now     func() time.Time      // injectable clock for deterministic tests
}

const (
	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600

	maxTaskTextLen    = 200
	maxCategoryLabel  = 40
	maxCategoryEmoji  = 12
	maxProjectNameLen = 80
	maxNoteLen        = 500
)

var timeOfDayRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// New creates a new Storage instance with the given data directory
func New(dataDir string) (*Storage, error) {
	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Storage{dataDir: dataDir, now: time.Now}

	// Initialize files if they don't exist
	if err := s.initFiles(); err != nil {
		return nil, err
	}

	return s, nil
}

// SetNowFunc overrides the clock used by time-dependent storage operations
// (id generation, corrupt-file timestamps). Passing nil resets it to time.Now.
func (s *Storage) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// Now returns the current time according to the storage clock.
func (s *Storage) Now() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// SetOnSave registers a callback to be called after each file save.
func (s *Storage) SetOnSave(fn func(filename string)) {
	s.onSave = fn
}

// GetDataDir returns the path to the data directory.
func (s *Storage) GetDataDir() string {
	return s.dataDir
}

// initFiles creates default JSON files if they don't exist. The category
// registry is seeded so it is never empty; tasks and projects start empty.
func (s *Storage) initFiles() error {
	if !fileExists(s.path(CategoriesFile)) {
		if err := s.SaveCategories(&CategoryStore{Categories: DefaultCategories()}); err != nil {
			return err
		}
	}

	if !fileExists(s.path(TasksFile)) {
		if err := s.SaveTasks(&TaskStore{Days: map[string]DayBucket{}}); err != nil {
			return err
		}
	}

	if !fileExists(s.path(ProjectsFile)) {
		if err := s.SaveProjects(&ProjectStore{Projects: []Project{}}); err != nil {
			return err
		}
	}

	return nil
}

func (s *Storage) path(filename string) string {
	return filepath.Join(s.dataDir, filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

// newID mints a unique identifier using the storage clock, so ids advance
// monotonically within a session and stay deterministic under a fake clock.
func (s *Storage) newID(prefix string) (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return fmt.Sprintf("%s_%d_%s", prefix, s.Now().UnixMilli(), hex.EncodeToString(b[:])), nil
}

func validTimeOfDay(hhmm string) bool {
	return timeOfDayRe.MatchString(hhmm)
}

func clampProgress(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func (s *Storage) writeJSONAtomic(filename string, v any) error {
	path := s.path(filename)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", filename, err)
	}

	// Keep a best-effort backup before overwriting.
	fsutil.BestEffortBackup(path, dataFilePerm)

	if err := fsutil.WriteFileAtomic(path, data, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}

	if s.onSave != nil {
		s.onSave(filename)
	}

	return nil
}

func (s *Storage) loadJSONWithRecovery(filename string, v any) error {
	path := s.path(filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := s.writeJSONAtomic(filename, v); err != nil {
				return err
			}
			return nil
		}
		return fmt.Errorf("read %s: %w", filename, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return s.recoverCorruptJSON(filename, v, fmt.Errorf("%s is empty", filename))
	}

	if err = json.Unmarshal(data, v); err == nil {
		return nil
	}
	return s.recoverCorruptJSON(filename, v, fmt.Errorf("parse %s: %w", filename, err))
}

func (s *Storage) recoverCorruptJSON(filename string, v any, cause error) error {
	path := s.path(filename)

	// Try backup first.
	bakData, bakErr := os.ReadFile(path + ".bak")
	if bakErr == nil && len(bytes.TrimSpace(bakData)) > 0 {
		if err := json.Unmarshal(bakData, v); err == nil {
			corruptPath := fmt.Sprintf("%s.corrupt.%s", path, s.Now().Format("20060102-150405"))
			_ = os.Rename(path, corruptPath)
			_ = s.writeJSONAtomic(filename, v)
			return fmt.Errorf("%s (recovered from %s.bak)", cause.Error(), filename)
		}
	}

	// No usable backup: preserve the broken file (best effort) and reset.
	corruptPath := fmt.Sprintf("%s.corrupt.%s", path, s.Now().Format("20060102-150405"))
	_ = os.Rename(path, corruptPath)
	_ = s.writeJSONAtomic(filename, v)
	return fmt.Errorf("%s (reset to defaults; original moved to %s)", cause.Error(), corruptPath)
}
