// Package backup provides backup and restore functionality for the haru app.
// It manages timestamped tar.gz snapshots of all data files (categories,
// tasks, projects).
package backup

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"haru/internal/fsutil"
	"haru/internal/storage"
)

// Version constants for the backup format.
const (
	ManifestVersion = "1.0"
	ManifestFile    = "manifest.json"
	BackupsDir      = "backups"
	archiveSuffix   = ".tar.gz"
)

// Data files that are backed up.
var dataFiles = []string{storage.CategoriesFile, storage.TasksFile, storage.ProjectsFile}

// Manager handles backup and restore operations.
type Manager struct {
	dataDir    string // Path to data directory (e.g., ~/.haru)
	backupDir  string // Path to backups directory (e.g., ~/.haru/backups)
	appVersion string // Application version for manifest
	now        func() time.Time
}

// Manifest contains metadata about a backup.
type Manifest struct {
	Version    string         `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	AppVersion string         `json:"app_version"`
	Files      []string       `json:"files"`
	Stats      map[string]int `json:"stats"`
}

// BackupInfo contains summary information about a backup.
type BackupInfo struct {
	Name      string         // Archive name (2025-12-15_143022_120.tar.gz)
	Path      string         // Full path to the archive
	CreatedAt time.Time      // When the backup was created
	Stats     map[string]int // Statistics (categories, tasks, projects)
}

// NewManager creates a new backup manager.
func NewManager(dataDir, appVersion string) *Manager {
	return &Manager{
		dataDir:    dataDir,
		backupDir:  filepath.Join(dataDir, BackupsDir),
		appVersion: appVersion,
		now:        time.Now,
	}
}

// SetNowFunc overrides the clock, for tests.
func (m *Manager) SetNowFunc(f func() time.Time) {
	m.now = f
}

// Create creates a new tar.gz backup of all data files.
// Returns the archive name (timestamp format) on success.
func (m *Manager) Create() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	// Archive name from the current timestamp (with milliseconds for uniqueness)
	now := m.now()
	name := fmt.Sprintf("%s_%03d%s", now.Format("2006-01-02_150405"), now.Nanosecond()/1e6, archiveSuffix)

	var copiedFiles []string
	stats := make(map[string]int)

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for _, filename := range dataFiles {
		srcPath := filepath.Join(m.dataDir, filename)

		data, err := os.ReadFile(srcPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", fmt.Errorf("failed to read %s: %w", filename, err)
		}

		if err := writeTarEntry(tw, filename, data, now); err != nil {
			return "", fmt.Errorf("failed to archive %s: %w", filename, err)
		}
		copiedFiles = append(copiedFiles, filename)

		if count, err := countItems(data, filename); err == nil {
			stats[statsKeyForFile(filename)] = count
		}
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  now,
		AppVersion: m.appVersion,
		Files:      copiedFiles,
		Stats:      stats,
	}
	manifestData, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := writeTarEntry(tw, ManifestFile, manifestData, now); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	if err := tw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := gz.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize archive: %w", err)
	}

	archivePath := filepath.Join(m.backupDir, name)
	if err := fsutil.WriteFileAtomic(archivePath, buf.Bytes(), 0600); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	return name, nil
}

// List returns all available backups, sorted by creation time (newest first).
func (m *Manager) List() ([]BackupInfo, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), archiveSuffix) {
			continue
		}

		archivePath := filepath.Join(m.backupDir, entry.Name())

		manifest, err := readManifest(archivePath)
		if err != nil {
			// Fall back to the timestamp in the archive name
			createdAt, parseErr := parseBackupName(entry.Name())
			if parseErr != nil {
				continue // Skip invalid archives
			}
			manifest = &Manifest{CreatedAt: createdAt, Stats: make(map[string]int)}
		}

		backups = append(backups, BackupInfo{
			Name:      entry.Name(),
			Path:      archivePath,
			CreatedAt: manifest.CreatedAt,
			Stats:     manifest.Stats,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})

	return backups, nil
}

// Restore restores data from a specific backup.
// It creates a safety backup before restoring.
func (m *Manager) Restore(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}

	archivePath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(archivePath); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}

	files, err := readArchive(archivePath)
	if err != nil {
		return fmt.Errorf("failed to read backup %s: %w", name, err)
	}

	// Validate payloads before touching the data dir
	for _, filename := range dataFiles {
		data, ok := files[filename]
		if !ok {
			continue
		}
		var v interface{}
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("backup file %s is invalid: %w", filename, err)
		}
	}

	// Create safety backup first
	safetyName, err := m.Create()
	if err != nil {
		return fmt.Errorf("failed to create safety backup: %w", err)
	}

	for _, filename := range dataFiles {
		data, ok := files[filename]
		if !ok {
			continue
		}
		dstPath := filepath.Join(m.dataDir, filename)
		if err := fsutil.WriteFileAtomic(dstPath, data, 0600); err != nil {
			return fmt.Errorf("failed to restore %s (safety backup: %s): %w", filename, safetyName, err)
		}
	}

	return nil
}

// RestoreLatest restores from the most recent backup.
func (m *Manager) RestoreLatest() error {
	backups, err := m.List()
	if err != nil {
		return err
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups available")
	}

	return m.Restore(backups[0].Name)
}

// Delete removes a specific backup.
func (m *Manager) Delete(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}

	archivePath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(archivePath); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}

	return os.Remove(archivePath)
}

// Prune removes old backups, keeping only the N most recent.
func (m *Manager) Prune(keepCount int) (int, error) {
	if keepCount < 0 {
		return 0, fmt.Errorf("keepCount must be non-negative")
	}

	backups, err := m.List()
	if err != nil {
		return 0, err
	}

	if len(backups) <= keepCount {
		return 0, nil
	}

	deleted := 0
	for _, backup := range backups[keepCount:] {
		if err := m.Delete(backup.Name); err != nil {
			return deleted, err
		}
		deleted++
	}

	return deleted, nil
}

// GetBackup returns information about a specific backup.
func (m *Manager) GetBackup(name string) (*BackupInfo, error) {
	if err := validateBackupName(name); err != nil {
		return nil, err
	}

	archivePath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(archivePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("backup not found: %s", name)
	}

	manifest, err := readManifest(archivePath)
	if err != nil {
		createdAt, parseErr := parseBackupName(name)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid backup: %s", name)
		}
		manifest = &Manifest{CreatedAt: createdAt, Stats: make(map[string]int)}
	}

	return &BackupInfo{
		Name:      name,
		Path:      archivePath,
		CreatedAt: manifest.CreatedAt,
		Stats:     manifest.Stats,
	}, nil
}

// Helper functions

func validateBackupName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseBackupName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

func writeTarEntry(tw *tar.Writer, name string, data []byte, modTime time.Time) error {
	hdr := &tar.Header{
		Name:    name,
		Mode:    0600,
		Size:    int64(len(data)),
		ModTime: modTime,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := tw.Write(data)
	return err
}

// readArchive reads every regular file in a tar.gz archive into memory.
func readArchive(path string) (map[string][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	files := make(map[string][]byte)
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		// Reject anything that would escape the data dir
		name := filepath.Base(hdr.Name)
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, err
		}
		files[name] = data
	}
	return files, nil
}

// readManifest extracts and parses the manifest from an archive.
func readManifest(path string) (*Manifest, error) {
	files, err := readArchive(path)
	if err != nil {
		return nil, err
	}
	data, ok := files[ManifestFile]
	if !ok {
		return nil, fmt.Errorf("manifest missing")
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// countItems counts items in a data file payload.
func countItems(data []byte, filename string) (int, error) {
	switch filename {
	case storage.CategoriesFile:
		var store storage.CategoryStore
		if err := json.Unmarshal(data, &store); err != nil {
			return 0, err
		}
		return len(store.Categories), nil
	case storage.TasksFile:
		var store storage.TaskStore
		if err := json.Unmarshal(data, &store); err != nil {
			return 0, err
		}
		count := 0
		for _, bucket := range store.Days {
			for _, tasks := range bucket {
				count += len(tasks)
			}
		}
		return count, nil
	case storage.ProjectsFile:
		var store storage.ProjectStore
		if err := json.Unmarshal(data, &store); err != nil {
			return 0, err
		}
		return len(store.Projects), nil
	}
	return 0, nil
}

// statsKeyForFile returns the stats key for a given filename.
func statsKeyForFile(filename string) string {
	switch filename {
	case storage.CategoriesFile:
		return "categories"
	case storage.TasksFile:
		return "tasks"
	case storage.ProjectsFile:
		return "projects"
	default:
		return filename
	}
}

// parseBackupName parses an archive name into a timestamp.
// Format: 2006-01-02_150405_XXX.tar.gz
func parseBackupName(name string) (time.Time, error) {
	base := strings.TrimSuffix(name, archiveSuffix)
	if base == name {
		return time.Time{}, fmt.Errorf("invalid backup format")
	}
	if len(base) != 21 {
		return time.Time{}, fmt.Errorf("invalid backup format")
	}
	baseTime, err := time.Parse("2006-01-02_150405", base[:17])
	if err != nil {
		return time.Time{}, err
	}
	if base[17] != '_' {
		return time.Time{}, fmt.Errorf("invalid backup format")
	}
	ms, err := strconv.Atoi(base[18:])
	if err != nil || ms < 0 || ms > 999 {
		return time.Time{}, fmt.Errorf("invalid milliseconds")
	}
	return baseTime.Add(time.Duration(ms) * time.Millisecond), nil
}
