// Package backup provides backup and restore functionality for the haru app.
// This file contains tests for the backup module.
package backup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// createTestData creates sample data files for testing.
func createTestData(t *testing.T, dataDir string) {
	t.Helper()

	categories := map[string]interface{}{
		"categories": []map[string]interface{}{
			{"id": "cat1", "label": "Work", "emoji": "💼"},
			{"id": "cat2", "label": "Personal", "emoji": "🏠"},
		},
	}
	writeTestJSON(t, filepath.Join(dataDir, "categories.json"), categories)

	tasks := map[string]interface{}{
		"days": map[string]interface{}{
			"2025-03-14": map[string]interface{}{
				"cat1": []map[string]interface{}{
					{"id": "t_1", "text": "Standup", "time": "09:30", "done": false},
					{"id": "t_2", "text": "Review PR", "time": "11:00", "done": true},
				},
			},
		},
	}
	writeTestJSON(t, filepath.Join(dataDir, "tasks.json"), tasks)

	projects := map[string]interface{}{
		"projects": []map[string]interface{}{
			{"id": "p_1", "name": "Ship v2", "cat_id": "cat1", "start_month": 1, "end_month": 6, "progress": 40},
		},
	}
	writeTestJSON(t, filepath.Join(dataDir, "projects.json"), projects)
}

// writeTestJSON writes JSON to a file for testing.
func writeTestJSON(t *testing.T, path string, v interface{}) {
	t.Helper()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

// readTestJSON reads JSON from a file for testing.
func readTestJSON(t *testing.T, path string) map[string]interface{} {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("failed to unmarshal JSON: %v", err)
	}

	return result
}

// TestManager_Create tests backup creation.
func TestManager_Create(t *testing.T) {
	tmpDir := t.TempDir()
	createTestData(t, tmpDir)

	manager := NewManager(tmpDir, "1.2.0-test")

	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Archive name format: 2006-01-02_150405_XXX.tar.gz
	if len(name) != 21+len(archiveSuffix) {
		t.Errorf("Expected archive name length %d, got %d: %s", 21+len(archiveSuffix), len(name), name)
	}

	archivePath := filepath.Join(tmpDir, BackupsDir, name)
	if _, err := os.Stat(archivePath); os.IsNotExist(err) {
		t.Errorf("Backup archive not created: %s", archivePath)
	}

	files, err := readArchive(archivePath)
	if err != nil {
		t.Fatalf("readArchive() error: %v", err)
	}
	for _, filename := range dataFiles {
		if _, ok := files[filename]; !ok {
			t.Errorf("File not backed up: %s", filename)
		}
	}

	manifest, err := readManifest(archivePath)
	if err != nil {
		t.Fatalf("readManifest() error: %v", err)
	}

	if manifest.Version != ManifestVersion {
		t.Errorf("Expected manifest version %s, got %s", ManifestVersion, manifest.Version)
	}
	if manifest.AppVersion != "1.2.0-test" {
		t.Errorf("Expected app_version 1.2.0-test, got %s", manifest.AppVersion)
	}

	if manifest.Stats["categories"] != 2 {
		t.Errorf("Expected 2 categories, got %d", manifest.Stats["categories"])
	}
	if manifest.Stats["tasks"] != 2 {
		t.Errorf("Expected 2 tasks, got %d", manifest.Stats["tasks"])
	}
	if manifest.Stats["projects"] != 1 {
		t.Errorf("Expected 1 project, got %d", manifest.Stats["projects"])
	}
}

// TestManager_List tests listing backups.
func TestManager_List(t *testing.T) {
	tmpDir := t.TempDir()
	createTestData(t, tmpDir)

	manager := NewManager(tmpDir, "1.0.0")

	backups, err := manager.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("Expected 0 backups, got %d", len(backups))
	}

	name1, _ := manager.Create()
	time.Sleep(10 * time.Millisecond)
	name2, _ := manager.Create()

	backups, err = manager.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}

	if len(backups) != 2 {
		t.Fatalf("Expected 2 backups, got %d", len(backups))
	}

	// Newest first
	if backups[0].Name != name2 {
		t.Errorf("Expected newest backup %s first, got %s", name2, backups[0].Name)
	}
	if backups[1].Name != name1 {
		t.Errorf("Expected older backup %s second, got %s", name1, backups[1].Name)
	}
}

// TestManager_Restore tests restoring from a backup.
func TestManager_Restore(t *testing.T) {
	tmpDir := t.TempDir()
	createTestData(t, tmpDir)

	manager := NewManager(tmpDir, "1.0.0")

	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Modify original data
	projects := map[string]interface{}{
		"projects": []map[string]interface{}{},
	}
	writeTestJSON(t, filepath.Join(tmpDir, "projects.json"), projects)

	if err := manager.Restore(name); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}

	restored := readTestJSON(t, filepath.Join(tmpDir, "projects.json"))
	restoredProjects := restored["projects"].([]interface{})
	if len(restoredProjects) != 1 {
		t.Errorf("Expected 1 project after restore, got %d", len(restoredProjects))
	}
}

// TestManager_RestoreLatest tests restoring the most recent backup.
func TestManager_RestoreLatest(t *testing.T) {
	tmpDir := t.TempDir()
	createTestData(t, tmpDir)

	manager := NewManager(tmpDir, "1.0.0")

	if _, err := manager.Create(); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Second snapshot carries a distinguishable project name
	projects := map[string]interface{}{
		"projects": []map[string]interface{}{
			{"id": "p_mid", "name": "Midpoint", "cat_id": "cat1", "start_month": 2, "end_month": 3, "progress": 0},
		},
	}
	writeTestJSON(t, filepath.Join(tmpDir, "projects.json"), projects)

	time.Sleep(10 * time.Millisecond)
	if _, err := manager.Create(); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	projects = map[string]interface{}{
		"projects": []map[string]interface{}{
			{"id": "p_final", "name": "Final", "cat_id": "cat1", "start_month": 4, "end_month": 5, "progress": 0},
		},
	}
	writeTestJSON(t, filepath.Join(tmpDir, "projects.json"), projects)

	if err := manager.RestoreLatest(); err != nil {
		t.Fatalf("RestoreLatest() error: %v", err)
	}

	restored := readTestJSON(t, filepath.Join(tmpDir, "projects.json"))
	restoredProjects := restored["projects"].([]interface{})
	if len(restoredProjects) != 1 {
		t.Fatalf("Expected 1 project after restore, got %d", len(restoredProjects))
	}
	first := restoredProjects[0].(map[string]interface{})
	if first["id"] != "p_mid" {
		t.Errorf("Expected restored project id 'p_mid', got %v", first["id"])
	}
}

// TestManager_RestoreNonexistent tests restoring a nonexistent backup.
func TestManager_RestoreNonexistent(t *testing.T) {
	tmpDir := t.TempDir()
	createTestData(t, tmpDir)

	manager := NewManager(tmpDir, "1.0.0")

	if err := manager.Restore("nonexistent-backup"); err == nil {
		t.Error("Expected error when restoring nonexistent backup")
	}
}

// TestManager_Delete tests deleting a backup.
func TestManager_Delete(t *testing.T) {
	tmpDir := t.TempDir()
	createTestData(t, tmpDir)

	manager := NewManager(tmpDir, "1.0.0")

	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := manager.Delete(name); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	backups, _ := manager.List()
	if len(backups) != 0 {
		t.Errorf("Expected 0 backups after delete, got %d", len(backups))
	}
}

// TestManager_Prune tests pruning old backups.
func TestManager_Prune(t *testing.T) {
	tmpDir := t.TempDir()
	createTestData(t, tmpDir)

	manager := NewManager(tmpDir, "1.0.0")

	for i := 0; i < 5; i++ {
		if _, err := manager.Create(); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		time.Sleep(10 * time.Millisecond) // Ensure different timestamps
	}

	deleted, err := manager.Prune(2)
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}

	if deleted != 3 {
		t.Errorf("Expected 3 deleted, got %d", deleted)
	}

	backups, _ := manager.List()
	if len(backups) != 2 {
		t.Errorf("Expected 2 backups after prune, got %d", len(backups))
	}
}

// TestManager_CreateWithEmptyData tests creating a backup with no data files.
func TestManager_CreateWithEmptyData(t *testing.T) {
	tmpDir := t.TempDir()

	manager := NewManager(tmpDir, "1.0.0")

	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	info, err := manager.GetBackup(name)
	if err != nil {
		t.Fatalf("GetBackup() error: %v", err)
	}

	if info.Name != name {
		t.Errorf("Expected backup name %s, got %s", name, info.Name)
	}
}

// TestManager_GetBackup tests getting info about a specific backup.
func TestManager_GetBackup(t *testing.T) {
	tmpDir := t.TempDir()
	createTestData(t, tmpDir)

	manager := NewManager(tmpDir, "1.0.0")

	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	info, err := manager.GetBackup(name)
	if err != nil {
		t.Fatalf("GetBackup() error: %v", err)
	}

	if info.Name != name {
		t.Errorf("Expected name %s, got %s", name, info.Name)
	}
	if info.Stats["tasks"] != 2 {
		t.Errorf("Expected 2 tasks, got %d", info.Stats["tasks"])
	}

	if _, err := manager.GetBackup("nonexistent"); err == nil {
		t.Error("Expected error for nonexistent backup")
	}
}

// TestManager_RestoreCreatesSafetyBackup tests that restore creates a safety backup.
func TestManager_RestoreCreatesSafetyBackup(t *testing.T) {
	tmpDir := t.TempDir()
	createTestData(t, tmpDir)

	manager := NewManager(tmpDir, "1.0.0")

	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := manager.Restore(name); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}

	backups, _ := manager.List()
	if len(backups) < 2 {
		t.Errorf("Expected at least 2 backups (including safety backup), got %d", len(backups))
	}
}

// TestManager_RestoreRejectsCorruptArchivePayload tests that restore refuses
// archives whose data files are not valid JSON.
func TestManager_RestoreRejectsCorruptArchivePayload(t *testing.T) {
	tmpDir := t.TempDir()
	createTestData(t, tmpDir)

	manager := NewManager(tmpDir, "1.0.0")
	fixed := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	manager.SetNowFunc(func() time.Time { return fixed })

	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if want := "2025-03-14_090000_000" + archiveSuffix; name != want {
		t.Fatalf("Expected archive name %s, got %s", want, name)
	}

	// Corrupt tasks.json on disk, then snapshot it under a later timestamp
	if err := os.WriteFile(filepath.Join(tmpDir, "tasks.json"), []byte("{not json"), 0600); err != nil {
		t.Fatalf("failed to corrupt tasks.json: %v", err)
	}
	manager.SetNowFunc(func() time.Time { return fixed.Add(time.Minute) })
	corruptName, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := manager.Restore(corruptName); err == nil {
		t.Error("Expected error restoring archive with corrupt payload")
	}

	// The clean snapshot still restores
	if err := manager.Restore(name); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
}
