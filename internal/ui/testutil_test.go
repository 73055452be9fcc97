package ui

import (
	"testing"

	"haru/internal/config"
	"haru/internal/storage"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// setupTest prepares the test environment for deterministic rendering.
// It disables colors to ensure consistent output across environments.
func setupTest(t *testing.T) {
	t.Helper()
	// Use ASCII profile to disable all color codes in output
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestStorage creates a Storage instance with a temporary directory.
func createTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	store, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}
	return store
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// testAppConfig returns an AppConfig with confirmations off, suitable for
// driving panes directly in tests.
func testAppConfig() *AppConfig {
	return &AppConfig{
		Keys:             &config.KeysConfig{},
		ConfirmDeletions: false,
		ShowOnboarding:   false,
		ProgressStep:     5,
	}
}

// firstCategory returns the first registry category, failing the test if the
// seed is missing.
func firstCategory(t *testing.T, store *storage.Storage) storage.Category {
	t.Helper()
	cats, err := store.LoadCategories()
	if err != nil {
		t.Fatalf("failed to load categories: %v", err)
	}
	if len(cats.Categories) == 0 {
		t.Fatal("expected seeded categories")
	}
	return cats.Categories[0]
}
