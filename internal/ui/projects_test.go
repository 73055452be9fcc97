package ui

import (
	"strings"
	"testing"

	"haru/internal/storage"
)

func refreshProjects(t *testing.T, store *storage.Storage, pane *ProjectsPane) {
	t.Helper()
	cats, err := store.LoadCategories()
	if err != nil {
		t.Fatalf("load categories: %v", err)
	}
	projects, err := store.LoadProjects()
	if err != nil {
		t.Fatalf("load projects: %v", err)
	}
	pane.setData(cats, projects)
}

func newTestProjectsPane(t *testing.T, store *storage.Storage) *ProjectsPane {
	t.Helper()
	pane := NewProjectsPane(store, createTestStyles(), 3)
	pane.SetSize(90, 24)
	pane.SetFocused(true)
	refreshProjects(t, store, pane)
	return pane
}

func TestProjectsPaneView_Empty(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	pane := newTestProjectsPane(t, store)

	view := pane.View()
	if !strings.Contains(view, "No projects yet") {
		t.Errorf("expected empty state, got:\n%s", view)
	}
}

func TestProjectsPaneView_WithProjects(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	cat := firstCategory(t, store)

	proj, _ := store.AddProject("Website redesign", cat.ID, 2, 6, "")
	store.SetProjectProgress(proj.ID, 40)

	pane := newTestProjectsPane(t, store)
	view := pane.View()

	if !strings.Contains(view, "Website redesign") {
		t.Error("expected project name in view")
	}
	if !strings.Contains(view, "40%") {
		t.Error("expected progress percentage in view")
	}
	if !strings.Contains(view, cat.Label) {
		t.Errorf("expected category header %q", cat.Label)
	}
	// Month header runs 1..12
	if !strings.Contains(view, "12") {
		t.Error("expected month header in view")
	}
}

func TestProjectsPane_Navigation(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	cat := firstCategory(t, store)
	store.AddProject("First", cat.ID, 1, 3, "")
	store.AddProject("Second", cat.ID, 4, 6, "")

	pane := newTestProjectsPane(t, store)

	if pane.cursor != 0 {
		t.Errorf("initial cursor = %d, want 0", pane.cursor)
	}
	pane.Update(keyRunes("j"))
	if pane.cursor != 1 {
		t.Errorf("cursor after down = %d, want 1", pane.cursor)
	}
	pane.Update(keyRunes("j"))
	if pane.cursor != 1 {
		t.Errorf("cursor should clamp at the last row, got %d", pane.cursor)
	}
	pane.Update(keyRunes("k"))
	if pane.cursor != 0 {
		t.Errorf("cursor after up = %d, want 0", pane.cursor)
	}
}

func TestProjectsPane_GroupedByRegistryOrder(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	cats, _ := store.LoadCategories()
	if len(cats.Categories) < 2 {
		t.Skip("needs at least two seeded categories")
	}

	// Insert in reverse category order, expect display in registry order
	store.AddProject("In second", cats.Categories[1].ID, 1, 6, "")
	store.AddProject("In first", cats.Categories[0].ID, 1, 6, "")

	pane := newTestProjectsPane(t, store)

	rows := pane.selectable()
	if len(rows) != 2 {
		t.Fatalf("selectable rows = %d, want 2", len(rows))
	}
	if rows[0].project.Name != "In first" || rows[1].project.Name != "In second" {
		t.Errorf("rows out of registry order: %s, %s", rows[0].project.Name, rows[1].project.Name)
	}
}

func TestProjectsPane_ProgressStep(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	cat := firstCategory(t, store)
	store.AddProject("Stepper", cat.ID, 1, 12, "")

	pane := newTestProjectsPane(t, store)

	cmd := pane.Update(keyRunes("+"))
	if cmd == nil {
		t.Fatal("expected progress command")
	}
	if msg := cmd().(projectProgressMsg); msg.err != nil {
		t.Fatalf("progress up failed: %v", msg.err)
	}

	projects, _ := store.LoadProjects()
	if got := projects.Projects[0].Progress; got != 5 {
		t.Errorf("progress after one step = %d, want 5", got)
	}

	// Decrement clamps at zero
	refreshProjects(t, store, pane)
	for i := 0; i < 2; i++ {
		if cmd := pane.Update(keyRunes("-")); cmd != nil {
			if msg := cmd().(projectProgressMsg); msg.err != nil {
				t.Fatalf("progress down failed: %v", msg.err)
			}
		}
		refreshProjects(t, store, pane)
	}

	projects, _ = store.LoadProjects()
	if got := projects.Projects[0].Progress; got != 0 {
		t.Errorf("progress should clamp at 0, got %d", got)
	}
}

func TestProjectsPane_AddFlow(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	pane := newTestProjectsPane(t, store)

	pane.Update(keyRunes("a"))
	if !pane.IsInputting() {
		t.Fatal("expected input mode after add key")
	}

	pane.input.SetValue("Learn woodworking")
	pane.Update(keyEnter()) // name -> months

	if got := pane.input.Value(); got != "1-12" {
		t.Errorf("default month range = %q, want 1-12", got)
	}
	pane.input.SetValue("3-8")
	pane.Update(keyEnter()) // months -> category
	cmd := pane.Update(keyEnter())
	if cmd == nil {
		t.Fatal("expected a command committing the project")
	}
	msg := cmd().(projectAddedMsg)
	if msg.err != nil {
		t.Fatalf("add failed: %v", msg.err)
	}

	projects, _ := store.LoadProjects()
	if len(projects.Projects) != 1 {
		t.Fatalf("projects stored = %d, want 1", len(projects.Projects))
	}
	got := projects.Projects[0]
	if got.Name != "Learn woodworking" || got.StartMonth != 3 || got.EndMonth != 8 {
		t.Errorf("stored project = %+v", got)
	}
	if got.Progress != 0 {
		t.Errorf("new project progress = %d, want 0", got.Progress)
	}
}

func TestProjectsPane_EditKeepsProgress(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	cat := firstCategory(t, store)
	proj, _ := store.AddProject("Old name", cat.ID, 1, 4, "")
	store.SetProjectProgress(proj.ID, 60)

	pane := newTestProjectsPane(t, store)

	pane.Update(keyRunes("e"))
	pane.input.SetValue("New name")
	pane.Update(keyEnter()) // name -> months
	pane.Update(keyEnter()) // months (unchanged) -> category
	cmd := pane.Update(keyEnter())
	if cmd == nil {
		t.Fatal("expected edit command")
	}
	if msg := cmd().(projectEditedMsg); msg.err != nil {
		t.Fatalf("edit failed: %v", msg.err)
	}

	projects, _ := store.LoadProjects()
	got := projects.Projects[0]
	if got.Name != "New name" {
		t.Errorf("name = %q, want New name", got.Name)
	}
	if got.Progress != 60 {
		t.Errorf("progress = %d, want 60 preserved across edit", got.Progress)
	}
	if got.StartMonth != 1 || got.EndMonth != 4 {
		t.Errorf("months = %d-%d, want 1-4", got.StartMonth, got.EndMonth)
	}
}

func TestProjectsPane_NoteFlow(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	cat := firstCategory(t, store)
	store.AddProject("Annotated", cat.ID, 1, 12, "")

	pane := newTestProjectsPane(t, store)

	pane.Update(keyRunes("n"))
	pane.input.SetValue("scope cut to phase one")
	cmd := pane.Update(keyEnter())
	if cmd == nil {
		t.Fatal("expected note command")
	}
	if msg := cmd().(projectNoteSetMsg); msg.err != nil {
		t.Fatalf("set note failed: %v", msg.err)
	}

	projects, _ := store.LoadProjects()
	if got := projects.Projects[0].Note; got != "scope cut to phase one" {
		t.Errorf("note = %q", got)
	}
}

func TestProjectsPane_DeleteCmd(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	cat := firstCategory(t, store)
	store.AddProject("Doomed", cat.ID, 1, 12, "")

	pane := newTestProjectsPane(t, store)

	cmd := pane.Update(keyRunes("x"))
	if cmd == nil {
		t.Fatal("expected delete command")
	}
	if msg := cmd().(projectDeletedMsg); msg.err != nil {
		t.Fatalf("delete failed: %v", msg.err)
	}

	projects, _ := store.LoadProjects()
	if len(projects.Projects) != 0 {
		t.Error("expected project to be gone")
	}
}

func TestParseMonthRange(t *testing.T) {
	tests := []struct {
		in         string
		start, end int
		ok         bool
	}{
		{"3-8", 3, 8, true},
		{"5", 5, 5, true},
		{" 1 - 12 ", 1, 12, true},
		{"", 0, 0, false},
		{"x-8", 0, 0, false},
		{"3-y", 0, 0, false},
	}

	for _, tt := range tests {
		start, end, ok := parseMonthRange(tt.in)
		if start != tt.start || end != tt.end || ok != tt.ok {
			t.Errorf("parseMonthRange(%q) = (%d, %d, %v), want (%d, %d, %v)",
				tt.in, start, end, ok, tt.start, tt.end, tt.ok)
		}
	}
}
