package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"haru/internal/storage"
)

const testDay = "2025-03-14" // a Friday

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyEnter() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

func keyEsc() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEsc}
}

// refreshDaily reloads both stores into the pane, the way the app model does
// after every mutation.
func refreshDaily(t *testing.T, store *storage.Storage, pane *DailyPane) {
	t.Helper()
	cats, err := store.LoadCategories()
	if err != nil {
		t.Fatalf("load categories: %v", err)
	}
	tasks, err := store.LoadTasks()
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	pane.setData(cats, tasks)
}

func newTestDailyPane(t *testing.T, store *storage.Storage) *DailyPane {
	t.Helper()
	pane := NewDailyPane(store, createTestStyles(), testDay)
	pane.SetSize(60, 24)
	pane.SetFocused(true)
	refreshDaily(t, store, pane)
	return pane
}

func TestDailyPaneView_Empty(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	pane := newTestDailyPane(t, store)

	view := pane.View()
	if !strings.Contains(view, "No tasks for this day") {
		t.Errorf("expected empty state hint, got:\n%s", view)
	}
	if !strings.Contains(view, testDay) {
		t.Errorf("expected header to show %s", testDay)
	}
	if !strings.Contains(view, "today") {
		t.Error("expected today badge on the current day")
	}
}

func TestDailyPaneView_WithTasks(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	cat := firstCategory(t, store)

	store.AddTask(testDay, cat.ID, "Review budget", "09:00", "")
	task, _ := store.AddTask(testDay, cat.ID, "Call dentist", "14:30", "")
	store.ToggleTask(testDay, cat.ID, task.ID)

	pane := newTestDailyPane(t, store)
	view := pane.View()

	if !strings.Contains(view, "Review budget") {
		t.Error("expected pending task text in view")
	}
	if !strings.Contains(view, "Call dentist") {
		t.Error("expected done task text in view")
	}
	if !strings.Contains(view, "14:30") {
		t.Error("expected task time in view")
	}
	if !strings.Contains(view, cat.Label) {
		t.Errorf("expected category header %q in view", cat.Label)
	}
	if !strings.Contains(view, "1/2") {
		t.Error("expected 1/2 progress count in header")
	}
}

func TestDailyPane_Navigation(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	cat := firstCategory(t, store)

	store.AddTask(testDay, cat.ID, "First", "09:00", "")
	store.AddTask(testDay, cat.ID, "Second", "10:00", "")
	store.AddTask(testDay, cat.ID, "Third", "11:00", "")

	pane := newTestDailyPane(t, store)

	if pane.cursor != 0 {
		t.Errorf("initial cursor = %d, want 0", pane.cursor)
	}

	pane.Update(keyRunes("j"))
	pane.Update(keyRunes("j"))
	if pane.cursor != 2 {
		t.Errorf("cursor after two downs = %d, want 2", pane.cursor)
	}

	// Clamped at the bottom
	pane.Update(keyRunes("j"))
	if pane.cursor != 2 {
		t.Errorf("cursor after clamped down = %d, want 2", pane.cursor)
	}

	pane.Update(keyRunes("k"))
	if pane.cursor != 1 {
		t.Errorf("cursor after up = %d, want 1", pane.cursor)
	}
}

func TestDailyPane_DayNavigation(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	pane := newTestDailyPane(t, store)

	pane.Update(keyRunes("l"))
	if pane.SelectedDay() != "2025-03-15" {
		t.Errorf("next day = %s, want 2025-03-15", pane.SelectedDay())
	}

	pane.Update(keyRunes("h"))
	pane.Update(keyRunes("h"))
	if pane.SelectedDay() != "2025-03-13" {
		t.Errorf("prev day = %s, want 2025-03-13", pane.SelectedDay())
	}

	pane.Update(keyRunes("t"))
	if pane.SelectedDay() != testDay {
		t.Errorf("after today key = %s, want %s", pane.SelectedDay(), testDay)
	}
}

func TestDailyPane_MonthBoundaryNavigation(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	pane := NewDailyPane(store, createTestStyles(), "2025-03-01")
	pane.SetSize(60, 24)
	pane.SetFocused(true)
	refreshDaily(t, store, pane)

	pane.Update(keyRunes("h"))
	if pane.SelectedDay() != "2025-02-28" {
		t.Errorf("day before 2025-03-01 = %s, want 2025-02-28", pane.SelectedDay())
	}
}

func TestDailyPane_FilterCycle(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	pane := newTestDailyPane(t, store)

	cats, _ := store.LoadCategories()
	n := len(cats.Categories)

	if pane.filter != "" {
		t.Fatalf("initial filter = %q, want all", pane.filter)
	}

	for i := 0; i < n; i++ {
		pane.Update(keyRunes("f"))
		if pane.filter != cats.Categories[i].ID {
			t.Errorf("filter after %d presses = %q, want %q", i+1, pane.filter, cats.Categories[i].ID)
		}
	}

	// One more press wraps back to all
	pane.Update(keyRunes("f"))
	if pane.filter != "" {
		t.Errorf("filter after full cycle = %q, want all", pane.filter)
	}
}

func TestDailyPane_FilterHidesOtherCategories(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	cats, _ := store.LoadCategories()
	if len(cats.Categories) < 2 {
		t.Skip("needs at least two seeded categories")
	}

	store.AddTask(testDay, cats.Categories[0].ID, "In first", "09:00", "")
	store.AddTask(testDay, cats.Categories[1].ID, "In second", "10:00", "")

	pane := newTestDailyPane(t, store)
	pane.Update(keyRunes("f")) // filter to first category

	view := pane.View()
	if !strings.Contains(view, "In first") {
		t.Error("expected filtered category's task in view")
	}
	if strings.Contains(view, "In second") {
		t.Error("expected other category's task to be hidden")
	}
}

func TestDailyPane_AddFlow(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	pane := newTestDailyPane(t, store)

	pane.Update(keyRunes("a"))
	if !pane.IsInputting() {
		t.Fatal("expected input mode after add key")
	}

	pane.input.SetValue("Buy milk")
	pane.Update(keyEnter()) // text -> time

	if got := pane.input.Value(); got != "09:00" {
		t.Errorf("default time = %q, want 09:00", got)
	}
	pane.input.SetValue("18:00")
	pane.Update(keyEnter()) // time -> category
	pane.Update(keyEnter()) // category -> note

	pane.input.SetValue("2L this time")
	cmd := pane.Update(keyEnter())
	if cmd == nil {
		t.Fatal("expected a command committing the task")
	}

	msg, ok := cmd().(taskAddedMsg)
	if !ok {
		t.Fatalf("expected taskAddedMsg, got %T", cmd())
	}
	if msg.err != nil {
		t.Fatalf("add failed: %v", msg.err)
	}

	tasks, _ := store.LoadTasks()
	cat := firstCategory(t, store)
	bucket := tasks.Bucket(testDay)
	if len(bucket[cat.ID]) != 1 {
		t.Fatalf("expected 1 task in first category, got %d", len(bucket[cat.ID]))
	}
	got := bucket[cat.ID][0]
	if got.Text != "Buy milk" || got.Time != "18:00" || got.Note != "2L this time" {
		t.Errorf("stored task = %+v", got)
	}
	if pane.IsInputting() {
		t.Error("expected input mode to end after commit")
	}
}

func TestDailyPane_AddFlowCancel(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	pane := newTestDailyPane(t, store)

	pane.Update(keyRunes("a"))
	pane.input.SetValue("Half-typed")
	pane.Update(keyEsc())

	if pane.IsInputting() {
		t.Error("expected esc to cancel input mode")
	}

	tasks, _ := store.LoadTasks()
	if len(tasks.Days) != 0 {
		t.Error("expected no task to be stored after cancel")
	}
}

func TestDailyPane_ToggleCmd(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	cat := firstCategory(t, store)
	store.AddTask(testDay, cat.ID, "Flip me", "09:00", "")

	pane := newTestDailyPane(t, store)

	cmd := pane.Update(keyRunes("d"))
	if cmd == nil {
		t.Fatal("expected toggle command")
	}
	if msg := cmd().(taskToggledMsg); msg.err != nil {
		t.Fatalf("toggle failed: %v", msg.err)
	}

	tasks, _ := store.LoadTasks()
	if got := tasks.Bucket(testDay)[cat.ID][0]; !got.Done {
		t.Error("expected task to be done after toggle")
	}
}

func TestDailyPane_DeleteCmd(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	cat := firstCategory(t, store)
	store.AddTask(testDay, cat.ID, "Remove me", "09:00", "")

	pane := newTestDailyPane(t, store)

	cmd := pane.Update(keyRunes("x"))
	if cmd == nil {
		t.Fatal("expected delete command")
	}
	if msg := cmd().(taskDeletedMsg); msg.err != nil {
		t.Fatalf("delete failed: %v", msg.err)
	}

	tasks, _ := store.LoadTasks()
	if len(tasks.Bucket(testDay)[cat.ID]) != 0 {
		t.Error("expected task to be gone")
	}
}

func TestDailyPane_NoteFlow(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	cat := firstCategory(t, store)
	store.AddTask(testDay, cat.ID, "Annotated", "09:00", "")

	pane := newTestDailyPane(t, store)

	pane.Update(keyRunes("n"))
	if !pane.IsInputting() {
		t.Fatal("expected note input mode")
	}
	pane.input.SetValue("remember the context")
	cmd := pane.Update(keyEnter())
	if cmd == nil {
		t.Fatal("expected note command")
	}
	if msg := cmd().(taskNoteSetMsg); msg.err != nil {
		t.Fatalf("set note failed: %v", msg.err)
	}

	tasks, _ := store.LoadTasks()
	if got := tasks.Bucket(testDay)[cat.ID][0].Note; got != "remember the context" {
		t.Errorf("note = %q", got)
	}
}

func TestDailyPane_CopyYesterdayOnlyWhenEmpty(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	cat := firstCategory(t, store)
	store.AddTask("2025-03-13", cat.ID, "Carried over", "09:00", "")

	pane := newTestDailyPane(t, store)

	view := pane.View()
	if !strings.Contains(view, "copies yesterday") {
		t.Error("expected copy hint when previous day has tasks")
	}

	cmd := pane.Update(keyRunes("y"))
	if cmd == nil {
		t.Fatal("expected copy command on an empty day")
	}
	msg := cmd().(tasksCopiedMsg)
	if msg.err != nil || !msg.copied {
		t.Fatalf("copy = %+v", msg)
	}

	refreshDaily(t, store, pane)

	tasks, _ := store.LoadTasks()
	copied := tasks.Bucket(testDay)[cat.ID]
	if len(copied) != 1 || copied[0].Text != "Carried over" {
		t.Fatalf("copied tasks = %+v", copied)
	}
	if copied[0].Done {
		t.Error("copied task should start pending")
	}

	// Non-empty day: copy is not offered
	if cmd := pane.Update(keyRunes("y")); cmd != nil {
		t.Error("expected copy to be a no-op when the day has tasks")
	}
}

func TestDailyPane_CalendarToggle(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	pane := newTestDailyPane(t, store)

	pane.Update(keyRunes("c"))
	view := pane.View()
	if !strings.Contains(view, "Su Mo Tu We Th Fr Sa") {
		t.Error("expected weekday header in calendar view")
	}
	if !strings.Contains(view, "2025-03") {
		t.Error("expected month label in calendar view")
	}

	pane.Update(keyEsc())
	if pane.showCal {
		t.Error("expected esc to close the calendar")
	}
}

func TestDailyPane_CalendarWeekNavigation(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	pane := newTestDailyPane(t, store)

	pane.Update(keyRunes("c"))
	pane.Update(keyRunes("j"))
	if pane.SelectedDay() != "2025-03-21" {
		t.Errorf("week down = %s, want 2025-03-21", pane.SelectedDay())
	}
	pane.Update(keyRunes("k"))
	pane.Update(keyRunes("k"))
	if pane.SelectedDay() != "2025-03-07" {
		t.Errorf("week up twice = %s, want 2025-03-07", pane.SelectedDay())
	}
}

func TestDailyPane_Stats(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	cat := firstCategory(t, store)

	pane := newTestDailyPane(t, store)
	if done, total := pane.Stats(); done != 0 || total != 0 {
		t.Errorf("Stats() = (%d, %d), want (0, 0)", done, total)
	}

	task, _ := store.AddTask(testDay, cat.ID, "One", "09:00", "")
	store.AddTask(testDay, cat.ID, "Two", "10:00", "")
	store.ToggleTask(testDay, cat.ID, task.ID)
	refreshDaily(t, store, pane)

	if done, total := pane.Stats(); done != 1 || total != 2 {
		t.Errorf("Stats() = (%d, %d), want (1, 2)", done, total)
	}
}

func TestDailyPane_NoteShownUnderCursor(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	cat := firstCategory(t, store)
	store.AddTask(testDay, cat.ID, "Has note", "09:00", "bring the printed copy")

	pane := newTestDailyPane(t, store)
	view := pane.View()
	if !strings.Contains(view, "bring the printed copy") {
		t.Error("expected the note expanded under the cursor row")
	}
}
