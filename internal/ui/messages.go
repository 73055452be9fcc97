// Package ui provides terminal user interface components for the haru app.
// This file defines message types for async I/O operations using the Bubble Tea
// command pattern. All storage operations should return these messages to keep
// the event loop non-blocking.
package ui

import (
	"haru/internal/storage"
)

// =============================================================================
// Store Messages
// =============================================================================

// storesLoadedMsg is sent when all three stores are (re)loaded from disk.
type storesLoadedMsg struct {
	categories *storage.CategoryStore
	tasks      *storage.TaskStore
	projects   *storage.ProjectStore
	err        error
}

// =============================================================================
// Task Messages
// =============================================================================

// taskAddedMsg is sent when a new task is created.
type taskAddedMsg struct {
	task *storage.Task
	err  error
}

// taskToggledMsg is sent when a task's done state is flipped.
type taskToggledMsg struct {
	id  string
	err error
}

// taskEditedMsg is sent when a task's text, time, or category is changed.
type taskEditedMsg struct {
	id  string
	err error
}

// taskNoteSetMsg is sent when a task's note is replaced.
type taskNoteSetMsg struct {
	id  string
	err error
}

// taskDeletedMsg is sent when a task is removed.
type taskDeletedMsg struct {
	id   string
	text string
	err  error
}

// tasksCopiedMsg is sent after a copy-from-previous-day attempt.
type tasksCopiedMsg struct {
	copied bool
	err    error
}

// =============================================================================
// Category Messages
// =============================================================================

// categoryAddedMsg is sent when a new category is registered.
type categoryAddedMsg struct {
	category *storage.Category
	err      error
}

// categoryEditedMsg is sent when a category's label or emoji is changed.
type categoryEditedMsg struct {
	id  string
	err error
}

// categoryDeletedMsg is sent when a category is removed (projects cascade).
type categoryDeletedMsg struct {
	id    string
	label string
	err   error
}

// =============================================================================
// Project Messages
// =============================================================================

// projectAddedMsg is sent when a new project is created.
type projectAddedMsg struct {
	project *storage.Project
	err     error
}

// projectEditedMsg is sent when a project's fields are changed.
type projectEditedMsg struct {
	id  string
	err error
}

// projectProgressMsg is sent when a project's progress is adjusted.
type projectProgressMsg struct {
	id  string
	err error
}

// projectNoteSetMsg is sent when a project's note is replaced.
type projectNoteSetMsg struct {
	id  string
	err error
}

// projectDeletedMsg is sent when a project is removed.
type projectDeletedMsg struct {
	id   string
	name string
	err  error
}

// =============================================================================
// Rollover Messages
// =============================================================================

// dayChangedMsg is sent when the calendar day ticks over, either by the
// periodic poll or the cron scheduler. Carries the new today key.
type dayChangedMsg struct {
	today string
}
