// Package ui provides terminal user interface components for the haru app.
// This file contains tea.Cmd factories that wrap storage operations. These
// commands run I/O operations asynchronously to keep the Bubble Tea event
// loop responsive. Each command returns a corresponding message type defined
// in messages.go.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"haru/internal/storage"
)

// =============================================================================
// Store Commands
// =============================================================================

// loadStoresCmd returns a command that loads all three stores from disk.
// The first load error wins; partial results are still delivered so the
// panes can render what survived.
func loadStoresCmd(store *storage.Storage) tea.Cmd {
	return func() tea.Msg {
		msg := storesLoadedMsg{}
		msg.categories, msg.err = store.LoadCategories()
		if tasks, err := store.LoadTasks(); err == nil || tasks != nil {
			msg.tasks = tasks
			if msg.err == nil {
				msg.err = err
			}
		}
		if projects, err := store.LoadProjects(); err == nil || projects != nil {
			msg.projects = projects
			if msg.err == nil {
				msg.err = err
			}
		}
		return msg
	}
}

// =============================================================================
// Task Commands
// =============================================================================

// addTaskCmd returns a command that creates a new task on the given day.
func addTaskCmd(store *storage.Storage, dayKey, catID, text, hhmm, note string) tea.Cmd {
	return func() tea.Msg {
		task, err := store.AddTask(dayKey, catID, text, hhmm, note)
		return taskAddedMsg{task: task, err: err}
	}
}

// toggleTaskCmd returns a command that flips a task's done state.
func toggleTaskCmd(store *storage.Storage, dayKey, catID, id string) tea.Cmd {
	return func() tea.Msg {
		err := store.ToggleTask(dayKey, catID, id)
		return taskToggledMsg{id: id, err: err}
	}
}

// editTaskCmd returns a command that rewrites a task's text, time, and
// category, moving it between buckets if the category changed.
func editTaskCmd(store *storage.Storage, dayKey, id, text, hhmm, newCatID string) tea.Cmd {
	return func() tea.Msg {
		err := store.EditTask(dayKey, id, text, hhmm, newCatID)
		return taskEditedMsg{id: id, err: err}
	}
}

// setTaskNoteCmd returns a command that replaces a task's note.
func setTaskNoteCmd(store *storage.Storage, dayKey, catID, id, note string) tea.Cmd {
	return func() tea.Msg {
		err := store.SetTaskNote(dayKey, catID, id, note)
		return taskNoteSetMsg{id: id, err: err}
	}
}

// deleteTaskCmd returns a command that removes a task.
func deleteTaskCmd(store *storage.Storage, dayKey, catID, id, text string) tea.Cmd {
	return func() tea.Msg {
		err := store.DeleteTask(dayKey, catID, id)
		return taskDeletedMsg{id: id, text: text, err: err}
	}
}

// copyPreviousDayCmd returns a command that copies the previous day's tasks
// onto dayKey with fresh IDs and done state cleared.
func copyPreviousDayCmd(store *storage.Storage, dayKey string) tea.Cmd {
	return func() tea.Msg {
		copied, err := store.CopyFromPreviousDay(dayKey)
		return tasksCopiedMsg{copied: copied, err: err}
	}
}

// =============================================================================
// Category Commands
// =============================================================================

// addCategoryCmd returns a command that registers a new category with the
// default label and emoji.
func addCategoryCmd(store *storage.Storage) tea.Cmd {
	return func() tea.Msg {
		category, err := store.AddCategory()
		return categoryAddedMsg{category: category, err: err}
	}
}

// editCategoryCmd returns a command that renames a category.
func editCategoryCmd(store *storage.Storage, id, label, emoji string) tea.Cmd {
	return func() tea.Msg {
		err := store.EditCategory(id, label, emoji)
		return categoryEditedMsg{id: id, err: err}
	}
}

// deleteCategoryCmd returns a command that removes a category and cascades
// the deletion to its projects. The last remaining category is refused.
func deleteCategoryCmd(store *storage.Storage, id, label string) tea.Cmd {
	return func() tea.Msg {
		err := store.DeleteCategory(id)
		return categoryDeletedMsg{id: id, label: label, err: err}
	}
}

// =============================================================================
// Project Commands
// =============================================================================

// addProjectCmd returns a command that creates a new project at progress 0.
func addProjectCmd(store *storage.Storage, name, catID string, startMonth, endMonth int, note string) tea.Cmd {
	return func() tea.Msg {
		project, err := store.AddProject(name, catID, startMonth, endMonth, note)
		return projectAddedMsg{project: project, err: err}
	}
}

// editProjectCmd returns a command that rewrites a project's fields,
// leaving progress untouched.
func editProjectCmd(store *storage.Storage, id, name, catID string, startMonth, endMonth int) tea.Cmd {
	return func() tea.Msg {
		err := store.EditProject(id, name, catID, startMonth, endMonth)
		return projectEditedMsg{id: id, err: err}
	}
}

// setProjectProgressCmd returns a command that sets a project's progress,
// clamped to [0, 100].
func setProjectProgressCmd(store *storage.Storage, id string, v int) tea.Cmd {
	return func() tea.Msg {
		err := store.SetProjectProgress(id, v)
		return projectProgressMsg{id: id, err: err}
	}
}

// setProjectNoteCmd returns a command that replaces a project's note.
func setProjectNoteCmd(store *storage.Storage, id, note string) tea.Cmd {
	return func() tea.Msg {
		err := store.SetProjectNote(id, note)
		return projectNoteSetMsg{id: id, err: err}
	}
}

// deleteProjectCmd returns a command that removes a project.
func deleteProjectCmd(store *storage.Storage, id, name string) tea.Cmd {
	return func() tea.Msg {
		err := store.DeleteProject(id)
		return projectDeletedMsg{id: id, name: name, err: err}
	}
}
