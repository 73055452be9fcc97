// Package ui provides terminal user interface components for the haru app.
// This file implements the category editor overlay: rename, emoji picking,
// add, and delete-with-cascade.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"haru/internal/storage"
)

// emojiChoices is the fixed picker list for category emojis.
var emojiChoices = []string{
	"📰", "🎒", "🧸", "💼", "🎯", "📝", "💡", "🏠",
	"🎨", "📊", "🔬", "🎓", "🏃", "🍳", "📱", "✈️",
}

// catEditMode tracks what the category editor is doing.
type catEditMode int

const (
	catBrowse catEditMode = iota
	catRename
	catPickEmoji
)

// CategoryEditor is the overlay for managing the category registry.
type CategoryEditor struct {
	cats     []storage.Category
	cursor   int
	mode     catEditMode
	emojiIdx int
	input    textinput.Model
	width    int
	height   int
	storage  *storage.Storage
	styles   *Styles

	inputKeys InputKeyMap
}

// NewCategoryEditor creates a category editor overlay.
func NewCategoryEditor(store *storage.Storage, styles *Styles) *CategoryEditor {
	ti := textinput.New()
	ti.CharLimit = 40
	ti.Width = 30

	return &CategoryEditor{
		input:     ti,
		storage:   store,
		styles:    styles,
		inputKeys: DefaultInputKeyMap(),
	}
}

// setData replaces the editor's snapshot of the registry.
func (e *CategoryEditor) setData(cats *storage.CategoryStore) {
	if cats == nil {
		return
	}
	e.cats = cats.Categories
	if e.cursor >= len(e.cats) {
		e.cursor = max(0, len(e.cats)-1)
	}
}

// SetSize sets the overlay dimensions.
func (e *CategoryEditor) SetSize(width, height int) {
	e.width = width
	e.height = height
}

// IsInputting reports whether the editor is in a rename or pick step.
func (e *CategoryEditor) IsInputting() bool {
	return e.mode != catBrowse
}

// Selected returns the category under the cursor, or nil.
func (e *CategoryEditor) Selected() *storage.Category {
	if len(e.cats) == 0 || e.cursor < 0 || e.cursor >= len(e.cats) {
		return nil
	}
	c := e.cats[e.cursor]
	return &c
}

// Update handles keys while the editor is open. The second return value is
// true when the editor wants to close.
func (e *CategoryEditor) Update(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch e.mode {
	case catRename:
		switch {
		case key.Matches(msg, e.inputKeys.Cancel):
			e.mode = catBrowse
			e.input.Reset()
			return nil, false
		case key.Matches(msg, e.inputKeys.Confirm):
			label := strings.TrimSpace(e.input.Value())
			e.mode = catBrowse
			e.input.Reset()
			if c := e.Selected(); c != nil && label != "" {
				return editCategoryCmd(e.storage, c.ID, label, c.Emoji), false
			}
			return nil, false
		}
		var cmd tea.Cmd
		e.input, cmd = e.input.Update(msg)
		return cmd, false

	case catPickEmoji:
		switch msg.String() {
		case "esc":
			e.mode = catBrowse
			return nil, false
		case "left", "h", "up", "k":
			if e.emojiIdx > 0 {
				e.emojiIdx--
			}
			return nil, false
		case "right", "l", "down", "j", "tab":
			if e.emojiIdx < len(emojiChoices)-1 {
				e.emojiIdx++
			}
			return nil, false
		case "enter":
			e.mode = catBrowse
			if c := e.Selected(); c != nil {
				return editCategoryCmd(e.storage, c.ID, c.Label, emojiChoices[e.emojiIdx]), false
			}
			return nil, false
		}
		return nil, false
	}

	// Browse mode
	switch msg.String() {
	case "esc", "q", "C":
		return nil, true
	case "j", "down":
		if len(e.cats) > 0 {
			e.cursor = min(e.cursor+1, len(e.cats)-1)
		}
	case "k", "up":
		if len(e.cats) > 0 {
			e.cursor = max(e.cursor-1, 0)
		}
	case "a":
		return addCategoryCmd(e.storage), false
	case "r", "enter":
		if c := e.Selected(); c != nil {
			e.mode = catRename
			e.input.Placeholder = "Category name"
			e.input.SetValue(c.Label)
			e.input.CursorEnd()
			e.input.Focus()
			return textinput.Blink, false
		}
	case "m":
		if c := e.Selected(); c != nil {
			e.mode = catPickEmoji
			e.emojiIdx = 0
			for i, em := range emojiChoices {
				if em == c.Emoji {
					e.emojiIdx = i
					break
				}
			}
		}
	}

	return nil, false
}

// DeleteSelectedCmd returns the cascade-delete command for the category under
// the cursor. The app wraps it in the confirm-delete overlay.
func (e *CategoryEditor) DeleteSelectedCmd() (tea.Cmd, string) {
	c := e.Selected()
	if c == nil {
		return nil, ""
	}
	return deleteCategoryCmd(e.storage, c.ID, c.Label), c.Label
}

// View renders the editor overlay.
func (e *CategoryEditor) View() string {
	overlayWidth := 54
	if e.width > 0 {
		overlayWidth = min(54, max(24, e.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(e.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	var b strings.Builder
	b.WriteString(e.styles.PaneTitleStyle.Render("Categories"))
	b.WriteString("\n")

	for i, c := range e.cats {
		line := fmt.Sprintf("%s %s", c.Emoji, c.Label)
		if i == e.cursor && e.mode == catBrowse {
			line = e.styles.TaskSelectedStyle.Render(" " + line + " ")
		} else {
			line = "  " + e.styles.CategoryStyle(i).Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	switch e.mode {
	case catRename:
		b.WriteString("\n")
		b.WriteString(e.styles.InputPromptStyle.Render("name: ") + e.input.View())
	case catPickEmoji:
		b.WriteString("\n")
		var parts []string
		for i, em := range emojiChoices {
			if i == e.emojiIdx {
				parts = append(parts, e.styles.TabActiveStyle.Render(em))
			} else {
				parts = append(parts, em)
			}
		}
		b.WriteString(e.styles.InputPromptStyle.Render("emoji: ") + strings.Join(parts, " "))
	default:
		b.WriteString("\n")
		b.WriteString(e.styles.StatLabelStyle.Render("[r] rename  [m] emoji  [a] add  [x] delete  [esc] close"))
	}

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(e.width, e.height, lipgloss.Center, lipgloss.Center, content)
}
