// Package ui provides terminal user interface components for the haru app.
// This file defines key bindings using the Bubble Tea key package for
// type-safe key matching, help text generation, and future customization.
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"haru/internal/config"
)

// =============================================================================
// Helpers
// =============================================================================

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		trimmed := strings.TrimSpace(k)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// =============================================================================
// Global Keys (available in all contexts)
// =============================================================================

// GlobalKeyMap defines keys available throughout the application.
type GlobalKeyMap struct {
	Quit        key.Binding
	Help        key.Binding
	NextTab     key.Binding
	DailyTab    key.Binding
	ProjectsTab key.Binding
}

// DefaultGlobalKeyMap returns the default global key bindings.
func DefaultGlobalKeyMap() GlobalKeyMap {
	return NewGlobalKeyMap(&config.KeysConfig{})
}

// NewGlobalKeyMap creates global key bindings from config.
func NewGlobalKeyMap(cfg *config.KeysConfig) GlobalKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return GlobalKeyMap{
		Quit: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Quit, "q", "ctrl+c")...),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Help, "?")...),
			key.WithHelp("?", "help"),
		),
		NextTab: key.NewBinding(
			key.WithKeys(parseKeys(cfg.NextTab, "tab")...),
			key.WithHelp("tab", "switch tab"),
		),
		DailyTab: key.NewBinding(
			key.WithKeys(parseKeys(cfg.DailyTab, "1")...),
			key.WithHelp("1", "daily"),
		),
		ProjectsTab: key.NewBinding(
			key.WithKeys(parseKeys(cfg.ProjectsTab, "2")...),
			key.WithHelp("2", "projects"),
		),
	}
}

// =============================================================================
// Navigation Keys (shared by list-based panes)
// =============================================================================

// NavigationKeyMap defines keys for list navigation.
type NavigationKeyMap struct {
	Up   key.Binding
	Down key.Binding
}

// DefaultNavigationKeyMap returns the default navigation key bindings.
func DefaultNavigationKeyMap() NavigationKeyMap {
	return NewNavigationKeyMap(&config.KeysConfig{})
}

// NewNavigationKeyMap creates navigation key bindings from config.
func NewNavigationKeyMap(cfg *config.KeysConfig) NavigationKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return NavigationKeyMap{
		Up: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Up, "k", "up")...),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Down, "j", "down")...),
			key.WithHelp("j/↓", "down"),
		),
	}
}

// =============================================================================
// Input Keys (shared by text input fields)
// =============================================================================

// InputKeyMap defines keys for text input mode.
type InputKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultInputKeyMap returns the default input key bindings.
func DefaultInputKeyMap() InputKeyMap {
	return NewInputKeyMap(&config.KeysConfig{})
}

// NewInputKeyMap creates input key bindings from config.
func NewInputKeyMap(cfg *config.KeysConfig) InputKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return InputKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Confirm, "enter")...),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Cancel, "esc")...),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// =============================================================================
// Daily Pane Keys
// =============================================================================

// DailyKeyMap defines keys for the daily pane.
type DailyKeyMap struct {
	PrevDay       key.Binding
	NextDay       key.Binding
	Today         key.Binding
	Add           key.Binding
	Toggle        key.Binding
	Edit          key.Binding
	Note          key.Binding
	Delete        key.Binding
	CopyYesterday key.Binding
	Calendar      key.Binding
	NextCategory  key.Binding
	EditCategory  key.Binding
	NavigationKeyMap
}

// DefaultDailyKeyMap returns the default daily pane key bindings.
func DefaultDailyKeyMap() DailyKeyMap {
	return NewDailyKeyMap(&config.KeysConfig{})
}

// NewDailyKeyMap creates daily pane key bindings from config.
func NewDailyKeyMap(cfg *config.KeysConfig) DailyKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return DailyKeyMap{
		PrevDay: key.NewBinding(
			key.WithKeys(parseKeys(cfg.PrevDay, "h", "left")...),
			key.WithHelp("h/←", "prev day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys(parseKeys(cfg.NextDay, "l", "right")...),
			key.WithHelp("l/→", "next day"),
		),
		Today: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Today, "t")...),
			key.WithHelp("t", "today"),
		),
		Add: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Add, "a")...),
			key.WithHelp("a", "add task"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Toggle, " ", "enter", "d")...),
			key.WithHelp("d/space", "toggle done"),
		),
		Edit: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Edit, "e")...),
			key.WithHelp("e", "edit"),
		),
		Note: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Note, "n")...),
			key.WithHelp("n", "note"),
		),
		Delete: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Delete, "x")...),
			key.WithHelp("x", "delete"),
		),
		CopyYesterday: key.NewBinding(
			key.WithKeys(parseKeys(cfg.CopyYesterday, "y")...),
			key.WithHelp("y", "copy yesterday"),
		),
		Calendar: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Calendar, "c")...),
			key.WithHelp("c", "calendar"),
		),
		NextCategory: key.NewBinding(
			key.WithKeys(parseKeys(cfg.NextCategory, "f")...),
			key.WithHelp("f", "filter category"),
		),
		EditCategory: key.NewBinding(
			key.WithKeys(parseKeys(cfg.EditCategory, "C")...),
			key.WithHelp("C", "categories"),
		),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// ShortHelp returns the short help for the daily pane (implements help.KeyMap).
func (k DailyKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.PrevDay, k.NextDay, k.Calendar}
}

// FullHelp returns the full help for the daily pane (implements help.KeyMap).
func (k DailyKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Toggle, k.Edit, k.Note, k.Delete},
		{k.PrevDay, k.NextDay, k.Today, k.Calendar, k.CopyYesterday},
		{k.Up, k.Down, k.NextCategory, k.EditCategory},
	}
}

// =============================================================================
// Projects Pane Keys
// =============================================================================

// ProjectKeyMap defines keys for the projects pane.
type ProjectKeyMap struct {
	Add          key.Binding
	Edit         key.Binding
	Note         key.Binding
	Delete       key.Binding
	ProgressUp   key.Binding
	ProgressDown key.Binding
	NavigationKeyMap
}

// DefaultProjectKeyMap returns the default projects pane key bindings.
func DefaultProjectKeyMap() ProjectKeyMap {
	return NewProjectKeyMap(&config.KeysConfig{})
}

// NewProjectKeyMap creates projects pane key bindings from config.
func NewProjectKeyMap(cfg *config.KeysConfig) ProjectKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return ProjectKeyMap{
		Add: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Add, "a")...),
			key.WithHelp("a", "add project"),
		),
		Edit: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Edit, "e")...),
			key.WithHelp("e", "edit"),
		),
		Note: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Note, "n")...),
			key.WithHelp("n", "note"),
		),
		Delete: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Delete, "x")...),
			key.WithHelp("x", "delete"),
		),
		ProgressUp: key.NewBinding(
			key.WithKeys(parseKeys(cfg.ProgressUp, "+", "=")...),
			key.WithHelp("+", "progress up"),
		),
		ProgressDown: key.NewBinding(
			key.WithKeys(parseKeys(cfg.ProgressDown, "-")...),
			key.WithHelp("-", "progress down"),
		),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// ShortHelp returns the short help for the projects pane (implements help.KeyMap).
func (k ProjectKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.ProgressUp, k.ProgressDown, k.Down}
}

// FullHelp returns the full help for the projects pane (implements help.KeyMap).
func (k ProjectKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Edit, k.Note, k.Delete},
		{k.ProgressUp, k.ProgressDown, k.Up, k.Down},
	}
}

// =============================================================================
// Help Overlay Keys
// =============================================================================

// HelpKeyMap defines keys for the help overlay.
type HelpKeyMap struct {
	Close key.Binding
}

// DefaultHelpKeyMap returns the default help overlay key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Close: key.NewBinding(
			key.WithKeys("?", "esc", "q", "enter", " "),
			key.WithHelp("any key", "close"),
		),
	}
}
