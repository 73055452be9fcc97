// Package config handles configuration loading and defaults for the haru app.
// Configuration is loaded from XDG-compliant paths (typically ~/.config/haru/config.yaml).
package config

import (
	"os"
	"path/filepath"

	"haru/internal/fsutil"

	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.haru)
	DataDir string `yaml:"data_dir,omitempty"`

	// Timezone is the IANA timezone name used to resolve "today" and the
	// midnight rollover. Defaults to Asia/Seoul.
	Timezone string `yaml:"timezone,omitempty"`

	// Theme customizes the visual appearance
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	// UX customizes user experience settings
	UX UXConfig `yaml:"ux,omitempty"`
}

// ThemeConfig defines color and style settings.
type ThemeConfig struct {
	// Primary color for focused elements (hex, e.g., "#FF5733")
	Primary string `yaml:"primary,omitempty"`

	// Accent color for highlights (hex)
	Accent string `yaml:"accent,omitempty"`

	// Muted color for secondary text (hex)
	Muted string `yaml:"muted,omitempty"`

	// Palette overrides the category color cycle (hex values, applied
	// positionally to categories in order).
	Palette []string `yaml:"palette,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q,ctrl+c", "tab", "j,down"
type KeysConfig struct {
	// Global keys
	Quit        string `yaml:"quit,omitempty"`         // default: "q,ctrl+c"
	Help        string `yaml:"help,omitempty"`         // default: "?"
	NextTab     string `yaml:"next_tab,omitempty"`     // default: "tab"
	DailyTab    string `yaml:"daily_tab,omitempty"`    // default: "1"
	ProjectsTab string `yaml:"projects_tab,omitempty"` // default: "2"

	// Navigation keys
	Up      string `yaml:"up,omitempty"`       // default: "k,up"
	Down    string `yaml:"down,omitempty"`     // default: "j,down"
	PrevDay string `yaml:"prev_day,omitempty"` // default: "h,left"
	NextDay string `yaml:"next_day,omitempty"` // default: "l,right"
	Today   string `yaml:"today,omitempty"`    // default: "t"

	// Item keys (shared by tasks and projects)
	Add    string `yaml:"add,omitempty"`    // default: "a"
	Toggle string `yaml:"toggle,omitempty"` // default: "d,enter,space"
	Edit   string `yaml:"edit,omitempty"`   // default: "e"
	Note   string `yaml:"note,omitempty"`   // default: "n"
	Delete string `yaml:"delete,omitempty"` // default: "x"

	// Daily pane keys
	CopyYesterday string `yaml:"copy_yesterday,omitempty"` // default: "y"
	Calendar      string `yaml:"calendar,omitempty"`       // default: "c"
	NextCategory  string `yaml:"next_category,omitempty"`  // default: "f"
	EditCategory  string `yaml:"edit_category,omitempty"`  // default: "C"

	// Project keys
	ProgressUp   string `yaml:"progress_up,omitempty"`   // default: "+,="
	ProgressDown string `yaml:"progress_down,omitempty"` // default: "-,_"

	// Input keys
	Confirm string `yaml:"confirm,omitempty"` // default: "enter"
	Cancel  string `yaml:"cancel,omitempty"`  // default: "esc"
}

// UXConfig defines user experience settings.
type UXConfig struct {
	// ConfirmDeletions shows confirmation dialogs before deleting items
	ConfirmDeletions bool `yaml:"confirm_deletions,omitempty"` // default: true

	// ShowOnboarding shows welcome screen on first run
	ShowOnboarding bool `yaml:"show_onboarding,omitempty"` // default: true

	// NarrowLayoutThreshold is the terminal width below which to use stacked layout
	NarrowLayoutThreshold int `yaml:"narrow_layout_threshold,omitempty"` // default: 80

	// ProgressStep is the percentage applied by the progress up/down keys
	ProgressStep int `yaml:"progress_step,omitempty"` // default: 5
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir:  defaultDataDir(),
		Timezone: "Asia/Seoul",
		Theme: ThemeConfig{
			Primary: "#7C3AED", // Violet
			Accent:  "#10B981", // Emerald
			Muted:   "#6B7280", // Gray
			Palette: nil,       // Built-in category cycle
		},
		Keys: KeysConfig{
			// Defaults are empty strings, which means use built-in defaults
		},
		UX: UXConfig{
			ConfirmDeletions:      true,
			ShowOnboarding:        true,
			NarrowLayoutThreshold: 80,
			ProgressStep:          5,
		},
	}
}

// defaultDataDir returns the default data directory path.
func defaultDataDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return ".haru"
	}
	return filepath.Join(home, ".haru")
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "haru")
	}

	// Fall back to ~/.config/haru
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "haru")
}

// configPath returns the path to the config file.
func configPath() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from disk, merging with defaults.
// If no config file exists, returns default configuration.
func Load() (*Config, error) {
	cfg := Default()

	path := configPath()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file, use defaults
			return cfg, nil
		}
		return nil, err
	}

	// Parse YAML and merge with defaults
	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return nil, err
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

	// Merge user config with defaults (presence-aware for booleans/slices)
	cfg.mergeFromYAML(&userCfg, &doc)

	return cfg, nil
}

// mergeNonEmpty applies non-empty values from other to c.
// It intentionally does not touch booleans or slices (those require presence-aware merging).
func (c *Config) mergeNonEmpty(other *Config) {
	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}
	if other.Timezone != "" {
		c.Timezone = other.Timezone
	}

	// Theme merging
	if other.Theme.Primary != "" {
		c.Theme.Primary = other.Theme.Primary
	}
	if other.Theme.Accent != "" {
		c.Theme.Accent = other.Theme.Accent
	}
	if other.Theme.Muted != "" {
		c.Theme.Muted = other.Theme.Muted
	}

	// Keys merging
	if other.Keys.Quit != "" {
		c.Keys.Quit = other.Keys.Quit
	}
	if other.Keys.Help != "" {
		c.Keys.Help = other.Keys.Help
	}
	if other.Keys.NextTab != "" {
		c.Keys.NextTab = other.Keys.NextTab
	}
	if other.Keys.DailyTab != "" {
		c.Keys.DailyTab = other.Keys.DailyTab
	}
	if other.Keys.ProjectsTab != "" {
		c.Keys.ProjectsTab = other.Keys.ProjectsTab
	}
	if other.Keys.Up != "" {
		c.Keys.Up = other.Keys.Up
	}
	if other.Keys.Down != "" {
		c.Keys.Down = other.Keys.Down
	}
	if other.Keys.PrevDay != "" {
		c.Keys.PrevDay = other.Keys.PrevDay
	}
	if other.Keys.NextDay != "" {
		c.Keys.NextDay = other.Keys.NextDay
	}
	if other.Keys.Today != "" {
		c.Keys.Today = other.Keys.Today
	}
	if other.Keys.Add != "" {
		c.Keys.Add = other.Keys.Add
	}
	if other.Keys.Toggle != "" {
		c.Keys.Toggle = other.Keys.Toggle
	}
	if other.Keys.Edit != "" {
		c.Keys.Edit = other.Keys.Edit
	}
	if other.Keys.Note != "" {
		c.Keys.Note = other.Keys.Note
	}
	if other.Keys.Delete != "" {
		c.Keys.Delete = other.Keys.Delete
	}
	if other.Keys.CopyYesterday != "" {
		c.Keys.CopyYesterday = other.Keys.CopyYesterday
	}
	if other.Keys.Calendar != "" {
		c.Keys.Calendar = other.Keys.Calendar
	}
	if other.Keys.NextCategory != "" {
		c.Keys.NextCategory = other.Keys.NextCategory
	}
	if other.Keys.EditCategory != "" {
		c.Keys.EditCategory = other.Keys.EditCategory
	}
	if other.Keys.ProgressUp != "" {
		c.Keys.ProgressUp = other.Keys.ProgressUp
	}
	if other.Keys.ProgressDown != "" {
		c.Keys.ProgressDown = other.Keys.ProgressDown
	}
	if other.Keys.Confirm != "" {
		c.Keys.Confirm = other.Keys.Confirm
	}
	if other.Keys.Cancel != "" {
		c.Keys.Cancel = other.Keys.Cancel
	}

	// UX ints (presence-aware in mergeFromYAML)
	if other.UX.NarrowLayoutThreshold > 0 {
		c.UX.NarrowLayoutThreshold = other.UX.NarrowLayoutThreshold
	}
	if other.UX.ProgressStep > 0 {
		c.UX.ProgressStep = other.UX.ProgressStep
	}
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	// Fall back to conservative behavior if we can't inspect presence.
	if doc == nil || len(doc.Content) == 0 {
		// Avoid clobbering defaults with zero-values: only apply non-empty strings and non-zero ints.
		c.mergeNonEmpty(other)
		if len(other.Theme.Palette) > 0 {
			c.Theme.Palette = other.Theme.Palette
		}
		return
	}

	// First apply all non-empty string-ish merges.
	c.mergeNonEmpty(other)

	// Now re-apply booleans and slices only when present in YAML.
	if yamlHasPath(doc, "ux", "confirm_deletions") {
		c.UX.ConfirmDeletions = other.UX.ConfirmDeletions
	}
	if yamlHasPath(doc, "ux", "show_onboarding") {
		c.UX.ShowOnboarding = other.UX.ShowOnboarding
	}
	if yamlHasPath(doc, "ux", "narrow_layout_threshold") && other.UX.NarrowLayoutThreshold > 0 {
		c.UX.NarrowLayoutThreshold = other.UX.NarrowLayoutThreshold
	}
	if yamlHasPath(doc, "ux", "progress_step") && other.UX.ProgressStep > 0 {
		c.UX.ProgressStep = other.UX.ProgressStep
	}

	if yamlHasPath(doc, "theme", "palette") {
		c.Theme.Palette = other.Theme.Palette
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	// Document -> root mapping.
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			v := n.Content[i+1]
			if k.Kind == yaml.ScalarNode && k.Value == key {
				next = v
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	path := configPath()
	if path == "" {
		return nil
	}

	// Create config directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the resolved data directory path, expanding a leading ~.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	expanded, err := homedir.Expand(c.DataDir)
	if err != nil {
		return c.DataDir
	}
	return expanded
}
