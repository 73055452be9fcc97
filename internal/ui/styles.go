package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"haru/internal/config"
)

// defaultPalette holds the positional category accent colors. A category's
// color is the palette entry at its registry index, wrapping around.
var defaultPalette = []string{
	"#D4A812",
	"#E8963A",
	"#8FA644",
	"#9B6BC4",
	"#3AA0C8",
}

// Styles holds all application styles, initialized with theme configuration.
type Styles struct {
	// Colors
	ColorPrimary   lipgloss.Color
	ColorAccent    lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorDanger    lipgloss.Color
	ColorWarning   lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorBgLight   lipgloss.Color
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color

	palette []string

	// Component styles
	TitleStyle       lipgloss.Style
	DateStyle        lipgloss.Style
	PaneStyle        lipgloss.Style
	PaneFocusedStyle lipgloss.Style
	PaneTitleStyle   lipgloss.Style

	TabActiveStyle   lipgloss.Style
	TabInactiveStyle lipgloss.Style

	TaskDoneStyle       lipgloss.Style
	TaskPendingStyle    lipgloss.Style
	TaskSelectedStyle   lipgloss.Style
	TaskCheckboxDone    string
	TaskCheckboxPending string
	TaskTimeStyle       lipgloss.Style
	NoteStyle           lipgloss.Style

	ProgressFilledStyle lipgloss.Style
	ProgressEmptyStyle  lipgloss.Style

	CalHeaderStyle   lipgloss.Style
	CalTodayStyle    lipgloss.Style
	CalSelectedStyle lipgloss.Style
	CalMarkedStyle   lipgloss.Style
	CalBlankStyle    lipgloss.Style

	GanttMonthStyle   lipgloss.Style
	GanttCurrentStyle lipgloss.Style

	HelpStyle    lipgloss.Style
	HelpKeyStyle lipgloss.Style

	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style

	InputPromptStyle lipgloss.Style
	InputTextStyle   lipgloss.Style

	StatLabelStyle lipgloss.Style
	StatValueStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from the given config.
// If a theme color is empty, it uses the appropriate default.
func NewStyles(cfg *config.Config) *Styles {
	return NewStylesFromTheme(&cfg.Theme)
}

// NewStylesFromTheme creates a new Styles instance from a ThemeConfig.
// If a theme color is empty, it uses the appropriate default.
func NewStylesFromTheme(theme *config.ThemeConfig) *Styles {
	s := &Styles{}

	s.ColorPrimary = colorOrDefault(theme.Primary, "#7C3AED")
	s.ColorAccent = colorOrDefault(theme.Accent, "#10B981")
	s.ColorMuted = colorOrDefault(theme.Muted, "#6B7280")

	// Fixed semantic colors (not configurable from theme)
	s.ColorDanger = lipgloss.Color("#EF4444")
	s.ColorWarning = lipgloss.Color("#F59E0B")
	s.ColorSuccess = lipgloss.Color("#10B981")

	s.ColorBgLight = lipgloss.Color("#374151")
	s.ColorText = lipgloss.Color("#F9FAFB")
	s.ColorTextMuted = lipgloss.Color("#9CA3AF")

	s.palette = defaultPalette
	if len(theme.Palette) > 0 {
		s.palette = theme.Palette
	}

	s.initComponentStyles()

	return s
}

// colorOrDefault returns the lipgloss.Color from hex string, or default if empty.
func colorOrDefault(hex, defaultHex string) lipgloss.Color {
	if hex != "" {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color(defaultHex)
}

// CategoryColor returns the accent color for the category at registry index i.
func (s *Styles) CategoryColor(i int) lipgloss.Color {
	if i < 0 {
		i = 0
	}
	return lipgloss.Color(s.palette[i%len(s.palette)])
}

// CategoryDimColor returns a desaturated, darker shade of the category color,
// used for the unfilled part of gantt bars.
func (s *Styles) CategoryDimColor(i int) lipgloss.Color {
	return shade(string(s.CategoryColor(i)), 0.55, 0.30)
}

// CategoryStyle returns a foreground style in the category's accent color.
func (s *Styles) CategoryStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.CategoryColor(i))
}

// shade derives a shade of a hex color at the given saturation and lightness,
// keeping the hue. Falls back to the input on parse failure.
func shade(hex string, sat, light float64) lipgloss.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return lipgloss.Color(hex)
	}
	h, _, _ := c.Hsl()
	return lipgloss.Color(colorful.Hsl(h, sat, light).Hex())
}

// initComponentStyles initializes all component styles based on the color palette.
func (s *Styles) initComponentStyles() {
	// Title bar
	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorText).
		Background(s.ColorPrimary).
		Padding(0, 1)

	// Date in title bar
	s.DateStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	// Pane styles
	s.PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorMuted).
		Padding(0, 1)

	s.PaneFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorPrimary).
		Padding(0, 1)

	s.PaneTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorPrimary).
		MarginBottom(1)

	// Tab row
	s.TabActiveStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorText).
		Background(s.ColorPrimary).
		Padding(0, 1)

	s.TabInactiveStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted).
		Padding(0, 1)

	// Task styles
	s.TaskDoneStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted).
		Strikethrough(true)

	s.TaskPendingStyle = lipgloss.NewStyle().
		Foreground(s.ColorText)

	s.TaskSelectedStyle = lipgloss.NewStyle().
		Background(s.ColorBgLight).
		Foreground(s.ColorText).
		Bold(true)

	s.TaskCheckboxDone = lipgloss.NewStyle().Foreground(s.ColorSuccess).Render("[✓]")
	s.TaskCheckboxPending = lipgloss.NewStyle().Foreground(s.ColorMuted).Render("[ ]")

	s.TaskTimeStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent)

	s.NoteStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted).
		Italic(true)

	// Day progress bar
	s.ProgressFilledStyle = lipgloss.NewStyle().Foreground(s.ColorSuccess)
	s.ProgressEmptyStyle = lipgloss.NewStyle().Foreground(s.ColorBgLight)

	// Mini calendar
	s.CalHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorPrimary)

	s.CalTodayStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Bold(true).
		Underline(true)

	s.CalSelectedStyle = lipgloss.NewStyle().
		Background(s.ColorPrimary).
		Foreground(s.ColorText).
		Bold(true)

	s.CalMarkedStyle = lipgloss.NewStyle().
		Foreground(s.ColorText).
		Bold(true)

	s.CalBlankStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	// Gantt header
	s.GanttMonthStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.GanttCurrentStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Bold(true)

	// Help bar
	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.HelpKeyStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Bold(true)

	// Status messages
	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.ColorSuccess).
		Italic(true)

	s.ErrorStyle = lipgloss.NewStyle().
		Foreground(s.ColorDanger).
		Bold(true)

	// Input
	s.InputPromptStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary).
		Bold(true)

	s.InputTextStyle = lipgloss.NewStyle().
		Foreground(s.ColorText)

	// Summary stats
	s.StatLabelStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.StatValueStyle = lipgloss.NewStyle().
		Foreground(s.ColorText).
		Bold(true)
}

// RenderHelp renders help text with key bindings using the given styles.
func (s *Styles) RenderHelp(keys ...string) string {
	var result string
	for i := 0; i < len(keys); i += 2 {
		if i > 0 {
			result += "  "
		}
		key := keys[i]
		desc := keys[i+1]
		result += s.HelpKeyStyle.Render("["+key+"]") + " " + s.HelpStyle.Render(desc)
	}
	return result
}
