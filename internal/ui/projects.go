// Package ui provides terminal user interface components for the haru app.
package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"haru/internal/config"
	"haru/internal/storage"
	"haru/internal/views"
)

// projectMode tracks which input step the projects pane is in.
type projectMode int

const (
	projNormal projectMode = iota
	projAddName
	projAddMonths
	projAddCat
	projEditName
	projEditMonths
	projEditCat
	projNote
)

// projectRow is one visible line in the pane: either a category header or a
// project under it.
type projectRow struct {
	catIdx  int
	project *storage.Project // nil for header rows
}

// projectDraft accumulates the fields of the add/edit flow.
type projectDraft struct {
	id         string // empty while adding
	name       string
	startMonth int
	endMonth   int
	catIdx     int
}

// ProjectsPane handles the annual gantt view.
type ProjectsPane struct {
	cats         []storage.Category
	projects     []storage.Project
	currentMonth int
	cursor       int // index into project rows only (headers are skipped)
	focused      bool
	width        int
	height       int
	mode         projectMode
	input        textinput.Model
	draft        projectDraft
	progressStep int
	storage      *storage.Storage
	styles       *Styles

	// Key bindings
	keys      ProjectKeyMap
	inputKeys InputKeyMap
}

// NewProjectsPane creates a new projects pane.
func NewProjectsPane(store *storage.Storage, styles *Styles, currentMonth int) *ProjectsPane {
	return NewProjectsPaneWithKeys(store, styles, currentMonth, &config.KeysConfig{}, 5)
}

// NewProjectsPaneWithKeys creates a new projects pane with custom key bindings.
func NewProjectsPaneWithKeys(store *storage.Storage, styles *Styles, currentMonth int, keyCfg *config.KeysConfig, progressStep int) *ProjectsPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	if progressStep <= 0 {
		progressStep = 5
	}
	ti := textinput.New()
	ti.CharLimit = 80
	ti.Width = 40

	return &ProjectsPane{
		currentMonth: currentMonth,
		progressStep: progressStep,
		input:        ti,
		storage:      store,
		styles:       styles,
		keys:         NewProjectKeyMap(keyCfg),
		inputKeys:    NewInputKeyMap(keyCfg),
	}
}

// setData replaces the pane's snapshot of the stores.
func (p *ProjectsPane) setData(cats *storage.CategoryStore, projects *storage.ProjectStore) {
	if cats != nil {
		p.cats = cats.Categories
	}
	if projects != nil {
		p.projects = projects.Projects
	}
	p.clampCursor()
}

// SetCurrentMonth updates the highlighted month column.
func (p *ProjectsPane) SetCurrentMonth(month int) {
	p.currentMonth = month
}

// SetSize sets the pane dimensions.
func (p *ProjectsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-8)
}

// SetFocused sets whether this pane is focused.
func (p *ProjectsPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsInputting reports whether the pane is in an input step.
func (p *ProjectsPane) IsInputting() bool {
	return p.mode != projNormal
}

// selectable returns the projects in display order (grouped by category).
func (p *ProjectsPane) selectable() []projectRow {
	var rows []projectRow
	for ci, c := range p.cats {
		for i := range p.projects {
			if p.projects[i].CategoryID == c.ID {
				rows = append(rows, projectRow{catIdx: ci, project: &p.projects[i]})
			}
		}
	}
	return rows
}

// SelectedProject returns the project under the cursor, or nil.
func (p *ProjectsPane) SelectedProject() *storage.Project {
	rows := p.selectable()
	if len(rows) == 0 || p.cursor < 0 || p.cursor >= len(rows) {
		return nil
	}
	return rows[p.cursor].project
}

func (p *ProjectsPane) clampCursor() {
	rows := p.selectable()
	if p.cursor >= len(rows) {
		p.cursor = max(0, len(rows)-1)
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// Update handles messages for the projects pane.
func (p *ProjectsPane) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if p.mode != projNormal {
			var cmd tea.Cmd
			p.input, cmd = p.input.Update(msg)
			return cmd
		}
		return nil
	}

	if p.mode != projNormal {
		return p.updateInput(keyMsg)
	}

	if !p.focused {
		return nil
	}

	rows := p.selectable()

	switch {
	case key.Matches(keyMsg, p.keys.Down):
		if len(rows) > 0 {
			p.cursor = min(p.cursor+1, len(rows)-1)
		}

	case key.Matches(keyMsg, p.keys.Up):
		if len(rows) > 0 {
			p.cursor = max(p.cursor-1, 0)
		}

	case key.Matches(keyMsg, p.keys.Add):
		p.startAdd()
		return textinput.Blink

	case key.Matches(keyMsg, p.keys.Edit):
		if proj := p.SelectedProject(); proj != nil {
			p.startEdit(*proj)
			return textinput.Blink
		}

	case key.Matches(keyMsg, p.keys.Note):
		if proj := p.SelectedProject(); proj != nil {
			p.mode = projNote
			p.draft = projectDraft{id: proj.ID}
			p.input.Placeholder = "Note (empty clears)"
			p.input.SetValue(proj.Note)
			p.input.CursorEnd()
			p.input.Focus()
			return textinput.Blink
		}

	case key.Matches(keyMsg, p.keys.Delete):
		if proj := p.SelectedProject(); proj != nil {
			return deleteProjectCmd(p.storage, proj.ID, proj.Name)
		}

	case key.Matches(keyMsg, p.keys.ProgressUp):
		if proj := p.SelectedProject(); proj != nil {
			return setProjectProgressCmd(p.storage, proj.ID, proj.Progress+p.progressStep)
		}

	case key.Matches(keyMsg, p.keys.ProgressDown):
		if proj := p.SelectedProject(); proj != nil {
			return setProjectProgressCmd(p.storage, proj.ID, proj.Progress-p.progressStep)
		}
	}

	return nil
}

func (p *ProjectsPane) startAdd() {
	p.mode = projAddName
	p.draft = projectDraft{startMonth: 1, endMonth: 12}
	p.input.Placeholder = "Project name"
	p.input.SetValue("")
	p.input.Focus()
}

func (p *ProjectsPane) startEdit(proj storage.Project) {
	p.mode = projEditName
	p.draft = projectDraft{
		id:         proj.ID,
		startMonth: proj.StartMonth,
		endMonth:   proj.EndMonth,
	}
	for i, c := range p.cats {
		if c.ID == proj.CategoryID {
			p.draft.catIdx = i
			break
		}
	}
	p.input.Placeholder = "Project name"
	p.input.SetValue(proj.Name)
	p.input.CursorEnd()
	p.input.Focus()
}

// updateInput advances the add/edit flow.
func (p *ProjectsPane) updateInput(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, p.inputKeys.Cancel) {
		p.resetInput()
		return nil
	}

	if p.mode == projAddCat || p.mode == projEditCat {
		switch msg.String() {
		case "left", "h", "up", "k":
			if p.draft.catIdx > 0 {
				p.draft.catIdx--
			}
			return nil
		case "right", "l", "down", "j", "tab":
			if p.draft.catIdx < len(p.cats)-1 {
				p.draft.catIdx++
			}
			return nil
		}
	}

	if key.Matches(msg, p.inputKeys.Confirm) {
		return p.confirmStep()
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// confirmStep commits the current input step and moves to the next one.
func (p *ProjectsPane) confirmStep() tea.Cmd {
	switch p.mode {
	case projAddName, projEditName:
		name := strings.TrimSpace(p.input.Value())
		if name == "" {
			p.resetInput()
			return nil
		}
		p.draft.name = name
		editing := p.mode == projEditName
		p.mode = projAddMonths
		if editing {
			p.mode = projEditMonths
		}
		p.input.Placeholder = "Months, e.g. 3-8"
		p.input.SetValue(fmt.Sprintf("%d-%d", p.draft.startMonth, p.draft.endMonth))
		p.input.CursorEnd()
		return nil

	case projAddMonths, projEditMonths:
		start, end, ok := parseMonthRange(p.input.Value())
		if ok {
			p.draft.startMonth = start
			p.draft.endMonth = end
		}
		if p.mode == projAddMonths {
			p.mode = projAddCat
		} else {
			p.mode = projEditCat
		}
		return nil

	case projAddCat:
		draft := p.draft
		p.resetInput()
		if draft.catIdx < 0 || draft.catIdx >= len(p.cats) {
			return nil
		}
		return addProjectCmd(p.storage, draft.name, p.cats[draft.catIdx].ID, draft.startMonth, draft.endMonth, "")

	case projEditCat:
		draft := p.draft
		p.resetInput()
		if draft.catIdx < 0 || draft.catIdx >= len(p.cats) {
			return nil
		}
		return editProjectCmd(p.storage, draft.id, draft.name, p.cats[draft.catIdx].ID, draft.startMonth, draft.endMonth)

	case projNote:
		draft := p.draft
		note := strings.TrimSpace(p.input.Value())
		p.resetInput()
		return setProjectNoteCmd(p.storage, draft.id, note)
	}

	p.resetInput()
	return nil
}

func (p *ProjectsPane) resetInput() {
	p.mode = projNormal
	p.draft = projectDraft{}
	p.input.Reset()
	p.input.Blur()
}

// parseMonthRange parses "3-8" or "5" into a start/end month pair.
func parseMonthRange(s string) (start, end int, ok bool) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, "-", 2)
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	end = start
	if len(parts) == 2 {
		end, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, 0, false
		}
	}
	return start, end, true
}

// View renders the projects pane.
func (p *ProjectsPane) View() string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("Projects"))
	b.WriteString("\n")
	b.WriteString(p.renderMonthHeader())
	b.WriteString("\n")

	rows := p.selectable()
	if len(rows) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorTextMuted).Italic(true).
			Render("  No projects yet. Press 'a' to add one."))
		b.WriteString("\n")
	} else {
		lastCat := -1
		for i, row := range rows {
			if row.catIdx != lastCat {
				lastCat = row.catIdx
				b.WriteString(p.renderCategoryHeader(row.catIdx))
				b.WriteString("\n")
			}
			b.WriteString(p.renderProjectRow(row, i == p.cursor))
			b.WriteString("\n")
			if i == p.cursor && row.project.Note != "" {
				wrapped := wordwrap.String(row.project.Note, max(20, p.width-10))
				for _, line := range strings.Split(wrapped, "\n") {
					b.WriteString("      " + p.styles.NoteStyle.Render(line))
					b.WriteString("\n")
				}
			}
		}
	}

	if p.mode != projNormal {
		b.WriteString("\n")
		b.WriteString(p.renderInput())
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

// nameColWidth is the width reserved for project names left of the bars.
func (p *ProjectsPane) nameColWidth() int {
	w := p.width - 12*3 - 12
	if w < 12 {
		w = 12
	}
	if w > 28 {
		w = 28
	}
	return w
}

// renderMonthHeader draws the 12 month column labels.
func (p *ProjectsPane) renderMonthHeader() string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", p.nameColWidth()+1))
	for m := 1; m <= 12; m++ {
		label := fmt.Sprintf("%2d ", m)
		if m == p.currentMonth {
			b.WriteString(p.styles.GanttCurrentStyle.Render(label))
		} else {
			b.WriteString(p.styles.GanttMonthStyle.Render(label))
		}
	}
	return b.String()
}

// renderCategoryHeader draws a category group line with its summary.
func (p *ProjectsPane) renderCategoryHeader(catIdx int) string {
	c := p.cats[catIdx]
	sum := views.Summarize(p.projects, c.ID)
	header := p.styles.CategoryStyle(catIdx).Bold(true).Render(c.Emoji + " " + c.Label)
	summary := p.styles.StatLabelStyle.Render(fmt.Sprintf("avg %d%% · %d", sum.AvgProgress, sum.Count))
	return header + "  " + summary
}

// renderProjectRow draws one project line: name, gantt bar, progress.
func (p *ProjectsPane) renderProjectRow(row projectRow, selected bool) string {
	proj := row.project
	nameW := p.nameColWidth() - 2

	name := runewidth.Truncate(proj.Name, nameW, "..")
	name = name + strings.Repeat(" ", max(0, nameW-runewidth.StringWidth(name)))
	if selected && p.focused && p.mode == projNormal {
		name = p.styles.TaskSelectedStyle.Render(name)
	} else {
		name = p.styles.TaskPendingStyle.Render(name)
	}

	bar := p.renderGanttBar(*proj, row.catIdx)
	pct := p.styles.StatValueStyle.Render(fmt.Sprintf("%3d%%", proj.Progress))

	return "  " + name + " " + bar + " " + pct
}

// renderGanttBar draws the 12-month bar for a project. Each in-range month is
// a 3-cell segment in the category color; the progress fill is applied
// uniformly, so every segment shows the same fill character mix.
func (p *ProjectsPane) renderGanttBar(proj storage.Project, catIdx int) string {
	cells := views.GanttCells(proj)
	fill := p.styles.CategoryStyle(catIdx)
	dim := lipgloss.NewStyle().Foreground(p.styles.CategoryDimColor(catIdx))

	// Progress fills the same share of every in-range segment
	filled := (proj.Progress*3 + 50) / 100
	if filled > 3 {
		filled = 3
	}

	var b strings.Builder
	for m := 0; m < 12; m++ {
		cell := cells[m]
		if !cell.InRange {
			b.WriteString(p.styles.ProgressEmptyStyle.Render("·  "))
			continue
		}
		seg := []rune("███")
		if cell.IsStart {
			seg[0] = '▐'
		}
		if cell.IsEnd {
			seg[2] = '▌'
		}
		b.WriteString(fill.Render(string(seg[:filled])))
		b.WriteString(dim.Render(string(seg[filled:]) + " "))
	}
	return strings.TrimRight(b.String(), " ")
}

// renderInput draws the active input step.
func (p *ProjectsPane) renderInput() string {
	switch p.mode {
	case projAddCat, projEditCat:
		var parts []string
		for i, c := range p.cats {
			label := c.Emoji + " " + c.Label
			if i == p.draft.catIdx {
				parts = append(parts, p.styles.TabActiveStyle.Render(label))
			} else {
				parts = append(parts, p.styles.TabInactiveStyle.Render(label))
			}
		}
		prompt := p.styles.InputPromptStyle.Render("category: ")
		return prompt + strings.Join(parts, " ")
	default:
		var label string
		switch p.mode {
		case projAddName, projEditName:
			label = "name: "
		case projAddMonths, projEditMonths:
			label = "months: "
		case projNote:
			label = "note: "
		}
		return p.styles.InputPromptStyle.Render(label) + p.input.View()
	}
}
