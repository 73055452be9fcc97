// Package ui provides terminal user interface components for the haru app.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"haru/internal/config"
	"haru/internal/dateutil"
	"haru/internal/storage"
	"haru/internal/views"
)

// dailyMode tracks which input step the daily pane is in.
type dailyMode int

const (
	dailyNormal dailyMode = iota
	dailyAddText
	dailyAddTime
	dailyAddCat
	dailyAddNote
	dailyEditText
	dailyEditTime
	dailyEditCat
	dailyNote
)

// taskRef points at one task within the selected day's bucket.
type taskRef struct {
	catID string
	task  storage.Task
}

// taskDraft accumulates the fields of the multi-step add/edit flow.
type taskDraft struct {
	id     string // empty while adding
	text   string
	hhmm   string
	catIdx int // index into cats while picking
}

// DailyPane handles the day view: task list, date navigation, calendar.
type DailyPane struct {
	cats        []storage.Category
	tasks       *storage.TaskStore
	selectedDay string
	todayKey    string
	filter      string // active category filter, "" = all
	cursor      int
	focused     bool
	width       int
	height      int
	mode        dailyMode
	input       textinput.Model
	draft       taskDraft
	showCal     bool
	storage     *storage.Storage
	styles      *Styles

	// Key bindings
	keys      DailyKeyMap
	inputKeys InputKeyMap
}

// NewDailyPane creates a new daily pane showing the given day.
func NewDailyPane(store *storage.Storage, styles *Styles, todayKey string) *DailyPane {
	return NewDailyPaneWithKeys(store, styles, todayKey, &config.KeysConfig{})
}

// NewDailyPaneWithKeys creates a new daily pane with custom key bindings.
func NewDailyPaneWithKeys(store *storage.Storage, styles *Styles, todayKey string, keyCfg *config.KeysConfig) *DailyPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 40

	return &DailyPane{
		tasks:       &storage.TaskStore{Days: map[string]storage.DayBucket{}},
		selectedDay: todayKey,
		todayKey:    todayKey,
		input:       ti,
		storage:     store,
		styles:      styles,
		keys:        NewDailyKeyMap(keyCfg),
		inputKeys:   NewInputKeyMap(keyCfg),
	}
}

// setData replaces the pane's snapshot of the stores.
func (p *DailyPane) setData(cats *storage.CategoryStore, tasks *storage.TaskStore) {
	if cats != nil {
		p.cats = cats.Categories
	}
	if tasks != nil {
		p.tasks = tasks
	}
	// Clear the filter if its category was deleted
	if p.filter != "" && p.catIndex(p.filter) < 0 {
		p.filter = ""
	}
	p.clampCursor()
}

// SetToday updates the today marker, used on midnight rollover.
func (p *DailyPane) SetToday(todayKey string) {
	p.todayKey = todayKey
	p.selectedDay = todayKey
	p.cursor = 0
	p.showCal = false
}

// SetSize sets the pane dimensions.
func (p *DailyPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-8)
}

// SetFocused sets whether this pane is focused.
func (p *DailyPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsInputting reports whether the pane is in an input step.
func (p *DailyPane) IsInputting() bool {
	return p.mode != dailyNormal
}

// SelectedDay returns the day-key the pane is showing.
func (p *DailyPane) SelectedDay() string {
	return p.selectedDay
}

// SelectedTask returns the task under the cursor, or nil when the list is empty.
func (p *DailyPane) SelectedTask() (string, *storage.Task) {
	rows := p.visibleRows()
	if len(rows) == 0 || p.cursor < 0 || p.cursor >= len(rows) {
		return "", nil
	}
	ref := rows[p.cursor]
	task := ref.task
	return ref.catID, &task
}

// Stats returns done/total counts for the selected day.
func (p *DailyPane) Stats() (done, total int) {
	prog := views.Progress(p.bucket())
	return prog.Done, prog.Total
}

func (p *DailyPane) bucket() storage.DayBucket {
	if p.tasks == nil {
		return storage.DayBucket{}
	}
	return p.tasks.Bucket(p.selectedDay)
}

// catIndex returns the registry index of a category id, or -1.
func (p *DailyPane) catIndex(id string) int {
	for i, c := range p.cats {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// visibleRows flattens the selected day's bucket into display order:
// categories in registry order, tasks already time-sorted within each.
func (p *DailyPane) visibleRows() []taskRef {
	bucket := p.bucket()
	var rows []taskRef
	for _, c := range p.cats {
		if p.filter != "" && c.ID != p.filter {
			continue
		}
		for _, t := range bucket[c.ID] {
			rows = append(rows, taskRef{catID: c.ID, task: t})
		}
	}
	return rows
}

func (p *DailyPane) clampCursor() {
	rows := p.visibleRows()
	if p.cursor >= len(rows) {
		p.cursor = max(0, len(rows)-1)
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// moveDay shifts the selected day by n days.
func (p *DailyPane) moveDay(n int) {
	next, err := dateutil.AddDays(p.selectedDay, n)
	if err != nil {
		return
	}
	p.selectedDay = next
	p.cursor = 0
}

// Update handles messages for the daily pane.
func (p *DailyPane) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if p.mode != dailyNormal {
			var cmd tea.Cmd
			p.input, cmd = p.input.Update(msg)
			return cmd
		}
		return nil
	}

	if p.mode != dailyNormal {
		return p.updateInput(keyMsg)
	}

	if p.showCal {
		return p.updateCalendar(keyMsg)
	}

	if !p.focused {
		return nil
	}

	rows := p.visibleRows()

	switch {
	case key.Matches(keyMsg, p.keys.Down):
		if len(rows) > 0 {
			p.cursor = min(p.cursor+1, len(rows)-1)
		}

	case key.Matches(keyMsg, p.keys.Up):
		if len(rows) > 0 {
			p.cursor = max(p.cursor-1, 0)
		}

	case key.Matches(keyMsg, p.keys.PrevDay):
		p.moveDay(-1)

	case key.Matches(keyMsg, p.keys.NextDay):
		p.moveDay(1)

	case key.Matches(keyMsg, p.keys.Today):
		p.selectedDay = p.todayKey
		p.cursor = 0

	case key.Matches(keyMsg, p.keys.Calendar):
		p.showCal = true

	case key.Matches(keyMsg, p.keys.NextCategory):
		p.cycleFilter()

	case key.Matches(keyMsg, p.keys.Add):
		p.startAdd()
		return textinput.Blink

	case key.Matches(keyMsg, p.keys.Toggle):
		if catID, task := p.SelectedTask(); task != nil {
			return toggleTaskCmd(p.storage, p.selectedDay, catID, task.ID)
		}

	case key.Matches(keyMsg, p.keys.Edit):
		if _, task := p.SelectedTask(); task != nil {
			p.startEdit(*task)
			return textinput.Blink
		}

	case key.Matches(keyMsg, p.keys.Note):
		if _, task := p.SelectedTask(); task != nil {
			p.mode = dailyNote
			p.draft = taskDraft{id: task.ID}
			p.input.Placeholder = "Note (empty clears)"
			p.input.SetValue(task.Note)
			p.input.CursorEnd()
			p.input.Focus()
			return textinput.Blink
		}

	case key.Matches(keyMsg, p.keys.Delete):
		if catID, task := p.SelectedTask(); task != nil {
			return deleteTaskCmd(p.storage, p.selectedDay, catID, task.ID, task.Text)
		}

	case key.Matches(keyMsg, p.keys.CopyYesterday):
		// Only offered while the day is empty
		if len(rows) == 0 {
			return copyPreviousDayCmd(p.storage, p.selectedDay)
		}
	}

	return nil
}

// cycleFilter advances the category filter: all -> cat1 -> cat2 -> ... -> all.
func (p *DailyPane) cycleFilter() {
	if len(p.cats) == 0 {
		return
	}
	if p.filter == "" {
		p.filter = p.cats[0].ID
	} else {
		i := p.catIndex(p.filter)
		if i < 0 || i == len(p.cats)-1 {
			p.filter = ""
		} else {
			p.filter = p.cats[i+1].ID
		}
	}
	p.cursor = 0
}

func (p *DailyPane) startAdd() {
	p.mode = dailyAddText
	p.draft = taskDraft{}
	if p.filter != "" {
		p.draft.catIdx = max(0, p.catIndex(p.filter))
	}
	p.input.Placeholder = "What needs doing?"
	p.input.SetValue("")
	p.input.Focus()
}

func (p *DailyPane) startEdit(task storage.Task) {
	p.mode = dailyEditText
	p.draft = taskDraft{id: task.ID}
	if catID, _ := p.SelectedTask(); catID != "" {
		p.draft.catIdx = max(0, p.catIndex(catID))
	}
	p.input.Placeholder = "Task text"
	p.input.SetValue(task.Text)
	p.input.CursorEnd()
	p.input.Focus()
	p.draft.hhmm = task.Time
}

// updateInput advances the multi-step add/edit flow.
func (p *DailyPane) updateInput(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, p.inputKeys.Cancel) {
		p.resetInput()
		return nil
	}

	// Category picking uses left/right rather than typed input
	if p.mode == dailyAddCat || p.mode == dailyEditCat {
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
func (p *DailyPane) confirmStep() tea.Cmd {
	switch p.mode {
	case dailyAddText, dailyEditText:
		text := strings.TrimSpace(p.input.Value())
		if text == "" {
			p.resetInput()
			return nil
		}
		p.draft.text = text
		editing := p.mode == dailyEditText
		p.mode = dailyAddTime
		if editing {
			p.mode = dailyEditTime
		}
		p.input.Placeholder = "HH:MM"
		if editing {
			p.input.SetValue(p.draft.hhmm)
		} else {
			p.input.SetValue("09:00")
		}
		p.input.CursorEnd()
		return nil

	case dailyAddTime, dailyEditTime:
		p.draft.hhmm = strings.TrimSpace(p.input.Value())
		if p.mode == dailyAddTime {
			p.mode = dailyAddCat
		} else {
			p.mode = dailyEditCat
		}
		return nil

	case dailyAddCat:
		p.mode = dailyAddNote
		p.input.Placeholder = "Note (optional)"
		p.input.SetValue("")
		return nil

	case dailyEditCat:
		draft := p.draft
		p.resetInput()
		if draft.catIdx < 0 || draft.catIdx >= len(p.cats) {
			return nil
		}
		return editTaskCmd(p.storage, p.selectedDay, draft.id, draft.text, draft.hhmm, p.cats[draft.catIdx].ID)

	case dailyAddNote:
		draft := p.draft
		note := strings.TrimSpace(p.input.Value())
		p.resetInput()
		if draft.catIdx < 0 || draft.catIdx >= len(p.cats) {
			return nil
		}
		return addTaskCmd(p.storage, p.selectedDay, p.cats[draft.catIdx].ID, draft.text, draft.hhmm, note)

	case dailyNote:
		draft := p.draft
		note := strings.TrimSpace(p.input.Value())
		p.resetInput()
		if catID, task := p.SelectedTask(); task != nil && task.ID == draft.id {
			return setTaskNoteCmd(p.storage, p.selectedDay, catID, draft.id, note)
		}
		return nil
	}

	p.resetInput()
	return nil
}

func (p *DailyPane) resetInput() {
	p.mode = dailyNormal
	p.draft = taskDraft{}
	p.input.Reset()
	p.input.Blur()
}

// updateCalendar handles keys while the mini-calendar overlay is open.
func (p *DailyPane) updateCalendar(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "c", "q", "enter":
		p.showCal = false
	case "h", "left":
		p.moveDay(-1)
	case "l", "right":
		p.moveDay(1)
	case "k", "up":
		p.moveDay(-7)
	case "j", "down":
		p.moveDay(7)
	case "t":
		p.selectedDay = p.todayKey
	}
	return nil
}

// View renders the daily pane.
func (p *DailyPane) View() string {
	var b strings.Builder

	b.WriteString(p.renderHeader())
	b.WriteString("\n")

	if p.showCal {
		b.WriteString(p.renderCalendar())
	} else {
		b.WriteString(p.renderTabs())
		b.WriteString("\n")
		b.WriteString(p.renderTasks())
	}

	if p.mode != dailyNormal {
		b.WriteString("\n")
		b.WriteString(p.renderInput())
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

// renderHeader shows the selected date, a today/past/future badge, and the
// day's progress bar.
func (p *DailyPane) renderHeader() string {
	f, err := dateutil.KeyFields(p.selectedDay)
	if err != nil {
		return p.styles.ErrorStyle.Render(p.selectedDay)
	}

	date := p.styles.PaneTitleStyle.Render(fmt.Sprintf("%s (%s)", p.selectedDay, f.Weekday))

	var badge string
	switch {
	case p.selectedDay == p.todayKey:
		badge = lipgloss.NewStyle().Foreground(p.styles.ColorSuccess).Bold(true).Render("● today")
	case p.selectedDay < p.todayKey:
		badge = p.styles.StatLabelStyle.Render("past")
	default:
		badge = p.styles.StatLabelStyle.Render("future")
	}

	prog := views.Progress(p.bucket())
	bar := p.renderProgressBar(prog, 16)
	count := p.styles.StatLabelStyle.Render(fmt.Sprintf("%d/%d", prog.Done, prog.Total))

	return date + "  " + badge + "\n" + bar + " " + count
}

// renderProgressBar draws a fixed-width ratio bar.
func (p *DailyPane) renderProgressBar(prog views.DayProgress, width int) string {
	filled := int(prog.Ratio * float64(width))
	if filled > width {
		filled = width
	}
	return p.styles.ProgressFilledStyle.Render(strings.Repeat("█", filled)) +
		p.styles.ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// renderTabs draws the category filter row with per-category counts.
func (p *DailyPane) renderTabs() string {
	bucket := p.bucket()
	parts := make([]string, 0, len(p.cats)+1)

	all := "All"
	if p.filter == "" {
		parts = append(parts, p.styles.TabActiveStyle.Render(all))
	} else {
		parts = append(parts, p.styles.TabInactiveStyle.Render(all))
	}

	for i, c := range p.cats {
		done, total := views.CategoryProgress(bucket[c.ID])
		label := fmt.Sprintf("%s %s %d/%d", c.Emoji, c.Label, done, total)
		if p.filter == c.ID {
			parts = append(parts, p.styles.TabActiveStyle.Render(label))
		} else {
			parts = append(parts, p.styles.CategoryStyle(i).Render(label))
		}
	}

	return strings.Join(parts, " ")
}

// renderTasks draws the grouped task list for the selected day.
func (p *DailyPane) renderTasks() string {
	rows := p.visibleRows()
	if len(rows) == 0 {
		var b strings.Builder
		b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorTextMuted).Italic(true).
			Render("  No tasks for this day. Press 'a' to add one."))
		prevKey, err := dateutil.AddDays(p.selectedDay, -1)
		if err == nil && p.tasks != nil {
			if _, total := p.dayCounts(prevKey); total > 0 {
				b.WriteString("\n")
				b.WriteString(p.styles.StatLabelStyle.Render("  'y' copies yesterday's plan."))
			}
		}
		b.WriteString("\n")
		return b.String()
	}

	maxRows := p.height - 8
	if maxRows < 4 {
		maxRows = 6
	}
	startIdx := 0
	if p.cursor >= maxRows {
		startIdx = p.cursor - maxRows + 1
	}

	var b strings.Builder
	lastCat := ""
	for i, ref := range rows {
		if i < startIdx || i >= startIdx+maxRows {
			continue
		}

		if ref.catID != lastCat {
			lastCat = ref.catID
			ci := p.catIndex(ref.catID)
			if ci >= 0 {
				c := p.cats[ci]
				b.WriteString(p.styles.CategoryStyle(ci).Bold(true).Render(c.Emoji + " " + c.Label))
				b.WriteString("\n")
			}
		}

		b.WriteString(p.renderTaskRow(ref, i == p.cursor))
		b.WriteString("\n")

		// Expand the note under the cursor row
		if i == p.cursor && ref.task.Note != "" {
			wrapped := wordwrap.String(ref.task.Note, max(20, p.width-10))
			for _, line := range strings.Split(wrapped, "\n") {
				b.WriteString("      " + p.styles.NoteStyle.Render(line))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// renderTaskRow draws one task line.
func (p *DailyPane) renderTaskRow(ref taskRef, selected bool) string {
	task := ref.task

	var checkbox string
	if task.Done {
		checkbox = p.styles.TaskCheckboxDone
	} else {
		checkbox = p.styles.TaskCheckboxPending
	}

	noteMark := " "
	if task.Note != "" {
		noteMark = "≡"
	}

	// Layout: 2 indent + 3 checkbox + 1 + 5 time + 1 + text + 2 mark
	availableTextWidth := p.width - 16
	if availableTextWidth < 5 {
		availableTextWidth = 5
	}
	text := runewidth.Truncate(task.Text, availableTextWidth, "..")

	if selected && p.focused && p.mode == dailyNormal {
		line := fmt.Sprintf("%s %s %s %s", checkbox, task.Time, text, noteMark)
		return p.styles.TaskSelectedStyle.Render(" " + line + " ")
	}

	styledText := p.styles.TaskPendingStyle.Render(text)
	if task.Done {
		styledText = p.styles.TaskDoneStyle.Render(text)
	}
	return fmt.Sprintf("  %s %s %s %s", checkbox, p.styles.TaskTimeStyle.Render(task.Time), styledText, p.styles.NoteStyle.Render(noteMark))
}

// dayCounts returns done/total for an arbitrary day.
func (p *DailyPane) dayCounts(dayKey string) (done, total int) {
	prog := views.Progress(p.tasks.Bucket(dayKey))
	return prog.Done, prog.Total
}

// renderCalendar draws the mini-calendar overlay for the selected month.
func (p *DailyPane) renderCalendar() string {
	hasTasks := func(key string) bool {
		_, total := p.dayCounts(key)
		return total > 0
	}
	cal, err := views.MiniCalendar(p.selectedDay, p.todayKey, hasTasks)
	if err != nil {
		return p.styles.ErrorStyle.Render(err.Error())
	}

	var b strings.Builder
	b.WriteString(p.styles.CalHeaderStyle.Render(fmt.Sprintf("%d-%02d", cal.Year, cal.Month)))
	b.WriteString("\n")
	b.WriteString(p.styles.CalBlankStyle.Render("Su Mo Tu We Th Fr Sa"))
	b.WriteString("\n")

	col := 0
	for i := 0; i < cal.LeadingBlanks; i++ {
		b.WriteString("   ")
		col++
	}
	for _, cell := range cal.Days {
		label := fmt.Sprintf("%2d", cell.Day)
		switch {
		case cell.IsSelected:
			label = p.styles.CalSelectedStyle.Render(label)
		case cell.IsToday:
			label = p.styles.CalTodayStyle.Render(label)
		case cell.HasTasks:
			label = p.styles.CalMarkedStyle.Render(label)
		default:
			label = p.styles.CalBlankStyle.Render(label)
		}
		b.WriteString(label)
		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		} else {
			b.WriteString(" ")
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.styles.StatLabelStyle.Render("• marked days have tasks · h/l/j/k move · enter close"))
	b.WriteString("\n")
	return b.String()
}

// renderInput draws the active input step.
func (p *DailyPane) renderInput() string {
	switch p.mode {
	case dailyAddCat, dailyEditCat:
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
		case dailyAddText, dailyEditText:
			label = "task: "
		case dailyAddTime, dailyEditTime:
			label = "time: "
		case dailyAddNote, dailyNote:
			label = "note: "
		}
		return p.styles.InputPromptStyle.Render(label) + p.input.View()
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
