// Package ui provides terminal user interface components for the haru app.
// This file contains the main App model which coordinates the Daily and
// Projects tabs and routes messages using the Bubble Tea architecture.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"haru/internal/config"
	"haru/internal/dateutil"
	"haru/internal/storage"
)

// TabID identifies each top-level tab.
type TabID int

const (
	TabDaily TabID = iota
	TabProjects
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys                  *config.KeysConfig
	ConfirmDeletions      bool
	ShowOnboarding        bool
	NarrowLayoutThreshold int
	ProgressStep          int
	Location              *time.Location
}

// App is the main application model that coordinates both tabs.
type App struct {
	storage       *storage.Storage
	styles        *Styles
	config        *AppConfig
	dailyPane     *DailyPane
	projectsPane  *ProjectsPane
	catEditor     *CategoryEditor
	helpOverlay   *HelpOverlay
	confirmDel    *confirmDeleteState
	activeTab     TabID
	showHelp      bool
	showWelcome   bool
	showCatEditor bool
	todayKey      string
	loc           *time.Location
	width         int
	height        int
	status        string
	statusErr     bool
	statusUntil   time.Time
	quitting      bool

	// Key bindings
	keys     GlobalKeyMap
	helpKeys HelpKeyMap
	catKey   key.Binding
}

type confirmDeleteState struct {
	title string
	body  string
	cmd   tea.Cmd
}

// NewApp creates a new application. Data loading is deferred to Init()
// to keep the constructor non-blocking.
func NewApp(store *storage.Storage, styles *Styles, cfg *AppConfig) *App {
	// Use default config if nil
	if cfg == nil {
		cfg = &AppConfig{
			Keys:                  &config.KeysConfig{},
			ConfirmDeletions:      true,
			ShowOnboarding:        true,
			NarrowLayoutThreshold: 80,
			ProgressStep:          5,
		}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}
	if cfg.Location == nil {
		cfg.Location = dateutil.LoadLocation("")
	}

	todayKey := dateutil.Today(cfg.Location)
	currentMonth := int(time.Now().In(cfg.Location).Month())

	dailyPane := NewDailyPaneWithKeys(store, styles, todayKey, cfg.Keys)
	projectsPane := NewProjectsPaneWithKeys(store, styles, currentMonth, cfg.Keys, cfg.ProgressStep)
	catEditor := NewCategoryEditor(store, styles)
	helpOverlay := NewHelpOverlay(styles)

	showWelcome := cfg.ShowOnboarding && isFirstRun(store)

	app := &App{
		storage:      store,
		styles:       styles,
		config:       cfg,
		dailyPane:    dailyPane,
		projectsPane: projectsPane,
		catEditor:    catEditor,
		helpOverlay:  helpOverlay,
		activeTab:    TabDaily,
		showWelcome:  showWelcome,
		todayKey:     todayKey,
		loc:          cfg.Location,
		keys:         NewGlobalKeyMap(cfg.Keys),
		helpKeys:     DefaultHelpKeyMap(),
		catKey:       NewDailyKeyMap(cfg.Keys).EditCategory,
	}

	dailyPane.SetFocused(true)
	projectsPane.SetFocused(false)

	return app
}

// isFirstRun checks if this appears to be the first time running the app.
// Categories are always seeded, so only tasks and projects count.
func isFirstRun(store *storage.Storage) bool {
	tasks, err := store.LoadTasks()
	if err != nil {
		return false
	}
	if len(tasks.Days) > 0 {
		return false
	}

	projects, err := store.LoadProjects()
	if err != nil {
		return false
	}
	return len(projects.Projects) == 0
}

// tickMsg is sent every second for status expiry.
type tickMsg time.Time

// rolloverTickMsg is the periodic day-rollover poll.
type rolloverTickMsg time.Time

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// rolloverTickCmd polls for a calendar day change every 30 seconds. The poll
// backs up the cron trigger in case the process was suspended across midnight.
func rolloverTickCmd() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg {
		return rolloverTickMsg(t)
	})
}

// DayRolloverMsg builds the message an external scheduler sends into the
// program when the calendar day changes.
func DayRolloverMsg(todayKey string) tea.Msg {
	return dayChangedMsg{today: todayKey}
}

// Init initializes the app and loads all data asynchronously.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		rolloverTickCmd(),
		loadStoresCmd(a.storage),
	)
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Async store messages first, so operation results are processed
	// regardless of which tab is active.
	switch msg := msg.(type) {
	case storesLoadedMsg:
		if msg.err != nil {
			a.SetStatus("Load: "+msg.err.Error(), true)
		}
		a.dailyPane.setData(msg.categories, msg.tasks)
		a.projectsPane.setData(msg.categories, msg.projects)
		a.catEditor.setData(msg.categories)
		return a, nil

	case taskAddedMsg:
		return a, a.afterMutation("Add task", msg.err, "")

	case taskToggledMsg:
		return a, a.afterMutation("Toggle task", msg.err, "")

	case taskEditedMsg:
		return a, a.afterMutation("Edit task", msg.err, "")

	case taskNoteSetMsg:
		return a, a.afterMutation("Note", msg.err, "")

	case taskDeletedMsg:
		return a, a.afterMutation("Delete task", msg.err, "Deleted: "+truncateText(msg.text, 40))

	case tasksCopiedMsg:
		if msg.err == nil && !msg.copied {
			a.SetStatus("Nothing to copy from the previous day", false)
			return a, nil
		}
		return a, a.afterMutation("Copy", msg.err, "Copied yesterday's plan")

	case categoryAddedMsg:
		return a, a.afterMutation("Add category", msg.err, "")

	case categoryEditedMsg:
		return a, a.afterMutation("Edit category", msg.err, "")

	case categoryDeletedMsg:
		return a, a.afterMutation("Delete category", msg.err, "Deleted category: "+msg.label)

	case projectAddedMsg:
		return a, a.afterMutation("Add project", msg.err, "")

	case projectEditedMsg:
		return a, a.afterMutation("Edit project", msg.err, "")

	case projectProgressMsg:
		return a, a.afterMutation("Progress", msg.err, "")

	case projectNoteSetMsg:
		return a, a.afterMutation("Note", msg.err, "")

	case projectDeletedMsg:
		return a, a.afterMutation("Delete project", msg.err, "Deleted: "+truncateText(msg.name, 40))

	case dayChangedMsg:
		// Idempotent: cron and the poll can both fire
		if msg.today == a.todayKey {
			return a, nil
		}
		a.todayKey = msg.today
		a.dailyPane.SetToday(msg.today)
		if f, err := dateutil.KeyFields(msg.today); err == nil {
			a.projectsPane.SetCurrentMonth(f.Month)
		}
		a.SetStatus("New day: "+msg.today, false)
		return a, loadStoresCmd(a.storage)

	case rolloverTickMsg:
		if today := dateutil.Today(a.loc); today != a.todayKey {
			return a, tea.Batch(rolloverTickCmd(), func() tea.Msg { return dayChangedMsg{today: today} })
		}
		return a, rolloverTickCmd()
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.updateKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tickMsg:
		if a.status != "" && !a.statusUntil.IsZero() && time.Now().After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		return a, tickCmd()
	}

	// Forward everything else (input blinks etc.) to the active pane
	return a, a.forwardToActive(msg)
}

// afterMutation surfaces an operation result and schedules a reload.
func (a *App) afterMutation(op string, err error, okStatus string) tea.Cmd {
	if err != nil {
		a.SetStatus(op+": "+err.Error(), true)
	} else if okStatus != "" {
		a.SetStatus(okStatus, false)
	}
	return loadStoresCmd(a.storage)
}

// updateKey routes key presses through the overlay stack.
func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.showWelcome {
		a.showWelcome = false
		return a, nil
	}

	if a.confirmDel != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			cmd := a.confirmDel.cmd
			a.confirmDel = nil
			return a, cmd
		case "n", "N", "esc":
			a.confirmDel = nil
			a.SetStatus("Canceled", false)
			return a, nil
		default:
			return a, nil
		}
	}

	if a.showHelp {
		if key.Matches(msg, a.helpKeys.Close) {
			a.showHelp = false
		}
		return a, nil
	}

	if a.showCatEditor {
		// Deletion goes through the confirm overlay
		if !a.catEditor.IsInputting() && msg.String() == "x" {
			cmd, label := a.catEditor.DeleteSelectedCmd()
			if cmd == nil {
				return a, nil
			}
			if a.config.ConfirmDeletions {
				a.confirmDel = &confirmDeleteState{
					title: "Delete category?",
					body:  label + " (its projects are removed too)",
					cmd:   cmd,
				}
				return a, nil
			}
			return a, cmd
		}
		cmd, done := a.catEditor.Update(msg)
		if done {
			a.showCatEditor = false
		}
		return a, cmd
	}

	inInputMode := a.dailyPane.IsInputting() || a.projectsPane.IsInputting()

	if !inInputMode {
		// Confirm deletions if enabled
		if a.config.ConfirmDeletions {
			switch a.activeTab {
			case TabDaily:
				if key.Matches(msg, a.dailyPane.keys.Delete) && !a.dailyPane.showCal {
					catID, task := a.dailyPane.SelectedTask()
					if task == nil {
						a.SetStatus("No task selected", true)
						return a, nil
					}
					a.confirmDel = &confirmDeleteState{
						title: "Delete task?",
						body:  truncateText(task.Text, 60),
						cmd:   deleteTaskCmd(a.storage, a.dailyPane.SelectedDay(), catID, task.ID, task.Text),
					}
					return a, nil
				}
			case TabProjects:
				if key.Matches(msg, a.projectsPane.keys.Delete) {
					proj := a.projectsPane.SelectedProject()
					if proj == nil {
						a.SetStatus("No project selected", true)
						return a, nil
					}
					a.confirmDel = &confirmDeleteState{
						title: "Delete project?",
						body:  truncateText(proj.Name, 60),
						cmd:   deleteProjectCmd(a.storage, proj.ID, proj.Name),
					}
					return a, nil
				}
			}
		}

		switch {
		case key.Matches(msg, a.keys.Quit):
			a.quitting = true
			return a, tea.Quit

		case key.Matches(msg, a.keys.Help):
			a.showHelp = true
			return a, nil

		case key.Matches(msg, a.keys.NextTab):
			if a.activeTab == TabDaily {
				a.setActiveTab(TabProjects)
			} else {
				a.setActiveTab(TabDaily)
			}
			return a, nil

		case key.Matches(msg, a.keys.DailyTab):
			a.setActiveTab(TabDaily)
			return a, nil

		case key.Matches(msg, a.keys.ProjectsTab):
			a.setActiveTab(TabProjects)
			return a, nil

		case key.Matches(msg, a.catKey):
			a.showCatEditor = true
			return a, nil
		}
	}

	return a, a.forwardToActive(msg)
}

// forwardToActive routes a message to the active tab's pane.
func (a *App) forwardToActive(msg tea.Msg) tea.Cmd {
	if a.showHelp || a.showWelcome || a.confirmDel != nil {
		return nil
	}
	if a.showCatEditor {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			cmd, done := a.catEditor.Update(keyMsg)
			if done {
				a.showCatEditor = false
			}
			return cmd
		}
		return nil
	}
	switch a.activeTab {
	case TabDaily:
		return a.dailyPane.Update(msg)
	case TabProjects:
		return a.projectsPane.Update(msg)
	}
	return nil
}

// setActiveTab sets the active tab and updates focus states.
func (a *App) setActiveTab(tab TabID) {
	a.activeTab = tab
	a.dailyPane.SetFocused(tab == TabDaily)
	a.projectsPane.SetFocused(tab == TabProjects)
}

// updateLayout recalculates pane sizes based on terminal dimensions.
func (a *App) updateLayout() {
	// Title bar (1) + tab row (1) + help bar (1)
	contentHeight := a.height - 4
	if contentHeight < 10 {
		contentHeight = 10
	}
	paneWidth := a.width - 4
	if paneWidth < 24 {
		paneWidth = 24
	}

	a.helpOverlay.SetSize(a.width, a.height)
	a.catEditor.SetSize(a.width, a.height)
	a.dailyPane.SetSize(paneWidth, contentHeight)
	a.projectsPane.SetSize(paneWidth, contentHeight)
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}

	if a.showWelcome {
		return a.renderWelcome()
	}

	if a.confirmDel != nil {
		return a.renderConfirmDelete()
	}

	if a.showHelp {
		return a.helpOverlay.View()
	}

	if a.showCatEditor {
		return a.catEditor.View()
	}

	var b strings.Builder

	b.WriteString(a.renderTitleBar())
	b.WriteString("\n")
	b.WriteString(a.renderTabBar())
	b.WriteString("\n")

	switch a.activeTab {
	case TabDaily:
		b.WriteString(a.dailyPane.View())
	case TabProjects:
		b.WriteString(a.projectsPane.View())
	}
	b.WriteString("\n")

	b.WriteString(a.renderHelpBar())

	return b.String()
}

func (a *App) renderWelcome() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorPrimary).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	mutedStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted).
		Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Welcome to haru"))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render("Tab switches between Daily and Projects. ? opens help.\n"))
	b.WriteString(bodyStyle.Render("Add your first task with 'a'.\n"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press any key to continue"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

func (a *App) renderConfirmDelete() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorDanger).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	hintStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirmDel.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.confirmDel.body))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[y/enter] delete    [n/esc] cancel"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

// renderTabBar renders the Daily/Projects tab row.
func (a *App) renderTabBar() string {
	tabs := []struct {
		id    TabID
		label string
	}{
		{TabDaily, "Daily"},
		{TabProjects, "Projects"},
	}

	activeTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorPrimary).
		Bold(true)
	inactiveTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var parts []string
	for _, tab := range tabs {
		label := tab.label
		if tab.id == a.activeTab {
			label = activeTabStyle.Render("[" + label + "]")
		} else {
			label = inactiveTabStyle.Render(" " + label + " ")
		}
		parts = append(parts, label)
	}

	return " " + strings.Join(parts, "  ")
}

// renderGoodbye shows a short exit message with the day's summary.
func (a *App) renderGoodbye() string {
	done, total := a.dailyPane.Stats()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  See you tomorrow!\n")
	b.WriteString("\n")

	if total > 0 {
		pct := (done * 100) / total
		b.WriteString(fmt.Sprintf("  Today's plan: %d/%d done (%d%%)\n", done, total, pct))
		b.WriteString("\n")
	}

	return b.String()
}

// renderTitleBar creates the top title bar with stats and the date.
func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" haru ")

	done, total := a.dailyPane.Stats()
	var stats string
	if total > 0 {
		stats = a.styles.StatLabelStyle.Render(fmt.Sprintf("Tasks: %d/%d", done, total))
	}

	date := a.styles.DateStyle.Render(a.todayKey)

	titleWidth := lipgloss.Width(title)
	statsWidth := lipgloss.Width(stats)
	dateWidth := lipgloss.Width(date)

	spacerWidth := a.width - titleWidth - statsWidth - dateWidth - 4
	if spacerWidth < 2 {
		spacerWidth = 2
	}

	var parts []string
	parts = append(parts, title)
	if stats != "" {
		parts = append(parts, "  "+stats)
	}
	parts = append(parts, strings.Repeat(" ", spacerWidth))
	parts = append(parts, date)

	return strings.Join(parts, "")
}

// renderHelpBar creates the bottom help bar with context-sensitive hints.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	if a.dailyPane.IsInputting() || a.projectsPane.IsInputting() {
		return a.styles.RenderHelp(
			"enter", "next/save",
			"esc", "cancel",
		)
	}

	switch a.activeTab {
	case TabDaily:
		return a.styles.RenderHelp(
			"a", "add",
			"d", "done",
			"h/l", "day",
			"c", "cal",
			"f", "filter",
			"tab", "projects",
			"?", "help",
		)
	case TabProjects:
		return a.styles.RenderHelp(
			"a", "add",
			"+/-", "progress",
			"j/k", "nav",
			"tab", "daily",
			"?", "help",
		)
	}

	return ""
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = time.Now().Add(ttl)
}

// truncateText shortens s to at most n display cells.
func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

// Run starts the Bubble Tea program with the given storage backend, styles,
// and config, and wires the midnight cron trigger.
func Run(store *storage.Storage, styles *Styles, cfg *AppConfig) error {
	app := NewApp(store, styles, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())

	stopCron := scheduleMidnightRollover(p, app.loc)
	defer stopCron()

	_, err := p.Run()
	return err
}
