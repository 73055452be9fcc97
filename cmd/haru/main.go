// Package main is the entry point for the haru application.
// It loads configuration, initializes storage, and starts the TUI.
package main

import (
	"flag"
	"fmt"
	"os"

	"haru/internal/config"
	"haru/internal/dateutil"
	"haru/internal/storage"
	"haru/internal/ui"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const helpText = `haru - A daily planner and annual project tracker for your terminal

USAGE:
    haru [OPTIONS]
    haru <command> [ARGS]

COMMANDS:
    backup           Create a backup of all data
    backup --list    List available backups
    backup --prune N Keep only the N most recent backups
    restore NAME     Restore from a specific backup
    restore --latest Restore from the most recent backup
    report           Print today's plan (Markdown)
    report --projects  Print the annual project overview
    report -f table  Render the report as a table

OPTIONS:
    -h, --help       Show this help message
    -v, --version    Show version information

DESCRIPTION:
    haru is a keyboard-driven planner that pairs a per-day task list with a
    year-long project gantt, grouped by a shared set of categories.

FEATURES:
    • Daily      - Plan each day, browse any date, copy yesterday's plan
    • Projects   - Month-range gantt bars with progress per project
    • Categories - Shared registry with emoji and positional colors
    • Local Data - Plain JSON files in ~/.haru/

KEYBINDINGS:
    Global:
        Tab          Switch between Daily and Projects
        1, 2         Jump to a specific tab
        ?            Show help overlay
        q            Quit

    Daily:
        h/l, ←/→     Previous / next day
        t            Jump to today
        c            Mini-calendar
        a            Add task
        d/Space      Toggle done
        e / n        Edit / note
        x            Delete task
        y            Copy yesterday's plan (empty day only)
        f            Cycle category filter
        C            Category editor

    Projects:
        a            Add project
        +/-          Adjust progress
        e / n        Edit / note
        x            Delete project

DATA STORAGE:
    All data is stored in ~/.haru/ as plain JSON files:
        categories.json - Category registry
        tasks.json      - Per-day task buckets
        projects.json   - Annual projects

CONFIGURATION:
    Optional config file: ~/.config/haru/config.yaml
    See documentation for configuration options.

EXAMPLES:
    # Start the app
    haru

    # Create a backup
    haru backup

    # Restore from a backup
    haru restore --latest

    # Print today's plan
    haru report

    # Project overview as a table
    haru report --projects --format table
`

func main() {
	// Check for subcommands first (before flag parsing)
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "backup":
			runBackup(os.Args[2:])
			return
		case "restore":
			runRestore(os.Args[2:])
			return
		case "report":
			runReport(os.Args[2:])
			return
		}
	}

	showVersion := flag.Bool("version", false, "show version information")
	flag.BoolVar(showVersion, "v", false, "show version information (shorthand)")

	showHelp := flag.Bool("help", false, "show help message")
	flag.BoolVar(showHelp, "h", false, "show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpText)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("haru version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		os.Exit(0)
	}

	if *showHelp {
		fmt.Print(helpText)
		os.Exit(0)
	}

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown arguments: %v\n\n", flag.Args())
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration (from ~/.config/haru/config.yaml or defaults)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.New(cfg.GetDataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	styles := ui.NewStylesFromTheme(&cfg.Theme)

	appCfg := &ui.AppConfig{
		Keys:                  &cfg.Keys,
		ConfirmDeletions:      cfg.UX.ConfirmDeletions,
		ShowOnboarding:        cfg.UX.ShowOnboarding,
		NarrowLayoutThreshold: cfg.UX.NarrowLayoutThreshold,
		ProgressStep:          cfg.UX.ProgressStep,
		Location:              dateutil.LoadLocation(cfg.Timezone),
	}

	if err := ui.Run(store, styles, appCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}
