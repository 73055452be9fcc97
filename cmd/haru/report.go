// Package main is the entry point for the haru application.
// This file contains the report subcommand handler.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"haru/internal/config"
	"haru/internal/dateutil"
	"haru/internal/fsutil"
	"haru/internal/reports"
	"haru/internal/storage"
)

// reportHelpText is the help message for the report subcommand.
const reportHelpText = `haru report - Print daily and project reports

USAGE:
    haru report [OPTIONS] [DATE]

OPTIONS:
    -p, --projects     Project overview for the year instead of a daily plan
    --year N           Year for the project overview (defaults to this year)
    -f, --format FMT   Output format: md (default) or table
    -o, --output FILE  Write to file instead of stdout
    -h, --help         Show this help message

ARGUMENTS:
    DATE               Day for the daily plan (YYYY-MM-DD). Defaults to today.

DESCRIPTION:
    Renders a read-only view of your data: the plan for a single day, or the
    annual project overview grouped by category.

EXAMPLES:
    # Today's plan in Markdown
    haru report

    # A specific day
    haru report 2025-12-14

    # Project overview as a table
    haru report --projects --format table

    # Save to file
    haru report --output plan.md
`

// runReport handles the "haru report" subcommand.
func runReport(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)

	projectsFlag := fs.Bool("projects", false, "project overview instead of a daily plan")
	fs.BoolVar(projectsFlag, "p", false, "project overview (shorthand)")

	yearFlag := fs.Int("year", 0, "year for the project overview")

	formatFlag := fs.String("format", "md", "output format: md or table")
	fs.StringVar(formatFlag, "f", "md", "output format (shorthand)")

	outputFlag := fs.String("output", "", "write to file instead of stdout")
	fs.StringVar(outputFlag, "o", "", "write to file (shorthand)")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, reportHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(reportHelpText)
		os.Exit(0)
	}

	format := *formatFlag
	if format == "markdown" {
		format = "md"
	}
	if format != "md" && format != "table" {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q. Use 'md' or 'table'.\n", format)
		os.Exit(1)
	}

	// Load config and storage
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

	loc := dateutil.LoadLocation(cfg.Timezone)
	gen := reports.NewGenerator(store)

	var output string
	if *projectsFlag {
		year := *yearFlag
		if year == 0 {
			year = time.Now().In(loc).Year()
		}
		if fs.NArg() > 0 {
			// Allow "haru report --projects 2026" too
			if y, err := strconv.Atoi(fs.Arg(0)); err == nil {
				year = y
			}
		}

		report, err := gen.Year(year)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating project report: %v\n", err)
			os.Exit(1)
		}
		if format == "table" {
			output = reports.FormatYearTable(report)
		} else {
			output = reports.FormatYearMarkdown(report)
		}
	} else {
		dayKey := dateutil.Today(loc)
		if fs.NArg() > 0 {
			dayKey = fs.Arg(0)
			if !dateutil.IsValid(dayKey) {
				fmt.Fprintf(os.Stderr, "Error: invalid date %q. Use YYYY-MM-DD format.\n", dayKey)
				os.Exit(1)
			}
		}

		report, err := gen.Daily(dayKey)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating daily report: %v\n", err)
			os.Exit(1)
		}
		if format == "table" {
			output = reports.FormatDailyTable(report)
		} else {
			output = reports.FormatDailyMarkdown(report)
		}
	}

	// Write output
	if *outputFlag != "" {
		if err := os.MkdirAll(filepath.Dir(*outputFlag), 0700); err != nil && filepath.Dir(*outputFlag) != "." {
			fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
			os.Exit(1)
		}
		if err := fsutil.WriteFileAtomic(*outputFlag, []byte(output), 0600); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing to file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Report written to %s\n", *outputFlag)
	} else {
		fmt.Print(output)
	}
}
