// Package main is the entry point for the haru application.
// This file contains the backup subcommand handler.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"haru/internal/backup"
	"haru/internal/config"
)

// backupHelpText is the help message for the backup subcommand.
const backupHelpText = `haru backup - Create and manage backups

USAGE:
    haru backup [OPTIONS]

OPTIONS:
    -l, --list     List available backups
    --prune N      Delete all but the N most recent backups
    -h, --help     Show this help message

DESCRIPTION:
    Creates a timestamped .tar.gz snapshot of all your data files
    (categories, tasks, projects). Snapshots are stored in
    ~/.haru/backups/ and can be restored later.

EXAMPLES:
    # Create a new backup
    haru backup

    # List all available backups
    haru backup --list

    # Keep only the ten most recent backups
    haru backup --prune 10
`

// runBackup handles the "haru backup" subcommand.
func runBackup(args []string) {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)

	listFlag := fs.Bool("list", false, "list available backups")
	fs.BoolVar(listFlag, "l", false, "list available backups (shorthand)")

	pruneFlag := fs.Int("prune", 0, "keep only the N most recent backups")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, backupHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(backupHelpText)
		os.Exit(0)
	}

	// Load config to get data directory
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	manager := backup.NewManager(cfg.GetDataDir(), version)

	switch {
	case *pruneFlag > 0:
		pruneBackups(manager, *pruneFlag)
	case *listFlag:
		listBackups(manager)
	default:
		createBackup(manager)
	}
}

// createBackup creates a new backup and displays the result.
func createBackup(manager *backup.Manager) {
	name, err := manager.Create()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating backup: %v\n", err)
		os.Exit(1)
	}

	info, err := manager.GetBackup(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading backup info: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Backup created: %s\n", name)
	fmt.Printf("  Categories: %d, Tasks: %d, Projects: %d\n",
		info.Stats["categories"], info.Stats["tasks"], info.Stats["projects"])
	fmt.Printf("  Location: %s\n", info.Path)
}

// listBackups lists all available backups.
func listBackups(manager *backup.Manager) {
	backups, err := manager.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing backups: %v\n", err)
		os.Exit(1)
	}

	if len(backups) == 0 {
		fmt.Println("No backups available.")
		fmt.Println("Run 'haru backup' to create one.")
		return
	}

	fmt.Println("Available backups:")
	for _, b := range backups {
		age := formatAge(b.CreatedAt)
		fmt.Printf("  %s  (%s)   Tasks: %d, Projects: %d\n",
			b.Name, age, b.Stats["tasks"], b.Stats["projects"])
	}
}

// pruneBackups trims the backup directory to the newest keep entries.
func pruneBackups(manager *backup.Manager, keep int) {
	deleted, err := manager.Prune(keep)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error pruning backups: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Pruned %d backup(s), kept the %d most recent\n", deleted, keep)
}

// formatAge returns a human-readable age string.
func formatAge(t time.Time) string {
	d := time.Since(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case d < 24*time.Hour:
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	}
}
