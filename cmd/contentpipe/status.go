package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"contentpipe/internal/state"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent pipeline runs",
	Long: `Display recent workflow runs recorded in the state database.

Shows each run's outcome, task counts, and duration. The project-local
database (.contentpipe/state.db) is preferred; the global one is used
when no project database exists.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusLimit, "limit", 10, "Number of runs to show")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	// Try project database first, then global
	dbPath := state.ProjectDBPath(cwd)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		dbPath = state.GlobalDBPath()
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No runs recorded. Run 'contentpipe run <brief.yaml>' to start.")
		return nil
	}

	db, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	runs, err := db.ListRecentRuns(statusLimit)
	if err != nil {
		return fmt.Errorf("list recent runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded. Run 'contentpipe run <brief.yaml>' to start.")
		return nil
	}

	fmt.Println("Recent Runs:")
	for _, run := range runs {
		marker := color.GreenString("✓")
		if run.Status != state.RunCompleted {
			marker = color.RedString("✗")
		}
		elapsed := formatDuration(time.Since(run.StartedAt))
		fmt.Printf("  %s %s: %q %d/%d tasks in %s (%s ago)\n",
			marker, run.ID, run.Name,
			run.CompletedTasks, run.TotalTasks,
			run.Duration.Round(time.Millisecond), elapsed)
	}

	return nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m > 0 {
			return fmt.Sprintf("%dh%dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
	days := int(d.Hours()) / 24
	return fmt.Sprintf("%dd", days)
}
