package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"contentpipe/internal/brief"
	"contentpipe/internal/config"
	"contentpipe/internal/watch"
)

var watchDir string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the briefs directory and run new briefs",
	Long: `Watch a directory for brief files and run each one as it appears.

New or rewritten .yaml/.yml files are picked up after their writes settle,
so briefs dropped in by editors or sync tools run exactly once per save.
Stop with Ctrl-C.

Examples:
  contentpipe watch
  contentpipe watch --dir ./briefs`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "Briefs directory (defaults to config briefs.dir)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dir := watchDir
	if dir == "" {
		dir = cfg.Briefs.Dir
	}

	watcher, err := watch.New(dir)
	if err != nil {
		return err
	}
	defer watcher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s for briefs (Ctrl-C to stop)...\n", watcher.Dir())

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nStopping watch")
			return nil
		case path := <-watcher.Briefs():
			fmt.Printf("\n%s %s\n", color.New(color.FgBlue).Sprint("●"), path)
			if err := runWatchedBrief(ctx, cfg, path); err != nil {
				fmt.Printf("%s %s: %v\n", color.RedString("✗"), path, err)
			}
		}
	}
}

// runWatchedBrief loads and executes one brief file; a bad file is reported
// and skipped rather than stopping the watch.
func runWatchedBrief(ctx context.Context, cfg *config.Config, path string) error {
	bf, err := brief.Load(path)
	if err != nil {
		return err
	}
	return executeBriefFile(ctx, cfg, bf, false)
}
