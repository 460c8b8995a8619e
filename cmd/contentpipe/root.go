package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "contentpipe",
	Short: "Content production pipeline",
	Long: `Contentpipe turns content briefs into published posts.

A brief describes what to say; contentpipe plans the work as a workflow
of tasks (draft, image, publish), matches each task to a capable agent,
and drives the run to completion.

Core capabilities:
- Builds per-platform content from a single brief
- Sources images via AI generation or stock search
- Publishes to Telegram channels
- Optional fact-check gate before publication
- Watches a briefs directory and runs new briefs automatically`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
