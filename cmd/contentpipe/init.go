package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a contentpipe workspace",
	Long: `Initialize a directory for use with contentpipe.

This command sets up everything needed to run briefs:
  - Creates the .contentpipe directory structure
  - Creates a briefs/ directory with an example brief
  - Creates a .contentpipe.yaml config template

The directory argument is optional and defaults to the current directory.

Examples:
  contentpipe init              # Initialize current directory
  contentpipe init ./mysite     # Initialize specific directory
  contentpipe init --force      # Reinitialize even if already set up`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Reinitialize even if already set up")
}

func runInit(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	absPath, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("resolving absolute path: %w", err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", absPath, err)
	}

	fmt.Printf("Initializing contentpipe in %s...\n\n", absPath)

	pipeDir := filepath.Join(absPath, ".contentpipe")
	if _, err := os.Stat(pipeDir); err == nil && !initForce {
		fmt.Printf("Directory already initialized. Use --force to reinitialize.\n")
		return nil
	}

	// Environment checks are informational; briefs can still run in
	// test mode with nothing configured.
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		printStatus("⚠", "ANTHROPIC_API_KEY not set (content drafting runs offline)", color.FgYellow)
	} else {
		printStatus("✓", "ANTHROPIC_API_KEY is set", color.FgGreen)
	}
	if os.Getenv("TELEGRAM_BOT_TOKEN") == "" {
		printStatus("⚠", "TELEGRAM_BOT_TOKEN not set (publishing will fail outside test mode)", color.FgYellow)
	} else {
		printStatus("✓", "TELEGRAM_BOT_TOKEN is set", color.FgGreen)
	}

	logsDir := filepath.Join(pipeDir, "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("creating .contentpipe/logs directory: %w", err)
	}
	printStatus("✓", "Created .contentpipe directory structure", color.FgGreen)

	briefsDir := filepath.Join(absPath, "briefs")
	if err := os.MkdirAll(briefsDir, 0755); err != nil {
		return fmt.Errorf("creating briefs directory: %w", err)
	}
	if err := createExampleBrief(briefsDir); err != nil {
		return fmt.Errorf("creating example brief: %w", err)
	}
	printStatus("✓", "Created briefs/ with an example brief", color.FgGreen)

	if err := createProjectConfig(absPath); err != nil {
		return fmt.Errorf("creating project config: %w", err)
	}
	printStatus("✓", "Created .contentpipe.yaml template", color.FgGreen)

	fmt.Printf("\n%s contentpipe initialization complete!\n\n", color.GreenString("✓"))
	fmt.Println("Next steps:")
	fmt.Println("  1. Edit briefs/example.yaml with your content brief")
	fmt.Println()
	fmt.Println("  2. Run it:")
	fmt.Println("     contentpipe run briefs/example.yaml --test-mode")
	fmt.Println()
	fmt.Println("  3. Or watch the directory:")
	fmt.Println("     contentpipe watch")

	return nil
}

// createExampleBrief writes the starter brief unless one already exists.
func createExampleBrief(briefsDir string) error {
	path := filepath.Join(briefsDir, "example.yaml")
	if _, err := os.Stat(path); err == nil {
		return nil // Already exists, don't overwrite
	}

	example := `# Example content brief
title: Product launch announcement
description: We are launching our new product next Monday
audience: existing customers
goals:
  - drive signups
tone: friendly
keywords:
  - launch
  - product

platforms:
  - telegram
content_types:
  - post

options:
  generate_image: false
  publish: false
  test_mode: true
`
	return os.WriteFile(path, []byte(example), 0644)
}

// createProjectConfig creates the .contentpipe.yaml template.
func createProjectConfig(repoPath string) error {
	configPath := filepath.Join(repoPath, ".contentpipe.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil // Already exists, don't overwrite
	}

	template := `# contentpipe project configuration
# This file overrides defaults from ~/.config/contentpipe/config.yaml

# anthropic:
#   api_key: ${ANTHROPIC_API_KEY}
#   model: claude-sonnet-4-20250514

# telegram:
#   bot_token: ${TELEGRAM_BOT_TOKEN}

# images:
#   generate_endpoint: https://images.example.com/generate
#   stock_endpoint: https://api.pexels.com/v1/search
#   stock_api_key: ${STOCK_IMAGE_API_KEY}

# scheduler:
#   sweep_interval: 5s
#   event_buffer: 100

# briefs:
#   dir: briefs
`

	return os.WriteFile(configPath, []byte(template), 0644)
}

// printStatus prints a status line with color
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
