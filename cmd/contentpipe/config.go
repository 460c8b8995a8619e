package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"contentpipe/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify contentpipe configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/contentpipe/config.yaml
Project-specific overrides can be placed in .contentpipe.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("anthropic.api_key: %s\n", maskSecret(cfg.Anthropic.APIKey))
	fmt.Printf("anthropic.model: %s\n", orUnset(cfg.Anthropic.Model))
	fmt.Printf("anthropic.use_aws_bedrock: %t\n", cfg.Anthropic.UseAWSBedrock)
	fmt.Printf("telegram.bot_token: %s\n", maskSecret(cfg.Telegram.BotToken))
	fmt.Printf("telegram.api_base: %s\n", orUnset(cfg.Telegram.APIBase))
	fmt.Printf("images.generate_endpoint: %s\n", orUnset(cfg.Images.GenerateEndpoint))
	fmt.Printf("images.stock_endpoint: %s\n", orUnset(cfg.Images.StockEndpoint))
	fmt.Printf("images.stock_api_key: %s\n", maskSecret(cfg.Images.StockAPIKey))
	fmt.Printf("scheduler.sweep_interval: %s\n", cfg.Scheduler.SweepInterval)
	fmt.Printf("scheduler.event_buffer: %d\n", cfg.Scheduler.EventBuffer)
	fmt.Printf("agents.creator_concurrency: %d\n", cfg.Agents.CreatorConcurrency)
	fmt.Printf("agents.imager_concurrency: %d\n", cfg.Agents.ImagerConcurrency)
	fmt.Printf("agents.publisher_concurrency: %d\n", cfg.Agents.PublisherConcurrency)
	fmt.Printf("briefs.dir: %s\n", cfg.Briefs.Dir)
}

func maskSecret(value string) string {
	if value == "" {
		return "(not set)"
	}
	return "****"
}

func orUnset(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		return maskSecret(cfg.Anthropic.APIKey), nil
	case "anthropic.model":
		return orUnset(cfg.Anthropic.Model), nil
	case "anthropic.use_aws_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseAWSBedrock), nil
	case "telegram.bot_token":
		return maskSecret(cfg.Telegram.BotToken), nil
	case "telegram.api_base":
		return orUnset(cfg.Telegram.APIBase), nil
	case "images.generate_endpoint":
		return orUnset(cfg.Images.GenerateEndpoint), nil
	case "images.stock_endpoint":
		return orUnset(cfg.Images.StockEndpoint), nil
	case "images.stock_api_key":
		return maskSecret(cfg.Images.StockAPIKey), nil
	case "scheduler.sweep_interval":
		return cfg.Scheduler.SweepInterval.String(), nil
	case "scheduler.event_buffer":
		return strconv.Itoa(cfg.Scheduler.EventBuffer), nil
	case "agents.creator_concurrency":
		return strconv.Itoa(cfg.Agents.CreatorConcurrency), nil
	case "agents.imager_concurrency":
		return strconv.Itoa(cfg.Agents.ImagerConcurrency), nil
	case "agents.publisher_concurrency":
		return strconv.Itoa(cfg.Agents.PublisherConcurrency), nil
	case "briefs.dir":
		return cfg.Briefs.Dir, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.use_aws_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for use_aws_bedrock: %w", err)
		}
		cfg.Anthropic.UseAWSBedrock = b
	case "telegram.bot_token":
		cfg.Telegram.BotToken = value
	case "telegram.api_base":
		cfg.Telegram.APIBase = value
	case "images.generate_endpoint":
		cfg.Images.GenerateEndpoint = value
	case "images.stock_endpoint":
		cfg.Images.StockEndpoint = value
	case "images.stock_api_key":
		cfg.Images.StockAPIKey = value
	case "scheduler.sweep_interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for sweep_interval: %w", err)
		}
		cfg.Scheduler.SweepInterval = d
	case "scheduler.event_buffer":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for event_buffer: %w", err)
		}
		cfg.Scheduler.EventBuffer = n
	case "agents.creator_concurrency":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for creator_concurrency: %w", err)
		}
		cfg.Agents.CreatorConcurrency = n
	case "agents.imager_concurrency":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for imager_concurrency: %w", err)
		}
		cfg.Agents.ImagerConcurrency = n
	case "agents.publisher_concurrency":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for publisher_concurrency: %w", err)
		}
		cfg.Agents.PublisherConcurrency = n
	case "briefs.dir":
		cfg.Briefs.Dir = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
