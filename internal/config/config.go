// Package config handles configuration loading and management for contentpipe.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for contentpipe.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Images    ImagesConfig    `mapstructure:"images"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Agents    AgentsConfig    `mapstructure:"agents"`
	Briefs    BriefsConfig    `mapstructure:"briefs"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
	// UseAWSBedrock routes API calls through AWS Bedrock instead of the
	// direct Anthropic API.
	UseAWSBedrock bool   `mapstructure:"use_aws_bedrock"`
	AWSRegion     string `mapstructure:"aws_region"`
	AWSProfile    string `mapstructure:"aws_profile"`
}

// TelegramConfig holds Telegram publishing settings.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	APIBase  string `mapstructure:"api_base"`
}

// ImagesConfig holds image sourcing settings.
type ImagesConfig struct {
	GenerateEndpoint string `mapstructure:"generate_endpoint"`
	StockEndpoint    string `mapstructure:"stock_endpoint"`
	StockAPIKey      string `mapstructure:"stock_api_key"`
}

// SchedulerConfig holds scheduler tuning settings.
type SchedulerConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	EventBuffer   int           `mapstructure:"event_buffer"`
}

// AgentsConfig holds per-agent concurrency limits.
type AgentsConfig struct {
	CreatorConcurrency   int `mapstructure:"creator_concurrency"`
	ImagerConcurrency    int `mapstructure:"imager_concurrency"`
	PublisherConcurrency int `mapstructure:"publisher_concurrency"`
}

// BriefsConfig holds brief discovery settings.
type BriefsConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, TELEGRAM_BOT_TOKEN)
// 2. Project config (.contentpipe.yaml in current directory or parent)
// 3. User config (~/.config/contentpipe/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Load user config from XDG path
	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides
	v.AutomaticEnv()
	v.SetEnvPrefix("")

	// Map specific environment variables
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("images.stock_api_key", "STOCK_IMAGE_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
	cfg.Telegram.BotToken = expandEnv(cfg.Telegram.BotToken)
	cfg.Images.StockAPIKey = expandEnv(cfg.Images.StockAPIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
	cfg.Telegram.BotToken = expandEnv(cfg.Telegram.BotToken)
	cfg.Images.StockAPIKey = expandEnv(cfg.Images.StockAPIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.use_aws_bedrock", cfg.Anthropic.UseAWSBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("telegram.bot_token", cfg.Telegram.BotToken)
	v.Set("telegram.api_base", cfg.Telegram.APIBase)
	v.Set("images.generate_endpoint", cfg.Images.GenerateEndpoint)
	v.Set("images.stock_endpoint", cfg.Images.StockEndpoint)
	v.Set("images.stock_api_key", cfg.Images.StockAPIKey)
	v.Set("scheduler.sweep_interval", cfg.Scheduler.SweepInterval.String())
	v.Set("scheduler.event_buffer", cfg.Scheduler.EventBuffer)
	v.Set("agents.creator_concurrency", cfg.Agents.CreatorConcurrency)
	v.Set("agents.imager_concurrency", cfg.Agents.ImagerConcurrency)
	v.Set("agents.publisher_concurrency", cfg.Agents.PublisherConcurrency)
	v.Set("briefs.dir", cfg.Briefs.Dir)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	// Anthropic defaults
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.use_aws_bedrock", false)

	// Telegram defaults
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.api_base", "")

	// Scheduler defaults
	v.SetDefault("scheduler.sweep_interval", "5s")
	v.SetDefault("scheduler.event_buffer", 100)

	// Agent concurrency defaults
	v.SetDefault("agents.creator_concurrency", 3)
	v.SetDefault("agents.imager_concurrency", 2)
	v.SetDefault("agents.publisher_concurrency", 5)

	// Brief discovery defaults
	v.SetDefault("briefs.dir", "briefs")
}

// getUserConfigDir returns the XDG config directory for contentpipe.
func getUserConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "contentpipe")
	}

	// Fall back to ~/.config/contentpipe
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "contentpipe")
	}
	return filepath.Join(home, ".config", "contentpipe")
}

// findProjectConfig searches for .contentpipe.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".contentpipe.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{},
		Telegram:  TelegramConfig{},
		Images:    ImagesConfig{},
		Scheduler: SchedulerConfig{
			SweepInterval: 5 * time.Second,
			EventBuffer:   100,
		},
		Agents: AgentsConfig{
			CreatorConcurrency:   3,
			ImagerConcurrency:    2,
			PublisherConcurrency: 5,
		},
		Briefs: BriefsConfig{
			Dir: "briefs",
		},
	}
}
