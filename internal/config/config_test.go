package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Scheduler.SweepInterval != 5*time.Second {
		t.Errorf("SweepInterval = %v, want 5s", cfg.Scheduler.SweepInterval)
	}
	if cfg.Scheduler.EventBuffer != 100 {
		t.Errorf("EventBuffer = %d, want 100", cfg.Scheduler.EventBuffer)
	}
	if cfg.Agents.CreatorConcurrency != 3 {
		t.Errorf("CreatorConcurrency = %d, want 3", cfg.Agents.CreatorConcurrency)
	}
	if cfg.Briefs.Dir != "briefs" {
		t.Errorf("Briefs.Dir = %q, want briefs", cfg.Briefs.Dir)
	}
}

func TestLoadFromPath(t *testing.T) {
	content := `
anthropic:
  api_key: test-key
  model: claude-sonnet-4-20250514
telegram:
  bot_token: bot-token
  api_base: http://localhost:8081
images:
  stock_endpoint: https://api.pexels.com/v1/search
scheduler:
  sweep_interval: 2s
  event_buffer: 50
agents:
  creator_concurrency: 1
briefs:
  dir: /tmp/briefs
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "test-key" {
		t.Errorf("APIKey = %q", cfg.Anthropic.APIKey)
	}
	if cfg.Telegram.BotToken != "bot-token" {
		t.Errorf("BotToken = %q", cfg.Telegram.BotToken)
	}
	if cfg.Scheduler.SweepInterval != 2*time.Second {
		t.Errorf("SweepInterval = %v", cfg.Scheduler.SweepInterval)
	}
	if cfg.Scheduler.EventBuffer != 50 {
		t.Errorf("EventBuffer = %d", cfg.Scheduler.EventBuffer)
	}
	if cfg.Agents.CreatorConcurrency != 1 {
		t.Errorf("CreatorConcurrency = %d", cfg.Agents.CreatorConcurrency)
	}
	// Unset keys fall back to defaults
	if cfg.Agents.PublisherConcurrency != 5 {
		t.Errorf("PublisherConcurrency = %d, want default 5", cfg.Agents.PublisherConcurrency)
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadFromPathExpandsEnv(t *testing.T) {
	t.Setenv("CP_TEST_KEY", "expanded-key")

	content := "anthropic:\n  api_key: ${CP_TEST_KEY}\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Anthropic.APIKey != "expanded-key" {
		t.Errorf("APIKey = %q, want expanded-key", cfg.Anthropic.APIKey)
	}
}

func TestGetUserConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	got := GetUserConfigPath()
	want := filepath.Join("/tmp/xdg", "contentpipe", "config.yaml")
	if got != want {
		t.Errorf("GetUserConfigPath = %q, want %q", got, want)
	}
}
