package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.BaseURL != "http://127.0.0.1:5522" {
			t.Errorf("expected base URL http://127.0.0.1:5522, got %s", config.Server.BaseURL)
		}

		if config.Stream.Path != "/events-stream" {
			t.Errorf("expected stream path /events-stream, got %s", config.Stream.Path)
		}

		if config.Poll.SnapshotPath != "/renderTasks" {
			t.Errorf("expected snapshot path /renderTasks, got %s", config.Poll.SnapshotPath)
		}

		if config.Poll.Interval() != 5*time.Second {
			t.Errorf("expected 5s poll interval, got %v", config.Poll.Interval())
		}

		if config.Stream.Retry() != 3*time.Second {
			t.Errorf("expected 3s retry, got %v", config.Stream.Retry())
		}

		if config.Database.Path != "./taskview.db" {
			t.Errorf("expected database path ./taskview.db, got %s", config.Database.Path)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[server]
base_url = "http://dashboard.local:8080"

[poll]
interval_seconds = 1.5
interval_path = "/updateInterval"

[ui]
services = ["alpha"]
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Server.BaseURL != "http://dashboard.local:8080" {
			t.Errorf("expected overridden base URL, got %s", config.Server.BaseURL)
		}

		if config.Poll.Interval() != 1500*time.Millisecond {
			t.Errorf("expected 1.5s interval, got %v", config.Poll.Interval())
		}

		if config.Poll.IntervalPath != "/updateInterval" {
			t.Errorf("expected interval path /updateInterval, got %s", config.Poll.IntervalPath)
		}

		if config.Poll.SnapshotPath != "/renderTasks" {
			t.Errorf("expected default snapshot path to survive, got %s", config.Poll.SnapshotPath)
		}

		if len(config.UI.Services) != 1 || config.UI.Services[0] != "alpha" {
			t.Errorf("expected services [alpha], got %v", config.UI.Services)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name   string
			mutate func(*Config)
		}{
			{name: "empty base URL", mutate: func(c *Config) { c.Server.BaseURL = "" }},
			{name: "relative base URL", mutate: func(c *Config) { c.Server.BaseURL = "dashboard" }},
			{name: "stream path without slash", mutate: func(c *Config) { c.Stream.Path = "events" }},
			{name: "snapshot path without slash", mutate: func(c *Config) { c.Poll.SnapshotPath = "renderTasks" }},
			{name: "zero interval", mutate: func(c *Config) { c.Poll.IntervalSeconds = 0 }},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)
				if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})
}
