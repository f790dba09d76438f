package shared

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Stream   StreamConfig   `toml:"stream"`
	Poll     PollConfig     `toml:"poll"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	UI       UIConfig       `toml:"ui"`
}

// ServerConfig points at the dashboard server.
type ServerConfig struct {
	BaseURL string `toml:"base_url"`
}

// StreamConfig contains server-push stream settings.
type StreamConfig struct {
	Path         string  `toml:"path"`
	RetrySeconds float64 `toml:"retry_seconds"`
}

// PollConfig contains snapshot polling settings.
type PollConfig struct {
	SnapshotPath    string  `toml:"snapshot_path"`
	RootSelector    string  `toml:"root_selector"`
	IntervalSeconds float64 `toml:"interval_seconds"`
	IntervalPath    string  `toml:"interval_path"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// UIConfig contains dashboard settings.
type UIConfig struct {
	Services []string `toml:"services"`
}

// Interval returns the configured poll period.
func (p PollConfig) Interval() time.Duration {
	return Seconds(p.IntervalSeconds)
}

// Retry returns the configured reconnect delay.
func (s StreamConfig) Retry() time.Duration {
	return Seconds(s.RetrySeconds)
}

// Seconds converts fractional seconds to a [time.Duration].
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Validate checks the fields the engine cannot run without.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("%w: server.base_url is required", ErrInvalidConfig)
	}
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: server.base_url %q is not an absolute URL", ErrInvalidConfig, c.Server.BaseURL)
	}
	if !strings.HasPrefix(c.Stream.Path, "/") {
		return fmt.Errorf("%w: stream.path must start with /", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.Poll.SnapshotPath, "/") {
		return fmt.Errorf("%w: poll.snapshot_path must start with /", ErrInvalidConfig)
	}
	if c.Poll.IntervalSeconds <= 0 {
		return fmt.Errorf("%w: poll.interval_seconds must be positive", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
