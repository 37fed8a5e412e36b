// Package config loads starkverify configuration. Settings are layered:
// command-line flags override environment variables, which override the
// project starkverify.toml, which overrides the global config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for starkverify
type Config struct {
	Network NetworkConfig `toml:"network" yaml:"network"`
	Tools   ToolsConfig   `toml:"tools" yaml:"tools"`
	Client  ClientConfig  `toml:"client" yaml:"client"`
	History HistoryConfig `toml:"history" yaml:"history"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// NetworkConfig selects the verification API endpoint
type NetworkConfig struct {
	Name string `toml:"name" yaml:"name"` // "mainnet" or "sepolia"
	URL  string `toml:"url" yaml:"url"`   // custom endpoint, overrides Name
}

// ToolsConfig holds paths to external binaries
type ToolsConfig struct {
	Scarb    string `toml:"scarb" yaml:"scarb"`
	Resolver string `toml:"resolver" yaml:"resolver"`
}

// ClientConfig holds API client settings
type ClientConfig struct {
	TimeoutSeconds      int `toml:"timeout_seconds" yaml:"timeout_seconds"`
	PollIntervalSeconds int `toml:"poll_interval_seconds" yaml:"poll_interval_seconds"`
	PollTimeoutSeconds  int `toml:"poll_timeout_seconds" yaml:"poll_timeout_seconds"`
}

// HistoryConfig holds local history database settings
type HistoryConfig struct {
	Path     string `toml:"path" yaml:"path"`
	Disabled bool   `toml:"disabled" yaml:"disabled"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "text" or "json"
}

// Endpoints for the public verification API.
const (
	MainnetURL = "https://api.voyager.online/beta"
	SepoliaURL = "https://sepolia-api.voyager.online/beta"
)

// APIURL returns the endpoint for the configured network.
func (n NetworkConfig) APIURL() (string, error) {
	if n.URL != "" {
		return n.URL, nil
	}
	switch n.Name {
	case "mainnet":
		return MainnetURL, nil
	case "sepolia":
		return SepoliaURL, nil
	default:
		return "", fmt.Errorf("unknown network %q: must be mainnet or sepolia", n.Name)
	}
}

// Timeout returns the per-request client timeout.
func (c ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PollInterval returns the delay between job status polls.
func (c ClientConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// PollTimeout returns the total time allowed for a job to complete.
func (c ClientConfig) PollTimeout() time.Duration {
	return time.Duration(c.PollTimeoutSeconds) * time.Second
}

// Default returns the built-in defaults.
func Default() *Config {
	historyPath := "starkverify/history.db"
	if home, err := os.UserHomeDir(); err == nil {
		historyPath = filepath.Join(home, ".starkverify", "history.db")
	}
	return &Config{
		Network: NetworkConfig{Name: "sepolia"},
		Tools: ToolsConfig{
			Scarb:    "scarb",
			Resolver: "voyager-resolver",
		},
		Client: ClientConfig{
			TimeoutSeconds:      30,
			PollIntervalSeconds: 3,
			PollTimeoutSeconds:  300,
		},
		History: HistoryConfig{Path: historyPath},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration: defaults, then the global config file,
// then the project file, then environment variables. Flags are applied
// by the CLI layer on top of the result.
func Load(projectDir string) (*Config, error) {
	cfg := Default()

	if home, err := os.UserHomeDir(); err == nil {
		global := filepath.Join(home, ".starkverify", "config.yaml")
		if err := loadYAML(global, cfg); err != nil {
			return nil, err
		}
	}

	if projectDir != "" {
		project := filepath.Join(projectDir, "starkverify.toml")
		if err := loadTOML(project, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func loadTOML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Network.Name = getEnv("STARKVERIFY_NETWORK", cfg.Network.Name)
	cfg.Network.URL = getEnv("STARKVERIFY_API_URL", cfg.Network.URL)
	cfg.Tools.Scarb = getEnv("STARKVERIFY_SCARB_BIN", cfg.Tools.Scarb)
	cfg.Tools.Resolver = getEnv("STARKVERIFY_RESOLVER_BIN", cfg.Tools.Resolver)
	cfg.Client.TimeoutSeconds = getEnvInt("STARKVERIFY_TIMEOUT_SECONDS", cfg.Client.TimeoutSeconds)
	cfg.Client.PollIntervalSeconds = getEnvInt("STARKVERIFY_POLL_INTERVAL_SECONDS", cfg.Client.PollIntervalSeconds)
	cfg.Client.PollTimeoutSeconds = getEnvInt("STARKVERIFY_POLL_TIMEOUT_SECONDS", cfg.Client.PollTimeoutSeconds)
	cfg.History.Path = getEnv("STARKVERIFY_HISTORY_PATH", cfg.History.Path)
	cfg.History.Disabled = getEnvBool("STARKVERIFY_HISTORY_DISABLED", cfg.History.Disabled)
	cfg.Logging.Level = getEnv("STARKVERIFY_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("STARKVERIFY_LOG_FORMAT", cfg.Logging.Format)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}
