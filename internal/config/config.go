// Package config handles reading and writing the hf configuration file (~/.hf/config.toml).
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
)

// Dir is the name of the per-user data directory under $HOME.
const Dir = ".hf"

// DefaultServeAddr is used by hf serve when serve_addr is unset.
const DefaultServeAddr = "127.0.0.1:7325"

// Config holds hf configuration settings.
type Config struct {
	HistoryPath   string `toml:"history_path,omitempty" json:"history_path,omitempty"`
	DefaultFormat string `toml:"default_format,omitempty" json:"default_format,omitempty"`
	LogLevel      string `toml:"log_level,omitempty" json:"log_level,omitempty"`
	LogFile       string `toml:"log_file,omitempty" json:"log_file,omitempty"`
	ServeAddr     string `toml:"serve_addr,omitempty" json:"serve_addr,omitempty"`
}

var validKeys = map[string]bool{
	"history_path":   true,
	"default_format": true,
	"log_level":      true,
	"log_file":       true,
	"serve_addr":     true,
}

// ValidKeys returns the sorted list of valid configuration keys.
func ValidKeys() []string {
	return []string{"default_format", "history_path", "log_file", "log_level", "serve_addr"}
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", Dir)
	}
	return filepath.Join(home, Dir)
}

// Path returns the default config file path (~/.hf/config.toml).
func Path() string {
	return filepath.Join(dataDir(), "config.toml")
}

// DefaultHistoryPath returns the default history file path (~/.hf/history.bin).
func DefaultHistoryPath() string {
	return filepath.Join(dataDir(), "history.bin")
}

// History returns the configured history path, or the default.
func (c *Config) History() string {
	if c.HistoryPath != "" {
		return c.HistoryPath
	}
	return DefaultHistoryPath()
}

// Addr returns the configured listen address for hf serve, or the default.
func (c *Config) Addr() string {
	if c.ServeAddr != "" {
		return c.ServeAddr
	}
	return DefaultServeAddr
}

// Load reads the config from the default path.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config from a specific path. Returns an empty Config if
// the file does not exist.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes the config to the default path.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the config to a specific path, creating parent directories as needed.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Get returns the string value of a configuration key.
func (c *Config) Get(key string) (string, error) {
	if !validKeys[key] {
		return "", fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(ValidKeys(), ", "))
	}
	switch key {
	case "history_path":
		return c.HistoryPath, nil
	case "default_format":
		return c.DefaultFormat, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_file":
		return c.LogFile, nil
	default:
		return c.ServeAddr, nil
	}
}

// Set assigns a value to a configuration key.
func (c *Config) Set(key, value string) error {
	if !validKeys[key] {
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(ValidKeys(), ", "))
	}
	switch key {
	case "history_path":
		c.HistoryPath = value
	case "default_format":
		if value != "" && value != "table" && value != "json" {
			return fmt.Errorf("default_format must be \"table\" or \"json\", got %q", value)
		}
		c.DefaultFormat = value
	case "log_level":
		if value != "" {
			if _, err := logrus.ParseLevel(value); err != nil {
				return fmt.Errorf("log_level: %w", err)
			}
		}
		c.LogLevel = value
	case "log_file":
		c.LogFile = value
	case "serve_addr":
		if value != "" {
			if _, _, err := net.SplitHostPort(value); err != nil {
				return fmt.Errorf("serve_addr must be host:port: %w", err)
			}
		}
		c.ServeAddr = value
	}
	return nil
}
