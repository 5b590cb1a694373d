// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultTheme        = "vs"
	DefaultBodyFont     = "sans-serif"
	DefaultCodeFont     = "monospace"
	DefaultCellTimeout  = 5 * time.Second
	DefaultMaxCellBytes = 512 * 1024
	DefaultDebounce     = 200 * time.Millisecond
)

// Config represents the elara configuration.
type Config struct {
	Theme   ThemeConfig   `toml:"theme"`
	Fonts   FontsConfig   `toml:"fonts"`
	Convert ConvertConfig `toml:"convert"`
	Output  OutputConfig  `toml:"output"`
}

// ThemeConfig selects the colour theme.
type ThemeConfig struct {
	Name     string `toml:"name"`     // theme name or path to a theme file
	Fallback string `toml:"fallback"` // used when Name cannot be found, unless Strict
	Strict   bool   `toml:"strict"`   // a missing theme aborts the run
	Dir      string `toml:"dir"`      // user themes directory; empty = ~/.config/elara/themes
}

// FontsConfig holds the page fonts. A "gf:" prefix loads the family from
// Google Fonts.
type FontsConfig struct {
	Body string `toml:"body"`
	Code string `toml:"code"`
}

// ConvertConfig holds conversion limits.
type ConvertConfig struct {
	Workers      int      `toml:"workers"`        // 0 = one per CPU
	CellTimeout  Duration `toml:"cell_timeout"`   // per code cell
	MaxCellBytes int      `toml:"max_cell_bytes"` // larger cells are not highlighted
	Debounce     Duration `toml:"debounce"`       // watch mode
}

// OutputConfig holds output options.
type OutputConfig struct {
	Dir string `toml:"dir"` // empty = next to each notebook
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Theme: ThemeConfig{
			Name:     DefaultTheme,
			Fallback: DefaultTheme,
		},
		Fonts: FontsConfig{
			Body: DefaultBodyFont,
			Code: DefaultCodeFont,
		},
		Convert: ConvertConfig{
			Workers:      0,
			CellTimeout:  Duration(DefaultCellTimeout),
			MaxCellBytes: DefaultMaxCellBytes,
			Debounce:     Duration(DefaultDebounce),
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "elara", "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Convert.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Convert.Workers)
	}
	if c.Convert.CellTimeout < 0 {
		return fmt.Errorf("cell_timeout must not be negative, got %s", c.Convert.CellTimeout.Duration())
	}
	if c.Convert.MaxCellBytes < 0 {
		return fmt.Errorf("max_cell_bytes must not be negative, got %d", c.Convert.MaxCellBytes)
	}
	if c.Theme.Fallback == "" {
		return errors.New("theme fallback must not be empty")
	}
	return nil
}

// ThemesDir returns the configured user themes directory with ~ expanded,
// or "" for the default location.
func (c *Config) ThemesDir() string {
	return expandPath(c.Theme.Dir)
}

// OutputDir returns the configured output directory with ~ expanded.
func (c *Config) OutputDir() string {
	return expandPath(c.Output.Dir)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
