// Package config loads the editor configuration from inkwell.toml,
// provides defaults when the file or any key is absent, and watches the
// file for live reload. Configuration values are also reachable through
// flat dotted keys so the init script can read and adjust them.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Editor holds behavior settings.
type Editor struct {
	// QuitConfirmations is how many consecutive quit presses an unsaved
	// buffer requires before the editor actually exits.
	QuitConfirmations int `toml:"quit-confirmations"`
}

// Log holds logging settings. An empty File selects the default cache
// path at bootstrap.
type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Theme holds color names for the rendered surfaces. Values are tcell
// color names ("yellow", "silver") or hex strings ("#rrggbb").
type Theme struct {
	MatchFG         string `toml:"match-fg"`
	MatchBG         string `toml:"match-bg"`
	SelectedMatchFG string `toml:"selected-match-fg"`
	SelectedMatchBG string `toml:"selected-match-bg"`
	StatusFG        string `toml:"status-fg"`
	StatusBG        string `toml:"status-bg"`
}

// Config is the full editor configuration.
type Config struct {
	Editor Editor `toml:"editor"`
	Log    Log    `toml:"log"`
	Theme  Theme  `toml:"theme"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: Editor{
			QuitConfirmations: 3,
		},
		Log: Log{
			Level: "info",
			File:  "",
		},
		Theme: Theme{
			MatchFG:         "black",
			MatchBG:         "yellow",
			SelectedMatchFG: "black",
			SelectedMatchBG: "green",
			StatusFG:        "black",
			StatusBG:        "silver",
		},
	}
}

// Load reads the configuration at path over the defaults. A missing file
// is not an error. On any failure the returned config is the defaults, so
// callers can log the error and keep going.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if c.Editor.QuitConfirmations < 0 {
		c.Editor.QuitConfirmations = 0
	}
}

// DefaultPath returns the per-user location of inkwell.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(dir, "inkwell", "inkwell.toml"), nil
}

// Get returns the value at a flat dotted key such as
// "editor.quit-confirmations" or "theme.match-bg".
func (c *Config) Get(key string) (any, bool) {
	switch key {
	case "editor.quit-confirmations":
		return c.Editor.QuitConfirmations, true
	case "log.level":
		return c.Log.Level, true
	case "log.file":
		return c.Log.File, true
	case "theme.match-fg":
		return c.Theme.MatchFG, true
	case "theme.match-bg":
		return c.Theme.MatchBG, true
	case "theme.selected-match-fg":
		return c.Theme.SelectedMatchFG, true
	case "theme.selected-match-bg":
		return c.Theme.SelectedMatchBG, true
	case "theme.status-fg":
		return c.Theme.StatusFG, true
	case "theme.status-bg":
		return c.Theme.StatusBG, true
	}
	return nil, false
}

// Set assigns the value at a flat dotted key. Numeric values arrive from
// the script engine as float64 and are coerced.
func (c *Config) Set(key string, value any) error {
	switch key {
	case "editor.quit-confirmations":
		n, err := toInt(value)
		if err != nil {
			return fmt.Errorf("config key %s: %w", key, err)
		}
		c.Editor.QuitConfirmations = n
		c.normalize()
		return nil
	case "log.level":
		return setString(&c.Log.Level, key, value)
	case "log.file":
		return setString(&c.Log.File, key, value)
	case "theme.match-fg":
		return setString(&c.Theme.MatchFG, key, value)
	case "theme.match-bg":
		return setString(&c.Theme.MatchBG, key, value)
	case "theme.selected-match-fg":
		return setString(&c.Theme.SelectedMatchFG, key, value)
	case "theme.selected-match-bg":
		return setString(&c.Theme.SelectedMatchBG, key, value)
	case "theme.status-fg":
		return setString(&c.Theme.StatusFG, key, value)
	case "theme.status-bg":
		return setString(&c.Theme.StatusBG, key, value)
	}
	return fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

func toInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	}
	return 0, fmt.Errorf("%w: expected number, got %T", ErrTypeMismatch, value)
}

func setString(dst *string, key string, value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("config key %s: %w: expected string, got %T", key, ErrTypeMismatch, value)
	}
	*dst = s
	return nil
}
