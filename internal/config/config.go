package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Drag   DragConfig   `yaml:"drag"`
	Theme  ColorScheme  `yaml:"theme"`
}

// ServerConfig points the client at its API server.
type ServerConfig struct {
	// URL is the base URL of the board API, e.g. http://127.0.0.1:7440
	URL string `yaml:"url"`
	// Offline starts the client without a server; mutations fail fast and
	// open-card content falls back to the local cache.
	Offline bool `yaml:"offline"`
}

// DragConfig tunes the pointer-to-drag translation.
type DragConfig struct {
	// HoldDelayMS is how long a press must be held before movement starts
	// a drag rather than a scroll.
	HoldDelayMS int `yaml:"hold_delay_ms"`
	// MoveThresholdCells is the Chebyshev distance a pressed pointer may
	// wander before it counts as movement.
	MoveThresholdCells int `yaml:"move_threshold_cells"`
}

// ColorScheme holds the theme colors, all as hex strings.
type ColorScheme struct {
	Accent     string `yaml:"accent"`
	Subtle     string `yaml:"subtle"`
	CardBorder string `yaml:"card_border"`
	Hover      string `yaml:"hover"`
	DangerBg   string `yaml:"danger_bg"`
	Lock       string `yaml:"lock"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{URL: "http://127.0.0.1:7440"},
		Drag: DragConfig{
			HoldDelayMS:        150,
			MoveThresholdCells: 2,
		},
		Theme: DefaultColorScheme(),
	}
}

// DefaultColorScheme returns the stock colors.
func DefaultColorScheme() ColorScheme {
	return ColorScheme{
		Accent:     "#7D56F4",
		Subtle:     "#6C6C6C",
		CardBorder: "#4A4A4A",
		Hover:      "#F4C957",
		DangerBg:   "#8B2D2D",
		Lock:       "#C4A000",
	}
}

// Load loads config from the user's config directory
// Returns default config if file doesn't exist
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(configPath)
}

// LoadFrom loads config from an explicit path, filling missing values with
// defaults. A missing file yields the defaults, not an error.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()
	return &config, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	if path := os.Getenv("CORKBOARD_CONFIG"); path != "" {
		return path, nil
	}

	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "corkboard", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "corkboard", "config.yaml"), nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Server.URL == "" {
		c.Server.URL = defaults.Server.URL
	}
	if c.Drag.HoldDelayMS <= 0 {
		c.Drag.HoldDelayMS = defaults.Drag.HoldDelayMS
	}
	if c.Drag.MoveThresholdCells <= 0 {
		c.Drag.MoveThresholdCells = defaults.Drag.MoveThresholdCells
	}

	d := defaults.Theme
	if c.Theme.Accent == "" {
		c.Theme.Accent = d.Accent
	}
	if c.Theme.Subtle == "" {
		c.Theme.Subtle = d.Subtle
	}
	if c.Theme.CardBorder == "" {
		c.Theme.CardBorder = d.CardBorder
	}
	if c.Theme.Hover == "" {
		c.Theme.Hover = d.Hover
	}
	if c.Theme.DangerBg == "" {
		c.Theme.DangerBg = d.DangerBg
	}
	if c.Theme.Lock == "" {
		c.Theme.Lock = d.Lock
	}
}
