package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"imgtriage/internal/errors"
	"imgtriage/pkg/types"

	"gopkg.in/yaml.v3"
)

// DefaultExtensions is the image allow-list used when none is configured
var DefaultExtensions = types.ImageExtensions

// Config represents the application configuration structure.
type Config struct {
	Settings struct {
		SaveAction      types.SaveAction `yaml:"save_action"`            // copy or move
		SortVariant     *types.SortSpec  `yaml:"sort_variant,omitempty"` // Optional bucketing into sub-directories
		TargetDirectory string           `yaml:"target_directory"`       // Default save target
		Collision       string           `yaml:"collision"`              // Collision strategy: skip or rename
		Concurrency     int              `yaml:"concurrency"`            // Parallel file copies per save
		TrashDir        string           `yaml:"trash_dir"`              // Where deleted files go
		DryRun          bool             `yaml:"dry_run"`                // If true, simulate saves
	} `yaml:"settings"`
	Import struct {
		Extensions []string `yaml:"extensions"` // Accepted image extensions, without dot
	} `yaml:"import"`
	Watch struct {
		Enabled bool `yaml:"enabled"` // Drop tracked files that vanish from disk
	} `yaml:"watch"`
	Theme struct {
		Name     string `yaml:"name"`     // Theme name (default, dark, light, etc.)
		Primary  string `yaml:"primary"`  // Primary color for titles and borders
		Success  string `yaml:"success"`  // Success message color
		Warning  string `yaml:"warning"`  // Warning message color
		Error    string `yaml:"error"`    // Error message color
		Info     string `yaml:"info"`     // Informational message color
		Emphasis string `yaml:"emphasis"` // Selected row color
		Border   string `yaml:"border"`   // Border color for panes
	} `yaml:"theme"`
	Logging struct {
		File  string `yaml:"file"`  // Log file used while the TUI runs
		Debug bool   `yaml:"debug"` // Enable debug output
		JSON  bool   `yaml:"json"`  // JSON log lines
	} `yaml:"logging"`
}

// DefaultPath returns ~/.config/imgtriage/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "imgtriage", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewConfigError("error reading config file", path, errors.ConfigNotFound, err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}

	if tempCfg.Settings.SaveAction != "" {
		cfg.Settings.SaveAction = tempCfg.Settings.SaveAction
	}
	if tempCfg.Settings.SortVariant != nil {
		cfg.Settings.SortVariant = tempCfg.Settings.SortVariant
	}
	if tempCfg.Settings.TargetDirectory != "" {
		cfg.Settings.TargetDirectory = tempCfg.Settings.TargetDirectory
	}
	if tempCfg.Settings.Collision != "" {
		cfg.Settings.Collision = tempCfg.Settings.Collision
	}
	if tempCfg.Settings.Concurrency != 0 {
		cfg.Settings.Concurrency = tempCfg.Settings.Concurrency
	}
	if tempCfg.Settings.TrashDir != "" {
		cfg.Settings.TrashDir = tempCfg.Settings.TrashDir
	}
	cfg.Settings.DryRun = tempCfg.Settings.DryRun

	if len(tempCfg.Import.Extensions) > 0 {
		cfg.Import.Extensions = tempCfg.Import.Extensions
	}

	// watch is on by default; only an explicit watch section turns it off
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err == nil {
		if _, ok := raw["watch"]; ok {
			cfg.Watch.Enabled = tempCfg.Watch.Enabled
		}
	}

	if tempCfg.Theme.Name != "" {
		cfg.ApplyTheme(tempCfg.Theme.Name)
	}
	overrideColor(&cfg.Theme.Primary, tempCfg.Theme.Primary)
	overrideColor(&cfg.Theme.Success, tempCfg.Theme.Success)
	overrideColor(&cfg.Theme.Warning, tempCfg.Theme.Warning)
	overrideColor(&cfg.Theme.Error, tempCfg.Theme.Error)
	overrideColor(&cfg.Theme.Info, tempCfg.Theme.Info)
	overrideColor(&cfg.Theme.Emphasis, tempCfg.Theme.Emphasis)
	overrideColor(&cfg.Theme.Border, tempCfg.Theme.Border)

	cfg.Logging = tempCfg.Logging

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func overrideColor(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Settings.SaveAction = types.CopyAction // Never touch the originals by default
	cfg.Settings.Collision = "skip"            // Report existing files as errors
	cfg.Settings.Concurrency = 4
	cfg.Settings.DryRun = false

	cfg.Import.Extensions = append([]string(nil), DefaultExtensions...)
	cfg.Watch.Enabled = true
	cfg.ApplyTheme("default")

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	if !c.Settings.SaveAction.Valid() {
		return errors.NewConfigError("invalid save action", string(c.Settings.SaveAction), errors.InvalidConfig, nil)
	}

	validCollisions := map[string]bool{"skip": true, "rename": true}
	if !validCollisions[c.Settings.Collision] {
		return errors.NewConfigError("invalid collision setting", c.Settings.Collision, errors.InvalidConfig, nil)
	}

	if c.Settings.Concurrency < 1 {
		return errors.NewConfigError("concurrency must be >= 1", "concurrency", errors.InvalidConfig, nil)
	}

	if sv := c.Settings.SortVariant; sv != nil {
		if sv.CreationDate == nil {
			return errors.NewConfigError("sort variant has no parameters", "sort_variant", errors.InvalidConfig, nil)
		}
		if strings.TrimSpace(sv.CreationDate.Format) == "" {
			return errors.NewConfigError("creationdate format is required", "sort_variant", errors.InvalidConfig, nil)
		}
	}

	for i, ext := range c.Import.Extensions {
		if ext == "" || strings.ContainsAny(ext, "./\\*") {
			return errors.NewConfigError(fmt.Sprintf("extension %d is invalid", i), ext, errors.InvalidConfig, nil)
		}
	}

	return nil
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Watch.Enabled = false
	cfg.Settings.Concurrency = 2
	return cfg
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "213", // Purple
			"success":  "114", // Green
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "39",  // Blue
			"emphasis": "212", // Light Pink
			"border":   "213", // Purple
		},
		"dark": {
			"primary":  "105", // Dark Blue
			"success":  "78",  // Dark Green
			"warning":  "214", // Dark Yellow
			"error":    "160", // Dark Red
			"info":     "33",  // Dark Blue
			"emphasis": "147", // Light Blue
			"border":   "105", // Dark Blue
		},
		"light": {
			"primary":  "135", // Light Purple
			"success":  "150", // Light Green
			"warning":  "222", // Light Yellow
			"error":    "210", // Light Red
			"info":     "117", // Light Blue
			"emphasis": "219", // Very Light Pink
			"border":   "135", // Light Purple
		},
		"monochrome": {
			"primary":  "245", // Light Grey
			"success":  "252", // White
			"warning":  "241", // Medium Grey
			"error":    "232", // Black
			"info":     "248", // Grey
			"emphasis": "255", // Bright White
			"border":   "245", // Light Grey
		},
		"ocean": {
			"primary":  "31",  // Teal
			"success":  "36",  // Green-Blue
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "33",  // Blue
			"emphasis": "51",  // Cyan
			"border":   "31",  // Teal
		},
		"sunset": {
			"primary":  "208", // Orange
			"success":  "154", // Green
			"warning":  "214", // Dark Yellow
			"error":    "196", // Red
			"info":     "69",  // Light Green
			"emphasis": "203", // Pink-Orange
			"border":   "208", // Orange
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ApplyTheme sets the theme in the configuration.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome", "ocean", "sunset"}
}
