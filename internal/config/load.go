package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
// A nil flags value applies no overrides.
func Load(flags *Flags) (*Config, error) {
	// Start with defaults
	cfg := Default()
	if flags == nil {
		flags = &Flags{}
	}

	// Try to load from file (explicit path takes priority)
	configPath := flags.ConfigPath
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	flags.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the knife engine cannot work with.
func (c *Config) Validate() error {
	k := c.Knife
	if k.ReuseRadius < 0 {
		return fmt.Errorf("knife.reuse_radius must not be negative, got %v", k.ReuseRadius)
	}
	if k.EdgeSnapDivisions < 1 || k.GridCoarse < 1 || k.GridFine < 1 {
		return fmt.Errorf("knife snap divisions must be at least 1")
	}
	if k.MaxEdgeRetries < 1 {
		return fmt.Errorf("knife.max_edge_retries must be at least 1, got %d", k.MaxEdgeRetries)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./knife.yaml",
		filepath.Join(ConfigDir(), "knife.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "MeshKnife")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "MeshKnife")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "meshknife")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "meshknife")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
