package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Knife.ReuseRadius != 0.5 {
		t.Errorf("expected reuse radius 0.5, got %v", cfg.Knife.ReuseRadius)
	}
	if cfg.Knife.EdgeSnapDivisions != 4 {
		t.Errorf("expected edge snap divisions 4, got %d", cfg.Knife.EdgeSnapDivisions)
	}
	if cfg.Knife.GridCoarse != 1 || cfg.Knife.GridFine != 4 {
		t.Errorf("expected grid 1/4, got %d/%d", cfg.Knife.GridCoarse, cfg.Knife.GridFine)
	}
	if cfg.Knife.MaxEdgeRetries != 8 {
		t.Errorf("expected max edge retries 8, got %d", cfg.Knife.MaxEdgeRetries)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "knife.yaml")

	yamlContent := `
knife:
  reuse_radius: 0.25
  edge_snap_divisions: 8
  grid_fine: 16
  max_edge_retries: 3

logging:
  level: "debug"
  log_file: "knife.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Knife.ReuseRadius != 0.25 {
		t.Errorf("expected reuse radius 0.25, got %v", cfg.Knife.ReuseRadius)
	}
	if cfg.Knife.EdgeSnapDivisions != 8 {
		t.Errorf("expected edge snap divisions 8, got %d", cfg.Knife.EdgeSnapDivisions)
	}
	if cfg.Knife.GridCoarse != 1 {
		t.Errorf("expected untouched grid_coarse 1, got %d", cfg.Knife.GridCoarse)
	}
	if cfg.Knife.GridFine != 16 {
		t.Errorf("expected grid_fine 16, got %d", cfg.Knife.GridFine)
	}
	if cfg.Knife.MaxEdgeRetries != 3 {
		t.Errorf("expected max edge retries 3, got %d", cfg.Knife.MaxEdgeRetries)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "knife.log" {
		t.Errorf("expected log file 'knife.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
knife:
  reuse_radius: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/knife.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "knife.yaml")
	if err := os.WriteFile(configPath, []byte("knife:\n  reuse_radius: 1\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find knife.yaml in current directory")
	}
}

func TestFlagsApply(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug flag",
			args: []string{"--debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "log file flag",
			args: []string{"--log-file", "/tmp/knife.log"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.LogFile != "/tmp/knife.log" {
					t.Errorf("expected log file override, got %s", cfg.Logging.LogFile)
				}
			},
		},
		{
			name: "knife overrides",
			args: []string{"--reuse-radius", "2", "--max-retries", "20"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Knife.ReuseRadius != 2 {
					t.Errorf("expected reuse radius 2, got %v", cfg.Knife.ReuseRadius)
				}
				if cfg.Knife.MaxEdgeRetries != 20 {
					t.Errorf("expected max retries 20, got %d", cfg.Knife.MaxEdgeRetries)
				}
			},
		},
		{
			name: "no flags keeps defaults",
			args: nil,
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Knife.ReuseRadius != 0.5 {
					t.Errorf("expected default reuse radius, got %v", cfg.Knife.ReuseRadius)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var flags Flags
			fs := pflag.NewFlagSet(tt.name, pflag.ContinueOnError)
			flags.Bind(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("parse flags: %v", err)
			}

			cfg := Default()
			flags.apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "knife.yaml")

	yamlContent := `
knife:
  reuse_radius: 0.75
  max_edge_retries: 4
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(&Flags{ConfigPath: configPath, MaxRetries: 12})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Retries from flag, radius from file
	if cfg.Knife.MaxEdgeRetries != 12 {
		t.Errorf("expected max retries 12 from flag, got %d", cfg.Knife.MaxEdgeRetries)
	}
	if cfg.Knife.ReuseRadius != 0.75 {
		t.Errorf("expected reuse radius 0.75 from file, got %v", cfg.Knife.ReuseRadius)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "knife.yaml")
	if err := os.WriteFile(configPath, []byte("knife:\n  edge_snap_divisions: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(&Flags{ConfigPath: configPath}); err == nil {
		t.Error("expected validation error for zero snap divisions")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "knife.yaml")
	cfg := Default()
	cfg.Knife.GridFine = 32

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Knife.GridFine != 32 {
		t.Errorf("expected grid_fine 32 after round trip, got %d", loaded.Knife.GridFine)
	}
}
