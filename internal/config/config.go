// Package config handles knife tool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Knife   KnifeConfig   `yaml:"knife"`
	Logging LoggingConfig `yaml:"logging"`
}

// KnifeConfig holds cut point snapping and face splitting settings.
// Geometric tolerances are constants in the knife package.
type KnifeConfig struct {
	ReuseRadius       float64 `yaml:"reuse_radius"`        // Snap-to-earlier-point radius, in view units
	EdgeSnapDivisions int     `yaml:"edge_snap_divisions"` // Edge snapping steps per edge
	GridCoarse        int     `yaml:"grid_coarse"`         // Face grid steps per texture unit
	GridFine          int     `yaml:"grid_fine"`           // Face grid steps with the fine modifier
	MaxEdgeRetries    int     `yaml:"max_edge_retries"`    // Fill attempts per open edge
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Knife: KnifeConfig{
			ReuseRadius:       0.5,
			EdgeSnapDivisions: 4,
			GridCoarse:        1,
			GridFine:          4,
			MaxEdgeRetries:    8,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
