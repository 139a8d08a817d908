package config

import "github.com/spf13/pflag"

// Flags holds command-line overrides. Zero values mean "not set".
type Flags struct {
	ConfigPath  string
	Debug       bool
	LogFile     string
	ReuseRadius float64
	MaxRetries  int
}

// Bind registers the flags on fs, typically a cobra command's persistent
// flag set.
func (f *Flags) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "Write logs to this file")
	fs.Float64Var(&f.ReuseRadius, "reuse-radius", 0, "Radius for snapping to earlier cut points")
	fs.IntVar(&f.MaxRetries, "max-retries", 0, "Fill attempts per open edge when splitting faces")
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.ReuseRadius > 0 {
		cfg.Knife.ReuseRadius = f.ReuseRadius
	}
	if f.MaxRetries > 0 {
		cfg.Knife.MaxEdgeRetries = f.MaxRetries
	}
}
