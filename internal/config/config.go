// Package config loads engine and viewer settings from an optional YAML
// file, with compiled-in defaults and flag overrides layered on top.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hashlife/internal/store"
)

// Config carries the tunables shared by the viewer and the benchmark
// tool.
type Config struct {
	// MaxNodes is the node store ceiling; the GC threshold derives from
	// it.
	MaxNodes int `yaml:"max_nodes"`
	// Rule is a configured rule string. Pattern loading does not read it:
	// the rule comes from the pattern header or the --rule flag.
	Rule string `yaml:"rule"`
	// Pattern is the default pattern file.
	Pattern string `yaml:"pattern"`

	// Viewer settings.
	Width       int `yaml:"width"`
	Height      int `yaml:"height"`
	LogCellSize int `yaml:"log_cell_size"`
	SPS         int `yaml:"sps"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		MaxNodes:    store.DefaultMaxNodes,
		Rule:        "B3/S23",
		Pattern:     "pattern.rle",
		Width:       1024,
		Height:      768,
		LogCellSize: 8,
		SPS:         10,
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg.validate()
}

func (c Config) validate() (Config, error) {
	if c.MaxNodes <= 0 {
		return c, fmt.Errorf("config: max_nodes must be positive, got %d", c.MaxNodes)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return c, fmt.Errorf("config: window %dx%d is not drawable", c.Width, c.Height)
	}
	if c.SPS <= 0 {
		c.SPS = Default().SPS
	}
	return c, nil
}
