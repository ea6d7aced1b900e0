package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/TrevorS/crossassoc"
)

// Config is the YAML configuration file. Command-line flags override it.
type Config struct {
	Search SearchConfig `yaml:"search"`
	Log    LogConfig    `yaml:"log"`
	Output OutputConfig `yaml:"output"`
}

// SearchConfig mirrors crossassoc.Config.
type SearchConfig struct {
	InitialClusters  []int `yaml:"initial_clusters"`
	MaxRounds        int   `yaml:"max_rounds"`
	MaxRegroupRounds int   `yaml:"max_regroup_rounds"`
	Workers          int   `yaml:"workers"`
}

// LogConfig selects the log level and format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// OutputConfig controls where and what a run writes.
type OutputConfig struct {
	// Dir is the output root. Empty means the input directory.
	Dir string `yaml:"dir"`

	// Plane selects the 2D slice to draw. Empty means the first two axes.
	Plane []int `yaml:"plane"`
}

func defaultConfig() Config {
	return Config{
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// loadConfig reads path over the defaults. An empty path yields the
// defaults. Unknown keys are rejected.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// searchConfig converts the file settings into a search configuration that
// logs to logger.
func (c SearchConfig) searchConfig(logger *slog.Logger) crossassoc.Config {
	cfg := crossassoc.DefaultConfig()
	cfg.InitialClusters = c.InitialClusters
	cfg.MaxRounds = c.MaxRounds
	cfg.MaxRegroupRounds = c.MaxRegroupRounds
	cfg.Workers = c.Workers
	cfg.Logger = logger
	return cfg
}
