// Package config defines the CLI configuration and how it is loaded.
//
// Conventions:
// - New() returns a Config with defaults; Load layers file and env on top.
// - Errors are wrapped with this package's sentinels.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Output formats accepted by output_format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile, when set, receives a JSON copy of every log record.
	LogFile string `koanf:"log_file"`

	// OutputFormat selects the report renderer: text, json or yaml.
	OutputFormat string `koanf:"output_format"`

	// Color enables styled text output.
	Color bool `koanf:"color"`

	// WorkerCount sets the number of batch workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the batch job queue.
	QueueSize int `koanf:"queue_size"`

	// WatchDebounceMS is the quiet period before a changed file is re-read.
	WatchDebounceMS int `koanf:"watch_debounce_ms"`

	// MetricsFile, when set, receives a Prometheus textfile on exit.
	MetricsFile string `koanf:"metrics_file"`

	// ShowTargetScore adds the target score to each report entry.
	ShowTargetScore bool `koanf:"show_target_score"`

	// ShowRequiredConstants adds the required-difficulty table to reports.
	ShowRequiredConstants bool `koanf:"show_required_constants"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		OutputFormat:          FormatText,
		Color:                 true,
		WorkerCount:           runtime.NumCPU(),
		QueueSize:             1024,
		WatchDebounceMS:       300,
		ShowTargetScore:       true,
		ShowRequiredConstants: true,
	}
}

// WatchDebounce returns WatchDebounceMS as a duration.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMS) * time.Millisecond
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	switch c.OutputFormat {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: output_format %q", ErrInvalidConfig, c.OutputFormat)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	if c.WatchDebounceMS < 0 {
		return fmt.Errorf("%w: watch_debounce_ms must not be negative", ErrInvalidConfig)
	}
	return nil
}
