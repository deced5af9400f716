// Package config provides configuration management for the leapslides CLI.
//
// It layers CLI-only settings (verbosity, output mode, watch behaviour)
// over the shared project configuration of internal/config.
package config

import (
	"time"

	sharedcfg "github.com/leapstack-labs/leapslides/internal/config"
)

// ProjectConfig is an alias for the shared project configuration.
type ProjectConfig = sharedcfg.ProjectConfig

// WatchConfig holds settings for the watch command.
type WatchConfig struct {
	// Debounce collapses bursts of file events into one rebuild.
	Debounce time.Duration `koanf:"debounce"`
}

// Config holds all CLI configuration options.
type Config struct {
	ProjectConfig `koanf:",squash"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot  string      `koanf:"-"`
	Verbose      bool        `koanf:"verbose"`
	OutputFormat string      `koanf:"output"`
	Watch        WatchConfig `koanf:"watch"`
}

// Default configuration values - project defaults live in internal/config.
const (
	DefaultOutput   = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultDebounce = 100 * time.Millisecond
)
