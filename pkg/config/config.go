// Package config loads the optional hookscope.yaml runtime configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	hookerrors "github.com/go-drift/hookscope/pkg/errors"
)

// FileName is the configuration file looked up by LoadOptional.
const FileName = "hookscope.yaml"

// DefaultMaxRestarts bounds render-phase restarts within one render request.
const DefaultMaxRestarts = 25

// SupportedMajor is the configuration schema major version this build reads.
const SupportedMajor = "v1"

// Config represents the hookscope.yaml configuration.
type Config struct {
	Version string       `yaml:"version,omitempty"`
	Render  RenderConfig `yaml:"render"`
	Log     LogConfig    `yaml:"log"`
}

// RenderConfig controls the render-restart controller.
type RenderConfig struct {
	// MaxRestarts bounds render-phase restarts per render request. Zero
	// makes any render-phase update fail the render.
	MaxRestarts int `yaml:"max_restarts"`
}

// LogConfig controls error and event logging.
type LogConfig struct {
	Level   string `yaml:"level,omitempty"`
	Verbose bool   `yaml:"verbose,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version: SupportedMajor + ".0.0",
		Render:  RenderConfig{MaxRestarts: DefaultMaxRestarts},
		Log:     LogConfig{Level: "info"},
	}
}

// LoadOptional reads hookscope.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	return Parse(data)
}

// Parse decodes yaml data over the defaults and validates the result.
// Keys absent from data keep their default; an explicit render.max_restarts
// of 0 is honored and disables render-phase restarts.
func Parse(data []byte) (*Config, error) {
	cfg := *Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	c.Version = strings.TrimSpace(c.Version)
	if c.Version == "" {
		c.Version = def.Version
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// Validate checks the version gate and value ranges.
func (c *Config) Validate() error {
	v := c.Version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("version %q is not a valid semantic version", c.Version)
	}
	if major := semver.Major(v); major != SupportedMajor {
		return fmt.Errorf("unsupported config version %s (this build reads %s)", c.Version, SupportedMajor)
	}
	if c.Render.MaxRestarts < 0 {
		return fmt.Errorf("render.max_restarts must be non-negative (got %d)", c.Render.MaxRestarts)
	}
	if _, ok := levels[c.Log.Level]; !ok {
		return fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	if lvl, ok := levels[c.Log.Level]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// NewLogger returns a text logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.SlogLevel()}))
}

// ErrorHandler returns a LogHandler for errors.SetHandler that writes to w at
// the configured level, with stack traces when log.verbose is set.
func (c *Config) ErrorHandler(w io.Writer) *hookerrors.LogHandler {
	return &hookerrors.LogHandler{Verbose: c.Log.Verbose, Logger: c.NewLogger(w)}
}
