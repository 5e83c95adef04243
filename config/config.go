// Package config loads rbparse settings from a YAML or TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/alexisbouchez/rbparse/parser"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RBPARSE_"

// Config holds the settings shared by every command.
type Config struct {
	// Format is the output format of trees and tokens: sexp, json or yaml.
	Format string `yaml:"format" toml:"format"`
	// MaxDepth bounds expression nesting in the parser.
	MaxDepth int `yaml:"max_depth" toml:"max_depth"`
	// Positions adds line and column to json and yaml output.
	Positions bool `yaml:"positions" toml:"positions"`
	// Color is auto, always or never.
	Color       string `yaml:"color" toml:"color"`
	LogLevel    string `yaml:"log_level" toml:"log_level"`
	Workers     int    `yaml:"workers" toml:"workers"`
	HistoryFile string `yaml:"history_file" toml:"history_file"`
}

// DefaultPaths are tried in order when no config file is named.
var DefaultPaths = []string{"./rbparse.yaml", "./rbparse.yml", "./rbparse.toml"}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the file at path, picking the decoder from its extension, then
// applies defaults and environment overrides.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q: %s", ext, path)
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve finds the config file to load: path when set, then
// $RBPARSE_CONFIG, then DefaultPaths. Without any file it returns the
// defaults with environment overrides.
func Resolve(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path == "" {
		for _, p := range DefaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path != "" {
		return Load(path)
	}

	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Format == "" {
		c.Format = "sexp"
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = parser.DefaultMaxDepth
	}
	if c.Color == "" {
		c.Color = "auto"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.HistoryFile == "" {
		c.HistoryFile = "~/.rbparse_history"
	}
}

// applyEnv overrides fields from RBPARSE_* variables.
func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"FORMAT":       &c.Format,
		"COLOR":        &c.Color,
		"LOG_LEVEL":    &c.LogLevel,
		"HISTORY_FILE": &c.HistoryFile,
	}
	for name, field := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
			*field = v
		}
	}

	ints := map[string]*int{
		"MAX_DEPTH": &c.MaxDepth,
		"WORKERS":   &c.Workers,
	}
	for name, field := range ints {
		v, ok := os.LookupEnv(EnvPrefix + name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
		}
		*field = n
	}

	if v, ok := os.LookupEnv(EnvPrefix + "POSITIONS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sPOSITIONS: %w", EnvPrefix, err)
		}
		c.Positions = b
	}
	return nil
}

// Validate reports the first setting outside its allowed values.
func (c *Config) Validate() error {
	switch c.Format {
	case "sexp", "json", "yaml":
	default:
		return fmt.Errorf("invalid format %q (want sexp, json or yaml)", c.Format)
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color %q (want auto, always or never)", c.Color)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: %w", name, err)
	}
	return level, nil
}

// HistoryPath returns HistoryFile with a leading ~ expanded.
func (c *Config) HistoryPath() string {
	path := os.ExpandEnv(c.HistoryFile)
	if rest, ok := strings.CutPrefix(path, "~"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return path
}
