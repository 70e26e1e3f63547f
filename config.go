package sile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/tailscale/hujson"

	"github.com/simonhull/sile/internal/registry"
)

// Config is the on-disk configuration, a JSON file that may contain
// comments and trailing commas:
//
//	{
//		// Siesta runs renamed by the cluster scripts
//		"aliases": {"timing": "times"},
//		"log_level": "warn",
//		"strict": false,
//	}
type Config struct {
	// Aliases maps an extra file extension to a registered one.
	Aliases map[string]string `json:"aliases"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `json:"log_level"`

	// Strict turns warnings into errors, as WithStrict.
	Strict bool `json:"strict"`

	path string
}

// LoadConfig reads and validates the configuration at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return ParseConfig(path, data)
}

// ParseConfig parses configuration text. name is used in errors only.
func ParseConfig(name string, data []byte) (*Config, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, &ConfigError{Path: name, Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(std))
	dec.DisallowUnknownFields()

	cfg := &Config{path: name}
	if err := dec.Decode(cfg); err != nil {
		return nil, &ConfigError{Path: name, Err: err}
	}
	if _, err := cfg.Level(); err != nil {
		return nil, &ConfigError{Path: name, Key: "log_level", Err: err}
	}
	return cfg, nil
}

// Level returns the configured log level, slog.LevelInfo if unset.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, err
	}
	return l, nil
}

// Apply registers the configured aliases. Aliases are applied in sorted
// order; every failing alias is reported.
func (c *Config) Apply() error {
	names := make([]string, 0, len(c.Aliases))
	for alias := range c.Aliases {
		names = append(names, alias)
	}
	slices.Sort(names)

	var errs []error
	for _, alias := range names {
		if err := registry.Alias(alias, c.Aliases[alias]); err != nil {
			errs = append(errs, &ConfigError{
				Path: c.path,
				Key:  fmt.Sprintf("aliases.%s", alias),
				Err:  err,
			})
		}
	}
	return errors.Join(errs...)
}

// Options returns the open options implied by the configuration.
func (c *Config) Options() []Option {
	var opts []Option
	if c.Strict {
		opts = append(opts, WithStrict())
	}
	return opts
}
