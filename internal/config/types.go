// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hookwire/hookwire/pkg/types"
)

// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// Config holds the project configuration.
	Config struct {
		// ThemesDir holds one Sass partial per skin.
		ThemesDir string `json:"themes_dir" mapstructure:"themes_dir" toml:"themes_dir"`
		// SkinPattern selects skins inside ThemesDir (doublestar glob).
		SkinPattern string `json:"skin_pattern" mapstructure:"skin_pattern" toml:"skin_pattern"`
		// AggregationTarget receives the @use lines and the $themes map.
		AggregationTarget string `json:"aggregation_target" mapstructure:"aggregation_target" toml:"aggregation_target"`
		// VariablesTarget receives the variable identifier map.
		VariablesTarget string `json:"variables_target" mapstructure:"variables_target" toml:"variables_target"`
		// ConfigTarget is the module whose imports redirect to VariablesTarget.
		ConfigTarget string `json:"config_target" mapstructure:"config_target" toml:"config_target"`
		// DefaultVariables is scanned for variable names before the skins.
		DefaultVariables string `json:"default_variables" mapstructure:"default_variables" toml:"default_variables"`
		// Sentinel is the injection marker token.
		Sentinel string `json:"sentinel" mapstructure:"sentinel" toml:"sentinel"`
		// AliasPrefixes mark specifiers the bundler resolves through aliases.
		AliasPrefixes []string `json:"alias_prefixes" mapstructure:"alias_prefixes" toml:"alias_prefixes"`
		// EntryPoints are the bundle entry files.
		EntryPoints []string `json:"entry_points" mapstructure:"entry_points" toml:"entry_points"`
		// Outdir receives build output.
		Outdir string `json:"outdir" mapstructure:"outdir" toml:"outdir"`
		// LogLevel is one of debug, info, warn, error.
		LogLevel string `json:"log_level" mapstructure:"log_level" toml:"log_level"`
		// Watch configures watch mode.
		Watch WatchConfig `json:"watch" mapstructure:"watch" toml:"watch"`

		// Source is the file the configuration was read from, empty for
		// defaults.
		Source string `json:"-" mapstructure:"-" toml:"-"`
	}

	// WatchConfig configures watch mode rebuilds.
	WatchConfig struct {
		Patterns    []string      `json:"patterns" mapstructure:"patterns" toml:"patterns"`
		Ignore      []string      `json:"ignore" mapstructure:"ignore" toml:"ignore"`
		Debounce    time.Duration `json:"debounce" mapstructure:"debounce" toml:"debounce"`
		ClearScreen bool          `json:"clear_screen" mapstructure:"clear_screen" toml:"clear_screen"`
	}

	// InvalidConfigError collects field-level validation failures. It wraps
	// ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		ThemesDir:         "src/scss/themes",
		SkinPattern:       "_*.scss",
		AggregationTarget: "src/scss/_themes.scss",
		VariablesTarget:   "src/scss/global/_variables.scss",
		ConfigTarget:      "src/scss/_config.scss",
		DefaultVariables:  "src/scss/global/_default-vars.scss",
		Sentinel:          "hookwire",
		AliasPrefixes:     []string{"@"},
		EntryPoints:       []string{"src/index.ts"},
		Outdir:            "dist",
		LogLevel:          "warn",
		Watch: WatchConfig{
			Patterns: []string{"**/*.scss", "**/*.css", "**/*.ts", "**/*.js"},
			Ignore:   []string{"dist/**"},
			Debounce: 300 * time.Millisecond,
		},
	}
}

// Validate checks constraints the schema cannot express after environment
// overrides are applied.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Sentinel) == "" {
		errs = append(errs, errors.New("sentinel must not be empty"))
	}
	for _, f := range []struct {
		name string
		path string
	}{
		{"themes_dir", c.ThemesDir},
		{"aggregation_target", c.AggregationTarget},
		{"variables_target", c.VariablesTarget},
	} {
		if err := types.FilesystemPath(f.path).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.name, err))
		}
	}
	if strings.TrimSpace(c.Outdir) == "" {
		errs = append(errs, errors.New("outdir must not be empty"))
	}
	for i, e := range c.EntryPoints {
		if strings.TrimSpace(e) == "" {
			errs = append(errs, fmt.Errorf("entry_points[%d] must not be empty", i))
		}
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Level returns the parsed log level, falling back to warn.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}
