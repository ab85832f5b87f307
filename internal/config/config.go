// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/hookwire/hookwire/internal/issue"
	"github.com/hookwire/hookwire/pkg/cueutil"
)

const (
	// AppName is the application name and environment variable prefix.
	AppName = "hookwire"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "hookwire"
	// ExtCUE is the primary config file extension.
	ExtCUE = "cue"
	// ExtTOML is the alternative config file extension.
	ExtTOML = "toml"
)

//go:embed config_schema.cue
var configSchema []byte

// ErrConfigExists is returned by WriteDefault when the file is present.
var ErrConfigExists = errors.New("config file already exists")

// loadWithOptions reads defaults, then the first config file found, then
// environment overrides.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load config canceled: %w", err)
	}

	v := newViper()

	path, err := locate(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := mergeFile(v, path); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check the file against the schema shown by 'hookwire config show'").
				WithSuggestion("Run 'hookwire explain config' for the list of fields").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Source = path

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check HOOKWIRE_* environment variables for empty or malformed values").
			Wrap(err).
			BuildError()
	}
	return &cfg, nil
}

// newViper returns a Viper instance seeded with defaults and bound to
// HOOKWIRE_* environment variables.
func newViper() *viper.Viper {
	v := viper.New()
	d := DefaultConfig()
	v.SetDefault("themes_dir", d.ThemesDir)
	v.SetDefault("skin_pattern", d.SkinPattern)
	v.SetDefault("aggregation_target", d.AggregationTarget)
	v.SetDefault("variables_target", d.VariablesTarget)
	v.SetDefault("config_target", d.ConfigTarget)
	v.SetDefault("default_variables", d.DefaultVariables)
	v.SetDefault("sentinel", d.Sentinel)
	v.SetDefault("alias_prefixes", d.AliasPrefixes)
	v.SetDefault("entry_points", d.EntryPoints)
	v.SetDefault("outdir", d.Outdir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("watch.patterns", d.Watch.Patterns)
	v.SetDefault("watch.ignore", d.Watch.Ignore)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("watch.clear_screen", d.Watch.ClearScreen)

	v.SetEnvPrefix(AppName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// locate returns the config file to read, or "" for defaults only. An
// explicit path must exist.
func locate(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'hookwire init' to create a default hookwire.cue").
				Wrap(fmt.Errorf("config file not found: %w", fs.ErrNotExist)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	for _, ext := range []string{ExtCUE, ExtTOML} {
		candidate := filepath.Join(opts.BaseDir, ConfigFileName+"."+ext)
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

// mergeFile validates a config file against #Config and merges it into v.
func mergeFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), "."+ExtTOML) {
		if data, err = tomlToJSON(data); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	res, err := cueutil.Decode[map[string]any](configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*res.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// tomlToJSON re-encodes a TOML document as JSON, which CUE reads natively,
// so both formats share one schema.
func tomlToJSON(data []byte) ([]byte, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("toml: line %d, column %d: %w", row, col, err)
		}
		return nil, fmt.Errorf("toml: %w", err)
	}
	return json.Marshal(doc)
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteDefault writes the default configuration as hookwire.cue into dir
// and returns its path. It fails with ErrConfigExists unless force is set.
func WriteDefault(dir string, force bool) (string, error) {
	path := filepath.Join(dir, ConfigFileName+"."+ExtCUE)
	if !force && fileExists(path) {
		return path, fmt.Errorf("%s: %w", path, ErrConfigExists)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return path, fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// GenerateCUE renders cfg as a hookwire.cue document.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// hookwire project configuration.\n")
	sb.WriteString("// Run 'hookwire explain config' for field documentation.\n\n")

	fmt.Fprintf(&sb, "themes_dir:         %q\n", cfg.ThemesDir)
	fmt.Fprintf(&sb, "skin_pattern:       %q\n", cfg.SkinPattern)
	fmt.Fprintf(&sb, "aggregation_target: %q\n", cfg.AggregationTarget)
	fmt.Fprintf(&sb, "variables_target:   %q\n", cfg.VariablesTarget)
	fmt.Fprintf(&sb, "config_target:      %q\n", cfg.ConfigTarget)
	fmt.Fprintf(&sb, "default_variables:  %q\n", cfg.DefaultVariables)
	fmt.Fprintf(&sb, "sentinel:           %q\n", cfg.Sentinel)
	fmt.Fprintf(&sb, "alias_prefixes:     %s\n", cueList(cfg.AliasPrefixes))
	fmt.Fprintf(&sb, "entry_points:       %s\n", cueList(cfg.EntryPoints))
	fmt.Fprintf(&sb, "outdir:             %q\n", cfg.Outdir)
	fmt.Fprintf(&sb, "log_level:          %q\n", cfg.LogLevel)

	sb.WriteString("\nwatch: {\n")
	fmt.Fprintf(&sb, "\tpatterns:     %s\n", cueList(cfg.Watch.Patterns))
	fmt.Fprintf(&sb, "\tignore:       %s\n", cueList(cfg.Watch.Ignore))
	fmt.Fprintf(&sb, "\tdebounce:     %q\n", cfg.Watch.Debounce.String())
	fmt.Fprintf(&sb, "\tclear_screen: %v\n", cfg.Watch.ClearScreen)
	sb.WriteString("}\n")

	return sb.String()
}

func cueList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
