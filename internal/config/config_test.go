// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hookwire/hookwire/internal/issue"
	"github.com/hookwire/hookwire/internal/testutil"
	"github.com/hookwire/hookwire/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func load(t *testing.T, opts LoadOptions) (*Config, error) {
	t.Helper()
	return NewProvider().Load(context.Background(), opts)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	cfg, err := load(t, LoadOptions{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty", cfg.Source)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, DefaultConfig())
	}
}

func TestLoad_CUEFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "hookwire.cue", `
themes_dir: "styles/skins"
sentinel:   "generate-global-css-vars.ts"
entry_points: ["web/main.ts", "web/admin.ts"]
watch: {
	debounce:     "1.5s"
	clear_screen: true
}
`)

	cfg, err := load(t, LoadOptions{BaseDir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
	if cfg.ThemesDir != "styles/skins" || cfg.Sentinel != "generate-global-css-vars.ts" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if !slices.Equal(cfg.EntryPoints, []string{"web/main.ts", "web/admin.ts"}) {
		t.Errorf("EntryPoints = %v", cfg.EntryPoints)
	}
	if cfg.Watch.Debounce != 1500*time.Millisecond || !cfg.Watch.ClearScreen {
		t.Errorf("Watch = %+v", cfg.Watch)
	}
	// Untouched fields keep their defaults.
	if cfg.Outdir != "dist" || cfg.SkinPattern != "_*.scss" {
		t.Errorf("defaults lost: outdir=%q skin_pattern=%q", cfg.Outdir, cfg.SkinPattern)
	}
}

func TestLoad_TOMLFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "hookwire.toml", `
outdir = "public/build"
alias_prefixes = ["@", "~"]
log_level = "debug"

[watch]
patterns = ["src/**/*.scss"]
debounce = "50ms"
`)

	cfg, err := load(t, LoadOptions{BaseDir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Outdir != "public/build" || cfg.Level() != log.DebugLevel {
		t.Errorf("Load() = %+v", cfg)
	}
	if !slices.Equal(cfg.AliasPrefixes, []string{"@", "~"}) {
		t.Errorf("AliasPrefixes = %v", cfg.AliasPrefixes)
	}
	if !slices.Equal(cfg.Watch.Patterns, []string{"src/**/*.scss"}) || cfg.Watch.Debounce != 50*time.Millisecond {
		t.Errorf("Watch = %+v", cfg.Watch)
	}
}

func TestLoad_CUEPreferredOverTOML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "hookwire.toml", `outdir = "from-toml"`)
	writeFile(t, dir, "hookwire.cue", `outdir: "from-cue"`)

	cfg, err := load(t, LoadOptions{BaseDir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Outdir != "from-cue" {
		t.Errorf("Outdir = %q, want %q", cfg.Outdir, "from-cue")
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "custom.toml", `sentinel = "inject-here"`)
	writeFile(t, dir, "hookwire.cue", `sentinel: "ignored"`)

	cfg, err := load(t, LoadOptions{ConfigFilePath: path, BaseDir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Sentinel != "inject-here" {
		t.Errorf("Sentinel = %q, want %q", cfg.Sentinel, "inject-here")
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		file     string
		content  string
		contains string
	}{
		{"unknown field", "hookwire.cue", `outdirr: "x"`, "outdirr"},
		{"bad log level", "hookwire.cue", `log_level: "loud"`, "log_level"},
		{"bad debounce", "hookwire.cue", `watch: debounce: "soon"`, "watch.debounce"},
		{"empty entry point", "hookwire.cue", `entry_points: [""]`, "entry_points"},
		{"cue syntax", "hookwire.cue", `outdir: `, "hookwire.cue"},
		{"toml syntax", "hookwire.toml", "outdir = \n", "toml"},
		{"toml schema", "hookwire.toml", `sentinel = 3`, "sentinel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			_, err := load(t, LoadOptions{BaseDir: dir})
			if err == nil {
				t.Fatal("Load() should fail")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("error should be *issue.ActionableError, got %T", err)
			}
			if !ae.HasSuggestions() {
				t.Error("error should carry suggestions")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error = %v, want it to mention %q", err, tt.contains)
			}
		})
	}
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	t.Parallel()

	_, err := load(t, LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue")})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want fs.ErrNotExist", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "hookwire.cue", `outdir: "from-file"`)

	defer testutil.MustSetenv(t, "HOOKWIRE_OUTDIR", "from-env")()
	defer testutil.MustSetenv(t, "HOOKWIRE_WATCH_DEBOUNCE", "2s")()

	cfg, err := load(t, LoadOptions{BaseDir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Outdir != "from-env" {
		t.Errorf("Outdir = %q, want %q", cfg.Outdir, "from-env")
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("Debounce = %s, want 2s", cfg.Watch.Debounce)
	}
}

func TestLoad_EnvEmptySentinelRejected(t *testing.T) {
	defer testutil.MustSetenv(t, "HOOKWIRE_SENTINEL", " ")()

	_, err := load(t, LoadOptions{BaseDir: t.TempDir()})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, err := WriteDefault(dir, false)
	if err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	cfg, err := load(t, LoadOptions{BaseDir: dir})
	if err != nil {
		t.Fatalf("Load() of generated file error = %v", err)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
	cfg.Source = ""
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("generated file does not round-trip:\n got %+v\nwant %+v", cfg, DefaultConfig())
	}

	if _, err := WriteDefault(dir, false); !errors.Is(err, ErrConfigExists) {
		t.Errorf("second WriteDefault() error = %v, want ErrConfigExists", err)
	}
	if _, err := WriteDefault(dir, true); err != nil {
		t.Errorf("WriteDefault(force) error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should be valid: %v", err)
	}

	cfg.Sentinel = ""
	cfg.Outdir = "  "
	cfg.LogLevel = "chatty"
	cfg.Watch.Debounce = -time.Second
	cfg.ThemesDir = ""

	err := cfg.Validate()
	var invalid *InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v, want *InvalidConfigError", err)
	}
	if len(invalid.FieldErrors) != 5 {
		t.Errorf("got %d field errors, want 5: %v", len(invalid.FieldErrors), invalid.FieldErrors)
	}
	if !errors.Is(invalid.FieldErrors[1], types.ErrInvalidFilesystemPath) {
		t.Errorf("themes_dir error = %v, want ErrInvalidFilesystemPath", invalid.FieldErrors[1])
	}
	if cfg.Level() != log.WarnLevel {
		t.Errorf("Level() = %v, want warn fallback", cfg.Level())
	}
}

func TestGenerateCUE(t *testing.T) {
	t.Parallel()

	out := GenerateCUE(DefaultConfig())
	for _, want := range []string{
		`sentinel:           "hookwire"`,
		`alias_prefixes:     ["@"]`,
		`debounce:     "300ms"`,
		"watch: {",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("GenerateCUE() missing %q:\n%s", want, out)
		}
	}
}
