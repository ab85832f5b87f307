// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/hookwire/hookwire/internal/config"
	"github.com/hookwire/hookwire/internal/themes"
	"github.com/hookwire/hookwire/pkg/esbuildplugin"
	"github.com/hookwire/hookwire/pkg/hook"
	"github.com/hookwire/hookwire/pkg/inject"
	"github.com/hookwire/hookwire/pkg/resolve"
	"github.com/hookwire/hookwire/pkg/types"
	"github.com/hookwire/hookwire/pkg/vid"
)

type (
	// App wires CLI services and shared dependencies. Cobra command handlers
	// receive an App reference and reach configuration and output through it.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	// project is the per-invocation state derived from flags and config.
	project struct {
		root   string
		cfg    *config.Config
		layout themes.Layout
		policy *resolve.Policy
		engine *inject.Engine
		logger *log.Logger
	}
)

// NewApp creates an App, filling nil dependencies with defaults.
func NewApp(deps Dependencies) *App {
	app := &App{Config: deps.Config, stdout: deps.Stdout, stderr: deps.Stderr}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// openProject loads the configuration for the project directory selected by
// flags and builds the injection engine over its theme hooks.
func (a *App) openProject(ctx context.Context, flags *rootFlagValues) (*project, error) {
	root, cfg, err := a.loadConfig(ctx, flags)
	if err != nil {
		return nil, err
	}

	level := cfg.Level()
	if flags.verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(a.stderr, log.Options{Prefix: config.AppName, Level: level})

	layout := layoutFromConfig(cfg, root)
	gen := vid.Generator{Root: filepath.ToSlash(root)}
	registry := hook.NewRegistry(gen, themes.Hooks(layout)...)
	policy := resolve.New(resolve.WithAliasPrefixes(cfg.AliasPrefixes...))
	engine := inject.New(registry,
		inject.WithGenerator(gen),
		inject.WithSentinel(cfg.Sentinel),
		inject.WithPolicy(policy),
		inject.WithLogger(logger),
	)

	logger.Debug("project opened", "root", root, "config", cfg.Source, "hooks", registry.Len())
	return &project{root: root, cfg: cfg, layout: layout, policy: policy, engine: engine, logger: logger}, nil
}

// loadConfig resolves the project directory and loads its configuration.
func (a *App) loadConfig(ctx context.Context, flags *rootFlagValues) (string, *config.Config, error) {
	root, err := projectRoot(flags.dir)
	if err != nil {
		return "", nil, err
	}
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath, BaseDir: root})
	if err != nil {
		return "", nil, err
	}
	return root, cfg, nil
}

// buildRequest returns the esbuild request for the configured entry points.
func (p *project) buildRequest(write bool) esbuildplugin.BuildRequest {
	outdir := p.cfg.Outdir
	if !filepath.IsAbs(outdir) {
		outdir = filepath.Join(p.root, outdir)
	}
	return esbuildplugin.BuildRequest{
		EntryPoints: p.cfg.EntryPoints,
		Outdir:      outdir,
		WorkDir:     p.root,
		Write:       write,
		Options:     []esbuildplugin.Option{esbuildplugin.WithLogger(p.logger)},
	}
}

// absPath anchors a user-supplied path at the project root, in slash form.
func (p *project) absPath(name string) string {
	if !filepath.IsAbs(name) && !vid.HasPrefix(name) {
		name = filepath.Join(p.root, name)
	}
	return filepath.ToSlash(name)
}

func projectRoot(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve project directory: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("project directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project directory %q is not a directory", root)
	}
	return root, nil
}

func layoutFromConfig(cfg *config.Config, root string) themes.Layout {
	return themes.Layout{
		Root:              root,
		ThemesDir:         types.FilesystemPath(cfg.ThemesDir),
		SkinPattern:       cfg.SkinPattern,
		AggregationTarget: types.FilesystemPath(cfg.AggregationTarget),
		VariablesTarget:   types.FilesystemPath(cfg.VariablesTarget),
		ConfigTarget:      types.FilesystemPath(cfg.ConfigTarget),
		DefaultVariables:  types.FilesystemPath(cfg.DefaultVariables),
	}
}
