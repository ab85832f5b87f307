// SPDX-License-Identifier: MPL-2.0

package esbuildplugin

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/evanw/esbuild/pkg/api"

	"github.com/hookwire/hookwire/pkg/fspath"
	"github.com/hookwire/hookwire/pkg/inject"
	"github.com/hookwire/hookwire/pkg/types"
	"github.com/hookwire/hookwire/pkg/vid"
)

const (
	// Name is the plugin name reported in esbuild messages.
	Name = "hookwire"
	// Namespace holds every module served by the plugin.
	Namespace = "hookwire"
)

// loaders maps file extensions to esbuild loaders. Anything else, Sass
// included, is loaded as text.
var loaders = map[string]api.Loader{
	"js":   api.LoaderJS,
	"mjs":  api.LoaderJS,
	"cjs":  api.LoaderJS,
	"jsx":  api.LoaderJSX,
	"ts":   api.LoaderTS,
	"mts":  api.LoaderTS,
	"tsx":  api.LoaderTSX,
	"css":  api.LoaderCSS,
	"json": api.LoaderJSON,
}

type (
	// Plugin serves an engine's virtual modules to esbuild.
	Plugin struct {
		engine   *inject.Engine
		logger   *log.Logger
		readFile func(name string) ([]byte, error)
	}

	// Option configures a Plugin.
	Option func(*Plugin)
)

// WithLogger sets the plugin logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Plugin) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithReadFile replaces os.ReadFile for files served from disk.
func WithReadFile(fn func(name string) ([]byte, error)) Option {
	return func(p *Plugin) {
		if fn != nil {
			p.readFile = fn
		}
	}
}

// NewPlugin creates a Plugin over engine.
func NewPlugin(engine *inject.Engine, opts ...Option) *Plugin {
	p := &Plugin{
		engine:   engine,
		readFile: os.ReadFile,
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "esbuild",
			Level:  log.WarnLevel,
		}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// New returns the esbuild plugin for engine.
func New(engine *inject.Engine, opts ...Option) api.Plugin {
	return NewPlugin(engine, opts...).API()
}

// API returns the esbuild plugin value.
func (p *Plugin) API() api.Plugin {
	return api.Plugin{
		Name: Name,
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: `^(?i)virtual:hookwire:`}, p.onResolveVirtual)
			build.OnResolve(api.OnResolveOptions{Filter: `.*`}, p.onResolve)
			build.OnLoad(api.OnLoadOptions{Filter: `.*`, Namespace: Namespace}, p.onLoad)
		},
	}
}

// onResolveVirtual claims specifiers that already are virtual identifiers.
func (p *Plugin) onResolveVirtual(args api.OnResolveArgs) (api.OnResolveResult, error) {
	id, ok := vid.Canonical(args.Path)
	if !ok {
		return api.OnResolveResult{}, nil
	}
	return api.OnResolveResult{
		Path:       string(id),
		Namespace:  Namespace,
		PluginData: inject.Meta{Inject: inject.InjectMeta{Loader: id.Path().Ext()}},
	}, nil
}

// onResolve redirects specifiers that match a hook.
func (p *Plugin) onResolve(args api.OnResolveArgs) (api.OnResolveResult, error) {
	res := p.engine.Resolve(args.Path, p.importer(args.Importer))
	if res == nil {
		return api.OnResolveResult{}, nil
	}
	p.logger.Debug("resolve", "specifier", args.Path, "importer", args.Importer, "id", res.ID)
	return api.OnResolveResult{
		Path:       string(res.ID),
		Namespace:  Namespace,
		PluginData: res.Meta,
	}, nil
}

// importer turns the virtual identifier of a plain file into its real path.
// Hook identifiers are left for the engine to map back.
func (p *Plugin) importer(importer string) string {
	id, ok := vid.Canonical(importer)
	if !ok {
		return importer
	}
	if _, isHook := p.engine.Registry().Get(id); isHook {
		return importer
	}
	if realPath, ok := p.engine.RealPath(importer); ok {
		return string(realPath)
	}
	return importer
}

func (p *Plugin) onLoad(args api.OnLoadArgs) (api.OnLoadResult, error) {
	contents, realPath, err := p.Load(args.Path)
	if err != nil {
		return api.OnLoadResult{Errors: []api.Message{errorMessage(args.Path, err)}}, nil
	}
	return api.OnLoadResult{
		Contents:   &contents,
		ResolveDir: fspath.Native(fspath.Dir(realPath)),
		Loader:     LoaderFor(loaderHint(args.PluginData, realPath)),
	}, nil
}

// Load returns the contents served for a virtual identifier and the real
// file behind it. Hook identifiers go through the engine; any other
// identifier is read from disk.
func (p *Plugin) Load(id string) (string, types.FilesystemPath, error) {
	out, ok, err := p.engine.Load(id)
	if err != nil {
		return "", "", err
	}
	realPath, isVirtual := p.engine.RealPath(id)
	if !isVirtual {
		return "", "", &NotVirtualError{ID: id}
	}
	if ok {
		return out, realPath, nil
	}

	for _, candidate := range PartialCandidates(realPath) {
		data, readErr := p.readFile(fspath.Native(candidate))
		if readErr == nil {
			p.logger.Debug("served from disk", "id", id, "path", candidate)
			return string(data), candidate, nil
		}
		if !errors.Is(readErr, fs.ErrNotExist) {
			return "", candidate, readErr
		}
	}
	return "", realPath, &fs.PathError{Op: "open", Path: string(realPath), Err: fs.ErrNotExist}
}

// PartialCandidates lists the files a Sass-style specifier may name, in
// probing order: the path itself, with .scss, as a partial, and with .css.
// A path that already has an extension is only probed as is and as a
// partial.
func PartialCandidates(p types.FilesystemPath) []types.FilesystemPath {
	dir, base := path.Split(string(p))
	if base == "" {
		return []types.FilesystemPath{p}
	}
	partial := base
	if !strings.HasPrefix(base, "_") {
		partial = "_" + base
	}

	if path.Ext(base) != "" {
		return []types.FilesystemPath{p, types.FilesystemPath(dir + partial)}
	}
	return []types.FilesystemPath{
		p,
		types.FilesystemPath(dir + base + ".scss"),
		types.FilesystemPath(dir + partial + ".scss"),
		types.FilesystemPath(dir + base + ".css"),
	}
}

// LoaderFor maps an extension without its dot to an esbuild loader.
func LoaderFor(ext string) api.Loader {
	if l, ok := loaders[strings.ToLower(ext)]; ok {
		return l
	}
	return api.LoaderText
}

// loaderHint prefers the loader carried in resolve metadata and falls back
// to the served file's extension.
func loaderHint(data any, served types.FilesystemPath) string {
	switch meta := data.(type) {
	case inject.Meta:
		if meta.Inject.Loader != "" {
			return meta.Inject.Loader
		}
	case map[string]any:
		// Metadata that crossed a JSON boundary.
		raw, err := json.Marshal(meta)
		if err == nil {
			var m inject.Meta
			if json.Unmarshal(raw, &m) == nil && m.Inject.Loader != "" {
				return m.Inject.Loader
			}
		}
	}
	return served.Ext()
}

func errorMessage(id string, err error) api.Message {
	return api.Message{
		PluginName: Name,
		Text:       err.Error(),
		Location:   &api.Location{File: id, Namespace: Namespace},
		Detail:     err,
	}
}
