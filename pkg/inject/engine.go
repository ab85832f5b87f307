// SPDX-License-Identifier: MPL-2.0

package inject

import (
	"fmt"
	"os"
	"regexp"

	"github.com/charmbracelet/log"

	"github.com/hookwire/hookwire/pkg/fspath"
	"github.com/hookwire/hookwire/pkg/hook"
	"github.com/hookwire/hookwire/pkg/resolve"
	"github.com/hookwire/hookwire/pkg/types"
	"github.com/hookwire/hookwire/pkg/vid"
)

// DefaultSentinel is the marker token looked for when none is configured.
const DefaultSentinel = "hookwire"

// relativeImport matches @use/@import of a "./" or "../" path in either
// quote style. Group 1 is the keyword, 2 the whitespace, 3 or 4 the path.
var relativeImport = regexp.MustCompile(`(@use|@import)(\s+)(?:'(\.\.?/[^'\n]*)'|"(\.\.?/[^"\n]*)")`)

type (
	// Engine resolves and loads virtual modules for registered hooks.
	Engine struct {
		registry *hook.Registry
		policy   *resolve.Policy
		gen      vid.Generator
		sentinel string
		readFile func(name string) ([]byte, error)
		logger   *log.Logger
	}

	// Option configures an Engine.
	Option func(*Engine)

	// Resolution is a successful redirect to a virtual module.
	Resolution struct {
		ID   vid.ID
		Meta Meta
	}

	// Meta is side-channel data attached to a resolution for later build
	// stages.
	Meta struct {
		Inject InjectMeta `json:"inject"`
	}

	// InjectMeta names the loader for the injected file, taken from the real
	// file's extension without its dot (e.g. "scss").
	InjectMeta struct {
		Loader string `json:"loader"`
	}

	// LoadError reports a hook file that could not be served. It is fatal to
	// the build.
	LoadError struct {
		ID   vid.ID
		Path types.FilesystemPath
		Err  error
	}
)

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s (%s): %v", e.ID, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error { return e.Err }

// WithLogger sets the logger. Load logs spliced output at debug level.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithPolicy replaces the default resolution policy.
func WithPolicy(p *resolve.Policy) Option {
	return func(e *Engine) {
		if p != nil {
			e.policy = p
		}
	}
}

// WithGenerator sets the identifier generator. It must match the generator
// used to build the registry.
func WithGenerator(g vid.Generator) Option {
	return func(e *Engine) {
		e.gen = g
	}
}

// WithSentinel sets the marker token. Empty keeps DefaultSentinel.
func WithSentinel(s string) Option {
	return func(e *Engine) {
		if s != "" {
			e.sentinel = s
		}
	}
}

// WithReadFile replaces os.ReadFile for reading hook files.
func WithReadFile(fn func(name string) ([]byte, error)) Option {
	return func(e *Engine) {
		if fn != nil {
			e.readFile = fn
		}
	}
}

// New creates an Engine over registry.
func New(registry *hook.Registry, opts ...Option) *Engine {
	if registry == nil {
		registry = hook.NewRegistry(vid.Generator{})
	}
	e := &Engine{
		registry: registry,
		policy:   resolve.New(),
		sentinel: DefaultSentinel,
		readFile: os.ReadFile,
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "inject",
			Level:  log.WarnLevel,
		}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the engine's hook registry.
func (e *Engine) Registry() *hook.Registry { return e.registry }

// Sentinel returns the marker token in use.
func (e *Engine) Sentinel() string { return e.sentinel }

// Generator returns the identifier generator in use.
func (e *Engine) Generator() vid.Generator { return e.gen }

// IsVirtual reports whether id carries the virtual identifier prefix.
func (e *Engine) IsVirtual(id string) bool { return vid.HasPrefix(id) }

// RealPath returns the real file a virtual identifier names, made absolute
// against the generator root. It reports false for non-virtual ids.
func (e *Engine) RealPath(id string) (types.FilesystemPath, bool) {
	canon, ok := vid.Canonical(id)
	if !ok {
		return "", false
	}
	p, err := fspath.Abs(canon.Path(), e.gen.Root)
	if err != nil {
		return canon.Path(), true
	}
	return p, true
}

// Resolve returns the virtual module specifier redirects to, or nil to let
// the host bundler resolve it. Resolve never fails.
func (e *Engine) Resolve(specifier, importer string) *Resolution {
	effective := e.realImporter(importer)

	outcome := e.policy.Resolve(specifier, effective)
	if !outcome.OK() {
		e.logger.Debug("defer to host", "specifier", specifier, "importer", effective, "outcome", outcome.Kind)
		return nil
	}

	for id, h := range e.registry.All() {
		matched, err := h.Matches(outcome.Path)
		if err != nil {
			e.logger.Warn("skipping hook matcher", "hook", id, "err", err)
			continue
		}
		if !matched {
			continue
		}
		target := e.gen.Generate(h.FilePath, vid.AbsolutePrefixed)
		e.logger.Debug("redirect", "specifier", specifier, "path", outcome.Path, "id", target)
		return &Resolution{
			ID:   target,
			Meta: Meta{Inject: InjectMeta{Loader: h.FilePath.Ext()}},
		}
	}
	return nil
}

// realImporter maps an importer that is one of this engine's hook
// identifiers back to the hook's real file. Other importers pass through.
func (e *Engine) realImporter(importer string) string {
	canon, ok := vid.Canonical(importer)
	if !ok {
		return importer
	}
	for _, h := range e.registry.All() {
		if e.gen.Generate(h.FilePath, vid.AbsolutePrefixed) == canon {
			return string(canon.Path())
		}
	}
	return importer
}

// Load serves the hook registered under id. It reports false when id is not
// a virtual identifier or names no registered hook. Read and content errors
// are returned as *LoadError.
func (e *Engine) Load(id string) (string, bool, error) {
	canon, ok := vid.Canonical(id)
	if !ok {
		return "", false, nil
	}
	h, ok := e.registry.Get(canon)
	if !ok {
		return "", false, nil
	}

	realPath, err := fspath.Abs(h.FilePath, e.gen.Root)
	if err != nil {
		return "", true, &LoadError{ID: canon, Path: h.FilePath, Err: err}
	}

	data, err := e.readFile(fspath.Native(realPath))
	if err != nil {
		return "", true, &LoadError{ID: canon, Path: realPath, Err: err}
	}

	content := h.Content
	if content == nil {
		content = func() (string, error) { return "", nil }
	}

	out, found, err := splice(string(data), commentSyntaxFor(h.FilePath.Ext()), e.sentinel, content)
	if err != nil {
		return "", true, &LoadError{ID: canon, Path: realPath, Err: fmt.Errorf("generate content: %w", err)}
	}
	if !found {
		e.logger.Debug("no injection marker", "path", realPath, "sentinel", e.sentinel)
	}

	out = e.rewriteImports(out, string(realPath))

	e.logger.Debug("loaded", "path", realPath, "content", out)
	return out, true, nil
}

// rewriteImports points relative @use/@import statements at virtual
// identifiers, resolving against the real file. Statements that do not
// resolve are left as they are.
func (e *Engine) rewriteImports(text, realPath string) string {
	return relativeImport.ReplaceAllStringFunc(text, func(stmt string) string {
		m := relativeImport.FindStringSubmatch(stmt)
		keyword, space := m[1], m[2]
		spec, quote := m[3], "'"
		if spec == "" {
			spec, quote = m[4], `"`
		}

		outcome := e.policy.Resolve(spec, realPath)
		if !outcome.OK() {
			return stmt
		}
		target := e.gen.Generate(types.FilesystemPath(outcome.Path), vid.AbsolutePrefixed)
		return keyword + space + quote + string(target) + quote
	})
}
