// SPDX-License-Identifier: MPL-2.0

// Package resolve decides whether a module specifier names a file the
// injection engine should inspect, and if so where that file lives.
//
// Resolution is purely lexical: it never touches the network, a package
// manager, or the filesystem. Every specifier yields an Outcome; negative
// outcomes carry distinct kinds so callers can tell "the host bundler
// resolves this another way" apart from "no context to resolve this".
package resolve

import (
	"path"
	"regexp"
	"strings"

	"github.com/hookwire/hookwire/pkg/fspath"
)

const (
	// Resolved means Outcome.Path holds a normalized filesystem path.
	Resolved Kind = iota
	// ForeignScheme means the specifier is a URL with a foreign scheme
	// ("https://...", "data:...", "virtual:...").
	ForeignScheme
	// BundlerAlias means the specifier uses the host bundler's alias
	// namespace and is never a hook target.
	BundlerAlias
	// ExternalPackage means a bare package import left to the host bundler.
	ExternalPackage
	// NoImporter means a non-absolute specifier arrived without an importer
	// to anchor it.
	NoImporter
)

var (
	// schemePattern matches "scheme:" and "scheme://". Schemes are at least
	// two characters so Windows drive letters never match.
	schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]+:(.*)$`)
	// hostPortRest matches what follows the colon in "host:8080/x".
	hostPortRest = regexp.MustCompile(`^\d+(/|$)`)
)

type (
	// Kind classifies a resolution Outcome.
	Kind int

	// Outcome is the result of resolving one specifier. Path is set only
	// when Kind is Resolved.
	Outcome struct {
		Kind Kind
		Path string
	}

	// AliasPredicate reports whether a normalized specifier belongs to the
	// host bundler's alias namespace.
	AliasPredicate func(specifier string) bool

	// Policy resolves specifiers. The zero value is not usable; use New.
	Policy struct {
		isAlias AliasPredicate
	}

	// Option configures a Policy.
	Option func(*Policy)
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case Resolved:
		return "resolved"
	case ForeignScheme:
		return "foreign-scheme"
	case BundlerAlias:
		return "bundler-alias"
	case ExternalPackage:
		return "external-package"
	case NoImporter:
		return "no-importer"
	default:
		return "unknown"
	}
}

// OK reports whether the outcome is a concrete path.
func (o Outcome) OK() bool { return o.Kind == Resolved }

// DefaultAlias treats "@"-prefixed, non-relative specifiers as aliases.
func DefaultAlias(specifier string) bool {
	return strings.HasPrefix(specifier, "@") && !fspath.IsRelative(specifier)
}

// WithAliasPredicate replaces the alias rule.
func WithAliasPredicate(fn AliasPredicate) Option {
	return func(p *Policy) {
		if fn != nil {
			p.isAlias = fn
		}
	}
}

// WithAliasPrefixes treats non-relative specifiers starting with any of
// prefixes as aliases. No prefixes disables alias detection.
func WithAliasPrefixes(prefixes ...string) Option {
	cleaned := make([]string, 0, len(prefixes))
	for _, pre := range prefixes {
		if pre != "" {
			cleaned = append(cleaned, pre)
		}
	}
	return WithAliasPredicate(func(specifier string) bool {
		if fspath.IsRelative(specifier) {
			return false
		}
		for _, pre := range cleaned {
			if strings.HasPrefix(specifier, pre) {
				return true
			}
		}
		return false
	})
}

// New creates a Policy. Without options it uses DefaultAlias.
func New(opts ...Option) *Policy {
	p := &Policy{isAlias: DefaultAlias}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolve applies the default policy.
func Resolve(specifier, importer string) Outcome {
	return New().Resolve(specifier, importer)
}

// Resolve classifies specifier as seen from importer (may be empty). The
// first matching rule wins.
func (p *Policy) Resolve(specifier, importer string) Outcome {
	spec := fspath.ToSlash(specifier)

	if fspath.IsAbs(spec) {
		return Outcome{Kind: Resolved, Path: spec}
	}

	if isForeignScheme(spec) {
		return Outcome{Kind: ForeignScheme}
	}

	if p.isAlias(spec) {
		return Outcome{Kind: BundlerAlias}
	}

	relative := fspath.IsRelative(spec)
	if importer != "" && !relative {
		return Outcome{Kind: ExternalPackage}
	}

	if importer != "" {
		dir := path.Dir(fspath.ToSlash(importer))
		return Outcome{Kind: Resolved, Path: fspath.Join(dir, spec)}
	}

	return Outcome{Kind: NoImporter}
}

func isForeignScheme(spec string) bool {
	m := schemePattern.FindStringSubmatch(spec)
	if m == nil {
		return false
	}
	return !hostPortRest.MatchString(m[1])
}
