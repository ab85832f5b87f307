// SPDX-License-Identifier: MPL-2.0

// Package vid mints virtual module identifiers: synthetic module names a
// bundler routes to the injection engine instead of the filesystem.
//
// An identifier is either prefixed and absolute ("virtual:hookwire:/proj/a.scss")
// or unprefixed and relative to a root directory ("src/a.scss"). The prefix
// is matched case-insensitively.
package vid

import (
	"strings"

	"github.com/hookwire/hookwire/pkg/fspath"
	"github.com/hookwire/hookwire/pkg/types"
)

// Prefix marks a module specifier as a virtual identifier.
const Prefix = "virtual:hookwire:"

const (
	// AbsolutePrefixed yields Prefix + absolute slash path.
	AbsolutePrefixed Mode = iota
	// RelativeUnprefixed yields a slash path relative to the generator root.
	RelativeUnprefixed
)

type (
	// ID is a virtual module identifier.
	ID string

	// Mode selects the addressing form of a generated identifier.
	Mode int

	// Generator mints identifiers for real paths. Root anchors relative
	// input paths and RelativeUnprefixed output; empty means the process
	// working directory at call time.
	Generator struct {
		Root string
	}
)

// String returns the identifier text.
func (id ID) String() string { return string(id) }

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case AbsolutePrefixed:
		return "absolute-prefixed"
	case RelativeUnprefixed:
		return "relative-unprefixed"
	default:
		return "unknown"
	}
}

// Generate returns the identifier for p. The same p and mode always produce
// the same identifier for a given root.
func (g Generator) Generate(p types.FilesystemPath, mode Mode) ID {
	abs, err := fspath.Abs(p, g.Root)
	if err != nil {
		// Without a working directory, the slash form is still stable.
		abs = types.FilesystemPath(p.Slash())
	}

	if mode == RelativeUnprefixed {
		root := g.Root
		if root == "" {
			r, rootErr := fspath.Abs(".", "")
			if rootErr != nil {
				return ID(abs)
			}
			root = string(r)
		}
		return ID(fspath.Rel(fspath.ToSlash(root), string(abs)))
	}
	return ID(Prefix + string(abs))
}

// HasPrefix reports whether s starts with Prefix, ignoring case.
func HasPrefix(s string) bool {
	return len(s) >= len(Prefix) && strings.EqualFold(s[:len(Prefix)], Prefix)
}

// Canonical rewrites the prefix of s to its canonical case. It reports false
// when s is not a prefixed identifier.
func Canonical(s string) (ID, bool) {
	if !HasPrefix(s) {
		return "", false
	}
	return ID(Prefix + s[len(Prefix):]), true
}

// Path returns the real path an identifier names: the text after the prefix
// for prefixed identifiers, the identifier itself otherwise.
func (id ID) Path() types.FilesystemPath {
	if HasPrefix(string(id)) {
		return types.FilesystemPath(string(id)[len(Prefix):])
	}
	return types.FilesystemPath(id)
}
