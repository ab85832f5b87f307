// SPDX-License-Identifier: MPL-2.0

// Package fspath provides forward-slash path operations over
// types.FilesystemPath. Module specifiers and virtual identifiers always use
// forward slashes regardless of host OS, so these helpers normalize first and
// then work with package path rather than path/filepath.
package fspath

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hookwire/hookwire/pkg/types"
)

// driveRoot matches a Windows drive root in slash form, e.g. "C:/".
var driveRoot = regexp.MustCompile(`^[A-Za-z]:/`)

// ToSlash converts backslashes to forward slashes on every OS. Specifiers
// written on Windows may reach a POSIX build host unchanged.
func ToSlash(p string) string {
	return types.FilesystemPath(p).Slash()
}

// IsAbs reports whether a slash-form path is absolute, either POSIX
// ("/x") or drive-rooted ("C:/x").
func IsAbs(p string) bool {
	return strings.HasPrefix(p, "/") || driveRoot.MatchString(p)
}

// IsRelative reports whether a slash-form specifier is explicitly relative:
// ".", "..", or starting with "./" or "../".
func IsRelative(p string) bool {
	return p == "." || p == ".." || strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../")
}

// Join joins slash-form elements and cleans the result.
func Join(elem ...string) string {
	return path.Join(elem...)
}

// Dir returns the slash-form directory of p.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(path.Dir(ToSlash(string(p))))
}

// Abs returns p as a cleaned, absolute, slash-form path. Relative paths are
// resolved against root; an empty root means the process working directory.
func Abs(p types.FilesystemPath, root string) (types.FilesystemPath, error) {
	s := ToSlash(string(p))
	if IsAbs(s) {
		return types.FilesystemPath(path.Clean(s)), nil
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving absolute path: %w", err)
		}
		root = wd
	}
	return types.FilesystemPath(path.Join(ToSlash(root), s)), nil
}

// Rel returns target relative to base, both in slash form. It falls back to
// target when no relative path exists (e.g. different Windows drives).
func Rel(base, target string) string {
	rel, err := filepath.Rel(filepath.FromSlash(base), filepath.FromSlash(target))
	if err != nil {
		return target
	}
	return ToSlash(rel)
}

// Native converts a slash-form path to the OS separator for filesystem calls.
func Native(p types.FilesystemPath) string {
	return filepath.FromSlash(string(p))
}
