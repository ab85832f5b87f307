// SPDX-License-Identifier: MPL-2.0

package themes

import (
	"path"
	"strings"

	"github.com/hookwire/hookwire/pkg/fspath"
	"github.com/hookwire/hookwire/pkg/hook"
	"github.com/hookwire/hookwire/pkg/types"
)

// DefaultSkinPattern selects skin partials inside the themes directory.
const DefaultSkinPattern = "_*.scss"

// Layout locates the theme files of a project. Relative paths are resolved
// against Root; an empty Root means the working directory.
type Layout struct {
	Root string
	// ThemesDir holds one partial per skin.
	ThemesDir types.FilesystemPath
	// SkinPattern is a doublestar glob relative to ThemesDir.
	SkinPattern string
	// AggregationTarget receives the @use lines and the $themes map.
	AggregationTarget types.FilesystemPath
	// VariablesTarget receives the $var-ids map.
	VariablesTarget types.FilesystemPath
	// ConfigTarget is the module whose imports redirect to VariablesTarget.
	// Empty means VariablesTarget itself.
	ConfigTarget types.FilesystemPath
	// DefaultVariables is scanned for variable names before the skins.
	// Empty skips it.
	DefaultVariables types.FilesystemPath
}

// DefaultLayout returns the conventional layout rooted at root.
func DefaultLayout(root string) Layout {
	return Layout{
		Root:              root,
		ThemesDir:         "src/scss/themes",
		SkinPattern:       DefaultSkinPattern,
		AggregationTarget: "src/scss/_themes.scss",
		VariablesTarget:   "src/scss/global/_variables.scss",
		ConfigTarget:      "src/scss/_config.scss",
		DefaultVariables:  "src/scss/global/_default-vars.scss",
	}
}

// abs resolves p against the layout root. Paths that cannot be resolved are
// returned in slash form.
func (l Layout) abs(p types.FilesystemPath) types.FilesystemPath {
	a, err := fspath.Abs(p, l.Root)
	if err != nil {
		return types.FilesystemPath(p.Slash())
	}
	return a
}

func (l Layout) skinPattern() string {
	if l.SkinPattern == "" {
		return DefaultSkinPattern
	}
	return l.SkinPattern
}

func (l Layout) configTarget() types.FilesystemPath {
	if l.ConfigTarget == "" {
		return l.VariablesTarget
	}
	return l.ConfigTarget
}

// PartialMatcher matches resolved paths that Sass would load as target: the
// same directory and the same name with or without the leading underscore
// and the .scss extension.
func PartialMatcher(target types.FilesystemPath) hook.PredicateMatcher {
	dir, base := path.Split(target.Slash())
	name := strings.TrimPrefix(strings.TrimSuffix(base, ".scss"), "_")
	accepted := map[string]bool{
		name:                 true,
		"_" + name:           true,
		name + ".scss":       true,
		"_" + name + ".scss": true,
	}
	return hook.Predicate(func(p string) bool {
		pdir, pbase := path.Split(p)
		return pdir == dir && accepted[pbase]
	})
}
