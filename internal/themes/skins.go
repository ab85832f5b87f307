// SPDX-License-Identifier: MPL-2.0

package themes

import (
	"fmt"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hookwire/hookwire/pkg/fspath"
	"github.com/hookwire/hookwire/pkg/hook"
	"github.com/hookwire/hookwire/pkg/types"
)

// Skin is one theme partial.
type Skin struct {
	// Name is the file name without the leading underscore and extension.
	Name string
	// Path is the absolute slash path of the partial.
	Path types.FilesystemPath
}

// Skins lists the skins of l in lexical path order.
func Skins(l Layout) ([]Skin, error) {
	dir := l.abs(l.ThemesDir)
	matches, err := doublestar.Glob(os.DirFS(fspath.Native(dir)), l.skinPattern(), doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("list skins in %s: %w", dir, err)
	}
	slices.Sort(matches)

	skins := make([]Skin, 0, len(matches))
	for _, m := range matches {
		base := path.Base(m)
		name := strings.TrimPrefix(strings.TrimSuffix(base, path.Ext(base)), "_")
		skins = append(skins, Skin{Name: name, Path: types.FilesystemPath(fspath.Join(string(dir), m))})
	}
	return skins, nil
}

// SkinsHook returns the aggregation hook. Its content is one @use line per
// skin followed by a $themes map keyed by skin name.
func SkinsHook(l Layout) *hook.Hook {
	target := l.abs(l.AggregationTarget)
	return &hook.Hook{
		FilePath: target,
		Matcher:  PartialMatcher(target),
		Content: func() (string, error) {
			skins, err := Skins(l)
			if err != nil {
				return "", err
			}
			return renderSkins(fspath.Dir(target), skins), nil
		},
	}
}

func renderSkins(from types.FilesystemPath, skins []Skin) string {
	if len(skins) == 0 {
		return "$themes: ();"
	}

	var sb strings.Builder
	for _, s := range skins {
		fmt.Fprintf(&sb, "@use '%s' as %s;\n", importPath(from, s), s.Name)
	}
	sb.WriteString("\n$themes: (\n")
	for _, s := range skins {
		fmt.Fprintf(&sb, "  %q: %s.$theme,\n", s.Name, s.Name)
	}
	sb.WriteString(");")
	return sb.String()
}

// importPath returns the Sass import path of a skin relative to from, always
// starting with "./" or "../".
func importPath(from types.FilesystemPath, s Skin) string {
	dir := fspath.Rel(string(from), string(fspath.Dir(s.Path)))
	rel := fspath.Join(dir, s.Name)
	if !fspath.IsRelative(rel) {
		rel = "./" + rel
	}
	return rel
}
