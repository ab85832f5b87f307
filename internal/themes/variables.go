// SPDX-License-Identifier: MPL-2.0

package themes

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/hookwire/hookwire/pkg/fspath"
	"github.com/hookwire/hookwire/pkg/hook"
	"github.com/hookwire/hookwire/pkg/types"
)

// quotedKey matches a quoted map key directly followed by a colon.
var quotedKey = regexp.MustCompile(`"([^"\n]+)":|'([^'\n]+)':`)

// Variables scans the default variables file and then every skin, minting an
// identifier for each distinct quoted key.
func Variables(l Layout) (*IDMemo, error) {
	var files []types.FilesystemPath
	if l.DefaultVariables != "" {
		files = append(files, l.abs(l.DefaultVariables))
	}
	skins, err := Skins(l)
	if err != nil {
		return nil, err
	}
	for _, s := range skins {
		files = append(files, s.Path)
	}

	memo := NewIDMemo()
	for _, f := range files {
		data, err := os.ReadFile(fspath.Native(f))
		if err != nil {
			return nil, fmt.Errorf("scan variables: %w", err)
		}
		for _, m := range quotedKey.FindAllStringSubmatch(string(data), -1) {
			name := m[1]
			if name == "" {
				name = m[2]
			}
			if _, err := memo.ID(name); err != nil {
				return nil, err
			}
		}
	}
	return memo, nil
}

// VariablesHook returns the variables hook. Imports of the config target
// redirect to it, and its content is a $var-ids map from variable name to
// identifier. Each load starts a fresh memo.
func VariablesHook(l Layout) *hook.Hook {
	config := &hook.Hook{
		FilePath: l.abs(l.configTarget()),
		Matcher:  PartialMatcher(l.abs(l.configTarget())),
	}
	return &hook.Hook{
		FilePath: l.abs(l.VariablesTarget),
		Matcher:  hook.Delegate(config),
		Content: func() (string, error) {
			memo, err := Variables(l)
			if err != nil {
				return "", err
			}
			return renderVariables(memo)
		},
	}
}

func renderVariables(memo *IDMemo) (string, error) {
	if memo.Len() == 0 {
		return "$var-ids: ();", nil
	}
	var sb strings.Builder
	sb.WriteString("$var-ids: (\n")
	for _, name := range memo.Names() {
		id, err := memo.ID(name)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "  %q: %q,\n", name, id)
	}
	sb.WriteString(");")
	return sb.String(), nil
}

// Hooks returns the aggregation and variables hooks for l.
func Hooks(l Layout) []*hook.Hook {
	return []*hook.Hook{SkinsHook(l), VariablesHook(l)}
}
