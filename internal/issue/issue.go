// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Id identifies a catalog entry.
type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	HookFileMissingId
	MarkerNotFoundId
	ContentFailedId
	BuildFailedId
	UnknownAlphabetId
	WatchFailedId
)

type (
	// MarkdownMsg is the Markdown body of an issue.
	MarkdownMsg string

	// HttpLink is a documentation link.
	HttpLink string

	// Issue is one catalog entry.
	Issue struct {
		id       Id
		name     string
		mdMsg    MarkdownMsg
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id { return i.id }

// Name is the key accepted by 'hookwire explain'.
func (i *Issue) Name() string { return i.name }

func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

func (i *Issue) ExtLinks() []HttpLink { return slices.Clone(i.extLinks) }

// Render renders the issue for a terminal using the glamour style at
// stylePath ("dark", "light", "notty", or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.extLinks) > 0 {
		var sb strings.Builder
		sb.WriteString(md)
		sb.WriteString("\n\n## See also\n")
		for _, link := range i.extLinks {
			sb.WriteString("- <" + string(link) + ">\n")
		}
		md = sb.String()
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id:   ConfigLoadFailedId,
		name: "config",
		mdMsg: `
# Configuration could not be loaded

hookwire reads ` + "`hookwire.cue`" + `, then ` + "`hookwire.toml`" + `, from the
project directory. ` + "`--config`" + ` selects a file explicitly.

## Fields
| field | meaning |
|---|---|
| themes_dir | directory with one ` + "`_<skin>.scss`" + ` partial per skin |
| skin_pattern | glob selecting skins inside themes_dir |
| aggregation_target | file receiving the ` + "`$themes`" + ` map |
| variables_target | file receiving the ` + "`$var-ids`" + ` map |
| config_target | module whose imports redirect to variables_target |
| default_variables | scanned for variable names before the skins |
| sentinel | marker token looked for in hook files |
| alias_prefixes | specifier prefixes resolved by bundler aliases |
| entry_points, outdir | bundle inputs and output directory |
| log_level | debug, info, warn, or error |
| watch | patterns, ignore, debounce, clear_screen |

## Things you can try
- Write a fresh default file:
~~~
$ hookwire init --force
~~~
- Print the effective configuration:
~~~
$ hookwire config show
~~~`,
	}

	hookFileMissingIssue = &Issue{
		id:   HookFileMissingId,
		name: "hook-file",
		mdMsg: `
# A hook file could not be read

A module resolved to a hook, but the hook's real file is missing or
unreadable. Hook files are the targets named in the configuration.

## Things you can try
- List the registered hooks and their files:
~~~
$ hookwire hooks
~~~
- Create the missing file with a marker comment, e.g.
~~~scss
// hookwire
~~~`,
	}

	markerNotFoundIssue = &Issue{
		id:   MarkerNotFoundId,
		name: "marker",
		mdMsg: `
# No injection marker

Generated content is spliced at the first comment line containing the
sentinel. Without one the file is served unchanged.

The comment style follows the file type:
- ` + "`//`" + ` for scss, css, js, jsx, ts, tsx
- ` + "`<!-- -->`" + ` for html
- ` + "`#`" + ` for yaml and toml
- ` + "`/* */`" + ` otherwise

## Example
~~~scss
@use 'sass:map';

// hookwire: themes
~~~`,
	}

	contentFailedIssue = &Issue{
		id:   ContentFailedId,
		name: "content",
		mdMsg: `
# Generated content failed

A hook's content generator returned an error, usually because a themes
directory or the default variables file is missing.

## Things you can try
- Check themes_dir and default_variables in the configuration.
- Load the hook directly to see the error:
~~~
$ hookwire load src/scss/_themes.scss
~~~`,
	}

	buildFailedIssue = &Issue{
		id:   BuildFailedId,
		name: "build",
		mdMsg: `
# The bundle failed to build

esbuild reported errors. Messages from hookwire carry the ` + "`[hookwire]`" + `
tag; others come from esbuild itself.

## Things you can try
- Re-run with ` + "`--verbose`" + ` to log every redirect and load.
- Check how a failing import resolves:
~~~
$ hookwire resolve ./themes --importer src/scss/main.scss
~~~`,
		extLinks: []HttpLink{"https://esbuild.github.io/plugins/"},
	}

	unknownAlphabetIssue = &Issue{
		id:   UnknownAlphabetId,
		name: "alphabet",
		mdMsg: `
# Unknown or invalid alphabet

` + "`hookwire convert`" + ` accepts the named alphabets decimal, base32,
base62, base64url, and base96, or a literal alphabet string prefixed with
` + "`=`" + `. Literal alphabets need at least two distinct symbols.

## Example
~~~
$ hookwire convert 255 --from decimal --to =01
11111111
~~~`,
	}

	watchFailedIssue = &Issue{
		id:   WatchFailedId,
		name: "watch",
		mdMsg: `
# Watch mode stopped

The file watcher hit an unrecoverable error. On Linux this is usually the
inotify watch limit.

## Things you can try
~~~
$ sudo sysctl fs.inotify.max_user_watches=524288
~~~
- Narrow watch.patterns or extend watch.ignore in the configuration.`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id(): configLoadFailedIssue,
		hookFileMissingIssue.Id():  hookFileMissingIssue,
		markerNotFoundIssue.Id():   markerNotFoundIssue,
		contentFailedIssue.Id():    contentFailedIssue,
		buildFailedIssue.Id():      buildFailedIssue,
		unknownAlphabetIssue.Id():  unknownAlphabetIssue,
		watchFailedIssue.Id():      watchFailedIssue,
	}
)

// Values returns every issue ordered by id.
func Values() []*Issue {
	out := slices.Collect(maps.Values(issues))
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the issue with id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}

// Lookup returns the issue with the given name, ignoring case.
func Lookup(name string) (*Issue, bool) {
	for _, is := range issues {
		if strings.EqualFold(is.name, name) {
			return is, true
		}
	}
	return nil, false
}
