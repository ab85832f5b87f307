// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hookwire/hookwire/internal/issue"
	"github.com/hookwire/hookwire/pkg/esbuildplugin"
	"github.com/hookwire/hookwire/pkg/hook"
	"github.com/hookwire/hookwire/pkg/inject"
	"github.com/hookwire/hookwire/pkg/types"
	"github.com/hookwire/hookwire/pkg/vid"
)

func newResolveCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var importer string

	cmd := &cobra.Command{
		Use:   "resolve <specifier>",
		Short: "Show how an import specifier resolves",
		Long: `Show how an import specifier resolves and whether a hook claims it.

The importer defaults to a file at the project root.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.openProject(cmd.Context(), flags)
			if err != nil {
				return err
			}
			printResolution(app.stdout, p, args[0], p.absPath(importer))
			return nil
		},
	}
	cmd.Flags().StringVar(&importer, "importer", "index.js", "path or virtual id of the importing module")
	return cmd
}

func printResolution(w io.Writer, p *project, specifier, importer string) {
	effective := importer
	if rp, ok := p.engine.RealPath(importer); ok {
		effective = string(rp)
	}
	outcome := p.policy.Resolve(specifier, effective)
	fmt.Fprintf(w, "%s %s\n", SubtitleStyle.Render("specifier:"), specifier)
	fmt.Fprintf(w, "%s %s\n", SubtitleStyle.Render("importer: "), importer)
	fmt.Fprintf(w, "%s %s", SubtitleStyle.Render("outcome:  "), outcome.Kind)
	if outcome.OK() {
		fmt.Fprintf(w, " %s", CmdStyle.Render(outcome.Path))
	}
	fmt.Fprintln(w)

	res := p.engine.Resolve(specifier, importer)
	if res == nil {
		fmt.Fprintf(w, "%s %s\n", SubtitleStyle.Render("hook:     "), VerboseStyle.Render("none"))
		return
	}
	fmt.Fprintf(w, "%s %s %s\n", SubtitleStyle.Render("hook:     "),
		CmdStyle.Render(string(res.ID)), VerboseStyle.Render("(loader "+res.Meta.Inject.Loader+")"))
}

func newLoadCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "load <virtual-id|path>",
		Short: "Print the contents served for a module",
		Long: `Print the contents the bundler would receive for a module.

A path is turned into its virtual id first. Hooked files are printed with
their generated content spliced in; other files are served from disk.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd.Context(), app, flags, args[0])
		},
	}
}

func runLoad(ctx context.Context, app *App, flags *rootFlagValues, target string) error {
	p, err := app.openProject(ctx, flags)
	if err != nil {
		return err
	}

	id := target
	if !vid.HasPrefix(id) {
		id = string(p.engine.Generator().Generate(types.FilesystemPath(p.absPath(target)), vid.AbsolutePrefixed))
	}

	plugin := esbuildplugin.NewPlugin(p.engine, esbuildplugin.WithLogger(p.logger))
	out, served, err := plugin.Load(id)
	if err != nil {
		ec := issue.NewErrorContext().WithOperation("load module").WithResource(id).Wrap(err)
		var loadErr *inject.LoadError
		if errors.As(err, &loadErr) {
			ec.WithIssue(loadIssue(loadErr))
		} else {
			ec.WithIssue(issue.HookFileMissingId)
		}
		return ec.BuildError()
	}
	p.logger.Debug("loaded", "id", id, "path", served, "bytes", len(out))
	_, err = io.WriteString(app.stdout, out)
	return err
}

func newHooksCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "hooks",
		Short: "List the registered hooks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := app.openProject(cmd.Context(), flags)
			if err != nil {
				return err
			}
			printHooks(app.stdout, p.engine.Registry())
			return nil
		},
	}
}

func printHooks(w io.Writer, r *hook.Registry) {
	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("Hooks (%d)", r.Len())))
	for id, h := range r.All() {
		fmt.Fprintf(w, "  %s %s\n", CmdStyle.Render(string(id)), VerboseStyle.Render("["+matcherKind(h.Matcher)+"]"))
	}
}

func matcherKind(m hook.Matcher) string {
	switch m := m.(type) {
	case nil:
		return "id only"
	case hook.RegexMatcher:
		return "regex " + m.Pattern.String()
	case hook.PredicateMatcher:
		return "predicate"
	case hook.DelegatedMatcher:
		if m.Hook != nil {
			return "delegates to " + string(m.Hook.FilePath)
		}
		return "delegates"
	default:
		return "custom"
	}
}
