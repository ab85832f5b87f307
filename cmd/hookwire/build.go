// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hookwire/hookwire/internal/issue"
	"github.com/hookwire/hookwire/pkg/esbuildplugin"
	"github.com/hookwire/hookwire/pkg/inject"
	"github.com/hookwire/hookwire/pkg/types"
)

func newBuildCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var noWrite bool

	cmd := &cobra.Command{
		Use:   "build [entry...]",
		Short: "Bundle the entry points with hook injection",
		Long: `Bundle the entry points with esbuild, serving every hooked file with its
generated content spliced in at the marker.

Entry points default to entry_points from the configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), app, flags, args, !noWrite)
		},
	}
	cmd.Flags().BoolVar(&noWrite, "no-write", false, "bundle without writing output files")
	return cmd
}

func runBuild(ctx context.Context, app *App, flags *rootFlagValues, entries []string, write bool) error {
	p, err := app.openProject(ctx, flags)
	if err != nil {
		return err
	}

	req := p.buildRequest(write)
	if len(entries) > 0 {
		req.EntryPoints = entries
	}

	report, err := esbuildplugin.Build(ctx, p.engine, req)
	if err != nil {
		return buildFailure(app.stderr, err)
	}
	printReport(app.stdout, app.stderr, p.root, report)
	return nil
}

// buildFailure prints esbuild's messages and maps err to an exit code:
// bundler errors exit with ExitBuildErrors, anything else with ExitFailure.
func buildFailure(stderr io.Writer, err error) error {
	var buildErr *esbuildplugin.BuildError
	if !errors.As(err, &buildErr) {
		return err
	}
	for _, m := range buildErr.Messages {
		fmt.Fprintln(stderr, ErrorStyle.Render("✗ ")+esbuildplugin.FormatMessage(m))
	}

	ec := issue.NewErrorContext().
		WithOperation("bundle").
		WithIssue(issue.BuildFailedId).
		Wrap(err)
	for _, m := range buildErr.Messages {
		var loadErr *inject.LoadError
		if detail, ok := m.Detail.(error); ok && errors.As(detail, &loadErr) {
			ec.WithResource(string(loadErr.Path)).WithIssue(loadIssue(loadErr))
			break
		}
	}
	return &ExitError{Code: types.ExitBuildErrors, Err: ec.BuildError()}
}

// loadIssue picks the catalog entry for a failed hook load.
func loadIssue(err *inject.LoadError) issue.Id {
	if errors.Is(err, fs.ErrNotExist) {
		return issue.HookFileMissingId
	}
	return issue.ContentFailedId
}

func printReport(stdout, stderr io.Writer, root string, report *esbuildplugin.BuildReport) {
	for _, w := range report.Warnings {
		fmt.Fprintln(stderr, WarningStyle.Render("! ")+esbuildplugin.FormatMessage(w))
	}
	for _, out := range report.Outputs {
		name := out.Path
		if rel, err := filepath.Rel(root, out.Path); err == nil {
			name = rel
		}
		fmt.Fprintf(stdout, "%s %s %s\n",
			SuccessStyle.Render("✓"),
			CmdStyle.Render(filepath.ToSlash(name)),
			VerboseStyle.Render(fmt.Sprintf("(%d bytes)", len(out.Contents))))
	}
	fmt.Fprintf(stdout, "%s %d file(s) in %s\n",
		SubtitleStyle.Render("Built"), len(report.Outputs), report.Duration.Round(time.Millisecond))
}
