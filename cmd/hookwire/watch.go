// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hookwire/hookwire/internal/issue"
	"github.com/hookwire/hookwire/internal/watch"
	"github.com/hookwire/hookwire/pkg/esbuildplugin"
)

func newWatchCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Rebuild whenever a watched file changes",
		Long: `Build once, then rebuild on every change matching watch.patterns.

Hook content is regenerated on each rebuild, so new skins and variables are
picked up without restarting. Stop with Ctrl+C.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), app, flags)
		},
	}
}

func runWatch(ctx context.Context, app *App, flags *rootFlagValues) error {
	p, err := app.openProject(ctx, flags)
	if err != nil {
		return err
	}

	builder, err := esbuildplugin.NewBuilder(p.engine, p.buildRequest(true))
	if err != nil {
		return buildFailure(app.stderr, err)
	}
	defer builder.Close()

	rebuild := func(ctx context.Context) {
		report, err := builder.Rebuild(ctx)
		if err != nil {
			if ctx.Err() == nil {
				fmt.Fprintln(app.stderr, WarningStyle.Render("! ")+formatErrorForDisplay(buildFailure(app.stderr, err), flags.verbose))
			}
			return
		}
		printReport(app.stdout, app.stderr, p.root, report)
	}

	// The initial build may fail; the user can fix the error and save again.
	fmt.Fprintf(app.stdout, "%s Watch mode: initial build\n", VerboseHighlightStyle.Render("→"))
	rebuild(ctx)
	fmt.Fprintf(app.stdout, "\n%s Watching for changes (Ctrl+C to stop)...\n\n", VerboseHighlightStyle.Render("→"))

	w, err := watch.New(watch.Config{
		Patterns:    p.cfg.Watch.Patterns,
		Ignore:      p.cfg.Watch.Ignore,
		Debounce:    p.cfg.Watch.Debounce,
		ClearScreen: p.cfg.Watch.ClearScreen,
		BaseDir:     p.root,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(app.stdout, "%s Detected %d change(s). Rebuilding...\n", VerboseHighlightStyle.Render("→"), len(changed))
			p.logger.Debug("changed", "paths", changed)
			rebuild(ctx)
			return nil
		},
		Stdout: app.stdout,
		Logger: p.logger.WithPrefix("watch"),
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return issue.NewErrorContext().
			WithOperation("watch for changes").
			WithResource(p.root).
			WithIssue(issue.WatchFailedId).
			Wrap(err).
			BuildError()
	}
	return nil
}
