// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hookwire/hookwire/internal/config"
	"github.com/hookwire/hookwire/internal/issue"
)

// newConfigCommand creates the `hookwire config` command tree.
func newConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect hookwire configuration",
		Long: `Inspect hookwire configuration.

Configuration is read from hookwire.cue, or hookwire.toml when no CUE file
exists, in the project directory. HOOKWIRE_* environment variables override
file values (e.g. HOOKWIRE_WATCH_DEBOUNCE=1s).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd.Context(), app, flags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, cfg, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return err
			}
			if cfg.Source == "" {
				fmt.Fprintln(app.stdout, VerboseStyle.Render("(built-in defaults)"))
				return nil
			}
			fmt.Fprintln(app.stdout, cfg.Source)
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, flags *rootFlagValues) error {
	_, cfg, err := app.loadConfig(ctx, flags)
	if err != nil {
		return err
	}
	fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
	return nil
}

func newInitCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default hookwire.cue in the project directory",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			root, err := projectRoot(flags.dir)
			if err != nil {
				return err
			}
			path, err := config.WriteDefault(root, force)
			if err != nil {
				ec := issue.NewErrorContext().WithOperation("create configuration").WithResource(path).Wrap(err)
				if errors.Is(err, config.ErrConfigExists) {
					ec.WithSuggestion("Pass --force to overwrite it")
				}
				return ec.BuildError()
			}
			fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(path))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	return cmd
}
