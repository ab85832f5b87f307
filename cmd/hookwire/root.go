// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/hookwire/hookwire/internal/issue"
	"github.com/hookwire/hookwire/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	verbose    bool
	configPath string
	dir        string
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "hookwire",
		Short: "Build-time virtual module injection for esbuild",
		Long: TitleStyle.Render("hookwire") + SubtitleStyle.Render(" - build-time virtual module injection") + `

hookwire bundles a project with esbuild and splices generated content into
marked source files on the fly. Imports of a hooked file are redirected to a
virtual module whose text is the real file with the marker replaced.

` + SubtitleStyle.Render("Examples:") + `
  hookwire build                  Bundle the configured entry points
  hookwire watch                  Rebuild on every change
  hookwire hooks                  List the registered hooks
  hookwire load src/scss/_themes.scss
  hookwire convert 255 --to base32`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&flags.configPath, "config", "", "config file (default is hookwire.cue or hookwire.toml in the project directory)")
	pf.StringVarP(&flags.dir, "dir", "C", "", "project directory (default is the working directory)")

	rootCmd.AddCommand(
		newBuildCommand(app, flags),
		newWatchCommand(app, flags),
		newResolveCommand(app, flags),
		newLoadCommand(app, flags),
		newHooksCommand(app, flags),
		newConvertCommand(app),
		newConfigCommand(app, flags),
		newInitCommand(app, flags),
		newExplainCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the command's exit code.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verboseFlag(rootCmd)))
		}),
	)
	if code := exitCodeFor(err); !code.IsSuccess() {
		os.Exit(int(code))
	}
}

// exitCodeFor maps a command error to the process exit code.
func exitCodeFor(err error) types.ExitCode {
	if err == nil {
		return types.ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code.Validate() == nil && !exitErr.Code.IsSuccess() {
		return exitErr.Code
	}
	return types.ExitFailure
}

func verboseFlag(cmd *cobra.Command) bool {
	v, err := cmd.PersistentFlags().GetBool("verbose")
	return err == nil && v
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
