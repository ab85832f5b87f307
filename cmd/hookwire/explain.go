// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hookwire/hookwire/internal/issue"
)

func newExplainCommand(app *App) *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   "explain [topic]",
		Short: "Explain an error and how to fix it",
		Long: `Explain an error and how to fix it.

Without a topic, lists the available topics. Error messages name the topic
to look up.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			var names []string
			for _, is := range issue.Values() {
				names = append(names, is.Name())
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(app.stdout, TitleStyle.Render("Topics"))
				for _, is := range issue.Values() {
					fmt.Fprintf(app.stdout, "  %s\n", CmdStyle.Render(is.Name()))
				}
				return nil
			}

			is, ok := issue.Lookup(args[0])
			if !ok {
				return issue.NewErrorContext().
					WithOperation("explain").
					WithResource(args[0]).
					WithSuggestion("Run 'hookwire explain' to list the topics").
					Wrap(fmt.Errorf("unknown topic %q", args[0])).
					BuildError()
			}
			out, err := is.Render(style)
			if err != nil {
				return fmt.Errorf("render %s: %w", is.Name(), err)
			}
			fmt.Fprint(app.stdout, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&style, "style", "dark", "glamour style (dark, light, notty)")
	return cmd
}
