// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hookwire/hookwire/internal/issue"
	"github.com/hookwire/hookwire/pkg/baseconv"
)

// literalAlphabetPrefix marks a flag value as a literal alphabet rather than
// a named one.
const literalAlphabetPrefix = "="

func newConvertCommand(app *App) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "convert <value>",
		Short: "Convert a numeral between alphabets",
		Long: `Convert a numeral written in one alphabet into another.

Alphabets are named (` + strings.Join(baseconv.Names(), ", ") + `) or given
literally with a leading '=', e.g. --to =01 for binary.`,
		Example: `  hookwire convert 255 --to base32
  hookwire convert 11111111 --from =01 --to decimal`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			out, err := convertValue(args[0], from, to)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "decimal", "alphabet of the input value")
	cmd.Flags().StringVar(&to, "to", "base32", "alphabet of the output value")
	return cmd
}

func convertValue(value, from, to string) (string, error) {
	src, err := parseAlphabet(from)
	if err != nil {
		return "", err
	}
	dst, err := parseAlphabet(to)
	if err != nil {
		return "", err
	}
	out, err := baseconv.Convert(value, src, dst)
	if err != nil {
		return "", issue.NewErrorContext().
			WithOperation("convert").
			WithResource(value).
			WithIssue(issue.UnknownAlphabetId).
			Wrap(err).
			BuildError()
	}
	return out, nil
}

// parseAlphabet accepts a named alphabet or a literal one after '='.
func parseAlphabet(spec string) (baseconv.Alphabet, error) {
	if literal, ok := strings.CutPrefix(spec, literalAlphabetPrefix); ok {
		a, err := baseconv.FromString(literal)
		if err != nil {
			return baseconv.Alphabet{}, alphabetError(spec, err)
		}
		return a, nil
	}
	if a, ok := baseconv.Lookup(spec); ok {
		return a, nil
	}
	return baseconv.Alphabet{}, alphabetError(spec, fmt.Errorf("unknown alphabet %q", spec))
}

func alphabetError(spec string, err error) error {
	return issue.NewErrorContext().
		WithOperation("parse alphabet").
		WithResource(spec).
		WithIssue(issue.UnknownAlphabetId).
		WithSuggestions(
			"Use one of: "+strings.Join(baseconv.Names(), ", "),
			"Prefix a literal alphabet with '=', e.g. =0123456789abcdef",
		).
		Wrap(err).
		BuildError()
}
