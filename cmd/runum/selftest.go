package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/az-ai-labs/ru-numtext/data"
	"github.com/az-ai-labs/ru-numtext/numtext"
)

type selftestCase struct {
	Name   string `json:"name"`
	Input  string `json:"input"`
	Output string `json:"output"`
}

func newSelftestCmd(a *app) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Run the built-in conversion cases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cases []selftestCase
			if err := json.Unmarshal(data.ConvertCases, &cases); err != nil {
				return fmt.Errorf("selftest: decoding cases: %w", err)
			}

			// Cases are written against whitespace tokenization.
			conv := a.converter(numtext.WithPunctuationSplit(false))
			out := cmd.OutOrStdout()
			failed := 0
			for _, tc := range cases {
				got := conv.Convert(tc.Input)
				if got != tc.Output {
					failed++
					fmt.Fprintf(out, "FAIL %s\n  input: %q\n   want: %q\n    got: %q\n",
						tc.Name, tc.Input, tc.Output, got)
					continue
				}
				if verbose {
					fmt.Fprintf(out, "ok   %s\n", tc.Name)
				}
			}
			fmt.Fprintf(out, "%d/%d passed\n", len(cases)-failed, len(cases))
			if failed > 0 {
				return fmt.Errorf("selftest: %d case(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list passing cases too")
	return cmd
}
