package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/az-ai-labs/ru-numtext/numtext"
)

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <word>...",
		Short: "Compose numeral words into a single value",
		Long: `Parse composes the given numeral words into one number. Every word must
be a numeral; an unknown word is an error.

Examples:
  runum parse пять миллионов шестьсот тысяч семьсот восемьдесят девять
  runum parse сто первый`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := numtext.ParseSequence(args)
			if err != nil {
				return err
			}
			a.logger.Debug("parsed", "words", len(args), "value", v)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
			return err
		},
	}
}

func newWordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "word <word>...",
		Short: "Show how each word is classified",
		Long: `Word prints the lexicon category and value of each word. Words that are
not numerals are reported as NotNumeral with value 0.

Example:
  runum word тысяч двадцатого Кот`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, w := range args {
				cat, v := numtext.Classify(w)
				fmt.Fprintf(tw, "%s\t%s\t%d\n", w, cat, v)
			}
			a.logger.Debug("classified", "words", len(args))
			return tw.Flush()
		},
	}
}
