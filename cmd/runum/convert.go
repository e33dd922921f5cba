package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/az-ai-labs/ru-numtext/internal/mmapfile"
	"github.com/az-ai-labs/ru-numtext/numtext"
)

type convertOutput struct {
	Source       string                `json:"source"`
	Output       string                `json:"output"`
	Replacements []numtext.Replacement `json:"replacements"`
}

type convertInput struct {
	source string
	text   string
	inline bool
}

func newConvertCmd(a *app) *cobra.Command {
	var (
		files   []string
		asJSON  bool
		split   bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "convert [text...]",
		Short: "Convert numeral phrases in text, files or stdin",
		Long: `Convert replaces every run of Russian numeral words with digits.

Input is taken from the arguments (joined with spaces), from --file paths,
or from stdin when neither is given.

Examples:
  runum convert сто двадцать пять            # 125
  runum convert --file book.txt > out.txt
  echo "двадцать первое сентября" | runum convert
  runum convert --split-punct "Итого: двадцать пять."`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var extra []numtext.Option
			if cmd.Flags().Changed("split-punct") {
				extra = append(extra, numtext.WithPunctuationSplit(split))
			}
			if noCache {
				extra = append(extra, numtext.WithCacheSize(0))
			}
			conv := a.converter(extra...)

			inputs, err := gatherInputs(cmd.InOrStdin(), args, files)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				results := make([]convertOutput, 0, len(inputs))
				for _, in := range inputs {
					text, reps := conv.Rewrite(in.text)
					if reps == nil {
						reps = []numtext.Replacement{}
					}
					results = append(results, convertOutput{
						Source:       in.source,
						Output:       text,
						Replacements: reps,
					})
				}
				enc := json.NewEncoder(out)
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			for _, in := range inputs {
				s := conv.Convert(in.text)
				if in.inline {
					s += "\n"
				}
				if _, err := io.WriteString(out, s); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "read input from files (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print replacements as JSON")
	cmd.Flags().BoolVar(&split, "split-punct", false, "split punctuation off words before matching")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the phrase cache")
	return cmd
}

// gatherInputs resolves the convert input: arguments, then files, then stdin.
func gatherInputs(stdin io.Reader, args, files []string) ([]convertInput, error) {
	if len(args) > 0 && len(files) > 0 {
		return nil, fmt.Errorf("convert: use either text arguments or --file, not both")
	}
	if len(args) > 0 {
		return []convertInput{{source: "args", text: strings.Join(args, " "), inline: true}}, nil
	}
	if len(files) > 0 {
		inputs := make([]convertInput, 0, len(files))
		for _, path := range files {
			text, err := mmapfile.ReadString(path)
			if err != nil {
				return nil, fmt.Errorf("convert: %w", err)
			}
			inputs = append(inputs, convertInput{source: path, text: text})
		}
		return inputs, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("convert: reading stdin: %w", err)
	}
	return []convertInput{{source: "stdin", text: string(data)}}, nil
}
