package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/az-ai-labs/ru-numtext/datetime"
)

func newDatesCmd(a *app) *cobra.Command {
	var (
		ref    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "dates <text>...",
		Short: "Extract Russian date and time expressions",
		Long: `Dates finds date and time expressions such as "двадцать первого сентября
две тысячи двадцать пятого года", "15.03.2024" or "через две недели" and
resolves them against a reference time (default: now, UTC).

Examples:
  runum dates "встреча пятого мая в 14:30"
  runum dates --ref 2026-02-20 "послезавтра"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refTime, err := parseRef(ref)
			if err != nil {
				return err
			}
			results := datetime.Extract(strings.Join(args, " "), refTime)
			a.logger.Debug("dates extracted", "count", len(results))

			out := cmd.OutOrStdout()
			if asJSON {
				if results == nil {
					results = []datetime.Result{}
				}
				enc := json.NewEncoder(out)
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%q\t[%d:%d]\t%s\t%s\n",
					r.Type, r.Text, r.Start, r.End, r.Time.Format(time.RFC3339), r.Explicit)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "", "reference time, RFC 3339 or YYYY-MM-DD (default: now)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

// parseRef accepts RFC 3339 or a bare date; "" means now.
func parseRef(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("dates: invalid --ref %q: want RFC 3339 or YYYY-MM-DD", s)
	}
	return t, nil
}
