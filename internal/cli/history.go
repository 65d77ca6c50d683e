package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/khanglvm/sales-pipeline/internal/journal"
	"github.com/khanglvm/sales-pipeline/internal/rules"
)

// NewHistoryCmd creates the 'history' command that prints recent journal entries.
func NewHistoryCmd(g *Globals) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent pipeline runs from the journal",
		Example: `  sales-pipeline history
  sales-pipeline history --limit 50 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			entries, err := journal.New(cfg.Journal.Path, g.logger()).Recent(limit)
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), entries, jsonOutput)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of entries to show (0 = all)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func printHistory(out io.Writer, entries []journal.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No pipeline runs recorded yet.")
		fmt.Fprintln(out, "Run 'sales-pipeline run' to record one.")
		return nil
	}

	fmt.Fprintf(out, "Recent runs (%d):\n\n", len(entries))
	for _, e := range entries {
		marker := " "
		if e.Anomaly {
			marker = "!"
		}
		fmt.Fprintf(out, "%s %s  sales %-12s z %6.2f  forecast %-12s\n",
			marker, e.Timestamp, rules.Currency(e.LatestSales), e.ZScore, rules.Currency(e.ForecastSales))
		fmt.Fprintf(out, "    %s\n", e.Decision)
	}
	return nil
}
