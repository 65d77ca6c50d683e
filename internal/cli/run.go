package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanglvm/sales-pipeline/internal/pipeline"
	"github.com/khanglvm/sales-pipeline/internal/rules"
)

// Scenario is a canned sales reading used by 'run --scenarios'.
type Scenario struct {
	Name  string  `json:"name"`
	Sales float64 `json:"latest_sales"`
}

// Scenarios covers a spike, a severe decline, healthy sales, a mild dip and
// deep underperformance.
var Scenarios = []Scenario{
	{Name: "CRITICAL SALES SPIKE", Sales: 350000},
	{Name: "SEVERE SALES DECLINE", Sales: 25000},
	{Name: "NORMAL / HEALTHY SALES", Sales: 110000},
	{Name: "BELOW AVERAGE PERFORMANCE", Sales: 65000},
	{Name: "SIGNIFICANTLY UNDERPERFORMING", Sales: 20000},
}

type scenarioResult struct {
	Scenario string          `json:"scenario,omitempty"`
	Result   pipeline.Record `json:"result"`
}

// NewRunCmd creates the 'run' command for one-off pipeline runs.
func NewRunCmd(g *Globals) *cobra.Command {
	var (
		sales      float64
		scenarios  bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline once and print the result",
		Long: `Run the seven-stage pipeline for a sales reading and print the record.

With --scenarios the five canned scenarios are run in order instead.`,
		Example: `  sales-pipeline run
  sales-pipeline run --sales 350000
  sales-pipeline run --scenarios
  sales-pipeline run --sales 25000 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(cmd.Context(), g)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			defer app.Close()

			list := []Scenario{{Sales: sales}}
			if scenarios {
				list = Scenarios
			}
			return runScenarios(cmd.Context(), app.Runner, list, jsonOutput, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Float64VarP(&sales, "sales", "s", pipeline.DefaultLatestSales, "Latest sales figure")
	cmd.Flags().BoolVar(&scenarios, "scenarios", false, "Run the five canned scenarios")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

// recordRunner is the part of pipeline.Runner used by the run command.
type recordRunner interface {
	Run(ctx context.Context, rec pipeline.Record) (pipeline.Record, error)
}

func runScenarios(ctx context.Context, runner recordRunner, list []Scenario, jsonOutput bool, out io.Writer) error {
	results := make([]scenarioResult, 0, len(list))

	for i, sc := range list {
		rec, err := runner.Run(ctx, pipeline.NewRecord(sc.Sales))
		if err != nil {
			return err
		}
		results = append(results, scenarioResult{Scenario: sc.Name, Result: rec})

		if jsonOutput {
			continue
		}
		if sc.Name != "" {
			fmt.Fprintf(out, "\nScenario %d: %s\n", i+1, sc.Name)
			fmt.Fprintln(out, strings.Repeat("-", 80))
		}
		printRecord(out, rec)
	}

	if !jsonOutput {
		return nil
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if len(results) == 1 && results[0].Scenario == "" {
		return enc.Encode(results[0].Result)
	}
	return enc.Encode(results)
}

func printRecord(out io.Writer, rec pipeline.Record) {
	fmt.Fprintf(out, "Sales: %s\n", rules.Currency(rec.LatestSales))
	fmt.Fprintf(out, "Anomaly: %t\n", rec.Anomaly)
	fmt.Fprintf(out, "Z-Score: %.2f\n", rec.ZScore)
	fmt.Fprintf(out, "Avg Sales (DB): %s\n", rules.Currency(rec.SQLAvgSales))
	fmt.Fprintf(out, "Forecast: %s\n", rules.Currency(rec.ForecastSales))
	fmt.Fprintf(out, "Insight: %s\n", rec.RAGInsight)
	fmt.Fprintf(out, "\nDecision: %s\n", rec.Decision)
	fmt.Fprintf(out, "\nAction: %s\n", rec.Action)
}
