/*
Package main is the entry point for the sales-pipeline CLI.

sales-pipeline runs a seven-stage decision pipeline over a single sales
reading: anomaly detection, historical average, knowledge-document insight,
forecast, rule-based decision, action plan and journaling.

Usage:
  sales-pipeline [command]

Available Commands:
  init        Create the sample database and knowledge documents
  run         Run the pipeline once and print the result
  serve       Run the pipeline HTTP API
  dashboard   Interactive terminal dashboard
  record      Record a sale in the historical database
  history     Show recent pipeline runs from the journal
  version     Show version information

Examples:
  # Prepare sample data
  sales-pipeline init

  # Evaluate one reading
  sales-pipeline run --sales 350000

  # Serve the HTTP API on :8000
  sales-pipeline serve
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/khanglvm/sales-pipeline/internal/cli"
	"github.com/khanglvm/sales-pipeline/internal/version"
)

func main() {
	// Load .env file if present (non-fatal).
	_ = godotenv.Load()

	g := &cli.Globals{}

	rootCmd := &cobra.Command{
		Use:   "sales-pipeline",
		Short: "Sales decision pipeline - anomaly, forecast, decision and action plan",
		Long: `sales-pipeline turns a single sales reading into an enriched decision record.

Each run passes the record through seven stages in order:
  • monitor     - flag out-of-range readings and compute a z-score
  • historical  - average of stored sales (SQLite)
  • insight     - best-matching knowledge snippet (semantic, keyword or hybrid)
  • forecast    - next-period projection
  • decision    - first matching rule of an ordered table
  • action      - multi-step action plan for the decision
  • journal     - append the run to a JSON-lines log`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.InitLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			g.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.ConfigPath, "config", "c", "", "Config file (default: ~/.sales-pipeline.json)")
	rootCmd.PersistentFlags().BoolVarP(&g.Verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(cli.NewInitCmd(g))
	rootCmd.AddCommand(cli.NewRunCmd(g))
	rootCmd.AddCommand(cli.NewServeCmd(g))
	rootCmd.AddCommand(cli.NewDashboardCmd(g))
	rootCmd.AddCommand(cli.NewRecordCmd(g))
	rootCmd.AddCommand(cli.NewHistoryCmd(g))
	rootCmd.AddCommand(cli.NewVersionCmd())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}
