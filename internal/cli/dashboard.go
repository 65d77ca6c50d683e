package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khanglvm/sales-pipeline/internal/dashboard"
)

// NewDashboardCmd creates the 'dashboard' command for the interactive terminal form.
func NewDashboardCmd(g *Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Interactive terminal dashboard",
		Long: `Open a terminal form: type the latest sales figure and press enter to
run the pipeline. The result panel shows the anomaly flag, z-score, forecast,
historical average, decision, insight and recommended action.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			// Log lines on stderr would tear the terminal UI.
			logger := zap.NewNop()
			if g.Verbose {
				logger = g.logger()
			}

			app, err := newAppFromConfig(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			return dashboard.Run(cmd.Context(), app.Runner)
		},
	}

	return cmd
}
