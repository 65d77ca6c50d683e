package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khanglvm/sales-pipeline/internal/server"
)

// NewServeCmd creates the 'serve' command for running the HTTP API.
func NewServeCmd(g *Globals) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the pipeline HTTP API",
		Long: `Start the sales decision pipeline HTTP server.

Routes:
  GET  /              service banner
  GET  /health        liveness check
  POST /run-workflow  run the pipeline over a JSON record
  GET  /history       recent journal entries (?limit=N)

The server shuts down gracefully on SIGINT/SIGTERM.`,
		Example: `  # Listen on the configured address (default :8000)
  sales-pipeline serve

  # Override the address
  sales-pipeline serve --addr 127.0.0.1:9000

  # Run a workflow
  curl -X POST localhost:8000/run-workflow -d '{"latest_sales": 350000}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), g, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides config)")

	return cmd
}

// runServe serves until ctx is cancelled, then shuts down within the
// configured budget.
func runServe(ctx context.Context, g *Globals, addr string) error {
	app, err := NewApp(ctx, g)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	defer app.Close()

	if addr != "" {
		app.Config.Server.Addr = addr
	}

	srv := server.New(server.Config{
		Addr:         app.Config.Server.Addr,
		ReadTimeout:  app.Config.Server.ReadTimeout(),
		WriteTimeout: app.Config.Server.WriteTimeout(),
		Runner:       app.Runner,
		History:      app.Journal,
		Logger:       app.Logger,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	app.Logger.Info("shutting down", zap.Duration("timeout", app.Config.Server.ShutdownTimeout()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return <-errCh
}
