package cli

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khanglvm/sales-pipeline/internal/config"
	"github.com/khanglvm/sales-pipeline/internal/rules"
	"github.com/khanglvm/sales-pipeline/internal/search"
	"github.com/khanglvm/sales-pipeline/internal/storage"
)

// SampleDocName and SampleDoc seed an empty knowledge directory.
const (
	SampleDocName = "info.txt"
	SampleDoc     = "Sales decline reasons include seasonality and supply chain delays."
)

// NewInitCmd creates the 'init' command that prepares a working project.
func NewInitCmd(g *Globals) *cobra.Command {
	var (
		writeConfig bool
		seed        int64
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the sample database and knowledge documents",
		Long: `Prepare a working project:

  • (re)create the sales and customers tables and fill them with a year of
    generated sales plus seven sample customers
  • write a sample knowledge document when the docs directory is missing or empty
  • with --write-config, save the effective configuration to the config file`,
		Example: `  sales-pipeline init
  sales-pipeline init --write-config
  sales-pipeline init --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil && !(writeConfig && config.IsNotFound(err)) {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg == nil {
				// An explicit --config path that does not exist yet is created below.
				cfg = config.NewConfig()
				cfg.ApplyEnv(g.getenv())
			}

			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			return runInit(cmd.Context(), g, cfg, initOptions{
				writeConfig: writeConfig,
				rng:         rand.New(rand.NewSource(seed)),
				now:         time.Now(),
			}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&writeConfig, "write-config", false, "Save the configuration file")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for the sample data (default: time based)")

	return cmd
}

type initOptions struct {
	writeConfig bool
	rng         *rand.Rand
	now         time.Time
}

func runInit(ctx context.Context, g *Globals, cfg *config.Config, opts initOptions, out io.Writer) error {
	logger := g.logger()

	store := storage.NewStorage(cfg.Storage.DBPath, logger)
	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	summary, err := store.SeedSample(ctx, opts.rng, opts.now)
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	// Read back what was committed rather than trusting the insert counters.
	sales, err := store.CountSales(ctx)
	if err != nil {
		return fmt.Errorf("failed to count seeded sales: %w", err)
	}
	customers, err := store.ListCustomers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list seeded customers: %w", err)
	}

	fmt.Fprintf(out, "✓ Database %s: %d sales (%s to %s), %d customers\n",
		cfg.Storage.DBPath, sales,
		summary.From.Format("2006-01-02"), summary.To.Format("2006-01-02"),
		len(customers))
	for _, c := range customers {
		fmt.Fprintf(out, "    • %-20s %-14s lifetime value %s\n", c.Name, c.Industry, rules.Currency(c.LifetimeValue))
	}

	wrote, err := ensureSampleDocs(cfg.Insight.DocsDir)
	if err != nil {
		return err
	}
	if wrote {
		fmt.Fprintf(out, "✓ Wrote sample document %s\n", filepath.Join(cfg.Insight.DocsDir, SampleDocName))
	} else {
		fmt.Fprintf(out, "• Knowledge documents already present in %s\n", cfg.Insight.DocsDir)
	}

	if opts.writeConfig {
		path := g.ConfigPath
		if path == "" {
			if path, err = config.GetDefaultConfigPath(); err != nil {
				return err
			}
		}
		if err := config.Save(cfg, path); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Saved configuration to %s\n", path)
	}

	logger.Info("project initialised",
		zap.String("db", cfg.Storage.DBPath),
		zap.Int("sales", sales),
		zap.String("docs", cfg.Insight.DocsDir))
	return nil
}

// ensureSampleDocs writes the sample document when dir is missing or empty.
func ensureSampleDocs(dir string) (bool, error) {
	if search.HasDocuments(dir) {
		return false, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("failed to create docs directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, SampleDocName), []byte(SampleDoc), 0644); err != nil {
		return false, fmt.Errorf("failed to write sample document: %w", err)
	}
	return true, nil
}
