package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khanglvm/sales-pipeline/internal/config"
	"github.com/khanglvm/sales-pipeline/internal/rules"
	"github.com/khanglvm/sales-pipeline/internal/storage"
)

// NewRecordCmd creates the 'record' command that adds one sale to the database.
func NewRecordCmd(g *Globals) *cobra.Command {
	var (
		amount float64
		date   string
		sale   storage.Sale
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a sale in the historical database",
		Long: `Record a single sale. Recorded sales feed the historical average
that anomalous readings are forecast from.`,
		Example: `  sales-pipeline record --amount 42000
  sales-pipeline record --amount 18500 --date 2025-06-01 --product "Product B" --region West`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if amount <= 0 {
				return errors.New("--amount must be greater than zero")
			}
			sale.Amount = amount
			sale.Date = time.Now()
			if date != "" {
				if sale.Date, err = time.ParseInLocation("2006-01-02", date, time.Local); err != nil {
					return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", date)
				}
			}

			return runRecord(cmd.Context(), g, cfg, sale, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "Sale amount (required)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Sale date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&sale.Product, "product", "", "Product name")
	cmd.Flags().StringVar(&sale.Region, "region", "", "Sales region")
	cmd.Flags().StringVar(&sale.Salesperson, "salesperson", "", "Salesperson name")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runRecord(ctx context.Context, g *Globals, cfg *config.Config, sale storage.Sale, out io.Writer) error {
	logger := g.logger()

	store := storage.NewStorage(cfg.Storage.DBPath, logger)
	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	if err := store.RecordSale(ctx, sale); err != nil {
		return err
	}

	count, err := store.CountSales(ctx)
	if err != nil {
		return err
	}
	avg, err := store.AverageSales(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Recorded sale of %s on %s\n", rules.Currency(sale.Amount), sale.Date.Format("2006-01-02"))
	fmt.Fprintf(out, "  %d sales, average %s\n", count, rules.Currency(avg))

	logger.Debug("sale recorded",
		zap.Float64("amount", sale.Amount),
		zap.Int("sales", count),
		zap.Float64("average", avg))
	return nil
}
