package stages

import (
	"context"

	"github.com/khanglvm/sales-pipeline/internal/pipeline"
	"go.uber.org/zap"
)

// AverageReader reports the historical average sale amount.
type AverageReader interface {
	AverageSales(ctx context.Context) (float64, error)
}

// Historical sets SQLAvgSales from the store, or 0 when it cannot be read.
type Historical struct {
	reader AverageReader
	logger *zap.Logger
}

// NewHistorical creates the historical-average stage. reader may be nil.
func NewHistorical(reader AverageReader, logger *zap.Logger) *Historical {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Historical{reader: reader, logger: logger}
}

func (h *Historical) Name() string { return NameHistorical }

func (h *Historical) Run(ctx context.Context, rec pipeline.Record) (pipeline.Record, error) {
	rec.SQLAvgSales = 0
	if h.reader == nil {
		return rec, nil
	}

	avg, err := h.reader.AverageSales(ctx)
	if err != nil {
		h.logger.Warn("historical average unavailable", zap.Error(err))
		return rec, nil
	}

	rec.SQLAvgSales = avg
	return rec, nil
}
