package stages

import (
	"context"

	"github.com/khanglvm/sales-pipeline/internal/journal"
	"github.com/khanglvm/sales-pipeline/internal/pipeline"
	"go.uber.org/zap"
)

// Appender persists one journal entry.
type Appender interface {
	Append(entry journal.Entry) error
}

// Journal records the run outcome. Write failures never fail the run.
type Journal struct {
	appender Appender
	logger   *zap.Logger
}

// NewJournal creates the journal stage. appender may be nil.
func NewJournal(appender Appender, logger *zap.Logger) *Journal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Journal{appender: appender, logger: logger}
}

func (j *Journal) Name() string { return NameJournal }

func (j *Journal) Run(_ context.Context, rec pipeline.Record) (pipeline.Record, error) {
	if j.appender == nil {
		return rec, nil
	}

	err := j.appender.Append(journal.Entry{
		LatestSales:   rec.LatestSales,
		Anomaly:       rec.Anomaly,
		ZScore:        rec.ZScore,
		ForecastSales: rec.ForecastSales,
		Decision:      rec.Decision,
	})
	if err != nil {
		j.logger.Debug("journal append failed", zap.Error(err))
	}

	return rec, nil
}
