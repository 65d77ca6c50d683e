package stages

import (
	"context"

	"github.com/khanglvm/sales-pipeline/internal/pipeline"
)

const (
	anomalyLowerBound = 50000.0
	anomalyUpperBound = 200000.0
	referenceMean     = 100000.0
	referenceScale    = 30000.0
)

// Monitor flags readings outside the absolute band and scores their deviation.
type Monitor struct{}

func (Monitor) Name() string { return NameMonitor }

func (Monitor) Run(_ context.Context, rec pipeline.Record) (pipeline.Record, error) {
	rec.Anomaly = rec.LatestSales < anomalyLowerBound || rec.LatestSales > anomalyUpperBound
	rec.ZScore = 0
	if rec.LatestSales >= 0 {
		rec.ZScore = (rec.LatestSales - referenceMean) / referenceScale
	}
	return rec, nil
}
