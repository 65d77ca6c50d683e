package stages

import (
	"context"

	"github.com/khanglvm/sales-pipeline/internal/pipeline"
)

const (
	anomalyForecastFactor = 1.10
	normalForecastFactor  = 1.05
)

// Forecast projects next-period sales.
type Forecast struct{}

func (Forecast) Name() string { return NameForecast }

// Run projects from the historical average when the reading is anomalous,
// otherwise from the reading itself.
func (Forecast) Run(_ context.Context, rec pipeline.Record) (pipeline.Record, error) {
	if rec.Anomaly {
		rec.ForecastSales = rec.SQLAvgSales * anomalyForecastFactor
	} else {
		rec.ForecastSales = rec.LatestSales * normalForecastFactor
	}
	return rec, nil
}
