package stages

import (
	"context"

	"github.com/khanglvm/sales-pipeline/internal/pipeline"
	"github.com/khanglvm/sales-pipeline/internal/rules"
)

// Decision writes the narrative recommendation.
type Decision struct{}

func (Decision) Name() string { return NameDecision }

func (Decision) Run(_ context.Context, rec pipeline.Record) (pipeline.Record, error) {
	rec.Decision = rules.Decide(rules.Signals{
		Anomaly:     rec.Anomaly,
		ZScore:      rec.ZScore,
		LatestSales: rec.LatestSales,
		AvgSales:    rec.SQLAvgSales,
	})
	return rec, nil
}

// Action writes the action plan matching the decision.
type Action struct{}

func (Action) Name() string { return NameAction }

func (Action) Run(_ context.Context, rec pipeline.Record) (pipeline.Record, error) {
	rec.Action = rules.Act(rec.Decision, rec.ForecastSales)
	return rec, nil
}
