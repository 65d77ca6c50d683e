/*
Package pipeline runs a fixed, ordered list of stages over a sales Record.

Stages receive the Record by value and return an updated copy. The runner
threads each stage's output into the next one; it never skips, reorders or
retries a stage.
*/
package pipeline

// DefaultLatestSales is assumed when the caller does not supply latest_sales.
const DefaultLatestSales = 100000.0

// Record is the per-run state passed through every stage.
type Record struct {
	// LatestSales is the most recent observed sales value (caller).
	LatestSales float64 `json:"latest_sales"`

	// Anomaly reports whether LatestSales is outside the fixed absolute band (monitor).
	Anomaly bool `json:"anomaly"`

	// ZScore is the deviation from the reference mean in reference-scale units (monitor).
	ZScore float64 `json:"z_score"`

	// SQLAvgSales is the historical average sale amount, 0 when unavailable (historical).
	SQLAvgSales float64 `json:"sql_avg_sales"`

	// RAGInsight is the best-matching knowledge snippet or a fallback message (insight).
	RAGInsight string `json:"rag_insight"`

	// ForecastSales is the projected next-period sales value (forecast).
	ForecastSales float64 `json:"forecast_sales"`

	// Decision is the narrative recommendation (decision).
	Decision string `json:"decision"`

	// Action is the multi-step action plan (action).
	Action string `json:"action"`
}

// Input is the caller-facing shape of a Record. Every field is optional.
type Input struct {
	LatestSales   *float64 `json:"latest_sales,omitempty"`
	Anomaly       *bool    `json:"anomaly,omitempty"`
	ZScore        *float64 `json:"z_score,omitempty"`
	SQLAvgSales   *float64 `json:"sql_avg_sales,omitempty"`
	RAGInsight    *string  `json:"rag_insight,omitempty"`
	ForecastSales *float64 `json:"forecast_sales,omitempty"`
	Decision      *string  `json:"decision,omitempty"`
	Action        *string  `json:"action,omitempty"`
}

// Record converts the input into a Record, filling defaults for missing fields.
func (in Input) Record() Record {
	rec := Record{LatestSales: DefaultLatestSales}
	if in.LatestSales != nil {
		rec.LatestSales = *in.LatestSales
	}
	if in.Anomaly != nil {
		rec.Anomaly = *in.Anomaly
	}
	if in.ZScore != nil {
		rec.ZScore = *in.ZScore
	}
	if in.SQLAvgSales != nil {
		rec.SQLAvgSales = *in.SQLAvgSales
	}
	if in.RAGInsight != nil {
		rec.RAGInsight = *in.RAGInsight
	}
	if in.ForecastSales != nil {
		rec.ForecastSales = *in.ForecastSales
	}
	if in.Decision != nil {
		rec.Decision = *in.Decision
	}
	if in.Action != nil {
		rec.Action = *in.Action
	}
	return rec
}

// NewRecord returns a fresh Record for a sales reading with every other field zeroed.
func NewRecord(latestSales float64) Record {
	return Record{LatestSales: latestSales}
}
