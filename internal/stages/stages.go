/*
Package stages holds the seven pipeline stages and the fixed order they run in.

Every stage reads the fields earlier stages wrote and sets only its own.
None of them fail the run: unavailable collaborators degrade to the
documented fallback values instead.
*/
package stages

import (
	"github.com/khanglvm/sales-pipeline/internal/pipeline"
	"go.uber.org/zap"
)

// Stage names in execution order.
const (
	NameMonitor    = "monitor"
	NameHistorical = "historical"
	NameInsight    = "insight"
	NameForecast   = "forecast"
	NameDecision   = "decision"
	NameAction     = "action"
	NameJournal    = "journal"
)

// Deps are the collaborators injected into the default stage list.
type Deps struct {
	Averages AverageReader
	Insight  InsightConfig
	Journal  Appender
	Logger   *zap.Logger
}

// Default returns the stages in their fixed order.
func Default(deps Deps) []pipeline.Stage {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return []pipeline.Stage{
		Monitor{},
		NewHistorical(deps.Averages, logger),
		NewInsight(deps.Insight, logger),
		Forecast{},
		Decision{},
		Action{},
		NewJournal(deps.Journal, logger),
	}
}

// NewRunner builds a runner over the default stages.
func NewRunner(deps Deps) *pipeline.Runner {
	return pipeline.NewRunner(deps.Logger, Default(deps)...)
}
