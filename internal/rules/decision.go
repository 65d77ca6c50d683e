package rules

import "fmt"

// Signals are the inputs the decision table classifies.
type Signals struct {
	Anomaly     bool
	ZScore      float64
	LatestSales float64
	AvgSales    float64
}

// DecisionRule pairs a predicate with the narrative it produces.
type DecisionRule struct {
	// Name identifies the branch in logs and tests.
	Name string

	// Match reports whether this branch applies.
	Match func(s Signals) bool

	// Narrate renders the decision text.
	Narrate func(s Signals) string
}

// Decision branch names.
const (
	DecisionCriticalSpike    = "critical_spike"
	DecisionSignificantRise  = "significant_increase"
	DecisionModerateUplift   = "moderate_uplift"
	DecisionCriticalDecline  = "critical_decline"
	DecisionSevereDrop       = "severe_drop"
	DecisionDownwardTrend    = "downward_trend"
	DecisionMinorVariance    = "minor_variance"
	DecisionWellAboveAverage = "well_above_average"
	DecisionHealthy          = "healthy"
	DecisionNearAverage      = "near_average"
	DecisionBelowAverage     = "below_average"
	DecisionUnderperforming  = "significantly_underperforming"
)

// Ratios against the historical average used by the non-anomalous branches.
const (
	wellAboveRatio = 1.3
	healthyRatio   = 1.1
	nearRatio      = 0.9
	belowRatio     = 0.7
)

func fixed(text string) func(Signals) string {
	return func(Signals) string { return text }
}

// DecisionRules is evaluated top to bottom. The anomalous block ends with a
// catch-all (minor variance) and so does the non-anomalous block.
//
// Minor variance is reachable when the absolute sales band flags an anomaly
// while the z-score stays within [-1.5, 1.5]. The two signals are independent.
var DecisionRules = []DecisionRule{
	{
		Name:  DecisionCriticalSpike,
		Match: func(s Signals) bool { return s.Anomaly && s.ZScore > 3 },
		Narrate: fixed("Critical sales spike detected (Z>3). Immediate action required: " +
			"investigate market opportunity, optimize inventory, prepare scaling resources."),
	},
	{
		Name:  DecisionSignificantRise,
		Match: func(s Signals) bool { return s.Anomaly && s.ZScore > 2 },
		Narrate: func(s Signals) string {
			return fmt.Sprintf("Significant sales increase (+%s). Capitalize on opportunity: "+
				"expand marketing budget, enhance customer support, analyze campaign drivers.",
				Currency(s.LatestSales-s.AvgSales))
		},
	},
	{
		Name:  DecisionModerateUplift,
		Match: func(s Signals) bool { return s.Anomaly && s.ZScore > 1.5 },
		Narrate: fixed("Moderate sales uplift detected. Monitor trends closely and prepare " +
			"marketing campaigns to sustain momentum."),
	},
	{
		Name:  DecisionCriticalDecline,
		Match: func(s Signals) bool { return s.Anomaly && s.ZScore < -3 },
		Narrate: fixed("Critical sales decline (Z<-3). URGENT: Execute emergency retention " +
			"protocol, contact top customers, review pricing strategy."),
	},
	{
		Name:  DecisionSevereDrop,
		Match: func(s Signals) bool { return s.Anomaly && s.ZScore < -2 },
		Narrate: func(s Signals) string {
			return fmt.Sprintf("Severe sales drop (-%s). Launch customer recovery campaigns, "+
				"review product quality, analyze competitor activity.",
				Currency(s.AvgSales-s.LatestSales))
		},
	},
	{
		Name:  DecisionDownwardTrend,
		Match: func(s Signals) bool { return s.Anomaly && s.ZScore < -1.5 },
		Narrate: fixed("Downward trend detected. Activate preventive retention strategies, " +
			"increase customer engagement, conduct competitive analysis."),
	},
	{
		Name:    DecisionMinorVariance,
		Match:   func(s Signals) bool { return s.Anomaly },
		Narrate: fixed("Minor sales variance. Conduct root cause analysis to prevent further decline."),
	},
	{
		Name:  DecisionWellAboveAverage,
		Match: func(s Signals) bool { return s.LatestSales > s.AvgSales*wellAboveRatio },
		Narrate: fixed("Sales performing well above average. Focus on maintaining quality " +
			"while scaling operations cautiously."),
	},
	{
		Name:  DecisionHealthy,
		Match: func(s Signals) bool { return s.LatestSales > s.AvgSales*healthyRatio },
		Narrate: func(s Signals) string {
			return fmt.Sprintf("Sales performance is healthy at %s. Continue current strategy "+
				"with incremental optimization.", Currency(s.LatestSales))
		},
	},
	{
		Name:  DecisionNearAverage,
		Match: func(s Signals) bool { return s.LatestSales > s.AvgSales*nearRatio },
		Narrate: fixed("Sales near historical average. Maintain current operations while " +
			"exploring new market segments."),
	},
	{
		Name:  DecisionBelowAverage,
		Match: func(s Signals) bool { return s.LatestSales > s.AvgSales*belowRatio },
		Narrate: func(s Signals) string {
			return fmt.Sprintf("Sales below average by %.0f%%. Implement gradual improvement "+
				"plan without major disruption.", (1-s.LatestSales/s.AvgSales)*100)
		},
	},
	{
		Name:  DecisionUnderperforming,
		Match: func(Signals) bool { return true },
		Narrate: fixed("Sales significantly underperforming. Review pricing, product fit, " +
			"and marketing effectiveness."),
	},
}

// Classify returns the first decision rule matching s.
func Classify(s Signals) DecisionRule {
	for _, rule := range DecisionRules {
		if rule.Match(s) {
			return rule
		}
	}
	// The last rule always matches.
	return DecisionRules[len(DecisionRules)-1]
}

// Decide returns the decision narrative for s.
func Decide(s Signals) string {
	return Classify(s).Narrate(s)
}
