package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectFirstMatchWins(t *testing.T) {
	tests := []struct {
		name     string
		decision string
		want     string
	}{
		{"spike", "Critical sales spike detected (Z>3).", "market_opportunity_response"},
		{"spike outranks below average", "Critical sales spike while region is below average", "market_opportunity_response"},
		{"severe drop outranks below average", "Severe sales drop: sales below average", "recovery_protocol"},
		{"well above average is not below average", "Sales performing well above average.", "quality_scaling"},
		{"healthy needs continue", "Sales performance is healthy.", "monitor_adapt"},
		{"healthy and continue", "Sales are healthy. Continue.", "steady_state"},
		{"case insensitive", "SEVERE SALES DROP", "recovery_protocol"},
		{"alternate phrase", "URGENT: Execute emergency plan", "crisis_management"},
		{"underperforming", "Sales significantly underperforming.", "strategic_overhaul"},
		{"unknown", "nothing to see", "monitor_adapt"},
		{"empty", "", "monitor_adapt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Select(tt.decision).Name)
		})
	}
}

func TestEveryDecisionHasDedicatedAction(t *testing.T) {
	cases := map[string]Signals{
		"market_opportunity_response": {Anomaly: true, ZScore: 4, LatestSales: 250000, AvgSales: 95000},
		"growth_acceleration":         {Anomaly: true, ZScore: 2.5, LatestSales: 250000, AvgSales: 95000},
		"sustained_growth":            {Anomaly: true, ZScore: 1.8, LatestSales: 250000, AvgSales: 95000},
		"crisis_management":           {Anomaly: true, ZScore: -4, LatestSales: 1000, AvgSales: 95000},
		"recovery_protocol":           {Anomaly: true, ZScore: -2.5, LatestSales: 20000, AvgSales: 95000},
		"retention_stabilization":     {Anomaly: true, ZScore: -1.8, LatestSales: 40000, AvgSales: 95000},
		"analysis_monitoring":         {Anomaly: true, ZScore: 0, LatestSales: 40000, AvgSales: 95000},
		"quality_scaling":             {LatestSales: 150000, AvgSales: 95000},
		"steady_state":                {LatestSales: 110000, AvgSales: 95000},
		"growth_exploration":          {LatestSales: 95000, AvgSales: 95000},
		"improvement_plan":            {LatestSales: 75000, AvgSales: 95000},
		"strategic_overhaul":          {LatestSales: 50000, AvgSales: 95000},
	}

	for want, signals := range cases {
		assert.Equal(t, want, Select(Decide(signals)).Name, "signals %+v", signals)
	}
}

func TestActTemplates(t *testing.T) {
	assert.Equal(t,
		"[URGENT] Market Opportunity Response: 1) Temporarily increase production by 40%, 2) Launch premium tier marketing campaign, 3) Expected revenue: $104,500, 4) Assign team to analyze campaign drivers",
		Act("Critical sales spike detected (Z>3).", 104500.00000000001))

	assert.Equal(t,
		"Analysis & Monitoring: 1) Deep-dive into recent changes, 2) Review customer feedback, 3) Analyze traffic sources, 4) Prepare contingency plans",
		Act("Minor sales variance.", 12345))

	assert.Equal(t,
		"Monitor & Adapt: Closely track performance metrics. Target: $5,000",
		Act("", 5000))
}
