package rules

import (
	"fmt"
	"strings"
)

// ActionRule maps decision phrases to an action template.
type ActionRule struct {
	// Name identifies the action plan.
	Name string

	// Match receives the lower-cased decision text.
	Match func(decision string) bool

	// Render produces the action text for the forecast amount.
	Render func(forecast float64) string
}

func containsAny(phrases ...string) func(string) bool {
	return func(decision string) bool {
		for _, p := range phrases {
			if strings.Contains(decision, p) {
				return true
			}
		}
		return false
	}
}

func containsAll(phrases ...string) func(string) bool {
	return func(decision string) bool {
		for _, p := range phrases {
			if !strings.Contains(decision, p) {
				return false
			}
		}
		return true
	}
}

func template(format string) func(float64) string {
	return func(forecast float64) string {
		return fmt.Sprintf(format, Currency(forecast))
	}
}

// ActionRules is matched against the lower-cased decision, top to bottom.
// "below average" must stay after "performing well above average" and the
// spike/decline phrases stay ahead of the generic trend phrases.
var ActionRules = []ActionRule{
	{
		Name:  "market_opportunity_response",
		Match: containsAny("critical sales spike", "immediate action required"),
		Render: template("[URGENT] Market Opportunity Response: 1) Temporarily increase production by 40%%, " +
			"2) Launch premium tier marketing campaign, 3) Expected revenue: %s, 4) Assign team to analyze campaign drivers"),
	},
	{
		Name:  "growth_acceleration",
		Match: containsAny("significant sales increase", "capitalize on opportunity"),
		Render: template("[HIGH PRIORITY] Growth Acceleration: 1) Scale marketing spend by 25%%, " +
			"2) Hire additional sales team (4-6 reps), 3) Optimize fulfillment, 4) Target revenue: %s"),
	},
	{
		Name:  "sustained_growth",
		Match: containsAny("moderate sales uplift"),
		Render: template("Sustained Growth Plan: 1) Increase marketing by 15%%, 2) Launch email nurture campaigns, " +
			"3) Monitor conversion metrics, 4) Projected Q1 revenue: %s"),
	},
	{
		Name:  "crisis_management",
		Match: containsAny("critical sales decline", "urgent: execute emergency"),
		Render: template("[EMERGENCY] Crisis Management: 1) Contact top 50 customers within 24hrs, " +
			"2) Offer loyalty incentives, 3) Review pricing/features, 4) Activate backup vendors, 5) Recovery target: %s"),
	},
	{
		Name:  "recovery_protocol",
		Match: containsAny("severe sales drop"),
		Render: template("[HIGH PRIORITY] Recovery Protocol: 1) Customer retention campaign (personalized offers), " +
			"2) Product quality review, 3) Competitive analysis, 4) Expected recovery: %s"),
	},
	{
		Name:  "retention_stabilization",
		Match: containsAny("downward trend", "activate preventive"),
		Render: template("Retention & Stabilization: 1) Increase customer touchpoints by 50%%, " +
			"2) Run re-engagement campaigns, 3) Launch referral incentives, 4) Stabilize at %s"),
	},
	{
		Name:  "analysis_monitoring",
		Match: containsAny("minor sales variance", "conduct root cause"),
		Render: func(float64) string {
			return "Analysis & Monitoring: 1) Deep-dive into recent changes, 2) Review customer feedback, " +
				"3) Analyze traffic sources, 4) Prepare contingency plans"
		},
	},
	{
		Name:  "quality_scaling",
		Match: containsAny("performing well above average"),
		Render: template("Quality Scaling: 1) Maintain service levels while growing carefully, " +
			"2) Expand to adjacent markets (10%% budget), 3) Build strategic partnerships, 4) Target sustained revenue: %s"),
	},
	{
		Name:  "steady_state",
		Match: containsAll("healthy", "continue"),
		Render: template("Steady State Operations: 1) Optimize margins by 5%%, 2) Launch customer satisfaction survey, " +
			"3) Test new channels (5%% budget), 4) Maintain revenue at %s"),
	},
	{
		Name:  "growth_exploration",
		Match: containsAny("near historical average"),
		Render: template("Growth Exploration: 1) Identify underutilized market segments, " +
			"2) Run A/B tests for new messaging, 3) Develop adjacent product features, 4) Target growth to %s"),
	},
	{
		Name:  "improvement_plan",
		Match: containsAny("below average"),
		Render: template("Improvement Plan: 1) Analyze 5 recent lost deals, 2) Adjust pricing strategically, " +
			"3) Enhance value proposition, 4) Recovery timeline: 2-3 months, Target: %s"),
	},
	{
		Name:  "strategic_overhaul",
		Match: containsAny("significantly underperforming"),
		Render: template("Strategic Overhaul: 1) Complete market assessment, 2) Revise product positioning, " +
			"3) Restructure sales approach, 4) 90-day turnaround target: %s"),
	},
}

// FallbackAction is used when no rule matches.
var FallbackAction = ActionRule{
	Name:   "monitor_adapt",
	Match:  func(string) bool { return true },
	Render: template("Monitor & Adapt: Closely track performance metrics. Target: %s"),
}

// Select returns the first action rule whose phrases appear in decision.
func Select(decision string) ActionRule {
	lower := strings.ToLower(decision)
	for _, rule := range ActionRules {
		if rule.Match(lower) {
			return rule
		}
	}
	return FallbackAction
}

// Act returns the action text for a decision and forecast.
func Act(decision string, forecast float64) string {
	return Select(decision).Render(forecast)
}
