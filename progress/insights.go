/*
insights.go - Rule-based insight generation

PURPOSE:
  Turns trend + accountability figures into the strings the dashboard
  surfaces: an overall financial-health label, recommendations, risk
  factors, and opportunities.

RULES:
  Each rule is an independent predicate that appends at most one fixed
  string to one of the three lists. Rules are not mutually exclusive; a
  couple can collect a risk factor, a recommendation, and an opportunity
  in the same evaluation. Output order is the fixed rule order, so the
  result is deterministic.

FINANCIAL HEALTH:
  Priority ladder evaluated top-down; first matching tier wins:
    excellent        consistency >= 85 and growth >= 0
    good             consistency >= 70
    fair             consistency >= 50
    needs-attention  otherwise

PROJECTION:
  nextMonthProjection = mean of the most recent 3 months × (1 + growth/100)
*/
package progress

import "github.com/shopspring/decimal"

// InsightInput is everything the generator looks at.
type InsightInput struct {
	Trends  MonthlyTrends
	Partner PartnerAccountability
	Months  []MonthlyProgress // For the next-month projection window
}

// Fixed strings emitted by the insight rules.
const (
	adviceAutoTransfers   = "Consistency is slipping: set up automatic transfers on payday so the monthly amount moves before it can be spent."
	adviceRevisitExpected = "More months behind than on track: revisit the expected amount together, it may be set higher than the household can sustain."
	advicePartnerSchedule = "One partner is contributing irregularly: agree on a simple contribution schedule you both can keep."
	riskDecliningTrend    = "Contributions are trending down compared with the previous quarter."
	riskUnreliablePartner = "A partner's contribution record is rated poor; shared goals are at risk of slipping."
	chanceRaiseTargets    = "Contributions are growing: consider raising goal targets while the momentum lasts."
	chanceStretchGoal     = "Consistency is strong: room to add a stretch goal or top up the safety pot faster."
)

// GenerateInsights runs the rule set and classifies overall health.
func GenerateInsights(in InsightInput) ProgressInsights {
	out := ProgressInsights{
		FinancialHealth: classifyHealth(in.Trends),
	}

	t := in.Trends

	if t.ConsistencyScore < 80 {
		out.Recommendations = append(out.Recommendations, adviceAutoTransfers)
	}
	if t.ContributionGrowthRate < 0 {
		out.RiskFactors = append(out.RiskFactors, riskDecliningTrend)
	}
	if in.Partner.ReliabilityRating == ReliabilityPoor {
		out.RiskFactors = append(out.RiskFactors, riskUnreliablePartner)
	}
	if t.MonthsBehind > t.MonthsOnTrack {
		out.Recommendations = append(out.Recommendations, adviceRevisitExpected)
	}
	if in.Partner.ConsistencyScore < 70 {
		out.Recommendations = append(out.Recommendations, advicePartnerSchedule)
	}
	if t.ContributionGrowthRate > 0 {
		out.Opportunities = append(out.Opportunities, chanceRaiseTargets)
	}
	if t.ConsistencyScore > 85 {
		out.Opportunities = append(out.Opportunities, chanceStretchGoal)
	}

	out.NextMonthProjection = projectNextMonth(in.Months, t.ContributionGrowthRate)

	return out
}

// classifyHealth walks the priority ladder top-down.
func classifyHealth(t MonthlyTrends) FinancialHealth {
	switch {
	case t.ConsistencyScore >= 85 && t.ContributionGrowthRate >= 0:
		return HealthExcellent
	case t.ConsistencyScore >= 70:
		return HealthGood
	case t.ConsistencyScore >= 50:
		return HealthFair
	default:
		return HealthNeedsAttention
	}
}

// projectNextMonth extends the recent average by the growth rate.
func projectNextMonth(months []MonthlyProgress, growthRatePct float64) decimal.Decimal {
	recent := RecentAverage(months, growthRateWindow)
	factor := decimal.NewFromFloat(1 + growthRatePct/100)
	return recent.Mul(factor)
}
