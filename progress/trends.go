/*
trends.go - Multi-month trend aggregation

PURPOSE:
  Rolls an ordered series of MonthlyProgress records up into the
  statistics the dashboard shows: average contribution, growth rate,
  consistency score, best/worst month, and status-bucket counts.

ORDERING:
  The aggregator sorts its input newest-first by month key before doing
  anything else. Callers may pass records in any order.

GROWTH RATE:
  Percentage change between the mean of the most recent 3 months and the
  mean of the 3 months before those. Requires at least 6 months of
  history; with fewer the rate is 0 (no extrapolation from short series).

TIE-BREAKING:
  Best/worst month ties on TotalActual resolve to the first record
  encountered in the newest-first scan, i.e. the most recent of the tied
  months. The upstream product left this unspecified; this rule is the
  documented choice and is pinned by tests.
*/
package progress

import (
	"sort"

	"github.com/shopspring/decimal"
)

// growthRateWindow is how many months each side of the growth comparison
// uses; growth needs 2× this much history.
const growthRateWindow = 3

// ComputeTrends aggregates a monthly series. An empty series yields a
// zero-valued MonthlyTrends.
func ComputeTrends(months []MonthlyProgress) MonthlyTrends {
	if len(months) == 0 {
		return MonthlyTrends{}
	}

	sorted := sortMonthsDesc(months)

	total := decimal.Zero
	onTrack, behind, ahead := 0, 0, 0
	best, worst := sorted[0], sorted[0]

	for _, m := range sorted {
		total = total.Add(m.TotalActual)

		switch m.Status {
		case StatusOnTrack, StatusCompleted:
			onTrack++
		case StatusBehind:
			behind++
		case StatusAhead:
			ahead++
		}

		if m.TotalActual.GreaterThan(best.TotalActual) {
			best = m
		}
		if m.TotalActual.LessThan(worst.TotalActual) {
			worst = m
		}
	}

	n := len(sorted)

	return MonthlyTrends{
		AverageMonthlyContribution: total.Div(decimal.NewFromInt(int64(n))),
		ContributionGrowthRate:     growthRate(sorted),
		ConsistencyScore:           float64(onTrack) / float64(n) * 100,
		BestMonth:                  best.Month,
		WorstMonth:                 worst.Month,
		MonthsOnTrack:              onTrack,
		MonthsBehind:               behind,
		MonthsAhead:                ahead,
		TotalMonths:                n,
	}
}

// growthRate compares the recent 3-month mean against the prior 3-month
// mean. Input must already be newest-first.
func growthRate(sorted []MonthlyProgress) float64 {
	if len(sorted) < 2*growthRateWindow {
		return 0
	}

	recent := meanActual(sorted[:growthRateWindow])
	prior := meanActual(sorted[growthRateWindow : 2*growthRateWindow])

	return percentOf(recent.Sub(prior), prior)
}

func meanActual(months []MonthlyProgress) decimal.Decimal {
	total := decimal.Zero
	for _, m := range months {
		total = total.Add(m.TotalActual)
	}
	return total.Div(decimal.NewFromInt(int64(len(months))))
}

// RecentAverage returns the mean TotalActual of the most recent `window`
// months (fewer if the series is shorter). Zero for an empty series.
func RecentAverage(months []MonthlyProgress, window int) decimal.Decimal {
	sorted := sortMonthsDesc(months)
	if len(sorted) == 0 || window <= 0 {
		return decimal.Zero
	}
	if window > len(sorted) {
		window = len(sorted)
	}
	return meanActual(sorted[:window])
}

// sortMonthsDesc returns a newest-first copy; the input is not mutated
// (snapshots are immutable once built).
func sortMonthsDesc(months []MonthlyProgress) []MonthlyProgress {
	sorted := make([]MonthlyProgress, len(months))
	copy(sorted, months)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].Month.Before(sorted[i].Month)
	})
	return sorted
}
