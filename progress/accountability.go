/*
accountability.go - Partner reliability scoring

PURPOSE:
  Scores one partner's contribution habit across the monthly series:
  how often they showed up (consistency), how much on average, when they
  last contributed, and when the next contribution is expected.

RELIABILITY LADDER (inclusive lower bounds):
  consistency >= 90  excellent
  consistency >= 75  good
  consistency >= 50  fair
  otherwise          poor

NEXT EXPECTED CONTRIBUTION:
  Naive calendar arithmetic: last contribution date + 1 month. No
  business-day or weekend adjustment. With no prior contribution the
  projection is nil ("Unknown" at the API boundary).

NOTE:
  The monthly series only carries one number per partner per month, so the
  last-contribution timestamp comes from the raw contribution records, not
  from the series.
*/
package progress

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reliability ladder bounds.
const (
	reliabilityExcellentMin = 90
	reliabilityGoodMin      = 75
	reliabilityFairMin      = 50
)

// AccountabilityInput identifies the partner and supplies both views of
// their history: the per-month amounts and the raw timestamped records.
type AccountabilityInput struct {
	PartnerID     UserID
	PartnerName   string
	Months        []MonthlyProgress // Partner's share read via PartnerShare
	Contributions []Contribution    // Raw records, any user; filtered internally
	// PartnerShare selects this partner's amount from a monthly record.
	// nil defaults to the PartnerContribution column.
	PartnerShare func(MonthlyProgress) decimal.Decimal
}

// ScorePartner derives the accountability record for one partner.
// An empty series yields zero scores and a poor rating.
func ScorePartner(in AccountabilityInput) PartnerAccountability {
	share := in.PartnerShare
	if share == nil {
		share = func(m MonthlyProgress) decimal.Decimal { return m.PartnerContribution }
	}

	sorted := sortMonthsDesc(in.Months)

	amounts := make([]decimal.Decimal, 0, len(sorted))
	total := decimal.Zero
	activeMonths := 0
	for _, m := range sorted {
		amount := share(m)
		amounts = append(amounts, amount)
		total = total.Add(amount)
		if amount.IsPositive() {
			activeMonths++
		}
	}

	consistency := 0.0
	average := decimal.Zero
	if len(sorted) > 0 {
		consistency = float64(activeMonths) / float64(len(sorted)) * 100
		average = total.Div(decimal.NewFromInt(int64(len(sorted))))
	}

	last := lastContribution(in.Contributions, in.PartnerID)

	var next *time.Time
	if last != nil {
		n := last.AddDate(0, 1, 0)
		next = &n
	}

	return PartnerAccountability{
		PartnerID:                in.PartnerID,
		PartnerName:              in.PartnerName,
		MonthlyContributions:     amounts,
		ConsistencyScore:         consistency,
		AverageContribution:      average,
		LastContributionDate:     last,
		ReliabilityRating:        RateReliability(consistency),
		NextExpectedContribution: next,
	}
}

// RateReliability maps a consistency score onto the four-tier ladder.
func RateReliability(consistency float64) ReliabilityRating {
	switch {
	case consistency >= reliabilityExcellentMin:
		return ReliabilityExcellent
	case consistency >= reliabilityGoodMin:
		return ReliabilityGood
	case consistency >= reliabilityFairMin:
		return ReliabilityFair
	default:
		return ReliabilityPoor
	}
}

// lastContribution returns the max CreatedAt among one user's raw records,
// or nil if they have none.
func lastContribution(contributions []Contribution, userID UserID) *time.Time {
	var last *time.Time
	for _, c := range contributions {
		if c.UserID != userID {
			continue
		}
		if last == nil || c.CreatedAt.After(*last) {
			t := c.CreatedAt
			last = &t
		}
	}
	return last
}
