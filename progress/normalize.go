/*
normalize.go - Record normalization

PURPOSE:
  Collapses raw records onto a monthly grid so every downstream
  calculation works with one consistent unit: "money per calendar month".

FREQUENCY NORMALIZATION:
  weekly   ×4.33  (average weeks per month)
  monthly  ×1
  yearly   ÷12

  Only expenses with status=active are counted. Unknown frequencies are
  treated as monthly rather than rejected (zero-default input handling).

CONTRIBUTION PARTITIONING:
  Contributions are grouped by the calendar month of their CreatedAt
  timestamp and, within a month, by contributing user. Empty inputs
  produce empty maps/zero totals, never errors.

SEE ALSO:
  - expected.go: Consumes the normalized expense total
  - monthly.go: Consumes the per-month, per-actor partitions
*/
package progress

import "github.com/shopspring/decimal"

// weeksPerMonth is the conventional average used to spread weekly expenses
// across a month.
var weeksPerMonth = decimal.NewFromFloat(4.33)

var twelve = decimal.NewFromInt(12)

// MonthlyAmount converts a single expense to its monthly-normalized amount.
func MonthlyAmount(e Expense) decimal.Decimal {
	switch e.Frequency {
	case FrequencyWeekly:
		return e.Amount.Mul(weeksPerMonth)
	case FrequencyYearly:
		return e.Amount.Div(twelve)
	default:
		return e.Amount
	}
}

// NormalizeExpenses sums the monthly-normalized amounts of all active
// expenses. An empty slice yields zero.
func NormalizeExpenses(expenses []Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.Status != StatusActive {
			continue
		}
		total = total.Add(MonthlyAmount(e))
	}
	return total
}

// ContributionsForMonth filters contributions to one calendar month.
func ContributionsForMonth(contributions []Contribution, month MonthKey) []Contribution {
	var out []Contribution
	for _, c := range contributions {
		if MonthKeyOf(c.CreatedAt) == month {
			out = append(out, c)
		}
	}
	return out
}

// PartitionByMonth groups contributions by the calendar month of their
// CreatedAt timestamp.
func PartitionByMonth(contributions []Contribution) map[MonthKey][]Contribution {
	byMonth := make(map[MonthKey][]Contribution)
	for _, c := range contributions {
		key := MonthKeyOf(c.CreatedAt)
		byMonth[key] = append(byMonth[key], c)
	}
	return byMonth
}

// SumByActor totals contributions for a single user.
func SumByActor(contributions []Contribution, userID UserID) decimal.Decimal {
	total := decimal.Zero
	for _, c := range contributions {
		if c.UserID == userID {
			total = total.Add(c.Amount)
		}
	}
	return total
}

// SumForGoal totals contributions attributed to a single goal.
func SumForGoal(contributions []Contribution, goalID GoalID) decimal.Decimal {
	total := decimal.Zero
	for _, c := range contributions {
		if c.GoalID == goalID {
			total = total.Add(c.Amount)
		}
	}
	return total
}
