/*
expected.go - Expected monthly obligation

PURPOSE:
  Derives "what this couple should contribute this month" from three
  additive components:

    totalExpected = normalized recurring expenses
                  + Σ per-goal monthly installment (remaining ÷ months left)
                  + safety-pot monthly top-up

GOAL INSTALLMENTS:
  remaining     = target_amount - current_amount
  monthsToTarget = max(1, whole months from now to target_date)
                   (12-month horizon when no target date is set)
  Goals that are not active, or already funded, contribute nothing.

SAFETY POT:
  target = 6 × normalized monthly expenses. While under target, the
  shortfall is spread over 12 months; at or above target the top-up is 0.

GUARANTEES:
  Result is always >= 0. Missing optional fields default to 0; nothing
  here returns an error.
*/
package progress

import (
	"time"

	"github.com/shopspring/decimal"
)

// Months of runway the safety pot targets.
var safetyPotMultiple = decimal.NewFromInt(6)

// defaultGoalHorizonMonths applies to goals without a target date.
const defaultGoalHorizonMonths = 1 * 12

// ExpectedInput carries everything the expected-amount calculation needs.
type ExpectedInput struct {
	Expenses  []Expense
	Goals     []Goal
	SafetyPot decimal.Decimal
	Now       time.Time
}

// ExpectedBreakdown itemizes the expected monthly obligation.
type ExpectedBreakdown struct {
	Expenses         decimal.Decimal `json:"expenses"`
	GoalInstallments decimal.Decimal `json:"goal_installments"`
	SafetyPotTopUp   decimal.Decimal `json:"safety_pot_top_up"`
	Total            decimal.Decimal `json:"total"`
}

// ExpectedAmount computes the total expected monthly obligation.
func ExpectedAmount(in ExpectedInput) decimal.Decimal {
	return ExpectedAmountBreakdown(in).Total
}

// ExpectedAmountBreakdown computes the obligation with its components.
func ExpectedAmountBreakdown(in ExpectedInput) ExpectedBreakdown {
	expenses := NormalizeExpenses(in.Expenses)

	installments := decimal.Zero
	for _, g := range in.Goals {
		installments = installments.Add(GoalInstallment(g, in.Now))
	}

	topUp := SafetyPotTopUp(expenses, in.SafetyPot)

	return ExpectedBreakdown{
		Expenses:         expenses,
		GoalInstallments: installments,
		SafetyPotTopUp:   topUp,
		Total:            expenses.Add(installments).Add(topUp),
	}
}

// GoalInstallment returns one goal's share of the monthly obligation:
// the remaining amount spread over the months left until its target date.
func GoalInstallment(g Goal, now time.Time) decimal.Decimal {
	if g.Status != StatusActive {
		return decimal.Zero
	}

	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	if !remaining.IsPositive() {
		return decimal.Zero
	}

	months := defaultGoalHorizonMonths
	if g.TargetDate != nil {
		months = MonthsBetween(now, *g.TargetDate)
		if months < 1 {
			months = 1
		}
	}

	return remaining.Div(decimal.NewFromInt(int64(months)))
}

// SafetyPotTopUp returns the monthly top-up needed to reach the 6-month
// runway target within a year, or zero once the pot is funded.
func SafetyPotTopUp(monthlyExpenses, currentPot decimal.Decimal) decimal.Decimal {
	target := monthlyExpenses.Mul(safetyPotMultiple)
	if currentPot.GreaterThanOrEqual(target) {
		return decimal.Zero
	}
	return target.Sub(currentPot).Div(twelve)
}
