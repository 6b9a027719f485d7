/*
monthly.go - Monthly progress snapshot construction

PURPOSE:
  The central calculation: combine one month's contributions with the
  couple's expected obligation into a single immutable MonthlyProgress
  record. This is a pure function - rebuilding a month from the same
  inputs always yields an identical record.

STATUS CLASSIFICATION (month level):
  actual >= expected            -> completed
  overUnderPercentage >= -10    -> on-track
  otherwise                     -> behind

  StatusAhead is never produced at month level even though the taxonomy
  declares it. Goal-level classification (goal.go thresholds below) uses
  all four states with different bands. Both behaviors are inherited from
  the product and preserved as-is.

DERIVED FIELDS:
  expensesCovered       = min(totalActual, normalized monthly expenses)
  safetyPotContribution = totalActual - totalExpected when positive, else 0
                          (surplus flows to the safety pot once the
                          month's obligations are met)

SEE ALSO:
  - expected.go: The expected side of the comparison
  - trends.go: Consumes ordered slices of these records
*/
package progress

import (
	"time"

	"github.com/shopspring/decimal"
)

// onTrackFloorPercent is the lower band for an on-track month: up to 10%
// under expected still counts as on track.
const onTrackFloorPercent = -10

// Goal-level status bands (percent of monthly target).
const (
	goalOnTrackPercent = 90
	goalAheadPercent   = 75
)

// BuildInput carries the raw records for one monthly snapshot.
type BuildInput struct {
	Month         MonthKey
	Contributions []Contribution // Any range; filtered to Month internally
	Goals         []Goal
	Expenses      []Expense
	SafetyPot     decimal.Decimal
	UserID        UserID
	PartnerID     UserID
	Now           time.Time
}

// BuildMonthlyProgress derives the snapshot for one calendar month.
// Empty inputs yield a zero-valued record with status completed semantics
// applied consistently (0 actual vs 0 expected => completed).
func BuildMonthlyProgress(in BuildInput) MonthlyProgress {
	monthContributions := ContributionsForMonth(in.Contributions, in.Month)

	expected := ExpectedAmount(ExpectedInput{
		Expenses:  in.Expenses,
		Goals:     in.Goals,
		SafetyPot: in.SafetyPot,
		Now:       in.Now,
	})

	userTotal := SumByActor(monthContributions, in.UserID)
	partnerTotal := SumByActor(monthContributions, in.PartnerID)
	actual := userTotal.Add(partnerTotal)

	overUnder := actual.Sub(expected)
	overUnderPct := percentOf(overUnder, expected)

	monthlyExpenses := NormalizeExpenses(in.Expenses)

	surplus := decimal.Zero
	if actual.GreaterThan(expected) {
		surplus = actual.Sub(expected)
	}

	return MonthlyProgress{
		Month:                 in.Month,
		TotalExpected:         expected,
		TotalActual:           actual,
		UserContribution:      userTotal,
		PartnerContribution:   partnerTotal,
		OverUnderAmount:       overUnder,
		OverUnderPercentage:   overUnderPct,
		Status:                classifyMonth(actual, expected, overUnderPct),
		GoalsProgress:         buildGoalsProgress(in.Goals, monthContributions),
		ExpensesCovered:       minDecimal(actual, monthlyExpenses),
		SafetyPotContribution: surplus,
	}
}

// classifyMonth applies the month-level status bands.
func classifyMonth(actual, expected decimal.Decimal, overUnderPct float64) Status {
	if actual.GreaterThanOrEqual(expected) {
		return StatusCompleted
	}
	if overUnderPct >= onTrackFloorPercent {
		return StatusOnTrack
	}
	return StatusBehind
}

// buildGoalsProgress attributes the month's contributions to each active
// goal and classifies per-goal progress.
func buildGoalsProgress(goals []Goal, monthContributions []Contribution) []GoalProgress {
	var out []GoalProgress
	for _, g := range goals {
		if g.Status != StatusActive {
			continue
		}

		actual := SumForGoal(monthContributions, g.ID)
		pct := percentOf(actual, g.MonthlyTarget)

		out = append(out, GoalProgress{
			GoalID:             g.ID,
			GoalName:           g.Name,
			TargetAmount:       g.TargetAmount,
			CurrentAmount:      g.CurrentAmount,
			MonthlyTarget:      g.MonthlyTarget,
			ActualContribution: actual,
			Progress:           pct,
			Status:             classifyGoal(actual, g.MonthlyTarget, pct),
		})
	}
	return out
}

// classifyGoal applies the goal-level status bands. The bands differ from
// the month-level classifier (90 on-track / 75 ahead) and intentionally
// stay that way.
func classifyGoal(actual, monthlyTarget decimal.Decimal, pct float64) Status {
	if actual.GreaterThanOrEqual(monthlyTarget) {
		return StatusCompleted
	}
	if pct >= goalOnTrackPercent {
		return StatusOnTrack
	}
	if pct >= goalAheadPercent {
		return StatusAhead
	}
	return StatusBehind
}

// BuildMonthlyRange builds snapshots for every month in [from, to],
// newest-first, from a shared record set. Convenience for hosts rendering
// a trailing history.
func BuildMonthlyRange(in BuildInput, from, to MonthKey) []MonthlyProgress {
	if !from.IsValid() || !to.IsValid() || to.Before(from) {
		return nil
	}

	var out []MonthlyProgress
	for m := to; !m.Before(from); m = m.Prev() {
		monthIn := in
		monthIn.Month = m
		out = append(out, BuildMonthlyProgress(monthIn))
	}
	return out
}
