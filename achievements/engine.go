/*
engine.go - Achievement evaluation

PURPOSE:
  Evaluates a catalog of definitions against one user's raw records and
  prior state, producing new state. This is the only place unlock
  transitions happen.

STATE MACHINE (per achievement):
  locked --(min requirement progress reaches 100)--> unlocked

  The transition is one-way. A previously unlocked achievement stays
  unlocked - and keeps its original UnlockedAt - even if counters later
  regress (e.g. a goal is archived). Progress for an unlocked achievement
  is pinned at 100.

AND SEMANTICS:
  A multi-requirement achievement's progress is the MINIMUM of its
  requirements' individual ratios. Requirements at 100% and 40% give the
  achievement 40%, not 70%.

COUNTERS:
  All six counters are derived in one pass (buildCounters) from the same
  records the progress engine consumes, plus the partnership start date
  and safety-pot balance. Counters for zero-target requirements read as
  complete (nothing to do), keeping the guard-the-denominator rule.
*/
package achievements

import (
	"time"

	"github.com/tandemfin/progress-engine/progress"
)

// EvalInput carries everything one evaluation needs. Evaluation is pure:
// same input and prior state always produce the same output.
type EvalInput struct {
	UserID           progress.UserID
	Contributions    []progress.Contribution // All of the couple's records
	Goals            []progress.Goal
	SafetyPot        progress.SafetyPot
	PartnershipStart time.Time
	Now              time.Time
}

// counters holds the six raw tallies requirements reference.
type counters struct {
	contributionCount   float64
	contributionAmount  float64
	goalCompletions     float64
	streakLength        float64
	partnershipDuration float64
	safetyPotAmount     float64
}

// Evaluate runs the catalog against the input and prior state, returning
// joined Achievement records in catalog order. Prior state entries with no
// matching definition are dropped; definitions with no prior state start
// locked at their computed progress.
func Evaluate(catalog []Definition, prior []State, in EvalInput) []Achievement {
	c := buildCounters(in)

	priorByID := make(map[string]State, len(prior))
	for _, s := range prior {
		priorByID[s.AchievementID] = s
	}

	out := make([]Achievement, 0, len(catalog))
	for _, def := range catalog {
		out = append(out, Achievement{
			Definition: def,
			State:      evaluateOne(def, priorByID[def.ID], c, in.Now),
		})
	}
	return out
}

// evaluateOne advances one achievement's state.
func evaluateOne(def Definition, prior State, c counters, now time.Time) State {
	if prior.Unlocked {
		// One-way: keep the original unlock, pin progress.
		return State{
			AchievementID: def.ID,
			Progress:      100,
			Unlocked:      true,
			UnlockedAt:    prior.UnlockedAt,
		}
	}

	pct := achievementProgress(def, c)

	state := State{
		AchievementID: def.ID,
		Progress:      pct,
	}
	if pct >= 100 {
		state.Unlocked = true
		t := now
		state.UnlockedAt = &t
	}
	return state
}

// achievementProgress is the minimum requirement ratio, capped at 100.
// An achievement with no requirements is trivially complete.
func achievementProgress(def Definition, c counters) float64 {
	if len(def.Requirements) == 0 {
		return 100
	}

	min := 100.0
	for _, req := range def.Requirements {
		pct := requirementProgress(req, c)
		if pct < min {
			min = pct
		}
	}
	return min
}

// requirementProgress is counter/target*100 capped at 100, with the usual
// zero-denominator guard (target <= 0 reads as complete).
func requirementProgress(req Requirement, c counters) float64 {
	if req.Target <= 0 {
		return 100
	}

	value := 0.0
	switch req.Counter {
	case CounterContributionCount:
		value = c.contributionCount
	case CounterContributionAmount:
		value = c.contributionAmount
	case CounterGoalCompletion:
		value = c.goalCompletions
	case CounterStreakLength:
		value = c.streakLength
	case CounterPartnershipDuration:
		value = c.partnershipDuration
	case CounterSafetyPotAmount:
		value = c.safetyPotAmount
	}

	pct := value / req.Target * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// buildCounters tallies all six counters in one pass over the records.
func buildCounters(in EvalInput) counters {
	var c counters

	for _, contrib := range in.Contributions {
		if contrib.UserID != in.UserID {
			continue
		}
		c.contributionCount++
		amount, _ := contrib.Amount.Float64()
		c.contributionAmount += amount
	}

	for _, g := range in.Goals {
		if g.TargetAmount.IsPositive() && g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
			c.goalCompletions++
		}
	}

	streak := ComputeStreak(in.Contributions, in.UserID, in.Now)
	c.streakLength = float64(streak.LongestStreak)

	if !in.PartnershipStart.IsZero() {
		if months := progress.MonthsBetween(in.PartnershipStart, in.Now); months > 0 {
			c.partnershipDuration = float64(months)
		}
	}

	pot, _ := in.SafetyPot.Balance.Float64()
	c.safetyPotAmount = pot

	return c
}
