/*
Package achievements evaluates a fixed catalog of achievement definitions
against a couple's raw financial records.

PURPOSE:
  A parallel, independently invoked module next to the progress engine:
  the same raw records (contributions, goals, safety pot) feed a catalog
  of achievement definitions to produce unlock state, progress
  percentages, and contribution streak lengths.

KEY CONCEPTS IN THIS FILE (types.go):
  - Definition: A static catalog entry (id, category, points, rarity,
    requirements)
  - Requirement: One counter threshold (six counter types)
  - State: Per-user dynamic state (progress, unlocked, unlockedAt)
  - StreakData: Consecutive-month contribution runs

DESIGN PRINCIPLES:
  1. AND semantics: A multi-requirement achievement's progress is the
     MINIMUM of its requirements' ratios - one lagging requirement caps
     the whole achievement. Never averaged.
  2. One-way unlocks: locked -> unlocked fires the instant min progress
     reaches 100 and is never revoked; UnlockedAt is set exactly once.
  3. Explicit state: Evaluation is a pure function from (catalog, prior
     state, records, now) to new state. No module-level caches - the host
     owns the single source of truth and passes it in per refresh.

SEE ALSO:
  - catalog.go: The built-in catalog
  - engine.go: Evaluation
  - streak.go: Streak computation
*/
package achievements

import (
	"context"
	"time"

	"github.com/tandemfin/progress-engine/progress"
)

// =============================================================================
// CATALOG DEFINITIONS (static)
// =============================================================================

// Category groups achievements for display.
type Category string

const (
	CategoryContribution Category = "contribution"
	CategoryGoals        Category = "goals"
	CategoryStreaks      Category = "streaks"
	CategoryPartnership  Category = "partnership"
	CategorySafetyNet    Category = "safety_net"
)

// Rarity drives display treatment only; it has no effect on evaluation.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// CounterType names the six raw-record counters requirements can reference.
type CounterType string

const (
	CounterContributionCount   CounterType = "contribution_count"
	CounterContributionAmount  CounterType = "contribution_amount"
	CounterGoalCompletion      CounterType = "goal_completion"
	CounterStreakLength        CounterType = "streak_length"
	CounterPartnershipDuration CounterType = "partnership_duration" // Whole months
	CounterSafetyPotAmount     CounterType = "safety_pot_amount"
)

// ValidCounterType reports whether t is one of the six known counters.
func ValidCounterType(t CounterType) bool {
	switch t {
	case CounterContributionCount, CounterContributionAmount,
		CounterGoalCompletion, CounterStreakLength,
		CounterPartnershipDuration, CounterSafetyPotAmount:
		return true
	}
	return false
}

// Requirement is one counter threshold. Progress toward a requirement is
// counter/target, capped at 100%.
type Requirement struct {
	Counter CounterType `json:"counter"`
	Target  float64     `json:"target"`
}

// Definition is a static catalog entry.
type Definition struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Category     Category      `json:"category"`
	Points       int           `json:"points"`
	Rarity       Rarity        `json:"rarity"`
	Requirements []Requirement `json:"requirements"`
}

// =============================================================================
// DYNAMIC STATE (per user)
// =============================================================================

// State is one user's standing against one definition.
//
// INVARIANT: Unlocked <=> Progress >= 100 at the evaluation that set it;
// once true it stays true even if counters later regress (one-way).
type State struct {
	AchievementID string     `json:"achievement_id"`
	Progress      float64    `json:"progress"` // 0-100
	Unlocked      bool       `json:"unlocked"`
	UnlockedAt    *time.Time `json:"unlocked_at,omitempty"` // Set exactly once
}

// Achievement is a definition joined with a user's state, the shape hosts
// render and serialize.
type Achievement struct {
	Definition
	State
}

// StreakData summarizes a user's consecutive-month contribution runs.
type StreakData struct {
	CurrentStreak      int        `json:"current_streak"` // Months, counting back from now
	LongestStreak      int        `json:"longest_streak"` // Best historical run
	TotalContributions int        `json:"total_contributions"`
	LastContribution   *time.Time `json:"last_contribution,omitempty"`
}

// =============================================================================
// STATE PERSISTENCE
// =============================================================================

// StateStore persists evaluated achievement state so unlock timestamps
// survive restarts. Implemented by store/sqlite and progress/store memory.
type StateStore interface {
	PutAchievementStates(ctx context.Context, coupleID progress.CoupleID, userID progress.UserID, states []State) error
	ListAchievementStates(ctx context.Context, coupleID progress.CoupleID, userID progress.UserID) ([]State, error)
}
