/*
Package progress provides the core monthly progress and accountability
analytics engine for shared (couple) finances.

PURPOSE:
  This package contains the domain types and algorithms that turn raw
  financial records (expenses, goal contributions, goals, a safety-pot
  balance) into derived monthly figures: expected-vs-actual contribution
  totals, trend statistics, a partner reliability score, and a set of
  human-readable insights.

KEY CONCEPTS IN THIS FILE (types.go):
  - Expense / Contribution / Goal: Raw input records, as fetched by a host
  - MonthlyProgress: One immutable derived record per calendar month
  - MonthlyTrends: Aggregate statistics over a monthly series
  - PartnerAccountability: Per-partner reliability figures
  - ProgressInsights: Rule-derived recommendations and risk factors

DESIGN PRINCIPLES:
  1. Purity: Every computation is a pure function over in-memory slices.
     Identical inputs always produce identical outputs.
  2. Precision: Uses decimal.Decimal for money to avoid floating-point
     drift; percentages/scores are float64 derived from guarded division.
  3. Zero-default: Missing or partial input never raises an error. Empty
     slices produce zero-valued aggregates; every ratio guards its
     denominator and substitutes 0 instead of NaN/Inf.
  4. Injected time: Nothing reads the wall clock. Callers pass the
     evaluation instant ("now") wherever relative-date math is needed.

USAGE:
  rec := progress.BuildMonthlyProgress(progress.BuildInput{
      Month:         progress.MonthKeyOf(now),
      Contributions: contributions,
      Goals:         goals,
      Expenses:      expenses,
      SafetyPot:     potBalance,
      UserID:        "user-1",
      PartnerID:     "user-2",
      Now:           now,
  })

SEE ALSO:
  - monthly.go: MonthlyProgress construction
  - trends.go: Multi-month aggregation
  - accountability.go: Partner reliability scoring
  - insights.go: Recommendation/risk generation
*/
package progress

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type UserID string
type CoupleID string
type GoalID string

// =============================================================================
// RAW INPUT RECORDS - Supplied by the host (persistence/API layer)
// =============================================================================

// Frequency describes how often a recurring expense repeats.
type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// RecordStatus marks raw records as active or not. Only active expenses and
// goals participate in expected-amount math.
type RecordStatus string

const (
	StatusActive   RecordStatus = "active"
	StatusPaused   RecordStatus = "paused"
	StatusArchived RecordStatus = "archived"
)

// Expense is a recurring shared expense.
type Expense struct {
	ID        string
	CoupleID  CoupleID
	Name      string
	Amount    decimal.Decimal
	Frequency Frequency
	Status    RecordStatus
}

// Contribution is a single payment made by one partner toward a goal
// (or toward the shared pool when GoalID is empty).
type Contribution struct {
	ID        string
	CoupleID  CoupleID
	UserID    UserID
	GoalID    GoalID
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// Goal is a joint savings goal.
type Goal struct {
	ID            GoalID
	CoupleID      CoupleID
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal // Cumulative, monotonically non-decreasing
	MonthlyTarget decimal.Decimal
	TargetDate    *time.Time // nil = open-ended (12-month horizon assumed)
	Status        RecordStatus
}

// SafetyPot is the couple's emergency-fund balance. The engine only reads
// Balance; UpdatedAt is bookkeeping for hosts.
type SafetyPot struct {
	Balance   decimal.Decimal
	UpdatedAt time.Time
}

// =============================================================================
// STATUS TAXONOMY
// =============================================================================

// Status classifies a month or a goal-month against its expected amount.
//
// NOTE: The month-level classifier never emits StatusAhead (see
// classifyMonth in monthly.go); the value is reachable only at goal level.
// This asymmetry is inherited product behavior and is preserved, not fixed.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusOnTrack   Status = "on-track"
	StatusBehind    Status = "behind"
	StatusAhead     Status = "ahead"
)

// =============================================================================
// DERIVED RECORDS - Engine outputs (plain, serializable, no behavior)
// =============================================================================

// GoalProgress is one goal's slice of a monthly snapshot.
type GoalProgress struct {
	GoalID             GoalID          `json:"goal_id"`
	GoalName           string          `json:"goal_name"`
	TargetAmount       decimal.Decimal `json:"target_amount"`
	CurrentAmount      decimal.Decimal `json:"current_amount"`
	MonthlyTarget      decimal.Decimal `json:"monthly_target"`
	ActualContribution decimal.Decimal `json:"actual_contribution"` // This month only
	Progress           float64         `json:"progress"`            // Percent of monthly target; 0 when target is 0
	Status             Status          `json:"status"`
}

// MonthlyProgress is the immutable per-month snapshot.
//
// INVARIANTS:
//   - TotalActual = UserContribution + PartnerContribution (exact)
//   - OverUnderAmount = TotalActual - TotalExpected
//   - OverUnderPercentage = 0 when TotalExpected is 0 (never NaN/Inf)
//   - ExpensesCovered never exceeds TotalActual nor the monthly expense total
type MonthlyProgress struct {
	Month                 MonthKey        `json:"month"`
	TotalExpected         decimal.Decimal `json:"total_expected"`
	TotalActual           decimal.Decimal `json:"total_actual"`
	UserContribution      decimal.Decimal `json:"user_contribution"`
	PartnerContribution   decimal.Decimal `json:"partner_contribution"`
	OverUnderAmount       decimal.Decimal `json:"over_under_amount"`
	OverUnderPercentage   float64         `json:"over_under_percentage"`
	Status                Status          `json:"status"`
	GoalsProgress         []GoalProgress  `json:"goals_progress"`
	ExpensesCovered       decimal.Decimal `json:"expenses_covered"`
	SafetyPotContribution decimal.Decimal `json:"safety_pot_contribution"`
}

// MonthlyTrends aggregates an ordered monthly series.
type MonthlyTrends struct {
	AverageMonthlyContribution decimal.Decimal `json:"average_monthly_contribution"`
	ContributionGrowthRate     float64         `json:"contribution_growth_rate"` // Percent; 0 with <6 months of history
	ConsistencyScore           float64         `json:"consistency_score"`        // Percent of months on-track or completed
	BestMonth                  MonthKey        `json:"best_month"`
	WorstMonth                 MonthKey        `json:"worst_month"`
	MonthsOnTrack              int             `json:"months_on_track"`
	MonthsBehind               int             `json:"months_behind"`
	MonthsAhead                int             `json:"months_ahead"`
	TotalMonths                int             `json:"total_months"`
}

// ReliabilityRating is a four-tier qualitative label for a partner.
type ReliabilityRating string

const (
	ReliabilityExcellent ReliabilityRating = "excellent"
	ReliabilityGood      ReliabilityRating = "good"
	ReliabilityFair      ReliabilityRating = "fair"
	ReliabilityPoor      ReliabilityRating = "poor"
)

// PartnerAccountability is the per-partner derived record.
type PartnerAccountability struct {
	PartnerID            UserID            `json:"partner_id"`
	PartnerName          string            `json:"partner_name"`
	MonthlyContributions []decimal.Decimal `json:"monthly_contributions"` // Mirrors the monthly series order
	ConsistencyScore     float64           `json:"consistency_score"`     // Percent of months with any contribution
	AverageContribution  decimal.Decimal   `json:"average_contribution"`
	LastContributionDate *time.Time        `json:"last_contribution_date"` // nil = never contributed
	ReliabilityRating    ReliabilityRating `json:"reliability_rating"`
	// nil means "Unknown": no prior contribution to project from.
	NextExpectedContribution *time.Time `json:"next_expected_contribution"`
}

// FinancialHealth is the overall classification emitted by the insight
// generator.
type FinancialHealth string

const (
	HealthExcellent      FinancialHealth = "excellent"
	HealthGood           FinancialHealth = "good"
	HealthFair           FinancialHealth = "fair"
	HealthNeedsAttention FinancialHealth = "needs-attention"
)

// ProgressInsights is derived on demand and never stored.
type ProgressInsights struct {
	FinancialHealth     FinancialHealth `json:"financial_health"`
	Recommendations     []string        `json:"recommendations"`
	RiskFactors         []string        `json:"risk_factors"`
	Opportunities       []string        `json:"opportunities"`
	NextMonthProjection decimal.Decimal `json:"next_month_projection"`
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

// percentOf returns value/base*100 as float64, or 0 when base is zero.
// Every ratio in this package goes through here (division-by-zero guard).
func percentOf(value, base decimal.Decimal) float64 {
	if base.IsZero() {
		return 0
	}
	pct, _ := value.Div(base).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

// minDecimal returns the smaller of a and b.
func minDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
