/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's internal types from the external API contract, allowing:
  - Field renaming without breaking clients
  - Display formatting (localized currency strings) at the edge
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Monetary fields are serialized as float64 for chart-friendly JSON, with
  a parallel "*_display" string carrying the localized rendering from
  progress.FormatAmount. Exactness lives in the engine; DTOs are for
  display.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tandemfin/progress-engine/achievements"
	"github.com/tandemfin/progress-engine/progress"
)

// =============================================================================
// COUPLE / RAW RECORD TYPES
// =============================================================================

// CoupleDTO represents a couple in API responses.
type CoupleDTO struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	PartnerID   string `json:"partner_id"`
	PartnerName string `json:"partner_name"`
	Currency    string `json:"currency"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// CreateCoupleRequest is the request to create a couple.
type CreateCoupleRequest struct {
	ID          string `json:"id,omitempty"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	PartnerID   string `json:"partner_id"`
	PartnerName string `json:"partner_name"`
	Currency    string `json:"currency,omitempty"`
}

// ExpenseDTO represents a recurring expense.
type ExpenseDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency"`
	Status    string  `json:"status"`
	// Monthly-normalized amount, for display next to the raw amount.
	MonthlyAmount float64 `json:"monthly_amount"`
}

// CreateExpenseRequest is the request to add an expense.
type CreateExpenseRequest struct {
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency"`
	Status    string  `json:"status,omitempty"` // Defaults to active
}

// GoalDTO represents a savings goal.
type GoalDTO struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	MonthlyTarget float64 `json:"monthly_target"`
	TargetDate    *string `json:"target_date,omitempty"`
	Status        string  `json:"status"`
}

// CreateGoalRequest is the request to add a goal.
type CreateGoalRequest struct {
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount,omitempty"`
	MonthlyTarget float64 `json:"monthly_target,omitempty"`
	TargetDate    *string `json:"target_date,omitempty"` // "2006-01-02"
	Status        string  `json:"status,omitempty"`
}

// ContributionDTO represents one contribution record.
type ContributionDTO struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	GoalID    string  `json:"goal_id,omitempty"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"created_at"`
}

// CreateContributionRequest is the request to record a contribution.
type CreateContributionRequest struct {
	UserID    string  `json:"user_id"`
	GoalID    string  `json:"goal_id,omitempty"`
	Amount    float64 `json:"amount"`
	CreatedAt *string `json:"created_at,omitempty"` // RFC3339; defaults to now
}

// SafetyPotDTO represents the safety-pot balance.
type SafetyPotDTO struct {
	Balance        float64 `json:"balance"`
	BalanceDisplay string  `json:"balance_display"`
	UpdatedAt      string  `json:"updated_at,omitempty"`
}

// SetSafetyPotRequest is the request to set the safety-pot balance.
type SetSafetyPotRequest struct {
	Balance float64 `json:"balance"`
}

// =============================================================================
// ENGINE OUTPUT TYPES
// =============================================================================

// GoalProgressDTO is one goal's slice of a monthly snapshot.
type GoalProgressDTO struct {
	GoalID             string  `json:"goal_id"`
	GoalName           string  `json:"goal_name"`
	TargetAmount       float64 `json:"target_amount"`
	CurrentAmount      float64 `json:"current_amount"`
	MonthlyTarget      float64 `json:"monthly_target"`
	ActualContribution float64 `json:"actual_contribution"`
	Progress           float64 `json:"progress"`
	Status             string  `json:"status"`
}

// MonthlyProgressDTO is the per-month snapshot as rendered to clients.
type MonthlyProgressDTO struct {
	Month                 string            `json:"month"`
	TotalExpected         float64           `json:"total_expected"`
	TotalActual           float64           `json:"total_actual"`
	TotalActualDisplay    string            `json:"total_actual_display"`
	UserContribution      float64           `json:"user_contribution"`
	PartnerContribution   float64           `json:"partner_contribution"`
	OverUnderAmount       float64           `json:"over_under_amount"`
	OverUnderPercentage   float64           `json:"over_under_percentage"`
	Status                string            `json:"status"`
	GoalsProgress         []GoalProgressDTO `json:"goals_progress"`
	ExpensesCovered       float64           `json:"expenses_covered"`
	SafetyPotContribution float64           `json:"safety_pot_contribution"`
}

// TrendsDTO is the aggregate view over a monthly series.
type TrendsDTO struct {
	AverageMonthlyContribution float64 `json:"average_monthly_contribution"`
	ContributionGrowthRate     float64 `json:"contribution_growth_rate"`
	ConsistencyScore           float64 `json:"consistency_score"`
	BestMonth                  string  `json:"best_month"`
	WorstMonth                 string  `json:"worst_month"`
	MonthsOnTrack              int     `json:"months_on_track"`
	MonthsBehind               int     `json:"months_behind"`
	MonthsAhead                int     `json:"months_ahead"`
	TotalMonths                int     `json:"total_months"`
}

// AccountabilityDTO is the per-partner reliability view.
type AccountabilityDTO struct {
	PartnerID            string    `json:"partner_id"`
	PartnerName          string    `json:"partner_name"`
	MonthlyContributions []float64 `json:"monthly_contributions"`
	ConsistencyScore     float64   `json:"consistency_score"`
	AverageContribution  float64   `json:"average_contribution"`
	LastContributionDate string    `json:"last_contribution_date,omitempty"`
	ReliabilityRating    string    `json:"reliability_rating"`
	// "Unknown" when the partner has never contributed.
	NextExpectedContribution string `json:"next_expected_contribution"`
}

// InsightsDTO is the rule-generated guidance view.
type InsightsDTO struct {
	FinancialHealth     string   `json:"financial_health"`
	Recommendations     []string `json:"recommendations"`
	RiskFactors         []string `json:"risk_factors"`
	Opportunities       []string `json:"opportunities"`
	NextMonthProjection float64  `json:"next_month_projection"`
}

// AchievementDTO joins a catalog entry with a user's state.
type AchievementDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Points      int     `json:"points"`
	Rarity      string  `json:"rarity"`
	Progress    float64 `json:"progress"`
	Unlocked    bool    `json:"unlocked"`
	UnlockedAt  string  `json:"unlocked_at,omitempty"`
}

// StreakDTO is the consecutive-month contribution view.
type StreakDTO struct {
	UserID             string `json:"user_id"`
	CurrentStreak      int    `json:"current_streak"`
	LongestStreak      int    `json:"longest_streak"`
	TotalContributions int    `json:"total_contributions"`
	LastContribution   string `json:"last_contribution,omitempty"`
}

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toMonthlyProgressDTO(m progress.MonthlyProgress, currency string) MonthlyProgressDTO {
	goals := make([]GoalProgressDTO, 0, len(m.GoalsProgress))
	for _, g := range m.GoalsProgress {
		goals = append(goals, GoalProgressDTO{
			GoalID:             string(g.GoalID),
			GoalName:           g.GoalName,
			TargetAmount:       g.TargetAmount.InexactFloat64(),
			CurrentAmount:      g.CurrentAmount.InexactFloat64(),
			MonthlyTarget:      g.MonthlyTarget.InexactFloat64(),
			ActualContribution: g.ActualContribution.InexactFloat64(),
			Progress:           g.Progress,
			Status:             string(g.Status),
		})
	}

	return MonthlyProgressDTO{
		Month:                 string(m.Month),
		TotalExpected:         m.TotalExpected.InexactFloat64(),
		TotalActual:           m.TotalActual.InexactFloat64(),
		TotalActualDisplay:    progress.FormatAmount(m.TotalActual, currency, "en"),
		UserContribution:      m.UserContribution.InexactFloat64(),
		PartnerContribution:   m.PartnerContribution.InexactFloat64(),
		OverUnderAmount:       m.OverUnderAmount.InexactFloat64(),
		OverUnderPercentage:   m.OverUnderPercentage,
		Status:                string(m.Status),
		GoalsProgress:         goals,
		ExpensesCovered:       m.ExpensesCovered.InexactFloat64(),
		SafetyPotContribution: m.SafetyPotContribution.InexactFloat64(),
	}
}

func toTrendsDTO(t progress.MonthlyTrends) TrendsDTO {
	return TrendsDTO{
		AverageMonthlyContribution: t.AverageMonthlyContribution.InexactFloat64(),
		ContributionGrowthRate:     t.ContributionGrowthRate,
		ConsistencyScore:           t.ConsistencyScore,
		BestMonth:                  string(t.BestMonth),
		WorstMonth:                 string(t.WorstMonth),
		MonthsOnTrack:              t.MonthsOnTrack,
		MonthsBehind:               t.MonthsBehind,
		MonthsAhead:                t.MonthsAhead,
		TotalMonths:                t.TotalMonths,
	}
}

func toAccountabilityDTO(a progress.PartnerAccountability) AccountabilityDTO {
	amounts := make([]float64, 0, len(a.MonthlyContributions))
	for _, m := range a.MonthlyContributions {
		amounts = append(amounts, m.InexactFloat64())
	}

	dto := AccountabilityDTO{
		PartnerID:                string(a.PartnerID),
		PartnerName:              a.PartnerName,
		MonthlyContributions:     amounts,
		ConsistencyScore:         a.ConsistencyScore,
		AverageContribution:      a.AverageContribution.InexactFloat64(),
		ReliabilityRating:        string(a.ReliabilityRating),
		NextExpectedContribution: "Unknown",
	}
	if a.LastContributionDate != nil {
		dto.LastContributionDate = a.LastContributionDate.Format(time.RFC3339)
	}
	if a.NextExpectedContribution != nil {
		dto.NextExpectedContribution = a.NextExpectedContribution.Format("2006-01-02")
	}
	return dto
}

func toInsightsDTO(i progress.ProgressInsights) InsightsDTO {
	return InsightsDTO{
		FinancialHealth:     string(i.FinancialHealth),
		Recommendations:     emptyIfNil(i.Recommendations),
		RiskFactors:         emptyIfNil(i.RiskFactors),
		Opportunities:       emptyIfNil(i.Opportunities),
		NextMonthProjection: i.NextMonthProjection.InexactFloat64(),
	}
}

func toAchievementDTO(a achievements.Achievement) AchievementDTO {
	dto := AchievementDTO{
		ID:          a.Definition.ID,
		Name:        a.Name,
		Description: a.Description,
		Category:    string(a.Category),
		Points:      a.Points,
		Rarity:      string(a.Rarity),
		Progress:    a.State.Progress,
		Unlocked:    a.State.Unlocked,
	}
	if a.UnlockedAt != nil {
		dto.UnlockedAt = a.UnlockedAt.Format(time.RFC3339)
	}
	return dto
}

func toStreakDTO(userID progress.UserID, s achievements.StreakData) StreakDTO {
	dto := StreakDTO{
		UserID:             string(userID),
		CurrentStreak:      s.CurrentStreak,
		LongestStreak:      s.LongestStreak,
		TotalContributions: s.TotalContributions,
	}
	if s.LastContribution != nil {
		dto.LastContribution = s.LastContribution.Format(time.RFC3339)
	}
	return dto
}

func toExpenseDTO(e progress.Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:            e.ID,
		Name:          e.Name,
		Amount:        e.Amount.InexactFloat64(),
		Frequency:     string(e.Frequency),
		Status:        string(e.Status),
		MonthlyAmount: progress.MonthlyAmount(e).InexactFloat64(),
	}
}

func toGoalDTO(g progress.Goal) GoalDTO {
	dto := GoalDTO{
		ID:            string(g.ID),
		Name:          g.Name,
		TargetAmount:  g.TargetAmount.InexactFloat64(),
		CurrentAmount: g.CurrentAmount.InexactFloat64(),
		MonthlyTarget: g.MonthlyTarget.InexactFloat64(),
		Status:        string(g.Status),
	}
	if g.TargetDate != nil {
		d := g.TargetDate.Format("2006-01-02")
		dto.TargetDate = &d
	}
	return dto
}

func toContributionDTO(c progress.Contribution) ContributionDTO {
	return ContributionDTO{
		ID:        c.ID,
		UserID:    string(c.UserID),
		GoalID:    string(c.GoalID),
		Amount:    c.Amount.InexactFloat64(),
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

func toCoupleDTO(c progress.Couple) CoupleDTO {
	return CoupleDTO{
		ID:          string(c.ID),
		UserID:      string(c.UserID),
		UserName:    c.UserName,
		PartnerID:   string(c.PartnerID),
		PartnerName: c.PartnerName,
		Currency:    c.Currency,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// decimalFromFloat converts request floats to engine decimals in one place.
func decimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
