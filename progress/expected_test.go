package progress_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tandemfin/progress-engine/progress"
)

// =============================================================================
// EXPENSE NORMALIZATION
// =============================================================================

func TestMonthlyAmount_Frequencies(t *testing.T) {
	// GIVEN: The same nominal amount at each frequency
	// WHEN: Normalizing to a monthly figure
	// THEN: weekly x4.33, monthly unchanged, yearly /12

	cases := []struct {
		freq   progress.Frequency
		amount float64
		want   string
	}{
		{progress.FrequencyWeekly, 100, "433"},
		{progress.FrequencyMonthly, 100, "100"},
		{progress.FrequencyYearly, 1200, "100"},
	}

	for _, tc := range cases {
		e := progress.Expense{Amount: d(tc.amount), Frequency: tc.freq, Status: progress.StatusActive}
		want, _ := decimal.NewFromString(tc.want)
		if got := progress.MonthlyAmount(e); !got.Equal(want) {
			t.Errorf("%s %v => %s, want %s", tc.freq, tc.amount, got, want)
		}
	}
}

func TestNormalizeExpenses_OnlyActive(t *testing.T) {
	// GIVEN: Active, paused and archived expenses
	// WHEN: Summing the normalized monthly total
	// THEN: Only the active one counts

	total := progress.NormalizeExpenses([]progress.Expense{
		{Amount: d(800), Frequency: progress.FrequencyMonthly, Status: progress.StatusActive},
		{Amount: d(500), Frequency: progress.FrequencyMonthly, Status: progress.StatusPaused},
		{Amount: d(300), Frequency: progress.FrequencyMonthly, Status: progress.StatusArchived},
	})

	if !total.Equal(d(800)) {
		t.Errorf("NormalizeExpenses = %s, want 800", total)
	}
}

// =============================================================================
// GOAL INSTALLMENTS
// =============================================================================

func TestGoalInstallment_SpreadsRemainingOverMonthsLeft(t *testing.T) {
	// GIVEN: 1200 remaining, target date 6 months out
	// WHEN: Computing the installment
	// THEN: 200/month

	now := midMarch2024()
	targetDate := now.AddDate(0, 6, 0)
	g := progress.Goal{
		TargetAmount: d(1200),
		TargetDate:   &targetDate,
		Status:       progress.StatusActive,
	}

	if got := progress.GoalInstallment(g, now); !got.Equal(d(200)) {
		t.Errorf("GoalInstallment = %s, want 200", got)
	}
}

func TestGoalInstallment_NoTargetDate_TwelveMonthHorizon(t *testing.T) {
	// GIVEN: 2400 remaining, no target date
	// WHEN: Computing the installment
	// THEN: Spread over the default 12 months: 200/month

	g := progress.Goal{TargetAmount: d(2400), Status: progress.StatusActive}
	if got := progress.GoalInstallment(g, midMarch2024()); !got.Equal(d(200)) {
		t.Errorf("GoalInstallment = %s, want 200", got)
	}
}

func TestGoalInstallment_PastDeadlineClampsToOneMonth(t *testing.T) {
	// GIVEN: A goal whose target date has already passed
	// WHEN: Computing the installment
	// THEN: The whole remainder is due this month (never divide by <1)

	now := midMarch2024()
	past := now.AddDate(0, -2, 0)
	g := progress.Goal{
		TargetAmount: d(900),
		TargetDate:   &past,
		Status:       progress.StatusActive,
	}

	if got := progress.GoalInstallment(g, now); !got.Equal(d(900)) {
		t.Errorf("GoalInstallment = %s, want 900", got)
	}
}

func TestGoalInstallment_FundedOrInactiveIsZero(t *testing.T) {
	// GIVEN: A fully funded goal and a paused goal
	// WHEN: Computing installments
	// THEN: Both contribute nothing

	now := midMarch2024()

	funded := progress.Goal{TargetAmount: d(1000), CurrentAmount: d(1000), Status: progress.StatusActive}
	if got := progress.GoalInstallment(funded, now); !got.IsZero() {
		t.Errorf("funded goal installment = %s, want 0", got)
	}

	paused := progress.Goal{TargetAmount: d(1000), Status: progress.StatusPaused}
	if got := progress.GoalInstallment(paused, now); !got.IsZero() {
		t.Errorf("paused goal installment = %s, want 0", got)
	}
}

// =============================================================================
// SAFETY POT TOP-UP
// =============================================================================

func TestSafetyPotTopUp_Bands(t *testing.T) {
	// GIVEN: 1000/month expenses (pot target 6000)
	// WHEN: The pot is empty, partial, exactly funded, overfunded
	// THEN: Shortfall spreads over 12 months; funded pots need nothing

	cases := []struct {
		name string
		pot  float64
		want float64
	}{
		{"empty", 0, 500},
		{"partial", 4800, 100},
		{"funded", 6000, 0},
		{"overfunded", 9000, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := progress.SafetyPotTopUp(d(1000), d(tc.pot))
			if !got.Equal(d(tc.want)) {
				t.Errorf("pot %v => top-up %s, want %v", tc.pot, got, tc.want)
			}
		})
	}
}

// =============================================================================
// BREAKDOWN
// =============================================================================

func TestExpectedAmountBreakdown_ComponentsSum(t *testing.T) {
	// GIVEN: Expenses, one goal and an underfunded pot
	// WHEN: Computing the itemized breakdown
	// THEN: Components match and Total is their exact sum

	now := midMarch2024()
	targetDate := now.AddDate(0, 6, 0)

	b := progress.ExpectedAmountBreakdown(progress.ExpectedInput{
		Expenses: []progress.Expense{monthlyExpense(1000)},
		Goals: []progress.Goal{{
			TargetAmount: d(1200),
			TargetDate:   &targetDate,
			Status:       progress.StatusActive,
		}},
		SafetyPot: decimal.Zero,
		Now:       now,
	})

	if !b.Expenses.Equal(d(1000)) {
		t.Errorf("Expenses = %s, want 1000", b.Expenses)
	}
	if !b.GoalInstallments.Equal(d(200)) {
		t.Errorf("GoalInstallments = %s, want 200", b.GoalInstallments)
	}
	if !b.SafetyPotTopUp.Equal(d(500)) {
		t.Errorf("SafetyPotTopUp = %s, want 500", b.SafetyPotTopUp)
	}
	if !b.Total.Equal(b.Expenses.Add(b.GoalInstallments).Add(b.SafetyPotTopUp)) {
		t.Errorf("Total %s is not the sum of its components", b.Total)
	}
}

// =============================================================================
// MONTH-GRANULAR DATE MATH
// =============================================================================

func TestMonthsBetween_IgnoresDayOfMonth(t *testing.T) {
	// GIVEN: Dates with awkward day-of-month combinations
	// WHEN: Counting whole months
	// THEN: Only the calendar month distance matters

	cases := []struct {
		from, to time.Time
		want     int
	}{
		{time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), 6},
		{time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), 2},
		{time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), -2},
	}

	for _, tc := range cases {
		if got := progress.MonthsBetween(tc.from, tc.to); got != tc.want {
			t.Errorf("MonthsBetween(%s, %s) = %d, want %d",
				tc.from.Format("2006-01-02"), tc.to.Format("2006-01-02"), got, tc.want)
		}
	}
}
