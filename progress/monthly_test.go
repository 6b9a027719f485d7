package progress_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tandemfin/progress-engine/progress"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func d(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func midMarch2024() time.Time {
	return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
}

func monthlyExpense(amount float64) progress.Expense {
	return progress.Expense{
		ID:        "exp-1",
		Name:      "Rent",
		Amount:    d(amount),
		Frequency: progress.FrequencyMonthly,
		Status:    progress.StatusActive,
	}
}

func contributionAt(user progress.UserID, amount float64, at time.Time) progress.Contribution {
	return progress.Contribution{
		ID:        string(user) + "-" + at.Format(time.RFC3339),
		UserID:    user,
		Amount:    d(amount),
		CreatedAt: at,
	}
}

// fundedPotFor returns a safety-pot balance already at the 6x target for
// the given monthly expense total, so tests can isolate the expense
// component of the expected amount.
func fundedPotFor(monthlyExpenses float64) decimal.Decimal {
	return d(monthlyExpenses * 6)
}

// =============================================================================
// EXPECTED AMOUNT - END TO END
// =============================================================================

func TestBuildMonthlyProgress_EndToEndExpectedAmount(t *testing.T) {
	// GIVEN: 1000/month expenses, a 1200 goal due in 6 months, empty pot
	// WHEN: Building the current month
	// THEN: Expected = 1000 + 1200/6 + (1000*6)/12 = 1700

	now := midMarch2024()
	targetDate := now.AddDate(0, 6, 0)

	rec := progress.BuildMonthlyProgress(progress.BuildInput{
		Month:    progress.MonthKeyOf(now),
		Expenses: []progress.Expense{monthlyExpense(1000)},
		Goals: []progress.Goal{{
			ID:           "goal-1",
			Name:         "Trip",
			TargetAmount: d(1200),
			TargetDate:   &targetDate,
			Status:       progress.StatusActive,
		}},
		SafetyPot: decimal.Zero,
		UserID:    "user-a",
		PartnerID: "user-b",
		Now:       now,
	})

	if !rec.TotalExpected.Equal(d(1700)) {
		t.Errorf("TotalExpected = %s, want 1700", rec.TotalExpected)
	}
}

// =============================================================================
// INVARIANTS
// =============================================================================

func TestBuildMonthlyProgress_ActualIsSumOfPartnerShares(t *testing.T) {
	// GIVEN: Contributions from both partners plus a stranger in the month
	// WHEN: Building the snapshot
	// THEN: TotalActual == UserContribution + PartnerContribution exactly,
	//       and the stranger's record is ignored

	now := midMarch2024()
	in := progress.BuildInput{
		Month: progress.MonthKeyOf(now),
		Contributions: []progress.Contribution{
			contributionAt("user-a", 600.10, now),
			contributionAt("user-a", 150.25, now.AddDate(0, 0, 3)),
			contributionAt("user-b", 499.65, now),
			contributionAt("user-z", 9999, now),
		},
		UserID:    "user-a",
		PartnerID: "user-b",
		Now:       now,
	}

	rec := progress.BuildMonthlyProgress(in)

	if !rec.UserContribution.Equal(d(750.35)) {
		t.Errorf("UserContribution = %s, want 750.35", rec.UserContribution)
	}
	if !rec.PartnerContribution.Equal(d(499.65)) {
		t.Errorf("PartnerContribution = %s, want 499.65", rec.PartnerContribution)
	}
	if !rec.TotalActual.Equal(rec.UserContribution.Add(rec.PartnerContribution)) {
		t.Errorf("TotalActual %s != user %s + partner %s",
			rec.TotalActual, rec.UserContribution, rec.PartnerContribution)
	}
}

func TestBuildMonthlyProgress_ZeroExpected_PercentageIsZero(t *testing.T) {
	// GIVEN: No expenses, goals or pot shortfall (expected = 0)
	// WHEN: Building with and without contributions
	// THEN: OverUnderPercentage is 0 in both cases, never NaN/Inf

	now := midMarch2024()

	empty := progress.BuildMonthlyProgress(progress.BuildInput{
		Month: progress.MonthKeyOf(now), UserID: "user-a", PartnerID: "user-b", Now: now,
	})
	if empty.OverUnderPercentage != 0 {
		t.Errorf("empty month OverUnderPercentage = %v, want 0", empty.OverUnderPercentage)
	}
	if empty.Status != progress.StatusCompleted {
		t.Errorf("0 actual vs 0 expected => %s, want completed", empty.Status)
	}

	funded := progress.BuildMonthlyProgress(progress.BuildInput{
		Month: progress.MonthKeyOf(now),
		Contributions: []progress.Contribution{
			contributionAt("user-a", 500, now),
		},
		UserID: "user-a", PartnerID: "user-b", Now: now,
	})
	if funded.OverUnderPercentage != 0 {
		t.Errorf("surplus-only month OverUnderPercentage = %v, want 0", funded.OverUnderPercentage)
	}
}

func TestBuildMonthlyProgress_ExpensesCoveredBounded(t *testing.T) {
	// GIVEN: 1000/month expenses
	// WHEN: Actual is below and then above the expense total
	// THEN: ExpensesCovered = min(actual, expenses) in both directions

	now := midMarch2024()
	base := progress.BuildInput{
		Month:     progress.MonthKeyOf(now),
		Expenses:  []progress.Expense{monthlyExpense(1000)},
		SafetyPot: fundedPotFor(1000),
		UserID:    "user-a",
		PartnerID: "user-b",
		Now:       now,
	}

	under := base
	under.Contributions = []progress.Contribution{contributionAt("user-a", 400, now)}
	if got := progress.BuildMonthlyProgress(under).ExpensesCovered; !got.Equal(d(400)) {
		t.Errorf("under-funded ExpensesCovered = %s, want 400", got)
	}

	over := base
	over.Contributions = []progress.Contribution{contributionAt("user-a", 2500, now)}
	if got := progress.BuildMonthlyProgress(over).ExpensesCovered; !got.Equal(d(1000)) {
		t.Errorf("over-funded ExpensesCovered = %s, want 1000", got)
	}
}

func TestBuildMonthlyProgress_SurplusFlowsToSafetyPot(t *testing.T) {
	// GIVEN: Expected 1000 (expenses only, funded pot)
	// WHEN: The couple contributes 1300
	// THEN: SafetyPotContribution = 300; a short month yields 0

	now := midMarch2024()
	base := progress.BuildInput{
		Month:     progress.MonthKeyOf(now),
		Expenses:  []progress.Expense{monthlyExpense(1000)},
		SafetyPot: fundedPotFor(1000),
		UserID:    "user-a",
		PartnerID: "user-b",
		Now:       now,
	}

	surplus := base
	surplus.Contributions = []progress.Contribution{contributionAt("user-a", 1300, now)}
	if got := progress.BuildMonthlyProgress(surplus).SafetyPotContribution; !got.Equal(d(300)) {
		t.Errorf("SafetyPotContribution = %s, want 300", got)
	}

	short := base
	short.Contributions = []progress.Contribution{contributionAt("user-a", 900, now)}
	if got := progress.BuildMonthlyProgress(short).SafetyPotContribution; !got.IsZero() {
		t.Errorf("short month SafetyPotContribution = %s, want 0", got)
	}
}

// =============================================================================
// STATUS CLASSIFICATION
// =============================================================================

func TestBuildMonthlyProgress_MonthStatusBands(t *testing.T) {
	// GIVEN: Expected exactly 1000 (expenses only, funded pot)
	// WHEN: Varying the actual across the band edges
	// THEN: >= expected completed; down to -10% on-track; below that behind.
	//       The month level never emits "ahead".

	now := midMarch2024()

	cases := []struct {
		name   string
		actual float64
		want   progress.Status
	}{
		{"at expected", 1000, progress.StatusCompleted},
		{"over expected", 1500, progress.StatusCompleted},
		{"ten percent under", 900, progress.StatusOnTrack},
		{"just inside band", 901, progress.StatusOnTrack},
		{"just outside band", 899, progress.StatusBehind},
		{"nothing", 0, progress.StatusBehind},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := progress.BuildInput{
				Month:     progress.MonthKeyOf(now),
				Expenses:  []progress.Expense{monthlyExpense(1000)},
				SafetyPot: fundedPotFor(1000),
				UserID:    "user-a",
				PartnerID: "user-b",
				Now:       now,
			}
			if tc.actual > 0 {
				in.Contributions = []progress.Contribution{contributionAt("user-a", tc.actual, now)}
			}

			rec := progress.BuildMonthlyProgress(in)
			if rec.Status != tc.want {
				t.Errorf("actual %v => status %s, want %s", tc.actual, rec.Status, tc.want)
			}
			if rec.Status == progress.StatusAhead {
				t.Error("month-level classifier must never emit ahead")
			}
		})
	}
}

func TestBuildMonthlyProgress_GoalStatusBands(t *testing.T) {
	// GIVEN: An active goal with a 1000 monthly target
	// WHEN: Varying the month's goal contribution across the band edges
	// THEN: >= target completed; >= 90% on-track; >= 75% ahead; else behind

	now := midMarch2024()

	cases := []struct {
		name   string
		actual float64
		want   progress.Status
	}{
		{"at target", 1000, progress.StatusCompleted},
		{"ninety percent", 900, progress.StatusOnTrack},
		{"eighty percent", 800, progress.StatusAhead},
		{"seventy five percent", 750, progress.StatusAhead},
		{"seventy percent", 700, progress.StatusBehind},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := contributionAt("user-a", tc.actual, now)
			c.GoalID = "goal-1"

			rec := progress.BuildMonthlyProgress(progress.BuildInput{
				Month: progress.MonthKeyOf(now),
				Goals: []progress.Goal{{
					ID:            "goal-1",
					Name:          "Trip",
					TargetAmount:  d(12000),
					MonthlyTarget: d(1000),
					Status:        progress.StatusActive,
				}},
				Contributions: []progress.Contribution{c},
				UserID:        "user-a",
				PartnerID:     "user-b",
				Now:           now,
			})

			if len(rec.GoalsProgress) != 1 {
				t.Fatalf("GoalsProgress length = %d, want 1", len(rec.GoalsProgress))
			}
			if got := rec.GoalsProgress[0].Status; got != tc.want {
				t.Errorf("goal actual %v => status %s, want %s", tc.actual, got, tc.want)
			}
		})
	}
}

func TestBuildMonthlyProgress_InactiveGoalsExcluded(t *testing.T) {
	// GIVEN: One active and one archived goal
	// WHEN: Building a snapshot
	// THEN: Only the active goal appears in GoalsProgress

	now := midMarch2024()
	rec := progress.BuildMonthlyProgress(progress.BuildInput{
		Month: progress.MonthKeyOf(now),
		Goals: []progress.Goal{
			{ID: "goal-live", MonthlyTarget: d(100), Status: progress.StatusActive},
			{ID: "goal-dead", MonthlyTarget: d(100), Status: progress.StatusArchived},
		},
		UserID:    "user-a",
		PartnerID: "user-b",
		Now:       now,
	})

	if len(rec.GoalsProgress) != 1 || rec.GoalsProgress[0].GoalID != "goal-live" {
		t.Errorf("GoalsProgress = %+v, want only goal-live", rec.GoalsProgress)
	}
}

// =============================================================================
// MONTH FILTERING / DETERMINISM
// =============================================================================

func TestBuildMonthlyProgress_FiltersOtherMonths(t *testing.T) {
	// GIVEN: Contributions in February, March and April
	// WHEN: Building March
	// THEN: Only March money is counted

	now := midMarch2024()
	rec := progress.BuildMonthlyProgress(progress.BuildInput{
		Month: progress.NewMonthKey(2024, time.March),
		Contributions: []progress.Contribution{
			contributionAt("user-a", 100, time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC)),
			contributionAt("user-a", 250, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)),
			contributionAt("user-a", 400, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)),
		},
		UserID:    "user-a",
		PartnerID: "user-b",
		Now:       now,
	})

	if !rec.TotalActual.Equal(d(250)) {
		t.Errorf("TotalActual = %s, want 250", rec.TotalActual)
	}
}

func TestBuildMonthlyProgress_Idempotent(t *testing.T) {
	// GIVEN: A full input set
	// WHEN: Building the same month twice
	// THEN: The two records are deeply identical

	now := midMarch2024()
	targetDate := now.AddDate(0, 4, 0)
	in := progress.BuildInput{
		Month:    progress.MonthKeyOf(now),
		Expenses: []progress.Expense{monthlyExpense(1000)},
		Goals: []progress.Goal{{
			ID:            "goal-1",
			Name:          "Trip",
			TargetAmount:  d(4000),
			CurrentAmount: d(1000),
			MonthlyTarget: d(500),
			TargetDate:    &targetDate,
			Status:        progress.StatusActive,
		}},
		Contributions: []progress.Contribution{
			contributionAt("user-a", 700, now),
			contributionAt("user-b", 650, now),
		},
		SafetyPot: d(2000),
		UserID:    "user-a",
		PartnerID: "user-b",
		Now:       now,
	}

	first := progress.BuildMonthlyProgress(in)
	second := progress.BuildMonthlyProgress(in)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("rebuild differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestBuildMonthlyRange_NewestFirst(t *testing.T) {
	// GIVEN: A three-month window
	// WHEN: Building the range
	// THEN: Records come back newest-first, one per month

	now := midMarch2024()
	out := progress.BuildMonthlyRange(progress.BuildInput{
		UserID: "user-a", PartnerID: "user-b", Now: now,
	}, progress.NewMonthKey(2024, time.January), progress.NewMonthKey(2024, time.March))

	want := []progress.MonthKey{"2024-03", "2024-02", "2024-01"}
	if len(out) != len(want) {
		t.Fatalf("range length = %d, want %d", len(out), len(want))
	}
	for i, m := range out {
		if m.Month != want[i] {
			t.Errorf("out[%d].Month = %s, want %s", i, m.Month, want[i])
		}
	}
}

func TestBuildMonthlyRange_InvertedWindowEmpty(t *testing.T) {
	// GIVEN: to earlier than from
	// WHEN: Building the range
	// THEN: Nil result, no panic

	out := progress.BuildMonthlyRange(progress.BuildInput{Now: midMarch2024()},
		progress.NewMonthKey(2024, time.March), progress.NewMonthKey(2024, time.January))
	if out != nil {
		t.Errorf("inverted window => %v, want nil", out)
	}
}
