/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Monthly progress endpoint (computation + snapshot write-through)
- Record creation validation (membership, goal balance bump)
- Achievement endpoint persistence (unlock timestamps survive re-reads)
- Accountability/streak member checks
- Scenario loading
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tandemfin/progress-engine/progress"
	"github.com/tandemfin/progress-engine/progress/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var testClock = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func newTestHandler() (*Handler, *store.Memory) {
	mem := store.NewMemory()
	h := NewHandler(mem)
	h.Now = func() time.Time { return testClock }
	return h, mem
}

func seedCouple(t *testing.T, mem *store.Memory) progress.Couple {
	t.Helper()
	couple := progress.Couple{
		ID:          "couple-1",
		UserID:      "user-a",
		UserName:    "Maya",
		PartnerID:   "user-b",
		PartnerName: "Tom",
		Currency:    "USD",
		CreatedAt:   testClock.AddDate(-1, 0, 0),
	}
	if err := mem.PutCouple(context.Background(), couple); err != nil {
		t.Fatalf("Failed to seed couple: %v", err)
	}
	return couple
}

func seedContribution(t *testing.T, mem *store.Memory, user progress.UserID, amount float64, at time.Time) {
	t.Helper()
	err := mem.AddContribution(context.Background(), progress.Contribution{
		ID:        fmt.Sprintf("contrib-%s-%s", user, at.Format("2006-01-02T15:04:05")),
		CoupleID:  "couple-1",
		UserID:    user,
		Amount:    decimal.NewFromFloat(amount),
		CreatedAt: at,
	})
	if err != nil {
		t.Fatalf("Failed to seed contribution: %v", err)
	}
}

func doRequest(t *testing.T, h *Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	NewRouter(h).ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v\nbody: %s", err, rec.Body.String())
	}
	return out
}

// =============================================================================
// MONTHLY PROGRESS
// =============================================================================

func TestGetMonthlyProgress_EndToEnd(t *testing.T) {
	// GIVEN: 1000/month expenses, a 1200 goal 6 months out, empty pot,
	//        and 1000 contributed this month
	// WHEN: GET /progress/2024-03
	// THEN: Expected 1700, actual 1000, and the snapshot is cached

	h, mem := newTestHandler()
	couple := seedCouple(t, mem)

	if err := mem.PutExpense(context.Background(), progress.Expense{
		ID: "exp-1", CoupleID: couple.ID, Name: "Rent",
		Amount: decimal.NewFromInt(1000), Frequency: progress.FrequencyMonthly,
		Status: progress.StatusActive,
	}); err != nil {
		t.Fatalf("Failed to seed expense: %v", err)
	}
	targetDate := testClock.AddDate(0, 6, 0)
	if err := mem.PutGoal(context.Background(), progress.Goal{
		ID: "goal-1", CoupleID: couple.ID, Name: "Trip",
		TargetAmount: decimal.NewFromInt(1200), TargetDate: &targetDate,
		Status: progress.StatusActive,
	}); err != nil {
		t.Fatalf("Failed to seed goal: %v", err)
	}
	seedContribution(t, mem, "user-a", 600, testClock)
	seedContribution(t, mem, "user-b", 400, testClock.Add(time.Hour))

	rec := doRequest(t, h, http.MethodGet, "/api/couples/couple-1/progress/2024-03", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	dto := decodeBody[MonthlyProgressDTO](t, rec)
	if dto.TotalExpected != 1700 {
		t.Errorf("total_expected = %v, want 1700", dto.TotalExpected)
	}
	if dto.TotalActual != 1000 {
		t.Errorf("total_actual = %v, want 1000", dto.TotalActual)
	}
	if dto.UserContribution != 600 || dto.PartnerContribution != 400 {
		t.Errorf("split = %v/%v, want 600/400", dto.UserContribution, dto.PartnerContribution)
	}
	if dto.Status != string(progress.StatusBehind) {
		t.Errorf("status = %s, want behind (41%% under expected)", dto.Status)
	}
	if dto.TotalActualDisplay != "$1,000.00" {
		t.Errorf("total_actual_display = %q, want $1,000.00", dto.TotalActualDisplay)
	}

	// Write-through: the computed snapshot landed in the cache
	if _, found, err := mem.GetSnapshot(context.Background(), couple.ID, "2024-03"); err != nil || !found {
		t.Errorf("snapshot cache: found=%v err=%v, want cached", found, err)
	}
}

func TestGetMonthlyProgress_BadMonth(t *testing.T) {
	h, mem := newTestHandler()
	seedCouple(t, mem)

	rec := doRequest(t, h, http.MethodGet, "/api/couples/couple-1/progress/2024-13", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetProgressSeries_MonthsParam(t *testing.T) {
	// GIVEN: A couple with history
	// WHEN: GET /progress?months=3
	// THEN: Exactly three records, newest first

	h, mem := newTestHandler()
	seedCouple(t, mem)
	seedContribution(t, mem, "user-a", 500, testClock.AddDate(0, -4, 0))

	rec := doRequest(t, h, http.MethodGet, "/api/couples/couple-1/progress?months=3", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	series := decodeBody[[]MonthlyProgressDTO](t, rec)
	if len(series) != 3 {
		t.Fatalf("series length = %d, want 3", len(series))
	}
	want := []string{"2024-03", "2024-02", "2024-01"}
	for i, m := range series {
		if m.Month != want[i] {
			t.Errorf("series[%d].month = %s, want %s", i, m.Month, want[i])
		}
	}
}

func TestGetCouple_NotFound(t *testing.T) {
	h, _ := newTestHandler()

	rec := doRequest(t, h, http.MethodGet, "/api/couples/nobody", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// =============================================================================
// RECORD CREATION
// =============================================================================

func TestCreateContribution_RejectsNonMember(t *testing.T) {
	// GIVEN: A couple of user-a and user-b
	// WHEN: user-z posts a contribution
	// THEN: 400, nothing stored

	h, mem := newTestHandler()
	seedCouple(t, mem)

	rec := doRequest(t, h, http.MethodPost, "/api/couples/couple-1/contributions",
		CreateContributionRequest{UserID: "user-z", Amount: 100})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	stored, err := mem.ListContributions(context.Background(), "couple-1")
	if err != nil || len(stored) != 0 {
		t.Errorf("stored contributions = %d (err %v), want none", len(stored), err)
	}
}

func TestCreateContribution_BumpsGoalBalance(t *testing.T) {
	// GIVEN: A goal with 400 already saved
	// WHEN: Posting a 250 contribution against it
	// THEN: The goal's cumulative balance rises to 650

	h, mem := newTestHandler()
	couple := seedCouple(t, mem)
	if err := mem.PutGoal(context.Background(), progress.Goal{
		ID: "goal-1", CoupleID: couple.ID, Name: "Trip",
		TargetAmount:  decimal.NewFromInt(5000),
		CurrentAmount: decimal.NewFromInt(400),
		Status:        progress.StatusActive,
	}); err != nil {
		t.Fatalf("Failed to seed goal: %v", err)
	}

	rec := doRequest(t, h, http.MethodPost, "/api/couples/couple-1/contributions",
		CreateContributionRequest{UserID: "user-a", GoalID: "goal-1", Amount: 250})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	goal, err := mem.GetGoal(context.Background(), "couple-1", "goal-1")
	if err != nil {
		t.Fatalf("Failed to reload goal: %v", err)
	}
	if !goal.CurrentAmount.Equal(decimal.NewFromInt(650)) {
		t.Errorf("goal balance = %s, want 650", goal.CurrentAmount)
	}
}

func TestCreateCouple_Validation(t *testing.T) {
	h, _ := newTestHandler()

	cases := []struct {
		name string
		req  CreateCoupleRequest
		want int
	}{
		{"valid", CreateCoupleRequest{UserID: "a", PartnerID: "b"}, http.StatusCreated},
		{"missing partner", CreateCoupleRequest{UserID: "a"}, http.StatusBadRequest},
		{"same member twice", CreateCoupleRequest{UserID: "a", PartnerID: "a"}, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/api/couples", tc.req)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

// =============================================================================
// ACHIEVEMENTS
// =============================================================================

func TestGetAchievements_UnlocksAndPersists(t *testing.T) {
	// GIVEN: One contribution this month
	// WHEN: GET /achievements twice, clock advanced in between
	// THEN: first-contribution unlocks on the first call and keeps its
	//       original unlock timestamp on the second

	h, mem := newTestHandler()
	seedCouple(t, mem)
	seedContribution(t, mem, "user-a", 100, testClock)

	rec := doRequest(t, h, http.MethodGet, "/api/couples/couple-1/achievements?user=user-a", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	first := findDTO(t, decodeBody[[]AchievementDTO](t, rec), "first-contribution")
	if !first.Unlocked {
		t.Fatal("first-contribution should unlock after one contribution")
	}
	originalUnlock := first.UnlockedAt
	if originalUnlock == "" {
		t.Fatal("unlocked achievement missing unlocked_at")
	}

	// Re-read a month later: the unlock timestamp must not move
	h.Now = func() time.Time { return testClock.AddDate(0, 1, 0) }
	rec = doRequest(t, h, http.MethodGet, "/api/couples/couple-1/achievements?user=user-a", nil)
	again := findDTO(t, decodeBody[[]AchievementDTO](t, rec), "first-contribution")
	if again.UnlockedAt != originalUnlock {
		t.Errorf("unlocked_at moved from %s to %s on re-read", originalUnlock, again.UnlockedAt)
	}
}

func findDTO(t *testing.T, list []AchievementDTO, id string) AchievementDTO {
	t.Helper()
	for _, a := range list {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("achievement %s not in response", id)
	return AchievementDTO{}
}

func TestGetAchievements_UnknownUser(t *testing.T) {
	h, mem := newTestHandler()
	seedCouple(t, mem)

	rec := doRequest(t, h, http.MethodGet, "/api/couples/couple-1/achievements?user=user-z", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// =============================================================================
// ACCOUNTABILITY AND STREAKS
// =============================================================================

func TestGetStreak_ThreeMonths(t *testing.T) {
	// GIVEN: Contributions in Jan, Feb and Mar 2024
	// WHEN: GET the streak anchored at March
	// THEN: current_streak = 3

	h, mem := newTestHandler()
	seedCouple(t, mem)
	for i := 0; i < 3; i++ {
		seedContribution(t, mem, "user-a", 100, testClock.AddDate(0, -i, 0))
	}

	rec := doRequest(t, h, http.MethodGet, "/api/couples/couple-1/partners/user-a/streak", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	dto := decodeBody[StreakDTO](t, rec)
	if dto.CurrentStreak != 3 {
		t.Errorf("current_streak = %d, want 3", dto.CurrentStreak)
	}
	if dto.TotalContributions != 3 {
		t.Errorf("total_contributions = %d, want 3", dto.TotalContributions)
	}
}

func TestGetAccountability_MemberCheckAndRating(t *testing.T) {
	// GIVEN: user-b contributed in every month of the history
	// WHEN: GET accountability for user-b and for a stranger
	// THEN: Excellent rating for the member; 404 for the stranger

	h, mem := newTestHandler()
	seedCouple(t, mem)
	for i := 0; i < 4; i++ {
		seedContribution(t, mem, "user-b", 500, testClock.AddDate(0, -i, 0))
	}

	rec := doRequest(t, h, http.MethodGet, "/api/couples/couple-1/partners/user-b/accountability", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	dto := decodeBody[AccountabilityDTO](t, rec)
	if dto.ReliabilityRating != string(progress.ReliabilityExcellent) {
		t.Errorf("reliability = %s, want excellent", dto.ReliabilityRating)
	}
	if dto.NextExpectedContribution == "Unknown" {
		t.Error("next_expected_contribution should be projected, not Unknown")
	}

	rec = doRequest(t, h, http.MethodGet, "/api/couples/couple-1/partners/user-z/accountability", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("stranger status = %d, want 404", rec.Code)
	}
}

func TestGetAccountability_NeverContributed(t *testing.T) {
	// GIVEN: A couple where user-b never contributed
	// WHEN: GET accountability for user-b
	// THEN: Poor rating and "Unknown" projection

	h, mem := newTestHandler()
	seedCouple(t, mem)
	seedContribution(t, mem, "user-a", 500, testClock)

	rec := doRequest(t, h, http.MethodGet, "/api/couples/couple-1/partners/user-b/accountability", nil)
	dto := decodeBody[AccountabilityDTO](t, rec)

	if dto.ReliabilityRating != string(progress.ReliabilityPoor) {
		t.Errorf("reliability = %s, want poor", dto.ReliabilityRating)
	}
	if dto.NextExpectedContribution != "Unknown" {
		t.Errorf("next_expected_contribution = %q, want Unknown", dto.NextExpectedContribution)
	}
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestScenarios_LoadAndTrack(t *testing.T) {
	// GIVEN: An empty store
	// WHEN: Loading the steady-savers scenario
	// THEN: A couple with full history exists and the scenario is tracked

	h, mem := newTestHandler()

	rec := doRequest(t, h, http.MethodPost, "/api/scenarios/load",
		LoadScenarioRequest{ScenarioID: "steady-savers"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	couples, err := mem.ListCouples(context.Background())
	if err != nil || len(couples) != 1 {
		t.Fatalf("couples = %d (err %v), want 1", len(couples), err)
	}
	contributions, err := mem.ListContributions(context.Background(), couples[0].ID)
	if err != nil || len(contributions) == 0 {
		t.Fatalf("contributions = %d (err %v), want history", len(contributions), err)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/scenarios/current", nil)
	current := decodeBody[ScenarioDTO](t, rec)
	if current.ID != "steady-savers" {
		t.Errorf("current scenario = %s, want steady-savers", current.ID)
	}
}

func TestScenarios_UnknownRejected(t *testing.T) {
	h, _ := newTestHandler()

	rec := doRequest(t, h, http.MethodPost, "/api/scenarios/load",
		LoadScenarioRequest{ScenarioID: "does-not-exist"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestScenarios_Reset(t *testing.T) {
	// GIVEN: A loaded scenario
	// WHEN: POST /scenarios/reset
	// THEN: The store is empty again

	h, mem := newTestHandler()
	doRequest(t, h, http.MethodPost, "/api/scenarios/load",
		LoadScenarioRequest{ScenarioID: "fresh-start"})

	rec := doRequest(t, h, http.MethodPost, "/api/scenarios/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	couples, err := mem.ListCouples(context.Background())
	if err != nil || len(couples) != 0 {
		t.Errorf("couples after reset = %d (err %v), want 0", len(couples), err)
	}
}
