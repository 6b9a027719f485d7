/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates a couple, expenses,
	goals, a safety pot, and a contribution history shaped to demonstrate
	specific analytics behavior.

AVAILABLE SCENARIOS:

	steady-savers:  Long consistent history, unlocked achievements, streaks
	rocky-road:     Uneven history with gaps, behind months, declining trend
	sprint-finish:  Short but accelerating history, ahead-of-plan goal
	fresh-start:    Brand new couple with records but no contributions yet

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create couple
 3. Create expenses, goals, safety pot
 4. Backfill contribution history relative to the current month

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "steady-savers"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx, now)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Analytics handlers the scenarios feed
  - factory/catalog.go: Achievement catalog JSON definitions
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tandemfin/progress-engine/progress"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "steady-savers",
		Name:        "Steady Savers",
		Description: "Twelve months of reliable joint contributions with streaks and unlocks",
		Category:    "progress",
	},
	{
		ID:          "rocky-road",
		Name:        "Rocky Road",
		Description: "Gappy history with behind months, one flaky partner and a declining trend",
		Category:    "progress",
	},
	{
		ID:          "sprint-finish",
		Name:        "Sprint Finish",
		Description: "Short accelerating history with a goal ahead of schedule",
		Category:    "progress",
	},
	{
		ID:          "fresh-start",
		Name:        "Fresh Start",
		Description: "New couple with expenses and goals but no contributions yet",
		Category:    "onboarding",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	// Scenario ID exists but not in list (shouldn't happen)
	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          h.currentScenario,
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined scenario. The store must support Reset.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	if err := h.resetStore(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	now := h.Now().UTC()

	var err error
	switch req.ScenarioID {
	case "steady-savers":
		err = h.loadSteadySaversScenario(ctx, now)
	case "rocky-road":
		err = h.loadRockyRoadScenario(ctx, now)
	case "sprint-finish":
		err = h.loadSprintFinishScenario(ctx, now)
	case "fresh-start":
		err = h.loadFreshStartScenario(ctx, now)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetData wipes everything without loading a replacement scenario.
func (h *Handler) ResetData(w http.ResponseWriter, r *http.Request) {
	if err := h.resetStore(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) resetStore(ctx context.Context) error {
	resetter, ok := h.Store.(Resetter)
	if !ok {
		return fmt.Errorf("store does not support reset")
	}
	if err := resetter.Reset(ctx); err != nil {
		return err
	}
	h.currentScenario = ""
	return nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// monthsAgo returns a mid-month instant n months before now. Mid-month keeps
// the backfilled history inside the intended calendar month in any timezone.
func monthsAgo(now time.Time, n int) time.Time {
	anchor := time.Date(now.Year(), now.Month(), 15, 12, 0, 0, 0, time.UTC)
	return anchor.AddDate(0, -n, 0)
}

func (h *Handler) createCouple(ctx context.Context, couple progress.Couple) error {
	return h.Store.PutCouple(ctx, couple)
}

func (h *Handler) addContribution(ctx context.Context, coupleID progress.CoupleID, userID progress.UserID, goalID progress.GoalID, amount float64, at time.Time) error {
	return h.Store.AddContribution(ctx, progress.Contribution{
		ID:        uuid.NewString(),
		CoupleID:  coupleID,
		UserID:    userID,
		GoalID:    goalID,
		Amount:    decimal.NewFromFloat(amount),
		CreatedAt: at,
	})
}

// loadSteadySaversScenario builds twelve unbroken months of contributions
// from both partners. Exercises: completed/on-track months, long streaks,
// most achievement unlocks, excellent reliability for both members.
func (h *Handler) loadSteadySaversScenario(ctx context.Context, now time.Time) error {
	couple := progress.Couple{
		ID:          "couple-steady",
		UserID:      "user-maya",
		UserName:    "Maya",
		PartnerID:   "user-tom",
		PartnerName: "Tom",
		Currency:    "USD",
		CreatedAt:   monthsAgo(now, 12),
	}
	if err := h.createCouple(ctx, couple); err != nil {
		return err
	}

	expenses := []progress.Expense{
		{ID: "exp-rent", CoupleID: couple.ID, Name: "Rent", Amount: decimal.NewFromInt(1400), Frequency: progress.FrequencyMonthly, Status: progress.StatusActive},
		{ID: "exp-groceries", CoupleID: couple.ID, Name: "Groceries", Amount: decimal.NewFromInt(120), Frequency: progress.FrequencyWeekly, Status: progress.StatusActive},
		{ID: "exp-insurance", CoupleID: couple.ID, Name: "Home Insurance", Amount: decimal.NewFromInt(960), Frequency: progress.FrequencyYearly, Status: progress.StatusActive},
	}
	for _, e := range expenses {
		if err := h.Store.PutExpense(ctx, e); err != nil {
			return err
		}
	}

	goal := progress.Goal{
		ID:            "goal-house",
		CoupleID:      couple.ID,
		Name:          "House Deposit",
		TargetAmount:  decimal.NewFromInt(30000),
		CurrentAmount: decimal.NewFromInt(14400),
		MonthlyTarget: decimal.NewFromInt(1200),
		Status:        progress.StatusActive,
	}
	if err := h.Store.PutGoal(ctx, goal); err != nil {
		return err
	}

	if err := h.Store.SetSafetyPot(ctx, couple.ID, progress.SafetyPot{
		Balance:   decimal.NewFromInt(9000),
		UpdatedAt: now,
	}); err != nil {
		return err
	}

	// Twelve months, both partners every month, gently rising amounts.
	for i := 11; i >= 0; i-- {
		at := monthsAgo(now, i)
		base := 1400.0 + float64(11-i)*25
		if err := h.addContribution(ctx, couple.ID, couple.UserID, goal.ID, base, at); err != nil {
			return err
		}
		if err := h.addContribution(ctx, couple.ID, couple.PartnerID, goal.ID, base+100, at.Add(48*time.Hour)); err != nil {
			return err
		}
	}
	return nil
}

// loadRockyRoadScenario builds an eight month history with gaps. Exercises:
// behind months, broken streaks, poor partner reliability, declining-trend
// and unreliable-partner risk insights.
func (h *Handler) loadRockyRoadScenario(ctx context.Context, now time.Time) error {
	couple := progress.Couple{
		ID:          "couple-rocky",
		UserID:      "user-ines",
		UserName:    "Ines",
		PartnerID:   "user-leo",
		PartnerName: "Leo",
		Currency:    "EUR",
		CreatedAt:   monthsAgo(now, 8),
	}
	if err := h.createCouple(ctx, couple); err != nil {
		return err
	}

	expenses := []progress.Expense{
		{ID: "exp-rent", CoupleID: couple.ID, Name: "Rent", Amount: decimal.NewFromInt(1100), Frequency: progress.FrequencyMonthly, Status: progress.StatusActive},
		{ID: "exp-car", CoupleID: couple.ID, Name: "Car Lease", Amount: decimal.NewFromInt(320), Frequency: progress.FrequencyMonthly, Status: progress.StatusActive},
		{ID: "exp-gym", CoupleID: couple.ID, Name: "Cancelled Gym", Amount: decimal.NewFromInt(80), Frequency: progress.FrequencyMonthly, Status: progress.StatusArchived},
	}
	for _, e := range expenses {
		if err := h.Store.PutExpense(ctx, e); err != nil {
			return err
		}
	}

	goal := progress.Goal{
		ID:            "goal-wedding",
		CoupleID:      couple.ID,
		Name:          "Wedding Fund",
		TargetAmount:  decimal.NewFromInt(12000),
		CurrentAmount: decimal.NewFromInt(2100),
		MonthlyTarget: decimal.NewFromInt(600),
		Status:        progress.StatusActive,
	}
	if err := h.Store.PutGoal(ctx, goal); err != nil {
		return err
	}

	if err := h.Store.SetSafetyPot(ctx, couple.ID, progress.SafetyPot{
		Balance:   decimal.NewFromInt(800),
		UpdatedAt: now,
	}); err != nil {
		return err
	}

	// Ines contributes most months; Leo has shown up three times and the
	// amounts fall off toward the present.
	inesMonths := []int{7, 6, 5, 4, 2, 1, 0}
	for _, i := range inesMonths {
		amount := 900.0 - float64(7-i)*60
		if err := h.addContribution(ctx, couple.ID, couple.UserID, goal.ID, amount, monthsAgo(now, i)); err != nil {
			return err
		}
	}
	for _, i := range []int{7, 5, 4} {
		if err := h.addContribution(ctx, couple.ID, couple.PartnerID, "", 350, monthsAgo(now, i).Add(24*time.Hour)); err != nil {
			return err
		}
	}
	return nil
}

// loadSprintFinishScenario builds four accelerating months. Exercises:
// ahead goal classification, raise-targets opportunity, short histories
// where the growth window has no signal yet.
func (h *Handler) loadSprintFinishScenario(ctx context.Context, now time.Time) error {
	couple := progress.Couple{
		ID:          "couple-sprint",
		UserID:      "user-ada",
		UserName:    "Ada",
		PartnerID:   "user-kai",
		PartnerName: "Kai",
		Currency:    "GBP",
		CreatedAt:   monthsAgo(now, 4),
	}
	if err := h.createCouple(ctx, couple); err != nil {
		return err
	}

	if err := h.Store.PutExpense(ctx, progress.Expense{
		ID: "exp-rent", CoupleID: couple.ID, Name: "Rent",
		Amount: decimal.NewFromInt(950), Frequency: progress.FrequencyMonthly, Status: progress.StatusActive,
	}); err != nil {
		return err
	}

	goal := progress.Goal{
		ID:            "goal-trip",
		CoupleID:      couple.ID,
		Name:          "Japan Trip",
		TargetAmount:  decimal.NewFromInt(6000),
		CurrentAmount: decimal.NewFromInt(5200),
		MonthlyTarget: decimal.NewFromInt(800),
		Status:        progress.StatusActive,
	}
	if err := h.Store.PutGoal(ctx, goal); err != nil {
		return err
	}

	if err := h.Store.SetSafetyPot(ctx, couple.ID, progress.SafetyPot{
		Balance:   decimal.NewFromInt(3000),
		UpdatedAt: now,
	}); err != nil {
		return err
	}

	for i := 3; i >= 0; i-- {
		at := monthsAgo(now, i)
		amount := 1100.0 + float64(3-i)*250
		if err := h.addContribution(ctx, couple.ID, couple.UserID, goal.ID, amount, at); err != nil {
			return err
		}
		if err := h.addContribution(ctx, couple.ID, couple.PartnerID, goal.ID, amount*0.8, at.Add(12*time.Hour)); err != nil {
			return err
		}
	}
	return nil
}

// loadFreshStartScenario builds a couple with records but zero history.
// Exercises: empty-series analytics, zero streaks, locked achievements.
func (h *Handler) loadFreshStartScenario(ctx context.Context, now time.Time) error {
	couple := progress.Couple{
		ID:          "couple-fresh",
		UserID:      "user-noor",
		UserName:    "Noor",
		PartnerID:   "user-sam",
		PartnerName: "Sam",
		Currency:    "USD",
		CreatedAt:   now,
	}
	if err := h.createCouple(ctx, couple); err != nil {
		return err
	}

	if err := h.Store.PutExpense(ctx, progress.Expense{
		ID: "exp-rent", CoupleID: couple.ID, Name: "Rent",
		Amount: decimal.NewFromInt(1250), Frequency: progress.FrequencyMonthly, Status: progress.StatusActive,
	}); err != nil {
		return err
	}

	return h.Store.PutGoal(ctx, progress.Goal{
		ID:            "goal-emergency",
		CoupleID:      couple.ID,
		Name:          "Emergency Fund",
		TargetAmount:  decimal.NewFromInt(10000),
		MonthlyTarget: decimal.NewFromInt(500),
		Status:        progress.StatusActive,
	})
}
