/*
handlers.go - HTTP API handlers for the progress analytics engine

PURPOSE:
  Exposes the analytics engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the engine.
  Handlers fetch raw records from the Store, hand them to the pure
  engine functions, and render the results as DTOs.

ENDPOINTS:
  Couples:
    GET    /api/couples                     List couples
    POST   /api/couples                     Create couple
    GET    /api/couples/{id}                Get couple

  Records:
    GET/POST /api/couples/{id}/expenses
    GET/POST /api/couples/{id}/goals
    GET/POST /api/couples/{id}/contributions
    GET/PUT  /api/couples/{id}/safety-pot

  Analytics:
    GET /api/couples/{id}/progress           Monthly series (?months=N)
    GET /api/couples/{id}/progress/{month}   One month (YYYY-MM)
    GET /api/couples/{id}/trends             Trend aggregate
    GET /api/couples/{id}/insights           Health + guidance strings
    GET /api/couples/{id}/partners/{userID}/accountability
    GET /api/couples/{id}/partners/{userID}/streak
    GET /api/couples/{id}/achievements       (?user=, defaults to first member)

  Scenarios:
    GET  /api/scenarios                      List demo scenarios
    POST /api/scenarios/load                 Load a demo scenario
    POST /api/scenarios/reset                Wipe all data (dev only)

ARCHITECTURE:
  Handler holds all dependencies:
  - Store: Raw records + persisted engine outputs
  - Catalog: Achievement definitions (built-in or factory-parsed)
  - Now: Injected clock so tests pin the evaluation instant

REQUEST FLOW:
  1. Parse HTTP request
  2. Load raw records for the couple
  3. Call engine functions (pure computation)
  4. Persist derived state where it must survive restarts (unlocks)
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors

SECURITY NOTE:
  No authentication middleware. The deployment in front of this server
  terminates auth; these handlers trust the couple id in the path.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tandemfin/progress-engine/achievements"
	"github.com/tandemfin/progress-engine/progress"
)

// historyCapMonths bounds how far back the on-demand series reaches when
// the client doesn't ask for a specific window.
const historyCapMonths = 36

// Storage is everything the handlers need from persistence.
type Storage interface {
	progress.Store
	progress.SnapshotStore
	achievements.StateStore
}

// Resetter is an optional store capability used by the dev-only reset
// endpoint.
type Resetter interface {
	Reset(ctx context.Context) error
}

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   Storage
	Catalog []achievements.Definition

	// Now is the injected clock; defaults to time.Now.
	Now func() time.Time

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store and the built-in
// achievement catalog.
func NewHandler(store Storage) *Handler {
	return &Handler{
		Store:   store,
		Catalog: achievements.DefaultCatalog(),
		Now:     time.Now,
	}
}

// coupleData is one couple's full raw-record set, loaded in one place so
// every analytics handler feeds the engine identically.
type coupleData struct {
	Couple        progress.Couple
	Expenses      []progress.Expense
	Goals         []progress.Goal
	Contributions []progress.Contribution
	SafetyPot     progress.SafetyPot
}

func (h *Handler) loadCoupleData(r *http.Request) (coupleData, error) {
	ctx := r.Context()
	id := progress.CoupleID(chi.URLParam(r, "id"))

	couple, err := h.Store.GetCouple(ctx, id)
	if err != nil {
		return coupleData{}, err
	}
	expenses, err := h.Store.ListExpenses(ctx, id)
	if err != nil {
		return coupleData{}, err
	}
	goals, err := h.Store.ListGoals(ctx, id)
	if err != nil {
		return coupleData{}, err
	}
	contributions, err := h.Store.ListContributions(ctx, id)
	if err != nil {
		return coupleData{}, err
	}
	pot, err := h.Store.GetSafetyPot(ctx, id)
	if err != nil {
		return coupleData{}, err
	}

	return coupleData{
		Couple:        couple,
		Expenses:      expenses,
		Goals:         goals,
		Contributions: contributions,
		SafetyPot:     pot,
	}, nil
}

// buildInput assembles the engine input for one month.
func (d coupleData) buildInput(month progress.MonthKey, now time.Time) progress.BuildInput {
	return progress.BuildInput{
		Month:         month,
		Contributions: d.Contributions,
		Goals:         d.Goals,
		Expenses:      d.Expenses,
		SafetyPot:     d.SafetyPot.Balance,
		UserID:        d.Couple.UserID,
		PartnerID:     d.Couple.PartnerID,
		Now:           now,
	}
}

// series computes the trailing monthly series. months <= 0 means "from the
// first contribution", capped at historyCapMonths.
func (d coupleData) series(now time.Time, months int) []progress.MonthlyProgress {
	to := progress.MonthKeyOf(now)

	if months <= 0 {
		months = 1
		if len(d.Contributions) > 0 {
			earliest := progress.MonthKeyOf(d.Contributions[0].CreatedAt)
			for _, c := range d.Contributions {
				key := progress.MonthKeyOf(c.CreatedAt)
				if key.Before(earliest) {
					earliest = key
				}
			}
			months = progress.MonthsBetween(earliest.Time(), to.Time()) + 1
		}
	}
	if months > historyCapMonths {
		months = historyCapMonths
	}

	from := to.AddMonths(-(months - 1))
	return progress.BuildMonthlyRange(d.buildInput(to, now), from, to)
}

// =============================================================================
// COUPLE HANDLERS
// =============================================================================

// ListCouples returns all couples.
func (h *Handler) ListCouples(w http.ResponseWriter, r *http.Request) {
	couples, err := h.Store.ListCouples(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list couples", err)
		return
	}

	dtos := make([]CoupleDTO, len(couples))
	for i, c := range couples {
		dtos[i] = toCoupleDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCouple creates a couple record.
func (h *Handler) CreateCouple(w http.ResponseWriter, r *http.Request) {
	var req CreateCoupleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.UserID == "" || req.PartnerID == "" {
		writeError(w, http.StatusBadRequest, "user_id and partner_id are required", nil)
		return
	}
	if req.UserID == req.PartnerID {
		writeError(w, http.StatusBadRequest, "user_id and partner_id must differ", nil)
		return
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	couple := progress.Couple{
		ID:          progress.CoupleID(req.ID),
		UserID:      progress.UserID(req.UserID),
		UserName:    req.UserName,
		PartnerID:   progress.UserID(req.PartnerID),
		PartnerName: req.PartnerName,
		Currency:    req.Currency,
		CreatedAt:   h.Now().UTC(),
	}

	if err := h.Store.PutCouple(r.Context(), couple); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create couple", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCoupleDTO(couple))
}

// GetCouple returns one couple.
func (h *Handler) GetCouple(w http.ResponseWriter, r *http.Request) {
	couple, err := h.Store.GetCouple(r.Context(), progress.CoupleID(chi.URLParam(r, "id")))
	if err != nil {
		writeStoreError(w, "get couple", err)
		return
	}
	writeJSON(w, http.StatusOK, toCoupleDTO(couple))
}

// =============================================================================
// RAW RECORD HANDLERS
// =============================================================================

// ListExpenses returns the couple's recurring expenses.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	id := progress.CoupleID(chi.URLParam(r, "id"))
	expenses, err := h.Store.ListExpenses(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list expenses", err)
		return
	}

	dtos := make([]ExpenseDTO, len(expenses))
	for i, e := range expenses {
		dtos[i] = toExpenseDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateExpense adds a recurring expense.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	id := progress.CoupleID(chi.URLParam(r, "id"))
	if _, err := h.Store.GetCouple(r.Context(), id); err != nil {
		writeStoreError(w, "get couple", err)
		return
	}

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Amount < 0 {
		writeError(w, http.StatusBadRequest, "amount must not be negative", nil)
		return
	}

	freq := progress.Frequency(req.Frequency)
	switch freq {
	case progress.FrequencyWeekly, progress.FrequencyMonthly, progress.FrequencyYearly:
	default:
		writeError(w, http.StatusBadRequest, "frequency must be weekly, monthly or yearly", nil)
		return
	}

	status := progress.RecordStatus(req.Status)
	if status == "" {
		status = progress.StatusActive
	}

	expense := progress.Expense{
		ID:        uuid.NewString(),
		CoupleID:  id,
		Name:      req.Name,
		Amount:    decimalFromFloat(req.Amount),
		Frequency: freq,
		Status:    status,
	}

	if err := h.Store.PutExpense(r.Context(), expense); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create expense", err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseDTO(expense))
}

// ListGoals returns the couple's goals.
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	id := progress.CoupleID(chi.URLParam(r, "id"))
	goals, err := h.Store.ListGoals(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list goals", err)
		return
	}

	dtos := make([]GoalDTO, len(goals))
	for i, g := range goals {
		dtos[i] = toGoalDTO(g)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateGoal adds a savings goal.
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	id := progress.CoupleID(chi.URLParam(r, "id"))
	if _, err := h.Store.GetCouple(r.Context(), id); err != nil {
		writeStoreError(w, "get couple", err)
		return
	}

	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.TargetAmount <= 0 {
		writeError(w, http.StatusBadRequest, "target_amount must be positive", nil)
		return
	}

	var targetDate *time.Time
	if req.TargetDate != nil {
		t, err := time.Parse("2006-01-02", *req.TargetDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "target_date must be YYYY-MM-DD", err)
			return
		}
		targetDate = &t
	}

	status := progress.RecordStatus(req.Status)
	if status == "" {
		status = progress.StatusActive
	}

	goal := progress.Goal{
		ID:            progress.GoalID(uuid.NewString()),
		CoupleID:      id,
		Name:          req.Name,
		TargetAmount:  decimalFromFloat(req.TargetAmount),
		CurrentAmount: decimalFromFloat(req.CurrentAmount),
		MonthlyTarget: decimalFromFloat(req.MonthlyTarget),
		TargetDate:    targetDate,
		Status:        status,
	}

	if err := h.Store.PutGoal(r.Context(), goal); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create goal", err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalDTO(goal))
}

// ListContributions returns the couple's contribution history.
func (h *Handler) ListContributions(w http.ResponseWriter, r *http.Request) {
	id := progress.CoupleID(chi.URLParam(r, "id"))
	contributions, err := h.Store.ListContributions(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list contributions", err)
		return
	}

	dtos := make([]ContributionDTO, len(contributions))
	for i, c := range contributions {
		dtos[i] = toContributionDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateContribution records a contribution. The contributing user must be
// a member of the couple; goal contributions also bump the goal's
// cumulative CurrentAmount so the raw records stay self-consistent.
func (h *Handler) CreateContribution(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := progress.CoupleID(chi.URLParam(r, "id"))

	couple, err := h.Store.GetCouple(ctx, id)
	if err != nil {
		writeStoreError(w, "get couple", err)
		return
	}

	var req CreateContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive", nil)
		return
	}
	if !couple.IsMember(progress.UserID(req.UserID)) {
		writeError(w, http.StatusBadRequest, "user is not a member of this couple", progress.ErrNotMember)
		return
	}

	createdAt := h.Now().UTC()
	if req.CreatedAt != nil {
		t, err := time.Parse(time.RFC3339, *req.CreatedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "created_at must be RFC3339", err)
			return
		}
		createdAt = t
	}

	contribution := progress.Contribution{
		ID:        uuid.NewString(),
		CoupleID:  id,
		UserID:    progress.UserID(req.UserID),
		GoalID:    progress.GoalID(req.GoalID),
		Amount:    decimalFromFloat(req.Amount),
		CreatedAt: createdAt,
	}

	if req.GoalID != "" {
		goal, err := h.Store.GetGoal(ctx, id, contribution.GoalID)
		if err != nil {
			writeStoreError(w, "get goal", err)
			return
		}
		goal.CurrentAmount = goal.CurrentAmount.Add(contribution.Amount)
		if err := h.Store.PutGoal(ctx, goal); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to update goal", err)
			return
		}
	}

	if err := h.Store.AddContribution(ctx, contribution); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record contribution", err)
		return
	}
	writeJSON(w, http.StatusCreated, toContributionDTO(contribution))
}

// GetSafetyPot returns the couple's safety-pot balance.
func (h *Handler) GetSafetyPot(w http.ResponseWriter, r *http.Request) {
	id := progress.CoupleID(chi.URLParam(r, "id"))

	couple, err := h.Store.GetCouple(r.Context(), id)
	if err != nil {
		writeStoreError(w, "get couple", err)
		return
	}
	pot, err := h.Store.GetSafetyPot(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get safety pot", err)
		return
	}

	dto := SafetyPotDTO{
		Balance:        pot.Balance.InexactFloat64(),
		BalanceDisplay: progress.FormatAmount(pot.Balance, couple.Currency, "en"),
	}
	if !pot.UpdatedAt.IsZero() {
		dto.UpdatedAt = pot.UpdatedAt.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, dto)
}

// SetSafetyPot sets the couple's safety-pot balance.
func (h *Handler) SetSafetyPot(w http.ResponseWriter, r *http.Request) {
	id := progress.CoupleID(chi.URLParam(r, "id"))

	couple, err := h.Store.GetCouple(r.Context(), id)
	if err != nil {
		writeStoreError(w, "get couple", err)
		return
	}

	var req SetSafetyPotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Balance < 0 {
		writeError(w, http.StatusBadRequest, "balance must not be negative", nil)
		return
	}

	pot := progress.SafetyPot{
		Balance:   decimalFromFloat(req.Balance),
		UpdatedAt: h.Now().UTC(),
	}
	if err := h.Store.SetSafetyPot(r.Context(), id, pot); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to set safety pot", err)
		return
	}

	writeJSON(w, http.StatusOK, SafetyPotDTO{
		Balance:        pot.Balance.InexactFloat64(),
		BalanceDisplay: progress.FormatAmount(pot.Balance, couple.Currency, "en"),
		UpdatedAt:      pot.UpdatedAt.Format(time.RFC3339),
	})
}

// =============================================================================
// ANALYTICS HANDLERS
// =============================================================================

// GetMonthlyProgress computes one month's snapshot on demand. The computed
// snapshot is also written through to the snapshot cache.
func (h *Handler) GetMonthlyProgress(w http.ResponseWriter, r *http.Request) {
	month := progress.MonthKey(chi.URLParam(r, "month"))
	if !month.IsValid() {
		writeError(w, http.StatusBadRequest, "month must be YYYY-MM", nil)
		return
	}

	data, err := h.loadCoupleData(r)
	if err != nil {
		writeStoreError(w, "load records", err)
		return
	}

	snapshot := progress.BuildMonthlyProgress(data.buildInput(month, h.Now()))

	// Best-effort cache refresh; the response never depends on it.
	if err := h.Store.PutSnapshot(r.Context(), data.Couple.ID, snapshot); err != nil {
		log.Printf("[API] snapshot cache write failed for %s/%s: %v", data.Couple.ID, month, err)
	}

	writeJSON(w, http.StatusOK, toMonthlyProgressDTO(snapshot, data.Couple.Currency))
}

// GetProgressSeries computes the trailing monthly series (?months=N).
func (h *Handler) GetProgressSeries(w http.ResponseWriter, r *http.Request) {
	data, err := h.loadCoupleData(r)
	if err != nil {
		writeStoreError(w, "load records", err)
		return
	}

	months := 0
	if v := r.URL.Query().Get("months"); v != "" {
		months, err = strconv.Atoi(v)
		if err != nil || months < 1 {
			writeError(w, http.StatusBadRequest, "months must be a positive integer", err)
			return
		}
	}

	series := data.series(h.Now(), months)
	dtos := make([]MonthlyProgressDTO, len(series))
	for i, m := range series {
		dtos[i] = toMonthlyProgressDTO(m, data.Couple.Currency)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTrends aggregates the couple's full (capped) history.
func (h *Handler) GetTrends(w http.ResponseWriter, r *http.Request) {
	data, err := h.loadCoupleData(r)
	if err != nil {
		writeStoreError(w, "load records", err)
		return
	}

	trends := progress.ComputeTrends(data.series(h.Now(), 0))
	writeJSON(w, http.StatusOK, toTrendsDTO(trends))
}

// GetAccountability scores one member's reliability.
func (h *Handler) GetAccountability(w http.ResponseWriter, r *http.Request) {
	data, err := h.loadCoupleData(r)
	if err != nil {
		writeStoreError(w, "load records", err)
		return
	}

	userID := progress.UserID(chi.URLParam(r, "userID"))
	if !data.Couple.IsMember(userID) {
		writeError(w, http.StatusNotFound, "user is not a member of this couple", progress.ErrNotMember)
		return
	}

	series := data.series(h.Now(), 0)

	share := func(m progress.MonthlyProgress) decimal.Decimal { return m.PartnerContribution }
	if userID == data.Couple.UserID {
		share = func(m progress.MonthlyProgress) decimal.Decimal { return m.UserContribution }
	}

	accountability := progress.ScorePartner(progress.AccountabilityInput{
		PartnerID:     userID,
		PartnerName:   data.Couple.MemberName(userID),
		Months:        series,
		Contributions: data.Contributions,
		PartnerShare:  share,
	})
	writeJSON(w, http.StatusOK, toAccountabilityDTO(accountability))
}

// GetInsights generates health classification and guidance strings. The
// partner leg of the input scores the second member (the "partner" in the
// couple record), matching the dashboard's accountability card.
func (h *Handler) GetInsights(w http.ResponseWriter, r *http.Request) {
	data, err := h.loadCoupleData(r)
	if err != nil {
		writeStoreError(w, "load records", err)
		return
	}

	series := data.series(h.Now(), 0)
	trends := progress.ComputeTrends(series)
	partner := progress.ScorePartner(progress.AccountabilityInput{
		PartnerID:     data.Couple.PartnerID,
		PartnerName:   data.Couple.PartnerName,
		Months:        series,
		Contributions: data.Contributions,
	})

	insights := progress.GenerateInsights(progress.InsightInput{
		Trends:  trends,
		Partner: partner,
		Months:  series,
	})
	writeJSON(w, http.StatusOK, toInsightsDTO(insights))
}

// GetAchievements evaluates the catalog for one member (?user=, defaults
// to the first member) and persists the resulting state so unlock
// timestamps survive restarts.
func (h *Handler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := h.loadCoupleData(r)
	if err != nil {
		writeStoreError(w, "load records", err)
		return
	}

	userID := data.Couple.UserID
	if v := r.URL.Query().Get("user"); v != "" {
		userID = progress.UserID(v)
		if !data.Couple.IsMember(userID) {
			writeError(w, http.StatusNotFound, "user is not a member of this couple", progress.ErrNotMember)
			return
		}
	}

	prior, err := h.Store.ListAchievementStates(ctx, data.Couple.ID, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load achievement state", err)
		return
	}

	evaluated := achievements.Evaluate(h.Catalog, prior, achievements.EvalInput{
		UserID:           userID,
		Contributions:    data.Contributions,
		Goals:            data.Goals,
		SafetyPot:        data.SafetyPot,
		PartnershipStart: data.Couple.CreatedAt,
		Now:              h.Now(),
	})

	states := make([]achievements.State, len(evaluated))
	for i, a := range evaluated {
		states[i] = a.State
	}
	if err := h.Store.PutAchievementStates(ctx, data.Couple.ID, userID, states); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist achievement state", err)
		return
	}

	dtos := make([]AchievementDTO, len(evaluated))
	for i, a := range evaluated {
		dtos[i] = toAchievementDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetStreak computes one member's contribution streak.
func (h *Handler) GetStreak(w http.ResponseWriter, r *http.Request) {
	data, err := h.loadCoupleData(r)
	if err != nil {
		writeStoreError(w, "load records", err)
		return
	}

	userID := progress.UserID(chi.URLParam(r, "userID"))
	if !data.Couple.IsMember(userID) {
		writeError(w, http.StatusNotFound, "user is not a member of this couple", progress.ErrNotMember)
		return
	}

	streak := achievements.ComputeStreak(data.Contributions, userID, h.Now())
	writeJSON(w, http.StatusOK, toStreakDTO(userID, streak))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := errorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError maps store errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case progress.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, progress.ErrNotMember):
		writeError(w, http.StatusBadRequest, "Not a member", err)
	default:
		writeError(w, http.StatusInternalServerError, "Failed to "+op, err)
	}
}
