// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/tandemfin/progress-engine/achievements"
	"github.com/tandemfin/progress-engine/progress"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu            sync.RWMutex
	couples       map[progress.CoupleID]progress.Couple
	expenses      map[progress.CoupleID][]progress.Expense
	goals         map[progress.CoupleID][]progress.Goal
	contributions map[progress.CoupleID][]progress.Contribution
	safetyPots    map[progress.CoupleID]progress.SafetyPot
	snapshots     map[progress.CoupleID]map[progress.MonthKey]progress.MonthlyProgress
	achievements  map[stateKey][]achievements.State
}

type stateKey struct {
	CoupleID progress.CoupleID
	UserID   progress.UserID
}

func NewMemory() *Memory {
	return &Memory{
		couples:       make(map[progress.CoupleID]progress.Couple),
		expenses:      make(map[progress.CoupleID][]progress.Expense),
		goals:         make(map[progress.CoupleID][]progress.Goal),
		contributions: make(map[progress.CoupleID][]progress.Contribution),
		safetyPots:    make(map[progress.CoupleID]progress.SafetyPot),
		snapshots:     make(map[progress.CoupleID]map[progress.MonthKey]progress.MonthlyProgress),
		achievements:  make(map[stateKey][]achievements.State),
	}
}

// Compile-time interface checks
var (
	_ progress.Store          = (*Memory)(nil)
	_ progress.SnapshotStore  = (*Memory)(nil)
	_ achievements.StateStore = (*Memory)(nil)
)

// -----------------------------------------------------------------------------
// Couples
// -----------------------------------------------------------------------------

func (m *Memory) PutCouple(_ context.Context, c progress.Couple) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.couples[c.ID] = c
	return nil
}

func (m *Memory) GetCouple(_ context.Context, id progress.CoupleID) (progress.Couple, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.couples[id]
	if !ok {
		return progress.Couple{}, progress.ErrCoupleNotFound
	}
	return c, nil
}

func (m *Memory) ListCouples(_ context.Context) ([]progress.Couple, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]progress.Couple, 0, len(m.couples))
	for _, c := range m.couples {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// -----------------------------------------------------------------------------
// Expenses
// -----------------------------------------------------------------------------

func (m *Memory) PutExpense(_ context.Context, e progress.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.expenses[e.CoupleID]
	for i, existing := range list {
		if existing.ID == e.ID {
			list[i] = e
			return nil
		}
	}
	m.expenses[e.CoupleID] = append(list, e)
	return nil
}

func (m *Memory) ListExpenses(_ context.Context, coupleID progress.CoupleID) ([]progress.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]progress.Expense(nil), m.expenses[coupleID]...), nil
}

// -----------------------------------------------------------------------------
// Goals
// -----------------------------------------------------------------------------

func (m *Memory) PutGoal(_ context.Context, g progress.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.goals[g.CoupleID]
	for i, existing := range list {
		if existing.ID == g.ID {
			list[i] = g
			return nil
		}
	}
	m.goals[g.CoupleID] = append(list, g)
	return nil
}

func (m *Memory) GetGoal(_ context.Context, coupleID progress.CoupleID, id progress.GoalID) (progress.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, g := range m.goals[coupleID] {
		if g.ID == id {
			return g, nil
		}
	}
	return progress.Goal{}, progress.ErrGoalNotFound
}

func (m *Memory) ListGoals(_ context.Context, coupleID progress.CoupleID) ([]progress.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]progress.Goal(nil), m.goals[coupleID]...), nil
}

// -----------------------------------------------------------------------------
// Contributions
// -----------------------------------------------------------------------------

func (m *Memory) AddContribution(_ context.Context, c progress.Contribution) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.contributions[c.CoupleID]

	// Insert in CreatedAt order so reads are always chronological.
	i := sort.Search(len(list), func(i int) bool {
		return list[i].CreatedAt.After(c.CreatedAt)
	})
	list = append(list, progress.Contribution{})
	copy(list[i+1:], list[i:])
	list[i] = c
	m.contributions[c.CoupleID] = list
	return nil
}

func (m *Memory) ListContributions(_ context.Context, coupleID progress.CoupleID) ([]progress.Contribution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]progress.Contribution(nil), m.contributions[coupleID]...), nil
}

// -----------------------------------------------------------------------------
// Safety pot
// -----------------------------------------------------------------------------

func (m *Memory) SetSafetyPot(_ context.Context, coupleID progress.CoupleID, pot progress.SafetyPot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.safetyPots[coupleID] = pot
	return nil
}

// GetSafetyPot returns a zero-balance pot for couples that never set one.
func (m *Memory) GetSafetyPot(_ context.Context, coupleID progress.CoupleID) (progress.SafetyPot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.safetyPots[coupleID], nil
}

// -----------------------------------------------------------------------------
// Snapshots
// -----------------------------------------------------------------------------

func (m *Memory) PutSnapshot(_ context.Context, coupleID progress.CoupleID, snapshot progress.MonthlyProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	byMonth := m.snapshots[coupleID]
	if byMonth == nil {
		byMonth = make(map[progress.MonthKey]progress.MonthlyProgress)
		m.snapshots[coupleID] = byMonth
	}
	byMonth[snapshot.Month] = snapshot
	return nil
}

func (m *Memory) GetSnapshot(_ context.Context, coupleID progress.CoupleID, month progress.MonthKey) (progress.MonthlyProgress, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.snapshots[coupleID][month]
	return s, ok, nil
}

func (m *Memory) ListSnapshots(_ context.Context, coupleID progress.CoupleID) ([]progress.MonthlyProgress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]progress.MonthlyProgress, 0, len(m.snapshots[coupleID]))
	for _, s := range m.snapshots[coupleID] {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[j].Month.Before(out[i].Month) })
	return out, nil
}

// -----------------------------------------------------------------------------
// Achievement state
// -----------------------------------------------------------------------------

func (m *Memory) PutAchievementStates(_ context.Context, coupleID progress.CoupleID, userID progress.UserID, states []achievements.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.achievements[stateKey{coupleID, userID}] = append([]achievements.State(nil), states...)
	return nil
}

func (m *Memory) ListAchievementStates(_ context.Context, coupleID progress.CoupleID, userID progress.UserID) ([]achievements.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]achievements.State(nil), m.achievements[stateKey{coupleID, userID}]...), nil
}

// -----------------------------------------------------------------------------
// Maintenance
// -----------------------------------------------------------------------------

// Reset discards everything. Used by scenario loading in dev environments.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.couples = make(map[progress.CoupleID]progress.Couple)
	m.expenses = make(map[progress.CoupleID][]progress.Expense)
	m.goals = make(map[progress.CoupleID][]progress.Goal)
	m.contributions = make(map[progress.CoupleID][]progress.Contribution)
	m.safetyPots = make(map[progress.CoupleID]progress.SafetyPot)
	m.snapshots = make(map[progress.CoupleID]map[progress.MonthKey]progress.MonthlyProgress)
	m.achievements = make(map[stateKey][]achievements.State)
	return nil
}
