/*
store.go - Persistence interface for raw records and computed snapshots

PURPOSE:
  Defines the boundary between the pure engine and whatever fetched the
  records. The engine itself never touches a Store - its functions take
  slices. The Store exists for hosts (API handlers, the snapshot
  scheduler) that need to assemble those slices and to persist computed
  outputs for cheap reads.

KEY INTERFACES:
  Store:         Raw-record CRUD (couples, expenses, goals, contributions,
                 safety pot)
  SnapshotStore: Persisted engine outputs (monthly snapshots, achievement
                 state)

IMPLEMENTATIONS:
  - progress/store/memory.go: In-memory, for tests and dev
  - store/sqlite/sqlite.go:   SQLite, for the server

SEE ALSO:
  - api/handlers.go: Assembles engine inputs from a Store
  - api/scheduler.go: Persists snapshots on a timer
*/
package progress

import (
	"context"
	"errors"
	"time"
)

// =============================================================================
// COUPLE - The partnership record hosts key everything by
// =============================================================================

// Couple identifies a partnership and its two members.
type Couple struct {
	ID          CoupleID
	UserID      UserID
	UserName    string
	PartnerID   UserID
	PartnerName string
	Currency    string // ISO-4217 display currency, e.g. "USD"
	CreatedAt   time.Time
}

// MemberName resolves a member id to a display name. Unknown ids come back
// as the raw id so callers always have something to render.
func (c Couple) MemberName(id UserID) string {
	switch id {
	case c.UserID:
		return c.UserName
	case c.PartnerID:
		return c.PartnerName
	default:
		return string(id)
	}
}

// IsMember reports whether id belongs to the couple.
func (c Couple) IsMember(id UserID) bool {
	return id == c.UserID || id == c.PartnerID
}

// Other returns the partner id opposite to id.
func (c Couple) Other(id UserID) UserID {
	if id == c.UserID {
		return c.PartnerID
	}
	return c.UserID
}

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrCoupleNotFound is returned when a referenced couple doesn't exist.
	ErrCoupleNotFound = errors.New("couple not found")

	// ErrGoalNotFound is returned when a referenced goal doesn't exist.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrNotMember is returned when a user id doesn't belong to the couple.
	ErrNotMember = errors.New("user is not a member of this couple")
)

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCoupleNotFound) || errors.Is(err, ErrGoalNotFound)
}

// =============================================================================
// STORE - Raw-record persistence
// =============================================================================

// Store handles persistence of raw financial records. All reads are scoped
// to one couple; the engine never aggregates across couples.
type Store interface {
	// Couples
	PutCouple(ctx context.Context, c Couple) error
	GetCouple(ctx context.Context, id CoupleID) (Couple, error)
	ListCouples(ctx context.Context) ([]Couple, error)

	// Expenses
	PutExpense(ctx context.Context, e Expense) error
	ListExpenses(ctx context.Context, coupleID CoupleID) ([]Expense, error)

	// Goals
	PutGoal(ctx context.Context, g Goal) error
	GetGoal(ctx context.Context, coupleID CoupleID, id GoalID) (Goal, error)
	ListGoals(ctx context.Context, coupleID CoupleID) ([]Goal, error)

	// Contributions, chronological by CreatedAt
	AddContribution(ctx context.Context, c Contribution) error
	ListContributions(ctx context.Context, coupleID CoupleID) ([]Contribution, error)

	// Safety pot balance (absent pot reads as zero, not an error)
	SetSafetyPot(ctx context.Context, coupleID CoupleID, amount SafetyPot) error
	GetSafetyPot(ctx context.Context, coupleID CoupleID) (SafetyPot, error)
}

// =============================================================================
// SNAPSHOT STORE - Persisted engine outputs
// =============================================================================

// SnapshotStore caches computed monthly snapshots so dashboards don't
// recompute full history on every read. Snapshots are derived data: safe
// to overwrite, always reproducible from raw records.
type SnapshotStore interface {
	PutSnapshot(ctx context.Context, coupleID CoupleID, snapshot MonthlyProgress) error
	GetSnapshot(ctx context.Context, coupleID CoupleID, month MonthKey) (MonthlyProgress, bool, error)
	ListSnapshots(ctx context.Context, coupleID CoupleID) ([]MonthlyProgress, error)
}
