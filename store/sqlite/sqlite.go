/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements progress.Store, progress.SnapshotStore and
  achievements.StateStore using SQLite. In production the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  couples:            Partnership records (two member ids, display names)
  expenses:           Recurring shared expenses
  goals:              Joint savings goals
  contributions:      Timestamped contribution records
  safety_pots:        One row per couple, current balance
  progress_snapshots: Cached engine outputs, JSON per (couple, month)
  achievement_state:  Per-user achievement progress/unlocks

MONEY:
  Decimal amounts are stored as TEXT and parsed back with
  decimal.NewFromString, preserving exactness (no float round-trips).

SNAPSHOTS:
  Snapshots are derived data - always reproducible from raw records - so
  they are upserted freely. The one timestamp that must stay stable is
  the achievement unlocked_at; the upsert keeps the first value ever
  written (COALESCE on conflict).

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers don't
  block, single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/progress.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - progress/store.go: Interface definitions
  - progress/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/tandemfin/progress-engine/achievements"
	"github.com/tandemfin/progress-engine/progress"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Compile-time interface checks
var (
	_ progress.Store          = (*Store)(nil)
	_ progress.SnapshotStore  = (*Store)(nil)
	_ achievements.StateStore = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS couples (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		user_name TEXT NOT NULL,
		partner_id TEXT NOT NULL,
		partner_name TEXT NOT NULL,
		currency TEXT NOT NULL DEFAULT 'USD',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		couple_id TEXT NOT NULL REFERENCES couples(id),
		name TEXT NOT NULL,
		amount TEXT NOT NULL,
		frequency TEXT NOT NULL,
		status TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_expenses_couple ON expenses(couple_id);

	CREATE TABLE IF NOT EXISTS goals (
		id TEXT NOT NULL,
		couple_id TEXT NOT NULL REFERENCES couples(id),
		name TEXT NOT NULL,
		target_amount TEXT NOT NULL,
		current_amount TEXT NOT NULL,
		monthly_target TEXT NOT NULL,
		target_date TEXT,
		status TEXT NOT NULL,
		PRIMARY KEY (couple_id, id)
	);

	CREATE TABLE IF NOT EXISTS contributions (
		id TEXT PRIMARY KEY,
		couple_id TEXT NOT NULL REFERENCES couples(id),
		user_id TEXT NOT NULL,
		goal_id TEXT,
		amount TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	-- Hot path: monthly grouping and per-user filtering
	CREATE INDEX IF NOT EXISTS idx_contributions_couple_created
		ON contributions(couple_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_contributions_user
		ON contributions(couple_id, user_id);

	CREATE TABLE IF NOT EXISTS safety_pots (
		couple_id TEXT PRIMARY KEY REFERENCES couples(id),
		balance TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS progress_snapshots (
		couple_id TEXT NOT NULL REFERENCES couples(id),
		month TEXT NOT NULL,
		snapshot_json TEXT NOT NULL,
		computed_at TEXT NOT NULL,
		PRIMARY KEY (couple_id, month)
	);

	CREATE TABLE IF NOT EXISTS achievement_state (
		couple_id TEXT NOT NULL REFERENCES couples(id),
		user_id TEXT NOT NULL,
		achievement_id TEXT NOT NULL,
		progress REAL NOT NULL,
		unlocked INTEGER NOT NULL,
		unlocked_at TEXT,
		PRIMARY KEY (couple_id, user_id, achievement_id)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// COUPLES
// =============================================================================

func (s *Store) PutCouple(ctx context.Context, c progress.Couple) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO couples (id, user_id, user_name, partner_id, partner_name, currency, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_name = excluded.user_name,
			partner_name = excluded.partner_name,
			currency = excluded.currency`,
		string(c.ID), string(c.UserID), c.UserName, string(c.PartnerID), c.PartnerName,
		c.Currency, c.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put couple: %w", err)
	}
	return nil
}

func (s *Store) GetCouple(ctx context.Context, id progress.CoupleID) (progress.Couple, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, user_name, partner_id, partner_name, currency, created_at
		FROM couples WHERE id = ?`, string(id))
	return scanCouple(row)
}

func (s *Store) ListCouples(ctx context.Context) ([]progress.Couple, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, user_name, partner_id, partner_name, currency, created_at
		FROM couples ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list couples: %w", err)
	}
	defer rows.Close()

	var out []progress.Couple
	for rows.Next() {
		c, err := scanCouple(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCouple(row rowScanner) (progress.Couple, error) {
	var (
		c         progress.Couple
		id        string
		userID    string
		partnerID string
		createdAt string
	)
	err := row.Scan(&id, &userID, &c.UserName, &partnerID, &c.PartnerName, &c.Currency, &createdAt)
	if err == sql.ErrNoRows {
		return progress.Couple{}, progress.ErrCoupleNotFound
	}
	if err != nil {
		return progress.Couple{}, fmt.Errorf("scan couple: %w", err)
	}
	c.ID = progress.CoupleID(id)
	c.UserID = progress.UserID(userID)
	c.PartnerID = progress.UserID(partnerID)
	c.CreatedAt = parseTime(createdAt)
	return c, nil
}

// =============================================================================
// EXPENSES
// =============================================================================

func (s *Store) PutExpense(ctx context.Context, e progress.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, couple_id, name, amount, frequency, status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			amount = excluded.amount,
			frequency = excluded.frequency,
			status = excluded.status`,
		e.ID, string(e.CoupleID), e.Name, e.Amount.String(), string(e.Frequency), string(e.Status))
	if err != nil {
		return fmt.Errorf("put expense: %w", err)
	}
	return nil
}

func (s *Store) ListExpenses(ctx context.Context, coupleID progress.CoupleID) ([]progress.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, couple_id, name, amount, frequency, status
		FROM expenses WHERE couple_id = ? ORDER BY name`, string(coupleID))
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []progress.Expense
	for rows.Next() {
		var (
			e      progress.Expense
			cid    string
			amount string
			freq   string
			status string
		)
		if err := rows.Scan(&e.ID, &cid, &e.Name, &amount, &freq, &status); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.CoupleID = progress.CoupleID(cid)
		e.Amount = parseDecimal(amount)
		e.Frequency = progress.Frequency(freq)
		e.Status = progress.RecordStatus(status)
		out = append(out, e)
	}
	return out, rows.Err()
}

// =============================================================================
// GOALS
// =============================================================================

func (s *Store) PutGoal(ctx context.Context, g progress.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var targetDate any
	if g.TargetDate != nil {
		targetDate = g.TargetDate.UTC().Format(time.RFC3339)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (id, couple_id, name, target_amount, current_amount, monthly_target, target_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(couple_id, id) DO UPDATE SET
			name = excluded.name,
			target_amount = excluded.target_amount,
			current_amount = excluded.current_amount,
			monthly_target = excluded.monthly_target,
			target_date = excluded.target_date,
			status = excluded.status`,
		string(g.ID), string(g.CoupleID), g.Name, g.TargetAmount.String(),
		g.CurrentAmount.String(), g.MonthlyTarget.String(), targetDate, string(g.Status))
	if err != nil {
		return fmt.Errorf("put goal: %w", err)
	}
	return nil
}

func (s *Store) GetGoal(ctx context.Context, coupleID progress.CoupleID, id progress.GoalID) (progress.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, couple_id, name, target_amount, current_amount, monthly_target, target_date, status
		FROM goals WHERE couple_id = ? AND id = ?`, string(coupleID), string(id))

	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return progress.Goal{}, progress.ErrGoalNotFound
	}
	return g, err
}

func (s *Store) ListGoals(ctx context.Context, coupleID progress.CoupleID) ([]progress.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, couple_id, name, target_amount, current_amount, monthly_target, target_date, status
		FROM goals WHERE couple_id = ? ORDER BY name`, string(coupleID))
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []progress.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func scanGoal(row rowScanner) (progress.Goal, error) {
	var (
		g          progress.Goal
		id         string
		cid        string
		target     string
		current    string
		monthly    string
		targetDate sql.NullString
		status     string
	)
	err := row.Scan(&id, &cid, &g.Name, &target, &current, &monthly, &targetDate, &status)
	if err != nil {
		return progress.Goal{}, err
	}
	g.ID = progress.GoalID(id)
	g.CoupleID = progress.CoupleID(cid)
	g.TargetAmount = parseDecimal(target)
	g.CurrentAmount = parseDecimal(current)
	g.MonthlyTarget = parseDecimal(monthly)
	if targetDate.Valid {
		t := parseTime(targetDate.String)
		g.TargetDate = &t
	}
	g.Status = progress.RecordStatus(status)
	return g, nil
}

// =============================================================================
// CONTRIBUTIONS
// =============================================================================

func (s *Store) AddContribution(ctx context.Context, c progress.Contribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contributions (id, couple_id, user_id, goal_id, amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, string(c.CoupleID), string(c.UserID), string(c.GoalID),
		c.Amount.String(), c.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("add contribution: %w", err)
	}
	return nil
}

func (s *Store) ListContributions(ctx context.Context, coupleID progress.CoupleID) ([]progress.Contribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, couple_id, user_id, goal_id, amount, created_at
		FROM contributions WHERE couple_id = ? ORDER BY created_at`, string(coupleID))
	if err != nil {
		return nil, fmt.Errorf("list contributions: %w", err)
	}
	defer rows.Close()

	var out []progress.Contribution
	for rows.Next() {
		var (
			c         progress.Contribution
			cid       string
			userID    string
			goalID    string
			amount    string
			createdAt string
		)
		if err := rows.Scan(&c.ID, &cid, &userID, &goalID, &amount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan contribution: %w", err)
		}
		c.CoupleID = progress.CoupleID(cid)
		c.UserID = progress.UserID(userID)
		c.GoalID = progress.GoalID(goalID)
		c.Amount = parseDecimal(amount)
		c.CreatedAt = parseTime(createdAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

// =============================================================================
// SAFETY POT
// =============================================================================

func (s *Store) SetSafetyPot(ctx context.Context, coupleID progress.CoupleID, pot progress.SafetyPot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO safety_pots (couple_id, balance, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(couple_id) DO UPDATE SET
			balance = excluded.balance,
			updated_at = excluded.updated_at`,
		string(coupleID), pot.Balance.String(), pot.UpdatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set safety pot: %w", err)
	}
	return nil
}

// GetSafetyPot returns a zero-balance pot for couples that never set one.
func (s *Store) GetSafetyPot(ctx context.Context, coupleID progress.CoupleID) (progress.SafetyPot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		balance   string
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT balance, updated_at FROM safety_pots WHERE couple_id = ?`,
		string(coupleID)).Scan(&balance, &updatedAt)
	if err == sql.ErrNoRows {
		return progress.SafetyPot{}, nil
	}
	if err != nil {
		return progress.SafetyPot{}, fmt.Errorf("get safety pot: %w", err)
	}
	return progress.SafetyPot{Balance: parseDecimal(balance), UpdatedAt: parseTime(updatedAt)}, nil
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

func (s *Store) PutSnapshot(ctx context.Context, coupleID progress.CoupleID, snapshot progress.MonthlyProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO progress_snapshots (couple_id, month, snapshot_json, computed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(couple_id, month) DO UPDATE SET
			snapshot_json = excluded.snapshot_json,
			computed_at = excluded.computed_at`,
		string(coupleID), string(snapshot.Month), string(payload),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	return nil
}

func (s *Store) GetSnapshot(ctx context.Context, coupleID progress.CoupleID, month progress.MonthKey) (progress.MonthlyProgress, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT snapshot_json FROM progress_snapshots
		WHERE couple_id = ? AND month = ?`, string(coupleID), string(month)).Scan(&payload)
	if err == sql.ErrNoRows {
		return progress.MonthlyProgress{}, false, nil
	}
	if err != nil {
		return progress.MonthlyProgress{}, false, fmt.Errorf("get snapshot: %w", err)
	}

	var snapshot progress.MonthlyProgress
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		return progress.MonthlyProgress{}, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snapshot, true, nil
}

func (s *Store) ListSnapshots(ctx context.Context, coupleID progress.CoupleID) ([]progress.MonthlyProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT snapshot_json FROM progress_snapshots
		WHERE couple_id = ? ORDER BY month DESC`, string(coupleID))
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []progress.MonthlyProgress
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		var snapshot progress.MonthlyProgress
		if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot: %w", err)
		}
		out = append(out, snapshot)
	}
	return out, rows.Err()
}

// =============================================================================
// ACHIEVEMENT STATE
// =============================================================================

func (s *Store) PutAchievementStates(ctx context.Context, coupleID progress.CoupleID, userID progress.UserID, states []achievements.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin achievement tx: %w", err)
	}
	defer tx.Rollback()

	for _, st := range states {
		var unlockedAt any
		if st.UnlockedAt != nil {
			unlockedAt = st.UnlockedAt.UTC().Format(time.RFC3339)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO achievement_state (couple_id, user_id, achievement_id, progress, unlocked, unlocked_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(couple_id, user_id, achievement_id) DO UPDATE SET
				progress = excluded.progress,
				unlocked = excluded.unlocked,
				unlocked_at = COALESCE(achievement_state.unlocked_at, excluded.unlocked_at)`,
			string(coupleID), string(userID), st.AchievementID,
			st.Progress, boolToInt(st.Unlocked), unlockedAt)
		if err != nil {
			return fmt.Errorf("put achievement state %q: %w", st.AchievementID, err)
		}
	}

	return tx.Commit()
}

func (s *Store) ListAchievementStates(ctx context.Context, coupleID progress.CoupleID, userID progress.UserID) ([]achievements.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT achievement_id, progress, unlocked, unlocked_at
		FROM achievement_state
		WHERE couple_id = ? AND user_id = ? ORDER BY achievement_id`,
		string(coupleID), string(userID))
	if err != nil {
		return nil, fmt.Errorf("list achievement states: %w", err)
	}
	defer rows.Close()

	var out []achievements.State
	for rows.Next() {
		var (
			st         achievements.State
			unlocked   int
			unlockedAt sql.NullString
		)
		if err := rows.Scan(&st.AchievementID, &st.Progress, &unlocked, &unlockedAt); err != nil {
			return nil, fmt.Errorf("scan achievement state: %w", err)
		}
		st.Unlocked = unlocked != 0
		if unlockedAt.Valid {
			t := parseTime(unlockedAt.String)
			st.UnlockedAt = &t
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset deletes every row in every table. Used by scenario loading in dev
// environments; never exposed outside the scenario endpoints.
func (s *Store) Reset(ctx context.Context) error {
	tables := []string{
		"achievement_state",
		"progress_snapshots",
		"safety_pots",
		"contributions",
		"goals",
		"expenses",
		"couples",
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// =============================================================================
// HELPERS
// =============================================================================

// parseDecimal tolerates corrupt rows by reading them as zero, matching
// the engine's zero-default posture.
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
