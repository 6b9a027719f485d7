/*
scheduler.go - Automated snapshot refresh scheduler

PURPOSE:
  Periodically recomputes the current month's progress snapshot and the
  achievement state for every couple, so dashboards read warm data and
  unlocks land even when nobody calls the analytics endpoints.

DESIGN:
  - Runs a background goroutine with configurable refresh interval
  - Recomputes the current month only; history is immutable once closed
  - Achievement evaluation merges with persisted state, so unlock
    timestamps are never regressed by a refresh
  - Failures on one couple never block the rest

CONFIGURATION:
  - RefreshInterval: How often to refresh (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewSnapshotScheduler(store, handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: GetMonthlyProgress (on-demand equivalent)
  - achievements/engine.go: Evaluate
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/tandemfin/progress-engine/achievements"
	"github.com/tandemfin/progress-engine/progress"
)

// SnapshotScheduler keeps current-month snapshots and achievement state warm.
type SnapshotScheduler struct {
	Store           Storage
	Handler         *Handler
	RefreshInterval time.Duration
	Enabled         bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewSnapshotScheduler creates a new scheduler.
func NewSnapshotScheduler(store Storage, handler *Handler) *SnapshotScheduler {
	return &SnapshotScheduler{
		Store:           store,
		Handler:         handler,
		RefreshInterval: 1 * time.Hour,
		Enabled:         true,
		stop:            make(chan bool),
	}
}

// Start begins the scheduler.
func (ss *SnapshotScheduler) Start() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if !ss.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	ss.ticker = time.NewTicker(ss.RefreshInterval)
	ss.wg.Add(1)

	go ss.run()

	log.Printf("[Scheduler] Started with refresh interval: %v", ss.RefreshInterval)
}

// Stop stops the scheduler.
func (ss *SnapshotScheduler) Stop() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.ticker != nil {
		ss.ticker.Stop()
		close(ss.stop)
		ss.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (ss *SnapshotScheduler) run() {
	defer ss.wg.Done()

	// Run immediately on start
	ss.refreshAll()

	for {
		select {
		case <-ss.ticker.C:
			ss.refreshAll()
		case <-ss.stop:
			return
		}
	}
}

func (ss *SnapshotScheduler) refreshAll() {
	ctx := context.Background()
	now := ss.Handler.Now().UTC()

	couples, err := ss.Store.ListCouples(ctx)
	if err != nil {
		log.Printf("[Scheduler] Error listing couples: %v", err)
		return
	}

	refreshed := 0
	for _, couple := range couples {
		if err := ss.refreshCouple(ctx, couple, now); err != nil {
			log.Printf("[Scheduler] Error refreshing %s: %v", couple.ID, err)
			continue
		}
		refreshed++
	}

	if refreshed > 0 {
		log.Printf("[Scheduler] Refreshed %d couples for %s", refreshed, progress.MonthKeyOf(now))
	}
}

func (ss *SnapshotScheduler) refreshCouple(ctx context.Context, couple progress.Couple, now time.Time) error {
	expenses, err := ss.Store.ListExpenses(ctx, couple.ID)
	if err != nil {
		return err
	}
	goals, err := ss.Store.ListGoals(ctx, couple.ID)
	if err != nil {
		return err
	}
	contributions, err := ss.Store.ListContributions(ctx, couple.ID)
	if err != nil {
		return err
	}
	pot, err := ss.Store.GetSafetyPot(ctx, couple.ID)
	if err != nil {
		return err
	}

	snapshot := progress.BuildMonthlyProgress(progress.BuildInput{
		Month:         progress.MonthKeyOf(now),
		Contributions: contributions,
		Goals:         goals,
		Expenses:      expenses,
		SafetyPot:     pot.Balance,
		UserID:        couple.UserID,
		PartnerID:     couple.PartnerID,
		Now:           now,
	})
	if err := ss.Store.PutSnapshot(ctx, couple.ID, snapshot); err != nil {
		return err
	}

	for _, userID := range []progress.UserID{couple.UserID, couple.PartnerID} {
		prior, err := ss.Store.ListAchievementStates(ctx, couple.ID, userID)
		if err != nil {
			return err
		}

		evaluated := achievements.Evaluate(ss.Handler.Catalog, prior, achievements.EvalInput{
			UserID:           userID,
			Contributions:    contributions,
			Goals:            goals,
			SafetyPot:        pot,
			PartnershipStart: couple.CreatedAt,
			Now:              now,
		})

		states := make([]achievements.State, len(evaluated))
		for i, a := range evaluated {
			states[i] = a.State
		}
		if err := ss.Store.PutAchievementStates(ctx, couple.ID, userID, states); err != nil {
			return err
		}
	}
	return nil
}

// RunNow triggers an immediate refresh (for testing/admin).
func (ss *SnapshotScheduler) RunNow() {
	ss.refreshAll()
}

// GetNextRunTime returns when the next scheduled refresh will occur.
func (ss *SnapshotScheduler) GetNextRunTime() time.Time {
	return time.Now().Add(ss.RefreshInterval)
}
