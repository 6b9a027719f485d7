/*
streak.go - Contribution streak computation

PURPOSE:
  A streak is a run of consecutive calendar months each containing at
  least one contribution. Two independent scans:

  CURRENT STREAK:
    Walk backward month by month from the evaluation month. The first
    month with no contribution ends the streak - a gap of any size
    terminates it, so only the most recent unbroken run counts.

  LONGEST STREAK:
    Scan the full sorted month-key history for the longest run of
    consecutive keys. Computed independently of the current streak, not
    derived from it.

  Amounts are irrelevant here; presence in a month is all that counts.
*/
package achievements

import (
	"sort"
	"time"

	"github.com/tandemfin/progress-engine/progress"
)

// ComputeStreak derives streak figures for one user from raw contribution
// records. `now` anchors the current month; inject it for deterministic
// evaluation.
func ComputeStreak(contributions []progress.Contribution, userID progress.UserID, now time.Time) StreakData {
	var (
		months = make(map[progress.MonthKey]bool)
		total  int
		last   *time.Time
	)

	for _, c := range contributions {
		if c.UserID != userID {
			continue
		}
		total++
		months[progress.MonthKeyOf(c.CreatedAt)] = true
		if last == nil || c.CreatedAt.After(*last) {
			t := c.CreatedAt
			last = &t
		}
	}

	return StreakData{
		CurrentStreak:      currentStreak(months, progress.MonthKeyOf(now)),
		LongestStreak:      longestStreak(months),
		TotalContributions: total,
		LastContribution:   last,
	}
}

// currentStreak walks backward from the anchor month until the first gap.
func currentStreak(months map[progress.MonthKey]bool, anchor progress.MonthKey) int {
	streak := 0
	for m := anchor; months[m]; m = m.Prev() {
		streak++
	}
	return streak
}

// longestStreak finds the longest run of consecutive month keys anywhere
// in the history.
func longestStreak(months map[progress.MonthKey]bool) int {
	if len(months) == 0 {
		return 0
	}

	keys := make([]progress.MonthKey, 0, len(months))
	for m := range months {
		keys = append(keys, m)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	longest, run := 1, 1
	for i := 1; i < len(keys); i++ {
		if keys[i-1].AddMonths(1) == keys[i] {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
