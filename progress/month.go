package progress

import (
	"sort"
	"time"
)

// =============================================================================
// MONTH KEY - Calendar month identifier ("YYYY-MM")
// =============================================================================

// MonthKey identifies a calendar month. Keys compare correctly as strings
// because of the fixed-width zero-padded format.
type MonthKey string

const monthKeyLayout = "2006-01"

// MonthKeyOf truncates a timestamp to its calendar month.
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey(t.Format(monthKeyLayout))
}

// NewMonthKey builds a key from a year and month.
func NewMonthKey(year int, month time.Month) MonthKey {
	return MonthKeyOf(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// Time returns the first instant of the month in UTC. Malformed keys
// return the zero time.
func (m MonthKey) Time() time.Time {
	t, err := time.Parse(monthKeyLayout, string(m))
	if err != nil {
		return time.Time{}
	}
	return t
}

// IsValid reports whether the key parses as YYYY-MM.
func (m MonthKey) IsValid() bool {
	_, err := time.Parse(monthKeyLayout, string(m))
	return err == nil
}

// AddMonths returns the key n calendar months away (n may be negative).
func (m MonthKey) AddMonths(n int) MonthKey {
	return MonthKeyOf(m.Time().AddDate(0, n, 0))
}

// Prev returns the immediately preceding calendar month.
func (m MonthKey) Prev() MonthKey { return m.AddMonths(-1) }

// Before reports whether m is chronologically earlier than other.
func (m MonthKey) Before(other MonthKey) bool { return string(m) < string(other) }

// MonthsBetween counts whole calendar months from 'from' to 'to'
// (month-granular: day-of-month is ignored). Negative when to < from.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// SortMonthKeysDesc sorts keys newest-first, in place.
func SortMonthKeysDesc(keys []MonthKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[j].Before(keys[i]) })
}
