package services

import (
	"time"

	"github.com/exercise-tracker/apiserver/types"
)

// LimitLog returns a copy of the first limit entries in insertion order.
func LimitLog(log []types.Exercise, limit int) []types.Exercise {
	if limit < 0 {
		limit = 0
	}
	if limit > len(log) {
		limit = len(log)
	}
	limited := make([]types.Exercise, limit)
	copy(limited, log[:limit])
	return limited
}

// FilterLog returns a copy holding the entries dated strictly after from and
// strictly before to. A zero bound is open. Entries whose date cannot be read
// are dropped whenever a bound is set.
func FilterLog(log []types.Exercise, from, to time.Time) []types.Exercise {
	filtered := make([]types.Exercise, 0, len(log))
	for _, entry := range log {
		if from.IsZero() && to.IsZero() {
			filtered = append(filtered, entry)
			continue
		}
		date, ok := parseStoredDate(entry.Date)
		if !ok {
			continue
		}
		if !from.IsZero() && !date.After(from) {
			continue
		}
		if !to.IsZero() && !date.Before(to) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}
