package models

import "time"

// ConflictStats is the process-wide running aggregate of conflict
// activity. Counters are maintained incrementally by the lifecycle
// manager, never recomputed from the stored conflicts.
type ConflictStats struct {
	Total      int                       `json:"total"`
	Resolved   int                       `json:"resolved"`
	Pending    int                       `json:"pending"`
	BySeverity map[Severity]int          `json:"by_severity"`
	ByCategory map[ConflictCategory]int  `json:"by_category"`
	ByOutcome  map[ResolutionOutcome]int `json:"by_outcome"`

	// AverageResolutionTime is a running pairwise average, not a true
	// cumulative mean: each successful resolution averages its own
	// duration with the previous value. The recency bias is part of
	// the established behavior and callers depend on it.
	AverageResolutionTime time.Duration `json:"average_resolution_time"`
}

// NewConflictStats returns a zeroed stats aggregate with all counter
// maps initialized.
func NewConflictStats() ConflictStats {
	return ConflictStats{
		BySeverity: make(map[Severity]int),
		ByCategory: make(map[ConflictCategory]int),
		ByOutcome:  make(map[ResolutionOutcome]int),
	}
}

// Clone returns a copy with independent counter maps.
func (s ConflictStats) Clone() ConflictStats {
	clone := s
	clone.BySeverity = make(map[Severity]int, len(s.BySeverity))
	for k, v := range s.BySeverity {
		clone.BySeverity[k] = v
	}
	clone.ByCategory = make(map[ConflictCategory]int, len(s.ByCategory))
	for k, v := range s.ByCategory {
		clone.ByCategory[k] = v
	}
	clone.ByOutcome = make(map[ResolutionOutcome]int, len(s.ByOutcome))
	for k, v := range s.ByOutcome {
		clone.ByOutcome[k] = v
	}
	return clone
}
