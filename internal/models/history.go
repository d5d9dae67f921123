package models

import "time"

// HistoryAction tags one lifecycle event in the audit trail.
type HistoryAction string

const (
	ActionDetected         HistoryAction = "detected"
	ActionResolved         HistoryAction = "resolved"
	ActionManuallyResolved HistoryAction = "manually_resolved"
	ActionError            HistoryAction = "error"
	ActionEscalated        HistoryAction = "escalated"
)

// HistoryEntry is an immutable audit record of one lifecycle event for
// one conflict.
type HistoryEntry struct {
	ConflictID string         `json:"conflict_id"`
	Timestamp  time.Time      `json:"timestamp"`
	Action     HistoryAction  `json:"action"`
	Details    map[string]any `json:"details,omitempty"`
}
