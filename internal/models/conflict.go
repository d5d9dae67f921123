// Package models provides data model definitions for SyncGuard.
package models

import "time"

// Severity classifies how urgent a conflict is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityRank fixes the total order low < medium < high < critical.
var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Rank returns the position of the severity in the fixed ordering.
// Unknown severities rank below low.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

// MaxSeverity returns the more urgent of two severities.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// ConflictCategory identifies the kind of record that diverged.
type ConflictCategory string

const (
	CategoryAttendance   ConflictCategory = "attendance"
	CategoryUser         ConflictCategory = "user"
	CategorySettings     ConflictCategory = "settings"
	CategorySyncMetadata ConflictCategory = "sync_metadata"
	CategoryCustom       ConflictCategory = "custom"
)

// ResolutionStrategy defines how conflicts are resolved.
type ResolutionStrategy string

const (
	StrategyLastWriteWins  ResolutionStrategy = "last_write_wins"
	StrategyFirstWriteWins ResolutionStrategy = "first_write_wins"
	StrategyFieldLevel     ResolutionStrategy = "field_level"
	StrategyCustomLogic    ResolutionStrategy = "custom_business_logic"
	StrategyManual         ResolutionStrategy = "manual"
)

// ResolutionOutcome records how a conflict ended up (or why it hasn't).
type ResolutionOutcome string

const (
	OutcomeAutoResolved     ResolutionOutcome = "auto_resolved"
	OutcomeManuallyResolved ResolutionOutcome = "manually_resolved"
	OutcomePending          ResolutionOutcome = "pending"
	OutcomeIgnored          ResolutionOutcome = "ignored"
	OutcomeEscalated        ResolutionOutcome = "escalated"
)

// ConflictedField is one attribute that differs between the local and
// remote snapshots of a record.
type ConflictedField struct {
	Name               string             `json:"name"`
	LocalValue         any                `json:"local_value"`
	RemoteValue        any                `json:"remote_value"`
	ResolvedValue      any                `json:"resolved_value,omitempty"`
	ResolutionStrategy ResolutionStrategy `json:"resolution_strategy,omitempty"`
}

// ConflictMetadata carries the identity and status of one conflict.
type ConflictMetadata struct {
	ID                 string             `json:"id"`
	Timestamp          time.Time          `json:"timestamp"`
	EntityType         string             `json:"entity_type"`
	EntityID           string             `json:"entity_id"`
	Severity           Severity           `json:"severity"`
	Category           ConflictCategory   `json:"category"`
	Resolved           bool               `json:"resolved"`
	ResolutionOutcome  ResolutionOutcome  `json:"resolution_outcome"`
	ResolvedAt         *time.Time         `json:"resolved_at,omitempty"`
	ResolvedBy         string             `json:"resolved_by,omitempty"`
	ResolutionStrategy ResolutionStrategy `json:"resolution_strategy,omitempty"`
	RetryCount         int                `json:"retry_count"`
	Error              string             `json:"error,omitempty"`
	LastAttemptAt      *time.Time         `json:"last_attempt_at,omitempty"`
}

// Conflict is the aggregate root: metadata plus both original snapshots
// (retained for traceability) and the per-field divergences.
type Conflict struct {
	Metadata             ConflictMetadata  `json:"metadata"`
	LocalData            map[string]any    `json:"local_data"`
	RemoteData           map[string]any    `json:"remote_data"`
	Fields               []ConflictedField `json:"fields"`
	SuggestedResolution  map[string]any    `json:"suggested_resolution,omitempty"`
	CustomResolutionData map[string]any    `json:"custom_resolution_data,omitempty"`
}

// Clone returns a deep copy of the conflict so callers can hand out
// read views without exposing engine-owned state.
func (c *Conflict) Clone() *Conflict {
	if c == nil {
		return nil
	}

	clone := &Conflict{
		Metadata:   c.Metadata,
		LocalData:  cloneMap(c.LocalData),
		RemoteData: cloneMap(c.RemoteData),
	}

	if c.Metadata.ResolvedAt != nil {
		t := *c.Metadata.ResolvedAt
		clone.Metadata.ResolvedAt = &t
	}
	if c.Metadata.LastAttemptAt != nil {
		t := *c.Metadata.LastAttemptAt
		clone.Metadata.LastAttemptAt = &t
	}

	if c.Fields != nil {
		clone.Fields = make([]ConflictedField, len(c.Fields))
		copy(clone.Fields, c.Fields)
	}
	clone.SuggestedResolution = cloneMap(c.SuggestedResolution)
	clone.CustomResolutionData = cloneMap(c.CustomResolutionData)

	return clone
}

// cloneMap deep-copies nested maps and slices; scalar values are shared.
func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return cloneMap(tv)
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
