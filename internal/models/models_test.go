package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityOrdering(t *testing.T) {
	assert.Less(t, SeverityLow.Rank(), SeverityMedium.Rank())
	assert.Less(t, SeverityMedium.Rank(), SeverityHigh.Rank())
	assert.Less(t, SeverityHigh.Rank(), SeverityCritical.Rank())
	assert.Equal(t, -1, Severity("bogus").Rank())
}

func TestMaxSeverity(t *testing.T) {
	tests := []struct {
		name string
		a, b Severity
		want Severity
	}{
		{"low vs high", SeverityLow, SeverityHigh, SeverityHigh},
		{"high vs low", SeverityHigh, SeverityLow, SeverityHigh},
		{"equal", SeverityMedium, SeverityMedium, SeverityMedium},
		{"critical dominates", SeverityCritical, SeverityHigh, SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaxSeverity(tt.a, tt.b))
		})
	}
}

func TestConflictClone(t *testing.T) {
	now := time.Now()
	resolvedAt := now.Add(time.Minute)

	original := &Conflict{
		Metadata: ConflictMetadata{
			ID:         "attendance-att-1-1-abcd1234",
			Timestamp:  now,
			EntityType: "attendance",
			EntityID:   "att-1",
			Severity:   SeverityHigh,
			Category:   CategoryAttendance,
			ResolvedAt: &resolvedAt,
		},
		LocalData: map[string]any{
			"status": "present",
			"meta":   map[string]any{"device": "phone"},
			"tags":   []any{"a", "b"},
		},
		RemoteData: map[string]any{"status": "absent"},
		Fields: []ConflictedField{
			{Name: "status", LocalValue: "present", RemoteValue: "absent"},
		},
		SuggestedResolution:  map[string]any{"status": "absent"},
		CustomResolutionData: map[string]any{"user_id": "u-1"},
	}

	clone := original.Clone()
	require.NotSame(t, original, clone)
	assert.Equal(t, original, clone)

	// Mutating the clone must not leak into the original.
	clone.Metadata.Resolved = true
	*clone.Metadata.ResolvedAt = clone.Metadata.ResolvedAt.Add(time.Hour)
	clone.LocalData["status"] = "tampered"
	clone.LocalData["meta"].(map[string]any)["device"] = "laptop"
	clone.LocalData["tags"].([]any)[0] = "z"
	clone.Fields[0].ResolvedValue = "tampered"
	clone.SuggestedResolution["status"] = "tampered"

	assert.False(t, original.Metadata.Resolved)
	assert.True(t, original.Metadata.ResolvedAt.Equal(resolvedAt))
	assert.Equal(t, "present", original.LocalData["status"])
	assert.Equal(t, "phone", original.LocalData["meta"].(map[string]any)["device"])
	assert.Equal(t, "a", original.LocalData["tags"].([]any)[0])
	assert.Nil(t, original.Fields[0].ResolvedValue)
	assert.Equal(t, "absent", original.SuggestedResolution["status"])
}

func TestConflictCloneNil(t *testing.T) {
	var c *Conflict
	assert.Nil(t, c.Clone())
}

func TestConflictStatsClone(t *testing.T) {
	stats := NewConflictStats()
	stats.Total = 2
	stats.BySeverity[SeverityHigh] = 2
	stats.ByCategory[CategoryUser] = 1
	stats.ByOutcome[OutcomePending] = 2

	clone := stats.Clone()
	clone.BySeverity[SeverityHigh] = 99
	clone.ByCategory[CategoryUser] = 99
	clone.ByOutcome[OutcomePending] = 99

	assert.Equal(t, 2, stats.BySeverity[SeverityHigh])
	assert.Equal(t, 1, stats.ByCategory[CategoryUser])
	assert.Equal(t, 2, stats.ByOutcome[OutcomePending])
}
