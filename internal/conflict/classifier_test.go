package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kimhsiao/syncguard/internal/models"
)

func TestClassifyField(t *testing.T) {
	tests := []struct {
		name       string
		entityType string
		field      string
		want       models.Severity
	}{
		{"attendance id is critical", "attendance", "id", models.SeverityCritical},
		{"attendance user_id is critical", "attendance", "user_id", models.SeverityCritical},
		{"attendance timestamp is critical", "attendance", "timestamp", models.SeverityCritical},
		{"attendance status is high", "attendance", "status", models.SeverityHigh},
		{"attendance location_id is high", "attendance", "location_id", models.SeverityHigh},
		{"attendance notes is low", "attendance", "notes", models.SeverityLow},
		{"attendance photo_url is low", "attendance", "photo_url", models.SeverityLow},
		{"attendance unknown field is medium", "attendance", "device_name", models.SeverityMedium},
		{"user email is critical", "user", "email", models.SeverityCritical},
		{"user role is critical", "user", "role", models.SeverityCritical},
		{"user name is high", "user", "name", models.SeverityHigh},
		{"user bio is low", "user", "bio", models.SeverityLow},
		{"unknown entity type is medium", "device", "id", models.SeverityMedium},
		{"unknown entity unknown field is medium", "device", "anything", models.SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyField(tt.entityType, tt.field, "local", "remote")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyConflictIsMaxOverFields(t *testing.T) {
	fields := []models.ConflictedField{
		{Name: "notes"},
		{Name: "status"},
		{Name: "photo_url"},
	}

	// status (high) dominates notes/photo_url (low).
	assert.Equal(t, models.SeverityHigh, ClassifyConflict("attendance", fields))

	fields = append(fields, models.ConflictedField{Name: "user_id"})
	assert.Equal(t, models.SeverityCritical, ClassifyConflict("attendance", fields))
}

func TestClassifyConflictLowOnlyFields(t *testing.T) {
	fields := []models.ConflictedField{{Name: "notes"}}
	assert.Equal(t, models.SeverityLow, ClassifyConflict("attendance", fields))
}
