package conflict

import "github.com/kimhsiao/syncguard/internal/models"

// severityRule lists, for one entity type, which field names map to
// which severity. Fields matching no rule classify as medium.
type severityRule struct {
	critical []string
	high     []string
	low      []string
}

// severityRules is the classification table, keyed by entity type.
// Entity types without an entry classify every field as medium.
var severityRules = map[string]severityRule{
	"attendance": {
		critical: []string{"id", "user_id", "timestamp"},
		high:     []string{"status", "location_id"},
		low:      []string{"notes", "photo_url"},
	},
	"user": {
		critical: []string{"id", "email", "role"},
		high:     []string{"name", "department"},
		low:      []string{"profile_image", "bio"},
	},
}

// ClassifyField assigns a severity to one field divergence. The two
// values are part of the signature for future value-aware rules but do
// not currently influence the decision.
func ClassifyField(entityType, fieldName string, localValue, remoteValue any) models.Severity {
	rule, ok := severityRules[entityType]
	if !ok {
		return models.SeverityMedium
	}

	switch {
	case containsField(rule.critical, fieldName):
		return models.SeverityCritical
	case containsField(rule.high, fieldName):
		return models.SeverityHigh
	case containsField(rule.low, fieldName):
		return models.SeverityLow
	default:
		return models.SeverityMedium
	}
}

// ClassifyConflict returns the maximum severity across all conflicted
// fields. This is stamped on the conflict at creation and never
// recomputed afterward.
func ClassifyConflict(entityType string, fields []models.ConflictedField) models.Severity {
	severity := models.SeverityLow
	for _, f := range fields {
		fieldSeverity := ClassifyField(entityType, f.Name, f.LocalValue, f.RemoteValue)
		severity = models.MaxSeverity(severity, fieldSeverity)
	}
	return severity
}

func containsField(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
