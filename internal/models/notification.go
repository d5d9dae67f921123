package models

import "time"

// NotificationType classifies a user-facing conflict event.
type NotificationType string

const (
	NotificationNew       NotificationType = "new"
	NotificationResolved  NotificationType = "resolved"
	NotificationEscalated NotificationType = "escalated"
)

// Notification is a user-facing event record generated alongside
// detection, resolution, or escalation.
type Notification struct {
	ID         string           `json:"id"`
	ConflictID string           `json:"conflict_id"`
	Type       NotificationType `json:"type"`
	Message    string           `json:"message"`
	Timestamp  time.Time        `json:"timestamp"`
	Read       bool             `json:"read"`
	Severity   Severity         `json:"severity"`
	ActionURL  string           `json:"action_url"`
}
