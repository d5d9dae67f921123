package conflict

import (
	"time"

	"github.com/google/uuid"
	"github.com/kimhsiao/syncguard/internal/models"
)

// auditLog is the append-only conflict history. Entries past the cap are
// dropped from the front, oldest first; entries themselves are never
// mutated. Access happens under the Manager's lock.
type auditLog struct {
	entries []models.HistoryEntry
	limit   int
}

func newAuditLog(limit int) *auditLog {
	return &auditLog{limit: limit}
}

// append records one lifecycle event and trims the front once the cap is
// exceeded.
func (l *auditLog) append(conflictID string, action models.HistoryAction, details map[string]any) {
	l.entries = append(l.entries, models.HistoryEntry{
		ConflictID: conflictID,
		Timestamp:  time.Now(),
		Action:     action,
		Details:    details,
	})
	if len(l.entries) > l.limit {
		l.entries = l.entries[len(l.entries)-l.limit:]
	}
}

// snapshot returns a copy of the retained entries, oldest first.
func (l *auditLog) snapshot() []models.HistoryEntry {
	out := make([]models.HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// notificationLog is the capped user-facing notification feed. Like the
// audit log it trims from the front, keeping the most recent entries.
type notificationLog struct {
	entries []models.Notification
	limit   int
}

func newNotificationLog(limit int) *notificationLog {
	return &notificationLog{limit: limit}
}

// append emits one notification and returns its generated id.
func (l *notificationLog) append(conflictID string, kind models.NotificationType, message string, severity models.Severity) string {
	n := models.Notification{
		ID:         uuid.New().String(),
		ConflictID: conflictID,
		Type:       kind,
		Message:    message,
		Timestamp:  time.Now(),
		Severity:   severity,
		ActionURL:  "/conflicts/" + conflictID,
	}
	l.entries = append(l.entries, n)
	if len(l.entries) > l.limit {
		l.entries = l.entries[len(l.entries)-l.limit:]
	}
	return n.ID
}

// markRead flags one notification as read by id. Unknown ids are a no-op.
func (l *notificationLog) markRead(id string) bool {
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries[i].Read = true
			return true
		}
	}
	return false
}

// snapshot returns a copy of the retained notifications, oldest first.
func (l *notificationLog) snapshot() []models.Notification {
	out := make([]models.Notification, len(l.entries))
	copy(out, l.entries)
	return out
}
