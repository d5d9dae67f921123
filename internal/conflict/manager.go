package conflict

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/kimhsiao/syncguard/internal/errors"
	"github.com/kimhsiao/syncguard/internal/logging"
	"github.com/kimhsiao/syncguard/internal/models"
)

const (
	// DefaultMaxRetryAttempts is the number of failed resolution
	// attempts after which a conflict escalates automatically.
	DefaultMaxRetryAttempts = 3

	// DefaultHistoryLimit caps the audit trail length.
	DefaultHistoryLimit = 1000

	// DefaultNotificationLimit caps the notification feed length.
	DefaultNotificationLimit = 100

	// systemResolver is stamped as ResolvedBy on auto-resolutions.
	systemResolver = "system"
)

// Config holds engine configuration. The zero value is not usable;
// construct via DefaultConfig and override, or pass nil to NewManager
// for the defaults.
type Config struct {
	// DefaultStrategy is used when Resolve is called without an
	// explicit strategy, and decides the FIELD_LEVEL fallback
	// direction.
	DefaultStrategy models.ResolutionStrategy

	// AutoResolveLowSeverity makes Detect immediately attempt the
	// default strategy on low-severity conflicts.
	AutoResolveLowSeverity bool

	// MaxRetryAttempts is the failed-attempt count that triggers
	// automatic escalation.
	MaxRetryAttempts int

	// FieldStrategies optionally pins individual fields to a strategy
	// for FIELD_LEVEL resolution.
	FieldStrategies map[string]models.ResolutionStrategy

	// CustomLogic is the caller-supplied function behind the
	// CUSTOM_BUSINESS_LOGIC strategy.
	CustomLogic CustomLogicFunc

	// HistoryLimit and NotificationLimit cap the audit trail and
	// notification feed. Zero means the default cap.
	HistoryLimit      int
	NotificationLimit int
}

// DefaultConfig returns the default engine configuration: last-write-wins,
// auto-resolution of low-severity conflicts, three retry attempts.
func DefaultConfig() *Config {
	return &Config{
		DefaultStrategy:        models.StrategyLastWriteWins,
		AutoResolveLowSeverity: true,
		MaxRetryAttempts:       DefaultMaxRetryAttempts,
		HistoryLimit:           DefaultHistoryLimit,
		NotificationLimit:      DefaultNotificationLimit,
	}
}

// ManualResolutionRequest carries a reviewer's decision for one conflict.
type ManualResolutionRequest struct {
	ConflictID string
	Resolution map[string]any
	Strategy   models.ResolutionStrategy
	UserID     string
	Notes      string
}

// Manager owns all conflict, history, and notification state for its
// process lifetime and drives the detect, resolve, and escalate
// transitions. It is safe for concurrent use; each public operation is
// atomic. Callers that need a sequence of operations on the same
// conflict to be uninterrupted must still serialize that sequence
// themselves.
//
// No public operation returns an error: failures are absorbed into
// conflict state (error message, retry count, escalation) and reported
// through the boolean results and the read accessors.
type Manager struct {
	mu            sync.RWMutex
	cfg           *Config
	logger        *logging.Logger
	resolver      *resolver
	conflicts     map[string]*models.Conflict
	order         []string
	stats         *statsAggregator
	history       *auditLog
	notifications *notificationLog
}

// NewManager creates a conflict engine. A nil config selects the
// defaults; a nil logger logs to stdout at INFO.
func NewManager(cfg *Config, logger *logging.Logger) *Manager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.DefaultStrategy == "" {
		cfg.DefaultStrategy = models.StrategyLastWriteWins
	}
	if cfg.MaxRetryAttempts <= 0 {
		cfg.MaxRetryAttempts = DefaultMaxRetryAttempts
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	if cfg.NotificationLimit <= 0 {
		cfg.NotificationLimit = DefaultNotificationLimit
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Manager{
		cfg:           cfg,
		logger:        logger.WithComponent("conflict"),
		resolver:      &resolver{cfg: cfg},
		conflicts:     make(map[string]*models.Conflict),
		stats:         newStatsAggregator(),
		history:       newAuditLog(cfg.HistoryLimit),
		notifications: newNotificationLog(cfg.NotificationLimit),
	}
}

// Detect compares a local and a remote snapshot of one entity. When at
// least one field differs it stores a new conflict, updates statistics,
// appends a history entry, emits a notification, and - when the engine
// auto-resolves low severity and the conflict classified low - attempts
// the default strategy immediately. With no differing fields it returns
// an empty result and changes no state.
//
// The returned conflicts are copies reflecting any auto-resolution that
// already happened.
func (m *Manager) Detect(local, remote map[string]any, entityType, entityID string, category models.ConflictCategory) []*models.Conflict {
	fields := DiffFields(local, remote)
	if len(fields) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	severity := ClassifyConflict(entityType, fields)

	c := &models.Conflict{
		Metadata: models.ConflictMetadata{
			ID:                newConflictID(entityType, entityID, now),
			Timestamp:         now,
			EntityType:        entityType,
			EntityID:          entityID,
			Severity:          severity,
			Category:          category,
			ResolutionOutcome: models.OutcomePending,
		},
		LocalData:  local,
		RemoteData: remote,
		Fields:     fields,
	}

	m.conflicts[c.Metadata.ID] = c
	m.order = append(m.order, c.Metadata.ID)
	m.stats.recordDetected(severity, category)

	m.history.append(c.Metadata.ID, models.ActionDetected, map[string]any{
		"entity_type": entityType,
		"entity_id":   entityID,
		"category":    category,
		"severity":    severity,
		"fields":      fieldNames(fields),
	})
	m.notifications.append(c.Metadata.ID, models.NotificationNew,
		fmt.Sprintf("Sync conflict detected for %s %s (%d fields)", entityType, entityID, len(fields)),
		severity)

	m.logger.Info("Conflict detected", map[string]any{
		"conflict_id": c.Metadata.ID,
		"entity_type": entityType,
		"entity_id":   entityID,
		"severity":    severity,
		"fields":      len(fields),
	})

	if m.cfg.AutoResolveLowSeverity && severity == models.SeverityLow {
		m.resolveLocked(c.Metadata.ID, m.cfg.DefaultStrategy)
	}

	return []*models.Conflict{c.Clone()}
}

// Resolve runs the given strategy (or the engine default when empty)
// against one stored conflict and reports whether resolution succeeded.
// Strategy failures are recorded on the conflict and, once the retry
// budget is spent, escalate it automatically.
func (m *Manager) Resolve(conflictID string, strategy models.ResolutionStrategy) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolveLocked(conflictID, strategy)
}

func (m *Manager) resolveLocked(conflictID string, strategy models.ResolutionStrategy) bool {
	c, ok := m.conflicts[conflictID]
	if !ok {
		m.logger.Warn("Resolve requested for unknown conflict", map[string]any{
			"conflict_id": conflictID,
		})
		return false
	}
	if c.Metadata.Resolved {
		m.logger.Debug("Conflict already resolved", map[string]any{
			"conflict_id": conflictID,
		})
		return true
	}

	if strategy == "" {
		strategy = m.cfg.DefaultStrategy
	}

	resolution, err := m.resolver.apply(c, strategy)
	if err != nil {
		m.recordFailureLocked(c, strategy, err)
		if c.Metadata.RetryCount >= m.cfg.MaxRetryAttempts {
			m.escalateLocked(c)
		}
		return false
	}

	m.completeLocked(c, strategy, resolution, models.OutcomeAutoResolved, systemResolver, models.ActionResolved)
	return true
}

// ManualResolve applies reviewer-supplied field values directly, without
// any strategy computation. Failures mirror the bookkeeping of Resolve
// (error message, retry count) but never escalate.
func (m *Manager) ManualResolve(req ManualResolutionRequest) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.conflicts[req.ConflictID]
	if !ok {
		m.logger.Warn("Manual resolution for unknown conflict", map[string]any{
			"conflict_id": req.ConflictID,
		})
		return false
	}
	if c.Metadata.Resolved {
		m.logger.Debug("Conflict already resolved", map[string]any{
			"conflict_id": req.ConflictID,
		})
		return true
	}

	if len(req.Resolution) == 0 {
		m.recordFailureLocked(c, req.Strategy,
			apperrors.New(apperrors.ErrEmptyResolution, "manual resolution carries no field values"))
		return false
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = models.StrategyManual
	}

	c.CustomResolutionData = map[string]any{"user_id": req.UserID}
	if req.Notes != "" {
		c.CustomResolutionData["notes"] = req.Notes
	}

	m.completeLocked(c, strategy, req.Resolution, models.OutcomeManuallyResolved, req.UserID, models.ActionManuallyResolved)
	return true
}

// completeLocked finishes a successful resolution: stamps the metadata,
// writes the per-field resolved values, and updates statistics, history,
// and notifications.
func (m *Manager) completeLocked(c *models.Conflict, strategy models.ResolutionStrategy, resolution map[string]any, outcome models.ResolutionOutcome, resolvedBy string, action models.HistoryAction) {
	now := time.Now()

	for i := range c.Fields {
		if v, ok := resolution[c.Fields[i].Name]; ok {
			c.Fields[i].ResolvedValue = v
			c.Fields[i].ResolutionStrategy = strategy
		}
	}
	c.SuggestedResolution = resolution

	c.Metadata.Resolved = true
	c.Metadata.ResolutionOutcome = outcome
	c.Metadata.ResolvedAt = &now
	c.Metadata.ResolvedBy = resolvedBy
	c.Metadata.ResolutionStrategy = strategy

	m.stats.recordResolved(outcome, now.Sub(c.Metadata.Timestamp))
	m.history.append(c.Metadata.ID, action, map[string]any{
		"strategy":    strategy,
		"resolved_by": resolvedBy,
	})
	m.notifications.append(c.Metadata.ID, models.NotificationResolved,
		fmt.Sprintf("Conflict for %s %s resolved (%s)", c.Metadata.EntityType, c.Metadata.EntityID, strategy),
		c.Metadata.Severity)

	m.logger.Info("Conflict resolved", map[string]any{
		"conflict_id": c.Metadata.ID,
		"strategy":    strategy,
		"outcome":     outcome,
		"resolved_by": resolvedBy,
	})
}

// recordFailureLocked books one failed resolution attempt on the
// conflict and in the audit trail. The error never propagates further.
func (m *Manager) recordFailureLocked(c *models.Conflict, strategy models.ResolutionStrategy, err error) {
	now := time.Now()
	c.Metadata.Error = err.Error()
	c.Metadata.LastAttemptAt = &now
	c.Metadata.RetryCount++

	m.history.append(c.Metadata.ID, models.ActionError, map[string]any{
		"strategy":    strategy,
		"error":       err.Error(),
		"retry_count": c.Metadata.RetryCount,
	})

	m.logger.Error("Conflict resolution failed", err, map[string]any{
		"conflict_id": c.Metadata.ID,
		"strategy":    strategy,
		"retry_count": c.Metadata.RetryCount,
		"max_retries": m.cfg.MaxRetryAttempts,
	})
}

// Escalate forces one conflict to critical severity and the escalated
// outcome, whatever its current state, and reports whether the conflict
// exists. It does not resolve the conflict; a reviewer may still resolve
// it manually afterwards.
func (m *Manager) Escalate(conflictID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.conflicts[conflictID]
	if !ok {
		m.logger.Warn("Escalation requested for unknown conflict", map[string]any{
			"conflict_id": conflictID,
		})
		return false
	}

	m.escalateLocked(c)
	return true
}

func (m *Manager) escalateLocked(c *models.Conflict) {
	previous := c.Metadata.Severity
	c.Metadata.ResolutionOutcome = models.OutcomeEscalated
	c.Metadata.Severity = models.SeverityCritical

	m.stats.recordEscalated(previous)
	m.history.append(c.Metadata.ID, models.ActionEscalated, map[string]any{
		"previous_severity": previous,
		"retry_count":       c.Metadata.RetryCount,
	})
	m.notifications.append(c.Metadata.ID, models.NotificationEscalated,
		fmt.Sprintf("Conflict for %s %s escalated for review", c.Metadata.EntityType, c.Metadata.EntityID),
		models.SeverityCritical)

	m.logger.Warn("Conflict escalated", map[string]any{
		"conflict_id":       c.Metadata.ID,
		"previous_severity": previous,
		"retry_count":       c.Metadata.RetryCount,
	})
}

// ClearResolved deletes every stored conflict marked resolved and
// returns how many were removed. The operation is irreversible and
// leaves history and notifications untouched.
func (m *Manager) ClearResolved() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.order[:0]
	removed := 0
	for _, id := range m.order {
		if c, ok := m.conflicts[id]; ok && c.Metadata.Resolved {
			delete(m.conflicts, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	m.order = kept

	if removed > 0 {
		m.logger.Info("Cleared resolved conflicts", map[string]any{
			"removed": removed,
		})
	}
	return removed
}

// Conflicts returns copies of all stored conflicts in detection order.
func (m *Manager) Conflicts() []*models.Conflict {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Conflict, 0, len(m.order))
	for _, id := range m.order {
		if c, ok := m.conflicts[id]; ok {
			out = append(out, c.Clone())
		}
	}
	return out
}

// Conflict returns a copy of one conflict by id.
func (m *Manager) Conflict(conflictID string) (*models.Conflict, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.conflicts[conflictID]
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// Stats returns a snapshot of the running statistics.
func (m *Manager) Stats() models.ConflictStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats.snapshot()
}

// History returns a copy of the retained audit trail, oldest first.
func (m *Manager) History() []models.HistoryEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.history.snapshot()
}

// Notifications returns a copy of the retained notification feed,
// oldest first.
func (m *Manager) Notifications() []models.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.notifications.snapshot()
}

// MarkNotificationRead flags one notification as read. Unknown ids are a
// no-op returning false.
func (m *Manager) MarkNotificationRead(notificationID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifications.markRead(notificationID)
}

// newConflictID builds a collision-resistant id from the entity
// identity, the creation time, and a random suffix.
func newConflictID(entityType, entityID string, ts time.Time) string {
	return fmt.Sprintf("%s-%s-%d-%s", entityType, entityID, ts.UnixMilli(), uuid.New().String()[:8])
}

func fieldNames(fields []models.ConflictedField) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}
