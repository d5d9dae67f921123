package conflict

import (
	"time"

	apperrors "github.com/kimhsiao/syncguard/internal/errors"
	"github.com/kimhsiao/syncguard/internal/models"
)

// CustomLogicFunc is a caller-supplied resolution function. It receives a
// copy of the conflict and returns the resolved value for each field. The
// engine does not inspect or validate its output.
type CustomLogicFunc func(c *models.Conflict) (map[string]any, error)

// resolver executes resolution strategies against a conflict. It is
// owned by the Manager and shares its configuration.
type resolver struct {
	cfg *Config
}

// apply runs the given strategy and returns the resolved value per
// conflicted field, or an error when the strategy cannot proceed.
func (r *resolver) apply(c *models.Conflict, strategy models.ResolutionStrategy) (map[string]any, error) {
	switch strategy {
	case models.StrategyLastWriteWins:
		return r.lastWriteWins(c), nil
	case models.StrategyFirstWriteWins:
		return r.firstWriteWins(c), nil
	case models.StrategyFieldLevel:
		return r.fieldLevel(c), nil
	case models.StrategyCustomLogic:
		return r.customLogic(c)
	case models.StrategyManual:
		return nil, apperrors.New(apperrors.ErrManualRequired,
			"manual strategy cannot resolve automatically")
	default:
		return nil, apperrors.Newf(apperrors.ErrUnknownStrategy,
			"unknown resolution strategy %q", strategy)
	}
}

// lastWriteWins resolves every field from whichever record carries the
// newer record-level updated_at (falling back to created_at). The single
// record-level timestamp decides all fields; there are no per-field
// timestamps. The comparison only applies to the attendance category;
// every other category resolves to the remote value.
func (r *resolver) lastWriteWins(c *models.Conflict) map[string]any {
	localWins := false
	if c.Metadata.Category == models.CategoryAttendance {
		localTime, localOK := recordTime(c.LocalData, "updated_at", "created_at")
		remoteTime, remoteOK := recordTime(c.RemoteData, "updated_at", "created_at")
		localWins = localOK && remoteOK && localTime.After(remoteTime)
	}
	return pickSide(c.Fields, localWins)
}

// firstWriteWins is the mirror of lastWriteWins on created_at (falling
// back to updated_at): for attendance the earlier record wins; every
// other category resolves to the local value.
func (r *resolver) firstWriteWins(c *models.Conflict) map[string]any {
	localWins := true
	if c.Metadata.Category == models.CategoryAttendance {
		localTime, localOK := recordTime(c.LocalData, "created_at", "updated_at")
		remoteTime, remoteOK := recordTime(c.RemoteData, "created_at", "updated_at")
		localWins = localOK && remoteOK && localTime.Before(remoteTime)
	}
	return pickSide(c.Fields, localWins)
}

// fieldLevel consults the configured per-field strategy map. Fields with
// an explicit last/first-write-wins entry get the record-level timestamp
// treatment above. Fields with no entry (or any other entry) follow the
// engine's default strategy as a direction only: remote when the default
// is last-write-wins, local otherwise. The fallback deliberately does not
// re-derive per-field timestamps; downstream consumers rely on the
// direction-only behavior.
func (r *resolver) fieldLevel(c *models.Conflict) map[string]any {
	lwwValues := r.lastWriteWins(c)
	fwwValues := r.firstWriteWins(c)

	defaultToRemote := r.cfg.DefaultStrategy == models.StrategyLastWriteWins

	resolution := make(map[string]any, len(c.Fields))
	for _, f := range c.Fields {
		switch r.cfg.FieldStrategies[f.Name] {
		case models.StrategyLastWriteWins:
			resolution[f.Name] = lwwValues[f.Name]
		case models.StrategyFirstWriteWins:
			resolution[f.Name] = fwwValues[f.Name]
		default:
			if defaultToRemote {
				resolution[f.Name] = f.RemoteValue
			} else {
				resolution[f.Name] = f.LocalValue
			}
		}
	}
	return resolution
}

// customLogic delegates to the caller-supplied function. A panic inside
// the function is converted into a strategy failure so it never escapes a
// public engine operation.
func (r *resolver) customLogic(c *models.Conflict) (resolution map[string]any, err error) {
	if r.cfg.CustomLogic == nil {
		return nil, apperrors.New(apperrors.ErrCustomLogicNotConfigured,
			"no custom resolution function configured")
	}

	defer func() {
		if rec := recover(); rec != nil {
			resolution = nil
			err = apperrors.Newf(apperrors.ErrStrategyFailed,
				"custom resolution function panicked: %v", rec)
		}
	}()

	return r.cfg.CustomLogic(c.Clone())
}

// pickSide maps every conflicted field to its local or remote value.
func pickSide(fields []models.ConflictedField, localWins bool) map[string]any {
	resolution := make(map[string]any, len(fields))
	for _, f := range fields {
		if localWins {
			resolution[f.Name] = f.LocalValue
		} else {
			resolution[f.Name] = f.RemoteValue
		}
	}
	return resolution
}

// recordTime extracts a record-level timestamp from a snapshot, trying
// the primary field first. A missing or unparseable timestamp on either
// side makes the comparison fail, which hands the win to the remote side.
func recordTime(data map[string]any, primary, fallback string) (time.Time, bool) {
	if t, ok := parseTimestamp(data[primary]); ok {
		return t, true
	}
	if t, ok := parseTimestamp(data[fallback]); ok {
		return t, true
	}
	return time.Time{}, false
}

// parseTimestamp accepts the timestamp representations that appear in
// synced snapshots: time.Time, unix seconds or milliseconds, and RFC3339
// strings. Numeric values at or above 1e12 are read as milliseconds.
func parseTimestamp(v any) (time.Time, bool) {
	const millisThreshold = int64(1e12)

	switch tv := v.(type) {
	case time.Time:
		return tv, true
	case *time.Time:
		if tv != nil {
			return *tv, true
		}
	case int64:
		return unixTime(tv, millisThreshold), true
	case int:
		return unixTime(int64(tv), millisThreshold), true
	case float64:
		return unixTime(int64(tv), millisThreshold), true
	case string:
		if t, err := time.Parse(time.RFC3339Nano, tv); err == nil {
			return t, true
		}
		if t, err := time.Parse(time.RFC3339, tv); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func unixTime(n, millisThreshold int64) time.Time {
	if n >= millisThreshold {
		return time.UnixMilli(n)
	}
	return time.Unix(n, 0)
}
