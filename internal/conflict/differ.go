// Package conflict implements the detection, classification, resolution,
// and audit engine for offline-first data synchronization. When a locally
// cached record and a remotely authoritative record for the same entity
// diverge, the engine finds the differing fields, grades how severe each
// divergence is, and resolves it through a pluggable strategy or records
// enough structure for a human reviewer to decide.
package conflict

import (
	"math"
	"reflect"
	"sort"
	"time"

	"github.com/kimhsiao/syncguard/internal/models"
)

// recordTimestampFields are record-level sync bookkeeping, not user
// data: they feed the write-wins strategies and are expected to differ
// between snapshots, so they never register as conflicted fields.
var recordTimestampFields = map[string]struct{}{
	"updated_at": {},
	"created_at": {},
}

// DiffFields compares two record snapshots and returns one
// ConflictedField per field, present in either snapshot, whose value
// differs. Record-level timestamps are skipped. Fields are returned in
// alphabetical order so repeated diffs of the same snapshots are stable.
// The inputs are never modified.
func DiffFields(local, remote map[string]any) []models.ConflictedField {
	names := make([]string, 0, len(local)+len(remote))
	seen := make(map[string]struct{}, len(local)+len(remote))

	for name := range local {
		if _, skip := recordTimestampFields[name]; skip {
			continue
		}
		names = append(names, name)
		seen[name] = struct{}{}
	}
	for name := range remote {
		if _, skip := recordTimestampFields[name]; skip {
			continue
		}
		if _, ok := seen[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var fields []models.ConflictedField
	for _, name := range names {
		localValue := local[name]
		remoteValue := remote[name]
		if !valuesEqual(localValue, remoteValue) {
			fields = append(fields, models.ConflictedField{
				Name:        name,
				LocalValue:  localValue,
				RemoteValue: remoteValue,
			})
		}
	}

	return fields
}

// valuesEqual is the engine's equality rule. Absence and nil on either
// side compare by identity, so both-nil is equal and one-nil-one-value is
// not. Temporal values are equal iff their instants are equal. Structured
// values compare recursively, field by field; key order plays no role but
// a missing key on one side does. NaN compares equal to NaN so that a
// float that round-trips through serialization does not register as a
// perpetual conflict.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return false
		}
		if math.IsNaN(av) && math.IsNaN(bv) {
			return true
		}
		return av == bv
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, present := bv[k]
			if !present || !valuesEqual(v, bvv) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valuesEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}
