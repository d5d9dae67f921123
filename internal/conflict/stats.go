package conflict

import (
	"time"

	"github.com/kimhsiao/syncguard/internal/models"
)

// statsAggregator maintains the running conflict statistics. It is only
// ever touched under the Manager's lock, so it carries no locking of its
// own.
type statsAggregator struct {
	stats models.ConflictStats
}

func newStatsAggregator() *statsAggregator {
	return &statsAggregator{stats: models.NewConflictStats()}
}

// recordDetected accounts for one newly stored conflict.
func (a *statsAggregator) recordDetected(severity models.Severity, category models.ConflictCategory) {
	a.stats.Total++
	a.stats.Pending++
	a.stats.BySeverity[severity]++
	a.stats.ByCategory[category]++
	a.stats.ByOutcome[models.OutcomePending]++
}

// recordResolved accounts for one successful resolution. The average
// resolution time is a running pairwise average: each new duration is
// averaged with the previous value rather than weighted by count. The
// recency bias is established behavior and is kept as is.
func (a *statsAggregator) recordResolved(outcome models.ResolutionOutcome, took time.Duration) {
	a.stats.Resolved++
	a.stats.Pending--
	a.stats.ByOutcome[outcome]++
	a.stats.ByOutcome[models.OutcomePending]--

	if a.stats.AverageResolutionTime > 0 {
		a.stats.AverageResolutionTime = (a.stats.AverageResolutionTime + took) / 2
	} else {
		a.stats.AverageResolutionTime = took
	}
}

// recordEscalated accounts for one escalation: the conflict is forced to
// critical, so its severity counter moves, and the escalated outcome
// counter grows. Escalation does not resolve, so the pending counters
// stay put.
func (a *statsAggregator) recordEscalated(previous models.Severity) {
	a.stats.ByOutcome[models.OutcomeEscalated]++
	if previous != models.SeverityCritical {
		a.stats.BySeverity[previous]--
		a.stats.BySeverity[models.SeverityCritical]++
	}
}

// snapshot returns a copy safe to hand to callers.
func (a *statsAggregator) snapshot() models.ConflictStats {
	return a.stats.Clone()
}
