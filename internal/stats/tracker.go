package stats

import (
	"sync"
	"time"

	"github.com/sovereign-systems/acsa/internal/agent"
)

// Tracker accumulates per-role and aggregate Counters. It never
// imports internal/auditlog: Reset returns a ResetEvent for the
// composition root to log as a ConfigChange entry, the same one-way
// dependency internal/dose's Breaker uses for CircuitTransition.
type Tracker struct {
	mu        sync.Mutex
	aggregate Counters
	byRole    map[agent.Role]Counters
	pricing   []PriceEntry
}

// ResetEvent is what Reset hands back for the caller to audit-log.
type ResetEvent struct {
	At       time.Time
	Previous Snapshot
}

func NewTracker(pricing []PriceEntry) *Tracker {
	return &Tracker{
		byRole:  make(map[agent.Role]Counters),
		pricing: pricing,
	}
}

// CostOf exposes the tracker's pricing table for callers (the router)
// that need to stamp a cost onto an agent.Response before it joins an
// ExecutionLog's chain, independent of the tracker's own accounting.
func (t *Tracker) CostOf(role agent.Role, backend string, tokensIn, tokensOut int) float64 {
	return CostOf(t.pricing, role, backend, tokensIn, tokensOut)
}

// RecordSuccess folds one successful backend call into both the
// role's and the aggregate's counters, computing cost from the
// pricing table as a pure function of (role, backend, tokensIn, tokensOut).
func (t *Tracker) RecordSuccess(role agent.Role, backend string, resp agent.Response) {
	cost := CostOf(t.pricing, role, backend, resp.TokensIn, resp.TokensOut)

	t.mu.Lock()
	defer t.mu.Unlock()

	c := t.byRole[role]
	c.Calls++
	c.Successes++
	c.TokensIn += uint64(resp.TokensIn)
	c.TokensOut += uint64(resp.TokensOut)
	c.Cost += cost
	c.TotalLatencyMs += uint64(resp.LatencyMs)
	t.byRole[role] = c

	t.aggregate.Calls++
	t.aggregate.Successes++
	t.aggregate.TokensIn += uint64(resp.TokensIn)
	t.aggregate.TokensOut += uint64(resp.TokensOut)
	t.aggregate.Cost += cost
	t.aggregate.TotalLatencyMs += uint64(resp.LatencyMs)
}

// RecordFailure folds one failed call into the counters: it still
// consumed latency, but produced no tokens and no cost.
func (t *Tracker) RecordFailure(role agent.Role, latencyMs int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := t.byRole[role]
	c.Calls++
	c.Failures++
	c.TotalLatencyMs += uint64(latencyMs)
	t.byRole[role] = c

	t.aggregate.Calls++
	t.aggregate.Failures++
	t.aggregate.TotalLatencyMs += uint64(latencyMs)
}

// Snapshot returns a defensive copy of the current counters.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	byRole := make(map[agent.Role]Counters, len(t.byRole))
	for role, c := range t.byRole {
		byRole[role] = c
	}
	return Snapshot{Aggregate: t.aggregate, ByRole: byRole}
}

// Reset zeroes every counter and returns the pre-reset snapshot for
// the caller to audit-log as a ConfigChange entry.
func (t *Tracker) Reset(now time.Time) ResetEvent {
	t.mu.Lock()
	defer t.mu.Unlock()

	previous := Snapshot{Aggregate: t.aggregate, ByRole: t.byRole}
	t.aggregate = Counters{}
	t.byRole = make(map[agent.Role]Counters)
	return ResetEvent{At: now, Previous: previous}
}
