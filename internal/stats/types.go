// Package stats implements monotonic per-role and aggregate call
// accounting, plus a data-driven pricing table for cost computation.
package stats

import "github.com/sovereign-systems/acsa/internal/agent"

// Counters are the monotonic totals spec.md §4.8 requires per role and
// in aggregate. Reset is the only operation allowed to zero them.
type Counters struct {
	Calls          uint64
	Successes      uint64
	Failures       uint64
	TokensIn       uint64
	TokensOut      uint64
	Cost           float64
	TotalLatencyMs uint64
}

// AverageLatencyMs returns 0 for a role/aggregate with no recorded
// calls rather than dividing by zero.
func (c Counters) AverageLatencyMs() float64 {
	if c.Calls == 0 {
		return 0
	}
	return float64(c.TotalLatencyMs) / float64(c.Calls)
}

// Snapshot is a point-in-time copy of all tracked counters, safe to
// hand to a caller without holding any lock.
type Snapshot struct {
	Aggregate Counters
	ByRole    map[agent.Role]Counters
}

// PriceEntry is one row of a pricing table: cost per 1000 tokens, in
// and out priced independently, for one (role, backend) pair.
type PriceEntry struct {
	Role        agent.Role `json:"role"`
	Backend     string     `json:"backend"`
	InputPer1K  float64    `json:"input_per_1k"`
	OutputPer1K float64    `json:"output_per_1k"`
}

// CostOf is a pure function of (role, backend, tokensIn, tokensOut)
// per spec.md §4.8 — cost accounting never depends on anything but the
// pricing table and the call's own token counts.
func CostOf(table []PriceEntry, role agent.Role, backend string, tokensIn, tokensOut int) float64 {
	for _, entry := range table {
		if entry.Role == role && entry.Backend == backend {
			return float64(tokensIn)/1000*entry.InputPer1K + float64(tokensOut)/1000*entry.OutputPer1K
		}
	}
	return 0
}
