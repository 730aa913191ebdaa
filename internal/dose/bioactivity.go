package dose

import (
	"math"
	"time"
)

// BioActivityAt implements H(t) = H0 * exp(-lambda * N(t) * t).
//
// t is hours elapsed since the user's first recorded event; N(t) is the
// count of events falling inside window, ending at now. This mirrors
// the Rust original's split between a monotonically growing usage_hours
// clock and a windowed node_density count rather than conflating both
// into a single "time since last call" figure.
func BioActivityAt(h0, lambda float64, events []DoseEvent, window time.Duration, now time.Time) BioActivity {
	if len(events) == 0 {
		return BioActivity{
			Current:      h0,
			Baseline:     h0,
			DecayRate:    lambda,
			RiskLevel:    bandRiskLevel(h0),
			WindowEvents: 0,
			CalculatedAt: now,
		}
	}

	first := events[0].Timestamp
	for _, e := range events {
		if e.Timestamp.Before(first) {
			first = e.Timestamp
		}
	}
	t := now.Sub(first).Hours()
	if t < 0 {
		t = 0
	}

	windowStart := now.Add(-window)
	n := 0
	for _, e := range events {
		if e.Timestamp.After(windowStart) && !e.Timestamp.After(now) {
			n++
		}
	}

	current := h0 * math.Exp(-lambda*float64(n)*t)
	if current < 0 {
		current = 0
	}

	return BioActivity{
		Current:      current,
		Baseline:     h0,
		DecayRate:    lambda,
		RiskLevel:    bandRiskLevel(current),
		WindowEvents: n,
		CalculatedAt: now,
	}
}
