package dose

// Stats summarises a user's recent event history along the three axes
// the original sovereignty tracker's DoseStats reported, adapted to
// ACSA's DoseEvent shape: delegation ratio (how often the router
// settled the call itself), auto-confirm ratio (how often it did so on
// the first pass), and failure-intolerance ratio (how often the call
// ended in a veto or an exhausted retry budget rather than a verified
// output). It is read-only telemetry for operators; nothing in the
// breaker or gate check consults it.
type Stats struct {
	TotalEvents             int
	DelegationRatio         float64
	AutoConfirmRatio        float64
	FailureIntoleranceRatio float64
}

// ComputeStats aggregates events into a Stats summary. Callers windowed
// by Store.EventsInWindow get a rolling summary; the full Store.Events
// history gives an all-time one. An empty history reports a zero Stats.
func ComputeStats(events []DoseEvent) Stats {
	if len(events) == 0 {
		return Stats{}
	}

	var delegated, autoConfirmed, gaveUp int
	for _, e := range events {
		if e.EventKind == EventKindDelegated || e.EventKind == EventKindAutoConfirmed {
			delegated++
		}
		if e.EventKind == EventKindAutoConfirmed {
			autoConfirmed++
		}
		if e.FinalVerdict == "Blocked" || e.FinalVerdict == "Unverified" {
			gaveUp++
		}
	}

	total := float64(len(events))
	return Stats{
		TotalEvents:             len(events),
		DelegationRatio:         float64(delegated) / total,
		AutoConfirmRatio:        float64(autoConfirmed) / total,
		FailureIntoleranceRatio: float64(gaveUp) / total,
	}
}
