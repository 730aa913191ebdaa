package dose

import (
	"sort"
	"time"

	"github.com/sovereign-systems/acsa/internal/concurrency"
)

// maxEventsPerUser bounds per-user history, matching the Rust
// original's VecDeque::with_capacity(1000) ring buffer.
const maxEventsPerUser = 1000

const shortEventThreshold = time.Minute
const longSessionThreshold = 180 * time.Minute

// Store holds per-user dose-event history behind a per-user lock, so
// concurrent users never contend with one another's reads or writes.
type Store struct {
	locks  *concurrency.SimpleSessionLockManager
	events map[string][]DoseEvent
}

func NewStore() *Store {
	return &Store{
		locks:  concurrency.NewSimpleSessionLockManager(),
		events: make(map[string][]DoseEvent),
	}
}

// Record appends one completed execution's event, computing Short and
// Long at record time from the event's own duration and the gap since
// the user's previous event. kind, iterations, and finalVerdict feed
// dose.ComputeStats's delegation/auto-confirm/failure-intolerance
// ratios.
func (s *Store) Record(userID string, at time.Time, duration time.Duration, kind EventKind, iterations int, finalVerdict string) DoseEvent {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	history := s.events[userID]
	short := false
	if len(history) > 0 {
		prev := history[len(history)-1].Timestamp
		short = at.Sub(prev) < shortEventThreshold
	}

	event := DoseEvent{
		UserID:         userID,
		Timestamp:      at,
		Duration:       duration,
		EventKind:      kind,
		IterationCount: iterations,
		FinalVerdict:   finalVerdict,
		Short:          short,
		Long:           duration > longSessionThreshold,
	}

	history = append(history, event)
	if len(history) > maxEventsPerUser {
		history = history[len(history)-maxEventsPerUser:]
	}
	s.events[userID] = history
	return event
}

// Events returns a defensive copy of the user's history, sorted
// ascending by Timestamp.
func (s *Store) Events(userID string) []DoseEvent {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	history := s.events[userID]
	out := make([]DoseEvent, len(history))
	copy(out, history)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// EventsInWindow returns the subset of the user's history within
// window of now, sorted ascending.
func (s *Store) EventsInWindow(userID string, window time.Duration, now time.Time) []DoseEvent {
	all := s.Events(userID)
	cutoff := now.Add(-window)
	out := make([]DoseEvent, 0, len(all))
	for _, e := range all {
		if e.Timestamp.After(cutoff) && !e.Timestamp.After(now) {
			out = append(out, e)
		}
	}
	return out
}
