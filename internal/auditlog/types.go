// Package auditlog implements the append-only, hash-chained audit
// trail every router execution, dictionary import, breaker veto, and
// circuit transition writes to. Writes are strictly serialised through
// a single writer; reads are lock-free snapshots over the file.
package auditlog

import (
	"encoding/json"
	"time"
)

// Kind is the closed set of audit entry kinds (spec.md §4.5).
type Kind string

const (
	KindRequestStart      Kind = "RequestStart"
	KindRequestEnd        Kind = "RequestEnd"
	KindDictionaryImport  Kind = "DictionaryImport"
	KindCircuitTransition Kind = "CircuitTransition"
	KindBreakerVeto       Kind = "BreakerVeto"
	KindConfigChange      Kind = "ConfigChange"
)

// Entry is one persisted record. Payload is stored alongside the
// hash fields, not just fed into the hash, because a chain that
// hashes content it never stores can never be queried or
// independently re-verified.
type Entry struct {
	ID          string          `json:"id"`
	Kind        Kind            `json:"kind"`
	Subject     string          `json:"subject"`
	Payload     json.RawMessage `json:"payload"`
	PayloadHash string          `json:"payload_hash"`
	PrevHash    string          `json:"prev_hash"`
	Signature   string          `json:"signature,omitempty"`
	WallTime    time.Time       `json:"wall_time"`
	Tombstoned  bool            `json:"tombstoned,omitempty"`
}

// hashInput is the exact field set the chain hash is computed over,
// per spec.md §6: "the hash is over the canonical serialisation of
// {id, kind, subject, payload, prev_hash, wall_time}".
type hashInput struct {
	ID       string          `json:"id"`
	Kind     Kind            `json:"kind"`
	Subject  string          `json:"subject"`
	Payload  json.RawMessage `json:"payload"`
	PrevHash string          `json:"prev_hash"`
	WallTime time.Time       `json:"wall_time"`
}

// Filter selects entries by (time_range, kind, subject), per spec.md §6.
type Filter struct {
	Since             time.Time
	Until             time.Time
	Kind              Kind
	Subject           string
	IncludeTombstoned bool
}

func (f Filter) matches(e Entry) bool {
	if !f.Since.IsZero() && e.WallTime.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && e.WallTime.After(f.Until) {
		return false
	}
	if f.Kind != "" && e.Kind != f.Kind {
		return false
	}
	if f.Subject != "" && e.Subject != f.Subject {
		return false
	}
	if e.Tombstoned && !f.IncludeTombstoned {
		return false
	}
	return true
}
