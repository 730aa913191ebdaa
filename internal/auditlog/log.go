package auditlog

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	acsaerrors "github.com/sovereign-systems/acsa/internal/errors"
)

// Log is a single hash-chained NDJSON file. Writes are serialised
// through mu; Query opens its own file handle and never takes mu, so
// readers never block a writer and vice versa (spec.md §5).
type Log struct {
	mu       sync.Mutex
	path     string
	lastHash string
	signer   Signer
}

// Open loads the existing chain's tail hash (if any) and returns a Log
// ready to append. A missing file is not an error — the chain starts
// fresh with an empty genesis prev_hash.
func Open(path string, signer Signer) (*Log, error) {
	if signer == nil {
		signer = NoopSigner{}
	}
	l := &Log{path: path, signer: signer}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, acsaerrors.ConfigInvalid("auditlog: cannot open existing log: " + err.Error())
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		l.lastHash = e.PayloadHash
	}
	return l, nil
}

// Append writes one entry to the chain. A write failure is fatal to
// the caller's surrounding operation per spec.md §4.5: callers must
// surface the returned LoggingFailed error, not a partially-completed
// success.
func (l *Log) Append(kind Kind, subject string, payload any) (Entry, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return Entry{}, acsaerrors.LoggingFailed("auditlog: cannot marshal payload: " + err.Error())
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := Entry{
		ID:       ulid.Make().String(),
		Kind:     kind,
		Subject:  subject,
		Payload:  payloadJSON,
		PrevHash: l.lastHash,
		WallTime: time.Now().UTC(),
	}

	entry.PayloadHash, err = chainHash(entry)
	if err != nil {
		return Entry{}, acsaerrors.LoggingFailed("auditlog: cannot compute chain hash: " + err.Error())
	}

	entry.Signature, err = l.signer.Sign(entry.PayloadHash)
	if err != nil {
		return Entry{}, acsaerrors.LoggingFailed("auditlog: signing failed: " + err.Error())
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return Entry{}, acsaerrors.LoggingFailed("auditlog: cannot marshal entry: " + err.Error())
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return Entry{}, acsaerrors.LoggingFailed("auditlog: cannot open log for append: " + err.Error())
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return Entry{}, acsaerrors.LoggingFailed("auditlog: write failed: " + err.Error())
	}

	l.lastHash = entry.PayloadHash
	return entry, nil
}

// Query returns every entry matching filter, in append order. It does
// not take mu: a concurrent Append may or may not be visible depending
// on OS buffering, which is exactly the "lock-free snapshot" spec.md §5
// asks for.
func (l *Log) Query(filter Filter) ([]Entry, error) {
	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		if filter.matches(e) {
			out = append(out, e)
		}
	}
	return out, scanner.Err()
}

// VerifyChain re-derives every entry's hash and checks prev_hash
// linkage end to end, including tombstoned entries: retention marks an
// entry tombstoned, it never unlinks it from the chain.
func VerifyChain(entries []Entry) (bool, int) {
	prev := ""
	for i, e := range entries {
		want, err := chainHash(e)
		if err != nil || want != e.PayloadHash || e.PrevHash != prev {
			return false, i
		}
		prev = e.PayloadHash
	}
	return true, -1
}

func chainHash(e Entry) (string, error) {
	canonical, err := json.Marshal(hashInput{
		ID:       e.ID,
		Kind:     e.Kind,
		Subject:  e.Subject,
		Payload:  e.Payload,
		PrevHash: e.PrevHash,
		WallTime: e.WallTime,
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
