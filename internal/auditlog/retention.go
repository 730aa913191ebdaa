package auditlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/natefinch/atomic"

	acsaerrors "github.com/sovereign-systems/acsa/internal/errors"
)

// Prune tombstones every entry older than retentionDays, rewriting the
// file atomically in place. Tombstoning never unlinks an entry: every
// hash and prev_hash stays exactly as written, so VerifyChain still
// succeeds over a pruned log.
func (l *Log) Prune(now time.Time, retentionDays int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, acsaerrors.LoggingFailed("auditlog: cannot open log for prune: " + err.Error())
	}

	var entries []Entry
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
		entries = append(entries, e)
	}
	closeErr := f.Close()
	if err := scanner.Err(); err != nil {
		return 0, acsaerrors.LoggingFailed("auditlog: scan failed during prune: " + err.Error())
	}
	if closeErr != nil {
		return 0, acsaerrors.LoggingFailed("auditlog: close failed during prune: " + closeErr.Error())
	}

	cutoff := now.AddDate(0, 0, -retentionDays)
	tombstoned := 0
	var buf bytes.Buffer
	for i := range entries {
		if !entries[i].Tombstoned && entries[i].WallTime.Before(cutoff) {
			entries[i].Tombstoned = true
			tombstoned++
		}
		line, err := json.Marshal(entries[i])
		if err != nil {
			return 0, acsaerrors.LoggingFailed("auditlog: cannot re-marshal entry during prune: " + err.Error())
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	if tombstoned == 0 {
		return 0, nil
	}
	if err := atomic.WriteFile(l.path, bytes.NewReader(buf.Bytes())); err != nil {
		return 0, acsaerrors.LoggingFailed("auditlog: atomic rewrite failed during prune: " + err.Error())
	}
	return tombstoned, nil
}
