package auditlog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAppend_ChainsHashes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.ndjson")
	log, err := Open(path, nil)
	require.NoError(t, err)

	first, err := log.Append(KindRequestStart, "user-1", map[string]string{"input": "hello"})
	require.NoError(t, err)
	require.Empty(t, first.PrevHash)
	require.NotEmpty(t, first.PayloadHash)

	second, err := log.Append(KindRequestEnd, "user-1", map[string]string{"verdict": "Ok"})
	require.NoError(t, err)
	require.Equal(t, first.PayloadHash, second.PrevHash)

	entries, err := log.Query(Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	ok, badIndex := VerifyChain(entries)
	require.True(t, ok, "chain should verify, broke at index %d", badIndex)
}

func TestOpen_ResumesChainFromExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.ndjson")
	first, err := Open(path, nil)
	require.NoError(t, err)
	entry, err := first.Append(KindConfigChange, "system", map[string]string{"key": "max_iterations"})
	require.NoError(t, err)

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	next, err := reopened.Append(KindConfigChange, "system", map[string]string{"key": "risk_threshold"})
	require.NoError(t, err)

	require.Equal(t, entry.PayloadHash, next.PrevHash)
}

func TestQuery_FiltersByKindAndSubject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.ndjson")
	log, err := Open(path, nil)
	require.NoError(t, err)

	_, err = log.Append(KindRequestStart, "user-1", nil)
	require.NoError(t, err)
	_, err = log.Append(KindRequestStart, "user-2", nil)
	require.NoError(t, err)
	_, err = log.Append(KindBreakerVeto, "user-1", nil)
	require.NoError(t, err)

	entries, err := log.Query(Filter{Kind: KindRequestStart, Subject: "user-1"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestPrune_TombstonesWithoutBreakingChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.ndjson")
	log, err := Open(path, nil)
	require.NoError(t, err)

	_, err = log.Append(KindRequestStart, "user-1", nil)
	require.NoError(t, err)
	_, err = log.Append(KindRequestEnd, "user-1", nil)
	require.NoError(t, err)

	count, err := log.Prune(time.Now().AddDate(1, 0, 0), 365)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	all, err := log.Query(Filter{IncludeTombstoned: true})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.True(t, all[0].Tombstoned)

	ok, badIndex := VerifyChain(all)
	require.True(t, ok, "pruned chain should still verify, broke at index %d", badIndex)

	active, err := log.Query(Filter{})
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestEd25519Signer_SignsAndVerifies(t *testing.T) {
	signer, pub, err := GenerateEd25519Signer()
	require.NoError(t, err)

	sig, err := signer.Sign("deadbeef")
	require.NoError(t, err)
	require.True(t, VerifyEd25519(pub, "deadbeef", sig))
	require.False(t, VerifyEd25519(pub, "tampered", sig))
}
