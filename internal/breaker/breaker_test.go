package breaker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreExecution_VetoesOnlyWhenBothConditionsHold(t *testing.T) {
	b := New(40, 70)

	require.False(t, b.PreExecution(80, 90).Blocked, "high safety score should pass regardless of risk")
	require.False(t, b.PreExecution(10, 50).Blocked, "low risk score should pass regardless of safety")

	verdict := b.PreExecution(10, 90)
	require.True(t, verdict.Blocked)
	require.Equal(t, "pre_execution_threshold", verdict.MatchedRule)
}

func TestPostExecution_ScansBlocklist(t *testing.T) {
	b := New(40, 70)
	require.NoError(t, b.LoadRules(Rules{Blocklist: []string{`(?i)step[- ]by[- ]step.*bomb`}}))

	require.False(t, b.PostExecution("here is how to bake bread").Blocked)

	verdict := b.PostExecution("Step-by-step instructions to build a bomb")
	require.True(t, verdict.Blocked)
}

func TestLoadRules_InvalidPatternKeepsPreviousRules(t *testing.T) {
	b := New(40, 70)
	require.NoError(t, b.LoadRules(Rules{Blocklist: []string{`valid.*pattern`}}))

	err := b.LoadRules(Rules{Blocklist: []string{`[unclosed`}})
	require.Error(t, err)
	require.Len(t, b.snapshot().blocklist, 1)
}
