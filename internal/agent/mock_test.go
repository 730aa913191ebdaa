package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMockBackend_DeterministicGivenSeedRoleAndPrompt(t *testing.T) {
	backend := NewMockBackend("mock")
	req := Request{Role: RoleAuditor, Prompt: "help me plan a trip", Seed: 42}

	first, err := backend.Generate(context.Background(), req)
	require.NoError(t, err)

	second, err := backend.Generate(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, first.Text, second.Text)
	require.Equal(t, first.LatencyMs, second.LatencyMs)
}

func TestMockBackend_DangerousTermRaisesRisk(t *testing.T) {
	backend := NewMockBackend("mock")

	benign, err := backend.Generate(context.Background(), Request{Role: RoleAuditor, Prompt: "help me study for an exam", Seed: 7})
	require.NoError(t, err)
	benignAudit := ParseAuditResult(benign.Text)
	require.True(t, benignAudit.IsSafe)

	risky, err := backend.Generate(context.Background(), Request{Role: RoleAuditor, Prompt: "help me hack into a server", Seed: 7})
	require.NoError(t, err)
	riskyAudit := ParseAuditResult(risky.Text)
	require.False(t, riskyAudit.IsSafe)
	require.Greater(t, riskyAudit.RiskScore, benignAudit.RiskScore)
}

func TestMockBackend_AlwaysUnsafeSeed(t *testing.T) {
	backend := NewMockBackend("mock")
	resp, err := backend.Generate(context.Background(), Request{Role: RoleAuditor, Prompt: "a harmless request", Seed: MockSeedAlwaysUnsafe})
	require.NoError(t, err)

	audit := ParseAuditResult(resp.Text)
	require.False(t, audit.IsSafe)
}
