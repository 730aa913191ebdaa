package agent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAuditResult_Safe(t *testing.T) {
	text := "RISK_SCORE: 12\nIS_SAFE: true\nLEGAL_RISKS: []\nPHYSICAL_RISKS: []\nETHICAL_RISKS: []\nMITIGATION: none needed\n"
	result := ParseAuditResult(text)

	require.True(t, result.IsSafe)
	require.Equal(t, 12, result.RiskScore)
	require.Empty(t, result.LegalRisks)
}

func TestParseAuditResult_UnsafeWithRisks(t *testing.T) {
	text := "RISK_SCORE: 88\nIS_SAFE: false\n" +
		"LEGAL_RISKS: [unauthorized access, data theft]\n" +
		"PHYSICAL_RISKS: []\n" +
		"ETHICAL_RISKS: [deception]\n" +
		"MITIGATION: Reframe around authorised penetration testing.\n"

	result := ParseAuditResult(text)

	require.False(t, result.IsSafe)
	require.Equal(t, 88, result.RiskScore)
	require.Equal(t, []string{"unauthorized access", "data theft"}, result.LegalRisks)
	require.Equal(t, []string{"deception"}, result.EthicalRisks)
	require.Equal(t, "Reframe around authorised penetration testing.", result.Mitigation)
}

func TestParseAuditResult_MissingVerdictNeverSafe(t *testing.T) {
	result := ParseAuditResult("the model rambled without following the format")

	require.False(t, result.IsSafe)
	require.NotEmpty(t, result.Mitigation)
}

func TestAuditResult_ValidateRequiresMitigationWhenUnsafe(t *testing.T) {
	unsafe := AuditResult{IsSafe: false}
	require.Error(t, unsafe.Validate())

	unsafe.Mitigation = "do something else"
	require.NoError(t, unsafe.Validate())
}
