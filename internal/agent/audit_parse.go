package agent

import (
	"regexp"
	"strconv"
	"strings"
)

// ParseAuditResult extracts a structured AuditResult from the
// Auditor's free-text response. Grounded directly on the structured-text
// grammar the Auditor role is prompted to emit (RISK_SCORE / IS_SAFE /
// LEGAL_RISKS / PHYSICAL_RISKS / ETHICAL_RISKS / MITIGATION lines).
func ParseAuditResult(text string) AuditResult {
	result := AuditResult{RawResponse: text}

	if m := riskScorePattern.FindStringSubmatch(text); len(m) == 2 {
		if score, err := strconv.Atoi(m[1]); err == nil {
			result.RiskScore = clamp(score, 0, 100)
		}
	}

	if m := isSafePattern.FindStringSubmatch(text); len(m) == 2 {
		result.IsSafe = strings.EqualFold(m[1], "true")
	}

	result.LegalRisks = extractRisks(text, legalRisksPattern)
	result.PhysicalRisks = extractRisks(text, physicalRisksPattern)
	result.EthicalRisks = extractRisks(text, ethicalRisksPattern)

	if m := mitigationPattern.FindStringSubmatch(text); len(m) == 2 {
		result.Mitigation = strings.TrimSpace(m[1])
	}

	// A parse that found no IS_SAFE line at all is never treated as
	// safe: a missing audit verdict must never be treated as safe.
	if !isSafePattern.MatchString(text) {
		result.IsSafe = false
		if result.Mitigation == "" {
			result.Mitigation = "auditor response did not contain a parseable verdict"
		}
	}

	return result
}

var (
	riskScorePattern      = regexp.MustCompile(`(?i)RISK_SCORE:\s*(\d+)`)
	isSafePattern         = regexp.MustCompile(`(?i)IS_SAFE:\s*(true|false)`)
	legalRisksPattern     = regexp.MustCompile(`(?i)LEGAL_RISKS:\s*\[(.*?)\]`)
	physicalRisksPattern  = regexp.MustCompile(`(?i)PHYSICAL_RISKS:\s*\[(.*?)\]`)
	ethicalRisksPattern   = regexp.MustCompile(`(?i)ETHICAL_RISKS:\s*\[(.*?)\]`)
	mitigationPattern     = regexp.MustCompile(`(?is)MITIGATION:\s*(.+?)(?:\n[A-Z_]+:|$)`)
)

func extractRisks(text string, pattern *regexp.Regexp) []string {
	m := pattern.FindStringSubmatch(text)
	if len(m) != 2 {
		return nil
	}
	raw := strings.TrimSpace(m[1])
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"'`)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
