package agent

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"
)

// MockSeedAlwaysUnsafe is a reserved seed value that forces every
// Auditor call on this backend to return is_safe=false regardless of
// prompt content, used to exercise the Router's budget-exhaustion path
// deterministically.
const MockSeedAlwaysUnsafe int64 = -1

// defaultDangerousTerms mirrors the kind of entries a technical_rewrites
// dictionary would carry; the mock auditor treats their literal,
// unrewritten presence in a prompt as a high-risk signal so that
// cleaning-then-retrying deterministically lowers risk_score.
var defaultDangerousTerms = []string{
	"hack", "steal", "exploit", "breach", "backdoor", "exfiltrate",
	"destroy", "sabotage", "blackmail", "extort",
}

// MockBackend is deterministic given (seed, role, prompt-hash), per the
// Agent Provider Abstraction's determinism requirement.
type MockBackend struct {
	name           string
	dangerousTerms []string
}

func NewMockBackend(name string) *MockBackend {
	return &MockBackend{name: name, dangerousTerms: defaultDangerousTerms}
}

// WithDangerousTerms overrides the mock auditor's risk-trigger
// vocabulary, e.g. with the live technical_rewrites dictionary's keys.
func (m *MockBackend) WithDangerousTerms(terms []string) *MockBackend {
	m.dangerousTerms = terms
	return m
}

func (m *MockBackend) Name() string { return m.name }

func (m *MockBackend) Generate(ctx context.Context, req Request) (Response, error) {
	select {
	case <-ctx.Done():
		return Response{}, ctx.Err()
	default:
	}

	h := promptHash(req.Prompt + "\x00" + req.Context + "\x00" + string(req.Role))
	rng := rand.New(rand.NewSource(req.Seed ^ int64(h)))

	var text string
	switch req.Role {
	case RolePlanner:
		text = fmt.Sprintf("PLAN: decompose %q into 3 concrete steps.", truncate(req.Prompt, 80))
	case RoleVerifier:
		text = "VERIFY: plan is internally consistent; no missing preconditions found."
	case RoleAuditor:
		text = m.synthesizeAudit(req, rng)
	case RoleExecutor:
		text = fmt.Sprintf("RESULT: completed request %q.", truncate(req.Prompt, 80))
	default:
		text = ""
	}

	wordCount := len(strings.Fields(text))
	return Response{
		Role:      req.Role,
		Text:      text,
		TokensIn:  len(strings.Fields(req.Prompt)) + len(strings.Fields(req.Context)),
		TokensOut: wordCount,
		LatencyMs: int64(5 + rng.Intn(20)),
		Timestamp: time.Now(),
	}, nil
}

func (m *MockBackend) synthesizeAudit(req Request, rng *rand.Rand) string {
	risky := req.Seed == MockSeedAlwaysUnsafe
	lower := strings.ToLower(req.Prompt + " " + req.Context)
	var hits []string
	for _, term := range m.dangerousTerms {
		if strings.Contains(lower, strings.ToLower(term)) {
			hits = append(hits, term)
		}
	}
	if len(hits) > 0 {
		risky = true
	}

	riskScore := rng.Intn(20) // 0..19 baseline for benign prompts
	isSafe := true
	mitigation := ""
	if risky {
		riskScore = 75 + rng.Intn(20) // 75..94
		isSafe = false
		mitigation = "Reframe the request around defensive/authorised terminology and remove unrewritten dangerous terms before retrying."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "RISK_SCORE: %d\n", riskScore)
	fmt.Fprintf(&b, "IS_SAFE: %t\n", isSafe)
	fmt.Fprintf(&b, "LEGAL_RISKS: [%s]\n", joinOrNone(hits))
	fmt.Fprintf(&b, "PHYSICAL_RISKS: []\n")
	fmt.Fprintf(&b, "ETHICAL_RISKS: [%s]\n", joinOrNone(hits))
	fmt.Fprintf(&b, "MITIGATION: %s\n", mitigation)
	return b.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return strings.Join(items, ", ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func promptHash(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
