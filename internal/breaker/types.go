// Package breaker implements the two-checkpoint safety veto that sits
// between the router's audit step and its final output: a
// pre-execution score/risk gate and a post-execution blocklist scan.
// The breaker itself holds no per-request or per-user state — only the
// rule data it was loaded with.
package breaker

// Verdict is the outcome of either checkpoint.
type Verdict struct {
	Blocked     bool
	Reason      string
	MatchedRule string
}

func allow() Verdict { return Verdict{} }

func blockedVerdict(reason, rule string) Verdict {
	return Verdict{Blocked: true, Reason: reason, MatchedRule: rule}
}

// Rules is the breaker's reloadable configuration. Pattern is a
// compiled regular expression's source text, not code.
type Rules struct {
	SafetyFloor int      `json:"safety_floor"`
	RiskCap     int      `json:"risk_cap"`
	Blocklist   []string `json:"blocklist"`
}
