package breaker

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sync"

	acsaerrors "github.com/sovereign-systems/acsa/internal/errors"
)

type compiledRules struct {
	safetyFloor int
	riskCap     int
	blocklist   []*regexp.Regexp
	sources     []string
}

// Breaker holds the current rule set behind a read-mostly lock.
// Checkpoint evaluation never blocks on I/O; only ReloadFromFile does.
type Breaker struct {
	mu    sync.RWMutex
	rules *compiledRules
}

// New returns a breaker seeded with the given thresholds and an empty
// blocklist; the pre-execution checkpoint works without a blocklist.
// LoadRules and ReloadFromFile replace the whole rule set, thresholds
// included: a rule set that omits safety_floor or risk_cap sets it to 0.
func New(safetyFloor, riskCap int) *Breaker {
	return &Breaker{rules: &compiledRules{safetyFloor: safetyFloor, riskCap: riskCap}}
}

// LoadRules compiles and atomically swaps in a new rule set. An
// invalid pattern aborts the whole reload; the breaker keeps serving
// the previous rules until a valid reload succeeds.
func (b *Breaker) LoadRules(r Rules) error {
	compiled := make([]*regexp.Regexp, 0, len(r.Blocklist))
	for _, pattern := range r.Blocklist {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return acsaerrors.ConfigInvalid(fmt.Sprintf("breaker: invalid blocklist pattern %q: %v", pattern, err))
		}
		compiled = append(compiled, re)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.rules = &compiledRules{
		safetyFloor: r.SafetyFloor,
		riskCap:     r.RiskCap,
		blocklist:   compiled,
		sources:     append([]string(nil), r.Blocklist...),
	}
	return nil
}

// ReloadFromFile reads a JSON-encoded Rules document from disk and
// loads it. Rules are data, never code, so this is the only I/O the
// breaker performs.
func (b *Breaker) ReloadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return acsaerrors.ConfigInvalid("breaker: cannot read rules file: " + err.Error())
	}
	var r Rules
	if err := json.Unmarshal(data, &r); err != nil {
		return acsaerrors.ConfigInvalid("breaker: cannot parse rules file: " + err.Error())
	}
	return b.LoadRules(r)
}

func (b *Breaker) snapshot() *compiledRules {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rules
}

// PreExecution vetoes a plan whose cleaned safety_score is below the
// configured floor AND whose audit risk_score exceeds the configured
// cap. Both conditions must hold; either alone passes.
func (b *Breaker) PreExecution(safetyScore, riskScore int) Verdict {
	rules := b.snapshot()
	if safetyScore < rules.safetyFloor && riskScore > rules.riskCap {
		return blockedVerdict(
			fmt.Sprintf("safety_score %d below floor %d and risk_score %d above cap %d", safetyScore, rules.safetyFloor, riskScore, rules.riskCap),
			"pre_execution_threshold",
		)
	}
	return allow()
}

// PostExecution scans the final executor output against the
// unconditional blocklist, regardless of what the pre-execution
// checkpoint decided.
func (b *Breaker) PostExecution(text string) Verdict {
	rules := b.snapshot()
	for i, re := range rules.blocklist {
		if re.MatchString(text) {
			return blockedVerdict("output matched blocklist pattern", rules.sources[i])
		}
	}
	return allow()
}
