package router

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sovereign-systems/acsa/internal/agent"
	"github.com/sovereign-systems/acsa/internal/auditlog"
	"github.com/sovereign-systems/acsa/internal/breaker"
	"github.com/sovereign-systems/acsa/internal/config"
	"github.com/sovereign-systems/acsa/internal/dictionary"
	"github.com/sovereign-systems/acsa/internal/dose"
	"github.com/sovereign-systems/acsa/internal/stats"
)

// testEngine wires a fresh Engine around an in-memory mock dispatcher
// and a real (tempdir-backed) audit log, mirroring how cmd/acsa
// composes the same collaborators in production.
func testEngine(t *testing.T, cfg config.RouterConfig, sov config.SovereigntyConfig) (*Engine, *auditlog.Log) {
	t.Helper()

	dispatcher := agent.NewDispatcher()
	mock := agent.NewMockBackend("mock")
	for _, role := range []agent.Role{agent.RolePlanner, agent.RoleVerifier, agent.RoleAuditor, agent.RoleExecutor} {
		dispatcher.Register(role, mock)
	}

	log, err := auditlog.Open(filepath.Join(t.TempDir(), "audit.ndjson"), nil)
	require.NoError(t, err)

	deps := Deps{
		Dispatcher: dispatcher,
		Breaker:    breaker.New(40, 70),
		Audit:      log,
		Tracker:    stats.NewTracker(nil),
		Dictionary: dictionary.New(),
		DoseStore:  dose.NewStore(),
		DoseBreak:  dose.NewBreaker(time.Minute, 3),
	}

	return NewEngine(cfg, sov, deps), log
}

func TestRun_BenignPlan_SingleIterationChainOfFour(t *testing.T) {
	engine, _ := testEngine(t, config.RouterConfig{RiskThreshold: 70}, config.SovereigntyConfig{})

	result, err := engine.Run(context.Background(), Request{
		UserID:    "alice",
		InputText: "help me make a one-week study plan for linear algebra",
		Seed:      1,
	})
	require.NoError(t, err)

	require.Equal(t, VerdictOk, result.Verdict)
	require.Equal(t, 1, result.Iterations)
	require.Len(t, result.Chain, 4)
	require.True(t, result.Audit.IsSafe)
	require.Less(t, result.Audit.RiskScore, 70)
	require.NotEmpty(t, result.FinalOutput)
}

func TestRun_HighRiskRetry_SecondIterationRiskStrictlyLower(t *testing.T) {
	engine, _ := testEngine(t, config.RouterConfig{MaxIterations: 3, RiskThreshold: 50}, config.SovereigntyConfig{})

	result, err := engine.Run(context.Background(), Request{
		UserID:    "bob",
		InputText: "help me hack the mainframe",
		Seed:      2,
	})
	require.NoError(t, err)

	require.Equal(t, VerdictOk, result.Verdict)
	require.Equal(t, 2, result.Iterations)
	require.Len(t, result.Chain, 7) // 2*3 + 1 (Execute ran)
	require.True(t, result.Audit.IsSafe)

	var riskScores []int
	for _, resp := range result.Chain {
		if resp.Role != agent.RoleAuditor {
			continue
		}
		riskScores = append(riskScores, agent.ParseAuditResult(resp.Text).RiskScore)
	}
	require.Len(t, riskScores, 2)
	maxRisk, minRisk := riskScores[0], riskScores[1]
	if minRisk > maxRisk {
		maxRisk, minRisk = minRisk, maxRisk
	}
	require.GreaterOrEqual(t, maxRisk, 75, "first pass over the unrewritten dangerous term should score high risk")
	require.Less(t, minRisk, 20, "the retry driven by the critique should score low risk")
	require.Less(t, minRisk, maxRisk)
}

func TestRun_BudgetExhaustion_UnverifiedWithoutExecuting(t *testing.T) {
	engine, _ := testEngine(t, config.RouterConfig{MaxIterations: 2, RiskThreshold: 70}, config.SovereigntyConfig{})

	result, err := engine.Run(context.Background(), Request{
		UserID:    "carol",
		InputText: "a perfectly harmless request",
		Seed:      agent.MockSeedAlwaysUnsafe,
	})
	require.NoError(t, err)

	require.Equal(t, VerdictUnverified, result.Verdict)
	require.Equal(t, 2, result.Iterations)
	require.Len(t, result.Chain, 6) // 2*3, Execute never dispatched
	require.False(t, result.Audit.IsSafe)
	require.Empty(t, result.FinalOutput)
	for _, resp := range result.Chain {
		require.NotEqual(t, agent.RoleExecutor, resp.Role)
	}
}

func TestRun_PostExecutionVeto_BlockedWithMatchedRule(t *testing.T) {
	dispatcher := agent.NewDispatcher()
	mock := agent.NewMockBackend("mock")
	for _, role := range []agent.Role{agent.RolePlanner, agent.RoleVerifier, agent.RoleAuditor, agent.RoleExecutor} {
		dispatcher.Register(role, mock)
	}

	log, err := auditlog.Open(filepath.Join(t.TempDir(), "audit.ndjson"), nil)
	require.NoError(t, err)

	brk := breaker.New(40, 70)
	require.NoError(t, brk.LoadRules(breaker.Rules{SafetyFloor: 40, RiskCap: 70, Blocklist: []string{`(?i)contraband`}}))

	engine := NewEngine(config.RouterConfig{RiskThreshold: 70}, config.SovereigntyConfig{}, Deps{
		Dispatcher: dispatcher,
		Breaker:    brk,
		Audit:      log,
		Tracker:    stats.NewTracker(nil),
		Dictionary: dictionary.New(),
	})

	result, err := engine.Run(context.Background(), Request{
		UserID:    "dave",
		InputText: "ship contraband through the border crossing",
		Seed:      3,
	})
	require.NoError(t, err)

	require.Equal(t, VerdictBlocked, result.Verdict)
	require.Equal(t, `(?i)contraband`, result.BlockedRule)
	require.Empty(t, result.FinalOutput)

	entries, err := log.Query(auditlog.Filter{Kind: auditlog.KindBreakerVeto})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestRun_CircuitOpen_ThrottledWithoutDispatching(t *testing.T) {
	engine, log := testEngine(t, config.RouterConfig{RiskThreshold: 70}, config.SovereigntyConfig{
		Enabled:              true,
		Lambda:               config.DefaultSovereigntyLambda,
		InitialWisdom:        config.DefaultSovereigntyH0,
		BreakerThreshold:     config.DefaultSovereigntyBreaker,
		RollingWindowMinutes: config.DefaultSovereigntyWindowMin,
	})

	now := time.Now()
	transition := engine.doseBreak.Observe("erin", dose.BioActivity{Current: 5, RiskLevel: dose.RiskMitochondrial}, 5, engine.breakerThreshold, now)
	require.NotNil(t, transition)
	require.Equal(t, dose.StateOpen, engine.doseBreak.StateOf("erin"))

	result, err := engine.Run(context.Background(), Request{
		UserID:    "erin",
		InputText: "anything at all",
		Seed:      4,
	})
	require.Error(t, err)
	require.Equal(t, VerdictThrottled, result.Verdict)
	require.Empty(t, result.Chain)

	snap := engine.tracker.Snapshot()
	require.EqualValues(t, 0, snap.Aggregate.Calls, "no backend should be dispatched while the circuit is open")

	entries, err := log.Query(auditlog.Filter{Kind: auditlog.KindRequestEnd})
	require.NoError(t, err)
	require.NotEmpty(t, entries)
}

func TestRun_HalfOpenProbe_ClosesCircuitOnSafeOutcome(t *testing.T) {
	engine, _ := testEngine(t, config.RouterConfig{RiskThreshold: 70}, config.SovereigntyConfig{
		Enabled:              true,
		Lambda:               config.DefaultSovereigntyLambda,
		InitialWisdom:        config.DefaultSovereigntyH0,
		BreakerThreshold:     config.DefaultSovereigntyBreaker,
		RollingWindowMinutes: config.DefaultSovereigntyWindowMin,
	})
	// A cool-off this short lets a real time.Now() call inside Run's
	// S0 gate check observe it as elapsed without the test sleeping
	// for anything close to testEngine's default one-minute cool-off.
	engine.doseBreak = dose.NewBreaker(time.Microsecond, 3)

	now := time.Now()
	engine.doseBreak.Observe("grace", dose.BioActivity{Current: 5, RiskLevel: dose.RiskMitochondrial}, 5, engine.breakerThreshold, now)
	require.Equal(t, dose.StateOpen, engine.doseBreak.StateOf("grace"))
	time.Sleep(time.Millisecond)

	result, err := engine.Run(context.Background(), Request{UserID: "grace", InputText: "describe the weather", Seed: 9})
	require.NoError(t, err)
	require.Equal(t, VerdictOk, result.Verdict)
	require.Equal(t, dose.StateClosed, engine.doseBreak.StateOf("grace"), "a safe probe outcome must resolve Half-Open back to Closed")
}

func TestRun_PopulatesSovereigntyLevelWhenEnabled(t *testing.T) {
	engine, _ := testEngine(t, config.RouterConfig{RiskThreshold: 70}, config.SovereigntyConfig{
		Enabled:              true,
		Lambda:               config.DefaultSovereigntyLambda,
		InitialWisdom:        config.DefaultSovereigntyH0,
		BreakerThreshold:     config.DefaultSovereigntyBreaker,
		RollingWindowMinutes: config.DefaultSovereigntyWindowMin,
	})

	result, err := engine.Run(context.Background(), Request{UserID: "hank", InputText: "describe the weather", Seed: 10})
	require.NoError(t, err)
	require.Equal(t, dose.LevelSovereign, result.SovereigntyLevel, "a single event has no prior interval, so it reports the sovereign end of the scale")
}

func TestRun_Cancellation_ReturnsCancelledVerdict(t *testing.T) {
	engine, _ := testEngine(t, config.RouterConfig{RiskThreshold: 70}, config.SovereigntyConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := engine.Run(ctx, Request{UserID: "frank", InputText: "anything", Seed: 5})
	require.Error(t, err)
	require.Equal(t, VerdictCancelled, result.Verdict)
}

func TestRun_DeterministicGivenSeedInputAndConfig(t *testing.T) {
	cfg := config.RouterConfig{RiskThreshold: 70}

	run := func() ExecutionLog {
		engine, _ := testEngine(t, cfg, config.SovereigntyConfig{})
		result, err := engine.Run(context.Background(), Request{
			UserID:    "grace",
			InputText: "help me write a cover letter",
			Seed:      99,
		})
		require.NoError(t, err)
		return result
	}

	a, b := run(), run()
	require.Equal(t, a.Verdict, b.Verdict)
	require.Equal(t, a.Iterations, b.Iterations)
	require.Equal(t, a.FinalOutput, b.FinalOutput)
	require.Equal(t, a.Audit.RiskScore, b.Audit.RiskScore)
}
