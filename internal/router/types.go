// Package router implements the ACSA state machine (C6): the
// adversarial loop that composes the agent abstraction, cognitive
// cleaner, safety breaker, dose meter, audit log, and stats accounting
// into one end-to-end routed execution.
package router

import (
	"time"

	"github.com/sovereign-systems/acsa/internal/agent"
	"github.com/sovereign-systems/acsa/internal/cleaner"
	"github.com/sovereign-systems/acsa/internal/dose"
)

// Verdict is the closed set of outcomes a routed call can end in.
type Verdict string

const (
	VerdictOk            Verdict = "Ok"
	VerdictUnverified    Verdict = "Unverified"
	VerdictBlocked       Verdict = "Blocked"
	VerdictThrottled     Verdict = "Throttled"
	VerdictCancelled     Verdict = "Cancelled"
	VerdictLoggingFailed Verdict = "LoggingFailed"
)

// Totals rolls up cost/tokens/latency across a single ExecutionLog's chain.
type Totals struct {
	Cost   float64
	Tokens int
	Millis int64
}

// ExecutionLog is the Router's single output: every routed call
// produces exactly one, handed off (by move, conceptually) to the
// audit log for persistence.
type ExecutionLog struct {
	ID          string
	UserID      string
	UserInput   string
	Cleaned     cleaner.Result
	Chain       []agent.Response
	Audit       agent.AuditResult
	Iterations  int
	FinalOutput string
	Verdict     Verdict
	BlockedRule string
	Totals      Totals

	// SovereigntyLevel is the advisory dose-meter classification of the
	// user's recent usage rhythm at the time this call completed. It is
	// the zero value (dose.LevelBattery) whenever sovereignty tracking
	// is disabled, so callers must not treat it as a gating signal.
	SovereigntyLevel dose.SovereigntyLevel

	StartedAt time.Time
	EndedAt   time.Time
}

// Request is the single logical "routed request" operation's input.
type Request struct {
	UserID        string
	InputText     string
	MaxIterations int   // 0 means "use configured default"
	RiskThreshold int   // 0 means "use configured default"
	Seed          int64 // threaded to every backend call for mock determinism
	UseMock       bool
}
