package router

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sovereign-systems/acsa/internal/agent"
	"github.com/sovereign-systems/acsa/internal/auditlog"
	"github.com/sovereign-systems/acsa/internal/breaker"
	"github.com/sovereign-systems/acsa/internal/cleaner"
	"github.com/sovereign-systems/acsa/internal/config"
	"github.com/sovereign-systems/acsa/internal/dictionary"
	"github.com/sovereign-systems/acsa/internal/dose"
	acsaerrors "github.com/sovereign-systems/acsa/internal/errors"
	"github.com/sovereign-systems/acsa/internal/stats"

	"github.com/oklog/ulid/v2"
)

// Engine is the composition root for one ACSA deployment: it holds
// handles to every component (C1–C5, C7, C8) and runs routed requests
// through the S0–S7 state machine. Engine itself owns no process-wide
// singleton state beyond these handles, per spec.md §9's "shared
// mutable state" design note — each is a handle passed down explicitly.
type Engine struct {
	dispatcher *agent.Dispatcher
	breaker    *breaker.Breaker
	audit      *auditlog.Log
	tracker    *stats.Tracker
	dictionary *dictionary.Dictionary
	doseStore  *dose.Store
	doseBreak  *dose.Breaker

	cfg config.RouterConfig

	sovereigntyEnabled bool
	h0, lambda         float64
	breakerThreshold   float64
	rollingWindow      time.Duration
}

// Deps bundles every collaborator Engine needs, all constructed and
// owned elsewhere (the composition root proper, e.g. cmd/acsa).
type Deps struct {
	Dispatcher *agent.Dispatcher
	Breaker    *breaker.Breaker
	Audit      *auditlog.Log
	Tracker    *stats.Tracker
	Dictionary *dictionary.Dictionary
	DoseStore  *dose.Store
	DoseBreak  *dose.Breaker
}

func NewEngine(cfg config.RouterConfig, sov config.SovereigntyConfig, deps Deps) *Engine {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = config.DefaultRouterMaxIterations
	}
	if cfg.RiskThreshold <= 0 {
		cfg.RiskThreshold = config.DefaultRouterRiskThreshold
	}
	if cfg.RetryMax < 0 {
		cfg.RetryMax = config.DefaultRouterRetryMax
	}

	window := time.Duration(sov.RollingWindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Duration(config.DefaultSovereigntyWindowMin) * time.Minute
	}

	return &Engine{
		dispatcher:         deps.Dispatcher,
		breaker:            deps.Breaker,
		audit:              deps.Audit,
		tracker:            deps.Tracker,
		dictionary:         deps.Dictionary,
		doseStore:          deps.DoseStore,
		doseBreak:          deps.DoseBreak,
		cfg:                cfg,
		sovereigntyEnabled: sov.Enabled,
		h0:                 sov.InitialWisdom,
		lambda:             sov.Lambda,
		breakerThreshold:   sov.BreakerThreshold,
		rollingWindow:      window,
	}
}

func retryBackoff(cfg config.RouterConfig) time.Duration {
	d, err := config.DurationOrDefault(cfg.RetryBaseBackoff, config.DefaultRouterRetryBackoff)
	if err != nil || d <= 0 {
		return 200 * time.Millisecond
	}
	return d
}

// Run executes the S0–S7 state machine for a single request.
func (e *Engine) Run(ctx context.Context, req Request) (ExecutionLog, error) {
	maxIterations := req.MaxIterations
	if maxIterations <= 0 {
		maxIterations = e.cfg.MaxIterations
	}
	riskThreshold := req.RiskThreshold
	if riskThreshold <= 0 {
		riskThreshold = e.cfg.RiskThreshold
	}

	log := ExecutionLog{
		ID:        ulid.Make().String(),
		UserID:    req.UserID,
		UserInput: req.InputText,
		StartedAt: time.Now(),
	}

	e.auditAppend(auditlog.KindRequestStart, req.UserID, map[string]any{"log_id": log.ID})

	// S0 GateCheck
	if e.sovereigntyEnabled && e.doseBreak != nil {
		allowed, coolOff, transition := e.doseBreak.Check(req.UserID, time.Now())
		e.logDoseTransition(transition)
		if !allowed {
			log.Verdict = VerdictThrottled
			log.EndedAt = time.Now()
			e.auditAppend(auditlog.KindRequestEnd, req.UserID, map[string]any{"log_id": log.ID, "verdict": log.Verdict})
			return log, acsaerrors.Throttled(fmt.Sprintf("circuit open, retry in %s", coolOff))
		}
	}

	// S1 Clean
	cleaned := cleaner.Clean(req.InputText, e.dictionary, cleaner.Config{})
	log.Cleaned = cleaned

	var lastAudit agent.AuditResult
	iterations := 0
	critique := ""

	for {
		if ctx.Err() != nil {
			return e.cancel(log, req.UserID)
		}
		iterations++

		// S2 Plan (on retry, Plan' is driven by Ultron's critique fed
		// back as the new planning input, per spec.md §4.6's diagram).
		planPrompt := cleaned.CompliantText
		if critique != "" {
			planPrompt = critique
		}
		planResp, err := e.dispatchRole(ctx, agent.RolePlanner, planPrompt, "", req)
		if err != nil {
			if ctx.Err() != nil {
				return e.cancel(log, req.UserID)
			}
			return e.terminalError(log, req.UserID, err)
		}
		log.Chain = append(log.Chain, planResp)

		// S3 Verify / S4 Audit concurrent fan-out
		var verifyResp, auditResp agent.Response
		group, gctx := errgroup.WithContext(ctx)
		group.Go(func() error {
			resp, err := e.dispatchRole(gctx, agent.RoleVerifier, planResp.Text, "", req)
			verifyResp = resp
			return err
		})
		group.Go(func() error {
			resp, err := e.dispatchRole(gctx, agent.RoleAuditor, planResp.Text, "", req)
			auditResp = resp
			return err
		})
		fanErr := group.Wait()

		// Ordering guarantee: whichever returned first appears first.
		if !verifyResp.Timestamp.IsZero() && !auditResp.Timestamp.IsZero() && auditResp.Timestamp.Before(verifyResp.Timestamp) {
			log.Chain = append(log.Chain, auditResp, verifyResp)
		} else {
			log.Chain = append(log.Chain, verifyResp, auditResp)
		}

		if ctx.Err() != nil {
			return e.cancel(log, req.UserID)
		}
		if fanErr != nil {
			// A failed Verify or Audit step yields a synthetic unsafe
			// audit: a missing verdict is never treated as safe.
			lastAudit = agent.AuditResult{IsSafe: false, RiskScore: 100, Mitigation: "auditor step failed: " + fanErr.Error()}
		} else {
			lastAudit = agent.ParseAuditResult(auditResp.Text)
		}
		lastAudit.IsSafe = lastAudit.IsSafe && lastAudit.RiskScore < riskThreshold

		safe := lastAudit.IsSafe
		if safe || iterations >= maxIterations {
			break
		}
		critique = lastAudit.Mitigation
	}

	log.Audit = lastAudit
	log.Iterations = iterations

	if !lastAudit.IsSafe {
		log.Verdict = VerdictUnverified
		return e.finish(log, req.UserID)
	}

	// Pre-execution breaker checkpoint.
	if e.breaker != nil {
		verdict := e.breaker.PreExecution(cleaned.SafetyScore, lastAudit.RiskScore)
		if verdict.Blocked {
			log.Verdict = VerdictBlocked
			log.BlockedRule = verdict.MatchedRule
			e.auditAppend(auditlog.KindBreakerVeto, req.UserID, map[string]any{"log_id": log.ID, "reason": verdict.Reason, "rule": verdict.MatchedRule})
			return e.finish(log, req.UserID)
		}
	}

	// S5 Execute
	execResp, err := e.dispatchRole(ctx, agent.RoleExecutor, lastPlanText(log), "", req)
	if err != nil {
		if ctx.Err() != nil {
			return e.cancel(log, req.UserID)
		}
		return e.terminalError(log, req.UserID, err)
	}
	log.Chain = append(log.Chain, execResp)
	log.FinalOutput = execResp.Text

	// S6 FinalCheck (post-execution breaker checkpoint)
	if e.breaker != nil {
		verdict := e.breaker.PostExecution(execResp.Text)
		if verdict.Blocked {
			log.Verdict = VerdictBlocked
			log.BlockedRule = verdict.MatchedRule
			log.FinalOutput = ""
			e.auditAppend(auditlog.KindBreakerVeto, req.UserID, map[string]any{"log_id": log.ID, "reason": verdict.Reason, "rule": verdict.MatchedRule})
			return e.finish(log, req.UserID)
		}
	}

	log.Verdict = VerdictOk
	return e.finish(log, req.UserID)
}

// lastPlanText extracts the most recent Planner response's text from
// the chain, which the Executor needs as its input plan.
func lastPlanText(log ExecutionLog) string {
	for i := len(log.Chain) - 1; i >= 0; i-- {
		if log.Chain[i].Role == agent.RolePlanner {
			return log.Chain[i].Text
		}
	}
	return log.UserInput
}

func (e *Engine) dispatchRole(ctx context.Context, role agent.Role, prompt, convoContext string, req Request) (agent.Response, error) {
	resp, backend, err := e.dispatcher.Dispatch(ctx, agent.Request{Role: role, Prompt: prompt, Context: convoContext, Seed: req.Seed}, e.cfg.RetryMax, retryBackoff(e.cfg))
	if err != nil {
		if e.tracker != nil {
			e.tracker.RecordFailure(role, 0)
		}
		return agent.Response{}, err
	}
	if e.tracker != nil {
		resp.Cost = e.tracker.CostOf(role, backend, resp.TokensIn, resp.TokensOut)
		e.tracker.RecordSuccess(role, backend, resp)
	}
	return resp, nil
}

func (e *Engine) finish(log ExecutionLog, userID string) (ExecutionLog, error) {
	log.EndedAt = time.Now()
	for _, r := range log.Chain {
		log.Totals.Cost += r.Cost
		log.Totals.Tokens += r.TokensIn + r.TokensOut
		log.Totals.Millis += r.LatencyMs
	}

	if e.sovereigntyEnabled && e.doseStore != nil && e.doseBreak != nil {
		duration := log.EndedAt.Sub(log.StartedAt)
		kind := doseEventKind(log.Iterations, log.Verdict)
		e.doseStore.Record(userID, log.EndedAt, duration, kind, log.Iterations, string(log.Verdict))
		events := e.doseStore.EventsInWindow(userID, e.rollingWindow, log.EndedAt)
		log.SovereigntyLevel = dose.CurrentSovereigntyLevel(events)

		var transition *dose.Transition
		if e.doseBreak.StateOf(userID) == dose.StateHalfOpen {
			highRisk := !log.Audit.IsSafe || log.Verdict == VerdictBlocked
			transition = e.doseBreak.Report(userID, highRisk, log.EndedAt)
		} else {
			bio := dose.BioActivityAt(e.h0, e.lambda, events, e.rollingWindow, log.EndedAt)
			fired := dose.FiredCount(dose.RunDetectors(events, log.EndedAt))
			transition = e.doseBreak.Observe(userID, bio, fired, e.breakerThreshold, log.EndedAt)
		}
		e.logDoseTransition(transition)
	}

	err := e.auditAppend(auditlog.KindRequestEnd, userID, map[string]any{"log_id": log.ID, "verdict": log.Verdict})
	if err != nil {
		log.Verdict = VerdictLoggingFailed
		return log, err
	}
	return log, nil
}

func (e *Engine) cancel(log ExecutionLog, userID string) (ExecutionLog, error) {
	log.Verdict = VerdictCancelled
	log.EndedAt = time.Now()
	e.auditAppend(auditlog.KindRequestEnd, userID, map[string]any{"log_id": log.ID, "verdict": log.Verdict, "chain": log.Chain})
	return log, acsaerrors.Wrap(context.Canceled, "router: cancelled")
}

func (e *Engine) terminalError(log ExecutionLog, userID string, err error) (ExecutionLog, error) {
	log.Verdict = VerdictUnverified
	log.EndedAt = time.Now()
	e.auditAppend(auditlog.KindRequestEnd, userID, map[string]any{"log_id": log.ID, "verdict": log.Verdict, "error": err.Error()})
	return log, err
}

func (e *Engine) auditAppend(kind auditlog.Kind, subject string, payload any) error {
	if e.audit == nil {
		return nil
	}
	_, err := e.audit.Append(kind, subject, payload)
	return err
}

// doseEventKind classifies a finished call for dose.ComputeStats: a
// veto or exhausted retry budget delegated the outcome to policy
// outright, a clean first pass needed no user arbitration at all, and
// anything in between required at least one critique cycle.
func doseEventKind(iterations int, verdict Verdict) dose.EventKind {
	switch {
	case verdict == VerdictBlocked || verdict == VerdictUnverified:
		return dose.EventKindDelegated
	case iterations <= 1:
		return dose.EventKindAutoConfirmed
	default:
		return dose.EventKindAssisted
	}
}

// DoseStats reports userID's rolling sovereignty-subsystem usage
// summary, or a zero Stats when sovereignty tracking is disabled.
func (e *Engine) DoseStats(userID string, now time.Time) dose.Stats {
	if !e.sovereigntyEnabled || e.doseStore == nil {
		return dose.Stats{}
	}
	return dose.ComputeStats(e.doseStore.EventsInWindow(userID, e.rollingWindow, now))
}

func (e *Engine) logDoseTransition(t *dose.Transition) {
	if t == nil || e.audit == nil {
		return
	}
	_, _ = e.audit.Append(auditlog.KindCircuitTransition, t.UserID, map[string]any{
		"from":   t.From.String(),
		"to":     t.To.String(),
		"reason": t.Reason,
	})
}
