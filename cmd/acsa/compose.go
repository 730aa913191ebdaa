package main

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sovereign-systems/acsa/internal/agent"
	"github.com/sovereign-systems/acsa/internal/agent/providers/anthropic"
	"github.com/sovereign-systems/acsa/internal/agent/providers/gemini"
	"github.com/sovereign-systems/acsa/internal/agent/providers/openai"
	"github.com/sovereign-systems/acsa/internal/auditlog"
	"github.com/sovereign-systems/acsa/internal/breaker"
	"github.com/sovereign-systems/acsa/internal/config"
	"github.com/sovereign-systems/acsa/internal/dictionary"
	"github.com/sovereign-systems/acsa/internal/dose"
	"github.com/sovereign-systems/acsa/internal/fsutil"
	"github.com/sovereign-systems/acsa/internal/router"
	"github.com/sovereign-systems/acsa/internal/stats"
)

// buildEngine wires every ACSA component from cfg, the same
// composition a real deployment's entry point performs. Nothing here
// belongs in internal/router itself: the Engine accepts ready-made
// collaborators, it never constructs them.
func buildEngine(cfg *config.Config) (*router.Engine, func(), error) {
	dispatcher := agent.NewDispatcher()
	for _, entry := range cfg.Backends.Registry {
		backend, err := buildBackend(entry)
		if err != nil {
			return nil, nil, fmt.Errorf("backend %q: %w", entry.Name, err)
		}
		for _, role := range rolesFor(cfg.Router, entry.Name) {
			dispatcher.Register(role, backend)
		}
	}
	if len(cfg.Backends.Registry) == 0 {
		mock := agent.NewMockBackend("mock")
		for _, role := range []agent.Role{agent.RolePlanner, agent.RoleVerifier, agent.RoleAuditor, agent.RoleExecutor} {
			dispatcher.Register(role, mock)
		}
	}

	brk := breaker.New(cfg.Breaker.SafetyFloor, cfg.Breaker.RiskCap)
	if cfg.Breaker.RulesPath != "" {
		if err := brk.ReloadFromFile(cfg.Breaker.RulesPath); err != nil {
			return nil, nil, fmt.Errorf("breaker rules: %w", err)
		}
	}

	dict := dictionary.New()
	var dictImport *dictionary.ImportResult
	if cfg.Cleaner.DictionaryPath != "" {
		loaded, imported, err := dictionary.ImportFile(cfg.Cleaner.DictionaryPath)
		if err != nil {
			return nil, nil, fmt.Errorf("dictionary: %w", err)
		}
		dict = loaded
		dictImport = &imported
	}

	govDir, err := fsutil.GovernanceDir(cfg.Namespace, cfg.DataRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("governance dir: %w", err)
	}

	var closers []func()
	fileLock, err := fsutil.NewFileLock(cfg.Namespace, govDir, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("governance lock: %w", err)
	}
	closers = append(closers, fileLock.Unlock)

	var auditLog *auditlog.Log
	if cfg.AuditLog.Enabled {
		signer, err := loadSigner(cfg.AuditLog.SignKeyPath)
		if err != nil {
			return nil, nil, fmt.Errorf("audit log signer: %w", err)
		}
		path := filepath.Join(govDir, "audit.ndjson")
		auditLog, err = auditlog.Open(path, signer)
		if err != nil {
			return nil, nil, fmt.Errorf("audit log: %w", err)
		}
		if dictImport != nil {
			if _, err := auditLog.Append(auditlog.KindDictionaryImport, dictImport.File, dictImport); err != nil {
				return nil, nil, fmt.Errorf("audit log: %w", err)
			}
		}
	}

	pricing, err := stats.LoadPricingTable(cfg.Stats.PricingTablePath)
	if err != nil {
		return nil, nil, fmt.Errorf("pricing table: %w", err)
	}
	tracker := stats.NewTracker(pricing)

	var doseStore *dose.Store
	var doseBreak *dose.Breaker
	if cfg.Sovereignty.Enabled {
		doseStore = dose.NewStore()
		coolOff := time.Duration(cfg.Sovereignty.CoolOffSeconds) * time.Second
		doseBreak = dose.NewBreaker(coolOff, 3)
	}

	engine := router.NewEngine(cfg.Router, cfg.Sovereignty, router.Deps{
		Dispatcher: dispatcher,
		Breaker:    brk,
		Audit:      auditLog,
		Tracker:    tracker,
		Dictionary: dict,
		DoseStore:  doseStore,
		DoseBreak:  doseBreak,
	})

	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}
	return engine, cleanup, nil
}

func buildBackend(entry config.BackendEntry) (agent.Backend, error) {
	switch entry.Provider {
	case "anthropic":
		return anthropic.New(entry.Name, entry.APIKey, entry.Model), nil
	case "openai":
		return openai.New(entry.Name, entry.APIKey, entry.BaseURL, entry.Model), nil
	case "gemini":
		return gemini.New(entry.Name, entry.APIKey, entry.Model)
	case "mock", "":
		return agent.NewMockBackend(entry.Name), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", entry.Provider)
	}
}

// rolesFor reports which roles a named backend entry is wired to
// serve, per the router config's per-role backend-name fields.
func rolesFor(r config.RouterConfig, name string) []agent.Role {
	var roles []agent.Role
	if r.PlannerBackend == name {
		roles = append(roles, agent.RolePlanner)
	}
	if r.VerifierBackend == name {
		roles = append(roles, agent.RoleVerifier)
	}
	if r.AuditorBackend == name {
		roles = append(roles, agent.RoleAuditor)
	}
	if r.ExecutorBackend == name {
		roles = append(roles, agent.RoleExecutor)
	}
	return roles
}

// loadSigner reads a hex-encoded ed25519 seed from path, or falls back
// to an unsigned log when no key is configured.
func loadSigner(path string) (auditlog.Signer, error) {
	if path == "" {
		return auditlog.NoopSigner{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	seed, err := hex.DecodeString(string(raw))
	if err != nil {
		return nil, fmt.Errorf("sign key must be hex-encoded: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("sign key must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return auditlog.NewEd25519Signer(priv), nil
}
