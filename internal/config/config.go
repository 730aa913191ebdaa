// Package config carries the router's recognised configuration keys.
// Full file/flag/.env layering is explicitly out of scope (see
// Non-goals); callers construct a Config directly or load the subset
// that comes from the process environment via FromEnv.
package config

import (
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Backends    BackendsConfig    `koanf:"backends"`
	Router      RouterConfig      `koanf:"router"`
	Cleaner     CleanerConfig     `koanf:"cleaner"`
	Breaker     BreakerConfig     `koanf:"breaker"`
	Sovereignty SovereigntyConfig `koanf:"sovereignty"`
	AuditLog    AuditLogConfig    `koanf:"audit_log"`
	Dictionary  DictionaryConfig  `koanf:"dictionary"`
	Stats       StatsConfig       `koanf:"stats"`
	LogLevel    string            `koanf:"log_level"`
	DataRoot    string            `koanf:"data_root"`
	Namespace   string            `koanf:"namespace"`
}

// BackendsConfig names, per role, which agent.Backend instances back
// that role and in what fallback order.
type BackendsConfig struct {
	Registry []BackendEntry `koanf:"registry"`
}

type BackendEntry struct {
	Name       string `koanf:"name"`
	Provider   string `koanf:"provider"` // anthropic | openai | gemini | mock
	Model      string `koanf:"model"`
	APIKey     string `koanf:"api_key"`
	BaseURL    string `koanf:"base_url"`
	MockSeed   int64  `koanf:"mock_seed"`
	RequestTTL string `koanf:"request_timeout"`
}

type RouterConfig struct {
	MaxIterations    int    `koanf:"max_iterations"`
	RiskThreshold    int    `koanf:"risk_threshold"`
	RetryMax         int    `koanf:"retry_max"`
	RetryBaseBackoff string `koanf:"retry_base_backoff"`
	PlannerBackend   string `koanf:"planner_backend"`
	VerifierBackend  string `koanf:"verifier_backend"`
	AuditorBackend   string `koanf:"auditor_backend"`
	ExecutorBackend  string `koanf:"executor_backend"`
}

type CleanerConfig struct {
	DictionaryPath string `koanf:"dictionary_path"`
}

type BreakerConfig struct {
	SafetyFloor   int    `koanf:"safety_floor"`
	RiskCap       int    `koanf:"risk_cap"`
	RulesPath     string `koanf:"rules_path"`
}

type SovereigntyConfig struct {
	Enabled              bool    `koanf:"enabled"`
	ShowWarnings         bool    `koanf:"show_warnings"`
	Lambda               float64 `koanf:"lambda"`
	InitialWisdom        float64 `koanf:"initial_wisdom"`
	BreakerThreshold     float64 `koanf:"breaker_threshold"`
	CoolOffSeconds       int     `koanf:"cool_off_seconds"`
	RollingWindowMinutes int     `koanf:"rolling_window_minutes"`
}

type AuditLogConfig struct {
	Enabled       bool   `koanf:"enabled"`
	RetentionDays int    `koanf:"retention_days"`
	SignKeyPath   string `koanf:"sign_key_path"`
}

type DictionaryConfig struct {
	MaxEntriesPerMapping int   `koanf:"max_entries_per_mapping"`
	MaxFileBytes         int64 `koanf:"max_file_bytes"`
}

type StatsConfig struct {
	PricingTablePath string `koanf:"pricing_table_path"`
}

const (
	DefaultLogLevel             = "info"
	DefaultRouterMaxIterations  = 3
	DefaultRouterRiskThreshold  = 70
	DefaultRouterRetryMax       = 2
	DefaultRouterRetryBackoff   = "200ms"
	DefaultBreakerSafetyFloor   = 40
	DefaultBreakerRiskCap       = 70
	DefaultSovereigntyLambda    = 0.015
	DefaultSovereigntyH0        = 100.0
	DefaultSovereigntyBreaker   = 40.0
	DefaultSovereigntyCoolOff   = 300
	DefaultSovereigntyWindowMin = 24 * 60
	DefaultAuditRetentionDays   = 365
	DefaultDictionaryMaxEntries = 10000
	DefaultDictionaryMaxBytes   = 10 * 1024 * 1024
)

// Default returns a Config with every field at its documented default.
func Default() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		Namespace: "default",
		Router: RouterConfig{
			MaxIterations:    DefaultRouterMaxIterations,
			RiskThreshold:    DefaultRouterRiskThreshold,
			RetryMax:         DefaultRouterRetryMax,
			RetryBaseBackoff: DefaultRouterRetryBackoff,
		},
		Breaker: BreakerConfig{
			SafetyFloor: DefaultBreakerSafetyFloor,
			RiskCap:     DefaultBreakerRiskCap,
		},
		Sovereignty: SovereigntyConfig{
			Enabled:              false,
			ShowWarnings:         false,
			Lambda:               DefaultSovereigntyLambda,
			InitialWisdom:        DefaultSovereigntyH0,
			BreakerThreshold:     DefaultSovereigntyBreaker,
			CoolOffSeconds:       DefaultSovereigntyCoolOff,
			RollingWindowMinutes: DefaultSovereigntyWindowMin,
		},
		AuditLog: AuditLogConfig{
			Enabled:       true,
			RetentionDays: DefaultAuditRetentionDays,
		},
		Dictionary: DictionaryConfig{
			MaxEntriesPerMapping: DefaultDictionaryMaxEntries,
			MaxFileBytes:         DefaultDictionaryMaxBytes,
		},
	}
}

// FromEnv layers ACSA_-prefixed environment variables over the
// defaults. It is the only config-loading surface this module
// provides; file/flag parsing is an external collaborator's job.
func FromEnv() (*Config, error) {
	cfg := Default()

	k := koanf.New(".")
	if err := k.Load(env.Provider("ACSA_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "ACSA_")), "_", ".")
	}), nil); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
