// Package dose implements the sovereignty/dose-meter subsystem: a
// per-user time-decaying "bio-activity" value, a bank of usage pattern
// detectors, a sovereignty-level classification, and a circuit breaker
// that can throttle a dependent user. Every feature here is off by
// default (spec.md §4.4) and gates nothing unless
// config.SovereigntyConfig.Enabled is set.
package dose

import "time"

// EventKind classifies how much a completed execution leaned on the
// router versus requiring the user's own back-and-forth, mirroring the
// delegation/auto-confirm split the original sovereignty tracker kept
// per decision.
type EventKind string

const (
	// EventKindAutoConfirmed is a call resolved safe on the first pass:
	// no critique cycle, nothing for the user to arbitrate.
	EventKindAutoConfirmed EventKind = "auto_confirmed"
	// EventKindAssisted required at least one Plan/Audit retry cycle
	// before a verdict was reached.
	EventKindAssisted EventKind = "assisted"
	// EventKindDelegated exhausted its iteration budget or was vetoed
	// outright, handing the outcome to policy rather than the user.
	EventKindDelegated EventKind = "delegated"
)

// DoseEvent records one completed router execution for a user.
type DoseEvent struct {
	UserID         string
	Timestamp      time.Time
	Duration       time.Duration
	EventKind      EventKind
	IterationCount int
	FinalVerdict   string
	Short          bool // interval since the previous event was under a minute
	Long           bool // this event's own duration exceeded 180 minutes
}

// RiskLevel bands BioActivity.Current per spec.md §4.4.
type RiskLevel int

const (
	RiskHealthy RiskLevel = iota
	RiskWarning
	RiskDanger
	RiskCritical
	RiskMitochondrial
)

func (r RiskLevel) String() string {
	switch r {
	case RiskHealthy:
		return "healthy"
	case RiskWarning:
		return "warning"
	case RiskDanger:
		return "danger"
	case RiskCritical:
		return "critical"
	case RiskMitochondrial:
		return "mitochondrial"
	default:
		return "unknown"
	}
}

func bandRiskLevel(current float64) RiskLevel {
	switch {
	case current > 80:
		return RiskHealthy
	case current > 60:
		return RiskWarning
	case current > 40:
		return RiskDanger
	case current > 20:
		return RiskCritical
	default:
		return RiskMitochondrial
	}
}

// BioActivity is H(t), recomputed fresh on every read.
type BioActivity struct {
	Current      float64
	Baseline     float64
	DecayRate    float64
	RiskLevel    RiskLevel
	WindowEvents int
	CalculatedAt time.Time
}

// SovereigntyLevel is the advisory step function over average
// inter-event interval; it never gates execution on its own.
type SovereigntyLevel int

const (
	LevelBattery SovereigntyLevel = iota
	LevelReflex
	LevelShallow
	LevelModerate
	LevelSovereign
)

func (l SovereigntyLevel) String() string {
	switch l {
	case LevelBattery:
		return "battery"
	case LevelReflex:
		return "reflex"
	case LevelShallow:
		return "shallow"
	case LevelModerate:
		return "moderate"
	case LevelSovereign:
		return "sovereign"
	default:
		return "unknown"
	}
}

// SovereigntyLevelFor implements spec.md §4.4's step function over the
// average inter-event interval, in minutes.
func SovereigntyLevelFor(avgIntervalMinutes float64) SovereigntyLevel {
	switch {
	case avgIntervalMinutes < 1:
		return LevelBattery
	case avgIntervalMinutes < 3:
		return LevelReflex
	case avgIntervalMinutes < 10:
		return LevelShallow
	case avgIntervalMinutes < 30:
		return LevelModerate
	default:
		return LevelSovereign
	}
}
