package errors

import (
	"errors"
)

// Sentinel errors for the router's closed taxonomy. Every error any
// component returns maps to exactly one of these via errors.Is.
var (
	// ErrTransport - network/transport failure talking to a backend.
	ErrTransport = errors.New("transport error")

	// ErrRateLimited - backend rejected the call due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout - the call exceeded its deadline.
	ErrTimeout = errors.New("timeout")

	// ErrInvalidOutput - backend returned output that failed schema or
	// parse validation.
	ErrInvalidOutput = errors.New("invalid model output")

	// ErrRefused - backend declined to answer (safety refusal on its
	// side, not ours).
	ErrRefused = errors.New("refused by backend")

	// ErrBlocked - the safety breaker vetoed the request or response.
	ErrBlocked = errors.New("blocked by safety breaker")

	// ErrThrottled - the dose meter's circuit breaker is open for this
	// user.
	ErrThrottled = errors.New("throttled by circuit breaker")

	// ErrCancelled - caller-initiated cancellation.
	ErrCancelled = errors.New("cancelled")

	// ErrLoggingFailed - the audit log could not persist an entry; this
	// is always fatal to the request that triggered it.
	ErrLoggingFailed = errors.New("audit logging failed")

	// ErrConfigInvalid - configuration failed validation at load time.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrDictionaryInvalid - a dictionary file failed to parse or
	// exceeded its bounds.
	ErrDictionaryInvalid = errors.New("invalid dictionary")
)
