package agent

import (
	"context"
	"errors"
)

var errMissingMitigation = errors.New("agent: audit result marked unsafe without mitigation")

// Backend is satisfied by every back-end regardless of role: live
// vendor APIs and the mock back-end alike. Generate is logically
// single-shot: the backends in this module do not retry inside
// Generate. Retry with backoff for retryable errors is done by
// Dispatcher, which applies the same policy to every backend before
// falling through to the role's next one.
type Backend interface {
	Name() string
	Generate(ctx context.Context, req Request) (Response, error)
}
