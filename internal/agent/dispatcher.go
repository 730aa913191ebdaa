package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	acsaerrors "github.com/sovereign-systems/acsa/internal/errors"
)

// Dispatcher resolves a Role to an ordered list of backends and
// executes with fallback: when a backend fails (after in-place retries
// for retryable errors) it falls through to the next one in the role's
// list.
// Dispatcher imposes no shared state between backends; it only owns
// the ordering and retry bookkeeping.
type Dispatcher struct {
	mu       sync.RWMutex
	backends map[Role][]Backend
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{backends: make(map[Role][]Backend)}
}

// Register appends a backend to the fallback chain for role.
func (d *Dispatcher) Register(role Role, b Backend) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.backends[role] = append(d.backends[role], b)
}

// Dispatch runs req against the role's backend chain, retrying the
// current backend up to retryMax times with exponential backoff on
// Transport/RateLimited/Timeout before falling through to the next
// backend in the chain.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request, retryMax int, baseBackoff time.Duration) (Response, string, error) {
	d.mu.RLock()
	chain := append([]Backend(nil), d.backends[req.Role]...)
	d.mu.RUnlock()

	if len(chain) == 0 {
		return Response{}, "", fmt.Errorf("agent: no backend registered for role %s", req.Role)
	}

	var lastErr error
	for _, backend := range chain {
		resp, err := dispatchOne(ctx, backend, req, retryMax, baseBackoff)
		if err == nil {
			return resp, backend.Name(), nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return Response{}, backend.Name(), acsaerrors.Wrap(ctx.Err(), "dispatch cancelled")
		}
	}
	return Response{}, "", fmt.Errorf("agent: all backends for role %s exhausted: %w", req.Role, lastErr)
}

func dispatchOne(ctx context.Context, backend Backend, req Request, retryMax int, baseBackoff time.Duration) (Response, error) {
	var err error
	for attempt := 0; attempt <= retryMax; attempt++ {
		var resp Response
		resp, err = backend.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		mapped := acsaerrors.MapError(err)
		if !acsaerrors.IsRetryable(mapped) || attempt == retryMax {
			return Response{}, mapped
		}
		backoff := baseBackoff * time.Duration(1<<attempt)
		select {
		case <-ctx.Done():
			return Response{}, acsaerrors.Wrap(ctx.Err(), "dispatch cancelled during backoff")
		case <-time.After(backoff):
		}
	}
	return Response{}, err
}
