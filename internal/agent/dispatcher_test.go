package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type failingBackend struct {
	name string
	err  error
}

func (f *failingBackend) Name() string { return f.name }

func (f *failingBackend) Generate(ctx context.Context, req Request) (Response, error) {
	return Response{}, f.err
}

func TestDispatcher_FallsBackOnFailure(t *testing.T) {
	d := NewDispatcher()
	d.Register(RolePlanner, &failingBackend{name: "primary", err: errMissingMitigation})
	d.Register(RolePlanner, NewMockBackend("secondary"))

	resp, usedBackend, err := d.Dispatch(context.Background(), Request{Role: RolePlanner, Prompt: "x"}, 0, time.Millisecond)

	require.NoError(t, err)
	require.Equal(t, "secondary", usedBackend)
	require.NotEmpty(t, resp.Text)
}

func TestDispatcher_NoBackendRegistered(t *testing.T) {
	d := NewDispatcher()
	_, _, err := d.Dispatch(context.Background(), Request{Role: RoleExecutor, Prompt: "x"}, 0, time.Millisecond)
	require.Error(t, err)
}
