package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/fingerprint-server/internal/model"
	"github.com/dtroode/fingerprint-server/internal/testutil"
)

type fakeServer struct {
	name     string
	startErr error
	stopped  chan struct{}
	stops    atomic.Int32
}

func newFakeServer(name string, startErr error) *fakeServer {
	return &fakeServer{name: name, startErr: startErr, stopped: make(chan struct{})}
}

func (f *fakeServer) Start(model.SecurityLayer) error {
	if f.startErr != nil {
		return f.startErr
	}
	<-f.stopped
	return nil
}

func (f *fakeServer) Stop(context.Context) error {
	if f.stops.Add(1) == 1 {
		close(f.stopped)
	}
	return nil
}

func (f *fakeServer) Address() string { return ":0" }
func (f *fakeServer) Name() string    { return f.name }

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	a, b := newFakeServer("gRPC", nil), newFakeServer("HTTP", nil)
	ctx, cancel := context.WithCancel(context.Background())

	var hookSawRunning atomic.Bool
	hook := func(context.Context) { hookSawRunning.Store(a.stops.Load() == 0) }

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, []model.Server{a, b}, NewPlainListener(), time.Second, testutil.MakeNoopLogger(), hook)
	}()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.EqualValues(t, 1, a.stops.Load())
	assert.EqualValues(t, 1, b.stops.Load())
	assert.True(t, hookSawRunning.Load())
}

func TestRun_StartFailureStopsOthers(t *testing.T) {
	t.Parallel()

	boom := errors.New("address in use")
	a, b := newFakeServer("gRPC", nil), newFakeServer("HTTP", boom)

	err := Run(context.Background(), []model.Server{a, b}, NewPlainListener(), time.Second, testutil.MakeNoopLogger())
	assert.ErrorIs(t, err, boom)
	assert.EqualValues(t, 1, a.stops.Load())
}
