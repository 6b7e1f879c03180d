package alarm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/bhavisha4779/accident-relay/module/accident/domain"
	"github.com/bhavisha4779/accident-relay/module/accident/internal/metrics"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockSignaler struct {
	signalFn func(ctx context.Context, d time.Duration) error
	calls    chan time.Duration
}

func newMockSignaler(fn func(ctx context.Context, d time.Duration) error) *mockSignaler {
	return &mockSignaler{signalFn: fn, calls: make(chan time.Duration, 16)}
}

func (m *mockSignaler) Signal(ctx context.Context, d time.Duration) error {
	m.calls <- d
	if m.signalFn != nil {
		return m.signalFn(ctx, d)
	}
	return nil
}

func TestDispatcher_RunSignalsQueuedAlert(t *testing.T) {
	sig := newMockSignaler(nil)
	d := NewDispatcher(sig, 2*time.Second, 4, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	require.True(t, d.Dispatch(&domain.Accident{ID: "a1", Hospital: "PGI Chandigarh"}))

	select {
	case got := <-sig.calls:
		require.Equal(t, 2*time.Second, got)
	case <-time.After(time.Second):
		t.Fatal("alert was not signalled")
	}
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	sig := newMockSignaler(nil)
	d := NewDispatcher(sig, time.Second, 1, discardLogger())
	before := testutil.ToFloat64(metrics.AlertsDropped)

	require.True(t, d.Dispatch(&domain.Accident{ID: "a1"}))
	require.False(t, d.Dispatch(&domain.Accident{ID: "a2"}))

	require.Equal(t, before+1, testutil.ToFloat64(metrics.AlertsDropped))
}

func TestDispatcher_DispatchDoesNotWaitForSignal(t *testing.T) {
	release := make(chan struct{})
	sig := newMockSignaler(func(context.Context, time.Duration) error {
		<-release
		return nil
	})
	d := NewDispatcher(sig, time.Second, 4, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	require.True(t, d.Dispatch(&domain.Accident{ID: "a1"}))
	<-sig.calls

	done := make(chan bool)
	go func() { done <- d.Dispatch(&domain.Accident{ID: "a2"}) }()

	select {
	case ok := <-done:
		require.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked while the buzzer was active")
	}
	close(release)
}

func TestDispatcher_SignalFailureIsCounted(t *testing.T) {
	sig := newMockSignaler(func(context.Context, time.Duration) error {
		return errors.New("pin busy")
	})
	d := NewDispatcher(sig, time.Second, 4, discardLogger())
	before := testutil.ToFloat64(metrics.AlertsFailed)

	d.Dispatch(&domain.Accident{ID: "a1"})
	d.sound(context.Background(), <-d.ch)

	require.Equal(t, before+1, testutil.ToFloat64(metrics.AlertsFailed))
}

func TestDispatcher_RunStopsOnCancel(t *testing.T) {
	d := NewDispatcher(newMockSignaler(nil), time.Second, 1, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
