package bridge_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"mxvoice/internal/bridge"
	"mxvoice/internal/logging"
)

type recordingNotifier struct {
	progressCalls atomic.Int64
	readyCalls    atomic.Int64
	lastVersion   atomic.Value
}

func (n *recordingNotifier) NotifyUpdateProgress(_ context.Context, percent float64, message string) error {
	n.progressCalls.Add(1)
	return nil
}

func (n *recordingNotifier) NotifyUpdateReady(_ context.Context, version string) error {
	n.readyCalls.Add(1)
	n.lastVersion.Store(version)
	return nil
}

func newBridge(t *testing.T, opts bridge.Options) (*bridge.Bridge, *bridge.LocalChannel, *recordingNotifier) {
	t.Helper()
	if opts.RetryDelay == 0 {
		opts.RetryDelay = 20 * time.Millisecond
	}
	notifier := &recordingNotifier{}
	b := bridge.New(bridge.NewRegistry(), notifier, logging.NewNop(), opts)
	ch := bridge.NewLocalChannel()
	b.Attach(ch)
	return b, ch, notifier
}

func TestDispatchInvokesRegisteredEntryPoint(t *testing.T) {
	b, ch, _ := newBridge(t, bridge.Options{})

	var got atomic.Value
	b.Registry().Register(bridge.EventFKeyLoad, func(payload any) {
		got.Store(payload)
	})

	ch.Emit(bridge.NewEvent(bridge.EventFKeyLoad, "bank-2"))

	if got.Load() != "bank-2" {
		t.Fatalf("expected synchronous dispatch with payload, got %#v", got.Load())
	}
}

func TestDispatchRetriesExactlyOnce(t *testing.T) {
	b, ch, _ := newBridge(t, bridge.Options{RetryDelay: 30 * time.Millisecond})

	var calls atomic.Int64
	ch.Emit(bridge.NewEvent(bridge.EventHoldingTankLoad, []any{"song-1"}))

	// Entry point shows up inside the retry window.
	b.Registry().Register(bridge.EventHoldingTankLoad, func(any) {
		calls.Add(1)
	})

	time.Sleep(120 * time.Millisecond)
	if calls.Load() != 1 {
		t.Fatalf("expected exactly one delivery via retry, got %d", calls.Load())
	}
}

func TestDispatchGivesUpAfterSingleRetry(t *testing.T) {
	b, ch, _ := newBridge(t, bridge.Options{RetryDelay: 15 * time.Millisecond})

	ch.Emit(bridge.NewEvent(bridge.EventManageMode, nil))

	// Register only after the retry window has closed.
	time.Sleep(80 * time.Millisecond)
	var calls atomic.Int64
	b.Registry().Register(bridge.EventManageMode, func(any) {
		calls.Add(1)
	})

	time.Sleep(60 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatalf("expected no delivery after retry gave up, got %d", calls.Load())
	}
}

func TestTrustedDispatchSkipsRetry(t *testing.T) {
	b, ch, _ := newBridge(t, bridge.Options{TrustedDispatch: true, RetryDelay: 10 * time.Millisecond})

	var calls atomic.Int64
	ch.Emit(bridge.NewEvent(bridge.EventCloseAllTabs, nil))
	b.Registry().Register(bridge.EventCloseAllTabs, func(any) {
		calls.Add(1)
	})

	time.Sleep(60 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatalf("trusted mode must not retry, got %d deliveries", calls.Load())
	}
}

func TestReRegistrationReplaces(t *testing.T) {
	b, ch, _ := newBridge(t, bridge.Options{})

	var first, second atomic.Int64
	b.Registry().Register(bridge.EventToggleWaveForm, func(any) { first.Add(1) })
	b.Registry().Register(bridge.EventToggleWaveForm, func(any) { second.Add(1) })

	ch.Emit(bridge.NewEvent(bridge.EventToggleWaveForm, nil))

	if first.Load() != 0 || second.Load() != 1 {
		t.Fatalf("expected replacement semantics, first=%d second=%d", first.Load(), second.Load())
	}
}

func TestEntryPointPanicIsContained(t *testing.T) {
	b, ch, _ := newBridge(t, bridge.Options{})

	var calls atomic.Int64
	b.Registry().Register(bridge.EventIncreaseFontSize, func(any) {
		calls.Add(1)
		if calls.Load() == 1 {
			panic("bad payload")
		}
	})

	ch.Emit(bridge.NewEvent(bridge.EventIncreaseFontSize, nil))
	ch.Emit(bridge.NewEvent(bridge.EventIncreaseFontSize, nil))

	if calls.Load() != 2 {
		t.Fatalf("panic must not unregister the listener, got %d calls", calls.Load())
	}
}

func TestDetachRemovesAllHandlers(t *testing.T) {
	b, ch, notifier := newBridge(t, bridge.Options{})

	var calls atomic.Int64
	for _, name := range bridge.Events() {
		b.Registry().Register(name, func(any) { calls.Add(1) })
	}

	b.Detach(ch)

	for _, name := range bridge.Events() {
		ch.Emit(bridge.NewEvent(name, nil))
	}
	time.Sleep(60 * time.Millisecond)

	if calls.Load() != 0 {
		t.Fatalf("expected no deliveries after Detach, got %d", calls.Load())
	}
	if notifier.readyCalls.Load() != 0 || notifier.progressCalls.Load() != 0 {
		t.Fatal("expected no synthesized notifications after Detach")
	}
}

func TestUpdateEventsSynthesizeNotifications(t *testing.T) {
	b, ch, notifier := newBridge(t, bridge.Options{})

	// Even a registered entry point must not be called for update events.
	var calls atomic.Int64
	b.Registry().Register(bridge.EventUpdateReady, func(any) { calls.Add(1) })

	ch.Emit(bridge.NewEvent(bridge.EventUpdateDownloadProgress, map[string]any{
		"percent": 42.5,
		"message": "downloading",
	}))
	ch.Emit(bridge.NewEvent(bridge.EventUpdateReady, map[string]any{"version": "4.1.0"}))

	if notifier.progressCalls.Load() != 1 {
		t.Fatalf("expected one progress notification, got %d", notifier.progressCalls.Load())
	}
	if notifier.readyCalls.Load() != 1 {
		t.Fatalf("expected one ready notification, got %d", notifier.readyCalls.Load())
	}
	if notifier.lastVersion.Load() != "4.1.0" {
		t.Fatalf("expected version 4.1.0, got %#v", notifier.lastVersion.Load())
	}
	if calls.Load() != 0 {
		t.Fatal("update events must not dispatch to entry points")
	}
}

func TestKnownCoversTable(t *testing.T) {
	for _, name := range bridge.Events() {
		if !bridge.Known(name) {
			t.Fatalf("event %s not reported as known", name)
		}
	}
	if bridge.Known("made_up_event") {
		t.Fatal("unexpected event reported as known")
	}
}
