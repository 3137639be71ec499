package devices

import (
	"context"
	"testing"

	"github.com/pilebones/go-udev/netlink"

	"mxvoice/internal/bridge"
	"mxvoice/internal/config"
	"mxvoice/internal/logging"
)

type recordingEmitter struct {
	events []bridge.Event
}

func (e *recordingEmitter) Emit(event bridge.Event) {
	e.events = append(e.events, event)
}

func enabledConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Devices.MonitorEnabled = true
	return cfg
}

func TestNewMonitor(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		if m := NewMonitor(nil, logging.NewNop(), nil); m != nil {
			t.Error("expected nil monitor for nil config")
		}
	})

	t.Run("disabled monitoring returns nil", func(t *testing.T) {
		cfg := &config.Config{}
		if m := NewMonitor(cfg, logging.NewNop(), nil); m != nil {
			t.Error("expected nil monitor when monitoring disabled")
		}
	})

	t.Run("enabled monitoring creates monitor", func(t *testing.T) {
		if m := NewMonitor(enabledConfig(), logging.NewNop(), nil); m == nil {
			t.Fatal("expected non-nil monitor")
		}
	})
}

func TestMonitorLifecycleSafety(t *testing.T) {
	t.Run("nil monitor start and stop are safe", func(t *testing.T) {
		var m *Monitor
		if err := m.Start(context.Background()); err != nil {
			t.Fatalf("Start on nil monitor should return nil, got: %v", err)
		}
		m.Stop()
		if m.Running() {
			t.Error("expected Running() false for nil monitor")
		}
	})

	t.Run("stop on unstarted monitor is safe", func(t *testing.T) {
		m := NewMonitor(enabledConfig(), logging.NewNop(), nil)
		m.Stop()
		m.Stop()
		if m.Running() {
			t.Error("expected Running() false after Stop on unstarted monitor")
		}
	})

	t.Run("start failure is non-fatal", func(t *testing.T) {
		m := NewMonitor(enabledConfig(), logging.NewNop(), nil)
		// Connecting to netlink usually fails in test environments; the
		// monitor must treat that as a warning, not an error.
		_ = m.Start(context.Background())
	})
}

func TestBuildMatcher(t *testing.T) {
	m := NewMonitor(enabledConfig(), logging.NewNop(), nil)
	matcher := m.buildMatcher()
	if matcher == nil {
		t.Fatal("expected non-nil matcher")
	}

	addEvent := netlink.UEvent{
		Action: netlink.ADD,
		Env:    map[string]string{"SUBSYSTEM": "sound"},
	}
	if !matcher.Evaluate(addEvent) {
		t.Error("expected matcher to accept sound add event")
	}

	removeEvent := netlink.UEvent{
		Action: netlink.REMOVE,
		Env:    map[string]string{"SUBSYSTEM": "sound"},
	}
	if !matcher.Evaluate(removeEvent) {
		t.Error("expected matcher to accept sound remove event")
	}

	changeEvent := netlink.UEvent{
		Action: netlink.CHANGE,
		Env:    map[string]string{"SUBSYSTEM": "sound"},
	}
	if matcher.Evaluate(changeEvent) {
		t.Error("expected matcher to reject change action")
	}

	blockEvent := netlink.UEvent{
		Action: netlink.ADD,
		Env:    map[string]string{"SUBSYSTEM": "block"},
	}
	if matcher.Evaluate(blockEvent) {
		t.Error("expected matcher to reject non-sound subsystem")
	}
}

func TestHandleEvent(t *testing.T) {
	t.Run("emits audio device change with card and action", func(t *testing.T) {
		emitter := &recordingEmitter{}
		m := NewMonitor(enabledConfig(), logging.NewNop(), emitter)

		m.handleEvent(netlink.UEvent{
			Action: netlink.ADD,
			Env:    map[string]string{"DEVNAME": "card1"},
		})

		if len(emitter.events) != 1 {
			t.Fatalf("expected one event, got %d", len(emitter.events))
		}
		event := emitter.events[0]
		if event.Name != bridge.EventAudioDeviceChange {
			t.Errorf("expected %s, got %s", bridge.EventAudioDeviceChange, event.Name)
		}
		payload, ok := event.Payload.(map[string]any)
		if !ok {
			t.Fatalf("unexpected payload type %T", event.Payload)
		}
		if payload["card"] != "card1" || payload["action"] != "add" {
			t.Errorf("unexpected payload: %#v", payload)
		}
	})

	t.Run("ignores event without card name", func(t *testing.T) {
		emitter := &recordingEmitter{}
		m := NewMonitor(enabledConfig(), logging.NewNop(), emitter)

		m.handleEvent(netlink.UEvent{Action: netlink.ADD, Env: map[string]string{}})

		if len(emitter.events) != 0 {
			t.Errorf("expected no events, got %d", len(emitter.events))
		}
	})

	t.Run("falls back to card element of DEVPATH", func(t *testing.T) {
		emitter := &recordingEmitter{}
		m := NewMonitor(enabledConfig(), logging.NewNop(), emitter)

		m.handleEvent(netlink.UEvent{
			Action: netlink.REMOVE,
			Env: map[string]string{
				"DEVPATH": "/devices/pci0000:00/0000:00:1f.3/sound/card0/controlC0",
			},
		})

		if len(emitter.events) != 1 {
			t.Fatalf("expected one event, got %d", len(emitter.events))
		}
		payload := emitter.events[0].Payload.(map[string]any)
		if payload["card"] != "card0" {
			t.Errorf("expected card0 from DEVPATH, got %v", payload["card"])
		}
	})
}
