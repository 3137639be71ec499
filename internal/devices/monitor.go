package devices

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"mxvoice/internal/bridge"
	"mxvoice/internal/config"
	"mxvoice/internal/logging"
)

// Emitter receives the synthesized audio device change events. The daemon
// passes its bridge channel here.
type Emitter interface {
	Emit(event bridge.Event)
}

// Monitor listens for udev netlink events on the sound subsystem and emits
// an audio device change event whenever a card appears or disappears. This
// lets entry points re-enumerate outputs without polling.
type Monitor struct {
	logger  *slog.Logger
	emitter Emitter

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// NewMonitor creates a sound hotplug monitor. Returns nil when monitoring is
// disabled in config, which callers treat as "no monitor".
func NewMonitor(cfg *config.Config, logger *slog.Logger, emitter Emitter) *Monitor {
	if cfg == nil || !cfg.Devices.MonitorEnabled {
		return nil
	}

	return &Monitor{
		logger:  logging.NewComponentLogger(logger, "device-monitor"),
		emitter: emitter,
	}
}

// Start begins listening for udev netlink events.
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("failed to connect to netlink socket; audio device changes will not be detected",
			logging.Error(err),
			logging.String(logging.FieldEventType, "netlink_connect_failed"),
			logging.String(logging.FieldErrorHint, "ensure the daemon has permission to access netlink sockets"),
			logging.String(logging.FieldImpact, "entry points will not be told about device hotplug"),
		)
		return nil // Non-fatal - everything else still works
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	// Pass quit channel to goroutine to avoid reading m.quit without lock
	quit := m.quit
	go m.monitorLoop(ctx, quit)

	m.logger.Info("audio device monitor started",
		logging.String(logging.FieldEventType, "device_monitor_started"),
	)

	return nil
}

// Stop shuts down the monitor.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}

	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}

	m.running = false

	m.logger.Info("audio device monitor stopped",
		logging.String(logging.FieldEventType, "device_monitor_stopped"),
	)
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)

	matcher := m.buildMatcher()

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()

	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(queue, errs, matcher)

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(uevent)
		case err := <-errs:
			m.logger.Warn("netlink monitor error",
				logging.Error(err),
				logging.String(logging.FieldEventType, "device_monitor_error"),
				logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"),
				logging.String(logging.FieldImpact, "device hotplug detection may be affected"),
			)
		}
	}
}

// buildMatcher matches sound card add and remove events:
// SUBSYSTEM=sound, ACTION=add|remove.
func (m *Monitor) buildMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "sound",
		},
	})
	return rules
}

// handleEvent turns a matched uevent into an audio device change event.
func (m *Monitor) handleEvent(uevent netlink.UEvent) {
	card := extractCardName(uevent)
	if card == "" {
		m.logger.Debug("ignoring sound event without card name",
			logging.String("action", string(uevent.Action)),
			logging.String("kobj", uevent.KObj),
		)
		return
	}

	m.logger.Info("audio device change detected",
		logging.String(logging.FieldEventType, "audio_device_change"),
		logging.String("card", card),
		logging.String("action", string(uevent.Action)),
	)

	if m.emitter == nil {
		return
	}

	m.emitter.Emit(bridge.NewEvent(bridge.EventAudioDeviceChange, map[string]any{
		"card":   card,
		"action": string(uevent.Action),
	}))
}

// extractCardName gets the sound card identifier from a uevent. Card nodes
// look like "card0"; control and pcm nodes are reported against their card.
func extractCardName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		return devname
	}

	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}

	parts := strings.Split(devpath, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if strings.HasPrefix(parts[i], "card") {
			return parts[i]
		}
	}
	return parts[len(parts)-1]
}
