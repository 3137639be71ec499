package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"mxvoice/internal/bridge"
	"mxvoice/internal/config"
	"mxvoice/internal/devices"
	"mxvoice/internal/kvstore"
	"mxvoice/internal/library"
	"mxvoice/internal/logging"
	"mxvoice/internal/notifications"
	"mxvoice/internal/profiles"
	"mxvoice/internal/settings"
	"mxvoice/internal/updates"
)

// Daemon owns the shared stores and background services and enforces
// single-instance execution through a lock file.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	kv       *kvstore.Store
	settings *settings.Store
	library  *library.Store
	channel  *bridge.LocalChannel
	bridge   *bridge.Bridge
	notifier notifications.Service
	monitor  *devices.Monitor
	checker  *updates.Checker
	version  string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status is the daemon runtime snapshot returned over IPC.
type Status struct {
	Running       bool
	Version       string
	ActiveProfile string
	Profiles      []string
	LibraryCount  int64
	DatabasePath  string
	LockFilePath  string
	SocketPath    string
	DeviceMonitor bool
	UpdateChecker bool
}

// New constructs a daemon and all of its dependencies from configuration.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, version string) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	kv, err := kvstore.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open settings database: %w", err)
	}

	profileMgr, err := profiles.NewManager(cfg.ProfilesDir(), kv, logger)
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("init profile manager: %w", err)
	}

	settingsStore, err := settings.NewStore(kv, profileMgr, logger)
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("init settings store: %w", err)
	}

	libraryStore, err := library.NewStore(ctx, kv.DB())
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("init library store: %w", err)
	}

	notifier := notifications.NewService(cfg)

	channel := bridge.NewLocalChannel()
	eventBridge := bridge.New(bridge.NewRegistry(), notifier, logger, bridge.Options{
		RetryDelay:      time.Duration(cfg.Bridge.DispatchRetryMillis) * time.Millisecond,
		TrustedDispatch: cfg.Bridge.TrustedDispatch,
	})

	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		kv:       kv,
		settings: settingsStore,
		library:  libraryStore,
		channel:  channel,
		bridge:   eventBridge,
		notifier: notifier,
		monitor:  devices.NewMonitor(cfg, logger, channel),
		checker:  updates.NewChecker(cfg, logger, channel, version),
		version:  version,
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}, nil
}

// Start acquires the instance lock, attaches the bridge, and launches the
// background monitors.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another mxvoice daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.bridge.Attach(d.channel)

	// Monitor start is non-fatal by contract.
	if err := d.monitor.Start(runCtx); err != nil {
		d.logger.Warn("device monitor failed to start",
			logging.Error(err),
			logging.String(logging.FieldEventType, "device_monitor_start_failed"),
			logging.String(logging.FieldImpact, "audio device hotplug events unavailable"),
		)
	}
	d.checker.Start(runCtx)

	d.running.Store(true)
	d.logger.Info("mxvoice daemon started",
		logging.String("lock", d.lockPath),
		logging.String("database", d.kv.Path()),
		logging.String(logging.FieldEventType, "daemon_started"),
	)
	return nil
}

// Stop shuts down the monitors, detaches the bridge, and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.checker.Stop()
	d.monitor.Stop()
	d.bridge.Detach(d.channel)

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("mxvoice daemon stopped",
		logging.String(logging.FieldEventType, "daemon_stopped"),
	)
}

// Close stops the daemon and releases the database handle.
func (d *Daemon) Close() error {
	d.Stop()
	if d.kv != nil {
		return d.kv.Close()
	}
	return nil
}

// Running reports whether Start has succeeded and Stop has not been called.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// Settings exposes the profile-aware settings store.
func (d *Daemon) Settings() *settings.Store {
	return d.settings
}

// Library exposes the song library store.
func (d *Daemon) Library() *library.Store {
	return d.library
}

// Bridge exposes the event bridge so entry points can be registered.
func (d *Daemon) Bridge() *bridge.Bridge {
	return d.bridge
}

// Channel exposes the bridge channel for local event emission.
func (d *Daemon) Channel() *bridge.LocalChannel {
	return d.channel
}

// EmitEvent validates an event name against the fixed table and emits it on
// the bridge channel. Unknown names are rejected before emission.
func (d *Daemon) EmitEvent(name string, payload any) (string, error) {
	name = strings.TrimSpace(name)
	if !bridge.Known(name) {
		return "", fmt.Errorf("unknown event %q", name)
	}
	event := bridge.NewEvent(name, payload)
	d.channel.Emit(event)
	return event.ID, nil
}

// SettingKeys lists every persisted global key plus the classification
// tables, deduplicated and sorted, so callers can discover what exists.
func (d *Daemon) SettingKeys(ctx context.Context) ([]string, error) {
	stored, err := d.kv.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stored keys: %w", err)
	}

	seen := make(map[string]struct{}, len(stored))
	keys := make([]string, 0, len(stored))
	add := func(key string) {
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	for _, key := range stored {
		add(key)
	}
	for _, key := range settings.GlobalKeys() {
		add(key)
	}
	for _, key := range settings.ProfileKeys() {
		add(key)
	}
	sort.Strings(keys)
	return keys, nil
}

// CheckUpdate performs a single on-demand feed check. Returns nil when the
// running version is already current.
func (d *Daemon) CheckUpdate(ctx context.Context) (*updates.Release, error) {
	if d.checker == nil {
		return nil, errors.New("update checks are disabled")
	}
	return d.checker.Check(ctx)
}

// TestNotification sends a test push through the configured notifier.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	if err := d.notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// SwitchProfile routes through the settings store and announces the switch.
func (d *Daemon) SwitchProfile(ctx context.Context, name string) bool {
	if !d.settings.SwitchProfile(ctx, name) {
		return false
	}
	if err := d.notifier.NotifyProfileSwitched(ctx, name); err != nil {
		d.logger.Warn("profile switch notification failed",
			logging.Error(err),
			logging.String(logging.FieldProfile, name),
		)
	}
	return true
}

// Status returns the current daemon snapshot.
func (d *Daemon) Status(ctx context.Context) Status {
	profileNames, err := d.settings.Profiles()
	if err != nil {
		profileNames = nil
	}
	count, err := d.library.Count(ctx)
	if err != nil {
		count = -1
	}
	return Status{
		Running:       d.running.Load(),
		Version:       d.version,
		ActiveProfile: d.settings.ActiveProfile(ctx),
		Profiles:      profileNames,
		LibraryCount:  count,
		DatabasePath:  d.kv.Path(),
		LockFilePath:  d.lockPath,
		SocketPath:    d.cfg.SocketPath(),
		DeviceMonitor: d.monitor.Running(),
		UpdateChecker: d.checker.Running(),
	}
}
