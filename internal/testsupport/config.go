package testsupport

import (
	"path/filepath"
	"testing"

	"mxvoice/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Background services default off so tests opt in explicitly.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.MusicDir = filepath.Join(base, "music")
	cfg.Devices.MonitorEnabled = false
	cfg.Updates.Enabled = false

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithNtfyTopic points notifications at the given endpoint.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
	}
}

// WithUpdateFeed enables update checks against the given feed URL.
func WithUpdateFeed(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Updates.Enabled = true
		cfg.Updates.FeedURL = url
	}
}

// WithTrustedDispatch marks the bridge as running under a trusted dispatcher.
func WithTrustedDispatch() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Bridge.TrustedDispatch = true
	}
}
