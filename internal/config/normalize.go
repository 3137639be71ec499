package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeBridge()
	c.normalizeUpdates()
	c.normalizeNotifications()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.MusicDir, err = expandPath(c.Paths.MusicDir); err != nil {
		return fmt.Errorf("paths.music_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeBridge() {
	if c.Bridge.DispatchRetryMillis <= 0 {
		c.Bridge.DispatchRetryMillis = defaultDispatchRetryMillis
	}
}

func (c *Config) normalizeUpdates() {
	c.Updates.Channel = strings.ToLower(strings.TrimSpace(c.Updates.Channel))
	if c.Updates.Channel == "" {
		c.Updates.Channel = defaultUpdateChannel
	}
	c.Updates.FeedURL = strings.TrimSpace(c.Updates.FeedURL)
	if c.Updates.FeedURL == "" {
		c.Updates.FeedURL = defaultUpdateFeedURL
	}
	if c.Updates.CheckInterval <= 0 {
		c.Updates.CheckInterval = defaultUpdateInterval
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}
