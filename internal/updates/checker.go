package updates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/mod/semver"

	"mxvoice/internal/bridge"
	"mxvoice/internal/config"
	"mxvoice/internal/logging"
)

// Release is one entry from the release feed, trimmed to the fields the
// checker needs. The feed is the GitHub releases JSON shape.
type Release struct {
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	Prerelease bool   `json:"prerelease"`
	Draft      bool   `json:"draft"`
	HTMLURL    string `json:"html_url"`
	Body       string `json:"body"`
}

// Version returns the release version without a leading "v".
func (r Release) Version() string {
	return strings.TrimPrefix(strings.TrimSpace(r.TagName), "v")
}

// Emitter receives update events destined for the bridge channel.
type Emitter interface {
	Emit(event bridge.Event)
}

// Checker polls the release feed on an interval and emits an update-ready
// event when the feed carries a version newer than the running one.
type Checker struct {
	logger         *slog.Logger
	emitter        Emitter
	client         *http.Client
	feedURL        string
	channel        string
	currentVersion string
	interval       time.Duration

	mu      sync.Mutex
	quit    chan struct{}
	running bool
}

// NewChecker builds an update checker. Returns nil when update checks are
// disabled in config.
func NewChecker(cfg *config.Config, logger *slog.Logger, emitter Emitter, currentVersion string) *Checker {
	if cfg == nil || !cfg.Updates.Enabled {
		return nil
	}

	interval := time.Duration(cfg.Updates.CheckInterval) * time.Second
	if interval <= 0 {
		interval = time.Hour
	}

	return &Checker{
		logger:         logging.NewComponentLogger(logger, "update-checker"),
		emitter:        emitter,
		client:         &http.Client{Timeout: 30 * time.Second},
		feedURL:        cfg.Updates.FeedURL,
		channel:        cfg.Updates.Channel,
		currentVersion: strings.TrimPrefix(currentVersion, "v"),
		interval:       interval,
	}
}

// Start begins periodic checks. The first check runs immediately.
func (c *Checker) Start(ctx context.Context) {
	if c == nil {
		return
	}

	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.quit = make(chan struct{})
	c.running = true
	quit := c.quit
	c.mu.Unlock()

	go c.loop(ctx, quit)
}

// Stop ends periodic checks.
func (c *Checker) Stop() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	close(c.quit)
	c.quit = nil
	c.running = false
}

// Running reports whether periodic checks are active.
func (c *Checker) Running() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Checker) loop(ctx context.Context, quit <-chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.checkAndAnnounce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-quit:
			return
		case <-ticker.C:
			c.checkAndAnnounce(ctx)
		}
	}
}

func (c *Checker) checkAndAnnounce(ctx context.Context) {
	release, err := c.Check(ctx)
	if err != nil {
		c.logger.Warn("update check failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "update_check_failed"),
			logging.String(logging.FieldErrorHint, "check network connectivity and feed URL"),
			logging.String(logging.FieldImpact, "update availability unknown"),
		)
		return
	}
	if release == nil {
		return
	}

	c.logger.Info("newer version available",
		logging.String("version", release.Version()),
		logging.String("current_version", c.currentVersion),
		logging.String(logging.FieldEventType, "update_available"),
	)

	if c.emitter != nil {
		c.emitter.Emit(bridge.NewEvent(bridge.EventUpdateReady, map[string]any{
			"version": release.Version(),
			"url":     release.HTMLURL,
		}))
	}
}

// Check fetches the feed once and returns the newest eligible release, or
// nil when the running version is already current.
func (c *Checker) Check(ctx context.Context) (*Release, error) {
	if c == nil {
		return nil, nil
	}

	releases, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	latest := c.selectRelease(releases)
	if latest == nil {
		return nil, nil
	}
	if CompareVersions(latest.Version(), c.currentVersion) <= 0 {
		return nil, nil
	}
	return latest, nil
}

func (c *Checker) fetch(ctx context.Context) ([]Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch release feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("release feed returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var releases []Release
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return nil, fmt.Errorf("decode release feed: %w", err)
	}
	return releases, nil
}

// selectRelease picks the first eligible release in feed order. The feed is
// newest-first; drafts never qualify and prereleases only qualify on the
// prerelease channel.
func (c *Checker) selectRelease(releases []Release) *Release {
	for i := range releases {
		release := &releases[i]
		if release.Draft {
			continue
		}
		if release.Prerelease && c.channel != config.ChannelPrerelease {
			continue
		}
		if release.Version() == "" {
			continue
		}
		return release
	}
	return nil
}

// CompareVersions orders two release versions, returning -1, 0, or 1.
// Prerelease suffixes sort before their release ("4.1.0-rc.1" < "4.1.0") and
// a missing patch segment compares as zero ("4.1" equals "4.1.0"). A leading
// "v" is optional.
func CompareVersions(a, b string) int {
	return semver.Compare(canonicalVersion(a), canonicalVersion(b))
}

func canonicalVersion(version string) string {
	version = strings.TrimSpace(version)
	if version == "" || strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}
