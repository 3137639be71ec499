package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mxvoice/internal/config"
)

const userAgent = "MxVoice-Go/0.1.0"

// Service defines the notification surface exposed to the daemon and bridge.
type Service interface {
	NotifyUpdateProgress(ctx context.Context, percent float64, message string) error
	NotifyUpdateReady(ctx context.Context, version string) error
	NotifyProfileSwitched(ctx context.Context, profile string) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyUpdateProgress(ctx context.Context, percent float64, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		message = "Downloading update"
	}
	data := payload{
		title:   "Mx. Voice - Update Downloading",
		message: fmt.Sprintf("%s (%.0f%%)", message, percent),
		tags:    []string{"mxvoice", "update", "progress"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyUpdateReady(ctx context.Context, version string) error {
	version = strings.TrimSpace(version)
	message := "An update is downloaded and ready to install"
	if version != "" {
		message = fmt.Sprintf("Version %s is downloaded and ready to install", version)
	}
	data := payload{
		title:    "Mx. Voice - Update Ready",
		message:  message,
		tags:     []string{"mxvoice", "update", "ready"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyProfileSwitched(ctx context.Context, profile string) error {
	profile = strings.TrimSpace(profile)
	data := payload{
		title:   "Mx. Voice - Profile Switched",
		message: fmt.Sprintf("Active profile is now %s", profile),
		tags:    []string{"mxvoice", "profile"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Mx. Voice - Error",
		message:  builder.String(),
		tags:     []string{"mxvoice", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Mx. Voice - Test",
		message:  "Notification system test",
		tags:     []string{"mxvoice", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyUpdateProgress(context.Context, float64, string) error { return nil }
func (noopService) NotifyUpdateReady(context.Context, string) error             { return nil }
func (noopService) NotifyProfileSwitched(context.Context, string) error         { return nil }
func (noopService) NotifyError(context.Context, error, string) error            { return nil }
func (noopService) TestNotification(context.Context) error                      { return nil }
