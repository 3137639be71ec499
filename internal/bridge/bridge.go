package bridge

import (
	"context"
	"log/slog"
	"time"

	"mxvoice/internal/logging"
)

// Notifier receives the locally synthesized notifications for update events.
type Notifier interface {
	NotifyUpdateProgress(ctx context.Context, percent float64, message string) error
	NotifyUpdateReady(ctx context.Context, version string) error
}

// Options configures bridge dispatch behavior.
type Options struct {
	// RetryDelay is the wait before the single re-dispatch attempt when an
	// entry point is not yet registered. Zero selects the 1s default.
	RetryDelay time.Duration
	// TrustedDispatch marks installs where a trusted dispatcher has already
	// delivered the event; a missing entry point is then a deliberate no-op.
	TrustedDispatch bool
}

const defaultRetryDelay = time.Second

// Bridge subscribes to the fixed event table on a channel and dispatches
// each incoming event to the matching registered entry point.
type Bridge struct {
	registry *Registry
	notifier Notifier
	logger   *slog.Logger

	retryDelay time.Duration
	trusted    bool
}

// New builds a bridge over the given registry and notifier. A nil notifier
// drops synthesized update notifications.
func New(registry *Registry, notifier Notifier, logger *slog.Logger, opts Options) *Bridge {
	if registry == nil {
		registry = NewRegistry()
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	return &Bridge{
		registry:   registry,
		notifier:   notifier,
		logger:     logging.NewComponentLogger(logger, "bridge"),
		retryDelay: retryDelay,
		trusted:    opts.TrustedDispatch,
	}
}

// Registry returns the entry point registry consumers register against.
func (b *Bridge) Registry() *Registry {
	return b.registry
}

// Attach subscribes a handler for every event in the fixed table. There is
// no partial registration.
func (b *Bridge) Attach(ch Channel) {
	for _, name := range Events() {
		switch name {
		case EventUpdateDownloadProgress, EventUpdateReady:
			ch.Subscribe(name, b.synthesizeNotification)
		default:
			ch.Subscribe(name, b.dispatch)
		}
	}
}

// Detach removes the handler for every event in the fixed table.
func (b *Bridge) Detach(ch Channel) {
	for _, name := range Events() {
		ch.Unsubscribe(name)
	}
}

// dispatch invokes the entry point for an event, scheduling exactly one
// retry when the entry point has not been registered yet.
func (b *Bridge) dispatch(event Event) {
	b.deliver(event, true)
}

func (b *Bridge) deliver(event Event, allowRetry bool) {
	fn, ok := b.registry.Lookup(event.Name)
	if !ok {
		if b.trusted {
			// A trusted dispatcher already handled this event.
			b.logger.Debug("entry point absent under trusted dispatch",
				logging.String(logging.FieldEvent, event.Name))
			return
		}
		if allowRetry {
			// One-shot deferred retry; not cancellable.
			time.AfterFunc(b.retryDelay, func() {
				b.deliver(event, false)
			})
			return
		}
		b.logger.Error("entry point still absent after retry",
			logging.String(logging.FieldEvent, event.Name),
			logging.String("event_id", event.ID),
			logging.String(logging.FieldEventType, "bridge_entry_point_missing"),
			logging.String(logging.FieldErrorHint, "register the entry point before emitting the event"))
		return
	}
	b.invoke(event, fn)
}

// invoke runs an entry point, containing panics so one bad payload never
// unregisters the channel subscription.
func (b *Bridge) invoke(event Event, fn EntryPoint) {
	defer func() {
		if recovered := recover(); recovered != nil {
			b.logger.Error("entry point panicked",
				logging.String(logging.FieldEvent, event.Name),
				logging.String("event_id", event.ID),
				logging.Any("panic", recovered),
				logging.String(logging.FieldEventType, "bridge_dispatch_panic"))
		}
	}()
	fn(event.Payload)
}

// synthesizeNotification turns transport-level update events into local
// notifications instead of calling an entry point.
func (b *Bridge) synthesizeNotification(event Event) {
	if b.notifier == nil {
		return
	}

	ctx := context.Background()
	var err error
	switch event.Name {
	case EventUpdateDownloadProgress:
		percent, message := updateProgressFields(event.Payload)
		err = b.notifier.NotifyUpdateProgress(ctx, percent, message)
	case EventUpdateReady:
		err = b.notifier.NotifyUpdateReady(ctx, updateVersionField(event.Payload))
	}
	if err != nil {
		b.logger.Error("update notification failed",
			logging.Error(err),
			logging.String(logging.FieldEvent, event.Name),
			logging.String(logging.FieldEventType, "bridge_notify_failed"),
			logging.String(logging.FieldErrorHint, "check notification configuration"))
	}
}

func updateProgressFields(payload any) (float64, string) {
	fields, ok := payload.(map[string]any)
	if !ok {
		return 0, ""
	}
	var percent float64
	switch v := fields["percent"].(type) {
	case float64:
		percent = v
	case int:
		percent = float64(v)
	}
	message, _ := fields["message"].(string)
	return percent, message
}

func updateVersionField(payload any) string {
	switch v := payload.(type) {
	case string:
		return v
	case map[string]any:
		version, _ := v["version"].(string)
		return version
	default:
		return ""
	}
}
