package bridge

import "sync"

// Channel is the cross-process message boundary the bridge attaches to. One
// subscriber per event name; re-subscription replaces.
type Channel interface {
	Subscribe(name string, fn func(Event))
	Unsubscribe(name string)
}

// LocalChannel is the in-process Channel implementation fed by the IPC
// server. Delivery is at-least-once per Emit call; there is no
// acknowledgment protocol.
type LocalChannel struct {
	mu       sync.RWMutex
	handlers map[string]func(Event)
}

// NewLocalChannel creates an empty channel.
func NewLocalChannel() *LocalChannel {
	return &LocalChannel{handlers: make(map[string]func(Event))}
}

// Subscribe installs fn as the handler for event name.
func (c *LocalChannel) Subscribe(name string, fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fn == nil {
		delete(c.handlers, name)
		return
	}
	c.handlers[name] = fn
}

// Unsubscribe removes the handler for event name.
func (c *LocalChannel) Unsubscribe(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handlers, name)
}

// Emit delivers an event to its subscribed handler, if any. Emitting an
// event nobody subscribed to is not an error.
func (c *LocalChannel) Emit(event Event) {
	c.mu.RLock()
	fn := c.handlers[event.Name]
	c.mu.RUnlock()
	if fn != nil {
		fn(event)
	}
}

// Subscribed reports whether a handler is attached for event name.
func (c *LocalChannel) Subscribed(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.handlers[name]
	return ok
}
