package bridge

import "sync"

// EntryPoint is a UI-side function invoked with an incoming event payload.
type EntryPoint func(payload any)

// Registry maps event names to entry points. At most one entry point per
// event name is active at a time: re-registration replaces, never stacks.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]EntryPoint
}

// NewRegistry creates an empty entry point registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]EntryPoint)}
}

// Register installs fn as the entry point for event name, replacing any
// previous registration. A nil fn removes the registration.
func (r *Registry) Register(name string, fn EntryPoint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fn == nil {
		delete(r.entries, name)
		return
	}
	r.entries[name] = fn
}

// Unregister removes the entry point for event name, if any.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Lookup returns the entry point registered for event name.
func (r *Registry) Lookup(name string) (EntryPoint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.entries[name]
	return fn, ok
}

// Clear removes every registration as a group.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]EntryPoint)
}
