package tools

import (
	"context"
	"fmt"
	"sync"
)

// Handler is the function signature for a registered tool. args is an
// opaque string the registry never parses; the handler must observe ctx
// and release any external resources it holds on cancellation.
type Handler func(ctx context.Context, args string) (Result, error)

// Result is a tool invocation's outcome.
type Result struct {
	Ok       bool
	Content  string
	Error    string
	Metadata map[string]any
}

// Registry is a concurrent map of tool name to Handler. Names are
// case-sensitive opaque strings; the registry imposes no schema on them.
// The zero value is usable.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Handler
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Handler)}
}

// Register inserts or replaces the handler for name. A dispatch racing a
// registration observes either the pre- or post-state for that name, never
// an inconsistent handler.
func (r *Registry) Register(name string, handler Handler) error {
	if name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[string]Handler)
	}
	r.entries[name] = handler
	return nil
}

// Unregister removes name's handler, reporting whether it was present.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; !exists {
		return false
	}
	delete(r.entries, name)
	return true
}

// Get retrieves name's handler.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, exists := r.entries[name]
	return h, exists
}

// Names returns every currently registered tool name, in no particular
// order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	return names
}

// Execute dispatches args to name's handler. Returns ErrNotFound if name is
// not registered.
func (r *Registry) Execute(ctx context.Context, name string, args string) (Result, error) {
	r.mu.RLock()
	handler, exists := r.entries[name]
	r.mu.RUnlock()

	if !exists {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	result, err := handler(ctx, args)
	if err != nil {
		return Result{}, fmt.Errorf("tool %s execution failed: %w", name, err)
	}
	return result, nil
}
