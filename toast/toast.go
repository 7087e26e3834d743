// Package toast is a small in-process event emitter for user-facing
// notifications. The emitter is an explicit object owned by the app — created
// on start, closed on shutdown — rather than process-wide mutable state.
package toast

import (
	"fmt"
	"sync"
)

// Type classifies a notification.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
)

// Toast is a single notification event.
type Toast struct {
	ID      string
	Message string
	Type    Type
}

// Emitter fans notifications out to subscribers. Safe for concurrent use.
type Emitter struct {
	mu           sync.Mutex
	nextListener int
	nextToast    int
	listeners    map[int]func(Toast)
	closed       bool
}

// NewEmitter returns an empty Emitter.
func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[int]func(Toast))}
}

// Subscribe registers a listener and returns its unsubscribe function.
// Unsubscribing twice is harmless.
func (e *Emitter) Subscribe(fn func(Toast)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return func() {}
	}
	id := e.nextListener
	e.nextListener++
	e.listeners[id] = fn
	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

// Publish delivers a notification to every current subscriber and returns the
// toast id. Publishing on a closed emitter is a no-op.
func (e *Emitter) Publish(message string, typ Type) string {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ""
	}
	id := fmt.Sprintf("toast-%d", e.nextToast)
	e.nextToast++
	fns := make([]func(Toast), 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	t := Toast{ID: id, Message: message, Type: typ}
	// Listeners run outside the lock so they may subscribe or unsubscribe.
	for _, fn := range fns {
		fn(t)
	}
	return id
}

// Success publishes a success notification.
func (e *Emitter) Success(message string) string { return e.Publish(message, TypeSuccess) }

// Error publishes an error notification.
func (e *Emitter) Error(message string) string { return e.Publish(message, TypeError) }

// Info publishes an info notification.
func (e *Emitter) Info(message string) string { return e.Publish(message, TypeInfo) }

// Close drops all listeners and makes further publishes no-ops.
func (e *Emitter) Close() {
	e.mu.Lock()
	e.listeners = nil
	e.closed = true
	e.mu.Unlock()
}
