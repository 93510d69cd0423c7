package component

import (
	"context"
	"log/slog"
	"sync"
)

// Event identifies a point in the component lifecycle where registered
// handlers fire.
type Event int

const (
	// BeforeInitialize fires after the INITIALIZING transition, before the hook
	BeforeInitialize Event = iota
	// AfterInitialize fires after a successful initialize
	AfterInitialize
	// BeforeShutdown fires after the SHUTTING_DOWN transition, before the hook
	BeforeShutdown
	// AfterShutdown fires after a successful shutdown
	AfterShutdown
)

// String returns a string representation of the event
func (e Event) String() string {
	switch e {
	case BeforeInitialize:
		return "before_initialize"
	case AfterInitialize:
		return "after_initialize"
	case BeforeShutdown:
		return "before_shutdown"
	case AfterShutdown:
		return "after_shutdown"
	default:
		return "unknown"
	}
}

// EventHandler is a callback fired by the lifecycle engine. Handlers run
// synchronously on the component's lifecycle goroutine and must not mutate
// the component's runtime state.
type EventHandler func(ctx context.Context, comp *Component)

// CheckFunc filters which components a handler fires for. A nil check
// matches every component.
type CheckFunc func(comp *Component) bool

type registeredHandler struct {
	handler EventHandler
	check   CheckFunc
}

// Global event handler registry. Events are cross-cutting observation
// points, not lifecycle components, so they follow the same global
// registration model as data-type registries.
var eventRegistry = struct {
	mu       sync.RWMutex
	handlers map[Event][]registeredHandler
}{handlers: make(map[Event][]registeredHandler)}

// OnEvent registers a handler for a lifecycle event. The optional check
// receives the component and returns true when the handler should fire;
// pass nil to fire for all components.
func OnEvent(event Event, check CheckFunc, handler EventHandler) {
	if handler == nil {
		return
	}
	eventRegistry.mu.Lock()
	defer eventRegistry.mu.Unlock()
	eventRegistry.handlers[event] = append(
		eventRegistry.handlers[event],
		registeredHandler{handler: handler, check: check},
	)
	slog.Debug("Registered lifecycle event handler", "event", event.String(), "filtered", check != nil)
}

// ClearEventHandlers removes all registered lifecycle event handlers.
// Intended for test isolation.
func ClearEventHandlers() {
	eventRegistry.mu.Lock()
	defer eventRegistry.mu.Unlock()
	eventRegistry.handlers = make(map[Event][]registeredHandler)
}

// fireEvent invokes every matching handler for the event
func fireEvent(ctx context.Context, event Event, comp *Component) {
	eventRegistry.mu.RLock()
	handlers := eventRegistry.handlers[event]
	eventRegistry.mu.RUnlock()

	for _, rh := range handlers {
		if rh.check != nil && !rh.check(comp) {
			continue
		}
		rh.handler(ctx, comp)
	}
}
