package component

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a component within the container. Classification only:
// the lifecycle engine never branches on it.
type Kind int

const (
	// KindComponent is the default classification for plain components
	KindComponent Kind = iota
	// KindApp marks the single application component
	KindApp
	// KindPlugin marks a component registered dynamically at runtime
	KindPlugin
	// KindLibrary marks a component registered once at bootstrap
	KindLibrary
)

// String returns a string representation of the component kind
func (k Kind) String() string {
	switch k {
	case KindApp:
		return "app"
	case KindPlugin:
		return "plugin"
	case KindLibrary:
		return "library"
	case KindComponent:
		return "component"
	default:
		return "unknown"
	}
}

// Hook is an asynchronous lifecycle operation. Hooks receive only a context;
// any configuration or collaborators they need are bound by whoever built
// the component. A hook may signal a silent abort by returning
// errors.ErrInitAborted, which leaves the component uninitialized without
// reporting a failure.
type Hook func(ctx context.Context) error

// Spec describes a component to construct. This config struct replaces
// positional constructor parameters, mirroring how registrations are
// declared elsewhere in the framework.
type Spec struct {
	Name        string       // Component name (required for container registration)
	Version     string       // Component version (defaults to "0.0.0")
	Description string       // Human-readable description
	Wire        bool         // Whether the component participates in auto-wiring
	Requires    []*Component // Components this one depends on
	Initialize  Hook         // Optional initialize hook; nil means no-op success
	Shutdown    Hook         // Optional shutdown hook; nil means no-op success
	Wait        Hook         // Optional wait hook; nil means block until cancelled
}

// Component is the unit of composition: identity metadata, an unordered set
// of required components, optional lifecycle hooks, and a runtime-state
// record created at construction time and never destroyed while the
// component exists.
type Component struct {
	name        string
	version     string
	description string
	wire        bool
	requires    map[*Component]struct{}
	initialize  Hook
	shutdown    Hook
	wait        Hook
	internals   *Internals
}

// New constructs a component from a spec and attaches a fresh runtime-state
// record. An empty version defaults to "0.0.0". Duplicate entries in
// Requires collapse to one.
func New(spec Spec) *Component {
	requires := make(map[*Component]struct{}, len(spec.Requires))
	for _, req := range spec.Requires {
		if req != nil {
			requires[req] = struct{}{}
		}
	}

	version := spec.Version
	if version == "" {
		version = "0.0.0"
	}

	return &Component{
		name:        spec.Name,
		version:     version,
		description: spec.Description,
		wire:        spec.Wire,
		requires:    requires,
		initialize:  spec.Initialize,
		shutdown:    spec.Shutdown,
		wait:        spec.Wait,
		internals:   newInternals(),
	}
}

// Name returns the component name
func (c *Component) Name() string { return c.name }

// Version returns the component version
func (c *Component) Version() string { return c.version }

// Description returns the component description
func (c *Component) Description() string { return c.description }

// Wire reports whether the component participates in auto-wiring
func (c *Component) Wire() bool { return c.wire }

// String returns the component identity in "name vVersion" form
func (c *Component) String() string {
	return fmt.Sprintf("%s v%s", c.name, c.version)
}

// Requires returns a copy of the component's direct requirements
func (c *Component) Requires() []*Component {
	out := make([]*Component, 0, len(c.requires))
	for req := range c.requires {
		out = append(out, req)
	}
	return out
}

// Registration records who registered a component, when, and from where.
type Registration struct {
	ID           string    // Unique registration identifier
	RegisteredBy string    // Function that performed the registration
	RegisteredAt time.Time // Timestamp when registration occurred
	File         string    // Source file where registration occurred
	Line         int       // Line number where registration occurred
}

// String returns a human-readable summary of the registration
func (r *Registration) String() string {
	s := fmt.Sprintf("Registration(by %q, at %s", r.RegisteredBy, r.RegisteredAt.Format(time.RFC3339))
	if r.File != "" {
		s += fmt.Sprintf(", from %s:%d", r.File, r.Line)
	}
	return s + ")"
}

// NewRegistration captures registration provenance from the call stack.
// skip counts frames above the caller of the registering function.
func NewRegistration(skip int) *Registration {
	reg := &Registration{
		ID:           uuid.NewString(),
		RegisteredBy: "unknown",
		RegisteredAt: time.Now(),
	}
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return reg
	}
	reg.File = file
	reg.Line = line
	if fn := runtime.FuncForPC(pc); fn != nil {
		reg.RegisteredBy = fn.Name()
	}
	return reg
}

// Internals is the mutable runtime-state record attached 1:1 to a component.
// It is mutated only by the lifecycle engine and by container
// registration/unregistration; component hooks must never touch it directly.
//
// All transitions go through a per-component mutex, so initialized and
// initializing can never both be true: the only paths between states are
// beginInitialize/finishInitialize and beginShutdown/finishShutdown.
type Internals struct {
	mu            sync.Mutex
	requiredBy    map[*Component]struct{}
	initializedBy map[*Component]struct{}
	initialized   bool
	initializing  bool
	shuttingDown  bool
	kind          Kind
	registration  *Registration
}

func newInternals() *Internals {
	return &Internals{
		requiredBy:    make(map[*Component]struct{}),
		initializedBy: make(map[*Component]struct{}),
		kind:          KindComponent,
	}
}

// IsInitialized reports whether the component completed a successful initialize
func (in *Internals) IsInitialized() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.initialized
}

// IsInitializing reports whether an initialize is in flight
func (in *Internals) IsInitializing() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.initializing
}

// IsShuttingDown reports whether a shutdown is in flight
func (in *Internals) IsShuttingDown() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.shuttingDown
}

// Kind returns the component classification
func (in *Internals) Kind() Kind {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.kind
}

// Registration returns the registration provenance, or nil when the
// component was never registered in a container
func (in *Internals) Registration() *Registration {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.registration
}

// RequiredBy returns a copy of the components currently depending on this one
func (in *Internals) RequiredBy() []*Component {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make([]*Component, 0, len(in.requiredBy))
	for c := range in.requiredBy {
		out = append(out, c)
	}
	return out
}

// InitializedBy returns a copy of the components responsible for having
// triggered this component's initialization
func (in *Internals) InitializedBy() []*Component {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make([]*Component, 0, len(in.initializedBy))
	for c := range in.initializedBy {
		out = append(out, c)
	}
	return out
}

// beginInitialize attempts the UNINITIALIZED → INITIALIZING transition.
// Returns false when the component is already initialized or initializing.
func (in *Internals) beginInitialize() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.initialized || in.initializing {
		return false
	}
	in.initializing = true
	return true
}

// finishInitialize completes an in-flight initialize. On success the
// component becomes INITIALIZED; otherwise it returns to UNINITIALIZED.
func (in *Internals) finishInitialize(success bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.initializing = false
	if success {
		in.initialized = true
	}
}

// beginShutdown attempts the INITIALIZED → SHUTTING_DOWN transition.
// Returns false when the component is not initialized or already shutting down.
func (in *Internals) beginShutdown() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.initialized || in.shuttingDown {
		return false
	}
	in.shuttingDown = true
	return true
}

// finishShutdown completes an in-flight shutdown. On success the component
// returns to UNINITIALIZED and its initializedBy record is cleared; on
// failure it remains INITIALIZED since teardown did not complete.
func (in *Internals) finishShutdown(success bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.shuttingDown = false
	if success {
		in.initialized = false
		in.initializedBy = make(map[*Component]struct{})
	}
}

// hasDependentOutside reports whether any component outside the given batch
// currently depends on this one
func (in *Internals) hasDependentOutside(batch map[*Component]struct{}) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	for dep := range in.requiredBy {
		if _, ok := batch[dep]; !ok {
			return true
		}
	}
	return false
}

// addRequiredBy records that dependent now depends on this component.
// Both graph directions are mutated together by the container; this side
// is idempotent so the two can never drift on re-registration.
func (in *Internals) addRequiredBy(dependent *Component) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.requiredBy[dependent] = struct{}{}
}

// removeRequiredBy removes a dependent back-reference
func (in *Internals) removeRequiredBy(dependent *Component) {
	in.mu.Lock()
	defer in.mu.Unlock()
	delete(in.requiredBy, dependent)
}

// MarkInitializedBy records the component responsible for triggering this
// component's initialization. Populated by the container during bootstrap;
// cleared automatically on successful shutdown.
func (in *Internals) MarkInitializedBy(trigger *Component) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.initializedBy[trigger] = struct{}{}
}

// SetKind classifies the component. Called by the container on registration.
func (in *Internals) SetKind(k Kind) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.kind = k
}

// SetRegistration attaches registration provenance. Called by the container;
// a nil registration marks the component as no longer registered.
func (in *Internals) SetRegistration(reg *Registration) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.registration = reg
}
