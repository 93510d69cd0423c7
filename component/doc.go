// Package component provides the core component model and the lifecycle
// engine for AppCore.
//
// # Component model
//
// A Component is a tagged struct built from a Spec: identity metadata (name,
// version, description), a set of required components, and optional
// asynchronous Initialize/Shutdown/Wait hooks. Absent hooks are treated as
// trivially successful. AsComponent canonicalizes arbitrary objects into
// components, discovering hooks through the Initializer, Shutdowner, and
// Waiter interfaces at construction time rather than at call sites.
//
// Every component owns an Internals record created at construction and never
// destroyed while the component exists. It tracks the lifecycle flags, the
// required_by back-reference set populated by container registration, and
// the initialized_by set supporting idempotent re-entrant initialization.
//
// # Lifecycle engine
//
// The engine drives components through a strict state machine:
//
//	UNINITIALIZED → INITIALIZING → INITIALIZED → SHUTTING_DOWN → UNINITIALIZED
//
// Initialize and Shutdown process their components concurrently, one
// goroutine per component, with no ordering guarantee among the supplied
// components. Each component is independently eligible based on its own
// state snapshot. The engine enforces preconditions only: a component whose
// requirement is not initialized is skipped, never auto-initialized, and a
// component still depended upon is refused shutdown. Cross-call ordering is
// the caller's responsibility (the container's Bootstrap sequences batches
// dependency-first).
//
// Transitions are guarded by a per-component mutex, so concurrent lifecycle
// calls against the same component are safe under parallel goroutines and
// the INITIALIZED/INITIALIZING flags are never both set.
//
// Failures never suppress silently: Initialize and Shutdown aggregate every
// hook failure into one composite error, while the *Each variants capture
// each failure at its component's position. Partial failure never rolls
// back other components' successful transitions.
package component
