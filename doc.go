// Package appcore is an inversion-of-control framework for composing modular
// applications out of dynamically supplied components: one app, a set of
// libraries registered at bootstrap, and plugins registered and unregistered
// at runtime.
//
// # Architecture
//
// AppCore separates the component model from the machinery that drives it:
//
//	┌─────────────────────────────────────┐
//	│          Container                  │  App / library / plugin sets
//	│  (register, unregister, bootstrap)  │  Dependency back-references
//	└─────────────────────────────────────┘
//	           ↓ delegates to
//	┌─────────────────────────────────────┐
//	│        Lifecycle Engine             │  Concurrent initialize/shutdown
//	│  (initialize, shutdown, wait)       │  Dependency-ready preconditions
//	└─────────────────────────────────────┘
//	           ↓ operates on
//	┌─────────────────────────────────────┐
//	│         Components                  │  Identity metadata, hooks,
//	│  (app, plugins, libraries)          │  guarded runtime state
//	└─────────────────────────────────────┘
//
// A component is a tagged struct carrying identity metadata (name, version,
// description), a set of required components, and optional asynchronous
// Initialize/Shutdown/Wait hooks. Each component owns a runtime-state record
// tracking who depends on it and where it sits in the lifecycle state
// machine:
//
//	UNINITIALIZED → INITIALIZING → INITIALIZED → SHUTTING_DOWN → UNINITIALIZED
//
// No other transitions are legal. Transitions are guarded by a per-component
// mutex, so the engine is safe under parallel goroutines.
//
// # Packages
//
//   - component: the component model, canonicalization, requirement-graph
//     queries, and the lifecycle engine.
//   - container: the process-wide registry of the app, libraries, and
//     plugins, including dependency back-reference maintenance and
//     dependency-ordered bootstrap.
//   - config: explicit configuration-section registry, YAML/env loading, and
//     file watching.
//   - errors: classified error handling shared by all packages.
//   - metric: Prometheus metrics for lifecycle observability.
//
// # What AppCore does not do
//
// AppCore never loads modules from disk, never parses hook parameters, and
// never owns I/O: loaders supply ready components, dependency injection is
// the caller's concern, and hooks receive only a context. The engine manages
// at most a few dozen long-lived components per process; it is not a task
// scheduler.
package appcore
