// Package container provides the process-wide registry of AppCore
// components: the single app, the set of libraries registered at bootstrap,
// and the dynamic set of plugins registered and unregistered at runtime.
//
// Registration is explicit, never an import side effect: the embedding
// application creates a Container, sets the app, and registers libraries and
// plugins itself. Registering a component wires the dependency graph's
// requiredBy back-references; unregistering removes them again, and is
// refused while dependents remain.
//
// The container delegates all lifecycle transitions to the component
// package's engine. Bootstrap sequences initialization dependency-first in
// waves, ShutdownAll tears everything down in reverse, and Run combines
// both around waiting on the app component.
package container
