package component

import (
	"context"
	"fmt"
	"reflect"

	"github.com/c360/appcore/errors"
)

// Initializer is implemented by objects that carry their own initialize hook.
type Initializer interface {
	Initialize(ctx context.Context) error
}

// Shutdowner is implemented by objects that carry their own shutdown hook.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// Waiter is implemented by objects that signal when their work is done.
type Waiter interface {
	Wait(ctx context.Context) error
}

// Describer supplies a description for canonicalized objects.
type Describer interface {
	Describe() string
}

// Definable is implemented by objects that declare their own component spec.
// AsComponent prefers this over reflected defaults.
type Definable interface {
	Definition() Spec
}

// AsComponent canonicalizes an arbitrary object into a Component.
//
// A *Component passes through unchanged, so re-canonicalizing is a no-op.
// Objects implementing Definable supply their own spec. Anything else gets
// identity defaults: name from the object's qualified type, version "0.0.0",
// wire false, description from Describe() when implemented. Lifecycle hooks
// are discovered through the Initializer, Shutdowner, and Waiter interfaces
// at construction time, never at call sites.
func AsComponent(obj any) *Component {
	if c, ok := obj.(*Component); ok {
		return c
	}

	var spec Spec
	if def, ok := obj.(Definable); ok {
		spec = def.Definition()
	}

	if spec.Name == "" {
		spec.Name = typeName(obj)
	}
	if spec.Description == "" {
		if d, ok := obj.(Describer); ok {
			spec.Description = d.Describe()
		}
	}
	if spec.Initialize == nil {
		if init, ok := obj.(Initializer); ok {
			spec.Initialize = init.Initialize
		}
	}
	if spec.Shutdown == nil {
		if shut, ok := obj.(Shutdowner); ok {
			spec.Shutdown = shut.Shutdown
		}
	}
	if spec.Wait == nil {
		if w, ok := obj.(Waiter); ok {
			spec.Wait = w.Wait
		}
	}

	return New(spec)
}

// typeName derives a qualified default name from an object's type
func typeName(obj any) string {
	t := reflect.TypeOf(obj)
	if t == nil {
		return "component"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.Name()
}

// Requires returns the deduplicated union of the given components' direct
// requirements.
func Requires(components ...*Component) []*Component {
	seen := make(map[*Component]struct{})
	var out []*Component
	for _, c := range components {
		for req := range c.requires {
			if _, ok := seen[req]; ok {
				continue
			}
			seen[req] = struct{}{}
			out = append(out, req)
		}
	}
	return out
}

// RequiresRecursive expands the requirement graph transitively, accumulating
// without duplicates. A cycle in the requirement graph fails with
// ErrCyclicDependency naming the component that closes the cycle.
func RequiresRecursive(components ...*Component) ([]*Component, error) {
	seen := make(map[*Component]struct{})
	inPath := make(map[*Component]struct{})
	var out []*Component

	var walk func(c *Component) error
	walk = func(c *Component) error {
		inPath[c] = struct{}{}
		for req := range c.requires {
			if _, ok := inPath[req]; ok {
				return errors.WrapFatal(
					fmt.Errorf("%w: %s", errors.ErrCyclicDependency, req),
					"component", "RequiresRecursive", "requirement graph walk")
			}
			if _, ok := seen[req]; ok {
				continue
			}
			seen[req] = struct{}{}
			out = append(out, req)
			if err := walk(req); err != nil {
				return err
			}
		}
		delete(inPath, c)
		return nil
	}

	for _, c := range components {
		if err := walk(c); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// InternalsOf returns a component's runtime-state record. A component
// without runtime state signals a construction bug, not a recoverable
// condition, and fails with ErrMissingState.
func InternalsOf(c *Component) (*Internals, error) {
	if c == nil || c.internals == nil {
		return nil, errors.WrapFatal(errors.ErrMissingState, "component", "InternalsOf", "runtime state lookup")
	}
	return c.internals, nil
}

// Initialized reports whether a component completed a successful initialize.
// A component without runtime state is never initialized.
func Initialized(c *Component) bool {
	if c == nil || c.internals == nil {
		return false
	}
	return c.internals.IsInitialized()
}
