package container

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/c360/appcore/component"
	"github.com/c360/appcore/errors"
	"github.com/c360/appcore/metric"
)

// MaxNameLength bounds component, library, and plugin identifiers
const MaxNameLength = 256

// Options configures a Container. Logger defaults to slog.Default();
// Metrics may be nil to run without instrumentation.
type Options struct {
	Logger  *slog.Logger
	Metrics *metric.Registry
}

// Container is the process-wide store holding the single app component, the
// set of libraries keyed by library key, and the dynamic set of plugins
// keyed by name. Created once at process start, mutated by registration
// calls, torn down at process exit with no persistence.
//
// Registration wires the dependency graph: every component a registrant
// requires gains a requiredBy back-reference, and unregistration removes it
// again. The container never initializes anything implicitly; lifecycle
// transitions happen through Bootstrap/Shutdown or explicit engine calls.
type Container struct {
	mu         sync.RWMutex
	app        *component.Component
	libs       map[string]*component.Component
	plugins    map[string]*component.Component
	components map[string]*component.Component

	logger  *slog.Logger
	metrics *metric.Registry
}

// New creates an empty container
func New(opts Options) *Container {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Container{
		libs:       make(map[string]*component.Component),
		plugins:    make(map[string]*component.Component),
		components: make(map[string]*component.Component),
		logger:     logger,
		metrics:    opts.Metrics,
	}
}

// validateName checks component/library/plugin identifiers
func validateName(name string) error {
	if name == "" {
		return errors.WrapInvalid(errors.ErrInvalidComponent, "Container", "validateName", "empty name")
	}
	if len(name) > MaxNameLength {
		return errors.WrapInvalid(errors.ErrInvalidComponent, "Container", "validateName", "name too long")
	}
	if strings.ContainsAny(name, "\x00\n\r\t") {
		return errors.WrapInvalid(errors.ErrInvalidComponent, "Container", "validateName", "invalid name characters")
	}
	return nil
}

// register wires a component into the container under the given index key
func (c *Container) register(key string, comp *component.Component, kind Kind, reg *component.Registration) error {
	internals, err := component.InternalsOf(comp)
	if err != nil {
		return err
	}

	if existing, ok := c.components[key]; ok && existing != comp {
		msg := fmt.Errorf("%w: %q", errors.ErrAlreadyRegistered, key)
		return errors.WrapInvalid(msg, "Container", "register", "duplicate key check")
	}

	internals.SetKind(kind.component())
	internals.SetRegistration(reg)
	component.Link(comp)
	c.components[key] = comp

	c.metrics.SetComponentState(comp.Name(), kind.component().String(), componentState(internals))
	return nil
}

// deregister removes a component and its graph back-references
func (c *Container) deregister(key string, comp *component.Component) {
	component.Unlink(comp)
	if internals, err := component.InternalsOf(comp); err == nil {
		internals.SetRegistration(nil)
	}
	delete(c.components, key)
}

// Kind is the container-facing component classification used on registration
type Kind int

const (
	// KindApp registers the single application component
	KindApp Kind = iota
	// KindLibrary registers a bootstrap-time library
	KindLibrary
	// KindPlugin registers a runtime-toggled plugin
	KindPlugin
)

func (k Kind) component() component.Kind {
	switch k {
	case KindApp:
		return component.KindApp
	case KindLibrary:
		return component.KindLibrary
	default:
		return component.KindPlugin
	}
}

// componentState maps runtime-state flags onto the metric gauge values
func componentState(in *component.Internals) float64 {
	switch {
	case in.IsShuttingDown():
		return metric.StateShuttingDown
	case in.IsInitializing():
		return metric.StateInitializing
	case in.IsInitialized():
		return metric.StateInitialized
	default:
		return metric.StateUninitialized
	}
}

// SetApp canonicalizes and registers the single app component. Fails when
// an app is already set.
func (c *Container) SetApp(obj any) (*component.Component, error) {
	comp := component.AsComponent(obj)
	if err := validateName(comp.Name()); err != nil {
		return nil, err
	}

	reg := component.NewRegistration(1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.app != nil {
		msg := fmt.Errorf("%w: app %s", errors.ErrAlreadyRegistered, c.app)
		return nil, errors.WrapInvalid(msg, "Container", "SetApp", "single app check")
	}
	if err := c.register(comp.Name(), comp, KindApp, reg); err != nil {
		return nil, err
	}
	c.app = comp

	c.logger.Debug("Set app component", "app", comp.String())
	return comp, nil
}

// App returns the app component, failing before bootstrap has set one
func (c *Container) App() (*component.Component, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.app == nil {
		return nil, errors.WrapInvalid(errors.ErrAppNotSet, "Container", "App", "app lookup")
	}
	return c.app, nil
}

// RegisterLibrary canonicalizes and registers a library under the given key
func (c *Container) RegisterLibrary(key string, obj any) (*component.Component, error) {
	if err := validateName(key); err != nil {
		return nil, err
	}
	comp := component.AsComponent(obj)
	reg := component.NewRegistration(1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.registerLibrary(key, comp, reg); err != nil {
		return nil, err
	}
	return comp, nil
}

// RegisterLibraries registers a batch of libraries keyed by library key
func (c *Container) RegisterLibraries(libs map[string]any) error {
	reg := component.NewRegistration(1)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("Registering libraries", "count", len(libs))
	for key, obj := range libs {
		if err := validateName(key); err != nil {
			return err
		}
		if err := c.registerLibrary(key, component.AsComponent(obj), reg); err != nil {
			return err
		}
	}
	return nil
}

func (c *Container) registerLibrary(key string, comp *component.Component, reg *component.Registration) error {
	if _, ok := c.libs[key]; ok {
		msg := fmt.Errorf("%w: library %q", errors.ErrAlreadyRegistered, key)
		return errors.WrapInvalid(msg, "Container", "RegisterLibrary", "duplicate library check")
	}
	if err := c.register(key, comp, KindLibrary, reg); err != nil {
		return err
	}
	c.libs[key] = comp
	c.metrics.SetLibrariesActive(len(c.libs))
	c.logger.Debug("Registered library", "key", key, "library", comp.String())
	return nil
}

// Library returns the library registered under key, or nil
func (c *Container) Library(key string) *component.Component {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.libs[key]
}

// Libraries returns a copy of the registered library set
func (c *Container) Libraries() []*component.Component {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*component.Component, 0, len(c.libs))
	for _, lib := range c.libs {
		out = append(out, lib)
	}
	return out
}

// RegisterPlugin canonicalizes the plugin and adds it to the plugin set
// keyed by name. A plugin that is already registered logs a warning and is
// returned unchanged. Registration makes the plugin available as a
// dependency but never triggers initialization; that is a separate explicit
// call.
func (c *Container) RegisterPlugin(ctx context.Context, obj any) (*component.Component, error) {
	comp := component.AsComponent(obj)
	reg := component.NewRegistration(1)
	return c.registerPlugin(ctx, comp, reg)
}

// RegisterPlugins registers a batch of plugins
func (c *Container) RegisterPlugins(ctx context.Context, objs ...any) ([]*component.Component, error) {
	reg := component.NewRegistration(1)
	c.logger.Debug("Registering plugins", "count", len(objs))

	out := make([]*component.Component, 0, len(objs))
	for _, obj := range objs {
		comp, err := c.registerPlugin(ctx, component.AsComponent(obj), reg)
		if err != nil {
			return out, err
		}
		out = append(out, comp)
	}
	return out, nil
}

func (c *Container) registerPlugin(
	_ context.Context, comp *component.Component, reg *component.Registration,
) (*component.Component, error) {
	if err := validateName(comp.Name()); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	name := comp.Name()
	if existing, ok := c.plugins[name]; ok {
		if existing == comp {
			c.logger.Warn("Plugin already registered", "plugin", comp.String(), "registered_by", reg.RegisteredBy)
			return existing, nil
		}
		msg := fmt.Errorf("%w: plugin %q", errors.ErrAlreadyRegistered, name)
		return nil, errors.WrapInvalid(msg, "Container", "RegisterPlugin", "duplicate plugin check")
	}

	if err := c.register(name, comp, KindPlugin, reg); err != nil {
		return nil, err
	}
	c.plugins[name] = comp
	c.metrics.SetPluginsActive(len(c.plugins))
	c.logger.Debug("Registered plugin", "plugin", comp.String(), "registered_by", reg.RegisteredBy)
	return comp, nil
}

// UnregisterPlugin removes a plugin from the container's plugin set.
//
// Fails with ErrStillRequired while any component depends on the plugin;
// callers remove dependents first. A plugin that was never registered logs
// a warning and returns without error. The plugin is NOT shut down: callers
// are expected to shut it down before unregistering.
func (c *Container) UnregisterPlugin(_ context.Context, obj any) error {
	comp := component.AsComponent(obj)

	c.mu.Lock()
	defer c.mu.Unlock()

	name := comp.Name()
	existing, ok := c.plugins[name]
	if !ok || existing != comp {
		c.logger.Warn("Plugin not registered", "plugin", comp.String())
		return nil
	}

	internals, err := component.InternalsOf(comp)
	if err != nil {
		return err
	}
	if dependents := internals.RequiredBy(); len(dependents) > 0 {
		msg := fmt.Errorf("%w: plugin %s required by %d component(s)",
			errors.ErrStillRequired, comp, len(dependents))
		return errors.WrapInvalid(msg, "Container", "UnregisterPlugin", "dependent check")
	}

	c.deregister(name, comp)
	delete(c.plugins, name)
	c.metrics.SetPluginsActive(len(c.plugins))
	c.logger.Debug("Unregistered plugin", "plugin", comp.String())
	return nil
}

// UnregisterPlugins removes a batch of plugins, stopping at the first failure
func (c *Container) UnregisterPlugins(ctx context.Context, objs ...any) error {
	for _, obj := range objs {
		if err := c.UnregisterPlugin(ctx, obj); err != nil {
			return err
		}
	}
	return nil
}

// Plugin returns the plugin registered under name, or nil
func (c *Container) Plugin(name string) *component.Component {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.plugins[name]
}

// Plugins returns a copy of the registered plugin set
func (c *Container) Plugins() []*component.Component {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*component.Component, 0, len(c.plugins))
	for _, p := range c.plugins {
		out = append(out, p)
	}
	return out
}

// Component returns the component registered under the given name or
// library key, or nil
func (c *Container) Component(name string) *component.Component {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.components[name]
}

// Components returns a copy of every registered component: the app,
// libraries, and plugins
func (c *Container) Components() []*component.Component {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*component.Component, 0, len(c.components))
	for _, comp := range c.components {
		out = append(out, comp)
	}
	return out
}
