package component

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/c360/appcore/errors"
)

// Result is the per-component outcome of a lifecycle batch. Err is nil when
// the component transitioned or was legitimately skipped. Duration covers
// the component's whole step, hook included.
type Result struct {
	Component *Component
	Err       error
	Duration  time.Duration
}

// Initialize drives the specified components through
// UNINITIALIZED → INITIALIZING → INITIALIZED, each on its own goroutine with
// no ordering guarantee between them.
//
// A component is skipped (no error) when it is already initialized or
// initializing, or when any declared requirement outside this batch is not
// yet initialized: the engine never auto-initializes dependencies, callers
// sequence batches themselves. A component without an initialize hook
// succeeds immediately. A hook returning errors.ErrInitAborted leaves the
// component uninitialized without reporting a failure.
//
// All hook failures are collected and returned as one aggregate error after
// every goroutine completes; successful transitions are never rolled back.
func Initialize(ctx context.Context, components ...*Component) ([]*Component, error) {
	results := runBatch(ctx, components, initializeOne)
	return components, collectErrors(results, "initialization")
}

// InitializeEach behaves like Initialize but never fails as a whole:
// each failure is captured in its component's position of the returned
// results.
func InitializeEach(ctx context.Context, components ...*Component) []Result {
	return runBatch(ctx, components, initializeOne)
}

// Shutdown drives the specified components through
// INITIALIZED → SHUTTING_DOWN → UNINITIALIZED, mirroring Initialize.
//
// A component is skipped when it is not initialized or already shutting
// down, and refused (also a normal skip) while any component outside this
// batch still depends on it; callers remove dependents first. A failed
// shutdown hook leaves the component initialized, since teardown did not
// complete.
func Shutdown(ctx context.Context, components ...*Component) ([]*Component, error) {
	results := runBatch(ctx, components, shutdownOne)
	return components, collectErrors(results, "shutdown")
}

// ShutdownEach behaves like Shutdown but captures each failure in its
// component's position of the returned results.
func ShutdownEach(ctx context.Context, components ...*Component) []Result {
	return runBatch(ctx, components, shutdownOne)
}

// Wait blocks until every component signals it is done. Components with a
// wait hook are awaited; components without one block until the context is
// cancelled. Hook failures are aggregated like the other batch operations.
func Wait(ctx context.Context, components ...*Component) error {
	results := make([]Result, len(components))
	var wg sync.WaitGroup
	for i, comp := range components {
		wg.Add(1)
		go func(i int, comp *Component) {
			defer wg.Done()
			if comp.wait == nil {
				slog.Debug("Component has no wait hook, blocking on context", "component", comp.String())
				<-ctx.Done()
				results[i] = Result{Component: comp}
				return
			}
			slog.Debug("Waiting for component", "component", comp.String())
			err := comp.wait(ctx)
			if err != nil && !stderrors.Is(err, context.Canceled) {
				err = errors.Wrap(err, comp.Name(), "Wait", "wait hook")
			} else {
				err = nil
			}
			results[i] = Result{Component: comp, Err: err}
		}(i, comp)
	}
	wg.Wait()
	return collectErrors(results, "wait")
}

// runBatch executes one lifecycle step per component concurrently.
// Each component is independently eligible or not based on its own state
// snapshot; a slow hook never delays another component's step.
func runBatch(
	ctx context.Context,
	components []*Component,
	step func(ctx context.Context, comp *Component, batch map[*Component]struct{}) error,
) []Result {
	batch := make(map[*Component]struct{}, len(components))
	for _, c := range components {
		batch[c] = struct{}{}
	}

	results := make([]Result, len(components))
	var wg sync.WaitGroup
	for i, comp := range components {
		wg.Add(1)
		go func(i int, comp *Component) {
			defer wg.Done()
			start := time.Now()
			err := step(ctx, comp, batch)
			results[i] = Result{Component: comp, Err: err, Duration: time.Since(start)}
		}(i, comp)
	}
	wg.Wait()
	return results
}

// collectErrors aggregates batch failures into a single composite error
// wrapping every individual failure, not just the first.
func collectErrors(results []Result, operation string) error {
	var merr *multierror.Error
	for _, res := range results {
		if res.Err != nil {
			merr = multierror.Append(merr, res.Err)
		}
	}
	if merr != nil {
		slog.Error("One or more errors occurred during component "+operation,
			"errors", len(merr.Errors))
	}
	return merr.ErrorOrNil()
}

func initializeOne(ctx context.Context, comp *Component, batch map[*Component]struct{}) error {
	internals, err := InternalsOf(comp)
	if err != nil {
		return err
	}

	if internals.IsInitialized() {
		slog.Debug("Component already initialized", "component", comp.String())
		return nil
	}
	if internals.IsInitializing() {
		slog.Debug("Component is already initializing", "component", comp.String())
		return nil
	}

	// Dependency-not-ready precondition. Requirements supplied in the same
	// batch are exempt: the caller vouches for the group as a unit.
	for req := range comp.requires {
		if _, ok := batch[req]; ok {
			continue
		}
		if !Initialized(req) {
			slog.Debug("Component dependencies not initialized",
				"component", comp.String(), "dependency", req.String())
			return nil
		}
	}

	if !internals.beginInitialize() {
		return nil
	}

	fireEvent(ctx, BeforeInitialize, comp)

	if comp.initialize == nil {
		slog.Debug("Component has no initialize hook", "component", comp.String())
		internals.finishInitialize(true)
		fireEvent(ctx, AfterInitialize, comp)
		return nil
	}

	slog.Debug("Initializing component", "component", comp.String())
	hookErr := comp.initialize(ctx)
	switch {
	case hookErr == nil:
		internals.finishInitialize(true)
		fireEvent(ctx, AfterInitialize, comp)
		slog.Debug("Component initialized", "component", comp.String())
		return nil
	case stderrors.Is(hookErr, errors.ErrInitAborted):
		internals.finishInitialize(false)
		slog.Debug("Component initialization aborted", "component", comp.String())
		return nil
	default:
		internals.finishInitialize(false)
		return errors.Wrap(hookErr, comp.Name(), "Initialize", "initialize hook")
	}
}

func shutdownOne(ctx context.Context, comp *Component, batch map[*Component]struct{}) error {
	internals, err := InternalsOf(comp)
	if err != nil {
		return err
	}

	if !internals.IsInitialized() {
		slog.Debug("Component not initialized", "component", comp.String())
		return nil
	}
	if internals.IsShuttingDown() {
		slog.Debug("Component is already shutting down", "component", comp.String())
		return nil
	}
	if internals.hasDependentOutside(batch) {
		slog.Debug("Component still required", "component", comp.String())
		return nil
	}

	if !internals.beginShutdown() {
		return nil
	}

	fireEvent(ctx, BeforeShutdown, comp)

	if comp.shutdown == nil {
		slog.Debug("Component has no shutdown hook", "component", comp.String())
		internals.finishShutdown(true)
		fireEvent(ctx, AfterShutdown, comp)
		return nil
	}

	slog.Debug("Shutting down component", "component", comp.String())
	if hookErr := comp.shutdown(ctx); hookErr != nil {
		internals.finishShutdown(false)
		return errors.Wrap(hookErr, comp.Name(), "Shutdown", "shutdown hook")
	}
	internals.finishShutdown(true)
	fireEvent(ctx, AfterShutdown, comp)
	slog.Debug("Component shut down", "component", comp.String())
	return nil
}
