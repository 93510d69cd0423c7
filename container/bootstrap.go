package container

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/c360/appcore/component"
	"github.com/c360/appcore/errors"
)

// Bootstrap initializes every registered component in dependency order.
//
// Components are grouped into waves: a component joins a wave once all of
// its requirements are initialized (requirements inside the same wave are
// handled by the engine's batch semantics, since a wave only contains
// components whose requirements are already satisfied). The requirement
// graph is cycle-checked up front. A requirement that is not registered in
// the container, or a component whose initialization aborted, blocks its
// dependents and fails the bootstrap.
func (c *Container) Bootstrap(ctx context.Context) error {
	comps := c.Components()

	if _, err := component.RequiresRecursive(comps...); err != nil {
		return err
	}

	registered := make(map[*component.Component]struct{}, len(comps))
	for _, comp := range comps {
		registered[comp] = struct{}{}
	}

	pending := make(map[*component.Component]struct{}, len(comps))
	for _, comp := range comps {
		if !component.Initialized(comp) {
			pending[comp] = struct{}{}
		}
	}

	c.logger.Info("Bootstrapping container", "components", len(comps), "pending", len(pending))

	for len(pending) > 0 {
		var wave []*component.Component
		for comp := range pending {
			ready := true
			for _, req := range comp.Requires() {
				if _, ok := registered[req]; !ok {
					return errors.WrapInvalid(
						fmt.Errorf("%w: %s requires %s", errors.ErrDependencyMissing, comp, req),
						"Container", "Bootstrap", "requirement registration check")
				}
				if !component.Initialized(req) {
					ready = false
					break
				}
			}
			if ready {
				wave = append(wave, comp)
			}
		}

		if len(wave) == 0 {
			return errors.WrapInvalid(
				fmt.Errorf("%w: %d component(s) blocked by uninitialized requirements",
					errors.ErrDependencyMissing, len(pending)),
				"Container", "Bootstrap", "wave selection")
		}

		results := component.InitializeEach(ctx, wave...)

		var merr *multierror.Error
		for _, res := range results {
			c.metrics.RecordInitialize(res.Component.Name(), res.Err, res.Duration)
			if res.Err != nil {
				merr = multierror.Append(merr, res.Err)
				continue
			}
			delete(pending, res.Component)
			if !component.Initialized(res.Component) {
				// Aborted or skipped; dependents will fail wave selection.
				c.logger.Warn("Component did not initialize", "component", res.Component.String())
				continue
			}
			c.recordState(res.Component)
			for _, req := range res.Component.Requires() {
				if internals, err := component.InternalsOf(req); err == nil {
					internals.MarkInitializedBy(res.Component)
				}
			}
		}
		if err := merr.ErrorOrNil(); err != nil {
			return err
		}
	}

	c.logger.Info("Container bootstrapped", "components", len(comps))
	return nil
}

// ShutdownAll shuts down every initialized component in reverse dependency
// order: a component is torn down only after every component depending on it
// has been torn down. Hook failures are collected across waves and returned
// as one aggregate error; a failed component stays initialized and is not
// retried.
func (c *Container) ShutdownAll(ctx context.Context) error {
	pending := make(map[*component.Component]struct{})
	for _, comp := range c.Components() {
		if component.Initialized(comp) {
			pending[comp] = struct{}{}
		}
	}

	c.logger.Info("Shutting down container", "initialized", len(pending))

	var merr *multierror.Error
	for len(pending) > 0 {
		var wave []*component.Component
		for comp := range pending {
			blocked := false
			for _, dep := range requiredByOf(comp) {
				if _, ok := pending[dep]; ok {
					blocked = true
					break
				}
			}
			if !blocked {
				wave = append(wave, comp)
			}
		}

		if len(wave) == 0 {
			merr = multierror.Append(merr, errors.WrapInvalid(
				fmt.Errorf("%w: %d component(s) blocked by initialized dependents",
					errors.ErrStillRequired, len(pending)),
				"Container", "ShutdownAll", "wave selection"))
			break
		}

		// Dependents that are uninitialized or already torn down still sit
		// in requiredBy (a registration relation, not a lifecycle one).
		// Ride them along in the batch so the engine's refusal check only
		// counts dependents that are genuinely still up.
		batch := wave
		for _, comp := range c.Components() {
			if _, ok := pending[comp]; !ok && !component.Initialized(comp) {
				batch = append(batch, comp)
			}
		}

		results := component.ShutdownEach(ctx, batch...)
		for _, res := range results[:len(wave)] {
			c.metrics.RecordShutdown(res.Component.Name(), res.Err, res.Duration)
			delete(pending, res.Component)
			if res.Err != nil {
				merr = multierror.Append(merr, res.Err)
			}
			c.recordState(res.Component)
		}
	}

	return merr.ErrorOrNil()
}

// Run bootstraps the container, waits on the app component until the
// context is cancelled or the app's wait hook returns, then shuts every
// component down. Shutdown proceeds even when the surrounding context is
// already cancelled.
func (c *Container) Run(ctx context.Context) error {
	app, err := c.App()
	if err != nil {
		return err
	}

	if err := c.Bootstrap(ctx); err != nil {
		return err
	}

	waitErr := component.Wait(ctx, app)

	shutdownErr := c.ShutdownAll(context.WithoutCancel(ctx))

	var merr *multierror.Error
	if waitErr != nil {
		merr = multierror.Append(merr, waitErr)
	}
	if shutdownErr != nil {
		merr = multierror.Append(merr, shutdownErr)
	}
	return merr.ErrorOrNil()
}

// recordState refreshes a component's state gauge
func (c *Container) recordState(comp *component.Component) {
	internals, err := component.InternalsOf(comp)
	if err != nil {
		return
	}
	c.metrics.SetComponentState(comp.Name(), internals.Kind().String(), componentState(internals))
}

// requiredByOf returns a component's current dependents, empty when the
// component has no runtime state
func requiredByOf(comp *component.Component) []*component.Component {
	internals, err := component.InternalsOf(comp)
	if err != nil {
		return nil
	}
	return internals.RequiredBy()
}
