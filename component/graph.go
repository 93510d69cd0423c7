package component

// Link records the dependent in the requiredBy set of every component it
// requires. Both directions of the dependency graph mutate through Link and
// Unlink only, so the requires and requiredBy sides cannot drift apart.
// Called by the container when a component is registered.
func Link(dependent *Component) {
	if dependent == nil || dependent.internals == nil {
		return
	}
	for req := range dependent.requires {
		if req.internals != nil {
			req.internals.addRequiredBy(dependent)
		}
	}
}

// Unlink removes the dependent's back-references from every component it
// requires. Called by the container when a component is unregistered.
func Unlink(dependent *Component) {
	if dependent == nil || dependent.internals == nil {
		return
	}
	for req := range dependent.requires {
		if req.internals != nil {
			req.internals.removeRequiredBy(dependent)
		}
	}
}
