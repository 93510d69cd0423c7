package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/c360/appcore/errors"
)

// Registry maps configuration prefixes to section models. It replaces
// implicit global registration: the embedding application creates one,
// registers its sections, and passes it into bootstrap explicitly.
type Registry struct {
	mu     sync.RWMutex
	models map[string]any
}

// NewRegistry creates an empty configuration registry
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]any)}
}

// NormalizePrefix canonicalizes a configuration prefix: surrounding
// underscores trimmed, lowercased, runs of whitespace collapsed to single
// underscores.
func NormalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "_")
	prefix = strings.ToLower(prefix)
	return strings.Join(strings.Fields(prefix), "_")
}

// Register binds a section model to a prefix. Registering two models under
// the same normalized prefix fails with ErrPrefixCollision.
func (r *Registry) Register(prefix string, model any) error {
	normalized := NormalizePrefix(prefix)
	if normalized == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "Register", "empty prefix")
	}
	if model == nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "Register", "nil model")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.models[normalized]; ok {
		msg := fmt.Errorf("%w: %q already registered for %T", errors.ErrPrefixCollision, normalized, existing)
		return errors.WrapInvalid(msg, "Registry", "Register", "prefix collision check")
	}

	r.models[normalized] = model
	return nil
}

// Lookup returns the model registered under a prefix
func (r *Registry) Lookup(prefix string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	model, ok := r.models[NormalizePrefix(prefix)]
	return model, ok
}

// Prefixes returns every registered prefix
func (r *Registry) Prefixes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.models))
	for prefix := range r.models {
		out = append(out, prefix)
	}
	return out
}

// Clear removes all registered configurations
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models = make(map[string]any)
}
