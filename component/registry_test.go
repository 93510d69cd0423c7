package component

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/c360/appcore/errors"
)

// hookedService implements the full hook surface via interfaces
type hookedService struct {
	initialized bool
	shutDown    bool
}

func (s *hookedService) Initialize(context.Context) error { s.initialized = true; return nil }
func (s *hookedService) Shutdown(context.Context) error   { s.shutDown = true; return nil }
func (s *hookedService) Describe() string                 { return "a hooked service" }

// definedService declares its own spec
type definedService struct{}

func (definedService) Definition() Spec {
	return Spec{Name: "defined", Version: "2.1.0", Wire: true}
}

type bareService struct{}

func TestAsComponentPassthrough(t *testing.T) {
	comp := New(Spec{Name: "passthrough"})
	assert.Same(t, comp, AsComponent(comp))
}

func TestAsComponentDiscoversHooks(t *testing.T) {
	svc := &hookedService{}
	comp := AsComponent(svc)

	require.NotNil(t, comp)
	assert.Equal(t, "a hooked service", comp.Description())
	assert.Equal(t, "0.0.0", comp.Version())

	_, err := Initialize(context.Background(), comp)
	require.NoError(t, err)
	assert.True(t, svc.initialized)

	_, err = Shutdown(context.Background(), comp)
	require.NoError(t, err)
	assert.True(t, svc.shutDown)
}

func TestAsComponentUsesDefinition(t *testing.T) {
	comp := AsComponent(definedService{})
	assert.Equal(t, "defined", comp.Name())
	assert.Equal(t, "2.1.0", comp.Version())
	assert.True(t, comp.Wire())
}

func TestAsComponentDefaultsNameFromType(t *testing.T) {
	comp := AsComponent(&bareService{})
	assert.Equal(t, "github.com/c360/appcore/component.bareService", comp.Name())
}

func TestRequiresDeduplicates(t *testing.T) {
	shared := New(Spec{Name: "shared"})
	a := New(Spec{Name: "a", Requires: []*Component{shared}})
	b := New(Spec{Name: "b", Requires: []*Component{shared}})

	reqs := Requires(a, b)
	assert.Len(t, reqs, 1)
	assert.Same(t, shared, reqs[0])
}

func TestRequiresRecursiveExpandsTransitively(t *testing.T) {
	leaf := New(Spec{Name: "leaf"})
	mid := New(Spec{Name: "mid", Requires: []*Component{leaf}})
	top := New(Spec{Name: "top", Requires: []*Component{mid}})

	reqs, err := RequiresRecursive(top)
	require.NoError(t, err)
	assert.ElementsMatch(t, []*Component{mid, leaf}, reqs)
}

func TestRequiresRecursiveDetectsCycle(t *testing.T) {
	// build a two-node cycle by mutating the requires set after construction
	a := New(Spec{Name: "a"})
	b := New(Spec{Name: "b", Requires: []*Component{a}})
	a.requires[b] = struct{}{}

	_, err := RequiresRecursive(a)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCyclicDependency)
	assert.True(t, apperrors.IsFatal(err))
}

func TestRequiresRecursiveSharedDiamondIsNotACycle(t *testing.T) {
	base := New(Spec{Name: "base"})
	left := New(Spec{Name: "left", Requires: []*Component{base}})
	right := New(Spec{Name: "right", Requires: []*Component{base}})
	top := New(Spec{Name: "top", Requires: []*Component{left, right}})

	reqs, err := RequiresRecursive(top)
	require.NoError(t, err)
	assert.ElementsMatch(t, []*Component{left, right, base}, reqs)
}

func TestInternalsOfNilComponent(t *testing.T) {
	_, err := InternalsOf(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMissingState)
	assert.True(t, apperrors.IsFatal(err))
}

func TestInitializedNilSafe(t *testing.T) {
	assert.False(t, Initialized(nil))
}
