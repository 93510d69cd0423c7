package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	comp := New(Spec{Name: "svc"})

	assert.Equal(t, "svc", comp.Name())
	assert.Equal(t, "0.0.0", comp.Version())
	assert.Equal(t, "svc v0.0.0", comp.String())
	assert.False(t, comp.Wire())
	assert.Empty(t, comp.Requires())
}

func TestNewCollapsesDuplicateRequirements(t *testing.T) {
	dep := New(Spec{Name: "dep"})
	comp := New(Spec{Name: "svc", Requires: []*Component{dep, dep, nil}})

	reqs := comp.Requires()
	require.Len(t, reqs, 1)
	assert.Same(t, dep, reqs[0])
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "component", KindComponent.String())
	assert.Equal(t, "app", KindApp.String())
	assert.Equal(t, "plugin", KindPlugin.String())
	assert.Equal(t, "library", KindLibrary.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestNewRegistrationCapturesCaller(t *testing.T) {
	reg := NewRegistration(0)

	require.NotNil(t, reg)
	assert.NotEmpty(t, reg.ID)
	assert.Contains(t, reg.RegisteredBy, "TestNewRegistrationCapturesCaller")
	assert.Contains(t, reg.File, "metadata_test.go")
	assert.NotZero(t, reg.Line)
	assert.False(t, reg.RegisteredAt.IsZero())
	assert.Contains(t, reg.String(), "metadata_test.go")
}

func TestLinkAndUnlinkMaintainBackReferences(t *testing.T) {
	dep := New(Spec{Name: "dep"})
	dependent := New(Spec{Name: "dependent", Requires: []*Component{dep}})

	Link(dependent)
	internals, err := InternalsOf(dep)
	require.NoError(t, err)
	assert.Equal(t, []*Component{dependent}, internals.RequiredBy())

	// idempotent
	Link(dependent)
	assert.Len(t, internals.RequiredBy(), 1)

	Unlink(dependent)
	assert.Empty(t, internals.RequiredBy())

	// removing twice is harmless
	Unlink(dependent)
	assert.Empty(t, internals.RequiredBy())
}

func TestInternalsDefaults(t *testing.T) {
	comp := New(Spec{Name: "svc"})
	internals, err := InternalsOf(comp)
	require.NoError(t, err)

	assert.False(t, internals.IsInitialized())
	assert.False(t, internals.IsInitializing())
	assert.False(t, internals.IsShuttingDown())
	assert.Equal(t, KindComponent, internals.Kind())
	assert.Nil(t, internals.Registration())
	assert.Empty(t, internals.RequiredBy())
	assert.Empty(t, internals.InitializedBy())
}

func TestMarkInitializedByClearedOnShutdown(t *testing.T) {
	trigger := New(Spec{Name: "trigger"})
	comp := New(Spec{Name: "svc"})
	internals, err := InternalsOf(comp)
	require.NoError(t, err)

	internals.MarkInitializedBy(trigger)
	assert.Equal(t, []*Component{trigger}, internals.InitializedBy())

	require.True(t, internals.beginInitialize())
	internals.finishInitialize(true)
	require.True(t, internals.beginShutdown())
	internals.finishShutdown(true)

	assert.Empty(t, internals.InitializedBy())
}
