package container

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/appcore/component"
	"github.com/c360/appcore/errors"
)

// orderRecorder tracks hook invocation order across components
type orderRecorder struct {
	mu    sync.Mutex
	order []string
}

func (r *orderRecorder) hook(name string) component.Hook {
	return func(context.Context) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.order = append(r.order, name)
		return nil
	}
}

func (r *orderRecorder) indexOf(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.order {
		if n == name {
			return i
		}
	}
	return -1
}

func TestBootstrapInitializesInDependencyOrder(t *testing.T) {
	ctn := newTestContainer()
	ctx := context.Background()
	rec := &orderRecorder{}

	store := component.New(component.Spec{Name: "store", Initialize: rec.hook("store")})
	cache := component.New(component.Spec{
		Name:       "cache",
		Requires:   []*component.Component{store},
		Initialize: rec.hook("cache"),
	})
	app := component.New(component.Spec{
		Name:       "app",
		Requires:   []*component.Component{cache},
		Initialize: rec.hook("app"),
	})

	_, err := ctn.RegisterLibrary("store", store)
	require.NoError(t, err)
	_, err = ctn.RegisterLibrary("cache", cache)
	require.NoError(t, err)
	_, err = ctn.SetApp(app)
	require.NoError(t, err)

	require.NoError(t, ctn.Bootstrap(ctx))

	assert.True(t, component.Initialized(store))
	assert.True(t, component.Initialized(cache))
	assert.True(t, component.Initialized(app))
	assert.Less(t, rec.indexOf("store"), rec.indexOf("cache"))
	assert.Less(t, rec.indexOf("cache"), rec.indexOf("app"))

	// bootstrap records which component triggered each requirement
	internals, err := component.InternalsOf(store)
	require.NoError(t, err)
	assert.Equal(t, []*component.Component{cache}, internals.InitializedBy())
}

func TestBootstrapIsIdempotent(t *testing.T) {
	ctn := newTestContainer()
	ctx := context.Background()
	rec := &orderRecorder{}

	_, err := ctn.SetApp(component.New(component.Spec{Name: "app", Initialize: rec.hook("app")}))
	require.NoError(t, err)

	require.NoError(t, ctn.Bootstrap(ctx))
	require.NoError(t, ctn.Bootstrap(ctx))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []string{"app"}, rec.order)
}

func TestBootstrapFailsOnUnregisteredRequirement(t *testing.T) {
	ctn := newTestContainer()

	outsider := component.New(component.Spec{Name: "outsider"})
	_, err := ctn.SetApp(component.New(component.Spec{
		Name:     "app",
		Requires: []*component.Component{outsider},
	}))
	require.NoError(t, err)

	err = ctn.Bootstrap(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDependencyMissing)
}

func TestBootstrapPropagatesHookFailure(t *testing.T) {
	ctn := newTestContainer()
	ctx := context.Background()

	failing := component.New(component.Spec{
		Name:       "failing",
		Initialize: func(context.Context) error { return assert.AnError },
	})
	_, err := ctn.SetApp(failing)
	require.NoError(t, err)

	err = ctn.Bootstrap(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, component.Initialized(failing))
}

func TestBootstrapAbortBlocksDependents(t *testing.T) {
	ctn := newTestContainer()
	ctx := context.Background()

	aborting := component.New(component.Spec{
		Name:       "aborting",
		Initialize: func(context.Context) error { return errors.ErrInitAborted },
	})
	dependent := component.New(component.Spec{
		Name:     "dependent",
		Requires: []*component.Component{aborting},
	})

	_, err := ctn.RegisterLibrary("aborting", aborting)
	require.NoError(t, err)
	_, err = ctn.SetApp(dependent)
	require.NoError(t, err)

	err = ctn.Bootstrap(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDependencyMissing)
	assert.False(t, component.Initialized(dependent))
}

func TestShutdownAllReversesDependencyOrder(t *testing.T) {
	ctn := newTestContainer()
	ctx := context.Background()
	rec := &orderRecorder{}

	store := component.New(component.Spec{Name: "store", Shutdown: rec.hook("store")})
	cache := component.New(component.Spec{
		Name:     "cache",
		Requires: []*component.Component{store},
		Shutdown: rec.hook("cache"),
	})
	app := component.New(component.Spec{
		Name:     "app",
		Requires: []*component.Component{cache},
		Shutdown: rec.hook("app"),
	})

	_, err := ctn.RegisterLibrary("store", store)
	require.NoError(t, err)
	_, err = ctn.RegisterLibrary("cache", cache)
	require.NoError(t, err)
	_, err = ctn.SetApp(app)
	require.NoError(t, err)

	require.NoError(t, ctn.Bootstrap(ctx))
	require.NoError(t, ctn.ShutdownAll(ctx))

	assert.False(t, component.Initialized(store))
	assert.False(t, component.Initialized(cache))
	assert.False(t, component.Initialized(app))
	assert.Less(t, rec.indexOf("app"), rec.indexOf("cache"))
	assert.Less(t, rec.indexOf("cache"), rec.indexOf("store"))
}

func TestShutdownAllSkipsUninitializedDependents(t *testing.T) {
	ctn := newTestContainer()
	ctx := context.Background()

	base := component.New(component.Spec{Name: "base"})
	dependent := component.New(component.Spec{
		Name:     "dependent",
		Requires: []*component.Component{base},
	})

	_, err := ctn.RegisterLibrary("base", base)
	require.NoError(t, err)
	_, err = ctn.RegisterPlugin(ctx, dependent)
	require.NoError(t, err)

	// only base is up; the registered-but-down dependent must not block it
	_, err = component.Initialize(ctx, base)
	require.NoError(t, err)

	require.NoError(t, ctn.ShutdownAll(ctx))
	assert.False(t, component.Initialized(base))
}

func TestShutdownAllKeepsFailedComponentInitialized(t *testing.T) {
	ctn := newTestContainer()
	ctx := context.Background()

	failing := component.New(component.Spec{
		Name:     "failing",
		Shutdown: func(context.Context) error { return assert.AnError },
	})
	_, err := ctn.SetApp(failing)
	require.NoError(t, err)
	require.NoError(t, ctn.Bootstrap(ctx))

	err = ctn.ShutdownAll(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.True(t, component.Initialized(failing))
}

func TestRunBootstrapsWaitsAndShutsDown(t *testing.T) {
	ctn := newTestContainer()
	rec := &orderRecorder{}

	lib := component.New(component.Spec{
		Name:       "lib",
		Initialize: rec.hook("lib-init"),
		Shutdown:   rec.hook("lib-shutdown"),
	})
	app := component.New(component.Spec{
		Name:       "app",
		Requires:   []*component.Component{lib},
		Initialize: rec.hook("app-init"),
		Shutdown:   rec.hook("app-shutdown"),
	})

	_, err := ctn.RegisterLibrary("lib", lib)
	require.NoError(t, err)
	_, err = ctn.SetApp(app)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ctn.Run(ctx) }()

	// the app has no wait hook, so Run blocks until cancellation
	assert.Eventually(t, func() bool { return component.Initialized(app) },
		time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	assert.False(t, component.Initialized(lib))
	assert.False(t, component.Initialized(app))
	assert.Equal(t, []string{"lib-init", "app-init", "app-shutdown", "lib-shutdown"}, rec.order)
}

func TestRunWithoutAppFails(t *testing.T) {
	err := newTestContainer().Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAppNotSet)
}
