package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry manages the framework's Prometheus collectors. All record
// methods are safe on a nil receiver so callers can run without metrics.
type Registry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics
}

// NewRegistry creates a new metrics registry with core framework metrics
// and Go runtime collectors registered.
func NewRegistry() *Registry {
	prometheusRegistry := prometheus.NewRegistry()

	registry := &Registry{
		prometheusRegistry: prometheusRegistry,
		Metrics:            NewMetrics(),
	}

	prometheusRegistry.MustRegister(registry.Metrics.collectors()...)
	prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

// PrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// Handler returns an HTTP handler exposing the registry in Prometheus format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prometheusRegistry, promhttp.HandlerOpts{})
}

// RecordInitialize records one initialize attempt and its hook duration
func (r *Registry) RecordInitialize(component string, err error, duration time.Duration) {
	if r == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	r.Metrics.InitializeTotal.WithLabelValues(component, status).Inc()
	r.Metrics.HookDuration.WithLabelValues(component, "initialize").Observe(duration.Seconds())
}

// RecordShutdown records one shutdown attempt and its hook duration
func (r *Registry) RecordShutdown(component string, err error, duration time.Duration) {
	if r == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	r.Metrics.ShutdownTotal.WithLabelValues(component, status).Inc()
	r.Metrics.HookDuration.WithLabelValues(component, "shutdown").Observe(duration.Seconds())
}

// SetComponentState records a component's current lifecycle state
func (r *Registry) SetComponentState(component, kind string, state float64) {
	if r == nil {
		return
	}
	r.Metrics.ComponentState.WithLabelValues(component, kind).Set(state)
}

// SetPluginsActive records the number of registered plugins
func (r *Registry) SetPluginsActive(n int) {
	if r == nil {
		return
	}
	r.Metrics.PluginsActive.Set(float64(n))
}

// SetLibrariesActive records the number of registered libraries
func (r *Registry) SetLibrariesActive(n int) {
	if r == nil {
		return
	}
	r.Metrics.LibrariesActive.Set(float64(n))
}
