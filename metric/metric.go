package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Component state values exposed by the ComponentState gauge
const (
	StateUninitialized = 0
	StateInitializing  = 1
	StateInitialized   = 2
	StateShuttingDown  = 3
)

// Metrics contains all framework-level lifecycle metrics
type Metrics struct {
	ComponentState  *prometheus.GaugeVec
	InitializeTotal *prometheus.CounterVec
	ShutdownTotal   *prometheus.CounterVec
	HookDuration    *prometheus.HistogramVec
	PluginsActive   prometheus.Gauge
	LibrariesActive prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all framework metrics
func NewMetrics() *Metrics {
	return &Metrics{
		ComponentState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "appcore",
				Subsystem: "component",
				Name:      "state",
				Help:      "Component lifecycle state (0=uninitialized, 1=initializing, 2=initialized, 3=shutting_down)",
			},
			[]string{"component", "kind"},
		),

		InitializeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "appcore",
				Subsystem: "lifecycle",
				Name:      "initialize_total",
				Help:      "Total number of component initialize attempts",
			},
			[]string{"component", "status"},
		),

		ShutdownTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "appcore",
				Subsystem: "lifecycle",
				Name:      "shutdown_total",
				Help:      "Total number of component shutdown attempts",
			},
			[]string{"component", "status"},
		),

		HookDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "appcore",
				Subsystem: "lifecycle",
				Name:      "hook_duration_seconds",
				Help:      "Component lifecycle hook duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"component", "operation"},
		),

		PluginsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "appcore",
				Subsystem: "container",
				Name:      "plugins_active",
				Help:      "Number of plugins currently registered in the container",
			},
		),

		LibrariesActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "appcore",
				Subsystem: "container",
				Name:      "libraries_active",
				Help:      "Number of libraries currently registered in the container",
			},
		),
	}
}

// collectors returns every collector for registry registration
func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ComponentState,
		m.InitializeTotal,
		m.ShutdownTotal,
		m.HookDuration,
		m.PluginsActive,
		m.LibrariesActive,
	}
}
