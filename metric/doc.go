// Package metric provides Prometheus-based metrics for AppCore lifecycle
// observability.
//
// The Registry wraps a dedicated prometheus.Registry holding the framework's
// core collectors (component state, initialize/shutdown counters, hook
// durations, container population gauges) alongside the standard Go and
// process collectors. The container records into it around lifecycle calls;
// Handler exposes everything for scraping.
//
// All record methods tolerate a nil *Registry, so metrics remain strictly
// optional for embedders.
package metric
