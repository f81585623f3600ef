// Package metrics provides kthfreq.MetricsCollector implementations: a no-op
// collector, used by default, and a Prometheus collector which callers register
// with a registry of their choosing.
package metrics
