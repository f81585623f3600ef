package metrics

import "github.com/go-sif/kthfreq"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Used when no collector is configured.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ kthfreq.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordStageDuration discards the stage duration metric.
func (n *NopMetrics) RecordStageDuration(_ /* stage */ string, _ /* seconds */ float64) {
	// No-op
}

// RecordPartitionCounted discards the partition metrics.
func (n *NopMetrics) RecordPartitionCounted(_ /* size */ int, _ /* seconds */ float64) {
	// No-op
}

// RecordComputation discards the computation metrics.
func (n *NopMetrics) RecordComputation(_ /* outcome */ string, _ /* seconds */ float64) {
	// No-op
}
