package metrics

import (
	stderrors "errors"

	"github.com/go-sif/kthfreq"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements kthfreq.MetricsCollector backed by Prometheus.
type PrometheusCollector struct {
	stageDuration     *prometheus.HistogramVec
	partitionSize     prometheus.Histogram
	partitionDuration prometheus.Histogram
	computations      *prometheus.CounterVec
	computeDuration   *prometheus.HistogramVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ kthfreq.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector and registers its metrics.
//
// Parameters:
//   - reg: Prometheus registerer (a fresh registry is used if nil, so that nothing is shared implicitly)
//   - namespace: Prometheus metrics namespace (defaults to "kthfreq" if empty)
//
// If a metric with the same description is already registered with reg, the
// existing metric is reused.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = "kthfreq"
	}
	p := &PrometheusCollector{
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Time spent in each pipeline stage.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"stage"}),
		partitionSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "counter",
			Name:      "partition_values",
			Help:      "Number of values counted per partition.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
		}),
		partitionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "counter",
			Name:      "partition_duration_seconds",
			Help:      "Time spent counting a single partition.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "computations_total",
			Help:      "Total computations by outcome.",
		}, []string{"outcome"}),
		computeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "computation_duration_seconds",
			Help:      "End-to-end computation time by outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 12),
		}, []string{"outcome"}),
	}
	var err error
	if p.stageDuration, err = register(reg, p.stageDuration); err != nil {
		return nil, err
	}
	if p.partitionSize, err = register(reg, p.partitionSize); err != nil {
		return nil, err
	}
	if p.partitionDuration, err = register(reg, p.partitionDuration); err != nil {
		return nil, err
	}
	if p.computations, err = register(reg, p.computations); err != nil {
		return nil, err
	}
	if p.computeDuration, err = register(reg, p.computeDuration); err != nil {
		return nil, err
	}
	return p, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if stderrors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordStageDuration records the time taken by one pipeline stage.
func (p *PrometheusCollector) RecordStageDuration(stage string, seconds float64) {
	p.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordPartitionCounted records the size and counting time of a single Partition.
func (p *PrometheusCollector) RecordPartitionCounted(size int, seconds float64) {
	p.partitionSize.Observe(float64(size))
	p.partitionDuration.Observe(seconds)
}

// RecordComputation records the outcome and total duration of a computation.
func (p *PrometheusCollector) RecordComputation(outcome string, seconds float64) {
	p.computations.WithLabelValues(outcome).Inc()
	p.computeDuration.WithLabelValues(outcome).Observe(seconds)
}
