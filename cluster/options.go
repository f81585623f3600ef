package cluster

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-sif/kthfreq"
	"github.com/go-sif/kthfreq/accumulators"
	"github.com/go-sif/kthfreq/errors"
	"github.com/go-sif/kthfreq/logging"
	"github.com/go-sif/kthfreq/metrics"
	"github.com/go-sif/kthfreq/rank"
)

// DefaultNumPartitions is the number of Partitions used when none is configured
const DefaultNumPartitions = 3

// DefaultMemoryThresholdPerPartition is the memory hint used when none is configured (1MiB)
const DefaultMemoryThresholdPerPartition int64 = 1024 * 1024

// Options configure a Coordinator
type Options struct {
	NumPartitions               int                        // the number of Partitions (and workers) to split input amongst
	MemoryThresholdPerPartition int64                      // a per-partition memory hint in bytes, passed to Accumulators. It never affects results.
	MaxConcurrency              int                        // the maximum number of workers counting at once (defaults to NumPartitions)
	Timeout                     time.Duration              // iff > 0, the deadline for an entire computation
	Selection                   rank.Strategy              // the algorithm used to select the K-th entry
	Logger                      *slog.Logger               // destination for log records (discarded by default)
	Metrics                     kthfreq.MetricsCollector   // destination for metrics (discarded by default)
	AccumulatorFactory          kthfreq.AccumulatorFactory // produces one Accumulator per Partition
}

// CloneOptions makes a copy of an Options
func CloneOptions(opts *Options) *Options {
	return &Options{
		NumPartitions:               opts.NumPartitions,
		MemoryThresholdPerPartition: opts.MemoryThresholdPerPartition,
		MaxConcurrency:              opts.MaxConcurrency,
		Timeout:                     opts.Timeout,
		Selection:                   opts.Selection,
		Logger:                      opts.Logger,
		Metrics:                     opts.Metrics,
		AccumulatorFactory:          opts.AccumulatorFactory,
	}
}

func ensureDefaultOptionsValues(opts *Options) error {
	// reject options which cannot be defaulted
	if opts.NumPartitions < 0 {
		return errors.InvalidArgumentError{Msg: fmt.Sprintf("Options.NumPartitions must be positive, got %d", opts.NumPartitions)}
	}
	if opts.MaxConcurrency < 0 {
		return errors.InvalidArgumentError{Msg: fmt.Sprintf("Options.MaxConcurrency must be positive, got %d", opts.MaxConcurrency)}
	}
	if opts.MemoryThresholdPerPartition < 0 {
		return errors.InvalidArgumentError{Msg: fmt.Sprintf("Options.MemoryThresholdPerPartition cannot be negative, got %d", opts.MemoryThresholdPerPartition)}
	}
	if opts.Timeout < 0 {
		return errors.InvalidArgumentError{Msg: fmt.Sprintf("Options.Timeout cannot be negative, got %s", opts.Timeout)}
	}
	selection, err := rank.ParseStrategy(string(opts.Selection))
	if err != nil {
		return err
	}
	opts.Selection = selection
	// default certain options if not supplied
	if opts.NumPartitions == 0 {
		opts.NumPartitions = DefaultNumPartitions
	}
	if opts.MaxConcurrency == 0 || opts.MaxConcurrency > opts.NumPartitions {
		opts.MaxConcurrency = opts.NumPartitions
	}
	if opts.MemoryThresholdPerPartition == 0 {
		opts.MemoryThresholdPerPartition = DefaultMemoryThresholdPerPartition
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewNop()
	}
	if opts.AccumulatorFactory == nil {
		opts.AccumulatorFactory = accumulators.Counter
	}
	return nil
}
