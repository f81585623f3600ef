package cluster

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/go-sif/kthfreq"
	"github.com/go-sif/kthfreq/errors"
	"github.com/go-sif/kthfreq/internal/stats"
	"github.com/go-sif/kthfreq/partition"
)

// Coordinator finds the K-th most frequent value of a sequence by counting
// Partitions of it in parallel. A Coordinator holds only its configuration, so
// it may be used for any number of concurrent computations.
type Coordinator struct {
	opts *Options
}

// CreateCoordinator is a factory for Coordinators. opts is copied, and may be nil to accept all defaults.
func CreateCoordinator(opts *Options) (*Coordinator, error) {
	if opts == nil {
		opts = &Options{}
	}
	conf := CloneOptions(opts)
	// default certain options if not supplied
	if err := ensureDefaultOptionsValues(conf); err != nil {
		return nil, err
	}
	return &Coordinator{opts: conf}, nil
}

// Options returns a copy of the effective configuration of this Coordinator
func (c *Coordinator) Options() *Options {
	return CloneOptions(c.opts)
}

// FindKthFrequent returns the k-th most frequent value in data, breaking ties
// between equally frequent values in favour of the smaller value. It returns
// kthfreq.NoResult if data is empty or k exceeds the number of distinct values.
// A nil data or a k < 1 yields an errors.InvalidArgumentError, and a failure
// while counting yields an errors.ProcessingError.
func (c *Coordinator) FindKthFrequent(ctx context.Context, data []int, k int) (int, error) {
	res, err := c.Compute(ctx, data, k)
	if err != nil {
		return kthfreq.NoResult, err
	}
	return res.Value(), nil
}

// FindKthFrequentEntry is FindKthFrequent, reporting the absence of a result with
// a boolean rather than kthfreq.NoResult, and including the count of the selected value
func (c *Coordinator) FindKthFrequentEntry(ctx context.Context, data []int, k int) (kthfreq.RankedEntry, bool, error) {
	res, err := c.Compute(ctx, data, k)
	if err != nil {
		return kthfreq.RankedEntry{}, false, err
	}
	return res.Entry, res.Found, nil
}

// CountFrequencies runs the partition, count and merge stages alone, returning the merged counts of data
func (c *Coordinator) CountFrequencies(ctx context.Context, data []int) (kthfreq.FrequencyTable, error) {
	// k=1 always passes validation, and selection is cheap relative to counting
	res, err := c.Compute(ctx, data, 1)
	if err != nil {
		return nil, err
	}
	return res.Table, nil
}

// Compute runs the whole pipeline (validate, partition, count, merge, select), returning
// the selected entry together with the merged counts and statistics for the run.
func (c *Coordinator) Compute(ctx context.Context, data []int, k int) (res *Result, err error) {
	inv := newInvocation(c.opts)
	outcome := kthfreq.OutcomeFound
	defer func() {
		if err != nil {
			outcome = outcomeOf(err)
			inv.logger.Error("Computation failed", "k", k, "error", err)
		}
		inv.finish(outcome)
		if err == nil {
			inv.logger.Info("Computation complete",
				"k", k,
				"found", res.Found,
				"value", res.Value(),
				"count", res.Entry.Count,
				"runtime", inv.statsTracker.GetRuntime())
		}
	}()

	inv.enterStage(stats.StageValidate)
	if data == nil {
		return nil, errors.InvalidArgumentError{Msg: "input data cannot be null"}
	}
	if k <= 0 {
		return nil, errors.InvalidArgumentError{Msg: "K must be positive"}
	}
	res = &Result{ID: inv.id, Table: make(kthfreq.FrequencyTable), Stats: inv.statsTracker}
	if len(data) == 0 {
		outcome = kthfreq.OutcomeNoResult
		return res, nil
	}
	inv.budget = effectiveTimeout(ctx, c.opts.Timeout)
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}
	inv.logger.Info("Starting computation", "k", k, "values", len(data), "partitions", c.opts.NumPartitions)

	inv.enterStage(stats.StagePartition)
	parts, err := partition.RoundRobin(data, c.opts.NumPartitions)
	if err != nil {
		return nil, err
	}

	inv.enterStage(stats.StageCount)
	accs, err := c.countPartitions(ctx, inv, parts)
	if err != nil {
		return nil, err
	}

	inv.enterStage(stats.StageMerge)
	merged, err := mergeAccumulators(accs)
	if err != nil {
		return nil, errors.ProcessingError{Cause: err}
	}
	res.Table = merged.Table()
	if total := res.Table.Total(); total != len(data) {
		return nil, errors.ProcessingError{Cause: fmt.Errorf("merged counts total %d, but %d values were supplied", total, len(data))}
	}
	inv.statsTracker.SetNumDistinctValues(res.Table.Len())
	inv.logger.Debug("Merged frequencies", "distinct", res.Table.Len())

	inv.enterStage(stats.StageSelect)
	res.Entry, res.Found = c.opts.Selection.Select(res.Table, k)
	if !res.Found {
		outcome = kthfreq.OutcomeNoResult
	}
	return res, nil
}

// effectiveTimeout returns the time budget a computation starting now actually has: the
// configured timeout, unless ctx carries an earlier deadline. Zero means unbounded, or already expired.
func effectiveTimeout(ctx context.Context, timeout time.Duration) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return timeout
	}
	remaining := time.Until(deadline)
	if remaining < 0 {
		remaining = 0
	}
	if timeout > 0 && timeout <= remaining {
		return timeout
	}
	return remaining
}

// translateContextError converts the end of a computation's context into the matching failure
func translateContextError(inv *invocation, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.TimeoutError{Timeout: inv.budget}
	}
	return errors.ProcessingError{Cause: err}
}

func outcomeOf(err error) string {
	var ierr errors.InvalidArgumentError
	var terr errors.TimeoutError
	switch {
	case stderrors.As(err, &ierr):
		return kthfreq.OutcomeInvalidArgument
	case stderrors.As(err, &terr):
		return kthfreq.OutcomeTimeout
	default:
		return kthfreq.OutcomeProcessingFailure
	}
}
