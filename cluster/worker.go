package cluster

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-sif/kthfreq"
	"github.com/go-sif/kthfreq/errors"
	iutil "github.com/go-sif/kthfreq/internal/util"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// workers check for cancellation once per this many values
const cancellationCheckInterval = 4096

// workerResult is the output of a single worker, written only by that worker
type workerResult struct {
	acc     kthfreq.Accumulator
	elapsed time.Duration
}

// countPartitions counts every Partition on its own worker goroutine, then waits for all
// of them. The returned Accumulators are in Partition order. If any worker fails, every worker
// failure is reported together and no Accumulators are returned.
func (c *Coordinator) countPartitions(ctx context.Context, inv *invocation, parts []kthfreq.Partition) ([]kthfreq.Accumulator, error) {
	results := make([]workerResult, len(parts))
	g, gctx := errgroup.WithContext(ctx)
	workerLimit := semaphore.NewWeighted(int64(c.opts.MaxConcurrency))
	var failuresLock sync.Mutex
	failures := &multierror.Error{ErrorFormat: iutil.FormatMultiError}
	countOp := c.countOperation(gctx)
	for _, part := range parts {
		part := part
		g.Go(func() error {
			if err := workerLimit.Acquire(gctx, 1); err != nil {
				return err
			}
			defer workerLimit.Release(1)
			if err := gctx.Err(); err != nil {
				return err
			}
			inv.logger.Debug("Worker starting", "partition", part.ID, "values", part.Len())
			start := time.Now()
			acc, err := countOp(part)
			if err != nil {
				// workers interrupted by another worker's failure are not failures themselves
				if gctx.Err() == nil || !isContextError(err) {
					failuresLock.Lock()
					failures = multierror.Append(failures, err)
					failuresLock.Unlock()
				}
				return err
			}
			elapsed := time.Since(start)
			results[part.ID] = workerResult{acc: acc, elapsed: elapsed}
			inv.metrics.RecordPartitionCounted(part.Len(), elapsed.Seconds())
			inv.logger.Debug("Worker complete", "partition", part.ID, "elapsed", elapsed)
			return nil
		})
	}

	// wait for every worker in the background, so that a deadline can interrupt
	// the wait even if a worker never returns
	waitErr := make(chan error, 1)
	go func() {
		waitErr <- g.Wait()
	}()
	select {
	case err := <-waitErr:
		// every worker has returned, so failures is no longer written to
		if merr := failures.ErrorOrNil(); merr != nil {
			return nil, errors.ProcessingError{Cause: merr}
		}
		if err != nil {
			return nil, translateContextError(inv, err)
		}
	case <-ctx.Done():
		return nil, translateContextError(inv, ctx.Err())
	}

	accs := make([]kthfreq.Accumulator, len(results))
	for i, r := range results {
		accs[i] = r.acc
		inv.statsTracker.EndPartition(i, parts[i].Len(), r.elapsed)
	}
	return accs, nil
}

// mergeAccumulators folds every Accumulator into the first, returning it. Panics are recovered as errors.
func mergeAccumulators(accs []kthfreq.Accumulator) (merged kthfreq.Accumulator, err error) {
	if len(accs) == 0 {
		return nil, fmt.Errorf("no Accumulators to merge")
	}
	defer func() {
		if r := recover(); r != nil {
			merged = nil
			err = fmt.Errorf("Merge Panic: %v\n%s", r, iutil.GetTrace())
		}
	}()
	merged = accs[0]
	for i, acc := range accs[1:] {
		if err := merged.Merge(acc); err != nil {
			return nil, fmt.Errorf("Merge Error for partition %d: %w", i+1, err)
		}
	}
	return merged, nil
}

// countOperation produces the operation each worker runs against its Partition
func (c *Coordinator) countOperation(ctx context.Context) iutil.CountOperation {
	factory := c.opts.AccumulatorFactory
	memoryHint := c.opts.MemoryThresholdPerPartition
	return iutil.SafeCountOperation(func(part kthfreq.Partition) (kthfreq.Accumulator, error) {
		acc := factory(memoryHint)
		if acc == nil {
			return nil, fmt.Errorf("AccumulatorFactory produced a nil Accumulator")
		}
		for i, v := range part.Values {
			if i%cancellationCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			if err := acc.Accumulate(v); err != nil {
				return nil, err
			}
		}
		return acc, nil
	})
}

func isContextError(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}
