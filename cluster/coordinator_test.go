package cluster_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-sif/kthfreq"
	"github.com/go-sif/kthfreq/accumulators"
	"github.com/go-sif/kthfreq/cluster"
	"github.com/go-sif/kthfreq/datasource/generate"
	"github.com/go-sif/kthfreq/errors"
	"github.com/go-sif/kthfreq/metrics"
	"github.com/go-sif/kthfreq/rank"
	kfqtest "github.com/go-sif/kthfreq/testing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func createTestCoordinator(t *testing.T, opts *cluster.Options) *cluster.Coordinator {
	c, err := cluster.CreateCoordinator(opts)
	require.Nil(t, err)
	return c
}

func TestFindKthFrequentScenarios(t *testing.T) {
	defer goleak.VerifyNone(t)
	c := createTestCoordinator(t, &cluster.Options{NumPartitions: 3})
	cases := []struct {
		input    []int
		k        int
		expected int
	}{
		{[]int{9, 9, 6, 9, 8, 6, 8, 6, 4}, 1, 6},
		{[]int{9, 9, 6, 9, 8, 6, 8, 6, 4}, 2, 9},
		{[]int{9, 9, 6, 9, 8, 6, 8, 6, 4}, 3, 8},
		{[]int{9, 9, 6, 9, 8, 6, 8, 6, 4}, 4, 4},
		{[]int{9, 9, 6, 9, 8, 6, 8, 6, 4}, 5, kthfreq.NoResult},
		{[]int{1, 1, 2, 2, 3, 3, 4}, 3, 3},
		{[]int{1, 1, 2, 2, 3, 3}, 2, 2},
		{[]int{5, 5, 5, 1, 2, 3, 4}, 2, 1},
		{[]int{1, 2, 3, 4, 5}, 3, 3},
		{[]int{1, 2, 3}, 4, kthfreq.NoResult},
		{[]int{}, 1, kthfreq.NoResult},
		{[]int{42}, 1, 42},
		{[]int{42}, 2, kthfreq.NoResult},
	}
	for _, tc := range cases {
		res, err := c.FindKthFrequent(context.Background(), tc.input, tc.k)
		require.Nil(t, err)
		require.Equal(t, tc.expected, res, "input %v k %d", tc.input, tc.k)
	}
}

func TestEqualFrequenciesRankInNaturalOrder(t *testing.T) {
	c := createTestCoordinator(t, nil)
	data := []int{1, 1, 2, 2, 3, 3, 4, 4}
	for k := 1; k <= 4; k++ {
		res, err := c.FindKthFrequent(context.Background(), data, k)
		require.Nil(t, err)
		require.Equal(t, k, res)
	}
	data = []int{5, 5, 5, 5, 1, 2, 3, 4}
	expected := []int{5, 1, 2, 3, 4}
	for k, e := range expected {
		res, err := c.FindKthFrequent(context.Background(), data, k+1)
		require.Nil(t, err)
		require.Equal(t, e, res)
	}
}

func TestInvalidArguments(t *testing.T) {
	c := createTestCoordinator(t, nil)
	var ierr errors.InvalidArgumentError

	res, err := c.FindKthFrequent(context.Background(), nil, 1)
	require.True(t, stderrors.As(err, &ierr))
	require.Equal(t, "input data cannot be null", err.Error())
	require.Equal(t, kthfreq.NoResult, res)

	for _, k := range []int{0, -1} {
		_, err = c.FindKthFrequent(context.Background(), []int{1, 2, 3}, k)
		require.True(t, stderrors.As(err, &ierr))
		require.Equal(t, "K must be positive", err.Error())
	}

	// the empty input is validated first, but is not an error
	res, err = c.FindKthFrequent(context.Background(), []int{}, 3)
	require.Nil(t, err)
	require.Equal(t, kthfreq.NoResult, res)
}

func TestFindKthFrequentEntry(t *testing.T) {
	c := createTestCoordinator(t, nil)
	entry, ok, err := c.FindKthFrequentEntry(context.Background(), []int{-1, -1, 3}, 1)
	require.Nil(t, err)
	require.True(t, ok)
	require.Equal(t, kthfreq.RankedEntry{Value: -1, Count: 2}, entry)

	_, ok, err = c.FindKthFrequentEntry(context.Background(), []int{-1, -1, 3}, 3)
	require.Nil(t, err)
	require.False(t, ok)
}

func TestResultInvariantToPartitionCount(t *testing.T) {
	data := generate.Uniform(42, 5000, 100)
	for _, strategy := range []rank.Strategy{rank.SortStrategy, rank.HeapStrategy} {
		for _, n := range []int{1, 2, 3, 4, 8, 16} {
			c := createTestCoordinator(t, &cluster.Options{NumPartitions: n, Selection: strategy})
			for _, k := range []int{1, 2, 3, 50, 100, 101} {
				res, err := c.FindKthFrequent(context.Background(), data, k)
				require.Nil(t, err)
				require.Equal(t, kfqtest.NaiveKthFrequent(data, k), res, "n=%d k=%d strategy=%s", n, k, strategy)
			}
		}
	}
}

func TestMergedCountsPreserveTotals(t *testing.T) {
	data := generate.Uniform(7, 1234, 50)
	expected := make(kthfreq.FrequencyTable)
	for _, v := range data {
		expected[v]++
	}
	for _, n := range []int{1, 2, 3, 4, 8, 2000} {
		c := createTestCoordinator(t, &cluster.Options{NumPartitions: n})
		table, err := c.CountFrequencies(context.Background(), data)
		require.Nil(t, err)
		require.Equal(t, expected, table)
		require.Equal(t, len(data), table.Total())
	}
}

func TestComputeReportsStatistics(t *testing.T) {
	c := createTestCoordinator(t, &cluster.Options{NumPartitions: 4})
	data := generate.Uniform(1, 100, 10)
	res, err := c.Compute(context.Background(), data, 2)
	require.Nil(t, err)
	require.NotEmpty(t, res.ID)
	require.True(t, res.Found)
	require.Equal(t, int64(100), res.Stats.GetNumValuesCounted())
	require.Equal(t, int64(4), res.Stats.GetNumPartitionsProcessed())
	require.Equal(t, res.Table.Len(), res.Stats.GetNumDistinctValues())
	require.Len(t, res.Stats.GetPartitionRuntimes(), 4)
	stages := res.Stats.GetStageRuntimes()
	for _, stage := range []string{"validate", "partition", "count", "merge", "select"} {
		require.Contains(t, stages, stage)
	}

	other, err := c.Compute(context.Background(), data, 2)
	require.Nil(t, err)
	require.NotEqual(t, res.ID, other.ID)
}

func TestMemoryThresholdHasNoEffect(t *testing.T) {
	data := generate.Uniform(42, 100000, 100)
	tiny := createTestCoordinator(t, &cluster.Options{MemoryThresholdPerPartition: 1024})
	roomy := createTestCoordinator(t, &cluster.Options{MemoryThresholdPerPartition: 1024 * 1024})
	for _, k := range []int{1, 3, 99} {
		a, err := tiny.FindKthFrequent(context.Background(), data, k)
		require.Nil(t, err)
		b, err := roomy.FindKthFrequent(context.Background(), data, k)
		require.Nil(t, err)
		require.Equal(t, b, a)
	}
}

func TestSkewedAndSparseData(t *testing.T) {
	c := createTestCoordinator(t, nil)
	// skewed: a handful of values dominate
	skewed := generate.Skewed(11, 10000, 100, 3, 0.7)
	res, err := c.FindKthFrequent(context.Background(), skewed, 3)
	require.Nil(t, err)
	require.Equal(t, kfqtest.NaiveKthFrequent(skewed, 3), res)

	sparse := generate.Uniform(3, 10000, 1000000)
	res, err = c.FindKthFrequent(context.Background(), sparse, 3)
	require.Nil(t, err)
	require.Equal(t, kfqtest.NaiveKthFrequent(sparse, 3), res)

	unique := generate.Sequential(10000)
	res, err = c.FindKthFrequent(context.Background(), unique, 3)
	require.Nil(t, err)
	require.Equal(t, 2, res)
}

func TestConcurrentComputations(t *testing.T) {
	defer goleak.VerifyNone(t)
	c := createTestCoordinator(t, nil)
	data := []int{9, 9, 6, 9, 8, 6, 8, 6, 4}
	var wg sync.WaitGroup
	results := make([]int, 20)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.FindKthFrequent(context.Background(), data, 3)
		}(i)
	}
	wg.Wait()
	for i := range results {
		require.Nil(t, errs[i])
		require.Equal(t, 8, results[i])
	}
}

func TestCountingFailure(t *testing.T) {
	defer goleak.VerifyNone(t)
	cause := fmt.Errorf("node failure")
	c := createTestCoordinator(t, &cluster.Options{AccumulatorFactory: kfqtest.FailingCounter(6, cause)})
	res, err := c.FindKthFrequent(context.Background(), []int{9, 9, 6, 9, 8, 6, 8, 6, 4}, 3)
	require.Equal(t, kthfreq.NoResult, res)
	var perr errors.ProcessingError
	require.True(t, stderrors.As(err, &perr))
	require.True(t, stderrors.Is(err, cause))
	var ierr errors.InvalidArgumentError
	require.False(t, stderrors.As(err, &ierr))
}

func TestCountingPanic(t *testing.T) {
	defer goleak.VerifyNone(t)
	c := createTestCoordinator(t, &cluster.Options{AccumulatorFactory: kfqtest.PanickingCounter(8)})
	_, err := c.FindKthFrequent(context.Background(), []int{9, 9, 6, 9, 8, 6, 8, 6, 4}, 1)
	var perr errors.ProcessingError
	require.True(t, stderrors.As(err, &perr))
	require.Contains(t, err.Error(), "refusing to count 8")
}

func TestMiscountingAccumulatorDetected(t *testing.T) {
	c := createTestCoordinator(t, &cluster.Options{AccumulatorFactory: kfqtest.DroppingCounter(4)})
	_, err := c.FindKthFrequent(context.Background(), []int{9, 9, 6, 9, 8, 6, 8, 6, 4}, 1)
	var perr errors.ProcessingError
	require.True(t, stderrors.As(err, &perr))
}

func TestMergeFailure(t *testing.T) {
	cause := fmt.Errorf("tables are incompatible")
	c := createTestCoordinator(t, &cluster.Options{AccumulatorFactory: kfqtest.UnmergeableCounter(cause)})
	_, err := c.FindKthFrequent(context.Background(), []int{9, 9, 6, 9, 8, 6, 8, 6, 4}, 1)
	var perr errors.ProcessingError
	require.True(t, stderrors.As(err, &perr))
	require.True(t, stderrors.Is(err, cause))

	// a single partition has nothing to merge
	c = createTestCoordinator(t, &cluster.Options{NumPartitions: 1, AccumulatorFactory: kfqtest.UnmergeableCounter(cause)})
	res, err := c.FindKthFrequent(context.Background(), []int{9, 9, 6, 9, 8, 6, 8, 6, 4}, 1)
	require.Nil(t, err)
	require.Equal(t, 6, res)
}

func TestTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)
	release := make(chan struct{})
	c := createTestCoordinator(t, &cluster.Options{
		Timeout:            50 * time.Millisecond,
		AccumulatorFactory: kfqtest.StallingCounter(8, release),
	})
	_, err := c.FindKthFrequent(context.Background(), []int{9, 9, 6, 9, 8, 6, 8, 6, 4}, 1)
	close(release)
	var terr errors.TimeoutError
	require.True(t, stderrors.As(err, &terr))
	require.Equal(t, 50*time.Millisecond, terr.Timeout)
}

// panickingMerger counts correctly, but panics when merged into
type panickingMerger struct {
	*accumulators.Frequency
}

func (p *panickingMerger) Merge(_ kthfreq.Accumulator) error {
	panic("cannot merge")
}

func TestMergePanic(t *testing.T) {
	c := createTestCoordinator(t, &cluster.Options{AccumulatorFactory: func(memoryHint int64) kthfreq.Accumulator {
		return &panickingMerger{Frequency: accumulators.Counter(memoryHint).(*accumulators.Frequency)}
	}})
	_, err := c.FindKthFrequent(context.Background(), []int{9, 9, 6, 9, 8, 6, 8, 6, 4}, 1)
	var perr errors.ProcessingError
	require.True(t, stderrors.As(err, &perr))
	require.Contains(t, err.Error(), "Merge Panic: cannot merge")
}

func TestCallerDeadlineBeforeTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)
	release := make(chan struct{})
	c := createTestCoordinator(t, &cluster.Options{
		Timeout:            time.Hour,
		AccumulatorFactory: kfqtest.StallingCounter(8, release),
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.FindKthFrequent(ctx, []int{9, 9, 6, 9, 8, 6, 8, 6, 4}, 1)
	close(release)
	var terr errors.TimeoutError
	require.True(t, stderrors.As(err, &terr))
	// the caller's deadline fired, not the configured one
	require.LessOrEqual(t, terr.Timeout, 20*time.Millisecond)
	require.NotContains(t, err.Error(), "1h0m0s")
}

func TestCallerCancellation(t *testing.T) {
	defer goleak.VerifyNone(t)
	c := createTestCoordinator(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.FindKthFrequent(ctx, []int{1, 2, 3}, 1)
	var perr errors.ProcessingError
	require.True(t, stderrors.As(err, &perr))
	require.True(t, stderrors.Is(err, context.Canceled))
}

func TestBoundedConcurrency(t *testing.T) {
	defer goleak.VerifyNone(t)
	c := createTestCoordinator(t, &cluster.Options{NumPartitions: 8, MaxConcurrency: 1})
	data := generate.Uniform(9, 1000, 20)
	res, err := c.FindKthFrequent(context.Background(), data, 5)
	require.Nil(t, err)
	require.Equal(t, kfqtest.NaiveKthFrequent(data, 5), res)
}

func TestCompressedAccumulators(t *testing.T) {
	factory, err := accumulators.CompressedCounter("zstd")
	require.Nil(t, err)
	c := createTestCoordinator(t, &cluster.Options{AccumulatorFactory: factory})
	res, err := c.FindKthFrequent(context.Background(), []int{5, 5, 5, 1, 2, 3, 4}, 2)
	require.Nil(t, err)
	require.Equal(t, 1, res)
}

func TestCreateCoordinatorOptions(t *testing.T) {
	c, err := cluster.CreateCoordinator(nil)
	require.Nil(t, err)
	opts := c.Options()
	require.Equal(t, cluster.DefaultNumPartitions, opts.NumPartitions)
	require.Equal(t, cluster.DefaultNumPartitions, opts.MaxConcurrency)
	require.Equal(t, cluster.DefaultMemoryThresholdPerPartition, opts.MemoryThresholdPerPartition)
	require.Equal(t, rank.SortStrategy, opts.Selection)
	require.NotNil(t, opts.Logger)
	require.NotNil(t, opts.Metrics)
	require.NotNil(t, opts.AccumulatorFactory)

	// the caller's Options are not modified
	supplied := &cluster.Options{NumPartitions: 2, MaxConcurrency: 10}
	c, err = cluster.CreateCoordinator(supplied)
	require.Nil(t, err)
	require.Equal(t, 2, c.Options().MaxConcurrency)
	require.Equal(t, 10, supplied.MaxConcurrency)

	var ierr errors.InvalidArgumentError
	for _, bad := range []*cluster.Options{
		{NumPartitions: -1},
		{MaxConcurrency: -1},
		{MemoryThresholdPerPartition: -1},
		{Timeout: -time.Second},
		{Selection: "bogus"},
	} {
		_, err = cluster.CreateCoordinator(bad)
		require.True(t, stderrors.As(err, &ierr))
	}
}

func TestInjectedPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewPrometheus(reg, "")
	require.Nil(t, err)
	c := createTestCoordinator(t, &cluster.Options{Metrics: collector})
	_, err = c.FindKthFrequent(context.Background(), []int{9, 9, 6, 9, 8, 6, 8, 6, 4}, 3)
	require.Nil(t, err)
	_, err = c.FindKthFrequent(context.Background(), nil, 3)
	require.NotNil(t, err)

	families, err := reg.Gather()
	require.Nil(t, err)
	outcomes := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "kthfreq_pipeline_computations_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "outcome" {
					outcomes[l.GetValue()] = m.GetCounter().GetValue()
				}
			}
		}
	}
	require.Equal(t, map[string]float64{kthfreq.OutcomeFound: 1, kthfreq.OutcomeInvalidArgument: 1}, outcomes)
	// one observation per partition of the successful computation
	count, err := testutil.GatherAndCount(reg, "kthfreq_counter_partition_values")
	require.Nil(t, err)
	require.Equal(t, 1, count)
}
