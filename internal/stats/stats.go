package stats

import (
	"time"

	"github.com/go-sif/kthfreq"
)

// Stage names, in pipeline order
const (
	StageValidate  = "validate"
	StagePartition = "partition"
	StageCount     = "count"
	StageMerge     = "merge"
	StageSelect    = "select"
)

// RunStatistics contains statistics about a single computation. It is owned by the
// coordinating goroutine of that computation, and is not safe for concurrent use.
type RunStatistics struct {
	started             bool
	finished            bool
	startTime           time.Time
	totalRuntime        time.Duration
	valuesCounted       int64
	partitionsProcessed int64
	distinctValues      int
	partitionRuntimes   []time.Duration
	stageRuntimes       map[string]time.Duration

	// temp vars
	currentStage          string
	currentStageStartTime time.Time
}

var _ kthfreq.RuntimeStatistics = (*RunStatistics)(nil)

// Start triggers statistics tracking, if it hasn't been started already
func (rs *RunStatistics) Start(numPartitions int) {
	if !rs.started {
		rs.started = true
		rs.startTime = time.Now()
		rs.partitionRuntimes = make([]time.Duration, numPartitions)
		rs.stageRuntimes = make(map[string]time.Duration)
	}
}

// Finish completes statistics tracking, closing any stage left open
func (rs *RunStatistics) Finish() {
	if rs.finished {
		return
	}
	rs.EndStage()
	rs.totalRuntime = time.Since(rs.startTime)
	rs.finished = true
}

// StartStage tracks the beginning of a new stage, ending the current one
func (rs *RunStatistics) StartStage(name string) {
	rs.EndStage()
	rs.currentStage = name
	rs.currentStageStartTime = time.Now()
}

// EndStage tracks the end of the current stage, returning its runtime
func (rs *RunStatistics) EndStage() time.Duration {
	if rs.currentStage == "" {
		return 0
	}
	elapsed := time.Since(rs.currentStageStartTime)
	rs.stageRuntimes[rs.currentStage] = elapsed
	rs.currentStage = ""
	return elapsed
}

// EndPartition records the counting of a Partition
func (rs *RunStatistics) EndPartition(id int, numValues int, elapsed time.Duration) {
	if id >= 0 && id < len(rs.partitionRuntimes) {
		rs.partitionRuntimes[id] = elapsed
	}
	rs.valuesCounted += int64(numValues)
	rs.partitionsProcessed++
}

// SetNumDistinctValues records the size of the merged FrequencyTable
func (rs *RunStatistics) SetNumDistinctValues(n int) {
	rs.distinctValues = n
}

// GetStartTime returns the start time of the computation
func (rs *RunStatistics) GetStartTime() time.Time {
	return rs.startTime
}

// GetRuntime returns the running time of the computation
func (rs *RunStatistics) GetRuntime() time.Duration {
	if rs.finished {
		return rs.totalRuntime
	}
	return time.Since(rs.startTime)
}

// GetNumValuesCounted returns the number of input values which have been counted so far
func (rs *RunStatistics) GetNumValuesCounted() int64 {
	return rs.valuesCounted
}

// GetNumPartitionsProcessed returns the number of Partitions which have been counted so far
func (rs *RunStatistics) GetNumPartitionsProcessed() int64 {
	return rs.partitionsProcessed
}

// GetNumDistinctValues returns the number of distinct values in the merged FrequencyTable
func (rs *RunStatistics) GetNumDistinctValues() int {
	return rs.distinctValues
}

// GetPartitionRuntimes returns the counting time of each Partition, indexed by Partition ID
func (rs *RunStatistics) GetPartitionRuntimes() []time.Duration {
	return append([]time.Duration(nil), rs.partitionRuntimes...)
}

// GetStageRuntimes returns the runtime of each completed stage
func (rs *RunStatistics) GetStageRuntimes() map[string]time.Duration {
	res := make(map[string]time.Duration, len(rs.stageRuntimes))
	for k, v := range rs.stageRuntimes {
		res[k] = v
	}
	return res
}
