package kthfreq

import "time"

// RuntimeStatistics facilitates the retrieval of statistics about a single computation
type RuntimeStatistics interface {
	// GetStartTime returns the start time of the computation
	GetStartTime() time.Time
	// GetRuntime returns the running time of the computation
	GetRuntime() time.Duration
	// GetNumValuesCounted returns the number of input values which have been counted so far
	GetNumValuesCounted() int64
	// GetNumPartitionsProcessed returns the number of Partitions which have been counted so far
	GetNumPartitionsProcessed() int64
	// GetNumDistinctValues returns the number of distinct values in the merged FrequencyTable
	GetNumDistinctValues() int
	// GetPartitionRuntimes returns the counting time of each Partition, indexed by Partition ID
	GetPartitionRuntimes() []time.Duration
	// GetStageRuntimes returns the runtime of each completed pipeline stage, keyed by stage name
	GetStageRuntimes() map[string]time.Duration
}
