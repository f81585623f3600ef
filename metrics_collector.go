package kthfreq

// Outcomes reported to MetricsCollector.RecordComputation
const (
	OutcomeFound             = "found"              // a K-th most frequent value was selected
	OutcomeNoResult          = "no_result"          // the input was empty, or K exceeded the distinct value count
	OutcomeInvalidArgument   = "invalid_argument"   // the call was rejected before any work began
	OutcomeProcessingFailure = "processing_failure" // a counting task failed
	OutcomeTimeout           = "timeout"            // the computation exceeded its deadline
)

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations must be thread-safe: counting tasks of one computation, and
// separate computations, report concurrently.
type MetricsCollector interface {
	// RecordStageDuration records the time taken by one pipeline stage ("partition", "count", "merge", "select").
	RecordStageDuration(stage string, seconds float64)

	// RecordPartitionCounted records the size and counting time of a single Partition.
	RecordPartitionCounted(size int, seconds float64)

	// RecordComputation records the outcome and total duration of a computation.
	RecordComputation(outcome string, seconds float64)
}
