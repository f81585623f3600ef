// Package testing provides Accumulators with injected faults, and a reference
// implementation, for testing code built on kthfreq.
package testing
