package cluster

import "github.com/go-sif/kthfreq"

// Result is the outcome of a single successful computation
type Result struct {
	ID    string                    // ID uniquely identifies the computation, and appears in its log records
	Entry kthfreq.RankedEntry       // Entry is the K-th most frequent value and its count, iff Found
	Found bool                      // Found is false when the input was empty or K exceeded the number of distinct values
	Table kthfreq.FrequencyTable    // Table holds the merged counts of the whole input. It belongs to the caller.
	Stats kthfreq.RuntimeStatistics // Stats describes how the computation ran
}

// Value returns the K-th most frequent value, or kthfreq.NoResult if there isn't one
func (r *Result) Value() int {
	if r == nil || !r.Found {
		return kthfreq.NoResult
	}
	return r.Entry.Value
}
