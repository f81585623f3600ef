package kthfreq

import "fmt"

// NoResult is returned in place of a value when no K-th most frequent value exists,
// either because the input was empty or because K exceeds the number of distinct values.
const NoResult = -1

// A RankedEntry is a value paired with its global occurrence count
type RankedEntry struct {
	Value int
	Count int
}

// String returns a textual representation of this RankedEntry
func (e RankedEntry) String() string {
	return fmt.Sprintf("%d(x%d)", e.Value, e.Count)
}
