package rank

import (
	"sort"

	"github.com/go-sif/kthfreq"
)

// Less reports whether a ranks ahead of b
func Less(a, b kthfreq.RankedEntry) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return a.Value < b.Value
}

// Rank returns every entry of table, most frequent first
func Rank(table kthfreq.FrequencyTable) []kthfreq.RankedEntry {
	entries := table.Entries()
	sort.Slice(entries, func(i, j int) bool {
		return Less(entries[i], entries[j])
	})
	return entries
}

// Select returns the k-th ranked entry of table (1-indexed) by sorting every entry.
// The boolean is false when k is not positive or exceeds the number of distinct values.
func Select(table kthfreq.FrequencyTable, k int) (kthfreq.RankedEntry, bool) {
	if k < 1 || k > len(table) {
		return kthfreq.RankedEntry{}, false
	}
	return Rank(table)[k-1], true
}
