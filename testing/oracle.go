package testing

import (
	"sort"

	"github.com/go-sif/kthfreq"
)

// NaiveKthFrequent computes the k-th most frequent value of data on a single goroutine,
// ordering by count descending and then by value ascending. It returns kthfreq.NoResult
// when there is no k-th value.
func NaiveKthFrequent(data []int, k int) int {
	counts := make(map[int]int)
	for _, v := range data {
		counts[v]++
	}
	values := make([]int, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		if counts[values[i]] == counts[values[j]] {
			return values[i] < values[j]
		}
		return counts[values[i]] > counts[values[j]]
	})
	if k < 1 || k > len(values) {
		return kthfreq.NoResult
	}
	return values[k-1]
}
