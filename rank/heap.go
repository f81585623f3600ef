package rank

import (
	"container/heap"

	"github.com/go-sif/kthfreq"
)

// boundedHeap keeps the k best-ranked entries seen so far, with the worst of them at the root
type boundedHeap []kthfreq.RankedEntry

func (h boundedHeap) Len() int           { return len(h) }
func (h boundedHeap) Less(i, j int) bool { return Less(h[j], h[i]) }
func (h boundedHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *boundedHeap) Push(x interface{}) {
	*h = append(*h, x.(kthfreq.RankedEntry))
}

func (h *boundedHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// SelectHeap returns the same entry as Select, in O(D log k) time for D distinct values.
// Once the heap holds k entries, its root is the k-th best entry seen so far.
func SelectHeap(table kthfreq.FrequencyTable, k int) (kthfreq.RankedEntry, bool) {
	if k < 1 || k > len(table) {
		return kthfreq.RankedEntry{}, false
	}
	h := make(boundedHeap, 0, k)
	for v, c := range table {
		e := kthfreq.RankedEntry{Value: v, Count: c}
		if h.Len() < k {
			heap.Push(&h, e)
		} else if Less(e, h[0]) {
			h[0] = e
			heap.Fix(&h, 0)
		}
	}
	return h[0], true
}
