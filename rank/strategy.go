package rank

import (
	"fmt"

	"github.com/go-sif/kthfreq"
	"github.com/go-sif/kthfreq/errors"
)

// Strategy names a selection algorithm. All strategies select identical entries.
type Strategy string

const (
	// SortStrategy sorts every entry, then indexes
	SortStrategy Strategy = "sort"
	// HeapStrategy keeps a bounded heap of the k best entries
	HeapStrategy Strategy = "heap"
)

// ParseStrategy converts a configuration string into a Strategy. An empty string selects SortStrategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", SortStrategy:
		return SortStrategy, nil
	case HeapStrategy:
		return HeapStrategy, nil
	default:
		return "", errors.InvalidArgumentError{Msg: fmt.Sprintf("%q is an unknown selection strategy, must be %q or %q", s, SortStrategy, HeapStrategy)}
	}
}

// Select selects the k-th ranked entry of table using this Strategy
func (s Strategy) Select(table kthfreq.FrequencyTable, k int) (kthfreq.RankedEntry, bool) {
	if s == HeapStrategy {
		return SelectHeap(table, k)
	}
	return Select(table, k)
}
