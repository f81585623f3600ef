package partition

import (
	"fmt"

	"github.com/go-sif/kthfreq"
	"github.com/go-sif/kthfreq/errors"
)

// RoundRobin splits data into exactly n Partitions, assigning the element at index i
// to Partition i mod n. Assignment is by position only, so runs of a single repeated
// value are spread evenly. Empty input yields n empty Partitions, as does any
// Partition beyond len(data) when n > len(data).
func RoundRobin(data []int, n int) ([]kthfreq.Partition, error) {
	if n < 1 {
		return nil, errors.InvalidArgumentError{Msg: fmt.Sprintf("number of partitions must be positive, got %d", n)}
	}
	parts := make([]kthfreq.Partition, n)
	// every partition receives either floor(M/N) or ceil(M/N) elements
	size := len(data) / n
	for i := range parts {
		capacity := size
		if i < len(data)%n {
			capacity++
		}
		parts[i] = kthfreq.Partition{ID: i, Values: make([]int, 0, capacity)}
	}
	for i, v := range data {
		p := &parts[i%n]
		p.Values = append(p.Values, v)
	}
	return parts, nil
}
