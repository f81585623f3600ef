package util

import (
	"fmt"

	"github.com/go-sif/kthfreq"
)

// CountOperation counts the values of one Partition into an Accumulator
type CountOperation func(part kthfreq.Partition) (kthfreq.Accumulator, error)

// SafeCountOperation wraps a CountOperation such that panics are recovered and nice error messages are constructed
func SafeCountOperation(countOp CountOperation) CountOperation {
	return func(part kthfreq.Partition) (acc kthfreq.Accumulator, err error) {
		defer func() {
			if r := recover(); r != nil {
				acc = nil
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Count Panic in partition %d: %w\n%s", part.ID, anErr, GetTrace())
				} else {
					err = fmt.Errorf("Count Panic in partition %d: %v\n%s", part.ID, r, GetTrace())
				}
			} else if err != nil {
				err = fmt.Errorf("Count Error in partition %d: %w", part.ID, err)
			}
		}()
		acc, err = countOp(part)
		return
	}
}
