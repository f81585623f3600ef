package testing

import (
	"fmt"

	"github.com/go-sif/kthfreq"
	"github.com/go-sif/kthfreq/accumulators"
)

// faultyCounter is a Frequency Accumulator with an injected fault
type faultyCounter struct {
	*accumulators.Frequency
	fault func(value int) error
}

// Accumulate runs the fault for value before counting it
func (f *faultyCounter) Accumulate(value int) error {
	if err := f.fault(value); err != nil {
		return err
	}
	return f.Frequency.Accumulate(value)
}

func faulty(fault func(value int) error) kthfreq.AccumulatorFactory {
	return func(memoryHint int64) kthfreq.Accumulator {
		return &faultyCounter{
			Frequency: accumulators.Counter(memoryHint).(*accumulators.Frequency),
			fault:     fault,
		}
	}
}

// FailingCounter returns an AccumulatorFactory whose Accumulators return cause upon receiving failOn
func FailingCounter(failOn int, cause error) kthfreq.AccumulatorFactory {
	return faulty(func(value int) error {
		if value == failOn {
			return cause
		}
		return nil
	})
}

// PanickingCounter returns an AccumulatorFactory whose Accumulators panic upon receiving panicOn
func PanickingCounter(panicOn int) kthfreq.AccumulatorFactory {
	return faulty(func(value int) error {
		if value == panicOn {
			panic(fmt.Sprintf("refusing to count %d", panicOn))
		}
		return nil
	})
}

// StallingCounter returns an AccumulatorFactory whose Accumulators block upon receiving
// stallOn, until release is closed
func StallingCounter(stallOn int, release <-chan struct{}) kthfreq.AccumulatorFactory {
	return faulty(func(value int) error {
		if value == stallOn {
			<-release
		}
		return nil
	})
}

// droppingCounter silently ignores one value
type droppingCounter struct {
	*accumulators.Frequency
	drop int
}

// Accumulate counts value, unless it is the dropped value
func (d *droppingCounter) Accumulate(value int) error {
	if value == d.drop {
		return nil
	}
	return d.Frequency.Accumulate(value)
}

// DroppingCounter returns an AccumulatorFactory whose Accumulators never count drop,
// without reporting an error
func DroppingCounter(drop int) kthfreq.AccumulatorFactory {
	return func(memoryHint int64) kthfreq.Accumulator {
		return &droppingCounter{
			Frequency: accumulators.Counter(memoryHint).(*accumulators.Frequency),
			drop:      drop,
		}
	}
}

// unmergeableCounter counts correctly, but refuses to merge
type unmergeableCounter struct {
	*accumulators.Frequency
	cause error
}

// Merge always fails with the configured cause
func (u *unmergeableCounter) Merge(_ kthfreq.Accumulator) error {
	return u.cause
}

// UnmergeableCounter returns an AccumulatorFactory whose Accumulators return cause from Merge
func UnmergeableCounter(cause error) kthfreq.AccumulatorFactory {
	return func(memoryHint int64) kthfreq.Accumulator {
		return &unmergeableCounter{
			Frequency: accumulators.Counter(memoryHint).(*accumulators.Frequency),
			cause:     cause,
		}
	}
}
