package errors

import (
	"fmt"
	"time"
)

// InvalidArgumentError occurs when a computation is requested with arguments it cannot accept.
// It is always reported before any work begins.
type InvalidArgumentError struct{ Msg string }

// Error returns a textual representation of this InvalidArgumentError
func (e InvalidArgumentError) Error() string {
	return e.Msg
}

// ProcessingError occurs when counting fails for one or more Partitions. A single
// failing Partition invalidates the entire computation.
type ProcessingError struct{ Cause error }

// Error returns a textual representation of this ProcessingError
func (e ProcessingError) Error() string {
	return fmt.Sprintf("Failed to process data: %v", e.Cause)
}

// Unwrap returns the underlying cause of this ProcessingError
func (e ProcessingError) Unwrap() error {
	return e.Cause
}

// TimeoutError occurs when a computation as a whole does not complete before its deadline
type TimeoutError struct{ Timeout time.Duration }

// Error returns a textual representation of this TimeoutError
func (e TimeoutError) Error() string {
	if e.Timeout <= 0 {
		return "Computation exceeded its deadline"
	}
	return fmt.Sprintf("Computation exceeded its deadline of %s", e.Timeout)
}

// CorruptTableError occurs when a serialized frequency table cannot be decoded
type CorruptTableError struct{ Reason string }

// Error returns a textual representation of this CorruptTableError
func (e CorruptTableError) Error() string {
	return fmt.Sprintf("Frequency table is corrupt: %s", e.Reason)
}
