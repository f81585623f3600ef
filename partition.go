package kthfreq

// A Partition is an ordered portion of an input sequence, owned by
// exactly one counting task for the duration of a computation.
type Partition struct {
	ID     int   // ID names the counting unit (0..N-1) which owns this Partition
	Values []int // Values are the elements assigned to this Partition, in input order
}

// Len returns the number of values in this Partition
func (p Partition) Len() int {
	return len(p.Values)
}

// IsEmpty returns true iff this Partition holds no values
func (p Partition) IsEmpty() bool {
	return len(p.Values) == 0
}
