package kthfreq

// An Accumulator siphons the values of a single Partition into a frequency
// table. One Accumulator is created per Partition, and is only ever touched by
// the goroutine counting that Partition. Once counting is complete, the
// Accumulators of all Partitions are merged into one on the coordinating goroutine.
type Accumulator interface {
	Accumulate(value int) error                // Accumulate adds a value to this Accumulator
	Merge(o Accumulator) error                 // Merge merges another Accumulator into this one
	Table() FrequencyTable                     // Table returns a copy of the counts held by this Accumulator
	ToBytes() ([]byte, error)                  // ToBytes serializes this Accumulator
	FromBytes(buf []byte) (Accumulator, error) // FromBytes produces a new Accumulator from serialized data
}

// AccumulatorFactory produces a fresh, empty Accumulator. memoryHint is the
// configured per-partition memory threshold in bytes. It is advisory only and
// must not change the counts an Accumulator produces.
type AccumulatorFactory func(memoryHint int64) Accumulator
