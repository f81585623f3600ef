package accumulators

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/go-sif/kthfreq"
	"github.com/go-sif/kthfreq/errors"
	"github.com/go-sif/kthfreq/internal/codec"
)

const checksumSize = 8

// Counter returns a new Frequency Accumulator which serializes without compression.
// It satisfies kthfreq.AccumulatorFactory.
func Counter(memoryHint int64) kthfreq.Accumulator {
	return &Frequency{
		counts:     make(kthfreq.FrequencyTable),
		memoryHint: memoryHint,
		compressor: mustCompressor(codec.None),
	}
}

// CompressedCounter returns an AccumulatorFactory for Frequency Accumulators which
// compress their serialized form using the named compression ("none", "lz4" or "zstd")
func CompressedCounter(compression string) (kthfreq.AccumulatorFactory, error) {
	c, err := codec.ForName(compression)
	if err != nil {
		return nil, err
	}
	return func(memoryHint int64) kthfreq.Accumulator {
		return &Frequency{
			counts:     make(kthfreq.FrequencyTable),
			memoryHint: memoryHint,
			compressor: c,
		}
	}, nil
}

// FromTable wraps a copy of an existing FrequencyTable in a Frequency Accumulator
func FromTable(table kthfreq.FrequencyTable, compression string) (*Frequency, error) {
	c, err := codec.ForName(compression)
	if err != nil {
		return nil, err
	}
	return &Frequency{counts: table.Clone(), compressor: c}, nil
}

func mustCompressor(name string) codec.Compressor {
	c, err := codec.ForName(name)
	if err != nil {
		panic(err)
	}
	return c
}

// Frequency counts the exact number of occurrences of each value it is given.
// It never evicts or approximates, regardless of its memory hint.
type Frequency struct {
	counts     kthfreq.FrequencyTable
	memoryHint int64
	compressor codec.Compressor
}

// MemoryHint returns the memory threshold this Accumulator was created with. It is informational only.
func (a *Frequency) MemoryHint() int64 {
	return a.memoryHint
}

// Len returns the number of distinct values counted so far
func (a *Frequency) Len() int {
	return len(a.counts)
}

// Accumulate adds a value to this Accumulator
func (a *Frequency) Accumulate(value int) error {
	a.counts[value]++
	return nil
}

// Merge merges another Accumulator into this one. o is left untouched.
func (a *Frequency) Merge(o kthfreq.Accumulator) error {
	var counts kthfreq.FrequencyTable
	switch oa := o.(type) {
	case nil:
		return fmt.Errorf("Incoming accumulator is nil")
	case *Frequency:
		if oa == nil {
			return fmt.Errorf("Incoming accumulator is nil")
		}
		// skip the copy
		counts = oa.counts
	default:
		counts = o.Table()
	}
	for v, c := range counts {
		a.counts[v] += c
	}
	return nil
}

// Table returns a copy of the counts held by this Accumulator
func (a *Frequency) Table() kthfreq.FrequencyTable {
	return a.counts.Clone()
}

// ToBytes serializes this Accumulator as a count of entries, followed by
// (value, count) varint pairs in ascending value order, followed by an xxhash64
// checksum of everything before it. The result is then compressed.
func (a *Frequency) ToBytes() ([]byte, error) {
	values := make([]int, 0, len(a.counts))
	for v := range a.counts {
		values = append(values, v)
	}
	sort.Ints(values)
	buff := make([]byte, 0, binary.MaxVarintLen64*(2*len(values)+1)+checksumSize)
	buff = binary.AppendUvarint(buff, uint64(len(values)))
	for _, v := range values {
		buff = binary.AppendVarint(buff, int64(v))
		buff = binary.AppendUvarint(buff, uint64(a.counts[v]))
	}
	buff = binary.LittleEndian.AppendUint64(buff, xxhash.Sum64(buff))
	return codec.Frame(a.compressor, buff)
}

// FromBytes produces a new Accumulator from serialized data. The compression of
// the serialized data is detected automatically, and is retained by the result.
func (a *Frequency) FromBytes(buff []byte) (kthfreq.Accumulator, error) {
	compressor, err := codec.ForID(firstByte(buff))
	if err != nil {
		return nil, err
	}
	body, err := codec.Unframe(buff)
	if err != nil {
		return nil, err
	}
	if len(body) < checksumSize {
		return nil, errors.CorruptTableError{Reason: "missing checksum"}
	}
	payload, sum := body[:len(body)-checksumSize], body[len(body)-checksumSize:]
	if xxhash.Sum64(payload) != binary.LittleEndian.Uint64(sum) {
		return nil, errors.CorruptTableError{Reason: "checksum mismatch"}
	}
	n, read := binary.Uvarint(payload)
	if read <= 0 {
		return nil, errors.CorruptTableError{Reason: "unreadable entry count"}
	}
	payload = payload[read:]
	if n > uint64(len(payload)) {
		return nil, errors.CorruptTableError{Reason: "entry count exceeds payload"}
	}
	counts := make(kthfreq.FrequencyTable, n)
	for i := uint64(0); i < n; i++ {
		v, vread := binary.Varint(payload)
		if vread <= 0 {
			return nil, errors.CorruptTableError{Reason: fmt.Sprintf("unreadable value for entry %d", i)}
		}
		payload = payload[vread:]
		c, cread := binary.Uvarint(payload)
		if cread <= 0 {
			return nil, errors.CorruptTableError{Reason: fmt.Sprintf("unreadable count for entry %d", i)}
		}
		payload = payload[cread:]
		counts[int(v)] = int(c)
	}
	if len(payload) != 0 {
		return nil, errors.CorruptTableError{Reason: "trailing bytes after entries"}
	}
	return &Frequency{counts: counts, memoryHint: a.memoryHint, compressor: compressor}, nil
}

func firstByte(buff []byte) byte {
	if len(buff) == 0 {
		return codec.NoneID
	}
	return buff[0]
}
