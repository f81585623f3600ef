package codec

import (
	"fmt"

	"github.com/go-sif/kthfreq/errors"
)

// Compression identifiers, stored as the first byte of a compressed frame
const (
	NoneID byte = iota
	LZ4ID
	ZstdID
)

// Compression names, as accepted by ForName
const (
	None = "none"
	LZ4  = "lz4"
	Zstd = "zstd"
)

// A Compressor compresses serialized data (and the inverse). Implementations are safe for concurrent use.
type Compressor interface {
	ID() byte                               // ID identifies this Compressor within a frame header
	Name() string                           // Name is the configuration name of this Compressor
	Compress(data []byte) ([]byte, error)   // Compress compresses data
	Decompress(data []byte) ([]byte, error) // Decompress decompresses data produced by Compress
}

// ForName returns the Compressor with the given configuration name
func ForName(name string) (Compressor, error) {
	switch name {
	case None, "":
		return noneCompressor{}, nil
	case LZ4:
		return lz4Compressor{}, nil
	case Zstd:
		return zstdCompressor{}, nil
	default:
		return nil, errors.InvalidArgumentError{Msg: fmt.Sprintf("%q is an unknown compression, must be %q, %q or %q", name, None, LZ4, Zstd)}
	}
}

// ForID returns the Compressor identified by a frame header byte
func ForID(id byte) (Compressor, error) {
	switch id {
	case NoneID:
		return noneCompressor{}, nil
	case LZ4ID:
		return lz4Compressor{}, nil
	case ZstdID:
		return zstdCompressor{}, nil
	default:
		return nil, errors.CorruptTableError{Reason: fmt.Sprintf("unknown compression id %d", id)}
	}
}

// Frame compresses data with c, prefixing the result with c's ID
func Frame(c Compressor, data []byte) ([]byte, error) {
	compressed, err := c.Compress(data)
	if err != nil {
		return nil, err
	}
	res := make([]byte, 0, len(compressed)+1)
	res = append(res, c.ID())
	return append(res, compressed...), nil
}

// Unframe reverses Frame, selecting a Compressor from the frame header
func Unframe(frame []byte) ([]byte, error) {
	if len(frame) == 0 {
		return nil, errors.CorruptTableError{Reason: "empty frame"}
	}
	c, err := ForID(frame[0])
	if err != nil {
		return nil, err
	}
	data, err := c.Decompress(frame[1:])
	if err != nil {
		return nil, errors.CorruptTableError{Reason: fmt.Sprintf("unable to decompress %s frame: %v", c.Name(), err)}
	}
	return data, nil
}

type noneCompressor struct{}

func (noneCompressor) ID() byte     { return NoneID }
func (noneCompressor) Name() string { return None }

func (noneCompressor) Compress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

func (noneCompressor) Decompress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}
