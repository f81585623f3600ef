package codec

import (
	"github.com/klauspost/compress/zstd"
)

// zstdCompressor creates an Encoder or Decoder per call and closes it
// afterwards, so that no background goroutines outlive a call.
type zstdCompressor struct{}

func (zstdCompressor) ID() byte     { return ZstdID }
func (zstdCompressor) Name() string { return Zstd }

// Compress compresses data using zstd
func (zstdCompressor) Compress(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer encoder.Close()
	return encoder.EncodeAll(data, nil), nil
}

// Decompress decompresses zstd-compressed data
func (zstdCompressor) Decompress(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer decoder.Close()
	return decoder.DecodeAll(data, nil)
}
