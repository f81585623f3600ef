package codec

import (
	"bytes"

	"github.com/pierrec/lz4"
)

// lz4Compressor uses the lz4 frame format. A fresh writer and reader are
// created per call, as lz4.Writer and lz4.Reader are not safe for concurrent use.
type lz4Compressor struct{}

func (lz4Compressor) ID() byte     { return LZ4ID }
func (lz4Compressor) Name() string { return LZ4 }

// Compress compresses data using lz4
func (lz4Compressor) Compress(data []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := lz4.NewWriter(buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress decompresses lz4-compressed data
func (lz4Compressor) Decompress(data []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(data))
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
