// Package datasource loads integer sequences for computations. Parsers for specific
// formats live in the parser subpackages, and sample sequences can be produced with
// package generate.
package datasource

import (
	"fmt"
	"io"
	"os"
)

// A Parser reads a sequence of integers from a stream. Parsers never return a nil
// slice on success, so an empty source yields an empty, non-nil sequence.
type Parser interface {
	Parse(r io.Reader) ([]int, error)
}

// Load parses a sequence from a stream
func Load(r io.Reader, parser Parser) ([]int, error) {
	data, err := parser.Parse(r)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []int{}
	}
	return data, nil
}

// LoadFile parses a sequence from the file at path
func LoadFile(path string, parser Parser) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()
	data, err := Load(f, parser)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", path, err)
	}
	return data, nil
}
