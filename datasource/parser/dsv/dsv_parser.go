package dsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-sif/kthfreq/datasource"
)

// ParserConf configures a DSV Parser
type ParserConf struct {
	HeaderLines int    // The number of lines to ignore from the beginning of each file. Defaults to 0.
	Delimiter   rune   // The delimiter separating columns in the file. Defaults to ,
	Comment     rune   // Lines beginning with the comment character are ignored. Cannot be equal to the Delimiter. Defaults to no comment character.
	NilValue    string // A special string which represents nil values in the dataset, which are skipped. Defaults to "" (the empty string).
	Column      int    // The zero-based column holding values. Defaults to 0. Use AllColumns to read every field.
}

// AllColumns configures a Parser to read every field of every record, in order
const AllColumns = -1

// Parser produces integer sequences from DSV data
type Parser struct {
	conf *ParserConf
}

var _ datasource.Parser = (*Parser)(nil)

// CreateParser returns a new DSV Parser
func CreateParser(conf *ParserConf) *Parser {
	if conf.Delimiter == 0 {
		conf.Delimiter = ','
	}
	return &Parser{conf: conf}
}

// Parse parses DSV data, in record order
func (p *Parser) Parse(r io.Reader) ([]int, error) {
	if p.conf.Column < AllColumns {
		return nil, fmt.Errorf("column %d is not a valid column", p.conf.Column)
	}
	reader := csv.NewReader(r)
	reader.Comma = p.conf.Delimiter
	reader.Comment = p.conf.Comment
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true
	reader.TrimLeadingSpace = true

	// ignore header lines, if configured to do so
	for i := 0; i < p.conf.HeaderLines; i++ {
		if _, err := reader.Read(); err == io.EOF {
			return []int{}, nil
		} else if err != nil {
			return nil, err
		}
	}

	data := make([]int, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)
		if p.conf.Column == AllColumns {
			for _, field := range record {
				if data, err = p.appendField(data, field, line); err != nil {
					return nil, err
				}
			}
			continue
		}
		if p.conf.Column >= len(record) {
			return nil, fmt.Errorf("line %d has %d columns, but column %d was requested", line, len(record), p.conf.Column)
		}
		if data, err = p.appendField(data, record[p.conf.Column], line); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func (p *Parser) appendField(data []int, field string, line int) ([]int, error) {
	field = strings.TrimSpace(field)
	if field == p.conf.NilValue {
		return data, nil
	}
	v, err := strconv.Atoi(field)
	if err != nil {
		return nil, fmt.Errorf("line %d: %q is not an integer", line, field)
	}
	return append(data, v), nil
}
