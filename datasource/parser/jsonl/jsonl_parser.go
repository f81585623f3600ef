package jsonl

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-sif/kthfreq/datasource"
	"github.com/tidwall/gjson"
)

// ParserConf configures a JSONL Parser, suitable for JSON lines data
type ParserConf struct {
	Path          string // A gjson path selecting the value(s) within each line. Defaults to the whole line. Arrays contribute each of their elements.
	HeaderLines   int    // The number of lines to ignore from the beginning of each file. Defaults to 0.
	Comment       rune   // Lines beginning with the comment character are ignored. Defaults to no comment character.
	SkipMissing   bool   // iff true, lines where Path matches nothing are ignored rather than rejected
	MaxBufferSize int    // Maximum size in bytes of the buffer used to read lines from the file
}

// Parser produces integer sequences from JSONL data
type Parser struct {
	conf *ParserConf
}

var _ datasource.Parser = (*Parser)(nil)

// CreateParser returns a new JSONL Parser
func CreateParser(conf *ParserConf) *Parser {
	if conf.MaxBufferSize == 0 {
		conf.MaxBufferSize = bufio.MaxScanTokenSize
	}
	return &Parser{conf: conf}
}

// Parse parses JSONL data, in line order
func (p *Parser) Parse(r io.Reader) ([]int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), p.conf.MaxBufferSize)
	data := make([]int, 0)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum <= p.conf.HeaderLines {
			continue
		}
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || (p.conf.Comment != 0 && strings.HasPrefix(line, string(p.conf.Comment))) {
			continue
		}
		if !gjson.Valid(line) {
			return nil, fmt.Errorf("line %d is not valid JSON", lineNum)
		}
		var res gjson.Result
		if len(p.conf.Path) == 0 {
			res = gjson.Parse(line)
		} else {
			res = gjson.Get(line, p.conf.Path)
		}
		if !res.Exists() {
			if p.conf.SkipMissing {
				continue
			}
			return nil, fmt.Errorf("line %d has no value at path %q", lineNum, p.conf.Path)
		}
		var err error
		if res.IsArray() {
			res.ForEach(func(_, elem gjson.Result) bool {
				var v int
				if v, err = toInt(elem); err == nil {
					data = append(data, v)
				}
				return err == nil
			})
		} else {
			var v int
			if v, err = toInt(res); err == nil {
				data = append(data, v)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

func toInt(res gjson.Result) (int, error) {
	if res.Type != gjson.Number {
		return 0, fmt.Errorf("%q is not a number", res.Raw)
	}
	i, err := strconv.ParseInt(res.Raw, 10, 64)
	if err == nil {
		return int(i), nil
	}
	if stderrors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%s is out of range", res.Raw)
	}
	// fractional and exponent forms, such as 1e3
	f := res.Float()
	// float64(math.MaxInt64) rounds up to 2^63, which is itself out of range
	if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%s is not an integer in range", res.Raw)
	}
	return int(f), nil
}
