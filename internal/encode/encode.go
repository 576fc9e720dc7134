// Package encode renders generated rows into the bytes a text sink
// writes: delimiter-joined lines, RFC 4180 CSV, or JSON lines.
package encode

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"fourree/internal/schema"
	"fourree/internal/suggest"
)

// Formats accepted by New.
const (
	FormatDelimited = "delimited"
	FormatCSV       = "csv"
	FormatJSONL     = "jsonl"
)

// Formats returns every recognized output format.
func Formats() []string {
	return []string{FormatDelimited, FormatCSV, FormatJSONL}
}

// Encoder renders a batch of rows to bytes. Encoders are used from a
// single writer goroutine and need no locking.
type Encoder interface {
	// EncodeBatch renders rows, one line each, including trailing newlines.
	EncodeBatch(rows [][]string) ([]byte, error)
	// Header renders the header line, or nil when the format carries
	// field names in every row.
	Header() []byte
}

// New returns the encoder for format, bound to the schema's field order.
func New(format, delimiter string, s *schema.Schema) (Encoder, error) {
	switch format {
	case FormatDelimited:
		return &delimitedEncoder{delimiter: delimiter, names: s.FieldNames()}, nil
	case FormatCSV:
		comma := ','
		if runes := []rune(delimiter); len(runes) == 1 {
			comma = runes[0]
		}
		return &csvEncoder{comma: comma, names: s.FieldNames()}, nil
	case FormatJSONL:
		return newJSONLEncoder(s), nil
	}
	if hint := suggest.Closest(format, Formats()); hint != "" {
		return nil, fmt.Errorf("unknown output format %q (did you mean %q?)", format, hint)
	}
	return nil, fmt.Errorf("unknown output format %q (valid formats: %s)", format, strings.Join(Formats(), ", "))
}

type delimitedEncoder struct {
	delimiter string
	names     []string
}

func (e *delimitedEncoder) EncodeBatch(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	for _, row := range rows {
		buf.WriteString(strings.Join(row, e.delimiter))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func (e *delimitedEncoder) Header() []byte {
	return []byte(strings.Join(e.names, e.delimiter) + "\n")
}

type csvEncoder struct {
	comma rune
	names []string
}

func (e *csvEncoder) EncodeBatch(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = e.comma
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *csvEncoder) Header() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = e.comma
	if err := w.Write(e.names); err != nil {
		return nil
	}
	w.Flush()
	return buf.Bytes()
}

type jsonlEncoder struct {
	names   []string
	numeric []bool // emit the value as a bare JSON number
}

func newJSONLEncoder(s *schema.Schema) *jsonlEncoder {
	e := &jsonlEncoder{
		names:   s.FieldNames(),
		numeric: make([]bool, len(s.Fields)),
	}
	for i, f := range s.Fields {
		switch f.Kind {
		case schema.KindInteger, schema.KindGauss, schema.KindGaussFloat:
			e.numeric[i] = true
		}
	}
	return e
}

// EncodeBatch writes objects by hand so keys keep schema order; the
// standard library sorts map keys and would lose it.
func (e *jsonlEncoder) EncodeBatch(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	for _, row := range rows {
		if len(row) != len(e.names) {
			return nil, fmt.Errorf("encode jsonl: row has %d values, schema has %d fields", len(row), len(e.names))
		}
		buf.WriteByte('{')
		for i, v := range row {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(e.names[i])
			if err != nil {
				return nil, fmt.Errorf("encode jsonl key %q: %w", e.names[i], err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			if e.numeric[i] {
				buf.WriteString(v)
				continue
			}
			buf.WriteString(strconv.Quote(v))
		}
		buf.WriteString("}\n")
	}
	return buf.Bytes(), nil
}

// Header is nil for jsonl: field names are the object keys.
func (e *jsonlEncoder) Header() []byte { return nil }
