// Package schema defines the table description fourree generates data
// from, plus loaders for the JSON and HCL schema file formats.
package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"fourree/internal/suggest"
)

// Generator kinds accepted in schema files.
const (
	KindInteger    = "integer"
	KindGauss      = "gauss"
	KindGaussFloat = "gauss_float"
	KindString     = "string"
	KindDate       = "date"
	KindChoice     = "choice"
	KindUUID       = "uuid"
)

// Default year window for date fields, matching the span the original
// tool produced (offsets 0..116 from 1900).
const (
	DefaultMinYear = 1900
	DefaultMaxYear = 2016
)

// Kinds returns every recognized generator kind.
func Kinds() []string {
	return []string{KindInteger, KindGauss, KindGaussFloat, KindString, KindDate, KindChoice, KindUUID}
}

// Field is a single column of the generated table. Only the parameters
// relevant to Kind are populated; the rest stay zero.
type Field struct {
	Name     string
	DataType string
	Kind     string

	Min    int64   // integer
	Max    int64   // integer
	Mean   float64 // gauss, gauss_float
	StdDev float64 // gauss, gauss_float
	Length int     // string

	Choices  []string // choice
	MinPicks int      // choice
	MaxPicks int      // choice

	MinYear int // date
	MaxYear int // date
}

// Schema describes the table to generate: its name and ordered fields.
type Schema struct {
	TableName string
	Fields    []Field
}

// FieldNames returns the field names in declaration order. This is the
// header row for delimited output and the column list for the SQL sink.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Validate checks the structural and numeric rules a loaded or
// programmatically built schema must satisfy.
func (s *Schema) Validate() error {
	if strings.TrimSpace(s.TableName) == "" {
		return fmt.Errorf("table_name is required")
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema must declare at least one field")
	}

	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("field name is required")
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("duplicate field name %q", f.Name)
		}
		seen[f.Name] = struct{}{}

		if strings.TrimSpace(f.DataType) == "" {
			return fmt.Errorf("field %q: data_type is required", f.Name)
		}
		if err := f.check(); err != nil {
			return err
		}
	}
	return nil
}

func (f *Field) check() error {
	switch f.Kind {
	case KindInteger:
		if f.Min > f.Max {
			return fmt.Errorf("field %q: min must not exceed max", f.Name)
		}
	case KindGauss, KindGaussFloat:
		if f.StdDev < 0 {
			return fmt.Errorf("field %q: std_dev must not be negative", f.Name)
		}
	case KindString:
		if f.Length < 1 {
			return fmt.Errorf("field %q: length must be a positive integer", f.Name)
		}
	case KindChoice:
		if len(f.Choices) == 0 {
			return fmt.Errorf("field %q: choices must not be empty", f.Name)
		}
		for _, c := range f.Choices {
			if c == "" {
				return fmt.Errorf("field %q: choices must not contain empty strings", f.Name)
			}
		}
		if f.MinPicks < 1 {
			return fmt.Errorf("field %q: min picks must be at least 1", f.Name)
		}
		if f.MaxPicks < f.MinPicks {
			return fmt.Errorf("field %q: max picks must not be less than min picks", f.Name)
		}
	case KindDate:
		if f.MinYear > f.MaxYear {
			return fmt.Errorf("field %q: min_year must not exceed max_year", f.Name)
		}
	case KindUUID:
		// no parameters
	default:
		return unknownKindError(f.Name, f.Kind)
	}
	return nil
}

func unknownKindError(fieldName, kind string) error {
	if hint := suggest.Closest(kind, Kinds()); hint != "" {
		return fmt.Errorf("field %q: unknown generator %q (did you mean %q?)", fieldName, kind, hint)
	}
	return fmt.Errorf("field %q: unknown generator %q (valid generators: %s)",
		fieldName, kind, strings.Join(Kinds(), ", "))
}

// Fingerprint returns a short stable digest of the schema. It is logged
// at the start of every run so output files can be traced back to the
// exact schema that produced them.
func (s *Schema) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "table=%s\n", s.TableName)
	for _, f := range s.Fields {
		fmt.Fprintf(h, "%s|%s|%s|%d|%d|%g|%g|%d|%s|%d|%d|%d|%d\n",
			f.Name, f.DataType, f.Kind,
			f.Min, f.Max, f.Mean, f.StdDev, f.Length,
			strings.Join(f.Choices, ","), f.MinPicks, f.MaxPicks,
			f.MinYear, f.MaxYear)
	}
	return hex.EncodeToString(h.Sum(nil))[:12]
}

// params carries the optional generator attributes a loader found in a
// field declaration. Pointers distinguish "absent" from zero values.
type params struct {
	min     *int64
	max     *int64
	mean    *float64
	stdDev  *float64
	length  *int64
	choices []string
	minYear *int64
	maxYear *int64
}

// buildField assembles a Field from loader output, enforcing which
// attributes each generator kind requires and applying defaults. Range
// checks happen later in Validate.
func buildField(name, dataType, kind string, p params) (Field, error) {
	f := Field{Name: name, DataType: dataType, Kind: kind}

	switch kind {
	case KindInteger:
		if p.min == nil {
			return Field{}, fmt.Errorf("field %q: min is required for an integer generator", name)
		}
		if p.max == nil {
			return Field{}, fmt.Errorf("field %q: max is required for an integer generator", name)
		}
		f.Min, f.Max = *p.min, *p.max
	case KindGauss, KindGaussFloat:
		if p.mean == nil {
			return Field{}, fmt.Errorf("field %q: mean is required for a %s generator", name, kind)
		}
		if p.stdDev == nil {
			return Field{}, fmt.Errorf("field %q: std_dev is required for a %s generator", name, kind)
		}
		f.Mean, f.StdDev = *p.mean, *p.stdDev
	case KindString:
		if p.length == nil {
			return Field{}, fmt.Errorf("field %q: length is required for a string generator", name)
		}
		f.Length = int(*p.length)
	case KindChoice:
		if len(p.choices) == 0 {
			return Field{}, fmt.Errorf("field %q: choices are required for a choice generator", name)
		}
		f.Choices = p.choices
		f.MinPicks, f.MaxPicks = 1, 1
		if p.min != nil {
			f.MinPicks = int(*p.min)
		}
		if p.max != nil {
			f.MaxPicks = int(*p.max)
		} else if p.min != nil {
			f.MaxPicks = f.MinPicks
		}
	case KindDate:
		f.MinYear, f.MaxYear = DefaultMinYear, DefaultMaxYear
		if p.minYear != nil {
			f.MinYear = int(*p.minYear)
		}
		if p.maxYear != nil {
			f.MaxYear = int(*p.maxYear)
		}
	case KindUUID:
		// no parameters
	default:
		return Field{}, unknownKindError(name, kind)
	}
	return f, nil
}
