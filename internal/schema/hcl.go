package schema

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// HCL schema format:
//
//	table "orders" {
//	  field "id" {
//	    data_type = "bigint"
//	    generator = "integer"
//	    min       = 0
//	    max       = 100000
//	  }
//	}
type hclSchemaFile struct {
	Table *hclTable `hcl:"table,block"`
}

type hclTable struct {
	Name   string     `hcl:"name,label"`
	Fields []hclField `hcl:"field,block"`
}

type hclField struct {
	Name      string   `hcl:"name,label"`
	DataType  string   `hcl:"data_type"`
	Generator string   `hcl:"generator"`
	Min       *int64   `hcl:"min,optional"`
	Max       *int64   `hcl:"max,optional"`
	Mean      *float64 `hcl:"mean,optional"`
	StdDev    *float64 `hcl:"std_dev,optional"`
	Length    *int64   `hcl:"length,optional"`
	Choices   []string `hcl:"choices,optional"`
	MinYear   *int64   `hcl:"min_year,optional"`
	MaxYear   *int64   `hcl:"max_year,optional"`
}

// ParseHCL loads a schema from HCL source. filename is used only for
// diagnostics and must carry an .hcl extension.
func ParseHCL(filename string, src []byte) (*Schema, error) {
	var root hclSchemaFile
	if err := hclsimple.Decode(filename, src, nil, &root); err != nil {
		return nil, err
	}
	if root.Table == nil {
		return nil, fmt.Errorf("schema must declare a table block")
	}

	s := &Schema{TableName: root.Table.Name}
	for _, hf := range root.Table.Fields {
		f, err := buildField(hf.Name, hf.DataType, hf.Generator, params{
			min:     hf.Min,
			max:     hf.Max,
			mean:    hf.Mean,
			stdDev:  hf.StdDev,
			length:  hf.Length,
			choices: hf.Choices,
			minYear: hf.MinYear,
			maxYear: hf.MaxYear,
		})
		if err != nil {
			return nil, err
		}
		s.Fields = append(s.Fields, f)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
