package schema

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

// ParseJSON loads a schema from raw JSON. The document is walked value
// by value rather than unmarshalled into structs so every shape problem
// produces an error naming the offending key, the way the original tool
// reported them.
func ParseJSON(raw []byte) (*Schema, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("schema is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, fmt.Errorf("schema root must be a JSON object")
	}

	tableName := doc.Get("table_name")
	if !tableName.Exists() {
		return nil, fmt.Errorf("table_name is required")
	}
	if tableName.Type != gjson.String {
		return nil, fmt.Errorf("table_name must be a string")
	}

	fields := doc.Get("fields")
	if !fields.Exists() {
		return nil, fmt.Errorf("fields is required")
	}
	if !fields.IsArray() {
		return nil, fmt.Errorf("fields must be an array")
	}

	s := &Schema{TableName: tableName.String()}
	for i, fv := range fields.Array() {
		f, err := parseJSONField(i, fv)
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

func parseJSONField(index int, v gjson.Result) (Field, error) {
	if !v.IsObject() {
		return Field{}, fmt.Errorf("fields[%d] must be an object", index)
	}

	name, err := requiredString(v, "name", index)
	if err != nil {
		return Field{}, err
	}
	dataType, err := requiredString(v, "data_type", index)
	if err != nil {
		return Field{}, err
	}
	kind, err := requiredString(v, "generator", index)
	if err != nil {
		return Field{}, err
	}

	var p params
	if p.min, err = optionalInt(v, "min", name); err != nil {
		return Field{}, err
	}
	if p.max, err = optionalInt(v, "max", name); err != nil {
		return Field{}, err
	}
	if p.mean, err = optionalFloat(v, "mean", name); err != nil {
		return Field{}, err
	}
	if p.stdDev, err = optionalFloat(v, "std_dev", name); err != nil {
		return Field{}, err
	}
	if p.length, err = optionalInt(v, "length", name); err != nil {
		return Field{}, err
	}
	if p.minYear, err = optionalInt(v, "min_year", name); err != nil {
		return Field{}, err
	}
	if p.maxYear, err = optionalInt(v, "max_year", name); err != nil {
		return Field{}, err
	}
	if p.choices, err = optionalStrings(v, "choices", name); err != nil {
		return Field{}, err
	}

	return buildField(name, dataType, kind, p)
}

func requiredString(obj gjson.Result, key string, index int) (string, error) {
	v := obj.Get(key)
	if !v.Exists() {
		return "", fmt.Errorf("fields[%d]: %s is required", index, key)
	}
	if v.Type != gjson.String {
		return "", fmt.Errorf("fields[%d]: %s must be a string", index, key)
	}
	return v.String(), nil
}

func optionalInt(obj gjson.Result, key, fieldName string) (*int64, error) {
	v := obj.Get(key)
	if !v.Exists() {
		return nil, nil
	}
	if v.Type != gjson.Number || v.Num != math.Trunc(v.Num) {
		return nil, fmt.Errorf("field %q: %s must be an integer", fieldName, key)
	}
	n := v.Int()
	return &n, nil
}

func optionalFloat(obj gjson.Result, key, fieldName string) (*float64, error) {
	v := obj.Get(key)
	if !v.Exists() {
		return nil, nil
	}
	if v.Type != gjson.Number {
		return nil, fmt.Errorf("field %q: %s must be a number", fieldName, key)
	}
	f := v.Num
	return &f, nil
}

func optionalStrings(obj gjson.Result, key, fieldName string) ([]string, error) {
	v := obj.Get(key)
	if !v.Exists() {
		return nil, nil
	}
	if !v.IsArray() {
		return nil, fmt.Errorf("field %q: %s must be an array", fieldName, key)
	}
	elems := v.Array()
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		if e.Type != gjson.String {
			return nil, fmt.Errorf("field %q: %s must contain only strings", fieldName, key)
		}
		out = append(out, e.String())
	}
	return out, nil
}
