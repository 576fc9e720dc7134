package schema

import (
	"strings"
	"testing"

	"github.com/tidwall/sjson"
)

const validJSONSchema = `{
  "table_name": "orders",
  "fields": [
    {"name": "id", "data_type": "bigint", "generator": "integer", "min": 0, "max": 100000},
    {"name": "qty", "data_type": "integer", "generator": "gauss", "mean": 100, "std_dev": 15},
    {"name": "price", "data_type": "real", "generator": "gauss_float", "mean": 9.99, "std_dev": 2.5},
    {"name": "sku", "data_type": "varchar(12)", "generator": "string", "length": 12},
    {"name": "ordered_on", "data_type": "date", "generator": "date"},
    {"name": "region", "data_type": "varchar(2)", "generator": "choice", "choices": ["NA", "EU", "AP"]},
    {"name": "codes", "data_type": "varchar(8)", "generator": "choice", "choices": ["00", "01", "02"], "min": 2, "max": 4},
    {"name": "trace_id", "data_type": "uuid", "generator": "uuid"}
  ]
}`

func TestParseJSONValidSchema(t *testing.T) {
	s, err := ParseJSON([]byte(validJSONSchema))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	if s.TableName != "orders" {
		t.Fatalf("expected table_name=orders, got %q", s.TableName)
	}
	if len(s.Fields) != 8 {
		t.Fatalf("expected 8 fields, got %d", len(s.Fields))
	}

	id := s.Fields[0]
	if id.Kind != KindInteger || id.Min != 0 || id.Max != 100000 {
		t.Fatalf("unexpected integer field: %+v", id)
	}

	price := s.Fields[2]
	if price.Kind != KindGaussFloat || price.Mean != 9.99 || price.StdDev != 2.5 {
		t.Fatalf("unexpected gauss_float field: %+v", price)
	}

	// Defaults: single-pick choice, original year window for dates.
	region := s.Fields[5]
	if region.MinPicks != 1 || region.MaxPicks != 1 {
		t.Fatalf("expected default picks 1/1, got %d/%d", region.MinPicks, region.MaxPicks)
	}
	date := s.Fields[4]
	if date.MinYear != DefaultMinYear || date.MaxYear != DefaultMaxYear {
		t.Fatalf("expected default year window %d..%d, got %d..%d",
			DefaultMinYear, DefaultMaxYear, date.MinYear, date.MaxYear)
	}

	codes := s.Fields[6]
	if codes.MinPicks != 2 || codes.MaxPicks != 4 {
		t.Fatalf("expected picks 2/4, got %d/%d", codes.MinPicks, codes.MaxPicks)
	}
}

func TestParseJSONErrors(t *testing.T) {
	del := func(doc, path string) string {
		t.Helper()
		out, err := sjson.Delete(doc, path)
		if err != nil {
			t.Fatalf("sjson.Delete(%s): %v", path, err)
		}
		return out
	}
	set := func(doc, path string, value interface{}) string {
		t.Helper()
		out, err := sjson.Set(doc, path, value)
		if err != nil {
			t.Fatalf("sjson.Set(%s): %v", path, err)
		}
		return out
	}

	cases := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"not json", "{nope", "not valid JSON"},
		{"root not object", "[1,2]", "root must be a JSON object"},
		{"missing table_name", del(validJSONSchema, "table_name"), "table_name is required"},
		{"table_name not string", set(validJSONSchema, "table_name", 7), "table_name must be a string"},
		{"missing fields", del(validJSONSchema, "fields"), "fields is required"},
		{"fields not array", set(validJSONSchema, "fields", "x"), "fields must be an array"},
		{"field not object", set(validJSONSchema, "fields.0", 1), "fields[0] must be an object"},
		{"missing field name", del(validJSONSchema, "fields.0.name"), "fields[0]: name is required"},
		{"field name not string", set(validJSONSchema, "fields.0.name", 3), "fields[0]: name must be a string"},
		{"missing data_type", del(validJSONSchema, "fields.1.data_type"), "fields[1]: data_type is required"},
		{"missing generator", del(validJSONSchema, "fields.1.generator"), "fields[1]: generator is required"},
		{"missing min", del(validJSONSchema, "fields.0.min"), `field "id": min is required for an integer generator`},
		{"min not integer", set(validJSONSchema, "fields.0.min", 1.5), `field "id": min must be an integer`},
		{"min not a number", set(validJSONSchema, "fields.0.min", "low"), `field "id": min must be an integer`},
		{"missing mean", del(validJSONSchema, "fields.1.mean"), `field "qty": mean is required for a gauss generator`},
		{"missing std_dev", del(validJSONSchema, "fields.1.std_dev"), `field "qty": std_dev is required for a gauss generator`},
		{"std_dev not number", set(validJSONSchema, "fields.1.std_dev", "wide"), `field "qty": std_dev must be a number`},
		{"missing length", del(validJSONSchema, "fields.3.length"), `field "sku": length is required for a string generator`},
		{"missing choices", del(validJSONSchema, "fields.5.choices"), `field "region": choices are required for a choice generator`},
		{"choices not array", set(validJSONSchema, "fields.5.choices", "NA"), `field "region": choices must be an array`},
		{"choice element not string", set(validJSONSchema, "fields.5.choices.1", 4), `field "region": choices must contain only strings`},
		{"unknown generator with hint", set(validJSONSchema, "fields.0.generator", "intger"), `did you mean "integer"`},
		{"duplicate field names", set(validJSONSchema, "fields.1.name", "id"), `duplicate field name "id"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tc.doc))
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got: %v", tc.wantErr, err)
			}
		})
	}
}
