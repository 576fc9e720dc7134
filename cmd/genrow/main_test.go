package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testSchemaJSON = `{
  "table_name": "smoke",
  "fields": [
    {"name": "id", "data_type": "bigint", "generator": "integer", "min": 1, "max": 9},
    {"name": "code", "data_type": "varchar(6)", "generator": "string", "length": 6}
  ]
}`

func writeTestSchema(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.json")
	if err := os.WriteFile(path, []byte(testSchemaJSON), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	return path
}

func TestResolveSchemaPathPrefersArgument(t *testing.T) {
	t.Setenv(envSchemaPath, "/from/env.json")
	got, err := resolveSchemaPath([]string{"/from/arg.json"})
	if err != nil {
		t.Fatalf("resolveSchemaPath: %v", err)
	}
	if got != "/from/arg.json" {
		t.Fatalf("expected argument to win, got %q", got)
	}
}

func TestResolveSchemaPathUsesEnvFallback(t *testing.T) {
	t.Setenv(envSchemaPath, "/from/env.json")
	got, err := resolveSchemaPath(nil)
	if err != nil {
		t.Fatalf("resolveSchemaPath: %v", err)
	}
	if got != "/from/env.json" {
		t.Fatalf("expected env fallback, got %q", got)
	}
}

func TestResolveSchemaPathFailsWithoutInput(t *testing.T) {
	t.Setenv(envSchemaPath, "")
	if _, err := resolveSchemaPath(nil); err == nil {
		t.Fatal("expected an error when no schema path is given")
	}
}

func TestGenerateRowMatchesSchemaShape(t *testing.T) {
	row, err := generateRow(writeTestSchema(t))
	if err != nil {
		t.Fatalf("generateRow: %v", err)
	}
	parts := strings.Split(row, "\t")
	if len(parts) != 2 {
		t.Fatalf("row %q has %d fields, want 2", row, len(parts))
	}
	if parts[0] < "1" || parts[0] > "9" {
		t.Fatalf("id %q outside [1, 9]", parts[0])
	}
	if len(parts[1]) != 6 {
		t.Fatalf("code %q is not 6 characters", parts[1])
	}
}

func TestGenerateRowFailsOnBadSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	if err := os.WriteFile(path, []byte(`{"fields": []}`), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	if _, err := generateRow(path); err == nil {
		t.Fatal("expected an error for a schema without a table name")
	}
}
