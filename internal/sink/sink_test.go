package sink

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fourree/internal/config"
	"fourree/internal/schema"
)

func testSchema() *schema.Schema {
	return &schema.Schema{
		TableName: "orders",
		Fields: []schema.Field{
			{Name: "id", DataType: "bigint", Kind: schema.KindInteger, Min: 0, Max: 10},
			{Name: "region", DataType: "text", Kind: schema.KindChoice, Choices: []string{"NA"}, MinPicks: 1, MaxPicks: 1},
		},
	}
}

func fileConfig(path string) config.Config {
	cfg := config.Default()
	cfg.SchemaPath = "schema.json"
	cfg.Output = config.OutputFile
	cfg.OutputFile = path
	return cfg
}

func TestFileSinkRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")

	snk, err := Open(context.Background(), fileConfig(path), testSchema())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := snk.WriteHeader(); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	n, err := snk.WriteBatch([][]string{{"1", "NA"}, {"2", "NA"}})
	if err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if n == 0 {
		t.Fatal("WriteBatch reported 0 bytes")
	}
	if err := snk.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "id\tregion\n1\tNA\n2\tNA\n"
	if string(raw) != want {
		t.Fatalf("output = %q, want %q", raw, want)
	}
}

func TestFileSinkCreationFailsBeforeGeneration(t *testing.T) {
	cfg := fileConfig(filepath.Join(t.TempDir(), "missing", "dir", "out.tsv"))
	if _, err := Open(context.Background(), cfg, testSchema()); err == nil {
		t.Fatal("Open created a sink in a missing directory")
	}
}

func TestOpenRejectsUnknownMode(t *testing.T) {
	cfg := config.Default()
	cfg.SchemaPath = "schema.json"
	cfg.Output = "ftp"
	_, err := Open(context.Background(), cfg, testSchema())
	if err == nil {
		t.Fatal("Open accepted unknown mode")
	}
	if !strings.Contains(err.Error(), "valid modes") {
		t.Fatalf("error %q does not list valid modes", err)
	}

	cfg.Output = "stdut"
	_, err = Open(context.Background(), cfg, testSchema())
	if err == nil || !strings.Contains(err.Error(), `did you mean "stdout"`) {
		t.Fatalf("near-miss mode error = %v, want a stdout suggestion", err)
	}
}

func TestOpenRejectsBadFormatBeforeTouchingDestination(t *testing.T) {
	cfg := fileConfig(filepath.Join(t.TempDir(), "out.tsv"))
	cfg.Format = "parquet"
	if _, err := Open(context.Background(), cfg, testSchema()); err == nil {
		t.Fatal("Open accepted unknown format")
	}
	if _, err := os.Stat(cfg.OutputFile); err == nil {
		t.Fatal("output file was created despite the format error")
	}
}
