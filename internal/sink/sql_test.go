package sink

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"fourree/internal/config"
)

func sqliteConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.SchemaPath = "schema.json"
	cfg.Output = config.OutputSQL
	cfg.DBDriver = "sqlite3"
	cfg.DBDSN = filepath.Join(t.TempDir(), "out.db")
	return cfg
}

func TestSQLSinkInsertsBatches(t *testing.T) {
	cfg := sqliteConfig(t)
	s := testSchema()

	snk, err := Open(context.Background(), cfg, s)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := snk.WriteHeader(); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if _, err := snk.WriteBatch([][]string{{"1", "NA"}, {"2", "NA"}}); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if _, err := snk.WriteBatch([][]string{{"3", "NA"}}); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if err := snk.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite3", cfg.DBDSN)
	if err != nil {
		t.Fatalf("reopen database: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "orders"`).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 3 {
		t.Fatalf("table holds %d rows, want 3", count)
	}

	var id int64
	var region string
	if err := db.QueryRow(`SELECT "id", "region" FROM "orders" ORDER BY "id" LIMIT 1`).Scan(&id, &region); err != nil {
		t.Fatalf("read first row: %v", err)
	}
	if id != 1 || region != "NA" {
		t.Fatalf("first row = (%d, %q)", id, region)
	}
}

func TestSQLSinkIsIdempotentAcrossRuns(t *testing.T) {
	cfg := sqliteConfig(t)
	s := testSchema()

	for run := 0; run < 2; run++ {
		snk, err := Open(context.Background(), cfg, s)
		if err != nil {
			t.Fatalf("Open (run %d): %v", run, err)
		}
		if _, err := snk.WriteBatch([][]string{{"9", "NA"}}); err != nil {
			t.Fatalf("WriteBatch (run %d): %v", run, err)
		}
		if err := snk.Close(); err != nil {
			t.Fatalf("Close (run %d): %v", run, err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBDSN)
	if err != nil {
		t.Fatalf("reopen database: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "orders"`).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 2 {
		t.Fatalf("table holds %d rows after two runs, want 2", count)
	}
}

func TestSQLSinkRejectsRaggedRow(t *testing.T) {
	cfg := sqliteConfig(t)
	snk, err := Open(context.Background(), cfg, testSchema())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer snk.Close()

	if _, err := snk.WriteBatch([][]string{{"only-one"}}); err == nil {
		t.Fatal("WriteBatch accepted a row narrower than the table")
	}
}

func TestOpenSQLRejectsUnknownDriver(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.DBDriver = "oracle"
	if _, err := Open(context.Background(), cfg, testSchema()); err == nil {
		t.Fatal("Open accepted unknown driver")
	}
}
