package sink

import (
	"database/sql"
	"fmt"
	"strings"

	// Compiled-in database drivers for the sql output mode.
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"fourree/internal/config"
	"fourree/internal/schema"
)

// sqlSink inserts batches into a relational table named after the
// schema. Each batch is one transaction with a single multi-row INSERT,
// so a failed batch never leaves partial rows behind.
type sqlSink struct {
	db       *sql.DB
	table    string
	columns  []string
	postgres bool
}

func openSQL(cfg config.Config, s *schema.Schema) (*sqlSink, error) {
	switch cfg.DBDriver {
	case "sqlite3", "postgres":
	default:
		return nil, fmt.Errorf("unknown database driver %q (expected sqlite3 or postgres)", cfg.DBDriver)
	}

	db, err := sql.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	snk := &sqlSink{
		db:       db,
		table:    s.TableName,
		columns:  s.FieldNames(),
		postgres: cfg.DBDriver == "postgres",
	}
	if err := snk.createTable(s); err != nil {
		_ = db.Close()
		return nil, err
	}
	return snk, nil
}

func (s *sqlSink) createTable(sc *schema.Schema) error {
	cols := make([]string, len(sc.Fields))
	for i, f := range sc.Fields {
		cols[i] = fmt.Sprintf("%s %s", quoteIdent(f.Name), f.DataType)
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		quoteIdent(s.table), strings.Join(cols, ", "))
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// WriteHeader is a no-op: column names live in the table definition.
func (s *sqlSink) WriteHeader() (int64, error) { return 0, nil }

func (s *sqlSink) WriteBatch(rows [][]string) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	stmt, args, err := s.insertStatement(rows)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin batch transaction: %w", err)
	}
	if _, err := tx.Exec(stmt, args...); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("insert batch into %s: %w", s.table, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit batch: %w", err)
	}

	var bytes int64
	for _, row := range rows {
		for _, v := range row {
			bytes += int64(len(v))
		}
	}
	return bytes, nil
}

func (s *sqlSink) insertStatement(rows [][]string) (string, []any, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (", quoteIdent(s.table))
	for i, c := range s.columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteIdent(c))
	}
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(s.columns))
	placeholder := 0
	for ri, row := range rows {
		if len(row) != len(s.columns) {
			return "", nil, fmt.Errorf("row has %d values, table %s has %d columns", len(row), s.table, len(s.columns))
		}
		if ri > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for ci, v := range row {
			if ci > 0 {
				b.WriteString(", ")
			}
			placeholder++
			if s.postgres {
				fmt.Fprintf(&b, "$%d", placeholder)
			} else {
				b.WriteByte('?')
			}
			args = append(args, v)
		}
		b.WriteByte(')')
	}
	return b.String(), args, nil
}

func (s *sqlSink) Close() error {
	return s.db.Close()
}

// quoteIdent double-quotes an identifier, which both sqlite and
// postgres accept. Embedded quotes are doubled.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
