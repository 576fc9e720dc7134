// Package config holds the resolved settings for one generation run and
// the arithmetic constraints they must satisfy.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Defaults matching the tool's historical behavior.
const (
	DefaultRows          = 1000
	DefaultBatchSize     = 100
	DefaultWorkers       = 1
	MaxWorkers           = 128
	DefaultOutput        = OutputStdout
	DefaultFormat        = "delimited"
	DefaultDelimiter     = "\t"
	DefaultDBDriver      = "sqlite3"
	DefaultProgressEvery = 5 * time.Second
)

// Output modes.
const (
	OutputStdout = "stdout"
	OutputFile   = "file"
	OutputSQL    = "sql"
	OutputS3     = "s3"
)

// OutputModes returns every recognized output mode.
func OutputModes() []string {
	return []string{OutputStdout, OutputFile, OutputSQL, OutputS3}
}

// Config is the fully resolved configuration for one run. The cmd layer
// fills it from flags, environment and config file; everything below the
// cmd layer reads it as plain data.
type Config struct {
	SchemaPath string

	Rows      int64
	BatchSize int64
	Workers   int

	Output     string // stdout, file, sql, s3
	OutputFile string // file path, or bucket:key for s3
	Format     string // delimited, csv, jsonl
	Delimiter  string
	Header     bool

	Seed uint64 // 0 means seed from OS entropy
	Rate int64  // rows per second, 0 means unlimited

	DBDriver string
	DBDSN    string

	ProgressEvery time.Duration
}

// Default returns a Config carrying every default value.
func Default() Config {
	return Config{
		Rows:          DefaultRows,
		BatchSize:     DefaultBatchSize,
		Workers:       DefaultWorkers,
		Output:        DefaultOutput,
		Format:        DefaultFormat,
		Delimiter:     DefaultDelimiter,
		DBDriver:      DefaultDBDriver,
		ProgressEvery: DefaultProgressEvery,
	}
}

// Normalize clamps out-of-range values that are tolerated rather than
// rejected. It returns a warning per adjustment for the caller to log.
func (c *Config) Normalize() []string {
	var warnings []string
	if c.Workers > MaxWorkers {
		warnings = append(warnings, fmt.Sprintf("can't use more than %d workers, using %d", MaxWorkers, MaxWorkers))
		c.Workers = MaxWorkers
	}
	if c.Delimiter == "" {
		c.Delimiter = DefaultDelimiter
	}
	return warnings
}

// Validate checks the run constraints. Divisibility rules guarantee every
// worker generates the same number of whole batches, so a run produces
// exactly Rows rows instead of silently dropping a remainder.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SchemaPath) == "" {
		return fmt.Errorf("a schema file must be provided")
	}
	if c.Rows < 1 {
		return fmt.Errorf("rows must be at least 1")
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be at least 1")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.Rows%c.BatchSize != 0 {
		return fmt.Errorf("rows must be evenly divisible by batch size (%d %% %d != 0)", c.Rows, c.BatchSize)
	}
	batches := c.Rows / c.BatchSize
	if batches%int64(c.Workers) != 0 {
		return fmt.Errorf("number of batches must be evenly divisible by number of workers (%d %% %d != 0)", batches, c.Workers)
	}
	if c.Rate < 0 {
		return fmt.Errorf("rate must not be negative")
	}

	switch c.Output {
	case OutputStdout:
	case OutputFile:
		if strings.TrimSpace(c.OutputFile) == "" {
			return fmt.Errorf("an output file is required when output is %q", OutputFile)
		}
	case OutputSQL:
		if strings.TrimSpace(c.DBDSN) == "" {
			return fmt.Errorf("a database DSN is required when output is %q", OutputSQL)
		}
	case OutputS3:
		bucket, key, ok := strings.Cut(c.OutputFile, ":")
		if !ok || strings.TrimSpace(bucket) == "" || strings.TrimSpace(key) == "" {
			return fmt.Errorf("output file must follow the format bucket:key when output is %q", OutputS3)
		}
	default:
		// The sink factory reports unknown modes with a suggestion; here
		// we only guard the constraint checks above.
	}
	return nil
}

// Batches returns the total number of batches a valid config generates.
func (c *Config) Batches() int64 {
	return c.Rows / c.BatchSize
}

// BatchesPerWorker returns each worker's share of the batches.
func (c *Config) BatchesPerWorker() int64 {
	return c.Batches() / int64(c.Workers)
}
