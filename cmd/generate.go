package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fourree/internal/config"
	"fourree/internal/pipeline"
	"fourree/internal/schema"
	"fourree/internal/sink"
)

var generateCmd = &cobra.Command{
	Use:   "generate SCHEMA",
	Short: "Generate rows from a schema file",
	Long: `Loads the schema and generates the requested number of rows in
fixed-size batches across a pool of workers. Rows go to the selected
output; logs always go to stderr or the log file, so stdout output is
never interleaved with log lines.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	f := generateCmd.Flags()
	f.Int64P("rows", "n", config.DefaultRows, "number of rows to generate")
	f.Int64P("batch-size", "b", config.DefaultBatchSize, "rows per batch")
	f.IntP("workers", "t", config.DefaultWorkers, "number of generator workers")
	f.StringP("output", "o", config.DefaultOutput, "output mode (stdout, file, sql, s3)")
	f.StringP("output-file", "f", "", "output path (file mode) or bucket:key (s3 mode)")
	f.String("format", config.DefaultFormat, "row format (delimited, csv, jsonl)")
	f.String("delimiter", config.DefaultDelimiter, "field delimiter for delimited and csv formats")
	f.Bool("header", false, "write a header row before the data")
	f.Uint64("seed", 0, "RNG seed for reproducible runs (0 seeds from OS entropy)")
	f.Int64("rate", 0, "row generation budget per second (0 = unlimited)")
	f.String("db-driver", config.DefaultDBDriver, "database driver for sql output (sqlite3, postgres)")
	f.String("db-dsn", "", "database DSN for sql output")
	f.Duration("progress-every", config.DefaultProgressEvery, "progress report interval (0 disables)")
}

func generateConfig(schemaPath string) config.Config {
	cfg := config.Default()
	cfg.SchemaPath = schemaPath
	cfg.Rows = viper.GetInt64("rows")
	cfg.BatchSize = viper.GetInt64("batch-size")
	cfg.Workers = viper.GetInt("workers")
	cfg.Output = viper.GetString("output")
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Format = viper.GetString("format")
	cfg.Delimiter = viper.GetString("delimiter")
	cfg.Header = viper.GetBool("header")
	cfg.Seed = viper.GetUint64("seed")
	cfg.Rate = viper.GetInt64("rate")
	cfg.DBDriver = viper.GetString("db-driver")
	cfg.DBDSN = viper.GetString("db-dsn")
	cfg.ProgressEvery = viper.GetDuration("progress-every")
	return cfg
}

func runGenerate(ctx context.Context, schemaPath string) error {
	cfg := generateConfig(schemaPath)
	for _, w := range cfg.Normalize() {
		slog.Warn(w)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s, err := schema.Load(cfg.SchemaPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	log := slog.Default().With("run_id", runID)
	log.Info("starting run",
		"schema", cfg.SchemaPath,
		"fingerprint", s.Fingerprint(),
		"table", s.TableName,
		"rows", cfg.Rows,
		"batch_size", cfg.BatchSize,
		"workers", cfg.Workers,
		"output", cfg.Output,
	)

	snk, err := sink.Open(ctx, cfg, s)
	if err != nil {
		return err
	}

	started := time.Now()
	summary, err := pipeline.Run(ctx, cfg, s, snk, log)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("run canceled", "rows_written", summary.Rows, "elapsed", time.Since(started).Round(time.Millisecond))
		}
		return err
	}
	return nil
}
