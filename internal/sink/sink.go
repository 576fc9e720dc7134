// Package sink delivers encoded batches to their destination: stdout, a
// file, a SQL database, or an S3 multipart upload.
package sink

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"fourree/internal/config"
	"fourree/internal/encode"
	"fourree/internal/schema"
	"fourree/internal/suggest"
)

// Sink receives generated rows. A sink is owned by the single writer
// goroutine; implementations need no locking. WriteHeader and
// WriteBatch report the number of bytes handed downstream.
type Sink interface {
	WriteHeader() (int64, error)
	WriteBatch(rows [][]string) (int64, error)
	Close() error
}

// Open builds the sink for cfg.Output. Sinks fail here, before any
// generation starts, when their destination cannot be reached.
func Open(ctx context.Context, cfg config.Config, s *schema.Schema) (Sink, error) {
	enc, err := encode.New(cfg.Format, cfg.Delimiter, s)
	if err != nil {
		return nil, err
	}

	switch cfg.Output {
	case config.OutputStdout:
		return newStreamSink(os.Stdout, nil, enc), nil
	case config.OutputFile:
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			return nil, fmt.Errorf("create output file: %w", err)
		}
		return newStreamSink(f, f, enc), nil
	case config.OutputSQL:
		return openSQL(cfg, s)
	case config.OutputS3:
		return openS3(ctx, cfg, enc)
	}

	if hint := suggest.Closest(cfg.Output, config.OutputModes()); hint != "" {
		return nil, fmt.Errorf("unknown output mode %q (did you mean %q?)", cfg.Output, hint)
	}
	return nil, fmt.Errorf("unknown output mode %q (valid modes: %s)",
		cfg.Output, strings.Join(config.OutputModes(), ", "))
}

// streamSink buffers encoder output into any writer. It backs both the
// stdout and file modes.
type streamSink struct {
	w      *bufio.Writer
	closer io.Closer // nil for stdout
	enc    encode.Encoder
}

func newStreamSink(w io.Writer, closer io.Closer, enc encode.Encoder) *streamSink {
	return &streamSink{w: bufio.NewWriter(w), closer: closer, enc: enc}
}

func (s *streamSink) WriteHeader() (int64, error) {
	header := s.enc.Header()
	if header == nil {
		return 0, nil
	}
	n, err := s.w.Write(header)
	return int64(n), err
}

func (s *streamSink) WriteBatch(rows [][]string) (int64, error) {
	data, err := s.enc.EncodeBatch(rows)
	if err != nil {
		return 0, err
	}
	n, err := s.w.Write(data)
	return int64(n), err
}

func (s *streamSink) Close() error {
	if err := s.w.Flush(); err != nil {
		if s.closer != nil {
			_ = s.closer.Close()
		}
		return fmt.Errorf("flush output: %w", err)
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
