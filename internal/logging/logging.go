// Package logging configures the process-wide slog logger. Logs always
// go to stderr or a file, never stdout, so generated rows and log lines
// cannot interleave when the stdout sink is in use.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Options selects the handler built by Setup.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text or json
	File   string // log file path; empty means stderr
}

// Setup builds a logger from opts, installs it as the slog default and
// returns it along with a close function for the log file (a no-op when
// logging to stderr).
func Setup(opts Options) (*slog.Logger, func() error, error) {
	var level slog.Level
	switch opts.Level {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, nil, fmt.Errorf("unknown log level %q (expected debug, info, warn or error)", opts.Level)
	}

	var w io.Writer = os.Stderr
	closer := func() error { return nil }
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closer = f.Close
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch opts.Format {
	case "json":
		handler = slog.NewJSONHandler(w, handlerOpts)
	case "text", "":
		handler = slog.NewTextHandler(w, handlerOpts)
	default:
		_ = closer()
		return nil, nil, fmt.Errorf("unknown log format %q (expected text or json)", opts.Format)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, closer, nil
}
