// Package pipeline runs a generation: a pool of worker goroutines
// produces batches of rows and a single writer goroutine hands them to
// the sink.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fourree/internal/config"
	"fourree/internal/gen"
	"fourree/internal/schema"
	"fourree/internal/sink"
	"fourree/internal/sysinfo"
)

// Summary reports what a finished run produced.
type Summary struct {
	Rows    int64
	Batches int64
	Bytes   int64
	Elapsed time.Duration
}

// Run generates cfg.Rows rows of s into snk. The sink is always closed
// before Run returns. The first sink or worker error cancels the whole
// run and is the returned error; a canceled context surfaces as its
// ctx.Err().
func Run(ctx context.Context, cfg config.Config, s *schema.Schema, snk sink.Sink, log *slog.Logger) (Summary, error) {
	started := time.Now()
	prog := newProgress()
	limiter := newRateLimiter(cfg.Rate)

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	if cfg.Header {
		n, err := snk.WriteHeader()
		if err != nil {
			_ = snk.Close()
			return Summary{}, err
		}
		prog.addBytes(n)
	}

	batches := make(chan [][]string, cfg.Workers)

	// Writer: the only goroutine that touches the sink. On error it
	// cancels the workers and keeps draining so none of them block.
	writerDone := make(chan error, 1)
	go func() {
		var firstErr error
		for batch := range batches {
			if firstErr != nil {
				continue
			}
			n, err := snk.WriteBatch(batch)
			if err != nil {
				firstErr = err
				cancel(err)
				continue
			}
			prog.addBatch(int64(len(batch)), n)
		}
		writerDone <- firstErr
	}()

	stopReporter := startReporter(cfg.ProgressEvery, prog, log)

	g, wctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		rng := gen.NewRand(cfg.Seed, w)
		g.Go(func() error {
			for b := int64(0); b < cfg.BatchesPerWorker(); b++ {
				if err := limiter.wait(wctx, cfg.BatchSize); err != nil {
					return err
				}
				batch := make([][]string, cfg.BatchSize)
				for i := range batch {
					batch[i] = gen.Row(rng, s)
				}
				select {
				case batches <- batch:
				case <-wctx.Done():
					return wctx.Err()
				}
			}
			return nil
		})
	}

	workerErr := g.Wait()
	close(batches)
	writeErr := <-writerDone
	stopReporter()

	closeErr := snk.Close()

	snap := prog.snapshot()
	summary := Summary{
		Rows:    snap.Rows,
		Batches: snap.Batches,
		Bytes:   snap.Bytes,
		Elapsed: time.Since(started),
	}

	switch {
	case writeErr != nil:
		return summary, writeErr
	case workerErr != nil:
		return summary, workerErr
	case closeErr != nil:
		return summary, closeErr
	}

	log.Info("generation complete",
		"rows", summary.Rows,
		"batches", summary.Batches,
		"bytes", summary.Bytes,
		"elapsed", summary.Elapsed.Round(time.Millisecond),
	)
	return summary, nil
}

// startReporter logs a progress snapshot on a fixed cadence. A zero or
// negative interval disables reporting. The returned stop function
// waits for the reporter to exit.
func startReporter(every time.Duration, prog *progress, log *slog.Logger) func() {
	if every <= 0 {
		return func() {}
	}

	sampler, err := sysinfo.NewSampler()
	if err != nil {
		log.Debug("resource sampling unavailable", "error", err)
		sampler = nil
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				snap := prog.snapshot()
				attrs := []any{
					"rows", snap.Rows,
					"batches", snap.Batches,
					"bytes", snap.Bytes,
					"rows_per_sec", int64(snap.RowsPerSec),
				}
				if sampler != nil {
					sample := sampler.Read()
					attrs = append(attrs,
						"cpu_percent", sample.CPUPercent,
						"rss_bytes", sample.RSSBytes,
					)
				}
				log.Info("progress", attrs...)
			}
		}
	}()

	return func() {
		close(stop)
		<-done
	}
}
