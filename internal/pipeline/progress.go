package pipeline

import (
	"encoding/json"
	"sync"
	"time"
)

// Snapshot is a point-in-time view of a run's progress.
type Snapshot struct {
	Rows       int64   `json:"rows"`
	Batches    int64   `json:"batches"`
	Bytes      int64   `json:"bytes"`
	RowsPerSec float64 `json:"rows_per_sec"`
	ElapsedSec float64 `json:"elapsed_sec"`
}

// progress counts what the writer has durably handed to the sink. Only
// the writer goroutine increments it; the reporter reads snapshots.
type progress struct {
	mu      sync.RWMutex
	started time.Time
	rows    int64
	batches int64
	bytes   int64
}

func newProgress() *progress {
	return &progress{started: time.Now()}
}

// addBatch records one written batch.
func (p *progress) addBatch(rows, bytes int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rows += rows
	p.batches++
	p.bytes += bytes
}

// addBytes records bytes that carry no data rows, such as a header.
func (p *progress) addBytes(n int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bytes += n
}

// snapshot returns a consistent copy of the counters.
func (p *progress) snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	elapsed := time.Since(p.started).Seconds()
	s := Snapshot{
		Rows:       p.rows,
		Batches:    p.batches,
		Bytes:      p.bytes,
		ElapsedSec: elapsed,
	}
	if elapsed > 0 {
		s.RowsPerSec = float64(p.rows) / elapsed
	}
	return s
}

// JSON returns the snapshot as a JSON byte slice.
func (p *progress) JSON() ([]byte, error) {
	return json.Marshal(p.snapshot())
}
