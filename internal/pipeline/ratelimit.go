package pipeline

import (
	"context"
	"sync"
	"time"
)

// rateLimiter budgets generated rows per one-second window. A zero
// budget disables limiting. Workers call wait before producing a batch,
// so limiting happens at batch granularity.
type rateLimiter struct {
	mu          sync.Mutex
	rowsPerSec  int64
	windowStart time.Time
	spent       int64

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

func newRateLimiter(rowsPerSec int64) *rateLimiter {
	return &rateLimiter{
		rowsPerSec: rowsPerSec,
		now:        time.Now,
		sleep:      sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// wait blocks until n rows fit in the current or a following window.
// Batches larger than the whole budget are admitted one window at a
// time rather than rejected.
func (r *rateLimiter) wait(ctx context.Context, n int64) error {
	if r == nil || r.rowsPerSec <= 0 {
		return nil
	}
	for n > 0 {
		r.mu.Lock()
		now := r.now()
		if r.windowStart.IsZero() || now.Sub(r.windowStart) >= time.Second {
			r.windowStart = now
			r.spent = 0
		}
		free := r.rowsPerSec - r.spent
		if free > 0 {
			take := free
			if n < take {
				take = n
			}
			r.spent += take
			n -= take
			r.mu.Unlock()
			continue
		}
		until := r.windowStart.Add(time.Second)
		r.mu.Unlock()

		if err := r.sleep(ctx, until.Sub(now)); err != nil {
			return err
		}
	}
	return nil
}
