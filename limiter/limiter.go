// Package limiter spaces out requests to sources that enforce a minimum
// interval between calls.
package limiter

import (
	"context"
	"sync"
	"time"
)

func New(delay time.Duration) *Limiter {
	return &Limiter{delay: delay}
}

type Limiter struct {
	mu     sync.Mutex
	delay  time.Duration
	nextAt time.Time
}

// Wait blocks until the next request slot opens, then claims it. It returns
// early with the context's error if the context is canceled while waiting.
func (lim *Limiter) Wait(ctx context.Context) error {
	lim.mu.Lock()
	now := time.Now()
	dur := lim.nextAt.Sub(now)
	if dur < 0 {
		dur = 0
	}
	lim.nextAt = now.Add(dur + lim.delay)
	lim.mu.Unlock()

	if dur == 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(dur):
		return nil
	}
}

// DelayBy pushes the next slot out further, for sources that answered with a
// retry-after style hint.
func (lim *Limiter) DelayBy(d time.Duration) {
	lim.mu.Lock()
	defer lim.mu.Unlock()

	if at := time.Now().Add(d); at.After(lim.nextAt) {
		lim.nextAt = at
	}
}
