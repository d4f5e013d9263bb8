package scoring

import (
	"context"
	"time"
)

const (
	// DefaultMaxAttempts bounds every LLM call to four tries total.
	DefaultMaxAttempts = 4

	// DefaultBaseDelay seeds the exponential backoff schedule.
	DefaultBaseDelay = 1000 * time.Millisecond

	// DefaultMaxDelay caps a single backoff pause.
	DefaultMaxDelay = 10000 * time.Millisecond
)

// Retrier reruns failing operations on a capped exponential backoff
// schedule. Every failure class is retried the same way; callers that
// need class-specific handling (such as strategy fallback) inspect the
// final error after the retrier gives up.
type Retrier struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// NewRetrier returns a Retrier with the default schedule:
// four attempts, delays of 1s, 2s, 4s capped at 10s.
func NewRetrier() *Retrier {
	return &Retrier{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
	}
}

// Do invokes op up to MaxAttempts times, sleeping delayFor(attempt) before
// each retry. The last error is returned unchanged so callers can classify
// it without unwrapping retry bookkeeping. Context cancellation aborts the
// backoff sleep immediately.
func (r *Retrier) Do(ctx context.Context, op func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < r.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := r.sleep(ctx, r.delayFor(attempt-1)); err != nil {
				return err
			}
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if ctx.Err() != nil {
			return lastErr
		}
	}
	return lastErr
}

// delayFor computes the pause after a failed attempt k (0-indexed):
// min(BaseDelay * 2^k, MaxDelay).
func (r *Retrier) delayFor(k int) time.Duration {
	delay := r.BaseDelay << uint(k)
	if delay > r.MaxDelay || delay <= 0 {
		delay = r.MaxDelay
	}
	return delay
}

func (r *Retrier) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
