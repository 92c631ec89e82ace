// Package retry provides a generic classified-retry helper with exponential
// backoff. Any network call in the system can be wrapped with Do; the caller
// supplies a classifier that decides which failures are worth retrying.
package retry

import (
	"context"
	"time"
)

// Classifier reports whether err is transient. Errors it returns false for
// surface immediately without consuming further attempts.
type Classifier func(err error) bool

// Config controls the retry loop.
type Config struct {
	// MaxRetries is the number of retries beyond the first attempt.
	MaxRetries int
	// BaseDelay is the wait before the first retry; it doubles each retry.
	BaseDelay time.Duration
	// Sleep is swapped out in tests for a recording fake. Nil means real
	// context-aware sleeping.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultConfig matches the discovery client's contract: 4 attempts total,
// backoff 1s, 2s, 4s.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  time.Second,
	}
}

// Do invokes fn until it succeeds, returns a non-retryable error, or the
// attempt budget is exhausted. Backoff delays are strictly sequential: a
// failed attempt's delay completes before the next attempt starts. The last
// error seen is returned unmodified, so typed errors survive for callers
// using errors.As.
func Do[T any](ctx context.Context, cfg Config, retryable Classifier, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	sleep := cfg.Sleep
	if sleep == nil {
		sleep = realSleep
	}

	delay := cfg.BaseDelay
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, delay); err != nil {
				return zero, err
			}
			delay *= 2
		}

		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if !retryable(err) {
			return zero, err
		}
		lastErr = err
	}

	return zero, lastErr
}

// realSleep waits for d or until ctx is done, whichever comes first.
func realSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
