// Package retry implements the bounded retry-with-backoff policy used wherever
// two otherwise-independent stores must converge (identity visibility after
// signup, profile provisioning against a just-created identity).
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy is a bounded, best-effort convergence loop. It is not a circuit
// breaker: after MaxAttempts the last error is returned as-is.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int
	// Delay returns the sleep before attempt n (1-based; not consulted after
	// the final attempt).
	Delay func(attempt int) time.Duration
	// Retryable decides whether an error is worth another attempt. A nil
	// predicate retries everything.
	Retryable func(error) bool
}

// Linear returns a schedule of base, 2*base, 3*base, ...
func Linear(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * base
	}
}

// Fixed returns a constant delay schedule.
func Fixed(d time.Duration) func(int) time.Duration {
	return func(int) time.Duration { return d }
}

// Do runs fn until it succeeds, returns a non-retryable error, or the attempt
// budget is exhausted. Context cancellation aborts between attempts.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("retry policy requires at least one attempt")
	}

	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt == p.MaxAttempts {
			break
		}

		delay := time.Duration(0)
		if p.Delay != nil {
			delay = p.Delay(attempt)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("gave up after %d attempts: %w", p.MaxAttempts, err)
}
