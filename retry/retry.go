// Package retry runs an operation under a bounded retry policy with
// pluggable backoff, error classification and an optional confirmation
// hook consulted before every new attempt.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ErrDeclined is returned when Confirm refuses another attempt.
var ErrDeclined = errors.New("retry declined")

// Policy bounds how an operation is retried. The zero value runs the
// operation once.
type Policy struct {
	// MaxAttempts is the total number of attempts, first one included.
	// Values below one are treated as one.
	MaxAttempts int
	// Backoff paces attempts. Nil retries immediately; a NextBackOff of
	// backoff.Stop ends the loop.
	Backoff backoff.BackOff
	// Retryable classifies errors. Nil uses DefaultRetryable.
	Retryable func(error) bool
	// Confirm, if set, is asked before each retry. attempt is the number
	// of the attempt that just failed.
	Confirm func(ctx context.Context, attempt int, err error) bool
	Logger  *slog.Logger
}

// Do calls fn until it succeeds, returns a non-retryable error, the
// attempts run out, Confirm declines or ctx ends. Failures are wrapped
// with the number of attempts made.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	maxAttempts := max(p.MaxAttempts, 1)

	b := p.Backoff
	if b == nil {
		b = &backoff.ZeroBackOff{}
	}
	b.Reset()

	retryable := p.Retryable
	if retryable == nil {
		retryable = DefaultRetryable
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	for attempt := 1; ; attempt++ {
		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}

		switch {
		case ctx.Err() != nil:
			return exhausted(attempt, err)
		case !retryable(err):
			logger.Debug("error is not retryable", "attempt", attempt, "error", err)
			return exhausted(attempt, err)
		case attempt >= maxAttempts:
			return exhausted(attempt, err)
		}

		if p.Confirm != nil && !p.Confirm(ctx, attempt, err) {
			return exhausted(attempt, fmt.Errorf("%w: %w", ErrDeclined, err))
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			return exhausted(attempt, err)
		}

		logger.Info("retrying", "next_attempt", attempt+1, "max_attempts", maxAttempts, "wait", wait.String(), "error", err)

		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return exhausted(attempt, fmt.Errorf("waiting to retry: %w: %w", ctx.Err(), err))
			case <-timer.C:
			}
		}
	}
}

func exhausted(attempts int, err error) error {
	if attempts == 1 {
		return err
	}
	return fmt.Errorf("after %d attempts: %w", attempts, err)
}

// Exponential returns a jittered exponential backoff starting at initial
// and capped at maxInterval.
func Exponential(initial, maxInterval time.Duration) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.MaxInterval = maxInterval
	return b
}
