// Package resilience provides bounded retry with exponential backoff for
// calls against unreliable external scraping engines.
package resilience

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Policy controls retry behavior for a single fallible operation.
type Policy struct {
	// MaxAttempts is the total number of attempts (including the first try).
	// A value of 1 means no retries. Default: 3.
	MaxAttempts int

	// InitialDelay is the wait before the second attempt. Default: 5s.
	InitialDelay time.Duration

	// Multiplier scales the delay after each failed attempt. Default: 2.0.
	Multiplier float64

	// MaxDelay caps the computed delay. Zero means uncapped.
	MaxDelay time.Duration

	// ShouldRetry optionally gates retries per error. If nil, every error
	// is retried.
	ShouldRetry func(err error) bool

	// OnError is called after every failed attempt, including the final
	// one, with the 1-based attempt number and the error.
	OnError func(attempt int, err error)

	// OnWait is called before each backoff sleep with the attempt number
	// that just failed and the wait duration. Never called after the final
	// attempt.
	OnWait func(attempt int, wait time.Duration)
}

func (p Policy) withDefaults() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = 5 * time.Second
	}
	if p.Multiplier < 1 {
		p.Multiplier = 2.0
	}
	return p
}

// ExhaustedError is the terminal failure returned once every attempt has
// failed. It wraps the last underlying error.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Do executes fn up to p.MaxAttempts times, sleeping between attempts with
// exponential backoff. A successful call returns immediately with no further
// attempts and no further waits. When all attempts fail, the returned error
// is an *ExhaustedError carrying the last underlying error.
//
// Context cancellation aborts a pending backoff sleep and returns the last
// error as-is.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	p = p.withDefaults()

	var zero T
	var lastErr error

	delay := p.InitialDelay
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if p.OnError != nil {
			p.OnError(attempt, err)
		}

		if ctx.Err() != nil {
			return zero, lastErr
		}

		if p.ShouldRetry != nil && !p.ShouldRetry(lastErr) {
			return zero, lastErr
		}

		// No wait after the final attempt.
		if attempt == p.MaxAttempts {
			break
		}

		wait := delay
		if p.MaxDelay > 0 && wait > p.MaxDelay {
			wait = p.MaxDelay
		}
		if p.OnWait != nil {
			p.OnWait(attempt, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * p.Multiplier)
	}

	return zero, &ExhaustedError{Attempts: p.MaxAttempts, Err: lastErr}
}

// AttemptLogger returns OnError and OnWait callbacks that log each failed
// attempt and each backoff wait for the given work item.
func AttemptLogger(item string) (onError func(int, error), onWait func(int, time.Duration)) {
	onError = func(attempt int, err error) {
		zap.L().Warn("attempt failed",
			zap.String("item", item),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	onWait = func(attempt int, wait time.Duration) {
		zap.L().Info("waiting before retry",
			zap.String("item", item),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
		)
	}
	return onError, onWait
}
