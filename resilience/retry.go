package resilience

import (
	"context"
	"math/rand/v2"
	"time"
)

// RetryConfig configures the retry policy.
type RetryConfig struct {
	// MaxRetries is the number of retries after the initial attempt, so a
	// call makes at most MaxRetries+1 attempts.
	// Default: 3
	MaxRetries int

	// InitialDelay is the delay before the first retry.
	// Default: 100ms
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries.
	// Default: 30s
	MaxDelay time.Duration

	// BackoffFactor multiplies the delay after each retried failure:
	// delay = min(delay * BackoffFactor, MaxDelay).
	// Default: 2.0
	BackoffFactor float64

	// Retryable classifies failures as transient. Non-retryable failures
	// stop the loop immediately.
	// Default: DefaultRetryable()
	Retryable *Classifier

	// Jitter adds up to 25% randomness to each delay to avoid lockstep
	// retries across callers. Off by default so backoff timing stays
	// deterministic.
	Jitter bool

	// OnRetry is called before each retry sleep with the zero-based
	// attempt index, the failure, and the chosen delay.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// RetryPolicy retries transient failures with bounded exponential backoff.
//
// A policy holds configuration only; each Execute call owns its own attempt
// counter and delay, so one policy may be shared across call sites without
// locking.
type RetryPolicy struct {
	config RetryConfig
}

// NewRetryPolicy creates a new retry policy.
func NewRetryPolicy(config RetryConfig) *RetryPolicy {
	// Apply defaults
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = 100 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.BackoffFactor <= 0 {
		config.BackoffFactor = 2.0
	}
	if config.Retryable == nil {
		config.Retryable = DefaultRetryable()
	}

	return &RetryPolicy{config: config}
}

// Execute runs the operation, retrying classified-transient failures.
//
// Attempts are strictly sequential: attempt n+1 never starts before
// attempt n's failure is observed and the backoff delay has elapsed. On
// exhaustion or a non-retryable failure the last observed error is
// returned unchanged, never wrapped.
//
// An attempt that fails with the operation's own cancellation error is
// classified like any other failure. Cancellation that fires during the
// backoff sleep aborts the loop with ctx.Err().
func (r *RetryPolicy) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error
	delay := r.config.InitialDelay

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == r.config.MaxRetries || !r.config.Retryable.Retryable(err) {
			return lastErr
		}

		wait := delay
		if r.config.Jitter && wait > 0 {
			// #nosec G404 -- jitter is non-cryptographic timing variance.
			wait += time.Duration(rand.Int64N(int64(wait/4) + 1))
		}

		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, wait)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * r.config.BackoffFactor)
		if delay > r.config.MaxDelay {
			delay = r.config.MaxDelay
		}
	}

	return lastErr
}

// Config returns the retry configuration.
func (r *RetryPolicy) Config() RetryConfig {
	return r.config
}
