package resilience

import (
	"context"
	"time"
)

// Executor composes the resilience patterns around one upstream call path.
type Executor struct {
	rateLimiter    *RateLimiter
	inFlight       *InFlight
	retry          *RetryPolicy
	circuitBreaker *CircuitBreaker
	timeout        *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new resilience executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithRateLimiter adds provider budget limiting to the executor.
func WithRateLimiter(rl *RateLimiter) ExecutorOption {
	return func(e *Executor) {
		e.rateLimiter = rl
	}
}

// WithInFlight adds an in-flight call cap to the executor.
func WithInFlight(f *InFlight) ExecutorOption {
	return func(e *Executor) {
		e.inFlight = f
	}
}

// WithRetry adds retry logic to the executor.
func WithRetry(r *RetryPolicy) ExecutorOption {
	return func(e *Executor) {
		e.retry = r
	}
}

// WithCircuitBreaker adds a circuit breaker to the executor.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) {
		e.circuitBreaker = cb
	}
}

// WithTimeout adds a per-attempt timeout to the executor.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = NewTimeout(TimeoutConfig{Timeout: timeout})
	}
}

// WithTimeoutConfig adds a per-attempt timeout with custom config.
func WithTimeoutConfig(t *Timeout) ExecutorOption {
	return func(e *Executor) {
		e.timeout = t
	}
}

// Execute runs the operation through all configured patterns, charging the
// rate limiter's request dimension only. Use ExecuteWithCost when the
// estimated prompt token cost is known.
//
// The execution order, outermost first:
//  1. Rate limiter - enforces the provider's budgets
//  2. In-flight cap - limits concurrency
//  3. Retry - retries transient failures
//  4. Circuit breaker - fails fast on an unhealthy upstream
//  5. Timeout - bounds each individual attempt
//
// Retry sits outside the circuit breaker so a breaker rejection is not
// retried: ErrCircuitOpen is deterministic until the cooldown elapses, and
// the classifier refuses it regardless of configuration. Each retry
// attempt passes through the breaker and counts toward its thresholds.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	return e.ExecuteWithCost(ctx, 0, op)
}

// ExecuteWithCost is Execute with the estimated prompt token cost of the
// request, charged against the rate limiter's token-per-minute budget.
func (e *Executor) ExecuteWithCost(ctx context.Context, promptTokens int, op func(context.Context) error) error {
	// Build the execution chain from inside out
	execute := op

	// Wrap with timeout (innermost, per attempt)
	if e.timeout != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.timeout.Execute(ctx, inner)
		}
	}

	// Wrap with circuit breaker
	if e.circuitBreaker != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.circuitBreaker.Execute(ctx, inner)
		}
	}

	// Wrap with retry
	if e.retry != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.retry.Execute(ctx, inner)
		}
	}

	// Wrap with in-flight cap
	if e.inFlight != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.inFlight.Execute(ctx, inner)
		}
	}

	// Wrap with rate limiter (outermost)
	if e.rateLimiter != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.rateLimiter.Execute(ctx, promptTokens, inner)
		}
	}

	return execute(ctx)
}
