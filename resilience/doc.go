// Package resilience protects calls to unreliable LLM upstreams.
//
// LLM providers fail in bursts: connections reset, requests time out,
// capacity errors come back as 5xx. This package implements the patterns a
// gateway needs to survive that without hammering a struggling upstream.
//
// # Patterns
//
//   - Circuit Breaker: stops calling an upstream after consecutive
//     failures, then probes recovery with a limited number of calls.
//
//   - Retry: retries classified-transient failures with exponential
//     backoff up to a cap. Classification matches the failure's code and
//     message against a configurable allow-list (see Classifier).
//
//   - Rate Limiter: enforces a provider's request-per-minute and
//     token-per-minute budgets.
//
//   - In-Flight Cap: limits concurrent calls to one upstream.
//
//   - Timeout: bounds the duration of a single attempt.
//
// # Usage
//
// Each pattern can be used independently or composed:
//
//	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    FailureThreshold: 5,
//	    ResetTimeout:     time.Minute,
//	})
//
//	retry := resilience.NewRetryPolicy(resilience.RetryConfig{
//	    MaxRetries:    3,
//	    InitialDelay:  100 * time.Millisecond,
//	    MaxDelay:      5 * time.Second,
//	    BackoffFactor: 2.0,
//	})
//
//	executor := resilience.NewExecutor(
//	    resilience.WithRetry(retry),
//	    resilience.WithCircuitBreaker(cb),
//	    resilience.WithTimeout(30*time.Second),
//	)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return callProvider(ctx, req)
//	})
//
// # Composition order
//
// When composing by hand, put retry outside the circuit breaker. A breaker
// rejection is deterministic until the cooldown elapses, so retrying it
// only burns attempts; the default classifier refuses ErrCircuitOpen for
// the same reason. The Executor wires this order for you.
package resilience
