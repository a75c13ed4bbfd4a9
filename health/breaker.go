package health

import (
	"context"
	"time"

	"github.com/jonwraymond/llmguard/resilience"
)

// BreakerChecker reports the health of a backend based on its circuit breaker.
//
// A closed breaker means the backend is accepting traffic. Half-open means it
// is probing after a cooldown and should be treated as degraded. Open means
// the backend has been cut off.
type BreakerChecker struct {
	name    string
	breaker *resilience.CircuitBreaker
}

// NewBreakerChecker creates a checker for the given circuit breaker.
// The name identifies the protected backend, e.g. "anthropic".
func NewBreakerChecker(name string, breaker *resilience.CircuitBreaker) *BreakerChecker {
	return &BreakerChecker{name: name, breaker: breaker}
}

// Name returns the backend name.
func (c *BreakerChecker) Name() string {
	return c.name
}

// Check reports health from the breaker state.
func (c *BreakerChecker) Check(ctx context.Context) Result {
	state := c.breaker.State()
	metrics := c.breaker.Metrics()

	details := map[string]any{
		"state":    state.String(),
		"failures": metrics.Failures,
	}
	if !metrics.LastFailure.IsZero() {
		details["last_failure"] = metrics.LastFailure.UTC().Format(time.RFC3339)
	}

	switch state {
	case resilience.StateClosed:
		return Healthy("backend accepting traffic").WithDetails(details)
	case resilience.StateHalfOpen:
		return Degraded("backend probing after cooldown").WithDetails(details)
	default:
		return Unhealthy("circuit open, backend cut off", resilience.ErrCircuitOpen).WithDetails(details)
	}
}

// LimiterChecker reports the health of a rate limiter budget.
//
// The check degrades when the remaining request budget drops below the
// configured fraction of the per-minute rate. It never reports unhealthy:
// an exhausted budget recovers on its own.
type LimiterChecker struct {
	name     string
	limiter  *resilience.RateLimiter
	degraded float64
}

// NewLimiterChecker creates a checker for the given rate limiter.
// degradedBelow is the remaining-request fraction below which the check
// reports degraded, e.g. 0.1 for 10 percent.
func NewLimiterChecker(name string, limiter *resilience.RateLimiter, degradedBelow float64) *LimiterChecker {
	return &LimiterChecker{name: name, limiter: limiter, degraded: degradedBelow}
}

// Name returns the limiter name.
func (c *LimiterChecker) Name() string {
	return c.name
}

// Check reports health from the remaining budget.
func (c *LimiterChecker) Check(ctx context.Context) Result {
	requests, tokens := c.limiter.Budget()

	details := map[string]any{
		"requests_remaining": requests,
		"tokens_remaining":   tokens,
	}

	limit := c.limiter.Config().RequestsPerMinute
	if limit > 0 && requests < limit*c.degraded {
		return Degraded("request budget nearly exhausted").WithDetails(details)
	}
	return Healthy("budget available").WithDetails(details)
}
