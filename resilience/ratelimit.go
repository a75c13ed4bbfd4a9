package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiterConfig configures the provider budget limiter.
type RateLimiterConfig struct {
	// RequestsPerMinute is the provider's request budget.
	// Default: 600
	RequestsPerMinute float64

	// TokensPerMinute is the provider's token budget. Zero disables the
	// token dimension and only requests are counted.
	// Default: 0 (disabled)
	TokensPerMinute float64

	// RequestBurst is the maximum request burst size.
	// Default: 10
	RequestBurst int

	// TokenBurst is the maximum token burst size.
	// Default: TokensPerMinute (one minute's budget)
	TokenBurst int

	// WaitOnLimit waits for budget instead of failing immediately.
	// Default: false
	WaitOnLimit bool

	// MaxWait is the maximum time to wait for budget.
	// Default: 1 second
	MaxWait time.Duration
}

// RateLimiter enforces a provider's joint request-per-minute and
// token-per-minute budgets with a pair of token buckets. The token
// dimension is charged with the estimated prompt cost of each call (see
// the tokens package), so oversized requests drain the budget faster.
type RateLimiter struct {
	config RateLimiterConfig

	mu         sync.Mutex
	requests   float64
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter creates a new provider budget limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	// Apply defaults
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 600
	}
	if config.RequestBurst <= 0 {
		config.RequestBurst = 10
	}
	if config.TokenBurst <= 0 {
		config.TokenBurst = int(config.TokensPerMinute)
	}
	if config.MaxWait <= 0 {
		config.MaxWait = time.Second
	}

	return &RateLimiter{
		config:     config,
		requests:   float64(config.RequestBurst),
		tokens:     float64(config.TokenBurst),
		lastRefill: time.Now(),
	}
}

// Config returns the limiter configuration with defaults applied.
func (rl *RateLimiter) Config() RateLimiterConfig {
	return rl.config
}

// Allow reports whether one request costing promptTokens fits the budget,
// charging both dimensions when it does.
func (rl *RateLimiter) Allow(promptTokens int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillLocked()

	if rl.requests < 1 {
		return false
	}
	if rl.config.TokensPerMinute > 0 && rl.tokens < float64(promptTokens) {
		return false
	}

	rl.requests--
	if rl.config.TokensPerMinute > 0 {
		rl.tokens -= float64(promptTokens)
	}
	return true
}

// Wait blocks until the budget admits the request or MaxWait elapses.
func (rl *RateLimiter) Wait(ctx context.Context, promptTokens int) error {
	// Check context first
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if rl.Allow(promptTokens) {
		return nil
	}

	waitTime := rl.timeToBudget(promptTokens)
	if waitTime > rl.config.MaxWait {
		waitTime = rl.config.MaxWait
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(waitTime):
		if rl.Allow(promptTokens) {
			return nil
		}
		return ErrRateLimited
	}
}

// Execute runs the operation if the budget admits it.
func (rl *RateLimiter) Execute(ctx context.Context, promptTokens int, op func(context.Context) error) error {
	if rl.config.WaitOnLimit {
		if err := rl.Wait(ctx, promptTokens); err != nil {
			return err
		}
	} else if !rl.Allow(promptTokens) {
		return ErrRateLimited
	}

	return op(ctx)
}

// timeToBudget estimates how long until both dimensions can admit the call.
func (rl *RateLimiter) timeToBudget(promptTokens int) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	requestWait := (1 - rl.requests) / rl.config.RequestsPerMinute * float64(time.Minute)

	var tokenWait float64
	if rl.config.TokensPerMinute > 0 {
		tokenWait = (float64(promptTokens) - rl.tokens) / rl.config.TokensPerMinute * float64(time.Minute)
	}

	wait := requestWait
	if tokenWait > wait {
		wait = tokenWait
	}
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}

func (rl *RateLimiter) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefill)
	rl.lastRefill = now

	minutes := elapsed.Minutes()

	rl.requests += minutes * rl.config.RequestsPerMinute
	if rl.requests > float64(rl.config.RequestBurst) {
		rl.requests = float64(rl.config.RequestBurst)
	}

	if rl.config.TokensPerMinute > 0 {
		rl.tokens += minutes * rl.config.TokensPerMinute
		if rl.tokens > float64(rl.config.TokenBurst) {
			rl.tokens = float64(rl.config.TokenBurst)
		}
	}
}

// Budget returns the currently available request and token budget.
func (rl *RateLimiter) Budget() (requests, tokens float64) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillLocked()
	return rl.requests, rl.tokens
}

// Reset restores both buckets to full burst capacity.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.requests = float64(rl.config.RequestBurst)
	rl.tokens = float64(rl.config.TokenBurst)
	rl.lastRefill = time.Now()
}
