package cache

import (
	"context"

	"github.com/jonwraymond/llmguard/tokens"
)

// CompleteFunc is the function signature for a completion call.
type CompleteFunc func(ctx context.Context, model string, messages []tokens.Message) ([]byte, error)

// Request describes one completion request for caching purposes.
type Request struct {
	Model       string
	Messages    []tokens.Message
	Temperature float64
}

// SkipRule determines whether to skip caching for a given request.
// Returns true if caching should be skipped.
type SkipRule func(req Request) bool

// DefaultSkipRule skips caching for sampled completions. Only requests
// with temperature zero are reproducible enough to serve from cache.
func DefaultSkipRule(req Request) bool {
	return req.Temperature != 0
}

// Middleware wraps completion calls with response caching.
type Middleware struct {
	cache    Cache
	keyer    Keyer
	policy   Policy
	skipRule SkipRule
}

// NewMiddleware creates a new cache middleware.
// If skipRule is nil, DefaultSkipRule is used.
func NewMiddleware(cache Cache, keyer Keyer, policy Policy, skipRule SkipRule) *Middleware {
	if skipRule == nil {
		skipRule = DefaultSkipRule
	}
	return &Middleware{
		cache:    cache,
		keyer:    keyer,
		policy:   policy,
		skipRule: skipRule,
	}
}

// Execute runs the completion with caching.
// On cache hit, returns the cached response without calling complete.
// On cache miss, calls complete and caches the response.
// Errors are NOT cached.
func (m *Middleware) Execute(ctx context.Context, req Request, complete CompleteFunc) ([]byte, error) {
	if !m.policy.AllowSampling && m.skipRule(req) {
		return complete(ctx, req.Model, req.Messages)
	}

	if !m.policy.ShouldCache() {
		return complete(ctx, req.Model, req.Messages)
	}

	key, err := m.keyer.Key(req.Model, req.Messages)
	if err != nil {
		// Key generation failed, execute without caching
		return complete(ctx, req.Model, req.Messages)
	}

	if cached, ok := m.cache.Get(ctx, key); ok {
		return cached, nil
	}

	result, err := complete(ctx, req.Model, req.Messages)
	if err != nil {
		// Don't cache errors
		return result, err
	}

	ttl := m.policy.EffectiveTTL(0)
	if ttl > 0 {
		_ = m.cache.Set(ctx, key, result, ttl)
	}

	return result, nil
}
