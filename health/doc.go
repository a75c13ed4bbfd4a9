// Package health exposes the state of protected LLM backends as health checks.
//
// A Checker reports the status of one component: Healthy, Degraded, or
// Unhealthy. BreakerChecker maps a circuit breaker's state onto that scale
// (closed, half-open, open), and LimiterChecker degrades when a provider's
// request budget is nearly exhausted.
//
// # Aggregating checks
//
// Use Aggregator to combine per-backend checks into one composite check:
//
//	agg := health.NewAggregator()
//	agg.Register("anthropic", health.NewBreakerChecker("anthropic", anthropicBreaker))
//	agg.Register("openai", health.NewBreakerChecker("openai", openaiBreaker))
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
//
// # HTTP endpoints
//
// The package provides handlers for common probe patterns:
//
//	// Liveness probe (for Kubernetes)
//	http.Handle("/healthz", health.LivenessHandler())
//
//	// Readiness probe with per-backend checks
//	http.Handle("/readyz", health.ReadinessHandler(agg))
//
//	// Detailed health status
//	http.Handle("/health", health.DetailedHandler(agg))
package health
