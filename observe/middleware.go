package observe

import (
	"context"
	"time"

	"github.com/jonwraymond/llmguard/resilience"
)

// CallFunc is the signature for backend call functions that Middleware wraps.
type CallFunc func(ctx context.Context, meta CallMeta, input any) (any, error)

// Middleware wraps backend calls with tracing, metrics, and logging.
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe CallFunc.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from the wrapped function are recorded and propagated unchanged.
//   - Ownership: Input/output values are passed through without modification.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps a CallFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn CallFunc) CallFunc {
	return func(ctx context.Context, meta CallMeta, input any) (any, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)

		start := time.Now()
		result, err := fn(ctx, meta, input)
		duration := time.Since(start)

		m.tracer.EndSpan(span, err)
		m.metrics.RecordCall(ctx, meta, duration, err)

		callLogger := m.logger.WithCall(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}

		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			callLogger.Error(ctx, "backend call failed", fields...)
		} else {
			callLogger.Info(ctx, "backend call completed", fields...)
		}

		return result, err
	}
}

// RetryHook returns a callback suitable for resilience.RetryConfig.OnRetry.
// Each upcoming retry is counted and logged with its backoff delay.
func (m *Middleware) RetryHook(meta CallMeta) func(attempt int, err error, delay time.Duration) {
	return func(attempt int, err error, delay time.Duration) {
		ctx := context.Background()
		m.metrics.RecordRetry(ctx, meta, attempt)
		m.logger.Warn(ctx, "retrying backend call",
			Field{Key: "llm.provider", Value: meta.Provider},
			Field{Key: "attempt", Value: attempt},
			Field{Key: "delay_ms", Value: float64(delay.Milliseconds())},
			Field{Key: "error", Value: err.Error()},
		)
	}
}

// BreakerHook returns a callback suitable for resilience.CircuitBreakerConfig.OnStateChange.
// The resource names the protected backend, e.g. "anthropic".
func (m *Middleware) BreakerHook(resource string) func(from, to resilience.State) {
	return func(from, to resilience.State) {
		ctx := context.Background()
		m.metrics.RecordStateChange(ctx, resource, from, to)
		m.logger.Warn(ctx, "circuit breaker state change",
			Field{Key: "llm.resource", Value: resource},
			Field{Key: "from", Value: from.String()},
			Field{Key: "to", Value: to.String()},
		)
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	tracer := newTracer(obs.Tracer())

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(tracer, metrics, obs.Logger()), nil
}
