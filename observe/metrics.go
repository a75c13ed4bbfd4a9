package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/llmguard/resilience"
)

// Metrics records telemetry for backend calls.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCall records a completed backend call with duration and error status.
	RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error)

	// RecordRetry records a single retry attempt.
	RecordRetry(ctx context.Context, meta CallMeta, attempt int)

	// RecordStateChange records a circuit breaker transition for a resource.
	RecordStateChange(ctx context.Context, resource string, from, to resilience.State)

	// RecordTokens records the estimated token count sent to a backend.
	RecordTokens(ctx context.Context, meta CallMeta, tokens int)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	retryCount   metric.Int64Counter
	transitions  metric.Int64Counter
	tokenCount   metric.Int64Counter
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"llm.call.total",
		metric.WithDescription("Total number of backend calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"llm.call.errors",
		metric.WithDescription("Total number of failed backend calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"llm.call.duration_ms",
		metric.WithDescription("Backend call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	retryCount, err := meter.Int64Counter(
		"llm.retry.attempts",
		metric.WithDescription("Total number of retry attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	transitions, err := meter.Int64Counter(
		"llm.breaker.transitions",
		metric.WithDescription("Total number of circuit breaker state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	tokenCount, err := meter.Int64Counter(
		"llm.tokens.estimated",
		metric.WithDescription("Estimated tokens sent to backends"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		retryCount:   retryCount,
		transitions:  transitions,
		tokenCount:   tokenCount,
	}, nil
}

func callAttributes(meta CallMeta) metric.MeasurementOption {
	attrs := []attribute.KeyValue{
		attribute.String("llm.provider", meta.Provider),
	}
	if meta.Model != "" {
		attrs = append(attrs, attribute.String("llm.model", meta.Model))
	}
	if meta.Operation != "" {
		attrs = append(attrs, attribute.String("llm.operation", meta.Operation))
	}
	return metric.WithAttributes(attrs...)
}

// RecordCall records metrics for a completed backend call.
func (m *metricsImpl) RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error) {
	opt := callAttributes(meta)

	m.totalCount.Add(ctx, 1, opt)

	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}

	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordRetry records a single retry attempt.
func (m *metricsImpl) RecordRetry(ctx context.Context, meta CallMeta, attempt int) {
	m.retryCount.Add(ctx, 1, callAttributes(meta))
}

// RecordStateChange records a circuit breaker state transition.
func (m *metricsImpl) RecordStateChange(ctx context.Context, resource string, from, to resilience.State) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("llm.resource", resource),
		attribute.String("llm.breaker.from", from.String()),
		attribute.String("llm.breaker.to", to.String()),
	))
}

// RecordTokens records the estimated token count for a call.
func (m *metricsImpl) RecordTokens(ctx context.Context, meta CallMeta, tokens int) {
	m.tokenCount.Add(ctx, int64(tokens), callAttributes(meta))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (noopMetrics) RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error) {
}
func (noopMetrics) RecordRetry(ctx context.Context, meta CallMeta, attempt int) {}
func (noopMetrics) RecordStateChange(ctx context.Context, resource string, from, to resilience.State) {
}
func (noopMetrics) RecordTokens(ctx context.Context, meta CallMeta, tokens int) {}
