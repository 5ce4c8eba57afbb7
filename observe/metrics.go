package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records gateway invocation and downstream metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordInvocation records one tool invocation with its outcome code
	// ("ok" for success, the fault code otherwise).
	RecordInvocation(ctx context.Context, tool, outcome string, duration time.Duration)

	// RecordAuthFailure records a rejected authentication or
	// authorization attempt.
	RecordAuthFailure(ctx context.Context, tool, reason string)

	// RecordBreakerTransition records a circuit state change for a
	// downstream service.
	RecordBreakerTransition(ctx context.Context, service, from, to string)
}

type metricsImpl struct {
	invocationCount    metric.Int64Counter
	invocationDuration metric.Float64Histogram
	authFailures       metric.Int64Counter
	breakerTransitions metric.Int64Counter
}

// NewMetrics creates a Metrics instance backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	invocationCount, err := meter.Int64Counter(
		"gateway.invocations.total",
		metric.WithDescription("Total number of tool invocations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	invocationDuration, err := meter.Float64Histogram(
		"gateway.invocations.duration_ms",
		metric.WithDescription("Tool invocation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	authFailures, err := meter.Int64Counter(
		"gateway.auth.failures",
		metric.WithDescription("Rejected authentication and authorization attempts"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	breakerTransitions, err := meter.Int64Counter(
		"gateway.breaker.transitions",
		metric.WithDescription("Circuit breaker state transitions per downstream service"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		invocationCount:    invocationCount,
		invocationDuration: invocationDuration,
		authFailures:       authFailures,
		breakerTransitions: breakerTransitions,
	}, nil
}

func (m *metricsImpl) RecordInvocation(ctx context.Context, tool, outcome string, duration time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("outcome", outcome),
	)
	m.invocationCount.Add(ctx, 1, opt)
	m.invocationDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordAuthFailure(ctx context.Context, tool, reason string) {
	m.authFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("reason", reason),
	))
}

func (m *metricsImpl) RecordBreakerTransition(ctx context.Context, service, from, to string) {
	m.breakerTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// noopMetrics discards everything.
type noopMetrics struct{}

func (noopMetrics) RecordInvocation(context.Context, string, string, time.Duration) {}
func (noopMetrics) RecordAuthFailure(context.Context, string, string)               {}
func (noopMetrics) RecordBreakerTransition(context.Context, string, string, string) {}

// NopMetrics returns a Metrics implementation that discards everything.
func NopMetrics() Metrics {
	return noopMetrics{}
}
