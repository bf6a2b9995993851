package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRequestsTotal    = "xpfang.requests.total"
	metricRequestDuration  = "xpfang.request.duration.seconds"
	metricErrorsTotal      = "xpfang.errors.total"
	metricInflightRequests = "xpfang.inflight.requests"

	attrOp     = "op"
	attrStatus = "status"

	// StatusOK and StatusError are the status attribute values.
	StatusOK    = "ok"
	StatusError = "error"
)

// durationBucketBoundaries covers 5ms to 30s: one upstream GraphQL round trip
// up to a full dashboard assembly on a slow link.
var durationBucketBoundaries = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// REDMetrics holds the Rate, Error, Duration instruments shared by upstream
// calls, HTTP handlers and MCP tools.
type REDMetrics struct {
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
	errorsTotal      metric.Int64Counter
	inflightRequests metric.Int64UpDownCounter
}

// NewREDMetrics creates the instruments on mt.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	var (
		rm  REDMetrics
		err error
	)

	rm.requestsTotal, err = mt.Int64Counter(metricRequestsTotal,
		metric.WithDescription("Operations started, by op and status"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestsTotal, err)
	}

	rm.requestDuration, err = mt.Float64Histogram(metricRequestDuration,
		metric.WithDescription("Operation latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestDuration, err)
	}

	rm.errorsTotal, err = mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Operations that failed, by op"),
		metric.WithUnit("{error}"))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	rm.inflightRequests, err = mt.Int64UpDownCounter(metricInflightRequests,
		metric.WithDescription("Operations currently running"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInflightRequests, err)
	}

	return &rm, nil
}

// RecordRequest counts one finished op and its latency. StatusError also
// bumps the error counter.
func (rm *REDMetrics) RecordRequest(ctx context.Context, op, status string, duration time.Duration) {
	opAttr := attribute.String(attrOp, op)
	withStatus := metric.WithAttributes(opAttr, attribute.String(attrStatus, status))

	rm.requestsTotal.Add(ctx, 1, withStatus)
	rm.requestDuration.Record(ctx, duration.Seconds(), withStatus)

	if status != StatusError {
		return
	}

	rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(opAttr))
}

// TrackInflight marks op as running until the returned func is called.
func (rm *REDMetrics) TrackInflight(ctx context.Context, op string) func() {
	opSet := metric.WithAttributes(attribute.String(attrOp, op))
	rm.inflightRequests.Add(ctx, 1, opSet)

	return func() { rm.inflightRequests.Add(ctx, -1, opSet) }
}

// Observe runs fn as operation op, tracking it in flight and recording its
// outcome and duration.
func (rm *REDMetrics) Observe(ctx context.Context, op string, fn func() error) error {
	done := rm.TrackInflight(ctx, op)
	defer done()

	start := time.Now()
	err := fn()

	status := StatusOK
	if err != nil {
		status = StatusError
	}

	rm.RecordRequest(ctx, op, status, time.Since(start))

	return err
}
