package observability

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Transport is an [http.RoundTripper] that opens a client span and records RED
// metrics for every upstream call. Op names the call in both.
type Transport struct {
	Base   http.RoundTripper
	Tracer trace.Tracer
	RED    *REDMetrics
	Op     func(*http.Request) string
}

// RoundTrip implements [http.RoundTripper].
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	op := req.Method + " " + req.URL.Path
	if t.Op != nil {
		op = t.Op(req)
	}

	ctx := req.Context()

	if t.Tracer != nil {
		var span trace.Span

		ctx, span = t.Tracer.Start(ctx, "upstream "+op,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(req.Method),
				attribute.String("server.address", req.URL.Host),
			),
		)
		defer span.End()

		req = req.WithContext(ctx)

		resp, err := t.observe(req, base, op)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

			return nil, err
		}

		span.SetAttributes(semconv.HTTPResponseStatusCode(resp.StatusCode))

		if resp.StatusCode >= http.StatusBadRequest {
			span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		}

		return resp, nil
	}

	return t.observe(req, base, op)
}

func (t *Transport) observe(req *http.Request, base http.RoundTripper, op string) (*http.Response, error) {
	if t.RED == nil {
		return roundTrip(base, req)
	}

	ctx := req.Context()
	done := t.RED.TrackInflight(ctx, op)

	defer done()

	start := time.Now()
	resp, err := roundTrip(base, req)

	status := StatusOK
	if err != nil || resp.StatusCode >= http.StatusBadRequest {
		status = StatusError
	}

	t.RED.RecordRequest(ctx, op, status, time.Since(start))

	return resp, err
}

func roundTrip(base http.RoundTripper, req *http.Request) (*http.Response, error) {
	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("round trip: %w", err)
	}

	return resp, nil
}
