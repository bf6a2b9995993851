package observability_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/xpfang/pkg/observability"
)

func newTestTracer(t *testing.T) (*tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	return exporter, tp
}

func TestHTTPMiddleware_CreatesSpan(t *testing.T) {
	t.Parallel()

	exporter, tp := newTestTracer(t)

	var sawSpan bool

	handler := http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		sawSpan = hr.Context() != context.Background()

		rw.WriteHeader(http.StatusOK)
	})

	mw := observability.HTTPMiddleware(tp.Tracer("test"), nil, handler)
	mw.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/profile", http.NoBody))

	require.True(t, sawSpan)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/profile", spans[0].Name)
}

func TestHTTPMiddleware_ServerErrorMarksSpanAndMetric(t *testing.T) {
	t.Parallel()

	exporter, tp := newTestTracer(t)
	red, reader := setupTestMeter(t)

	handler := http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusBadGateway)
	})

	rec := httptest.NewRecorder()
	mw := observability.HTTPMiddleware(tp.Tracer("test"), red, handler)
	mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(1), counterTotal(t, findMetric(rm, "xpfang.errors.total")))
}

func TestHTTPMiddleware_ImplicitOK(t *testing.T) {
	t.Parallel()

	_, tp := newTestTracer(t)
	red, reader := setupTestMeter(t)

	handler := http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		_, err := rw.Write([]byte("ok"))
		assert.NoError(t, err)
	})

	rec := httptest.NewRecorder()
	observability.HTTPMiddleware(tp.Tracer("test"), red, handler).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))

	assert.Equal(t, "ok", rec.Body.String())

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(1), counterTotal(t, findMetric(rm, "xpfang.requests.total")))
	assert.Nil(t, findMetric(rm, "xpfang.errors.total"))
}
