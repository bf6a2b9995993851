// Package server serves the dashboard over HTTP: the HTML page, the JSON
// profile, the SVG charts, a Prometheus scrape endpoint and a health check.
// Every page load fetches a fresh snapshot.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/xpfang/pkg/dashboard"
	"github.com/Sumatoshi-tech/xpfang/pkg/observability"
	"github.com/Sumatoshi-tech/xpfang/pkg/platform"
	"github.com/Sumatoshi-tech/xpfang/pkg/plotpage"
	"github.com/Sumatoshi-tech/xpfang/pkg/profile"
	"github.com/Sumatoshi-tech/xpfang/pkg/renderer"
	"github.com/Sumatoshi-tech/xpfang/pkg/session"
	"github.com/Sumatoshi-tech/xpfang/pkg/svgchart"
)

// Routes.
const (
	PathIndex   = "/"
	PathProfile = "/api/profile"
	PathCharts  = "/charts/"
	PathMetrics = "/metrics"
	PathHealth  = "/healthz"
)

// LoginHint is the body of a 401 response.
const LoginHint = "not signed in: run `xpfang login` and reload"

// Server timeout defaults.
const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 60 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

// Server answers dashboard requests from Source.
type Server struct {
	Source   profile.Source
	Policies profile.Policies
	Theme    plotpage.Theme
	Logger   *slog.Logger
	Tracer   trace.Tracer
	RED      *observability.REDMetrics
	// Metrics serves PathMetrics; nil leaves the route unregistered.
	Metrics http.Handler

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// New creates a server with the default policies and dark theme.
func New(source profile.Source, logger *slog.Logger) *Server {
	return &Server{
		Source:   source,
		Policies: profile.DefaultPolicies(),
		Theme:    plotpage.ThemeDark,
		Logger:   logger,
	}
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}

	return slog.New(slog.DiscardHandler)
}

func (s *Server) tracer() trace.Tracer {
	if s.Tracer != nil {
		return s.Tracer
	}

	return noop.NewTracerProvider().Tracer("")
}

// Handler returns the routed handler wrapped in the tracing middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+PathIndex+"{$}", s.handleIndex)
	mux.HandleFunc("GET "+PathProfile, s.handleProfile)
	mux.HandleFunc("GET "+PathCharts+"{name}", s.handleChart)
	mux.Handle("GET "+PathHealth, observability.HealthHandler())

	if s.Metrics != nil {
		mux.Handle("GET "+PathMetrics, s.Metrics)
	}

	return observability.HTTPMiddleware(s.tracer(), s.RED, mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  orDefault(s.ReadTimeout, defaultReadTimeout),
		WriteTimeout: orDefault(s.WriteTimeout, defaultWriteTimeout),
		IdleTimeout:  defaultIdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger().InfoContext(ctx, "dashboard server listening", "addr", "http://"+ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultShutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}

	return fallback
}

// load fetches a snapshot and builds the dashboard, writing the error
// response itself when that fails.
func (s *Server) load(rw http.ResponseWriter, hr *http.Request) (*profile.Dashboard, bool) {
	snap, err := s.Source.Load(hr.Context())
	if err != nil {
		s.writeError(rw, hr, err)

		return nil, false
	}

	return profile.Build(snap, s.Policies), true
}

func (s *Server) writeError(rw http.ResponseWriter, hr *http.Request, err error) {
	status := StatusFor(err)

	if status == http.StatusUnauthorized {
		http.Error(rw, LoginHint, status)

		return
	}

	s.logger().ErrorContext(hr.Context(), "load dashboard failed", "path", hr.URL.Path, "error", err)
	http.Error(rw, http.StatusText(status)+": "+err.Error(), status)
}

// StatusFor maps a load error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNoToken), platform.IsUnauthorized(err):
		return http.StatusUnauthorized
	case errors.Is(err, profile.ErrNoUser):
		return http.StatusNotFound
	case errors.Is(err, platform.ErrRequestFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleIndex(rw http.ResponseWriter, hr *http.Request) {
	d, ok := s.load(rw, hr)
	if !ok {
		return
	}

	var buf bytes.Buffer

	err := dashboard.NewPage(d, s.Theme).Render(&buf)
	if err != nil {
		s.writeError(rw, hr, fmt.Errorf("render page: %w", err))

		return
	}

	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(rw)
}

func (s *Server) handleProfile(rw http.ResponseWriter, hr *http.Request) {
	d, ok := s.load(rw, hr)
	if !ok {
		return
	}

	body, err := renderer.RenderJSON(d)
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	rw.Header().Set("Content-Type", "application/json")
	_, _ = rw.Write(body)
}

func (s *Server) handleChart(rw http.ResponseWriter, hr *http.Request) {
	name := hr.PathValue("name")

	d, ok := s.load(rw, hr)
	if !ok {
		return
	}

	for _, doc := range svgchart.All(d) {
		if doc.FileName() == name || doc.Name == name {
			rw.Header().Set("Content-Type", "image/svg+xml")
			_, _ = rw.Write(doc.Bytes())

			return
		}
	}

	http.NotFound(rw, hr)
}
