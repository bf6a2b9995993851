// Package mcp implements a Model Context Protocol server exposing the xpfang
// dashboard metrics as MCP tools over stdio transport.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/xpfang/pkg/observability"
	"github.com/Sumatoshi-tech/xpfang/pkg/profile"
	"github.com/Sumatoshi-tech/xpfang/pkg/version"
)

const (
	// serverName is the MCP server implementation name.
	serverName = "xpfang"

	// toolCount is the expected number of registered tools.
	toolCount = 3
)

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Source loads the snapshot for every tool call. Required.
	Source profile.Source

	// Policies are the defaults tools start from. The zero value uses
	// profile.DefaultPolicies.
	Policies *profile.Policies

	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Metrics is an optional RED metrics recorder. Nil disables per-tool metrics.
	Metrics *observability.REDMetrics

	// Tracer is an optional OTel tracer for per-tool-call spans. Nil disables tracing.
	Tracer trace.Tracer
}

// Server wraps the MCP SDK server with the xpfang tool registrations.
type Server struct {
	inner    *mcpsdk.Server
	mu       sync.RWMutex
	tools    []string
	source   profile.Source
	policies profile.Policies
	metrics  *observability.REDMetrics
	tracer   trace.Tracer
}

// NewServer creates a new MCP server with all tools registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: version.Version,
		},
		opts,
	)

	policies := profile.DefaultPolicies()
	if deps.Policies != nil {
		policies = *deps.Policies
	}

	srv := &Server{
		inner:    inner,
		tools:    make([]string, 0, toolCount),
		source:   deps.Source,
		policies: policies,
		metrics:  deps.Metrics,
		tracer:   deps.Tracer,
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run starts the MCP server on stdio transport. It blocks until the context
// is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport starts the MCP server on the given transport. It blocks
// until the context is canceled or the connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

func (s *Server) registerTools() {
	register(s, ToolNameSummary, summaryToolDescription, s.handleSummary)
	register(s, ToolNameTimeline, timelineToolDescription, s.handleTimeline)
	register(s, ToolNameOutcomes, outcomesToolDescription, s.handleOutcomes)
}

func register[Input any](s *Server, name, description string, handler toolHandler[Input]) {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        name,
		Description: description,
	}, withMetrics(s.metrics, name, withTracing(s.tracer, name, handler)))

	s.trackTool(name)
}

type toolHandler[Input any] = func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error)

// mcpSpanPrefix is the prefix for MCP tool span names.
const mcpSpanPrefix = "mcp."

// traceIDMetaKey is the metadata key for trace_id in MCP tool responses.
const traceIDMetaKey = "trace_id"

// withTracing wraps an MCP tool handler to create an OTel span per invocation
// and include trace_id in the response content when sampled.
func withTracing[Input any](tracer trace.Tracer, toolName string, handler toolHandler[Input]) toolHandler[Input] {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)

		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			traceContent := &mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID().String())}
			result.Content = append(result.Content, traceContent)
		}

		return result, output, err
	}
}

// withMetrics wraps an MCP tool handler to record RED metrics per invocation.
// A result flagged IsError counts as an error.
func withMetrics[Input any](metrics *observability.REDMetrics, toolName string, handler toolHandler[Input]) toolHandler[Input] {
	if metrics == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		var (
			result *mcpsdk.CallToolResult
			output ToolOutput
		)

		err := metrics.Observe(ctx, mcpSpanPrefix+toolName, func() error {
			var callErr error

			result, output, callErr = handler(ctx, req, input)
			if callErr == nil && result != nil && result.IsError {
				return errToolFailed
			}

			return callErr
		})
		if errors.Is(err, errToolFailed) {
			err = nil
		}

		return result, output, err
	}
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

// Tool description constants.
const (
	summaryToolDescription = "Summarize the signed-in learner: total XP, level, " +
		"audit ratio with feedback, project pass rate and piscine progress."

	timelineToolDescription = "Return XP earned per UTC day and the cumulative XP series. " +
		"Accepts an optional since date (YYYY-MM-DD)."

	outcomesToolDescription = "List final project outcomes with pass/fail counts. " +
		"Accepts optional ranking, pass and nulls policy names."
)
