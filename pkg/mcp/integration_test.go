package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/xpfang/pkg/mcp"
	"github.com/Sumatoshi-tech/xpfang/pkg/metrics"
	"github.com/Sumatoshi-tech/xpfang/pkg/observability"
	"github.com/Sumatoshi-tech/xpfang/pkg/profile"
	"github.com/Sumatoshi-tech/xpfang/pkg/session"
)

type errSource struct{ err error }

func (s errSource) Load(context.Context) (*profile.Snapshot, error) { return nil, s.err }

func fixtureSource() profile.StaticSource {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC) }

	return profile.StaticSource{Snapshot: &profile.Snapshot{
		User: metrics.UserIdentity{ID: 3, Login: "jdoe"},
		XP: []metrics.Row{
			metrics.NewTransaction(metrics.TypeXP, "/bahrain/bh-module/go-reloaded", 100, day(1)),
			metrics.NewTransaction(metrics.TypeXP, "/bahrain/bh-module/ascii-art", 50, day(3)),
			metrics.NewTransaction(metrics.TypeXP, "/bahrain/bh-module/ascii-art", 25, day(5)),
		},
		Up:   []metrics.Row{metrics.NewTransaction(metrics.TypeUp, "/bahrain/bh-module/a", 10, day(2))},
		Down: []metrics.Row{},
		Progress: []metrics.Row{
			metrics.NewProgress("/bahrain/bh-module/go-reloaded", metrics.Grade(1), day(1)),
			metrics.NewProgress("/bahrain/bh-module/ascii-art", nil, day(3)),
		},
	}}
}

// connect starts srv on in-memory transports and returns a connected client session.
func connect(t *testing.T, srv *mcp.Server) *mcpsdk.ClientSession {
	t.Helper()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = cs.Close()

		cancel()
		<-serverDone
	})

	return cs
}

func callJSON(t *testing.T, cs *mcpsdk.ClientSession, name string, args map[string]any, out any) *mcpsdk.CallToolResult {
	t.Helper()

	result, err := cs.CallTool(t.Context(), &mcpsdk.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	if out != nil && !result.IsError {
		text, ok := result.Content[0].(*mcpsdk.TextContent)
		require.True(t, ok)
		require.NoError(t, json.Unmarshal([]byte(text.Text), out))
	}

	return result
}

func TestMCPServer_ToolsList(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(mcp.ServerDeps{Source: fixtureSource()})

	assert.Equal(t, []string{mcp.ToolNameOutcomes, mcp.ToolNameSummary, mcp.ToolNameTimeline}, srv.ListToolNames())

	toolsResult, err := connect(t, srv).ListTools(t.Context(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		names = append(names, tool.Name)
		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
	}

	assert.ElementsMatch(t, srv.ListToolNames(), names)
}

func TestMCPServer_Summary(t *testing.T) {
	t.Parallel()

	prom, err := observability.NewPrometheusExporter()
	require.NoError(t, err)

	red, err := observability.NewREDMetrics(prom.Meter())
	require.NoError(t, err)

	cs := connect(t, mcp.NewServer(mcp.ServerDeps{Source: fixtureSource(), Metrics: red}))

	var summary mcp.Summary

	result := callJSON(t, cs, mcp.ToolNameSummary, map[string]any{}, &summary)
	require.False(t, result.IsError)

	assert.Equal(t, "jdoe", summary.User.Login)
	assert.Equal(t, int64(175), summary.TotalXP)
	assert.Equal(t, 1, summary.Level)
	assert.Equal(t, metrics.InfiniteSymbol, summary.Audit.RatioText)
	assert.Nil(t, summary.Audit.Ratio)
	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 50, summary.PassRate)

	var zeroed mcp.Summary

	callJSON(t, cs, mcp.ToolNameSummary, map[string]any{"zero": "zero"}, &zeroed)
	assert.Equal(t, metrics.InfiniteSymbol, zeroed.Audit.RatioText, "10/0 stays infinite")
}

func TestMCPServer_Timeline(t *testing.T) {
	t.Parallel()

	cs := connect(t, mcp.NewServer(mcp.ServerDeps{Source: fixtureSource()}))

	var all mcp.Timeline

	callJSON(t, cs, mcp.ToolNameTimeline, map[string]any{}, &all)
	require.Len(t, all.Days, 3)
	assert.Equal(t, int64(175), all.Cumulative[2].Y)

	var recent mcp.Timeline

	callJSON(t, cs, mcp.ToolNameTimeline, map[string]any{"since": "2024-03-03"}, &recent)
	require.Len(t, recent.Days, 2)
	assert.Equal(t, "2024-03-03", recent.Days[0].Day)
	assert.Equal(t, int64(150), recent.Cumulative[0].Y)
	assert.Equal(t, int64(175), recent.Total)

	bad := callJSON(t, cs, mcp.ToolNameTimeline, map[string]any{"since": "March"}, nil)
	assert.True(t, bad.IsError)
}

func TestMCPServer_Outcomes(t *testing.T) {
	t.Parallel()

	cs := connect(t, mcp.NewServer(mcp.ServerDeps{Source: fixtureSource()}))

	var strict profile.ProjectsView

	callJSON(t, cs, mcp.ToolNameOutcomes, map[string]any{}, &strict)
	assert.Equal(t, 1, strict.Passed)
	assert.Equal(t, 1, strict.Failed)
	assert.Len(t, strict.Outcomes, 2)

	var lenient profile.ProjectsView

	callJSON(t, cs, mcp.ToolNameOutcomes, map[string]any{"nulls": "skip"}, &lenient)
	assert.Equal(t, 1, lenient.Passed)
	assert.Equal(t, 0, lenient.Failed)

	bad := callJSON(t, cs, mcp.ToolNameOutcomes, map[string]any{"ranking": "loudest"}, nil)
	assert.True(t, bad.IsError)
}

func TestMCPServer_NotSignedIn(t *testing.T) {
	t.Parallel()

	cs := connect(t, mcp.NewServer(mcp.ServerDeps{Source: errSource{err: session.ErrNoToken}}))

	result := callJSON(t, cs, mcp.ToolNameSummary, map[string]any{}, nil)
	require.True(t, result.IsError)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "xpfang login")
}

func TestMCPServer_NoSource(t *testing.T) {
	t.Parallel()

	cs := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	result := callJSON(t, cs, mcp.ToolNameOutcomes, map[string]any{}, nil)
	assert.True(t, result.IsError)
}
