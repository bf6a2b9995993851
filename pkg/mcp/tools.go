package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/xpfang/pkg/metrics"
	"github.com/Sumatoshi-tech/xpfang/pkg/platform"
	"github.com/Sumatoshi-tech/xpfang/pkg/profile"
	"github.com/Sumatoshi-tech/xpfang/pkg/session"
)

// Tool name constants.
const (
	ToolNameSummary  = "xpfang_summary"
	ToolNameTimeline = "xpfang_xp_timeline"
	ToolNameOutcomes = "xpfang_outcomes"
)

// loginHint is appended to errors caused by a missing or rejected token.
const loginHint = "run `xpfang login` first"

var (
	// ErrNoSource indicates the server was built without a snapshot source.
	ErrNoSource = errors.New("no profile source configured")
	// ErrInvalidSince indicates the since parameter is not a YYYY-MM-DD date.
	ErrInvalidSince = errors.New("since must be a YYYY-MM-DD date")

	errToolFailed = errors.New("tool failed")
)

// Input types (auto-generate JSON schemas via struct tags).

// SummaryInput is the input schema for the xpfang_summary tool.
type SummaryInput struct {
	Zero string `json:"zero,omitempty" jsonschema:"0/0 audit ratio convention: infinite, one or zero (default: infinite)"`
}

// TimelineInput is the input schema for the xpfang_xp_timeline tool.
type TimelineInput struct {
	Since string `json:"since,omitempty" jsonschema:"only include days on or after this UTC date (YYYY-MM-DD)"`
}

// OutcomesInput is the input schema for the xpfang_outcomes tool.
type OutcomesInput struct {
	Ranking string `json:"ranking,omitempty" jsonschema:"final row policy: by-grade, by-recency-positive or by-recency"`
	Pass    string `json:"pass,omitempty"    jsonschema:"pass predicate: grade-at-least-one, grade-exactly-one or positive-amount"`
	Nulls   string `json:"nulls,omitempty"   jsonschema:"ungraded rows: fail or skip"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// Summary is the xpfang_summary result.
type Summary struct {
	User         metrics.UserIdentity `json:"user"`
	TotalXP      int64                `json:"total_xp"`
	Level        int                  `json:"level"`
	Audit        profile.AuditView    `json:"audit"`
	Passed       int                  `json:"projects_passed"`
	Failed       int                  `json:"projects_failed"`
	PassRate     int                  `json:"pass_rate"`
	Piscine      profile.PiscineView  `json:"piscine"`
	LastActivity *time.Time           `json:"last_activity,omitempty"`
}

// Timeline is the xpfang_xp_timeline result.
type Timeline struct {
	Days       []metrics.DayBucket `json:"days"`
	Cumulative []metrics.Point     `json:"cumulative"`
	Total      int64               `json:"total"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	msg := err.Error()
	if errors.Is(err, session.ErrNoToken) || platform.IsUnauthorized(err) {
		msg += ": " + loginHint
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: msg},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

func (s *Server) build(ctx context.Context, p profile.Policies) (*profile.Dashboard, error) {
	if s.source == nil {
		return nil, ErrNoSource
	}

	snap, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	return profile.Build(snap, p), nil
}

func (s *Server) handleSummary(ctx context.Context, _ *mcpsdk.CallToolRequest, in SummaryInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	p := s.policies

	if in.Zero != "" {
		zero, err := metrics.ParseZeroConvention(in.Zero)
		if err != nil {
			return errorResult(err)
		}

		p.Zero = zero
	}

	d, err := s.build(ctx, p)
	if err != nil {
		return errorResult(err)
	}

	view := d.View()

	return jsonResult(Summary{
		User:         view.User,
		TotalXP:      view.TotalXP,
		Level:        view.Level,
		Audit:        view.Audit,
		Passed:       view.Projects.Passed,
		Failed:       view.Projects.Failed,
		PassRate:     view.Projects.PassRate,
		Piscine:      view.Piscine,
		LastActivity: view.LastActivity,
	})
}

func (s *Server) handleTimeline(ctx context.Context, _ *mcpsdk.CallToolRequest, in TimelineInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	var since string

	if in.Since != "" {
		day, err := time.Parse(metrics.DayLayout, in.Since)
		if err != nil {
			return errorResult(fmt.Errorf("%w: %q", ErrInvalidSince, in.Since))
		}

		since = day.Format(metrics.DayLayout)
	}

	d, err := s.build(ctx, s.policies)
	if err != nil {
		return errorResult(err)
	}

	out := Timeline{Days: []metrics.DayBucket{}, Cumulative: []metrics.Point{}}

	for i, b := range d.Timeline.Days {
		if b.Day < since {
			continue
		}

		out.Days = append(out.Days, b)
		out.Cumulative = append(out.Cumulative, d.Timeline.Cumulative[i])
	}

	out.Total = d.TotalXP

	return jsonResult(out)
}

func (s *Server) handleOutcomes(ctx context.Context, _ *mcpsdk.CallToolRequest, in OutcomesInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	p, err := overridePolicies(s.policies, in)
	if err != nil {
		return errorResult(err)
	}

	d, err := s.build(ctx, p)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(d.View().Projects)
}

func overridePolicies(p profile.Policies, in OutcomesInput) (profile.Policies, error) {
	var err error

	if in.Ranking != "" {
		p.Ranking, err = metrics.StrategyByName(in.Ranking)
		if err != nil {
			return p, err
		}
	}

	if in.Pass != "" {
		p.Pass, err = metrics.PredicateByName(in.Pass)
		if err != nil {
			return p, err
		}
	}

	if in.Nulls != "" {
		p.Nulls, err = metrics.ParseNullGradePolicy(in.Nulls)
		if err != nil {
			return p, err
		}
	}

	return p, nil
}
