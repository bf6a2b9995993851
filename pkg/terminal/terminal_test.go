package terminal_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/xpfang/pkg/metrics"
	"github.com/Sumatoshi-tech/xpfang/pkg/profile"
	"github.com/Sumatoshi-tech/xpfang/pkg/terminal"
)

const (
	testWidth    = 60
	ansiEscape   = "\x1b["
	testBarWidth = 10
)

func TestDetectWidth_FromEnv(t *testing.T) {
	t.Setenv("COLUMNS", "120")

	assert.Equal(t, 120, terminal.DetectWidth())
}

func TestColorize(t *testing.T) {
	t.Parallel()

	plain := terminal.Config{NoColor: true}
	assert.Equal(t, "ok", plain.Colorize("ok", terminal.ColorGreen))
	assert.Equal(t, "ok", plain.Bold("ok"))

	colored := terminal.Config{}
	got := colored.Colorize("ok", terminal.ColorGreen)
	assert.Contains(t, got, ansiEscape)
	assert.Contains(t, got, "ok")
	assert.Equal(t, "ok", colored.Colorize("ok", terminal.ColorNone))
}

func TestColorForPercent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, terminal.ColorGreen, terminal.ColorForPercent(80))
	assert.Equal(t, terminal.ColorYellow, terminal.ColorForPercent(50))
	assert.Equal(t, terminal.ColorRed, terminal.ColorForPercent(49))
}

func TestColorForFeedback(t *testing.T) {
	t.Parallel()

	assert.Equal(t, terminal.ColorGreen, terminal.ColorForFeedback(metrics.FeedbackHigh))
	assert.Equal(t, terminal.ColorBlue, terminal.ColorForFeedback(metrics.FeedbackBalanced))
	assert.Equal(t, terminal.ColorYellow, terminal.ColorForFeedback(metrics.FeedbackLow))
}

func TestDrawProgressBar(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "███████░░░", terminal.DrawProgressBar(0.7, testBarWidth))
	assert.Equal(t, strings.Repeat(terminal.ProgressEmpty, testBarWidth), terminal.DrawProgressBar(-1, testBarWidth))
	assert.Equal(t, strings.Repeat(terminal.ProgressFilled, testBarWidth), terminal.DrawProgressBar(2, testBarWidth))
}

func TestDrawPercentBar(t *testing.T) {
	t.Parallel()

	got := terminal.DrawPercentBar("Piscine", 50, 1, 2, 8, 4)
	assert.Equal(t, "Piscine  ██░░  50%  (1/2)", got)
}

func TestDrawHeader(t *testing.T) {
	t.Parallel()

	header := terminal.DrawHeader("Jane Doe", "@jdoe", testWidth)
	lines := strings.Split(header, "\n")

	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], terminal.BoxHeavyTopLeft))
	assert.Contains(t, lines[1], "Jane Doe")
	assert.True(t, strings.HasSuffix(lines[1], "@jdoe "+terminal.BoxHeavyVertical))
	assert.Equal(t, testWidth, len([]rune(lines[1])))
	assert.Equal(t, testWidth, len([]rune(lines[2])))
}

func TestDrawSeparator(t *testing.T) {
	t.Parallel()

	assert.Empty(t, terminal.DrawSeparator(0))
	assert.Equal(t, "───", terminal.DrawSeparator(3))
}

func TestTruncateWithEllipsis(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", terminal.TruncateWithEllipsis("short", 10))
	assert.Equal(t, "make-yo...", terminal.TruncateWithEllipsis("make-your-game", 10))
	assert.Equal(t, "..", terminal.TruncateWithEllipsis("make-your-game", 2))
	assert.Equal(t, "ab   ", terminal.PadRight("ab", 5))
}

func TestWriteDashboard(t *testing.T) {
	t.Parallel()

	fetched := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	snap := &profile.Snapshot{
		User:      metrics.UserIdentity{Login: "jdoe", Attrs: metrics.UserAttrs{FirstName: "Jane", LastName: "Doe"}},
		FetchedAt: fetched,
		XP: []metrics.Row{
			metrics.NewTransaction(metrics.TypeXP, "/bahrain/bh-module/go-reloaded", 12500, fetched.AddDate(0, 0, -3)),
		},
		Up:   []metrics.Row{metrics.NewTransaction(metrics.TypeUp, "/bahrain/bh-module/a", 300, fetched.AddDate(0, 0, -4))},
		Down: []metrics.Row{metrics.NewTransaction(metrics.TypeDown, "/bahrain/bh-module/b", 200, fetched.AddDate(0, 0, -5))},
		Progress: []metrics.Row{
			metrics.NewProgress("/bahrain/bh-module/go-reloaded", metrics.Grade(1.5), fetched.AddDate(0, 0, -3)),
			metrics.NewProgress("/bahrain/bh-piscine/quest-01/hello", metrics.Grade(1), fetched.AddDate(0, -1, 0)),
		},
	}

	var buf bytes.Buffer

	cfg := terminal.Config{Width: terminal.DefaultWidth, NoColor: true}
	require.NoError(t, terminal.WriteDashboard(&buf, cfg, profile.Build(snap, profile.DefaultPolicies())))

	out := buf.String()
	assert.NotContains(t, out, ansiEscape)
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "@jdoe")
	assert.Contains(t, out, "12,500 (12.21 MB)")
	assert.Contains(t, out, "1.5  "+metrics.FeedbackHigh)
	assert.Contains(t, out, "3 days ago")
	assert.Contains(t, out, "100%  (1/1)")
	assert.Contains(t, out, "go-reloaded")
	assert.Regexp(t, `go-reloaded\s+project\s+1\.50\s+pass`, out)
}

func TestWriteDashboard_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := terminal.Config{NoColor: true}
	require.NoError(t, terminal.WriteDashboard(&buf, cfg, profile.Build(&profile.Snapshot{}, profile.DefaultPolicies())))

	out := buf.String()
	assert.Contains(t, out, metrics.InfiniteSymbol)
	assert.Contains(t, out, "never")
	assert.Contains(t, out, "no projects")
	assert.Contains(t, out, "no grades")
	assert.Contains(t, out, "not graded")
}
