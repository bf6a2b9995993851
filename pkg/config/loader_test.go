package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/xpfang/pkg/config"
	"github.com/Sumatoshi-tech/xpfang/pkg/metrics"
)

const (
	testBaseURL        = "https://platform.example.test"
	testTopGradesLimit = 5
	testSampleRatio    = 0.25
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".xpfang.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, config.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, config.DefaultTimeout, cfg.API.Timeout)
	assert.Empty(t, cfg.Session.TokenFile)
	assert.Equal(t, config.DefaultTheme, cfg.Render.Theme)
	assert.Equal(t, config.DefaultFormat, cfg.Render.Format)
	assert.Equal(t, config.DefaultOutputDir, cfg.Render.Output)
	assert.Equal(t, config.DefaultServeAddr, cfg.Serve.Addr)
	assert.Equal(t, config.DefaultLogLevel, cfg.Logging.Level)
	assert.False(t, cfg.Logging.JSON)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)
}

func TestLoadConfig_ValidFile_Unmarshals(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, `api:
  base_url: https://platform.example.test
  timeout: 5s
session:
  token_file: /tmp/xpfang-token
policies:
  ranking: by-recency
  pass: grade-exactly-one
  nulls: skip
  zero: one
  top_grades_limit: 5
render:
  theme: light
  format: json
serve:
  addr: ":9090"
logging:
  level: debug
  json: true
telemetry:
  otlp_endpoint: localhost:4317
  otlp_insecure: true
  otlp_headers: "x-team=learn"
  sample_ratio: 0.25
`))
	require.NoError(t, err)

	assert.Equal(t, testBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "/tmp/xpfang-token", cfg.Session.TokenFile)
	assert.Equal(t, metrics.StrategyNameByRecency, cfg.Policies.Ranking)
	assert.Equal(t, testTopGradesLimit, cfg.Policies.TopGradesLimit)
	assert.Equal(t, "light", cfg.Render.Theme)
	assert.Equal(t, ":9090", cfg.Serve.Addr)
	assert.True(t, cfg.Logging.JSON)
	assert.True(t, cfg.Telemetry.OTLPInsecure)
	assert.InDelta(t, testSampleRatio, cfg.Telemetry.SampleRatio, 1e-9)

	policies, err := cfg.PolicyNames().Resolve()
	require.NoError(t, err)
	assert.Equal(t, metrics.StrategyNameByRecency, policies.Ranking.Name)
	assert.Equal(t, metrics.NullSkip, policies.Nulls)
	assert.Equal(t, metrics.ZeroByZeroAsOne, policies.Zero)
	assert.Equal(t, testTopGradesLimit, policies.TopGradesLimit)
}

func TestLoadConfig_MalformedYAML_ReturnsError(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "api: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadConfig_InvalidValue_ReturnsValidationError(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "render:\n  theme: neon\n"))
	require.ErrorIs(t, err, config.ErrInvalidTheme)
	assert.Contains(t, err.Error(), "validate config")
}

func TestLoadConfig_UnknownPolicy_ReturnsError(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "policies:\n  ranking: loudest\n"))
	require.ErrorIs(t, err, metrics.ErrUnknownPolicy)
}

func TestLoadConfig_ExplicitPath_NotFound_ReturnsError(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_EnvOverride_NestedKey(t *testing.T) {
	t.Setenv("XPFANG_API_BASE_URL", testBaseURL)
	t.Setenv("XPFANG_SERVE_ADDR", ":7070")
	t.Setenv("XPFANG_LOGGING_JSON", "true")

	cfg, err := config.LoadConfig(writeConfig(t, "serve:\n  addr: \":9090\"\n"))
	require.NoError(t, err)

	assert.Equal(t, testBaseURL, cfg.API.BaseURL)
	assert.Equal(t, ":7070", cfg.Serve.Addr)
	assert.True(t, cfg.Logging.JSON)
}
