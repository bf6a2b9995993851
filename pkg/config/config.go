// Package config loads xpfang settings from an optional YAML file, XPFANG_*
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/Sumatoshi-tech/xpfang/pkg/observability"
	"github.com/Sumatoshi-tech/xpfang/pkg/profile"
)

// Config is the top-level configuration.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Session   SessionConfig   `mapstructure:"session"`
	Policies  PoliciesConfig  `mapstructure:"policies"`
	Render    RenderConfig    `mapstructure:"render"`
	Serve     ServeConfig     `mapstructure:"serve"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// APIConfig locates the platform.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SessionConfig holds token storage settings. An empty TokenFile uses the
// per-user config directory.
type SessionConfig struct {
	TokenFile string `mapstructure:"token_file"`
}

// PoliciesConfig names the aggregation policies. Empty names keep the defaults.
type PoliciesConfig struct {
	Ranking        string `mapstructure:"ranking"`
	Pass           string `mapstructure:"pass"`
	Nulls          string `mapstructure:"nulls"`
	Zero           string `mapstructure:"zero"`
	TopGradesLimit int    `mapstructure:"top_grades_limit"`
}

// RenderConfig holds output settings.
type RenderConfig struct {
	Theme  string `mapstructure:"theme"`
	Output string `mapstructure:"output"`
	Format string `mapstructure:"format"`
}

// ServeConfig holds HTTP server settings.
type ServeConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidBaseURL indicates api.base_url is not an absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("api.base_url must be an absolute http or https URL")
	// ErrInvalidTimeout indicates api.timeout is not positive.
	ErrInvalidTimeout = errors.New("api.timeout must be positive")
	// ErrInvalidTopGradesLimit indicates policies.top_grades_limit is negative.
	ErrInvalidTopGradesLimit = errors.New("policies.top_grades_limit must be non-negative")
	// ErrInvalidTheme indicates render.theme is not light or dark.
	ErrInvalidTheme = errors.New("render.theme must be light or dark")
	// ErrInvalidFormat indicates render.format is not text, json or yaml.
	ErrInvalidFormat = errors.New("render.format must be text, json or yaml")
	// ErrInvalidAddr indicates serve.addr is empty.
	ErrInvalidAddr = errors.New("serve.addr must not be empty")
	// ErrInvalidSampleRatio indicates telemetry.sample_ratio is out of range.
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
)

var (
	validThemes  = []string{"light", "dark"}
	validFormats = []string{"text", "json", "yaml"}
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	apiErr := c.validateAPI()
	if apiErr != nil {
		return apiErr
	}

	if c.Policies.TopGradesLimit < 0 {
		return ErrInvalidTopGradesLimit
	}

	_, policyErr := c.PolicyNames().Resolve()
	if policyErr != nil {
		return policyErr
	}

	if c.Render.Theme != "" && !slices.Contains(validThemes, c.Render.Theme) {
		return ErrInvalidTheme
	}

	if c.Render.Format != "" && !slices.Contains(validFormats, c.Render.Format) {
		return ErrInvalidFormat
	}

	if c.Serve.Addr == "" {
		return ErrInvalidAddr
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return ErrInvalidSampleRatio
	}

	return nil
}

func (c *Config) validateAPI() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.API.BaseURL)
	}

	if c.API.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	return nil
}

// PolicyNames returns the configured aggregation policy names.
func (c *Config) PolicyNames() profile.PolicyNames {
	return profile.PolicyNames{
		Ranking:        c.Policies.Ranking,
		Pass:           c.Policies.Pass,
		Nulls:          c.Policies.Nulls,
		Zero:           c.Policies.Zero,
		TopGradesLimit: c.Policies.TopGradesLimit,
	}
}

// Observability returns the telemetry settings for the given launch mode.
func (c *Config) Observability(mode observability.AppMode, version string) observability.Config {
	oc := observability.DefaultConfig()
	oc.ServiceVersion = version
	oc.Mode = mode
	oc.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	oc.OTLPInsecure = c.Telemetry.OTLPInsecure
	oc.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.OTLPHeaders)
	oc.SampleRatio = c.Telemetry.SampleRatio
	oc.LogLevel = observability.ParseLogLevel(c.Logging.Level)
	oc.LogJSON = c.Logging.JSON

	return oc
}
