// Package observability wires OpenTelemetry tracing and metrics and the
// structured slog logger for every xpfang mode (CLI, MCP, serve).
package observability

import "log/slog"

// AppMode identifies how the binary was launched.
type AppMode string

const (
	// ModeCLI is a one-shot command.
	ModeCLI AppMode = "cli"
	// ModeMCP is the MCP stdio server.
	ModeMCP AppMode = "mcp"
	// ModeServe is the HTTP dashboard server.
	ModeServe AppMode = "serve"
)

const (
	defaultServiceName        = "xpfang"
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the version of the running binary.
	ServiceVersion string

	// Environment is the deployment environment, empty when unknown.
	Environment string

	// Mode identifies how the binary was launched.
	Mode AppMode

	// OTLPEndpoint is the OTLP gRPC collector address (e.g. "localhost:4317").
	// Empty disables export and every provider becomes a no-op.
	OTLPEndpoint string

	// OTLPHeaders are extra gRPC metadata headers for the exporters.
	OTLPHeaders map[string]string

	// OTLPInsecure disables TLS for the OTLP connection.
	OTLPInsecure bool

	// DebugTrace forces 100% sampling.
	DebugTrace bool

	// SampleRatio is the trace sampling ratio when DebugTrace is false.
	// Zero samples every root span.
	SampleRatio float64

	// LogLevel is the minimum slog severity.
	LogLevel slog.Level

	// LogJSON switches the logger from text to JSON.
	LogJSON bool

	// ShutdownTimeoutSec bounds the final telemetry flush.
	ShutdownTimeoutSec int
}

// DefaultConfig returns a Config for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}

// ParseLogLevel maps a level name to a slog level, defaulting to info.
func ParseLogLevel(name string) slog.Level {
	var level slog.Level

	err := level.UnmarshalText([]byte(name))
	if err != nil {
		return slog.LevelInfo
	}

	return level
}
