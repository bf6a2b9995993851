// Package commands implements the xpfang subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/xpfang/pkg/config"
	"github.com/Sumatoshi-tech/xpfang/pkg/observability"
	"github.com/Sumatoshi-tech/xpfang/pkg/platform"
	"github.com/Sumatoshi-tech/xpfang/pkg/profile"
	"github.com/Sumatoshi-tech/xpfang/pkg/session"
	"github.com/Sumatoshi-tech/xpfang/pkg/version"
)

// GlobalOptions are the root persistent flags.
type GlobalOptions struct {
	ConfigPath string
	Verbose    bool
}

// runtime is the wiring every command starts from: config, telemetry, the
// platform client and the session.
type runtime struct {
	cfg       *config.Config
	providers observability.Providers
	logger    *slog.Logger
	red       *observability.REDMetrics
	session   *session.Session
	policies  profile.Policies
}

// newRuntime loads the config and builds the providers for mode. A nil meter
// records upstream RED metrics on the OTel meter from observability.Init.
func newRuntime(opts *GlobalOptions, mode observability.AppMode, meter metric.Meter) (*runtime, error) {
	if opts == nil {
		opts = &GlobalOptions{}
	}

	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	policies, err := cfg.PolicyNames().Resolve()
	if err != nil {
		return nil, err
	}

	oc := cfg.Observability(mode, version.Version)

	// stdout carries the MCP protocol, so logs go to stderr as JSON.
	if mode == observability.ModeMCP {
		oc.LogJSON = true
	}

	if opts.Verbose {
		oc.LogLevel = slog.LevelDebug
		oc.DebugTrace = true
	}

	providers, err := observability.Init(oc)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	rt := &runtime{cfg: cfg, providers: providers, logger: providers.Logger, policies: policies}

	if meter == nil {
		meter = providers.Meter
	}

	rt.red, err = observability.NewREDMetrics(meter)
	if err != nil {
		rt.close()

		return nil, err
	}

	store, err := session.NewFileStore(cfg.Session.TokenFile)
	if err != nil {
		rt.close()

		return nil, err
	}

	httpClient := &http.Client{
		Timeout:   cfg.API.Timeout,
		Transport: &observability.Transport{Tracer: providers.Tracer, RED: rt.red},
	}

	client := platform.NewClient(cfg.API.BaseURL, httpClient, observability.Component(rt.logger, "platform"))
	rt.session = session.New(store, client, observability.Component(rt.logger, "session"))

	return rt, nil
}

func (rt *runtime) close() {
	err := rt.providers.Shutdown(context.Background())
	if err != nil {
		rt.logger.Warn("observability shutdown failed", "error", err)
	}
}

func (rt *runtime) fetcher() *profile.Fetcher {
	return profile.NewFetcher(rt.session, observability.Component(rt.logger, "profile"))
}

// load fetches a fresh snapshot and builds the dashboard.
func (rt *runtime) load(ctx context.Context) (*profile.Dashboard, error) {
	snap, err := rt.fetcher().Load(ctx)
	if err != nil {
		return nil, withLoginHint(err)
	}

	return profile.Build(snap, rt.policies), nil
}

// withLoginHint tells the user how to recover from a missing or rejected token.
func withLoginHint(err error) error {
	if errors.Is(err, session.ErrNoToken) || platform.IsUnauthorized(err) {
		return fmt.Errorf("%w (run `xpfang login`)", err)
	}

	return err
}
