package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/xpfang/pkg/observability"
	"github.com/Sumatoshi-tech/xpfang/pkg/plotpage"
	"github.com/Sumatoshi-tech/xpfang/pkg/server"
)

// NewServeCommand creates the serve subcommand.
func NewServeCommand(opts *GlobalOptions) *cobra.Command {
	var addr, theme string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the live dashboard over HTTP",
		Long: `Start an HTTP server that fetches a fresh snapshot on every page load.

Routes:
  /              HTML dashboard
  /api/profile   dashboard JSON
  /charts/NAME   standalone SVG charts
  /metrics       Prometheus scrape endpoint
  /healthz       health check`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			prom, err := observability.NewPrometheusExporter()
			if err != nil {
				return err
			}

			rt, err := newRuntime(opts, observability.ModeServe, prom.Meter())
			if err != nil {
				return err
			}
			defer rt.close()

			if addr == "" {
				addr = rt.cfg.Serve.Addr
			}

			if theme == "" {
				theme = rt.cfg.Render.Theme
			}

			pageTheme, err := plotpage.ParseTheme(theme)
			if err != nil {
				return err
			}

			srv := server.New(rt.fetcher(), observability.Component(rt.logger, "server"))
			srv.Policies = rt.policies
			srv.Theme = pageTheme
			srv.Tracer = rt.providers.Tracer
			srv.RED = rt.red
			srv.Metrics = prom.Handler()
			srv.ReadTimeout = rt.cfg.Serve.ReadTimeout
			srv.WriteTimeout = rt.cfg.Serve.WriteTimeout

			ctx, stop := signal.NotifyContext(cobraCmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: serve.addr)")
	cmd.Flags().StringVar(&theme, renderThemeFlag, "", renderThemeUsage)

	return cmd
}
