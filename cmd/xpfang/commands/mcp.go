package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/xpfang/pkg/mcp"
	"github.com/Sumatoshi-tech/xpfang/pkg/observability"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand(opts *GlobalOptions) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes the signed-in user's dashboard as tools that agents
can discover and invoke:
  - xpfang_summary: total XP, level, audit ratio, pass rate and piscine progress
  - xpfang_xp_timeline: XP per day and the cumulative series
  - xpfang_outcomes: final project outcomes under selectable policies`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			var mcpOpts GlobalOptions
			if opts != nil {
				mcpOpts = *opts
			}

			mcpOpts.Verbose = mcpOpts.Verbose || debug

			rt, err := newRuntime(&mcpOpts, observability.ModeMCP, nil)
			if err != nil {
				return err
			}
			defer rt.close()

			deps := mcp.ServerDeps{
				Source:   rt.fetcher(),
				Policies: &rt.policies,
				Logger:   rt.logger,
				Metrics:  rt.red,
				Tracer:   rt.providers.Tracer,
			}

			return mcp.NewServer(deps).Run(cobraCmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")

	return cmd
}
