package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/xpfang/pkg/observability"
	"github.com/Sumatoshi-tech/xpfang/pkg/renderer"
	"github.com/Sumatoshi-tech/xpfang/pkg/terminal"
)

const (
	formatFlag      = "format"
	formatFlagShort = "f"
	formatFlagUsage = "output format: text, json or yaml (default: render.format)"
)

// NewProfileCommand creates the profile subcommand.
func NewProfileCommand(opts *GlobalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Print the dashboard for the signed-in user",
		Long: `Fetch the signed-in user's rows and print the computed dashboard.

Formats:
  text  colored terminal report
  json  the dashboard as JSON
  yaml  the dashboard as YAML`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(opts, observability.ModeCLI, nil)
			if err != nil {
				return err
			}
			defer rt.close()

			if format == "" {
				format = rt.cfg.Render.Format
			}

			d, err := rt.load(cobraCmd.Context())
			if err != nil {
				return err
			}

			out := cobraCmd.OutOrStdout()

			if format == renderer.FormatText {
				return terminal.WriteDashboard(out, terminal.NewConfig(), d)
			}

			return renderer.Write(out, format, d)
		},
	}

	cmd.Flags().StringVarP(&format, formatFlag, formatFlagShort, "", formatFlagUsage)

	return cmd
}
