// Package main provides the entry point for the xpfang CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/xpfang/cmd/xpfang/commands"
	"github.com/Sumatoshi-tech/xpfang/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	// A missing .env is fine; variables may come from the environment.
	_ = godotenv.Load()

	var opts commands.GlobalOptions

	rootCmd := &cobra.Command{
		Use:   "xpfang",
		Short: "xpfang - learner dashboard for the platform",
		Long: `xpfang signs in to the learning platform and turns your XP, audit and
progress rows into a dashboard.

Commands:
  login     Sign in and store the session token
  profile   Print the dashboard in the terminal, or as JSON or YAML
  render    Write the dashboard as HTML and SVG files
  serve     Serve the live dashboard over HTTP
  mcp       Expose the dashboard to AI agents over MCP`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default: .xpfang.yaml in . or $HOME)")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add commands.
	rootCmd.AddCommand(commands.NewLoginCommand(&opts))
	rootCmd.AddCommand(commands.NewLogoutCommand(&opts))
	rootCmd.AddCommand(commands.NewWhoamiCommand(&opts))
	rootCmd.AddCommand(commands.NewProfileCommand(&opts))
	rootCmd.AddCommand(commands.NewRenderCommand(&opts))
	rootCmd.AddCommand(commands.NewServeCommand(&opts))
	rootCmd.AddCommand(commands.NewMCPCommand(&opts))
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "xpfang %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
