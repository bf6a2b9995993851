package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/xpfang/pkg/dashboard"
	"github.com/Sumatoshi-tech/xpfang/pkg/observability"
	"github.com/Sumatoshi-tech/xpfang/pkg/plotpage"
	"github.com/Sumatoshi-tech/xpfang/pkg/profile"
	"github.com/Sumatoshi-tech/xpfang/pkg/renderer"
	"github.com/Sumatoshi-tech/xpfang/pkg/svgchart"
)

const (
	renderDirPerm     = 0o750
	renderFilePerm    = 0o644
	renderIndexFile   = "index.html"
	renderJSONFile    = "dashboard.json"
	renderOutputFlag  = "output"
	renderOutputShort = "o"
	renderOutputUsage = "output directory (default: render.output)"
	renderThemeFlag   = "theme"
	renderThemeUsage  = "page theme: light or dark (default: render.theme)"
)

// ErrNoOutputDir is returned when neither --output nor render.output is set.
var ErrNoOutputDir = errors.New("output directory is required (use --output)")

// NewRenderCommand creates the render subcommand.
func NewRenderCommand(opts *GlobalOptions) *cobra.Command {
	var outputDir, theme string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the dashboard as HTML, SVG charts and JSON",
		Long: `Fetch the signed-in user's rows and write a static report:

  index.html      interactive dashboard page
  dashboard.json  the computed dashboard
  *.svg           one standalone chart per graph`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(opts, observability.ModeCLI, nil)
			if err != nil {
				return err
			}
			defer rt.close()

			if outputDir == "" {
				outputDir = rt.cfg.Render.Output
			}

			if outputDir == "" {
				return ErrNoOutputDir
			}

			if theme == "" {
				theme = rt.cfg.Render.Theme
			}

			pageTheme, err := plotpage.ParseTheme(theme)
			if err != nil {
				return err
			}

			d, err := rt.load(cobraCmd.Context())
			if err != nil {
				return err
			}

			written, err := writeReport(outputDir, d, pageTheme)
			if err != nil {
				return err
			}

			rt.logger.InfoContext(cobraCmd.Context(), "report written", "dir", outputDir, "files", len(written))

			for _, path := range written {
				fmt.Fprintln(cobraCmd.OutOrStdout(), path)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, renderOutputFlag, renderOutputShort, "", renderOutputUsage)
	cmd.Flags().StringVar(&theme, renderThemeFlag, "", renderThemeUsage)

	return cmd
}

// writeReport writes every report file into dir and returns their paths.
func writeReport(dir string, d *profile.Dashboard, theme plotpage.Theme) ([]string, error) {
	err := os.MkdirAll(dir, renderDirPerm)
	if err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var page bytes.Buffer

	err = dashboard.NewPage(d, theme).Render(&page)
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}

	indexPath := filepath.Join(dir, renderIndexFile)

	err = os.WriteFile(indexPath, page.Bytes(), renderFilePerm)
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", renderIndexFile, err)
	}

	data, err := renderer.RenderJSON(d)
	if err != nil {
		return nil, err
	}

	jsonPath := filepath.Join(dir, renderJSONFile)

	err = os.WriteFile(jsonPath, data, renderFilePerm)
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", renderJSONFile, err)
	}

	charts, err := svgchart.WriteDir(dir, svgchart.All(d))
	if err != nil {
		return nil, err
	}

	return append([]string{indexPath, jsonPath}, charts...), nil
}
