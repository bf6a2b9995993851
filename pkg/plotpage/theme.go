package plotpage

import (
	"errors"
	"fmt"
)

// Theme is a color theme for pages and charts.
type Theme string

// Themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ErrUnknownTheme is returned by ParseTheme.
var ErrUnknownTheme = errors.New("unknown theme")

// ParseTheme resolves a theme by name.
func ParseTheme(name string) (Theme, error) {
	switch t := Theme(name); t {
	case ThemeLight, ThemeDark:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
}

// ThemeConfig holds the theme-specific styling values.
type ThemeConfig struct {
	Background    string
	Surface       string
	Border        string
	TextPrimary   string
	TextSecondary string
	TextMuted     string
	Accent        string

	Pass string
	Fail string

	ChartBackground string
	ChartGrid       string
	ChartAxis       string
	ChartText       string
	ChartTextMuted  string

	// Series colors, in order of use.
	Palette []string
}

// GetThemeConfig returns the configuration of a theme. Unknown themes fall back
// to the dark theme.
func GetThemeConfig(theme Theme) ThemeConfig {
	if theme == ThemeLight {
		return lightTheme
	}

	return darkTheme
}

var darkTheme = ThemeConfig{
	Background:    "#0e0e16",
	Surface:       "#14141e",
	Border:        "#2a2a3a",
	TextPrimary:   "#ffffff",
	TextSecondary: "rgba(255,255,255,0.8)",
	TextMuted:     "rgba(255,255,255,0.65)",
	Accent:        "#f0c14b",

	Pass: "#fcc1db",
	Fail: "rgba(255,255,255,0.25)",

	ChartBackground: "transparent",
	ChartGrid:       "rgba(255,255,255,0.07)",
	ChartAxis:       "rgba(255,255,255,0.2)",
	ChartText:       "rgba(255,255,255,0.8)",
	ChartTextMuted:  "rgba(255,255,255,0.65)",

	Palette: []string{"#fcc1db", "#f0c14b", "#9b5cff", "#38bdf8", "#a3e635", "#fb923c"},
}

var lightTheme = ThemeConfig{
	Background:    "#fafaf9",
	Surface:       "#ffffff",
	Border:        "#e7e5e4",
	TextPrimary:   "#1c1917",
	TextSecondary: "#44403c",
	TextMuted:     "#78716c",
	Accent:        "#a16207",

	Pass: "#db2777",
	Fail: "#d6d3d1",

	ChartBackground: "transparent",
	ChartGrid:       "#e7e5e4",
	ChartAxis:       "#a8a29e",
	ChartText:       "#44403c",
	ChartTextMuted:  "#78716c",

	Palette: []string{"#db2777", "#a16207", "#7c3aed", "#0369a1", "#4d7c0f", "#c2410c"},
}

// SeriesColor returns the i-th palette color, wrapping around.
func (t ThemeConfig) SeriesColor(i int) string {
	if len(t.Palette) == 0 {
		return t.Accent
	}

	return t.Palette[i%len(t.Palette)]
}
