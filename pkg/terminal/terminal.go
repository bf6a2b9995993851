// Package terminal renders the dashboard for a text terminal.
package terminal

import (
	"os"
	"strconv"

	"golang.org/x/term"
)

// Default width constants.
const (
	DefaultWidth = 80
	MinWidth     = 60
	MaxWidth     = 120
)

// Config holds terminal rendering configuration.
type Config struct {
	Width   int
	NoColor bool
}

// NewConfig creates a Config from the environment and the stdout terminal.
func NewConfig() Config {
	return Config{
		Width:   clampWidth(DetectWidth()),
		NoColor: os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// DetectWidth returns the width from COLUMNS, then the stdout terminal size,
// then DefaultWidth.
func DetectWidth() int {
	if columnsEnv := os.Getenv("COLUMNS"); columnsEnv != "" {
		width, err := strconv.Atoi(columnsEnv)
		if err == nil && width > 0 {
			return width
		}
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err == nil && width > 0 {
		return width
	}

	return DefaultWidth
}

func clampWidth(width int) int {
	return min(max(width, MinWidth), MaxWidth)
}
