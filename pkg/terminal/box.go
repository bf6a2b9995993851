package terminal

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
)

// Box drawing characters, light.
const (
	BoxHorizontal = "─"
)

// Box drawing characters, heavy.
const (
	BoxHeavyHorizontal  = "━"
	BoxHeavyVertical    = "┃"
	BoxHeavyTopLeft     = "┏"
	BoxHeavyTopRight    = "┓"
	BoxHeavyBottomLeft  = "┗"
	BoxHeavyBottomRight = "┛"
)

// HeaderPadding is the space around header content.
const HeaderPadding = 1

// DrawSeparator draws a thin horizontal separator line.
func DrawSeparator(width int) string {
	if width <= 0 {
		return ""
	}

	return strings.Repeat(BoxHorizontal, width)
}

// DrawHeader draws a heavy-bordered section header.
// ┏━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┓
// ┃ TITLE                     rightText ┃
// ┗━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┛
func DrawHeader(title, rightText string, width int) string {
	titleWidth := text.StringWidthWithoutEscSequences(title)
	rightWidth := text.StringWidthWithoutEscSequences(rightText)

	minRequired := titleWidth + rightWidth + 4 + (HeaderPadding * 2)
	width = max(width, minRequired)

	innerWidth := width - 2
	contentWidth := innerWidth - (HeaderPadding * 2)

	var content string
	if rightText == "" {
		content = PadRight(title, contentWidth)
	} else {
		gap := max(contentWidth-titleWidth-rightWidth, 1)
		content = title + strings.Repeat(" ", gap) + rightText
	}

	pad := strings.Repeat(" ", HeaderPadding)

	return BoxHeavyTopLeft + strings.Repeat(BoxHeavyHorizontal, innerWidth) + BoxHeavyTopRight + "\n" +
		BoxHeavyVertical + pad + content + pad + BoxHeavyVertical + "\n" +
		BoxHeavyBottomLeft + strings.Repeat(BoxHeavyHorizontal, innerWidth) + BoxHeavyBottomRight
}
