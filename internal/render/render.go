// Package render draws punch cards as terminal text.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/keypunch/internal/grid"
)

const (
	holeGlyph  = "█"
	blankGlyph = "·"
	gutter     = " │ "
	labelWidth = 2
)

var (
	printedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	holeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E8C06A"))
	blankStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))
)

// Options control card drawing.
type Options struct {
	// Color enables lipgloss styling. Plain text otherwise.
	Color bool
}

// CardWidth reports the display width of a rendered card with cols columns.
func CardWidth(cols int) int {
	return labelWidth + runewidth.StringWidth(gutter) + cols
}

// Card renders the grid as a punch card. The printed string holds the
// characters stamped along the top edge so far, one per column; pass the
// full message text for a finished card.
func Card(g *grid.Grid, printed string, opts Options) string {
	var b strings.Builder
	b.WriteString(printedRow(g.Cols(), printed, opts))
	b.WriteByte('\n')
	for row := 0; row < g.Rows(); row++ {
		label := fmt.Sprintf("%*s", labelWidth, rowLabel(row)) + gutter
		if opts.Color {
			label = labelStyle.Render(label)
		}
		b.WriteString(label)
		for col := 0; col < g.Cols(); {
			on := g.Get(row, col)
			run := col + 1
			for run < g.Cols() && g.Get(row, run) == on {
				run++
			}
			chunk := strings.Repeat(glyphFor(on), run-col)
			if opts.Color {
				chunk = styleFor(on).Render(chunk)
			}
			b.WriteString(chunk)
			col = run
		}
		if row < g.Rows()-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// printedRow lays the stamped characters above their columns. Wide and
// zero-width runes would break column alignment, so they print as spaces.
func printedRow(cols int, printed string, opts Options) string {
	runes := []rune(printed)
	var text strings.Builder
	for i := 0; i < cols && i < len(runes); i++ {
		r := runes[i]
		if runewidth.RuneWidth(r) != 1 {
			r = ' '
		}
		text.WriteRune(r)
	}
	line := text.String()
	if opts.Color {
		line = printedStyle.Render(line)
	}
	return strings.Repeat(" ", labelWidth+runewidth.StringWidth(gutter)) + line
}

func rowLabel(row int) string {
	switch row {
	case 0:
		return "12"
	case 1:
		return "11"
	default:
		return strconv.Itoa(row - 2)
	}
}

func glyphFor(on bool) string {
	if on {
		return holeGlyph
	}
	return blankGlyph
}

func styleFor(on bool) lipgloss.Style {
	if on {
		return holeStyle
	}
	return blankStyle
}

// TruncateWidth shortens s to fit width display cells, marking the cut.
// Width counts visible cells only, so styled input is measured and cut
// without breaking its escape sequences.
func TruncateWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
