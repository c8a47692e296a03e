// Package overlay positions floating panes, like the command verb palette,
// over the schedule viewport.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

// Anchor pins a pane to an edge or the center of the viewport.
type Anchor struct {
	Horizontal lipgloss.Position
	Vertical   lipgloss.Position
	MarginX    int
	MarginY    int
}

// Place paints the pane over the base view at the anchored position. Base
// lines keep everything left of the pane; what the pane covers is replaced
// through to the end of the line, so the schedule never bleeds through a
// palette row.
func Place(base string, width, height int, pane string, at Anchor) string {
	lines := clampViewport(base, width, height)
	if pane == "" {
		return strings.Join(lines, "\n")
	}

	paneLines := strings.Split(pane, "\n")
	paneWidth := 0
	for _, l := range paneLines {
		if w := ansi.PrintableRuneWidth(l); w > paneWidth {
			paneWidth = w
		}
	}
	if paneWidth == 0 {
		return strings.Join(lines, "\n")
	}
	if paneWidth > width {
		paneWidth = width
	}
	paneHeight := len(paneLines)
	if paneHeight > height {
		paneLines = paneLines[:height]
		paneHeight = height
	}

	x := anchorOffset(at.Horizontal, at.MarginX, width, paneWidth)
	y := anchorOffset(at.Vertical, at.MarginY, height, paneHeight)

	for i, pl := range paneLines {
		row := y + i
		if row < 0 || row >= len(lines) {
			continue
		}
		left := truncate.String(lines[row], uint(x))
		if pad := x - ansi.PrintableRuneWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		lines[row] = left + padLine(pl, paneWidth)
	}
	return strings.Join(lines, "\n")
}

// clampViewport trims the view to the last height lines and pads short
// views, so the pane row math always lands inside the viewport.
func clampViewport(view string, width, height int) []string {
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = padLine(lines[i], width)
	}
	return lines
}

func padLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.PrintableRuneWidth(s)
	if w > width {
		return truncate.String(s, uint(width))
	}
	return s + strings.Repeat(" ", width-w)
}

func anchorOffset(pos lipgloss.Position, margin, total, span int) int {
	// Left and Top share a value, as do Right and Bottom, so one axis
	// helper serves both.
	var at int
	switch pos {
	case lipgloss.Left:
		at = margin
	case lipgloss.Right:
		at = total - span - margin
	default:
		at = (total - span) / 2
	}
	if at > total-span {
		at = total - span
	}
	if at < 0 {
		at = 0
	}
	return at
}
