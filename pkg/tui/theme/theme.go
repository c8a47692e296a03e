package theme

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer FooterTheme
	Panel  PanelTheme
	Gantt  GanttTheme
	Modal  ModalTheme
}

// FooterTheme groups styles used by the bottom status/command bar.
type FooterTheme struct {
	Help                lipgloss.Style
	Status              lipgloss.Style
	Error               lipgloss.Style
	CommandName         lipgloss.Style
	CommandDescription  lipgloss.Style
	CommandSelectedName lipgloss.Style
	CommandSelectedDesc lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// GanttTheme styles the schedule pane: row states, timeline chrome, and the
// plan/actual bars.
type GanttTheme struct {
	Heading     lipgloss.Style
	RowSelected lipgloss.Style
	RowUpdating lipgloss.Style
	Weekend     lipgloss.Style
	Today       lipgloss.Style
	Axis        lipgloss.Style
	PlanBar     lipgloss.Style
	ActualBar   lipgloss.Style
	DragPreview lipgloss.Style
	Connector   lipgloss.Style
}

// ModalTheme styles centered modal overlays (e.g., add task).
type ModalTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	commandName := lipgloss.NewStyle().
		Foreground(lipgloss.Color("212")).
		Bold(true)
	commandDesc := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	commandSelectedName := commandName.Reverse(true)
	commandSelectedDesc := commandDesc.Reverse(true)

	return Theme{
		Footer: FooterTheme{
			Help:                lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status:              lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:               lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			CommandName:         commandName,
			CommandDescription:  commandDesc,
			CommandSelectedName: commandSelectedName,
			CommandSelectedDesc: commandSelectedDesc,
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 2),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
		},
		Gantt: GanttTheme{
			Heading:     lipgloss.NewStyle().Bold(true),
			RowSelected: lipgloss.NewStyle().Reverse(true),
			RowUpdating: lipgloss.NewStyle().Faint(true),
			Weekend:     lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
			Today:       lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
			Axis:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			PlanBar:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
			ActualBar:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			DragPreview: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			Connector:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 2),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
		},
	}
}

// CategoryColors produces n evenly spaced, readable bar colors. Categories
// keep stable colors while rows reorder because callers key by category
// index, not row index.
func CategoryColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	out := make([]color.Color, 0, n)
	for i := 0; i < n; i++ {
		h := float64(i) * 360.0 / float64(n)
		out = append(out, lipgloss.Color(colorful.Hsl(h, 0.55, 0.55).Hex()))
	}
	return out
}

// BarStyle returns the plan bar style tinted with the given color.
func (t GanttTheme) BarStyle(c color.Color) lipgloss.Style {
	if c == nil {
		return t.PlanBar
	}
	return t.PlanBar.Foreground(c)
}
