// Package taskform renders the add-task overlay: a small form collecting
// the name, dates, cost, quantity, and responsible party for a new row.
package taskform

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/gantt/pkg/task"
	"tableflip.dev/gantt/pkg/tui/events"
)

var focusColor = lipgloss.Color("212")

type field int

const (
	fieldName field = iota
	fieldStart
	fieldEnd
	fieldCost
	fieldQuantity
	fieldResponsible
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Name",
	"Plan start",
	"Plan end",
	"Cost",
	"Quantity",
	"Responsible",
}

// Options control initial state for the add-task overlay.
type Options struct {
	Project     events.ProjectRef
	ParentID    string
	ParentLabel string
	Group       bool
}

// SubmitMsg carries the completed form back to the root model.
type SubmitMsg struct {
	Component   events.ComponentID
	Project     events.ProjectRef
	ParentID    string
	Group       bool
	Name        string
	Start       string
	End         string
	Cost        string
	Quantity    string
	Responsible string
}

// Describe renders the submission for logs.
func (m SubmitMsg) Describe() string {
	return "name:" + m.Name
}

// CancelMsg reports the overlay was dismissed without submitting.
type CancelMsg struct {
	Component events.ComponentID
}

// Describe renders the cancellation for logs.
func (m CancelMsg) Describe() string {
	return string(m.Component)
}

// Model is the add-task form overlay.
type Model struct {
	id   events.ComponentID
	opts Options

	width  int
	height int

	focus  field
	inputs [fieldCount]textinput.Model

	errorMsg string

	frame lipgloss.Style
	title lipgloss.Style
	label lipgloss.Style
	err   lipgloss.Style
}

// NewModel constructs the overlay for the provided context.
func NewModel(opts Options) *Model {
	m := &Model{
		id:   events.ComponentID("taskform"),
		opts: opts,
		frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2),
		title: lipgloss.NewStyle().Bold(true),
		label: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		err:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
	placeholders := [fieldCount]string{
		"Pour east footing",
		"2024-09-01",
		"2024-09-05",
		"0",
		"",
		"",
	}
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		m.inputs[i] = in
	}
	m.inputs[fieldName].Focus()
	return m
}

// Init implements command.Overlay.
func (m *Model) Init() tea.Cmd { return nil }

// Update handles form navigation and editing.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "esc":
		return m, func() tea.Msg { return CancelMsg{Component: m.id} }
	case "tab", "down":
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil
	case "enter":
		return m.submit()
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) submit() (*Model, tea.Cmd) {
	name := strings.TrimSpace(m.inputs[fieldName].Value())
	if name == "" {
		m.errorMsg = "a name is required"
		m.setFocus(fieldName)
		return m, nil
	}
	start := strings.TrimSpace(m.inputs[fieldStart].Value())
	end := strings.TrimSpace(m.inputs[fieldEnd].Value())
	for _, v := range []string{start, end} {
		if v == "" {
			continue
		}
		if _, err := task.ParseDate(v); err != nil {
			m.errorMsg = "dates must look like 2024-09-01"
			return m, nil
		}
	}
	m.errorMsg = ""
	submit := SubmitMsg{
		Component:   m.id,
		Project:     m.opts.Project,
		ParentID:    m.opts.ParentID,
		Group:       m.opts.Group,
		Name:        name,
		Start:       start,
		End:         end,
		Cost:        strings.TrimSpace(m.inputs[fieldCost].Value()),
		Quantity:    strings.TrimSpace(m.inputs[fieldQuantity].Value()),
		Responsible: strings.TrimSpace(m.inputs[fieldResponsible].Value()),
	}
	return m, func() tea.Msg { return submit }
}

func (m *Model) setFocus(f field) {
	m.inputs[m.focus].Blur()
	m.focus = f
	m.inputs[m.focus].Focus()
}

// View renders the form.
func (m *Model) View() string {
	var b strings.Builder
	heading := "Add task"
	if m.opts.Group {
		heading = "Add group"
	}
	if m.opts.ParentLabel != "" {
		heading += " under " + m.opts.ParentLabel
	}
	b.WriteString(m.title.Render(heading))
	b.WriteString("\n\n")
	for i := field(0); i < fieldCount; i++ {
		label := fieldLabels[i]
		style := m.label
		if i == m.focus {
			style = style.Foreground(focusColor)
		}
		b.WriteString(style.Render(pad(label, 12)))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	if m.errorMsg != "" {
		b.WriteString("\n")
		b.WriteString(m.err.Render(m.errorMsg))
	}
	b.WriteString("\n")
	b.WriteString(m.label.Render("enter save · tab next field · esc cancel"))
	return m.frame.Render(b.String())
}

// SetSize adjusts the overlay bounds.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	inner := width - 18
	if inner < 10 {
		inner = 10
	}
	for i := range m.inputs {
		m.inputs[i].SetWidth(inner)
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
