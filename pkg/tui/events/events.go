package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/gantt/pkg/drag"
	"tableflip.dev/gantt/pkg/task"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// ProjectRef captures the metadata required to identify a project in
// cross-component events.
type ProjectRef struct {
	Name  string
	Start task.Date
	End   task.Date
}

// Label returns a human-friendly identifier for the project.
func (r ProjectRef) Label() string {
	return r.Name
}

// TaskRef describes a schedule row within a project.
type TaskRef struct {
	ID       string
	Name     string
	ParentID string
	Type     task.Type
	Status   task.Status
}

// TaskHighlightMsg fires whenever the schedule pane highlights a row.
type TaskHighlightMsg struct {
	Component ComponentID
	Project   ProjectRef
	Task      TaskRef
}

// Describe renders the highlight in a human-friendly format for logs.
func (m TaskHighlightMsg) Describe() string {
	return fmt.Sprintf(`project:%q task:%q`, m.Project.Label(), m.Task.Name)
}

// TaskSelectMsg fires when the user activates a highlighted row.
type TaskSelectMsg struct {
	Component ComponentID
	Project   ProjectRef
	Task      TaskRef
}

// Describe renders the selection in a human-friendly format for logs.
func (m TaskSelectMsg) Describe() string {
	return fmt.Sprintf(`project:%q task:%q type:%q`, m.Project.Label(), m.Task.Name, m.Task.Type)
}

// ChangeType enumerates supported change actions across components.
type ChangeType string

const (
	// ChangeCreate indicates a new resource was created.
	ChangeCreate ChangeType = "create"
	// ChangeUpdate indicates an existing resource changed.
	ChangeUpdate ChangeType = "update"
	// ChangeDelete indicates a resource was removed.
	ChangeDelete ChangeType = "delete"
)

// TaskChangeMsg announces lifecycle changes to tasks (create/update/delete)
// regardless of their origin (user action, watcher, import, etc).
type TaskChangeMsg struct {
	Component ComponentID
	Action    ChangeType
	Project   ProjectRef
	Task      TaskRef
	Meta      map[string]string
}

// Describe renders the change in a human-friendly format for logs.
func (m TaskChangeMsg) Describe() string {
	return fmt.Sprintf(`action:%q project:%q task:%q`, m.Action, m.Project.Label(), m.Task.Name)
}

// TaskChangeCmd wraps TaskChangeMsg into a tea.Cmd for callers that want to
// emit the event as part of an Update result.
func TaskChangeCmd(component ComponentID, action ChangeType, project ProjectRef, ref TaskRef, meta map[string]string) tea.Cmd {
	return func() tea.Msg {
		return TaskChangeMsg{
			Component: component,
			Action:    action,
			Project:   project,
			Task:      ref,
			Meta:      meta,
		}
	}
}

// ProjectChangeMsg announces that a project's stored tasks changed on disk
// and listeners should reload.
type ProjectChangeMsg struct {
	Component ComponentID
	Project   ProjectRef
}

// Describe renders the reload notice for logs.
func (m ProjectChangeMsg) Describe() string {
	return fmt.Sprintf(`project:%q`, m.Project.Label())
}

// DragCommitMsg reports a finished bar drag: the task, which bar moved, and
// the snapped day delta.
type DragCommitMsg struct {
	Component ComponentID
	Project   ProjectRef
	Task      TaskRef
	Commit    drag.Commit
}

// Describe renders the commit for logs.
func (m DragCommitMsg) Describe() string {
	return fmt.Sprintf(`task:%q bar:%q start:%q end:%q`,
		m.Task.Name, m.Commit.Bar,
		m.Commit.Start.Format("2006-01-02"), m.Commit.End.Format("2006-01-02"))
}

// DragCommitCmd wraps DragCommitMsg in a tea.Cmd.
func DragCommitCmd(component ComponentID, project ProjectRef, ref TaskRef, commit drag.Commit) tea.Cmd {
	return func() tea.Msg {
		return DragCommitMsg{
			Component: component,
			Project:   project,
			Task:      ref,
			Commit:    commit,
		}
	}
}

// LinkRequestMsg asks the root model to create a dependency from the end of
// source to the start of target.
type LinkRequestMsg struct {
	Component ComponentID
	Project   ProjectRef
	Source    TaskRef
	Target    TaskRef
}

// Describe renders the link request for logs.
func (m LinkRequestMsg) Describe() string {
	return fmt.Sprintf(`source:%q target:%q`, m.Source.Name, m.Target.Name)
}

// LinkRequestCmd wraps LinkRequestMsg in a tea.Cmd.
func LinkRequestCmd(component ComponentID, project ProjectRef, source, target TaskRef) tea.Cmd {
	return func() tea.Msg {
		return LinkRequestMsg{
			Component: component,
			Project:   project,
			Source:    source,
			Target:    target,
		}
	}
}

// ProgressRequestMsg asks the root model to set percent complete on a task.
type ProgressRequestMsg struct {
	Component ComponentID
	Project   ProjectRef
	Task      TaskRef
	Percent   int
}

// Describe renders the progress request for logs.
func (m ProgressRequestMsg) Describe() string {
	return fmt.Sprintf(`task:%q percent:%d`, m.Task.Name, m.Percent)
}

// AddTaskRequestMsg asks the root model to open the add-task overlay for the
// provided parent context.
type AddTaskRequestMsg struct {
	Component   ComponentID
	Project     ProjectRef
	ParentID    string
	ParentLabel string
	Origin      string
}

// Describe renders the request for logs.
func (m AddTaskRequestMsg) Describe() string {
	return fmt.Sprintf(`component:%q project:%q parent:%q origin:%q`,
		m.Component, m.Project.Label(), m.ParentLabel, m.Origin)
}

// AddTaskRequestCmd wraps AddTaskRequestMsg in a tea.Cmd.
func AddTaskRequestCmd(component ComponentID, project ProjectRef, parentID, parentLabel, origin string) tea.Cmd {
	return func() tea.Msg {
		return AddTaskRequestMsg{
			Component:   component,
			Project:     project,
			ParentID:    parentID,
			ParentLabel: parentLabel,
			Origin:      origin,
		}
	}
}

// CommandMode represents the current state of the command prompt.
type CommandMode string

const (
	// CommandModePassive indicates the command bar is idle.
	CommandModePassive CommandMode = "passive"
	// CommandModeInput indicates the command bar is collecting user input.
	CommandModeInput CommandMode = "input"
)

// CommandChangeMsg is emitted when the command input value changes.
type CommandChangeMsg struct {
	Component ComponentID
	Value     string
	Mode      CommandMode
}

// Describe implements the logging helper.
func (m CommandChangeMsg) Describe() string {
	return fmt.Sprintf(`value:%q mode:%q`, m.Value, m.Mode)
}

// CommandSubmitMsg is emitted when the command input is submitted.
type CommandSubmitMsg struct {
	Component ComponentID
	Value     string
}

// Describe implements the logging helper.
func (m CommandSubmitMsg) Describe() string {
	return fmt.Sprintf(`value:%q`, m.Value)
}

// CommandCancelMsg is emitted when command entry is cancelled.
type CommandCancelMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m CommandCancelMsg) Describe() string {
	return fmt.Sprintf(`component:%q`, m.Component)
}

// CommandChangeCmd wraps CommandChangeMsg.
func CommandChangeCmd(component ComponentID, value string, mode CommandMode) tea.Cmd {
	return func() tea.Msg {
		return CommandChangeMsg{
			Component: component,
			Value:     value,
			Mode:      mode,
		}
	}
}

// CommandSubmitCmd wraps CommandSubmitMsg.
func CommandSubmitCmd(component ComponentID, value string) tea.Cmd {
	return func() tea.Msg {
		return CommandSubmitMsg{
			Component: component,
			Value:     value,
		}
	}
}

// CommandCancelCmd wraps CommandCancelMsg.
func CommandCancelCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return CommandCancelMsg{
			Component: component,
		}
	}
}

// FocusMsg indicates a component just gained focus.
type FocusMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m FocusMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"focus"`, m.Component)
}

// BlurMsg indicates a component just lost focus.
type BlurMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m BlurMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"blur"`, m.Component)
}

// FocusCmd wraps a FocusMsg in a tea.Cmd helper.
func FocusCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return FocusMsg{Component: component}
	}
}

// BlurCmd wraps a BlurMsg in a tea.Cmd helper.
func BlurCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return BlurMsg{Component: component}
	}
}

// DebugMsg captures optional diagnostic notes emitted by components.
type DebugMsg struct {
	Component ComponentID
	Context   string
	Detail    string
}

// Describe renders the debug message in a human-readable format.
func (m DebugMsg) Describe() string {
	return fmt.Sprintf(`component:%q context:%q detail:%q`, m.Component, m.Context, m.Detail)
}

// DebugCmd wraps DebugMsg creation in a tea.Cmd helper.
func DebugCmd(component ComponentID, context, detail string) tea.Cmd {
	return func() tea.Msg {
		return DebugMsg{Component: component, Context: context, Detail: detail}
	}
}
