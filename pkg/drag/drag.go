// Package drag turns continuous pointer movement into discrete, snapped
// reschedule operations. The state is an immutable snapshot advanced by
// pure reducers, so every pointer tick is idempotent and the engine tests
// without a UI harness.
package drag

import (
	"time"

	"tableflip.dev/gantt/pkg/timeline"
	"tableflip.dev/gantt/pkg/timeutil"
)

// Kind is the gesture being performed.
type Kind string

const (
	KindMove        Kind = "move"
	KindResizeStart Kind = "resize-start"
	KindResizeEnd   Kind = "resize-end"
)

// Bar selects which schedule the gesture edits.
type Bar string

const (
	BarPlan   Bar = "plan"
	BarActual Bar = "actual"
)

// State is one in-flight gesture. The zero value is idle.
type State struct {
	Active bool
	Kind   Kind
	Bar    Bar
	TaskID string

	Scale   timeline.Scale
	OriginX float64

	// Captured at drag start; every tick derives from these, never from
	// the previous preview, so ticks cannot accumulate rounding error.
	OrigStart time.Time
	OrigEnd   time.Time

	Preview Preview
}

// Preview is the live, uncommitted result of the current tick.
type Preview struct {
	Start time.Time
	End   time.Time
	Units int
}

// Commit is the single proposed mutation emitted on release.
type Commit struct {
	TaskID string
	Bar    Bar
	Start  time.Time
	End    time.Time
}

// Begin captures the task's dates and the pointer origin, entering the
// dragging state.
func Begin(scale timeline.Scale, kind Kind, bar Bar, taskID string, start, end time.Time, originX float64) State {
	start = timeutil.Midnight(start)
	end = timeutil.Midnight(end)
	return State{
		Active:    true,
		Kind:      kind,
		Bar:       bar,
		TaskID:    taskID,
		Scale:     scale,
		OriginX:   originX,
		OrigStart: start,
		OrigEnd:   end,
		Preview:   Preview{Start: start, End: end},
	}
}

// Tick advances the preview for the pointer now being at x. Inactive states
// pass through unchanged.
func (s State) Tick(x float64) State {
	if !s.Active {
		return s
	}
	units := s.Scale.SnapUnits(x - s.OriginX)
	start, end := s.OrigStart, s.OrigEnd
	switch s.Kind {
	case KindResizeStart:
		start = s.Scale.ShiftByUnits(start, units)
		// The start may never pass the end; clamp to a one day floor.
		if start.After(end) {
			start = end
		}
	case KindResizeEnd:
		end = s.Scale.ShiftByUnits(end, units)
		if end.Before(start) {
			end = start
		}
	default:
		start = s.Scale.ShiftByUnits(start, units)
		end = s.Scale.ShiftByUnits(end, units)
	}
	s.Preview = Preview{Start: start, End: end, Units: units}
	return s
}

// Release ends the gesture. It returns the commit to hand to the task
// update contract and true, or false when the gesture is inactive or the
// snapped result equals the original dates (nothing to persist).
func (s State) Release() (Commit, bool) {
	if !s.Active {
		return Commit{}, false
	}
	p := s.Preview
	if p.Start.Equal(s.OrigStart) && p.End.Equal(s.OrigEnd) {
		return Commit{}, false
	}
	return Commit{TaskID: s.TaskID, Bar: s.Bar, Start: p.Start, End: p.End}, true
}

// Cancel discards the gesture and its preview.
func (s State) Cancel() State {
	return State{}
}
