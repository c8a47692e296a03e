// Package project defines per-project metadata for gantt schedules.
package project

import (
	"encoding/json"
	"fmt"
	"strings"

	"tableflip.dev/gantt/pkg/task"
)

// Meta describes persisted per-project metadata. Start and End are the
// default timeline bounds used when a project has no tasks yet.
type Meta struct {
	Name  string    `json:"name"`
	Start task.Date `json:"start,omitempty"`
	End   task.Date `json:"end,omitempty"`
}

// Validate checks that the metadata can be persisted.
func (m Meta) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("project: name required")
	}
	if !m.Start.IsZero() && !m.End.IsZero() && m.End.Before(m.Start.Time) {
		return fmt.Errorf("project: end %s before start %s", m.End, m.Start)
	}
	return nil
}

// MarshalList serialises a metadata slice.
func MarshalList(metas []Meta) ([]byte, error) {
	return json.MarshalIndent(metas, "", "  ")
}

// UnmarshalList deserialises a metadata slice and upgrades legacy arrays of
// bare project names.
func UnmarshalList(data []byte) ([]Meta, error) {
	if len(data) == 0 {
		return []Meta{}, nil
	}
	var metas []Meta
	if err := json.Unmarshal(data, &metas); err == nil {
		return metas, nil
	}
	var legacy []string
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, err
	}
	metas = make([]Meta, 0, len(legacy))
	for _, name := range legacy {
		metas = append(metas, Meta{Name: name})
	}
	return metas, nil
}

// Prefs is the persisted UI preference object: visible columns, the last
// timeline zoom and collapse state, and the reference date the S-curve
// "today" cutoff uses when no --as-of is given. Its presence or absence
// never changes any stored schedule data.
type Prefs struct {
	Columns       map[string]bool `json:"columns,omitempty"`
	ReferenceDate task.Date       `json:"referenceDate,omitempty"`
	ViewMode      string          `json:"viewMode,omitempty"`
	Collapsed     []string        `json:"collapsed,omitempty"`
}
