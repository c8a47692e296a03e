// Package rowindex flattens the collapsible grouped hierarchy into a dense
// ordered row list with stable integer indices. The virtualized viewport
// slices this list, and the dependency-connector renderer resolves both
// endpoints of an edge through it even when one endpoint is scrolled away.
package rowindex

import (
	"tableflip.dev/gantt/pkg/task"
	"tableflip.dev/gantt/pkg/tree"
)

// Kind discriminates the row descriptor.
type Kind string

const (
	KindCategory       Kind = "category"
	KindSubcategory    Kind = "subcategory"
	KindSubsubcategory Kind = "subsubcategory"
	KindTask           Kind = "task"
)

// Row is one visible line of the schedule.
type Row struct {
	Kind           Kind
	Category       string
	Subcategory    string
	Subsubcategory string
	Task           *task.Task
	Depth          int
}

// Key identifies the row for collapse tracking: tasks by id, heading rows
// by their qualified name.
func (r Row) Key() string {
	switch r.Kind {
	case KindCategory:
		return "c:" + r.Category
	case KindSubcategory:
		return "s:" + r.Category + "/" + r.Subcategory
	case KindSubsubcategory:
		return "ss:" + r.Category + "/" + r.Subcategory + "/" + r.Subsubcategory
	default:
		if r.Task != nil {
			return r.Task.ID
		}
		return ""
	}
}

// Collapse is the set of collapsed row keys.
type Collapse map[string]bool

// Toggle flips the collapse state of key.
func (c Collapse) Toggle(key string) {
	if c[key] {
		delete(c, key)
		return
	}
	c[key] = true
}

// Build walks the grouped hierarchy depth-first and emits the visible rows
// plus a task id → row index map. A collapsed node keeps exactly one row;
// its subtree is skipped. Heading rows are only emitted for non-empty
// names, so uncategorized tasks sit at the top level without a blank
// header above them.
func Build(idx *tree.Index, collapsed Collapse) ([]Row, map[string]int) {
	var rows []Row
	byTask := make(map[string]int)

	emit := func(r Row) int {
		rows = append(rows, r)
		if r.Kind == KindTask && r.Task != nil {
			byTask[r.Task.ID] = len(rows) - 1
		}
		return len(rows) - 1
	}

	var walkTask func(t *task.Task, depth int)
	walkTask = func(t *task.Task, depth int) {
		emit(Row{Kind: KindTask, Category: t.Category, Subcategory: t.Subcategory,
			Subsubcategory: t.Subsubcategory, Task: t, Depth: depth})
		if collapsed[t.ID] {
			return
		}
		for _, child := range idx.Children(t.ID) {
			walkTask(child, depth+1)
		}
	}

	for _, cat := range idx.Groups() {
		depth := 0
		if cat.Name != "" {
			row := Row{Kind: KindCategory, Category: cat.Name}
			emit(row)
			if collapsed[row.Key()] {
				continue
			}
			depth = 1
		}
		for _, sub := range cat.Subgroups {
			subDepth := depth
			if sub.Name != "" {
				row := Row{Kind: KindSubcategory, Category: cat.Name, Subcategory: sub.Name, Depth: depth}
				emit(row)
				if collapsed[row.Key()] {
					continue
				}
				subDepth = depth + 1
			}
			for _, ss := range sub.Subgroups {
				ssDepth := subDepth
				if ss.Name != "" {
					row := Row{Kind: KindSubsubcategory, Category: cat.Name,
						Subcategory: sub.Name, Subsubcategory: ss.Name, Depth: subDepth}
					emit(row)
					if collapsed[row.Key()] {
						continue
					}
					ssDepth = subDepth + 1
				}
				for _, t := range ss.Tasks {
					walkTask(t, ssDepth)
				}
			}
		}
	}
	return rows, byTask
}

// Slice returns the window [first, last] of rows, clamped to the valid
// range. Connector endpoints outside the window stay resolvable through
// the full index; only drawing is clipped.
func Slice(rows []Row, first, last int) []Row {
	if first < 0 {
		first = 0
	}
	if last >= len(rows) {
		last = len(rows) - 1
	}
	if first > last {
		return nil
	}
	return rows[first : last+1]
}
