// Package tree builds the task hierarchy and category grouping for one
// project from a flat task collection. The index is rebuilt from scratch on
// every recomputation pass; nothing here holds live back-pointers, so a
// deleted task can never leave a dangling reference behind.
package tree

import (
	"sort"

	"tableflip.dev/gantt/pkg/task"
)

// Index is the derived view of a flat task collection.
type Index struct {
	tasks    map[string]*task.Task
	children map[string][]*task.Task
	roots    []*task.Task
	groups   []CategoryGroup
}

// CategoryGroup buckets root tasks by their category triple. Buckets appear
// in the order their first task appears when roots are sorted by Order.
type CategoryGroup struct {
	Name      string
	Subgroups []SubcategoryGroup
}

// SubcategoryGroup is the second grouping level.
type SubcategoryGroup struct {
	Name      string
	Subgroups []SubsubcategoryGroup
}

// SubsubcategoryGroup is the third grouping level and holds the root tasks
// themselves, sorted by Order.
type SubsubcategoryGroup struct {
	Name  string
	Tasks []*task.Task
}

// Build derives the child index and grouping index from tasks. Children are
// reachable only through their parent; the grouping index covers roots only,
// so no task is ever counted twice.
func Build(tasks []*task.Task) *Index {
	idx := &Index{
		tasks:    make(map[string]*task.Task, len(tasks)),
		children: make(map[string][]*task.Task),
	}
	for _, t := range tasks {
		if t == nil || t.ID == "" {
			continue
		}
		idx.tasks[t.ID] = t
	}
	for _, t := range idx.tasks {
		if t.ParentID == "" {
			idx.roots = append(idx.roots, t)
			continue
		}
		if _, ok := idx.tasks[t.ParentID]; !ok {
			// Orphaned child: its parent left the collection. Treat it
			// as a root so it stays addressable.
			idx.roots = append(idx.roots, t)
			continue
		}
		idx.children[t.ParentID] = append(idx.children[t.ParentID], t)
	}
	sortByOrder(idx.roots)
	for _, kids := range idx.children {
		sortByOrder(kids)
	}
	idx.groups = buildGroups(idx.roots)
	return idx
}

func sortByOrder(tasks []*task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Order != tasks[j].Order {
			return tasks[i].Order < tasks[j].Order
		}
		return tasks[i].ID < tasks[j].ID
	})
}

func buildGroups(roots []*task.Task) []CategoryGroup {
	var groups []CategoryGroup
	catAt := make(map[string]int)
	subAt := make(map[[2]string]int)
	subsubAt := make(map[[3]string]int)

	for _, t := range roots {
		ci, ok := catAt[t.Category]
		if !ok {
			ci = len(groups)
			catAt[t.Category] = ci
			groups = append(groups, CategoryGroup{Name: t.Category})
		}
		sk := [2]string{t.Category, t.Subcategory}
		si, ok := subAt[sk]
		if !ok {
			si = len(groups[ci].Subgroups)
			subAt[sk] = si
			groups[ci].Subgroups = append(groups[ci].Subgroups, SubcategoryGroup{Name: t.Subcategory})
		}
		ssk := [3]string{t.Category, t.Subcategory, t.Subsubcategory}
		ssi, ok := subsubAt[ssk]
		if !ok {
			ssi = len(groups[ci].Subgroups[si].Subgroups)
			subsubAt[ssk] = ssi
			groups[ci].Subgroups[si].Subgroups = append(groups[ci].Subgroups[si].Subgroups,
				SubsubcategoryGroup{Name: t.Subsubcategory})
		}
		bucket := &groups[ci].Subgroups[si].Subgroups[ssi]
		bucket.Tasks = append(bucket.Tasks, t)
	}
	return groups
}

// Task looks up a task by id.
func (x *Index) Task(id string) (*task.Task, bool) {
	t, ok := x.tasks[id]
	return t, ok
}

// Len returns the number of indexed tasks.
func (x *Index) Len() int {
	return len(x.tasks)
}

// All returns every indexed task in unspecified order.
func (x *Index) All() []*task.Task {
	out := make([]*task.Task, 0, len(x.tasks))
	for _, t := range x.tasks {
		out = append(out, t)
	}
	return out
}

// Roots returns parentless tasks sorted by Order.
func (x *Index) Roots() []*task.Task {
	return x.roots
}

// Groups returns the three-level category grouping over root tasks.
func (x *Index) Groups() []CategoryGroup {
	return x.groups
}

// HasChildren reports whether id has at least one child.
func (x *Index) HasChildren(id string) bool {
	return len(x.children[id]) > 0
}

// Children returns the direct children of id sorted by Order.
func (x *Index) Children(id string) []*task.Task {
	return x.children[id]
}

// Descendants returns every task below id in pre-order. The walk carries a
// visited set so corrupted parent links cannot loop it.
func (x *Index) Descendants(id string) []*task.Task {
	var out []*task.Task
	seen := map[string]bool{id: true}
	x.walk(id, seen, &out)
	return out
}

func (x *Index) walk(id string, seen map[string]bool, out *[]*task.Task) {
	for _, child := range x.children[id] {
		if seen[child.ID] {
			continue
		}
		seen[child.ID] = true
		*out = append(*out, child)
		x.walk(child.ID, seen, out)
	}
}

// IsLeaf reports whether id exists and has no children. Group tasks with no
// children count as leaves so aggregation never double-counts a subtree.
func (x *Index) IsLeaf(id string) bool {
	if _, ok := x.tasks[id]; !ok {
		return false
	}
	return !x.HasChildren(id)
}

// Leaves returns every childless task in the project, sorted by Order
// within their sibling scope and stable across rebuilds.
func (x *Index) Leaves() []*task.Task {
	var out []*task.Task
	for _, root := range x.roots {
		if !x.HasChildren(root.ID) {
			out = append(out, root)
		}
		for _, d := range x.Descendants(root.ID) {
			if !x.HasChildren(d.ID) {
				out = append(out, d)
			}
		}
	}
	return out
}

// LeavesUnder returns the childless descendants of id, or id itself when it
// is a leaf.
func (x *Index) LeavesUnder(id string) []*task.Task {
	if x.IsLeaf(id) {
		if t, ok := x.tasks[id]; ok {
			return []*task.Task{t}
		}
		return nil
	}
	var out []*task.Task
	for _, d := range x.Descendants(id) {
		if !x.HasChildren(d.ID) {
			out = append(out, d)
		}
	}
	return out
}
