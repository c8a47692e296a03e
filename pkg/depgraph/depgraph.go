// Package depgraph maintains the predecessor graph between tasks. Links run
// from a predecessor's end to a successor's start; every candidate edge is
// validated against the live graph before anything mutates, so an accepted
// sequence of links can never close a cycle.
package depgraph

import (
	"errors"

	"tableflip.dev/gantt/pkg/task"
)

// Anchor names the bar endpoint the user grabbed when linking.
type Anchor string

const (
	AnchorStart Anchor = "start"
	AnchorEnd   Anchor = "end"
)

var (
	// ErrWrongAnchor rejects any link that is not end-to-start.
	ErrWrongAnchor = errors.New("depgraph: dependencies link a predecessor's end to a successor's start")
	// ErrSelfLink rejects a task depending on itself.
	ErrSelfLink = errors.New("depgraph: a task cannot depend on itself")
	// ErrUnknownTask rejects links touching tasks outside the project.
	ErrUnknownTask = errors.New("depgraph: unknown task")
	// ErrDuplicateLink rejects an edge that already exists.
	ErrDuplicateLink = errors.New("depgraph: link already exists")
	// ErrCircular rejects an edge that would make a task depend on itself
	// through the chain.
	ErrCircular = errors.New("depgraph: circular dependency")
)

// Graph is the predecessor relation derived from a task collection.
type Graph struct {
	preds map[string]map[string]bool // successor -> predecessors
	succs map[string]map[string]bool // predecessor -> successors
	known map[string]bool
}

// New derives the graph from the flat task collection.
func New(tasks []*task.Task) *Graph {
	g := &Graph{
		preds: make(map[string]map[string]bool),
		succs: make(map[string]map[string]bool),
		known: make(map[string]bool, len(tasks)),
	}
	for _, t := range tasks {
		if t == nil || t.ID == "" {
			continue
		}
		g.known[t.ID] = true
	}
	for _, t := range tasks {
		if t == nil {
			continue
		}
		for _, p := range t.Predecessors {
			if !g.known[p] {
				// Dangling reference from a deleted task; ignore it
				// rather than poison reachability walks.
				continue
			}
			g.addEdge(p, t.ID)
		}
	}
	return g
}

func (g *Graph) addEdge(pred, succ string) {
	if g.preds[succ] == nil {
		g.preds[succ] = make(map[string]bool)
	}
	g.preds[succ][pred] = true
	if g.succs[pred] == nil {
		g.succs[pred] = make(map[string]bool)
	}
	g.succs[pred][succ] = true
}

// Validate checks the candidate edge source→target drawn from the source's
// anchor to the target's anchor, without mutating the graph. A nil error
// means Link will succeed.
func (g *Graph) Validate(source string, sourceAnchor Anchor, target string, targetAnchor Anchor) error {
	if sourceAnchor != AnchorEnd || targetAnchor != AnchorStart {
		return ErrWrongAnchor
	}
	if source == target {
		return ErrSelfLink
	}
	if !g.known[source] || !g.known[target] {
		return ErrUnknownTask
	}
	if g.preds[target][source] {
		return ErrDuplicateLink
	}
	// If the source already depends on the target, the new edge would
	// close a loop through the predecessor chain.
	if g.DependsOn(source, target) {
		return ErrCircular
	}
	return nil
}

// Link validates and records the edge source→target. The graph is left
// unchanged on error.
func (g *Graph) Link(source, target string) error {
	if err := g.Validate(source, AnchorEnd, target, AnchorStart); err != nil {
		return err
	}
	g.addEdge(source, target)
	return nil
}

// Unlink removes the edge unconditionally; removal can never create a
// cycle.
func (g *Graph) Unlink(source, target string) {
	delete(g.preds[target], source)
	delete(g.succs[source], target)
}

// DependsOn reports whether id transitively depends on other, walking the
// predecessor chain breadth-first.
func (g *Graph) DependsOn(id, other string) bool {
	queue := []string{id}
	seen := map[string]bool{id: true}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for p := range g.preds[cur] {
			if p == other {
				return true
			}
			if !seen[p] {
				seen[p] = true
				queue = append(queue, p)
			}
		}
	}
	return false
}

// Predecessors returns the direct predecessors of id.
func (g *Graph) Predecessors(id string) []string {
	return keys(g.preds[id])
}

// Successors returns the tasks whose start is gated directly by id.
func (g *Graph) Successors(id string) []string {
	return keys(g.succs[id])
}

// TransitiveSuccessors returns every task downstream of id, each at most
// once, in breadth-first order.
func (g *Graph) TransitiveSuccessors(id string) []string {
	var out []string
	queue := []string{id}
	seen := map[string]bool{id: true}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for s := range g.succs[cur] {
			if seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
			queue = append(queue, s)
		}
	}
	return out
}

func keys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
