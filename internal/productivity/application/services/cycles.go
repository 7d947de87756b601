package services

import (
	"sort"

	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
)

// DependencyGraph is the directed "depends on" relation of a batch.
// Tasks without an id are not part of the graph.
type DependencyGraph struct {
	nodes []int64
	edges map[int64][]int64
}

// NewDependencyGraph builds the graph of a batch, keeping nodes in batch order.
func NewDependencyGraph(batch []task.Task) *DependencyGraph {
	g := &DependencyGraph{edges: make(map[int64][]int64, len(batch))}
	for _, t := range batch {
		if t.ID == nil {
			continue
		}
		if _, ok := g.edges[*t.ID]; !ok {
			g.nodes = append(g.nodes, *t.ID)
		}
		g.edges[*t.ID] = append([]int64(nil), t.Dependencies...)
	}
	return g
}

// Nodes returns the task ids of the graph in batch order.
func (g *DependencyGraph) Nodes() []int64 {
	return append([]int64(nil), g.nodes...)
}

// Dependencies returns the outgoing edges of id. Ids outside the batch have none.
func (g *DependencyGraph) Dependencies(id int64) []int64 {
	return g.edges[id]
}

// Has reports whether id belongs to the batch.
func (g *DependencyGraph) Has(id int64) bool {
	_, ok := g.edges[id]
	return ok
}

// CycleSet holds the ids of tasks found on a dependency cycle.
type CycleSet map[int64]struct{}

// Contains reports whether the task id is in the set. A nil id never is.
func (c CycleSet) Contains(id *int64) bool {
	if id == nil {
		return false
	}
	_, ok := c[*id]
	return ok
}

func (c CycleSet) Len() int { return len(c) }

// IDs returns the members in ascending order.
func (c CycleSet) IDs() []int64 {
	ids := make([]int64, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// DetectCycles walks the dependency graph depth first, starting from every
// unvisited node in batch order. When the walk reaches a node that is on the
// current path, every node on the path is marked. Nodes that only lead into a
// cycle from the walk's root are therefore marked as well.
func DetectCycles(batch []task.Task) CycleSet {
	return NewDependencyGraph(batch).Cycles()
}

// Cycles runs cycle detection over the graph.
func (g *DependencyGraph) Cycles() CycleSet {
	inCycle := make(CycleSet)
	visited := make(map[int64]bool, len(g.nodes))
	onPath := make(map[int64]bool)

	var visit func(id int64)
	visit = func(id int64) {
		if onPath[id] {
			for p := range onPath {
				inCycle[p] = struct{}{}
			}
			return
		}
		if visited[id] {
			return
		}

		visited[id] = true
		onPath[id] = true
		for _, dep := range g.edges[id] {
			visit(dep)
		}
		delete(onPath, id)
	}

	for _, id := range g.nodes {
		if !visited[id] {
			visit(id)
		}
	}
	return inCycle
}
