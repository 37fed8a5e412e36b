// Package graph builds the directed module dependency graph of a
// workspace and computes the reachability closure used to reduce a
// project to the modules a contract actually needs.
package graph

import (
	"github.com/renwickholm/starkverify/internal/module"
)

// Graph is a directed graph over canonical module paths. Nodes are the
// catalog's modules; an edge A->B means compiling A requires the file
// backing B. Edges are unlabeled, duplicates are idempotent.
type Graph struct {
	nodes map[module.Path]struct{}
	edges map[module.Path]map[module.Path]struct{}
	count int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[module.Path]struct{}),
		edges: make(map[module.Path]map[module.Path]struct{}),
	}
}

// Build creates the dependency graph for a catalog: one node per module,
// one edge per import. A ModuleRef import points at the resolved module
// directly; an ItemRef import points at the parent module of the resolved
// item, because only the file defining the item is a compilation
// dependency. Imports whose target is not a catalog module (implicit
// library paths were already dropped by the catalog) contribute no edge.
func Build(catalog *module.Catalog) *Graph {
	g := New()

	for _, m := range catalog.Modules() {
		g.AddNode(m.Path)
	}
	for _, m := range catalog.Modules() {
		for _, imp := range m.Imports {
			target := imp.Target()
			if !g.HasNode(target) {
				continue
			}
			g.AddEdge(m.Path, target)
		}
	}

	return g
}

// AddNode adds a node; re-adding is a no-op.
func (g *Graph) AddNode(p module.Path) {
	g.nodes[p] = struct{}{}
}

// HasNode reports whether the path is a node of the graph.
func (g *Graph) HasNode(p module.Path) bool {
	_, ok := g.nodes[p]
	return ok
}

// AddEdge adds a directed edge between two existing nodes. Duplicate
// edges collapse into one.
func (g *Graph) AddEdge(from, to module.Path) {
	adj, ok := g.edges[from]
	if !ok {
		adj = make(map[module.Path]struct{})
		g.edges[from] = adj
	}
	if _, dup := adj[to]; !dup {
		adj[to] = struct{}{}
		g.count++
	}
}

// HasEdge reports whether the directed edge exists.
func (g *Graph) HasEdge(from, to module.Path) bool {
	_, ok := g.edges[from][to]
	return ok
}

// Neighbors returns the targets of a node's outgoing edges in stable
// order.
func (g *Graph) Neighbors(p module.Path) []module.Path {
	adj := g.edges[p]
	if len(adj) == 0 {
		return nil
	}
	out := make([]module.Path, 0, len(adj))
	for to := range adj {
		out = append(out, to)
	}
	module.SortPaths(out)
	return out
}

// NodeCount is the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount is the number of distinct edges.
func (g *Graph) EdgeCount() int {
	return g.count
}
