package graph

import (
	"github.com/renwickholm/starkverify/internal/module"
)

// Closure returns every module reachable from the target modules over
// outgoing edges, including the targets themselves. The traversal is a
// multi-source breadth-first search; each node is visited once, so cycles
// terminate naturally. The result is sorted by path so repeated runs over
// the same input produce identical output.
func Closure(g *Graph, targets []module.Path) []module.Path {
	visited := make(map[module.Path]struct{}, len(targets))
	queue := make([]module.Path, 0, len(targets))

	for _, t := range targets {
		if _, seen := visited[t]; seen {
			continue
		}
		visited[t] = struct{}{}
		queue = append(queue, t)
	}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, next := range g.Neighbors(node) {
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			queue = append(queue, next)
		}
	}

	required := make([]module.Path, 0, len(visited))
	for p := range visited {
		required = append(required, p)
	}
	module.SortPaths(required)
	return required
}
