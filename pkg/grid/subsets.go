package grid

import "sort"

// StableSubsets returns the connected components of the incomplete-entry
// graph: vertices are incomplete entries, and two entries are connected
// when they share a cell that is still blank. Components are independent
// subproblems and can be solved separately.
//
// If restrict is non-nil only the entries it contains participate, and
// the components of the induced subgraph are returned. Each component is
// sorted ascending and components are ordered by their smallest entry
// index, so the result is deterministic.
func (g *Grid) StableSubsets(restrict map[int]bool) [][]int {
	inScope := func(i int) bool {
		return !g.Entries[i].Complete && (restrict == nil || restrict[i])
	}

	// Adjacency through blank cells.
	adjacent := make(map[int][]int)
	for cell, refs := range g.byCell {
		if g.Cells[cell] != Blank {
			continue
		}
		a, d := refs[ACROSS], refs[DOWN]
		if a.Entry < 0 || d.Entry < 0 {
			continue
		}
		if !inScope(a.Entry) || !inScope(d.Entry) {
			continue
		}
		adjacent[a.Entry] = append(adjacent[a.Entry], d.Entry)
		adjacent[d.Entry] = append(adjacent[d.Entry], a.Entry)
	}

	// Flood fill from each unvisited entry, in ascending entry order.
	visited := make([]bool, len(g.Entries))
	var components [][]int
	for start := range g.Entries {
		if visited[start] || !inScope(start) {
			continue
		}

		var component []int
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			entry := queue[0]
			queue = queue[1:]
			component = append(component, entry)
			for _, next := range adjacent[entry] {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
		components = append(components, component)
	}

	// BFS visits entries in no particular order past the first; keep
	// each component sorted for determinism.
	for _, component := range components {
		sort.Ints(component)
	}
	return components
}
