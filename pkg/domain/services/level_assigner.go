package services

import (
	"sort"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
)

// componentGraph is the parent -> children adjacency of a product structure.
// Child lists are sorted so every traversal is deterministic.
type componentGraph struct {
	nodes    []string
	children map[string][]string
	parents  map[string]int
}

func buildComponentGraph(products []string, edges []entities.ComponentEdge) *componentGraph {
	g := &componentGraph{
		children: make(map[string][]string),
		parents:  make(map[string]int),
	}

	seen := make(map[string]bool)
	addNode := func(id string) {
		if !seen[id] {
			seen[id] = true
			g.nodes = append(g.nodes, id)
		}
	}
	for _, id := range products {
		addNode(id)
	}

	linked := make(map[[2]string]bool)
	for _, edge := range edges {
		addNode(edge.ParentID)
		addNode(edge.ChildID)

		// Several effectivity ranges may link the same pair; they count once
		key := [2]string{edge.ParentID, edge.ChildID}
		if linked[key] {
			continue
		}
		linked[key] = true
		g.children[edge.ParentID] = append(g.children[edge.ParentID], edge.ChildID)
		g.parents[edge.ChildID]++
	}

	sort.Strings(g.nodes)
	for parent := range g.children {
		sort.Strings(g.children[parent])
	}
	return g
}

// AssignLevels gives every product a level: 0 for products no other product
// consumes, and level(child) >= level(parent)+1 along every edge. Products that
// only appear in edges are included. A cyclic structure is rejected with a
// *entities.CyclicStructureError naming one cycle.
func AssignLevels(products []string, edges []entities.ComponentEdge) (map[string]int, error) {
	g := buildComponentGraph(products, edges)

	order, remaining := g.kahnOrder()
	if len(remaining) > 0 {
		return nil, g.findCycle(remaining)
	}

	// Relaxing in topological order reaches the fixed point in one pass
	levels := make(map[string]int, len(g.nodes))
	for _, id := range order {
		if _, ok := levels[id]; !ok {
			levels[id] = 0
		}
		for _, child := range g.children[id] {
			if next := levels[id] + 1; next > levels[child] {
				levels[child] = next
			}
		}
	}
	return levels, nil
}

// kahnOrder returns the nodes in parent-before-child order, plus the nodes
// that could not be ordered because they sit on or below a cycle.
func (g *componentGraph) kahnOrder() ([]string, []string) {
	inDegree := make(map[string]int, len(g.nodes))
	queue := make([]string, 0)
	order := make([]string, 0, len(g.nodes))

	for _, id := range g.nodes {
		inDegree[id] = g.parents[id]
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		for _, child := range g.children[current] {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(order) == len(g.nodes) {
		return order, nil
	}

	remaining := make([]string, 0, len(g.nodes)-len(order))
	for _, id := range g.nodes {
		if inDegree[id] > 0 {
			remaining = append(remaining, id)
		}
	}
	return order, remaining
}

// findCycle runs a depth-first search over the unordered nodes, smallest id
// first, and returns the first cycle it closes.
func (g *componentGraph) findCycle(remaining []string) error {
	inScope := make(map[string]bool, len(remaining))
	for _, id := range remaining {
		inScope[id] = true
	}

	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var path []string
	var cycle []string

	var visit func(current string) bool
	visit = func(current string) bool {
		visited[current] = true
		onStack[current] = true
		path = append(path, current)

		for _, child := range g.children[current] {
			if !inScope[child] {
				continue
			}
			if onStack[child] {
				for i, id := range path {
					if id == child {
						cycle = append(cycle, path[i:]...)
						cycle = append(cycle, child)
						return true
					}
				}
			}
			if !visited[child] && visit(child) {
				return true
			}
		}

		onStack[current] = false
		path = path[:len(path)-1]
		return false
	}

	for _, start := range remaining {
		if !visited[start] && visit(start) {
			return &entities.CyclicStructureError{ProductID: cycle[0], Path: cycle}
		}
	}

	// Kahn left nodes behind, so a cycle exists among them
	return &entities.CyclicStructureError{ProductID: remaining[0], Path: []string{remaining[0], remaining[0]}}
}

// LevelOrder groups products by level, lowest level first. Products within a
// level are sorted by id, which is the processing order within the level.
func LevelOrder(levels map[string]int) [][]string {
	maxLevel := -1
	for _, level := range levels {
		if level > maxLevel {
			maxLevel = level
		}
	}
	if maxLevel < 0 {
		return nil
	}

	byLevel := make([][]string, maxLevel+1)
	for id, level := range levels {
		byLevel[level] = append(byLevel[level], id)
	}
	for _, ids := range byLevel {
		sort.Strings(ids)
	}
	return byLevel
}
