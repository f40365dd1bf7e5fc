// Package louvain provides a single-level greedy modularity-optimization
// pass used only as an external comparator against FH segmentation — its
// output is never fed back into segmentation. It is a deliberately
// stripped-down descendant of the teacher's multi-level Louvain
// implementation: one level, no hierarchy, no supernode graph
// construction, adjacency built directly from a vig.Edge list.
package louvain

import "github.com/gilchrisn/cnfvig/pkg/vig"

// Graph is an undirected weighted adjacency list over dense vertex
// indices, the comparator's analogue of the teacher's NormalizedGraph.
type Graph struct {
	NumNodes    int
	adjacency   []map[int]float64
	Degrees     []float64
	TotalWeight float64
}

// NewGraph builds a Graph from n vertices and an undirected edge list
// (u < v, w > 0), aggregating duplicate (u,v) pairs by summing weight.
func NewGraph(n uint32, edges []vig.Edge) *Graph {
	g := &Graph{
		NumNodes:  int(n),
		adjacency: make([]map[int]float64, n),
		Degrees:   make([]float64, n),
	}
	for i := range g.adjacency {
		g.adjacency[i] = make(map[int]float64)
	}
	for _, e := range edges {
		if e.W <= 0 {
			continue
		}
		u, v := int(e.U), int(e.V)
		g.adjacency[u][v] += e.W
		g.adjacency[v][u] += e.W
		g.Degrees[u] += e.W
		g.Degrees[v] += e.W
		g.TotalWeight += e.W
	}
	return g
}

// Neighbors returns node's incident weights, keyed by neighbor index.
func (g *Graph) Neighbors(node int) map[int]float64 { return g.adjacency[node] }
