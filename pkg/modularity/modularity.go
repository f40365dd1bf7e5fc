// Package modularity computes Newman-Girvan modularity with a resolution
// parameter over an undirected weighted graph given as an edge list plus a
// vertex-to-community labeling function.
package modularity

import "github.com/gilchrisn/cnfvig/pkg/vig"

// Modularity returns Q = Σ_c [ Σ_in(c)/m - γ·(Σ_tot(c)/(2m))² ] over n
// vertices (0..n-1), where edges is an undirected edge list (each
// unordered pair once), commOf labels every vertex, and gamma is the
// resolution parameter. Arbitrary integer community labels are compacted
// internally. Returns 0 when total edge weight m is 0.
func Modularity(n uint32, edges []vig.Edge, commOf func(uint32) int32, gamma float64) float64 {
	if n == 0 {
		return 0
	}

	labelIndex := make(map[int32]int)
	var degree []float64 // Σ_tot(c)
	var internal []float64 // Σ_in(c)

	index := func(lbl int32) int {
		if idx, ok := labelIndex[lbl]; ok {
			return idx
		}
		idx := len(degree)
		labelIndex[lbl] = idx
		degree = append(degree, 0)
		internal = append(internal, 0)
		return idx
	}

	for v := uint32(0); v < n; v++ {
		index(commOf(v))
	}

	var m float64
	for _, e := range edges {
		m += e.W
	}
	if m == 0 {
		return 0
	}

	for _, e := range edges {
		cu := index(commOf(e.U))
		cv := index(commOf(e.V))
		degree[cu] += e.W
		degree[cv] += e.W
		if cu == cv {
			internal[cu] += e.W
		}
	}

	var q float64
	for c := range degree {
		frac := degree[c] / (2 * m)
		q += internal[c]/m - gamma*frac*frac
	}
	return q
}
