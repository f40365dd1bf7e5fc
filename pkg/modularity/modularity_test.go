package modularity

import (
	"math"
	"testing"

	"github.com/gilchrisn/cnfvig/pkg/vig"
)

func TestTwoTrianglesScenario(t *testing.T) {
	// spec.md concrete scenario 6: two disjoint triangles, weight 1 edges,
	// each triangle its own community. Q = 1 - 0.5*gamma; at gamma=1, 0.5.
	edges := []vig.Edge{
		{U: 0, V: 1, W: 1}, {U: 1, V: 2, W: 1}, {U: 0, V: 2, W: 1},
		{U: 3, V: 4, W: 1}, {U: 4, V: 5, W: 1}, {U: 3, V: 5, W: 1},
	}
	commOf := func(v uint32) int32 {
		if v < 3 {
			return 0
		}
		return 1
	}
	q := Modularity(6, edges, commOf, 1.0)
	if math.Abs(q-0.5) > 1e-9 {
		t.Fatalf("Q = %v, want 0.5", q)
	}
}

func TestModularityZeroWhenNoEdges(t *testing.T) {
	q := Modularity(5, nil, func(uint32) int32 { return 0 }, 1.0)
	if q != 0 {
		t.Fatalf("Q = %v, want 0 for empty edge list", q)
	}
}

func TestModularitySingleCommunity(t *testing.T) {
	edges := []vig.Edge{{U: 0, V: 1, W: 1}, {U: 1, V: 2, W: 1}}
	q := Modularity(3, edges, func(uint32) int32 { return 0 }, 1.0)
	// A single community containing every vertex: Q = 1 - 1*1^2 = 0.
	if math.Abs(q-0) > 1e-9 {
		t.Fatalf("Q = %v, want 0 for a single all-encompassing community", q)
	}
}

func TestModularityBounds(t *testing.T) {
	edges := []vig.Edge{
		{U: 0, V: 1, W: 1}, {U: 1, V: 2, W: 1}, {U: 2, V: 3, W: 1}, {U: 3, V: 0, W: 1},
	}
	for label := int32(0); label < 4; label++ {
		commOf := func(v uint32) int32 { return int32(v) % label }
		if label == 0 {
			continue
		}
		q := Modularity(4, edges, commOf, 1.0)
		if q < -0.5-1e-9 || q > 1+1e-9 {
			t.Fatalf("Q = %v out of [-1/2, 1] for label modulus %d", q, label)
		}
	}
}
