package segment

import (
	"math"
	"sort"
	"testing"

	"github.com/gilchrisn/cnfvig/pkg/vig"
)

func TestScenario2GuardOffNoNormalization(t *testing.T) {
	// spec.md concrete scenario 2: same CNF as scenario 1, k=1.0, guard
	// off, normalize_distances off.
	edges := []vig.Edge{
		{U: 0, V: 1, W: 4.0 / 3.0},
		{U: 0, V: 2, W: 1.0 / 3.0},
		{U: 1, V: 2, W: 1.0 / 3.0},
	}
	s := New(3, 1.0)
	cfg := DefaultConfig()
	cfg.UseModularityGuard = false
	cfg.NormalizeDistances = false
	s.SetConfig(cfg)
	s.Run(edges)

	if s.NumComponents() != 2 {
		t.Fatalf("expected 2 final components, got %d", s.NumComponents())
	}
	root01 := s.Component(0)
	if s.Component(1) != root01 {
		t.Fatalf("expected 0 and 1 in the same component")
	}
	if s.Component(2) == root01 {
		t.Fatalf("expected 2 to remain its own component")
	}
	if s.CompSize(root01) != 2 {
		t.Fatalf("comp size = %d, want 2", s.CompSize(root01))
	}
	if math.Abs(s.maxDist[root01]-0.75) > 1e-9 {
		t.Fatalf("max_dist = %v, want 0.75", s.maxDist[root01])
	}

	strongest := s.StrongestInterComponentEdges()
	if len(strongest) != 1 {
		t.Fatalf("expected exactly 1 inter-component edge, got %d", len(strongest))
	}
	if math.Abs(strongest[0].W-1.0/3.0) > 1e-9 {
		t.Fatalf("strongest inter-component edge weight = %v, want 1/3", strongest[0].W)
	}
}

func TestEmptyEdgeListYieldsAllSingletons(t *testing.T) {
	s := New(5, 1.0)
	s.Run(nil)
	if s.NumComponents() != 5 {
		t.Fatalf("expected 5 singleton components, got %d", s.NumComponents())
	}
	if math.Abs(s.Modularity(nil)-0) > 1e-9 {
		t.Fatalf("Q = %v, want 0 for empty edge list", s.Modularity(nil))
	}
}

func TestSingleSizeTwoClauseEdge(t *testing.T) {
	// Boundary: a single edge of weight 1 merges under default config.
	edges := []vig.Edge{{U: 0, V: 1, W: 1.0}}
	s := New(5, 1.0)
	s.Run(edges)
	if s.NumComponents() != 4 {
		t.Fatalf("expected 4 components (one merged pair + 3 singletons), got %d", s.NumComponents())
	}
	if s.Component(0) != s.Component(1) {
		t.Fatalf("expected vertices 0 and 1 merged")
	}
	if s.CompSize(s.Component(0)) != 2 {
		t.Fatalf("comp size = %d, want 2", s.CompSize(s.Component(0)))
	}
}

func TestGuardDisabledCountersAllZero(t *testing.T) {
	edges := []vig.Edge{
		{U: 0, V: 1, W: 1.0}, {U: 1, V: 2, W: 0.5}, {U: 2, V: 3, W: 0.4},
	}
	s := New(4, 1.0)
	cfg := DefaultConfig()
	cfg.UseModularityGuard = false
	s.SetConfig(cfg)
	s.Run(edges)
	c := s.Counters()
	if c.LBAccept != 0 || c.UBReject != 0 || c.Ambiguous != 0 {
		t.Fatalf("expected all counters 0 with guard disabled, got %+v", c)
	}
}

func TestResetThenRunIsDeterministic(t *testing.T) {
	edges := []vig.Edge{
		{U: 0, V: 1, W: 4.0 / 3.0}, {U: 0, V: 2, W: 1.0 / 3.0}, {U: 1, V: 2, W: 1.0 / 3.0},
	}
	s := New(3, 1.0)
	s.Run(edges)
	first := partitionSignature(s, 3)

	s.Reset(3)
	s.Run(edges)
	second := partitionSignature(s, 3)

	if first != second {
		t.Fatalf("Reset+Run produced a different partition: %v vs %v", first, second)
	}
}

// partitionSignature renders the equivalence classes over [0,n) as a
// canonical string, independent of arbitrary root numbering and of map
// iteration order.
func partitionSignature(s *Segmenter, n uint32) string {
	groups := map[uint32][]uint32{}
	for x := uint32(0); x < n; x++ {
		r := s.ComponentNoCompress(x)
		groups[r] = append(groups[r], x)
	}
	members := make([]string, 0, len(groups))
	for _, g := range groups {
		sort.Slice(g, func(i, j int) bool { return g[i] < g[j] })
		m := ""
		for _, x := range g {
			m += string(rune('a' + x))
		}
		members = append(members, m)
	}
	sort.Strings(members)
	sig := ""
	for _, m := range members {
		sig += m + "|"
	}
	return sig
}

func TestQInBounds(t *testing.T) {
	edges := []vig.Edge{
		{U: 0, V: 1, W: 4.0 / 3.0}, {U: 0, V: 2, W: 1.0 / 3.0}, {U: 1, V: 2, W: 1.0 / 3.0},
	}
	s := New(3, 1.0)
	s.Run(edges)
	q := s.Modularity(edges)
	if q < -0.5-1e-9 || q > 1+1e-9 {
		t.Fatalf("Q = %v out of [-1/2, 1]", q)
	}
}
