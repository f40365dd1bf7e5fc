// Package segment implements Felzenszwalb-Huttenlocher graph segmentation
// over a Variable Incidence Graph, with an optional modularity guard that
// rejects merges the FH size-sensitive gate alone would accept but which
// would not improve Newman-Girvan modularity.
package segment

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/gilchrisn/cnfvig/pkg/dsu"
	"github.com/gilchrisn/cnfvig/pkg/modularity"
	"github.com/gilchrisn/cnfvig/pkg/vig"
)

// Counters tally how the modularity guard resolved candidate merges.
type Counters struct {
	LBAccept  int
	UBReject  int
	Ambiguous int
}

// Segmenter owns a disjoint-set forest plus per-component bookkeeping
// (size, merge-time distance ceiling, volume, internal-weight lower bound)
// across a Run call. The DSU is exclusively owned by the segmenter; callers
// only ever observe it through Component/ComponentNoCompress.
type Segmenter struct {
	k   float64
	cfg Config
	ds  *dsu.DisjointSet

	size       []uint32
	maxDist    []float64
	vol        []float64
	internalLB []float64

	m        float64
	dScale   float64
	counters Counters

	// candidates holds every edge skipped by the gate or the guard, in
	// the descending-weight order it was encountered, so that
	// StrongestInterComponentEdges can recover the heaviest surviving
	// edge per final component pair by taking first occurrences.
	candidates []vig.Edge
}

// New constructs a segmenter over n singleton components with FH parameter
// k, using DefaultConfig until overridden by SetConfig.
func New(n uint32, k float64) *Segmenter {
	s := &Segmenter{k: k, cfg: DefaultConfig()}
	s.Reset(n)
	return s
}

// Reset discards all per-run state and reinitializes n singleton
// components, keeping the current k and Config.
func (s *Segmenter) Reset(n uint32) {
	s.ds = dsu.New(n)
	s.size = make([]uint32, n)
	s.maxDist = make([]float64, n)
	s.vol = make([]float64, n)
	s.internalLB = make([]float64, n)
	for i := range s.size {
		s.size[i] = 1
	}
	s.m = 0
	s.dScale = 1
	s.counters = Counters{}
	s.candidates = nil
}

// SetConfig replaces the segmenter's knob set.
func (s *Segmenter) SetConfig(cfg Config) { s.cfg = cfg }

// Config returns the segmenter's current knob set.
func (s *Segmenter) Config() Config { return s.cfg }

func (s *Segmenter) gate(r uint32) float64 {
	return s.maxDist[r] + s.k/math.Pow(float64(s.size[r]), s.cfg.SizeExponent)
}

// Run consumes edges (ignoring w <= 0), sorts them descending by weight,
// and drives FH merges with the configured gate and modularity guard. On
// return all per-component state is populated for the accessors below.
func (s *Segmenter) Run(edges []vig.Edge) {
	n := s.ds.Size()

	ordered := make([]vig.Edge, 0, len(edges))
	for _, e := range edges {
		if e.W > 0 {
			ordered = append(ordered, e)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].W != ordered[j].W {
			return ordered[i].W > ordered[j].W
		}
		if ordered[i].U != ordered[j].U {
			return ordered[i].U < ordered[j].U
		}
		return ordered[i].V < ordered[j].V
	})

	for _, e := range ordered {
		s.m += e.W
	}
	if s.cfg.UseModularityGuard {
		for _, e := range ordered {
			s.vol[e.U] += e.W
			s.vol[e.V] += e.W
		}
	}

	s.dScale = 1.0
	if s.cfg.NormalizeDistances {
		s.dScale = medianInverseWeight(ordered, s.cfg.NormSampleEdges)
	}

	dqVscale := s.cfg.DqVscale
	if dqVscale == 0 && n > 0 {
		dqVscale = math.Max(1, 2*s.m/float64(n))
	}

	for _, e := range ordered {
		a := s.ds.Find(e.U)
		b := s.ds.Find(e.V)
		if a == b {
			if s.cfg.UseModularityGuard {
				s.internalLB[a] += e.W
			}
			continue
		}

		d := (1.0 / e.W) / s.dScale
		gateA, gateB := s.gate(a), s.gate(b)
		gate := math.Min(gateA, gateB)
		if d > gate {
			s.candidates = append(s.candidates, e)
			continue
		}

		accept := true
		if s.cfg.UseModularityGuard {
			tol := 0.0
			if s.cfg.AnnealModularityGuard {
				tol = -s.cfg.DqTolerance0 * math.Exp(-math.Max(s.vol[a], s.vol[b])/dqVscale)
			}
			dqLB := e.W/s.m - s.cfg.Gamma*s.vol[a]*s.vol[b]/(2*s.m*s.m)
			switch {
			case dqLB >= tol:
				s.counters.LBAccept++
			default:
				eabUB := math.Min(s.vol[a]-2*s.internalLB[a], s.vol[b]-2*s.internalLB[b])
				eabUB = math.Min(eabUB, math.Min(s.vol[a], s.vol[b]))
				if eabUB < 0 {
					eabUB = 0
				}
				dqUB := eabUB/s.m - s.cfg.Gamma*s.vol[a]*s.vol[b]/(2*s.m*s.m)
				switch {
				case dqUB < 0:
					s.counters.UBReject++
					s.candidates = append(s.candidates, e)
					accept = false
				default:
					s.counters.Ambiguous++
					switch s.cfg.AmbiguousPolicy {
					case AmbiguousAccept:
						// accept stays true
					case AmbiguousReject:
						s.candidates = append(s.candidates, e)
						accept = false
					default: // AmbiguousGateMargin
						if gate-d >= s.cfg.GateMarginRatio*gate {
							// accept stays true
						} else {
							s.candidates = append(s.candidates, e)
							accept = false
						}
					}
				}
			}
		}
		if !accept {
			continue
		}

		newSize := s.size[a] + s.size[b]
		newMaxDist := math.Max(s.maxDist[a], math.Max(s.maxDist[b], d))
		var newVol, newLB float64
		if s.cfg.UseModularityGuard {
			newVol = s.vol[a] + s.vol[b]
			newLB = s.internalLB[a] + s.internalLB[b] + e.W
		}
		r := s.ds.Unite(a, b)
		s.size[r] = newSize
		s.maxDist[r] = newMaxDist
		if s.cfg.UseModularityGuard {
			s.vol[r] = newVol
			s.internalLB[r] = newLB
		}
	}
}

// medianInverseWeight computes d_scale: the median of 1/w over the top
// sampleSize heaviest edges of a descending-sorted edge list.
func medianInverseWeight(sortedDesc []vig.Edge, sampleSize int) float64 {
	if len(sortedDesc) == 0 {
		return 1.0
	}
	n := sampleSize
	if n <= 0 || n > len(sortedDesc) {
		n = len(sortedDesc)
	}
	invs := make([]float64, n)
	for i := 0; i < n; i++ {
		invs[i] = 1.0 / sortedDesc[i].W
	}
	sort.Float64s(invs)
	return stat.Quantile(0.5, stat.Empirical, invs, nil)
}

// Component returns the (path-compressing) root of x.
func (s *Segmenter) Component(x uint32) uint32 { return s.ds.Find(x) }

// ComponentNoCompress returns the root of x without mutating the forest,
// so read-only metrics consumers remain side-effect free.
func (s *Segmenter) ComponentNoCompress(x uint32) uint32 { return s.ds.FindNoCompress(x) }

// CompSize returns the size of the component rooted at r.
func (s *Segmenter) CompSize(r uint32) uint32 { return s.size[r] }

// CompMinWeight returns 1/max_dist[r], or +Inf when max_dist[r] is 0 (a
// component that never merged).
func (s *Segmenter) CompMinWeight(r uint32) float64 {
	if s.maxDist[r] == 0 {
		return math.Inf(1)
	}
	return 1.0 / s.maxDist[r]
}

// NumComponents returns the live component count.
func (s *Segmenter) NumComponents() uint32 { return s.ds.Components() }

// Counters returns the modularity guard's decision tally for the last Run.
func (s *Segmenter) Counters() Counters { return s.counters }

// Modularity computes Newman-Girvan modularity of the final partition over
// the same edges passed to Run, for comparison against an external
// clustering (e.g. a one-level Louvain pass) — it never feeds back into
// segmentation itself.
func (s *Segmenter) Modularity(edges []vig.Edge) float64 {
	return modularity.Modularity(s.ds.Size(), edges, func(x uint32) int32 {
		return int32(s.ds.FindNoCompress(x))
	}, s.cfg.Gamma)
}

// StrongestInterComponentEdges returns the heaviest surviving edge per
// unordered pair of final components, recovered from the candidates the
// gate and guard skipped during Run. Candidates are stored in
// descending-weight processing order, so the first occurrence mapped to a
// given final-component pair is the heaviest.
func (s *Segmenter) StrongestInterComponentEdges() []vig.Edge {
	seen := make(map[[2]uint32]bool)
	var out []vig.Edge
	for _, e := range s.candidates {
		ra := s.ds.FindNoCompress(e.U)
		rb := s.ds.FindNoCompress(e.V)
		if ra == rb {
			continue
		}
		if ra > rb {
			ra, rb = rb, ra
		}
		key := [2]uint32{ra, rb}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}
