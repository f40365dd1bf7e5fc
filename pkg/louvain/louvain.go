package louvain

import (
	"github.com/rs/zerolog"

	"github.com/gilchrisn/cnfvig/pkg/vig"
)

// Config tunes the single-level pass.
type Config struct {
	MaxIterations int
	MinGain       float64
	Logger        zerolog.Logger
}

// DefaultConfig mirrors the teacher's DefaultLouvainConfig defaults that
// still apply to a single level.
func DefaultConfig() Config {
	return Config{MaxIterations: 100, MinGain: 0}
}

// Result is the one-level comparator's output.
type Result struct {
	NodeToCommunity []int
	Modularity      float64
	Moves           int
	Iterations      int
}

// state carries the mutable bookkeeping for one greedy pass, following the
// teacher's LouvainState field layout (N2C, community totals and internal
// weights) but scoped to a single level with no supernode contraction.
type state struct {
	graph             *Graph
	nodeToCommunity   []int
	communityTotal    []float64 // Tot: total weighted degree of the community
	communityInternal []float64 // In: twice the internal edge weight of the community (each edge counted from both ends)
	cfg               Config
}

func newState(g *Graph, cfg Config) *state {
	s := &state{
		graph:             g,
		nodeToCommunity:   make([]int, g.NumNodes),
		communityTotal:    make([]float64, g.NumNodes),
		communityInternal: make([]float64, g.NumNodes),
		cfg:               cfg,
	}
	for i := 0; i < g.NumNodes; i++ {
		s.nodeToCommunity[i] = i
		s.communityTotal[i] = g.Degrees[i]
	}
	return s
}

func (s *state) modularity() float64 {
	if s.graph.TotalWeight == 0 {
		return 0
	}
	m2 := 2 * s.graph.TotalWeight
	var q float64
	for c := 0; c < s.graph.NumNodes; c++ {
		if s.communityTotal[c] == 0 && s.communityInternal[c] == 0 {
			continue
		}
		q += s.communityInternal[c]/m2 - (s.communityTotal[c]/m2)*(s.communityTotal[c]/m2)
	}
	return q
}

func (s *state) neighborCommunityWeights(node int) map[int]float64 {
	weights := make(map[int]float64)
	for neighbor, w := range s.graph.Neighbors(node) {
		if neighbor == node {
			continue
		}
		weights[s.nodeToCommunity[neighbor]] += w
	}
	return weights
}

func (s *state) move(node, from, to int, kIn float64) {
	s.communityTotal[from] -= s.graph.Degrees[node]
	s.communityInternal[from] -= 2 * s.internalWeightOf(node, from)
	s.nodeToCommunity[node] = to
	s.communityTotal[to] += s.graph.Degrees[node]
	s.communityInternal[to] += 2 * kIn
}

// internalWeightOf returns the weight node currently contributes to comm's
// internal edges (used only when removing node from its old community).
func (s *state) internalWeightOf(node, comm int) float64 {
	var w float64
	for neighbor, weight := range s.graph.Neighbors(node) {
		if neighbor != node && s.nodeToCommunity[neighbor] == comm {
			w += weight
		}
	}
	return w
}

// gain computes the modularity delta from moving node into targetComm,
// given the node's weight kIn already resident in targetComm.
func (s *state) gain(node, targetComm int, kIn float64) float64 {
	m2 := 2 * s.graph.TotalWeight
	if m2 == 0 {
		return 0
	}
	return kIn/s.graph.TotalWeight - (s.graph.Degrees[node]*s.communityTotal[targetComm])/(m2*s.graph.TotalWeight)
}

// Run performs the single-level greedy local-move pass: repeatedly scan
// nodes in index order, relocating each to the neighbor community with the
// largest modularity gain, until a full pass makes zero moves or
// cfg.MaxIterations is reached.
func Run(n uint32, edges []vig.Edge, cfg Config) Result {
	g := NewGraph(n, edges)
	s := newState(g, cfg)
	for node := 0; node < g.NumNodes; node++ {
		self := g.Neighbors(node)[node]
		s.communityInternal[node] = self * 2
	}

	totalMoves := 0
	iter := 0
	maxIter := cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = 100
	}
	for ; iter < maxIter; iter++ {
		moves := 0
		for node := 0; node < g.NumNodes; node++ {
			oldComm := s.nodeToCommunity[node]
			neighborWeights := s.neighborCommunityWeights(node)

			// Score every candidate, staying put included, with node taken
			// out of oldComm.
			s.communityTotal[oldComm] -= g.Degrees[node]
			bestComm := oldComm
			bestGain := s.gain(node, oldComm, neighborWeights[oldComm]) + cfg.MinGain
			bestKIn := 0.0
			for comm, kIn := range neighborWeights {
				if comm == oldComm {
					continue
				}
				gn := s.gain(node, comm, kIn)
				if gn > bestGain {
					bestComm, bestGain, bestKIn = comm, gn, kIn
				}
			}
			s.communityTotal[oldComm] += g.Degrees[node]
			if bestComm != oldComm {
				s.move(node, oldComm, bestComm, bestKIn)
				moves++
			}
		}
		totalMoves += moves
		if moves == 0 {
			break
		}
	}

	return Result{
		NodeToCommunity: s.nodeToCommunity,
		Modularity:      s.modularity(),
		Moves:           totalMoves,
		Iterations:      iter,
	}
}
