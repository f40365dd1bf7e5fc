// Package vig builds the weighted Variable Incidence Graph of a CNF clause
// collection: an undirected, aggregated edge multiset over dense variable
// indices, where each unordered pair co-occurring in a kept clause
// contributes 2/(s*(s-1)) of weight (s = clause size). Two builders are
// provided — a single-threaded oracle (BuildNaive) and a memory-bounded,
// multi-threaded batched builder (BuildOptimized) that is required to
// produce the identical edge set.
package vig

import (
	"math"
	"sort"
)

// Edge is a canonical undirected edge: U < V, W > 0.
type Edge struct {
	U uint32
	V uint32
	W float64
}

// MemoryBreakdown itemizes the components of AggregationMemory (bytes),
// surfaced for the VIGSEG_DEBUG diagnostic path.
type MemoryBreakdown struct {
	PeakBatchBuffers      uint64
	PeakWorkerEdgeBuffers uint64
	FinalEdgeArray        uint64
	Misc                  uint64
}

func (m MemoryBreakdown) Total() uint64 {
	return m.PeakBatchBuffers + m.PeakWorkerEdgeBuffers + m.FinalEdgeArray + m.Misc
}

// VIG is the aggregated weighted variable-incidence graph over N variables.
type VIG struct {
	N                 uint32
	Edges             []Edge
	AggregationMemory uint64
	MemoryBreakdown   MemoryBreakdown
	MaxClauseSizeSeen uint32
}

const sizeOfEdge = 16 // two uint32 (8 bytes) plus one float64 (8 bytes)

// wPair returns the weight contributed by a single unordered pair in a
// clause of size s: 2 / (s * (s-1)).
func wPair(s int) float64 {
	fs := float64(s)
	return 2.0 / (fs * (fs - 1.0))
}

// normalizeClauseVars extracts the distinct, sorted, in-range 0-based
// variable indices referenced by a (possibly signed) clause.
func normalizeClauseVars(clause []int32, n uint32, scratch []uint32) []uint32 {
	scratch = scratch[:0]
	for _, lit := range clause {
		v := lit
		if v < 0 {
			v = -v
		}
		idx := uint32(v - 1)
		if idx < n {
			scratch = append(scratch, idx)
		}
	}
	sort.Slice(scratch, func(i, j int) bool { return scratch[i] < scratch[j] })
	out := scratch[:0]
	var last uint32
	for i, x := range scratch {
		if i > 0 && x == last {
			continue
		}
		out = append(out, x)
		last = x
	}
	return out
}

func packPair(u, v uint32) uint64 {
	return uint64(u)<<32 | uint64(v)
}

func unpackPair(key uint64) (uint32, uint32) {
	return uint32(key >> 32), uint32(key)
}

func sortEdgesDescending(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].W != edges[j].W {
			return edges[i].W > edges[j].W
		}
		if edges[i].U != edges[j].U {
			return edges[i].U < edges[j].U
		}
		return edges[i].V < edges[j].V
	})
}

// BuildNaive builds the VIG by aggregating every unordered variable pair of
// every kept clause into a hash map, then materializing the map into an
// edge slice. This is the semantic oracle for BuildOptimized.
func BuildNaive(clauses [][]int32, n uint32, tau uint32, sortDescending bool) VIG {
	agg := make(map[uint64]float64, len(clauses)*2)
	scratch := make([]uint32, 0, 64)
	var maxSize uint32

	for _, clause := range clauses {
		vars := normalizeClauseVars(clause, n, scratch)
		s := len(vars)
		if uint32(s) > maxSize {
			maxSize = uint32(s)
		}
		if s < 2 || uint32(s) > tau {
			continue
		}
		w := wPair(s)
		for i := 0; i+1 < s; i++ {
			a := vars[i]
			for j := i + 1; j < s; j++ {
				b := vars[j]
				agg[packPair(a, b)] += w
			}
		}
	}

	edges := make([]Edge, 0, len(agg))
	for key, w := range agg {
		u, v := unpackPair(key)
		edges = append(edges, Edge{U: u, V: v, W: w})
	}
	if sortDescending {
		sortEdgesDescending(edges)
	}

	misc := uint64(len(clauses)) * 8 // rough scratch/bookkeeping estimate
	return VIG{
		N:                 n,
		Edges:             edges,
		MaxClauseSizeSeen: maxSize,
		AggregationMemory: uint64(len(edges))*sizeOfEdge + misc,
		MemoryBreakdown: MemoryBreakdown{
			FinalEdgeArray: uint64(len(edges)) * sizeOfEdge,
			Misc:           misc,
		},
	}
}

// clauseSizeThresholdInfinite mirrors spec's tau = infinity: keep all
// clauses of size >= 2 regardless of size.
const clauseSizeThresholdInfinite = math.MaxUint32

// Infinite is the sentinel clause-size threshold that keeps every clause of
// size >= 2, matching spec's "tau = infinity" boundary case.
const Infinite uint32 = clauseSizeThresholdInfinite
