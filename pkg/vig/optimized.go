package vig

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// bufferEntry is a single (neighbor, weight) contribution written during
// FILL and consumed during ACCUM.
type bufferEntry struct {
	b uint32
	w float64
}

type batchRange struct {
	start uint32 // inclusive, 0-based variable index
	end   uint32 // inclusive
}

// BuildOptions configures the optimized builder.
type BuildOptions struct {
	Tau                    uint32
	MaxBufferContributions uint64
	NumWorkers             int
	SortDescending         bool
	Debug                  bool
	Logger                 zerolog.Logger
}

// BuildOptimized produces the identical edge set as BuildNaive on the same
// input, within a caller-supplied transient buffer budget
// (MaxBufferContributions, a count of (b,w) entries), using up to
// NumWorkers goroutines cooperating through a two-phase (FILL, ACCUM)
// barrier per round.
//
// Go has no built-in cyclic barrier; each phase's barrier is a
// sync.WaitGroup joined by the main goroutine, matching the worker-pool
// idiom the teacher uses in pkg/materialization/instance_generator.go
// (spawn goroutines over a partition, Wait(), then reduce single-threaded).
func BuildOptimized(clauses [][]int32, n uint32, opts BuildOptions) (VIG, error) {
	logger := opts.Logger
	if n == 0 {
		return VIG{N: 0}, nil
	}
	if opts.MaxBufferContributions == 0 {
		return VIG{}, &ConfigError{Field: "max_buffer_contributions", Reason: "must be > 0"}
	}
	numWorkers := opts.NumWorkers
	if numWorkers <= 0 {
		return VIG{}, &ConfigError{Field: "num_threads", Reason: "must be > 0"}
	}

	// Phase 1: counting.
	contribCounts := make([]uint64, n)
	scratch := make([]uint32, 0, 64)
	var maxClauseSize uint32
	for _, clause := range clauses {
		vars := normalizeClauseVars(clause, n, scratch)
		s := len(vars)
		if uint32(s) > maxClauseSize {
			maxClauseSize = uint32(s)
		}
		if s < 2 || uint32(s) > opts.Tau {
			continue
		}
		for i := 0; i+1 < s; i++ {
			contribCounts[vars[i]] += uint64(s - 1 - i)
		}
	}

	var maxContrib uint64
	for a, c := range contribCounts {
		if c > math.MaxUint32 {
			return VIG{}, &OverflowError{Variable: uint32(a), Reason: "per-variable contribution count exceeds 32 bits"}
		}
		if c > maxContrib {
			maxContrib = c
		}
	}

	perThreadCap := opts.MaxBufferContributions / uint64(max(1, numWorkers-1))
	if perThreadCap < maxContrib {
		perThreadCap = maxContrib
	}
	if perThreadCap == 0 {
		perThreadCap = maxContrib // n==0 contributions edge case; guarded above by n==0 check
	}

	batches := buildBatches(contribCounts, perThreadCap)
	for _, b := range batches {
		var total uint64
		for a := b.start; a <= b.end; a++ {
			total += contribCounts[a]
		}
		if total > math.MaxInt {
			return VIG{}, &OverflowError{Variable: b.start, Reason: "batch buffer size exceeds platform limit"}
		}
	}

	// Fixed, disjoint clause-range partition shared by every round.
	clauseRanges := partitionRanges(len(clauses), numWorkers)

	if opts.Debug {
		logger.Debug().
			Int("num_batches", len(batches)).
			Uint64("per_thread_cap", perThreadCap).
			Int("num_workers", numWorkers).
			Msg("optimized VIG builder: round plan")
	}

	workerEdges := make([][]Edge, numWorkers)
	var peakBatchBufferEntries uint64
	var peakWorkerEdgeCount int

	round := 0
	for start := 0; start < len(batches); start += numWorkers {
		end := start + numWorkers
		if end > len(batches) {
			end = len(batches)
		}
		active := batches[start:end]

		// Round prep (single-threaded): allocate flat buffers, compute
		// prefix offsets, map variable -> active-batch index.
		buffers := make([][]bufferEntry, len(active))
		offsets := make([][]uint64, len(active))
		cursors := make([][]atomic.Uint64, len(active))
		varToBatch := make(map[uint32]int, len(active))

		var roundEntries uint64
		for bi, b := range active {
			length := b.end - b.start + 1
			off := make([]uint64, length)
			var pref uint64
			for a := b.start; a <= b.end; a++ {
				off[a-b.start] = pref
				pref += contribCounts[a]
			}
			buffers[bi] = make([]bufferEntry, pref)
			offsets[bi] = off
			cursors[bi] = make([]atomic.Uint64, length)
			for i := range cursors[bi] {
				cursors[bi][i].Store(off[i])
			}
			for a := b.start; a <= b.end; a++ {
				varToBatch[a] = bi
			}
			roundEntries += pref
		}
		if roundEntries > peakBatchBufferEntries {
			peakBatchBufferEntries = roundEntries
		}

		// FILL barrier.
		var fillWG sync.WaitGroup
		fillScratch := make([][]uint32, numWorkers)
		for t := 0; t < numWorkers; t++ {
			fillScratch[t] = make([]uint32, 0, 64)
		}
		for t := 0; t < numWorkers; t++ {
			t := t
			fillWG.Add(1)
			go func() {
				defer fillWG.Done()
				lo, hi := clauseRanges[t][0], clauseRanges[t][1]
				for ci := lo; ci < hi; ci++ {
					vars := normalizeClauseVars(clauses[ci], n, fillScratch[t])
					fillScratch[t] = vars[:0]
					s := len(vars)
					if s < 2 || uint32(s) > opts.Tau {
						continue
					}
					w := wPair(s)
					for i := 0; i+1 < s; i++ {
						a := vars[i]
						bi, ok := varToBatch[a]
						if !ok {
							continue
						}
						b := active[bi]
						runLen := uint64(s - 1 - i)
						localIdx := a - b.start
						start := cursors[bi][localIdx].Add(runLen) - runLen
						for j, k := i+1, start; j < s; j, k = j+1, k+1 {
							buffers[bi][k] = bufferEntry{b: vars[j], w: w}
						}
					}
				}
			}()
		}
		fillWG.Wait()

		// ACCUM barrier: worker t reduces active batch t, if any.
		var accumWG sync.WaitGroup
		for t := 0; t < numWorkers; t++ {
			if t >= len(active) {
				continue
			}
			t := t
			accumWG.Add(1)
			go func() {
				defer accumWG.Done()
				b := active[t]
				buf := buffers[t]
				off := offsets[t]
				for a := b.start; a <= b.end; a++ {
					lo := off[a-b.start]
					hi := lo + contribCounts[a]
					seg := buf[lo:hi]
					sort.Slice(seg, func(i, j int) bool { return seg[i].b < seg[j].b })
					var i int
					for i < len(seg) {
						j := i + 1
						sum := seg[i].w
						for j < len(seg) && seg[j].b == seg[i].b {
							sum += seg[j].w
							j++
						}
						workerEdges[t] = append(workerEdges[t], Edge{U: a, V: seg[i].b, W: sum})
						i = j
					}
				}
			}()
		}
		accumWG.Wait()

		total := 0
		for _, we := range workerEdges {
			total += len(we)
		}
		if total > peakWorkerEdgeCount {
			peakWorkerEdgeCount = total
		}

		round++
	}

	var edges []Edge
	for _, we := range workerEdges {
		edges = append(edges, we...)
	}
	if opts.SortDescending {
		sortEdgesDescending(edges)
	}

	misc := uint64(n)*4 /* contribCounts as uint32 in the reference model */ + uint64(len(clauses))*8
	if opts.Debug {
		logger.Debug().
			Uint64("peak_batch_buffers_bytes", peakBatchBufferEntries*uint64(bufferEntrySize)).
			Uint64("peak_worker_edge_buffers_bytes", uint64(peakWorkerEdgeCount)*sizeOfEdge).
			Uint64("final_edge_array_bytes", uint64(len(edges))*sizeOfEdge).
			Uint64("misc_bytes", misc).
			Msg("optimized VIG builder: memory breakdown")
	}
	return VIG{
		N:                 n,
		Edges:             edges,
		MaxClauseSizeSeen: maxClauseSize,
		MemoryBreakdown: MemoryBreakdown{
			PeakBatchBuffers:      peakBatchBufferEntries * uint64(bufferEntrySize),
			PeakWorkerEdgeBuffers: uint64(peakWorkerEdgeCount) * sizeOfEdge,
			FinalEdgeArray:        uint64(len(edges)) * sizeOfEdge,
			Misc:                  misc,
		},
		AggregationMemory: peakBatchBufferEntries*uint64(bufferEntrySize) + uint64(peakWorkerEdgeCount)*sizeOfEdge + uint64(len(edges))*sizeOfEdge + misc,
	}, nil
}

const bufferEntrySize = 16 // uint32 + float64, padded

// buildBatches partitions variables [0,n) into contiguous batches such that
// the sum of contribCounts within a batch does not exceed cap (bumped, by
// construction, to fit the single largest contribCounts[a]).
func buildBatches(contribCounts []uint64, cap uint64) []batchRange {
	n := uint32(len(contribCounts))
	if n == 0 {
		return nil
	}
	var batches []batchRange
	start := uint32(0)
	var accum uint64
	for v := uint32(0); v < n; v++ {
		if accum+contribCounts[v] > cap && v > start {
			batches = append(batches, batchRange{start: start, end: v - 1})
			start = v
			accum = contribCounts[v]
		} else {
			accum += contribCounts[v]
		}
	}
	batches = append(batches, batchRange{start: start, end: n - 1})
	return batches
}

// partitionRanges splits [0,total) into up to numWorkers contiguous,
// disjoint ranges, one per worker.
func partitionRanges(total, numWorkers int) [][2]int {
	ranges := make([][2]int, numWorkers)
	base := total / numWorkers
	rem := total % numWorkers
	cursor := 0
	for t := 0; t < numWorkers; t++ {
		size := base
		if t < rem {
			size++
		}
		ranges[t] = [2]int{cursor, cursor + size}
		cursor += size
	}
	return ranges
}
