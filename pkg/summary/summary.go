// Package summary computes distributional statistics over a partition's
// component sizes: effective component count, size dominance, inequality,
// and normalized diversity.
package summary

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the component-size statistics for one partition.
type Summary struct {
	Keff     float64
	Pmax     float64
	Gini     float64
	EntropyJ float64
}

// Summarize computes Summary over a sizes vector of K non-empty
// components. keff = 1/Σp_i², pmax = max p_i, gini is the sorted-ascending
// Gini coefficient clamped to [0,1], entropyJ is Shannon entropy over the
// share vector normalized by ln K.
func Summarize(sizes []uint32) Summary {
	k := len(sizes)
	if k == 0 {
		return Summary{}
	}

	fsizes := make([]float64, k)
	for i, s := range sizes {
		fsizes[i] = float64(s)
	}
	total := floats.Sum(fsizes)
	if total == 0 {
		return Summary{}
	}

	shares := make([]float64, k)
	for i, s := range fsizes {
		shares[i] = s / total
	}

	var sumSq float64
	var pmax float64
	for _, p := range shares {
		sumSq += p * p
		if p > pmax {
			pmax = p
		}
	}
	keff := 0.0
	if sumSq > 0 {
		keff = 1.0 / sumSq
	}

	gini := 0.0
	if k > 1 {
		sorted := append([]float64(nil), fsizes...)
		sort.Float64s(sorted)
		var weighted float64
		for i, x := range sorted {
			weighted += float64(i+1) * x
		}
		gini = 2*weighted/(float64(k)*total) - float64(k+1)/float64(k)
		if gini < 0 {
			gini = 0
		}
		if gini > 1 {
			gini = 1
		}
	}

	entropyJ := 1.0
	if k > 1 {
		h := stat.Entropy(shares)
		entropyJ = h / math.Log(float64(k))
	}

	return Summary{Keff: keff, Pmax: pmax, Gini: gini, EntropyJ: entropyJ}
}
