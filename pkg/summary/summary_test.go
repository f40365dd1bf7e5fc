package summary

import (
	"math"
	"testing"
)

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Keff != 0 || s.Pmax != 0 || s.Gini != 0 || s.EntropyJ != 0 {
		t.Fatalf("expected zero-value Summary for empty sizes, got %+v", s)
	}
}

func TestSummarizeSingleComponent(t *testing.T) {
	s := Summarize([]uint32{7})
	if math.Abs(s.Keff-1) > 1e-9 {
		t.Fatalf("keff = %v, want 1", s.Keff)
	}
	if math.Abs(s.Pmax-1) > 1e-9 {
		t.Fatalf("pmax = %v, want 1", s.Pmax)
	}
	if s.Gini != 0 {
		t.Fatalf("gini = %v, want 0 for K<=1", s.Gini)
	}
	if s.EntropyJ != 1 {
		t.Fatalf("entropyJ = %v, want 1 for K<=1", s.EntropyJ)
	}
}

func TestSummarizeUniformComponents(t *testing.T) {
	sizes := []uint32{5, 5, 5, 5}
	s := Summarize(sizes)
	if math.Abs(s.Keff-4) > 1e-9 {
		t.Fatalf("keff = %v, want 4 for uniform sizes", s.Keff)
	}
	if math.Abs(s.Pmax-0.25) > 1e-9 {
		t.Fatalf("pmax = %v, want 0.25", s.Pmax)
	}
	if math.Abs(s.Gini) > 1e-9 {
		t.Fatalf("gini = %v, want 0 for perfectly uniform sizes", s.Gini)
	}
	if math.Abs(s.EntropyJ-1) > 1e-9 {
		t.Fatalf("entropyJ = %v, want 1 for uniform sizes", s.EntropyJ)
	}
}

func TestSummarizeSkewedComponents(t *testing.T) {
	sizes := []uint32{97, 1, 1, 1}
	s := Summarize(sizes)
	if s.Keff < 1 || s.Keff > 4 {
		t.Fatalf("keff = %v out of [1, K]", s.Keff)
	}
	if s.EntropyJ < 0 || s.EntropyJ > 1 {
		t.Fatalf("entropyJ = %v out of [0, 1]", s.EntropyJ)
	}
	if s.Gini < 0 || s.Gini > 1 {
		t.Fatalf("gini = %v out of [0, 1]", s.Gini)
	}
	if math.Abs(s.Pmax-0.97) > 1e-9 {
		t.Fatalf("pmax = %v, want 0.97", s.Pmax)
	}
}

func TestSummarizeSizesSumInvariant(t *testing.T) {
	sizes := []uint32{3, 8, 2, 19, 1}
	var total uint32
	for _, s := range sizes {
		total += s
	}
	if total != 33 {
		t.Fatalf("test fixture invariant broken: total = %d", total)
	}
	s := Summarize(sizes)
	if s.Keff <= 0 || s.Keff > float64(len(sizes)) {
		t.Fatalf("keff = %v out of [0, K]", s.Keff)
	}
}
