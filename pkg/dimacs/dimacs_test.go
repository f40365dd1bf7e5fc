package dimacs

import (
	"reflect"
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string, compaction bool) *CNF {
	t.Helper()
	cnf, err := Parse(strings.NewReader(src), ParseOptions{VariableCompaction: compaction})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return cnf
}

func TestParseBasic(t *testing.T) {
	src := "p cnf 3 2\n1 2 3 0\n-1 -2 0\n"
	cnf := mustParse(t, src, true)
	if cnf.VariableCount != 3 || cnf.ClauseCount != 2 {
		t.Fatalf("unexpected header: vars=%d clauses=%d", cnf.VariableCount, cnf.ClauseCount)
	}
	want := [][]int32{{1, 2, 3}, {-1, -2}}
	if !reflect.DeepEqual(cnf.Clauses, want) {
		t.Fatalf("clauses = %v, want %v", cnf.Clauses, want)
	}
}

func TestParseCommentsAndBlankLines(t *testing.T) {
	src := "c a comment\n\np cnf 2 1\nc another comment\n1 -2 0\n"
	cnf := mustParse(t, src, false)
	if cnf.ClauseCount != 1 {
		t.Fatalf("expected 1 clause, got %d", cnf.ClauseCount)
	}
}

func TestParseMissingProblemLine(t *testing.T) {
	_, err := Parse(strings.NewReader("1 2 0\n"), ParseOptions{})
	if err == nil {
		t.Fatalf("expected error for missing problem line")
	}
	var pe *ParseError
	if !isParseError(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}

func TestParseClauseCountMismatch(t *testing.T) {
	src := "p cnf 2 2\n1 2 0\n"
	_, err := Parse(strings.NewReader(src), ParseOptions{})
	if err == nil {
		t.Fatalf("expected error for clause count mismatch")
	}
}

func TestCompactionFirstAppearance(t *testing.T) {
	src := "p cnf 5 2\n5 3 0\n-3 1 0\n"
	cnf := mustParse(t, src, true)
	if cnf.VariableCount != 3 {
		t.Fatalf("expected 3 compacted variables, got %d", cnf.VariableCount)
	}
	want := [][]int32{{1, 2}, {-2, 3}}
	if !reflect.DeepEqual(cnf.Clauses, want) {
		t.Fatalf("clauses = %v, want %v", cnf.Clauses, want)
	}
}

func TestCompactionIdempotent(t *testing.T) {
	cnf := mustParse(t, "p cnf 5 2\n5 3 0\n-3 1 0\n", true)
	before := cloneClauses(cnf.Clauses)
	beforeCount := cnf.VariableCount
	cnf.Compact()
	if !reflect.DeepEqual(cnf.Clauses, before) || cnf.VariableCount != beforeCount {
		t.Fatalf("compacting an already-compacted CNF must be a no-op")
	}
}

func TestNormalizeDuplicateLiteral(t *testing.T) {
	cnf := mustParse(t, "p cnf 2 1\n1 1 -2 0\n", false)
	norm := cnf.Normalize()
	want := [][]int32{{1, -2}}
	if !reflect.DeepEqual(norm.Clauses, want) {
		t.Fatalf("clauses = %v, want %v", norm.Clauses, want)
	}
}

func TestNormalizeTautologyDropped(t *testing.T) {
	cnf := mustParse(t, "p cnf 2 1\n1 -1 2 0\n", false)
	norm := cnf.Normalize()
	if norm.ClauseCount != 0 {
		t.Fatalf("expected tautological clause to be dropped, got %d clauses", norm.ClauseCount)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	cnf := mustParse(t, "p cnf 3 2\n1 2 3 0\n-1 -2 0\n", false)
	once := cnf.Normalize()
	twice := once.Normalize()
	if !reflect.DeepEqual(once.Clauses, twice.Clauses) {
		t.Fatalf("normalizing an already-normalized CNF must be a no-op")
	}
}

func TestNormalizeSortsByAbsValue(t *testing.T) {
	cnf := mustParse(t, "p cnf 3 1\n3 -1 2 0\n", false)
	norm := cnf.Normalize()
	want := [][]int32{{-1, 2, 3}}
	if !reflect.DeepEqual(norm.Clauses, want) {
		t.Fatalf("clauses = %v, want %v", norm.Clauses, want)
	}
}

func cloneClauses(cs [][]int32) [][]int32 {
	out := make([][]int32, len(cs))
	for i, c := range cs {
		out[i] = append([]int32(nil), c...)
	}
	return out
}

func isParseError(err error, target **ParseError) bool {
	pe, ok := err.(*ParseError)
	if ok {
		*target = pe
	}
	return ok
}
