// Package dimacs parses DIMACS CNF files into normalized, compacted clause
// collections consumable by pkg/vig.
//
// Grounded on original_source/include/thesis/cnf.hpp: the header line, the
// per-clause literal scan (a single pass over each line), and the first-appearance variable
// compaction are all ported line-for-line in spirit, but malformed input is
// surfaced as an error instead of a silently-invalid zero-value CNF.
package dimacs

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// ParseError reports a malformed DIMACS input (spec's MalformedInput kind).
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("dimacs: parse error at line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("dimacs: parse error: %s", e.Reason)
}

// CNF holds a parsed, possibly normalized/compacted, clause collection.
// Variables are 1-based in the raw literal representation; VariableCount
// reflects the highest variable index in scope after any compaction.
type CNF struct {
	VariableCount uint32
	ClauseCount   uint32
	Clauses       [][]int32
}

// ParseOptions controls the parser's post-processing.
type ParseOptions struct {
	// VariableCompaction renumbers variables 1..K by first appearance.
	VariableCompaction bool
	Logger             zerolog.Logger
}

// Parse reads a DIMACS CNF stream: a "p cnf V C" header (after any leading
// comment/blank lines) followed by C clauses, each a whitespace-separated
// run of signed integers terminated by 0. The declared clause count must
// match the number of clause lines encountered or parsing fails.
func Parse(r io.Reader, opts ParseOptions) (*CNF, error) {
	logger := opts.Logger
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	var line string
	found := false
	for scanner.Scan() {
		lineNo++
		line = strings.TrimRight(scanner.Text(), " \t\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed[0] == 'c' {
			continue
		}
		found = true
		break
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Line: lineNo, Reason: err.Error()}
	}
	if !found || !strings.HasPrefix(strings.TrimSpace(line), "p") {
		return nil, &ParseError{Line: lineNo, Reason: "missing 'p cnf V C' problem line"}
	}

	fields := strings.Fields(line)
	if len(fields) < 4 || fields[0] != "p" || fields[1] != "cnf" {
		return nil, &ParseError{Line: lineNo, Reason: "malformed 'p cnf V C' problem line"}
	}
	declaredVars, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return nil, &ParseError{Line: lineNo, Reason: "invalid variable count in problem line"}
	}
	declaredClauses, err := strconv.ParseUint(fields[3], 10, 32)
	if err != nil {
		return nil, &ParseError{Line: lineNo, Reason: "invalid clause count in problem line"}
	}

	cnf := &CNF{
		VariableCount: uint32(declaredVars),
		Clauses:       make([][]int32, 0, declaredClauses),
	}

	for scanner.Scan() {
		lineNo++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || raw[0] == 'c' {
			continue
		}
		fields := strings.Fields(raw)
		clause := make([]int32, 0, len(fields))
		for _, tok := range fields {
			lit, err := strconv.ParseInt(tok, 10, 32)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Reason: fmt.Sprintf("invalid literal %q", tok)}
			}
			if lit == 0 {
				break
			}
			clause = append(clause, int32(lit))
		}
		if len(clause) > 0 {
			cnf.Clauses = append(cnf.Clauses, clause)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Line: lineNo, Reason: err.Error()}
	}

	if uint64(len(cnf.Clauses)) != declaredClauses {
		return nil, &ParseError{
			Reason: fmt.Sprintf("declared clause count %d does not match %d parsed clauses", declaredClauses, len(cnf.Clauses)),
		}
	}
	cnf.ClauseCount = uint32(len(cnf.Clauses))

	if opts.VariableCompaction {
		cnf.Compact()
	}

	logger.Debug().
		Uint32("variables", cnf.VariableCount).
		Uint32("clauses", cnf.ClauseCount).
		Msg("parsed DIMACS CNF")

	return cnf, nil
}

// Compact renumbers variables 1..K by order of first appearance across
// clauses, extending the map if the file declared fewer variables than are
// actually referenced (matching the C++ reference's defensive resize).
// Compacting an already-compacted CNF is a no-op.
func (c *CNF) Compact() {
	varMap := make([]int32, c.VariableCount+1) // 1-based, 0 = unmapped
	next := int32(1)
	for _, clause := range c.Clauses {
		for i, lit := range clause {
			v := lit
			if v < 0 {
				v = -v
			}
			idx := int(v)
			if idx >= len(varMap) {
				grown := make([]int32, idx+1)
				copy(grown, varMap)
				varMap = grown
			}
			if varMap[idx] == 0 {
				varMap[idx] = next
				next++
			}
			sign := int32(1)
			if lit < 0 {
				sign = -1
			}
			clause[i] = sign * varMap[idx]
		}
	}
	c.VariableCount = uint32(next - 1)
}

// Normalize returns a new CNF whose clauses are each sorted ascending by
// |literal|, deduplicated, tautology-free, and empty-clause-free. It is
// idempotent: normalizing an already-normalized CNF returns an equal clause
// set.
func (c *CNF) Normalize() *CNF {
	out := &CNF{VariableCount: c.VariableCount}
	out.Clauses = make([][]int32, 0, len(c.Clauses))
	for _, clause := range c.Clauses {
		norm, ok := normalizeClause(clause)
		if !ok {
			continue
		}
		out.Clauses = append(out.Clauses, norm)
	}
	out.ClauseCount = uint32(len(out.Clauses))
	return out
}

func normalizeClause(clause []int32) ([]int32, bool) {
	cp := make([]int32, len(clause))
	copy(cp, clause)
	sort.Slice(cp, func(i, j int) bool {
		ai, aj := cp[i], cp[j]
		if ai < 0 {
			ai = -ai
		}
		if aj < 0 {
			aj = -aj
		}
		if ai != aj {
			return ai < aj
		}
		return cp[i] < cp[j]
	})

	out := cp[:0:0]
	seenVar := int32(0)
	for i, lit := range cp {
		v := lit
		if v < 0 {
			v = -v
		}
		if i > 0 && v == seenVar {
			prevSign := out[len(out)-1] < 0
			curSign := lit < 0
			if prevSign != curSign {
				return nil, false // tautology: both polarities present
			}
			continue // duplicate literal, identical sign
		}
		seenVar = v
		out = append(out, lit)
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
