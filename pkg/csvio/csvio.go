// Package csvio writes the segmentation boundary outputs — component
// summaries, a full graph dump, and cross-component edges — as CSV,
// grounded on the field layout and floating-point formatting of the
// original CSVWriter but built on the standard library's encoding/csv
// rather than a hand-rolled writer.
package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/gilchrisn/cnfvig/pkg/vig"
)

// ComponentRow is one row of the components.csv output.
type ComponentRow struct {
	ComponentID       uint32
	Size              uint32
	MinInternalWeight float64
}

// NodeRow is one row of the nodes half of a graph dump.
type NodeRow struct {
	ID uint32
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 17, 64)
}

func formatUint(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}

// WriteComponents writes "component_id, size, min_internal_weight" rows.
func WriteComponents(w io.Writer, rows []ComponentRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"component_id", "size", "min_internal_weight"}); err != nil {
		return &OutputError{Path: "components", Err: err}
	}
	for _, r := range rows {
		record := []string{formatUint(r.ComponentID), formatUint(r.Size), formatFloat(r.MinInternalWeight)}
		if err := cw.Write(record); err != nil {
			return &OutputError{Path: "components", Err: err}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return &OutputError{Path: "components", Err: err}
	}
	return nil
}

// WriteGraphDump writes the node table ("id, component") to nodesW and the
// edge table ("u, v, w") to edgesW. labelOf maps a node id to its final
// component label.
func WriteGraphDump(nodesW, edgesW io.Writer, nodes []NodeRow, edges []vig.Edge, labelOf func(uint32) uint32) error {
	nw := csv.NewWriter(nodesW)
	if err := nw.Write([]string{"id", "component"}); err != nil {
		return &OutputError{Path: "nodes", Err: err}
	}
	for _, n := range nodes {
		record := []string{formatUint(n.ID), formatUint(labelOf(n.ID))}
		if err := nw.Write(record); err != nil {
			return &OutputError{Path: "nodes", Err: err}
		}
	}
	nw.Flush()
	if err := nw.Error(); err != nil {
		return &OutputError{Path: "nodes", Err: err}
	}

	ew := csv.NewWriter(edgesW)
	if err := ew.Write([]string{"u", "v", "w"}); err != nil {
		return &OutputError{Path: "edges", Err: err}
	}
	for _, e := range edges {
		record := []string{formatUint(e.U), formatUint(e.V), formatFloat(e.W)}
		if err := ew.Write(record); err != nil {
			return &OutputError{Path: "edges", Err: err}
		}
	}
	ew.Flush()
	if err := ew.Error(); err != nil {
		return &OutputError{Path: "edges", Err: err}
	}
	return nil
}

// WriteCrossComponentEdges writes "u, v, w" rows over component roots,
// typically fed from Segmenter.StrongestInterComponentEdges.
func WriteCrossComponentEdges(w io.Writer, edges []vig.Edge) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"u", "v", "w"}); err != nil {
		return &OutputError{Path: "cross_component_edges", Err: err}
	}
	for _, e := range edges {
		record := []string{formatUint(e.U), formatUint(e.V), formatFloat(e.W)}
		if err := cw.Write(record); err != nil {
			return &OutputError{Path: "cross_component_edges", Err: err}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return &OutputError{Path: "cross_component_edges", Err: err}
	}
	return nil
}
