package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/gilchrisn/cnfvig/internal/appconfig"
	"github.com/gilchrisn/cnfvig/internal/runid"
	"github.com/gilchrisn/cnfvig/pkg/csvio"
	"github.com/gilchrisn/cnfvig/pkg/dimacs"
	"github.com/gilchrisn/cnfvig/pkg/louvain"
	"github.com/gilchrisn/cnfvig/pkg/segment"
	"github.com/gilchrisn/cnfvig/pkg/summary"
	"github.com/gilchrisn/cnfvig/pkg/vig"
)

type pipelineArgs struct {
	input          string
	outDir         string
	compareLouvain bool
}

func runPipeline(cfg *appconfig.Config, args pipelineArgs) error {
	logger := cfg.CreateLogger().With().Str("run_id", runid.New()).Logger()

	r, closeFn, err := openInput(args.input)
	if err != nil {
		return err
	}
	defer closeFn()

	tau, err := appconfig.ParseTau(cfg.TauRaw())
	if err != nil {
		return err
	}

	cnf, err := dimacs.Parse(r, dimacs.ParseOptions{
		VariableCompaction: cfg.VariableCompaction(),
		Logger:             logger,
	})
	if err != nil {
		return err
	}
	if cfg.Normalize() {
		cnf = cnf.Normalize()
	}
	logger.Info().Uint32("variables", cnf.VariableCount).Uint32("clauses", cnf.ClauseCount).Msg("parsed CNF")

	g, err := buildVIG(cnf, tau, cfg, logger)
	if err != nil {
		return err
	}
	logger.Info().Int("edges", len(g.Edges)).Uint64("aggregation_memory_bytes", g.AggregationMemory).Msg("built variable incidence graph")

	segCfg, err := segmentConfigFrom(cfg)
	if err != nil {
		return err
	}
	seg := segment.New(cnf.VariableCount, cfg.SegmentK())
	seg.SetConfig(segCfg)
	seg.Run(g.Edges)

	counters := seg.Counters()
	logger.Info().
		Uint32("components", seg.NumComponents()).
		Int("lb_accept", counters.LBAccept).
		Int("ub_reject", counters.UBReject).
		Int("ambiguous", counters.Ambiguous).
		Float64("modularity", seg.Modularity(g.Edges)).
		Msg("segmentation complete")

	if args.compareLouvain {
		res := louvain.Run(cnf.VariableCount, g.Edges, louvain.DefaultConfig())
		logger.Info().
			Float64("louvain_modularity", res.Modularity).
			Float64("segmenter_modularity", seg.Modularity(g.Edges)).
			Int("louvain_moves", res.Moves).
			Msg("louvain comparator")
	}

	if err := writeOutputs(args.outDir, cnf.VariableCount, seg, g); err != nil {
		return err
	}

	sizes := componentSizes(seg, cnf.VariableCount)
	sm := summary.Summarize(sizes)
	logger.Info().
		Float64("keff", sm.Keff).
		Float64("pmax", sm.Pmax).
		Float64("gini", sm.Gini).
		Float64("entropy_j", sm.EntropyJ).
		Msg("component size summary")

	return nil
}

func openInput(path string) (io.Reader, func() error, error) {
	if path == "-" || path == "" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &dimacs.ParseError{Line: 0, Reason: err.Error()}
	}
	return f, f.Close, nil
}

func buildVIG(cnf *dimacs.CNF, tau uint32, cfg *appconfig.Config, logger zerolog.Logger) (vig.VIG, error) {
	if !cfg.UseOptimized() {
		return vig.BuildNaive(cnf.Clauses, cnf.VariableCount, tau, true), nil
	}
	return vig.BuildOptimized(cnf.Clauses, cnf.VariableCount, vig.BuildOptions{
		Tau:                    tau,
		MaxBufferContributions: cfg.MaxBufferContributions(),
		NumWorkers:             cfg.NumThreads(),
		SortDescending:         true,
		Debug:                  cfg.Debug(),
		Logger:                 logger,
	})
}

func segmentConfigFrom(cfg *appconfig.Config) (segment.Config, error) {
	policy, err := appconfig.ParseAmbiguousPolicy(cfg.AmbiguousPolicy())
	if err != nil {
		return segment.Config{}, err
	}
	return segment.Config{
		NormalizeDistances:    cfg.NormalizeDistances(),
		NormSampleEdges:       cfg.NormSampleEdges(),
		SizeExponent:          cfg.SizeExponent(),
		UseModularityGuard:    cfg.UseModularityGuard(),
		Gamma:                 cfg.Gamma(),
		AnnealModularityGuard: cfg.AnnealModularityGuard(),
		DqTolerance0:          cfg.DqTolerance0(),
		DqVscale:              cfg.DqVscale(),
		AmbiguousPolicy:       policy,
		GateMarginRatio:       cfg.GateMarginRatio(),
	}, nil
}

// componentSizes collects the size of every distinct final component.
func componentSizes(seg *segment.Segmenter, n uint32) []uint32 {
	seen := make(map[uint32]bool)
	var sizes []uint32
	for x := uint32(0); x < n; x++ {
		r := seg.ComponentNoCompress(x)
		if seen[r] {
			continue
		}
		seen[r] = true
		sizes = append(sizes, seg.CompSize(r))
	}
	return sizes
}

func writeOutputs(outDir string, n uint32, seg *segment.Segmenter, g vig.VIG) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return &csvio.OutputError{Path: outDir, Err: err}
	}

	componentsPath := filepath.Join(outDir, "components.csv")
	cf, err := os.Create(componentsPath)
	if err != nil {
		return &csvio.OutputError{Path: componentsPath, Err: err}
	}
	defer cf.Close()

	seen := make(map[uint32]bool)
	var rows []csvio.ComponentRow
	for x := uint32(0); x < n; x++ {
		r := seg.ComponentNoCompress(x)
		if seen[r] {
			continue
		}
		seen[r] = true
		rows = append(rows, csvio.ComponentRow{
			ComponentID:       r,
			Size:              seg.CompSize(r),
			MinInternalWeight: seg.CompMinWeight(r),
		})
	}
	if err := csvio.WriteComponents(cf, rows); err != nil {
		return err
	}

	nodesPath := filepath.Join(outDir, "nodes.csv")
	edgesPath := filepath.Join(outDir, "edges.csv")
	nf, err := os.Create(nodesPath)
	if err != nil {
		return &csvio.OutputError{Path: nodesPath, Err: err}
	}
	defer nf.Close()
	ef, err := os.Create(edgesPath)
	if err != nil {
		return &csvio.OutputError{Path: edgesPath, Err: err}
	}
	defer ef.Close()

	nodes := make([]csvio.NodeRow, n)
	for x := uint32(0); x < n; x++ {
		nodes[x] = csvio.NodeRow{ID: x}
	}
	if err := csvio.WriteGraphDump(nf, ef, nodes, g.Edges, seg.ComponentNoCompress); err != nil {
		return err
	}

	crossPath := filepath.Join(outDir, "cross_component_edges.csv")
	xf, err := os.Create(crossPath)
	if err != nil {
		return &csvio.OutputError{Path: crossPath, Err: err}
	}
	defer xf.Close()
	return csvio.WriteCrossComponentEdges(xf, seg.StrongestInterComponentEdges())
}
