// Command vigseg builds a Variable Incidence Graph from a DIMACS CNF file
// and segments it with Felzenszwalb-Huttenlocher clustering, writing the
// resulting components and edge lists as CSV.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gilchrisn/cnfvig/internal/appconfig"
)

func main() {
	cfg := appconfig.New()
	root := newRootCommand(cfg)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func newRootCommand(cfg *appconfig.Config) *cobra.Command {
	var (
		input             string
		tau               string
		k                 float64
		useOptimized      bool
		useNaive          bool
		threads           int
		maxBuf            uint64
		outDir            string
		compareLouvain    bool
		normalizeDist     bool
		normSampleEdges   int
		sizeExponent      float64
		useGuard          bool
		gamma             float64
		anneal            bool
		dqTolerance0      float64
		dqVscale          float64
		ambiguousPolicy   string
		gateMarginRatio   float64
		debug             bool
	)

	cmd := &cobra.Command{
		Use:   "vigseg",
		Short: "Segment a CNF's variable incidence graph",
		Long: `vigseg parses a DIMACS CNF file, builds its weighted Variable
Incidence Graph, and segments it with Felzenszwalb-Huttenlocher clustering
guarded by a modularity check, writing components and edges as CSV.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Set("builder.tau", tau)
			cfg.Set("builder.use_optimized", useOptimized && !useNaive)
			cfg.Set("builder.num_threads", threads)
			cfg.Set("builder.max_buffer_contributions", maxBuf)
			cfg.Set("segment.k", k)
			cfg.Set("segment.normalize_distances", normalizeDist)
			cfg.Set("segment.norm_sample_edges", normSampleEdges)
			cfg.Set("segment.size_exponent", sizeExponent)
			cfg.Set("segment.use_modularity_guard", useGuard)
			cfg.Set("segment.gamma", gamma)
			cfg.Set("segment.anneal_modularity_guard", anneal)
			cfg.Set("segment.dq_tolerance0", dqTolerance0)
			cfg.Set("segment.dq_vscale", dqVscale)
			cfg.Set("segment.ambiguous_policy", ambiguousPolicy)
			cfg.Set("segment.gate_margin_ratio", gateMarginRatio)
			cfg.Set("debug", debug)

			return runPipeline(cfg, pipelineArgs{
				input:          input,
				outDir:         outDir,
				compareLouvain: compareLouvain,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input, "input", "-", "input DIMACS CNF file, or - for stdin")
	flags.StringVar(&tau, "tau", "inf", "clause-size threshold: a decimal integer, or inf")
	flags.Float64Var(&k, "k", 1.0, "FH segmenter scale parameter")
	flags.BoolVar(&useOptimized, "opt", false, "use the memory-bounded concurrent VIG builder instead of the default naive one")
	flags.BoolVar(&useNaive, "naive", false, "use the single-threaded VIG builder (default; overrides --opt if both are given)")
	flags.IntVar(&threads, "threads", cfg.NumThreads(), "worker count for the optimized builder")
	flags.Uint64Var(&maxBuf, "maxbuf", cfg.MaxBufferContributions(), "transient buffer budget (contributions) for the optimized builder")
	flags.StringVar(&outDir, "outdir", ".", "directory to write components.csv, nodes.csv, edges.csv, cross_component_edges.csv")
	flags.BoolVar(&compareLouvain, "compare-louvain", false, "also run a single-level Louvain comparator and log its modularity")

	flags.BoolVar(&normalizeDist, "normalize-distances", cfg.NormalizeDistances(), "normalize merge distances by median 1/w over the heaviest sampled edges")
	flags.IntVar(&normSampleEdges, "norm-sample-edges", cfg.NormSampleEdges(), "sample size for the distance-normalization median")
	flags.Float64Var(&sizeExponent, "size-exponent", cfg.SizeExponent(), "denominator exponent in the FH gate")
	flags.BoolVar(&useGuard, "use-modularity-guard", cfg.UseModularityGuard(), "enable the modularity lower/upper-bound guard")
	flags.Float64Var(&gamma, "gamma", cfg.Gamma(), "modularity resolution parameter")
	flags.BoolVar(&anneal, "anneal-modularity-guard", cfg.AnnealModularityGuard(), "allow a shrinking negative tolerance on the guard's lower-bound test")
	flags.Float64Var(&dqTolerance0, "dq-tolerance0", cfg.DqTolerance0(), "initial modularity-guard tolerance magnitude")
	flags.Float64Var(&dqVscale, "dq-vscale", cfg.DqVscale(), "annealing volume scale; 0 selects max(1, 2m/N) automatically")
	flags.StringVar(&ambiguousPolicy, "ambiguous-policy", cfg.AmbiguousPolicy(), "accept, reject, or gate-margin")
	flags.Float64Var(&gateMarginRatio, "gate-margin-ratio", cfg.GateMarginRatio(), "required gate headroom fraction for the gate-margin policy")
	flags.BoolVar(&debug, "debug", cfg.Debug(), "enable the optimized builder's planning/memory diagnostics")

	return cmd
}
