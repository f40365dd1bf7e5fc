package segment

// AmbiguousPolicy selects what the segmenter does when neither the
// modularity lower-bound accept test nor the upper-bound reject test is
// decisive for a candidate merge.
type AmbiguousPolicy int

const (
	// AmbiguousAccept always merges on an ambiguous verdict.
	AmbiguousAccept AmbiguousPolicy = iota
	// AmbiguousReject always skips an ambiguous verdict, recording the
	// edge as an inter-component candidate.
	AmbiguousReject
	// AmbiguousGateMargin merges only if the FH gate has enough headroom
	// left over the merge distance.
	AmbiguousGateMargin
)

func (p AmbiguousPolicy) String() string {
	switch p {
	case AmbiguousAccept:
		return "accept"
	case AmbiguousReject:
		return "reject"
	case AmbiguousGateMargin:
		return "gate-margin"
	default:
		return "unknown"
	}
}

// Config tunes the FH segmenter's merge gate and modularity guard.
type Config struct {
	NormalizeDistances    bool
	NormSampleEdges       int
	SizeExponent          float64
	UseModularityGuard    bool
	Gamma                 float64
	AnnealModularityGuard bool
	DqTolerance0          float64
	DqVscale              float64
	AmbiguousPolicy       AmbiguousPolicy
	GateMarginRatio       float64
}

// DefaultConfig returns the segmenter's default knob values.
func DefaultConfig() Config {
	return Config{
		NormalizeDistances:    true,
		NormSampleEdges:       1000,
		SizeExponent:          1.2,
		UseModularityGuard:    true,
		Gamma:                 1.0,
		AnnealModularityGuard: true,
		DqTolerance0:          5e-4,
		DqVscale:              0, // 0 means auto: max(1, 2m/N)
		AmbiguousPolicy:       AmbiguousGateMargin,
		GateMarginRatio:       0.05,
	}
}
