// Package appconfig loads vigseg's runtime configuration through Viper and
// builds a zerolog logger from it, following the layered
// SetDefault/GetX/CreateLogger pattern the teacher uses for its algorithm
// configs.
package appconfig

import (
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config wraps a Viper instance carrying vigseg's builder, segmenter, and
// logging knobs.
type Config struct {
	v *viper.Viper
}

// New returns a Config seeded with vigseg's defaults.
func New() *Config {
	v := viper.New()

	v.SetDefault("builder.tau", "inf")
	v.SetDefault("builder.use_optimized", false)
	v.SetDefault("builder.num_threads", runtime.NumCPU())
	v.SetDefault("builder.max_buffer_contributions", uint64(1<<20))

	v.SetDefault("dimacs.variable_compaction", true)
	v.SetDefault("dimacs.normalize", true)

	v.SetDefault("segment.k", 1.0)
	v.SetDefault("segment.normalize_distances", true)
	v.SetDefault("segment.norm_sample_edges", 1000)
	v.SetDefault("segment.size_exponent", 1.2)
	v.SetDefault("segment.use_modularity_guard", true)
	v.SetDefault("segment.gamma", 1.0)
	v.SetDefault("segment.anneal_modularity_guard", true)
	v.SetDefault("segment.dq_tolerance0", 5e-4)
	v.SetDefault("segment.dq_vscale", 0.0)
	v.SetDefault("segment.ambiguous_policy", "gate-margin")
	v.SetDefault("segment.gate_margin_ratio", 0.05)

	v.SetDefault("logging.level", "info")

	v.AutomaticEnv()
	_ = v.BindEnv("debug", "VIGSEG_DEBUG")

	return &Config{v: v}
}

// LoadFromFile merges a config file (any format Viper supports) over the
// defaults.
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

func (c *Config) TauRaw() string             { return c.v.GetString("builder.tau") }
func (c *Config) UseOptimized() bool         { return c.v.GetBool("builder.use_optimized") }
func (c *Config) NumThreads() int            { return c.v.GetInt("builder.num_threads") }
func (c *Config) MaxBufferContributions() uint64 {
	return c.v.GetUint64("builder.max_buffer_contributions")
}

func (c *Config) VariableCompaction() bool { return c.v.GetBool("dimacs.variable_compaction") }
func (c *Config) Normalize() bool          { return c.v.GetBool("dimacs.normalize") }

func (c *Config) SegmentK() float64                 { return c.v.GetFloat64("segment.k") }
func (c *Config) NormalizeDistances() bool          { return c.v.GetBool("segment.normalize_distances") }
func (c *Config) NormSampleEdges() int              { return c.v.GetInt("segment.norm_sample_edges") }
func (c *Config) SizeExponent() float64             { return c.v.GetFloat64("segment.size_exponent") }
func (c *Config) UseModularityGuard() bool          { return c.v.GetBool("segment.use_modularity_guard") }
func (c *Config) Gamma() float64                    { return c.v.GetFloat64("segment.gamma") }
func (c *Config) AnnealModularityGuard() bool       { return c.v.GetBool("segment.anneal_modularity_guard") }
func (c *Config) DqTolerance0() float64             { return c.v.GetFloat64("segment.dq_tolerance0") }
func (c *Config) DqVscale() float64                 { return c.v.GetFloat64("segment.dq_vscale") }
func (c *Config) AmbiguousPolicy() string           { return c.v.GetString("segment.ambiguous_policy") }
func (c *Config) GateMarginRatio() float64          { return c.v.GetFloat64("segment.gate_margin_ratio") }

func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }
func (c *Config) Debug() bool      { return c.v.GetBool("debug") }

// Set allows dynamic configuration changes, mainly from parsed CLI flags.
func (c *Config) Set(key string, value interface{}) { c.v.Set(key, value) }

// CreateLogger builds a zerolog logger at the configured level, writing a
// human-readable console format to stderr so stdout stays free for CSV
// output redirection.
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.Debug() {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "vigseg").Logger()
}
