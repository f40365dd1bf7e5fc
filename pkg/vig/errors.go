package vig

import "fmt"

// ConfigError reports an invalid builder argument (spec's InvalidArgument
// kind), following the {Field, Reason} shape the teacher uses for its own
// validation errors (graph-clustering-algorithm/pkg/models.ValidationError).
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("vig: invalid configuration for %s: %s", e.Field, e.Reason)
}

// OverflowError reports a resource overflow in the optimized builder (spec's
// ResourceOverflow kind): a per-variable contribution count that does not
// fit in 32 bits, or a batch buffer size exceeding the platform word.
type OverflowError struct {
	Variable uint32
	Reason   string
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("vig: overflow at variable %d: %s", e.Variable, e.Reason)
}
