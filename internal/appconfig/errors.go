package appconfig

import "fmt"

// ConfigError reports a malformed CLI knob (spec's InvalidArgument kind).
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("appconfig: invalid %s: %s", e.Field, e.Reason)
}
