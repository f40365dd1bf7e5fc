package appconfig

import (
	"strconv"
	"strings"

	"github.com/gilchrisn/cnfvig/pkg/segment"
	"github.com/gilchrisn/cnfvig/pkg/vig"
)

// ParseTau parses the --tau flag: either the literal "inf"/"infinite" or a
// non-negative decimal clause-size threshold.
func ParseTau(raw string) (uint32, error) {
	if strings.EqualFold(raw, "inf") || strings.EqualFold(raw, "infinite") {
		return vig.Infinite, nil
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, &ConfigError{Field: "tau", Reason: err.Error()}
	}
	return uint32(n), nil
}

// ParseAmbiguousPolicy parses the --ambiguous-policy flag.
func ParseAmbiguousPolicy(raw string) (segment.AmbiguousPolicy, error) {
	switch strings.ToLower(raw) {
	case "accept":
		return segment.AmbiguousAccept, nil
	case "reject":
		return segment.AmbiguousReject, nil
	case "gate-margin", "gatemargin", "":
		return segment.AmbiguousGateMargin, nil
	default:
		return 0, &ConfigError{Field: "ambiguous_policy", Reason: "must be one of accept, reject, gate-margin"}
	}
}
