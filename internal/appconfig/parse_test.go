package appconfig

import (
	"testing"

	"github.com/gilchrisn/cnfvig/pkg/segment"
	"github.com/gilchrisn/cnfvig/pkg/vig"
)

func TestParseTauInfinite(t *testing.T) {
	for _, raw := range []string{"inf", "Inf", "INFINITE"} {
		tau, err := ParseTau(raw)
		if err != nil {
			t.Fatalf("ParseTau(%q) error = %v", raw, err)
		}
		if tau != vig.Infinite {
			t.Fatalf("ParseTau(%q) = %d, want Infinite", raw, tau)
		}
	}
}

func TestParseTauNumeric(t *testing.T) {
	tau, err := ParseTau("5")
	if err != nil {
		t.Fatalf("ParseTau() error = %v", err)
	}
	if tau != 5 {
		t.Fatalf("ParseTau() = %d, want 5", tau)
	}
}

func TestParseTauMalformed(t *testing.T) {
	_, err := ParseTau("not-a-number")
	if err == nil {
		t.Fatalf("expected error for malformed tau")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
}

func TestParseAmbiguousPolicy(t *testing.T) {
	cases := map[string]segment.AmbiguousPolicy{
		"accept":      segment.AmbiguousAccept,
		"reject":      segment.AmbiguousReject,
		"gate-margin": segment.AmbiguousGateMargin,
		"":            segment.AmbiguousGateMargin,
	}
	for raw, want := range cases {
		got, err := ParseAmbiguousPolicy(raw)
		if err != nil {
			t.Fatalf("ParseAmbiguousPolicy(%q) error = %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseAmbiguousPolicy(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestParseAmbiguousPolicyInvalid(t *testing.T) {
	_, err := ParseAmbiguousPolicy("bogus")
	if err == nil {
		t.Fatalf("expected error for invalid policy")
	}
}
