package cache

import (
	"testing"
	"time"
)

type keyParams struct {
	RSIWindow  int     `json:"rsi_window"`
	Commission float64 `json:"commission_rate"`
	StartDate  string  `json:"start_date,omitempty"`
}

func TestKeyDeterministic(t *testing.T) {
	p := keyParams{RSIWindow: 14, Commission: 0.0015}
	k1, err := Key("VNM", StageFullAnalysis, p)
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	k2, err := Key("VNM", StageFullAnalysis, p)
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	if k1 != k2 {
		t.Fatalf("same inputs produced different keys: %s vs %s", k1, k2)
	}
	if len(k1) != 64 {
		t.Fatalf("expected sha256 hex key, got %d chars", len(k1))
	}
}

func TestKeyChangesWithAnyInput(t *testing.T) {
	base := keyParams{RSIWindow: 14, Commission: 0.0015}
	k0, _ := Key("VNM", StageFullAnalysis, base)

	if k, _ := Key("FPT", StageFullAnalysis, base); k == k0 {
		t.Fatalf("ticker change did not change key")
	}
	if k, _ := Key("VNM", StageTechnical, base); k == k0 {
		t.Fatalf("stage change did not change key")
	}
	if k, _ := Key("VNM", StageFullAnalysis, keyParams{RSIWindow: 21, Commission: 0.0015}); k == k0 {
		t.Fatalf("window change did not change key")
	}
	if k, _ := Key("VNM", StageFullAnalysis, keyParams{RSIWindow: 14, Commission: 0.002}); k == k0 {
		t.Fatalf("commission change did not change key")
	}
}

func TestCanonicalIgnoresFieldOrder(t *testing.T) {
	// Two shapes of the same logical parameter set serialize identically.
	a := map[string]interface{}{"b": 2, "a": 1}
	b := map[string]interface{}{"a": 1, "b": 2}
	ca, err := Canonical(a)
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	cb, err := Canonical(b)
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	if string(ca) != string(cb) {
		t.Fatalf("canonical forms differ: %s vs %s", ca, cb)
	}
}

func TestTTLPolicyFallback(t *testing.T) {
	p := DefaultTTLPolicy()
	if p.For(StageFinancial) != 24*time.Hour {
		t.Fatalf("unexpected financial ttl %v", p.For(StageFinancial))
	}
	if p.For("no_such_stage") != p.def {
		t.Fatalf("unknown stage did not fall back to default")
	}
}
