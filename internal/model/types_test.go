package model

import "testing"

func TestParseThreatLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    ThreatLevel
		wantErr bool
	}{
		{"benign", ThreatBenign, false},
		{"suspicious", ThreatSuspicious, false},
		{"critical", ThreatCritical, false},
		{"BENIGN", ThreatBenign, false},
		{"CRITICAL", ThreatCritical, false},
		{"", "", true},
		{"catastrophic", "", true},
	}
	for _, c := range cases {
		got, err := ParseThreatLevel(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseThreatLevel(%q): expected error, got %q", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseThreatLevel(%q): unexpected error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseThreatLevel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseActionRejectsUnknown(t *testing.T) {
	if _, err := ParseAction("quarantine"); err == nil {
		t.Error("expected error for unknown action")
	}
	got, err := ParseAction("isolate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ActionIsolate {
		t.Errorf("expected isolate, got %q", got)
	}
}

func TestEvidenceCloneIsDeep(t *testing.T) {
	e := Evidence{
		Source:   "sensor-1",
		EntityID: "host-1",
		Metrics: map[string]any{
			"cpu":  42,
			"tags": []any{"lateral", "probe"},
			"net":  map[string]any{"bytes": 1024},
		},
	}

	c := e.Clone()
	e.Metrics["cpu"] = 99
	e.Metrics["net"].(map[string]any)["bytes"] = 0
	e.Metrics["tags"].([]any)[0] = "changed"

	if c.Metrics["cpu"] != 42 {
		t.Errorf("clone cpu mutated: %v", c.Metrics["cpu"])
	}
	if c.Metrics["net"].(map[string]any)["bytes"] != 1024 {
		t.Errorf("clone nested map mutated: %v", c.Metrics["net"])
	}
	if c.Metrics["tags"].([]any)[0] != "lateral" {
		t.Errorf("clone nested slice mutated: %v", c.Metrics["tags"])
	}
}

func TestEvidenceCloneNilMetrics(t *testing.T) {
	c := Evidence{Source: "s"}.Clone()
	if c.Metrics != nil {
		t.Errorf("expected nil metrics, got %v", c.Metrics)
	}
}
