package cli

import (
	"strings"
	"testing"
)

func TestFormatAuditLine(t *testing.T) {
	line := `{"ts":"2026-08-29T10:00:00Z","batch_id":"b-1","evidence":{"source":"ids-1","entity_id":"host-42","threat_level":"critical","confidence":0.9},"decision_id":"d-1","action":"isolate","confidence":0.95,"reasoning":"critical threat, high confidence: isolating entity","config_hash":"builtin","prev_hash":"sha256:genesis"}`

	got := formatAuditLine(line)
	for _, want := range []string{
		"2026-08-29T10:00:00Z",
		"isolate",
		"host-42",
		"conf=0.95",
		"threat=critical",
		"src=ids-1",
		"batch=b-1",
		"isolating entity",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("formatted line missing %q: %s", want, got)
		}
	}
}

func TestFormatAuditLinePassesThroughGarbage(t *testing.T) {
	line := `not json at all`
	if got := formatAuditLine(line); got != line {
		t.Errorf("expected raw pass-through, got %q", got)
	}
}
