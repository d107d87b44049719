package arkab

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/arkab-io/arkab/internal/audit"
)

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(opts...)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func sample(entity string, level ThreatLevel, confidence float64) Evidence {
	return Evidence{
		Source:      "ids",
		Timestamp:   time.Now().UTC(),
		EntityID:    entity,
		ThreatLevel: level,
		Confidence:  confidence,
	}
}

func TestNewDefault(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() with defaults should succeed: %v", err)
	}
	defer c.Close()
	if c == nil {
		t.Fatal("expected non-nil client")
	}
}

func TestNewBadConfigPath(t *testing.T) {
	_, err := New(WithConfigFile(filepath.Join(t.TempDir(), "absent.yaml")))
	if err == nil {
		t.Fatal("expected error for nonexistent config file")
	}
}

func TestSubmitClassifies(t *testing.T) {
	c := newTestClient(t)

	decisions, err := c.Submit(context.Background(), []Evidence{
		sample("host-1", Critical, 0.95),
		sample("host-2", Suspicious, 0.5),
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(decisions) != 2 {
		t.Fatalf("got %d decisions, want 2", len(decisions))
	}
	if decisions[0].Action != Isolate {
		t.Errorf("decision 0 action = %q, want isolate", decisions[0].Action)
	}
	if decisions[0].Confidence != 1.0 {
		t.Errorf("decision 0 confidence = %v, want capped 1.0", decisions[0].Confidence)
	}
	if decisions[1].Action != Monitor {
		t.Errorf("decision 1 action = %q, want monitor", decisions[1].Action)
	}

	stats := c.MemoryStats()
	if stats.Count != 2 {
		t.Errorf("memory count = %d, want 2", stats.Count)
	}
}

func TestSubmitRejectsInvalidBatch(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Submit(context.Background(), []Evidence{
		sample("host-1", Benign, 0.5),
		sample("host-2", ThreatLevel("catastrophic"), 0.5),
	})

	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected *RejectedError, got %T: %v", err, err)
	}
	if c.MemoryStats().Count != 0 {
		t.Errorf("memory count = %d after rejection, want 0", c.MemoryStats().Count)
	}
}

func TestSubmitEmptyBatch(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Submit(context.Background(), nil)
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected *RejectedError for empty batch, got %T: %v", err, err)
	}
}

func TestAuditLogOption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	c := newTestClient(t, WithAuditLog(path))

	_, err := c.Submit(context.Background(), []Evidence{sample("host-1", Critical, 0.9)})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	result := audit.Verify(path)
	if !result.Valid || result.Lines != 1 {
		t.Errorf("audit log invalid or wrong length: valid=%v lines=%d", result.Valid, result.Lines)
	}
}

func TestHealthReport(t *testing.T) {
	c := newTestClient(t)

	report := c.Health(context.Background())
	if report.CPU.Threshold != 90 {
		t.Errorf("cpu threshold = %v, want default 90", report.CPU.Threshold)
	}
	// The host sampler may soft-fail on exotic platforms; either way the
	// report is well-formed and Healthy is consistent with the states.
	healthy := !report.CPU.Degraded && !report.Memory.Degraded && !report.Disk.Degraded
	if report.Healthy() != healthy {
		t.Error("Healthy() disagrees with per-resource states")
	}
}
