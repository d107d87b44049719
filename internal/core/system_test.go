package core

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/arkab-io/arkab/internal/audit"
	"github.com/arkab-io/arkab/internal/config"
	"github.com/arkab-io/arkab/internal/health"
	"github.com/arkab-io/arkab/internal/model"
)

type fixedSampler struct {
	snap health.Snapshot
}

func (s *fixedSampler) Sample(ctx context.Context) (health.Snapshot, error) {
	return s.snap, nil
}

func testSystem(t *testing.T, cfg *config.Config) *System {
	t.Helper()
	sampler := &fixedSampler{snap: health.Snapshot{
		CPUPercent:    20,
		MemoryPercent: 30,
		DiskPercent:   40,
		SampledAt:     time.Now().UTC(),
	}}
	sys, err := New(cfg, "builtin", sampler)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { sys.Close() })
	return sys
}

func TestSubmitBatchAlignsWithInput(t *testing.T) {
	sys := testSystem(t, nil)

	evs := []model.Evidence{
		{Source: "ids", EntityID: "host-1", ThreatLevel: model.ThreatCritical, Confidence: 0.95},
		{Source: "ids", EntityID: "host-2", ThreatLevel: model.ThreatBenign, Confidence: 0.5},
		{Source: "edr", EntityID: "host-3", ThreatLevel: model.ThreatSuspicious, Confidence: 0.7},
	}
	decisions := sys.SubmitBatch(context.Background(), evs)
	if len(decisions) != len(evs) {
		t.Fatalf("got %d decisions for %d evidences", len(decisions), len(evs))
	}
	wantActions := []model.Action{model.ActionIsolate, model.ActionMonitor, model.ActionAlert}
	for i, dec := range decisions {
		if dec.EntityID != evs[i].EntityID {
			t.Errorf("decision %d entity = %q, want %q", i, dec.EntityID, evs[i].EntityID)
		}
		if dec.Action != wantActions[i] {
			t.Errorf("decision %d action = %q, want %q", i, dec.Action, wantActions[i])
		}
		if dec.DecisionID == "" {
			t.Errorf("decision %d has empty ID", i)
		}
	}

	stats := sys.MemoryStats()
	if stats.Count != 3 {
		t.Errorf("memory count = %d, want 3", stats.Count)
	}
}

func TestSubmitBatchRecordsAuditAndArchive(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.AuditLog = filepath.Join(dir, "audit.jsonl")
	cfg.Archive = filepath.Join(dir, "decisions.db")
	sys := testSystem(t, cfg)

	sys.SubmitBatch(context.Background(), []model.Evidence{
		{Source: "ids", EntityID: "host-1", ThreatLevel: model.ThreatCritical, Confidence: 0.9},
		{Source: "ids", EntityID: "host-2", ThreatLevel: model.ThreatSuspicious, Confidence: 0.4},
	})

	result := audit.Verify(cfg.AuditLog)
	if !result.Valid {
		t.Errorf("audit chain invalid: %s (line %d)", result.Error, result.ErrorLine)
	}
	if result.Lines != 2 {
		t.Errorf("audit lines = %d, want 2", result.Lines)
	}

	count, err := sys.Archive().Count()
	if err != nil {
		t.Fatalf("archive count: %v", err)
	}
	if count != 2 {
		t.Errorf("archived decisions = %d, want 2", count)
	}
}

func TestHealthReportUsesInjectedSampler(t *testing.T) {
	sys := testSystem(t, nil)

	report := sys.HealthReport(context.Background())
	if report.Snapshot.CPUPercent != 20 {
		t.Errorf("cpu = %v, want 20", report.Snapshot.CPUPercent)
	}
	if len(report.Problems) != 0 {
		t.Errorf("problems = %v, want none", report.Problems)
	}
}

func TestApplyConfigChangesThresholds(t *testing.T) {
	sys := testSystem(t, nil)

	cfg := config.Default()
	cfg.Health.CPUThreshold = 10
	sys.ApplyConfig(cfg, "sha256:test")

	report := sys.HealthReport(context.Background())
	if len(report.Problems) != 1 || report.Problems[0] != health.ProblemCPU {
		t.Errorf("problems = %v, want [cpu] after lowering threshold", report.Problems)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	sys := testSystem(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sys.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
