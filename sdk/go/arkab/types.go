package arkab

import (
	"fmt"
	"time"

	"github.com/arkab-io/arkab/internal/health"
	"github.com/arkab-io/arkab/internal/ingest"
	"github.com/arkab-io/arkab/internal/model"
)

// ThreatLevel classifies how hostile an observed signal is.
type ThreatLevel string

const (
	Benign     ThreatLevel = ThreatLevel(model.ThreatBenign)
	Suspicious ThreatLevel = ThreatLevel(model.ThreatSuspicious)
	Critical   ThreatLevel = ThreatLevel(model.ThreatCritical)
)

// Action is the automated response chosen for a piece of evidence.
type Action string

const (
	Monitor Action = Action(model.ActionMonitor)
	Alert   Action = Action(model.ActionAlert)
	Block   Action = Action(model.ActionBlock)
	Isolate Action = Action(model.ActionIsolate)
)

// Evidence is one observed security signal about a monitored entity.
type Evidence struct {
	Source      string
	Timestamp   time.Time
	EntityID    string
	ThreatLevel ThreatLevel
	Confidence  float64
	Metrics     map[string]any
}

// Decision is the engine's response to one piece of evidence.
type Decision struct {
	DecisionID string
	Timestamp  time.Time
	EntityID   string
	Action     Action
	Confidence float64
	Reasoning  string
}

// ResourceState classifies one host resource against its threshold.
type ResourceState struct {
	Percent   float64
	Threshold float64
	Degraded  bool
}

// HealthReport is one health sample with per-resource classification and
// remediation advice for anything degraded.
type HealthReport struct {
	SampledAt    time.Time
	SampleFailed bool
	CPU          ResourceState
	Memory       ResourceState
	Disk         ResourceState
	Actions      []string
}

// Healthy reports whether no resource is degraded.
func (r HealthReport) Healthy() bool {
	return !r.CPU.Degraded && !r.Memory.Degraded && !r.Disk.Degraded
}

// MemoryStats summarizes the decision memory.
type MemoryStats struct {
	Count   int
	MaxSize int
}

// RejectedError is returned when a submitted batch fails validation.
// Nothing from the batch was processed.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("arkab rejected batch: %s", e.Reason)
}

// toPayload maps SDK evidences onto the shared validation boundary.
func toPayload(evs []Evidence) ingest.BatchPayload {
	payload := ingest.BatchPayload{Evidences: make([]ingest.EvidencePayload, len(evs))}
	for i, ev := range evs {
		payload.Evidences[i] = ingest.EvidencePayload{
			Source:      ev.Source,
			Timestamp:   ev.Timestamp,
			EntityID:    ev.EntityID,
			ThreatLevel: string(ev.ThreatLevel),
			Confidence:  ev.Confidence,
			Metrics:     ev.Metrics,
		}
	}
	return payload
}

func toDecisions(decs []model.Decision) []Decision {
	out := make([]Decision, len(decs))
	for i, d := range decs {
		out[i] = Decision{
			DecisionID: d.DecisionID,
			Timestamp:  d.Timestamp,
			EntityID:   d.EntityID,
			Action:     Action(d.Action),
			Confidence: d.Confidence,
			Reasoning:  d.Reasoning,
		}
	}
	return out
}

func toHealthReport(r health.Report) HealthReport {
	return HealthReport{
		SampledAt:    r.Snapshot.SampledAt,
		SampleFailed: r.Snapshot.SampleFailed,
		CPU:          toResourceState(r.CPU),
		Memory:       toResourceState(r.Memory),
		Disk:         toResourceState(r.Disk),
		Actions:      r.Actions,
	}
}

func toResourceState(s health.ResourceStatus) ResourceState {
	return ResourceState{
		Percent:   s.Percent,
		Threshold: s.Threshold,
		Degraded:  s.State == health.StateDegraded,
	}
}
