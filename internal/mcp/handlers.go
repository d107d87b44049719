package mcp

import (
	"context"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/arkab-io/arkab/internal/health"
	"github.com/arkab-io/arkab/internal/ingest"
	"github.com/arkab-io/arkab/internal/model"
)

// --- Input/Output types ---

// EvidenceItem is one evidence observation in a submit call.
type EvidenceItem struct {
	Source      string         `json:"source" jsonschema:"telemetry source that produced the evidence"`
	Timestamp   time.Time      `json:"timestamp" jsonschema:"when the evidence was observed (RFC 3339)"`
	EntityID    string         `json:"entity_id" jsonschema:"entity the evidence concerns (host, user, process)"`
	ThreatLevel string         `json:"threat_level" jsonschema:"BENIGN, SUSPICIOUS, or CRITICAL"`
	Confidence  float64        `json:"confidence" jsonschema:"source confidence in [0.0, 1.0]"`
	Metrics     map[string]any `json:"metrics,omitempty" jsonschema:"free-form supporting measurements"`
}

// SubmitInput defines parameters for the arkab_submit tool.
type SubmitInput struct {
	Evidences []EvidenceItem `json:"evidences" jsonschema:"evidence batch to classify"`
}

// DecisionItem is one decision in a submit result.
type DecisionItem struct {
	DecisionID string  `json:"decision_id"`
	Timestamp  string  `json:"timestamp"`
	EntityID   string  `json:"entity_id"`
	Action     string  `json:"action"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// SubmitOutput contains the decisions, or rejection details.
type SubmitOutput struct {
	Decisions []DecisionItem `json:"decisions,omitempty"`
	Processed int            `json:"processed"`
	Rejected  bool           `json:"rejected,omitempty"`
	Reason    string         `json:"reason,omitempty"`
}

// HealthInput is empty — no parameters needed.
type HealthInput struct{}

// HealthOutput is the full health report.
type HealthOutput struct {
	Report health.Report `json:"report"`
}

// MemoryInput is empty — no parameters needed.
type MemoryInput struct{}

// MemoryOutput summarizes the decision memory.
type MemoryOutput struct {
	Count   int            `json:"count"`
	MaxSize int            `json:"max_size"`
	Weights map[string]int `json:"weights"`
}

// --- Handlers ---

func (s *Server) handleSubmit(ctx context.Context, req *mcpsdk.CallToolRequest, input SubmitInput) (*mcpsdk.CallToolResult, SubmitOutput, error) {
	if len(input.Evidences) == 0 {
		out := SubmitOutput{Rejected: true, Reason: "batch contains no evidences"}
		return &mcpsdk.CallToolResult{IsError: true}, out, nil
	}

	evs, err := toEvidences(input.Evidences)
	if err != nil {
		out := SubmitOutput{Rejected: true, Reason: err.Error()}
		return &mcpsdk.CallToolResult{IsError: true}, out, nil
	}

	decisions := s.sys.SubmitBatch(ctx, evs)

	items := make([]DecisionItem, len(decisions))
	for i, d := range decisions {
		items[i] = DecisionItem{
			DecisionID: d.DecisionID,
			Timestamp:  d.Timestamp.Format(time.RFC3339Nano),
			EntityID:   d.EntityID,
			Action:     string(d.Action),
			Confidence: d.Confidence,
			Reasoning:  d.Reasoning,
		}
	}
	return nil, SubmitOutput{Decisions: items, Processed: len(items)}, nil
}

func (s *Server) handleHealth(ctx context.Context, req *mcpsdk.CallToolRequest, input HealthInput) (*mcpsdk.CallToolResult, HealthOutput, error) {
	return nil, HealthOutput{Report: s.sys.HealthReport(ctx)}, nil
}

func (s *Server) handleMemory(ctx context.Context, req *mcpsdk.CallToolRequest, input MemoryInput) (*mcpsdk.CallToolResult, MemoryOutput, error) {
	stats := s.sys.MemoryStats()
	return nil, MemoryOutput{
		Count:   stats.Count,
		MaxSize: stats.MaxSize,
		Weights: map[string]int{
			"up_to_0_25": stats.Weights.UpToQuarter,
			"up_to_0_50": stats.Weights.UpToHalf,
			"up_to_0_75": stats.Weights.UpToThree,
			"up_to_1_00": stats.Weights.UpToFull,
		},
	}, nil
}

// toEvidences runs every item through the same validation boundary the
// HTTP surface uses.
func toEvidences(items []EvidenceItem) ([]model.Evidence, error) {
	payload := ingest.BatchPayload{Evidences: make([]ingest.EvidencePayload, len(items))}
	for i, it := range items {
		payload.Evidences[i] = ingest.EvidencePayload{
			Source:      it.Source,
			Timestamp:   it.Timestamp,
			EntityID:    it.EntityID,
			ThreatLevel: it.ThreatLevel,
			Confidence:  it.Confidence,
			Metrics:     it.Metrics,
		}
	}
	return ingest.ValidateBatch(payload)
}
