// Package ingest is the validation boundary between transport payloads and
// the decision core. Every evidence item is checked here; the core treats
// anything that passes as well-formed and never revalidates.
package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/arkab-io/arkab/internal/model"
)

// BatchPayload is the wire form of an evidence batch submission.
type BatchPayload struct {
	Evidences []EvidencePayload `json:"evidences"`
}

// EvidencePayload is one raw evidence item before validation.
// ThreatLevel stays a plain string so parsing failures surface as
// validation errors instead of decode errors.
type EvidencePayload struct {
	Source      string         `json:"source"`
	Timestamp   time.Time      `json:"timestamp"`
	EntityID    string         `json:"entity_id"`
	ThreatLevel string         `json:"threat_level"`
	Confidence  float64        `json:"confidence"`
	Metrics     map[string]any `json:"metrics,omitempty"`
}

// ValidationError identifies the first rejected item in a batch.
type ValidationError struct {
	Index int
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("evidence[%d].%s: %s", e.Index, e.Field, e.Msg)
}

// ParseBatch decodes and validates a JSON batch payload. A single malformed
// item rejects the whole batch before anything reaches the engine.
func ParseBatch(data []byte) ([]model.Evidence, error) {
	var payload BatchPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	return ValidateBatch(payload)
}

// ValidateBatch validates an already-decoded payload. Shared by ParseBatch
// and surfaces that receive typed payloads instead of raw JSON.
func ValidateBatch(payload BatchPayload) ([]model.Evidence, error) {
	if len(payload.Evidences) == 0 {
		return nil, fmt.Errorf("batch contains no evidences")
	}

	out := make([]model.Evidence, len(payload.Evidences))
	for i, p := range payload.Evidences {
		ev, err := validateItem(i, p)
		if err != nil {
			return nil, err
		}
		out[i] = ev
	}
	return out, nil
}

func validateItem(i int, p EvidencePayload) (model.Evidence, error) {
	if p.Source == "" {
		return model.Evidence{}, &ValidationError{Index: i, Field: "source", Msg: "must not be empty"}
	}
	if p.EntityID == "" {
		return model.Evidence{}, &ValidationError{Index: i, Field: "entity_id", Msg: "must not be empty"}
	}
	if p.Timestamp.IsZero() {
		return model.Evidence{}, &ValidationError{Index: i, Field: "timestamp", Msg: "must be set"}
	}

	level, err := model.ParseThreatLevel(p.ThreatLevel)
	if err != nil {
		return model.Evidence{}, &ValidationError{Index: i, Field: "threat_level", Msg: err.Error()}
	}

	ev := model.Evidence{
		Source:      p.Source,
		Timestamp:   p.Timestamp,
		EntityID:    p.EntityID,
		ThreatLevel: level,
		Confidence:  p.Confidence,
		Metrics:     p.Metrics,
	}
	if err := Validate(ev); err != nil {
		return model.Evidence{}, &ValidationError{Index: i, Field: "confidence", Msg: err.Error()}
	}
	return ev, nil
}

// Validate checks a typed Evidence against the core's input contract.
// Used by ParseBatch and by the in-process SDK.
func Validate(ev model.Evidence) error {
	if !ev.ThreatLevel.Valid() {
		return fmt.Errorf("unknown threat level %q", ev.ThreatLevel)
	}
	if ev.Confidence < 0.0 || ev.Confidence > 1.0 {
		return fmt.Errorf("confidence %v outside [0.0, 1.0]", ev.Confidence)
	}
	return nil
}
