package model

import (
	"fmt"
	"strings"
	"time"
)

// ThreatLevel classifies how hostile an observed signal is.
type ThreatLevel string

const (
	ThreatBenign     ThreatLevel = "benign"
	ThreatSuspicious ThreatLevel = "suspicious"
	ThreatCritical   ThreatLevel = "critical"
)

// ThreatRank maps threat levels to a comparable integer for escalation checks.
var ThreatRank = map[ThreatLevel]int{
	ThreatBenign:     0,
	ThreatSuspicious: 1,
	ThreatCritical:   2,
}

// ParseThreatLevel converts a wire string into a ThreatLevel. Sources send
// the uppercase wire form (BENIGN, SUSPICIOUS, CRITICAL); parsing is
// case-insensitive. Unknown values are an error, never a silent default.
func ParseThreatLevel(s string) (ThreatLevel, error) {
	switch t := ThreatLevel(strings.ToLower(s)); t {
	case ThreatBenign, ThreatSuspicious, ThreatCritical:
		return t, nil
	}
	return "", fmt.Errorf("unknown threat level %q", s)
}

// Valid reports whether the threat level is a member of the closed set.
func (t ThreatLevel) Valid() bool {
	_, ok := ThreatRank[t]
	return ok
}

// Action is the automated response chosen for a piece of evidence.
type Action string

const (
	ActionMonitor Action = "monitor"
	ActionAlert   Action = "alert"
	ActionBlock   Action = "block"
	ActionIsolate Action = "isolate"
)

// ParseAction converts a wire string into an Action.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionMonitor, ActionAlert, ActionBlock, ActionIsolate:
		return Action(s), nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Evidence is one observed security-relevant signal about a monitored entity.
// Immutable once constructed; the evidence timestamp is the observation time
// and carries no cross-entity ordering guarantee.
type Evidence struct {
	Source      string         `json:"source"`
	Timestamp   time.Time      `json:"timestamp"`
	EntityID    string         `json:"entity_id"`
	ThreatLevel ThreatLevel    `json:"threat_level"`
	Confidence  float64        `json:"confidence"`
	Metrics     map[string]any `json:"metrics,omitempty"`
}

// Clone returns a deep copy. Metrics maps and nested slices are copied so
// a stored snapshot is unaffected by later mutation of the original.
func (e Evidence) Clone() Evidence {
	c := e
	c.Metrics = cloneMetrics(e.Metrics)
	return c
}

func cloneMetrics(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMetrics(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Decision is the engine's chosen response to one piece of evidence.
// Created exclusively by the decision engine; immutable once constructed.
type Decision struct {
	DecisionID    string    `json:"decision_id"`
	Timestamp     time.Time `json:"timestamp"`
	EntityID      string    `json:"entity_id"`
	Action        Action    `json:"action"`
	Confidence    float64   `json:"confidence"`
	Reasoning     string    `json:"reasoning"`
	EvidenceCount int       `json:"evidence_count"`
}
