package audit

// AuditEvidence is the flattened evidence recorded in each audit entry.
// The opaque metrics map is carried as-is; the core never interprets it.
type AuditEvidence struct {
	Source      string         `json:"source"`
	EntityID    string         `json:"entity_id"`
	ThreatLevel string         `json:"threat_level"`
	Confidence  float64        `json:"confidence"`
	Metrics     map[string]any `json:"metrics,omitempty"`
}

// AuditEntry is one line in the hash-chained JSONL audit log: one evidence
// and the decision it produced. Field order is fixed by the struct so
// json.Marshal output is deterministic for reproducible hashing.
type AuditEntry struct {
	Timestamp  string        `json:"ts"`
	BatchID    string        `json:"batch_id"`
	Evidence   AuditEvidence `json:"evidence"`
	DecisionID string        `json:"decision_id"`
	Action     string        `json:"action"`
	Confidence float64       `json:"confidence"`
	Reasoning  string        `json:"reasoning"`
	ConfigHash string        `json:"config_hash"`
	PrevHash   string        `json:"prev_hash"`
}
