package alert

// AlertConfig defines a webhook alert destination.
type AlertConfig struct {
	URL     string            `yaml:"url"     json:"url"`
	Format  string            `yaml:"format"  json:"format"` // "generic", "slack", "pagerduty"
	Events  []string          `yaml:"events"  json:"events"` // actions to notify on, e.g. ["isolate", "block"]
	Headers map[string]string `yaml:"headers" json:"headers"`
}

// Event is the payload sent to webhook endpoints when a decision matches.
type Event struct {
	Timestamp   string  `json:"timestamp"`
	BatchID     string  `json:"batch_id"`
	DecisionID  string  `json:"decision_id"`
	EntityID    string  `json:"entity_id"`
	Source      string  `json:"source"`
	ThreatLevel string  `json:"threat_level"`
	Action      string  `json:"action"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
	ConfigHash  string  `json:"config_hash"`
}
