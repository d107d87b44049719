package alert

import (
	"encoding/json"
	"fmt"
)

// FormatPayload builds the webhook body for the given format.
func FormatPayload(format string, event Event) ([]byte, error) {
	switch format {
	case "slack":
		return formatSlack(event)
	case "pagerduty":
		return formatPagerDuty(event)
	default:
		return formatGeneric(event)
	}
}

func formatGeneric(event Event) ([]byte, error) {
	return json.Marshal(event)
}

func formatSlack(event Event) ([]byte, error) {
	payload := map[string]any{
		"blocks": []any{
			map[string]any{
				"type": "header",
				"text": map[string]any{
					"type": "plain_text",
					"text": fmt.Sprintf("arkab: %s", event.Action),
				},
			},
			map[string]any{
				"type": "section",
				"fields": []any{
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Entity:* %s", event.EntityID)},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Source:* %s", event.Source)},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Threat:* %s (%.2f)", event.ThreatLevel, event.Confidence)},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Reason:* %s", event.Reasoning)},
				},
			},
		},
	}
	return json.Marshal(payload)
}

func formatPagerDuty(event Event) ([]byte, error) {
	payload := map[string]any{
		"event_action": "trigger",
		"payload": map[string]any{
			"summary":  fmt.Sprintf("arkab %s: %s", event.Action, event.EntityID),
			"severity": severityFor(event.Action),
			"source":   "arkab",
			"custom_details": map[string]any{
				"decision_id":  event.DecisionID,
				"entity_id":    event.EntityID,
				"threat_level": event.ThreatLevel,
				"confidence":   event.Confidence,
				"reasoning":    event.Reasoning,
				"batch_id":     event.BatchID,
			},
		},
	}
	return json.Marshal(payload)
}

func severityFor(action string) string {
	switch action {
	case "isolate":
		return "critical"
	case "block":
		return "error"
	case "alert":
		return "warning"
	default:
		return "info"
	}
}
