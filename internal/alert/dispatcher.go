// Package alert delivers decision notifications to configured webhook
// endpoints. Delivery is fire-and-forget from the caller's point of view:
// a failed webhook never blocks or fails the decision that triggered it.
package alert

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"time"
)

const maxAttempts = 3

// Dispatcher fans a decision event out to every configured webhook whose
// event filter matches the action taken.
type Dispatcher struct {
	configs []AlertConfig
	client  *http.Client
	backoff time.Duration
}

// NewDispatcher returns nil when no webhooks are configured, so callers can
// skip alerting entirely with a nil check.
func NewDispatcher(configs []AlertConfig) *Dispatcher {
	if len(configs) == 0 {
		return nil
	}
	return &Dispatcher{
		configs: configs,
		client:  &http.Client{Timeout: 5 * time.Second},
		backoff: time.Second,
	}
}

// Dispatch sends the event to every matching webhook. Deliveries run
// concurrently and failures are logged, not returned.
func (d *Dispatcher) Dispatch(event Event) {
	if d == nil {
		return
	}
	for _, cfg := range d.configs {
		if !matches(cfg.Events, event.Action) {
			continue
		}
		go func(cfg AlertConfig) {
			if err := d.Deliver(cfg, event); err != nil {
				fmt.Fprintf(os.Stderr, "alert: %s: %v\n", cfg.URL, err)
			}
		}(cfg)
	}
}

// Deliver posts the formatted event to a single webhook. Server errors are
// retried with linear backoff; a 4xx response means the payload or endpoint
// is wrong and retrying cannot help.
func (d *Dispatcher) Deliver(cfg AlertConfig, event Event) error {
	body, err := FormatPayload(cfg.Format, event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(time.Duration(attempt-1) * d.backoff)
		}

		req, err := http.NewRequest(http.MethodPost, cfg.URL, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range cfg.Headers {
			req.Header.Set(k, v)
		}

		resp, err := d.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return nil
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return fmt.Errorf("webhook rejected: HTTP %d", resp.StatusCode)
		default:
			lastErr = fmt.Errorf("HTTP %d", resp.StatusCode)
		}
	}
	return fmt.Errorf("webhook failed after %d attempts: %w", maxAttempts, lastErr)
}

// matches reports whether the webhook's event filter includes the action.
// An empty filter matches everything.
func matches(events []string, action string) bool {
	if len(events) == 0 {
		return true
	}
	for _, e := range events {
		if e == action {
			return true
		}
	}
	return false
}
