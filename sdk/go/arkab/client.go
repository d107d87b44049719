package arkab

import (
	"context"
	"fmt"

	"github.com/arkab-io/arkab/internal/config"
	"github.com/arkab-io/arkab/internal/core"
	"github.com/arkab-io/arkab/internal/ingest"
)

// Client holds an in-process decision core.
// Safe for concurrent submissions.
type Client struct {
	sys *core.System
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	var ccfg clientConfig
	for _, o := range opts {
		o(&ccfg)
	}

	cfg, hash, err := config.LoadWithHash(ccfg.configPath)
	if err != nil {
		return nil, fmt.Errorf("arkab: %w", err)
	}
	if ccfg.auditLog != "" {
		cfg.AuditLog = ccfg.auditLog
	}
	if ccfg.archivePath != "" {
		cfg.Archive = ccfg.archivePath
	}

	sys, err := core.New(cfg, hash, nil)
	if err != nil {
		return nil, fmt.Errorf("arkab: %w", err)
	}
	return &Client{sys: sys}, nil
}

// Submit validates a batch and classifies every item. Returns decisions
// index-aligned with the input, or a *RejectedError if any item fails
// validation — a rejected batch processes nothing.
func (c *Client) Submit(ctx context.Context, evs []Evidence) ([]Decision, error) {
	validated, err := ingest.ValidateBatch(toPayload(evs))
	if err != nil {
		return nil, &RejectedError{Reason: err.Error()}
	}
	return toDecisions(c.sys.SubmitBatch(ctx, validated)), nil
}

// Health samples host health once and returns the report.
func (c *Client) Health(ctx context.Context) HealthReport {
	return toHealthReport(c.sys.HealthReport(ctx))
}

// MemoryStats reports the decision memory shape.
func (c *Client) MemoryStats() MemoryStats {
	stats := c.sys.MemoryStats()
	return MemoryStats{Count: stats.Count, MaxSize: stats.MaxSize}
}

// Run drives the periodic decay and health loops. Optional; blocks until
// ctx is cancelled. Without it, memory weights are still recomputed lazily
// on reads.
func (c *Client) Run(ctx context.Context) error {
	return c.sys.Run(ctx)
}

// Close drains in-flight submissions and releases resources.
func (c *Client) Close() error {
	return c.sys.Close()
}
