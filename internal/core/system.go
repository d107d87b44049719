// Package core wires the decision engine, memory store, and health monitor
// into one explicit system object. Constructed once at process start and
// passed into every surface (HTTP, MCP, CLI, SDK) — no ambient globals.
package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arkab-io/arkab/internal/alert"
	"github.com/arkab-io/arkab/internal/archive"
	"github.com/arkab-io/arkab/internal/audit"
	"github.com/arkab-io/arkab/internal/config"
	"github.com/arkab-io/arkab/internal/engine"
	"github.com/arkab-io/arkab/internal/health"
	"github.com/arkab-io/arkab/internal/memory"
	"github.com/arkab-io/arkab/internal/model"
)

// System owns the reasoning triad and its ambient collaborators.
// The evidence→decision path and the health→heal path share no state.
type System struct {
	store   *memory.Store
	engine  *engine.Engine
	monitor *health.Monitor

	auditLog *audit.Log
	arch     *archive.Archive

	mu            sync.Mutex
	dispatcher    *alert.Dispatcher
	cfgHash       string
	decayInterval time.Duration
	pollInterval  time.Duration

	inflight sync.WaitGroup
}

// New builds a System from configuration. A nil sampler selects the host
// sampler; tests inject a stub.
func New(cfg *config.Config, cfgHash string, sampler health.Sampler) (*System, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if cfgHash == "" {
		cfgHash = "builtin"
	}
	if sampler == nil {
		sampler = health.NewHostSampler()
	}

	store := memory.NewStore(memory.Config{
		MaxSize:     cfg.Memory.MaxSize,
		HalfLife:    cfg.Memory.HalfLife(),
		WeightFloor: cfg.Memory.WeightFloor,
	})

	monitor := health.NewMonitor(sampler, health.Thresholds{
		CPU:    cfg.Health.CPUThreshold,
		Memory: cfg.Health.MemoryThreshold,
		Disk:   cfg.Health.DiskThreshold,
	}, cfg.Health.SampleTimeout)

	s := &System{
		store:         store,
		engine:        engine.New(store),
		monitor:       monitor,
		dispatcher:    alert.NewDispatcher(cfg.Alerts),
		cfgHash:       cfgHash,
		decayInterval: cfg.Memory.DecayInterval,
		pollInterval:  cfg.Health.PollInterval,
	}
	if s.decayInterval <= 0 {
		s.decayInterval = time.Hour
	}
	if s.pollInterval <= 0 {
		s.pollInterval = 30 * time.Second
	}

	if cfg.AuditLog != "" {
		log, err := audit.Open(cfg.AuditLog)
		if err != nil {
			return nil, err
		}
		s.auditLog = log
	}
	if cfg.Archive != "" {
		arch, err := archive.Open(cfg.Archive)
		if err != nil {
			if s.auditLog != nil {
				s.auditLog.Close()
			}
			return nil, err
		}
		s.arch = arch
	}

	return s, nil
}

// SubmitBatch classifies every evidence and returns decisions index-aligned
// with the input. Items are classified concurrently; memory writes are
// serialized inside the store. Total for validated input.
func (s *System) SubmitBatch(ctx context.Context, evs []model.Evidence) []model.Decision {
	s.inflight.Add(1)
	defer s.inflight.Done()

	batchID := uuid.NewString()
	decisions := s.engine.ProcessBatch(evs)

	s.mu.Lock()
	dispatcher := s.dispatcher
	cfgHash := s.cfgHash
	s.mu.Unlock()

	for i, dec := range decisions {
		// Audit and archive failures never affect the returned decision.
		if s.auditLog != nil {
			_ = s.auditLog.Record(audit.AuditEntry{
				BatchID: batchID,
				Evidence: audit.AuditEvidence{
					Source:      evs[i].Source,
					EntityID:    evs[i].EntityID,
					ThreatLevel: string(evs[i].ThreatLevel),
					Confidence:  evs[i].Confidence,
					Metrics:     evs[i].Metrics,
				},
				DecisionID: dec.DecisionID,
				Action:     string(dec.Action),
				Confidence: dec.Confidence,
				Reasoning:  dec.Reasoning,
				ConfigHash: cfgHash,
			})
		}
		if s.arch != nil {
			_ = s.arch.Record(dec)
		}
		if dispatcher != nil {
			dispatcher.Dispatch(alert.Event{
				Timestamp:   dec.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z"),
				BatchID:     batchID,
				DecisionID:  dec.DecisionID,
				EntityID:    dec.EntityID,
				Source:      evs[i].Source,
				ThreatLevel: string(evs[i].ThreatLevel),
				Action:      string(dec.Action),
				Confidence:  dec.Confidence,
				Reasoning:   dec.Reasoning,
				ConfigHash:  cfgHash,
			})
		}
	}

	return decisions
}

// HealthReport samples once and returns the full health answer.
// Independent of the decision path; never fails.
func (s *System) HealthReport(ctx context.Context) health.Report {
	return s.monitor.Report(ctx)
}

// MemoryStats reports the current memory store shape.
func (s *System) MemoryStats() memory.Stats {
	return s.store.Stats(time.Now().UTC())
}

// Archive exposes the decision archive, or nil if not configured.
func (s *System) Archive() *archive.Archive {
	return s.arch
}

// ApplyConfig swaps the tunable parameters (hot-reload path). Capacity is
// fixed at construction; thresholds, decay parameters, and alert routing
// take effect immediately.
func (s *System) ApplyConfig(cfg *config.Config, cfgHash string) {
	s.monitor.SetThresholds(health.Thresholds{
		CPU:    cfg.Health.CPUThreshold,
		Memory: cfg.Health.MemoryThreshold,
		Disk:   cfg.Health.DiskThreshold,
	})
	s.store.SetDecay(cfg.Memory.HalfLife(), cfg.Memory.WeightFloor)

	s.mu.Lock()
	s.dispatcher = alert.NewDispatcher(cfg.Alerts)
	s.cfgHash = cfgHash
	s.mu.Unlock()
}

// Run drives the periodic loops: memory decay on its interval and a health
// sample that keeps the last-known-good snapshot warm. Blocks until ctx is
// cancelled.
func (s *System) Run(ctx context.Context) error {
	decay := time.NewTicker(s.decayInterval)
	defer decay.Stop()
	poll := time.NewTicker(s.pollInterval)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-decay.C:
			s.store.Decay(time.Now().UTC())
		case <-poll.C:
			s.monitor.MonitorHealth(ctx)
		}
	}
}

// Close drains in-flight batches and releases the audit log and archive.
func (s *System) Close() error {
	s.inflight.Wait()

	var firstErr error
	if s.auditLog != nil {
		if err := s.auditLog.Close(); err != nil {
			firstErr = err
		}
	}
	if s.arch != nil {
		if err := s.arch.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
