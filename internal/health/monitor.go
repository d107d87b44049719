// Package health samples host resource utilization, diagnoses degraded
// resources against fixed thresholds, and recommends advisory remediation.
// It shares no state with the decision path and must never be the cause of
// a fatal failure: sampling errors degrade to a tagged best-effort snapshot.
package health

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Snapshot is one reading of host resource utilization, in percent.
// SampleFailed marks a best-effort snapshot produced after a sampling
// failure; its values are either zeroed or the last known good reading.
type Snapshot struct {
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryPercent float64   `json:"memory_percent"`
	DiskPercent   float64   `json:"disk_percent"`
	SampledAt     time.Time `json:"sampled_at"`
	SampleFailed  bool      `json:"sample_failed,omitempty"`
}

// Sampler supplies current host utilization. The monitor consumes it as a
// leaf; implementations must respect ctx cancellation.
type Sampler interface {
	Sample(ctx context.Context) (Snapshot, error)
}

// Problem tags a resource currently in the degraded state.
type Problem string

const (
	ProblemCPU    Problem = "cpu"
	ProblemMemory Problem = "memory"
	ProblemDisk   Problem = "disk"
)

// State classifies a single resource against its threshold.
type State string

const (
	StateHealthy  State = "healthy"
	StateDegraded State = "degraded"
)

// Thresholds are per-resource degradation boundaries in percent. A sample
// at or above its threshold flips the resource to degraded; the next sample
// below flips it back. No hysteresis.
type Thresholds struct {
	CPU    float64 `json:"cpu"`
	Memory float64 `json:"memory"`
	Disk   float64 `json:"disk"`
}

// DefaultThresholds returns the canonical 90% boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{CPU: 90, Memory: 90, Disk: 90}
}

const defaultSampleTimeout = 2 * time.Second

// Monitor evaluates samples against thresholds. Keeps the last good
// snapshot so a stalled sampler degrades to stale-but-plausible data
// instead of blocking the caller.
type Monitor struct {
	sampler Sampler
	timeout time.Duration

	mu         sync.Mutex
	thresholds Thresholds
	lastGood   Snapshot
	hasGood    bool
}

// NewMonitor creates a Monitor. Zero thresholds and timeout fall back to
// defaults.
func NewMonitor(sampler Sampler, thresholds Thresholds, timeout time.Duration) *Monitor {
	def := DefaultThresholds()
	if thresholds.CPU <= 0 {
		thresholds.CPU = def.CPU
	}
	if thresholds.Memory <= 0 {
		thresholds.Memory = def.Memory
	}
	if thresholds.Disk <= 0 {
		thresholds.Disk = def.Disk
	}
	if timeout <= 0 {
		timeout = defaultSampleTimeout
	}
	return &Monitor{
		sampler:    sampler,
		thresholds: thresholds,
		timeout:    timeout,
	}
}

// SetThresholds swaps the degradation boundaries (hot-reload path).
func (m *Monitor) SetThresholds(t Thresholds) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.CPU > 0 {
		m.thresholds.CPU = t.CPU
	}
	if t.Memory > 0 {
		m.thresholds.Memory = t.Memory
	}
	if t.Disk > 0 {
		m.thresholds.Disk = t.Disk
	}
}

// MonitorHealth takes one sample. Never returns an error: a failed sample
// yields a zeroed snapshot tagged SampleFailed, a stalled sample yields the
// last known good values (also tagged) after the short timeout.
func (m *Monitor) MonitorHealth(ctx context.Context) Snapshot {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	type result struct {
		snap Snapshot
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		snap, err := m.sampler.Sample(ctx)
		ch <- result{snap, err}
	}()

	select {
	case r := <-ch:
		if errors.Is(r.err, context.DeadlineExceeded) {
			return m.staleFallback()
		}
		if r.err != nil {
			return Snapshot{SampledAt: time.Now().UTC(), SampleFailed: true}
		}
		m.mu.Lock()
		m.lastGood = r.snap
		m.hasGood = true
		m.mu.Unlock()
		return r.snap

	case <-ctx.Done():
		return m.staleFallback()
	}
}

// staleFallback returns the last good snapshot tagged as failed, or a
// zeroed one when no good sample exists yet.
func (m *Monitor) staleFallback() Snapshot {
	m.mu.Lock()
	last, ok := m.lastGood, m.hasGood
	m.mu.Unlock()
	if ok {
		last.SampleFailed = true
		return last
	}
	return Snapshot{SampledAt: time.Now().UTC(), SampleFailed: true}
}

// Diagnose returns the resource tags currently degraded in the snapshot.
// Pure: no monitor state is read or written beyond the thresholds. Tag
// order is insignificant.
func (m *Monitor) Diagnose(snap Snapshot) []Problem {
	m.mu.Lock()
	t := m.thresholds
	m.mu.Unlock()

	var problems []Problem
	if snap.CPUPercent >= t.CPU {
		problems = append(problems, ProblemCPU)
	}
	if snap.MemoryPercent >= t.Memory {
		problems = append(problems, ProblemMemory)
	}
	if snap.DiskPercent >= t.Disk {
		problems = append(problems, ProblemDisk)
	}
	return problems
}

// ResourceStatus pairs a reading with its threshold classification.
type ResourceStatus struct {
	Percent   float64 `json:"percent"`
	Threshold float64 `json:"threshold"`
	State     State   `json:"state"`
}

// Report is the full health answer: the snapshot, per-resource
// classification, and advisory remediation for anything degraded.
type Report struct {
	Snapshot Snapshot       `json:"snapshot"`
	CPU      ResourceStatus `json:"cpu"`
	Memory   ResourceStatus `json:"memory"`
	Disk     ResourceStatus `json:"disk"`
	Problems []Problem      `json:"problems"`
	Actions  []string       `json:"actions"`
}

// Report samples once and assembles the full health answer.
func (m *Monitor) Report(ctx context.Context) Report {
	snap := m.MonitorHealth(ctx)

	m.mu.Lock()
	t := m.thresholds
	m.mu.Unlock()

	problems := m.Diagnose(snap)
	return Report{
		Snapshot: snap,
		CPU:      status(snap.CPUPercent, t.CPU),
		Memory:   status(snap.MemoryPercent, t.Memory),
		Disk:     status(snap.DiskPercent, t.Disk),
		Problems: problems,
		Actions:  Recommend(problems),
	}
}

func status(percent, threshold float64) ResourceStatus {
	st := StateHealthy
	if percent >= threshold {
		st = StateDegraded
	}
	return ResourceStatus{Percent: percent, Threshold: threshold, State: st}
}
