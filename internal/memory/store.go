// Package memory keeps a bounded, time-decaying history of past
// (evidence, decision) pairs. Single-writer discipline: all mutation goes
// through one mutex so FIFO eviction and the capacity invariant hold under
// concurrent Remember calls.
package memory

import (
	"sync"
	"time"

	"github.com/arkab-io/arkab/internal/model"
)

// Entry is one remembered (evidence, decision) pair. Both are snapshots,
// never live references.
type Entry struct {
	Evidence   model.Evidence `json:"evidence"`
	Decision   model.Decision `json:"decision"`
	Weight     float64        `json:"weight"`
	RecordedAt time.Time      `json:"recorded_at"`
}

// Config holds store capacity and decay parameters.
type Config struct {
	MaxSize     int
	HalfLife    time.Duration
	WeightFloor float64
}

// DefaultConfig returns the canonical store parameters.
func DefaultConfig() Config {
	return Config{
		MaxSize:     1000,
		HalfLife:    24 * time.Hour,
		WeightFloor: 0.1,
	}
}

// Store is the append-only bounded log. Insertion beyond capacity evicts
// the single oldest entry, so len never exceeds MaxSize.
type Store struct {
	mu      sync.RWMutex
	cfg     Config
	entries []Entry
}

// NewStore creates a Store, filling zero config fields with defaults.
func NewStore(cfg Config) *Store {
	def := DefaultConfig()
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = def.MaxSize
	}
	if cfg.HalfLife <= 0 {
		cfg.HalfLife = def.HalfLife
	}
	if cfg.WeightFloor <= 0 {
		cfg.WeightFloor = def.WeightFloor
	}
	return &Store{
		cfg:     cfg,
		entries: make([]Entry, 0, cfg.MaxSize),
	}
}

// Remember appends a snapshot pair with weight 1.0. Total: never fails;
// overflow is absorbed by evicting the oldest entry first.
func (s *Store) Remember(ev model.Evidence, dec model.Decision) {
	entry := Entry{
		Evidence:   ev.Clone(),
		Decision:   dec,
		Weight:     1.0,
		RecordedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) >= s.cfg.MaxSize {
		// FIFO eviction: shift left in place to keep the backing array stable.
		copy(s.entries, s.entries[1:])
		s.entries[len(s.entries)-1] = entry
		return
	}
	s.entries = append(s.entries, entry)
}

// Decay recomputes every weight from entry age. The result depends only on
// elapsed real time, so calling it twice at the same instant is a no-op the
// second time, and weights are non-increasing and never drop below the floor.
func (s *Store) Decay(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		s.entries[i].Weight = weightAt(now.Sub(s.entries[i].RecordedAt), s.cfg.HalfLife, s.cfg.WeightFloor)
	}
}

// Len returns the current entry count.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// MaxSize returns the configured capacity.
func (s *Store) MaxSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.MaxSize
}

// SetDecay updates the decay parameters. Non-positive values are ignored.
func (s *Store) SetDecay(halfLife time.Duration, floor float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if halfLife > 0 {
		s.cfg.HalfLife = halfLife
	}
	if floor > 0 {
		s.cfg.WeightFloor = floor
	}
}

// Entries returns a consistent copy of the log, oldest first.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
