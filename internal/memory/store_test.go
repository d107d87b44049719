package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/arkab-io/arkab/internal/model"
)

func evidence(entity string) model.Evidence {
	return model.Evidence{
		Source:      "sensor-1",
		Timestamp:   time.Now().UTC(),
		EntityID:    entity,
		ThreatLevel: model.ThreatBenign,
		Confidence:  0.3,
		Metrics:     map[string]any{"activity": 5},
	}
}

func decision(entity string) model.Decision {
	return model.Decision{
		DecisionID:    "d-" + entity,
		Timestamp:     time.Now().UTC(),
		EntityID:      entity,
		Action:        model.ActionMonitor,
		Confidence:    0.24,
		Reasoning:     "benign signal: monitoring entity",
		EvidenceCount: 1,
	}
}

func TestRememberEvictsOldestFirst(t *testing.T) {
	s := NewStore(Config{MaxSize: 3})

	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("host-%d", i)
		s.Remember(evidence(id), decision(id))
	}

	if s.Len() != 3 {
		t.Fatalf("expected len 3, got %d", s.Len())
	}
	entries := s.Entries()
	for i, want := range []string{"host-2", "host-3", "host-4"} {
		if entries[i].Evidence.EntityID != want {
			t.Errorf("entry %d: expected %s, got %s", i, want, entries[i].Evidence.EntityID)
		}
	}
}

func TestRememberConcurrentHoldsCapacity(t *testing.T) {
	s := NewStore(Config{MaxSize: 50})

	var wg sync.WaitGroup
	for i := 0; i < 500; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("host-%d", i)
			s.Remember(evidence(id), decision(id))
		}(i)
	}
	wg.Wait()

	if s.Len() != 50 {
		t.Errorf("expected len 50 after 500 concurrent inserts, got %d", s.Len())
	}
}

func TestRememberSnapshotsEvidence(t *testing.T) {
	s := NewStore(Config{})
	ev := evidence("host-1")
	s.Remember(ev, decision("host-1"))

	ev.Metrics["activity"] = 999

	stored := s.Entries()[0].Evidence
	if stored.Metrics["activity"] != 5 {
		t.Errorf("stored snapshot mutated: %v", stored.Metrics["activity"])
	}
}

func TestDecayIdempotentAtInstant(t *testing.T) {
	s := NewStore(Config{HalfLife: 24 * time.Hour})
	s.Remember(evidence("host-1"), decision("host-1"))

	now := time.Now().UTC().Add(6 * time.Hour)
	s.Decay(now)
	first := s.Entries()[0].Weight
	s.Decay(now)
	second := s.Entries()[0].Weight

	if first != second {
		t.Errorf("decay not idempotent at one instant: %v then %v", first, second)
	}
}

func TestDecayMonotonicWithFloor(t *testing.T) {
	s := NewStore(Config{HalfLife: 24 * time.Hour, WeightFloor: 0.1})
	s.Remember(evidence("host-1"), decision("host-1"))

	prev := s.Entries()[0].Weight
	if prev != 1.0 {
		t.Fatalf("expected initial weight 1.0, got %v", prev)
	}

	base := time.Now().UTC()
	for _, age := range []time.Duration{time.Hour, 24 * time.Hour, 72 * time.Hour, 1000 * time.Hour} {
		s.Decay(base.Add(age))
		w := s.Entries()[0].Weight
		if w > prev {
			t.Errorf("weight increased at age %v: %v > %v", age, w, prev)
		}
		if w < 0.1 {
			t.Errorf("weight below floor at age %v: %v", age, w)
		}
		prev = w
	}

	// After ~41 half-lives the floor must be holding.
	if prev != 0.1 {
		t.Errorf("expected floor 0.1 after 1000h, got %v", prev)
	}
}

func TestDecayHalfLife(t *testing.T) {
	s := NewStore(Config{HalfLife: 24 * time.Hour, WeightFloor: 0.01})
	s.Remember(evidence("host-1"), decision("host-1"))

	s.Decay(time.Now().UTC().Add(24 * time.Hour))
	w := s.Entries()[0].Weight
	if w < 0.499 || w > 0.501 {
		t.Errorf("expected ~0.5 after one half-life, got %v", w)
	}
}

func TestStatsRecomputesWithoutMutation(t *testing.T) {
	s := NewStore(Config{HalfLife: 24 * time.Hour, WeightFloor: 0.01})
	s.Remember(evidence("host-1"), decision("host-1"))

	st := s.Stats(time.Now().UTC().Add(72 * time.Hour))
	if st.Count != 1 || st.MaxSize != 1000 {
		t.Errorf("unexpected stats: %+v", st)
	}
	// 72h = three half-lives → weight ~0.125, first bucket.
	if st.Weights.UpToQuarter != 1 {
		t.Errorf("expected entry in first bucket, got %+v", st.Weights)
	}
	// Reads never mutate stored weight.
	if got := s.Entries()[0].Weight; got != 1.0 {
		t.Errorf("stored weight mutated by Stats: %v", got)
	}
}
