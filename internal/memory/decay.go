package memory

import (
	"math"
	"time"
)

// weightAt computes exponential time-decay for an entry of the given age:
// exp(-ln2 · age / halfLife), clamped at the floor. A function of age only,
// so recomputing it never depends on how often decay runs.
func weightAt(age, halfLife time.Duration, floor float64) float64 {
	if age <= 0 {
		return 1.0
	}
	w := math.Exp(-math.Ln2 * age.Hours() / halfLife.Hours())
	return math.Max(floor, w)
}

// Stats summarizes the store for external reporting.
type Stats struct {
	Count   int             `json:"count"`
	MaxSize int             `json:"max_size"`
	Weights WeightHistogram `json:"weights"`
}

// WeightHistogram buckets live entry weights into quartiles of (0, 1].
type WeightHistogram struct {
	UpToQuarter int `json:"up_to_0_25"`
	UpToHalf    int `json:"up_to_0_50"`
	UpToThree   int `json:"up_to_0_75"`
	UpToFull    int `json:"up_to_1_00"`
}

// Stats reports count, capacity, and the weight distribution. Weights are
// recomputed from entry age at read time so the report never depends on
// decay-loop cadence. Read-only: stored weights are not mutated.
func (s *Store) Stats(now time.Time) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Count:   len(s.entries),
		MaxSize: s.cfg.MaxSize,
	}
	for _, e := range s.entries {
		w := weightAt(now.Sub(e.RecordedAt), s.cfg.HalfLife, s.cfg.WeightFloor)
		switch {
		case w <= 0.25:
			st.Weights.UpToQuarter++
		case w <= 0.50:
			st.Weights.UpToHalf++
		case w <= 0.75:
			st.Weights.UpToThree++
		default:
			st.Weights.UpToFull++
		}
	}
	return st
}
