// Package engine converts validated evidence into response decisions using
// a fixed deterministic rule table. Classification touches no shared state;
// the only side effect is handing each (evidence, decision) pair to the
// memory store.
package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arkab-io/arkab/internal/memory"
	"github.com/arkab-io/arkab/internal/model"
)

// Classify applies the rule table to one piece of well-formed evidence.
//
// Rule table (do not reorder):
//
//	critical,   confidence ≥ 0.8 → isolate, min(confidence+0.1, 1.0)
//	critical,   confidence < 0.8 → block,   confidence
//	suspicious, confidence ≥ 0.6 → alert,   confidence
//	suspicious, confidence < 0.6 → monitor, confidence × 0.8
//	benign,     any              → monitor, confidence × 0.8
//
// Decision IDs are random 128-bit UUIDs: collision-resistant under
// concurrent calls with no shared counter state.
func Classify(ev model.Evidence, now time.Time) model.Decision {
	var (
		action     model.Action
		confidence float64
		reasoning  string
	)

	switch ev.ThreatLevel {
	case model.ThreatCritical:
		if ev.Confidence >= 0.8 {
			action = model.ActionIsolate
			confidence = min(ev.Confidence+0.1, 1.0)
			reasoning = "critical threat, high confidence: isolating entity"
		} else {
			action = model.ActionBlock
			confidence = ev.Confidence
			reasoning = "critical threat, moderate confidence: blocking entity"
		}
	case model.ThreatSuspicious:
		if ev.Confidence >= 0.6 {
			action = model.ActionAlert
			confidence = ev.Confidence
			reasoning = "suspicious activity, elevated confidence: alerting"
		} else {
			action = model.ActionMonitor
			confidence = ev.Confidence * 0.8
			reasoning = "suspicious activity, low confidence: monitoring entity"
		}
	default:
		action = model.ActionMonitor
		confidence = ev.Confidence * 0.8
		reasoning = "benign signal: monitoring entity"
	}

	return model.Decision{
		DecisionID:    uuid.NewString(),
		Timestamp:     now,
		EntityID:      ev.EntityID,
		Action:        action,
		Confidence:    confidence,
		Reasoning:     reasoning,
		EvidenceCount: 1,
	}
}

// Engine binds classification to its memory side effect.
type Engine struct {
	store *memory.Store
}

// New creates an Engine recording into the given store. A nil store is
// allowed for pure classification (dry runs).
func New(store *memory.Store) *Engine {
	return &Engine{store: store}
}

// Process classifies one evidence and records the pair. Total for
// well-formed input.
func (e *Engine) Process(ev model.Evidence) model.Decision {
	dec := Classify(ev, time.Now().UTC())
	if e.store != nil {
		e.store.Remember(ev, dec)
	}
	return dec
}

// ProcessBatch classifies every item concurrently and returns decisions
// index-aligned with the input. Memory writes are serialized by the store.
func (e *Engine) ProcessBatch(evs []model.Evidence) []model.Decision {
	decisions := make([]model.Decision, len(evs))

	var wg sync.WaitGroup
	for i, ev := range evs {
		wg.Add(1)
		go func(i int, ev model.Evidence) {
			defer wg.Done()
			decisions[i] = e.Process(ev)
		}(i, ev)
	}
	wg.Wait()

	return decisions
}
