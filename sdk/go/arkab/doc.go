// Package arkab provides in-process access to the arkab decision core for
// Go telemetry pipelines. It runs the full engine — classification, decay
// memory, health monitoring, audit — inside the caller's process, with no
// server round-trip.
//
// Usage:
//
//	ak, err := arkab.New(arkab.WithConfigFile("arkab.yaml"))
//	decisions, err := ak.Submit(ctx, []arkab.Evidence{{
//	    Source:      "ids",
//	    Timestamp:   time.Now().UTC(),
//	    EntityID:    "host-17",
//	    ThreatLevel: arkab.Critical,
//	    Confidence:  0.93,
//	}})
//
// The SDK links directly against internal packages for zero-subprocess
// overhead. External users import github.com/arkab-io/arkab/sdk/go/arkab.
package arkab
