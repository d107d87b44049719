//go:build !linux

package health

import (
	"context"
	"fmt"
	"runtime"
)

// HostSampler has no implementation off Linux. Sample fails, which the
// monitor absorbs as a tagged best-effort snapshot.
type HostSampler struct{}

// NewHostSampler creates the stub sampler.
func NewHostSampler() *HostSampler {
	return &HostSampler{}
}

// Sample always fails on this platform.
func (h *HostSampler) Sample(ctx context.Context) (Snapshot, error) {
	return Snapshot{}, fmt.Errorf("host sampling not supported on %s", runtime.GOOS)
}
