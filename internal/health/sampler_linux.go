//go:build linux

package health

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"
)

// HostSampler reads utilization from /proc and the root filesystem.
// CPU usage is derived from the delta between consecutive /proc/stat
// readings, so the first sample reports 0.
type HostSampler struct {
	procRoot string
	diskPath string

	mu        sync.Mutex
	prevIdle  uint64
	prevTotal uint64
}

// NewHostSampler creates a sampler over /proc and the filesystem at "/".
func NewHostSampler() *HostSampler {
	return &HostSampler{procRoot: "/proc", diskPath: "/"}
}

// Sample reads one utilization snapshot.
func (h *HostSampler) Sample(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	cpu, err := h.cpuPercent()
	if err != nil {
		return Snapshot{}, fmt.Errorf("sample cpu: %w", err)
	}
	mem, err := h.memoryPercent()
	if err != nil {
		return Snapshot{}, fmt.Errorf("sample memory: %w", err)
	}
	disk, err := h.diskPercent()
	if err != nil {
		return Snapshot{}, fmt.Errorf("sample disk: %w", err)
	}

	return Snapshot{
		CPUPercent:    cpu,
		MemoryPercent: mem,
		DiskPercent:   disk,
		SampledAt:     time.Now().UTC(),
	}, nil
}

// cpuPercent computes busy time over the interval since the previous call
// from the aggregate "cpu" line of /proc/stat.
func (h *HostSampler) cpuPercent() (float64, error) {
	data, err := os.ReadFile(h.procRoot + "/stat")
	if err != nil {
		return 0, err
	}

	line, _, _ := strings.Cut(string(data), "\n")
	fields := strings.Fields(line)
	if len(fields) < 5 || fields[0] != "cpu" {
		return 0, fmt.Errorf("malformed /proc/stat line %q", line)
	}

	var total, idle uint64
	for i, f := range fields[1:] {
		v, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse /proc/stat field %q: %w", f, err)
		}
		total += v
		// idle + iowait
		if i == 3 || i == 4 {
			idle += v
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	dTotal := total - h.prevTotal
	dIdle := idle - h.prevIdle
	first := h.prevTotal == 0
	h.prevTotal = total
	h.prevIdle = idle

	if first || dTotal == 0 {
		return 0, nil
	}
	return 100 * (1 - float64(dIdle)/float64(dTotal)), nil
}

// memoryPercent derives usage from MemTotal and MemAvailable.
func (h *HostSampler) memoryPercent() (float64, error) {
	data, err := os.ReadFile(h.procRoot + "/meminfo")
	if err != nil {
		return 0, err
	}

	var total, available uint64
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			total, _ = strconv.ParseUint(fields[1], 10, 64)
		case "MemAvailable:":
			available, _ = strconv.ParseUint(fields[1], 10, 64)
		}
	}
	if total == 0 {
		return 0, fmt.Errorf("MemTotal missing from /proc/meminfo")
	}
	return 100 * (1 - float64(available)/float64(total)), nil
}

// diskPercent reports used space on the filesystem containing diskPath.
func (h *HostSampler) diskPercent() (float64, error) {
	var st syscall.Statfs_t
	if err := syscall.Statfs(h.diskPath, &st); err != nil {
		return 0, err
	}
	if st.Blocks == 0 {
		return 0, nil
	}
	return 100 * (1 - float64(st.Bavail)/float64(st.Blocks)), nil
}
