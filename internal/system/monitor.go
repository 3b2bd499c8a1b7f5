// Package system samples host metrics for the system monitor app and the
// dock's CPU graph.
package system

import (
	"context"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// historySize is the number of CPU samples kept for the dock graph.
const historySize = 10

// Stats is one sampled view of the host, JSON-ready for the shell.
type Stats struct {
	CPUPercent    float64   `json:"cpuPercent"`
	CPUHistory    []float64 `json:"cpuHistory"`
	MemoryPercent float64   `json:"memoryPercent"`
	MemoryUsed    uint64    `json:"memoryUsed"`
	MemoryTotal   uint64    `json:"memoryTotal"`
	UptimeSeconds uint64    `json:"uptimeSeconds"`
}

// Monitor periodically samples CPU, memory and uptime. Samples accumulate in
// a small ring so the shell can draw a compact usage graph.
type Monitor struct {
	mu       sync.Mutex
	interval time.Duration
	history  []float64
	latest   Stats
}

// NewMonitor returns a monitor sampling at the given interval. Intervals
// under 100ms are raised to 100ms; gopsutil needs a gap between CPU reads.
func NewMonitor(interval time.Duration) *Monitor {
	if interval < 100*time.Millisecond {
		interval = 100 * time.Millisecond
	}
	return &Monitor{interval: interval}
}

// Run samples until the context is cancelled, invoking onSample after each
// round. onSample may be nil.
func (m *Monitor) Run(ctx context.Context, onSample func(Stats)) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := m.sample(ctx)
			if onSample != nil {
				onSample(stats)
			}
		}
	}
}

func (m *Monitor) sample(ctx context.Context) Stats {
	var stats Stats

	if pcts, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pcts) > 0 {
		stats.CPUPercent = pcts[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		stats.MemoryPercent = vm.UsedPercent
		stats.MemoryUsed = vm.Used
		stats.MemoryTotal = vm.Total
	}
	if up, err := host.UptimeWithContext(ctx); err == nil {
		stats.UptimeSeconds = up
	}

	m.mu.Lock()
	if len(m.history) >= historySize {
		m.history = m.history[1:]
	}
	m.history = append(m.history, stats.CPUPercent)
	stats.CPUHistory = append([]float64(nil), m.history...)
	m.latest = stats
	m.mu.Unlock()

	return stats
}

// Latest returns the most recent sample. Zero value before the first tick.
func (m *Monitor) Latest() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.latest
	out.CPUHistory = append([]float64(nil), m.history...)
	return out
}
