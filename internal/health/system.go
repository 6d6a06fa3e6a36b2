package health

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"

	"pricewatch_api/pkg/logger"
)

type DiskUsage struct {
	Total uint64
	Used  uint64
	Free  uint64
}

type SystemStats interface {
	DiskUsage(ctx context.Context, path string) (DiskUsage, error)
	CPUPercent(ctx context.Context) (float64, error)
	MemoryPercent(ctx context.Context) (float64, error)
}

// HostStats reads the host through gopsutil.
type HostStats struct{}

func (HostStats) DiskUsage(ctx context.Context, path string) (DiskUsage, error) {
	u, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return DiskUsage{}, fmt.Errorf("disk usage %s: %w", path, err)
	}
	return DiskUsage{Total: u.Total, Used: u.Used, Free: u.Free}, nil
}

// CPUPercent is utilisation since the previous call, like a non-blocking sampler.
func (HostStats) CPUPercent(ctx context.Context) (float64, error) {
	p, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, fmt.Errorf("cpu percent: %w", err)
	}
	if len(p) == 0 {
		return 0, nil
	}
	return p[0], nil
}

func (HostStats) MemoryPercent(ctx context.Context) (float64, error) {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("virtual memory: %w", err)
	}
	return v.UsedPercent, nil
}

type Metric struct {
	Name  string
	Value string
}

// MetricsReporter takes stateless point-in-time snapshots of process gauges.
type MetricsReporter struct {
	stats    SystemStats
	diskPath string
	started  time.Time
	now      func() time.Time
	log      logger.Logger
}

func NewMetricsReporter(stats SystemStats, diskPath string, started time.Time, log logger.Logger) *MetricsReporter {
	return &MetricsReporter{
		stats:    stats,
		diskPath: diskPath,
		started:  started,
		now:      time.Now,
		log:      log.WithPrefix("[Metrics]"),
	}
}

// GetMetrics skips gauges whose source fails rather than failing the whole snapshot.
func (m *MetricsReporter) GetMetrics(ctx context.Context) []Metric {
	metrics := []Metric{
		{Name: "uptime_seconds", Value: formatFloat(m.now().Sub(m.started).Seconds())},
	}

	if usage, err := m.stats.DiskUsage(ctx, m.diskPath); err != nil {
		m.log.Warn("disk_metrics_failed", "error", err)
	} else {
		metrics = append(metrics,
			Metric{Name: "disk_total", Value: strconv.FormatUint(usage.Total, 10)},
			Metric{Name: "disk_used", Value: strconv.FormatUint(usage.Used, 10)},
			Metric{Name: "disk_free", Value: strconv.FormatUint(usage.Free, 10)},
		)
	}

	if p, err := m.stats.CPUPercent(ctx); err != nil {
		m.log.Warn("cpu_metrics_failed", "error", err)
	} else {
		metrics = append(metrics, Metric{Name: "cpu_percent", Value: formatFloat(p)})
	}

	if p, err := m.stats.MemoryPercent(ctx); err != nil {
		m.log.Warn("memory_metrics_failed", "error", err)
	} else {
		metrics = append(metrics, Metric{Name: "ram_percent", Value: formatFloat(p)})
	}
	return metrics
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
