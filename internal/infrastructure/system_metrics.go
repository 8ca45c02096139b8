package infrastructure

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// SystemMetrics records Go runtime gauges for long-running processes.
type SystemMetrics struct {
	goRoutines    metric.Int64Gauge
	heapAlloc     metric.Int64Gauge
	memorySystem  metric.Int64Gauge
	gcCount       metric.Int64Gauge
	lastGCPause   metric.Float64Gauge
	processUptime metric.Float64Gauge
}

// NewSystemMetrics creates the runtime instruments on meter.
func NewSystemMetrics(meter metric.Meter) (*SystemMetrics, error) {
	goRoutines, err := meter.Int64Gauge(
		"system_goroutines",
		metric.WithDescription("Number of active goroutines"),
	)
	if err != nil {
		return nil, err
	}

	heapAlloc, err := meter.Int64Gauge(
		"system_memory_heap_bytes",
		metric.WithDescription("Bytes of allocated heap objects"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	memorySystem, err := meter.Int64Gauge(
		"system_memory_system_bytes",
		metric.WithDescription("Memory obtained from the OS in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	gcCount, err := meter.Int64Gauge(
		"system_gc_count",
		metric.WithDescription("Completed garbage collection cycles"),
	)
	if err != nil {
		return nil, err
	}

	lastGCPause, err := meter.Float64Gauge(
		"system_gc_last_pause_seconds",
		metric.WithDescription("Duration of the most recent garbage collection pause"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	processUptime, err := meter.Float64Gauge(
		"system_process_uptime_seconds",
		metric.WithDescription("Process uptime in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &SystemMetrics{
		goRoutines:    goRoutines,
		heapAlloc:     heapAlloc,
		memorySystem:  memorySystem,
		gcCount:       gcCount,
		lastGCPause:   lastGCPause,
		processUptime: processUptime,
	}, nil
}

// SystemStats holds one sample of runtime statistics
type SystemStats struct {
	GoRoutines    int64
	HeapAlloc     int64
	MemorySystem  int64
	GCCount       uint32
	LastGCPause   time.Duration
	ProcessUptime time.Duration
	Timestamp     time.Time
}

// Collect samples the runtime and records the gauges.
func (sm *SystemMetrics) Collect(ctx context.Context, startTime time.Time) *SystemStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := &SystemStats{
		GoRoutines:    int64(runtime.NumGoroutine()),
		HeapAlloc:     int64(memStats.HeapAlloc),
		MemorySystem:  int64(memStats.Sys),
		GCCount:       memStats.NumGC,
		ProcessUptime: time.Since(startTime),
		Timestamp:     time.Now(),
	}
	if memStats.NumGC > 0 {
		stats.LastGCPause = time.Duration(memStats.PauseNs[(memStats.NumGC+255)%256])
	}

	sm.goRoutines.Record(ctx, stats.GoRoutines)
	sm.heapAlloc.Record(ctx, stats.HeapAlloc)
	sm.memorySystem.Record(ctx, stats.MemorySystem)
	sm.gcCount.Record(ctx, int64(stats.GCCount))
	sm.lastGCPause.Record(ctx, stats.LastGCPause.Seconds())
	sm.processUptime.Record(ctx, stats.ProcessUptime.Seconds())
	return stats
}

// SystemMetricsCollector samples the runtime on a fixed interval
type SystemMetricsCollector struct {
	metrics   *SystemMetrics
	startTime time.Time
	interval  time.Duration
	stopCh    chan struct{}
}

// NewSystemMetricsCollector creates a new system metrics collector
func NewSystemMetricsCollector(meter metric.Meter, interval time.Duration) (*SystemMetricsCollector, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("collection interval must be positive, got %s", interval)
	}
	metrics, err := NewSystemMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create system metrics: %w", err)
	}

	return &SystemMetricsCollector{
		metrics:   metrics,
		startTime: time.Now(),
		interval:  interval,
		stopCh:    make(chan struct{}),
	}, nil
}

// Start collects until ctx is done or Stop is called. It blocks.
func (smc *SystemMetricsCollector) Start(ctx context.Context) {
	ticker := time.NewTicker(smc.interval)
	defer ticker.Stop()

	smc.metrics.Collect(ctx, smc.startTime)

	for {
		select {
		case <-ticker.C:
			smc.metrics.Collect(ctx, smc.startTime)
		case <-smc.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop stops the metrics collection
func (smc *SystemMetricsCollector) Stop() {
	close(smc.stopCh)
}
