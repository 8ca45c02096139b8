package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noopMeter() metric.Meter {
	return metricnoop.NewMeterProvider().Meter("test")
}

func TestOTelInitialization(t *testing.T) {
	var spans bytes.Buffer
	cfg := DefaultOTelConfig()
	cfg.TraceExporter = "stdout"
	cfg.TraceWriter = &spans

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)

	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Registry)
	assert.NotNil(t, providers.PrometheusHTTP)

	_, span := providers.Tracer.Start(context.Background(), "pipeline.run")
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, providers.Shutdown(ctx))
	assert.Contains(t, spans.String(), "pipeline.run")
}

func TestOTelInitialization_Disabled(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.MetricExporter = "none"

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.NoError(t, providers.WriteMetricsTextfile(filepath.Join(t.TempDir(), "x.prom")))
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestOTelInitialization_UnsupportedExporter(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.TraceExporter = "otlp"

	_, err := InitializeOTel(cfg, discardLogger())
	assert.Error(t, err)
}

func TestPipelineMetrics_ExposedOnPrometheus(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordStep(ctx, "customers", 250*time.Millisecond, nil)
	metrics.RecordStep(ctx, "merge", time.Millisecond, errors.New("boom"))
	metrics.RecordRun(ctx, 1234, nil)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "pipeline_runs_total")
	assert.Contains(t, body, "pipeline_step_duration_seconds")
	assert.Contains(t, body, "pipeline_rows_processed_total")

	path := filepath.Join(t.TempDir(), "retailfx.prom")
	require.NoError(t, providers.WriteMetricsTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pipeline_runs_total")
}

func TestPipelineMetrics_NilSafe(t *testing.T) {
	var m *PipelineMetrics
	assert.NotPanics(t, func() {
		m.RecordStep(context.Background(), "x", time.Second, nil)
		m.RecordRun(context.Background(), 1, nil)
	})
}

func TestSystemMetrics_Collect(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	collector, err := NewSystemMetricsCollector(providers.Meter, time.Minute)
	require.NoError(t, err)

	stats := collector.metrics.Collect(context.Background(), collector.startTime)
	assert.Positive(t, stats.GoRoutines)
	assert.Positive(t, stats.HeapAlloc)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "system_goroutines")
	assert.Contains(t, rec.Body.String(), "system_process_uptime_seconds")
}

func TestSystemMetricsCollector_StopsOnCancel(t *testing.T) {
	collector, err := NewSystemMetricsCollector(noopMeter(), 10*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		collector.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("collector did not stop")
	}

	_, err = NewSystemMetricsCollector(noopMeter(), 0)
	assert.Error(t, err)
}
