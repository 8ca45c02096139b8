package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailfx/internal/config"
	"retailfx/internal/pipeline"
)

func TestRun_ServesUntilCanceled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, pipeline.WriteManifest(config.NewPaths(dir).Manifest, &pipeline.Manifest{
		RunID:  "served",
		Status: "completed",
	}))
	for _, name := range []string{config.CustomerFeaturesFile, config.ProductFeaturesFile, config.CountryFeaturesFile} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("Country\n"), 0o644))
	}

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	done := make(chan error, 1)
	var stderr bytes.Buffer
	go func() {
		done <- run(ctx, []string{"-dir", dir, "-port", "0"}, &stderr, ready)
	}()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr + "/readyz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "served")

	resp, err = http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
