package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailfx/internal/config"
	"retailfx/internal/pipeline"
)

const input = `InvoiceNo,StockCode,Description,Quantity,InvoiceDate,UnitPrice,CustomerID,Country
536365,85123A,WHITE HANGING HEART T-LIGHT HOLDER,6,2010-12-01 08:26:00,2.55,17850,United Kingdom
536366,71053,WHITE METAL LANTERN,6,2010-12-01 08:28:00,3.39,17850,United Kingdom
536367,84879,ASSORTED COLOUR BIRD ORNAMENT,32,2010-12-03 08:34:00,1.69,13047,United Kingdom
536370,22728,ALARM CLOCK BAKELIKE PINK,24,2011-01-10 08:45:00,3.75,12583,France
536396,84879,ASSORTED COLOUR BIRD ORNAMENT,16,2011-03-05 12:00:00,1.69,15311,Germany
`

func setup(t *testing.T, body string) (in, out string) {
	t.Helper()
	dir := t.TempDir()
	in = filepath.Join(dir, "transactions.csv")
	require.NoError(t, os.WriteFile(in, []byte(body), 0o644))
	t.Setenv("RFX_TELEMETRY_METRICS_TEXTFILE", filepath.Join(dir, "featurize.prom"))
	return in, filepath.Join(dir, "out")
}

func TestRun_Full(t *testing.T) {
	in, out := setup(t, input)
	var stderr bytes.Buffer

	code := run(context.Background(), []string{"-in", in, "-out", out, "-full", "-run-id", "cli-1"}, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	paths := config.NewPaths(out)
	for _, p := range []string{paths.FeaturedData, paths.CustomerFeatures, paths.ProductFeatures,
		paths.CountryFeatures, paths.Workbook, paths.Database} {
		assert.FileExists(t, p)
	}

	m, err := pipeline.ReadManifest(paths.Manifest)
	require.NoError(t, err)
	assert.Equal(t, "cli-1", m.RunID)
	assert.Equal(t, "completed", m.Status)
	assert.Len(t, m.Outputs, 6)
	assert.Equal(t, 5, m.Input.Rows)

	assert.FileExists(t, filepath.Join(filepath.Dir(out), "featurize.prom"))
}

func TestRun_FailureWritesFailedManifest(t *testing.T) {
	in, out := setup(t, "InvoiceNo,StockCode,Description,Quantity,InvoiceDate,UnitPrice,CustomerID,Country\n"+
		"536365,85123A,HEART,6,not a date,2.55,17850,United Kingdom\n")
	var stderr bytes.Buffer

	code := run(context.Background(), []string{"-in", in, "-out", out}, &stderr)
	assert.Equal(t, exitFailed, code)
	assert.Contains(t, stderr.String(), "cannot parse")

	paths := config.NewPaths(out)
	assert.NoFileExists(t, paths.Manifest)
	m, err := pipeline.ReadManifest(paths.FailedManifest)
	require.NoError(t, err)
	assert.Equal(t, "failed", m.Status)
	assert.Equal(t, "failed", string(m.Steps[0].Status))
}

func TestRun_SuccessClearsFailedManifest(t *testing.T) {
	in, out := setup(t, "InvoiceNo,StockCode,Description,Quantity,InvoiceDate,UnitPrice,CustomerID,Country\n"+
		"536365,85123A,HEART,6,not a date,2.55,17850,United Kingdom\n")
	var stderr bytes.Buffer
	require.Equal(t, exitFailed, run(context.Background(), []string{"-in", in, "-out", out}, &stderr))

	paths := config.NewPaths(out)
	require.FileExists(t, paths.FailedManifest)

	require.NoError(t, os.WriteFile(in, []byte(input), 0o644))
	code := run(context.Background(), []string{"-in", in, "-out", out}, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	assert.FileExists(t, paths.Manifest)
	assert.NoFileExists(t, paths.FailedManifest)
}

func TestRun_Usage(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, exitUsage, run(context.Background(), []string{"-bogus"}, &stderr))

	t.Setenv("RFX_PIPELINE_TIE_BREAK", "random")
	assert.Equal(t, exitUsage, run(context.Background(), nil, &stderr))
	assert.Contains(t, stderr.String(), "TieBreak")
}

func TestRun_Version(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, exitOK, run(context.Background(), []string{"-version"}, &stderr))
	assert.Contains(t, stderr.String(), "featurize v"+config.AppVersion)
}
