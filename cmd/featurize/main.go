package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retailfx/internal/config"
	"retailfx/internal/infrastructure"
	"retailfx/internal/pipeline"
	"retailfx/pkg/contracts"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("featurize", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "path to config.yaml (defaults to ./config.yaml or ./configs/config.yaml)")
	in := flags.String("in", "", "input transactions file, .csv or .xlsx (overrides paths.input_file)")
	out := flags.String("out", "", "output directory (overrides paths.output_dir)")
	full := flags.Bool("full", false, "also write the workbook and SQLite database")
	runID := flags.String("run-id", "", "run identifier (generated when empty)")
	version := flags.Bool("version", false, "print version information and exit")
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	if *version {
		fmt.Fprintln(stderr, contracts.GetFullVersionString("featurize"))
		return exitOK
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "featurize: %v\n", err)
		return exitUsage
	}
	if *in != "" {
		cfg.Paths.InputFile = *in
	}
	if *out != "" {
		cfg.Paths.OutputDir = *out
	}
	if *full {
		cfg.Pipeline.Sinks = []string{config.SinkCSV, config.SinkXLSX, config.SinkSQLite}
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "featurize: invalid configuration: %v\n", err)
		return exitUsage
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "featurize: %v\n", err)
		return exitUsage
	}
	defer infrastructure.CloseLogFile()

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFromTelemetry(cfg.Telemetry), logger)
	if err != nil {
		logger.Error("Failed to initialize OpenTelemetry", slog.String("error", err.Error()))
		return exitFailed
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("OpenTelemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	tracer, err := pipeline.NewRunTracer(providers)
	if err != nil {
		logger.Error("Failed to create run tracer", slog.String("error", err.Error()))
		return exitFailed
	}

	settings := pipeline.SettingsFromConfig(cfg)
	registry, err := pipeline.NewDefaultRegistry(settings, logger)
	if err != nil {
		logger.Error("Failed to register steps", slog.String("error", err.Error()))
		return exitFailed
	}

	logger.Info("Starting feature engineering",
		slog.String("input", settings.InputPath),
		slog.String("output_dir", settings.OutputDir),
		slog.String("tie_break", string(settings.TieBreak)),
		slog.Any("sinks", settings.Sinks))

	manager := pipeline.NewManager(registry, pipeline.ManagerOptions{
		Parallel: settings.Parallel,
		Tracer:   tracer,
		Logger:   logger,
	})
	state, runErr := manager.Run(ctx, *runID)

	paths := config.NewPaths(settings.OutputDir)
	manifestPath := paths.Manifest
	if runErr != nil {
		manifestPath = paths.FailedManifest
	}
	manifest := pipeline.BuildManifest(state, registry.ListIDs(), settings, runErr)
	if err := pipeline.WriteManifest(manifestPath, manifest); err != nil {
		logger.Error("Failed to write manifest", slog.String("path", manifestPath), slog.String("error", err.Error()))
		if runErr == nil {
			return exitFailed
		}
	}
	if runErr == nil {
		if err := os.Remove(paths.FailedManifest); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Failed to remove stale failure manifest",
				slog.String("path", paths.FailedManifest),
				slog.String("error", err.Error()))
		}
	}

	if err := providers.WriteMetricsTextfile(cfg.Telemetry.MetricsTextfile); err != nil {
		logger.Warn("Failed to write metrics textfile", slog.String("error", err.Error()))
	}

	if runErr != nil {
		fmt.Fprintf(stderr, "featurize: %v\n", runErr)
		return exitFailed
	}

	logger.Info("Feature engineering completed",
		slog.String("run_id", state.ID),
		slog.Int("rows", manifest.Input.Rows),
		slog.Int("outputs", len(manifest.Outputs)),
		slog.String("manifest", manifestPath))
	return exitOK
}
