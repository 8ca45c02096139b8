package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retailfx/internal/config"
	"retailfx/internal/infrastructure"
	"retailfx/internal/services"
	transport "retailfx/internal/transport/http"
)

const systemMetricsInterval = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stderr, nil); err != nil {
		fmt.Fprintf(os.Stderr, "featureserver: %v\n", err)
		os.Exit(1)
	}
}

// run serves until ctx is done. When ready is non-nil it receives the bound
// listener address once the server accepts connections.
func run(ctx context.Context, args []string, stderr io.Writer, ready chan<- string) error {
	flags := flag.NewFlagSet("featureserver", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "path to config.yaml")
	dir := flags.String("dir", "", "directory holding the published features (overrides paths.output_dir)")
	port := flags.Int("port", -1, "listen port, 0 for any free port (overrides server.port)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *dir != "" {
		cfg.Paths.OutputDir = *dir
	}
	if *port >= 0 {
		cfg.Server.Port = *port
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer infrastructure.CloseLogFile()

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFromTelemetry(cfg.Telemetry), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	collector, err := infrastructure.NewSystemMetricsCollector(providers.Meter, systemMetricsInterval)
	if err != nil {
		return err
	}
	go collector.Start(ctx)
	defer collector.Stop()

	service := services.NewFeatureService(cfg.Paths.OutputDir, logger)
	router := transport.NewRouter(transport.RouterOptions{
		Service:   service,
		Server:    cfg.Server,
		Providers: providers,
		Logger:    logger,
	})
	server := transport.NewServer(cfg.Server, router)

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", server.Addr, err)
	}
	logger.Info("Feature server listening",
		slog.String("addr", ln.Addr().String()),
		slog.String("features_dir", cfg.Paths.OutputDir))
	if ready != nil {
		ready <- ln.Addr().String()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutting down feature server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg.Server))
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	return providers.Shutdown(shutdownCtx)
}

func shutdownTimeout(cfg config.ServerConfig) time.Duration {
	if cfg.ShutdownTimeout > 0 {
		return cfg.ShutdownTimeout
	}
	return 30 * time.Second
}
