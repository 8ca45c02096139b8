package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"retailfx/internal/config"
	apierrors "retailfx/internal/errors"
	"retailfx/internal/infrastructure"
	"retailfx/internal/middleware"
)

// RouterOptions carries the dependencies of the feature API router.
type RouterOptions struct {
	Service   FeatureServiceInterface
	Server    config.ServerConfig
	Providers *infrastructure.OTelProviders
	Logger    *slog.Logger
}

// NewRouter builds the feature API: health probes and metrics at the root,
// features under /api/v1.
func NewRouter(opts RouterOptions) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	errorHandler := apierrors.NewErrorHandler(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.Providers != nil {
		otelMiddleware, err := middleware.NewOTelMiddleware(opts.Providers)
		if err != nil {
			logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
		} else {
			r.Use(otelMiddleware.Handler)
		}
	}
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.SecurityHeaders)
	if opts.Server.RateLimitRPS > 0 {
		r.Use(middleware.NewRateLimiter(opts.Server.RateLimitRPS, opts.Server.RateLimitBurst, logger).Handler)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	health := NewHealthHandler(opts.Service, logger)
	r.Get("/healthz", health.LivenessCheck)
	r.Get("/readyz", health.ReadinessCheck)

	if opts.Providers != nil && opts.Providers.PrometheusHTTP != nil {
		r.Handle("/metrics", opts.Providers.PrometheusHTTP)
	}

	api := NewFeatureHandler(opts.Service, logger, errorHandler).Routes()
	if opts.Server.ReadTimeout > 0 {
		r.With(middleware.Timeout(opts.Server.ReadTimeout, logger)).Mount("/api/v1", api)
	} else {
		r.Mount("/api/v1", api)
	}

	return r
}

// NewServer wraps handler in an http.Server configured from cfg.
func NewServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
