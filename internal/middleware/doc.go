// Package middleware holds the HTTP middleware of the feature API: request
// IDs, structured request logging, panic recovery, rate limiting, timeouts,
// security headers and OpenTelemetry instrumentation.
package middleware
