// Package observability provides structured logging, Prometheus metrics, and
// OpenTelemetry tracing for ragstack.
//
// # Structured Logging
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stderr)
//	logger.WithField("section", "postgres").Info("settings loaded")
//
// Log levels are parsed from strings with ParseLogLevel; unknown values fall
// back to InfoLevel.
//
// # Prometheus Metrics
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	metrics.DependencyUp.WithLabelValues("postgres").Set(1)
//
// # OpenTelemetry
//
// Tracing is off unless an OTLP endpoint is configured:
//
//	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
//		Endpoint:    "otel-collector:4317",
//		ServiceName: "ragstack",
//		Insecure:    true,
//	}, logger)
//	defer observability.ShutdownTracing(ctx, tp, logger)
//
// # Related Packages
//
//   - pkg/health: records dependency metrics
//   - pkg/probe: emits one span per dependency check
package observability
