// Package observability wires OpenTelemetry tracing and metrics for the
// client pipeline.
//
// Setup installs OTLP/HTTP exporters when enabled and always returns usable
// instruments: with tracing disabled the global no-op providers are used,
// so pipeline code can start spans and record metrics unconditionally.
//
//	obs, err := observability.Setup(ctx, cfg.Observability, log)
//	defer obs.Shutdown(context.Background())
package observability
