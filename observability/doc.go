// Package observability wires OpenTelemetry tracing and metrics for fileflow.
//
// Telemetry is off unless enabled in configuration. When it is off the
// global no-op providers stay in place, so spans and instruments created by
// the run driver cost nothing.
//
//	shutdown, err := observability.Setup(ctx, cfg.Observability, "fileflow", version.Version)
//	defer shutdown(context.Background())
//
// Each task evaluation is wrapped in an Operation, which owns one span and
// records one task metric when it ends.
package observability
