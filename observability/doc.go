// Package observability wires OpenTelemetry tracing and metrics.
//
// Telemetry is optional. The Component installs OTLP/HTTP tracer and meter
// providers when observability.enabled is set; otherwise the global no-op
// providers stay in place and every instrument below is free.
//
//	tel := observability.NewComponent(cfg.Observability, info, log)
//	registry.Register(tel)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanLogin)
//	defer span.End()
//
// Auth metrics:
//
//	m, err := observability.NewAuthMetrics(observability.Meter("mddapi"), store.Size)
//	m.RecordLogin(ctx, observability.LoginSucceeded)
package observability
