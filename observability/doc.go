// Package observability provides OpenTelemetry tracing integration for
// webapp request handling.
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-webapp"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "my.operation")
//	defer span.End()
package observability
