// Package server provides the embedded HTTP listener behind a webapp,
// built on Gin with HTTP/2 cleartext (h2c) support.
//
// The server binds synchronously on Start so the caller knows the port is
// live, then serves in a goroutine. With FindPort enabled it probes
// successive ports when the configured one is taken; with an ephemeral
// port (0) the operating system picks, and Port reports the actual value.
//
// Built-in middleware (server/middleware): recovery, request-ID,
// request logging, and optional OpenTelemetry tracing.
//
// Built-in endpoints (server/endpoint): /health, /info, /metrics.
package server
