package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("test-webapp")

	if cfg.ServiceName != "test-webapp" {
		t.Errorf("expected service name test-webapp, got %q", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected default OTLP endpoint, got %q", cfg.Endpoint)
	}
	if !cfg.Insecure {
		t.Error("expected insecure transport for development defaults")
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected full sampling by default, got %f", cfg.SampleRate)
	}
}

func TestInitTracerAndShutdown(t *testing.T) {
	cfg := DefaultTracerConfig("test-webapp")
	// Nothing gets buffered with sampling off, so Shutdown needs no
	// running collector.
	cfg.SampleRate = 0

	tp, err := InitTracer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitTracer failed: %v", err)
	}

	ctx, span := StartSpan(context.Background(), "test.operation")
	if span.IsRecording() {
		t.Error("expected spans to be dropped with sampling off")
	}
	if got := SpanFromContext(ctx); !got.SpanContext().Equal(span.SpanContext()) {
		t.Error("expected the started span in the returned context")
	}
	SetSpanError(ctx, errors.New("boom"))
	span.End()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := tp.Shutdown(shutdownCtx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestInitTracerSampleRates(t *testing.T) {
	for _, rate := range []float64{0, 0.5, 1} {
		cfg := DefaultTracerConfig("test-webapp")
		cfg.SampleRate = rate

		tp, err := InitTracer(context.Background(), cfg)
		if err != nil {
			t.Fatalf("InitTracer with rate %f failed: %v", rate, err)
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := tp.Shutdown(shutdownCtx); err != nil {
			t.Errorf("Shutdown with rate %f failed: %v", rate, err)
		}
		cancel()
	}
}
