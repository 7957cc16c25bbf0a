package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/signalsfoundry/astro-ephemeris/internal/logging"
)

func TestTracingConfigFromEnv(t *testing.T) {
	t.Setenv("EPHEM_TRACING_ENABLED", "TRUE")
	t.Setenv("EPHEM_TRACING_EXPORTER", "OTLP")
	t.Setenv("EPHEM_TRACING_SERVICE_NAME", "")
	t.Setenv("EPHEM_TRACING_SAMPLE_RATIO", "0.25")
	t.Setenv("EPHEM_TRACING_FLUSH_TIMEOUT", "750ms")
	t.Setenv("EPHEM_OTLP_ENDPOINT", "collector:4317")

	cfg := TracingConfigFromEnv()
	if !cfg.Enabled || cfg.Exporter != "otlp" || cfg.Endpoint != "collector:4317" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.ServiceName != "" {
		t.Fatalf("service name = %q, want empty so the tool name is used", cfg.ServiceName)
	}
	if cfg.SampleRatio != 0.25 {
		t.Fatalf("sample ratio = %v, want 0.25", cfg.SampleRatio)
	}
	if cfg.FlushTimeout != 750*time.Millisecond {
		t.Fatalf("flush timeout = %v, want 750ms", cfg.FlushTimeout)
	}

	t.Setenv("EPHEM_TRACING_SAMPLE_RATIO", "7")
	t.Setenv("EPHEM_TRACING_FLUSH_TIMEOUT", "soon")
	cfg = TracingConfigFromEnv()
	if cfg.SampleRatio != 1 {
		t.Fatalf("out-of-range ratio not ignored: %v", cfg.SampleRatio)
	}
	if cfg.FlushTimeout != defaultFlushTimeout {
		t.Fatalf("malformed flush timeout not ignored: %v", cfg.FlushTimeout)
	}
}

func TestStartRunTracingDisabledIsNoop(t *testing.T) {
	tracer, err := StartRunTracing(context.Background(), "tle2ephem", TracingConfig{}, logging.Noop())
	if err != nil {
		t.Fatalf("StartRunTracing: %v", err)
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	var nilTracer *RunTracer
	if err := nilTracer.Shutdown(context.Background()); err != nil {
		t.Fatalf("nil Shutdown: %v", err)
	}
}

func TestStartRunTracingRejectsUnknownExporter(t *testing.T) {
	_, err := StartRunTracing(context.Background(), "x", TracingConfig{Enabled: true, Exporter: "zipkin"}, nil)
	if err == nil {
		t.Fatalf("expected error for unsupported exporter")
	}
}

func TestRunSpansCarryToolAndRunID(t *testing.T) {
	ctx, runID := logging.EnsureRunID(context.Background())
	var spans, logs bytes.Buffer

	tracer, err := StartRunTracing(ctx, "ephemric", TracingConfig{
		Enabled:     true,
		Exporter:    "stdout",
		SampleRatio: 1,
		Writer:      &spans,
	}, logging.New(logging.Config{Level: "debug", Writer: &logs}))
	if err != nil {
		t.Fatalf("StartRunTracing: %v", err)
	}

	_, span := otel.Tracer("test").Start(ctx, "ephemric.ric")
	span.End()
	// Stdout spans are written when they end, before any flush.
	if !strings.Contains(spans.String(), "ephemric.ric") {
		t.Fatalf("span not exported on End:\n%s", spans.String())
	}

	if err := tracer.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	out := spans.String()
	for _, want := range []string{`"ephem.tool"`, `"ephem.run_id"`, runID, `"service.name"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("exported span missing %s:\n%s", want, out)
		}
	}
	if !strings.Contains(logs.String(), "traces flushed") {
		t.Fatalf("flush not logged:\n%s", logs.String())
	}
}
