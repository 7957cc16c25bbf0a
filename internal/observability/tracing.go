package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/signalsfoundry/astro-ephemeris/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	defaultFlushTimeout = 5 * time.Second
	otlpBatchTimeout    = time.Second
)

// TracingConfig selects the span exporter for one tool run.
type TracingConfig struct {
	Enabled bool
	// ServiceName defaults to the tool name.
	ServiceName string
	Exporter    string // stdout | otlp
	Endpoint    string // otlp only
	SampleRatio float64
	// FlushTimeout bounds the flush on exit.
	FlushTimeout time.Duration
	// Writer receives stdout spans. Defaults to os.Stderr.
	Writer io.Writer
}

// TracingConfigFromEnv reads the EPHEM_TRACING_* and EPHEM_OTLP_ENDPOINT
// variables. Malformed values fall back to the defaults.
func TracingConfigFromEnv() TracingConfig {
	cfg := TracingConfig{
		Enabled:      strings.EqualFold(os.Getenv("EPHEM_TRACING_ENABLED"), "true"),
		ServiceName:  os.Getenv("EPHEM_TRACING_SERVICE_NAME"),
		Exporter:     strings.ToLower(os.Getenv("EPHEM_TRACING_EXPORTER")),
		Endpoint:     os.Getenv("EPHEM_OTLP_ENDPOINT"),
		SampleRatio:  1,
		FlushTimeout: defaultFlushTimeout,
	}
	if cfg.Exporter == "" {
		cfg.Exporter = "stdout"
	}
	if raw := os.Getenv("EPHEM_TRACING_SAMPLE_RATIO"); raw != "" {
		if r, err := strconv.ParseFloat(raw, 64); err == nil && r >= 0 && r <= 1 {
			cfg.SampleRatio = r
		}
	}
	if raw := os.Getenv("EPHEM_TRACING_FLUSH_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.FlushTimeout = d
		}
	}
	return cfg
}

// RunTracer owns the tracer provider of a single tool run. A tool exits
// within seconds of its last span, so stdout spans are exported as they end
// and OTLP batches are flushed explicitly by Shutdown.
type RunTracer struct {
	provider *sdktrace.TracerProvider
	timeout  time.Duration
	log      logging.Logger
}

// StartRunTracing installs the global tracer provider for one run of tool.
// Every span carries the tool name and the run_id found on ctx as resource
// attributes, so the spans of one invocation can be selected together.
func StartRunTracing(ctx context.Context, tool string, cfg TracingConfig, log logging.Logger) (*RunTracer, error) {
	if log == nil {
		log = logging.Noop()
	}
	otel.SetTextMapPropagator(propagation.TraceContext{})
	if !cfg.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		log.Debug(ctx, "tracing disabled")
		return &RunTracer{log: log}, nil
	}

	exp, err := exporterFromConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	res, err := runResource(ctx, tool, cfg)
	if err != nil {
		return nil, err
	}

	// Spans for a run are few; stdout writes them on End.
	processor := sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(otlpBatchTimeout))
	if isStdout(cfg.Exporter) {
		processor = sdktrace.WithSyncer(exp)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithResource(res),
		processor,
	)
	otel.SetTracerProvider(tp)

	timeout := cfg.FlushTimeout
	if timeout <= 0 {
		timeout = defaultFlushTimeout
	}
	log.Info(ctx, "tracing enabled",
		logging.String("exporter", cfg.Exporter),
		logging.Float("sample_ratio", cfg.SampleRatio),
	)
	return &RunTracer{provider: tp, timeout: timeout, log: log}, nil
}

func runResource(ctx context.Context, tool string, cfg TracingConfig) (*resource.Resource, error) {
	service := cfg.ServiceName
	if service == "" {
		service = tool
	}
	attrs := []attribute.KeyValue{
		attribute.String("service.name", service),
		attribute.String("service.namespace", "astro-ephemeris"),
		attribute.String("ephem.tool", tool),
	}
	if id := logging.RunIDFromContext(ctx); id != "" {
		attrs = append(attrs,
			attribute.String("service.instance.id", id),
			attribute.String("ephem.run_id", id),
		)
	}
	res, err := resource.New(ctx, resource.WithAttributes(attrs...), resource.WithProcessPID())
	if err != nil {
		return nil, fmt.Errorf("tracing resource: %w", err)
	}
	return res, nil
}

func isStdout(exporter string) bool {
	e := strings.ToLower(exporter)
	return e == "stdout" || e == ""
}

func exporterFromConfig(ctx context.Context, cfg TracingConfig) (sdktrace.SpanExporter, error) {
	if isStdout(cfg.Exporter) {
		w := cfg.Writer
		if w == nil {
			w = os.Stderr
		}
		return stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithoutTimestamps())
	}
	switch strings.ToLower(cfg.Exporter) {
	case "otlp", "otlpgrpc":
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = "localhost:4317"
		}
		return otlptrace.New(ctx, otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		))
	default:
		return nil, fmt.Errorf("unsupported tracing exporter: %s", cfg.Exporter)
	}
}

// Shutdown flushes pending spans and stops the provider within the flush
// timeout. It is a no-op when tracing is disabled.
func (r *RunTracer) Shutdown(ctx context.Context) error {
	if r == nil || r.provider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	flushErr := r.provider.ForceFlush(ctx)
	if flushErr != nil {
		r.log.Warn(ctx, "trace flush failed", logging.Err(flushErr))
	} else {
		r.log.Debug(ctx, "traces flushed", logging.Duration("elapsed", time.Since(start)))
	}
	return errors.Join(flushErr, r.provider.Shutdown(ctx))
}
