// Package app holds the setup shared by the command-line tools: logging,
// metrics, tracing, and the instrumented ephemeris codec.
package app

import (
	"context"
	"flag"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/signalsfoundry/astro-ephemeris/internal/ephemfile"
	"github.com/signalsfoundry/astro-ephemeris/internal/logging"
	"github.com/signalsfoundry/astro-ephemeris/internal/observability"
)

const (
	tracerName  = "github.com/signalsfoundry/astro-ephemeris/internal/app"
	pushTimeout = 5 * time.Second
)

// Env is the per-run environment of one tool invocation.
type Env struct {
	Log     logging.Logger
	Metrics *observability.Collector
	Codec   *ephemfile.Codec

	tool            string
	runID           string
	metricsTextfile string
	metricsPush     string
	tracer          *observability.RunTracer
}

// Options are the ambient settings common to every tool.
type Options struct {
	// MetricsTextfile, when set, receives the run's metrics on Close.
	MetricsTextfile string
	// MetricsPush, when set, is the Pushgateway URL the run's metrics are
	// pushed to on Close.
	MetricsPush string
	// Log overrides the environment-configured logger.
	Log logging.Logger
	// Tracing overrides the environment-configured tracing setup.
	Tracing *observability.TracingConfig
}

// RegisterFlags adds the shared flags to fs.
func (o *Options) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.MetricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this node-exporter textfile on exit")
	fs.StringVar(&o.MetricsPush, "metrics-push", "", "push Prometheus metrics to this Pushgateway URL on exit")
}

// Setup builds the run environment for tool. Metrics go to a private
// registry so repeated runs in one process do not collide. The returned
// context carries a run_id and the run logger; the codec logs through the
// latter.
func Setup(ctx context.Context, tool string, opts Options) (context.Context, *Env, error) {
	base := opts.Log
	if base == nil {
		base = logging.NewFromEnv()
	}
	ctx, log := logging.WithRunLogger(ctx, base.With(logging.String("tool", tool)))
	ctx = logging.ContextWithLogger(ctx, log)

	collector, err := observability.NewCollector(prometheus.NewRegistry())
	if err != nil {
		return ctx, nil, err
	}

	tcfg := observability.TracingConfigFromEnv()
	if opts.Tracing != nil {
		tcfg = *opts.Tracing
	}
	tracer, err := observability.StartRunTracing(ctx, tool, tcfg, log)
	if err != nil {
		return ctx, nil, err
	}

	env := &Env{
		Log:             log,
		Metrics:         collector,
		Codec:           ephemfile.NewCodec(ephemfile.WithMetricsRecorder(collector)),
		tool:            tool,
		runID:           logging.RunIDFromContext(ctx),
		metricsTextfile: opts.MetricsTextfile,
		metricsPush:     opts.MetricsPush,
		tracer:          tracer,
	}
	return ctx, env, nil
}

// Observe runs fn as the named operation: it opens a span, records the
// outcome and the returned point count, and logs the result.
func (e *Env) Observe(ctx context.Context, op string, fn func(context.Context) (int, error)) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, e.tool+"."+op)
	defer span.End()

	start := time.Now()
	points, err := fn(ctx)
	elapsed := time.Since(start)
	e.Metrics.ObserveOperation(op, points, elapsed, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.Log.Error(ctx, op+" failed", logging.Err(err))
		return err
	}
	span.SetAttributes(attribute.Int("ephem.points", points))
	e.Log.Info(ctx, op+" complete",
		logging.Int("points", points),
		logging.Duration("elapsed", elapsed),
	)
	return nil
}

// Close flushes metrics and traces. Failures are logged, not returned.
func (e *Env) Close(ctx context.Context) {
	if e == nil {
		return
	}
	if e.metricsTextfile != "" {
		if err := e.Metrics.WriteTextfile(e.metricsTextfile); err != nil {
			e.Log.Warn(ctx, "metrics flush failed", logging.Err(err))
		}
	}
	if e.metricsPush != "" {
		pctx, cancel := context.WithTimeout(ctx, pushTimeout)
		err := e.Metrics.Push(pctx, e.metricsPush, e.tool, e.runID)
		cancel()
		if err != nil {
			e.Log.Warn(ctx, "metrics push failed", logging.Err(err))
		}
	}
	if err := e.tracer.Shutdown(ctx); err != nil {
		e.Log.Warn(ctx, "tracing shutdown failed", logging.Err(err))
	}
}
