package ephemfile

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/astro-ephemeris/core"
	"github.com/signalsfoundry/astro-ephemeris/internal/logging"
)

const tracerName = "github.com/signalsfoundry/astro-ephemeris/internal/ephemfile"

// MetricsRecorder receives one observation per file operation.
type MetricsRecorder interface {
	ObserveCodec(op string, points int, elapsed time.Duration, err error)
}

// Codec reads and writes ephemeris files on disk. The zero value is usable;
// without WithLogger it logs to the logger carried by the call's context.
type Codec struct {
	log     logging.Logger
	metrics MetricsRecorder
}

// Option configures a Codec.
type Option func(*Codec)

// WithLogger pins the logger used for per-file records.
func WithLogger(l logging.Logger) Option {
	return func(c *Codec) { c.log = l }
}

// WithMetricsRecorder sets the recorder fed after every operation.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(c *Codec) { c.metrics = m }
}

// NewCodec returns a Codec with the given options applied.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codec) logger(ctx context.Context) logging.Logger {
	if c == nil || c.log == nil {
		return logging.LoggerFromContext(ctx)
	}
	return c.log
}

// ReadFile opens path and parses it with Read. The file is closed on every
// return path.
func (c *Codec) ReadFile(ctx context.Context, path string) (ephem core.Ephemeris, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ephemfile.ReadFile")
	span.SetAttributes(attribute.String("ephem.path", path))
	start := time.Now()
	defer func() { c.finish(ctx, span, "read", path, ephem.Len(), start, err) }()

	f, err := os.Open(path)
	if err != nil {
		return core.Ephemeris{}, fmt.Errorf("open ephemeris: %w", err)
	}
	defer f.Close()

	ephem, err = Read(f)
	if err != nil {
		return core.Ephemeris{}, fmt.Errorf("%s: %w", path, err)
	}
	return ephem, nil
}

// WriteFile renders e to path, replacing any existing file.
func (c *Codec) WriteFile(ctx context.Context, path string, e core.Ephemeris) (err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ephemfile.WriteFile")
	span.SetAttributes(attribute.String("ephem.path", path))
	start := time.Now()
	defer func() { c.finish(ctx, span, "write", path, e.Len(), start, err) }()

	if _, err := e.First(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ephemeris: %w", err)
	}
	if err := Write(f, e); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close ephemeris %s: %w", path, err)
	}
	return nil
}

func (c *Codec) finish(ctx context.Context, span trace.Span, op, path string, points int, start time.Time, err error) {
	defer span.End()
	elapsed := time.Since(start)
	if c != nil && c.metrics != nil {
		c.metrics.ObserveCodec(op, points, elapsed, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger(ctx).Warn(ctx, "ephemeris "+op+" failed",
			logging.String("path", path),
			logging.Err(err),
		)
		return
	}
	span.SetAttributes(attribute.Int("ephem.points", points))
	c.logger(ctx).Debug(ctx, "ephemeris "+op,
		logging.String("path", path),
		logging.Int("points", points),
		logging.Duration("elapsed", elapsed),
	)
}
