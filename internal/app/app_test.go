package app

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/signalsfoundry/astro-ephemeris/internal/logging"
	"github.com/signalsfoundry/astro-ephemeris/internal/observability"
)

func TestSetupObserveAndClose(t *testing.T) {
	var logs bytes.Buffer
	textfile := filepath.Join(t.TempDir(), "run.prom")

	ctx, env, err := Setup(context.Background(), "testtool", Options{
		MetricsTextfile: textfile,
		Log:             logging.New(logging.Config{Writer: &logs}),
		Tracing:         &observability.TracingConfig{},
	})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if logging.RunIDFromContext(ctx) == "" {
		t.Fatalf("expected run_id on context")
	}

	if err := env.Observe(ctx, "resample", func(context.Context) (int, error) { return 12, nil }); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	boom := errors.New("boom")
	if err := env.Observe(ctx, "resample", func(context.Context) (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("Observe returned %v, want boom", err)
	}

	if got := testutil.ToFloat64(env.Metrics.Operations.WithLabelValues("resample", "ok")); got != 1 {
		t.Fatalf("ok count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(env.Metrics.Operations.WithLabelValues("resample", "error")); got != 1 {
		t.Fatalf("error count = %v, want 1", got)
	}

	env.Close(ctx)

	data, err := os.ReadFile(textfile)
	if err != nil {
		t.Fatalf("textfile not written: %v", err)
	}
	if !strings.Contains(string(data), `ephem_last_points{op="resample"} 12`) {
		t.Fatalf("textfile missing gauge:\n%s", data)
	}
	out := logs.String()
	if !strings.Contains(out, "tool=testtool") || !strings.Contains(out, "resample failed") {
		t.Fatalf("unexpected log output:\n%s", out)
	}
}

func TestSetupUsesPrivateRegistries(t *testing.T) {
	opts := Options{Log: logging.Noop(), Tracing: &observability.TracingConfig{}}
	_, a, err := Setup(context.Background(), "a", opts)
	if err != nil {
		t.Fatalf("Setup a: %v", err)
	}
	_, b, err := Setup(context.Background(), "b", opts)
	if err != nil {
		t.Fatalf("Setup b: %v", err)
	}
	a.Metrics.ObserveOperation("ric", 1, 0, nil)
	if got := testutil.ToFloat64(b.Metrics.Operations.WithLabelValues("ric", "ok")); got != 0 {
		t.Fatalf("runs share metrics: %v", got)
	}
}

func TestRegisterFlags(t *testing.T) {
	var opts Options
	fs := flag.NewFlagSet("x", flag.ContinueOnError)
	opts.RegisterFlags(fs)
	if err := fs.Parse([]string{"-metrics-textfile", "/tmp/m.prom", "-metrics-push", "http://gw:9091"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if opts.MetricsTextfile != "/tmp/m.prom" || opts.MetricsPush != "http://gw:9091" {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestSetupRejectsBadTracingExporter(t *testing.T) {
	_, _, err := Setup(context.Background(), "x", Options{
		Log:     logging.Noop(),
		Tracing: &observability.TracingConfig{Enabled: true, Exporter: "bogus"},
	})
	if err == nil {
		t.Fatalf("expected tracing setup error")
	}
}

func TestSetupCodecLogsThroughRunLogger(t *testing.T) {
	var logs bytes.Buffer
	ctx, env, err := Setup(context.Background(), "ephemresample", Options{
		Log:     logging.New(logging.Config{Writer: &logs}),
		Tracing: &observability.TracingConfig{},
	})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer env.Close(ctx)

	if _, err := env.Codec.ReadFile(ctx, filepath.Join(t.TempDir(), "missing.e")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	want := "run_id=" + logging.RunIDFromContext(ctx)
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		if strings.Contains(line, "ephemeris read failed") {
			if !strings.Contains(line, "tool=ephemresample") || !strings.Contains(line, want) {
				t.Fatalf("codec record lacks run fields: %s", line)
			}
			return
		}
	}
	t.Fatalf("no codec record in:\n%s", logs.String())
}

func TestClosePushesRunMetrics(t *testing.T) {
	var path string
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	ctx, env, err := Setup(context.Background(), "tle2ephem", Options{
		MetricsPush: gateway.URL,
		Log:         logging.Noop(),
		Tracing:     &observability.TracingConfig{},
	})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := env.Observe(ctx, "generate", func(context.Context) (int, error) { return 5, nil }); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	env.Close(ctx)

	want := "/metrics/job/tle2ephem/run_id/" + logging.RunIDFromContext(ctx)
	if path != want {
		t.Fatalf("pushed to %q, want %q", path, want)
	}
}
