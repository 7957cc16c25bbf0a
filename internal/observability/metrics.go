package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

// Collector bundles Prometheus metrics for ephemeris file I/O and the
// generate/resample/relative-motion operations run by the tools.
type Collector struct {
	gatherer prometheus.Gatherer

	CodecOperations *prometheus.CounterVec
	Operations      *prometheus.CounterVec
	Durations       *prometheus.HistogramVec
	LastPoints      *prometheus.GaugeVec
}

// NewCollector registers ephemeris metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	codecOps, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ephem_codec_operations_total",
		Help: "Ephemeris file reads and writes, labeled by operation and result.",
	}, []string{"op", "result"}), "ephem_codec_operations_total")
	if err != nil {
		return nil, err
	}

	ops, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ephem_operations_total",
		Help: "Ephemeris computations (generate, resample, ric), labeled by operation and result.",
	}, []string{"op", "result"}), "ephem_operations_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ephem_operation_duration_seconds",
		Help:    "Wall time of ephemeris file and compute operations in seconds.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"op"}), "ephem_operation_duration_seconds")
	if err != nil {
		return nil, err
	}

	points, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ephem_last_points",
		Help: "Number of ephemeris points handled by the most recent successful operation.",
	}, []string{"op"}), "ephem_last_points")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:        gatherer,
		CodecOperations: codecOps,
		Operations:      ops,
		Durations:       durations,
		LastPoints:      points,
	}, nil
}

// ObserveCodec records one file read or write. It satisfies
// ephemfile.MetricsRecorder.
func (c *Collector) ObserveCodec(op string, points int, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	c.observe(c.CodecOperations, op, points, elapsed, err)
}

// ObserveOperation records one ephemeris computation.
func (c *Collector) ObserveOperation(op string, points int, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	c.observe(c.Operations, op, points, elapsed, err)
}

func (c *Collector) observe(counter *prometheus.CounterVec, op string, points int, elapsed time.Duration, err error) {
	result := resultOK
	if err != nil {
		result = resultError
	}
	if counter != nil {
		counter.WithLabelValues(op, result).Inc()
	}
	if c.Durations != nil {
		c.Durations.WithLabelValues(op).Observe(elapsed.Seconds())
	}
	if err == nil && c.LastPoints != nil {
		c.LastPoints.WithLabelValues(op).Set(float64(points))
	}
}

// Push replaces the metrics of job on a Prometheus Pushgateway. The run's
// metrics are grouped under runID so concurrent runs do not overwrite each
// other.
func (c *Collector) Push(ctx context.Context, gatewayURL, job, runID string) error {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	p := push.New(gatewayURL, job).Gatherer(gatherer)
	if runID != "" {
		p = p.Grouping("run_id", runID)
	}
	if err := p.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", gatewayURL, err)
	}
	return nil
}

// WriteTextfile dumps the current metric values in the node-exporter
// textfile format. The file is written atomically.
func (c *Collector) WriteTextfile(path string) error {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
