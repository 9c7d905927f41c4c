// Package metrics provides Prometheus metrics for pipe sessions.
//
// A session is a one-shot process, so the collector lives on a private
// registry and is persisted with WriteTextfile for the node exporter's
// textfile collector rather than served over HTTP.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Session outcomes used as the "outcome" label.
const (
	OutcomeSuccess           = "success"
	OutcomeLaunchFailed      = "launch_failed"
	OutcomeResourceExhausted = "resource_exhausted"
	OutcomeIOError           = "io_error"
	OutcomeOther             = "other"
)

// Collector records session metrics. A nil *Collector is valid and records
// nothing.
type Collector struct {
	registry *prometheus.Registry

	sessionsTotal   *prometheus.CounterVec
	sessionDuration prometheus.Histogram
	linesTotal      *prometheus.CounterVec
	offspringExit   prometheus.Gauge
}

// NewCollector creates a collector on a fresh registry.
func NewCollector() *Collector {
	return NewCollectorWithRegistry(prometheus.NewRegistry())
}

// NewCollectorWithRegistry creates a collector registered on reg.
func NewCollectorWithRegistry(reg *prometheus.Registry) *Collector {
	c := &Collector{
		registry: reg,
		sessionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipechild_sessions_total",
				Help: "Completed sessions by outcome",
			},
			[]string{"outcome"},
		),
		sessionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pipechild_session_duration_seconds",
				Help:    "Wall time from pipe allocation to offspring exit",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
		),
		linesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipechild_lines_total",
				Help: "Lines exchanged with the offspring by stream",
			},
			[]string{"stream"},
		),
		offspringExit: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pipechild_offspring_exit_code",
				Help: "Exit code of the last offspring (-1 if killed by a signal)",
			},
		),
	}

	reg.MustRegister(c.sessionsTotal, c.sessionDuration, c.linesTotal, c.offspringExit)

	return c
}

// ObserveSession records a finished session.
func (c *Collector) ObserveSession(outcome string, d time.Duration) {
	if c == nil {
		return
	}

	c.sessionsTotal.WithLabelValues(outcome).Inc()
	c.sessionDuration.Observe(d.Seconds())
}

// ObserveLine records one line written to or read from stream.
func (c *Collector) ObserveLine(stream string) {
	if c == nil {
		return
	}

	c.linesTotal.WithLabelValues(stream).Inc()
}

// ObserveExit records the offspring's exit code.
func (c *Collector) ObserveExit(code int) {
	if c == nil {
		return
	}

	c.offspringExit.Set(float64(code))
}

// Registry returns the registry the collector is registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil {
		return nil
	}

	return prometheus.WriteToTextfile(path, c.registry)
}
