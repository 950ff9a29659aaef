// Package metrics counts patch runs and step failures. The process is
// short-lived, so metrics are written to a node-exporter textfile instead
// of being served.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the run metrics of one invocation. A nil *Recorder
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	runs         *prometheus.CounterVec
	stepFailures *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// New registers the run metrics on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cpatch_runs_total",
			Help: "Patch runs by mode and outcome.",
		}, []string{"mode", "outcome"}),
		stepFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cpatch_step_failures_total",
			Help: "Runs that stopped at a step, by step and error kind.",
		}, []string{"step", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cpatch_run_duration_seconds",
			Help:    "Wall time of a patch run.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"mode"}),
	}
	r.registry.MustRegister(r.runs, r.stepFailures, r.duration)
	return r
}

// RunFinished records one completed run. failedStep and kind are empty on
// success.
func (r *Recorder) RunFinished(mode, failedStep, kind string, took time.Duration) {
	if r == nil {
		return
	}
	if mode == "" {
		mode = "unspecified"
	}
	outcome := "success"
	if failedStep != "" {
		outcome = "failure"
		r.stepFailures.WithLabelValues(failedStep, kind).Inc()
	}
	r.runs.WithLabelValues(mode, outcome).Inc()
	r.duration.WithLabelValues(mode).Observe(took.Seconds())
}

// Gatherer exposes the registry, mainly for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all metrics to path atomically. Nil recorders and
// empty paths are no-ops.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
