// Package metrics exposes Prometheus collectors for simulations served by the API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	KindSimulate = "simulate"
	KindDay      = "day"
	KindSizing   = "sizing"

	StatusOK    = "ok"
	StatusError = "error"
)

// Recorder counts simulation requests and times them.
type Recorder struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	cached   prometheus.Gauge
}

// NewRecorder registers on the default registerer.
func NewRecorder() (*Recorder, error) {
	return NewRecorderWithRegistry(prometheus.DefaultRegisterer)
}

// NewRecorderWithRegistry registers the collectors on reg. If they are already
// registered, the existing ones are reused.
func NewRecorderWithRegistry(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "simulations_total",
		Help: "Total number of simulation requests by kind and outcome",
	}, []string{"kind", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "simulation_duration_seconds",
		Help:    "Wall time spent computing a simulation",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	cached := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "simulation_results_cached",
		Help: "Simulation results currently held for retrieval",
	})

	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(cached); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			cached = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	return &Recorder{runs: runs, duration: duration, cached: cached}, nil
}

// Observe records one finished request. A nil Recorder is a no-op.
func (r *Recorder) Observe(kind string, took time.Duration, err error) {
	if r == nil {
		return
	}
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	r.runs.WithLabelValues(kind, status).Inc()
	r.duration.WithLabelValues(kind).Observe(took.Seconds())
}

func (r *Recorder) SetCached(n int) {
	if r == nil {
		return
	}
	r.cached.Set(float64(n))
}
