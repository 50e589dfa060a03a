// Package metrics exports pipeline stage observations to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/seqvec/pipeline"
)

// Prometheus implements pipeline.Observer.
type Prometheus struct {
	latency  *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

var _ pipeline.Observer = (*Prometheus)(nil)

// NewPrometheus creates the collectors and registers them with reg. A nil
// reg uses prometheus.DefaultRegisterer.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	p := &Prometheus{
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "seqvec",
			Name:      "stage_duration_seconds",
			Help:      "Latency of query pipeline stages",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage", "status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seqvec",
			Name:      "stage_failures_total",
			Help:      "Queries aborted, by failing stage",
		}, []string{"stage"}),
	}
	for _, c := range []prometheus.Collector{p.latency, p.failures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ObserveStage records one stage execution.
func (p *Prometheus) ObserveStage(stage pipeline.Stage, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
		p.failures.WithLabelValues(string(stage)).Inc()
	}
	p.latency.WithLabelValues(string(stage), status).Observe(d.Seconds())
}
