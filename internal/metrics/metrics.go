package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for content resolutions.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Recorder tracks page content resolutions on its own registry.
type Recorder struct {
	registry    *prometheus.Registry
	resolutions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewRecorder builds a Recorder with Go runtime and process collectors.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	resolutions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pagecontent",
			Name:      "resolutions_total",
			Help:      "Page content resolutions by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pagecontent",
			Name:      "resolution_duration_seconds",
			Help:      "Time spent resolving page content",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	registry.MustRegister(
		resolutions,
		duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Recorder{registry: registry, resolutions: resolutions, duration: duration}
}

// Observe records one resolution. A nil Recorder is a no-op.
func (r *Recorder) Observe(endpoint, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.resolutions.WithLabelValues(endpoint, outcome).Inc()
	r.duration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
