package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PollMetrics records outcomes of the background refresh loops.
type PollMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewPollMetrics registers the poll metrics on the provided registerer.
func NewPollMetrics(reg prometheus.Registerer) *PollMetrics {
	if reg == nil {
		return &PollMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "poll_duration_seconds",
		Help:    "Duration of poll ticks in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"purpose"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "poll_success",
		Help: "Successful poll ticks.",
	}, []string{"purpose"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "poll_failure",
		Help: "Failed poll ticks.",
	}, []string{"purpose"})
	reg.MustRegister(duration, success, failure)
	return &PollMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records how long one tick of the named purpose took.
func (p *PollMetrics) ObserveDuration(purpose string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(purpose)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named purpose.
func (p *PollMetrics) IncSuccess(purpose string) {
	if p == nil || p.success == nil {
		return
	}
	p.success.WithLabelValues(normalizeLabel(purpose)).Inc()
}

// IncFailure increments the failure counter for the named purpose.
func (p *PollMetrics) IncFailure(purpose string) {
	if p == nil || p.failure == nil {
		return
	}
	p.failure.WithLabelValues(normalizeLabel(purpose)).Inc()
}

func normalizeLabel(purpose string) string {
	if purpose == "" {
		return "unknown"
	}
	return purpose
}
