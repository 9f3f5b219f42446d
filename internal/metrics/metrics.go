package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "eohchart"

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics owns its registry so that independent instances do not collide.
type Metrics struct {
	registry       *prometheus.Registry
	builds         *prometheus.CounterVec
	extraRejected  *prometheus.CounterVec
	exports        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_builds_total",
			Help:      "Dataset builds by input strategy and result.",
		}, []string{"strategy", "result"}),
		extraRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extra_column_rejections_total",
			Help:      "Rejected extra columns by reason.",
		}, []string{"reason"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Chart exports by format and result.",
		}, []string{"format", "result"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering chart exports.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"format"}),
	}

	m.registry.MustRegister(m.builds, m.extraRejected, m.exports, m.renderDuration)

	return m
}

func (m *Metrics) ObserveBuild(strategy string, err error) {
	m.builds.WithLabelValues(strategy, result(err)).Inc()
}

func (m *Metrics) ObserveExtraRejected(reason string) {
	m.extraRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveExport(format string, started time.Time, err error) {
	m.exports.WithLabelValues(format, result(err)).Inc()
	m.renderDuration.WithLabelValues(format).Observe(time.Since(started).Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
