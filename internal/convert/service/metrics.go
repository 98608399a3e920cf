package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	files    *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics registers the conversion collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "csvexport",
			Name:      "files_total",
			Help:      "Workbooks processed, by outcome.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "csvexport",
			Name:      "convert_duration_seconds",
			Help:      "Time spent converting one workbook.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
	}
	reg.MustRegister(m.files, m.duration)
	return m
}

func (m *Metrics) observe(ok bool, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.files.WithLabelValues(status).Inc()
	m.duration.Observe(d.Seconds())
}
