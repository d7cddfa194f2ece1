// Package metrics exposes Prometheus instrumentation for workbook exports.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "excel"

// Collector records export activity. A nil *Collector is valid and records
// nothing.
type Collector struct {
	exports        *prometheus.CounterVec
	exportDuration *prometheus.HistogramVec
	exportBytes    *prometheus.CounterVec
	worksheets     prometheus.Counter
	dropped        prometheus.Counter
}

// NewCollector creates the metrics and registers them with registerer.
// Passing nil skips registration, which is convenient in tests.
func NewCollector(registerer prometheus.Registerer) *Collector {
	c := &Collector{
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Workbook exports by format and result.",
		}, []string{"format", "result"}),
		exportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_duration_seconds",
			Help:      "Time spent encoding and writing a workbook.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"format"}),
		exportBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_bytes_total",
			Help:      "Bytes written by successful exports.",
		}, []string{"format"}),
		worksheets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worksheets_total",
			Help:      "Worksheets added to workbooks.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_elements_total",
			Help:      "Source elements left out of worksheets because they are not tabular.",
		}),
	}
	if registerer != nil {
		registerer.MustRegister(c.exports, c.exportDuration, c.exportBytes, c.worksheets, c.dropped)
	}
	return c
}

// RecordExport counts one export attempt.
func (c *Collector) RecordExport(format string, ok bool, duration time.Duration, written int64) {
	if c == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	c.exports.WithLabelValues(format, result).Inc()
	c.exportDuration.WithLabelValues(format).Observe(duration.Seconds())
	if ok && written > 0 {
		c.exportBytes.WithLabelValues(format).Add(float64(written))
	}
}

// RecordWorksheet counts one added worksheet and the elements it dropped.
func (c *Collector) RecordWorksheet(dropped int) {
	if c == nil {
		return
	}
	c.worksheets.Inc()
	if dropped > 0 {
		c.dropped.Add(float64(dropped))
	}
}
