package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollector(registry)

	c.RecordExport(".csv", true, time.Millisecond, 120)
	c.RecordExport(".csv", false, time.Millisecond, 0)
	c.RecordExport(".xlsx", true, time.Millisecond, 4096)
	c.RecordWorksheet(0)
	c.RecordWorksheet(3)

	if got := testutil.ToFloat64(c.exports.WithLabelValues(".csv", "success")); got != 1 {
		t.Errorf("csv success = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.exports.WithLabelValues(".csv", "failure")); got != 1 {
		t.Errorf("csv failure = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.exportBytes.WithLabelValues(".xlsx")); got != 4096 {
		t.Errorf("xlsx bytes = %v, want 4096", got)
	}
	if got := testutil.ToFloat64(c.worksheets); got != 2 {
		t.Errorf("worksheets = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.dropped); got != 3 {
		t.Errorf("dropped = %v, want 3", got)
	}
	if n, err := testutil.GatherAndCount(registry); err != nil || n == 0 {
		t.Errorf("GatherAndCount = %d, %v", n, err)
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.RecordExport(".csv", true, time.Second, 1)
	c.RecordWorksheet(1)
}
