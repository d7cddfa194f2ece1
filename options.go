package excel

import (
	"io"
	"log/slog"
	"time"

	csvcodec "github.com/go-data-exporter/excel/codec/csv"
	htmlcodec "github.com/go-data-exporter/excel/codec/html"
	xlscodec "github.com/go-data-exporter/excel/codec/xls"
	xlsxcodec "github.com/go-data-exporter/excel/codec/xlsx"
	"github.com/go-data-exporter/excel/metrics"
)

type Option func(*Excel)

// WithScenario sets the scenario used to select safe attributes of records.
func WithScenario(scenario string) Option {
	return func(e *Excel) {
		e.scenario = scenario
	}
}

// WithOutput replaces os.Stdout as the live output. If w also has a
// Header() http.Header method, Export sets download headers on it.
func WithOutput(w io.Writer) Option {
	return func(e *Excel) {
		e.out = w
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Excel) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithMetrics(c *metrics.Collector) Option {
	return func(e *Excel) {
		e.metrics = c
	}
}

// WithClock replaces time.Now, which names unnamed exports.
func WithClock(now func() time.Time) Option {
	return func(e *Excel) {
		if now != nil {
			e.now = now
		}
	}
}

func WithCSVOptions(opts ...csvcodec.Option) Option {
	return func(e *Excel) {
		e.csvOpts = append(e.csvOpts, opts...)
	}
}

func WithHTMLOptions(opts ...htmlcodec.Option) Option {
	return func(e *Excel) {
		e.htmlOpts = append(e.htmlOpts, opts...)
	}
}

func WithXLSXOptions(opts ...xlsxcodec.Option) Option {
	return func(e *Excel) {
		e.xlsxOpts = append(e.xlsxOpts, opts...)
	}
}

func WithXLSOptions(opts ...xlscodec.Option) Option {
	return func(e *Excel) {
		e.xlsOpts = append(e.xlsOpts, opts...)
	}
}
