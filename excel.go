// Package excel builds a workbook out of tabular data and exports it as XLS,
// XLSX, HTML or CSV.
//
//	ok := excel.New().
//		Worksheet("Users", source.Table{{"id", "name"}, {1, "ann"}}, nil).
//		Worksheet("Orders", source.FromProvider(orders), nil).
//		Export("report.xlsx", "/tmp/")
//
// The export format follows the filename extension.
package excel

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-data-exporter/excel/codec"
	csvcodec "github.com/go-data-exporter/excel/codec/csv"
	htmlcodec "github.com/go-data-exporter/excel/codec/html"
	xlscodec "github.com/go-data-exporter/excel/codec/xls"
	xlsxcodec "github.com/go-data-exporter/excel/codec/xlsx"
	"github.com/go-data-exporter/excel/metrics"
	"github.com/go-data-exporter/excel/sheet"
	"github.com/go-data-exporter/excel/source"
)

// Output is the path that sends an export to the live output instead of a file.
const Output = "php://output"

// DefaultScenario selects safe attributes when no scenario is configured.
const DefaultScenario = "search"

// RenderFunc fills a freshly created worksheet from src.
type RenderFunc func(ws *sheet.Worksheet, src source.Source) error

type Excel struct {
	workbook *sheet.Workbook
	scenario string
	out      io.Writer
	now      func() time.Time
	logger   *slog.Logger
	metrics  *metrics.Collector

	csvOpts  []csvcodec.Option
	htmlOpts []htmlcodec.Option
	xlsxOpts []xlsxcodec.Option
	xlsOpts  []xlscodec.Option

	err error
}

func New(opts ...Option) *Excel {
	e := &Excel{
		workbook: sheet.NewWorkbook(),
		scenario: DefaultScenario,
		out:      os.Stdout,
		now:      time.Now,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddWorksheet renders src into a new worksheet titled title and appends it
// to the workbook. A nil render uses DefaultRender. The worksheet is only
// attached once it is fully populated, so on error the workbook is unchanged.
func (e *Excel) AddWorksheet(title string, src source.Source, render RenderFunc) error {
	ws, err := sheet.New(title)
	if err != nil {
		return &WorksheetError{Title: title, Err: err}
	}
	if _, exists := e.workbook.SheetByTitle(title); exists {
		return &WorksheetError{Title: title, Err: sheet.ErrDuplicateTitle}
	}
	if render == nil {
		render = e.DefaultRender
	}
	if err := render(ws, src); err != nil {
		return &WorksheetError{Title: title, Err: err}
	}
	if err := e.workbook.Add(ws); err != nil {
		return &WorksheetError{Title: title, Err: err}
	}
	rows, cols := ws.Dimensions()
	e.logger.Debug("worksheet added",
		slog.String("title", title),
		slog.Int("rows", rows),
		slog.Int("columns", cols),
		slog.Int("dropped", ws.Dropped()),
	)
	e.metrics.RecordWorksheet(ws.Dropped())
	return nil
}

// Worksheet is the chaining form of AddWorksheet. After the first failure the
// remaining calls do nothing; Err reports the failure and Export refuses to run.
func (e *Excel) Worksheet(title string, src source.Source, render RenderFunc) *Excel {
	if e.err != nil {
		return e
	}
	e.err = e.AddWorksheet(title, src, render)
	return e
}

// Scenario sets the scenario used by DefaultRender from now on.
func (e *Excel) Scenario(name string) *Excel {
	e.scenario = name
	return e
}

func (e *Excel) Err() error {
	return e.err
}

func (e *Excel) Workbook() *sheet.Workbook {
	return e.workbook
}

// DefaultRender normalizes src under the current scenario and bulk-fills ws
// from cell A1.
func (e *Excel) DefaultRender(ws *sheet.Worksheet, src source.Source) error {
	res, err := source.Normalize(src, e.scenario)
	if err != nil {
		return err
	}
	ws.FromArray(res.Rows)
	ws.SetDropped(res.Dropped)
	if res.Dropped > 0 {
		e.logger.Debug("non-tabular elements dropped",
			slog.String("title", ws.Title()),
			slog.Int("dropped", res.Dropped),
		)
	}
	return nil
}

// Export writes the workbook in the format selected by the extension of
// filename. An empty filename becomes "Export_<unix time>". Unknown
// extensions export CSV and get ".csv" appended.
//
// With path "" or Output the workbook goes to the live output, preceded by
// download headers when the output supports them. Otherwise it is written to
// path+filename; a failed write leaves no file behind. Failures are logged
// and reported as false.
func (e *Excel) Export(filename, path string) bool {
	if filename == "" {
		filename = fmt.Sprintf("Export_%d", e.now().Unix())
	}
	format, filename := FormatFromFilename(filename)
	if e.err != nil {
		e.logger.Error("export skipped", slog.String("filename", filename), slog.Any("error", e.err))
		e.metrics.RecordExport(string(format), false, 0, 0)
		return false
	}

	start := time.Now()
	var (
		written int64
		err     error
		target  = Output
	)
	if path == "" || path == Output {
		written, err = e.exportOutput(filename, format)
	} else {
		target = path + filename
		written, err = e.exportFile(target, format)
	}
	elapsed := time.Since(start)
	e.metrics.RecordExport(string(format), err == nil, elapsed, written)
	if err != nil {
		e.logger.Error("export failed",
			slog.String("target", target),
			slog.String("format", string(format)),
			slog.Any("error", err),
		)
		return false
	}
	e.logger.Info("workbook exported",
		slog.String("target", target),
		slog.String("format", string(format)),
		slog.Int("worksheets", e.workbook.Len()),
		slog.Int64("bytes", written),
		slog.Duration("elapsed", elapsed),
	)
	return true
}

// ExportTo encodes the workbook to w.
func (e *Excel) ExportTo(w io.Writer, format Format) error {
	c, err := e.Codec(format)
	if err != nil {
		return err
	}
	return c.Write(e.workbook, w)
}

// Codec returns the configured encoder for format.
func (e *Excel) Codec(format Format) (codec.Codec, error) {
	switch format {
	case FormatXLS:
		return codec.XLS(e.xlsOpts...), nil
	case FormatXLSX:
		return codec.XLSX(e.xlsxOpts...), nil
	case FormatHTML:
		return codec.HTML(e.htmlOpts...), nil
	case FormatCSV:
		return codec.CSV(e.csvOpts...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// WriteHeaders sets the download headers for an export named filename.
func WriteHeaders(h http.Header, filename string, format Format) {
	h.Set("Content-Type", format.ContentType())
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	h.Set("Cache-Control", "max-age=0")
}

type headerWriter interface {
	Header() http.Header
}

func (e *Excel) exportOutput(filename string, format Format) (int64, error) {
	if hw, ok := e.out.(headerWriter); ok {
		WriteHeaders(hw.Header(), filename, format)
	}
	cw := &countingWriter{w: e.out}
	err := e.ExportTo(cw, format)
	return cw.n, err
}

func (e *Excel) exportFile(filename string, format Format) (int64, error) {
	f, err := os.Create(filename)
	if err != nil {
		return 0, err
	}
	cw := &countingWriter{w: f}
	if err := e.ExportTo(cw, format); err != nil {
		return 0, errors.Join(err, f.Close(), os.Remove(filename))
	}
	if err := f.Close(); err != nil {
		return 0, errors.Join(err, os.Remove(filename))
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
