package loader

import (
	"context"
	"unicode/utf8"

	"github.com/go-data-exporter/excel"
	csvcodec "github.com/go-data-exporter/excel/codec/csv"
	htmlcodec "github.com/go-data-exporter/excel/codec/html"
	xlscodec "github.com/go-data-exporter/excel/codec/xls"
	xlsxcodec "github.com/go-data-exporter/excel/codec/xlsx"
	"github.com/go-data-exporter/excel/internal/config"
)

// Options translates the export defaults of the configuration file into
// builder options.
func Options(cfg config.ExportConfig) []excel.Option {
	csvOpts := []csvcodec.Option{
		csvcodec.WithCRLF(cfg.CSV.CRLF),
		csvcodec.WithUTF8BOM(cfg.CSV.BOM),
		csvcodec.WithCustomNULL(cfg.CSV.Null),
	}
	if r, _ := utf8.DecodeRuneInString(cfg.CSV.Delimiter); r != utf8.RuneError {
		csvOpts = append(csvOpts, csvcodec.WithCustomDelimiter(r))
	}
	htmlOpts := []htmlcodec.Option{}
	if cfg.HTML.Title != "" {
		htmlOpts = append(htmlOpts, htmlcodec.WithTitle(cfg.HTML.Title))
	}
	if cfg.HTML.HeaderRow != nil {
		htmlOpts = append(htmlOpts, htmlcodec.WithHeaderRow(*cfg.HTML.HeaderRow))
	}
	xlsxOpts := []xlsxcodec.Option{xlsxcodec.WithBoldHeader(cfg.XLSX.BoldHeader)}
	if cfg.XLSX.ColumnWidth > 0 {
		xlsxOpts = append(xlsxOpts, xlsxcodec.WithColumnWidth(cfg.XLSX.ColumnWidth))
	}
	return []excel.Option{
		excel.WithScenario(cfg.Scenario),
		excel.WithCSVOptions(csvOpts...),
		excel.WithHTMLOptions(htmlOpts...),
		excel.WithXLSXOptions(xlsxOpts...),
		excel.WithXLSOptions(xlscodec.WithBoldHeader(cfg.XLS.BoldHeader)),
	}
}

// Build loads every sheet of job and adds it to a new builder created with
// opts. The job scenario overrides the one in opts.
func (l *Loader) Build(ctx context.Context, job config.JobConfig, opts ...excel.Option) (*excel.Excel, error) {
	opts = append(opts, excel.WithLogger(l.logger.With("job", job.Name)))
	if job.Scenario != "" {
		opts = append(opts, excel.WithScenario(job.Scenario))
	}
	book := excel.New(opts...)
	for _, s := range job.Sheets {
		src, err := l.Load(ctx, s.Source)
		if err != nil {
			return nil, &excel.WorksheetError{Title: s.Title, Err: err}
		}
		if err := book.AddWorksheet(s.Title, src, nil); err != nil {
			return nil, err
		}
	}
	return book, nil
}
