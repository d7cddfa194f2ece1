package htmlcodec

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"reflect"
	"strings"

	"github.com/go-data-exporter/excel/scanner"
	"github.com/go-data-exporter/excel/sheet"
	"github.com/go-data-exporter/excel/tostring"
)

type htmlCodec struct {
	customMapper     map[reflect.Type]func(any, string, scanner.Column) tostring.String
	preProcessorFunc func(row []string) ([]string, bool)
	toStringFunc     func(v any) tostring.String
	headerRow        bool
	sheetIndex       int
	title            string
	nullValue        string
}

type Option func(*htmlCodec)

func New(opts ...Option) *htmlCodec {
	cw := &htmlCodec{
		customMapper: make(map[reflect.Type]func(any, string, scanner.Column) tostring.String),
		headerRow:    true,
		sheetIndex:   -1,
		title:        "Export",
		toStringFunc: tostring.ToString,
		nullValue:    "",
	}
	for _, opt := range opts {
		opt(cw)
	}
	return cw
}

func WithCustomType[T any](fn func(v T, driver string, column scanner.Column) tostring.String) Option {
	return func(cw *htmlCodec) {
		var zero T
		typ := reflect.TypeOf(zero)
		if cw.customMapper == nil {
			cw.customMapper = make(map[reflect.Type]func(any, string, scanner.Column) tostring.String)
		}
		cw.customMapper[typ] = func(v any, driver string, column scanner.Column) tostring.String {
			return fn(v.(T), driver, column)
		}
	}
}

// WithPreProcessorFunc receives the escaped cells of every row and may
// rewrite or drop it.
func WithPreProcessorFunc(fn func(row []string) ([]string, bool)) Option {
	return func(cw *htmlCodec) {
		cw.preProcessorFunc = fn
	}
}

func WithCustomToStringFunc(fn func(v any) tostring.String) Option {
	return func(cw *htmlCodec) {
		cw.toStringFunc = fn
	}
}

// WithHeaderRow renders the first row of each sheet as table headers.
func WithHeaderRow(headerRow bool) Option {
	return func(cw *htmlCodec) {
		cw.headerRow = headerRow
	}
}

// WithSheetIndex renders only one worksheet. By default all are rendered.
func WithSheetIndex(index int) Option {
	return func(cw *htmlCodec) {
		cw.sheetIndex = index
	}
}

func WithTitle(title string) Option {
	return func(cw *htmlCodec) {
		cw.title = title
	}
}

// WithCustomNULL sets the markup written for NULL cells. It is not escaped.
func WithCustomNULL(nullValue string) Option {
	return func(cw *htmlCodec) {
		cw.nullValue = nullValue
	}
}

var htmlStyle = strings.Join(strings.Fields(`<style>
	body, html {
	  margin: 0;
	  padding: 0;
	  font-family: sans-serif;
	}
	h2 {
	  font-size: 16px;
	  padding: 10px;
	}
	table {
	  width: 100%;
	  border-spacing: 0px;
	  margin-bottom: 20px;
	}
	th {
	  border:1px solid #dedede;
	  padding: 15px;
	  border-top: 0px solid red;
	  border-left: 0px solid red;
	  background: #f9f9f9;
	}
	td {
	  border: 1px solid #dedede;
	  border-top: 0px solid red;
	  border-left: 0px solid red;
	  padding: 10px 10px 10px 10px;
	  max-width:700px;
	  overflow-x: auto;
	  white-space: nowrap;
	}
	</style>`), " ")

func (c *htmlCodec) Write(book *sheet.Workbook, writer io.Writer) error {
	if book.Len() == 0 {
		return sheet.ErrNoWorksheets
	}
	sheets := book.Sheets()
	if c.sheetIndex >= 0 {
		ws, err := book.Sheet(c.sheetIndex)
		if err != nil {
			return err
		}
		sheets = []*sheet.Worksheet{ws}
	}
	w := bufio.NewWriter(writer)
	fmt.Fprintf(w, `<!DOCTYPE html><html><head><meta charset="utf-8"><title>%s</title>`, html.EscapeString(c.title))
	w.WriteString(htmlStyle)
	w.WriteString(`</head><body>`)
	for _, ws := range sheets {
		if err := c.writeSheet(w, ws); err != nil {
			return err
		}
	}
	w.WriteString(`</body></html>`)
	return w.Flush()
}

func (c *htmlCodec) writeSheet(w *bufio.Writer, ws *sheet.Worksheet) error {
	rows := ws.Scanner()
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, `<h2>%s</h2><table>`, html.EscapeString(ws.Title()))
	body := false
	for i := 0; rows.Next(); i++ {
		values, err := rows.ScanRow()
		if err != nil {
			return err
		}
		row := make([]string, len(values))
		for j := range values {
			row[j] = c.toString(values[j], rows.Driver(), cols[j])
		}
		writeRow := true
		if c.preProcessorFunc != nil {
			row, writeRow = c.preProcessorFunc(row)
		}
		if !writeRow {
			continue
		}
		cell := "td"
		if i == 0 && c.headerRow {
			cell = "th"
			w.WriteString(`<thead>`)
		} else if !body {
			w.WriteString(`<tbody>`)
			body = true
		}
		w.WriteString(`<tr>`)
		for j := range row {
			fmt.Fprintf(w, "<%s>%s</%s>", cell, row[j], cell)
		}
		w.WriteString(`</tr>`)
		if cell == "th" {
			w.WriteString(`</thead>`)
		}
	}
	if body {
		w.WriteString(`</tbody>`)
	}
	w.WriteString(`</table>`)
	return rows.Err()
}

func (cs *htmlCodec) toString(v any, driver string, column scanner.Column) string {
	if v == nil {
		return cs.nullValue
	}
	if fn, ok := cs.customMapper[reflect.TypeOf(v)]; ok {
		s := fn(v, driver, column)
		if s.IsNULL {
			return cs.nullValue
		}
		return html.EscapeString(s.String)
	}
	s := cs.toStringFunc(v)
	if s.IsNULL {
		return cs.nullValue
	}
	return html.EscapeString(s.String)
}
