// Package jsoncodec renders worksheets as JSON objects keyed by their header
// row. It backs previews of a workbook and is not one of the export formats.
package jsoncodec

import (
	"fmt"
	"io"
	"reflect"

	jsoniter "github.com/json-iterator/go"

	"github.com/go-data-exporter/excel/scanner"
	"github.com/go-data-exporter/excel/sheet"
	"github.com/go-data-exporter/excel/tostring"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Option func(*jsonCodec)

type jsonCodec struct {
	customMapper     map[reflect.Type]func(any, scanner.Metadata) any
	preProcessorFunc func(rowID int, row map[string]any) (map[string]any, bool)
	newlineDelimited bool
	limit            int
	sheetIndex       int
}

func New(opts ...Option) *jsonCodec {
	c := &jsonCodec{
		customMapper: make(map[reflect.Type]func(any, scanner.Metadata) any),
		limit:        -1,
		sheetIndex:   -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithPreProcessorFunc may rewrite or drop a row. Returning a map loses the
// header order of the row.
func WithPreProcessorFunc(fn func(rowID int, row map[string]any) (map[string]any, bool)) Option {
	return func(c *jsonCodec) {
		c.preProcessorFunc = fn
	}
}

// WithNewlineDelimited writes one row object per line, sheets one after
// another, instead of a single document.
func WithNewlineDelimited(isNewlineDelimited bool) Option {
	return func(c *jsonCodec) {
		c.newlineDelimited = isNewlineDelimited
	}
}

func WithCustomType[T any](fn func(v T, metadata scanner.Metadata) any) Option {
	return func(c *jsonCodec) {
		var zero T
		typ := reflect.TypeOf(zero)
		if c.customMapper == nil {
			c.customMapper = make(map[reflect.Type]func(any, scanner.Metadata) any)
		}
		c.customMapper[typ] = func(v any, metadata scanner.Metadata) any {
			return fn(v.(T), metadata)
		}
	}
}

// WithLimit caps the number of data rows per sheet. Negative means no limit.
func WithLimit(limit int) Option {
	return func(c *jsonCodec) {
		c.limit = limit
	}
}

// WithSheetIndex writes a single sheet as a top-level array. By default the
// document is an object mapping every sheet title to its rows.
func WithSheetIndex(index int) Option {
	return func(c *jsonCodec) {
		c.sheetIndex = index
	}
}

func (c *jsonCodec) Write(book *sheet.Workbook, writer io.Writer) error {
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

	stream := jsoniter.NewStream(json, writer, 4096)
	single := c.sheetIndex >= 0 || c.newlineDelimited
	if !single {
		stream.WriteObjectStart()
	}
	for i, ws := range sheets {
		if !single {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(ws.Title())
		}
		if err := c.writeSheet(stream, ws); err != nil {
			return fmt.Errorf("json: sheet %q: %w", ws.Title(), err)
		}
	}
	if !single {
		stream.WriteObjectEnd()
	}
	if !c.newlineDelimited {
		stream.WriteRaw("\n")
	}
	return stream.Flush()
}

// writeSheet uses the first row as keys. Columns with an empty header are
// named after their spreadsheet letter.
func (c *jsonCodec) writeSheet(stream *jsoniter.Stream, ws *sheet.Worksheet) error {
	rows := ws.Scanner()
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	var keys []string
	if rows.Next() {
		header, err := rows.ScanRow()
		if err != nil {
			return err
		}
		keys = make([]string, len(header))
		for i, v := range header {
			keys[i] = tostring.ToString(v).String
			if keys[i] == "" {
				keys[i] = columnName(i)
			}
		}
	}

	if !c.newlineDelimited {
		stream.WriteArrayStart()
	}
	written := 0
	for rowID := 1; rows.Next() && (c.limit < 0 || written < c.limit); rowID++ {
		values, err := rows.ScanRow()
		if err != nil {
			return err
		}
		for i, v := range values {
			if fn, ok := c.customMapper[reflect.TypeOf(v)]; ok {
				values[i] = fn(v, scanner.Metadata{RowID: rowID, Driver: rows.Driver(), Column: cols[i]})
			} else {
				values[i] = tostring.Cell(v)
			}
		}
		if c.preProcessorFunc != nil {
			row := make(map[string]any, len(values))
			for i, v := range values {
				row[keys[i]] = v
			}
			row, ok := c.preProcessorFunc(rowID, row)
			if !ok {
				continue
			}
			c.separate(stream, written)
			stream.WriteVal(row)
		} else {
			c.separate(stream, written)
			stream.WriteObjectStart()
			for i, v := range values {
				if i > 0 {
					stream.WriteMore()
				}
				stream.WriteObjectField(keys[i])
				stream.WriteVal(v)
			}
			stream.WriteObjectEnd()
		}
		if c.newlineDelimited {
			stream.WriteRaw("\n")
		}
		written++
		if stream.Error != nil {
			return stream.Error
		}
	}
	if !c.newlineDelimited {
		stream.WriteArrayEnd()
	}
	if stream.Error != nil {
		return stream.Error
	}
	return rows.Err()
}

func (c *jsonCodec) separate(stream *jsoniter.Stream, written int) {
	if written > 0 && !c.newlineDelimited {
		stream.WriteMore()
	}
}

// columnName returns the spreadsheet letter of a zero-based column index.
func columnName(i int) string {
	name := ""
	for i++; i > 0; i = (i - 1) / 26 {
		name = string(rune('A'+(i-1)%26)) + name
	}
	return name
}
