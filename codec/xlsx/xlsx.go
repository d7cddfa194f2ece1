// Package xlsxcodec encodes a workbook as an Office Open XML spreadsheet
// (.xlsx) using excelize's stream writer.
package xlsxcodec

import (
	"fmt"
	"io"
	"reflect"

	"github.com/xuri/excelize/v2"

	"github.com/go-data-exporter/excel/sheet"
	"github.com/go-data-exporter/excel/tostring"
)

var (
	ErrTooManyRows    = fmt.Errorf("xlsx: more than %d rows", excelize.TotalRows)
	ErrTooManyColumns = fmt.Errorf("xlsx: more than %d columns", excelize.MaxColumns)
)

type xlsxCodec struct {
	customMapper map[reflect.Type]func(any) any
	boldHeader   bool
	activeSheet  int
	colWidth     float64
}

type Option func(*xlsxCodec)

func New(opts ...Option) *xlsxCodec {
	c := &xlsxCodec{
		customMapper: make(map[reflect.Type]func(any) any),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithCustomType registers a conversion for values of type T. The result is
// stored as is, so it should be a type excelize understands.
func WithCustomType[T any](fn func(v T) any) Option {
	return func(c *xlsxCodec) {
		var zero T
		typ := reflect.TypeOf(zero)
		if c.customMapper == nil {
			c.customMapper = make(map[reflect.Type]func(any) any)
		}
		c.customMapper[typ] = func(v any) any {
			return fn(v.(T))
		}
	}
}

// WithBoldHeader renders the first row of every sheet in bold.
func WithBoldHeader(bold bool) Option {
	return func(c *xlsxCodec) {
		c.boldHeader = bold
	}
}

// WithActiveSheet selects the sheet shown when the file is opened.
func WithActiveSheet(index int) Option {
	return func(c *xlsxCodec) {
		c.activeSheet = index
	}
}

// WithColumnWidth sets the width of every used column.
func WithColumnWidth(width float64) Option {
	return func(c *xlsxCodec) {
		c.colWidth = width
	}
}

func (c *xlsxCodec) Write(book *sheet.Workbook, w io.Writer) (err error) {
	if book.Len() == 0 {
		return sheet.ErrNoWorksheets
	}
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	headerStyle := 0
	if c.boldHeader {
		if headerStyle, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
			return err
		}
	}
	for i, ws := range book.Sheets() {
		// A new file starts with one default sheet; it becomes the first
		// worksheet so that no implicit sheet survives.
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), ws.Title()); err != nil {
				return fmt.Errorf("xlsx: sheet %q: %w", ws.Title(), err)
			}
		} else if _, err := f.NewSheet(ws.Title()); err != nil {
			return fmt.Errorf("xlsx: sheet %q: %w", ws.Title(), err)
		}
		if err := c.writeSheet(f, ws, headerStyle); err != nil {
			return fmt.Errorf("xlsx: sheet %q: %w", ws.Title(), err)
		}
	}
	if c.activeSheet > 0 && c.activeSheet < book.Len() {
		f.SetActiveSheet(c.activeSheet)
	}
	return f.Write(w)
}

func (c *xlsxCodec) writeSheet(f *excelize.File, ws *sheet.Worksheet, headerStyle int) error {
	nrows, ncols := ws.Dimensions()
	if nrows > excelize.TotalRows {
		return ErrTooManyRows
	}
	if ncols > excelize.MaxColumns {
		return ErrTooManyColumns
	}
	sw, err := f.NewStreamWriter(ws.Title())
	if err != nil {
		return err
	}
	if c.colWidth > 0 && ncols > 0 {
		if err := sw.SetColWidth(1, ncols, c.colWidth); err != nil {
			return err
		}
	}
	for r, row := range ws.Rows() {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = c.cellValue(v)
			if r == 0 && headerStyle != 0 && cells[i] != nil {
				cells[i] = excelize.Cell{StyleID: headerStyle, Value: cells[i]}
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func (c *xlsxCodec) cellValue(v any) any {
	if v == nil {
		return nil
	}
	if fn, ok := c.customMapper[reflect.TypeOf(v)]; ok {
		return fn(v)
	}
	return tostring.Cell(v)
}
