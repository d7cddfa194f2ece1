// Package xlscodec encodes a workbook in the legacy Excel 97-2003 binary
// format (.xls): BIFF8 records inside an OLE2 compound file.
//
// Only values are written. Text goes to the shared string table, numbers
// and dates to NUMBER records, booleans to BOOLERR records; nil cells are
// left empty.
package xlscodec

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"time"

	"github.com/go-data-exporter/excel/sheet"
	"github.com/go-data-exporter/excel/tostring"
)

const (
	MaxRows    = 65536
	MaxColumns = 256
)

var (
	ErrTooManyRows    = fmt.Errorf("xls: more than %d rows", MaxRows)
	ErrTooManyColumns = fmt.Errorf("xls: more than %d columns", MaxColumns)
)

type xlsCodec struct {
	customMapper map[reflect.Type]func(any) any
	boldHeader   bool
}

type Option func(*xlsCodec)

func New(opts ...Option) *xlsCodec {
	c := &xlsCodec{
		customMapper: make(map[reflect.Type]func(any) any),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithCustomType registers a conversion for values of type T, applied before
// the value is mapped to a cell record.
func WithCustomType[T any](fn func(v T) any) Option {
	return func(c *xlsCodec) {
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
	return func(c *xlsCodec) {
		c.boldHeader = bold
	}
}

func (c *xlsCodec) Write(book *sheet.Workbook, w io.Writer) error {
	if book.Len() == 0 {
		return sheet.ErrNoWorksheets
	}
	sheets := book.Sheets()
	shared := newSST()

	// Sheet substreams first: they fill the shared string table the
	// globals substream carries.
	substreams := make([]*biffWriter, len(sheets))
	for i, ws := range sheets {
		b, err := c.worksheet(ws, shared, i == 0)
		if err != nil {
			return fmt.Errorf("xls: sheet %q: %w", ws.Title(), err)
		}
		substreams[i] = b
	}

	g := &biffWriter{}
	g.bof(bofGlobals)
	g.record(recCodepage, u16(codepageUTF16))
	g.window1()
	g.record(recDateMode, u16(0))
	// Font index 4 does not exist in BIFF, so five records give 0-3 and 5.
	g.font(false)
	g.font(true)
	g.font(false)
	g.font(false)
	g.font(false)
	for range xfGeneral {
		g.xf(0, 0, true)
	}
	g.xf(0, 0, false)
	g.xf(0, fmtDateTime, false)
	g.xf(1, 0, false)
	g.record(recStyle, []byte{0x00, 0x80, 0x00, 0xFF})
	positions := make([]int, len(sheets))
	for i, ws := range sheets {
		positions[i] = g.boundSheet(0, ws.Title())
	}
	for i, rec := range shared.records() {
		id := uint16(recSST)
		if i > 0 {
			id = recContinue
		}
		g.record(id, rec)
	}
	g.eof()

	stream := g.Bytes()
	offset := len(stream)
	for i, b := range substreams {
		le.PutUint32(stream[positions[i]+4:], uint32(offset))
		offset += b.Len()
	}
	for _, b := range substreams {
		stream = append(stream, b.Bytes()...)
	}
	return writeCompoundFile(w, stream)
}

func (c *xlsCodec) worksheet(ws *sheet.Worksheet, shared *sst, selected bool) (*biffWriter, error) {
	nrows, ncols := ws.Dimensions()
	if nrows > MaxRows {
		return nil, ErrTooManyRows
	}
	if ncols > MaxColumns {
		return nil, ErrTooManyColumns
	}
	b := &biffWriter{}
	b.bof(bofWorksheet)
	b.dimensions(nrows, ncols)
	for r, row := range ws.Rows() {
		for col, v := range row {
			xf := uint16(xfGeneral)
			if r == 0 && c.boldHeader {
				xf = xfBold
			}
			c.cell(b, shared, r, col, xf, v)
		}
	}
	b.window2(selected)
	b.eof()
	return b, nil
}

func (c *xlsCodec) cell(b *biffWriter, shared *sst, row, col int, xf uint16, v any) {
	if v == nil {
		return
	}
	if fn, ok := c.customMapper[reflect.TypeOf(v)]; ok {
		v = fn(v)
	}
	switch v := tostring.Cell(v).(type) {
	case nil:
	case string:
		b.labelSST(row, col, xf, shared.add(v))
	case bool:
		b.boolean(row, col, xf, v)
	case int64:
		b.number(row, col, xf, float64(v))
	case uint64:
		b.number(row, col, xf, float64(v))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			b.labelSST(row, col, xf, shared.add(tostring.ToString(v).String))
			return
		}
		b.number(row, col, xf, v)
	case time.Time:
		if xf == xfGeneral {
			xf = xfDate
		}
		b.number(row, col, xf, serialDate(v))
	}
}
