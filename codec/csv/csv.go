package csvcodec

import (
	"encoding/csv"
	"fmt"
	"io"
	"reflect"

	"github.com/go-data-exporter/excel/scanner"
	"github.com/go-data-exporter/excel/sheet"
)

// utf8BOM lets spreadsheet applications detect the encoding of the file.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type csvCodec struct {
	customMapper     map[reflect.Type]func(any, string, scanner.Column) string
	preProcessorFunc func(row []string) ([]string, bool)
	delimiter        rune
	useCRLF          bool
	useBOM           bool
	sheetIndex       int
	nullValue        string
}

type Option func(*csvCodec)

func New(opts ...Option) *csvCodec {
	cw := &csvCodec{
		customMapper: make(map[reflect.Type]func(any, string, scanner.Column) string),
		delimiter:    ',',
		useCRLF:      false,
	}
	for _, opt := range opts {
		opt(cw)
	}
	return cw
}

func WithCustomType[T any](fn func(v T, driver string, column scanner.Column) string) Option {
	return func(cw *csvCodec) {
		var zero T
		typ := reflect.TypeOf(zero)
		if cw.customMapper == nil {
			cw.customMapper = make(map[reflect.Type]func(any, string, scanner.Column) string)
		}
		cw.customMapper[typ] = func(v any, driver string, column scanner.Column) string {
			return fn(v.(T), driver, column)
		}
	}
}

// Write encodes a single worksheet of book, the first one unless
// WithSheetIndex says otherwise. CSV has no notion of several sheets.
func (cs *csvCodec) Write(book *sheet.Workbook, writer io.Writer) error {
	if book.Len() == 0 {
		return sheet.ErrNoWorksheets
	}
	ws, err := book.Sheet(cs.sheetIndex)
	if err != nil {
		return err
	}
	rows := ws.Scanner()
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	if cs.useBOM {
		if _, err := writer.Write(utf8BOM); err != nil {
			return err
		}
	}
	csvWriter := csv.NewWriter(writer)
	if cs.delimiter != 0 {
		csvWriter.Comma = cs.delimiter
	}
	csvWriter.UseCRLF = cs.useCRLF

	for rowID := 1; rows.Next(); rowID++ {
		values, err := rows.ScanRow()
		if err != nil {
			return err
		}
		row := make([]string, len(values))
		for i := range values {
			row[i] = cs.toString(values[i], rows.Driver(), cols[i])
		}
		writeRow := true
		if cs.preProcessorFunc != nil {
			row, writeRow = cs.preProcessorFunc(row)
		}
		if writeRow {
			if err := csvWriter.Write(row); err != nil {
				return fmt.Errorf("failed to write row %d of %q: %w", rowID, ws.Title(), err)
			}
		}
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return err
	}
	return rows.Err()
}

func WithPreProcessorFunc(fn func(row []string) ([]string, bool)) Option {
	return func(cw *csvCodec) {
		cw.preProcessorFunc = fn
	}
}

func WithCustomDelimiter(delimiter rune) Option {
	return func(cw *csvCodec) {
		cw.delimiter = delimiter
	}
}

func WithCRLF(useCRLF bool) Option {
	return func(cw *csvCodec) {
		cw.useCRLF = useCRLF
	}
}

// WithUTF8BOM prefixes the output with a UTF-8 byte order mark.
func WithUTF8BOM(useBOM bool) Option {
	return func(cw *csvCodec) {
		cw.useBOM = useBOM
	}
}

// WithSheetIndex selects the worksheet to encode.
func WithSheetIndex(index int) Option {
	return func(cw *csvCodec) {
		cw.sheetIndex = index
	}
}

func WithCustomNULL(nullValue string) Option {
	return func(cw *csvCodec) {
		cw.nullValue = nullValue
	}
}
