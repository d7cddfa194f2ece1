// Package sheet holds the in-memory workbook model: an ordered set of
// uniquely titled worksheets, each a row-major grid of cell values.
package sheet

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-data-exporter/excel/scanner"
)

// MaxTitleLength is the longest worksheet title spreadsheet applications accept.
const MaxTitleLength = 31

var (
	ErrEmptyTitle      = errors.New("sheet: worksheet title is empty")
	ErrTitleTooLong    = fmt.Errorf("sheet: worksheet title is longer than %d characters", MaxTitleLength)
	ErrInvalidTitle    = errors.New("sheet: worksheet title contains an invalid character")
	ErrDuplicateTitle  = errors.New("sheet: worksheet title already exists in the workbook")
	ErrNoWorksheets    = errors.New("sheet: workbook has no worksheets")
	ErrIndexOutOfRange = errors.New("sheet: worksheet index out of range")
)

const invalidTitleChars = `:\/?*[]`

// ValidateTitle reports whether title can name a worksheet.
func ValidateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("%w: %q", ErrTitleTooLong, title)
	}
	if strings.ContainsAny(title, invalidTitleChars) {
		return fmt.Errorf("%w: %q", ErrInvalidTitle, title)
	}
	if strings.HasPrefix(title, "'") || strings.HasSuffix(title, "'") {
		return fmt.Errorf("%w: %q may not begin or end with an apostrophe", ErrInvalidTitle, title)
	}
	return nil
}

// Worksheet is a named grid of cells. Row 0 conventionally holds headers.
type Worksheet struct {
	title   string
	cells   [][]any
	width   int
	dropped int
}

// New returns an empty, detached worksheet.
func New(title string) (*Worksheet, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	return &Worksheet{title: title}, nil
}

func (ws *Worksheet) Title() string {
	return ws.title
}

// FromArray replaces the content of the worksheet with rows, written
// row-major starting at the first cell. The rows are copied.
func (ws *Worksheet) FromArray(rows [][]any) *Worksheet {
	ws.cells = make([][]any, len(rows))
	ws.width = 0
	for i, row := range rows {
		ws.cells[i] = append([]any(nil), row...)
		ws.width = max(ws.width, len(row))
	}
	return ws
}

// AppendRow adds a row below the last one.
func (ws *Worksheet) AppendRow(values ...any) {
	ws.cells = append(ws.cells, append([]any(nil), values...))
	ws.width = max(ws.width, len(values))
}

// SetCell stores v at the zero-based row and column, growing the grid.
func (ws *Worksheet) SetCell(row, col int, v any) {
	if row < 0 || col < 0 {
		return
	}
	for len(ws.cells) <= row {
		ws.cells = append(ws.cells, nil)
	}
	for len(ws.cells[row]) <= col {
		ws.cells[row] = append(ws.cells[row], nil)
	}
	ws.cells[row][col] = v
	ws.width = max(ws.width, col+1)
}

// Cell returns the value at row, col, or nil outside the grid.
func (ws *Worksheet) Cell(row, col int) any {
	if row < 0 || row >= len(ws.cells) || col < 0 || col >= len(ws.cells[row]) {
		return nil
	}
	return ws.cells[row][col]
}

// Dimensions returns the number of rows and the width of the widest row.
func (ws *Worksheet) Dimensions() (rows, cols int) {
	return len(ws.cells), ws.width
}

// Rows returns a copy of the grid with every row padded to the same width.
func (ws *Worksheet) Rows() [][]any {
	out := make([][]any, len(ws.cells))
	for i, row := range ws.cells {
		padded := make([]any, ws.width)
		copy(padded, row)
		out[i] = padded
	}
	return out
}

// Scanner exposes the worksheet as scanner.Rows for the format codecs.
func (ws *Worksheet) Scanner() scanner.Rows {
	return scanner.FromData(ws.Rows())
}

// SetDropped records how many source elements were discarded while rendering.
func (ws *Worksheet) SetDropped(n int) {
	ws.dropped = n
}

func (ws *Worksheet) Dropped() int {
	return ws.dropped
}
