package sheet

import (
	"fmt"
	"strings"
)

// Workbook is an ordered collection of worksheets. A new workbook is empty:
// every sheet it holds was added explicitly.
type Workbook struct {
	sheets []*Worksheet
	titles map[string]int
}

func NewWorkbook() *Workbook {
	return &Workbook{titles: make(map[string]int)}
}

// Add attaches ws after the existing sheets. Titles are compared
// case-insensitively, as spreadsheet applications do.
func (wb *Workbook) Add(ws *Worksheet) error {
	if ws == nil {
		return fmt.Errorf("%w: nil worksheet", ErrInvalidTitle)
	}
	key := strings.ToLower(ws.title)
	if _, ok := wb.titles[key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTitle, ws.title)
	}
	wb.titles[key] = len(wb.sheets)
	wb.sheets = append(wb.sheets, ws)
	return nil
}

// Remove detaches the sheet at index i.
func (wb *Workbook) Remove(i int) error {
	if i < 0 || i >= len(wb.sheets) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	wb.sheets = append(wb.sheets[:i], wb.sheets[i+1:]...)
	wb.titles = make(map[string]int, len(wb.sheets))
	for j, ws := range wb.sheets {
		wb.titles[strings.ToLower(ws.title)] = j
	}
	return nil
}

func (wb *Workbook) Len() int {
	return len(wb.sheets)
}

// Sheets returns the worksheets in insertion order.
func (wb *Workbook) Sheets() []*Worksheet {
	return append([]*Worksheet(nil), wb.sheets...)
}

func (wb *Workbook) Sheet(i int) (*Worksheet, error) {
	if i < 0 || i >= len(wb.sheets) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(wb.sheets))
	}
	return wb.sheets[i], nil
}

func (wb *Workbook) SheetByTitle(title string) (*Worksheet, bool) {
	i, ok := wb.titles[strings.ToLower(title)]
	if !ok {
		return nil, false
	}
	return wb.sheets[i], true
}
