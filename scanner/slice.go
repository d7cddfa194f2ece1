// Package scanner defines interfaces and implementations for reading tabular data.
// This file provides an in-memory implementation of Rows backed by a slice of rows.
package scanner

import (
	"errors"
	"fmt"
	"io"
	"reflect"
)

// sliceRowsScanner implements the Rows interface using a slice of slices.
// Worksheets are handed to the codecs through it.
type sliceRowsScanner struct {
	rows    [][]any  // The raw data: each inner slice is a row.
	names   []string // Optional column names; column_N when absent.
	columns []Column // Derived column metadata.
	lastRow []any    // The last read row, cached after Next().
	cursor  int      // The index of the current row.
}

// FromData creates a new Rows scanner from a 2D slice of data.
// Each inner slice represents a row. Column metadata is inferred from the first row.
func FromData(rows [][]any) Rows {
	s := &sliceRowsScanner{rows: rows}
	s.columns, _ = s.Columns()
	return s
}

// FromTable is FromData with explicit column names. Missing names fall back
// to column_N.
func FromTable(names []string, rows [][]any) Rows {
	s := &sliceRowsScanner{rows: rows, names: names}
	s.columns, _ = s.Columns()
	return s
}

// Driver returns a string identifying the data source as an in-memory slice.
func (s *sliceRowsScanner) Driver() string {
	return "go-slice"
}

// Err always returns nil for sliceRowsScanner since errors are handled immediately.
func (s *sliceRowsScanner) Err() error {
	return nil
}

// Next prepares the next row for reading. Returns false when no more rows are available.
func (s *sliceRowsScanner) Next() bool {
	if s.cursor >= len(s.rows) {
		return false
	}
	s.lastRow = s.rows[s.cursor]
	return true
}

// ScanRow returns the current row's data.
// It must be called only after a successful call to Next().
func (s *sliceRowsScanner) ScanRow() ([]any, error) {
	if s.cursor >= len(s.rows) {
		return nil, io.EOF
	}
	if s.lastRow == nil && len(s.rows[s.cursor]) != 0 {
		return nil, errors.New("go-data-exporter: scan called without calling Next")
	}
	if s.cursor != 0 {
		if len(s.lastRow) != len(s.columns) {
			return nil, fmt.Errorf("length of row %d != length of the first row: %d != %d", s.cursor+1, len(s.lastRow), len(s.columns))
		}
	}
	s.cursor++
	return s.lastRow, nil
}

// Columns returns the inferred column metadata, based on the first row.
// If no data is available, returns an empty slice.
func (s *sliceRowsScanner) Columns() ([]Column, error) {
	if s.columns != nil {
		return s.columns, nil
	}
	width := len(s.names)
	if len(s.rows) != 0 && len(s.rows[0]) > width {
		width = len(s.rows[0])
	}
	for i := range width {
		c := &mockColumn{
			index:  i,
			name:   fmt.Sprintf("column_%d", i),
			goType: "nil",
		}
		if i < len(s.names) && s.names[i] != "" {
			c.name = s.names[i]
		}
		if len(s.rows) != 0 && i < len(s.rows[0]) && s.rows[0][i] != nil {
			c.goType = reflect.TypeOf(s.rows[0][i]).String()
		}
		s.columns = append(s.columns, c)
	}
	return s.columns, nil
}
