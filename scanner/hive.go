package scanner

import (
	"context"
	"reflect"
	"strings"

	"github.com/beltran/gohive"
)

// HiveDriver is the driver name reported by Hive scanners.
const HiveDriver = "gohive"

type hiveRowsScanner struct {
	cursor     *gohive.Cursor
	ctx        context.Context
	columns    []Column
	currentRow []any
	fetchDest  []any
}

// FromHiveCursor reads the result of the last statement executed on cursor.
func FromHiveCursor(ctx context.Context, cursor *gohive.Cursor) Rows {
	return &hiveRowsScanner{cursor: cursor, ctx: ctx}
}

func (h *hiveRowsScanner) Next() bool {
	return h.cursor.HasMore(h.ctx)
}

func (h *hiveRowsScanner) ScanRow() ([]any, error) {
	if _, err := h.Columns(); err != nil {
		return nil, err
	}
	if h.currentRow == nil {
		h.currentRow = make([]any, len(h.columns))
		h.fetchDest = make([]any, len(h.columns))
		for i := range h.currentRow {
			h.fetchDest[i] = &h.currentRow[i]
		}
	}
	h.cursor.FetchOne(h.ctx, h.fetchDest...)
	if h.cursor.Err != nil {
		return nil, h.cursor.Err
	}
	return h.currentRow, nil
}

// Columns describes the result columns. Hive reports names as
// "table.column"; the table prefix is removed.
func (h *hiveRowsScanner) Columns() ([]Column, error) {
	if h.columns != nil {
		return h.columns, nil
	}
	for _, c := range h.cursor.Description() {
		if len(c) == 0 {
			continue
		}
		col := hiveColumn{index: len(h.columns), name: c[0]}
		if len(c) > 1 {
			col.hiveType = strings.TrimSuffix(c[1], "_TYPE")
		}
		if _, name, ok := strings.Cut(col.name, "."); ok {
			col.name = name
		}
		h.columns = append(h.columns, &col)
	}
	if err := h.cursor.Error(); err != nil {
		return nil, err
	}
	return h.columns, nil
}

func (h *hiveRowsScanner) Driver() string {
	return HiveDriver
}

func (h *hiveRowsScanner) Err() error {
	return h.cursor.Error()
}

type hiveColumn struct {
	index    int
	name     string
	hiveType string
}

func (c *hiveColumn) Index() int {
	return c.index
}

func (c *hiveColumn) Name() string {
	return c.name
}

func (c *hiveColumn) Length() (length int64, ok bool) {
	return 0, false
}

func (c *hiveColumn) DecimalSize() (precision, scale int64, ok bool) {
	return 0, 0, false
}

func (c *hiveColumn) ScanType() reflect.Type {
	return nil
}

func (c *hiveColumn) Nullable() (nullable, ok bool) {
	return true, false
}

func (c *hiveColumn) DatabaseTypeName() string {
	return c.hiveType
}
