package scanner

import (
	"context"
	"database/sql"
)

// sqlRowsScanner adapts *sql.Rows to Rows.
type sqlRowsScanner struct {
	*sql.Rows

	driver     string
	columns    []Column
	currentRow []any
	scanDest   []any
}

// FromSQL wraps rows produced by the named driver. The caller still owns
// rows and must close them.
func FromSQL(rows *sql.Rows, driver string) Rows {
	return &sqlRowsScanner{Rows: rows, driver: driver}
}

// QuerySQL runs query on db and returns its result set as Rows together
// with the function that releases it.
func QuerySQL(ctx context.Context, db *sql.DB, driver, query string, args ...any) (Rows, func() error, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	return FromSQL(rows, driver), rows.Close, nil
}

type sqlColumn struct {
	*sql.ColumnType
	index int
}

func (c *sqlColumn) Index() int {
	return c.index
}

func (s *sqlRowsScanner) Columns() ([]Column, error) {
	if s.columns != nil {
		return s.columns, nil
	}
	types, err := s.Rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	columns := make([]Column, len(types))
	for i, c := range types {
		columns[i] = &sqlColumn{ColumnType: c, index: i}
	}
	s.columns = columns
	return s.columns, nil
}

// ScanRow returns the current row. The slice is reused by the next call.
func (s *sqlRowsScanner) ScanRow() ([]any, error) {
	if _, err := s.Columns(); err != nil {
		return nil, err
	}
	if s.currentRow == nil {
		s.currentRow = make([]any, len(s.columns))
		s.scanDest = make([]any, len(s.columns))
		for i := range s.currentRow {
			s.scanDest[i] = &s.currentRow[i]
		}
	}
	if err := s.Rows.Scan(s.scanDest...); err != nil {
		return nil, err
	}
	return s.currentRow, nil
}

func (s *sqlRowsScanner) Driver() string {
	return s.driver
}
