// Package scanner defines the row-iteration contract shared by data sources
// (SQL result sets, Hive cursors, in-memory tables) and the format codecs.
package scanner

type Rows interface {
	Next() bool
	ScanRow() ([]any, error)
	Columns() ([]Column, error)
	Driver() string
	Err() error
}

type Metadata struct {
	RowID  int
	Driver string
	Column Column
}

// Collect drains rows and returns the column names and a copy of every row.
// Scanners may reuse their row buffer between calls, so each row is cloned.
func Collect(rows Rows) ([]string, [][]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name()
	}
	var data [][]any
	for rows.Next() {
		values, err := rows.ScanRow()
		if err != nil {
			return nil, nil, err
		}
		row := make([]any, len(values))
		copy(row, values)
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return names, data, nil
}
