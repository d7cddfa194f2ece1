package source

import (
	"sync"

	"github.com/go-data-exporter/excel/scanner"
)

// rowRecord is one scanned row addressed by column name.
type rowRecord struct {
	names  []string
	values []any
}

func (r rowRecord) AttributeNames() []string {
	return r.names
}

func (r rowRecord) Attribute(name string) any {
	for i, n := range r.names {
		if n == name && i < len(r.values) {
			return r.values[i]
		}
	}
	return nil
}

type queryProvider struct {
	rows scanner.Rows
	once sync.Once
	cols Columns
	data []any
	err  error
}

// Query turns a scanner (SQL result set, Hive cursor, in-memory slice) into
// a ModelProvider whose schema is the column list. Rows are read once, on
// the first call to Data or Model.
func Query(rows scanner.Rows) ModelProvider {
	return &queryProvider{rows: rows}
}

func (q *queryProvider) load() {
	q.once.Do(func() {
		names, data, err := scanner.Collect(q.rows)
		if err != nil {
			q.err = err
			return
		}
		q.cols = Columns(names)
		q.data = make([]any, len(data))
		for i, row := range data {
			q.data[i] = rowRecord{names: names, values: row}
		}
	})
}

func (q *queryProvider) Data() ([]any, error) {
	q.load()
	return q.data, q.err
}

func (q *queryProvider) Model() Model {
	q.load()
	return q.cols
}
