package source

import (
	"fmt"
	"reflect"
	"time"
)

// Result is a normalized source: rows of cell values plus the number of
// elements that had no tabular meaning and were left out.
type Result struct {
	Rows    [][]any
	Dropped int
}

// Normalize flattens src into rows. scenario selects the safe attribute
// subset of records that support it; an empty scenario keeps everything.
func Normalize(src Source, scenario string) (Result, error) {
	switch s := src.(type) {
	case nil:
		return Result{}, ErrNilSource
	case Table:
		rows := make([][]any, len(s))
		for i, row := range s {
			rows[i] = append([]any(nil), row...)
		}
		return Result{Rows: rows}, nil
	case List:
		return normalizeList(s, scenario), nil
	case Value:
		return normalizeList([]any{s.V}, scenario), nil
	case Provider:
		if s.DataProvider == nil {
			return Result{}, ErrNilSource
		}
		if mp, ok := s.DataProvider.(ModelProvider); ok {
			return normalizeModel(mp, scenario)
		}
		data, err := s.Data()
		if err != nil {
			return Result{}, fmt.Errorf("source: provider data: %w", err)
		}
		return normalizeList(data, scenario), nil
	}
	return Result{}, fmt.Errorf("%w: %T", ErrUnknownSource, src)
}

// normalizeModel emits the schema as the header row followed by one row per
// record. Elements that are not records are skipped.
func normalizeModel(p ModelProvider, scenario string) (Result, error) {
	data, err := p.Data()
	if err != nil {
		return Result{}, fmt.Errorf("source: provider data: %w", err)
	}
	names := modelNames(p.Model(), scenario)
	var res Result
	if len(names) > 0 {
		header := make([]any, len(names))
		for i, name := range names {
			header[i] = name
		}
		res.Rows = append(res.Rows, header)
	}
	for _, item := range data {
		rec, ok := item.(Record)
		if !ok {
			res.Dropped++
			continue
		}
		row := make([]any, len(names))
		for i, name := range names {
			row[i] = rec.Attribute(name)
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

type element struct {
	row    []any
	scalar bool
}

// normalizeList keeps rows, mappings, records, scalars and nil. When every
// kept element is a scalar the list is a single row; otherwise each element
// becomes a row and scalars become one-cell rows.
func normalizeList(items []any, scenario string) Result {
	var res Result
	kept := make([]element, 0, len(items))
	allScalar := true
	for _, item := range items {
		el, ok := classify(item, scenario)
		if !ok {
			res.Dropped++
			continue
		}
		allScalar = allScalar && el.scalar
		kept = append(kept, el)
	}
	if len(kept) == 0 {
		return res
	}
	if allScalar {
		row := make([]any, len(kept))
		for i, el := range kept {
			row[i] = el.row[0]
		}
		res.Rows = [][]any{row}
		return res
	}
	res.Rows = make([][]any, len(kept))
	for i, el := range kept {
		res.Rows[i] = el.row
	}
	return res
}

func classify(item any, scenario string) (element, bool) {
	switch v := item.(type) {
	case nil:
		return element{row: []any{nil}, scalar: true}, true
	case string, []byte, bool, time.Time:
		return element{row: []any{v}, scalar: true}, true
	case []any:
		return element{row: append([]any(nil), v...)}, true
	case Fields:
		return element{row: v.Values()}, true
	case map[string]any:
		return element{row: MapFields(v).Values()}, true
	case Record:
		return element{row: Attributes(v, scenario).Values()}, true
	}
	rv := reflect.ValueOf(item)
	switch rv.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return element{row: []any{item}, scalar: true}, true
	case reflect.Slice, reflect.Array:
		row := make([]any, rv.Len())
		for i := range row {
			row[i] = rv.Index(i).Interface()
		}
		return element{row: row}, true
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return element{}, false
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return element{row: MapFields(m).Values()}, true
	}
	return element{}, false
}
