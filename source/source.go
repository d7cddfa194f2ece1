// Package source describes the data a worksheet can be built from and
// normalizes it into rows of cell values.
//
// A Source is one of four shapes:
//
//   - Table: rows that are already tabular.
//   - List: an ordered sequence of opaque elements (records, mappings,
//     scalars, nil or anything else).
//   - Provider: a data provider, optionally carrying a schema (ModelProvider).
//   - Value: a single opaque value.
package source

import "errors"

var (
	ErrNilSource     = errors.New("source: nil data source")
	ErrUnknownSource = errors.New("source: unknown data source")
)

// Kind identifies the shape of a Source.
type Kind int

const (
	KindTable Kind = iota + 1
	KindList
	KindProvider
	KindValue
)

func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindList:
		return "list"
	case KindProvider:
		return "provider"
	case KindValue:
		return "value"
	}
	return "unknown"
}

// Source is implemented only by the types of this package.
type Source interface {
	Kind() Kind
	isSource()
}

// Table is a sequence of rows.
type Table [][]any

func (Table) Kind() Kind { return KindTable }
func (Table) isSource()  {}

// List is a sequence of arbitrary elements.
type List []any

func (List) Kind() Kind { return KindList }
func (List) isSource()  {}

// Value is a single element.
type Value struct {
	V any
}

func (Value) Kind() Kind { return KindValue }
func (Value) isSource()  {}

// DataProvider yields a materialized, already paged collection of elements.
type DataProvider interface {
	Data() ([]any, error)
}

// ModelProvider is a DataProvider whose elements are records of one schema.
type ModelProvider interface {
	DataProvider
	Model() Model
}

// Provider wraps a DataProvider as a Source.
type Provider struct {
	DataProvider
}

func FromProvider(p DataProvider) Provider {
	return Provider{DataProvider: p}
}

func (Provider) Kind() Kind { return KindProvider }
func (Provider) isSource()  {}

// SliceProvider is a DataProvider over an in-memory slice.
type SliceProvider []any

func (p SliceProvider) Data() ([]any, error) {
	return p, nil
}

type modelProvider struct {
	SliceProvider
	model Model
}

func (p modelProvider) Model() Model {
	return p.model
}

// NewModelProvider pairs in-memory records with the schema that heads them.
func NewModelProvider(model Model, data []any) ModelProvider {
	return modelProvider{SliceProvider: data, model: model}
}
