package source

import (
	"maps"
	"slices"
)

// Record is an element exposing named attributes.
type Record interface {
	AttributeNames() []string
	Attribute(name string) any
}

// SafeRecord restricts the exported attributes per scenario.
type SafeRecord interface {
	Record
	SafeAttributeNames(scenario string) []string
}

// Model is the schema shared by the records of a ModelProvider.
type Model interface {
	AttributeNames() []string
}

// SafeModel restricts the schema per scenario.
type SafeModel interface {
	Model
	SafeAttributeNames(scenario string) []string
}

// Columns is a Model made of plain column names.
type Columns []string

func (c Columns) AttributeNames() []string {
	return c
}

// Field is one named value of an ordered mapping.
type Field struct {
	Name  string
	Value any
}

// Fields is an ordered mapping.
type Fields []Field

func (f Fields) Names() []string {
	names := make([]string, len(f))
	for i, field := range f {
		names[i] = field.Name
	}
	return names
}

func (f Fields) Values() []any {
	values := make([]any, len(f))
	for i, field := range f {
		values[i] = field.Value
	}
	return values
}

func (f Fields) Get(name string) (any, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return nil, false
}

// AttributeNames and Attribute make Fields usable as a Record.
func (f Fields) AttributeNames() []string {
	return f.Names()
}

func (f Fields) Attribute(name string) any {
	v, _ := f.Get(name)
	return v
}

// MapFields orders m by key.
func MapFields(m map[string]any) Fields {
	keys := slices.Sorted(maps.Keys(m))
	fields := make(Fields, len(keys))
	for i, k := range keys {
		fields[i] = Field{Name: k, Value: m[k]}
	}
	return fields
}

// Attributes returns the attribute mapping of r. When scenario is set and r
// is a SafeRecord, only the attributes safe for that scenario are returned.
func Attributes(r Record, scenario string) Fields {
	names := recordNames(r, scenario)
	fields := make(Fields, len(names))
	for i, name := range names {
		fields[i] = Field{Name: name, Value: r.Attribute(name)}
	}
	return fields
}

func recordNames(r Record, scenario string) []string {
	if safe, ok := r.(SafeRecord); ok && scenario != "" {
		return safe.SafeAttributeNames(scenario)
	}
	return r.AttributeNames()
}

func modelNames(m Model, scenario string) []string {
	if m == nil {
		return nil
	}
	if safe, ok := m.(SafeModel); ok && scenario != "" {
		return safe.SafeAttributeNames(scenario)
	}
	return m.AttributeNames()
}
