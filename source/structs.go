package source

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
)

const (
	// TagName names the exported attribute; "-" hides the field.
	TagName = "export"
	// ScenarioTagName lists the scenarios a field is safe in, comma separated.
	// Fields without it are safe in every scenario.
	ScenarioTagName = "scenarios"
)

var ErrNotStruct = errors.New("source: value is not a struct")

type structField struct {
	name      string
	index     []int
	scenarios []string
}

func (f structField) safeIn(scenario string) bool {
	return f.scenarios == nil || slices.Contains(f.scenarios, scenario)
}

var structCache sync.Map // reflect.Type -> []structField

func structFields(t reflect.Type) []structField {
	if cached, ok := structCache.Load(t); ok {
		return cached.([]structField)
	}
	var fields []structField
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup(TagName); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		f := structField{name: name, index: sf.Index}
		if tag, ok := sf.Tag.Lookup(ScenarioTagName); ok {
			f.scenarios = []string{}
			for _, s := range strings.Split(tag, ",") {
				if s = strings.TrimSpace(s); s != "" {
					f.scenarios = append(f.scenarios, s)
				}
			}
		}
		fields = append(fields, f)
	}
	structCache.Store(t, fields)
	return fields
}

type structRecord struct {
	v      reflect.Value
	fields []structField
}

// Struct adapts a struct (or pointer to struct) into a SafeRecord.
func Struct(v any) (SafeRecord, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil %T", ErrNotStruct, v)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T", ErrNotStruct, v)
	}
	return &structRecord{v: rv, fields: structFields(rv.Type())}, nil
}

func (r *structRecord) AttributeNames() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.name
	}
	return names
}

func (r *structRecord) SafeAttributeNames(scenario string) []string {
	var names []string
	for _, f := range r.fields {
		if f.safeIn(scenario) {
			names = append(names, f.name)
		}
	}
	return names
}

func (r *structRecord) Attribute(name string) any {
	for _, f := range r.fields {
		if f.name != name {
			continue
		}
		fv, err := r.v.FieldByIndexErr(f.index)
		if err != nil {
			return nil
		}
		return fv.Interface()
	}
	return nil
}

// Structs adapts every element of a slice of structs into a List of records.
func Structs(slice any) (List, error) {
	rv := reflect.ValueOf(slice)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("source: Structs expects a slice, got %T", slice)
	}
	list := make(List, 0, rv.Len())
	for i := range rv.Len() {
		rec, err := Struct(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		list = append(list, rec)
	}
	return list, nil
}

type structModel struct {
	fields []structField
}

// StructModel derives a SafeModel from the type of v.
func StructModel(v any) (SafeModel, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T", ErrNotStruct, v)
	}
	return &structModel{fields: structFields(t)}, nil
}

func (m *structModel) AttributeNames() []string {
	return (&structRecord{fields: m.fields}).AttributeNames()
}

func (m *structModel) SafeAttributeNames(scenario string) []string {
	return (&structRecord{fields: m.fields}).SafeAttributeNames(scenario)
}

// StructProvider is a ModelProvider over a slice of structs.
type StructProvider struct {
	model SafeModel
	items List
}

// NewStructProvider builds a ModelProvider from a non-empty slice of
// structs, or from an empty slice plus a prototype used for the schema.
func NewStructProvider(slice any, prototype any) (*StructProvider, error) {
	items, err := Structs(slice)
	if err != nil {
		return nil, err
	}
	if prototype == nil {
		rv := reflect.ValueOf(slice)
		if rv.Len() == 0 {
			return nil, fmt.Errorf("source: empty slice %T needs a prototype", slice)
		}
		prototype = rv.Index(0).Interface()
	}
	model, err := StructModel(prototype)
	if err != nil {
		return nil, err
	}
	return &StructProvider{model: model, items: items}, nil
}

func (p *StructProvider) Data() ([]any, error) {
	return p.items, nil
}

func (p *StructProvider) Model() Model {
	return p.model
}
