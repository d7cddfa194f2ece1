package loader

import (
	"encoding/csv"
	"errors"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/go-data-exporter/excel/source"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func loadCSV(path string) (source.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	var table source.Table
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return table, nil
		}
		if err != nil {
			return nil, err
		}
		row := make([]any, len(record))
		for i, v := range record {
			row[i] = v
		}
		table = append(table, row)
	}
}

func loadJSON(path string, header bool) (source.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	items, err := readJSON(f)
	if err != nil {
		return nil, err
	}
	return withHeader(items, header), nil
}

// readJSON reads a document holding an array of elements, or a single
// element. Objects keep the order of their keys.
func readJSON(r io.Reader) ([]any, error) {
	iter := jsoniter.Parse(json, r, 4096)
	var items []any
	if iter.WhatIsNext() == jsoniter.ArrayValue {
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			items = append(items, readJSONValue(it))
			return it.Error == nil
		})
	} else {
		items = append(items, readJSONValue(iter))
	}
	if iter.Error != nil && !errors.Is(iter.Error, io.EOF) {
		return nil, iter.Error
	}
	return items, nil
}

func readJSONValue(it *jsoniter.Iterator) any {
	if it.WhatIsNext() != jsoniter.ObjectValue {
		return it.Read()
	}
	fields := source.Fields{}
	it.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		fields = append(fields, source.Field{Name: key, Value: it.Read()})
		return it.Error == nil
	})
	return fields
}

func loadYAML(path string, header bool) (source.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	items, err := readYAML(f)
	if err != nil {
		return nil, err
	}
	return withHeader(items, header), nil
}

// readYAML is readJSON for YAML documents. Mappings are read through
// yaml.Node so their key order survives.
func readYAML(r io.Reader) ([]any, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		v, err := yamlValue(root)
		if err != nil {
			return nil, err
		}
		return []any{v}, nil
	}
	items := make([]any, 0, len(root.Content))
	for _, n := range root.Content {
		v, err := yamlValue(n)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func yamlValue(n *yaml.Node) (any, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		var v any
		err := n.Decode(&v)
		return v, err
	}
	fields := make(source.Fields, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		var v any
		if err := n.Content[i+1].Decode(&v); err != nil {
			return nil, err
		}
		fields = append(fields, source.Field{Name: n.Content[i].Value, Value: v})
	}
	return fields, nil
}

// withHeader heads items with the keys of the first object when header is
// set, and leaves them as a plain list otherwise.
func withHeader(items []any, header bool) source.Source {
	if header && len(items) > 0 {
		if first, ok := items[0].(source.Fields); ok {
			return source.FromProvider(source.NewModelProvider(source.Columns(first.Names()), items))
		}
	}
	return source.List(items)
}
