// Package tostring provides functionality to convert arbitrary Go values
// into their string representation, while also detecting NULL or zero-equivalent values.
// Text encoders (CSV, HTML) use ToString; binary spreadsheet encoders use Cell.
package tostring

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// jsonStd is a high-performance JSON encoder/decoder compatible with the standard library.
var jsonStd = jsoniter.ConfigCompatibleWithStandardLibrary

// String represents a string value along with a flag indicating whether it was NULL.
// If IsNULL is true, then the value should be considered as NULL or absent.
type String struct {
	String string
	IsNULL bool
}

// ToString converts an arbitrary value to a String type, which contains
// a string representation of the value and a flag indicating if the value was NULL.
//
// The conversion logic supports common Go primitive types (including named
// types built on them), time.Time, and types implementing json.Marshaler or
// fmt.Stringer interfaces.
//
// If the input is nil or represents an empty/null value (like zero time,
// "null", "[]", or "{}" in JSON), the result will have IsNULL set to true.
func ToString(v any) String {
	if v == nil {
		return String{"", true}
	}
	switch v := v.(type) {
	case string:
		return String{v, false}
	case []byte:
		return String{string(v), false}
	case bool:
		return String{strconv.FormatBool(v), false}
	case int:
		return String{strconv.Itoa(v), false}
	case int64:
		return String{strconv.FormatInt(v, 10), false}
	case uint64:
		return String{strconv.FormatUint(v, 10), false}
	case float32:
		return String{strconv.FormatFloat(float64(v), 'f', -1, 32), false}
	case float64:
		return String{strconv.FormatFloat(v, 'f', -1, 64), false}
	case time.Time:
		if v.IsZero() {
			return String{"", true}
		}
		return String{v.Format(time.RFC3339Nano), false}
	}
	if jsonMarshaler, ok := v.(json.Marshaler); ok {
		if jsonData, err := jsonMarshaler.MarshalJSON(); err == nil {
			return fromJSON(jsonData)
		}
	}
	if fmtStringer, ok := v.(fmt.Stringer); ok {
		return String{fmtStringer.String(), false}
	}
	if s, ok := fromKind(reflect.ValueOf(v)); ok {
		return s
	}
	if jsonData, err := jsonStd.Marshal(v); err == nil {
		return fromJSON(jsonData)
	}
	return String{fmt.Sprintf("%v", v), false}
}

func fromJSON(data []byte) String {
	s := strings.Trim(string(data), `"`)
	// TODO (research): does [], {} mean NULL?
	if s == "[]" || s == "{}" || s == "null" {
		return String{"", true}
	}
	return String{s, false}
}

// fromKind handles named types whose underlying kind is a primitive,
// e.g. `type Status int8`.
func fromKind(rv reflect.Value) (String, bool) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return String{"", true}, true
		}
		return ToString(rv.Elem().Interface()), true
	case reflect.String:
		return String{rv.String(), false}, true
	case reflect.Bool:
		return String{strconv.FormatBool(rv.Bool()), false}, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return String{strconv.FormatInt(rv.Int(), 10), false}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return String{strconv.FormatUint(rv.Uint(), 10), false}, true
	case reflect.Float32:
		return String{strconv.FormatFloat(rv.Float(), 'f', -1, 32), false}, true
	case reflect.Float64:
		return String{strconv.FormatFloat(rv.Float(), 'f', -1, 64), false}, true
	}
	return String{}, false
}

// Cell reduces v to a value that spreadsheet encoders store natively:
// nil, bool, int64, uint64, float64, time.Time or string. Anything else is
// rendered through ToString; NULL-like values become nil.
func Cell(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case string, bool, int64, uint64, float64:
		return v
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return uint64(v)
	case uint8:
		return uint64(v)
	case uint16:
		return uint64(v)
	case uint32:
		return uint64(v)
	case float32:
		return float64(v)
	case []byte:
		return string(v)
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return v
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		if _, ok := v.(fmt.Stringer); !ok {
			return Cell(rv.Elem().Interface())
		}
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if _, ok := v.(fmt.Stringer); !ok {
			return rv.Int()
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if _, ok := v.(fmt.Stringer); !ok {
			return rv.Uint()
		}
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	s := ToString(v)
	if s.IsNULL {
		return nil
	}
	return s.String
}
