package csvcodec

import (
	"reflect"

	"github.com/go-data-exporter/excel/scanner"
	"github.com/go-data-exporter/excel/tostring"
)

// toString converts a cell value to its CSV text.
//
// Custom type conversions registered with WithCustomType win; everything
// else goes through tostring.ToString. NULL-like values (nil, zero time,
// empty JSON collections) become the configured nullValue, which is the
// empty string unless WithCustomNULL sets one.
func (cs *csvCodec) toString(v any, driver string, column scanner.Column) string {
	if v == nil {
		return cs.nullValue
	}
	if fn, ok := cs.customMapper[reflect.TypeOf(v)]; ok {
		return fn(v, driver, column)
	}
	s := tostring.ToString(v)
	if s.IsNULL {
		return cs.nullValue
	}
	return s.String
}
