package csvcodec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/go-data-exporter/excel/scanner"
	"github.com/go-data-exporter/excel/sheet"
)

func book(t *testing.T, sheets map[string][][]any, order ...string) *sheet.Workbook {
	t.Helper()
	wb := sheet.NewWorkbook()
	for _, title := range order {
		ws, err := sheet.New(title)
		if err != nil {
			t.Fatal(err)
		}
		ws.FromArray(sheets[title])
		if err := wb.Add(ws); err != nil {
			t.Fatal(err)
		}
	}
	return wb
}

func TestWrite(t *testing.T) {
	wb := book(t, map[string][][]any{
		"Data": {{"col1", "col2"}, {"a", "b"}, {"with,comma", nil}},
	}, "Data")
	var buf bytes.Buffer
	if err := New().Write(wb, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := "col1,col2\na,b\n\"with,comma\",\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestWriteSheetIndex(t *testing.T) {
	wb := book(t, map[string][][]any{
		"First":  {{"one"}},
		"Second": {{"two"}},
	}, "First", "Second")
	var buf bytes.Buffer
	if err := New(WithSheetIndex(1)).Write(wb, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "two\n" {
		t.Errorf("output = %q", buf.String())
	}
	if err := New(WithSheetIndex(7)).Write(wb, &buf); !errors.Is(err, sheet.ErrIndexOutOfRange) {
		t.Errorf("out of range index err = %v", err)
	}
}

func TestWriteOptions(t *testing.T) {
	wb := book(t, map[string][][]any{
		"Data": {{"a", nil, 7}, {"skip", 1, 2}},
	}, "Data")
	var buf bytes.Buffer
	c := New(
		WithCustomDelimiter(';'),
		WithCRLF(true),
		WithUTF8BOM(true),
		WithCustomNULL("NULL"),
		WithCustomType(func(v int, _ string, _ scanner.Column) string {
			return "#" + strings.Repeat("i", v%3)
		}),
		WithPreProcessorFunc(func(row []string) ([]string, bool) {
			return row, row[0] != "skip"
		}),
	)
	if err := c.Write(wb, &buf); err != nil {
		t.Fatal(err)
	}
	want := "\xEF\xBB\xBFa;NULL;#i\r\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestWriteEmptyWorkbook(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Write(sheet.NewWorkbook(), &buf); !errors.Is(err, sheet.ErrNoWorksheets) {
		t.Errorf("err = %v, want ErrNoWorksheets", err)
	}
	if buf.Len() != 0 {
		t.Error("empty workbook should produce no output")
	}
}
