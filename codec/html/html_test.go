package htmlcodec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/go-data-exporter/excel/scanner"
	"github.com/go-data-exporter/excel/sheet"
	"github.com/go-data-exporter/excel/tostring"
)

func newBook(t *testing.T, titles []string, data ...[][]any) *sheet.Workbook {
	t.Helper()
	wb := sheet.NewWorkbook()
	for i, title := range titles {
		ws, err := sheet.New(title)
		if err != nil {
			t.Fatal(err)
		}
		ws.FromArray(data[i])
		if err := wb.Add(ws); err != nil {
			t.Fatal(err)
		}
	}
	return wb
}

func TestWrite(t *testing.T) {
	wb := newBook(t, []string{"Users", "Empty"},
		[][]any{{"name", "note"}, {"ann", "<b>bold</b>"}, {"bob", nil}},
		[][]any{},
	)
	var buf bytes.Buffer
	if err := New(WithCustomNULL(`<i>null</i>`)).Write(wb, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	output := buf.String()
	if !strings.HasPrefix(output, "<!DOCTYPE html>") || !strings.HasSuffix(output, "</body></html>") {
		t.Error("missing document envelope")
	}
	if strings.Count(output, "<table>") != 2 {
		t.Errorf("expected one table per sheet")
	}
	if !strings.Contains(output, "<thead><tr><th>name</th><th>note</th></tr></thead>") {
		t.Error("header row not rendered as th")
	}
	if !strings.Contains(output, "&lt;b&gt;bold&lt;/b&gt;") {
		t.Error("cell text not escaped")
	}
	if !strings.Contains(output, "<td><i>null</i></td>") {
		t.Error("NULL markup not applied")
	}
	if !strings.Contains(output, "<h2>Empty</h2><table></table>") {
		t.Error("empty sheet not rendered")
	}
}

func TestWriteSingleSheet(t *testing.T) {
	wb := newBook(t, []string{"One", "Two"}, [][]any{{"1"}}, [][]any{{"2"}})
	var buf bytes.Buffer
	if err := New(WithSheetIndex(1), WithHeaderRow(false), WithTitle("R&D")).Write(wb, &buf); err != nil {
		t.Fatal(err)
	}
	output := buf.String()
	if strings.Contains(output, "<h2>One</h2>") || !strings.Contains(output, "<tbody><tr><td>2</td></tr></tbody>") {
		t.Errorf("unexpected output: %s", output)
	}
	if !strings.Contains(output, "<title>R&amp;D</title>") {
		t.Error("title not escaped")
	}
}

func TestWriteCustomType(t *testing.T) {
	wb := newBook(t, []string{"Nums"}, [][]any{{"n"}, {3}, {4}})
	var buf bytes.Buffer
	c := New(
		WithCustomType(func(v int, _ string, _ scanner.Column) tostring.String {
			return tostring.String{String: "#" + tostring.ToString(v).String}
		}),
		WithPreProcessorFunc(func(row []string) ([]string, bool) {
			return row, row[0] != "#4"
		}),
	)
	if err := c.Write(wb, &buf); err != nil {
		t.Fatal(err)
	}
	output := buf.String()
	if !strings.Contains(output, "<td>#3</td>") || strings.Contains(output, "#4") {
		t.Errorf("custom mapping not applied: %s", output)
	}
}

func TestWriteEmptyWorkbook(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Write(sheet.NewWorkbook(), &buf); !errors.Is(err, sheet.ErrNoWorksheets) {
		t.Errorf("err = %v", err)
	}
}
