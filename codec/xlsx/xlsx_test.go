package xlsxcodec

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/go-data-exporter/excel/sheet"
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

func readBack(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWrite(t *testing.T) {
	wb := newBook(t, []string{"Users", "Totals"},
		[][]any{{"name", "age", "active"}, {"ann", 31, true}, {"bob", nil, false}},
		[][]any{{"sum"}, {2.5}},
	)
	var buf bytes.Buffer
	if err := New(WithBoldHeader(true), WithColumnWidth(20)).Write(wb, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	f := readBack(t, buf.Bytes())
	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{"Users", "Totals"}) {
		t.Fatalf("sheets = %v, want [Users Totals]", got)
	}
	rows, err := f.GetRows("Users")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[0][0] != "name" || rows[1][0] != "ann" || rows[1][1] != "31" {
		t.Errorf("rows = %v", rows)
	}
	if rows[1][2] != "TRUE" {
		t.Errorf("bool cell = %q, want TRUE", rows[1][2])
	}
	v, err := f.GetCellValue("Totals", "A2")
	if err != nil || v != "2.5" {
		t.Errorf("Totals!A2 = %q, %v", v, err)
	}
}

func TestWriteCustomType(t *testing.T) {
	type money int64
	wb := newBook(t, []string{"M"}, [][]any{{money(1250)}})
	var buf bytes.Buffer
	c := New(WithCustomType(func(v money) any { return float64(v) / 100 }))
	if err := c.Write(wb, &buf); err != nil {
		t.Fatal(err)
	}
	v, err := readBack(t, buf.Bytes()).GetCellValue("M", "A1")
	if err != nil || v != "12.5" {
		t.Errorf("A1 = %q, %v", v, err)
	}
}

func TestWriteEmptyWorkbook(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Write(sheet.NewWorkbook(), &buf); !errors.Is(err, sheet.ErrNoWorksheets) {
		t.Errorf("err = %v", err)
	}
}
