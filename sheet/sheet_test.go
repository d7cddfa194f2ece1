package sheet

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		title string
		err   error
	}{
		{"Users", nil},
		{"Отчёт 2024", nil},
		{strings.Repeat("x", MaxTitleLength), nil},
		{"", ErrEmptyTitle},
		{strings.Repeat("x", MaxTitleLength+1), ErrTitleTooLong},
		{"a/b", ErrInvalidTitle},
		{"what?", ErrInvalidTitle},
		{"[x]", ErrInvalidTitle},
		{"'quoted", ErrInvalidTitle},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			err := ValidateTitle(tt.title)
			if !errors.Is(err, tt.err) {
				t.Errorf("ValidateTitle(%q) = %v, want %v", tt.title, err, tt.err)
			}
		})
	}
}

func TestWorksheetFromArray(t *testing.T) {
	ws, err := New("Data")
	if err != nil {
		t.Fatal(err)
	}
	ws.FromArray([][]any{{"col1", "col2", "col3"}, {"a"}, nil})
	rows, cols := ws.Dimensions()
	if rows != 3 || cols != 3 {
		t.Fatalf("Dimensions() = %d, %d, want 3, 3", rows, cols)
	}
	grid := ws.Rows()
	for i, row := range grid {
		if len(row) != 3 {
			t.Errorf("row %d has %d cells, want 3", i, len(row))
		}
	}
	if grid[1][0] != "a" || grid[1][1] != nil {
		t.Errorf("unexpected row 1: %v", grid[1])
	}

	ws.FromArray([][]any{{1}})
	if rows, cols := ws.Dimensions(); rows != 1 || cols != 1 {
		t.Errorf("FromArray did not replace content: %d, %d", rows, cols)
	}
}

func TestWorksheetSetCell(t *testing.T) {
	ws, _ := New("Grid")
	ws.SetCell(2, 3, "x")
	if got := ws.Cell(2, 3); got != "x" {
		t.Errorf("Cell(2, 3) = %v", got)
	}
	if got := ws.Cell(9, 9); got != nil {
		t.Errorf("Cell outside grid = %v", got)
	}
	if rows, cols := ws.Dimensions(); rows != 3 || cols != 4 {
		t.Errorf("Dimensions() = %d, %d, want 3, 4", rows, cols)
	}
	ws.AppendRow("tail")
	if rows, _ := ws.Dimensions(); rows != 4 {
		t.Errorf("AppendRow did not add a row")
	}
}

func TestWorksheetScanner(t *testing.T) {
	ws, _ := New("Scan")
	ws.FromArray([][]any{{"h1", "h2"}, {"v"}})
	rows := ws.Scanner()
	n := 0
	for rows.Next() {
		values, err := rows.ScanRow()
		if err != nil {
			t.Fatalf("ScanRow: %v", err)
		}
		if len(values) != 2 {
			t.Errorf("row %d width = %d", n, len(values))
		}
		n++
	}
	if n != 2 {
		t.Errorf("scanned %d rows, want 2", n)
	}
}

func TestWorkbookAdd(t *testing.T) {
	wb := NewWorkbook()
	if wb.Len() != 0 {
		t.Fatalf("new workbook has %d sheets", wb.Len())
	}
	first, _ := New("Report")
	if err := wb.Add(first); err != nil {
		t.Fatal(err)
	}
	dup, _ := New("REPORT")
	if err := wb.Add(dup); !errors.Is(err, ErrDuplicateTitle) {
		t.Errorf("Add duplicate = %v, want ErrDuplicateTitle", err)
	}
	if wb.Len() != 1 {
		t.Errorf("duplicate was attached")
	}
	second, _ := New("Other")
	_ = wb.Add(second)
	if ws, ok := wb.SheetByTitle("other"); !ok || ws != second {
		t.Errorf("SheetByTitle failed")
	}
	if _, err := wb.Sheet(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Sheet(5) = %v", err)
	}
	if err := wb.Remove(0); err != nil {
		t.Fatal(err)
	}
	if ws, _ := wb.Sheet(0); ws != second {
		t.Errorf("Remove did not shift sheets")
	}
	again, _ := New("report")
	if err := wb.Add(again); err != nil {
		t.Errorf("title should be free after Remove: %v", err)
	}
}
