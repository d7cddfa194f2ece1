package loader

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/go-data-exporter/excel"
	"github.com/go-data-exporter/excel/internal/config"
	"github.com/go-data-exporter/excel/sheet"
	"github.com/go-data-exporter/excel/source"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func rows(t *testing.T, src source.Source) [][]any {
	t.Helper()
	res, err := source.Normalize(src, "")
	if err != nil {
		t.Fatal(err)
	}
	return res.Rows
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data.csv", "id,name\n1,ann\n2\n")
	writeFile(t, dir, "data.json", `[{"z": 1, "a": "x"}, {"a": "y", "z": 2}, [3, 4], "tail"]`)
	writeFile(t, dir, "data.yaml", `
- &first
  z: 1
  a: x
- a: y
  z: 2
- *first
`)
	l := New(nil, dir)
	tests := []struct {
		name string
		cfg  config.SourceConfig
		want [][]any
	}{
		{
			name: "inline",
			cfg:  config.SourceConfig{Type: config.SourceInline, Rows: [][]any{{"a", 1}}},
			want: [][]any{{"a", 1}},
		},
		{
			name: "csv",
			cfg:  config.SourceConfig{Type: config.SourceCSV, File: "data.csv"},
			want: [][]any{{"id", "name"}, {"1", "ann"}, {"2"}},
		},
		{
			name: "json keeps key order",
			cfg:  config.SourceConfig{Type: config.SourceJSON, File: "data.json"},
			want: [][]any{{float64(1), "x"}, {"y", float64(2)}, {float64(3), float64(4)}, {"tail"}},
		},
		{
			name: "json with header",
			cfg:  config.SourceConfig{Type: config.SourceJSON, File: "data.json", Header: true},
			want: [][]any{{"z", "a"}, {float64(1), "x"}, {float64(2), "y"}},
		},
		{
			name: "yaml keeps key order",
			cfg:  config.SourceConfig{Type: config.SourceYAML, File: "data.yaml"},
			want: [][]any{{1, "x"}, {"y", 2}, {1, "x"}},
		},
		{
			name: "yaml with header",
			cfg:  config.SourceConfig{Type: config.SourceYAML, File: filepath.Join(dir, "data.yaml"), Header: true},
			want: [][]any{{"z", "a"}, {1, "x"}, {2, "y"}, {1, "x"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := l.Load(context.Background(), tt.cfg)
			if err != nil {
				t.Fatal(err)
			}
			if got := rows(t, src); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("rows = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", `[{"a": 1`)
	l := New(nil, dir)

	_, err := l.Load(context.Background(), config.SourceConfig{Type: "ftp"})
	if !errors.Is(err, ErrUnknownSourceType) {
		t.Errorf("err = %v, want ErrUnknownSourceType", err)
	}
	_, err = l.Load(context.Background(), config.SourceConfig{Type: config.SourceCSV, File: "missing.csv"})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
	if _, err = l.Load(context.Background(), config.SourceConfig{Type: config.SourceJSON, File: "broken.json"}); err == nil {
		t.Error("broken JSON loaded without error")
	}
}

func createDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	for _, stmt := range []string{
		`CREATE TABLE users (id INTEGER, name TEXT, score REAL)`,
		`INSERT INTO users VALUES (1, 'ann', 9.5), (2, 'bob', NULL)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestLoadSQLite(t *testing.T) {
	dsn := createDB(t)
	src, err := New(nil, "").Load(context.Background(), config.SourceConfig{
		Type:   config.SourceSQL,
		Driver: "sqlite",
		DSN:    dsn,
		Query:  "SELECT id, name, score FROM users ORDER BY id",
	})
	if err != nil {
		t.Fatal(err)
	}
	want := [][]any{{"id", "name", "score"}, {int64(1), "ann", 9.5}, {int64(2), "bob", nil}}
	if got := rows(t, src); !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %#v, want %#v", got, want)
	}

	_, err = New(nil, "").Load(context.Background(), config.SourceConfig{
		Type:   config.SourceSQL,
		Driver: "sqlite",
		DSN:    dsn,
		Query:  "SELECT * FROM missing",
	})
	if err == nil {
		t.Error("query on a missing table succeeded")
	}
}

func TestBuild(t *testing.T) {
	dsn := createDB(t)
	cfg, err := config.Parse([]byte(`
export:
  csv:
    delimiter: ";"
jobs:
  - name: users
    filename: users.csv
    sheets:
      - title: Users
        source:
          type: sql
          driver: sqlite
          dsn: "` + dsn + `"
          query: "SELECT id, name FROM users ORDER BY id"
      - title: Notes
        source:
          type: inline
          rows: [["note"]]
`))
	if err != nil {
		t.Fatal(err)
	}
	job, _ := cfg.Job("users")
	var buf bytes.Buffer
	book, err := New(nil, "").Build(context.Background(), job, append(Options(cfg.Export), excel.WithOutput(&buf))...)
	if err != nil {
		t.Fatal(err)
	}
	if book.Workbook().Len() != 2 {
		t.Fatalf("workbook has %d sheets", book.Workbook().Len())
	}
	if !book.Export(job.Filename, "") {
		t.Fatal("Export returned false")
	}
	if got := buf.String(); got != "id;name\n1;ann\n2;bob\n" {
		t.Errorf("csv = %q", got)
	}

	job.Sheets = append(job.Sheets, config.SheetConfig{Title: "users", Source: config.SourceConfig{Type: config.SourceInline}})
	_, err = New(nil, "").Build(context.Background(), job)
	if !errors.Is(err, sheet.ErrDuplicateTitle) {
		t.Errorf("err = %v, want ErrDuplicateTitle", err)
	}
}
