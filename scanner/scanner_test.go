package scanner

import (
	"context"
	"database/sql"
	"reflect"
	"testing"

	_ "modernc.org/sqlite"
)

func TestCollectFromData(t *testing.T) {
	rows := FromData([][]any{{"ann", 1}, {"bob", 2}})
	names, data, err := Collect(rows)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"column_0", "column_1"}; !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
	if want := [][]any{{"ann", 1}, {"bob", 2}}; !reflect.DeepEqual(data, want) {
		t.Errorf("data = %v, want %v", data, want)
	}
}

func TestFromTableNames(t *testing.T) {
	rows := FromTable([]string{"name", ""}, [][]any{{"ann", nil}})
	cols, err := rows.Columns()
	if err != nil {
		t.Fatal(err)
	}
	if len(cols) != 2 || cols[0].Name() != "name" || cols[1].Name() != "column_1" {
		t.Fatalf("columns = %v", cols)
	}
	if got := cols[0].DatabaseTypeName(); got != "string" {
		t.Errorf("type = %q, want string", got)
	}
	if got := cols[1].DatabaseTypeName(); got != "nil" {
		t.Errorf("type = %q, want nil", got)
	}
}

func TestRaggedRows(t *testing.T) {
	_, _, err := Collect(FromData([][]any{{1, 2}, {3}}))
	if err == nil {
		t.Fatal("expected an error for a short row")
	}
}

func TestQuerySQL(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	for _, stmt := range []string{
		"CREATE TABLE users (id INTEGER, name TEXT)",
		"INSERT INTO users VALUES (1, 'ann'), (2, NULL)",
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatal(err)
		}
	}

	rows, closeRows, err := QuerySQL(ctx, db, "sqlite", "SELECT id, name FROM users ORDER BY id")
	if err != nil {
		t.Fatal(err)
	}
	defer closeRows()

	if rows.Driver() != "sqlite" {
		t.Errorf("driver = %q", rows.Driver())
	}
	names, data, err := Collect(rows)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"id", "name"}; !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
	if want := [][]any{{int64(1), "ann"}, {int64(2), nil}}; !reflect.DeepEqual(data, want) {
		t.Errorf("data = %#v, want %#v", data, want)
	}
}

func TestQuerySQLError(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, _, err := QuerySQL(context.Background(), db, "sqlite", "SELECT * FROM missing"); err == nil {
		t.Fatal("expected an error for a missing table")
	}
}
