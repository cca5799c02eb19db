package db

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/nickyhof/ifxsql/esql/esqltest"
)

func openUsers(t *testing.T) (*esqltest.Client, *Connection, *Cursor) {
	t.Helper()
	client, conn := setupTestConn(t)
	cur, err := conn.Query(selectUsers)
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	return client, conn, cur
}

func TestFetchRows(t *testing.T) {
	client, _, cur := openUsers(t)

	want := [][]any{
		{int64(1), "Alice", 12.5, "20240115"},
		{int64(2), "Bob", nil, "20231231"},
	}
	for i, w := range want {
		row, err := cur.Fetch()
		if err != nil {
			t.Fatalf("Fetch %d failed: %v", i, err)
		}
		if !reflect.DeepEqual(row, w) {
			t.Errorf("Row %d: expected %v, got %v", i, w, row)
		}
	}

	if _, err := cur.Fetch(); !errors.Is(err, io.EOF) {
		t.Fatalf("Expected io.EOF after last row, got %v", err)
	}
	if _, err := cur.Fetch(); !errors.Is(err, ErrCursorClosed) {
		t.Errorf("Expected ErrCursorClosed after end of data, got %v", err)
	}
	if client.Cursors() != 0 {
		t.Errorf("Expected cursor freed at end of data, %d remain", client.Cursors())
	}
	if !cur.buf.Released() {
		t.Error("Expected row buffer released at end of data")
	}
	if err := cur.Close(); !errors.Is(err, ErrAlreadyClosed) {
		t.Errorf("Expected ErrAlreadyClosed, got %v", err)
	}
}

func TestFetchInto(t *testing.T) {
	_, _, cur := openUsers(t)
	defer cur.Close()

	row, err := cur.FetchInto(nil, "")
	if err != nil {
		t.Fatalf("FetchInto failed: %v", err)
	}
	if len(row) != 4 || row[0] != int64(1) || row[1] != "Alice" {
		t.Errorf("Unexpected numeric row %v", row)
	}
	if _, ok := row["name"]; ok {
		t.Error("Expected no name keys with the default format")
	}

	dst := map[any]any{"extra": true}
	got, err := cur.FetchInto(dst, "an")
	if err != nil {
		t.Fatalf("FetchInto failed: %v", err)
	}
	if reflect.ValueOf(got).Pointer() != reflect.ValueOf(dst).Pointer() {
		t.Error("Expected the destination map to be reused")
	}
	if got["name"] != "Bob" || got[1] != "Bob" {
		t.Errorf("Expected name under both keys, got %v", got)
	}
	if v, ok := got["balance"]; !ok || v != nil {
		t.Errorf("Expected nil balance to be stored, got %v (present %v)", v, ok)
	}
	if got["extra"] != true {
		t.Error("Expected existing keys to be kept")
	}

	if _, err := cur.FetchInto(nil, "a"); !errors.Is(err, io.EOF) {
		t.Errorf("Expected io.EOF, got %v", err)
	}
}

func TestFetchIntoAlphaOnly(t *testing.T) {
	_, _, cur := openUsers(t)
	defer cur.Close()

	row, err := cur.FetchInto(nil, "a")
	if err != nil {
		t.Fatalf("FetchInto failed: %v", err)
	}
	if len(row) != 4 || row["id"] != int64(1) || row["joined"] != "20240115" {
		t.Errorf("Unexpected named row %v", row)
	}
}

func TestColumnMetadata(t *testing.T) {
	_, _, cur := openUsers(t)
	defer cur.Close()

	names, err := cur.ColumnNames()
	if err != nil {
		t.Fatalf("ColumnNames failed: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"id", "name", "balance", "joined"}) {
		t.Errorf("Unexpected names %v", names)
	}
	again, _ := cur.ColumnNames()
	if &again[0] != &names[0] {
		t.Error("Expected ColumnNames to return the cached slice")
	}

	types, err := cur.ColumnTypes()
	if err != nil {
		t.Fatalf("ColumnTypes failed: %v", err)
	}
	want := []string{"integer", "string(10)", "number(8,2)", "date"}
	if !reflect.DeepEqual(types, want) {
		t.Errorf("Expected types %v, got %v", want, types)
	}
	if len(types) != len(names) {
		t.Errorf("Expected %d types, got %d", len(names), len(types))
	}

	n, err := cur.FieldCount()
	if err != nil {
		t.Fatalf("FieldCount failed: %v", err)
	}
	if n != 4 {
		t.Errorf("Expected 4 fields, got %d", n)
	}
}

func TestClosedCursorMetadata(t *testing.T) {
	_, _, cur := openUsers(t)
	if err := cur.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := cur.ColumnNames(); !errors.Is(err, ErrCursorClosed) {
		t.Errorf("Expected ErrCursorClosed, got %v", err)
	}
	if _, err := cur.ColumnTypes(); !errors.Is(err, ErrCursorClosed) {
		t.Errorf("Expected ErrCursorClosed, got %v", err)
	}
	if _, err := cur.FieldCount(); !errors.Is(err, ErrCursorClosed) {
		t.Errorf("Expected ErrCursorClosed, got %v", err)
	}
}

func TestCursorCloseTwice(t *testing.T) {
	client, _, cur := openUsers(t)

	if err := cur.Close(); err != nil {
		t.Fatalf("First close failed: %v", err)
	}
	if err := cur.Close(); !errors.Is(err, ErrAlreadyClosed) {
		t.Errorf("Expected ErrAlreadyClosed, got %v", err)
	}
	if client.Count("CloseCursor") != 1 || client.Count("FreeCursor") != 1 {
		t.Errorf("Expected one close and one free, got %d and %d",
			client.Count("CloseCursor"), client.Count("FreeCursor"))
	}
}

func TestFetchFailureClosesCursor(t *testing.T) {
	client, conn, cur := openUsers(t)
	client.FailNext("Fetch", esqltest.Diag(-244, "Could not do a physical-order read."))

	_, err := cur.Fetch()
	expectEngineError(t, err, "fetch cursor", -244)

	if _, err := cur.Fetch(); !errors.Is(err, ErrCursorClosed) {
		t.Errorf("Expected ErrCursorClosed, got %v", err)
	}
	rec, _ := conn.Result()
	if rec.Code != -244 {
		t.Errorf("Expected fetch diagnostics on the connection, got code %d", rec.Code)
	}
	if client.Cursors() != 0 {
		t.Errorf("Expected cursor freed, %d remain", client.Cursors())
	}
}

func TestOrphanedCursor(t *testing.T) {
	client, conn, cur := openUsers(t)

	if err := conn.Close(); err != nil {
		t.Fatalf("Failed to close connection: %v", err)
	}
	if _, err := cur.Fetch(); !errors.Is(err, ErrConnectionClosed) {
		t.Errorf("Expected ErrConnectionClosed, got %v", err)
	}

	switches := client.Count("SetCurrent")
	if err := cur.Close(); err != nil {
		t.Fatalf("Failed to close orphaned cursor: %v", err)
	}
	if client.Count("SetCurrent") != switches {
		t.Error("Expected no session switch for an orphaned cursor")
	}
	if client.Count("CloseCursor") != 0 {
		t.Error("Expected no engine cursor close without a session")
	}
	if client.Count("FreeCursor") != 1 {
		t.Errorf("Expected the cursor handle freed, got %d frees", client.Count("FreeCursor"))
	}
}

func TestIterator(t *testing.T) {
	_, _, cur := openUsers(t)

	dst := make(map[any]any)
	it := cur.Iterator(dst, "a")
	var ids []any
	for it.Next() {
		if it.Map()["id"] != it.Row()[0] {
			t.Errorf("Expected map and row to agree, got %v and %v", it.Map()["id"], it.Row()[0])
		}
		ids = append(ids, dst["id"])
	}
	if err := it.Err(); err != nil {
		t.Fatalf("Iteration failed: %v", err)
	}
	if !reflect.DeepEqual(ids, []any{int64(1), int64(2)}) {
		t.Errorf("Unexpected ids %v", ids)
	}
	if it.Next() {
		t.Error("Expected Next to stay false after the end")
	}
	if !cur.closed {
		t.Error("Expected cursor closed after iteration")
	}
}

func TestIteratorAll(t *testing.T) {
	_, _, cur := openUsers(t)

	it := cur.Iterator(nil, "")
	var indexes []int
	for i, row := range it.All() {
		indexes = append(indexes, i)
		if len(row) != 4 {
			t.Errorf("Expected 4 values, got %d", len(row))
		}
	}
	if !reflect.DeepEqual(indexes, []int{0, 1}) {
		t.Errorf("Unexpected indexes %v", indexes)
	}
	if it.Err() != nil {
		t.Errorf("Unexpected error %v", it.Err())
	}
}

func TestIteratorError(t *testing.T) {
	client, _, cur := openUsers(t)

	it := cur.Iterator(nil, "")
	if !it.Next() {
		t.Fatalf("Expected first row, got error %v", it.Err())
	}
	client.FailNext("Fetch", esqltest.Diag(-244, "Could not do a physical-order read."))
	if it.Next() {
		t.Fatal("Expected Next to fail")
	}
	expectEngineError(t, it.Err(), "fetch cursor", -244)
}
