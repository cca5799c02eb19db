package db

import (
	"errors"
	"io"
	"iter"
)

// Iterator drives repeated fetches over a cursor. The destination map and
// format given to Cursor.Iterator are reused for every row.
//
//	it := cur.Iterator(nil, "")
//	for it.Next() {
//	    fmt.Println(it.Row())
//	}
//	if err := it.Err(); err != nil {
//	    ...
//	}
type Iterator struct {
	cur    *Cursor
	dst    map[any]any
	format string
	names  []string
	row    []any
	err    error
	done   bool
}

// Iterator returns an iterator over the remaining rows. When dst is non-nil
// every row is also stored into it with FetchInto's key rules.
func (c *Cursor) Iterator(dst map[any]any, format string) *Iterator {
	return &Iterator{cur: c, dst: dst, format: format}
}

// Next fetches the next row. It returns false at the end of data or on
// error; Err tells the two apart.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	if it.dst != nil && it.names == nil {
		names, err := it.cur.ColumnNames()
		if err != nil {
			return it.stop(err)
		}
		it.names = names
	}

	row, err := it.cur.Fetch()
	if err != nil {
		return it.stop(err)
	}
	it.row = row
	if it.dst != nil {
		fillRow(it.dst, it.format, it.names, row)
	}
	return true
}

func (it *Iterator) stop(err error) bool {
	it.done = true
	it.row = nil
	if !errors.Is(err, io.EOF) {
		it.err = err
	}
	return false
}

// Row returns the row fetched by the last successful Next.
func (it *Iterator) Row() []any {
	return it.row
}

// Map returns the destination map, or nil when none was given.
func (it *Iterator) Map() map[any]any {
	return it.dst
}

// Err returns the error that stopped the iteration, if it was not the end
// of data.
func (it *Iterator) Err() error {
	return it.err
}

// All returns the remaining rows as a sequence numbered from 0. Check Err
// once the loop is done.
func (it *Iterator) All() iter.Seq2[int, []any] {
	return func(yield func(int, []any) bool) {
		for i := 0; it.Next(); i++ {
			if !yield(i, it.row) {
				return
			}
		}
	}
}
