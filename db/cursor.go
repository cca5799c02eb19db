package db

import (
	"io"
	"strings"

	"github.com/nickyhof/ifxsql/codec"
	"github.com/nickyhof/ifxsql/core"
	"github.com/nickyhof/ifxsql/esql"
	"github.com/nickyhof/ifxsql/rowbuf"
)

// Cursor is an open result set. It closes itself when Fetch reaches the end
// of data or fails.
type Cursor struct {
	env    *Environment
	conn   *Connection
	handle esql.Handle
	desc   *core.Descriptor
	buf    *rowbuf.Buffer
	names  []string
	types  []string
	closed bool
}

func newCursor(conn *Connection, handle esql.Handle, desc *core.Descriptor, buf *rowbuf.Buffer) *Cursor {
	return &Cursor{
		env:    conn.env,
		conn:   conn,
		handle: handle,
		desc:   desc,
		buf:    buf,
	}
}

// Type reports CursorResultType.
func (c *Cursor) Type() ResultType {
	return CursorResultType
}

// check reports why the cursor cannot reach the engine, if it cannot.
func (c *Cursor) check() error {
	if c.closed {
		return ErrCursorClosed
	}
	if c.conn == nil || c.conn.closed {
		return ErrConnectionClosed
	}
	return nil
}

// Fetch returns the next row, one value per column. It returns io.EOF after
// the last row; the cursor is closed by then.
func (c *Cursor) Fetch() ([]any, error) {
	var row []any
	err := c.env.ctx.Do(func() (string, error) {
		if err := c.check(); err != nil {
			return "", err
		}
		return c.conn.id, nil
	}, func(cl esql.Client) error {
		conn := c.conn
		diag := cl.Fetch(c.handle, c.buf)
		conn.diag = diag
		if !diag.OK() {
			c.release(cl)
			if diag.EndOfData() {
				return io.EOF
			}
			return conn.fail("fetch cursor", diag)
		}

		row = make([]any, c.buf.Len())
		for i := range row {
			row[i] = codec.Decode(c.buf.Cell(i), cl)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.env.metrics.AddRowsFetched(1)
	return row, nil
}

// FetchInto fetches the next row into dst, allocating it when nil. The
// format letters select the keys: 'n' for the 0-based column position, 'a'
// for the column name. An empty format means "n".
func (c *Cursor) FetchInto(dst map[any]any, format string) (map[any]any, error) {
	names, err := c.ColumnNames()
	if err != nil {
		return nil, err
	}
	row, err := c.Fetch()
	if err != nil {
		return nil, err
	}
	return fillRow(dst, format, names, row), nil
}

func fillRow(dst map[any]any, format string, names []string, row []any) map[any]any {
	if dst == nil {
		dst = make(map[any]any, len(row))
	}
	if format == "" {
		format = "n"
	}
	numeric := strings.ContainsRune(format, 'n')
	alpha := strings.ContainsRune(format, 'a')
	for i, v := range row {
		if numeric {
			dst[i] = v
		}
		if alpha {
			dst[names[i]] = v
		}
	}
	return dst
}

// ColumnNames returns the column names. The same slice is returned on every
// call; callers must not modify it.
func (c *Cursor) ColumnNames() ([]string, error) {
	var names []string
	err := c.env.ctx.Exclusive(func(esql.Client) error {
		if c.closed {
			return ErrCursorClosed
		}
		c.describe()
		names = c.names
		return nil
	})
	return names, err
}

// ColumnTypes returns the display type of each column, such as "string(10)"
// or "number(8,2)". The same slice is returned on every call.
func (c *Cursor) ColumnTypes() ([]string, error) {
	var types []string
	err := c.env.ctx.Exclusive(func(esql.Client) error {
		if c.closed {
			return ErrCursorClosed
		}
		c.describe()
		types = c.types
		return nil
	})
	return types, err
}

// describe fills both metadata caches on first use.
func (c *Cursor) describe() {
	if c.names != nil {
		return
	}
	n := c.desc.Len()
	c.names = make([]string, n)
	c.types = make([]string, n)
	for i, col := range c.desc.Columns {
		c.names[i] = col.Name
		c.types[i] = codec.TypeName(col)
	}
}

// FieldCount returns the number of columns.
func (c *Cursor) FieldCount() (int, error) {
	var n int
	err := c.env.ctx.Exclusive(func(esql.Client) error {
		if c.closed {
			return ErrCursorClosed
		}
		n = c.desc.Len()
		return nil
	})
	return n, err
}

// Close releases the cursor. Closing twice returns ErrAlreadyClosed.
func (c *Cursor) Close() error {
	return c.env.ctx.Do(func() (string, error) {
		if c.closed {
			return "", ErrAlreadyClosed
		}
		if c.conn == nil || c.conn.closed {
			// Orphaned: the session is gone, only the handle is freed.
			return "", nil
		}
		return c.conn.id, nil
	}, func(cl esql.Client) error {
		c.release(cl)
		return nil
	})
}

// release tears down the engine cursor and every buffer the cursor owns.
// The caller has made the cursor's session current when it is still open.
// The engine cursor is only closed while that session is open; the handle
// is freed either way.
func (c *Cursor) release(cl esql.Client) {
	if c.conn != nil && !c.conn.closed {
		cl.CloseCursor(c.handle)
	}
	cl.FreeCursor(c.handle)
	c.buf.Release()
	c.names = nil
	c.types = nil
	c.conn = nil
	c.closed = true
	c.env.metrics.IncCursorClosed()
}
