package duck

import (
	"github.com/nickyhof/ifxsql/core"
	"github.com/nickyhof/ifxsql/esql"
	"github.com/nickyhof/ifxsql/rowbuf"
)

// cursor walks a materialized result set. Rows stay readable across
// commits, which is what a held cursor promises.
type cursor struct {
	id      string
	text    string
	session *session
	hold    bool

	columns []column
	pending [][]any // result taken from the statement, consumed by the first open

	rows [][]any
	pos  int
	open bool
}

func (k *cursor) close() {
	k.open = false
	k.rows = nil
	k.pos = 0
}

func (c *Client) DeclareCursor(id string, h esql.Handle, hold bool) (esql.Handle, core.Diagnostics) {
	s, d := c.currentSession()
	if !d.OK() {
		return "", d
	}
	st, d := c.statement(h)
	if !d.OK() {
		return "", d
	}
	if st.columns == nil {
		if _, d := c.Describe(h); !d.OK() {
			return "", d
		}
	}

	k := &cursor{
		id:      id,
		text:    st.text,
		session: s,
		hold:    hold,
		columns: st.columns,
		pending: st.pending,
	}
	st.pending = nil
	c.cursors.Set(id, k)
	return esql.Handle(id), core.Diagnostics{}
}

func (c *Client) cursor(h esql.Handle) (*cursor, core.Diagnostics) {
	k, ok := c.cursors.Get(string(h))
	if !ok {
		return nil, diag(CodeNoStatement, "Cursor not found.")
	}
	return k, core.Diagnostics{}
}

func (c *Client) OpenCursor(h esql.Handle) core.Diagnostics {
	k, d := c.cursor(h)
	if !d.OK() {
		return d
	}
	if !c.sessions.Has(k.session.id) {
		return diag(CodeNoSession, "Connection does not exist.")
	}

	if k.pending != nil {
		k.rows, k.pending = k.pending, nil
	} else {
		_, rows, err := c.materialize(k.session.conn.QueryContext(c.ctx, k.text))
		if err != nil {
			return diagFromError(err)
		}
		k.rows = rows
	}
	k.pos = 0
	k.open = true
	return core.Diagnostics{}
}

func (c *Client) Fetch(h esql.Handle, buf *rowbuf.Buffer) core.Diagnostics {
	k, d := c.cursor(h)
	if !d.OK() {
		return d
	}
	if !k.open {
		return diag(CodeNoStatement, "Cursor not open.")
	}
	if k.pos >= len(k.rows) {
		return core.Diagnostics{Code: core.CodeNotFound, Rows: k.pos}
	}

	row := k.rows[k.pos]
	buf.Reset()
	for i := range buf.Len() {
		var col column
		if i < len(k.columns) {
			col = k.columns[i]
		}
		var v any
		if i < len(row) {
			var err error
			if v, err = normalize(row[i], col); err != nil {
				return diag(CodeConversion, err.Error())
			}
		}
		if err := esql.Put(buf, i, v); err != nil {
			return diag(CodeConversion, err.Error())
		}
	}
	k.pos++
	return core.Diagnostics{Rows: k.pos}
}

func (c *Client) CloseCursor(h esql.Handle) core.Diagnostics {
	k, d := c.cursor(h)
	if !d.OK() {
		return d
	}
	k.close()
	return core.Diagnostics{}
}

func (c *Client) FreeCursor(h esql.Handle) core.Diagnostics {
	k, ok := c.cursors.Pop(string(h))
	if !ok {
		return diag(CodeNoStatement, "Cursor not found.")
	}
	k.close()
	k.pending = nil
	return core.Diagnostics{}
}
