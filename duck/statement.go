package duck

import (
	"database/sql"

	"github.com/nickyhof/ifxsql/core"
	"github.com/nickyhof/ifxsql/esql"
	ifxsql "github.com/nickyhof/ifxsql/sql"
)

// statement is a prepared statement on a session's pinned connection.
//
// Describing a query runs it: DuckDB reports result columns only once a
// statement executes. The rows are kept as pending until a cursor takes
// them, so the query runs once per Execute.
type statement struct {
	id      string
	text    string
	session *session
	stmt    *sql.Stmt

	columns []column
	pending [][]any
	done    bool // executed while describing; ExecDirect must not run it again
}

func (s *statement) close() {
	if s.stmt != nil {
		_ = s.stmt.Close()
		s.stmt = nil
	}
	s.pending = nil
}

func (c *Client) Prepare(id, text string) (esql.Handle, core.Diagnostics) {
	s, d := c.currentSession()
	if !d.OK() {
		return "", d
	}
	stmt, err := s.conn.PrepareContext(c.ctx, text)
	if err != nil {
		return "", diagFromError(err)
	}
	if old, ok := c.statements.Get(id); ok {
		old.close()
	}
	c.statements.Set(id, &statement{id: id, text: text, session: s, stmt: stmt})
	return esql.Handle(id), core.Diagnostics{}
}

func (c *Client) statement(h esql.Handle) (*statement, core.Diagnostics) {
	st, ok := c.statements.Get(string(h))
	if !ok || st.stmt == nil {
		return nil, diag(CodeNoStatement, "Statement not prepared.")
	}
	return st, core.Diagnostics{}
}

func (c *Client) Describe(h esql.Handle) (*core.Descriptor, core.Diagnostics) {
	st, d := c.statement(h)
	if !d.OK() {
		return nil, d
	}
	if st.columns != nil || st.done {
		return descriptor(st.columns), core.Diagnostics{}
	}
	if !ifxsql.IsQuery(st.text) {
		return core.NewDescriptor(), core.Diagnostics{}
	}

	columns, rows, err := c.materialize(st.stmt.QueryContext(c.ctx))
	if err != nil {
		return nil, diagFromError(err)
	}
	st.columns, st.pending = columns, rows
	if len(columns) == 0 {
		st.done = true
	}
	return descriptor(columns), core.Diagnostics{}
}

// descriptor returns fresh metadata; the allocator rewrites it in place.
func descriptor(columns []column) *core.Descriptor {
	metas := make([]core.ColumnMeta, len(columns))
	for i, col := range columns {
		metas[i] = col.meta
	}
	return core.NewDescriptor(metas...)
}

// materialize reads a whole result set.
func (c *Client) materialize(rows *sql.Rows, err error) ([]column, [][]any, error) {
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, nil, err
	}
	columns := make([]column, len(types))
	for i, ct := range types {
		columns[i] = describeColumn(ct, c.textLen)
	}

	var data [][]any
	for rows.Next() {
		row := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range row {
			ptrs[i] = &row[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return columns, data, nil
}

func (c *Client) ExecDirect(h esql.Handle) core.Diagnostics {
	st, d := c.statement(h)
	if !d.OK() {
		return d
	}
	if st.done {
		return core.Diagnostics{}
	}

	res, err := st.stmt.ExecContext(c.ctx)
	if err != nil {
		return diagFromError(err)
	}
	st.session.track(st.text)

	var out core.Diagnostics
	if n, err := res.RowsAffected(); err == nil {
		out.Rows = int(n)
	}
	if id, err := res.LastInsertId(); err == nil {
		out.ISAM = int(id)
	}
	return out
}

// track follows transaction statements run as plain SQL so Begin, Commit
// and Rollback report the right state.
func (s *session) track(text string) {
	switch ifxsql.Lead(text) {
	case "BEGIN", "START":
		s.inTx = true
	case "COMMIT", "ROLLBACK", "END", "ABORT":
		s.inTx = false
	}
}

func (c *Client) FreeStatement(h esql.Handle) core.Diagnostics {
	st, ok := c.statements.Pop(string(h))
	if !ok {
		return diag(CodeNoStatement, "Statement not prepared.")
	}
	st.close()
	return core.Diagnostics{}
}
