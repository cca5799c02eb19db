package duck

import "github.com/nickyhof/ifxsql/core"

func (c *Client) Begin() core.Diagnostics {
	s, d := c.currentSession()
	if !d.OK() {
		return d
	}
	if s.inTx {
		return diag(CodeAlreadyInTx, "Already in transaction.")
	}
	if _, err := s.conn.ExecContext(c.ctx, "BEGIN TRANSACTION"); err != nil {
		return diagFromError(err)
	}
	s.inTx = true
	return core.Diagnostics{}
}

func (c *Client) Commit() core.Diagnostics {
	return c.end("COMMIT")
}

func (c *Client) Rollback() core.Diagnostics {
	return c.end("ROLLBACK")
}

func (c *Client) end(stmt string) core.Diagnostics {
	s, d := c.currentSession()
	if !d.OK() {
		return d
	}
	if !s.inTx {
		return diag(CodeNotInTx, "Not in transaction.")
	}
	if _, err := s.conn.ExecContext(c.ctx, stmt); err != nil {
		return diagFromError(err)
	}
	s.inTx = false
	return core.Diagnostics{}
}
