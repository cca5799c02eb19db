package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nickyhof/ifxsql/core"
	"github.com/nickyhof/ifxsql/esql"
	"github.com/nickyhof/ifxsql/rowbuf"
)

// Connection is one engine session. It starts in auto-commit mode.
type Connection struct {
	env        *Environment
	id         string
	tag        string
	database   string
	stmtCount  int
	autoCommit bool
	autoBegin  bool
	diag       core.Diagnostics
	closed     bool

	createdTime time.Time
	latestTime  time.Time
	latestSQL   string
}

func newConnection(env *Environment, id, tag, database string) *Connection {
	now := time.Now()
	return &Connection{
		env:         env,
		id:          id,
		tag:         tag,
		database:    database,
		autoCommit:  true,
		createdTime: now,
		latestTime:  now,
		latestSQL:   "CONNECT",
	}
}

// ID returns the engine session id.
func (c *Connection) ID() string {
	return c.id
}

// locked runs fn under the engine lock once the connection is known to be
// open, without touching the session. It serves reads of client-side state
// and the engine's conversion routines.
func (c *Connection) locked(fn func(esql.Client) error) error {
	return c.env.ctx.Exclusive(func(cl esql.Client) error {
		if c.closed {
			return ErrConnectionClosed
		}
		return fn(cl)
	})
}

// do runs fn with the session current. ready runs under the engine lock
// once the connection is known to be open; an error from it stops the call
// before the engine is reached.
func (c *Connection) do(ready func() error, fn func(esql.Client) error) error {
	return c.env.ctx.Do(func() (string, error) {
		if c.closed {
			return "", ErrConnectionClosed
		}
		if ready != nil {
			if err := ready(); err != nil {
				return "", err
			}
		}
		return c.id, nil
	}, fn)
}

func (c *Connection) setLatest(sql string) {
	c.latestTime = time.Now()
	c.latestSQL = sql
}

func (c *Connection) state() *ConnState {
	return &ConnState{
		ID:          c.id,
		Database:    c.database,
		CreatedTime: c.createdTime,
		LatestTime:  c.latestTime,
		LatestSQL:   c.latestSQL,
	}
}

// fail counts and logs a failed engine call and builds its error.
func (c *Connection) fail(op string, diag core.Diagnostics) error {
	c.env.metrics.IncEngineError(op)
	c.env.logger.Warn("engine call failed", "op", op, "session", c.id, "code", diag.Code, "msg", diag.Message)
	return core.NewEngineError(op, diag)
}

// Execute runs one statement. Statements that describe no columns run
// directly and yield a RowCount; all others yield an open *Cursor.
func (c *Connection) Execute(text string) (Result, error) {
	var res Result
	err := c.do(nil, func(cl esql.Client) error {
		start := time.Now()
		defer func() {
			c.env.metrics.ObserveExecuteDuration(time.Since(start).Seconds())
		}()
		c.env.metrics.IncStatementTotal()
		c.setLatest(text)

		c.stmtCount++
		n := c.stmtCount
		stmt, diag := cl.Prepare(fmt.Sprintf("p_%s_%d", c.tag, n), text)
		c.diag = diag
		if !diag.OK() {
			return c.fail("prepare sql", diag)
		}

		desc, diag := cl.Describe(stmt)
		if !diag.OK() {
			c.diag = diag
			cl.FreeStatement(stmt)
			return c.fail("describe sql", diag)
		}

		if desc.Len() == 0 {
			diag = cl.ExecDirect(stmt)
			c.diag = diag
			cl.FreeStatement(stmt)
			if !diag.OK() {
				return c.fail("execute sql", diag)
			}
			res = RowCount(diag.Rows)
			return nil
		}

		buf, err := rowbuf.Allocate(desc, c.env.maxBufferSize)
		if err != nil {
			cl.FreeStatement(stmt)
			c.env.logger.Warn("row buffer allocation failed", "session", c.id, "columns", desc.Len())
			return err
		}

		cur, diag := cl.DeclareCursor(fmt.Sprintf("c_%s_%d", c.tag, n), stmt, true)
		c.diag = diag
		if !diag.OK() {
			buf.Release()
			cl.FreeStatement(stmt)
			return c.fail("declare cursor", diag)
		}
		cl.FreeStatement(stmt)

		diag = cl.OpenCursor(cur)
		c.diag = diag
		if !diag.OK() {
			buf.Release()
			cl.FreeCursor(cur)
			return c.fail("open cursor", diag)
		}

		res = newCursor(c, cur, desc, buf)
		c.env.metrics.IncCursorOpened()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Query runs a statement that returns rows.
func (c *Connection) Query(text string) (*Cursor, error) {
	res, err := c.Execute(text)
	if err != nil {
		return nil, err
	}
	cur, ok := res.(*Cursor)
	if !ok {
		return nil, ErrNotQuery
	}
	return cur, nil
}

// Exec runs a statement that returns no rows and reports the rows it
// affected. A statement that opens a cursor is closed again and rejected.
func (c *Connection) Exec(text string) (int64, error) {
	res, err := c.Execute(text)
	if err != nil {
		return 0, err
	}
	switch r := res.(type) {
	case RowCount:
		return int64(r), nil
	case *Cursor:
		if err := r.Close(); err != nil {
			return 0, errors.Join(ErrIsQuery, err)
		}
	}
	return 0, ErrIsQuery
}

// Begin starts a transaction and takes the connection out of auto-commit
// mode. Unlike SetAutoCommit(false), Commit and Rollback do not begin the
// next transaction.
func (c *Connection) Begin() error {
	return c.do(nil, func(cl esql.Client) error {
		c.setLatest("BEGIN WORK")
		diag := cl.Begin()
		c.diag = diag
		if !diag.OK() {
			return c.fail("begin transaction", diag)
		}
		c.autoCommit = false
		c.autoBegin = false
		return nil
	})
}

// Commit commits the current transaction. In auto-commit mode there is
// nothing to commit and the engine is not called.
func (c *Connection) Commit() error {
	err := c.do(func() error {
		if c.autoCommit {
			return errNothingToCommit
		}
		return nil
	}, func(cl esql.Client) error {
		return c.endTx(cl, "commit transaction", cl.Commit)
	})
	if errors.Is(err, errNothingToCommit) {
		return nil
	}
	return err
}

// Rollback rolls back the current transaction. It fails with
// ErrAutoCommitMode when there is none.
func (c *Connection) Rollback() error {
	return c.do(func() error {
		if c.autoCommit {
			return ErrAutoCommitMode
		}
		return nil
	}, func(cl esql.Client) error {
		return c.endTx(cl, "rollback transaction", cl.Rollback)
	})
}

// endTx finishes a transaction and, when auto-commit was switched off with
// SetAutoCommit, begins the next one.
func (c *Connection) endTx(cl esql.Client, op string, end func() core.Diagnostics) error {
	c.setLatest(strings.ToUpper(strings.Fields(op)[0]) + " WORK")
	diag := end()
	c.diag = diag
	if !diag.OK() {
		return c.fail(op, diag)
	}
	if c.autoBegin {
		diag = cl.Begin()
		if !diag.OK() {
			c.diag = diag
			return c.fail("begin transaction", diag)
		}
	}
	return nil
}

// SetAutoCommit switches auto-commit mode. Turning it on rolls back any open
// transaction. Turning it off begins a transaction, and another one after
// every Commit or Rollback.
func (c *Connection) SetAutoCommit(on bool) error {
	return c.do(nil, func(cl esql.Client) error {
		if on {
			cl.Rollback()
			c.autoCommit = true
			c.autoBegin = false
			return nil
		}

		diag := cl.Begin()
		c.diag = diag
		if !diag.OK() {
			return c.fail("begin transaction", diag)
		}
		c.autoCommit = false
		c.autoBegin = true
		return nil
	})
}

// AutoCommit reports whether the connection is in auto-commit mode.
func (c *Connection) AutoCommit() (bool, error) {
	var on bool
	err := c.locked(func(esql.Client) error {
		on = c.autoCommit
		return nil
	})
	return on, err
}

// LastSerial returns the serial value the last insert generated.
func (c *Connection) LastSerial() (int, error) {
	var serial int
	err := c.locked(func(esql.Client) error {
		serial = c.diag.ISAM
		return nil
	})
	return serial, err
}

// ResultRecord is the diagnostics of the last engine call.
type ResultRecord struct {
	Code   int
	ISAM   int
	Rows   int
	Errm   string
	ErrMsg string
}

// Map returns the record keyed by field name.
func (r ResultRecord) Map() map[string]any {
	return map[string]any{
		"code":    r.Code,
		"isam":    r.ISAM,
		"rows":    r.Rows,
		"errm":    r.Errm,
		"err_msg": r.ErrMsg,
	}
}

// Result returns the diagnostics of the last engine call made through the
// connection.
func (c *Connection) Result() (ResultRecord, error) {
	var rec ResultRecord
	err := c.locked(func(esql.Client) error {
		rec = ResultRecord{
			Code:   c.diag.Code,
			ISAM:   c.diag.ISAM,
			Rows:   c.diag.Rows,
			Errm:   c.diag.Message,
			ErrMsg: c.diag.Summary(),
		}
		return nil
	})
	return rec, err
}

// ResultValue returns one field of Result. Keys other than strings, and
// unknown names, yield nil.
func (c *Connection) ResultValue(key any) (any, error) {
	rec, err := c.Result()
	if err != nil {
		return nil, err
	}
	name, ok := key.(string)
	if !ok {
		return nil, nil
	}
	return rec.Map()[name], nil
}

// Escape doubles single quotes so text can sit inside a SQL string literal.
func (c *Connection) Escape(text string) string {
	return Escape(text)
}

// Escape doubles single quotes so text can sit inside a SQL string literal.
func Escape(text string) string {
	return strings.ReplaceAll(text, "'", "''")
}

// DateToInt parses text with the engine's date routine and returns the day
// number. The format defaults to core.DefaultDateFormat.
func (c *Connection) DateToInt(text string, format ...string) (int, error) {
	pattern := datePattern(format)
	var days int32
	err := c.locked(func(cl esql.Client) error {
		v, err := cl.ParseDate(text, pattern)
		if err != nil {
			return fmt.Errorf("%w: %q", core.ErrDateConvert, text)
		}
		days = v
		return nil
	})
	return int(days), err
}

// IntToDate formats a day number with the engine's date routine. The format
// defaults to core.DefaultDateFormat.
func (c *Connection) IntToDate(days int, format ...string) (string, error) {
	pattern := datePattern(format)
	var text string
	err := c.locked(func(cl esql.Client) error {
		v, err := cl.FormatDate(int32(days), pattern)
		if err != nil {
			return fmt.Errorf("%w: %d", core.ErrDateConvert, days)
		}
		text = v
		return nil
	})
	return text, err
}

func datePattern(format []string) string {
	if len(format) > 0 && format[0] != "" {
		return format[0]
	}
	return core.DefaultDateFormat
}

// Close rolls back any open transaction and ends the session. Cursors still
// open on the connection are left to their owners.
func (c *Connection) Close() error {
	err := c.env.ctx.Do(func() (string, error) {
		if c.closed {
			return "", ErrAlreadyClosed
		}
		return c.id, nil
	}, func(cl esql.Client) error {
		cl.Rollback()
		if diag := cl.CloseSession(c.id); !diag.OK() {
			c.env.logger.Warn("disconnect failed", "session", c.id, "code", diag.Code, "msg", diag.Message)
		}
		c.closed = true
		c.env.detach(c)
		return nil
	})
	if err != nil {
		return err
	}
	c.env.metrics.IncConnectionClosed()
	c.env.logger.Debug("connection closed", "session", c.id)
	return nil
}
